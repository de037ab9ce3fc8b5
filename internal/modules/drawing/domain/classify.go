package domain

// PassStatus grades one pass's reduction against the limits of its mode.
type PassStatus string

const (
	StatusOK       PassStatus = "ok"
	StatusHigh     PassStatus = "high"
	StatusLow      PassStatus = "low"
	StatusCritical PassStatus = "critical"
)

// Thresholds in percent of area removed by a single pass.
const (
	ProgressiveCriticalPercent = 29.0
	ProgressiveHighPercent     = 22.0
	UniformHighPercent         = 23.0
	UniformLowPercent          = 19.0
)

// ClassifyPass grades one reduction against the limits of the active mode.
// Unknown modes grade everything OK.
func ClassifyPass(reductionPercent float64, mode Mode) PassStatus {
	switch mode {
	case ModeProgressive:
		switch {
		case reductionPercent > ProgressiveCriticalPercent:
			return StatusCritical
		case reductionPercent > ProgressiveHighPercent:
			return StatusHigh
		}
	case ModeUniform:
		switch {
		case reductionPercent > UniformHighPercent:
			return StatusHigh
		case reductionPercent < UniformLowPercent:
			return StatusLow
		}
	}
	return StatusOK
}

// Classify returns a copy of reductions with Status filled in.
func Classify(reductions []PassReduction, mode Mode) []PassReduction {
	out := make([]PassReduction, len(reductions))
	for i, r := range reductions {
		r.Status = ClassifyPass(r.ReductionPercent, mode)
		out[i] = r
	}
	return out
}
