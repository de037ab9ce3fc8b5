package domain

import "math"

// PassReduction is the cross-sectional area removed by one pass.
type PassReduction struct {
	Pass             int
	ReductionPercent float64
	Status           PassStatus
}

// Area is the circular cross-section for diameter d.
func Area(d float64) float64 {
	r := d / 2
	return math.Pi * r * r
}

// ComputeReductions derives the area reduction of every pass. The previous
// diameter of pass 1 is entry. It accepts any input: a non-positive previous
// diameter yields a 0% reduction for that pass.
func ComputeReductions(entry float64, diameters []float64) []PassReduction {
	out := make([]PassReduction, len(diameters))
	prev := entry
	for i, d := range diameters {
		pct := 0.0
		if prev > 0 {
			before := Area(prev)
			pct = (before - Area(d)) / before * 100
		}
		out[i] = PassReduction{Pass: i + 1, ReductionPercent: pct}
		prev = d
	}
	return out
}
