package domain

import (
	"fmt"
	"math"

	"trefila/internal/platform/rootfind"
)

const (
	// TargetLastReduction is the area fraction the finishing pass removes
	// under the progressive policy.
	TargetLastReduction = 0.18
	// RoundingPrecision is the number of decimals kept on every die diameter.
	RoundingPrecision = 3

	BisectionIterations   = 50
	ProgressiveLowerBound = 0.001
	ProgressiveUpperBound = 0.90
	// ExitTolerance is how far, in mm, the solved progressive run may land
	// from the exit diameter before rounding.
	ExitTolerance = 1e-6
)

// DieSchedule lists the diameter after each pass. The last element always
// equals the exit diameter of the spec that produced it.
type DieSchedule struct {
	Diameters []float64
}

// Schedule runs the policy selected by spec.Mode.
func Schedule(spec DrawingSpec) (DieSchedule, error) {
	if err := spec.Mode.Validate(); err != nil {
		return DieSchedule{}, err
	}
	if spec.Mode == ModeUniform {
		return ScheduleUniform(spec)
	}
	return ScheduleProgressive(spec)
}

// ScheduleProgressive interpolates the per-pass reduction linearly from a
// solved first-pass value down to TargetLastReduction on the last pass.
func ScheduleProgressive(spec DrawingSpec) (DieSchedule, error) {
	if err := spec.Validate(); err != nil {
		return DieSchedule{}, err
	}
	if spec.PassCount == 1 {
		return DieSchedule{Diameters: []float64{spec.ExitDiameter}}, nil
	}
	rStart := ProgressiveStartReduction(spec)
	if miss := math.Abs(simulateProgressive(spec, rStart) - spec.ExitDiameter); miss > ExitTolerance {
		return DieSchedule{}, fmt.Errorf("%w: no first-pass reduction in [%.3f, %.2f] takes %.3f mm to %.3f mm in %d passes (off by %.3f mm)",
			ErrInfeasibleSchedule, ProgressiveLowerBound, ProgressiveUpperBound, spec.EntryDiameter, spec.ExitDiameter, spec.PassCount, miss)
	}
	diameters := make([]float64, spec.PassCount)
	d := spec.EntryDiameter
	for i := range diameters {
		d *= math.Sqrt(1 - progressiveReduction(rStart, i, spec.PassCount))
		diameters[i] = Round(d, RoundingPrecision)
	}
	return finalize(spec, diameters)
}

// ProgressiveStartReduction solves the first-pass area fraction that lands the
// interpolated run on the exit diameter. A single pass has no free parameter
// and returns the reduction of that pass. When no value inside the bracket
// reaches the exit diameter the nearest bound is returned.
func ProgressiveStartReduction(spec DrawingSpec) float64 {
	if spec.PassCount <= 1 {
		return 1 - math.Pow(spec.ExitDiameter/spec.EntryDiameter, 2)
	}
	lo, hi := TargetLastReduction, ProgressiveUpperBound
	if simulateProgressive(spec, TargetLastReduction) < spec.ExitDiameter {
		lo, hi = ProgressiveLowerBound, TargetLastReduction
	}
	residual := func(rStart float64) float64 {
		return simulateProgressive(spec, rStart) - spec.ExitDiameter
	}
	return rootfind.Bisect(residual, lo, hi, BisectionIterations)
}

func simulateProgressive(spec DrawingSpec, rStart float64) float64 {
	d := spec.EntryDiameter
	for i := 0; i < spec.PassCount; i++ {
		d *= math.Sqrt(1 - progressiveReduction(rStart, i, spec.PassCount))
	}
	return d
}

// progressiveReduction is the area fraction removed by pass i (0-based); n > 1.
func progressiveReduction(rStart float64, i, n int) float64 {
	t := float64(i) / float64(n-1)
	return rStart*(1-t) + TargetLastReduction*t
}

// UniformReduction is the area fraction every pass removes so that
// PassCount equal passes take the entry diameter to the exit diameter.
func UniformReduction(spec DrawingSpec) float64 {
	return 1 - math.Pow(spec.ExitDiameter/spec.EntryDiameter, 2/float64(spec.PassCount))
}

// ScheduleUniform removes the same share of area on every pass.
func ScheduleUniform(spec DrawingSpec) (DieSchedule, error) {
	if err := spec.Validate(); err != nil {
		return DieSchedule{}, err
	}
	ratio := math.Sqrt(1 - UniformReduction(spec))
	diameters := make([]float64, spec.PassCount)
	d := spec.EntryDiameter
	for i := range diameters {
		d *= ratio
		diameters[i] = Round(d, RoundingPrecision)
	}
	return finalize(spec, diameters)
}

// finalize pins the last die to the exit diameter, cancelling rounding
// drift, and rejects sequences that stop decreasing.
func finalize(spec DrawingSpec, diameters []float64) (DieSchedule, error) {
	diameters[len(diameters)-1] = spec.ExitDiameter
	prev := spec.EntryDiameter
	for i, d := range diameters {
		if d >= prev {
			return DieSchedule{}, fmt.Errorf("%w: pass %d die %.3f mm does not reduce %.3f mm", ErrInfeasibleSchedule, i+1, d, prev)
		}
		prev = d
	}
	return DieSchedule{Diameters: diameters}, nil
}

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
