// Package domain holds the wire-drawing pass scheduler. Everything here is
// pure: no I/O, no state kept between calls.
package domain

import (
	"errors"
	"fmt"
	"math"

	apperrors "trefila/internal/platform/errors"
)

// Mode selects how the total reduction is spread over the passes.
type Mode string

const (
	ModeProgressive Mode = "progressive"
	ModeUniform     Mode = "uniform"
)

var (
	ErrInvalidSpec        = fmt.Errorf("%w: drawing spec", apperrors.ErrInvalidInput)
	ErrInfeasibleSchedule = errors.New("infeasible die schedule")
)

// Validate rejects modes other than progressive and uniform.
func (m Mode) Validate() error {
	switch m {
	case ModeProgressive, ModeUniform:
		return nil
	default:
		return fmt.Errorf("%w: unsupported mode %q", ErrInvalidSpec, string(m))
	}
}

// DrawingSpec is the input of one scheduling run. Diameters are in mm.
type DrawingSpec struct {
	EntryDiameter float64
	ExitDiameter  float64
	PassCount     int
	Mode          Mode
}

// Validate checks the geometry of the run. The mode is checked separately by
// Schedule because the policy functions do not read it.
func (s DrawingSpec) Validate() error {
	if !isPositiveFinite(s.EntryDiameter) {
		return fmt.Errorf("%w: entry diameter must be positive, got %v", ErrInvalidSpec, s.EntryDiameter)
	}
	if !isPositiveFinite(s.ExitDiameter) {
		return fmt.Errorf("%w: exit diameter must be positive, got %v", ErrInvalidSpec, s.ExitDiameter)
	}
	if s.ExitDiameter >= s.EntryDiameter {
		return fmt.Errorf("%w: exit diameter %.3f must be smaller than entry diameter %.3f", ErrInvalidSpec, s.ExitDiameter, s.EntryDiameter)
	}
	if s.PassCount <= 0 {
		return fmt.Errorf("%w: pass count must be positive, got %d", ErrInvalidSpec, s.PassCount)
	}
	return nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
