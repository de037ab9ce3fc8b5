package domain

import (
	"fmt"

	apperrors "trefila/internal/platform/errors"
)

// ReplaceDiameter returns a copy of diameters with the die of the 1-based
// pass set to value. The input slice is left untouched.
func ReplaceDiameter(diameters []float64, pass int, value float64) ([]float64, error) {
	if pass < 1 || pass > len(diameters) {
		return nil, fmt.Errorf("%w: pass %d out of range 1..%d", apperrors.ErrInvalidInput, pass, len(diameters))
	}
	if !isPositiveFinite(value) {
		return nil, fmt.Errorf("%w: diameter must be positive, got %v", apperrors.ErrInvalidInput, value)
	}
	out := make([]float64, len(diameters))
	copy(out, diameters)
	out[pass-1] = value
	return out, nil
}
