// Package rootfind holds numeric solvers shared by the scheduling policies.
package rootfind

import "math"

// Func is a continuous function of one variable whose root is wanted.
type Func func(x float64) float64

// Bisect narrows [lo, hi] around a sign change of fn for exactly iterations
// halvings and returns the midpoint of the final bracket. fn may be increasing
// or decreasing. When fn keeps one sign over the bracket the endpoint with the
// smaller |fn| is returned.
func Bisect(fn Func, lo, hi float64, iterations int) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	fLo, fHi := fn(lo), fn(hi)
	if (fLo > 0) == (fHi > 0) && fLo != 0 && fHi != 0 {
		if math.Abs(fLo) <= math.Abs(fHi) {
			return lo
		}
		return hi
	}
	loPositive := fLo > 0
	for i := 0; i < iterations; i++ {
		mid := (lo + hi) / 2
		if (fn(mid) > 0) == loPositive {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
