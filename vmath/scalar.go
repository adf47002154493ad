package vmath

import (
	"math"
)

// Approx reports whether two scalars are equal within eps
func Approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearestIndex returns the index of the value in vals closest to v.
// Ties resolve to the lower index. Returns -1 for an empty slice.
func NearestIndex(vals []float64, v float64) int {
	if len(vals) == 0 {
		return -1
	}
	best := 0
	bestDist := math.Abs(vals[0] - v)
	for i := 1; i < len(vals); i++ {
		d := math.Abs(vals[i] - v)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// MapToSteps maps v's position within [lo, hi] onto an integer step in
// [0, steps-1]. Out-of-range values clamp to the end steps.
func MapToSteps(v, lo, hi float64, steps int) int {
	if steps <= 1 || hi <= lo {
		return 0
	}
	t := Clamp((v-lo)/(hi-lo), 0, 1)
	return int(math.Round(t * float64(steps-1)))
}
