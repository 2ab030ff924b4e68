package math

import "golang.org/x/exp/constraints"

// Clamp limits f to [low, high].
func Clamp[T constraints.Ordered](f, low, high T) T {
	return min(max(f, low), high)
}

// Saturate clamps f to the unit range.
func Saturate[T constraints.Float](f T) T {
	return Clamp(f, 0, 1)
}
