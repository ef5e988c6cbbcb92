// Package dice provides the randomness abstraction used by the battle engine.
package dice

import "math"

// Source is the randomness provider for battle draws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// Uniform returns a value drawn uniformly from [0, max).
//
// Precondition: src must be non-nil.
// Postcondition: for max > 0 the result is in [0, max); for max == 0 it is 0.
func Uniform(src Source, max float64) float64 {
	return src.Float64() * max
}

// UniformInt returns floor(Uniform(src, max)).
//
// Precondition: src must be non-nil.
// Postcondition: for max > 0 the result is an integer in [0, ceil(max)).
func UniformInt(src Source, max float64) int {
	return int(math.Floor(Uniform(src, max)))
}
