package emath

import "math"

// Some functions that only operate on basic types, that are useful

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// `f` is assumed to be in the range [0,1]
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}

// Clamp limits v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min { return min }
	if v > max { return max }
	return v
}

// IsZero reports whether f is close enough to zero to be treated as no weight at all.
func IsZero(f float64) bool {
	return math.Abs(f) <= 1e-8
}
