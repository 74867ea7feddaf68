package raster

import "math"

// Sample is the set of element types a Buffer can hold.
type Sample interface {
	~uint8 | ~uint16 | ~float32 | ~float64
}

// Limits reports the representable range of T and whether T is an integer
// type. Float types report ±math.MaxFloat64.
func Limits[T Sample]() (lo, hi float64, integral bool) {
	half := 0.5
	if T(half) != 0 {
		return -math.MaxFloat64, math.MaxFloat64, false
	}
	// Every integer member of Sample is unsigned, so zero minus one wraps
	// to the type's maximum.
	var top T
	top--
	return 0, float64(top), true
}

// FromFloat converts v to T. Integer types round half away from zero and
// clamp to their range; NaN becomes zero.
func FromFloat[T Sample](v float64) T {
	s, _ := FromFloatClamped[T](v)
	return s
}

// FromFloatClamped is FromFloat that also reports whether v had to be
// clamped to fit T.
func FromFloatClamped[T Sample](v float64) (T, bool) {
	lo, hi, integral := Limits[T]()
	if !integral {
		return T(v), false
	}
	if math.IsNaN(v) {
		return 0, true
	}
	v = math.Round(v)
	switch {
	case v < lo:
		return T(lo), true
	case v > hi:
		return T(hi), true
	}
	return T(v), false
}
