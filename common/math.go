package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(t float64) float64 {
	return Clamp(t, 0, 1)
}

// EaseIn starts slow and accelerates toward t=1.
func EaseIn(t float64) float64 {
	t = Clamp01(t)
	return t * t
}

// EaseOut starts fast and decelerates into t=1.
func EaseOut(t float64) float64 {
	t = Clamp01(t)
	return 1 - (1-t)*(1-t)
}

// Sign returns -1 for negative values and 1 otherwise.
func Sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// MirrorAngle reflects a heading in degrees across the vertical axis.
func MirrorAngle(deg float64) float64 {
	return 180 - deg
}

// TimeEpsilon absorbs float residue left by repeated fixed-step subtraction.
const TimeEpsilon = 1e-9

// Countdown subtracts dt from t and snaps to zero once within TimeEpsilon.
func Countdown(t, dt float64) float64 {
	t -= dt
	if t <= TimeEpsilon {
		return 0
	}
	return t
}
