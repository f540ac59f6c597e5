// Package astro holds the low-precision solar and lunar models used for
// prayer times and moon phases. Angles are in degrees unless noted.
package astro

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 { return d * math.Pi / 180.0 }

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 { return r * 180.0 / math.Pi }

// SinD is sin of an angle in degrees.
func SinD(d float64) float64 { return math.Sin(Deg2Rad(d)) }

// CosD is cos of an angle in degrees.
func CosD(d float64) float64 { return math.Cos(Deg2Rad(d)) }

// TanD is tan of an angle in degrees.
func TanD(d float64) float64 { return math.Tan(Deg2Rad(d)) }

// AsinD returns asin(x) in degrees.
func AsinD(x float64) float64 { return Rad2Deg(math.Asin(x)) }

// AcosD returns acos(x) in degrees.
func AcosD(x float64) float64 { return Rad2Deg(math.Acos(x)) }

// AtanD returns atan(x) in degrees.
func AtanD(x float64) float64 { return Rad2Deg(math.Atan(x)) }

// Atan2D returns atan2(y, x) in degrees.
func Atan2D(y, x float64) float64 { return Rad2Deg(math.Atan2(y, x)) }

// Normalize360 wraps an angle into [0, 360).
func Normalize360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

// Normalize24 wraps an hour value into [0, 24).
func Normalize24(h float64) float64 {
	h = math.Mod(h, 24.0)
	if h < 0 {
		h += 24.0
	}
	return h
}
