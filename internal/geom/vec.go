// Package geom provides the small amount of 3-D vector math used to
// classify finger poses. It is a thin layer over gonum's r3 package that
// adds the degenerate-input handling the classifier relies on.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// zeroLength is the squared length below which a vector is treated as zero.
const zeroLength = 1e-18

// Axis unit vectors in viewer space (X right, Y up, Z toward the camera).
var (
	AxisX = r3.Vec{X: 1}
	AxisY = r3.Vec{Y: 1}
	AxisZ = r3.Vec{Z: 1}
)

// Sub returns a - b.
func Sub(a, b r3.Vec) r3.Vec {
	return r3.Sub(a, b)
}

// Dot returns the dot product of a and b.
func Dot(a, b r3.Vec) float64 {
	return r3.Dot(a, b)
}

// IsZero reports whether v has (numerically) zero length.
func IsZero(v r3.Vec) bool {
	return r3.Norm2(v) < zeroLength
}

// Unit returns the unit vector colinear to v. The second result is false
// when v has zero length, in which case the zero vector is returned
// instead of gonum's NaN vector.
func Unit(v r3.Vec) (r3.Vec, bool) {
	if IsZero(v) {
		return r3.Vec{}, false
	}
	return r3.Unit(v), true
}

// AngleBetween returns the angle between a and b in radians, in [0, π].
// The second result is false if either vector has zero length.
func AngleBetween(a, b r3.Vec) (float64, bool) {
	if IsZero(a) || IsZero(b) {
		return 0, false
	}
	cos := r3.Cos(a, b)
	// Rounding can push |cos| just past 1 for parallel vectors.
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos), true
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through origin with direction dir. The remainder of p-origin after
// removing its projection onto dir is measured. The second result is false
// when dir has zero length.
func DistanceToLine(p, origin, dir r3.Vec) (float64, bool) {
	u, ok := Unit(dir)
	if !ok {
		return 0, false
	}
	source := r3.Sub(p, origin)
	projection := r3.Scale(r3.Dot(source, u), u)
	return r3.Norm(r3.Sub(source, projection)), true
}

// ProjectXY drops the Z component of v.
func ProjectXY(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y}
}

// ProjectZY drops the X component of v.
func ProjectZY(v r3.Vec) r3.Vec {
	return r3.Vec{Y: v.Y, Z: v.Z}
}

// Norm returns the length of v.
func Norm(v r3.Vec) float64 {
	return r3.Norm(v)
}

// Round rounds v to the given number of decimal places. Negative places
// leave v untouched.
func Round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	scale := math.Pow(10, float64(places))
	r := math.Round(v*scale) / scale
	if r == 0 {
		// avoid -0
		return 0
	}
	return r
}

// Clamp limits v to [-limit, limit]. A non-positive limit disables clamping.
func Clamp(v, limit float64) float64 {
	if limit <= 0 {
		return v
	}
	return math.Max(-limit, math.Min(limit, v))
}
