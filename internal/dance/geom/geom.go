// Package geom holds the small amount of 3D vector and rigid-frame math the
// playback core shares. Points are gonum r3.Vec; rotations are unit
// quaternions from gonum num/quat.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the threshold below which lengths and sines are treated as zero.
const Epsilon = 1e-9

// Up is the world up axis.
var Up = r3.Vec{X: 0, Y: 1, Z: 0}

// Lerp interpolates between a and b. It evaluates (1-t)a + tb so that t=0
// and t=1 return a and b bit-for-bit.
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	return r3.Add(r3.Scale(1-t, a), r3.Scale(t, b))
}

// Midpoint returns Lerp(a, b, 0.5).
func Midpoint(a, b r3.Vec) r3.Vec {
	return Lerp(a, b, 0.5)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// PolylineLength sums the segment lengths of pts.
func PolylineLength(pts []r3.Vec) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += Distance(pts[i-1], pts[i])
	}
	return l
}

// NearlyEqual reports whether a and b are within tol of each other.
func NearlyEqual(a, b r3.Vec, tol float64) bool {
	return Distance(a, b) <= tol
}

// Finite reports whether every component of v is a finite number.
func Finite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
