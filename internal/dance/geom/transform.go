package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid frame: a world position and a unit rotation.
type Transform struct {
	Position r3.Vec
	Rotation quat.Number
}

// Identity returns the transform at the origin with no rotation.
func Identity() Transform {
	return Transform{Rotation: quat.Number{Real: 1}}
}

// FromAxisAngle builds a transform at pos rotated by angle radians about axis.
// A zero axis yields no rotation.
func FromAxisAngle(pos, axis r3.Vec, angle float64) Transform {
	n := r3.Norm(axis)
	if n < Epsilon {
		return Transform{Position: pos, Rotation: quat.Number{Real: 1}}
	}
	return Transform{Position: pos, Rotation: quat.Number(r3.NewRotation(angle, axis))}
}

// rotation returns t.Rotation, treating the zero quaternion as identity so a
// zero-valued Transform behaves like Identity.
func (t Transform) rotation() r3.Rotation {
	if t.Rotation == (quat.Number{}) {
		return r3.Rotation(quat.Number{Real: 1})
	}
	return r3.Rotation(t.Rotation)
}

// Rotate applies only the rotation part of t to v.
func (t Transform) Rotate(v r3.Vec) r3.Vec {
	return t.rotation().Rotate(v)
}

// TransformPoint maps a point from t's local space to world space.
func (t Transform) TransformPoint(local r3.Vec) r3.Vec {
	return r3.Add(t.Position, t.Rotate(local))
}

// Translate returns t moved by d.
func (t Transform) Translate(d r3.Vec) Transform {
	t.Position = r3.Add(t.Position, d)
	return t
}

// LinearVelocity is the finite-difference velocity of the frame origin.
// dt <= 0 yields zero.
func LinearVelocity(prev, now Transform, dt float64) r3.Vec {
	if dt <= 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/dt, r3.Sub(now.Position, prev.Position))
}

// AngularVelocity returns the angular velocity (axis scaled by rad/s) that
// rotates prev into now over dt. It follows the shortest arc. When the delta
// rotation is the identity the axis defaults to Up, so the result is the zero
// vector rather than NaN.
func AngularVelocity(prev, now Transform, dt float64) r3.Vec {
	if dt <= 0 {
		return r3.Vec{}
	}
	delta := quat.Mul(quat.Number(now.rotation()), quat.Conj(quat.Number(prev.rotation())))
	if n := quat.Abs(delta); n > Epsilon {
		delta = quat.Scale(1/n, delta)
	} else {
		return r3.Vec{}
	}
	if delta.Real < 0 {
		delta = quat.Scale(-1, delta)
	}
	angle := 2 * math.Acos(math.Min(1, delta.Real))
	s := math.Sin(angle / 2)

	axis := Up
	if s >= Epsilon {
		axis = r3.Vec{X: delta.Imag / s, Y: delta.Jmag / s, Z: delta.Kmag / s}
	}
	return r3.Scale(angle/dt, axis)
}
