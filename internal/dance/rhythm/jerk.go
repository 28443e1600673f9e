// Package rhythm derives motion-intensity signals from per-joint position
// series. Jerk (the third time derivative of position) is the main signal;
// renderers use its normalised magnitude to modulate colour and width.
package rhythm

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/monitoring"
)

// MinTimeStep is the smallest per-sample time step accepted by Differentiate.
const MinTimeStep = 1e-12

// Kinematics holds the finite-difference derivatives of a position series.
// All slices have the same length as the input series.
type Kinematics struct {
	Dt           float64
	Velocity     []r3.Vec
	Acceleration []r3.Vec
	Jerk         []float64
}

// Differentiate computes forward-difference velocity, acceleration and jerk
// magnitude for positions sampled uniformly over totalTime seconds. The last
// slot of each derivative repeats the one before it.
//
// It returns false, and logs a warning, when the series has fewer than two
// samples, totalTime is not positive, or the time step is negligible.
func Differentiate(positions []r3.Vec, totalTime float64) (Kinematics, bool) {
	n := len(positions)
	if n < 2 {
		monitoring.Warnf("[rhythm] position series too short for jerk: %d samples", n)
		return Kinematics{}, false
	}
	if !(totalTime > 0) {
		monitoring.Warnf("[rhythm] total time must be positive, got %v", totalTime)
		return Kinematics{}, false
	}
	dt := totalTime / float64(n-1)
	if !(dt > MinTimeStep) {
		monitoring.Warnf("[rhythm] time step %g too small (n=%d, total=%v)", dt, n, totalTime)
		return Kinematics{}, false
	}

	k := Kinematics{
		Dt:       dt,
		Velocity: forwardDiff(positions, dt),
		Jerk:     make([]float64, n),
	}
	k.Acceleration = forwardDiff(k.Velocity, dt)
	for i := 0; i < n-1; i++ {
		k.Jerk[i] = r3.Norm(r3.Scale(1/dt, r3.Sub(k.Acceleration[i+1], k.Acceleration[i])))
	}
	k.Jerk[n-1] = k.Jerk[n-2]
	return k, true
}

func forwardDiff(xs []r3.Vec, dt float64) []r3.Vec {
	n := len(xs)
	out := make([]r3.Vec, n)
	for i := 0; i < n-1; i++ {
		out[i] = r3.Scale(1/dt, r3.Sub(xs[i+1], xs[i]))
	}
	out[n-1] = out[n-2]
	return out
}

// CalculateJerk returns the jerk magnitude per sample, or an empty slice when
// the input is degenerate. Callers treat empty as "no data".
func CalculateJerk(positions []r3.Vec, totalTime float64) []float64 {
	k, ok := Differentiate(positions, totalTime)
	if !ok {
		return []float64{}
	}
	return k.Jerk
}

// SeriesForJoint extracts one joint's positions across frames. Each frame is
// the full joint array for that instant. It returns nil when any frame lacks
// the joint.
func SeriesForJoint(frames [][]r3.Vec, joint int) []r3.Vec {
	if joint < 0 {
		return nil
	}
	out := make([]r3.Vec, len(frames))
	for i, f := range frames {
		if joint >= len(f) {
			monitoring.Warnf("[rhythm] frame %d has %d joints, want index %d", i, len(f), joint)
			return nil
		}
		out[i] = f[joint]
	}
	return out
}
