package spline

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/geom"
)

// DefaultResolution is the per-segment sample count used when none is given.
const DefaultResolution = 20

// CubicBezier evaluates the Bernstein-form cubic with endpoints p0, p3 and
// handles p1, p2 at t. t=0 and t=1 return p0 and p3 exactly.
func CubicBezier(p0, p1, p2, p3 r3.Vec, t float64) r3.Vec {
	switch t {
	case 0:
		return p0
	case 1:
		return p3
	}
	u := 1 - t
	u2, t2 := u*u, t*t
	out := r3.Scale(u2*u, p0)
	out = r3.Add(out, r3.Scale(3*u2*t, p1))
	out = r3.Add(out, r3.Scale(3*u*t2, p2))
	return r3.Add(out, r3.Scale(t2*t, p3))
}

// BezierThroughPoints joins consecutive points with cubic segments whose
// handles sit at 1/3 and 2/3 of the chord, so the curve touches every input
// point (C0 at the joins). Each segment contributes resolution samples after
// its start; the very first point is emitted once. The result has
// (len(points)-1)*resolution+1 samples.
func BezierThroughPoints(points []r3.Vec, resolution int) []r3.Vec {
	if len(points) < 2 {
		return clone(points)
	}
	if resolution < 1 {
		resolution = 1
	}

	out := make([]r3.Vec, 0, (len(points)-1)*resolution+1)
	out = append(out, points[0])
	for i := 0; i < len(points)-1; i++ {
		p0, p3 := points[i], points[i+1]
		p1 := geom.Lerp(p0, p3, 1.0/3)
		p2 := geom.Lerp(p0, p3, 2.0/3)
		for r := 1; r <= resolution; r++ {
			out = append(out, CubicBezier(p0, p1, p2, p3, float64(r)/float64(resolution)))
		}
	}
	return out
}

func clone(points []r3.Vec) []r3.Vec {
	if points == nil {
		return nil
	}
	return append([]r3.Vec(nil), points...)
}
