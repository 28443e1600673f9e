package footwork

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/geom"
)

// GroundContacts scans foot series frame by frame and collects every
// sample below minY as a floor point (x, z). Feet are visited in argument
// order within each frame. Every stride-th contact, starting with the
// first, becomes a footprint.
func GroundContacts(minY float64, stride int, feet ...[]r3.Vec) []r2.Vec {
	if stride < 1 {
		stride = 1
	}
	frames := 0
	for _, f := range feet {
		frames = max(frames, len(f))
	}
	var prints []r2.Vec
	count := 0
	for i := 0; i < frames; i++ {
		for _, f := range feet {
			if i >= len(f) || f[i].Y >= minY {
				continue
			}
			if count%stride == 0 {
				prints = append(prints, r2.Vec{X: f[i].X, Y: f[i].Z})
			}
			count++
		}
	}
	return prints
}

// GroundHeading is the unit direction from the hip-ankle line to the knee,
// measured at the knee's height. It points the way the knee bends. The
// result is zero when the hip and ankle sit at the same height or the knee
// lies on the line.
func GroundHeading(ankle, knee, hip r3.Vec) r3.Vec {
	dir := r3.Sub(hip, ankle)
	if math.Abs(dir.Y) < geom.Epsilon {
		return r3.Vec{}
	}
	t := (knee.Y - ankle.Y) / dir.Y
	coplanar := r3.Add(ankle, r3.Scale(t, dir))
	off := r3.Sub(knee, coplanar)
	if r3.Norm(off) < geom.Epsilon {
		return r3.Vec{}
	}
	return r3.Unit(off)
}

// GroundAnchor projects the ankle onto the floor plane.
func GroundAnchor(ankle r3.Vec) r3.Vec {
	return r3.Vec{X: ankle.X, Z: ankle.Z}
}
