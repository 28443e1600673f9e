package hair

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/geom"
)

// minLinkLength is the separation below which a link is skipped for an
// iteration; its direction is undefined.
const minLinkLength = 1e-8

// motion is the head state shared read-only by every strand in a sub-step.
type motion struct {
	center  r3.Vec
	linear  r3.Vec
	angular r3.Vec
}

// subStep advances one strand by dt. The order of the five phases is fixed:
// each relies on the state the previous one leaves behind.
func subStep(s *Strand, pinned r3.Vec, m motion, p Params, dt float64) {
	pin(s, pinned)
	integrate(s, p.Gravity, p.Damping, dt)
	transfer(s, m, p.Mass, dt)
	for it := 0; it < p.ConstraintIterations; it++ {
		relax(s, p.Mass, dt)
	}
	if s.Kind == Dome {
		collide(s, m.center, p.SkullRadius, p.CollisionFriction, p.CollisionSegments)
	}
}

func pin(s *Strand, pinned r3.Vec) {
	s.Positions[0] = pinned
	s.Velocities[0] = r3.Vec{}
}

func integrate(s *Strand, gravity r3.Vec, damping, dt float64) {
	for i := 1; i < len(s.Positions); i++ {
		v := r3.Add(s.Velocities[i], r3.Scale(dt, gravity))
		v = r3.Sub(v, r3.Scale(damping*dt, v))
		s.Velocities[i] = v
		s.Positions[i] = r3.Add(s.Positions[i], r3.Scale(dt, v))
	}
}

// transfer drags free segments with the head's rigid motion. Heavier hair
// follows less.
func transfer(s *Strand, m motion, mass, dt float64) {
	k := dt / mass
	lin := r3.Scale(k, m.linear)
	for i := 1; i < len(s.Positions); i++ {
		rel := r3.Sub(s.Positions[i], m.center)
		spin := r3.Scale(k, r3.Cross(m.angular, rel))
		s.Positions[i] = r3.Add(s.Positions[i], r3.Add(lin, spin))
	}
}

// relax runs one pass of distance-constraint projection over every link.
// Velocities receive the same correction divided by dt so later phases see
// the corrected momentum.
func relax(s *Strand, mass, dt float64) {
	for i := 0; i < len(s.RestLengths); i++ {
		a, b := s.Positions[i], s.Positions[i+1]
		dir := r3.Sub(b, a)
		dist := r3.Norm(dir)
		if dist < minLinkLength {
			continue
		}
		corr := r3.Scale((dist-s.RestLengths[i])/dist*0.5, dir)

		if i == 0 {
			// Root is pinned: the free end takes the whole correction.
			full := r3.Scale(2/mass, corr)
			s.Positions[1] = r3.Sub(b, full)
			s.Velocities[1] = r3.Sub(s.Velocities[1], r3.Scale(1/dt, full))
			continue
		}
		half := r3.Scale(1/mass, corr)
		dv := r3.Scale(1/dt, half)
		s.Positions[i] = r3.Add(a, half)
		s.Positions[i+1] = r3.Sub(b, half)
		s.Velocities[i] = r3.Add(s.Velocities[i], dv)
		s.Velocities[i+1] = r3.Sub(s.Velocities[i+1], dv)
	}
}

// collide projects the first segments positions that are inside the skull
// sphere back onto its surface, drops their normal velocity and scales what
// remains by friction. The root sits on the surface already and is re-pinned
// at the next sub-step. A projected point can land up to a few ulps of radius
// inside the sphere.
func collide(s *Strand, center r3.Vec, radius, friction float64, segments int) {
	n := min(segments, len(s.Positions))
	for i := 0; i < n; i++ {
		to := r3.Sub(s.Positions[i], center)
		dist := r3.Norm(to)
		if dist >= radius {
			continue
		}
		normal := geom.Up
		if dist > geom.Epsilon {
			normal = r3.Scale(1/dist, to)
		}
		s.Positions[i] = r3.Add(center, r3.Scale(radius, normal))

		v := s.Velocities[i]
		v = r3.Sub(v, r3.Scale(r3.Dot(v, normal), normal))
		s.Velocities[i] = r3.Scale(friction, v)
	}
}
