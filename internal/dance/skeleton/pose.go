package skeleton

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/contact"
	"github.com/banshee-data/dancefloor/internal/dance/geom"
)

// Pose is one dancer's joints for one frame, indexed by Layout.
type Pose struct {
	Layout Layout
	Joints []r3.Vec
}

// Valid reports whether the pose has every joint its layout names.
func (p Pose) Valid() bool {
	return p.Layout != nil && len(p.Joints) >= p.Layout.JointCount()
}

func (p Pose) at(i int) r3.Vec {
	if i < 0 || i >= len(p.Joints) {
		return r3.Vec{}
	}
	return p.Joints[i]
}

func (p Pose) chain(idx []int) []r3.Vec {
	out := make([]r3.Vec, len(idx))
	for i, j := range idx {
		out[i] = p.at(j)
	}
	return out
}

func (p Pose) Head() r3.Vec           { return p.at(p.Layout.Head()) }
func (p Pose) Shoulder(s Side) r3.Vec { return p.at(p.Layout.Shoulder(s)) }
func (p Pose) Elbow(s Side) r3.Vec    { return p.at(p.Layout.Elbow(s)) }
func (p Pose) Hand(s Side) r3.Vec     { return p.at(p.Layout.Hand(s)) }
func (p Pose) Hip(s Side) r3.Vec      { return p.at(p.Layout.Hip(s)) }
func (p Pose) Knee(s Side) r3.Vec     { return p.at(p.Layout.Knee(s)) }
func (p Pose) Ankle(s Side) r3.Vec    { return p.at(p.Layout.Ankle(s)) }
func (p Pose) Arm(s Side) []r3.Vec    { return p.chain(p.Layout.Arm(s)) }
func (p Pose) Leg(s Side) []r3.Vec    { return p.chain(p.Layout.Leg(s)) }

// Limbs returns the control polylines drawn as ribbons: both arms, both
// legs, the shoulder line and the hip line.
func (p Pose) Limbs() [][]r3.Vec {
	return [][]r3.Vec{
		p.Arm(Left), p.Arm(Right),
		p.Leg(Left), p.Leg(Right),
		{p.Shoulder(Left), p.Shoulder(Right)},
		{p.Hip(Left), p.Hip(Right)},
	}
}

// Body returns the layout's joints in index order, for use as a contact
// candidate set.
func (p Pose) Body() []r3.Vec {
	n := min(len(p.Joints), p.Layout.JointCount())
	return append([]r3.Vec(nil), p.Joints[:n]...)
}

// HandPair returns the hands and elbows the contact resolver needs.
func (p Pose) HandPair() contact.HandPair {
	return contact.HandPair{
		Left:       p.Hand(Left),
		Right:      p.Hand(Right),
		LeftElbow:  p.Elbow(Left),
		RightElbow: p.Elbow(Right),
	}
}

// HeadTransform places a rigid frame at the head joint, yawed so local +X
// runs from the left shoulder to the right shoulder in the floor plane.
// Coincident shoulders leave the yaw at zero.
func (p Pose) HeadTransform() geom.Transform {
	d := r3.Sub(p.Shoulder(Right), p.Shoulder(Left))
	yaw := 0.0
	if math.Hypot(d.X, d.Z) > geom.Epsilon {
		yaw = math.Atan2(-d.Z, d.X)
	}
	return geom.FromAxisAngle(p.Head(), geom.Up, yaw)
}
