// Package playback drives a recorded performance frame by frame. Each tick
// evaluates the hair, curve, contact and footwork components in a fixed
// order and emits a FrameBundle that renderers, recorders and debug views
// consume.
package playback

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/contact"
	"github.com/banshee-data/dancefloor/internal/dance/footwork"
	"github.com/banshee-data/dancefloor/internal/dance/geom"
	"github.com/banshee-data/dancefloor/internal/dance/skeleton"
)

// DancerFrame is everything drawn for one dancer on one frame.
type DancerFrame struct {
	Role string
	Pose skeleton.Pose
	// Limbs are the sampled curves for Pose.Limbs, in the same order.
	Limbs [][]r3.Vec
	// Intensity is the normalised jerk per joint.
	Intensity []float64
	// Trails and Headings are indexed by skeleton.Side.
	Trails   [2][]footwork.Marker
	Headings [2]r3.Vec
}

// MeanIntensity averages Intensity, or returns 0 when it is empty.
func (d DancerFrame) MeanIntensity() float64 {
	if len(d.Intensity) == 0 {
		return 0
	}
	var sum float64
	for _, v := range d.Intensity {
		sum += v
	}
	return sum / float64(len(d.Intensity))
}

// HairFrame is the hair state after the tick's simulation step.
type HairFrame struct {
	Head      geom.Transform
	Strands   [][]r3.Vec
	RootWidth float64
	TipWidth  float64
	Stretch   float64
}

// FrameBundle is the output of one Driver tick.
type FrameBundle struct {
	Tick           uint64
	Frame          int
	TimestampNanos int64
	Dt             float64

	Dancers []DancerFrame
	Hair    HairFrame
	// Contact and Hands are empty when the performance has no follow.
	Contact contact.Line
	Hands   [2]contact.HandMarker
}

// Dancer returns the frame for role, or false.
func (b *FrameBundle) Dancer(role string) (DancerFrame, bool) {
	for _, d := range b.Dancers {
		if d.Role == role {
			return d, true
		}
	}
	return DancerFrame{}, false
}

// FrameStats condenses a bundle into the numbers the recorder keeps.
type FrameStats struct {
	Tick            uint64
	Frame           int
	ContactPairs    int
	MinContact      float64 // NaN when there is no contact
	HandsVisible    int
	HairStretch     float64
	LeadIntensity   float64
	FollowIntensity float64
}

// Stats summarises the bundle.
func (b *FrameBundle) Stats() FrameStats {
	s := FrameStats{
		Tick:         b.Tick,
		Frame:        b.Frame,
		ContactPairs: len(b.Contact.Points),
		MinContact:   math.NaN(),
		HairStretch:  b.Hair.Stretch,
	}
	if !b.Contact.Empty() {
		s.MinContact = b.Contact.MinDistance()
	}
	for _, h := range b.Hands {
		if h.Visible {
			s.HandsVisible++
		}
	}
	if d, ok := b.Dancer(RoleLead); ok {
		s.LeadIntensity = d.MeanIntensity()
	}
	if d, ok := b.Dancer(RoleFollow); ok {
		s.FollowIntensity = d.MeanIntensity()
	}
	return s
}
