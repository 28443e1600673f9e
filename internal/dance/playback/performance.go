package playback

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/footwork"
	"github.com/banshee-data/dancefloor/internal/dance/skeleton"
)

// Dancer roles.
const (
	RoleLead   = "lead"
	RoleFollow = "follow"
)

// Track is one dancer's recorded joints, one slice per frame.
type Track struct {
	Role   string
	Layout skeleton.Layout
	Frames [][]r3.Vec
}

// Pose returns the pose at frame f. f must be in range.
func (t Track) Pose(f int) skeleton.Pose {
	return skeleton.Pose{Layout: t.Layout, Joints: t.Frames[f]}
}

// Performance is a loaded or generated recording.
type Performance struct {
	Dancers         []Track
	DurationSeconds float64
}

// FrameCount is the shortest track length; playback wraps at it.
func (p *Performance) FrameCount() int {
	if len(p.Dancers) == 0 {
		return 0
	}
	n := len(p.Dancers[0].Frames)
	for _, d := range p.Dancers[1:] {
		n = min(n, len(d.Frames))
	}
	return n
}

// FrameRate is frames per second, or 0 when the duration is unknown.
func (p *Performance) FrameRate() float64 {
	if p.DurationSeconds <= 0 || p.FrameCount() < 2 {
		return 0
	}
	return float64(p.FrameCount()-1) / p.DurationSeconds
}

// Track returns the track for role.
func (p *Performance) Track(role string) (Track, bool) {
	for _, d := range p.Dancers {
		if d.Role == role {
			return d, true
		}
	}
	return Track{}, false
}

// Validate checks that playback can start: a lead exists, every track has
// a layout, and every frame holds the layout's joints.
func (p *Performance) Validate() error {
	if p == nil {
		return fmt.Errorf("performance is nil")
	}
	if _, ok := p.Track(RoleLead); !ok {
		return fmt.Errorf("performance has no %s track", RoleLead)
	}
	if p.FrameCount() == 0 {
		return fmt.Errorf("performance has no frames")
	}
	if !(p.DurationSeconds > 0) {
		return fmt.Errorf("performance duration must be positive, got %v", p.DurationSeconds)
	}
	for _, d := range p.Dancers {
		if d.Layout == nil {
			return fmt.Errorf("%s track has no layout", d.Role)
		}
		for i, f := range d.Frames {
			if len(f) < d.Layout.JointCount() {
				return fmt.Errorf("%s frame %d has %d joints, %s needs %d",
					d.Role, i, len(f), d.Layout.Name(), d.Layout.JointCount())
			}
		}
	}
	return nil
}

// Footprints returns each dancer's floor footprints, keyed by role.
func (p *Performance) Footprints(minY float64, stride int) map[string][]r2.Vec {
	out := make(map[string][]r2.Vec, len(p.Dancers))
	for _, d := range p.Dancers {
		n := p.FrameCount()
		left := make([]r3.Vec, n)
		right := make([]r3.Vec, n)
		for i := 0; i < n; i++ {
			pose := d.Pose(i)
			left[i] = pose.Ankle(skeleton.Left)
			right[i] = pose.Ankle(skeleton.Right)
		}
		out[d.Role] = footwork.GroundContacts(minY, stride, left, right)
	}
	return out
}
