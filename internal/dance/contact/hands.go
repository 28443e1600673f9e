package contact

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/colormap"
	"github.com/banshee-data/dancefloor/internal/dance/geom"
)

// HandPair is one dancer's hands and elbows for the current frame.
type HandPair struct {
	Left       r3.Vec
	Right      r3.Vec
	LeftElbow  r3.Vec
	RightElbow r3.Vec
}

// Target names which follow hand a lead hand is paired with.
type Target int

const (
	// TargetNormal pairs same sides: lead left with follow left.
	TargetNormal Target = iota
	// TargetCross pairs opposite sides: lead left with follow right.
	TargetCross
)

func (t Target) String() string {
	if t == TargetCross {
		return "cross"
	}
	return "normal"
}

// Hide reasons reported on a HandMarker.
const (
	HiddenNone       = ""
	HiddenTooFar     = "too_far"
	HiddenBehind     = "behind_reach"
	HiddenSuppressed = "suppressed"
)

// HandMarker is the contact marker for one lead hand.
type HandMarker struct {
	Visible  bool
	Hidden   string
	Target   Target
	Position r3.Vec
	Distance float64
	// Color is cividis(min(1,d)) scaled by ContactGain(d); channels may exceed 1.
	Color colorful.Color
}

type handChoice struct {
	hand, elbow r3.Vec
	target      Target
	followSide  int // 0 left, 1 right
	other       r3.Vec
	d           float64
}

func choose(hand, elbow, same, opposite r3.Vec, side int) handChoice {
	dSame := geom.Distance(hand, same)
	dCross := geom.Distance(hand, opposite)
	c := handChoice{hand: hand, elbow: elbow, target: TargetNormal, followSide: side, other: same, d: dSame}
	if dCross < dSame {
		c.target, c.followSide, c.other, c.d = TargetCross, 1-side, opposite, dCross
	}
	return c
}

// ResolveHands returns markers for the lead's left and right hands.
//
// Each lead hand pairs with the nearer follow hand. When both lead hands
// claim the same follow hand, only the strictly closer one keeps its marker;
// equal distances leave both visible. The comparison uses this frame's
// distances only. A marker is then hidden when its distance exceeds
// HandMaxDistance, or exceeds HandReachGate while the contact lies behind
// the elbow-to-hand reach direction.
func ResolveHands(lead, follow HandPair, opts Options) [2]HandMarker {
	left := choose(lead.Left, lead.LeftElbow, follow.Left, follow.Right, 0)
	right := choose(lead.Right, lead.RightElbow, follow.Right, follow.Left, 1)

	out := [2]HandMarker{marker(left, opts), marker(right, opts)}

	if left.followSide == right.followSide {
		switch {
		case left.d < right.d:
			suppress(&out[1])
		case right.d < left.d:
			suppress(&out[0])
		}
	}
	return out
}

func suppress(m *HandMarker) {
	if m.Visible {
		m.Visible = false
		m.Hidden = HiddenSuppressed
	}
}

func marker(c handChoice, opts Options) HandMarker {
	m := HandMarker{
		Visible:  true,
		Target:   c.target,
		Position: geom.Midpoint(c.hand, c.other),
		Distance: c.d,
		Color:    colormap.Intensify(colormap.Cividis(math.Min(1, c.d)), colormap.ContactGain(c.d)),
	}
	switch {
	case c.d > opts.HandMaxDistance:
		m.Visible, m.Hidden = false, HiddenTooFar
	case c.d > opts.HandReachGate && r3.Dot(r3.Sub(c.hand, c.elbow), r3.Sub(m.Position, c.hand)) < 0:
		m.Visible, m.Hidden = false, HiddenBehind
	}
	return m
}
