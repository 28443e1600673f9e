package contact

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/config"
	"github.com/banshee-data/dancefloor/internal/dance/colormap"
	"github.com/banshee-data/dancefloor/internal/testutil"
)

func TestResolveLineAcceptsNearest(t *testing.T) {
	l := ResolveLine([]r3.Vec{{}}, []r3.Vec{{X: 0.1}, {X: 5}}, DefaultOptions())

	require.Len(t, l.Points, 1)
	testutil.AssertVecNear(t, "midpoint", l.Points[0], r3.Vec{X: 0.05}, 1e-15)
	assert.InDelta(t, 0.1, l.Distances[0], 1e-15)
	assert.Equal(t, 0, l.Pairings[0].CandidateIndex)
	assert.InDelta(t, 0.0, l.Widths[0], 1e-15)
	assert.Equal(t, colormap.Cividis(0.8), l.Colors[0])
	assert.Equal(t, l.Points, l.Curve, "single point curve is the point itself")
}

func TestResolveLineRejectsFar(t *testing.T) {
	l := ResolveLine([]r3.Vec{{}}, []r3.Vec{{X: 5}}, DefaultOptions())
	assert.True(t, l.Empty())
	assert.Empty(t, l.Points)
	assert.Empty(t, l.Distances)
	assert.Empty(t, l.Curve)
	assert.True(t, math.IsInf(l.MinDistance(), 1))
}

func TestNearestPairingsThresholdIsExclusive(t *testing.T) {
	assert.Empty(t, NearestPairings([]r3.Vec{{}}, []r3.Vec{{Y: 0.5}}, 0.5))
	assert.Len(t, NearestPairings([]r3.Vec{{}}, []r3.Vec{{Y: 0.25}}, 0.5), 1)
}

func TestNearestPairingsTieKeepsFirst(t *testing.T) {
	got := NearestPairings([]r3.Vec{{}}, []r3.Vec{{X: -0.2}, {X: 0.2}, {Y: 0.2}}, 0.4)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].CandidateIndex)
}

func TestNearestPairingsOrderAndSkips(t *testing.T) {
	probes := []r3.Vec{{X: 0}, {X: 1}, {X: 2}}
	cands := []r3.Vec{{X: 0, Y: 0.1}, {X: 2, Y: 0.3}}
	got := NearestPairings(probes, cands, 0.4)

	want := []Pairing{
		{ProbeIndex: 0, CandidateIndex: 0, Midpoint: r3.Vec{Y: 0.05}, Distance: 0.1},
		{ProbeIndex: 2, CandidateIndex: 1, Midpoint: r3.Vec{X: 2, Y: 0.15}, Distance: 0.3},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("NearestPairings mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, NearestPairings(nil, cands, 0.4))
	assert.Nil(t, NearestPairings(probes, nil, 0.4))
}

func TestResolveLineCurveAndWidths(t *testing.T) {
	probes := testutil.Line(r3.Vec{}, r3.Vec{X: 1}, 5)
	cands := []r3.Vec{{Y: 0.02}, {X: 0.5, Y: 0.04}, {X: 1, Y: 0.08}}
	opts := DefaultOptions()
	opts.Resolution = 4

	l := ResolveLine(probes, cands, opts)
	require.Len(t, l.Points, len(probes))
	require.Len(t, l.Curve, (len(l.Points)-1)*4+1)
	testutil.AssertVecEqual(t, "curve start", l.Curve[0], l.Points[0])
	testutil.AssertVecEqual(t, "curve end", l.Curve[len(l.Curve)-1], l.Points[len(l.Points)-1])
	for i, d := range l.Distances {
		assert.InDelta(t, math.Max(0.1-d, 0), l.Widths[i], 1e-15)
	}
	assert.InDelta(t, 0.02, l.MinDistance(), 1e-15)
}

func TestOptionsFromTuning(t *testing.T) {
	assert.Equal(t, DefaultOptions(), OptionsFromTuning(config.MustLoadDefaultConfig()))
}

// facing places lead and follow half a metre apart along Z, arms reaching
// forward, with the given hand separations.
func facing() (HandPair, HandPair) {
	lead := HandPair{
		Left: r3.Vec{X: -0.2, Y: 1, Z: 0.25}, LeftElbow: r3.Vec{X: -0.2, Y: 1, Z: 0},
		Right: r3.Vec{X: 0.2, Y: 1, Z: 0.25}, RightElbow: r3.Vec{X: 0.2, Y: 1, Z: 0},
	}
	follow := HandPair{
		Left: r3.Vec{X: 0.2, Y: 1, Z: 0.3}, LeftElbow: r3.Vec{X: 0.2, Y: 1, Z: 0.55},
		Right: r3.Vec{X: -0.2, Y: 1, Z: 0.3}, RightElbow: r3.Vec{X: -0.2, Y: 1, Z: 0.55},
	}
	return lead, follow
}

func TestResolveHandsCrossPairing(t *testing.T) {
	lead, follow := facing()
	m := ResolveHands(lead, follow, DefaultOptions())

	// Facing partners: lead left meets follow right.
	assert.True(t, m[0].Visible)
	assert.Equal(t, TargetCross, m[0].Target)
	assert.InDelta(t, 0.05, m[0].Distance, 1e-12)
	testutil.AssertVecNear(t, "left marker", m[0].Position, r3.Vec{X: -0.2, Y: 1, Z: 0.275}, 1e-12)

	assert.True(t, m[1].Visible)
	assert.Equal(t, TargetCross, m[1].Target)

	want := colormap.Intensify(colormap.Cividis(0.05), colormap.ContactGain(0.05))
	assert.InDelta(t, want.R, m[0].Color.R, 1e-12)
	assert.Greater(t, m[0].Color.G, 1.0, "close contact is HDR")
}

func TestResolveHandsSuppressesLoserOfSharedHand(t *testing.T) {
	lead, follow := facing()
	// Both lead hands are nearest to follow's right hand; lead left is closer.
	follow.Left = r3.Vec{X: 3, Y: 1, Z: 3}
	lead.Right = r3.Vec{X: -0.05, Y: 1, Z: 0.25}
	lead.RightElbow = r3.Vec{X: -0.05, Y: 1, Z: 0}

	m := ResolveHands(lead, follow, DefaultOptions())
	assert.True(t, m[0].Visible)
	assert.False(t, m[1].Visible)
	assert.Equal(t, HiddenSuppressed, m[1].Hidden)
	assert.Equal(t, TargetNormal, m[1].Target)
}

func TestResolveHandsEqualDistancesKeepBoth(t *testing.T) {
	// Known flicker edge: a tie on a shared follow hand suppresses neither.
	follow := HandPair{Right: r3.Vec{Y: 1, Z: 0.1}, Left: r3.Vec{X: 9, Y: 1}}
	lead := HandPair{
		Left: r3.Vec{X: -0.05, Y: 1}, LeftElbow: r3.Vec{X: -0.05, Y: 1, Z: -0.3},
		Right: r3.Vec{X: 0.05, Y: 1}, RightElbow: r3.Vec{X: 0.05, Y: 1, Z: -0.3},
	}
	m := ResolveHands(lead, follow, DefaultOptions())
	require.Equal(t, m[0].Distance, m[1].Distance)
	assert.True(t, m[0].Visible)
	assert.True(t, m[1].Visible)
}

func TestResolveHandsTooFar(t *testing.T) {
	lead, follow := facing()
	for _, p := range []*r3.Vec{&follow.Left, &follow.Right} {
		p.Z += 2
	}
	m := ResolveHands(lead, follow, DefaultOptions())
	for i := range m {
		assert.False(t, m[i].Visible)
		assert.Equal(t, HiddenTooFar, m[i].Hidden)
	}
}

func TestResolveHandsBehindReach(t *testing.T) {
	lead, follow := facing()
	// Lead reaches backwards (elbow in front of hand) toward a follow 0.3 away.
	lead.LeftElbow = r3.Vec{X: -0.2, Y: 1, Z: 0.5}
	follow.Right = r3.Vec{X: -0.2, Y: 1, Z: 0.55}
	follow.Left = r3.Vec{X: 5, Y: 1, Z: 5}

	m := ResolveHands(lead, follow, DefaultOptions())
	assert.False(t, m[0].Visible)
	assert.Equal(t, HiddenBehind, m[0].Hidden)

	// Within the reach gate the orientation check does not apply.
	follow.Right = r3.Vec{X: -0.2, Y: 1, Z: 0.3}
	m = ResolveHands(lead, follow, DefaultOptions())
	assert.True(t, m[0].Visible)
}

func TestResolveHandsIsPure(t *testing.T) {
	lead, follow := facing()
	a := ResolveHands(lead, follow, DefaultOptions())
	b := ResolveHands(lead, follow, DefaultOptions())
	assert.Equal(t, a, b)
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "normal", TargetNormal.String())
	assert.Equal(t, "cross", TargetCross.String())
}
