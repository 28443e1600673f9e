package playback

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/config"
	"github.com/banshee-data/dancefloor/internal/dance/skeleton"
	"github.com/banshee-data/dancefloor/internal/monitoring"
	"github.com/banshee-data/dancefloor/internal/testutil"
	"github.com/banshee-data/dancefloor/internal/timeutil"
)

func quiet(t *testing.T) {
	t.Helper()
	orig := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = orig })
}

func smallPerformance(frames int) *Performance {
	g := NewSyntheticGenerator(3)
	g.Frames = frames
	return g.Generate()
}

// lightOptions keeps the hair small so tests stay fast.
func lightOptions() Options {
	o := DefaultOptions()
	o.Hair.Seed = 11
	o.Hair.TopCount = 4
	o.Hair.SideLayerCount = 1
	o.Hair.SideStrandsPerLayer = 4
	o.Hair.SubSteps = 2
	o.Hair.ConstraintIterations = 2
	o.Hair.Workers = 2
	return o
}

func TestSyntheticGenerator_Deterministic(t *testing.T) {
	a := smallPerformance(20)
	b := smallPerformance(20)
	require.Equal(t, a, b)

	c := NewSyntheticGenerator(4)
	c.Frames = 20
	assert.NotEqual(t, a.Dancers[0].Frames[5], c.Generate().Dancers[0].Frames[5])
}

func TestSyntheticGenerator_Shape(t *testing.T) {
	p := smallPerformance(61)
	require.NoError(t, p.Validate())
	assert.Equal(t, 61, p.FrameCount())
	assert.InDelta(t, 2.0, p.DurationSeconds, 1e-12)
	assert.InDelta(t, 30.0, p.FrameRate(), 1e-9)

	lead, ok := p.Track(RoleLead)
	require.True(t, ok)
	follow, ok := p.Track(RoleFollow)
	require.True(t, ok)

	for f := 0; f < p.FrameCount(); f += 10 {
		lp, fp := lead.Pose(f), follow.Pose(f)
		assert.True(t, lp.Valid())
		gap := r3.Norm(r3.Sub(lp.Hip(skeleton.Left), fp.Hip(skeleton.Right)))
		assert.Less(t, gap, 1.0, "dancers stay close at frame %d", f)
		assert.Greater(t, lp.Head().Y, 1.5)
		assert.GreaterOrEqual(t, lp.Ankle(skeleton.Left).Y, 0.0)
	}
}

func TestPerformance_Validate(t *testing.T) {
	var nilPerf *Performance
	assert.Error(t, nilPerf.Validate())

	p := smallPerformance(5)
	p.Dancers = p.Dancers[1:]
	assert.ErrorContains(t, p.Validate(), "lead")

	p = smallPerformance(5)
	p.DurationSeconds = 0
	assert.ErrorContains(t, p.Validate(), "duration")

	p = smallPerformance(5)
	p.Dancers[1].Frames[2] = p.Dancers[1].Frames[2][:3]
	assert.ErrorContains(t, p.Validate(), "follow frame 2")

	p = smallPerformance(5)
	p.Dancers[0].Layout = nil
	assert.ErrorContains(t, p.Validate(), "layout")
}

func TestPerformance_FrameCountUsesShortestTrack(t *testing.T) {
	p := smallPerformance(10)
	p.Dancers[1].Frames = p.Dancers[1].Frames[:7]
	assert.Equal(t, 7, p.FrameCount())
}

func TestPerformance_Footprints(t *testing.T) {
	p := smallPerformance(120)
	prints := p.Footprints(0.01, 5)
	require.Contains(t, prints, RoleLead)
	require.Contains(t, prints, RoleFollow)
	assert.NotEmpty(t, prints[RoleLead])

	all := p.Footprints(0.01, 1)
	assert.GreaterOrEqual(t, len(all[RoleLead]), 5*(len(prints[RoleLead])-1)+1)
}

func TestOptionsFromTuning(t *testing.T) {
	cfg := config.DefaultTuningConfig()
	o := OptionsFromTuning(cfg)
	def := DefaultOptions()
	assert.Equal(t, def.TrailWindow, o.TrailWindow)
	assert.Equal(t, def.FootprintStride, o.FootprintStride)
	assert.Equal(t, def.FrameInterval, o.FrameInterval)
	assert.Equal(t, def.IntensityQuantile, o.IntensityQuantile)
	assert.Equal(t, def.Contact, o.Contact)
	assert.Equal(t, def.Spline, o.Spline)
}

func TestNewDriver_RejectsInvalid(t *testing.T) {
	quiet(t)
	_, err := NewDriver(&Performance{}, lightOptions())
	assert.ErrorContains(t, err, "invalid performance")
}

func TestDriver_TickProducesBundle(t *testing.T) {
	quiet(t)
	d, err := NewDriver(smallPerformance(40), lightOptions())
	require.NoError(t, err)
	require.Equal(t, 40, d.FrameCount())

	// Frame 10 is mid-stride: the held hands are level with each other.
	b := d.Tick(10, 1.0/30)
	assert.Equal(t, uint64(1), b.Tick)
	assert.Equal(t, 10, b.Frame)
	require.Len(t, b.Dancers, 2)

	lead, ok := b.Dancer(RoleLead)
	require.True(t, ok)
	assert.Len(t, lead.Limbs, len(lead.Pose.Limbs()))
	for _, c := range lead.Limbs {
		assert.NotEmpty(t, c)
	}
	assert.Len(t, lead.Intensity, skeleton.Coco.JointCount())
	for _, v := range lead.Intensity {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Len(t, lead.Trails[skeleton.Left], 10, "frame 10 has ten frames of history")

	assert.Equal(t, d.Hair().StrandCount(), len(b.Hair.Strands))
	assert.Greater(t, b.Hair.RootWidth, b.Hair.TipWidth)

	// The synthetic pair hold crossed hands, so both markers resolve.
	assert.False(t, b.Contact.Empty())
	visible := 0
	for _, h := range b.Hands {
		if h.Visible {
			visible++
		}
	}
	assert.Equal(t, 2, visible)
}

func TestDriver_HairRootsFollowHead(t *testing.T) {
	quiet(t)
	d, err := NewDriver(smallPerformance(30), lightOptions())
	require.NoError(t, err)

	for f := 0; f < 10; f++ {
		b := d.Tick(f, 1.0/30)
		for i, s := range d.Hair().Strands() {
			want := b.Hair.Head.TransformPoint(s.LocalRoot)
			testutil.AssertVecNear(t, "root", b.Hair.Strands[i][0], want, 1e-9)
		}
	}
	assert.Equal(t, uint64(10), d.Hair().Ticks())
}

func TestDriver_FramesWrap(t *testing.T) {
	quiet(t)
	d, err := NewDriver(smallPerformance(10), lightOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, d.Tick(12, 0.03).Frame)
	assert.Equal(t, 9, d.Tick(-1, 0.03).Frame)
	a := d.Tick(0, 0.03)
	b := d.Tick(10, 0.03)
	assert.Equal(t, a.Dancers[0].Pose.Joints, b.Dancers[0].Pose.Joints)
	assert.Equal(t, uint64(4), d.Ticks())
}

func TestDriver_LeadOnly(t *testing.T) {
	quiet(t)
	p := smallPerformance(10)
	p.Dancers = p.Dancers[:1]
	d, err := NewDriver(p, lightOptions())
	require.NoError(t, err)

	b := d.Tick(0, 0.03)
	assert.True(t, b.Contact.Empty())
	assert.False(t, b.Hands[0].Visible)
	s := b.Stats()
	assert.True(t, math.IsNaN(s.MinContact))
	assert.Zero(t, s.FollowIntensity)
}

func TestFrameBundle_Stats(t *testing.T) {
	quiet(t)
	d, err := NewDriver(smallPerformance(20), lightOptions())
	require.NoError(t, err)

	b := d.Tick(10, 0.03)
	s := b.Stats()
	assert.Equal(t, uint64(1), s.Tick)
	assert.Equal(t, 10, s.Frame)
	assert.Equal(t, len(b.Contact.Points), s.ContactPairs)
	assert.Equal(t, b.Contact.MinDistance(), s.MinContact)
	assert.Equal(t, 2, s.HandsVisible)
	assert.GreaterOrEqual(t, s.LeadIntensity, 0.0)
}

func TestDriver_Render(t *testing.T) {
	quiet(t)
	d, err := NewDriver(smallPerformance(10), lightOptions())
	require.NoError(t, err)

	var got []int
	sink := SinkFunc(func(b *FrameBundle) { got = append(got, b.Frame) })
	require.NoError(t, d.Render(context.Background(), 12, 0.03, sink))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Render(ctx, 5, 0.03, sink), context.Canceled)
}

type collector struct {
	mu      sync.Mutex
	bundles []*FrameBundle
}

func (c *collector) Publish(b *FrameBundle) {
	c.mu.Lock()
	c.bundles = append(c.bundles, b)
	c.mu.Unlock()
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bundles)
}

func TestDriver_RunPacesWithClock(t *testing.T) {
	quiet(t)
	d, err := NewDriver(smallPerformance(10), lightOptions())
	require.NoError(t, err)

	start := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)
	sink := &collector{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, clock, 30*time.Millisecond, sink) }()

	require.Eventually(t, func() bool { return clock.Tickers() == 1 }, time.Second, time.Millisecond)
	assert.Zero(t, sink.len())

	for i := 1; i <= 3; i++ {
		clock.Advance(30 * time.Millisecond)
		require.Eventually(t, func() bool { return sink.len() == i }, time.Second, time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	for i, b := range sink.bundles {
		assert.Equal(t, i, b.Frame)
		assert.InDelta(t, 0.03, b.Dt, 1e-9)
		assert.Equal(t, start.Add(time.Duration(i+1)*30*time.Millisecond).UnixNano(), b.TimestampNanos)
	}
}
