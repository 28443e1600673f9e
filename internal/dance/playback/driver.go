package playback

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/config"
	"github.com/banshee-data/dancefloor/internal/dance/contact"
	"github.com/banshee-data/dancefloor/internal/dance/footwork"
	"github.com/banshee-data/dancefloor/internal/dance/hair"
	"github.com/banshee-data/dancefloor/internal/dance/rhythm"
	"github.com/banshee-data/dancefloor/internal/dance/skeleton"
	"github.com/banshee-data/dancefloor/internal/dance/spline"
	"github.com/banshee-data/dancefloor/internal/monitoring"
	"github.com/banshee-data/dancefloor/internal/timeutil"
)

// Options configures a Driver.
type Options struct {
	Spline            spline.Options
	Contact           contact.Options
	Hair              hair.Params
	TrailWindow       int
	GroundMinY        float64
	FootprintStride   int
	IntensityQuantile float64
	FrameInterval     time.Duration
}

// DefaultOptions mirrors the tuning defaults.
func DefaultOptions() Options {
	return Options{
		Spline:            spline.DefaultOptions(),
		Contact:           contact.DefaultOptions(),
		Hair:              hair.DefaultParams(),
		TrailWindow:       15,
		GroundMinY:        0.01,
		FootprintStride:   5,
		IntensityQuantile: 0.95,
		FrameInterval:     30 * time.Millisecond,
	}
}

// OptionsFromTuning maps a tuning config onto driver options.
func OptionsFromTuning(cfg *config.TuningConfig) Options {
	return Options{
		Spline:            spline.OptionsFromTuning(cfg),
		Contact:           contact.OptionsFromTuning(cfg),
		Hair:              hair.ParamsFromTuning(cfg),
		TrailWindow:       cfg.GetTrailWindow(),
		GroundMinY:        cfg.GetGroundMinY(),
		FootprintStride:   cfg.GetFootprintStride(),
		IntensityQuantile: cfg.GetJerkIntensityQuantile(),
		FrameInterval:     cfg.GetFrameInterval(),
	}
}

type dancerState struct {
	track Track
	// intensity[joint][frame]
	intensity [][]float64
	ankles    [2][]r3.Vec
}

// Driver advances a performance one tick at a time. It is not safe for
// concurrent use; Run owns it while running.
type Driver struct {
	perf    *Performance
	opts    Options
	frames  int
	dancers []dancerState
	lead    int
	follow  int // -1 without a follow
	hair    *hair.Simulator
	tick    uint64
}

// NewDriver validates perf, precomputes per-joint jerk intensity and builds
// the hair simulator on the lead's head.
func NewDriver(perf *Performance, opts Options) (*Driver, error) {
	if err := perf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid performance: %w", err)
	}
	d := &Driver{
		perf:   perf,
		opts:   opts,
		frames: perf.FrameCount(),
		follow: -1,
	}
	for i, t := range perf.Dancers {
		frames := t.Frames[:d.frames]
		st := dancerState{track: t, intensity: make([][]float64, t.Layout.JointCount())}
		for j := range st.intensity {
			jerk := rhythm.CalculateJerk(rhythm.SeriesForJoint(frames, j), perf.DurationSeconds)
			st.intensity[j] = rhythm.Intensity(jerk, opts.IntensityQuantile)
		}
		for _, s := range skeleton.Sides {
			st.ankles[s] = rhythm.SeriesForJoint(frames, t.Layout.Ankle(s))
		}
		d.dancers = append(d.dancers, st)
		switch t.Role {
		case RoleLead:
			d.lead = i
		case RoleFollow:
			d.follow = i
		}
	}

	head := perf.Dancers[d.lead].Pose(0).HeadTransform()
	d.hair = hair.NewSimulator(opts.Hair, head)

	monitoring.Logf("[playback] driver ready: %d frames, %d dancers, %d hair strands",
		d.frames, len(d.dancers), d.hair.StrandCount())
	return d, nil
}

// FrameCount is the number of frames before playback wraps.
func (d *Driver) FrameCount() int { return d.frames }

// Ticks is the number of Tick calls so far.
func (d *Driver) Ticks() uint64 { return d.tick }

// Hair exposes the simulator for inspection.
func (d *Driver) Hair() *hair.Simulator { return d.hair }

// Tick evaluates frame (wrapped into range) with a wall-clock step of dt
// seconds. Order: head transform, hair step, limb curves, contact line,
// hands, foot trails, jerk intensities.
func (d *Driver) Tick(frame int, dt float64) *FrameBundle {
	f := ((frame % d.frames) + d.frames) % d.frames
	d.tick++
	b := &FrameBundle{Tick: d.tick, Frame: f, Dt: dt}

	lead := d.dancers[d.lead].track.Pose(f)
	head := lead.HeadTransform()
	d.hair.Step(head, dt)
	root, tip := d.hair.Params().Widths()
	b.Hair = HairFrame{
		Head:      head,
		Strands:   d.hair.Lines(),
		RootWidth: root,
		TipWidth:  tip,
		Stretch:   d.hair.MaxStretch(),
	}

	b.Dancers = make([]DancerFrame, len(d.dancers))
	for i, st := range d.dancers {
		pose := st.track.Pose(f)
		df := DancerFrame{Role: st.track.Role, Pose: pose}
		for _, limb := range pose.Limbs() {
			df.Limbs = append(df.Limbs, spline.Sample(limb, d.opts.Spline))
		}
		b.Dancers[i] = df
	}

	if d.follow >= 0 {
		follow := d.dancers[d.follow].track.Pose(f)
		probes := append(lead.Arm(skeleton.Left), lead.Arm(skeleton.Right)...)
		b.Contact = contact.ResolveLine(probes, follow.Body(), d.opts.Contact)
		b.Hands = contact.ResolveHands(lead.HandPair(), follow.HandPair(), d.opts.Contact)
	}

	for i, st := range d.dancers {
		df := &b.Dancers[i]
		for _, s := range skeleton.Sides {
			past := footwork.History(st.ankles[s], f, d.opts.TrailWindow)
			df.Trails[s] = footwork.Trail(df.Pose.Ankle(s), past, d.opts.TrailWindow)
			df.Headings[s] = footwork.GroundHeading(df.Pose.Ankle(s), df.Pose.Knee(s), df.Pose.Hip(s))
		}
	}

	for i, st := range d.dancers {
		in := make([]float64, len(st.intensity))
		for j, series := range st.intensity {
			if f < len(series) {
				in[j] = series[f]
			}
		}
		b.Dancers[i].Intensity = in
	}
	return b
}

// Render ticks frames consecutive frames with a fixed dt, publishing each
// bundle to sinks. It stops early when ctx is done.
func (d *Driver) Render(ctx context.Context, frames int, dt float64, sinks ...Sink) error {
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		b := d.Tick(i, dt)
		publish(b, sinks)
	}
	return nil
}

// Run ticks once per interval on clock until ctx is done, using the
// measured time between ticks as dt. It returns ctx.Err().
func (d *Driver) Run(ctx context.Context, clock timeutil.Clock, interval time.Duration, sinks ...Sink) error {
	if interval <= 0 {
		interval = d.opts.FrameInterval
	}
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	last := clock.Now()
	frame := 0
	monitoring.Logf("[playback] running at %v per frame", interval)
	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("[playback] stopped after %d ticks", d.tick)
			return ctx.Err()
		case now := <-ticker.C():
			dt := now.Sub(last).Seconds()
			last = now
			b := d.Tick(frame, dt)
			b.TimestampNanos = now.UnixNano()
			publish(b, sinks)
			frame++
		}
	}
}

func publish(b *FrameBundle, sinks []Sink) {
	for _, s := range sinks {
		s.Publish(b)
	}
}
