package playback

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/geom"
	"github.com/banshee-data/dancefloor/internal/dance/skeleton"
)

// SyntheticGenerator builds a two-dancer COCO performance: the pair rotates
// around a shared centre, facing each other, stepping and swinging arms.
// Output depends only on the fields and Seed.
type SyntheticGenerator struct {
	Frames     int
	FrameRate  float64 // frames per second
	Separation float64 // metres between the two dancers' centres
	TurnRate   float64 // radians per second around the shared centre
	StepRate   float64 // steps per second
	StepHeight float64 // metres an ankle lifts
	Jitter     float64 // standard deviation of per-joint noise, metres
	Seed       int64
}

// NewSyntheticGenerator returns a generator with demo defaults.
func NewSyntheticGenerator(seed int64) *SyntheticGenerator {
	return &SyntheticGenerator{
		Frames:     240,
		FrameRate:  30,
		Separation: 0.6,
		TurnRate:   0.8,
		StepRate:   1.5,
		StepHeight: 0.12,
		Jitter:     0.002,
		Seed:       seed,
	}
}

// Generate produces the performance.
func (g *SyntheticGenerator) Generate() *Performance {
	rng := rand.New(rand.NewSource(g.Seed))
	n := max(g.Frames, 1)
	lead := Track{Role: RoleLead, Layout: skeleton.Coco, Frames: make([][]r3.Vec, n)}
	follow := Track{Role: RoleFollow, Layout: skeleton.Coco, Frames: make([][]r3.Vec, n)}

	phase := rng.Float64() * 2 * math.Pi
	half := g.Separation / 2
	for i := 0; i < n; i++ {
		t := float64(i) / g.FrameRate
		theta := phase + g.TurnRate*t
		off := r3.Vec{X: half * math.Cos(theta), Z: half * math.Sin(theta)}
		leadAt := off
		followAt := r3.Scale(-1, off)

		step := 2 * math.Pi * g.StepRate * t
		lead.Frames[i] = g.jitter(rng, cocoPose(leadAt, followAt, step, g.StepHeight))
		// The follow mirrors the lead's footwork.
		follow.Frames[i] = g.jitter(rng, cocoPose(followAt, leadAt, step+math.Pi, g.StepHeight))
	}

	return &Performance{
		Dancers:         []Track{lead, follow},
		DurationSeconds: float64(max(n-1, 1)) / g.FrameRate,
	}
}

func (g *SyntheticGenerator) jitter(rng *rand.Rand, joints []r3.Vec) []r3.Vec {
	if g.Jitter <= 0 {
		return joints
	}
	for i := range joints {
		joints[i].X += rng.NormFloat64() * g.Jitter
		joints[i].Z += rng.NormFloat64() * g.Jitter
		// Grounded ankles stay exactly on the floor.
		if joints[i].Y > 0 {
			joints[i].Y = math.Max(0, joints[i].Y+rng.NormFloat64()*g.Jitter)
		}
	}
	return joints
}

// cocoPose places a standing dancer at body facing partner. Local +Z is
// forward and the dancer's left is -X.
func cocoPose(body, partner r3.Vec, step, lift float64) []r3.Vec {
	d := r3.Sub(partner, body)
	yaw := math.Atan2(d.X, d.Z)
	frame := geom.FromAxisAngle(body, geom.Up, yaw)

	s := math.Sin(step)
	leftLift := lift * math.Max(0, s)
	rightLift := lift * math.Max(0, -s)
	swing := 0.08 * s

	local := [17]r3.Vec{
		{X: 0, Y: 1.62, Z: 0.09},           // nose
		{X: -0.03, Y: 1.66, Z: 0.07},       // left eye
		{X: 0.03, Y: 1.66, Z: 0.07},        // right eye
		{X: -0.07, Y: 1.63, Z: 0},          // left ear
		{X: 0.07, Y: 1.63, Z: 0},           // right ear
		{X: -0.19, Y: 1.45, Z: 0},          // left shoulder
		{X: 0.19, Y: 1.45, Z: 0},           // right shoulder
		{X: -0.27, Y: 1.2, Z: 0.1 + swing}, // left elbow
		{X: 0.27, Y: 1.2, Z: 0.1 - swing},  // right elbow
		{X: -0.2, Y: 1.1, Z: 0.3 + swing},  // left wrist
		{X: 0.2, Y: 1.1, Z: 0.3 - swing},   // right wrist
		{X: -0.1, Y: 0.95, Z: 0},           // left hip
		{X: 0.1, Y: 0.95, Z: 0},            // right hip
		{X: -0.1, Y: 0.5 + leftLift, Z: 0.04 + leftLift/2},
		{X: 0.1, Y: 0.5 + rightLift, Z: 0.04 + rightLift/2},
		{X: -0.1, Y: leftLift, Z: 0}, // left ankle
		{X: 0.1, Y: rightLift, Z: 0}, // right ankle
	}
	out := make([]r3.Vec, len(local))
	for i, p := range local {
		out[i] = frame.TransformPoint(p)
	}
	return out
}
