// Package hair simulates rope-like hair strands pinned to a moving head.
//
// Each strand is a chain of point masses. Every outer tick is split into
// sub-steps; each sub-step pins the root to the head, integrates gravity and
// damping, transfers the head's rigid motion, relaxes the distance
// constraints and finally pushes the first few segments of dome strands out
// of the skull sphere. Strands never read each other's state, so every
// sub-step runs as a parallel-for over strands.
package hair

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/config"
)

// Params configures strand generation and the solver. Angles are radians.
type Params struct {
	SkullRadius   float64
	CardioidScale float64

	TopCount            int
	DomeMaxAngle        float64
	SideLayerCount      int
	SideStrandsPerLayer int
	RingAngleSpan       float64
	SegmentsPerStrand   int
	StrandThickness     float64

	Gravity              r3.Vec
	SubSteps             int
	ConstraintIterations int
	Damping              float64
	CollisionFriction    float64
	// CollisionSegments is how many leading segments of a dome strand are
	// tested against the skull, root included.
	CollisionSegments int
	// Mass scales down both constraint corrections and head-motion transfer.
	Mass float64

	// Workers bounds the parallel-for; zero means GOMAXPROCS.
	Workers int
	// Seed drives dome root sampling; zero seeds from the clock.
	Seed int64
}

// DefaultParams returns the stock head of hair.
func DefaultParams() Params {
	return Params{
		SkullRadius:          0.07,
		CardioidScale:        0.16,
		TopCount:             20,
		DomeMaxAngle:         60 * math.Pi / 180,
		SideLayerCount:       3,
		SideStrandsPerLayer:  10,
		RingAngleSpan:        60 * math.Pi / 180,
		SegmentsPerStrand:    6,
		StrandThickness:      0.035,
		Gravity:              r3.Vec{Y: -9.81},
		SubSteps:             10,
		ConstraintIterations: 10,
		Damping:              6.0,
		CollisionFriction:    0.1,
		CollisionSegments:    3,
		Mass:                 250,
	}
}

// ParamsFromTuning builds Params from a tuning config.
func ParamsFromTuning(cfg *config.TuningConfig) Params {
	g := cfg.GetHairGravity()
	return Params{
		SkullRadius:          cfg.GetHairSkullRadius(),
		CardioidScale:        cfg.GetHairCardioidScale(),
		TopCount:             cfg.GetHairTopCount(),
		DomeMaxAngle:         cfg.GetHairDomeMaxAngleDeg() * math.Pi / 180,
		SideLayerCount:       cfg.GetHairSideLayerCount(),
		SideStrandsPerLayer:  cfg.GetHairSideStrandsPerLayer(),
		RingAngleSpan:        cfg.GetHairRingAngleSpanDeg() * math.Pi / 180,
		SegmentsPerStrand:    cfg.GetHairSegmentsPerStrand(),
		StrandThickness:      cfg.GetHairStrandThickness(),
		Gravity:              r3.Vec{X: g[0], Y: g[1], Z: g[2]},
		SubSteps:             cfg.GetHairSubSteps(),
		ConstraintIterations: cfg.GetHairConstraintIterations(),
		Damping:              cfg.GetHairDamping(),
		CollisionFriction:    cfg.GetHairCollisionFriction(),
		CollisionSegments:    cfg.GetHairCollisionSegments(),
		Mass:                 cfg.GetHairMass(),
		Workers:              cfg.GetHairWorkers(),
		Seed:                 cfg.GetHairSeed(),
	}
}

// Widths returns the rendered line width at the root and at the tip.
func (p Params) Widths() (root, tip float64) {
	return p.StrandThickness, p.StrandThickness * 0.3
}
