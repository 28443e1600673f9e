// Package contact resolves visual contact between two dancers: a smoothed
// line through the midpoints of nearest-point pairings, and a pair of hand
// markers with cross-hand suppression and visibility gates.
//
// Everything here is a pure function of the current frame's positions.
package contact

import (
	"github.com/banshee-data/dancefloor/internal/config"
	"github.com/banshee-data/dancefloor/internal/dance/spline"
)

// Options tunes contact resolution. Distances are in the performance's
// normalised length units.
type Options struct {
	// AcceptDistance is the exclusive upper bound for a probe pairing.
	AcceptDistance float64
	// RibbonWidth is the line width at zero distance; width = max(RibbonWidth-d, 0).
	RibbonWidth float64
	// ColorScale maps distance to colormap position: min(1, d*ColorScale).
	ColorScale float64
	// Resolution is the per-segment sample count of the contact curve.
	Resolution int

	HandMaxDistance float64
	HandReachGate   float64
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		AcceptDistance:  0.4,
		RibbonWidth:     0.1,
		ColorScale:      8,
		Resolution:      spline.DefaultResolution,
		HandMaxDistance: 0.8,
		HandReachGate:   0.12,
	}
}

// OptionsFromTuning builds Options from a tuning config.
func OptionsFromTuning(cfg *config.TuningConfig) Options {
	return Options{
		AcceptDistance:  cfg.GetContactAcceptDistance(),
		RibbonWidth:     cfg.GetContactRibbonWidth(),
		ColorScale:      cfg.GetContactColorScale(),
		Resolution:      cfg.GetSplineResolution(),
		HandMaxDistance: cfg.GetContactHandMaxDistance(),
		HandReachGate:   cfg.GetContactHandReachGate(),
	}
}
