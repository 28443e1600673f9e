package spline

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/config"
)

// Kind selects a curve family for Sample.
type Kind int

const (
	KindCatmullRom Kind = iota
	KindCatmullRomLoop
	KindBezier
	KindRecursive
)

func (k Kind) String() string {
	switch k {
	case KindCatmullRom:
		return config.CurveCatmullRom
	case KindCatmullRomLoop:
		return config.CurveCatmullRomLoop
	case KindBezier:
		return config.CurveBezier
	case KindRecursive:
		return config.CurveRecursive
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a config curve name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case config.CurveCatmullRom, "":
		return KindCatmullRom, nil
	case config.CurveCatmullRomLoop:
		return KindCatmullRomLoop, nil
	case config.CurveBezier:
		return KindBezier, nil
	case config.CurveRecursive:
		return KindRecursive, nil
	}
	return 0, fmt.Errorf("unknown curve kind %q", s)
}

// Options carries the sampling parameters shared by all curve kinds.
type Options struct {
	Kind            Kind
	Resolution      int
	AdaptiveSpacing float64
	Smoothing       float64
}

// DefaultOptions returns Catmull-Rom sampling at the default resolution.
func DefaultOptions() Options {
	return Options{
		Kind:            KindCatmullRom,
		Resolution:      DefaultResolution,
		AdaptiveSpacing: DefaultAdaptiveSpacing,
		Smoothing:       DefaultSmoothing,
	}
}

// OptionsFromTuning builds Options from a tuning config. An unknown curve
// name falls back to Catmull-Rom; Validate rejects those earlier.
func OptionsFromTuning(cfg *config.TuningConfig) Options {
	kind, err := ParseKind(cfg.GetSplineLimbCurve())
	if err != nil {
		kind = KindCatmullRom
	}
	return Options{
		Kind:            kind,
		Resolution:      cfg.GetSplineResolution(),
		AdaptiveSpacing: cfg.GetSplineAdaptiveSpacing(),
		Smoothing:       cfg.GetSplineSmoothing(),
	}
}

// Sample evaluates points with the curve family selected by opts.Kind.
func Sample(points []r3.Vec, opts Options) []r3.Vec {
	switch opts.Kind {
	case KindBezier:
		return BezierThroughPoints(points, opts.Resolution)
	case KindCatmullRomLoop:
		return CatmullRom(points, opts.Resolution, true)
	case KindRecursive:
		return RecursiveBezier(points, opts.AdaptiveSpacing, opts.Smoothing)
	default:
		return CatmullRom(points, opts.Resolution, false)
	}
}
