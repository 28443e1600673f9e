package spline

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/geom"
)

// Adaptive sampling defaults: one sample every 0.03 units of control
// polyline, thinned by the 0.3 smoothing factor.
const (
	DefaultAdaptiveSpacing = 0.03
	DefaultSmoothing       = 0.3
)

// DeCasteljau evaluates the Bézier curve defined by all of points at t by
// repeated pairwise interpolation. It works on a scratch copy; points is not
// modified. An empty input yields the zero vector.
func DeCasteljau(points []r3.Vec, t float64) r3.Vec {
	switch len(points) {
	case 0:
		return r3.Vec{}
	case 1:
		return points[0]
	}
	switch t {
	case 0:
		return points[0]
	case 1:
		return points[len(points)-1]
	}

	work := clone(points)
	for n := len(work) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			work[i] = geom.Lerp(work[i], work[i+1], t)
		}
	}
	return work[0]
}

// AdaptiveSampleCount derives a sample count from the control polyline
// length: round(smoothing*length/spacing), never below 2. Zero, negative or
// non-finite lengths and spacings fall back to 2.
func AdaptiveSampleCount(points []r3.Vec, spacing, smoothing float64) int {
	length := geom.PolylineLength(points)
	if !(length > 0) || math.IsInf(length, 0) || !(spacing > 0) || !(smoothing > 0) {
		return 2
	}
	n := math.Round(smoothing * length / spacing)
	if !(n >= 2) {
		return 2
	}
	if n > maxAdaptiveSamples {
		return maxAdaptiveSamples
	}
	return int(n)
}

// maxAdaptiveSamples caps runaway counts from wildly scaled input.
const maxAdaptiveSamples = 4096

// RecursiveBezier samples the single high-order Bézier defined by points at
// an adaptive number of evenly spaced parameters. The first and last samples
// are the first and last control points.
func RecursiveBezier(points []r3.Vec, spacing, smoothing float64) []r3.Vec {
	if len(points) < 2 {
		return clone(points)
	}
	n := AdaptiveSampleCount(points, spacing, smoothing)
	out := make([]r3.Vec, n)
	for i := range out {
		out[i] = DeCasteljau(points, float64(i)/float64(n-1))
	}
	return out
}
