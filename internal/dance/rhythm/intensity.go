package rhythm

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/dancefloor/internal/dance/geom"
)

// Intensity maps jerk magnitudes into [0, 1] by dividing by the q-quantile of
// the series, so a few spikes do not flatten the rest of the performance.
// A series whose reference quantile is zero maps to all zeros.
func Intensity(jerk []float64, q float64) []float64 {
	out := make([]float64, len(jerk))
	if len(jerk) == 0 {
		return out
	}
	if !(q > 0) || q > 1 {
		q = 1
	}

	sorted := append([]float64(nil), jerk...)
	sort.Float64s(sorted)
	ref := stat.Quantile(q, stat.Empirical, sorted, nil)
	if !(ref > MinTimeStep) {
		return out
	}
	for i, j := range jerk {
		out[i] = geom.Clamp01(j / ref)
	}
	return out
}

// Summary describes a jerk series for run records and charts.
type Summary struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Max     float64 `json:"max"`
}

// Summarize computes mean, standard deviation and max of xs. An empty series
// yields the zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	s := Summary{Samples: len(xs), Max: floats.Max(xs)}
	if len(xs) == 1 {
		s.Mean = xs[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	return s
}
