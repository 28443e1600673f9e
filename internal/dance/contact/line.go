package contact

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/colormap"
	"github.com/banshee-data/dancefloor/internal/dance/geom"
	"github.com/banshee-data/dancefloor/internal/dance/spline"
)

// Pairing is one accepted probe-to-candidate match.
type Pairing struct {
	ProbeIndex     int
	CandidateIndex int
	Midpoint       r3.Vec
	Distance       float64
}

// NearestPairings matches every probe to its nearest candidate by linear
// scan, keeping the first candidate on ties, and accepts the match when the
// distance is strictly below accept. Probes are reported in order; rejected
// probes contribute nothing.
func NearestPairings(probes, candidates []r3.Vec, accept float64) []Pairing {
	if len(probes) == 0 || len(candidates) == 0 {
		return nil
	}
	var out []Pairing
	for i, p := range probes {
		best, bestD := -1, math.Inf(1)
		for j, c := range candidates {
			if d := geom.Distance(p, c); d < bestD {
				best, bestD = j, d
			}
		}
		if best < 0 || !(bestD < accept) {
			continue
		}
		out = append(out, Pairing{
			ProbeIndex:     i,
			CandidateIndex: best,
			Midpoint:       geom.Midpoint(p, candidates[best]),
			Distance:       bestD,
		})
	}
	return out
}

// Line is the renderable contact path for one frame.
type Line struct {
	Pairings []Pairing
	// Points and Distances are parallel: one entry per accepted pairing.
	Points    []r3.Vec
	Distances []float64
	// Widths and Colors are parallel to Distances.
	Widths []float64
	Colors []colorful.Color
	// Curve is Points fitted with BezierThroughPoints.
	Curve []r3.Vec
}

// Empty reports whether no pairing was accepted.
func (l Line) Empty() bool { return len(l.Points) == 0 }

// MinDistance returns the closest accepted distance, or +Inf when empty.
func (l Line) MinDistance() float64 {
	m := math.Inf(1)
	for _, d := range l.Distances {
		m = math.Min(m, d)
	}
	return m
}

// ResolveLine pairs probes against candidates and fits the accepted
// midpoints with a through-points curve.
func ResolveLine(probes, candidates []r3.Vec, opts Options) Line {
	pairs := NearestPairings(probes, candidates, opts.AcceptDistance)
	l := Line{
		Pairings:  pairs,
		Points:    make([]r3.Vec, len(pairs)),
		Distances: make([]float64, len(pairs)),
		Widths:    make([]float64, len(pairs)),
		Colors:    make([]colorful.Color, len(pairs)),
	}
	for i, p := range pairs {
		l.Points[i] = p.Midpoint
		l.Distances[i] = p.Distance
		l.Widths[i] = math.Max(opts.RibbonWidth-p.Distance, 0)
		l.Colors[i] = colormap.Cividis(math.Min(1, p.Distance*opts.ColorScale))
	}
	l.Curve = spline.BezierThroughPoints(l.Points, opts.Resolution)
	return l
}
