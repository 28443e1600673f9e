package hair

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/geom"
)

// Kind tags a strand's placement, which decides whether it collides.
type Kind int

const (
	// Dome strands grow from the crown and collide with the skull.
	Dome Kind = iota
	// Ring strands grow from the sides and back and never collide.
	Ring
)

func (k Kind) String() string {
	if k == Ring {
		return "ring"
	}
	return "dome"
}

// Strand is one simulated filament. Positions[0] is the pinned root.
type Strand struct {
	Kind  Kind
	Alpha float64
	// LocalRoot is the root offset in the head's local frame.
	LocalRoot  r3.Vec
	Positions  []r3.Vec
	Velocities []r3.Vec
	// RestLengths has one entry per link, len(Positions)-1. Fixed at generation.
	RestLengths []float64
}

// RestLength is the cardioid strand length scale*(1-cos(alpha)).
func RestLength(scale, alpha float64) float64 {
	return scale * (1 - math.Cos(alpha))
}

// Length sums the strand's rest lengths.
func (s *Strand) Length() float64 {
	var l float64
	for _, r := range s.RestLengths {
		l += r
	}
	return l
}

type root struct {
	local r3.Vec
	alpha float64
	kind  Kind
}

func sphere(radius, phi, theta float64) r3.Vec {
	return r3.Vec{
		X: radius * math.Sin(phi) * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * math.Sin(phi) * math.Sin(theta),
	}
}

// domeRoots samples TopCount roots uniformly in (phi, theta) over the crown
// cap of half-angle DomeMaxAngle.
func domeRoots(p Params, rng *rand.Rand) []root {
	out := make([]root, 0, max(p.TopCount, 0))
	for i := 0; i < p.TopCount; i++ {
		phi := rng.Float64() * p.DomeMaxAngle
		theta := rng.Float64() * 2 * math.Pi
		out = append(out, root{
			local: sphere(p.SkullRadius, phi, theta),
			alpha: theta + math.Pi/2,
			kind:  Dome,
		})
	}
	return out
}

// ringRoots places SideStrandsPerLayer roots evenly over theta in [0, pi] in
// each of SideLayerCount latitude bands below the dome.
func ringRoots(p Params) []root {
	var out []root
	start := p.DomeMaxAngle
	end := p.DomeMaxAngle + p.RingAngleSpan
	for layer := 0; layer < p.SideLayerCount; layer++ {
		phi := lerp(start, end, fraction(layer, p.SideLayerCount))
		for i := 0; i < p.SideStrandsPerLayer; i++ {
			theta := lerp(0, math.Pi, fraction(i, p.SideStrandsPerLayer))
			out = append(out, root{
				local: sphere(p.SkullRadius, phi, theta),
				alpha: 2 * theta,
				kind:  Ring,
			})
		}
	}
	return out
}

func fraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Generate builds the dome strands followed by the ring strands, with every
// segment resting at its root's world position and zero velocity. It returns
// nil when the configuration yields no strands or fewer than two segments.
func Generate(p Params, parent geom.Transform, rng *rand.Rand) []Strand {
	if p.SegmentsPerStrand < 2 {
		return nil
	}
	roots := append(domeRoots(p, rng), ringRoots(p)...)
	if len(roots) == 0 {
		return nil
	}

	links := p.SegmentsPerStrand - 1
	strands := make([]Strand, len(roots))
	for i, r := range roots {
		world := parent.TransformPoint(r.local)
		s := Strand{
			Kind:        r.kind,
			Alpha:       r.alpha,
			LocalRoot:   r.local,
			Positions:   make([]r3.Vec, p.SegmentsPerStrand),
			Velocities:  make([]r3.Vec, p.SegmentsPerStrand),
			RestLengths: make([]float64, links),
		}
		seg := RestLength(p.CardioidScale, r.alpha) / float64(links)
		for j := range s.RestLengths {
			s.RestLengths[j] = seg
		}
		for j := range s.Positions {
			s.Positions[j] = world
		}
		strands[i] = s
	}
	return strands
}
