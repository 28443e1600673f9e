package hair

import (
	"math"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/geom"
	"github.com/banshee-data/dancefloor/internal/monitoring"
)

// Simulator owns the strands of one head and advances them once per tick.
// It is not safe for concurrent use; Step parallelises internally.
type Simulator struct {
	params  Params
	strands []Strand
	pinned  []r3.Vec
	prev    geom.Transform
	workers int
	ticks   uint64
}

// NewSimulator generates strands around the head at parent. A configuration
// that yields no strands produces a simulator whose Step does nothing.
func NewSimulator(p Params, parent geom.Transform) *Simulator {
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if p.SubSteps < 1 {
		p.SubSteps = 1
	}
	if !(p.Mass > 0) {
		p.Mass = 1
	}
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s := &Simulator{
		params:  p,
		prev:    parent,
		workers: workers,
	}
	s.strands = Generate(p, parent, rand.New(rand.NewSource(seed)))
	if len(s.strands) == 0 {
		monitoring.Warnf("[hair] no strands generated (top=%d layers=%d per_layer=%d segments=%d)",
			p.TopCount, p.SideLayerCount, p.SideStrandsPerLayer, p.SegmentsPerStrand)
		return s
	}
	s.pinned = make([]r3.Vec, len(s.strands))
	monitoring.Logf("[hair] generated %d strands x %d segments (seed %d, %d workers)",
		len(s.strands), p.SegmentsPerStrand, seed, workers)
	return s
}

// Params returns the parameters the simulator was built with.
func (s *Simulator) Params() Params { return s.params }

// StrandCount returns the number of simulated strands.
func (s *Simulator) StrandCount() int { return len(s.strands) }

// Strands exposes the live strand state. Callers must not modify it.
func (s *Simulator) Strands() []Strand { return s.strands }

// Ticks returns the number of completed Step calls that did work.
func (s *Simulator) Ticks() uint64 { return s.ticks }

// Step advances the hair by frameDt seconds with the head now at parent.
// The head's linear and angular velocity are taken from the change since the
// previous Step. Non-positive frameDt is ignored.
func (s *Simulator) Step(parent geom.Transform, frameDt float64) {
	if !(frameDt > 0) || len(s.strands) == 0 {
		return
	}

	for i := range s.strands {
		s.pinned[i] = parent.TransformPoint(s.strands[i].LocalRoot)
	}
	m := motion{
		center:  parent.Position,
		linear:  geom.LinearVelocity(s.prev, parent, frameDt),
		angular: geom.AngularVelocity(s.prev, parent, frameDt),
	}
	dt := frameDt / float64(s.params.SubSteps)

	for sub := 0; sub < s.params.SubSteps; sub++ {
		s.parallel(func(i int) {
			subStep(&s.strands[i], s.pinned[i], m, s.params, dt)
		})
	}

	s.prev = parent
	s.ticks++
}

// parallel runs fn for every strand index, split into contiguous chunks
// across at most s.workers goroutines, and waits for all of them.
func (s *Simulator) parallel(fn func(i int)) {
	n := len(s.strands)
	workers := min(s.workers, n)
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Lines copies every strand's segment positions for rendering.
func (s *Simulator) Lines() [][]r3.Vec {
	out := make([][]r3.Vec, len(s.strands))
	for i := range s.strands {
		out[i] = append([]r3.Vec(nil), s.strands[i].Positions...)
	}
	return out
}

// MaxStretch returns the largest relative deviation |d-rest|/rest over all
// links with a non-zero rest length. It is a solver health signal.
func (s *Simulator) MaxStretch() float64 {
	var worst float64
	for i := range s.strands {
		st := &s.strands[i]
		for j, rest := range st.RestLengths {
			if rest <= geom.Epsilon {
				continue
			}
			d := geom.Distance(st.Positions[j], st.Positions[j+1])
			worst = math.Max(worst, math.Abs(d-rest)/rest)
		}
	}
	return worst
}
