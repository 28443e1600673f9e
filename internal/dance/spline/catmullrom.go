package spline

import "gonum.org/v1/gonum/spatial/r3"

// CatmullRom interpolates a uniform Catmull-Rom spline through points.
//
// With loop=false the neighbour stencil is clamped at both ends and there are
// len(points)-1 segments; with loop=true indices wrap and a closing segment
// back to points[0] is added. Every segment is sampled at t = s/samples for
// s in [0, samples], skipping t=0 after the first segment so joins are not
// duplicated.
func CatmullRom(points []r3.Vec, samples int, loop bool) []r3.Vec {
	if len(points) < 2 {
		return clone(points)
	}
	if samples < 1 {
		samples = 1
	}

	segments := len(points) - 1
	if loop {
		segments = len(points)
	}

	out := make([]r3.Vec, 0, segments*samples+1)
	for i := 0; i < segments; i++ {
		p0 := stencil(points, i-1, loop)
		p1 := stencil(points, i, loop)
		p2 := stencil(points, i+1, loop)
		p3 := stencil(points, i+2, loop)

		start := 1
		if i == 0 {
			start = 0
		}
		for s := start; s <= samples; s++ {
			out = append(out, catmullRomPoint(p0, p1, p2, p3, float64(s)/float64(samples)))
		}
	}
	return out
}

func stencil(points []r3.Vec, i int, loop bool) r3.Vec {
	n := len(points)
	if loop {
		return points[((i%n)+n)%n]
	}
	switch {
	case i < 0:
		i = 0
	case i > n-1:
		i = n - 1
	}
	return points[i]
}

// catmullRomPoint evaluates 0.5*(2p1 + (p2-p0)t + (2p0-5p1+4p2-p3)t² + (3p1-p0-3p2+p3)t³).
// The segment passes through p1 at t=0 and p2 at t=1; both are returned exactly.
func catmullRomPoint(p0, p1, p2, p3 r3.Vec, t float64) r3.Vec {
	switch t {
	case 0:
		return p1
	case 1:
		return p2
	}
	t2 := t * t
	t3 := t2 * t

	a := r3.Scale(2, p1)
	b := r3.Sub(p2, p0)
	c := r3.Add(r3.Sub(r3.Scale(2, p0), r3.Scale(5, p1)), r3.Sub(r3.Scale(4, p2), p3))
	d := r3.Add(r3.Sub(r3.Scale(3, p1), p0), r3.Sub(p3, r3.Scale(3, p2)))

	sum := r3.Add(a, r3.Scale(t, b))
	sum = r3.Add(sum, r3.Scale(t2, c))
	sum = r3.Add(sum, r3.Scale(t3, d))
	return r3.Scale(0.5, sum)
}
