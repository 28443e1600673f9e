// Package footwork derives the floor-level visuals: fading ankle trails and
// the footprints left wherever a foot touched the ground.
package footwork

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/dancefloor/internal/dance/colormap"
	"github.com/banshee-data/dancefloor/internal/dance/geom"
)

// Marker is one trail sample behind a moving foot.
type Marker struct {
	Position  r3.Vec
	Amplifier float64
	Scale     float64
	Color     colorful.Color
}

// Trail builds markers for the most recent past ankle positions, newest
// first. past[0] is the previous frame. Fast feet leave large dark markers;
// older samples are damped by 1/(0.2i+1).
func Trail(current r3.Vec, past []r3.Vec, window int) []Marker {
	n := min(len(past), window)
	if n <= 0 {
		return nil
	}
	out := make([]Marker, n)
	for i := 0; i < n; i++ {
		var amp float64
		if i == 0 {
			amp = geom.Distance(current, past[0])
		} else {
			amp = geom.Distance(past[i-1], past[i]) / (0.2*float64(i) + 1)
		}
		out[i] = Marker{
			Position:  past[i],
			Amplifier: amp,
			Scale:     0.2 * amp,
			Color:     colormap.Cividis(1 - math.Min(1, 10*amp)),
		}
	}
	return out
}

// History returns up to window positions preceding frame, newest first,
// wrapping around the start of the series the way playback loops.
func History(series []r3.Vec, frame, window int) []r3.Vec {
	n := len(series)
	if n < 2 || window <= 0 {
		return nil
	}
	window = min(window, n-1)
	out := make([]r3.Vec, window)
	for i := range out {
		j := ((frame-1-i)%n + n) % n
		out[i] = series[j]
	}
	return out
}
