// Package colormap provides the perceptually uniform ramps used to colour
// contact ribbons, hand markers and foot trails.
package colormap

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/banshee-data/dancefloor/internal/dance/geom"
)

// CividisHex are ten evenly spaced cividis stops, dark blue to yellow.
var CividisHex = []string{"#00224e", "#123570", "#3b496c", "#575d6d", "#707173", "#8a8779", "#a69d75", "#c4b56c", "#e4cf5b", "#fee838"}

// ViridisHex are ten evenly spaced viridis stops, also used for chart visual maps.
var ViridisHex = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// Map is a colour ramp sampled on [0, 1].
type Map struct {
	name  string
	stops []colorful.Color
}

var (
	cividis = mustMap("cividis", CividisHex)
	viridis = mustMap("viridis", ViridisHex)
)

func mustMap(name string, hex []string) *Map {
	m := &Map{name: name, stops: make([]colorful.Color, len(hex))}
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(fmt.Sprintf("colormap %s: stop %d: %v", name, i, err))
		}
		m.stops[i] = c
	}
	return m
}

// Name returns the ramp name.
func (m *Map) Name() string { return m.name }

// At samples the ramp at t, clamped to [0, 1]. Neighbouring stops are
// blended in CIE L*a*b* so lightness stays monotonic between stops.
func (m *Map) At(t float64) colorful.Color {
	t = geom.Clamp01(t)
	last := len(m.stops) - 1
	pos := t * float64(last)
	i := int(pos)
	if i >= last {
		return m.stops[last]
	}
	frac := pos - float64(i)
	if frac == 0 {
		return m.stops[i]
	}
	return m.stops[i].BlendLab(m.stops[i+1], frac).Clamped()
}

// Cividis samples the cividis ramp.
func Cividis(t float64) colorful.Color { return cividis.At(t) }

// Viridis samples the viridis ramp.
func Viridis(t float64) colorful.Color { return viridis.At(t) }

// Intensify scales the RGB channels of c by gain. Gains above one produce
// HDR values beyond the displayable range; emissive renderers expect that.
func Intensify(c colorful.Color, gain float64) colorful.Color {
	return colorful.Color{R: c.R * gain, G: c.G * gain, B: c.B * gain}
}

// ContactGain is the marker emphasis 2^(3-2d) for a contact at distance d.
func ContactGain(d float64) float64 {
	return math.Exp2(3 - 2*d)
}
