package colormap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndpointsMatchStops(t *testing.T) {
	assert.Equal(t, CividisHex[0], Cividis(0).Hex())
	assert.Equal(t, CividisHex[len(CividisHex)-1], Cividis(1).Hex())
	assert.Equal(t, ViridisHex[0], Viridis(0).Hex())
	assert.Equal(t, ViridisHex[len(ViridisHex)-1], Viridis(1).Hex())
}

func TestClamping(t *testing.T) {
	assert.Equal(t, Cividis(0), Cividis(-3))
	assert.Equal(t, Cividis(1), Cividis(42))
	assert.Equal(t, Viridis(0), Viridis(math.NaN()))
}

func TestLightnessIncreases(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 20; i++ {
		l, _, _ := Cividis(float64(i) / 20).Lab()
		assert.Greater(t, l, prev, "cividis lightness not increasing at step %d", i)
		prev = l
	}
}

func TestIntensify(t *testing.T) {
	c := Cividis(0.5)
	hot := Intensify(c, ContactGain(0))
	assert.InDelta(t, c.R*8, hot.R, 1e-12)
	assert.InDelta(t, c.G*8, hot.G, 1e-12)
	assert.InDelta(t, c.B*8, hot.B, 1e-12)
}

func TestContactGain(t *testing.T) {
	assert.Equal(t, 8.0, ContactGain(0))
	assert.InDelta(t, 2.0, ContactGain(1), 1e-12)
	assert.InDelta(t, 1.0, ContactGain(1.5), 1e-12)
}

func TestMapName(t *testing.T) {
	assert.Equal(t, "cividis", cividis.Name())
	assert.Equal(t, "viridis", viridis.Name())
}
