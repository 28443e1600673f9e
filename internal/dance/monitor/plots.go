// Package monitor renders run diagnostics: PNG plots for offline review,
// HTML charts for the debug web server, and the server itself.
package monitor

import (
	"fmt"
	"os"
	"path/filepath"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/dancefloor/internal/dance/colormap"
)

const (
	plotWidth  = 12 * vg.Inch
	plotHeight = 6 * vg.Inch
)

func savePlot(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

// seriesColor spreads n series across viridis.
func seriesColor(i, n int) colorful.Color {
	if n <= 1 {
		return colormap.Viridis(0.3)
	}
	return colormap.Viridis(float64(i) / float64(n-1) * 0.9)
}

// WriteJerkPlot plots one line per named series against time, with fps
// samples per second. Empty series are skipped.
func WriteJerkPlot(path string, names []string, series [][]float64, fps float64) error {
	if len(names) != len(series) {
		return fmt.Errorf("jerk plot: %d names for %d series", len(names), len(series))
	}
	if !(fps > 0) {
		fps = 1
	}

	p := plot.New()
	p.Title.Text = "Jerk intensity"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Intensity"

	for i, s := range series {
		if len(s) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s))
		for j, v := range s {
			pts[j] = plotter.XY{X: float64(j) / fps, Y: v}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("jerk plot %s: %w", names[i], err)
		}
		line.Width = vg.Points(1)
		line.Color = seriesColor(i, len(series))
		p.Add(line)
		p.Legend.Add(names[i], line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	p.Add(plotter.NewGrid())

	return savePlot(p, path)
}

// WriteStrandPlot draws hair strands in side view: X across, Y up.
func WriteStrandPlot(path string, lines [][]r3.Vec) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Hair strands (%d)", len(lines))
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	for i, l := range lines {
		if len(l) < 2 {
			continue
		}
		pts := make(plotter.XYs, len(l))
		for j, v := range l {
			pts[j] = plotter.XY{X: v.X, Y: v.Y}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("strand %d: %w", i, err)
		}
		line.Width = vg.Points(0.75)
		line.Color = seriesColor(i, len(lines))
		p.Add(line)
	}
	p.Add(plotter.NewGrid())

	return savePlot(p, path)
}
