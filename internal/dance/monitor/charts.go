package monitor

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/dancefloor/internal/dance/storage/sqlite"
)

const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

func tickAxis(stats []sqlite.FrameStat) []string {
	x := make([]string, len(stats))
	for i, s := range stats {
		x[i] = strconv.FormatUint(s.Tick, 10)
	}
	return x
}

// RenderContactChart writes an HTML line chart of per-tick contact: the
// closest distance (gaps where nothing touched), the accepted pair count
// and visible hand markers.
func RenderContactChart(w io.Writer, title string, stats []sqlite.FrameStat) error {
	dist := make([]opts.LineData, len(stats))
	pairs := make([]opts.LineData, len(stats))
	hands := make([]opts.LineData, len(stats))
	for i, s := range stats {
		if s.HasContact() {
			dist[i] = opts.LineData{Value: s.MinContact}
		} else {
			dist[i] = opts.LineData{Value: "-"}
		}
		pairs[i] = opts.LineData{Value: s.ContactPairs}
		hands[i] = opts.LineData{Value: s.HandsVisible}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Contact", Theme: "dark", Width: "100%", Height: "600px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Contact", Subtitle: fmt.Sprintf("%s ticks=%d", title, len(stats))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Tick", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Distance (m) / count", NameLocation: "middle", NameGap: 40}),
	)
	line.SetXAxis(tickAxis(stats)).
		AddSeries("min distance", dist, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#fee838"})).
		AddSeries("pairs", pairs, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#3b496c"})).
		AddSeries("hands", hands, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#a69d75"}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render contact chart: %w", err)
	}
	return nil
}

// RenderJerkChart writes an HTML line chart with one series per name.
// Series may differ in length; the x axis spans the longest.
func RenderJerkChart(w io.Writer, title string, names []string, series [][]float64) error {
	if len(names) != len(series) {
		return fmt.Errorf("jerk chart: %d names for %d series", len(names), len(series))
	}
	n := 0
	for _, s := range series {
		n = max(n, len(s))
	}
	x := make([]string, n)
	for i := range x {
		x[i] = strconv.Itoa(i)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Jerk", Theme: "dark", Width: "100%", Height: "600px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Jerk intensity", Subtitle: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sample", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Intensity", Min: 0, Max: 1}),
	)
	line.SetXAxis(x)
	for i, s := range series {
		data := make([]opts.LineData, len(s))
		for j, v := range s {
			data[j] = opts.LineData{Value: v}
		}
		line.AddSeries(names[i], data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: seriesColor(i, len(series)).Hex()}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render jerk chart: %w", err)
	}
	return nil
}
