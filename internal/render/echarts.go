package render

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// echartsAssetsHost serves the echarts javascript for rendered pages.
const echartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Chart builds the interactive view of a section: one line series per
// profile part, with wells and crossings overlaid as scatter series.
func Chart(sec Section) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  sec.titleText(),
			Width:      "1200px",
			Height:     "600px",
			AssetsHost: echartsAssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    sec.titleText(),
			Subtitle: fmt.Sprintf("profiles=%d wells=%d crossings=%d", len(sec.Profiles), len(sec.Wells), len(sec.Events)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: labelOr(sec.XLabel, "Distance along section"), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: labelOr(sec.YLabel, "Elevation"), NameLocation: "middle", NameGap: 30, Scale: opts.Bool(true)}),
	)

	for _, pr := range sec.Profiles {
		data := make([]opts.LineData, 0, len(pr.Points))
		for _, pt := range pr.Points {
			data = append(data, opts.LineData{Value: []interface{}{pt.X, pt.Y}})
		}
		name := pr.Surface
		if pr.Part > 0 {
			name = fmt.Sprintf("%s/%d", pr.Surface, pr.Part)
		}
		line.AddSeries(name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}

	if len(sec.Wells) > 0 {
		sc := charts.NewScatter()
		pts := make([]opts.ScatterData, 0, len(sec.Wells))
		for _, w := range sec.Wells {
			pts = append(pts, opts.ScatterData{Value: []interface{}{w.X, w.Elevation, w.WellID}})
		}
		sc.AddSeries("wells", pts,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#444444"}),
		)
		line.Overlap(sc)
	}

	if len(sec.Events) > 0 {
		sc := charts.NewScatter()
		pts := make([]opts.ScatterData, 0, len(sec.Events))
		for _, ev := range sec.Events {
			pts = append(pts, opts.ScatterData{Value: []interface{}{ev.X, ev.Band.Max, ev.SourceID}})
		}
		sc.AddSeries("crossings", pts,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#d62728"}),
		)
		line.Overlap(sc)
	}

	return line
}

// WriteChartHTML renders the interactive section chart to w.
func WriteChartHTML(sec Section, w io.Writer) error {
	var buf bytes.Buffer
	if err := Chart(sec).Render(&buf); err != nil {
		return fmt.Errorf("render section chart: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// SaveChartHTML writes the interactive chart to an HTML file.
func SaveChartHTML(sec Section, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := WriteChartHTML(sec, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
