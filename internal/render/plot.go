// Package render draws assembled cross sections, either as static
// figures (gonum/plot, PNG/SVG/PDF by file extension) or as interactive
// HTML charts (go-echarts). Rendering is display-space only: callers
// project and assemble first, render second.
package render

import (
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/strata-data/xsection/internal/eventline"
	"github.com/strata-data/xsection/internal/profile"
	"github.com/strata-data/xsection/internal/refgrid"
	"github.com/strata-data/xsection/internal/wells"
)

// Section bundles everything drawable for one cross-section figure.
// Any of the slices may be empty; an empty Section still renders as an
// empty set of axes.
type Section struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`

	Profiles []profile.Profile   `json:"profiles,omitempty"`
	Wells    []wells.SectionWell `json:"wells,omitempty"`
	Events   []eventline.Event   `json:"events,omitempty"`
	Grid     []refgrid.GridLine  `json:"grid,omitempty"`
}

func (s Section) titleText() string {
	if s.Title != "" {
		return s.Title
	}
	if s.ID != "" {
		return fmt.Sprintf("Cross section %s", s.ID)
	}
	return "Cross section"
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

// Fixed colours for the non-profile layers. Profiles get their own
// palette from generateColors.
var (
	gridMinorColor = color.RGBA{R: 221, G: 221, B: 221, A: 255}
	gridMajorColor = color.RGBA{R: 170, G: 170, B: 170, A: 255}
	wellColor      = color.RGBA{R: 68, G: 68, B: 68, A: 255}
	eventColor     = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// PlotSize is the saved figure size.
type PlotSize struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultPlotSize gives the wide, short shape of a section sheet.
func DefaultPlotSize() PlotSize {
	return PlotSize{Width: 14 * vg.Inch, Height: 6 * vg.Inch}
}

// SavePlot renders the section to path. The output format follows the
// file extension (.png, .svg, .pdf).
func SavePlot(sec Section, size PlotSize, path string) error {
	p, err := buildPlot(sec)
	if err != nil {
		return err
	}
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultPlotSize()
	}
	if err := p.Save(size.Width, size.Height, path); err != nil {
		return fmt.Errorf("save section plot: %w", err)
	}
	return nil
}

// buildPlot assembles the layers back to front: grid, profiles, well
// sticks, event lines.
func buildPlot(sec Section) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = sec.titleText()
	p.X.Label.Text = labelOr(sec.XLabel, "Distance along section")
	p.Y.Label.Text = labelOr(sec.YLabel, "Elevation")

	if err := addGridLines(p, sec.Grid); err != nil {
		return nil, err
	}
	if err := addProfiles(p, sec.Profiles); err != nil {
		return nil, err
	}
	if err := addWellSticks(p, sec.Wells); err != nil {
		return nil, err
	}
	if err := addEventLines(p, sec.Events); err != nil {
		return nil, err
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}

// addGridLines draws reference lines without legend entries; a full grid
// would flood the legend.
func addGridLines(p *plot.Plot, grid []refgrid.GridLine) error {
	for _, gl := range grid {
		line, err := plotter.NewLine(plotter.XYs{
			{X: gl.Start.X, Y: gl.Start.Y},
			{X: gl.End.X, Y: gl.End.Y},
		})
		if err != nil {
			return err
		}
		line.Color = gridMinorColor
		line.Width = vg.Points(0.5)
		if gl.Rank == refgrid.Major {
			line.Color = gridMajorColor
			line.Width = vg.Points(1)
		}
		p.Add(line)
	}
	return nil
}

// addProfiles draws each profile part as a line. Parts of the same
// surface share a colour and one legend entry.
func addProfiles(p *plot.Plot, profiles []profile.Profile) error {
	var surfaces []string
	index := make(map[string]int)
	for _, pr := range profiles {
		if _, ok := index[pr.Surface]; !ok {
			index[pr.Surface] = len(surfaces)
			surfaces = append(surfaces, pr.Surface)
		}
	}
	colors := generateColors(len(surfaces))

	labelled := make(map[string]bool)
	for _, pr := range profiles {
		if len(pr.Points) < 2 {
			continue
		}
		pts := make(plotter.XYs, 0, len(pr.Points))
		for _, pt := range pr.Points {
			pts = append(pts, plotter.XY{X: pt.X, Y: pt.Y})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = colors[index[pr.Surface]]
		line.Width = vg.Points(1)
		p.Add(line)
		if !labelled[pr.Surface] {
			p.Legend.Add(pr.Surface, line)
			labelled[pr.Surface] = true
		}
	}
	return nil
}

// addWellSticks draws one vertical segment per well interval at the
// well's display x.
func addWellSticks(p *plot.Plot, sectionWells []wells.SectionWell) error {
	first := true
	for _, w := range sectionWells {
		for _, iv := range w.Intervals {
			stick, err := plotter.NewLine(plotter.XYs{
				{X: w.X, Y: iv.ElevBottom},
				{X: w.X, Y: iv.ElevTop},
			})
			if err != nil {
				return err
			}
			stick.Color = wellColor
			stick.Width = vg.Points(2)
			p.Add(stick)
			if first {
				p.Legend.Add("wells", stick)
				first = false
			}
		}
	}
	return nil
}

// addEventLines draws dashed vertical segments spanning each event's
// elevation band.
func addEventLines(p *plot.Plot, events []eventline.Event) error {
	first := true
	for _, ev := range events {
		line, err := plotter.NewLine(plotter.XYs{
			{X: ev.X, Y: ev.Band.Min},
			{X: ev.X, Y: ev.Band.Max},
		})
		if err != nil {
			return err
		}
		line.Color = eventColor
		line.Width = vg.Points(1)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
		if first {
			p.Legend.Add("crossings", line)
			first = false
		}
	}
	return nil
}

// generateColors creates a palette of distinct colours for profile lines.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.45)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

// FormatTimestamp generates a timestamp string for directory naming.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakeOutputDir builds a per-run output directory path of the form
// <baseDir>/<section id>/<timestamp>_<short run id>. The directory is
// not created; callers do that when they first write to it.
func MakeOutputDir(baseDir, sectionID string) string {
	if sectionID == "" {
		sectionID = "section"
	}
	run := fmt.Sprintf("%s_%s", FormatTimestamp(time.Now()), uuid.New().String()[:8])
	return filepath.Join(baseDir, sectionID, run)
}
