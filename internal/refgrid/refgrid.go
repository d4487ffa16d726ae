// Package refgrid builds the section-view reference grid: horizontal
// lines at regular elevations across the display width, and vertical
// lines where constant-easting lines cross the section. Each grid line
// carries a rank (major or minor) and its labelled value, so renderers
// and exports can style and annotate them without re-deriving anything.
package refgrid

import (
	"fmt"
	"math"
	"sort"

	"github.com/strata-data/xsection/internal/geometry"
	"github.com/strata-data/xsection/internal/section"
)

// rankEpsilon decides whether a grid value sits on a major multiple.
const rankEpsilon = 1e-6

// Kind distinguishes the two grid line families.
type Kind string

const (
	ElevationLine Kind = "elevation"
	EastingLine   Kind = "easting"
)

// Rank grades grid lines for styling: major lines are drawn heavier and
// usually labelled, minor lines fill between them.
type Rank string

const (
	Major Rank = "major"
	Minor Rank = "minor"
)

// GridLine is one reference line in display space.
type GridLine struct {
	Kind  Kind    `json:"kind"`
	Rank  Rank    `json:"rank"`
	Label float64 `json:"label"`

	// Start and End are display-space coordinates (x, elevation).
	Start geometry.Point `json:"start"`
	End   geometry.Point `json:"end"`
}

// Config sets the grid extents and spacing. Elevation values are display
// units; easting values are ground map units.
type Config struct {
	MinElevation       float64
	MaxElevation       float64
	MajorElevationStep float64
	MinorElevationStep float64

	// MinEasting and MaxEasting bound the vertical lines. Leaving both
	// zero derives the range from the section line's extent, rounded
	// outward to the major step.
	MinEasting       float64
	MaxEasting       float64
	MajorEastingStep float64
	MinorEastingStep float64
}

// DefaultConfig matches the statewide section conventions: a 0-2500 ft
// elevation band gridded every 50/10 ft, easting lines every 1000/250 m.
func DefaultConfig() Config {
	return Config{
		MinElevation:       0,
		MaxElevation:       2500,
		MajorElevationStep: 50,
		MinorElevationStep: 10,
		MajorEastingStep:   1000,
		MinorEastingStep:   250,
	}
}

// Validate rejects empty bands and non-positive or inverted steps.
func (c Config) Validate() error {
	if c.MinElevation >= c.MaxElevation {
		return fmt.Errorf("elevation band [%g, %g] is empty", c.MinElevation, c.MaxElevation)
	}
	for name, step := range map[string]float64{
		"major elevation": c.MajorElevationStep,
		"minor elevation": c.MinorElevationStep,
		"major easting":   c.MajorEastingStep,
		"minor easting":   c.MinorEastingStep,
	} {
		if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
			return fmt.Errorf("%s step must be positive, got %g", name, step)
		}
	}
	if c.MinorElevationStep > c.MajorElevationStep {
		return fmt.Errorf("minor elevation step %g exceeds major step %g", c.MinorElevationStep, c.MajorElevationStep)
	}
	if c.MinorEastingStep > c.MajorEastingStep {
		return fmt.Errorf("minor easting step %g exceeds major step %g", c.MinorEastingStep, c.MajorEastingStep)
	}
	if c.MinEasting > c.MaxEasting {
		return fmt.Errorf("easting range [%g, %g] is inverted", c.MinEasting, c.MaxEasting)
	}
	return nil
}

// Elevations returns the horizontal grid lines, ordered bottom to top.
func (c Config) Elevations(proj *section.Projector) ([]GridLine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	width := proj.DisplayWidth()
	var out []GridLine
	for _, z := range steps(c.MinElevation, c.MaxElevation, c.MinorElevationStep) {
		out = append(out, GridLine{
			Kind:  ElevationLine,
			Rank:  rankOf(z, c.MajorElevationStep),
			Label: z,
			Start: geometry.Pt(0, z),
			End:   geometry.Pt(width, z),
		})
	}
	return out, nil
}

// Eastings returns the vertical grid lines, ordered by display x. A
// section line that recrosses an easting produces one grid line per
// crossing, each labelled with the same easting.
func (c Config) Eastings(proj *section.Projector) ([]GridLine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	minE, maxE := c.MinEasting, c.MaxEasting
	if minE == 0 && maxE == 0 {
		lo, hi := geometry.Bounds(proj.Line().Vertices)
		minE = math.Floor(lo.X/c.MajorEastingStep) * c.MajorEastingStep
		maxE = math.Ceil(hi.X/c.MajorEastingStep) * c.MajorEastingStep
	}

	var out []GridLine
	for _, e := range steps(minE, maxE, c.MinorEastingStep) {
		for _, crossing := range geometry.EastingCrossings(proj.Line().Vertices, e) {
			x := proj.DisplayX(proj.StationAtMeasure(crossing.Measure))
			out = append(out, GridLine{
				Kind:  EastingLine,
				Rank:  rankOf(e, c.MajorEastingStep),
				Label: e,
				Start: geometry.Pt(x, c.MinElevation),
				End:   geometry.Pt(x, c.MaxElevation),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.X < out[j].Start.X })
	return out, nil
}

// Build returns the full grid: elevation lines first, then easting lines.
func (c Config) Build(proj *section.Projector) ([]GridLine, error) {
	elev, err := c.Elevations(proj)
	if err != nil {
		return nil, err
	}
	east, err := c.Eastings(proj)
	if err != nil {
		return nil, err
	}
	return append(elev, east...), nil
}

// steps returns every multiple of step inside [min, max].
func steps(min, max, step float64) []float64 {
	n0 := int(math.Ceil(min/step - rankEpsilon))
	n1 := int(math.Floor(max/step + rankEpsilon))
	var out []float64
	for n := n0; n <= n1; n++ {
		out = append(out, float64(n)*step)
	}
	return out
}

// rankOf grades a value against the major step.
func rankOf(v, majorStep float64) Rank {
	mod := math.Abs(math.Mod(v, majorStep))
	if mod < rankEpsilon || majorStep-mod < rankEpsilon {
		return Major
	}
	return Minor
}
