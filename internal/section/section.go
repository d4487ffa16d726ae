// Package section projects map-view geological features into 2D
// cross-section display space.
//
// A section line is an ordered polyline in projected map coordinates. Its
// westernmost endpoint becomes the display origin: along-line distance from
// that endpoint, divided by the vertical exaggeration factor, gives the
// display x coordinate; the feature's elevation passes through unmodified
// as y. For exactly north-south lines, where neither endpoint is further
// west, the southern endpoint is the origin. That choice is arbitrary but
// fixed, so repeated runs over the same data always agree.
package section

import (
	"errors"
	"fmt"
	"math"

	"github.com/strata-data/xsection/internal/geometry"
	"github.com/strata-data/xsection/internal/units"
)

var (
	// ErrInvalidGeometry indicates a section line that cannot anchor a
	// projection: too few vertices, coincident endpoints, zero length, or
	// non-finite coordinates. The whole batch is rejected.
	ErrInvalidGeometry = errors.New("invalid section line geometry")

	// ErrInvalidParameter indicates display parameters outside their
	// documented domain, such as a non-positive exaggeration factor. The
	// whole batch is rejected.
	ErrInvalidParameter = errors.New("invalid display parameter")
)

// Line is a section alignment in map coordinates.
type Line struct {
	ID       string
	Vertices []geometry.Point
}

// Length returns the line's total arc length in ground units.
func (l Line) Length() float64 {
	return geometry.Length(l.Vertices)
}

// Validate checks that the line can anchor a projection. All failures wrap
// ErrInvalidGeometry.
func (l Line) Validate() error {
	if len(l.Vertices) < 2 {
		return fmt.Errorf("%w: need at least 2 vertices, got %d", ErrInvalidGeometry, len(l.Vertices))
	}
	for i, v := range l.Vertices {
		if !v.IsFinite() {
			return fmt.Errorf("%w: vertex %d is not finite", ErrInvalidGeometry, i)
		}
	}
	first := l.Vertices[0]
	last := l.Vertices[len(l.Vertices)-1]
	if first == last {
		return fmt.Errorf("%w: endpoints coincide at (%g, %g)", ErrInvalidGeometry, first.X, first.Y)
	}
	if l.Length() == 0 {
		return fmt.Errorf("%w: zero total length", ErrInvalidGeometry)
	}
	return nil
}

// Feature is a point observation to be placed in section view.
type Feature struct {
	ID         string
	Location   geometry.Point
	Elevation  float64
	Attributes map[string]any
}

// ProjectedPoint is a feature positioned in section display space.
type ProjectedPoint struct {
	// FeatureID identifies the source feature.
	FeatureID string `json:"feature_id,omitempty"`

	// X is the display distance from the western origin: the along-line
	// station converted to display units and divided by the exaggeration
	// factor.
	X float64 `json:"x"`

	// Y is the feature's elevation, unmodified.
	Y float64 `json:"y"`

	// Station is the along-line ground distance from the origin, before
	// unit conversion and exaggeration.
	Station float64 `json:"station"`

	// Offset is the perpendicular ground distance from the feature's map
	// position to the line.
	Offset float64 `json:"offset"`
}

// DisplayParams controls the horizontal display scale of a section.
type DisplayParams struct {
	// Exaggeration compresses the distance axis so tall thin sections
	// become readable. Must be positive; 1 means no compression.
	Exaggeration float64

	// GroundUnit names the unit of the input map coordinates.
	GroundUnit string

	// DisplayUnit names the unit of the output x axis. Stations convert
	// from ground to display units before the exaggeration divide.
	DisplayUnit string
}

// DefaultDisplayParams returns neutral parameters: no exaggeration and no
// unit conversion.
func DefaultDisplayParams() DisplayParams {
	return DisplayParams{
		Exaggeration: 1,
		GroundUnit:   units.Meters,
		DisplayUnit:  units.Meters,
	}
}

// Validate checks the parameter domains. All failures wrap
// ErrInvalidParameter.
func (p DisplayParams) Validate() error {
	if math.IsNaN(p.Exaggeration) || p.Exaggeration <= 0 {
		return fmt.Errorf("%w: exaggeration must be positive, got %g", ErrInvalidParameter, p.Exaggeration)
	}
	if math.IsInf(p.Exaggeration, 0) {
		return fmt.Errorf("%w: exaggeration must be finite", ErrInvalidParameter)
	}
	if !units.IsValid(p.GroundUnit) {
		return fmt.Errorf("%w: unknown ground unit %q (valid: %s)", ErrInvalidParameter, p.GroundUnit, units.GetValidUnitsString())
	}
	if !units.IsValid(p.DisplayUnit) {
		return fmt.Errorf("%w: unknown display unit %q (valid: %s)", ErrInvalidParameter, p.DisplayUnit, units.GetValidUnitsString())
	}
	return nil
}

// ProjectionFailure records a feature that could not be projected. The
// batch continues past it.
type ProjectionFailure struct {
	// Index is the feature's position in the input slice.
	Index int

	// FeatureID identifies the failed feature.
	FeatureID string

	// Err describes why the projection failed.
	Err error
}

func (f ProjectionFailure) Error() string {
	return fmt.Sprintf("feature %d (%s): %v", f.Index, f.FeatureID, f.Err)
}

func (f ProjectionFailure) Unwrap() error { return f.Err }

// Result holds a batch projection outcome: points in input order, plus one
// failure record per feature that could not be projected.
type Result struct {
	Points   []ProjectedPoint
	Failures []ProjectionFailure
}

// Projector places map positions in section display space for one line.
// Build it once with NewProjector; it is immutable afterwards and cheap to
// reuse across features, surfaces and grids.
type Projector struct {
	line          Line
	params        DisplayParams
	length        float64
	originAtStart bool
	scale         float64
}

// NewProjector validates the line and parameters and fixes the display
// orientation. Errors wrap ErrInvalidGeometry or ErrInvalidParameter.
func NewProjector(line Line, params DisplayParams) (*Projector, error) {
	if err := line.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Projector{
		line:          line,
		params:        params,
		length:        line.Length(),
		originAtStart: originAtStart(line),
		scale:         units.Factor(params.GroundUnit, params.DisplayUnit) / params.Exaggeration,
	}, nil
}

// originAtStart reports whether the first vertex is the display origin.
// The westernmost endpoint wins; on equal eastings the southern endpoint
// wins. Validate has already rejected identical endpoints.
func originAtStart(line Line) bool {
	first := line.Vertices[0]
	last := line.Vertices[len(line.Vertices)-1]
	if first.X != last.X {
		return first.X < last.X
	}
	return first.Y < last.Y
}

// Line returns the section line the projector was built for.
func (p *Projector) Line() Line { return p.line }

// Params returns the display parameters the projector was built with.
func (p *Projector) Params() DisplayParams { return p.params }

// Length returns the line's total arc length in ground units.
func (p *Projector) Length() float64 { return p.length }

// DisplayWidth returns the display x of the far end of the line.
func (p *Projector) DisplayWidth() float64 {
	return p.length * p.scale
}

// DisplayX converts an along-line ground station to display x.
func (p *Projector) DisplayX(station float64) float64 {
	return station * p.scale
}

// StationAtMeasure converts an arc-length measure from the line's first
// vertex into a station from the display origin. The two agree when the
// first vertex is the westernmost endpoint; otherwise the line runs
// against display order and the measure flips.
func (p *Projector) StationAtMeasure(m float64) float64 {
	if p.originAtStart {
		return m
	}
	return p.length - m
}

// Station returns the along-line ground distance from the display origin
// to the nearest point on the line, plus the perpendicular offset.
func (p *Projector) Station(pt geometry.Point) (station, offset float64, err error) {
	if !pt.IsFinite() {
		return 0, 0, fmt.Errorf("position (%g, %g) is not finite", pt.X, pt.Y)
	}
	m, err := geometry.MeasureOnLine(p.line.Vertices, pt)
	if err != nil {
		return 0, 0, fmt.Errorf("measure on line %s: %w", p.line.ID, err)
	}
	station = m.Distance
	if !p.originAtStart {
		station = p.length - station
	}
	return station, m.Offset, nil
}

// Project places a single feature in section display space.
func (p *Projector) Project(f Feature) (ProjectedPoint, error) {
	station, offset, err := p.Station(f.Location)
	if err != nil {
		return ProjectedPoint{}, err
	}
	return ProjectedPoint{
		FeatureID: f.ID,
		X:         p.DisplayX(station),
		Y:         f.Elevation,
		Station:   station,
		Offset:    offset,
	}, nil
}

// Project maps a batch of features onto the section line. The returned
// points preserve input order. A feature that cannot be projected is
// recorded in Result.Failures and the batch continues; an invalid line or
// invalid parameters abort the whole batch.
func Project(line Line, features []Feature, params DisplayParams) (Result, error) {
	proj, err := NewProjector(line, params)
	if err != nil {
		return Result{}, err
	}

	res := Result{Points: make([]ProjectedPoint, 0, len(features))}
	for i, f := range features {
		pt, err := proj.Project(f)
		if err != nil {
			res.Failures = append(res.Failures, ProjectionFailure{Index: i, FeatureID: f.ID, Err: err})
			continue
		}
		res.Points = append(res.Points, pt)
	}
	return res, nil
}
