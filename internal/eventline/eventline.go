// Package eventline derives vertical event lines for section view: one
// vertical segment wherever a map-view feature meets the section line,
// spanning a configured elevation band. Faults, unit boundaries and
// mapped contacts cross a section as lines or polygon edges; observation
// points sit on it within a snap tolerance.
package eventline

import (
	"fmt"
	"math"
	"sort"

	"github.com/strata-data/xsection/internal/geometry"
	"github.com/strata-data/xsection/internal/section"
)

// Band is the elevation span an event line is drawn over.
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate rejects empty or non-finite bands.
func (b Band) Validate() error {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0) {
		return fmt.Errorf("elevation band must be finite, got [%g, %g]", b.Min, b.Max)
	}
	if b.Min >= b.Max {
		return fmt.Errorf("elevation band [%g, %g] is empty", b.Min, b.Max)
	}
	return nil
}

// Event is one crossing of the section line, positioned in both ground
// stationing and display space.
type Event struct {
	// SourceID identifies the feature that produced the event.
	SourceID string `json:"source_id"`

	// Station is the along-line ground distance from the display origin.
	Station float64 `json:"station"`

	// X is the display x of the event's vertical segment.
	X float64 `json:"x"`

	// Band is the elevation span to draw.
	Band Band `json:"band"`

	// Attributes carry through from the source feature.
	Attributes map[string]any `json:"attributes,omitempty"`
}

// LineSource is a map-view polyline that may cross the section.
type LineSource struct {
	ID         string
	Vertices   []geometry.Point
	Attributes map[string]any
}

// RingSource is a map-view polygon whose boundary rings may cross the
// section. Each boundary crossing produces its own event, so traversing a
// polygon yields an entry line and an exit line.
type RingSource struct {
	ID         string
	Rings      [][]geometry.Point
	Attributes map[string]any
}

// FromPoints produces events for point features lying on the section line,
// within the given ground-unit snap tolerance.
func FromPoints(proj *section.Projector, feats []section.Feature, tolerance float64, band Band) ([]Event, error) {
	if err := band.Validate(); err != nil {
		return nil, err
	}
	if tolerance < 0 || math.IsNaN(tolerance) {
		return nil, fmt.Errorf("snap tolerance must be non-negative, got %g", tolerance)
	}

	var out []Event
	for _, f := range feats {
		pt, err := proj.Project(f)
		if err != nil {
			continue // unprojectable points simply produce no event
		}
		if pt.Offset > tolerance {
			continue
		}
		out = append(out, Event{
			SourceID:   f.ID,
			Station:    pt.Station,
			X:          pt.X,
			Band:       band,
			Attributes: f.Attributes,
		})
	}
	return sortEvents(out), nil
}

// FromLines produces one event per crossing between each source polyline
// and the section line.
func FromLines(proj *section.Projector, sources []LineSource, band Band) ([]Event, error) {
	if err := band.Validate(); err != nil {
		return nil, err
	}

	var out []Event
	for _, src := range sources {
		for _, c := range geometry.Crossings(proj.Line().Vertices, src.Vertices) {
			out = append(out, eventAt(proj, src.ID, src.Attributes, c, band))
		}
	}
	return sortEvents(out), nil
}

// FromPolygons produces one event per boundary-ring crossing.
func FromPolygons(proj *section.Projector, sources []RingSource, band Band) ([]Event, error) {
	if err := band.Validate(); err != nil {
		return nil, err
	}

	var out []Event
	for _, src := range sources {
		for _, ring := range src.Rings {
			for _, c := range geometry.Crossings(proj.Line().Vertices, ring) {
				out = append(out, eventAt(proj, src.ID, src.Attributes, c, band))
			}
		}
	}
	return sortEvents(out), nil
}

func eventAt(proj *section.Projector, id string, attrs map[string]any, c geometry.Crossing, band Band) Event {
	station := proj.StationAtMeasure(c.Measure)
	return Event{
		SourceID:   id,
		Station:    station,
		X:          proj.DisplayX(station),
		Band:       band,
		Attributes: attrs,
	}
}

func sortEvents(events []Event) []Event {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Station < events[j].Station })
	return events
}

// Merge combines event sets into one run ordered by station.
func Merge(sets ...[]Event) []Event {
	var out []Event
	for _, s := range sets {
		out = append(out, s...)
	}
	return sortEvents(out)
}
