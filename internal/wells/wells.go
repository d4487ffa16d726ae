// Package wells prepares water-well records for section display: wells
// within a buffer of the section line get a station and offset, and their
// depth-logged intervals become elevation-bounded sticks hanging from the
// collar.
package wells

import (
	"fmt"
	"math"

	"github.com/strata-data/xsection/internal/geometry"
	"github.com/strata-data/xsection/internal/section"
)

// Interval is a depth-logged record below a well collar. Depths are
// positive-down in display units.
type Interval struct {
	From       float64
	To         float64
	Attributes map[string]any
}

// valid reports whether the interval can produce elevations. Records with
// missing or inverted depths come through real datasets and are skipped
// rather than treated as errors.
func (iv Interval) valid() bool {
	if math.IsNaN(iv.From) || math.IsNaN(iv.To) {
		return false
	}
	if iv.From < 0 || iv.To < iv.From {
		return false
	}
	return true
}

// Well is a map-view well with its collar elevation and logged intervals.
type Well struct {
	ID         string
	Location   geometry.Point
	Elevation  float64
	Attributes map[string]any
	Intervals  []Interval
}

// SectionInterval is an interval converted to elevations.
type SectionInterval struct {
	// ElevTop is the collar elevation minus the interval's from depth.
	ElevTop float64 `json:"elev_top"`

	// ElevBottom is the collar elevation minus the interval's to depth.
	ElevBottom float64 `json:"elev_bottom"`

	Attributes map[string]any `json:"attributes,omitempty"`
}

// SectionWell is a well positioned in section display space.
type SectionWell struct {
	WellID     string            `json:"well_id"`
	Station    float64           `json:"station"`
	X          float64           `json:"x"`
	Offset     float64           `json:"offset"`
	Elevation  float64           `json:"elevation"`
	Intervals  []SectionInterval `json:"intervals,omitempty"`
	Attributes map[string]any    `json:"attributes,omitempty"`
}

// FromFeatures converts point features to wells with empty interval
// lists. The feature elevation becomes the collar elevation;
// AttachIntervals joins the depth log afterwards.
func FromFeatures(feats []section.Feature) []Well {
	out := make([]Well, 0, len(feats))
	for _, f := range feats {
		out = append(out, Well{
			ID:         f.ID,
			Location:   f.Location,
			Elevation:  f.Elevation,
			Attributes: f.Attributes,
		})
	}
	return out
}

// Select returns the wells within buffer ground units of the section
// line, preserving input order. Wells whose location cannot be measured
// against the line are left out.
func Select(in []Well, line section.Line, buffer float64) ([]Well, error) {
	if err := line.Validate(); err != nil {
		return nil, err
	}
	if buffer < 0 || math.IsNaN(buffer) {
		return nil, fmt.Errorf("%w: buffer distance must be non-negative, got %g", section.ErrInvalidParameter, buffer)
	}

	var out []Well
	for _, w := range in {
		if !w.Location.IsFinite() {
			continue
		}
		d, err := geometry.DistanceTo(line.Vertices, w.Location)
		if err != nil {
			return nil, err
		}
		if d <= buffer {
			out = append(out, w)
		}
	}
	return out, nil
}

// Prepare projects wells into section space. Wells that cannot be
// projected are reported individually and the batch continues. Intervals
// with missing or inverted depths, or attached to a well with a NaN
// collar elevation, are dropped from that well.
func Prepare(proj *section.Projector, in []Well) ([]SectionWell, []section.ProjectionFailure) {
	out := make([]SectionWell, 0, len(in))
	var failures []section.ProjectionFailure
	for i, w := range in {
		station, offset, err := proj.Station(w.Location)
		if err != nil {
			failures = append(failures, section.ProjectionFailure{Index: i, FeatureID: w.ID, Err: err})
			continue
		}

		sw := SectionWell{
			WellID:     w.ID,
			Station:    station,
			X:          proj.DisplayX(station),
			Offset:     offset,
			Elevation:  w.Elevation,
			Attributes: w.Attributes,
		}
		if !math.IsNaN(w.Elevation) {
			for _, iv := range w.Intervals {
				if !iv.valid() {
					continue
				}
				sw.Intervals = append(sw.Intervals, SectionInterval{
					ElevTop:    w.Elevation - iv.From,
					ElevBottom: w.Elevation - iv.To,
					Attributes: iv.Attributes,
				})
			}
		}
		out = append(out, sw)
	}
	return out, failures
}
