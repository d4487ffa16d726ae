package gis

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/strata-data/xsection/internal/section"
)

// Default attribute names, matching the source survey data schema.
const (
	// DefaultElevationField holds a point's elevation in display units.
	DefaultElevationField = "elevation"

	// DefaultSectionIDField labels which cross section a line belongs to.
	DefaultSectionIDField = "et_id"
)

// ConversionError records an input feature that could not be converted to
// the section model. The rest of the batch is unaffected.
type ConversionError struct {
	Index int
	ID    string
	Err   error
}

func (e ConversionError) Error() string {
	return fmt.Sprintf("feature %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e ConversionError) Unwrap() error { return e.Err }

// ToSectionFeatures converts point features to section features, reading
// each elevation from the named property (DefaultElevationField when
// empty). Features without a point geometry or without the elevation
// property are reported in the second return value and skipped.
func ToSectionFeatures(feats []Feature, elevField string) ([]section.Feature, []ConversionError) {
	if elevField == "" {
		elevField = DefaultElevationField
	}

	out := make([]section.Feature, 0, len(feats))
	var errs []ConversionError
	for i, f := range feats {
		loc, ok := f.Point()
		if !ok {
			errs = append(errs, ConversionError{Index: i, ID: f.ID, Err: fmt.Errorf("geometry is %s, want point", geometryKind(f.Geometry))})
			continue
		}
		elev, ok := f.FloatProperty(elevField)
		if !ok {
			errs = append(errs, ConversionError{Index: i, ID: f.ID, Err: fmt.Errorf("missing numeric property %q", elevField)})
			continue
		}
		out = append(out, section.Feature{
			ID:         f.ID,
			Location:   loc,
			Elevation:  elev,
			Attributes: f.Properties,
		})
	}
	return out, errs
}

// ToSectionLine converts a line feature to a section line. The section ID
// comes from the named property (DefaultSectionIDField when empty),
// falling back to the feature ID.
func ToSectionLine(f Feature, idField string) (section.Line, error) {
	if idField == "" {
		idField = DefaultSectionIDField
	}

	vertices, ok := f.LineVertices()
	if !ok {
		return section.Line{}, fmt.Errorf("feature %s: geometry is %s, want single-part line", f.ID, geometryKind(f.Geometry))
	}
	id := f.ID
	if s, ok := f.StringProperty(idField); ok && s != "" {
		id = s
	}
	return section.Line{ID: id, Vertices: vertices}, nil
}

// SelectLine finds the section line in a batch of features. With a
// non-empty wantID only the feature whose ID property matches is eligible;
// otherwise the first line feature wins.
func SelectLine(feats []Feature, idField, wantID string) (section.Line, error) {
	if idField == "" {
		idField = DefaultSectionIDField
	}

	for _, f := range feats {
		if _, ok := f.LineVertices(); !ok {
			continue
		}
		if wantID != "" {
			s, _ := f.StringProperty(idField)
			if s != wantID && f.ID != wantID {
				continue
			}
		}
		return ToSectionLine(f, idField)
	}
	if wantID != "" {
		return section.Line{}, fmt.Errorf("no line feature with %s=%q", idField, wantID)
	}
	return section.Line{}, fmt.Errorf("no line feature in input")
}

// ProjectedFeatures converts a projection result back to features for
// export. Geometry is the section-view position (display x, elevation);
// the source attributes carry through with the station and offset fields
// appended.
func ProjectedFeatures(points []section.ProjectedPoint, attrs []map[string]any) []Feature {
	out := make([]Feature, 0, len(points))
	for i, p := range points {
		props := map[string]any{}
		if i < len(attrs) {
			for k, v := range attrs[i] {
				props[k] = v
			}
		}
		props["section_x"] = p.X
		props["section_y"] = p.Y
		props["station"] = p.Station
		props["offset"] = p.Offset
		out = append(out, Feature{
			ID:         p.FeatureID,
			Geometry:   orb.Point{p.X, p.Y},
			Properties: props,
		})
	}
	return out
}

func geometryKind(g orb.Geometry) string {
	if g == nil {
		return "missing"
	}
	return g.GeoJSONType()
}
