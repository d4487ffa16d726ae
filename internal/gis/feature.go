// Package gis reads and writes the feature formats the section tools
// exchange: GeoJSON, Esri JSON feature sets, and CSV with a WKT geometry
// column. Geometries are orb values; attributes stay as decoded JSON.
package gis

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/strata-data/xsection/internal/geometry"
)

// Feature pairs a geometry with its attributes. Geometry may be nil for
// attribute-only rows; conversions to the section model report those
// per-feature rather than failing the whole file.
type Feature struct {
	ID         string
	Geometry   orb.Geometry
	Properties map[string]any
}

// FloatProperty returns the named property as a float64. JSON numbers,
// integers and numeric strings all qualify.
func (f Feature) FloatProperty(name string) (float64, bool) {
	v, ok := f.Properties[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// StringProperty returns the named property rendered as a string.
func (f Feature) StringProperty(name string) (string, bool) {
	v, ok := f.Properties[name]
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return fmt.Sprintf("%v", v), true
}

// Point returns the feature's position when its geometry is a point or a
// single-point multipoint.
func (f Feature) Point() (geometry.Point, bool) {
	switch g := f.Geometry.(type) {
	case orb.Point:
		return geometry.Pt(g.X(), g.Y()), true
	case orb.MultiPoint:
		if len(g) == 1 {
			return geometry.Pt(g[0].X(), g[0].Y()), true
		}
	}
	return geometry.Point{}, false
}

// LineVertices returns the feature's vertex run when its geometry is a
// linestring or a single-part multilinestring.
func (f Feature) LineVertices() ([]geometry.Point, bool) {
	switch g := f.Geometry.(type) {
	case orb.LineString:
		return toPoints(g), true
	case orb.MultiLineString:
		if len(g) == 1 {
			return toPoints(g[0]), true
		}
	}
	return nil, false
}

// LineParts returns every vertex run in a line geometry, one slice per
// part, so multi-part crossings produce one source per part.
func (f Feature) LineParts() ([][]geometry.Point, bool) {
	switch g := f.Geometry.(type) {
	case orb.LineString:
		return [][]geometry.Point{toPoints(g)}, true
	case orb.MultiLineString:
		out := make([][]geometry.Point, 0, len(g))
		for _, part := range g {
			out = append(out, toPoints(part))
		}
		return out, true
	}
	return nil, false
}

// Rings returns the feature's boundary rings when its geometry is a
// polygon or multipolygon.
func (f Feature) Rings() ([][]geometry.Point, bool) {
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		return ringsOf(g), true
	case orb.MultiPolygon:
		var out [][]geometry.Point
		for _, poly := range g {
			out = append(out, ringsOf(poly)...)
		}
		return out, true
	}
	return nil, false
}

func ringsOf(poly orb.Polygon) [][]geometry.Point {
	out := make([][]geometry.Point, 0, len(poly))
	for _, ring := range poly {
		out = append(out, toPoints(orb.LineString(ring)))
	}
	return out
}

func toPoints(ls orb.LineString) []geometry.Point {
	pts := make([]geometry.Point, len(ls))
	for i, p := range ls {
		pts[i] = geometry.Pt(p.X(), p.Y())
	}
	return pts
}
