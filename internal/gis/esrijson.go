package gis

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb"
)

// esriFeatureSet is the wire shape of an exported Esri JSON feature set.
// Only the members the section tools consume are decoded.
type esriFeatureSet struct {
	DisplayFieldName string        `json:"displayFieldName"`
	Features         []esriFeature `json:"features"`
}

type esriFeature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   *esriGeometry  `json:"geometry"`
}

type esriGeometry struct {
	X      *float64      `json:"x"`
	Y      *float64      `json:"y"`
	Points [][]float64   `json:"points"`
	Paths  [][][]float64 `json:"paths"`
	Rings  [][][]float64 `json:"rings"`
}

// ReadEsriFeatures decodes an Esri JSON feature set. Geometry kinds are
// inferred from which members are present (x/y for points, paths for
// polylines, rings for polygons). Features whose geometry is missing or
// unrecognised keep a nil Geometry so downstream conversion can report
// them individually instead of rejecting the file.
func ReadEsriFeatures(r io.Reader, idField string) ([]Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read esri json: %w", err)
	}
	var fs esriFeatureSet
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("parse esri json: %w", err)
	}

	out := make([]Feature, 0, len(fs.Features))
	for i, ef := range fs.Features {
		f := Feature{
			Properties: ef.Attributes,
			Geometry:   esriToOrb(ef.Geometry),
		}
		if f.Properties == nil {
			f.Properties = map[string]any{}
		}
		f.ID = esriID(f, idField, i)
		out = append(out, f)
	}
	return out, nil
}

func esriID(f Feature, idField string, index int) string {
	for _, name := range []string{idField, "OBJECTID", "FID"} {
		if name == "" {
			continue
		}
		if s, ok := f.StringProperty(name); ok {
			return s
		}
	}
	return strconv.Itoa(index)
}

func esriToOrb(g *esriGeometry) orb.Geometry {
	if g == nil {
		return nil
	}
	switch {
	case g.X != nil && g.Y != nil:
		return orb.Point{*g.X, *g.Y}
	case len(g.Points) > 0:
		mp := make(orb.MultiPoint, 0, len(g.Points))
		for _, c := range g.Points {
			if len(c) < 2 {
				continue
			}
			mp = append(mp, orb.Point{c[0], c[1]})
		}
		return mp
	case len(g.Paths) == 1:
		return esriPath(g.Paths[0])
	case len(g.Paths) > 1:
		mls := make(orb.MultiLineString, 0, len(g.Paths))
		for _, path := range g.Paths {
			mls = append(mls, esriPath(path))
		}
		return mls
	case len(g.Rings) > 0:
		poly := make(orb.Polygon, 0, len(g.Rings))
		for _, ring := range g.Rings {
			poly = append(poly, orb.Ring(esriPath(ring)))
		}
		return poly
	}
	return nil
}

func esriPath(path [][]float64) orb.LineString {
	ls := make(orb.LineString, 0, len(path))
	for _, c := range path {
		if len(c) < 2 {
			continue
		}
		// Coordinates beyond x,y (Z or M values) are dropped.
		ls = append(ls, orb.Point{c[0], c[1]})
	}
	return ls
}
