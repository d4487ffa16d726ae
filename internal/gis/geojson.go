package gis

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb/geojson"
)

// ReadFeatureCollection decodes a GeoJSON FeatureCollection. Feature IDs
// come from the GeoJSON id member when present, then from an "id"
// property, then from the feature's position in the file.
func ReadFeatureCollection(r io.Reader) ([]Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	out := make([]Feature, 0, len(fc.Features))
	for i, f := range fc.Features {
		props := map[string]any(f.Properties)
		if props == nil {
			props = map[string]any{}
		}
		out = append(out, Feature{
			ID:         geojsonID(f, i),
			Geometry:   f.Geometry,
			Properties: props,
		})
	}
	return out, nil
}

func geojsonID(f *geojson.Feature, index int) string {
	switch id := f.ID.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return strconv.FormatFloat(id, 'g', -1, 64)
	case int:
		return strconv.Itoa(id)
	}
	if s, ok := (Feature{Properties: f.Properties}).StringProperty("id"); ok {
		return s
	}
	return strconv.Itoa(index)
}

// WriteFeatureCollection encodes features as a GeoJSON FeatureCollection.
func WriteFeatureCollection(w io.Writer, feats []Feature) error {
	fc := geojson.NewFeatureCollection()
	for _, f := range feats {
		if f.Geometry == nil {
			continue
		}
		gf := geojson.NewFeature(f.Geometry)
		gf.Properties = geojson.Properties(f.Properties)
		if f.ID != "" {
			gf.ID = f.ID
		}
		fc.Append(gf)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}
