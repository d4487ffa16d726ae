package gis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ReadFeatures decodes a feature file in either supported JSON format.
// GeoJSON and Esri JSON exports both arrive as .json files, so the format
// is sniffed from the document itself: a top-level "type" of
// "FeatureCollection" means GeoJSON, anything else is read as an Esri
// feature set. idField only applies to Esri input, where feature IDs live
// in the attributes.
func ReadFeatures(r io.Reader, idField string) ([]Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read feature file: %w", err)
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse feature file: %w", err)
	}

	if probe.Type == "FeatureCollection" {
		return ReadFeatureCollection(bytes.NewReader(data))
	}
	return ReadEsriFeatures(bytes.NewReader(data), idField)
}
