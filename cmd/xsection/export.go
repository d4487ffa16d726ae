package main

// Display-space export builders. Projected sections go back out as plain
// feature files whose geometry is (display x, elevation), so any GIS can
// draw them on a flat canvas.

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/strata-data/xsection/internal/eventline"
	"github.com/strata-data/xsection/internal/gis"
	"github.com/strata-data/xsection/internal/profile"
	"github.com/strata-data/xsection/internal/refgrid"
	"github.com/strata-data/xsection/internal/wells"
)

// profileFeatures converts profile parts to line features with their
// elevation statistics as properties.
func profileFeatures(profiles []profile.Profile) []gis.Feature {
	out := make([]gis.Feature, 0, len(profiles))
	for _, pr := range profiles {
		ls := make(orb.LineString, 0, len(pr.Points))
		for _, pt := range pr.Points {
			ls = append(ls, orb.Point{pt.X, pt.Y})
		}
		out = append(out, gis.Feature{
			ID:       fmt.Sprintf("%s/%d", pr.Surface, pr.Part),
			Geometry: ls,
			Properties: map[string]any{
				"surface": pr.Surface,
				"part":    pr.Part,
				"min":     pr.Stats.Min,
				"max":     pr.Stats.Max,
				"mean":    pr.Stats.Mean,
				"median":  pr.Stats.Median,
				"samples": pr.Stats.Count,
			},
		})
	}
	return out
}

// eventFeatures converts events to vertical segment features spanning
// their elevation band.
func eventFeatures(events []eventline.Event) []gis.Feature {
	out := make([]gis.Feature, 0, len(events))
	for _, ev := range events {
		props := map[string]any{}
		for k, v := range ev.Attributes {
			props[k] = v
		}
		props["source_id"] = ev.SourceID
		props["station"] = ev.Station
		props["section_x"] = ev.X
		out = append(out, gis.Feature{
			ID:         ev.SourceID,
			Geometry:   orb.LineString{{ev.X, ev.Band.Min}, {ev.X, ev.Band.Max}},
			Properties: props,
		})
	}
	return out
}

// gridFeatures converts reference grid lines to segment features.
func gridFeatures(grid []refgrid.GridLine) []gis.Feature {
	out := make([]gis.Feature, 0, len(grid))
	for _, gl := range grid {
		out = append(out, gis.Feature{
			Geometry: orb.LineString{{gl.Start.X, gl.Start.Y}, {gl.End.X, gl.End.Y}},
			Properties: map[string]any{
				"kind":  string(gl.Kind),
				"rank":  string(gl.Rank),
				"label": gl.Label,
			},
		})
	}
	return out
}

// wellFeatures converts prepared wells to point features at their section
// position.
func wellFeatures(ws []wells.SectionWell) []gis.Feature {
	out := make([]gis.Feature, 0, len(ws))
	for _, w := range ws {
		props := map[string]any{}
		for k, v := range w.Attributes {
			props[k] = v
		}
		props["well_id"] = w.WellID
		props["station"] = w.Station
		props["offset"] = w.Offset
		props["elevation"] = w.Elevation
		props["intervals"] = len(w.Intervals)
		out = append(out, gis.Feature{
			ID:         w.WellID,
			Geometry:   orb.Point{w.X, w.Elevation},
			Properties: props,
		})
	}
	return out
}
