package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/strata-data/xsection/internal/config"
	"github.com/strata-data/xsection/internal/fsutil"
	"github.com/strata-data/xsection/internal/gis"
	"github.com/strata-data/xsection/internal/render"
	"github.com/strata-data/xsection/internal/testutil"
	"github.com/strata-data/xsection/internal/timeutil"
	"github.com/strata-data/xsection/internal/units"
)

// eventSources mixes the three geometry kinds: a snappable point, a
// crossing fault trace, a polygon crossed twice, and a point too far
// from the line to snap.
const eventSources = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "marker-1",
      "geometry": {"type": "Point", "coordinates": [25, 0.5]},
      "properties": {"kind": "contact"}
    },
    {
      "type": "Feature",
      "id": "fault-1",
      "geometry": {"type": "LineString", "coordinates": [[50, -10], [50, 10]]},
      "properties": {"kind": "fault"}
    },
    {
      "type": "Feature",
      "id": "pit-1",
      "geometry": {"type": "Polygon", "coordinates": [[[70, -5], [80, -5], [80, 5], [70, 5], [70, -5]]]},
      "properties": {"kind": "pit"}
    },
    {
      "type": "Feature",
      "id": "far",
      "geometry": {"type": "Point", "coordinates": [40, 50]},
      "properties": {}
    }
  ]
}`

func newEventsCmd(memfs *fsutil.MemoryFileSystem, base string, rec *logRecorder) *eventsCmd {
	cfg := &config.JobConfig{
		ExaggerationFactor: fptr(1),
		GroundUnit:         sptr(units.Meters),
		DisplayUnit:        sptr(units.Meters),
		SnapTolerance:      fptr(1),
		MinElevation:       fptr(200),
		MaxElevation:       fptr(400),
		OutputDir:          sptr(base),
	}
	return &eventsCmd{
		cfg:          cfg,
		fs:           memfs,
		clock:        timeutil.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		logf:         rec.logf,
		linePath:     "line.json",
		featuresPath: "sources.json",
	}
}

func TestEventsCmd(t *testing.T) {
	base := t.TempDir()
	memfs := fsutil.NewMemoryFileSystem()
	memfs.WriteFile("line.json", []byte(lineBB), 0644)
	memfs.WriteFile("sources.json", []byte(eventSources), 0644)
	rec := &logRecorder{}

	cmd := newEventsCmd(memfs, base, rec)
	if err := cmd.run(); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	sec, err := render.ReadSection(bytes.NewReader(findRunFile(t, memfs, "section.json")))
	if err != nil {
		t.Fatalf("re-read bundle: %v", err)
	}
	if len(sec.Events) != 4 {
		t.Fatalf("got %d events, want 4", len(sec.Events))
	}

	wantStations := []float64{25, 50, 70, 80}
	for i, ev := range sec.Events {
		testutil.AssertInDelta(t, ev.Station, wantStations[i], 1e-9)
		if ev.Band.Min != 200 || ev.Band.Max != 400 {
			t.Errorf("event %d band = %+v, want [200, 400]", i, ev.Band)
		}
	}
	if sec.Events[0].SourceID != "marker-1" {
		t.Errorf("event 0 source = %q, want marker-1", sec.Events[0].SourceID)
	}
	if sec.Events[1].SourceID != "fault-1" {
		t.Errorf("event 1 source = %q, want fault-1", sec.Events[1].SourceID)
	}

	feats, err := gis.ReadFeatureCollection(bytes.NewReader(findRunFile(t, memfs, "events.geojson")))
	if err != nil {
		t.Fatalf("re-read geojson: %v", err)
	}
	if len(feats) != 4 {
		t.Fatalf("got %d event features, want 4", len(feats))
	}
	vertices, ok := feats[0].LineVertices()
	if !ok || len(vertices) != 2 {
		t.Fatalf("event segment has %d vertices, ok=%v", len(vertices), ok)
	}
	testutil.AssertInDelta(t, vertices[0].X, 25, 1e-9)
	testutil.AssertInDelta(t, vertices[0].Y, 200, 1e-9)
	testutil.AssertInDelta(t, vertices[1].Y, 400, 1e-9)

	if !rec.contains("located 4 crossings (1 from points, 1 from lines, 2 from polygons)") {
		t.Errorf("summary line missing, logs: %v", rec.lines)
	}
}

func TestEventsCmd_EmptyBand(t *testing.T) {
	memfs := fsutil.NewMemoryFileSystem()
	memfs.WriteFile("line.json", []byte(lineBB), 0644)
	memfs.WriteFile("sources.json", []byte(eventSources), 0644)
	rec := &logRecorder{}

	cmd := newEventsCmd(memfs, t.TempDir(), rec)
	cmd.cfg.MinElevation = fptr(400)
	cmd.cfg.MaxElevation = fptr(400)
	if err := cmd.run(); err == nil {
		t.Fatal("expected error for an empty elevation band")
	}
}
