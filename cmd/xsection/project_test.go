package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/strata-data/xsection/internal/config"
	"github.com/strata-data/xsection/internal/fsutil"
	"github.com/strata-data/xsection/internal/gis"
	"github.com/strata-data/xsection/internal/section"
	"github.com/strata-data/xsection/internal/testutil"
	"github.com/strata-data/xsection/internal/timeutil"
	"github.com/strata-data/xsection/internal/units"
)

const pointsNearAA = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "p-1",
      "geometry": {"type": "Point", "coordinates": [5, 0]},
      "properties": {"elevation": 120, "unit": "till"}
    },
    {
      "type": "Feature",
      "id": "p-2",
      "geometry": {"type": "Point", "coordinates": [8, 0]},
      "properties": {}
    }
  ]
}`

func newProjectCmd(memfs *fsutil.MemoryFileSystem, base string, rec *logRecorder) *projectCmd {
	cfg := &config.JobConfig{
		ExaggerationFactor: fptr(2),
		GroundUnit:         sptr(units.Meters),
		DisplayUnit:        sptr(units.Meters),
		OutputDir:          sptr(base),
	}
	return &projectCmd{
		cfg:          cfg,
		fs:           memfs,
		clock:        timeutil.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		logf:         rec.logf,
		linePath:     "line.json",
		featuresPath: "points.json",
		format:       "both",
	}
}

func TestProjectCmd(t *testing.T) {
	base := t.TempDir()
	memfs := fsutil.NewMemoryFileSystem()
	memfs.WriteFile("line.json", []byte(lineAA), 0644)
	memfs.WriteFile("points.json", []byte(pointsNearAA), 0644)
	rec := &logRecorder{}

	cmd := newProjectCmd(memfs, base, rec)
	if err := cmd.run(); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	data := findRunFile(t, memfs, "projected.geojson")
	feats, err := gis.ReadFeatureCollection(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("re-read output: %v", err)
	}
	if len(feats) != 1 {
		t.Fatalf("got %d projected features, want 1 (p-2 has no elevation)", len(feats))
	}
	if feats[0].ID != "p-1" {
		t.Errorf("feature ID = %q, want p-1", feats[0].ID)
	}

	// Station 5 of a 10-long west-east line, exaggeration 2.
	pt, ok := feats[0].Point()
	if !ok {
		t.Fatal("output feature has no point geometry")
	}
	testutil.AssertInDelta(t, pt.X, 2.5, 1e-9)
	testutil.AssertInDelta(t, pt.Y, 120, 1e-9)
	station, _ := feats[0].FloatProperty("station")
	testutil.AssertInDelta(t, station, 5, 1e-9)
	offset, _ := feats[0].FloatProperty("offset")
	testutil.AssertInDelta(t, offset, 0, 1e-9)
	if unit, _ := feats[0].StringProperty("unit"); unit != "till" {
		t.Errorf("source attribute lost: unit = %q, want till", unit)
	}

	csv := string(findRunFile(t, memfs, "projected.csv"))
	if !strings.Contains(csv, "POINT") {
		t.Errorf("csv output missing WKT geometry:\n%s", csv)
	}

	if !rec.contains("skipping") {
		t.Error("dropped feature p-2 was not logged")
	}
	if !rec.contains("projected 1 of 2 features") {
		t.Errorf("summary line missing, logs: %v", rec.lines)
	}
}

func TestProjectCmd_DegenerateLine(t *testing.T) {
	const badLine = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[4, 4], [4, 4]]},
      "properties": {"et_id": "bad"}
    }
  ]
}`
	memfs := fsutil.NewMemoryFileSystem()
	memfs.WriteFile("line.json", []byte(badLine), 0644)
	memfs.WriteFile("points.json", []byte(pointsNearAA), 0644)
	rec := &logRecorder{}

	cmd := newProjectCmd(memfs, t.TempDir(), rec)
	err := cmd.run()
	if !errors.Is(err, section.ErrInvalidGeometry) {
		t.Fatalf("run() error = %v, want ErrInvalidGeometry", err)
	}
	if n := len(memfs.Files()); n != 2 {
		t.Errorf("a rejected batch must write nothing, have %v", memfs.Files())
	}
}

func TestProjectCmd_NegativeExaggeration(t *testing.T) {
	memfs := fsutil.NewMemoryFileSystem()
	memfs.WriteFile("line.json", []byte(lineAA), 0644)
	memfs.WriteFile("points.json", []byte(pointsNearAA), 0644)
	rec := &logRecorder{}

	cmd := newProjectCmd(memfs, t.TempDir(), rec)
	cmd.cfg.ExaggerationFactor = fptr(-1)
	if err := cmd.run(); !errors.Is(err, section.ErrInvalidParameter) {
		t.Fatalf("run() error = %v, want ErrInvalidParameter", err)
	}
}

func TestProjectCmd_UnknownFormat(t *testing.T) {
	memfs := fsutil.NewMemoryFileSystem()
	rec := &logRecorder{}

	cmd := newProjectCmd(memfs, t.TempDir(), rec)
	cmd.format = "xml"
	err := cmd.run()
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("run() error = %v, want unknown output format", err)
	}
}
