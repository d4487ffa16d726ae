package main

import (
	"bytes"
	"strings"
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

// lineBB is long enough for the default-ish sample intervals.
const lineBB = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[0, 0], [100, 0]]},
      "properties": {"et_id": "B-B"}
    }
  ]
}`

// flatGrid covers the line with a constant elevation of 100.
const flatGrid = `ncols 2
nrows 2
xllcorner -50
yllcorner -50
cellsize 100
NODATA_value -9999
100 100
100 100
`

func newProfileCmd(memfs *fsutil.MemoryFileSystem, base string, rec *logRecorder) *profileCmd {
	cfg := &config.JobConfig{
		ExaggerationFactor: fptr(1),
		GroundUnit:         sptr(units.Meters),
		DisplayUnit:        sptr(units.Meters),
		SampleInterval:     fptr(25),
		OutputDir:          sptr(base),
	}
	return &profileCmd{
		cfg:       cfg,
		fs:        memfs,
		clock:     timeutil.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		logf:      rec.logf,
		linePath:  "line.json",
		gridPaths: []string{"bedrock.asc"},
		title:     "Bedrock surface",
	}
}

func TestProfileCmd(t *testing.T) {
	base := t.TempDir()
	memfs := fsutil.NewMemoryFileSystem()
	memfs.WriteFile("line.json", []byte(lineBB), 0644)
	memfs.WriteFile("bedrock.asc", []byte(flatGrid), 0644)
	rec := &logRecorder{}

	cmd := newProfileCmd(memfs, base, rec)
	if err := cmd.run(); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	sec, err := render.ReadSection(bytes.NewReader(findRunFile(t, memfs, "section.json")))
	if err != nil {
		t.Fatalf("re-read bundle: %v", err)
	}
	if sec.ID != "B-B" || sec.Title != "Bedrock surface" {
		t.Errorf("bundle header = %q / %q", sec.ID, sec.Title)
	}
	if len(sec.Profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(sec.Profiles))
	}

	pr := sec.Profiles[0]
	if pr.Surface != "bedrock" || pr.Part != 0 {
		t.Errorf("profile = %s part %d, want bedrock part 0", pr.Surface, pr.Part)
	}
	if len(pr.Points) != 5 {
		t.Fatalf("got %d samples, want 5 (every 25 over 100)", len(pr.Points))
	}
	testutil.AssertInDelta(t, pr.Points[0].X, 0, 1e-9)
	testutil.AssertInDelta(t, pr.Points[4].X, 100, 1e-9)
	for _, p := range pr.Points {
		testutil.AssertInDelta(t, p.Y, 100, 1e-9)
	}
	if pr.Stats.Count != 5 || pr.Stats.Min != 100 || pr.Stats.Max != 100 {
		t.Errorf("stats = %+v", pr.Stats)
	}

	feats, err := gis.ReadFeatureCollection(bytes.NewReader(findRunFile(t, memfs, "profiles.geojson")))
	if err != nil {
		t.Fatalf("re-read geojson: %v", err)
	}
	if len(feats) != 1 {
		t.Fatalf("got %d profile features, want 1", len(feats))
	}
	vertices, ok := feats[0].LineVertices()
	if !ok || len(vertices) != 5 {
		t.Errorf("profile polyline has %d vertices, ok=%v", len(vertices), ok)
	}

	if !rec.contains("sampled 1 surfaces into 1 profile parts") {
		t.Errorf("summary line missing, logs: %v", rec.lines)
	}
}

func TestProfileCmd_IntervalExceedsLine(t *testing.T) {
	memfs := fsutil.NewMemoryFileSystem()
	memfs.WriteFile("line.json", []byte(lineBB), 0644)
	memfs.WriteFile("bedrock.asc", []byte(flatGrid), 0644)
	rec := &logRecorder{}

	cmd := newProfileCmd(memfs, t.TempDir(), rec)
	cmd.cfg.SampleInterval = fptr(500)
	err := cmd.run()
	if err == nil || !strings.Contains(err.Error(), "exceeds line length") {
		t.Fatalf("run() error = %v, want interval exceeds line length", err)
	}
}

func TestProfileCmd_NoGrids(t *testing.T) {
	memfs := fsutil.NewMemoryFileSystem()
	rec := &logRecorder{}

	cmd := newProfileCmd(memfs, t.TempDir(), rec)
	cmd.gridPaths = nil
	if err := cmd.run(); err == nil {
		t.Fatal("expected error for empty grid list")
	}
}
