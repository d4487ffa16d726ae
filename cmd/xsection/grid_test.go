package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/strata-data/xsection/internal/config"
	"github.com/strata-data/xsection/internal/fsutil"
	"github.com/strata-data/xsection/internal/gis"
	"github.com/strata-data/xsection/internal/refgrid"
	"github.com/strata-data/xsection/internal/render"
	"github.com/strata-data/xsection/internal/testutil"
	"github.com/strata-data/xsection/internal/timeutil"
	"github.com/strata-data/xsection/internal/units"
)

func newGridCmd(memfs *fsutil.MemoryFileSystem, base string, rec *logRecorder) *gridCmd {
	cfg := &config.JobConfig{
		ExaggerationFactor:     fptr(1),
		GroundUnit:             sptr(units.Meters),
		DisplayUnit:            sptr(units.Meters),
		MinElevation:           fptr(200),
		MaxElevation:           fptr(400),
		MajorElevationInterval: fptr(100),
		MinorElevationInterval: fptr(50),
		MajorEastingInterval:   fptr(50),
		MinorEastingInterval:   fptr(25),
		OutputDir:              sptr(base),
	}
	return &gridCmd{
		cfg:      cfg,
		fs:       memfs,
		clock:    timeutil.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		logf:     rec.logf,
		linePath: "line.json",
	}
}

func TestGridCmd(t *testing.T) {
	base := t.TempDir()
	memfs := fsutil.NewMemoryFileSystem()
	memfs.WriteFile("line.json", []byte(lineBB), 0644)
	rec := &logRecorder{}

	cmd := newGridCmd(memfs, base, rec)
	if err := cmd.run(); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	sec, err := render.ReadSection(bytes.NewReader(findRunFile(t, memfs, "section.json")))
	if err != nil {
		t.Fatalf("re-read bundle: %v", err)
	}
	// Elevations 200..400 every 50, eastings 0..100 every 25.
	if len(sec.Grid) != 10 {
		t.Fatalf("got %d grid lines, want 10", len(sec.Grid))
	}

	first := sec.Grid[0]
	if first.Kind != refgrid.ElevationLine || first.Rank != refgrid.Major || first.Label != 200 {
		t.Errorf("grid[0] = %+v, want major elevation 200", first)
	}
	testutil.AssertInDelta(t, first.Start.X, 0, 1e-9)
	testutil.AssertInDelta(t, first.End.X, 100, 1e-9)
	testutil.AssertInDelta(t, first.Start.Y, 200, 1e-9)

	if sec.Grid[1].Rank != refgrid.Minor || sec.Grid[1].Label != 250 {
		t.Errorf("grid[1] = %+v, want minor elevation 250", sec.Grid[1])
	}

	east := sec.Grid[5]
	if east.Kind != refgrid.EastingLine || east.Label != 0 {
		t.Errorf("grid[5] = %+v, want easting 0", east)
	}
	testutil.AssertInDelta(t, east.Start.Y, 200, 1e-9)
	testutil.AssertInDelta(t, east.End.Y, 400, 1e-9)
	if mid := sec.Grid[7]; mid.Rank != refgrid.Major || mid.Label != 50 {
		t.Errorf("grid[7] = %+v, want major easting 50", mid)
	}

	feats, err := gis.ReadFeatureCollection(bytes.NewReader(findRunFile(t, memfs, "grid.geojson")))
	if err != nil {
		t.Fatalf("re-read geojson: %v", err)
	}
	if len(feats) != 10 {
		t.Fatalf("got %d grid features, want 10", len(feats))
	}
	if kind, _ := feats[0].StringProperty("kind"); kind != "elevation" {
		t.Errorf("feature kind = %q, want elevation", kind)
	}

	if !rec.contains("built 10 grid lines (5 elevation, 5 easting)") {
		t.Errorf("summary line missing, logs: %v", rec.lines)
	}
}

func TestGridCmd_MinorStepExceedsMajor(t *testing.T) {
	memfs := fsutil.NewMemoryFileSystem()
	memfs.WriteFile("line.json", []byte(lineBB), 0644)
	rec := &logRecorder{}

	cmd := newGridCmd(memfs, t.TempDir(), rec)
	cmd.cfg.MajorElevationInterval = fptr(10)
	if err := cmd.run(); err == nil {
		t.Fatal("expected error when the minor step exceeds the major step")
	}
}
