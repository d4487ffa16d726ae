package refgrid

import (
	"math"
	"testing"

	"github.com/strata-data/xsection/internal/geometry"
	"github.com/strata-data/xsection/internal/section"
)

const tol = 1e-9

func mustProjector(t *testing.T, vertices ...geometry.Point) *section.Projector {
	t.Helper()
	proj, err := section.NewProjector(section.Line{ID: "A", Vertices: vertices}, section.DefaultDisplayParams())
	if err != nil {
		t.Fatalf("NewProjector() error = %v", err)
	}
	return proj
}

func TestElevations(t *testing.T) {
	proj := mustProjector(t, geometry.Pt(0, 0), geometry.Pt(100, 0))
	cfg := Config{
		MinElevation:       0,
		MaxElevation:       100,
		MajorElevationStep: 50,
		MinorElevationStep: 10,
		MajorEastingStep:   1000,
		MinorEastingStep:   250,
	}

	lines, err := cfg.Elevations(proj)
	if err != nil {
		t.Fatalf("Elevations() error = %v", err)
	}
	if len(lines) != 11 {
		t.Fatalf("got %d lines, want 11 (0..100 every 10)", len(lines))
	}

	var majors, minors int
	for _, l := range lines {
		if l.Kind != ElevationLine {
			t.Errorf("kind = %s, want elevation", l.Kind)
		}
		if l.Start.X != 0 || math.Abs(l.End.X-100) > tol {
			t.Errorf("line at %g spans x %g..%g, want 0..100", l.Label, l.Start.X, l.End.X)
		}
		if l.Start.Y != l.Label || l.End.Y != l.Label {
			t.Errorf("line at %g has mismatched y", l.Label)
		}
		switch l.Rank {
		case Major:
			majors++
			if math.Mod(l.Label, 50) != 0 {
				t.Errorf("label %g ranked major", l.Label)
			}
		case Minor:
			minors++
		}
	}
	if majors != 3 { // 0, 50, 100
		t.Errorf("got %d major lines, want 3", majors)
	}
	if minors != 8 {
		t.Errorf("got %d minor lines, want 8", minors)
	}
}

func TestElevationsRespectDisplayWidth(t *testing.T) {
	line := section.Line{ID: "A", Vertices: []geometry.Point{geometry.Pt(0, 0), geometry.Pt(1000, 0)}}
	params := section.DefaultDisplayParams()
	params.Exaggeration = 50
	proj, err := section.NewProjector(line, params)
	if err != nil {
		t.Fatalf("NewProjector() error = %v", err)
	}

	lines, err := DefaultConfig().Elevations(proj)
	if err != nil {
		t.Fatalf("Elevations() error = %v", err)
	}
	if got := lines[0].End.X; math.Abs(got-20) > tol {
		t.Errorf("grid width = %v, want 20 (1000 m / 50x)", got)
	}
}

func TestEastings(t *testing.T) {
	proj := mustProjector(t, geometry.Pt(100, 0), geometry.Pt(1100, 0))
	cfg := DefaultConfig()
	cfg.MinElevation = 0
	cfg.MaxElevation = 500

	lines, err := cfg.Eastings(proj)
	if err != nil {
		t.Fatalf("Eastings() error = %v", err)
	}

	// Derived range rounds outward to 0..2000, but only eastings the line
	// actually crosses produce grid lines: 250..1000 every 250.
	wantLabels := []float64{250, 500, 750, 1000}
	if len(lines) != len(wantLabels) {
		t.Fatalf("got %d lines, want %d: %+v", len(lines), len(wantLabels), lines)
	}
	for i, want := range wantLabels {
		l := lines[i]
		if l.Label != want {
			t.Errorf("line %d label = %g, want %g", i, l.Label, want)
		}
		if math.Abs(l.Start.X-(want-100)) > tol {
			t.Errorf("line %d at x=%g, want %g", i, l.Start.X, want-100)
		}
		if l.Start.Y != 0 || l.End.Y != 500 {
			t.Errorf("line %d spans %g..%g, want the elevation band", i, l.Start.Y, l.End.Y)
		}
		wantRank := Minor
		if math.Mod(want, 1000) == 0 {
			wantRank = Major
		}
		if l.Rank != wantRank {
			t.Errorf("line %d rank = %s, want %s", i, l.Rank, wantRank)
		}
	}
}

func TestEastingsRecrossingLine(t *testing.T) {
	// The line hooks back west, crossing easting 500 twice.
	proj := mustProjector(t, geometry.Pt(0, 0), geometry.Pt(1000, 0), geometry.Pt(1000, 400), geometry.Pt(400, 400))
	cfg := DefaultConfig()
	cfg.MinEasting = 500
	cfg.MaxEasting = 500
	cfg.MinorEastingStep = 500
	cfg.MajorEastingStep = 500

	lines, err := cfg.Eastings(proj)
	if err != nil {
		t.Fatalf("Eastings() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 crossings of easting 500", len(lines))
	}
	if math.Abs(lines[0].Start.X-500) > tol {
		t.Errorf("first crossing at x=%v, want 500", lines[0].Start.X)
	}
	if math.Abs(lines[1].Start.X-1900) > tol {
		t.Errorf("second crossing at x=%v, want 1900", lines[1].Start.X)
	}
	if lines[0].Label != lines[1].Label {
		t.Errorf("labels differ: %g, %g", lines[0].Label, lines[1].Label)
	}
}

func TestBuildCombines(t *testing.T) {
	proj := mustProjector(t, geometry.Pt(0, 0), geometry.Pt(2000, 0))
	lines, err := DefaultConfig().Build(proj)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	var elev, east int
	for _, l := range lines {
		switch l.Kind {
		case ElevationLine:
			elev++
		case EastingLine:
			east++
		}
	}
	if elev == 0 || east == 0 {
		t.Errorf("Build() produced %d elevation and %d easting lines", elev, east)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty band", func(c *Config) { c.MinElevation, c.MaxElevation = 100, 100 }},
		{"zero elevation step", func(c *Config) { c.MinorElevationStep = 0 }},
		{"negative easting step", func(c *Config) { c.MajorEastingStep = -10 }},
		{"minor exceeds major", func(c *Config) { c.MinorElevationStep = 500 }},
		{"inverted easting range", func(c *Config) { c.MinEasting, c.MaxEasting = 10, 5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted a bad config")
			}
		})
	}
}
