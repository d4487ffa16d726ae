package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/strata-data/xsection/internal/config"
	"github.com/strata-data/xsection/internal/fsutil"
	"github.com/strata-data/xsection/internal/monitoring"
	"github.com/strata-data/xsection/internal/refgrid"
	"github.com/strata-data/xsection/internal/render"
	"github.com/strata-data/xsection/internal/section"
	"github.com/strata-data/xsection/internal/timeutil"
)

func handleGrid(args []string) {
	fs := flag.NewFlagSet("grid", flag.ExitOnError)
	linePath := fs.String("line", "", "Section line file, GeoJSON or Esri JSON (required)")
	sectionID := fs.String("section", "", "Section ID to select from the line file")
	configPath := fs.String("config", "", "Job configuration file (.json)")
	outDir := fs.String("out", "", "Output root directory")
	exaggeration := fs.Float64("exaggeration", 0, "Vertical exaggeration factor")
	groundUnit := fs.String("ground-unit", "", "Unit of input map coordinates (meters or feet)")
	displayUnit := fs.String("display-unit", "", "Unit of the display distance axis (meters or feet)")
	minElev := fs.Float64("min-elevation", 0, "Bottom of the gridded elevation band")
	maxElev := fs.Float64("max-elevation", 0, "Top of the gridded elevation band")
	majorElev := fs.Float64("major-elevation", 0, "Major elevation line spacing")
	minorElev := fs.Float64("minor-elevation", 0, "Minor elevation line spacing")
	majorEast := fs.Float64("major-easting", 0, "Major easting line spacing in ground units")
	minorEast := fs.Float64("minor-easting", 0, "Minor easting line spacing in ground units")
	idField := fs.String("section-field", "", "Attribute holding section line IDs")
	quiet := fs.Bool("quiet", false, "Suppress progress logging")
	fs.Parse(args)

	if *quiet {
		monitoring.SetLogger(nil)
	}

	if *linePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -line is required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := loadJobConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	overrideFloat(fs, "exaggeration", &cfg.ExaggerationFactor, exaggeration)
	overrideString(fs, "ground-unit", &cfg.GroundUnit, groundUnit)
	overrideString(fs, "display-unit", &cfg.DisplayUnit, displayUnit)
	overrideFloat(fs, "min-elevation", &cfg.MinElevation, minElev)
	overrideFloat(fs, "max-elevation", &cfg.MaxElevation, maxElev)
	overrideFloat(fs, "major-elevation", &cfg.MajorElevationInterval, majorElev)
	overrideFloat(fs, "minor-elevation", &cfg.MinorElevationInterval, minorElev)
	overrideFloat(fs, "major-easting", &cfg.MajorEastingInterval, majorEast)
	overrideFloat(fs, "minor-easting", &cfg.MinorEastingInterval, minorEast)
	overrideString(fs, "section-field", &cfg.SectionIDField, idField)
	overrideString(fs, "out", &cfg.OutputDir, outDir)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	cmd := &gridCmd{
		cfg:       cfg,
		fs:        fsutil.OSFileSystem{},
		clock:     timeutil.RealClock{},
		logf:      monitoring.Prefixed("grid"),
		linePath:  *linePath,
		sectionID: *sectionID,
	}
	if err := cmd.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Grid build failed: %v\n", err)
		os.Exit(1)
	}
}

// gridCmd carries everything one grid run needs.
type gridCmd struct {
	cfg   *config.JobConfig
	fs    fsutil.FileSystem
	clock timeutil.Clock
	logf  func(format string, v ...interface{})

	linePath  string
	sectionID string
}

func (c *gridCmd) run() error {
	start := c.clock.Now()

	line, err := readSectionLine(c.fs, c.linePath, c.cfg.GetSectionIDField(), c.sectionID)
	if err != nil {
		return err
	}
	proj, err := section.NewProjector(line, displayParams(c.cfg))
	if err != nil {
		return err
	}

	gcfg := refgrid.Config{
		MinElevation:       c.cfg.GetMinElevation(),
		MaxElevation:       c.cfg.GetMaxElevation(),
		MajorElevationStep: c.cfg.GetMajorElevationInterval(),
		MinorElevationStep: c.cfg.GetMinorElevationInterval(),
		MajorEastingStep:   c.cfg.GetMajorEastingInterval(),
		MinorEastingStep:   c.cfg.GetMinorEastingInterval(),
	}
	grid, err := gcfg.Build(proj)
	if err != nil {
		return err
	}

	var elevCount, eastCount int
	for _, gl := range grid {
		if gl.Kind == refgrid.ElevationLine {
			elevCount++
		} else {
			eastCount++
		}
	}

	runDir, err := prepareRunDir(c.fs, c.cfg.GetOutputDir(), line.ID)
	if err != nil {
		return err
	}

	sec := render.Section{
		ID:     line.ID,
		XLabel: axisLabel("Distance", c.cfg.GetDisplayUnit()),
		YLabel: axisLabel("Elevation", c.cfg.GetDisplayUnit()),
		Grid:   grid,
	}
	secPath := filepath.Join(runDir, "section.json")
	if err := writeSectionFile(c.fs, secPath, sec); err != nil {
		return err
	}
	c.logf("wrote %s", secPath)

	geoPath := filepath.Join(runDir, "grid.geojson")
	if err := writeGeoJSONFile(c.fs, geoPath, gridFeatures(grid)); err != nil {
		return err
	}
	c.logf("wrote %s", geoPath)

	c.logf("built %d grid lines (%d elevation, %d easting) for section %s in %s",
		len(grid), elevCount, eastCount, line.ID, c.clock.Since(start).Round(time.Millisecond))
	return nil
}
