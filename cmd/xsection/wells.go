package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/strata-data/xsection/internal/config"
	"github.com/strata-data/xsection/internal/fsutil"
	"github.com/strata-data/xsection/internal/gis"
	"github.com/strata-data/xsection/internal/monitoring"
	"github.com/strata-data/xsection/internal/render"
	"github.com/strata-data/xsection/internal/section"
	"github.com/strata-data/xsection/internal/timeutil"
	"github.com/strata-data/xsection/internal/wells"
)

func handleWells(args []string) {
	fs := flag.NewFlagSet("wells", flag.ExitOnError)
	linePath := fs.String("line", "", "Section line file, GeoJSON or Esri JSON (required)")
	wellsPath := fs.String("wells", "", "Well point feature file (required)")
	intervalsPath := fs.String("intervals", "", "Depth interval CSV keyed by well ID")
	wellIDCol := fs.String("well-column", "", "Interval CSV column holding well IDs")
	fromCol := fs.String("from-column", "", "Interval CSV column holding top depths")
	toCol := fs.String("to-column", "", "Interval CSV column holding bottom depths")
	sectionID := fs.String("section", "", "Section ID to select from the line file")
	configPath := fs.String("config", "", "Job configuration file (.json)")
	outDir := fs.String("out", "", "Output root directory")
	exaggeration := fs.Float64("exaggeration", 0, "Vertical exaggeration factor")
	groundUnit := fs.String("ground-unit", "", "Unit of input map coordinates (meters or feet)")
	displayUnit := fs.String("display-unit", "", "Unit of the display distance axis (meters or feet)")
	buffer := fs.Float64("buffer", 0, "Selection buffer around the line in ground units")
	elevField := fs.String("elevation-field", "", "Attribute holding collar elevations")
	idField := fs.String("section-field", "", "Attribute holding section line IDs")
	quiet := fs.Bool("quiet", false, "Suppress progress logging")
	fs.Parse(args)

	if *quiet {
		monitoring.SetLogger(nil)
	}

	if *linePath == "" || *wellsPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -line and -wells are required")
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
	overrideFloat(fs, "buffer", &cfg.BufferDistance, buffer)
	overrideString(fs, "elevation-field", &cfg.ElevationField, elevField)
	overrideString(fs, "section-field", &cfg.SectionIDField, idField)
	overrideString(fs, "out", &cfg.OutputDir, outDir)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	cmd := &wellsCmd{
		cfg:           cfg,
		fs:            fsutil.OSFileSystem{},
		clock:         timeutil.RealClock{},
		logf:          monitoring.Prefixed("wells"),
		linePath:      *linePath,
		wellsPath:     *wellsPath,
		intervalsPath: *intervalsPath,
		wellIDCol:     *wellIDCol,
		fromCol:       *fromCol,
		toCol:         *toCol,
		sectionID:     *sectionID,
	}
	if err := cmd.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Well placement failed: %v\n", err)
		os.Exit(1)
	}
}

// wellsCmd carries everything one wells run needs.
type wellsCmd struct {
	cfg   *config.JobConfig
	fs    fsutil.FileSystem
	clock timeutil.Clock
	logf  func(format string, v ...interface{})

	linePath      string
	wellsPath     string
	intervalsPath string
	wellIDCol     string
	fromCol       string
	toCol         string
	sectionID     string
}

func (c *wellsCmd) run() error {
	start := c.clock.Now()

	line, err := readSectionLine(c.fs, c.linePath, c.cfg.GetSectionIDField(), c.sectionID)
	if err != nil {
		return err
	}
	proj, err := section.NewProjector(line, displayParams(c.cfg))
	if err != nil {
		return err
	}

	feats, err := readFeatureFile(c.fs, c.wellsPath, "")
	if err != nil {
		return err
	}
	secFeats, convErrs := gis.ToSectionFeatures(feats, c.cfg.GetElevationField())
	for _, ce := range convErrs {
		c.logf("skipping %v", ce)
	}
	ws := wells.FromFeatures(secFeats)

	if c.intervalsPath != "" {
		f, err := c.fs.Open(c.intervalsPath)
		if err != nil {
			return fmt.Errorf("open %s: %w", c.intervalsPath, err)
		}
		byID, err := wells.ReadIntervalCSV(f, c.wellIDCol, c.fromCol, c.toCol)
		f.Close()
		if err != nil {
			return err
		}
		ws = wells.AttachIntervals(ws, byID)
		c.logf("attached depth intervals for %d wells", len(byID))
	}

	selected, err := wells.Select(ws, line, c.cfg.GetBufferDistance())
	if err != nil {
		return err
	}
	prepared, failures := wells.Prepare(proj, selected)
	for _, f := range failures {
		c.logf("cannot place %v", f)
	}

	runDir, err := prepareRunDir(c.fs, c.cfg.GetOutputDir(), line.ID)
	if err != nil {
		return err
	}

	sec := render.Section{
		ID:     line.ID,
		XLabel: axisLabel("Distance", c.cfg.GetDisplayUnit()),
		YLabel: axisLabel("Elevation", c.cfg.GetDisplayUnit()),
		Wells:  prepared,
	}
	secPath := filepath.Join(runDir, "section.json")
	if err := writeSectionFile(c.fs, secPath, sec); err != nil {
		return err
	}
	c.logf("wrote %s", secPath)

	out := wellFeatures(prepared)
	geoPath := filepath.Join(runDir, "wells.geojson")
	if err := writeGeoJSONFile(c.fs, geoPath, out); err != nil {
		return err
	}
	c.logf("wrote %s", geoPath)

	csvPath := filepath.Join(runDir, "wells.csv")
	if err := writeCSVFile(c.fs, csvPath, out); err != nil {
		return err
	}
	c.logf("wrote %s", csvPath)

	c.logf("placed %d of %d wells within %g of section %s (%d unconvertible, %d failed) in %s",
		len(prepared), len(feats), c.cfg.GetBufferDistance(), line.ID,
		len(convErrs), len(failures), c.clock.Since(start).Round(time.Millisecond))
	return nil
}
