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
	"github.com/strata-data/xsection/internal/section"
	"github.com/strata-data/xsection/internal/timeutil"
)

func handleProject(args []string) {
	fs := flag.NewFlagSet("project", flag.ExitOnError)
	linePath := fs.String("line", "", "Section line file, GeoJSON or Esri JSON (required)")
	featuresPath := fs.String("features", "", "Point feature file to project (required)")
	sectionID := fs.String("section", "", "Section ID to select from the line file")
	format := fs.String("format", "both", "Output format: geojson, csv or both")
	configPath := fs.String("config", "", "Job configuration file (.json)")
	outDir := fs.String("out", "", "Output root directory")
	exaggeration := fs.Float64("exaggeration", 0, "Vertical exaggeration factor")
	groundUnit := fs.String("ground-unit", "", "Unit of input map coordinates (meters or feet)")
	displayUnit := fs.String("display-unit", "", "Unit of the display distance axis (meters or feet)")
	elevField := fs.String("elevation-field", "", "Attribute holding point elevations")
	idField := fs.String("section-field", "", "Attribute holding section line IDs")
	quiet := fs.Bool("quiet", false, "Suppress progress logging")
	fs.Parse(args)

	if *quiet {
		monitoring.SetLogger(nil)
	}

	if *linePath == "" || *featuresPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -line and -features are required")
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
	overrideString(fs, "elevation-field", &cfg.ElevationField, elevField)
	overrideString(fs, "section-field", &cfg.SectionIDField, idField)
	overrideString(fs, "out", &cfg.OutputDir, outDir)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	cmd := &projectCmd{
		cfg:          cfg,
		fs:           fsutil.OSFileSystem{},
		clock:        timeutil.RealClock{},
		logf:         monitoring.Prefixed("project"),
		linePath:     *linePath,
		featuresPath: *featuresPath,
		sectionID:    *sectionID,
		format:       *format,
	}
	if err := cmd.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Projection failed: %v\n", err)
		os.Exit(1)
	}
}

// projectCmd carries everything one project run needs.
type projectCmd struct {
	cfg   *config.JobConfig
	fs    fsutil.FileSystem
	clock timeutil.Clock
	logf  func(format string, v ...interface{})

	linePath     string
	featuresPath string
	sectionID    string
	format       string
}

func (c *projectCmd) run() error {
	switch c.format {
	case "geojson", "csv", "both":
	default:
		return fmt.Errorf("unknown output format %q (want geojson, csv or both)", c.format)
	}

	start := c.clock.Now()

	line, err := readSectionLine(c.fs, c.linePath, c.cfg.GetSectionIDField(), c.sectionID)
	if err != nil {
		return err
	}
	feats, err := readFeatureFile(c.fs, c.featuresPath, "")
	if err != nil {
		return err
	}

	secFeats, convErrs := gis.ToSectionFeatures(feats, c.cfg.GetElevationField())
	for _, ce := range convErrs {
		c.logf("skipping %v", ce)
	}

	res, err := section.Project(line, secFeats, displayParams(c.cfg))
	if err != nil {
		return err
	}
	for _, f := range res.Failures {
		c.logf("cannot project %v", f)
	}

	runDir, err := prepareRunDir(c.fs, c.cfg.GetOutputDir(), line.ID)
	if err != nil {
		return err
	}

	// Result points skip failed features, so realign the source
	// attributes before export.
	failed := make(map[int]bool, len(res.Failures))
	for _, f := range res.Failures {
		failed[f.Index] = true
	}
	attrs := make([]map[string]any, 0, len(res.Points))
	for i, f := range secFeats {
		if !failed[i] {
			attrs = append(attrs, f.Attributes)
		}
	}
	out := gis.ProjectedFeatures(res.Points, attrs)

	if c.format == "geojson" || c.format == "both" {
		path := filepath.Join(runDir, "projected.geojson")
		if err := writeGeoJSONFile(c.fs, path, out); err != nil {
			return err
		}
		c.logf("wrote %s", path)
	}
	if c.format == "csv" || c.format == "both" {
		path := filepath.Join(runDir, "projected.csv")
		if err := writeCSVFile(c.fs, path, out); err != nil {
			return err
		}
		c.logf("wrote %s", path)
	}

	c.logf("projected %d of %d features (%d unconvertible, %d failed) on section %s in %s",
		len(res.Points), len(feats), len(convErrs), len(res.Failures), line.ID,
		c.clock.Since(start).Round(time.Millisecond))
	return nil
}
