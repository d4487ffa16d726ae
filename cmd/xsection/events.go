package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/strata-data/xsection/internal/config"
	"github.com/strata-data/xsection/internal/eventline"
	"github.com/strata-data/xsection/internal/fsutil"
	"github.com/strata-data/xsection/internal/monitoring"
	"github.com/strata-data/xsection/internal/render"
	"github.com/strata-data/xsection/internal/section"
	"github.com/strata-data/xsection/internal/timeutil"
)

func handleEvents(args []string) {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	linePath := fs.String("line", "", "Section line file, GeoJSON or Esri JSON (required)")
	featuresPath := fs.String("features", "", "Crossing feature file: points, lines or polygons (required)")
	sectionID := fs.String("section", "", "Section ID to select from the line file")
	configPath := fs.String("config", "", "Job configuration file (.json)")
	outDir := fs.String("out", "", "Output root directory")
	exaggeration := fs.Float64("exaggeration", 0, "Vertical exaggeration factor")
	groundUnit := fs.String("ground-unit", "", "Unit of input map coordinates (meters or feet)")
	displayUnit := fs.String("display-unit", "", "Unit of the display distance axis (meters or feet)")
	snap := fs.Float64("snap", 0, "Snap tolerance for point features in ground units")
	minElev := fs.Float64("min-elevation", 0, "Bottom of the event elevation band")
	maxElev := fs.Float64("max-elevation", 0, "Top of the event elevation band")
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
	overrideFloat(fs, "snap", &cfg.SnapTolerance, snap)
	overrideFloat(fs, "min-elevation", &cfg.MinElevation, minElev)
	overrideFloat(fs, "max-elevation", &cfg.MaxElevation, maxElev)
	overrideString(fs, "section-field", &cfg.SectionIDField, idField)
	overrideString(fs, "out", &cfg.OutputDir, outDir)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	cmd := &eventsCmd{
		cfg:          cfg,
		fs:           fsutil.OSFileSystem{},
		clock:        timeutil.RealClock{},
		logf:         monitoring.Prefixed("events"),
		linePath:     *linePath,
		featuresPath: *featuresPath,
		sectionID:    *sectionID,
	}
	if err := cmd.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Event extraction failed: %v\n", err)
		os.Exit(1)
	}
}

// eventsCmd carries everything one events run needs.
type eventsCmd struct {
	cfg   *config.JobConfig
	fs    fsutil.FileSystem
	clock timeutil.Clock
	logf  func(format string, v ...interface{})

	linePath     string
	featuresPath string
	sectionID    string
}

func (c *eventsCmd) run() error {
	start := c.clock.Now()

	line, err := readSectionLine(c.fs, c.linePath, c.cfg.GetSectionIDField(), c.sectionID)
	if err != nil {
		return err
	}
	proj, err := section.NewProjector(line, displayParams(c.cfg))
	if err != nil {
		return err
	}

	feats, err := readFeatureFile(c.fs, c.featuresPath, "")
	if err != nil {
		return err
	}

	// Split the sources by geometry kind; each kind crosses the section
	// in its own way.
	var points []section.Feature
	var lineSources []eventline.LineSource
	var ringSources []eventline.RingSource
	for _, f := range feats {
		if pt, ok := f.Point(); ok {
			points = append(points, section.Feature{ID: f.ID, Location: pt, Attributes: f.Properties})
			continue
		}
		if parts, ok := f.LineParts(); ok {
			for _, part := range parts {
				lineSources = append(lineSources, eventline.LineSource{ID: f.ID, Vertices: part, Attributes: f.Properties})
			}
			continue
		}
		if rings, ok := f.Rings(); ok {
			ringSources = append(ringSources, eventline.RingSource{ID: f.ID, Rings: rings, Attributes: f.Properties})
			continue
		}
		c.logf("skipping %s: no usable geometry", f.ID)
	}

	band := eventline.Band{Min: c.cfg.GetMinElevation(), Max: c.cfg.GetMaxElevation()}
	fromPoints, err := eventline.FromPoints(proj, points, c.cfg.GetSnapTolerance(), band)
	if err != nil {
		return err
	}
	fromLines, err := eventline.FromLines(proj, lineSources, band)
	if err != nil {
		return err
	}
	fromRings, err := eventline.FromPolygons(proj, ringSources, band)
	if err != nil {
		return err
	}
	events := eventline.Merge(fromPoints, fromLines, fromRings)

	runDir, err := prepareRunDir(c.fs, c.cfg.GetOutputDir(), line.ID)
	if err != nil {
		return err
	}

	sec := render.Section{
		ID:     line.ID,
		XLabel: axisLabel("Distance", c.cfg.GetDisplayUnit()),
		YLabel: axisLabel("Elevation", c.cfg.GetDisplayUnit()),
		Events: events,
	}
	secPath := filepath.Join(runDir, "section.json")
	if err := writeSectionFile(c.fs, secPath, sec); err != nil {
		return err
	}
	c.logf("wrote %s", secPath)

	geoPath := filepath.Join(runDir, "events.geojson")
	if err := writeGeoJSONFile(c.fs, geoPath, eventFeatures(events)); err != nil {
		return err
	}
	c.logf("wrote %s", geoPath)

	c.logf("located %d crossings (%d from points, %d from lines, %d from polygons) on section %s in %s",
		len(events), len(fromPoints), len(fromLines), len(fromRings), line.ID,
		c.clock.Since(start).Round(time.Millisecond))
	return nil
}
