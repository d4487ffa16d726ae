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
	"github.com/strata-data/xsection/internal/profile"
	"github.com/strata-data/xsection/internal/render"
	"github.com/strata-data/xsection/internal/section"
	"github.com/strata-data/xsection/internal/timeutil"
)

func handleProfile(args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	linePath := fs.String("line", "", "Section line file, GeoJSON or Esri JSON (required)")
	grids := fs.String("grids", "", "Comma-separated ASCII grid files, one surface each (required)")
	sectionID := fs.String("section", "", "Section ID to select from the line file")
	title := fs.String("title", "", "Section title for later rendering")
	configPath := fs.String("config", "", "Job configuration file (.json)")
	outDir := fs.String("out", "", "Output root directory")
	exaggeration := fs.Float64("exaggeration", 0, "Vertical exaggeration factor")
	groundUnit := fs.String("ground-unit", "", "Unit of input map coordinates (meters or feet)")
	displayUnit := fs.String("display-unit", "", "Unit of the display distance axis (meters or feet)")
	interval := fs.Float64("interval", 0, "Sample spacing along the line in ground units")
	idField := fs.String("section-field", "", "Attribute holding section line IDs")
	quiet := fs.Bool("quiet", false, "Suppress progress logging")
	fs.Parse(args)

	if *quiet {
		monitoring.SetLogger(nil)
	}

	if *linePath == "" || *grids == "" {
		fmt.Fprintln(os.Stderr, "Error: -line and -grids are required")
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
	overrideFloat(fs, "interval", &cfg.SampleInterval, interval)
	overrideString(fs, "section-field", &cfg.SectionIDField, idField)
	overrideString(fs, "out", &cfg.OutputDir, outDir)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	cmd := &profileCmd{
		cfg:       cfg,
		fs:        fsutil.OSFileSystem{},
		clock:     timeutil.RealClock{},
		logf:      monitoring.Prefixed("profile"),
		linePath:  *linePath,
		gridPaths: splitList(*grids),
		sectionID: *sectionID,
		title:     *title,
	}
	if err := cmd.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Profile build failed: %v\n", err)
		os.Exit(1)
	}
}

// profileCmd carries everything one profile run needs.
type profileCmd struct {
	cfg   *config.JobConfig
	fs    fsutil.FileSystem
	clock timeutil.Clock
	logf  func(format string, v ...interface{})

	linePath  string
	gridPaths []string
	sectionID string
	title     string
}

func (c *profileCmd) run() error {
	if len(c.gridPaths) == 0 {
		return fmt.Errorf("no surface grids given")
	}

	start := c.clock.Now()

	line, err := readSectionLine(c.fs, c.linePath, c.cfg.GetSectionIDField(), c.sectionID)
	if err != nil {
		return err
	}
	proj, err := section.NewProjector(line, displayParams(c.cfg))
	if err != nil {
		return err
	}

	surfaces := make([]profile.Surface, 0, len(c.gridPaths))
	for _, path := range c.gridPaths {
		f, err := c.fs.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		surf, err := profile.ReadASCIIGrid(surfaceName(path), f)
		f.Close()
		if err != nil {
			return err
		}
		surfaces = append(surfaces, surf)
	}

	profiles, err := profile.FromSurfaces(proj, surfaces, c.cfg.GetSampleInterval())
	if err != nil {
		return err
	}
	for _, pr := range profiles {
		c.logf("%s part %d: %d samples, elevation %.1f to %.1f",
			pr.Surface, pr.Part, pr.Stats.Count, pr.Stats.Min, pr.Stats.Max)
	}

	runDir, err := prepareRunDir(c.fs, c.cfg.GetOutputDir(), line.ID)
	if err != nil {
		return err
	}

	sec := render.Section{
		ID:       line.ID,
		Title:    c.title,
		XLabel:   axisLabel("Distance", c.cfg.GetDisplayUnit()),
		YLabel:   axisLabel("Elevation", c.cfg.GetDisplayUnit()),
		Profiles: profiles,
	}
	secPath := filepath.Join(runDir, "section.json")
	if err := writeSectionFile(c.fs, secPath, sec); err != nil {
		return err
	}
	c.logf("wrote %s", secPath)

	geoPath := filepath.Join(runDir, "profiles.geojson")
	if err := writeGeoJSONFile(c.fs, geoPath, profileFeatures(profiles)); err != nil {
		return err
	}
	c.logf("wrote %s", geoPath)

	c.logf("sampled %d surfaces into %d profile parts on section %s in %s",
		len(surfaces), len(profiles), line.ID, c.clock.Since(start).Round(time.Millisecond))
	return nil
}
