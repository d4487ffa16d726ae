package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/strata-data/xsection/internal/config"
	"github.com/strata-data/xsection/internal/fsutil"
	"github.com/strata-data/xsection/internal/gis"
	"github.com/strata-data/xsection/internal/render"
	"github.com/strata-data/xsection/internal/section"
	"github.com/strata-data/xsection/internal/security"
)

// loadJobConfig reads the named config file, or starts from an empty
// config when no path was given.
func loadJobConfig(path string) (*config.JobConfig, error) {
	if path == "" {
		return config.EmptyJobConfig(), nil
	}
	return config.LoadJobConfig(path)
}

// flagWasSet reports whether the named flag appeared on the command line.
func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// overrideFloat puts an explicitly set flag over the config file value.
// Flags left at their defaults never clobber the file.
func overrideFloat(fs *flag.FlagSet, name string, dst **float64, v *float64) {
	if flagWasSet(fs, name) {
		*dst = v
	}
}

// overrideString is overrideFloat for string options.
func overrideString(fs *flag.FlagSet, name string, dst **string, v *string) {
	if flagWasSet(fs, name) {
		*dst = v
	}
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// displayParams builds projection parameters from the config.
func displayParams(cfg *config.JobConfig) section.DisplayParams {
	return section.DisplayParams{
		Exaggeration: cfg.GetExaggerationFactor(),
		GroundUnit:   cfg.GetGroundUnit(),
		DisplayUnit:  cfg.GetDisplayUnit(),
	}
}

// axisLabel renders an axis caption with its unit.
func axisLabel(name, unit string) string {
	return fmt.Sprintf("%s (%s)", name, unit)
}

// surfaceName derives a surface name from a grid file name.
func surfaceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// readFeatureFile opens and decodes a GeoJSON or Esri JSON feature file.
func readFeatureFile(fsys fsutil.FileSystem, path, idField string) ([]gis.Feature, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	feats, err := gis.ReadFeatures(f, idField)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return feats, nil
}

// readSectionLine loads the line file and picks the requested section.
func readSectionLine(fsys fsutil.FileSystem, path, idField, sectionID string) (section.Line, error) {
	feats, err := readFeatureFile(fsys, path, idField)
	if err != nil {
		return section.Line{}, err
	}
	line, err := gis.SelectLine(feats, idField, sectionID)
	if err != nil {
		return section.Line{}, fmt.Errorf("%s: %w", path, err)
	}
	return line, nil
}

// prepareRunDir creates the per-run output directory under the output
// root. Section IDs come from data files, so the directory name is
// sanitised and the final path checked before anything is written.
func prepareRunDir(fsys fsutil.FileSystem, baseDir, sectionID string) (string, error) {
	if baseDir == "" {
		baseDir = "."
	}
	if err := fsys.MkdirAll(baseDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", baseDir, err)
	}
	name := ""
	if sectionID != "" {
		name = security.SanitizeFilename(sectionID)
	}
	runDir := render.MakeOutputDir(baseDir, name)
	if err := security.ValidatePathWithinDirectory(runDir, baseDir); err != nil {
		return "", err
	}
	if err := fsys.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run dir %s: %w", runDir, err)
	}
	return runDir, nil
}

// writeGeoJSONFile writes a feature batch as a GeoJSON file.
func writeGeoJSONFile(fsys fsutil.FileSystem, path string, feats []gis.Feature) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := gis.WriteFeatureCollection(f, feats); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// writeCSVFile writes a feature batch as CSV with a WKT geometry column.
func writeCSVFile(fsys fsutil.FileSystem, path string, feats []gis.Feature) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := gis.WriteCSV(f, feats); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// writeSectionFile writes a section bundle for a later render run.
func writeSectionFile(fsys fsutil.FileSystem, path string, sec render.Section) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render.WriteSection(f, sec); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
