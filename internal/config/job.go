package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/strata-data/xsection/internal/units"
)

// JobConfig is the file form of a section run's parameters. Every field is
// optional; the Get* accessors fall back to the statewide section
// conventions, so a partial config file only needs to name what it
// changes. CLI flags override loaded values.
type JobConfig struct {
	// Display params
	ExaggerationFactor *float64 `json:"exaggeration_factor,omitempty"`
	GroundUnit         *string  `json:"ground_unit,omitempty"`
	DisplayUnit        *string  `json:"display_unit,omitempty"`

	// Elevation band and reference grid params
	MinElevation           *float64 `json:"min_elevation,omitempty"`
	MaxElevation           *float64 `json:"max_elevation,omitempty"`
	MajorElevationInterval *float64 `json:"major_elevation_interval,omitempty"`
	MinorElevationInterval *float64 `json:"minor_elevation_interval,omitempty"`
	MajorEastingInterval   *float64 `json:"major_easting_interval,omitempty"`
	MinorEastingInterval   *float64 `json:"minor_easting_interval,omitempty"`

	// Feature selection params
	BufferDistance *float64 `json:"buffer_distance,omitempty"`
	SampleInterval *float64 `json:"sample_interval,omitempty"`
	SnapTolerance  *float64 `json:"snap_tolerance,omitempty"`
	ElevationField *string  `json:"elevation_field,omitempty"`
	SectionIDField *string  `json:"section_id_field,omitempty"`

	// Output params
	OutputDir *string `json:"output_dir,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyJobConfig returns a JobConfig with all fields unset, so every
// accessor answers with its default.
func EmptyJobConfig() *JobConfig {
	return &JobConfig{}
}

// LoadJobConfig loads a JobConfig from a JSON file. The file must have a
// .json extension and stay under the max file size. Fields omitted from
// the JSON keep their defaults, so partial configs are safe.
func LoadJobConfig(path string) (*JobConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyJobConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *JobConfig) Validate() error {
	if c.ExaggerationFactor != nil && *c.ExaggerationFactor <= 0 {
		return fmt.Errorf("exaggeration_factor must be positive, got %g", *c.ExaggerationFactor)
	}
	if c.GroundUnit != nil && !units.IsValid(*c.GroundUnit) {
		return fmt.Errorf("ground_unit must be one of %s, got %q", units.GetValidUnitsString(), *c.GroundUnit)
	}
	if c.DisplayUnit != nil && !units.IsValid(*c.DisplayUnit) {
		return fmt.Errorf("display_unit must be one of %s, got %q", units.GetValidUnitsString(), *c.DisplayUnit)
	}
	if c.MinElevation != nil && c.MaxElevation != nil && *c.MinElevation >= *c.MaxElevation {
		return fmt.Errorf("elevation band [%g, %g] is empty", *c.MinElevation, *c.MaxElevation)
	}
	for name, v := range map[string]*float64{
		"major_elevation_interval": c.MajorElevationInterval,
		"minor_elevation_interval": c.MinorElevationInterval,
		"major_easting_interval":   c.MajorEastingInterval,
		"minor_easting_interval":   c.MinorEastingInterval,
		"sample_interval":          c.SampleInterval,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", name, *v)
		}
	}
	if c.BufferDistance != nil && *c.BufferDistance < 0 {
		return fmt.Errorf("buffer_distance must be non-negative, got %g", *c.BufferDistance)
	}
	if c.SnapTolerance != nil && *c.SnapTolerance < 0 {
		return fmt.Errorf("snap_tolerance must be non-negative, got %g", *c.SnapTolerance)
	}
	return nil
}

// GetExaggerationFactor returns the exaggeration_factor value or the default.
func (c *JobConfig) GetExaggerationFactor() float64 {
	if c.ExaggerationFactor == nil {
		return 50 // statewide sections compress 50:1
	}
	return *c.ExaggerationFactor
}

// GetGroundUnit returns the ground_unit value or the default.
func (c *JobConfig) GetGroundUnit() string {
	if c.GroundUnit == nil {
		return units.Meters
	}
	return *c.GroundUnit
}

// GetDisplayUnit returns the display_unit value or the default.
func (c *JobConfig) GetDisplayUnit() string {
	if c.DisplayUnit == nil {
		return units.Feet // source elevations are in feet
	}
	return *c.DisplayUnit
}

// GetMinElevation returns the min_elevation value or the default.
func (c *JobConfig) GetMinElevation() float64 {
	if c.MinElevation == nil {
		return 0
	}
	return *c.MinElevation
}

// GetMaxElevation returns the max_elevation value or the default.
func (c *JobConfig) GetMaxElevation() float64 {
	if c.MaxElevation == nil {
		return 2500
	}
	return *c.MaxElevation
}

// GetMajorElevationInterval returns the major_elevation_interval value or the default.
func (c *JobConfig) GetMajorElevationInterval() float64 {
	if c.MajorElevationInterval == nil {
		return 50
	}
	return *c.MajorElevationInterval
}

// GetMinorElevationInterval returns the minor_elevation_interval value or the default.
func (c *JobConfig) GetMinorElevationInterval() float64 {
	if c.MinorElevationInterval == nil {
		return 10
	}
	return *c.MinorElevationInterval
}

// GetMajorEastingInterval returns the major_easting_interval value or the default.
func (c *JobConfig) GetMajorEastingInterval() float64 {
	if c.MajorEastingInterval == nil {
		return 1000
	}
	return *c.MajorEastingInterval
}

// GetMinorEastingInterval returns the minor_easting_interval value or the default.
func (c *JobConfig) GetMinorEastingInterval() float64 {
	if c.MinorEastingInterval == nil {
		return 250
	}
	return *c.MinorEastingInterval
}

// GetBufferDistance returns the buffer_distance value or the default.
func (c *JobConfig) GetBufferDistance() float64 {
	if c.BufferDistance == nil {
		return 500
	}
	return *c.BufferDistance
}

// GetSampleInterval returns the sample_interval value or the default.
func (c *JobConfig) GetSampleInterval() float64 {
	if c.SampleInterval == nil {
		return 25
	}
	return *c.SampleInterval
}

// GetSnapTolerance returns the snap_tolerance value or the default.
func (c *JobConfig) GetSnapTolerance() float64 {
	if c.SnapTolerance == nil {
		return 1
	}
	return *c.SnapTolerance
}

// GetElevationField returns the elevation_field value or the default.
func (c *JobConfig) GetElevationField() string {
	if c.ElevationField == nil {
		return "elevation"
	}
	return *c.ElevationField
}

// GetSectionIDField returns the section_id_field value or the default.
func (c *JobConfig) GetSectionIDField() string {
	if c.SectionIDField == nil {
		return "et_id"
	}
	return *c.SectionIDField
}

// GetOutputDir returns the output_dir value or the default.
func (c *JobConfig) GetOutputDir() string {
	if c.OutputDir == nil {
		return "."
	}
	return *c.OutputDir
}
