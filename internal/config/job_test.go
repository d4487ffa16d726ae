package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strata-data/xsection/internal/units"
)

func TestEmptyJobConfigDefaults(t *testing.T) {
	cfg := EmptyJobConfig()

	if got := cfg.GetExaggerationFactor(); got != 50 {
		t.Errorf("GetExaggerationFactor() = %v, want 50", got)
	}
	if got := cfg.GetGroundUnit(); got != units.Meters {
		t.Errorf("GetGroundUnit() = %v, want meters", got)
	}
	if got := cfg.GetDisplayUnit(); got != units.Feet {
		t.Errorf("GetDisplayUnit() = %v, want feet", got)
	}
	if got := cfg.GetMinElevation(); got != 0 {
		t.Errorf("GetMinElevation() = %v, want 0", got)
	}
	if got := cfg.GetMaxElevation(); got != 2500 {
		t.Errorf("GetMaxElevation() = %v, want 2500", got)
	}
	if got := cfg.GetMajorElevationInterval(); got != 50 {
		t.Errorf("GetMajorElevationInterval() = %v, want 50", got)
	}
	if got := cfg.GetMinorElevationInterval(); got != 10 {
		t.Errorf("GetMinorElevationInterval() = %v, want 10", got)
	}
	if got := cfg.GetMajorEastingInterval(); got != 1000 {
		t.Errorf("GetMajorEastingInterval() = %v, want 1000", got)
	}
	if got := cfg.GetMinorEastingInterval(); got != 250 {
		t.Errorf("GetMinorEastingInterval() = %v, want 250", got)
	}
	if got := cfg.GetBufferDistance(); got != 500 {
		t.Errorf("GetBufferDistance() = %v, want 500", got)
	}
	if got := cfg.GetSampleInterval(); got != 25 {
		t.Errorf("GetSampleInterval() = %v, want 25", got)
	}
	if got := cfg.GetSnapTolerance(); got != 1 {
		t.Errorf("GetSnapTolerance() = %v, want 1", got)
	}
	if got := cfg.GetElevationField(); got != "elevation" {
		t.Errorf("GetElevationField() = %v, want elevation", got)
	}
	if got := cfg.GetSectionIDField(); got != "et_id" {
		t.Errorf("GetSectionIDField() = %v, want et_id", got)
	}
	if got := cfg.GetOutputDir(); got != "." {
		t.Errorf("GetOutputDir() = %v, want .", got)
	}
}

func TestLoadJobConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.json")
	content := `{"exaggeration_factor": 100, "section_id_field": "xsect"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadJobConfig(path)
	if err != nil {
		t.Fatalf("LoadJobConfig() error = %v", err)
	}
	if got := cfg.GetExaggerationFactor(); got != 100 {
		t.Errorf("GetExaggerationFactor() = %v, want 100", got)
	}
	if got := cfg.GetSectionIDField(); got != "xsect" {
		t.Errorf("GetSectionIDField() = %v, want xsect", got)
	}
	// Untouched fields keep their defaults.
	if got := cfg.GetBufferDistance(); got != 500 {
		t.Errorf("GetBufferDistance() = %v, want default 500", got)
	}
}

func TestLoadJobConfigRejectsNonJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadJobConfig(path); err == nil || !strings.Contains(err.Error(), ".json") {
		t.Errorf("LoadJobConfig() error = %v, want .json extension complaint", err)
	}
}

func TestLoadJobConfigMissingFile(t *testing.T) {
	if _, err := LoadJobConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("LoadJobConfig() on a missing file must error")
	}
}

func TestJobConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *JobConfig
		wantErr bool
	}{
		{"empty is valid", EmptyJobConfig(), false},
		{"good overrides", &JobConfig{ExaggerationFactor: ptrFloat64(10), GroundUnit: ptrString(units.Feet)}, false},
		{"zero exaggeration", &JobConfig{ExaggerationFactor: ptrFloat64(0)}, true},
		{"negative exaggeration", &JobConfig{ExaggerationFactor: ptrFloat64(-2)}, true},
		{"bad ground unit", &JobConfig{GroundUnit: ptrString("leagues")}, true},
		{"bad display unit", &JobConfig{DisplayUnit: ptrString("cubits")}, true},
		{"empty band", &JobConfig{MinElevation: ptrFloat64(100), MaxElevation: ptrFloat64(100)}, true},
		{"zero interval", &JobConfig{MinorEastingInterval: ptrFloat64(0)}, true},
		{"negative buffer", &JobConfig{BufferDistance: ptrFloat64(-1)}, true},
		{"negative snap", &JobConfig{SnapTolerance: ptrFloat64(-0.5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadJobConfigRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.json")
	if err := os.WriteFile(path, []byte(`{"exaggeration_factor": -5}`), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadJobConfig(path); err == nil {
		t.Error("LoadJobConfig() must reject a negative exaggeration")
	}
}
