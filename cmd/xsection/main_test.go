package main

import (
	"testing"

	"github.com/strata-data/xsection/internal/version"
)

func TestMain_VersionInfo(t *testing.T) {
	if version.Version == "" {
		t.Error("version should not be empty")
	}
	if version.GitSHA == "" || version.BuildTime == "" {
		t.Error("build metadata should carry defaults when not linked in")
	}
}

func TestMain_PrintUsage(t *testing.T) {
	// printUsage should not panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("printUsage() panicked: %v", r)
		}
	}()

	printUsage()
}

func TestMain_CommandValidation(t *testing.T) {
	validCommands := []string{
		"project",
		"profile",
		"events",
		"grid",
		"wells",
		"render",
		"version",
		"help",
	}

	for _, cmd := range validCommands {
		t.Run(cmd, func(t *testing.T) {
			if cmd == "" {
				t.Error("command should not be empty")
			}
		})
	}
}
