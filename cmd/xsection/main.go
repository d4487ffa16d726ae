package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/strata-data/xsection/internal/version"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "project":
		handleProject(args)
	case "profile":
		handleProfile(args)
	case "events":
		handleEvents(args)
	case "grid":
		handleGrid(args)
	case "wells":
		handleWells(args)
	case "render":
		handleRender(args)
	case "version":
		fmt.Printf("xsection version %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`xsection - Geological cross-section projection tools

Usage: xsection <command> [options]

Commands:
  project    Project point features onto a section line
  profile    Sample elevation surfaces into section-view profiles
  events     Locate where map features cross a section line
  grid       Build the section-view reference grid
  wells      Place wells and their depth intervals in section view
  render     Draw section bundles as PNG, SVG, PDF or HTML
  version    Show xsection version
  help       Show this help message

Common Flags:
  -config <file>        Job configuration file (.json)
  -section <id>         Section ID to select from the line file
  -out <dir>            Output root (each run gets its own subdirectory)
  -exaggeration <f>     Vertical exaggeration factor
  -ground-unit <unit>   Unit of input map coordinates (meters or feet)
  -display-unit <unit>  Unit of the display distance axis (meters or feet)
  -quiet                Suppress progress logging

Flags set on the command line override values from the config file.

Examples:
  # Project water quality points onto section A-A at 50x exaggeration
  xsection project -line sections.geojson -section A-A -features samples.geojson -exaggeration 50

  # Bedrock and surficial profiles from ASCII elevation grids
  xsection profile -line sections.geojson -section A-A -grids bedrock.asc,surficial.asc

  # Wells within 500 ground units of the line, with their depth logs
  xsection wells -line sections.geojson -section A-A -wells wells.geojson -intervals logs.csv -buffer 500

  # Merge run outputs into one figure and preview it in a browser
  xsection render -sections run1/section.json,run2/section.json -formats png,html -serve`)
}
