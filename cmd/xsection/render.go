package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/strata-data/xsection/internal/fsutil"
	"github.com/strata-data/xsection/internal/monitoring"
	"github.com/strata-data/xsection/internal/render"
	"github.com/strata-data/xsection/internal/timeutil"
)

func handleRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	sections := fs.String("sections", "", "Comma-separated section bundle files (required)")
	formats := fs.String("formats", "png,html", "Comma-separated output formats (png, svg, pdf, html)")
	outDir := fs.String("out", "", "Output root directory")
	title := fs.String("title", "", "Figure title, overrides the bundle title")
	serve := fs.Bool("serve", false, "Serve the output directory over HTTP after rendering")
	addr := fs.String("addr", "localhost:8195", "Preview server listen address")
	quiet := fs.Bool("quiet", false, "Suppress progress logging")
	fs.Parse(args)

	if *quiet {
		monitoring.SetLogger(nil)
	}

	if *sections == "" {
		fmt.Fprintln(os.Stderr, "Error: -sections is required")
		fs.Usage()
		os.Exit(1)
	}

	cmd := &renderCmd{
		fs:           fsutil.OSFileSystem{},
		clock:        timeutil.RealClock{},
		logf:         monitoring.Prefixed("render"),
		sectionPaths: splitList(*sections),
		formats:      splitList(*formats),
		outDir:       *outDir,
		title:        *title,
	}
	if err := cmd.run(); err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}

	if *serve {
		rootDir := *outDir
		if rootDir == "" {
			rootDir = "."
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := render.Preview(ctx, rootDir, *addr); err != nil {
			fmt.Fprintf(os.Stderr, "Preview server failed: %v\n", err)
			os.Exit(1)
		}
	}
}

// renderCmd carries everything one render run needs.
type renderCmd struct {
	fs    fsutil.FileSystem
	clock timeutil.Clock
	logf  func(format string, v ...interface{})

	sectionPaths []string
	formats      []string
	outDir       string
	title        string
}

func (c *renderCmd) run() error {
	start := c.clock.Now()

	if len(c.sectionPaths) == 0 {
		return fmt.Errorf("no section bundles given")
	}

	secs := make([]render.Section, 0, len(c.sectionPaths))
	for _, path := range c.sectionPaths {
		f, err := c.fs.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		sec, err := render.ReadSection(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		secs = append(secs, sec)
	}
	sec := render.MergeSections(secs...)
	if c.title != "" {
		sec.Title = c.title
	}

	runDir, err := prepareRunDir(c.fs, c.outDir, sec.ID)
	if err != nil {
		return err
	}

	for _, format := range c.formats {
		path := filepath.Join(runDir, "section."+format)
		switch format {
		case "png", "svg", "pdf":
			if err := render.SavePlot(sec, render.DefaultPlotSize(), path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		case "html":
			f, err := c.fs.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			if err := render.WriteChartHTML(sec, f); err != nil {
				f.Close()
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown render format %q (want png, svg, pdf or html)", format)
		}
		c.logf("wrote %s", path)
	}

	c.logf("rendered %d bundles (%d profiles, %d wells, %d crossings, %d grid lines) in %s",
		len(secs), len(sec.Profiles), len(sec.Wells), len(sec.Events), len(sec.Grid),
		c.clock.Since(start).Round(time.Millisecond))
	return nil
}
