package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	cfgpkg "github.com/edalab/edakit/internal/config"
	"github.com/edalab/edakit/internal/frame"
	plotpkg "github.com/edalab/edakit/internal/plot"
)

var (
	// Global flags
	cfgFile            string
	debug              bool
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg *cfgpkg.Global
	// Logger shared by all subcommands; no-op unless --debug.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "edakit",
	Short: "edakit: fetch, filter and plot tabular datasets",
	Long:  `edakit is a small toolkit for exploratory data analysis: it downloads and caches dataset archives, filters out-of-range rows, and renders statistical plots (ANOVA p-values, missing values, category distributions, boxplots, classifier diagnostics, PCA) to image files.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initialize)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.edakit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
}

func initialize() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{HTTPTimeoutSec: 60, PlotWidthIn: 10, PlotHeightIn: 6, MaxCategories: 64, PlotsDir: "plots"}
	}
	cfg = c

	if f := rootCmd.PersistentFlags(); f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}

	if debug {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
}

// loadFrame reads a CSV with the configured loading options.
func loadFrame(path string) (*frame.Frame, error) {
	opt := frame.DefaultOptions()
	opt.MaxRows = cfg.MaxRows
	if cfg.MaxCategories > 0 {
		opt.MaxCategories = cfg.MaxCategories
	}
	return frame.LoadCSV(path, opt)
}

// newRenderer builds a plot renderer with the configured figure size.
func newRenderer() *plotpkg.Renderer {
	r := plotpkg.New(logger)
	if cfg.PlotWidthIn > 0 {
		r.Width = vg.Length(cfg.PlotWidthIn) * vg.Inch
	}
	if cfg.PlotHeightIn > 0 {
		r.Height = vg.Length(cfg.PlotHeightIn) * vg.Inch
	}
	return r
}
