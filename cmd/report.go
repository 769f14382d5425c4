package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edalab/edakit/internal/report"
	"github.com/edalab/edakit/internal/stats"
	"github.com/edalab/edakit/internal/utils"
)

var (
	reportOut      string
	reportPlotsDir string
	reportClass    string
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Profile a CSV: missing-value and boxplot figures plus a YAML run record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		plotsDir := reportPlotsDir
		if plotsDir == "" {
			plotsDir = cfg.PlotsDir
		}
		if err := utils.EnsureDir(plotsDir); err != nil {
			return fmt.Errorf("mkdir %s: %w", plotsDir, err)
		}

		run := report.NewRun(f.Name)
		run.Rows = f.Len()

		missing := stats.MissingValues(f)
		for _, m := range missing {
			c := f.Column(m.Column)
			run.Columns = append(run.Columns, report.ColumnInfo{
				Name:    m.Column,
				Kind:    string(c.Kind),
				Missing: m.Count,
				Percent: m.Percent,
			})
		}
		if f.Len() == 0 {
			run.Warnings = append(run.Warnings, "dataset has no rows")
		}

		r := newRenderer()
		missingPath := filepath.Join(plotsDir, "missing.png")
		if err := r.MissingBars(missing, missingPath); err != nil {
			return err
		}
		if len(missing) > 0 {
			run.Plots = append(run.Plots, missingPath)
		}
		boxes, err := r.Boxes(f, nil, reportClass, plotsDir)
		if err != nil {
			return err
		}
		run.Plots = append(run.Plots, boxes...)

		if err := run.Save(reportOut); err != nil {
			return err
		}
		fmt.Printf("✓ run %s: %d plot(s), record at %s\n", run.ID, len(run.Plots), reportOut)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "report.yaml", "path of the YAML run record")
	reportCmd.Flags().StringVar(&reportPlotsDir, "plots-dir", "", "directory for rendered figures (default: configured plots_dir)")
	reportCmd.Flags().StringVar(&reportClass, "class", "", "categorical column to split boxplots by")
	rootCmd.AddCommand(reportCmd)
}
