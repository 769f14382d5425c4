package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edalab/edakit/internal/stats"
	"github.com/edalab/edakit/internal/utils"
)

var (
	plotClass   string
	plotClasses []string
	plotColumns []string
	plotOut     string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render statistical plots from a CSV",
}

var plotAnovaCmd = &cobra.Command{
	Use:   "anova <file>",
	Short: "Bar chart of one-way ANOVA p-values per numeric column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if plotClass == "" {
			return fmt.Errorf("--class is required")
		}
		if len(plotClasses) != 2 {
			return fmt.Errorf("exactly two --classes values are required, got %d", len(plotClasses))
		}
		f, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		pvals, err := stats.OneWayANOVA(f, plotClass, plotClasses[0], plotClasses[1])
		if err != nil {
			return err
		}
		return newRenderer().PValueBars(pvals, outPath("anova.png"))
	},
}

var plotMissingCmd = &cobra.Command{
	Use:   "missing <file>",
	Short: "Bar chart of empty-value percentage per column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		return newRenderer().MissingBars(stats.MissingValues(f), outPath("missing.png"))
	},
}

var plotCategoriesCmd = &cobra.Command{
	Use:   "categories <file>",
	Short: "Grouped bar charts of category counts split by class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if plotClass == "" {
			return fmt.Errorf("--class is required")
		}
		f, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		columns := plotColumns
		if len(columns) == 0 {
			columns = f.CategoricalColumns()
		}
		// --out names a directory here: one figure is written per column.
		dir := plotOut
		if dir == "" {
			dir = cfg.PlotsDir
		}
		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
		r := newRenderer()
		for _, col := range columns {
			if col == plotClass {
				continue
			}
			dist, err := stats.CategoryDistribution(f, col, plotClass)
			if err != nil {
				return err
			}
			if err := r.CategoryBars(dist, col, plotClass, filepath.Join(dir, "categories_"+col+".png")); err != nil {
				return err
			}
		}
		return nil
	},
}

var plotBoxesCmd = &cobra.Command{
	Use:   "boxes <file>",
	Short: "One boxplot per numeric column, split per class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		dir := plotOut
		if dir == "" {
			dir = cfg.PlotsDir
		}
		written, err := newRenderer().Boxes(f, plotColumns, plotClass, dir)
		if err != nil {
			return err
		}
		fmt.Printf("✓ wrote %d boxplot(s) under %s\n", len(written), dir)
		return nil
	},
}

var plotPCACmd = &cobra.Command{
	Use:   "pca <file>",
	Short: "2D PCA projection with feature loading vectors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		columns := plotColumns
		if len(columns) == 0 {
			columns = f.NumericColumns()
		}
		rows, kept, err := f.Matrix(columns)
		if err != nil {
			return err
		}
		proj, err := stats.PCA2D(rows, columns)
		if err != nil {
			return err
		}
		var classes []string
		if plotClass != "" {
			class := f.Column(plotClass)
			if class == nil {
				return fmt.Errorf("class column %q not found", plotClass)
			}
			classes = make([]string, len(kept))
			for i, r := range kept {
				classes[i] = class.Label(r)
			}
		}
		return newRenderer().PCAScatter(proj, classes, outPath("pca.png"))
	},
}

// outPath resolves --out, defaulting to a named file in the configured
// plots directory, which is created on demand.
func outPath(name string) string {
	if plotOut != "" {
		return plotOut
	}
	_ = utils.EnsureDir(cfg.PlotsDir)
	return filepath.Join(cfg.PlotsDir, name)
}

func init() {
	plotCmd.PersistentFlags().StringVar(&plotClass, "class", "", "categorical column holding the class labels")
	plotCmd.PersistentFlags().StringSliceVar(&plotClasses, "classes", nil, "the two class labels to compare (anova)")
	plotCmd.PersistentFlags().StringSliceVar(&plotColumns, "columns", nil, "columns to include (default: all applicable)")
	plotCmd.PersistentFlags().StringVarP(&plotOut, "out", "o", "", "output file or directory")
	plotCmd.AddCommand(plotAnovaCmd, plotMissingCmd, plotCategoriesCmd, plotBoxesCmd, plotPCACmd)
	rootCmd.AddCommand(plotCmd)
}
