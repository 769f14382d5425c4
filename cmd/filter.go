package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edalab/edakit/internal/frame"
)

var (
	filterRanges []string
	filterOut    string
)

var filterCmd = &cobra.Command{
	Use:   "filter <file>",
	Short: "Drop rows with out-of-range values from a CSV",
	Long:  `Filter keeps only the rows where every constrained column falls within its inclusive bound, e.g. --range age=18:60. Columns without a constraint are never filtered.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		constraints, err := parseRanges(filterRanges)
		if err != nil {
			return err
		}
		f, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		out, err := f.FilterRange(constraints)
		if err != nil {
			return err
		}

		w := os.Stdout
		if filterOut != "" {
			file, err := os.Create(filterOut)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer file.Close()
			w = file
		}
		if err := out.WriteCSV(w); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ kept %d of %d rows\n", out.Len(), f.Len())
		return nil
	},
}

// parseRanges converts repeated col=min:max flags into bounds.
func parseRanges(specs []string) (map[string]frame.Bound, error) {
	constraints := make(map[string]frame.Bound, len(specs))
	for _, spec := range specs {
		name, bounds, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --range %q, want col=min:max", spec)
		}
		lo, hi, ok := strings.Cut(bounds, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --range %q, want col=min:max", spec)
		}
		min, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid min in --range %q: %w", spec, err)
		}
		max, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid max in --range %q: %w", spec, err)
		}
		constraints[strings.TrimSpace(name)] = frame.Bound{Min: min, Max: max}
	}
	return constraints, nil
}

func init() {
	filterCmd.Flags().StringArrayVar(&filterRanges, "range", nil, "inclusive bound col=min:max (repeatable)")
	filterCmd.Flags().StringVarP(&filterOut, "out", "o", "", "output CSV path (default stdout)")
	rootCmd.AddCommand(filterCmd)
}
