// Package plot renders statistical summaries to PNG files using
// gonum.org/v1/plot, standing in for the interactive figures the analysis
// notebooks would otherwise show.
package plot

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/edalab/edakit/internal/stats"
)

// Renderer draws summary plots to image files.
type Renderer struct {
	logger *zap.Logger
	// Width and Height of saved figures.
	Width  vg.Length
	Height vg.Length
}

// New returns a Renderer with default figure dimensions. A nil logger is
// replaced with a no-op logger.
func New(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		logger: logger,
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

func (r *Renderer) save(p *plot.Plot, path string) error {
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	r.logger.Info("wrote plot", zap.String("path", path))
	return nil
}

// PValueBars draws one bar per numeric column with its ANOVA p-value,
// keeping the ascending order of pvals. NaN p-values are drawn as zero
// height bars so the column still appears on the axis.
func (r *Renderer) PValueBars(pvals []stats.PValue, path string) error {
	if len(pvals) == 0 {
		r.logger.Warn("no p-values to plot")
		return nil
	}
	p := plot.New()
	p.Title.Text = "ANOVA P-Value"
	p.Y.Label.Text = "P-Value"

	vals := make(plotter.Values, len(pvals))
	names := make([]string, len(pvals))
	for i, pv := range pvals {
		if !math.IsNaN(pv.P) {
			vals[i] = pv.P
		}
		names[i] = pv.Column
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return fmt.Errorf("p-value bars: %w", err)
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	return r.save(p, path)
}

// MissingBars draws the percentage of empty cells per column. An empty
// summary logs a warning and renders nothing, as the original does when
// the dataset has no rows.
func (r *Renderer) MissingBars(summary []stats.MissingSummary, path string) error {
	if len(summary) == 0 {
		r.logger.Warn("no data to plot")
		return nil
	}
	p := plot.New()
	p.Title.Text = "Empty values per column"
	p.Y.Label.Text = "% of empty values"

	vals := make(plotter.Values, len(summary))
	names := make([]string, len(summary))
	for i, m := range summary {
		vals[i] = m.Percent
		names[i] = m.Column
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return fmt.Errorf("missing-value bars: %w", err)
	}
	bars.Color = plotutil.Color(1)
	p.Add(bars)
	p.NominalX(names...)
	return r.save(p, path)
}

// CategoryBars draws a grouped bar chart of the category distribution:
// one bar group per category value, one colored bar per class.
func (r *Renderer) CategoryBars(dist []stats.CategoryCount, col, classColumn, path string) error {
	if len(dist) == 0 {
		r.logger.Warn("no categories to plot", zap.String("column", col))
		return nil
	}
	// Preserve the count-descending order of first appearance.
	var values, classes []string
	seenValue := map[string]bool{}
	seenClass := map[string]bool{}
	counts := map[[2]string]int{}
	for _, c := range dist {
		if !seenValue[c.Value] {
			seenValue[c.Value] = true
			values = append(values, c.Value)
		}
		if !seenClass[c.Class] {
			seenClass[c.Class] = true
			classes = append(classes, c.Class)
		}
		counts[[2]string{c.Value, c.Class}] = c.Count
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s categories distribution and %s ratio", col, classColumn)
	p.Y.Label.Text = "Count"

	width := vg.Points(18)
	for i, class := range classes {
		vals := make(plotter.Values, len(values))
		for j, v := range values {
			vals[j] = float64(counts[[2]string{v, class}])
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return fmt.Errorf("category bars: %w", err)
		}
		bars.Color = plotutil.Color(i)
		bars.Offset = width * vg.Length(i)
		p.Add(bars)
		label := class
		if label == "" {
			label = "(missing)"
		}
		p.Legend.Add(label, bars)
	}
	p.Legend.Top = true
	p.NominalX(labelOrMissing(values)...)
	return r.save(p, path)
}

func labelOrMissing(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if v == "" {
			v = "(missing)"
		}
		out[i] = v
	}
	return out
}
