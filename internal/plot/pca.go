package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/edalab/edakit/internal/stats"
)

// PCAScatter draws the 2D PCA projection: one colored point cloud per
// class plus the feature loading vectors anchored at the origin. classes
// holds the per-row class label and may be nil for an uncolored plot.
func (r *Renderer) PCAScatter(proj *stats.Projection, classes []string, path string) error {
	if proj == nil || len(proj.X) == 0 {
		r.logger.Warn("no projection to plot")
		return nil
	}
	if classes != nil && len(classes) != len(proj.X) {
		return fmt.Errorf("%d class labels for %d projected rows", len(classes), len(proj.X))
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("PCA 2D (%.0f%% + %.0f%% variance)",
		100*proj.Explained[0], 100*proj.Explained[1])
	p.X.Label.Text = "PC1"
	p.Y.Label.Text = "PC2"

	groups := map[string]plotter.XYs{}
	var order []string
	for i := range proj.X {
		label := ""
		if classes != nil {
			label = classes[i]
		}
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], plotter.XY{X: proj.X[i], Y: proj.Y[i]})
	}
	for i, label := range order {
		sc, err := plotter.NewScatter(groups[label])
		if err != nil {
			return fmt.Errorf("pca scatter: %w", err)
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		if classes != nil {
			name := label
			if name == "" {
				name = "(missing)"
			}
			p.Legend.Add(name, sc)
		}
	}

	// Loading vectors from the origin, one per feature, with its name at
	// the tip.
	var tips plotter.XYs
	var names []string
	for j, l := range proj.Loadings {
		line, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: l[0], Y: l[1]}})
		if err != nil {
			return fmt.Errorf("pca loading line: %w", err)
		}
		line.LineStyle.Width = vg.Points(1)
		p.Add(line)
		tips = append(tips, plotter.XY{X: l[0], Y: l[1]})
		names = append(names, proj.Columns[j])
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: tips, Labels: names})
	if err != nil {
		return fmt.Errorf("pca loading labels: %w", err)
	}
	p.Add(labels)
	p.Legend.Top = true
	return r.save(p, path)
}
