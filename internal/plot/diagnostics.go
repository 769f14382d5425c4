package plot

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/edalab/edakit/internal/stats"
)

// confusionGrid adapts a 2x2 confusion matrix to plotter.GridXYZ.
type confusionGrid struct {
	m [2][2]int
}

func (g confusionGrid) Dims() (c, r int)   { return 2, 2 }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }
func (g confusionGrid) Z(c, r int) float64 { return float64(g.m[r][c]) }

// ClassifierDiagnostics renders the confusion matrix, precision-recall
// curve and ROC curve into dir as three PNG files, returning their paths.
func (r *Renderer) ClassifierDiagnostics(d *stats.Diagnostics, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	var written []string

	confusion := filepath.Join(dir, "confusion.png")
	if err := r.confusionHeatmap(d, confusion); err != nil {
		return nil, err
	}
	written = append(written, confusion)

	pr := filepath.Join(dir, "precision_recall.png")
	if err := r.curve(d.PrecisionRecall, "Precision-Recall", "Recall", "Precision", pr); err != nil {
		return nil, err
	}
	written = append(written, pr)

	roc := filepath.Join(dir, "roc.png")
	title := fmt.Sprintf("ROC (AUC = %.3f)", d.AUC)
	if err := r.curve(d.ROC, title, "False positive rate", "True positive rate", roc); err != nil {
		return nil, err
	}
	written = append(written, roc)
	return written, nil
}

func (r *Renderer) confusionHeatmap(d *stats.Diagnostics, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Confusion matrix (accuracy = %.3f)", d.Accuracy)
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Actual"

	grid := confusionGrid{m: d.Confusion}
	heat := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	p.Add(heat)

	// Count annotations in each cell.
	var xys plotter.XYs
	var texts []string
	for actual := 0; actual < 2; actual++ {
		for pred := 0; pred < 2; pred++ {
			xys = append(xys, plotter.XY{X: float64(pred), Y: float64(actual)})
			texts = append(texts, fmt.Sprintf("%d", d.Confusion[actual][pred]))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return fmt.Errorf("confusion labels: %w", err)
	}
	p.Add(labels)
	p.NominalX("0", "1")
	p.NominalY("0", "1")
	return r.save(p, path)
}

func (r *Renderer) curve(points []stats.CurvePoint, title, xLabel, yLabel, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("curve %s: %w", title, err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line, plotter.NewGrid())
	return r.save(p, path)
}
