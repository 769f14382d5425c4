package plot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/edalab/edakit/internal/frame"
	"github.com/edalab/edakit/internal/stats"
)

// Boxes draws one boxplot file per numeric column under dir. When
// classColumn is non-empty, each figure holds one box per class value;
// otherwise a single box. Empty columns list means all numeric columns.
// Returns the paths written.
func (r *Renderer) Boxes(f *frame.Frame, columns []string, classColumn, dir string) ([]string, error) {
	if len(columns) == 0 {
		columns = f.NumericColumns()
	}
	var class *frame.Column
	if classColumn != "" {
		class = f.Column(classColumn)
		if class == nil {
			return nil, fmt.Errorf("class column %q not found", classColumn)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}

	var written []string
	for _, name := range columns {
		c := f.Column(name)
		if c == nil {
			return nil, fmt.Errorf("column %q not found", name)
		}
		if c.Kind != frame.KindNumeric {
			return nil, fmt.Errorf("column %q is %s, not numeric", name, c.Kind)
		}

		groups := map[string][]float64{}
		var order []string
		for i := 0; i < f.Len(); i++ {
			if !c.Valid[i] {
				continue
			}
			label := ""
			if class != nil {
				label = class.Label(i)
			}
			if _, ok := groups[label]; !ok {
				order = append(order, label)
			}
			groups[label] = append(groups[label], c.Floats[i])
		}
		if len(order) == 0 {
			r.logger.Warn("no values to plot", zap.String("column", name))
			continue
		}

		p := plot.New()
		if classColumn != "" {
			p.Title.Text = fmt.Sprintf("%s distribution per %s", name, classColumn)
		} else {
			p.Title.Text = fmt.Sprintf("%s distribution", name)
		}
		p.Y.Label.Text = name

		for i, label := range order {
			box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(groups[label]))
			if err != nil {
				return nil, fmt.Errorf("boxplot %s: %w", name, err)
			}
			p.Add(box)
		}
		p.NominalX(labelOrMissing(order)...)

		path := filepath.Join(dir, "box_"+sanitizeName(name)+".png")
		if err := r.save(p, path); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

// ImportanceBoxes draws horizontal boxplots of per-repeat permutation
// importance scores. Mirroring the original, only the 10 least and 10 most
// important features are kept when more are supplied; imp must already be
// sorted by ascending mean importance.
func (r *Renderer) ImportanceBoxes(imp []stats.Importance, path string) error {
	if len(imp) == 0 {
		r.logger.Warn("no importances to plot")
		return nil
	}
	if len(imp) > 20 {
		trimmed := make([]stats.Importance, 0, 20)
		trimmed = append(trimmed, imp[:10]...)
		trimmed = append(trimmed, imp[len(imp)-10:]...)
		imp = trimmed
	}

	p := plot.New()
	p.Title.Text = "Permutation Importances"
	p.X.Label.Text = "accuracy drop"

	names := make([]string, len(imp))
	for i, im := range imp {
		box, err := plotter.NewBoxPlot(vg.Points(16), float64(i), plotter.Values(im.Scores))
		if err != nil {
			return fmt.Errorf("importance boxplot %s: %w", im.Column, err)
		}
		box.Horizontal = true
		p.Add(box)
		names[i] = im.Column
	}
	p.NominalY(names...)
	return r.save(p, path)
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
