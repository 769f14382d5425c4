// Package stats computes the statistical summaries behind the plot
// renderers: ANOVA p-values, missing-value rates, category distributions,
// boxplot components, classifier diagnostics, permutation importance and
// PCA projections.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/edalab/edakit/internal/frame"
)

// PValue is the one-way ANOVA result for a single numeric column.
type PValue struct {
	Column string
	F      float64
	P      float64
}

// OneWayANOVA computes, for every numeric column of f, the one-way ANOVA
// p-value between the rows labeled classA and classB in classColumn.
// Missing cells are dropped per column. Columns with fewer than two values
// in either group get P = NaN. Results are sorted by ascending p-value.
func OneWayANOVA(f *frame.Frame, classColumn, classA, classB string) ([]PValue, error) {
	class := f.Column(classColumn)
	if class == nil {
		return nil, fmt.Errorf("class column %q not found", classColumn)
	}
	var out []PValue
	for _, name := range f.NumericColumns() {
		if name == classColumn {
			continue
		}
		c := f.Column(name)
		var a, b []float64
		for i := 0; i < f.Len(); i++ {
			if !c.Valid[i] {
				continue
			}
			switch class.Label(i) {
			case classA:
				a = append(a, c.Floats[i])
			case classB:
				b = append(b, c.Floats[i])
			}
		}
		fstat, p := fOneWay(a, b)
		out = append(out, PValue{Column: name, F: fstat, P: p})
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].P, out[j].P
		if math.IsNaN(pj) {
			return !math.IsNaN(pi)
		}
		if math.IsNaN(pi) {
			return false
		}
		if pi == pj {
			return out[i].Column < out[j].Column
		}
		return pi < pj
	})
	return out, nil
}

// fOneWay is the two-group one-way ANOVA F test.
func fOneWay(a, b []float64) (fstat, p float64) {
	n := len(a) + len(b)
	if len(a) < 2 || len(b) < 2 || n < 4 {
		return math.NaN(), math.NaN()
	}
	meanA := stat.Mean(a, nil)
	meanB := stat.Mean(b, nil)
	all := make([]float64, 0, n)
	all = append(all, a...)
	all = append(all, b...)
	grand := stat.Mean(all, nil)

	ssBetween := float64(len(a))*(meanA-grand)*(meanA-grand) +
		float64(len(b))*(meanB-grand)*(meanB-grand)
	var ssWithin float64
	for _, v := range a {
		ssWithin += (v - meanA) * (v - meanA)
	}
	for _, v := range b {
		ssWithin += (v - meanB) * (v - meanB)
	}

	dfBetween := 1.0
	dfWithin := float64(n - 2)
	if ssWithin == 0 {
		if ssBetween == 0 {
			return math.NaN(), math.NaN()
		}
		return math.Inf(1), 0
	}
	fstat = (ssBetween / dfBetween) / (ssWithin / dfWithin)
	dist := distuv.F{D1: dfBetween, D2: dfWithin}
	return fstat, dist.Survival(fstat)
}
