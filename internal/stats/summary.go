package stats

import (
	"fmt"
	"sort"

	"github.com/edalab/edakit/internal/frame"
)

// MissingSummary reports empty cells for one column.
type MissingSummary struct {
	Column  string
	Count   int
	Percent float64
}

// MissingValues computes the per-column missing-cell count and percentage,
// sorted by ascending count. An empty frame yields a nil result.
func MissingValues(f *frame.Frame) []MissingSummary {
	if f.Len() == 0 {
		return nil
	}
	var out []MissingSummary
	for _, name := range f.Columns() {
		c := f.Column(name)
		miss := c.Missing()
		out = append(out, MissingSummary{
			Column:  name,
			Count:   miss,
			Percent: 100 * float64(miss) / float64(f.Len()),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Column < out[j].Column
		}
		return out[i].Count < out[j].Count
	})
	return out
}

// CategoryCount is one (category value, class value) cell of a category
// distribution: how many rows hold that pair and what share of the
// category the class represents.
type CategoryCount struct {
	Value   string
	Class   string
	Count   int
	Percent float64
}

// CategoryDistribution groups rows of col by (value, class) pairs, counting
// occurrences and the within-value percentage of each class. Missing cells
// group under the empty label, as the original keeps NaN groups. Results
// are sorted by count then percentage, descending.
func CategoryDistribution(f *frame.Frame, col, classColumn string) ([]CategoryCount, error) {
	c := f.Column(col)
	if c == nil {
		return nil, fmt.Errorf("column %q not found", col)
	}
	class := f.Column(classColumn)
	if class == nil {
		return nil, fmt.Errorf("class column %q not found", classColumn)
	}

	type key struct{ value, class string }
	counts := map[key]int{}
	valueTotals := map[string]int{}
	for i := 0; i < f.Len(); i++ {
		k := key{value: c.Label(i), class: class.Label(i)}
		counts[k]++
		valueTotals[k.value]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, CategoryCount{
			Value:   k.value,
			Class:   k.class,
			Count:   n,
			Percent: 100 * float64(n) / float64(valueTotals[k.value]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Percent != out[j].Percent {
			return out[i].Percent > out[j].Percent
		}
		if out[i].Value != out[j].Value {
			return out[i].Value < out[j].Value
		}
		return out[i].Class < out[j].Class
	})
	return out, nil
}
