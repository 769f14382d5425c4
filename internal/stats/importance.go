package stats

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Importance is the permutation importance of one feature: the drop in
// accuracy when that feature's values are shuffled across rows.
type Importance struct {
	Column string
	Mean   float64
	Scores []float64 // one drop per repeat
}

// PermutationImportance measures feature importance for m on (X, y) by
// shuffling one column at a time, repeats times each, with a deterministic
// seed. Results are sorted by ascending mean importance, mirroring the
// upstream ordering the importance boxplot expects.
func PermutationImportance(m Model, X [][]float64, y []float64, columns []string, repeats int, seed int64) ([]Importance, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("data has %d records for %d labels", len(X), len(y))
	}
	if len(columns) != len(X[0]) {
		return nil, fmt.Errorf("%d column names for %d features", len(columns), len(X[0]))
	}
	if repeats <= 0 {
		repeats = 10
	}
	rng := rand.New(rand.NewSource(seed))
	baseline := accuracy(m, X, y)

	// Work on a mutable copy so shuffles never touch the caller's data.
	work := make([][]float64, len(X))
	for i, rec := range X {
		work[i] = append([]float64(nil), rec...)
	}

	out := make([]Importance, len(columns))
	saved := make([]float64, len(X))
	for j, name := range columns {
		scores := make([]float64, repeats)
		for r := 0; r < repeats; r++ {
			for i := range work {
				saved[i] = work[i][j]
			}
			perm := rng.Perm(len(work))
			for i := range work {
				work[i][j] = saved[perm[i]]
			}
			scores[r] = baseline - accuracy(m, work, y)
			for i := range work {
				work[i][j] = saved[i]
			}
		}
		out[j] = Importance{Column: name, Mean: stat.Mean(scores, nil), Scores: scores}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mean < out[j].Mean })
	return out, nil
}

func accuracy(m Model, X [][]float64, y []float64) float64 {
	correct := 0
	for i, x := range X {
		pred := m.Predict(x) >= 0.5
		actual := y[i] >= 0.5
		if pred == actual {
			correct++
		}
	}
	return float64(correct) / float64(len(y))
}
