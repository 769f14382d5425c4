package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// thresholdClassifier predicts class 1 when the first feature exceeds the
// cut; the score is a scaled distance from the cut.
type thresholdClassifier struct {
	cut float64
}

func (c thresholdClassifier) Predict(x []float64) float64 {
	if x[0] > c.cut {
		return 1
	}
	return 0
}

func (c thresholdClassifier) PredictProba(x []float64) float64 {
	return 1 / (1 + math.Exp(c.cut-x[0]))
}

// meanRegressor has no classifier capabilities.
type meanRegressor struct{}

func (meanRegressor) Predict(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s / float64(len(x))
}

func separableData() (X [][]float64, y []float64) {
	for i := 0; i < 10; i++ {
		X = append(X, []float64{float64(i), 1})
		if i >= 5 {
			y = append(y, 1)
		} else {
			y = append(y, 0)
		}
	}
	return X, y
}

func TestEvaluateClassifierRejectsNonClassifier(t *testing.T) {
	X, y := separableData()
	_, err := EvaluateClassifier(meanRegressor{}, X, y)
	var nc *NotClassifierError
	require.ErrorAs(t, err, &nc)
	assert.Contains(t, nc.Error(), "not a classifier")
}

func TestEvaluateClassifierPerfectSeparation(t *testing.T) {
	X, y := separableData()
	d, err := EvaluateClassifier(thresholdClassifier{cut: 4.5}, X, y)
	require.NoError(t, err)

	assert.Equal(t, 1.0, d.Accuracy)
	assert.Equal(t, 5, d.Confusion[0][0])
	assert.Equal(t, 5, d.Confusion[1][1])
	assert.Equal(t, 0, d.Confusion[0][1])
	assert.Equal(t, 0, d.Confusion[1][0])
	assert.InDelta(t, 1.0, d.AUC, 1e-9)

	last := d.ROC[len(d.ROC)-1]
	assert.Equal(t, 1.0, last.X)
	assert.Equal(t, 1.0, last.Y)
	// Precision stays 1 until every positive is recalled.
	for _, p := range d.PrecisionRecall {
		if p.X < 1 {
			assert.Equal(t, 1.0, p.Y)
		}
	}
}

func TestEvaluateClassifierMismatchedData(t *testing.T) {
	_, err := EvaluateClassifier(thresholdClassifier{}, [][]float64{{1}}, []float64{0, 1})
	require.Error(t, err)
}

func TestPermutationImportance(t *testing.T) {
	X, y := separableData()
	imp, err := PermutationImportance(thresholdClassifier{cut: 4.5}, X, y, []string{"signal", "noise"}, 10, 42)
	require.NoError(t, err)
	require.Len(t, imp, 2)

	byCol := map[string]Importance{}
	for _, im := range imp {
		byCol[im.Column] = im
	}
	// Shuffling the decisive feature hurts; the constant one cannot.
	assert.Greater(t, byCol["signal"].Mean, 0.1)
	assert.Zero(t, byCol["noise"].Mean)
	// Ascending order puts the constant column first.
	assert.Equal(t, "noise", imp[0].Column)
	require.Len(t, byCol["signal"].Scores, 10)

	// Input left unmodified.
	assert.Equal(t, float64(3), X[3][0])
}

func TestPermutationImportanceBadShapes(t *testing.T) {
	_, err := PermutationImportance(thresholdClassifier{}, nil, nil, nil, 1, 0)
	require.Error(t, err)
	_, err = PermutationImportance(thresholdClassifier{}, [][]float64{{1, 2}}, []float64{1}, []string{"only"}, 1, 0)
	require.Error(t, err)
}

func TestPCA2D(t *testing.T) {
	// Points along y = 2x with slight jitter on a third axis: component 1
	// must capture nearly all variance.
	var rows [][]float64
	for i := 0; i < 20; i++ {
		x := float64(i)
		rows = append(rows, []float64{x, 2 * x, 0.01 * float64(i%2)})
	}
	p, err := PCA2D(rows, []string{"x", "y", "jitter"})
	require.NoError(t, err)

	assert.Greater(t, p.Explained[0], 0.99)
	require.Len(t, p.X, 20)
	require.Len(t, p.Loadings, 3)

	// First-component loadings of x and y keep the 1:2 ratio.
	lx, ly := p.Loadings[0][0], p.Loadings[1][0]
	require.NotZero(t, lx)
	assert.InDelta(t, 2.0, ly/lx, 1e-6)

	// Scores are centered.
	var sum float64
	for _, v := range p.X {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestPCA2DRejectsSmallInputs(t *testing.T) {
	_, err := PCA2D([][]float64{{1, 2}}, []string{"a", "b"})
	require.Error(t, err)
	_, err = PCA2D([][]float64{{1}, {2}, {3}}, []string{"a"})
	require.Error(t, err)
	_, err = PCA2D([][]float64{{1, 2}, {3}, {4, 5}}, []string{"a", "b"})
	require.Error(t, err)
}
