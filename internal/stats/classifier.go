package stats

import (
	"fmt"
	"math"
	"sort"
)

// Model is a fitted predictive model: Predict returns the predicted target
// for one feature record.
type Model interface {
	Predict(x []float64) float64
}

// Classifier is a fitted binary classifier. PredictProba returns the score
// for the positive class in [0, 1]; Predict returns the hard 0/1 label.
type Classifier interface {
	Model
	PredictProba(x []float64) float64
}

// NotClassifierError indicates a model without classifier capabilities was
// passed where a classifier is required.
type NotClassifierError struct {
	Model Model
}

func (e *NotClassifierError) Error() string {
	return fmt.Sprintf("%T is not a classifier", e.Model)
}

// CurvePoint is one point of a diagnostic curve with the score threshold
// that produced it.
type CurvePoint struct {
	X, Y      float64
	Threshold float64
}

// Diagnostics holds confusion matrix, precision-recall and ROC results for
// a binary classifier evaluated on held-out data.
type Diagnostics struct {
	// Confusion[actual][predicted], classes 0 and 1.
	Confusion       [2][2]int
	PrecisionRecall []CurvePoint // X=recall, Y=precision
	ROC             []CurvePoint // X=FPR, Y=TPR
	AUC             float64
	Accuracy        float64
}

// EvaluateClassifier computes diagnostics for m on the test records X with
// true labels y (0 or 1). It fails with NotClassifierError before any
// computation when m does not implement Classifier.
func EvaluateClassifier(m Model, X [][]float64, y []float64) (*Diagnostics, error) {
	clf, ok := m.(Classifier)
	if !ok {
		return nil, &NotClassifierError{Model: m}
	}
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("test data has %d records for %d labels", len(X), len(y))
	}

	d := &Diagnostics{}
	scores := make([]float64, len(X))
	correct := 0
	for i, x := range X {
		scores[i] = clf.PredictProba(x)
		pred := 0
		if clf.Predict(x) >= 0.5 {
			pred = 1
		}
		actual := 0
		if y[i] >= 0.5 {
			actual = 1
		}
		d.Confusion[actual][pred]++
		if pred == actual {
			correct++
		}
	}
	d.Accuracy = float64(correct) / float64(len(y))

	d.ROC, d.AUC = rocCurve(scores, y)
	d.PrecisionRecall = prCurve(scores, y)
	return d, nil
}

// byScore orders indices by descending classifier score.
func byScore(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })
	return order
}

func rocCurve(scores, y []float64) ([]CurvePoint, float64) {
	var pos, neg float64
	for _, v := range y {
		if v >= 0.5 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return []CurvePoint{{X: 0, Y: 0, Threshold: math.Inf(1)}, {X: 1, Y: 1}}, math.NaN()
	}

	curve := []CurvePoint{{X: 0, Y: 0, Threshold: math.Inf(1)}}
	var tp, fp, auc float64
	prevFPR, prevTPR := 0.0, 0.0
	order := byScore(scores)
	for k, i := range order {
		if y[i] >= 0.5 {
			tp++
		} else {
			fp++
		}
		// Emit a point only where the score changes, so ties share one point.
		if k+1 < len(order) && scores[order[k+1]] == scores[i] {
			continue
		}
		fpr, tpr := fp/neg, tp/pos
		curve = append(curve, CurvePoint{X: fpr, Y: tpr, Threshold: scores[i]})
		auc += (fpr - prevFPR) * (tpr + prevTPR) / 2
		prevFPR, prevTPR = fpr, tpr
	}
	return curve, auc
}

func prCurve(scores, y []float64) []CurvePoint {
	var pos float64
	for _, v := range y {
		if v >= 0.5 {
			pos++
		}
	}
	if pos == 0 {
		return nil
	}
	var curve []CurvePoint
	var tp, fp float64
	order := byScore(scores)
	for k, i := range order {
		if y[i] >= 0.5 {
			tp++
		} else {
			fp++
		}
		if k+1 < len(order) && scores[order[k+1]] == scores[i] {
			continue
		}
		curve = append(curve, CurvePoint{
			X:         tp / pos,
			Y:         tp / (tp + fp),
			Threshold: scores[i],
		})
	}
	return curve
}
