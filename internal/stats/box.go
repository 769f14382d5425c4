package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Box is the five-number summary of a numeric series plus mean and
// standard deviation. Whiskers sit at the last observation within 1.5×IQR
// of the quartiles; observations beyond them are listed as outliers.
type Box struct {
	Min      float64 // lower whisker
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64 // upper whisker
	Mean     float64
	StdDev   float64
	Outliers []float64
}

// BoxStats computes boxplot components for values, ignoring NaNs.
// It returns a zero Box when no finite values are present.
func BoxStats(values []float64) Box {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return Box{}
	}
	sort.Float64s(clean)

	b := Box{
		Q1:     quantile(clean, 0.25),
		Median: quantile(clean, 0.5),
		Q3:     quantile(clean, 0.75),
		Mean:   stat.Mean(clean, nil),
	}
	if len(clean) > 1 {
		b.StdDev = stat.StdDev(clean, nil)
	}
	iqr := b.Q3 - b.Q1
	lo := b.Q1 - 1.5*iqr
	hi := b.Q3 + 1.5*iqr

	b.Min, b.Max = math.Inf(1), math.Inf(-1)
	for _, v := range clean {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.Min {
			b.Min = v
		}
		if v > b.Max {
			b.Max = v
		}
	}
	return b
}

// quantile linearly interpolates the q-th quantile of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
