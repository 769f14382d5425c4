package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Projection is a 2-component PCA of a numeric dataset: per-row scores in
// the component space, per-feature loading vectors scaled by the square
// root of the component variances, and the explained variance ratios.
type Projection struct {
	Columns   []string
	X, Y      []float64    // scores, one per row
	Loadings  [][2]float64 // one per column
	Explained [2]float64   // variance ratio of components 1 and 2
}

// PCA2D projects rows (records of len(columns) features) onto the first
// two principal components. At least two features and three rows are
// required.
func PCA2D(rows [][]float64, columns []string) (*Projection, error) {
	n := len(rows)
	d := len(columns)
	if d < 2 {
		return nil, fmt.Errorf("pca needs at least 2 features, got %d", d)
	}
	if n < 3 {
		return nil, fmt.Errorf("pca needs at least 3 rows, got %d", n)
	}
	data := mat.NewDense(n, d, nil)
	for i, rec := range rows {
		if len(rec) != d {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(rec), d)
		}
		data.SetRow(i, rec)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, fmt.Errorf("principal component decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	// Center the data before projecting, as the components are directions
	// about the column means.
	means := make([]float64, d)
	for j := 0; j < d; j++ {
		means[j] = stat.Mean(mat.Col(nil, j, data), nil)
	}
	centered := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			centered.Set(i, j, data.At(i, j)-means[j])
		}
	}
	var proj mat.Dense
	proj.Mul(centered, vecs.Slice(0, d, 0, 2))

	p := &Projection{
		Columns:  append([]string(nil), columns...),
		X:        make([]float64, n),
		Y:        make([]float64, n),
		Loadings: make([][2]float64, d),
	}
	for i := 0; i < n; i++ {
		p.X[i] = proj.At(i, 0)
		p.Y[i] = proj.At(i, 1)
	}
	for j := 0; j < d; j++ {
		p.Loadings[j] = [2]float64{
			vecs.At(j, 0) * math.Sqrt(vars[0]),
			vecs.At(j, 1) * math.Sqrt(vars[1]),
		}
	}
	var total float64
	for _, v := range vars {
		total += v
	}
	if total > 0 {
		p.Explained = [2]float64{vars[0] / total, vars[1] / total}
	}
	return p, nil
}
