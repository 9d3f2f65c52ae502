package factor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Project reduces the rows to their first nComponents principal
// components. Rows must be rectangular with at least two observations.
func Project(rows [][]float64, nComponents int) ([][]float64, error) {
	n := len(rows)
	if n < 2 {
		return nil, fmt.Errorf("pca: %d observations are too few", n)
	}
	d := len(rows[0])
	if nComponents < 1 || nComponents > d {
		return nil, fmt.Errorf("pca: %d components from %d dimensions", nComponents, d)
	}

	X := mat.NewDense(n, d, nil)
	for i, row := range rows {
		if len(row) != d {
			return nil, fmt.Errorf("pca: ragged row %d: %d columns, want %d", i, len(row), d)
		}
		X.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return nil, fmt.Errorf("pca: decomposition failed")
	}
	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	// Project the centered data onto the leading directions.
	centered := mat.NewDense(n, d, nil)
	for j := 0; j < d; j++ {
		mean := stat.Mean(mat.Col(nil, j, X), nil)
		for i := 0; i < n; i++ {
			centered.Set(i, j, X.At(i, j)-mean)
		}
	}
	var projected mat.Dense
	projected.Mul(centered, vectors.Slice(0, d, 0, nComponents))

	out := make([][]float64, n)
	for i := range out {
		out[i] = mat.Row(nil, i, &projected)
	}
	return out, nil
}
