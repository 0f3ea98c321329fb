package mxarray

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"mxbridge/internal/status"
)

// Matrix copies a non-empty 2-D double array into a dense matrix with the same rows and
// columns.
func (a *Array) Matrix() (*mat.Dense, error) {
	if a.NumberOfDimensions() != 2 {
		return nil, fmt.Errorf("matrix view of %s: %w", a, status.ErrShapeMismatch)
	}
	if a.IsEmpty() {
		return nil, fmt.Errorf("matrix view of empty %s: %w", a, status.ErrShapeMismatch)
	}

	values, err := a.Float64s()
	if err != nil {
		return nil, err
	}

	rows, cols := a.dims[0], a.dims[1]

	// Column-major data read row-major is the transpose.
	transposed := mat.NewDense(cols, rows, values)
	var m mat.Dense
	m.CloneFrom(transposed.T())
	return &m, nil
}
