package filter

import (
	"fmt"

	"mxbridge/internal/mxarray"
	"mxbridge/internal/status"
)

// Point is a centroid in image coordinates as reported by the engine (1-based, x = column).
type Point struct {
	X float64
	Y float64
}

// Centroids holds detected object centres in the order the engine's region labelling
// produced them.
type Centroids []Point

// parseCentroids reads an N x 2 double matrix of [x y] rows. Any empty array means no
// objects were found.
func parseCentroids(a *mxarray.Array) (Centroids, error) {
	if a.IsEmpty() {
		return Centroids{}, nil
	}

	dims := a.Dimensions()
	if a.Class() != mxarray.DoubleClass || len(dims) != 2 || dims[1] != 2 {
		return nil, fmt.Errorf("centroid list %s: %w", a, status.ErrShapeMismatch)
	}

	m, err := a.Matrix()
	if err != nil {
		return nil, err
	}

	rows, _ := m.Dims()
	out := make(Centroids, rows)
	for i := range out {
		out[i] = Point{X: m.At(i, 0), Y: m.At(i, 1)}
	}
	return out, nil
}
