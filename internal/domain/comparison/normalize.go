package comparison

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/pairwise/internal/domain"
)

// Normalize returns a copy of m with every column divided by its sum, so each
// column sums to 1. A non-positive or non-finite entry fails with
// domain.ErrInvalidMatrix; m is left untouched.
func Normalize(m *Matrix) (*Matrix, error) {
	out := m.Clone()
	n := m.N()
	for col := 0; col < n; col++ {
		var sum float64
		for row := 0; row < n; row++ {
			v := m.At(row, col)
			if !positiveFinite(v) {
				return nil, fmt.Errorf("%w: entry [%d,%d] = %v", domain.ErrInvalidMatrix, row, col, v)
			}
			sum += v
		}
		if math.IsInf(sum, 0) {
			return nil, fmt.Errorf("%w: column %d sum overflows", domain.ErrInvalidMatrix, col)
		}
		for row := 0; row < n; row++ {
			out.Set(row, col, m.At(row, col)/sum)
		}
	}
	return out, nil
}
