// Package comparison turns one participant's pairwise judgments into a
// ranking: reciprocal matrix, column normalization, row-mean priority vector.
package comparison

import (
	"fmt"
	"strings"
)

// Matrix is a dense n×n matrix over a sample set's canonical order.
type Matrix struct {
	n    int
	data []float64
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := &Matrix{n: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// N returns the matrix dimension.
func (m *Matrix) N() int { return m.n }

// At returns the entry at (row, col).
func (m *Matrix) At(row, col int) float64 { return m.data[row*m.n+col] }

// Set stores v at (row, col).
func (m *Matrix) Set(row, col int, v float64) { m.data[row*m.n+col] = v }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	out := make([]float64, m.n)
	copy(out, m.data[i*m.n:(i+1)*m.n])
	return out
}

// Rows returns a copy of the matrix as a slice of rows.
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.n)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{n: m.n, data: make([]float64, len(m.data))}
	copy(c.data, m.data)
	return c
}

// String renders the matrix one row per line.
func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.n; i++ {
		b.WriteString("[")
		for j := 0; j < m.n; j++ {
			if j > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%.4f", m.At(i, j))
		}
		b.WriteString("]\n")
	}
	return b.String()
}
