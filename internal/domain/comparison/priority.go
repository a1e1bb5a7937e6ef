package comparison

// PriorityVector returns the mean of each row of a column-normalized matrix.
// This approximates the principal eigenvector; it is not an eigen-decomposition.
func PriorityVector(normalized *Matrix) []float64 {
	n := normalized.N()
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	for row := 0; row < n; row++ {
		var sum float64
		for col := 0; col < n; col++ {
			sum += normalized.At(row, col)
		}
		out[row] = sum / float64(n)
	}
	return out
}
