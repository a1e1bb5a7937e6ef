package comparison

import (
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
)

// Breakdown keeps every stage of a ranking computation.
type Breakdown struct {
	Matrix     *Matrix
	Normalized *Matrix
	Vector     []float64
	Ranking    []Weight
}

// Compute runs build, normalize, priority and rank over set.
func Compute(set sample.Set, lookup Lookup) (Breakdown, error) {
	m, err := Build(set, lookup)
	if err != nil {
		return Breakdown{}, err
	}
	norm, err := Normalize(m)
	if err != nil {
		return Breakdown{}, err
	}
	vec := PriorityVector(norm)
	ranking, err := Rank(set, vec)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{Matrix: m, Normalized: norm, Vector: vec, Ranking: ranking}, nil
}

// Ranking is Compute reduced to the final ranking.
func Ranking(set sample.Set, lookup Lookup) ([]Weight, error) {
	b, err := Compute(set, lookup)
	if err != nil {
		return nil, err
	}
	return b.Ranking, nil
}
