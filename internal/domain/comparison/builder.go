package comparison

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/pairwise/internal/domain"
	"github.com/kailas-cloud/pairwise/internal/domain/judgment"
	"github.com/kailas-cloud/pairwise/internal/domain/pair"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
)

// Lookup resolves the stored judgment for a pair as the preference of
// p.Lo() over p.Hi().
type Lookup interface {
	Ratio(p pair.Pair) (float64, bool)
}

// Ratios is an in-memory Lookup keyed by canonical pair.
type Ratios map[pair.Pair]float64

// Ratio implements Lookup.
func (r Ratios) Ratio(p pair.Pair) (float64, bool) {
	v, ok := r[p]
	return v, ok
}

// Add records j in canonical orientation.
func (r Ratios) Add(j judgment.Judgment) {
	r[j.Pair()] = j.CanonicalRatio()
}

// RatiosFrom collects judgments into a Ratios lookup.
func RatiosFrom(judgments []judgment.Judgment) Ratios {
	r := make(Ratios, len(judgments))
	for _, j := range judgments {
		r.Add(j)
	}
	return r
}

// Build returns the reciprocal comparison matrix over set: M[i][j] is the
// preference of sample i over sample j, M[j][i] its reciprocal and the
// diagonal 1. Pairs are visited column-major (col < row); the first pair with
// no judgment fails with a *domain.MissingJudgmentError.
func Build(set sample.Set, lookup Lookup) (*Matrix, error) {
	n := set.Len()
	m := Identity(n)
	for col := 0; col < n; col++ {
		for row := col + 1; row < n; row++ {
			colID, rowID := set.At(col), set.At(row)
			p, err := pair.New(colID, rowID)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrInvalidMatrix, err)
			}
			ratio, ok := lookup.Ratio(p)
			if !ok {
				return nil, domain.NewMissingJudgment(col, row, colID, rowID)
			}
			if !positiveFinite(ratio) {
				return nil, fmt.Errorf("%w: pair (%s, %s) has ratio %v",
					domain.ErrInvalidMatrix, colID, rowID, ratio)
			}
			pref := ratio
			if p.Lo() != colID {
				pref = 1 / ratio
			}
			m.Set(col, row, pref)
			m.Set(row, col, 1/pref)
		}
	}
	return m, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
