package comparison

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/pairwise/internal/domain/sample"
)

// Weight is one ranked sample.
type Weight struct {
	SampleID string
	Name     string
	Weight   float64
}

// Rank pairs each weight with its sample and sorts by descending weight.
// Equal weights keep the set's canonical order.
func Rank(set sample.Set, vector []float64) ([]Weight, error) {
	if len(vector) != set.Len() {
		return nil, fmt.Errorf("priority vector has %d entries for %d samples", len(vector), set.Len())
	}
	out := make([]Weight, len(vector))
	for i, w := range vector {
		out[i] = Weight{SampleID: set.At(i), Name: set.NameAt(i), Weight: w}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out, nil
}
