package pair

import (
	"math/rand"

	"github.com/kailas-cloud/pairwise/internal/domain/metric"
)

// Labeled is a pending pair as shown to a participant: sample A on one side,
// sample B on the other.
type Labeled struct {
	A       string
	B       string
	Metrics []metric.Metric
}

// Randomizer assigns a/b labels and shuffles pending pairs so that neither the
// position of a sample nor the order of pairs follows the canonical order.
// A Randomizer is not safe for concurrent use; create one per request.
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer creates a randomizer drawing from rng.
func NewRandomizer(rng *rand.Rand) *Randomizer {
	if rng == nil {
		panic("pair randomizer: rng is required")
	}
	return &Randomizer{rng: rng}
}

// NewSeededRandomizer creates a randomizer with a deterministic source.
func NewSeededRandomizer(seed int64) *Randomizer {
	return NewRandomizer(rand.New(rand.NewSource(seed))) //nolint:gosec // presentation order only
}

// Present labels each pair independently with a fair coin and returns them
// in a uniformly shuffled order.
func (r *Randomizer) Present(pending []Pending) []Labeled {
	out := make([]Labeled, len(pending))
	for i, p := range pending {
		a, b := p.Pair.Lo(), p.Pair.Hi()
		if r.rng.Intn(2) == 1 {
			a, b = b, a
		}
		out[i] = Labeled{A: a, B: b, Metrics: p.Metrics}
	}
	r.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// PresentPairs is Present for pairs that carry no metric list.
func (r *Randomizer) PresentPairs(pairs []Pair) []Labeled {
	pending := make([]Pending, len(pairs))
	for i, p := range pairs {
		pending[i] = Pending{Pair: p}
	}
	return r.Present(pending)
}
