// Package pair enumerates unordered sample pairs, tracks which of them a
// participant already judged and labels the rest for presentation.
package pair

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
)

const keySeparator = "|"

// Pair is an unordered pair of distinct sample ids, stored canonically with
// the lexicographically smaller id first. Pair values are comparable and
// usable as map keys.
type Pair struct {
	lo string
	hi string
}

// New creates the canonical pair for two distinct ids in either order.
func New(a, b string) (Pair, error) {
	if a == "" || b == "" {
		return Pair{}, fmt.Errorf("sample ids are required")
	}
	if a == b {
		return Pair{}, fmt.Errorf("a pair needs two distinct samples, got %q twice", a)
	}
	if strings.Contains(a, keySeparator) || strings.Contains(b, keySeparator) {
		return Pair{}, fmt.Errorf("sample ids must not contain %q", keySeparator)
	}
	if a > b {
		a, b = b, a
	}
	return Pair{lo: a, hi: b}, nil
}

// ParseKey reverses Key.
func ParseKey(key string) (Pair, error) {
	lo, hi, ok := strings.Cut(key, keySeparator)
	if !ok {
		return Pair{}, fmt.Errorf("malformed pair key %q", key)
	}
	p, err := New(lo, hi)
	if err != nil {
		return Pair{}, err
	}
	if p.lo != lo {
		return Pair{}, fmt.Errorf("pair key %q is not canonical", key)
	}
	return p, nil
}

// Lo returns the lexicographically smaller id.
func (p Pair) Lo() string { return p.lo }

// Hi returns the lexicographically larger id.
func (p Pair) Hi() string { return p.hi }

// Key returns the canonical storage key "lo|hi".
func (p Pair) Key() string { return p.lo + keySeparator + p.hi }

// IsZero reports whether p is the zero Pair.
func (p Pair) IsZero() bool { return p.lo == "" && p.hi == "" }

// Orientation reports whether (a, b) is the canonical order of p: true when
// a is Lo and b is Hi, false when reversed. ok is false if (a, b) is not p.
func (p Pair) Orientation(a, b string) (canonical, ok bool) {
	switch {
	case a == p.lo && b == p.hi:
		return true, true
	case a == p.hi && b == p.lo:
		return false, true
	default:
		return false, false
	}
}

// Completion is the set of pairs a participant already judged under one metric.
type Completion map[Pair]struct{}

// Add marks p as judged.
func (c Completion) Add(p Pair) { c[p] = struct{}{} }

// Has reports whether p is judged.
func (c Completion) Has(p Pair) bool {
	_, ok := c[p]
	return ok
}

// Enumerate returns every unordered pair {set[i], set[j]} with i < j in the
// set's canonical order: n·(n−1)/2 pairs, none for n < 2.
func Enumerate(set sample.Set) []Pair {
	n := set.Len()
	if n < 2 {
		return nil
	}
	out := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p, err := New(set.At(i), set.At(j))
			if err != nil {
				// set ids are unique and non-empty
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// Total returns n·(n−1)/2.
func Total(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// NeedingJudgment returns the pairs of set absent from done, in enumeration order.
func NeedingJudgment(set sample.Set, done Completion) []Pair {
	all := Enumerate(set)
	out := make([]Pair, 0, len(all))
	for _, p := range all {
		if !done.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Pending is a pair together with the metrics it still lacks a judgment for.
type Pending struct {
	Pair    Pair
	Metrics []metric.Metric
}

// NeedingJudgmentAny merges per-metric completion: a pair is pending when at
// least one of metrics has no judgment for it. Metrics keep the given order.
func NeedingJudgmentAny(set sample.Set, metrics []metric.Metric, done map[metric.Metric]Completion) []Pending {
	all := Enumerate(set)
	out := make([]Pending, 0, len(all))
	for _, p := range all {
		var missing []metric.Metric
		for _, m := range metrics {
			if !done[m].Has(p) {
				missing = append(missing, m)
			}
		}
		if len(missing) > 0 {
			out = append(out, Pending{Pair: p, Metrics: missing})
		}
	}
	return out
}
