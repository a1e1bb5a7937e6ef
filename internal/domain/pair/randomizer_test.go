package pair

import (
	"math/rand"
	"testing"
)

func TestPresent_PreservesPairs(t *testing.T) {
	set := makeSet(t, 6)
	pairs := Enumerate(set)

	labeled := NewSeededRandomizer(42).PresentPairs(pairs)
	if len(labeled) != len(pairs) {
		t.Fatalf("expected %d labeled pairs, got %d", len(pairs), len(labeled))
	}

	seen := make(map[Pair]bool)
	for _, l := range labeled {
		p := mustPair(t, l.A, l.B)
		if seen[p] {
			t.Errorf("pair %v presented twice", p)
		}
		seen[p] = true
	}
	for _, p := range pairs {
		if !seen[p] {
			t.Errorf("pair %v missing from presentation", p)
		}
	}
}

func TestPresent_DeterministicWithSeed(t *testing.T) {
	pairs := Enumerate(makeSet(t, 5))

	a := NewSeededRandomizer(7).PresentPairs(pairs)
	b := NewSeededRandomizer(7).PresentPairs(pairs)
	for i := range a {
		if a[i].A != b[i].A || a[i].B != b[i].B {
			t.Fatalf("position %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPresent_LabelsAreMixed(t *testing.T) {
	pairs := Enumerate(makeSet(t, 12)) // 66 pairs
	labeled := NewRandomizer(rand.New(rand.NewSource(1))).PresentPairs(pairs)

	swapped := 0
	for _, l := range labeled {
		if l.A > l.B {
			swapped++
		}
	}
	// a fair coin over 66 draws lands far from both extremes
	if swapped == 0 || swapped == len(labeled) {
		t.Errorf("expected a mix of label orientations, got %d/%d swapped", swapped, len(labeled))
	}
}

func TestPresent_OrderVariesAcrossCalls(t *testing.T) {
	pairs := Enumerate(makeSet(t, 8))
	r := NewSeededRandomizer(3)

	first := r.PresentPairs(pairs)
	second := r.PresentPairs(pairs)
	same := true
	for i := range first {
		if mustPair(t, first[i].A, first[i].B) != mustPair(t, second[i].A, second[i].B) {
			same = false
			break
		}
	}
	if same {
		t.Error("expected consecutive presentations to differ in order")
	}
}

func TestPresent_Empty(t *testing.T) {
	if got := NewSeededRandomizer(1).Present(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestNewRandomizer_NilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil rng")
		}
	}()
	NewRandomizer(nil)
}
