package sample

import (
	"fmt"
	"sort"
)

// Set is the ordered sample set of one task. Its order is the canonical
// row/column index of every comparison matrix built over the task.
type Set struct {
	task  string
	ids   []string
	names []string
	index map[string]int
}

// NewSet orders samples by name and indexes them. Sample ids must be unique
// and every sample must belong to task.
func NewSet(task string, samples []Sample) (Set, error) {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name() != sorted[j].Name() {
			return sorted[i].Name() < sorted[j].Name()
		}
		return sorted[i].ID() < sorted[j].ID()
	})

	s := Set{
		task:  task,
		ids:   make([]string, len(sorted)),
		names: make([]string, len(sorted)),
		index: make(map[string]int, len(sorted)),
	}
	for i, smp := range sorted {
		if smp.Task() != task {
			return Set{}, fmt.Errorf("sample %s belongs to task %q, not %q", smp.ID(), smp.Task(), task)
		}
		if _, dup := s.index[smp.ID()]; dup {
			return Set{}, fmt.Errorf("duplicate sample id %s in task %q", smp.ID(), task)
		}
		s.ids[i] = smp.ID()
		s.names[i] = smp.Name()
		s.index[smp.ID()] = i
	}
	return s, nil
}

// NewSetFromIDs builds a set whose canonical order is the given id order.
// Names default to the ids.
func NewSetFromIDs(task string, ids []string) (Set, error) {
	s := Set{
		task:  task,
		ids:   make([]string, len(ids)),
		names: make([]string, len(ids)),
		index: make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		if _, dup := s.index[id]; dup {
			return Set{}, fmt.Errorf("duplicate sample id %s in task %q", id, task)
		}
		s.ids[i] = id
		s.names[i] = id
		s.index[id] = i
	}
	return s, nil
}

// Task returns the task the set belongs to.
func (s Set) Task() string { return s.task }

// Len returns the number of samples.
func (s Set) Len() int { return len(s.ids) }

// At returns the sample id at canonical position i.
func (s Set) At(i int) string { return s.ids[i] }

// NameAt returns the sample name at canonical position i.
func (s Set) NameAt(i int) string { return s.names[i] }

// IDs returns a copy of the ids in canonical order.
func (s Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Index returns the canonical position of id.
func (s Set) Index(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Contains reports whether id belongs to the set.
func (s Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Name returns the sample name for id, or "" if id is not in the set.
func (s Set) Name(id string) string {
	if i, ok := s.index[id]; ok {
		return s.names[i]
	}
	return ""
}
