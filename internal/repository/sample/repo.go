package sample

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/pairwise/internal/db"
	"github.com/kailas-cloud/pairwise/internal/domain"
	domsample "github.com/kailas-cloud/pairwise/internal/domain/sample"
)

// store is the consumer interface for samples (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements the sample set resolver and the scanner's sink.
type Repo struct {
	store  store
	prefix string
}

// New creates a sample repository.
func New(s store) *Repo {
	return &Repo{store: s, prefix: domain.KeyPrefix}
}

// WithPrefix overrides the key namespace.
func (r *Repo) WithPrefix(prefix string) *Repo {
	if prefix != "" {
		r.prefix = prefix
	}
	return r
}

// Upsert stores samples of one task and registers the task. Existing
// samples keep their id, so only the metadata is refreshed.
func (r *Repo) Upsert(ctx context.Context, task string, samples []domsample.Sample) error {
	if err := r.store.SAdd(ctx, r.tasksKey(), task); err != nil {
		return fmt.Errorf("sadd task %s: %w", task, err)
	}
	if len(samples) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(samples))
	ids := make([]string, len(samples))
	for i, s := range samples {
		if s.Task() != task {
			return fmt.Errorf("sample %s belongs to task %q, not %q", s.ID(), s.Task(), task)
		}
		items[i] = db.HashSetItem{Key: r.sampleKey(task, s.ID()), Fields: sampleToHash(s)}
		ids[i] = s.ID()
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset samples of %s: %w", task, err)
	}
	if err := r.store.SAdd(ctx, r.membersKey(task), ids...); err != nil {
		return fmt.Errorf("sadd samples of %s: %w", task, err)
	}
	return nil
}

// ListByTask returns the task's sample set in canonical order. An unknown
// task yields an empty set.
func (r *Repo) ListByTask(ctx context.Context, task string) (domsample.Set, error) {
	ids, err := r.store.SMembers(ctx, r.membersKey(task))
	if err != nil {
		return domsample.Set{}, fmt.Errorf("smembers samples of %s: %w", task, err)
	}
	if len(ids) == 0 {
		return domsample.NewSet(task, nil)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.sampleKey(task, id)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return domsample.Set{}, fmt.Errorf("hgetall multi samples of %s: %w", task, err)
	}

	samples := make([]domsample.Sample, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		s, err := sampleFromHash(m)
		if err != nil {
			return domsample.Set{}, fmt.Errorf("parse sample %s: %w", keys[i], err)
		}
		samples = append(samples, s)
	}

	return domsample.NewSet(task, samples)
}

// Tasks returns all known task names, sorted.
func (r *Repo) Tasks(ctx context.Context) ([]string, error) {
	tasks, err := r.store.SMembers(ctx, r.tasksKey())
	if err != nil {
		return nil, fmt.Errorf("smembers tasks: %w", err)
	}
	sort.Strings(tasks)
	return tasks, nil
}

// Key patterns: {prefix}tasks, {prefix}task:{task}:samples, {prefix}sample:{task}:{id}

func (r *Repo) tasksKey() string {
	return r.prefix + "tasks"
}

func (r *Repo) membersKey(task string) string {
	return fmt.Sprintf("%stask:%s:samples", r.prefix, task)
}

func (r *Repo) sampleKey(task, id string) string {
	return fmt.Sprintf("%ssample:%s:%s", r.prefix, task, id)
}
