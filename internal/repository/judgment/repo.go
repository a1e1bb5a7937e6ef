// Package judgment persists judgments canonically: one hash per
// (token, metric), one field per unordered pair.
package judgment

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/pairwise/internal/domain"
	domjudgment "github.com/kailas-cloud/pairwise/internal/domain/judgment"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/pair"
)

// store is the consumer interface for judgments (ISP).
type store interface {
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo stores judgments.
type Repo struct {
	store  store
	prefix string
}

// New creates a judgment repository.
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

// Create inserts j under its canonical pair field. The insert is a single
// HSETNX: if the pair already has a judgment in either direction it fails
// with a *domain.DuplicateJudgmentError, including a concurrent insert that
// won the race.
func (r *Repo) Create(ctx context.Context, j domjudgment.Judgment) error {
	value, err := judgmentToValue(j)
	if err != nil {
		return err
	}
	set, err := r.store.HSetNX(ctx, r.key(j.Token(), j.Metric()), j.Pair().Key(), value)
	if err != nil {
		return fmt.Errorf("hsetnx judgment: %w", err)
	}
	if !set {
		return domain.NewDuplicateJudgment(j.A(), j.B(), j.Metric().String())
	}
	return nil
}

// ListByUser returns every judgment of token under m, in the direction each
// was submitted.
func (r *Repo) ListByUser(ctx context.Context, token string, m metric.Metric) ([]domjudgment.Judgment, error) {
	h, err := r.store.HGetAll(ctx, r.key(token, m))
	if err != nil {
		return nil, fmt.Errorf("hgetall judgments: %w", err)
	}
	return judgmentsFromHash(token, m, h)
}

// ListByUserMetrics is ListByUser for several metrics in one round-trip.
func (r *Repo) ListByUserMetrics(
	ctx context.Context, token string, metrics []metric.Metric,
) (map[metric.Metric][]domjudgment.Judgment, error) {
	out := make(map[metric.Metric][]domjudgment.Judgment, len(metrics))
	if len(metrics) == 0 {
		return out, nil
	}

	keys := make([]string, len(metrics))
	for i, m := range metrics {
		keys[i] = r.key(token, m)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi judgments: %w", err)
	}
	for i, h := range results {
		js, err := judgmentsFromHash(token, metrics[i], h)
		if err != nil {
			return nil, err
		}
		out[metrics[i]] = js
	}
	return out, nil
}

func judgmentsFromHash(token string, m metric.Metric, h map[string]string) ([]domjudgment.Judgment, error) {
	out := make([]domjudgment.Judgment, 0, len(h))
	for field, value := range h {
		p, err := pair.ParseKey(field)
		if err != nil {
			return nil, fmt.Errorf("parse judgment field: %w", err)
		}
		j, err := judgmentFromValue(token, m, p, value)
		if err != nil {
			return nil, fmt.Errorf("parse judgment %s: %w", field, err)
		}
		out = append(out, j)
	}
	return out, nil
}

// Key pattern: {prefix}judgments:{token}:{metric}

func (r *Repo) key(token string, m metric.Metric) string {
	return fmt.Sprintf("%sjudgments:%s:%s", r.prefix, token, m)
}
