package survey

import (
	"context"

	"github.com/kailas-cloud/pairwise/internal/domain/judgment"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
)

// SampleResolver returns the canonical sample set of a task.
type SampleResolver interface {
	ListByTask(ctx context.Context, task string) (sample.Set, error)
}

// UserReader looks up registered participants.
type UserReader interface {
	Get(ctx context.Context, token string) (user.User, error)
	ListByTask(ctx context.Context, task string) ([]user.User, error)
}

// JudgmentRepository defines the storage contract for judgments. Create
// must fail with domain.ErrDuplicateJudgment when the unordered pair is
// already judged for the token and metric.
type JudgmentRepository interface {
	Create(ctx context.Context, j judgment.Judgment) error
	ListByUser(ctx context.Context, token string, m metric.Metric) ([]judgment.Judgment, error)
	ListByUserMetrics(ctx context.Context, token string, metrics []metric.Metric) (map[metric.Metric][]judgment.Judgment, error)
}
