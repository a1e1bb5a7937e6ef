package catalog

import (
	"context"

	"github.com/kailas-cloud/pairwise/internal/domain/sample"
)

// Repository defines the storage contract for samples.
type Repository interface {
	Upsert(ctx context.Context, task string, samples []sample.Sample) error
	Tasks(ctx context.Context) ([]string, error)
}

// SampleResolver returns the canonical sample set of a task.
type SampleResolver interface {
	ListByTask(ctx context.Context, task string) (sample.Set, error)
}

// CacheInvalidator drops cached state of a task after it is rescanned.
type CacheInvalidator interface {
	Invalidate(task string)
}
