package participant

import (
	"context"

	"github.com/kailas-cloud/pairwise/internal/domain/sample"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
)

// Repository defines the storage contract for participants.
type Repository interface {
	Create(ctx context.Context, u user.User) error
	Get(ctx context.Context, token string) (user.User, error)
	GetByPublic(ctx context.Context, public string) (user.User, error)
}

// SampleResolver tells whether a task has samples.
type SampleResolver interface {
	ListByTask(ctx context.Context, task string) (sample.Set, error)
}

// TokenGenerator issues opaque tokens.
type TokenGenerator func() string
