package pairwise

import (
	"github.com/kailas-cloud/pairwise/internal/db"
	"github.com/kailas-cloud/pairwise/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrAlreadyExists     = domain.ErrAlreadyExists
	ErrInvalidInput      = domain.ErrInvalidInput
	ErrInvalidMetric     = domain.ErrInvalidMetric
	ErrUnregisteredUser  = domain.ErrUnregisteredUser
	ErrUnknownSample     = domain.ErrUnknownSample
	ErrInvalidRatio      = domain.ErrInvalidRatio
	ErrDuplicateJudgment = domain.ErrDuplicateJudgment
	ErrMissingJudgment   = domain.ErrMissingJudgment
)

// MissingJudgmentError carries the first unjudged pair of a ranking request.
type MissingJudgmentError = domain.MissingJudgmentError

// DuplicateJudgmentError carries the pair rejected by Submit.
type DuplicateJudgmentError = domain.DuplicateJudgmentError

// StorageError is a database failure with the failing command name.
// Use errors.As() to check.
type StorageError = db.Error
