package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a resource that is already stored.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a malformed request value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidMetric signals a metric outside the configured enumeration.
	ErrInvalidMetric = errors.New("invalid metric")
	// ErrUnregisteredUser signals an unknown participant token.
	ErrUnregisteredUser = errors.New("unregistered user")
	// ErrUnknownSample signals a sample id outside the task's sample set.
	ErrUnknownSample = errors.New("unknown sample")
	// ErrInvalidRatio signals a non-positive or non-finite preference ratio.
	ErrInvalidRatio = errors.New("invalid ratio")
	// ErrDuplicateJudgment signals a pair that already has a judgment for the user and metric.
	ErrDuplicateJudgment = errors.New("duplicate judgment")
	// ErrMissingJudgment signals a ranking requested before every pair is judged.
	ErrMissingJudgment = errors.New("missing judgment")
	// ErrInvalidMatrix signals a comparison matrix that violates its construction invariants.
	ErrInvalidMatrix = errors.New("invalid comparison matrix")
)

// KeyPrefix is the default storage key namespace.
const KeyPrefix = "pairwise:"

// MissingJudgmentError wraps ErrMissingJudgment with the first unjudged pair.
// Col and Row are indices into the sample set's canonical order (Col < Row).
type MissingJudgmentError struct {
	Col     int
	Row     int
	SampleA string
	SampleB string
}

func (e *MissingJudgmentError) Error() string {
	return fmt.Sprintf("%s: no judgment for pair (%s, %s) at [%d,%d]",
		ErrMissingJudgment.Error(), e.SampleA, e.SampleB, e.Row, e.Col)
}

func (e *MissingJudgmentError) Unwrap() error { return ErrMissingJudgment }

// NewMissingJudgment creates a missing judgment error for the pair at (col, row).
func NewMissingJudgment(col, row int, sampleA, sampleB string) error {
	return &MissingJudgmentError{Col: col, Row: row, SampleA: sampleA, SampleB: sampleB}
}

// DuplicateJudgmentError wraps ErrDuplicateJudgment with the rejected pair.
type DuplicateJudgmentError struct {
	SampleA string
	SampleB string
	Metric  string
}

func (e *DuplicateJudgmentError) Error() string {
	return fmt.Sprintf("%s: pair (%s, %s) already judged for metric %q",
		ErrDuplicateJudgment.Error(), e.SampleA, e.SampleB, e.Metric)
}

func (e *DuplicateJudgmentError) Unwrap() error { return ErrDuplicateJudgment }

// NewDuplicateJudgment creates a duplicate judgment error.
func NewDuplicateJudgment(sampleA, sampleB, metric string) error {
	return &DuplicateJudgmentError{SampleA: sampleA, SampleB: sampleB, Metric: metric}
}
