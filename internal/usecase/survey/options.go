package survey

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kailas-cloud/pairwise/internal/domain/metric"
)

// ExportPolicy decides what a batch export does with participants whose
// judgments do not cover every pair yet.
type ExportPolicy string

const (
	// ExportSkip leaves incomplete participants out and lists them as skipped.
	ExportSkip ExportPolicy = "skip"
	// ExportFail aborts the export on the first incomplete participant.
	ExportFail ExportPolicy = "fail"
)

// ParseExportPolicy parses a policy name; empty means ExportSkip.
func ParseExportPolicy(s string) (ExportPolicy, error) {
	switch ExportPolicy(s) {
	case "", ExportSkip:
		return ExportSkip, nil
	case ExportFail:
		return ExportFail, nil
	default:
		return "", fmt.Errorf("unknown export policy %q (want skip or fail)", s)
	}
}

// DefaultExportConcurrency bounds parallel per-participant work in Export.
const DefaultExportConcurrency = 8

// Options tune the survey service.
type Options struct {
	// Metrics enabled for judging; defaults to metric.All().
	Metrics []metric.Metric
	// MaxRatio bounds a submitted ratio to [1/MaxRatio, MaxRatio]; 0 disables.
	MaxRatio          float64
	ExportPolicy      ExportPolicy
	ExportConcurrency int
}

func (o Options) withDefaults() Options {
	if len(o.Metrics) == 0 {
		o.Metrics = metric.All()
	}
	if o.ExportPolicy == "" {
		o.ExportPolicy = ExportSkip
	}
	if o.ExportConcurrency <= 0 {
		o.ExportConcurrency = DefaultExportConcurrency
	}
	return o
}

// RandSource creates the random source of one presentation.
type RandSource func() *rand.Rand

// TimeSeeded returns a RandSource seeding each generator from the clock.
func TimeSeeded() RandSource {
	return func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // presentation order only
	}
}
