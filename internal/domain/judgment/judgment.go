// Package judgment holds a participant's recorded preference between two samples.
package judgment

import (
	"fmt"
	"math"
	"time"

	"github.com/kailas-cloud/pairwise/internal/domain"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/pair"
)

// Options carries the presentation details reported with a judgment.
type Options struct {
	Fullscreen bool
	VideoSize  uint16
}

// Judgment is one participant's preference ratio of sample A over sample B
// under one metric (immutable value object). Ratio 1 means no preference.
type Judgment struct {
	token     string
	metric    metric.Metric
	a         string
	b         string
	ratio     float64
	loOverHi  float64 // ratio in canonical orientation, kept as stored
	opts      Options
	createdAt int64
}

// ValidateRatio checks that ratio is finite and strictly positive, and not
// above limit when limit is positive. Violations wrap domain.ErrInvalidRatio.
func ValidateRatio(ratio, limit float64) error {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return fmt.Errorf("%w: ratio must be a positive finite number, got %v", domain.ErrInvalidRatio, ratio)
	}
	if limit > 0 && (ratio > limit || ratio < 1/limit) {
		return fmt.Errorf("%w: ratio %v is outside [1/%v, %v]", domain.ErrInvalidRatio, ratio, limit, limit)
	}
	return nil
}

// New validates a submitted judgment and stamps its creation time.
func New(token string, m metric.Metric, a, b string, ratio float64, opts Options) (Judgment, error) {
	if token == "" {
		return Judgment{}, fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	if !m.IsValid() {
		return Judgment{}, fmt.Errorf("%w: %q", domain.ErrInvalidMetric, m)
	}
	if _, err := pair.New(a, b); err != nil {
		return Judgment{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := ValidateRatio(ratio, 0); err != nil {
		return Judgment{}, err
	}
	return Reconstruct(token, m, a, b, ratio, opts, time.Now().UnixMilli()), nil
}

// Reconstruct restores a Judgment from storage without validation.
func Reconstruct(token string, m metric.Metric, a, b string, ratio float64, opts Options, createdAt int64) Judgment {
	loOverHi := ratio
	if a > b {
		loOverHi = 1 / ratio
	}
	return Judgment{
		token:     token,
		metric:    m,
		a:         a,
		b:         b,
		ratio:     ratio,
		loOverHi:  loOverHi,
		opts:      opts,
		createdAt: createdAt,
	}
}

// FromCanonical restores a judgment stored as the preference of p.Lo over
// p.Hi, re-oriented to the direction it was submitted in. The stored value
// stays available unchanged through CanonicalRatio.
func FromCanonical(
	token string, m metric.Metric, p pair.Pair, loOverHi float64, submittedCanonical bool,
	opts Options, createdAt int64,
) Judgment {
	j := Judgment{
		token:     token,
		metric:    m,
		a:         p.Lo(),
		b:         p.Hi(),
		ratio:     loOverHi,
		loOverHi:  loOverHi,
		opts:      opts,
		createdAt: createdAt,
	}
	if !submittedCanonical {
		j.a, j.b = p.Hi(), p.Lo()
		j.ratio = 1 / loOverHi
	}
	return j
}

func (j Judgment) Token() string { return j.token }
func (j Judgment) Metric() metric.Metric { return j.metric }
func (j Judgment) A() string { return j.a }
func (j Judgment) B() string { return j.b }
func (j Judgment) Ratio() float64 { return j.ratio }
func (j Judgment) Fullscreen() bool { return j.opts.Fullscreen }
func (j Judgment) VideoSize() uint16 { return j.opts.VideoSize }
func (j Judgment) Options() Options { return j.opts }
func (j Judgment) CreatedAt() int64 { return j.createdAt }

// Pair returns the unordered pair the judgment covers.
func (j Judgment) Pair() pair.Pair {
	p, _ := pair.New(j.a, j.b)
	return p
}

// Canonical reports whether A is the pair's Lo.
func (j Judgment) Canonical() bool {
	return j.a < j.b
}

// CanonicalRatio returns the preference of Pair().Lo() over Pair().Hi().
func (j Judgment) CanonicalRatio() float64 { return j.loOverHi }
