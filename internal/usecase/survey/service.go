// Package survey drives the judging workflow: which pairs a participant still
// has to judge, accepting judgments and turning them into rankings.
package survey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pairwise/internal/domain"
	"github.com/kailas-cloud/pairwise/internal/domain/comparison"
	"github.com/kailas-cloud/pairwise/internal/domain/judgment"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/pair"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
	"github.com/kailas-cloud/pairwise/internal/metrics"
)

const tracerName = "github.com/kailas-cloud/pairwise/internal/usecase/survey"

// Service is stateless and safe for concurrent use.
type Service struct {
	samples   SampleResolver
	users     UserReader
	judgments JudgmentRepository
	newRand   RandSource
	opts      Options
	logger    *zap.Logger
	tracer    trace.Tracer
}

// New creates a survey service.
func New(samples SampleResolver, users UserReader, judgments JudgmentRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		samples:   samples,
		users:     users,
		judgments: judgments,
		newRand:   TimeSeeded(),
		opts:      Options{}.withDefaults(),
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

// WithOptions replaces the tuning options.
func (s *Service) WithOptions(o Options) *Service {
	s.opts = o.withDefaults()
	return s
}

// WithRandSource replaces the presentation random source.
func (s *Service) WithRandSource(src RandSource) *Service {
	if src != nil {
		s.newRand = src
	}
	return s
}

// Metrics returns the enabled metrics in configured order.
func (s *Service) Metrics() []metric.Metric {
	out := make([]metric.Metric, len(s.opts.Metrics))
	copy(out, s.opts.Metrics)
	return out
}

// PairsResult is the next judging step of a participant.
type PairsResult struct {
	Total     int
	Remaining int
	Pairs     []pair.Labeled
}

// Pairs returns the pairs the participant still has to judge in task, with
// randomized labels and order. With a metric only that metric's judgments
// count; with nil a pair stays pending while any enabled metric lacks it.
// A task the participant is not registered for fails with ErrNotFound.
func (s *Service) Pairs(ctx context.Context, task, token string, m *metric.Metric) (PairsResult, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Pairs", trace.WithAttributes(attribute.String("task", task)))
	defer span.End()

	res, err := s.pairs(ctx, task, token, m)
	if err != nil {
		endWithError(span, err)
		return PairsResult{}, err
	}

	span.SetAttributes(attribute.Int("pairs.total", res.Total), attribute.Int("pairs.remaining", res.Remaining))
	metrics.PendingPairs.Observe(float64(res.Remaining))
	return res, nil
}

func (s *Service) pairs(ctx context.Context, task, token string, m *metric.Metric) (PairsResult, error) {
	if m != nil {
		if err := s.checkMetric(*m); err != nil {
			return PairsResult{}, err
		}
	}
	if _, err := s.participantIn(ctx, token, task); err != nil {
		return PairsResult{}, err
	}
	set, err := s.sampleSet(ctx, task)
	if err != nil {
		return PairsResult{}, err
	}

	var pending []pair.Pending
	if m != nil {
		js, err := s.judgments.ListByUser(ctx, token, *m)
		if err != nil {
			return PairsResult{}, fmt.Errorf("list judgments: %w", err)
		}
		for _, p := range pair.NeedingJudgment(set, completion(js)) {
			pending = append(pending, pair.Pending{Pair: p, Metrics: []metric.Metric{*m}})
		}
	} else {
		byMetric, err := s.judgments.ListByUserMetrics(ctx, token, s.opts.Metrics)
		if err != nil {
			return PairsResult{}, fmt.Errorf("list judgments: %w", err)
		}
		done := make(map[metric.Metric]pair.Completion, len(byMetric))
		for mm, js := range byMetric {
			done[mm] = completion(js)
		}
		pending = pair.NeedingJudgmentAny(set, s.opts.Metrics, done)
	}

	labeled := pair.NewRandomizer(s.newRand()).Present(pending)
	return PairsResult{
		Total:     pair.Total(set.Len()),
		Remaining: len(labeled),
		Pairs:     labeled,
	}, nil
}

// SubmitInput is one judgment as submitted by a participant.
type SubmitInput struct {
	Token   string
	Metric  metric.Metric
	A       string
	B       string
	Ratio   float64
	Options judgment.Options
}

// Submit validates and stores a judgment. Rejections: ErrInvalidMetric,
// ErrInvalidRatio, ErrUnregisteredUser, ErrUnknownSample (a or b outside the
// participant's task) and ErrDuplicateJudgment (pair already judged in either
// direction, including a concurrent submission that won the race).
func (s *Service) Submit(ctx context.Context, in SubmitInput) (judgment.Judgment, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Submit", trace.WithAttributes(
		attribute.String("metric", in.Metric.String()),
	))
	defer span.End()

	j, err := s.submit(ctx, in)
	metrics.JudgmentsTotal.WithLabelValues(metricLabel(in.Metric), submitResult(err)).Inc()
	if err != nil {
		endWithError(span, err)
		s.logger.Info("Judgment rejected",
			zap.String("metric", in.Metric.String()),
			zap.String("a", in.A),
			zap.String("b", in.B),
			zap.Float64("ratio", in.Ratio),
			zap.Error(err),
		)
		return judgment.Judgment{}, err
	}

	s.logger.Debug("Judgment accepted",
		zap.String("metric", in.Metric.String()),
		zap.String("pair", j.Pair().Key()),
		zap.Float64("ratio", j.Ratio()),
	)
	return j, nil
}

func (s *Service) submit(ctx context.Context, in SubmitInput) (judgment.Judgment, error) {
	if err := s.checkMetric(in.Metric); err != nil {
		return judgment.Judgment{}, err
	}
	if err := judgment.ValidateRatio(in.Ratio, s.opts.MaxRatio); err != nil {
		return judgment.Judgment{}, err
	}
	u, err := s.participant(ctx, in.Token)
	if err != nil {
		return judgment.Judgment{}, err
	}
	set, err := s.sampleSet(ctx, u.Task())
	if err != nil {
		return judgment.Judgment{}, err
	}
	for _, id := range []string{in.A, in.B} {
		if !set.Contains(id) {
			return judgment.Judgment{}, fmt.Errorf("%w: %q is not a sample of task %q", domain.ErrUnknownSample, id, u.Task())
		}
	}

	j, err := judgment.New(in.Token, in.Metric, in.A, in.B, in.Ratio, in.Options)
	if err != nil {
		return judgment.Judgment{}, err
	}
	if err := s.judgments.Create(ctx, j); err != nil {
		return judgment.Judgment{}, fmt.Errorf("create judgment: %w", err)
	}
	return j, nil
}

// Ranking returns the participant's samples ordered by descending priority
// weight. It fails with a *domain.MissingJudgmentError until every pair of
// the task is judged under m, and with ErrNotFound for a task the
// participant is not registered for.
func (s *Service) Ranking(ctx context.Context, task, token string, m metric.Metric) ([]comparison.Weight, error) {
	b, err := s.Breakdown(ctx, task, token, m)
	if err != nil {
		return nil, err
	}
	return b.Ranking, nil
}

// Breakdown is Ranking with every intermediate stage kept.
func (s *Service) Breakdown(ctx context.Context, task, token string, m metric.Metric) (comparison.Breakdown, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Ranking", trace.WithAttributes(
		attribute.String("task", task),
		attribute.String("metric", m.String()),
	))
	defer span.End()

	start := time.Now()
	b, err := s.breakdown(ctx, task, token, m)
	metrics.RankingDuration.Observe(time.Since(start).Seconds())
	metrics.RankingsTotal.WithLabelValues(rankingResult(err)).Inc()
	if err != nil {
		endWithError(span, err)
		return comparison.Breakdown{}, err
	}
	span.SetAttributes(attribute.Int("samples", len(b.Vector)))
	return b, nil
}

func (s *Service) breakdown(ctx context.Context, task, token string, m metric.Metric) (comparison.Breakdown, error) {
	if err := s.checkMetric(m); err != nil {
		return comparison.Breakdown{}, err
	}
	if _, err := s.participantIn(ctx, token, task); err != nil {
		return comparison.Breakdown{}, err
	}
	set, err := s.sampleSet(ctx, task)
	if err != nil {
		return comparison.Breakdown{}, err
	}
	return s.compute(ctx, set, token, m)
}

func (s *Service) compute(ctx context.Context, set sample.Set, token string, m metric.Metric) (comparison.Breakdown, error) {
	js, err := s.judgments.ListByUser(ctx, token, m)
	if err != nil {
		return comparison.Breakdown{}, fmt.Errorf("list judgments: %w", err)
	}
	b, err := comparison.Compute(set, comparison.RatiosFrom(js))
	if err != nil {
		return comparison.Breakdown{}, fmt.Errorf("compute ranking: %w", err)
	}
	return b, nil
}

func (s *Service) checkMetric(m metric.Metric) error {
	for _, enabled := range s.opts.Metrics {
		if m == enabled {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrInvalidMetric, m)
}

func (s *Service) participant(ctx context.Context, token string) (user.User, error) {
	u, err := s.users.Get(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return user.User{}, domain.ErrUnregisteredUser
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// participantIn resolves token and requires it to be registered for task.
func (s *Service) participantIn(ctx context.Context, token, task string) (user.User, error) {
	u, err := s.participant(ctx, token)
	if err != nil {
		return user.User{}, err
	}
	if u.Task() != task {
		return user.User{}, fmt.Errorf("%w: participant is not registered for task %q", domain.ErrNotFound, task)
	}
	return u, nil
}

func (s *Service) sampleSet(ctx context.Context, task string) (sample.Set, error) {
	set, err := s.samples.ListByTask(ctx, task)
	if err != nil {
		return sample.Set{}, fmt.Errorf("resolve sample set: %w", err)
	}
	return set, nil
}

func completion(js []judgment.Judgment) pair.Completion {
	c := make(pair.Completion, len(js))
	for _, j := range js {
		c.Add(j.Pair())
	}
	return c
}

func endWithError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// metricLabel keeps label cardinality bounded for unknown metric names.
func metricLabel(m metric.Metric) string {
	if !m.IsValid() {
		return "unknown"
	}
	return m.String()
}

func submitResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrDuplicateJudgment):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidRatio),
		errors.Is(err, domain.ErrInvalidMetric),
		errors.Is(err, domain.ErrUnknownSample),
		errors.Is(err, domain.ErrUnregisteredUser),
		errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

func rankingResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMissingJudgment):
		return "incomplete"
	default:
		return "error"
	}
}
