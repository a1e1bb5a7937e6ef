package survey

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/pairwise/internal/domain"
	"github.com/kailas-cloud/pairwise/internal/domain/comparison"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/pair"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
)

// UserRanking is one participant's ranking in an export.
type UserRanking struct {
	User    user.User
	Ranking []comparison.Weight
}

// SkippedUser is a participant left out of an export for missing judgments.
type SkippedUser struct {
	Token     string
	Remaining int
}

// Export holds the rankings of every complete participant of a task.
type Export struct {
	Task     string
	Metric   metric.Metric
	Samples  int
	Rankings []UserRanking
	Skipped  []SkippedUser
}

type exportItem struct {
	ranking   []comparison.Weight
	remaining int
	complete  bool
	missing   error // set under ExportFail for an incomplete participant
}

// Export computes the ranking of every participant registered for task.
// Participants are processed concurrently; output keeps registration order.
// Incomplete participants are skipped or fail the export per ExportPolicy.
func (s *Service) Export(ctx context.Context, task string, m metric.Metric) (Export, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Export", trace.WithAttributes(
		attribute.String("task", task),
		attribute.String("metric", m.String()),
		attribute.String("policy", string(s.opts.ExportPolicy)),
	))
	defer span.End()

	out, err := s.export(ctx, task, m)
	if err != nil {
		endWithError(span, err)
		return Export{}, err
	}

	span.SetAttributes(attribute.Int("rankings", len(out.Rankings)), attribute.Int("skipped", len(out.Skipped)))
	s.logger.Info("Rankings exported",
		zap.String("task", task),
		zap.String("metric", m.String()),
		zap.Int("rankings", len(out.Rankings)),
		zap.Int("skipped", len(out.Skipped)),
	)
	return out, nil
}

func (s *Service) export(ctx context.Context, task string, m metric.Metric) (Export, error) {
	if err := s.checkMetric(m); err != nil {
		return Export{}, err
	}
	set, err := s.sampleSet(ctx, task)
	if err != nil {
		return Export{}, err
	}
	users, err := s.users.ListByTask(ctx, task)
	if err != nil {
		return Export{}, fmt.Errorf("list users: %w", err)
	}

	items := make([]exportItem, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.ExportConcurrency)
	for i, u := range users {
		g.Go(func() error {
			item, err := s.exportUser(gctx, set, u.Token(), m)
			if err != nil {
				return fmt.Errorf("user %s: %w", u.Token(), err)
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Export{}, err
	}
	for i, item := range items {
		if item.missing != nil {
			return Export{}, fmt.Errorf("user %s: %w", users[i].Token(), item.missing)
		}
	}

	out := Export{Task: task, Metric: m, Samples: set.Len(), Rankings: []UserRanking{}, Skipped: []SkippedUser{}}
	for i, item := range items {
		if !item.complete {
			out.Skipped = append(out.Skipped, SkippedUser{Token: users[i].Token(), Remaining: item.remaining})
			continue
		}
		out.Rankings = append(out.Rankings, UserRanking{User: users[i], Ranking: item.ranking})
	}
	return out, nil
}

func (s *Service) exportUser(ctx context.Context, set sample.Set, token string, m metric.Metric) (exportItem, error) {
	js, err := s.judgments.ListByUser(ctx, token, m)
	if err != nil {
		return exportItem{}, fmt.Errorf("list judgments: %w", err)
	}

	ranking, err := comparison.Ranking(set, comparison.RatiosFrom(js))
	switch {
	case err == nil:
		return exportItem{ranking: ranking, complete: true}, nil
	case errors.Is(err, domain.ErrMissingJudgment) && s.opts.ExportPolicy == ExportSkip:
		remaining := len(pair.NeedingJudgment(set, completion(js)))
		return exportItem{remaining: remaining}, nil
	case errors.Is(err, domain.ErrMissingJudgment):
		// Reported after Wait so the earliest registered participant wins.
		return exportItem{missing: err}, nil
	default:
		return exportItem{}, err
	}
}
