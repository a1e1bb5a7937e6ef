// Package catalog discovers tasks and their samples on disk and lists them.
package catalog

import (
	"context"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pairwise/internal/domain/sample"
)

// TaskScan reports one scanned task.
type TaskScan struct {
	Task    string
	Samples int
	// WithoutData lists samples that had no data file and got fitness 0.
	WithoutData []string
}

// TaskSummary is a known task with its sample count.
type TaskSummary struct {
	Name    string
	Samples int
}

// Service scans the tasks directory and serves task listings.
type Service struct {
	repo     Repository
	resolver SampleResolver
	cache    CacheInvalidator
	root     fs.FS
	logger   *zap.Logger
}

// New creates a catalog service over the tasks directory root.
// cache can be nil.
func New(repo Repository, resolver SampleResolver, cache CacheInvalidator, root fs.FS, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, resolver: resolver, cache: cache, root: root, logger: logger}
}

// Scan walks every task directory and upserts its samples. Sample ids are
// derived from (task, name), so rescanning keeps ids stable.
func (s *Service) Scan(ctx context.Context) ([]TaskScan, error) {
	tasks, err := listTasks(s.root)
	if err != nil {
		return nil, err
	}

	out := make([]TaskScan, 0, len(tasks))
	for _, task := range tasks {
		if err := sample.ValidateTask(task); err != nil {
			s.logger.Warn("Skipping task directory", zap.String("dir", task), zap.Error(err))
			continue
		}
		report, err := s.ScanTask(ctx, task)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, nil
}

// ScanTask scans a single task directory.
func (s *Service) ScanTask(ctx context.Context, task string) (TaskScan, error) {
	if err := sample.ValidateTask(task); err != nil {
		return TaskScan{}, err
	}

	found, err := scanTask(s.root, task)
	if err != nil {
		return TaskScan{}, err
	}

	report := TaskScan{Task: task}
	samples := make([]sample.Sample, 0, len(found))
	for _, f := range found {
		smp, err := sample.New(task, f.name, f.fitness)
		if err != nil {
			s.logger.Warn("Skipping sample", zap.String("task", task), zap.String("name", f.name), zap.Error(err))
			continue
		}
		if !f.hasData {
			report.WithoutData = append(report.WithoutData, f.name)
			s.logger.Warn("Sample has no data file, fitness set to 0",
				zap.String("task", task), zap.String("name", f.name))
		}
		samples = append(samples, smp)
	}

	if err := s.repo.Upsert(ctx, task, samples); err != nil {
		return TaskScan{}, fmt.Errorf("upsert samples of %s: %w", task, err)
	}
	if s.cache != nil {
		s.cache.Invalidate(task)
	}

	report.Samples = len(samples)
	s.logger.Info("Task scanned", zap.String("task", task), zap.Int("samples", report.Samples))
	return report, nil
}

// Tasks lists the known tasks with their sample counts.
func (s *Service) Tasks(ctx context.Context) ([]TaskSummary, error) {
	names, err := s.repo.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]TaskSummary, 0, len(names))
	for _, name := range names {
		set, err := s.resolver.ListByTask(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve task %s: %w", name, err)
		}
		out = append(out, TaskSummary{Name: name, Samples: set.Len()})
	}
	return out, nil
}

// Samples returns the canonical sample set of a task.
func (s *Service) Samples(ctx context.Context, task string) (sample.Set, error) {
	set, err := s.resolver.ListByTask(ctx, task)
	if err != nil {
		return sample.Set{}, fmt.Errorf("resolve task %s: %w", task, err)
	}
	return set, nil
}

// HealthCheck reports whether the tasks directory is readable.
func (s *Service) HealthCheck(_ context.Context) error {
	if _, err := fs.ReadDir(s.root, "."); err != nil {
		return fmt.Errorf("tasks dir: %w", err)
	}
	return nil
}
