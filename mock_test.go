package pairwise

import (
	"context"

	"github.com/kailas-cloud/pairwise/internal/domain/comparison"
	"github.com/kailas-cloud/pairwise/internal/domain/judgment"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
	cataloguc "github.com/kailas-cloud/pairwise/internal/usecase/catalog"
	surveyuc "github.com/kailas-cloud/pairwise/internal/usecase/survey"
)

// --- surveyUseCase mock ---

type mockSurveyUC struct {
	pairsFn   func(ctx context.Context, task, token string, m *metric.Metric) (surveyuc.PairsResult, error)
	submitFn  func(ctx context.Context, in surveyuc.SubmitInput) (judgment.Judgment, error)
	rankingFn func(ctx context.Context, task, token string, m metric.Metric) ([]comparison.Weight, error)
	exportFn  func(ctx context.Context, task string, m metric.Metric) (surveyuc.Export, error)
}

func (m *mockSurveyUC) Pairs(
	ctx context.Context, task, token string, mt *metric.Metric,
) (surveyuc.PairsResult, error) {
	return m.pairsFn(ctx, task, token, mt)
}

func (m *mockSurveyUC) Submit(ctx context.Context, in surveyuc.SubmitInput) (judgment.Judgment, error) {
	return m.submitFn(ctx, in)
}

func (m *mockSurveyUC) Ranking(
	ctx context.Context, task, token string, mt metric.Metric,
) ([]comparison.Weight, error) {
	return m.rankingFn(ctx, task, token, mt)
}

func (m *mockSurveyUC) Export(ctx context.Context, task string, mt metric.Metric) (surveyuc.Export, error) {
	return m.exportFn(ctx, task, mt)
}

// --- participantUseCase mock ---

type mockParticipantUC struct {
	registerFn func(ctx context.Context, p user.Profile) (user.User, error)
	getFn      func(ctx context.Context, token string) (user.User, error)
}

func (m *mockParticipantUC) Register(ctx context.Context, p user.Profile) (user.User, error) {
	return m.registerFn(ctx, p)
}

func (m *mockParticipantUC) Get(ctx context.Context, token string) (user.User, error) {
	return m.getFn(ctx, token)
}

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	scanFn    func(ctx context.Context) ([]cataloguc.TaskScan, error)
	tasksFn   func(ctx context.Context) ([]cataloguc.TaskSummary, error)
	samplesFn func(ctx context.Context, task string) (sample.Set, error)
}

func (m *mockCatalogUC) Scan(ctx context.Context) ([]cataloguc.TaskScan, error) {
	return m.scanFn(ctx)
}

func (m *mockCatalogUC) Tasks(ctx context.Context) ([]cataloguc.TaskSummary, error) {
	return m.tasksFn(ctx)
}

func (m *mockCatalogUC) Samples(ctx context.Context, task string) (sample.Set, error) {
	return m.samplesFn(ctx, task)
}
