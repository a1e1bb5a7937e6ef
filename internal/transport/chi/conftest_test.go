package chi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pairwise/internal/db"
	"github.com/kailas-cloud/pairwise/internal/domain/comparison"
	"github.com/kailas-cloud/pairwise/internal/domain/judgment"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
	cataloguc "github.com/kailas-cloud/pairwise/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/pairwise/internal/usecase/health"
	surveyuc "github.com/kailas-cloud/pairwise/internal/usecase/survey"
)

// --- Mocks ---

type mockSurvey struct {
	pairsFn   func(ctx context.Context, task, token string, m *metric.Metric) (surveyuc.PairsResult, error)
	submitFn  func(ctx context.Context, in surveyuc.SubmitInput) (judgment.Judgment, error)
	rankingFn func(ctx context.Context, task, token string, m metric.Metric) ([]comparison.Weight, error)
	exportFn  func(ctx context.Context, task string, m metric.Metric) (surveyuc.Export, error)
}

func (m *mockSurvey) Pairs(ctx context.Context, task, token string, mm *metric.Metric) (surveyuc.PairsResult, error) {
	return m.pairsFn(ctx, task, token, mm)
}

func (m *mockSurvey) Submit(ctx context.Context, in surveyuc.SubmitInput) (judgment.Judgment, error) {
	return m.submitFn(ctx, in)
}

func (m *mockSurvey) Ranking(ctx context.Context, task, token string, mm metric.Metric) ([]comparison.Weight, error) {
	return m.rankingFn(ctx, task, token, mm)
}

func (m *mockSurvey) Export(ctx context.Context, task string, mm metric.Metric) (surveyuc.Export, error) {
	return m.exportFn(ctx, task, mm)
}

func (m *mockSurvey) Metrics() []metric.Metric { return metric.All() }

type mockParticipants struct {
	registerFn func(ctx context.Context, p user.Profile) (user.User, error)
	getFn      func(ctx context.Context, token string) (user.User, error)
}

func (m *mockParticipants) Register(ctx context.Context, p user.Profile) (user.User, error) {
	return m.registerFn(ctx, p)
}

func (m *mockParticipants) Get(ctx context.Context, token string) (user.User, error) {
	return m.getFn(ctx, token)
}

type mockCatalog struct {
	tasksFn   func(ctx context.Context) ([]cataloguc.TaskSummary, error)
	samplesFn func(ctx context.Context, task string) (sample.Set, error)
	scanFn    func(ctx context.Context) ([]cataloguc.TaskScan, error)
}

func (m *mockCatalog) Tasks(ctx context.Context) ([]cataloguc.TaskSummary, error) {
	return m.tasksFn(ctx)
}

func (m *mockCatalog) Samples(ctx context.Context, task string) (sample.Set, error) {
	return m.samplesFn(ctx, task)
}

func (m *mockCatalog) Scan(ctx context.Context) ([]cataloguc.TaskScan, error) {
	return m.scanFn(ctx)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

// --- Fixture ---

type fixture struct {
	survey       *mockSurvey
	participants *mockParticipants
	catalog      *mockCatalog
	health       *mockHealth
	handler      http.Handler
}

func newFixture(t *testing.T, adminKeys ...string) *fixture {
	t.Helper()
	f := &fixture{
		survey:       &mockSurvey{},
		participants: &mockParticipants{},
		catalog:      &mockCatalog{},
		health:       &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}},
	}
	srv := NewServer(f.survey, f.participants, f.catalog, f.health, zap.NewNop())
	f.handler = HandlerWithOptions(srv, ChiServerOptions{
		BaseRouter:       chi.NewRouter(),
		AdminMiddlewares: []MiddlewareFunc{BearerAuthMiddleware(adminKeys)},
		ErrorHandlerFunc: ErrorHandlerFunc,
	})
	return f
}

func (f *fixture) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func testUser(t *testing.T) user.User {
	t.Helper()
	u, err := user.New("tok", "pub", user.Profile{
		Age: 30, Gender: user.GenderFemale, Education: "msc", Occupation: "artist", Task: "abc",
	})
	if err != nil {
		t.Fatalf("user.New: %v", err)
	}
	return u
}

var errStore = fmt.Errorf("create judgment: %w", &db.Error{Op: db.OpHSetNX, Err: errors.New("connection reset")})
