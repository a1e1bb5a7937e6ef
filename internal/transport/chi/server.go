// Package chi is the HTTP transport of the survey: JSON handlers over the
// usecase services, routed with go-chi.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pairwise/internal/domain/comparison"
	"github.com/kailas-cloud/pairwise/internal/domain/judgment"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	"github.com/kailas-cloud/pairwise/internal/domain/sample"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
	logpkg "github.com/kailas-cloud/pairwise/internal/logger"
	"github.com/kailas-cloud/pairwise/internal/version"
	cataloguc "github.com/kailas-cloud/pairwise/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/pairwise/internal/usecase/health"
	surveyuc "github.com/kailas-cloud/pairwise/internal/usecase/survey"
)

// maxBodyBytes caps request bodies; every request is a small JSON object.
const maxBodyBytes = 1 << 16

// SurveyService serves pairs, judgments and rankings.
type SurveyService interface {
	Pairs(ctx context.Context, task, token string, m *metric.Metric) (surveyuc.PairsResult, error)
	Submit(ctx context.Context, in surveyuc.SubmitInput) (judgment.Judgment, error)
	Ranking(ctx context.Context, task, token string, m metric.Metric) ([]comparison.Weight, error)
	Export(ctx context.Context, task string, m metric.Metric) (surveyuc.Export, error)
	Metrics() []metric.Metric
}

// ParticipantService registers and looks up participants.
type ParticipantService interface {
	Register(ctx context.Context, p user.Profile) (user.User, error)
	Get(ctx context.Context, token string) (user.User, error)
}

// CatalogService lists and scans tasks.
type CatalogService interface {
	Tasks(ctx context.Context) ([]cataloguc.TaskSummary, error)
	Samples(ctx context.Context, task string) (sample.Set, error)
	Scan(ctx context.Context) ([]cataloguc.TaskScan, error)
}

// HealthService aggregates component checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server implements ServerInterface.
type Server struct {
	survey        SurveyService
	participants  ParticipantService
	catalog       CatalogService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	survey SurveyService,
	participants ParticipantService,
	catalog CatalogService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	return &Server{
		survey:        survey,
		participants:  participants,
		catalog:       catalog,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, IndexResponse{
		Service: "pairwise",
		Version: version.Version,
		Metrics: metricNames(s.survey.Metrics()),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// Degraded still serves judging traffic; only Unhealthy fails the probe.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RegisterUser handles POST /users.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decode(w, r, &req) {
		return
	}

	u, err := s.participants.Register(r.Context(), req.profile())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{Token: u.Token(), Public: u.Public()})
}

// GetUser handles GET /users/{token}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request, token string) {
	u, err := s.participants.Get(r.Context(), token)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(u))
}

// ListTasks handles GET /tasks.
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.catalog.Tasks(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		items[i] = TaskResponse{Name: t.Name, Samples: t.Samples}
	}
	writeJSON(w, http.StatusOK, items)
}

// ListSamples handles GET /tasks/{task}/samples.
func (s *Server) ListSamples(w http.ResponseWriter, r *http.Request, task string) {
	set, err := s.catalog.Samples(r.Context(), task)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if set.Len() == 0 {
		writeError(w, http.StatusNotFound, ErrorResponseCodeNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, samplesToResponse(set))
}

// GetPairs handles GET /tasks/{task}/users/{token}/pairs.
func (s *Server) GetPairs(w http.ResponseWriter, r *http.Request, task, token string, params GetPairsParams) {
	var m *metric.Metric
	if params.Metric != nil && *params.Metric != "" {
		mm := parseMetric(*params.Metric)
		m = &mm
	}

	res, err := s.survey.Pairs(r.Context(), task, token, m)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pairsToResponse(res))
}

// SubmitJudgment handles POST /judgments.
func (s *Server) SubmitJudgment(w http.ResponseWriter, r *http.Request) {
	var req JudgmentRequest
	if !s.decode(w, r, &req) {
		return
	}

	j, err := s.survey.Submit(r.Context(), surveyuc.SubmitInput{
		Token:  req.Token,
		Metric: parseMetric(req.Metric),
		A:      req.A,
		B:      req.B,
		Ratio:  *req.Weight,
		Options: judgment.Options{
			Fullscreen: req.Fullscreen,
			VideoSize:  req.VideoSize,
		},
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, JudgmentResponse{
		A:         j.A(),
		B:         j.B(),
		Metric:    j.Metric().String(),
		Weight:    j.Ratio(),
		CreatedAt: j.CreatedAt(),
	})
}

// GetRanking handles GET /tasks/{task}/users/{token}/ranking.
func (s *Server) GetRanking(w http.ResponseWriter, r *http.Request, task, token string, params GetRankingParams) {
	ranking, err := s.survey.Ranking(r.Context(), task, token, parseMetric(params.Metric))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rankingToResponse(ranking))
}

// ScanTasks handles POST /admin/scan.
func (s *Server) ScanTasks(w http.ResponseWriter, r *http.Request) {
	scans, err := s.catalog.Scan(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scansToResponse(scans))
}

// ExportRankings handles GET /admin/tasks/{task}/rankings.
func (s *Server) ExportRankings(w http.ResponseWriter, r *http.Request, task string, params ExportRankingsParams) {
	export, err := s.survey.Export(r.Context(), task, parseMetric(params.Metric))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewExportResponse(export))
}

// decode reads and validates a JSON body. It writes the error response and
// returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, formatValidationErrors(err))
		return false
	}
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func parseMetric(s string) metric.Metric {
	return metric.Metric(strings.ToLower(strings.TrimSpace(s)))
}

func metricNames(ms []metric.Metric) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}

// ErrorHandlerFunc answers parameter binding failures with a JSON 400.
func ErrorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	var perr *InvalidParamFormatError
	if errors.As(err, &perr) {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid parameter "+perr.ParamName)
		return
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid request")
}
