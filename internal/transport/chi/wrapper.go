package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is the set of API operations.
type ServerInterface interface {
	// GET /
	Index(w http.ResponseWriter, r *http.Request)
	// GET /health
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// GET /metrics
	Metrics(w http.ResponseWriter, r *http.Request)
	// POST /users
	RegisterUser(w http.ResponseWriter, r *http.Request)
	// GET /users/{token}
	GetUser(w http.ResponseWriter, r *http.Request, token string)
	// GET /tasks
	ListTasks(w http.ResponseWriter, r *http.Request)
	// GET /tasks/{task}/samples
	ListSamples(w http.ResponseWriter, r *http.Request, task string)
	// GET /tasks/{task}/users/{token}/pairs
	GetPairs(w http.ResponseWriter, r *http.Request, task, token string, params GetPairsParams)
	// POST /judgments
	SubmitJudgment(w http.ResponseWriter, r *http.Request)
	// GET /tasks/{task}/users/{token}/ranking
	GetRanking(w http.ResponseWriter, r *http.Request, task, token string, params GetRankingParams)
	// POST /admin/scan
	ScanTasks(w http.ResponseWriter, r *http.Request)
	// GET /admin/tasks/{task}/rankings
	ExportRankings(w http.ResponseWriter, r *http.Request, task string, params ExportRankingsParams)
}

// GetPairsParams defines query parameters for GetPairs.
type GetPairsParams struct {
	Metric *string `form:"metric,omitempty" json:"metric,omitempty"`
}

// GetRankingParams defines query parameters for GetRanking.
type GetRankingParams struct {
	Metric string `form:"metric" json:"metric"`
}

// ExportRankingsParams defines query parameters for ExportRankings.
type ExportRankingsParams struct {
	Metric string `form:"metric" json:"metric"`
}

// MiddlewareFunc wraps a single operation handler.
type MiddlewareFunc func(http.Handler) http.Handler

// InvalidParamFormatError reports a path or query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ServerInterfaceWrapper converts HTTP requests to ServerInterface calls.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) pathParam(w http.ResponseWriter, r *http.Request, name string, dest *string) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

func (siw *ServerInterfaceWrapper) queryParam(
	w http.ResponseWriter, r *http.Request, name string, required bool, dest any,
) bool {
	err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

// GetUser operation middleware.
func (siw *ServerInterfaceWrapper) GetUser(w http.ResponseWriter, r *http.Request) {
	var token string
	if !siw.pathParam(w, r, "token", &token) {
		return
	}
	siw.Handler.GetUser(w, r, token)
}

// ListSamples operation middleware.
func (siw *ServerInterfaceWrapper) ListSamples(w http.ResponseWriter, r *http.Request) {
	var task string
	if !siw.pathParam(w, r, "task", &task) {
		return
	}
	siw.Handler.ListSamples(w, r, task)
}

// GetPairs operation middleware.
func (siw *ServerInterfaceWrapper) GetPairs(w http.ResponseWriter, r *http.Request) {
	var task, token string
	if !siw.pathParam(w, r, "task", &task) || !siw.pathParam(w, r, "token", &token) {
		return
	}
	var params GetPairsParams
	if !siw.queryParam(w, r, "metric", false, &params.Metric) {
		return
	}
	siw.Handler.GetPairs(w, r, task, token, params)
}

// GetRanking operation middleware.
func (siw *ServerInterfaceWrapper) GetRanking(w http.ResponseWriter, r *http.Request) {
	var task, token string
	if !siw.pathParam(w, r, "task", &task) || !siw.pathParam(w, r, "token", &token) {
		return
	}
	var params GetRankingParams
	if !siw.queryParam(w, r, "metric", true, &params.Metric) {
		return
	}
	siw.Handler.GetRanking(w, r, task, token, params)
}

// ExportRankings operation middleware.
func (siw *ServerInterfaceWrapper) ExportRankings(w http.ResponseWriter, r *http.Request) {
	var task string
	if !siw.pathParam(w, r, "task", &task) {
		return
	}
	var params ExportRankingsParams
	if !siw.queryParam(w, r, "metric", true, &params.Metric) {
		return
	}
	siw.Handler.ExportRankings(w, r, task, params)
}

// ChiServerOptions configures Handler.
type ChiServerOptions struct {
	BaseRouter chi.Router
	// AdminMiddlewares guard the /admin routes only.
	AdminMiddlewares []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates an http.Handler with routing matching the API.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions creates an http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Get("/", si.Index)
	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)
	r.Post("/users", si.RegisterUser)
	r.Get("/users/{token}", wrapper.GetUser)
	r.Get("/tasks", si.ListTasks)
	r.Get("/tasks/{task}/samples", wrapper.ListSamples)
	r.Get("/tasks/{task}/users/{token}/pairs", wrapper.GetPairs)
	r.Get("/tasks/{task}/users/{token}/ranking", wrapper.GetRanking)
	r.Post("/judgments", si.SubmitJudgment)

	r.Group(func(r chi.Router) {
		for _, mw := range options.AdminMiddlewares {
			r.Use(mw)
		}
		r.Post("/admin/scan", si.ScanTasks)
		r.Get("/admin/tasks/{task}/rankings", wrapper.ExportRankings)
	})
	return r
}
