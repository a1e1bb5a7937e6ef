package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kailas-cloud/pairwise/internal/domain"
)

// ErrorResponseCode is the machine-readable code of an error response.
type ErrorResponseCode string

// Error codes returned by the API.
const (
	ErrorResponseCodeBadRequest          ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed    ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized        ErrorResponseCode = "unauthorized"
	ErrorResponseCodeUnknownSample       ErrorResponseCode = "unknown_sample"
	ErrorResponseCodeInvalidRatio        ErrorResponseCode = "invalid_ratio"
	ErrorResponseCodeInvalidMetric       ErrorResponseCode = "invalid_metric"
	ErrorResponseCodeUnregisteredUser    ErrorResponseCode = "unregistered_user"
	ErrorResponseCodeDuplicateJudgment   ErrorResponseCode = "duplicate_judgment"
	ErrorResponseCodeRankingNotAvailable ErrorResponseCode = "ranking_not_available"
	ErrorResponseCodeNotFound            ErrorResponseCode = "not_found"
	ErrorResponseCodeAlreadyExists       ErrorResponseCode = "already_exists"
	ErrorResponseCodeInternalError       ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
	// Pair names the samples involved in a judgment conflict or a missing judgment.
	Pair *ErrorPair `json:"pair,omitempty"`
}

// ErrorPair identifies the pair an error refers to.
type ErrorPair struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Metric string `json:"metric,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		duplicateJudgmentHandler,
		missingJudgmentHandler,
		sentinelHandler(domain.ErrDuplicateJudgment, http.StatusConflict, ErrorResponseCodeDuplicateJudgment),
		sentinelHandler(domain.ErrMissingJudgment, http.StatusConflict, ErrorResponseCodeRankingNotAvailable),
		sentinelHandler(domain.ErrUnknownSample, http.StatusBadRequest, ErrorResponseCodeUnknownSample),
		sentinelHandler(domain.ErrInvalidRatio, http.StatusBadRequest, ErrorResponseCodeInvalidRatio),
		sentinelHandler(domain.ErrInvalidMetric, http.StatusBadRequest, ErrorResponseCodeInvalidMetric),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrUnregisteredUser, http.StatusForbidden, ErrorResponseCodeUnregisteredUser),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorResponseCodeAlreadyExists),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownSample,
		domain.ErrInvalidRatio,
		domain.ErrInvalidMetric,
		domain.ErrInvalidInput,
		domain.ErrUnregisteredUser,
		domain.ErrDuplicateJudgment,
		domain.ErrMissingJudgment,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func duplicateJudgmentHandler(w http.ResponseWriter, err error, msg string) bool {
	var dup *domain.DuplicateJudgmentError
	if !errors.As(err, &dup) {
		return false
	}
	writeJSON(w, http.StatusConflict, ErrorResponse{
		Code:    ErrorResponseCodeDuplicateJudgment,
		Message: msg,
		Pair:    &ErrorPair{A: dup.SampleA, B: dup.SampleB, Metric: dup.Metric},
	})
	return true
}

func missingJudgmentHandler(w http.ResponseWriter, err error, msg string) bool {
	var missing *domain.MissingJudgmentError
	if !errors.As(err, &missing) {
		return false
	}
	writeJSON(w, http.StatusConflict, ErrorResponse{
		Code:    ErrorResponseCodeRankingNotAvailable,
		Message: msg,
		Pair:    &ErrorPair{A: missing.SampleA, B: missing.SampleB},
	})
	return true
}
