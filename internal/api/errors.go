package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pylon/pkg/errors"
)

const errRateLimited errors.Code = "RATE_LIMITED"

type errorBody struct {
	Code       errors.Code `json:"code"`
	Message    string      `json:"message"`
	RequestID  string      `json:"request_id,omitempty"`
	AnalysisID string      `json:"analysis_id,omitempty"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeGeometry, errors.ErrCodeConfiguration, errors.ErrCodeConstraintViolation,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSolverFailure:
		return http.StatusUnprocessableEntity
	case errRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorFor(w, r, err, "")
}

func writeErrorFor(w http.ResponseWriter, r *http.Request, err error, analysisID string) {
	status := statusFor(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{
		Code:       code,
		Message:    msg,
		RequestID:  middleware.GetReqID(r.Context()),
		AnalysisID: analysisID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errNotFoundRoute(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}
