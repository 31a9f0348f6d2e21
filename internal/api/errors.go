package api

import (
	"encoding/json"
	goerrors "errors"
	"net/http"
	"time"

	"relocation-advisor/internal/common/errors"
)

// errorBody is the JSON error payload. It mirrors the structured error so
// API clients see the same codes the logs carry. AssessmentID is set when a
// record was created before the failure, so the client can retry it.
type errorBody struct {
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	Details      string    `json:"details,omitempty"`
	AssessmentID string    `json:"assessmentId,omitempty"`
	Retryable    bool      `json:"retryable"`
	Timestamp    time.Time `json:"timestamp"`
}

func httpStatus(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeValidationFailed, errors.ErrCodeUnknownClarificationTopic:
		return http.StatusBadRequest
	case errors.ErrCodeAssessmentNotFound:
		return http.StatusNotFound
	case errors.ErrCodeAssessmentAlreadyComplete, errors.ErrCodeStaleRound,
		errors.ErrCodeAssessmentIncomplete:
		return http.StatusConflict
	case errors.ErrCodeUpstreamUnavailable:
		return http.StatusBadGateway
	case errors.ErrCodeUpstreamRateLimited:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUpstreamMalformed, errors.ErrCodeCategorizationParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorForAssessment(w, err, "")
}

func writeErrorForAssessment(w http.ResponseWriter, err error, assessmentID string) {
	var stdErr *errors.StandardError
	if !goerrors.As(err, &stdErr) {
		stdErr = &errors.StandardError{
			Code:      "INTERNAL_ERROR",
			Message:   "Internal server error",
			Timestamp: time.Now().UTC(),
		}
	}

	writeJSON(w, httpStatus(stdErr.Code), errorBody{
		Code:         string(stdErr.Code),
		Message:      stdErr.Message,
		Details:      stdErr.Details,
		AssessmentID: assessmentID,
		Retryable:    stdErr.Retryable,
		Timestamp:    stdErr.Timestamp,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
