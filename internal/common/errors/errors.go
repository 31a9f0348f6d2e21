// Package errors provides the standardized error taxonomy for the intake
// engine: validation, upstream, parse, and state errors, each carrying a
// stable code and a retryability flag.
package errors

import (
	goerrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation errors: rejected before any state mutation, never retried.
	ErrCodeValidationFailed          ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnknownClarificationTopic ErrorCode = "UNKNOWN_CLARIFICATION_TOPIC"

	// Upstream errors: the language-model service misbehaved. Safe to retry
	// the same round submission because state is untouched on failure.
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamRateLimited ErrorCode = "UPSTREAM_RATE_LIMITED"
	ErrCodeUpstreamTimeout     ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamMalformed   ErrorCode = "UPSTREAM_MALFORMED"

	// Parse errors: the model responded but not in the expected structure.
	ErrCodeCategorizationParse ErrorCode = "CATEGORIZATION_PARSE_ERROR"

	// State errors: caller bugs or lost races, surfaced verbatim.
	ErrCodeAssessmentAlreadyComplete ErrorCode = "ASSESSMENT_ALREADY_COMPLETE"
	ErrCodeStaleRound                ErrorCode = "STALE_ROUND"
	ErrCodeAssessmentIncomplete      ErrorCode = "ASSESSMENT_INCOMPLETE"
	ErrCodeAssessmentNotFound        ErrorCode = "ASSESSMENT_NOT_FOUND"

	// Infrastructure errors.
	ErrCodeDatabaseQueryFailed    ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeCatalogReadFailed      ErrorCode = "CATALOG_READ_FAILED"
	ErrCodePromptTemplateNotFound ErrorCode = "PROMPT_TEMPLATE_NOT_FOUND"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable intake validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Intake validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownClarificationTopicError creates a non-retryable error for an
// answer submitted outside the fixed topic set or the outstanding list.
func NewUnknownClarificationTopicError(topic string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownClarificationTopic,
		Message:   "Unknown or non-outstanding clarification topic",
		Details:   fmt.Sprintf("topic: %s", topic),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamUnavailableError creates a retryable transport-level error.
func NewUpstreamUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamUnavailable,
		Message:   "Language model service unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamRateLimitedError creates a retryable throttling error.
func NewUpstreamRateLimitedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamRateLimited,
		Message:   "Language model service throttled the request",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamTimeoutError creates a retryable timeout error. The round is
// never advanced on timeout.
func NewUpstreamTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamTimeout,
		Message:   "Language model call exceeded the caller timeout",
		Details:   "call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamMalformedError creates a retryable error for an empty or
// oversized response body.
func NewUpstreamMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamMalformed,
		Message:   "Language model response was empty or oversized",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCategorizationParseError creates a retryable error for a response that
// could not be parsed as structured topic data at all.
func NewCategorizationParseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCategorizationParse,
		Message:   "Model response could not be parsed as topic data",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentAlreadyCompleteError creates a non-retryable state error for a
// submission against a terminal assessment.
func NewAssessmentAlreadyCompleteError(assessmentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentAlreadyComplete,
		Message:   "Assessment is already complete",
		Details:   fmt.Sprintf("assessmentId: %s", assessmentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStaleRoundError creates a non-retryable optimistic-concurrency error.
func NewStaleRoundError(assessmentID string, expected, current int) *StandardError {
	return &StandardError{
		Code:      ErrCodeStaleRound,
		Message:   "Submission round does not match current round",
		Details:   fmt.Sprintf("assessmentId: %s, expected: %d, current: %d", assessmentID, expected, current),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentIncompleteError creates a non-retryable error for a match
// request against an unfinished assessment.
func NewAssessmentIncompleteError(assessmentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentIncomplete,
		Message:   "Assessment has not reached a terminal state",
		Details:   fmt.Sprintf("assessmentId: %s", assessmentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssessmentNotFoundError creates a non-retryable lookup error.
func NewAssessmentNotFoundError(assessmentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAssessmentNotFound,
		Message:   "Assessment not found",
		Details:   fmt.Sprintf("assessmentId: %s", assessmentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailedError creates a retryable database error.
func NewDatabaseQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogReadFailedError creates a retryable catalog read error.
func NewCatalogReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogReadFailed,
		Message:   "Package catalog read failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPromptTemplateNotFoundError creates a non-retryable configuration error.
func NewPromptTemplateNotFoundError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodePromptTemplateNotFound,
		Message:   "Prompt template not found in registry",
		Details:   fmt.Sprintf("template: %s", name),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification error.
// Notification failures are logged, never surfaced to the intake caller.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Result notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeUpstreamUnavailable,
		ErrCodeUpstreamRateLimited,
		ErrCodeDatabaseQueryFailed,
		ErrCodeCatalogReadFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeUpstreamTimeout,
		ErrCodeUpstreamMalformed:
		return 2

	case ErrCodeCategorizationParse:
		return 1 // one internal gateway retry, then surfaced

	default:
		return 0 // validation and state errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// CodeOf extracts the ErrorCode from err, or "" when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if goerrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsCode reports whether err is a StandardError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
