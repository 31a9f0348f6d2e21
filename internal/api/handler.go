// Package api is the thin HTTP layer over the advisor service: JSON in,
// JSON out, no business logic.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/models"
	"relocation-advisor/internal/service"
)

const maxRequestBytes = 64 << 10

// AdvisorService is the slice of the service layer the handlers use.
type AdvisorService interface {
	SubmitIntake(ctx context.Context, answers models.RawAnswers, contactEmail string) (*service.RoundResult, error)
	SubmitClarification(ctx context.Context, id string, expectedRound int, answers map[models.TopicKey]string, contactEmail string) (*service.RoundResult, error)
	RetryCategorization(ctx context.Context, id string, expectedRound int, contactEmail string) (*service.RoundResult, error)
	GetAssessment(ctx context.Context, id string) (*models.Assessment, error)
	GetMatches(ctx context.Context, id string) (*models.MatchResult, error)
}

type Handler struct {
	service AdvisorService
	logger  logger.Logger
}

func NewHandler(svc AdvisorService, log logger.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Register mounts the assessment endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/assessments", h.handleSubmitIntake)
	r.Post("/api/assessments/{id}/clarifications", h.handleSubmitClarification)
	r.Post("/api/assessments/{id}/retry", h.handleRetry)
	r.Get("/api/assessments/{id}", h.handleGetAssessment)
	r.Get("/api/assessments/{id}/matches", h.handleGetMatches)
}

type intakeRequest struct {
	Answers      models.RawAnswers `json:"answers"`
	ContactEmail string            `json:"contactEmail,omitempty"`
}

type clarificationRequest struct {
	Round        int                        `json:"round"`
	Answers      map[models.TopicKey]string `json:"answers"`
	ContactEmail string                     `json:"contactEmail,omitempty"`
}

type retryRequest struct {
	Round        int    `json:"round"`
	ContactEmail string `json:"contactEmail,omitempty"`
}

func (h *Handler) handleSubmitIntake(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.SubmitIntake(r.Context(), req.Answers, req.ContactEmail)
	if err != nil {
		// A created record may accompany a round-one failure; hand its id
		// back so the client can hit the retry endpoint.
		var assessmentID string
		if result != nil && result.Assessment != nil {
			assessmentID = result.Assessment.ID
		}
		h.logger.WithError(err).Warn("intake submission failed", map[string]interface{}{
			"path":         r.URL.Path,
			"errorCode":    string(errors.CodeOf(err)),
			"assessmentId": assessmentID,
		})
		writeErrorForAssessment(w, err, assessmentID)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleSubmitClarification(w http.ResponseWriter, r *http.Request) {
	var req clarificationRequest
	if !h.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.service.SubmitClarification(r.Context(), id, req.Round, req.Answers, req.ContactEmail)
	if err != nil {
		h.fail(w, r, "clarification submission failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleRetry(w http.ResponseWriter, r *http.Request) {
	var req retryRequest
	if !h.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	result, err := h.service.RetryCategorization(r.Context(), id, req.Round, req.ContactEmail)
	if err != nil {
		h.fail(w, r, "categorization retry failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.GetAssessment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "assessment lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.service.GetMatches(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "match computation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		writeError(w, errors.NewValidationFailedError("malformed request body: "+err.Error()))
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.WithError(err).Warn(msg, map[string]interface{}{
		"path":      r.URL.Path,
		"errorCode": string(errors.CodeOf(err)),
	})
	writeError(w, err)
}
