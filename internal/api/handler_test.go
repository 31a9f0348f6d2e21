package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/models"
	"relocation-advisor/internal/service"
)

type mockService struct {
	SubmitIntakeFunc        func(ctx context.Context, answers models.RawAnswers, contactEmail string) (*service.RoundResult, error)
	SubmitClarificationFunc func(ctx context.Context, id string, round int, answers map[models.TopicKey]string, contactEmail string) (*service.RoundResult, error)
	RetryFunc               func(ctx context.Context, id string, round int, contactEmail string) (*service.RoundResult, error)
	GetAssessmentFunc       func(ctx context.Context, id string) (*models.Assessment, error)
	GetMatchesFunc          func(ctx context.Context, id string) (*models.MatchResult, error)
}

func (m *mockService) SubmitIntake(ctx context.Context, answers models.RawAnswers, contactEmail string) (*service.RoundResult, error) {
	return m.SubmitIntakeFunc(ctx, answers, contactEmail)
}

func (m *mockService) SubmitClarification(ctx context.Context, id string, round int, answers map[models.TopicKey]string, contactEmail string) (*service.RoundResult, error) {
	return m.SubmitClarificationFunc(ctx, id, round, answers, contactEmail)
}

func (m *mockService) RetryCategorization(ctx context.Context, id string, round int, contactEmail string) (*service.RoundResult, error) {
	return m.RetryFunc(ctx, id, round, contactEmail)
}

func (m *mockService) GetAssessment(ctx context.Context, id string) (*models.Assessment, error) {
	return m.GetAssessmentFunc(ctx, id)
}

func (m *mockService) GetMatches(ctx context.Context, id string) (*models.MatchResult, error) {
	return m.GetMatchesFunc(ctx, id)
}

func newTestServer(t *testing.T, svc AdvisorService) *httptest.Server {
	t.Helper()
	router := NewRouter(NewHandler(svc, logger.NewTestLogger(t)))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHandler_SubmitIntake(t *testing.T) {
	svc := &mockService{
		SubmitIntakeFunc: func(_ context.Context, answers models.RawAnswers, contactEmail string) (*service.RoundResult, error) {
			assert.Equal(t, "Canada", answers.Destination)
			assert.Equal(t, "user@example.com", contactEmail)
			return &service.RoundResult{
				Assessment: &models.Assessment{
					ID:           "asmt-1",
					CurrentRound: 1,
					State:        models.StateAwaitingClarification,
				},
				Questions: []models.ClarificationQuestion{
					{Topic: models.TopicWork, Question: "What work will you do?"},
				},
			}, nil
		},
	}
	server := newTestServer(t, svc)

	resp := postJSON(t, server.URL+"/api/assessments", map[string]interface{}{
		"answers": map[string]string{
			"destination": "Canada", "companions": "spouse", "income": "95k",
			"housing": "rent", "timing": "6 months", "priority": "schools",
		},
		"contactEmail": "user@example.com",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	result := decodeBody[service.RoundResult](t, resp)
	assert.Equal(t, "asmt-1", result.Assessment.ID)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, models.TopicWork, result.Questions[0].Topic)
}

func TestHandler_SubmitIntake_UpstreamFailureCarriesAssessmentID(t *testing.T) {
	svc := &mockService{
		SubmitIntakeFunc: func(_ context.Context, _ models.RawAnswers, _ string) (*service.RoundResult, error) {
			// The record exists; only its first categorization round failed.
			return &service.RoundResult{
				Assessment: &models.Assessment{ID: "asmt-stuck", CurrentRound: 1, State: models.StateCreated},
			}, errors.NewUpstreamUnavailableError(assert.AnError)
		},
	}
	server := newTestServer(t, svc)

	resp := postJSON(t, server.URL+"/api/assessments", map[string]interface{}{
		"answers": map[string]string{
			"destination": "Canada", "companions": "spouse", "income": "95k",
			"housing": "rent", "timing": "6 months", "priority": "schools",
		},
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	body := decodeBody[map[string]interface{}](t, resp)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", body["code"])
	assert.Equal(t, "asmt-stuck", body["assessmentId"])
	assert.Equal(t, true, body["retryable"])
}

func TestHandler_SubmitIntake_MalformedBody(t *testing.T) {
	server := newTestServer(t, &mockService{})

	resp, err := http.Post(server.URL+"/api/assessments", "application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[map[string]interface{}](t, resp)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
}

func TestHandler_SubmitClarification(t *testing.T) {
	svc := &mockService{
		SubmitClarificationFunc: func(_ context.Context, id string, round int, answers map[models.TopicKey]string, _ string) (*service.RoundResult, error) {
			assert.Equal(t, "asmt-1", id)
			assert.Equal(t, 1, round)
			assert.Equal(t, "engineer", answers[models.TopicWork])
			return &service.RoundResult{
				Assessment: &models.Assessment{ID: id, State: models.StateComplete, Complete: true},
			}, nil
		},
	}
	server := newTestServer(t, svc)

	resp := postJSON(t, server.URL+"/api/assessments/asmt-1/clarifications", map[string]interface{}{
		"round":   1,
		"answers": map[string]string{"work": "engineer"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeBody[service.RoundResult](t, resp)
	assert.True(t, result.Assessment.Complete)
}

func TestHandler_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", errors.NewValidationFailedError("bad"), http.StatusBadRequest},
		{"unknown topic", errors.NewUnknownClarificationTopicError("pets"), http.StatusBadRequest},
		{"not found", errors.NewAssessmentNotFoundError("x"), http.StatusNotFound},
		{"already complete", errors.NewAssessmentAlreadyCompleteError("x"), http.StatusConflict},
		{"stale round", errors.NewStaleRoundError("x", 1, 2), http.StatusConflict},
		{"incomplete", errors.NewAssessmentIncompleteError("x"), http.StatusConflict},
		{"upstream down", errors.NewUpstreamUnavailableError(assert.AnError), http.StatusBadGateway},
		{"rate limited", errors.NewUpstreamRateLimitedError("slow down"), http.StatusServiceUnavailable},
		{"timeout", errors.NewUpstreamTimeoutError(), http.StatusGatewayTimeout},
		{"malformed", errors.NewUpstreamMalformedError("junk"), http.StatusBadGateway},
		{"parse", errors.NewCategorizationParseError("junk"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{
				SubmitClarificationFunc: func(context.Context, string, int, map[models.TopicKey]string, string) (*service.RoundResult, error) {
					return nil, tt.err
				},
			}
			server := newTestServer(t, svc)

			resp := postJSON(t, server.URL+"/api/assessments/asmt-1/clarifications", map[string]interface{}{
				"round": 1, "answers": map[string]string{"work": "x"},
			})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeBody[map[string]interface{}](t, resp)
			assert.Equal(t, string(errors.CodeOf(tt.err)), body["code"])
		})
	}
}

func TestHandler_GetAssessment(t *testing.T) {
	svc := &mockService{
		GetAssessmentFunc: func(_ context.Context, id string) (*models.Assessment, error) {
			return &models.Assessment{ID: id, State: models.StateComplete}, nil
		},
	}
	server := newTestServer(t, svc)

	resp, err := http.Get(server.URL + "/api/assessments/asmt-9")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	a := decodeBody[models.Assessment](t, resp)
	assert.Equal(t, "asmt-9", a.ID)
}

func TestHandler_GetMatches(t *testing.T) {
	svc := &mockService{
		GetMatchesFunc: func(_ context.Context, id string) (*models.MatchResult, error) {
			return &models.MatchResult{
				AssessmentID: id,
				Ranked: []models.RankedPackage{
					{Package: models.PricingPackage{ID: "pkg-1"}, Score: 0.8},
				},
			}, nil
		},
	}
	server := newTestServer(t, svc)

	resp, err := http.Get(server.URL + "/api/assessments/asmt-1/matches")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeBody[models.MatchResult](t, resp)
	require.Len(t, result.Ranked, 1)
	assert.Equal(t, "pkg-1", result.Ranked[0].Package.ID)
}

func TestRouter_Healthz(t *testing.T) {
	server := newTestServer(t, &mockService{})

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
