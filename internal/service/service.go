// Package service ties the categorization engine, round state machine,
// stores, and matcher into the intake operations the API exposes.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"relocation-advisor/internal/common/config"
	"relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/common/metrics"
	"relocation-advisor/internal/common/observability"
	"relocation-advisor/internal/engine/categorization"
	"relocation-advisor/internal/engine/matching"
	"relocation-advisor/internal/engine/rounds"
	"relocation-advisor/internal/models"
	"relocation-advisor/internal/store/assessments"
	"relocation-advisor/internal/store/catalog"
	"relocation-advisor/internal/store/prompts"
)

// RoundResult is what the caller gets back after any submission: the stored
// assessment plus follow-up questions when another round is expected.
type RoundResult struct {
	Assessment *models.Assessment             `json:"assessment"`
	Questions  []models.ClarificationQuestion `json:"questions,omitempty"`
}

// AdvisorService implements the intake operations.
type AdvisorService struct {
	assessments assessments.Store
	catalog     catalog.Store
	registry    prompts.Registry
	categorizer *categorization.Engine
	matcher     *matching.Engine
	controller  *rounds.Controller
	tracker     *rounds.Tracker
	notifier    Notifier
	obs         *observability.Observability

	templateName string
	maxRounds    int
	roundTimeout time.Duration
	logger       logger.Logger
}

type Deps struct {
	Assessments assessments.Store
	Catalog     catalog.Store
	Registry    prompts.Registry
	Categorizer *categorization.Engine
	Matcher     *matching.Engine
	Notifier    Notifier
	Obs         *observability.Observability
}

func New(deps Deps, cfg config.AssessmentConfig, promptCfg config.PromptsConfig, log logger.Logger) *AdvisorService {
	maxRounds := cfg.MaxRounds
	if maxRounds < 1 {
		maxRounds = models.DefaultMaxRounds
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &AdvisorService{
		assessments:  deps.Assessments,
		catalog:      deps.Catalog,
		registry:     deps.Registry,
		categorizer:  deps.Categorizer,
		matcher:      deps.Matcher,
		controller:   rounds.NewController(),
		tracker:      rounds.NewTracker(),
		notifier:     notifier,
		obs:          deps.Obs,
		templateName: promptCfg.CategorizationTemplate,
		maxRounds:    maxRounds,
		roundTimeout: time.Duration(cfg.RoundTimeout) * time.Millisecond,
		logger:       log.WithFields(map[string]interface{}{"component": "advisor-service"}),
	}
}

// SubmitIntake validates the six answers, creates the assessment at round
// one, and runs the first categorization. When that round fails upstream the
// record stays at round one in the created state, and the assessment is
// returned alongside the error so the caller has the id to point
// RetryCategorization at.
func (s *AdvisorService) SubmitIntake(ctx context.Context, answers models.RawAnswers, contactEmail string) (*RoundResult, error) {
	if err := validateIntake(answers); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &models.Assessment{
		ID:           uuid.New().String(),
		Answers:      answers,
		CurrentRound: 1,
		MaxRounds:    s.maxRounds,
		State:        models.StateCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.assessments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("assessment created", map[string]interface{}{
		"assessmentId": a.ID,
		"maxRounds":    a.MaxRounds,
	})

	result, err := s.runRound(ctx, a, nil, contactEmail, a.CurrentRound, a.State)
	if err != nil {
		return &RoundResult{Assessment: a}, err
	}
	return result, nil
}

// SubmitClarification folds one round of clarification answers in and
// re-categorizes. expectedRound is the round number the caller last saw.
func (s *AdvisorService) SubmitClarification(ctx context.Context, id string, expectedRound int, answers map[models.TopicKey]string, contactEmail string) (*RoundResult, error) {
	a, err := s.assessments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.controller.CheckAcceptsRound(a, expectedRound); err != nil {
		return nil, err
	}
	if err := s.tracker.ValidateAnswers(a, answers); err != nil {
		return nil, err
	}

	expectedState := a.State
	a.Profile = s.tracker.MergeAnswers(a.Profile, answers)
	s.controller.AdvanceRound(a)
	return s.runRound(ctx, a, answers, contactEmail, expectedRound, expectedState)
}

// RetryCategorization re-runs the pending round without new answers, for
// assessments stuck after an upstream failure.
func (s *AdvisorService) RetryCategorization(ctx context.Context, id string, expectedRound int, contactEmail string) (*RoundResult, error) {
	a, err := s.assessments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.controller.CheckAcceptsRound(a, expectedRound); err != nil {
		return nil, err
	}
	return s.runRound(ctx, a, nil, contactEmail, a.CurrentRound, a.State)
}

// runRound performs one categorization round against the current profile and
// persists the outcome under the optimistic (round, state) guard the caller
// captured before mutating the assessment. Nothing is written when the
// gateway call or parsing fails, so the stored record keeps the round the
// caller can retry against.
func (s *AdvisorService) runRound(ctx context.Context, a *models.Assessment, newAnswers map[models.TopicKey]string, contactEmail string, expectedRound int, expectedState models.AssessmentState) (*RoundResult, error) {
	template, err := s.registry.Lookup(s.templateName)
	if err != nil {
		return nil, err
	}

	roundStart := time.Now()
	roundCtx := ctx
	if s.roundTimeout > 0 {
		var cancel context.CancelFunc
		roundCtx, cancel = context.WithTimeout(ctx, s.roundTimeout)
		defer cancel()
	}
	result, err := s.categorizer.Categorize(roundCtx, &categorization.Input{
		Answers:    a.Answers,
		Profile:    a.Profile,
		NewAnswers: newAnswers,
		Template:   *template,
	})
	if err != nil {
		metrics.RoundFailures.WithLabelValues(string(errors.CodeOf(err))).Inc()
		s.logger.WithError(err).Error("categorization round failed", map[string]interface{}{
			"assessmentId": a.ID,
			"round":        a.CurrentRound,
			"errorCode":    string(errors.CodeOf(err)),
		})
		return nil, err
	}

	s.controller.ApplyResult(a, result.Profile, result.Outstanding)

	if err := s.assessments.UpdateRound(ctx, a, expectedRound, expectedState); err != nil {
		return nil, err
	}

	if s.obs != nil {
		s.obs.RecordRoundProcessed(ctx, string(a.State))
		s.obs.RecordRoundDuration(ctx, time.Since(roundStart), string(a.State))
	}

	s.logger.Info("round persisted", map[string]interface{}{
		"assessmentId": a.ID,
		"round":        a.CurrentRound,
		"state":        string(a.State),
		"outstanding":  len(a.Outstanding),
	})

	if a.Terminal() {
		if err := s.notifier.AssessmentFinished(ctx, a, contactEmail); err != nil {
			s.logger.WithError(err).Warn("completion notification failed",
				map[string]interface{}{"assessmentId": a.ID})
		}
	}

	out := &RoundResult{Assessment: a}
	if a.State == models.StateAwaitingClarification {
		out.Questions = s.tracker.Questions(a.Outstanding)
	}
	return out, nil
}

// GetAssessment returns the stored assessment.
func (s *AdvisorService) GetAssessment(ctx context.Context, id string) (*models.Assessment, error) {
	return s.assessments.Get(ctx, id)
}

// GetMatches ranks the active catalog against a terminal assessment.
func (s *AdvisorService) GetMatches(ctx context.Context, id string) (*models.MatchResult, error) {
	a, err := s.assessments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Terminal() {
		return nil, errors.NewAssessmentIncompleteError(id)
	}

	packages, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.matcher.Rank(a, packages), nil
}
