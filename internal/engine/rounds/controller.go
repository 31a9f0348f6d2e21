// Package rounds owns the clarification loop: the round-bounded state
// machine and the per-round clarification question tracking.
package rounds

import (
	"time"

	stderrors "relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/common/metrics"
	"relocation-advisor/internal/models"
)

// Controller is the state machine deciding, after each categorization,
// whether an assessment needs another round.
type Controller struct{}

func NewController() *Controller {
	return &Controller{}
}

// CheckAcceptsRound validates that the assessment can take a round
// submission at the caller's expected round. This is the optimistic check:
// the persistence layer enforces the same predicate on write.
func (c *Controller) CheckAcceptsRound(a *models.Assessment, expectedRound int) error {
	if a.Terminal() {
		return stderrors.NewAssessmentAlreadyCompleteError(a.ID)
	}
	if expectedRound != a.CurrentRound {
		return stderrors.NewStaleRoundError(a.ID, expectedRound, a.CurrentRound)
	}
	return nil
}

// ApplyResult folds one categorization result into the assessment and
// resolves the next state:
//
//	outstanding empty                      -> Complete (terminal)
//	outstanding non-empty, round < max     -> AwaitingClarification
//	outstanding non-empty, round == max    -> RoundsExhausted (terminal,
//	                                          unresolved topics accepted)
//
// With max rounds of 1 the very first categorization is therefore terminal.
func (c *Controller) ApplyResult(a *models.Assessment, profile *models.CategorizedProfile, outstanding []models.TopicKey) {
	a.Profile = profile
	a.Outstanding = outstanding
	a.UpdatedAt = time.Now().UTC()

	switch {
	case len(outstanding) == 0:
		a.State = models.StateComplete
		a.Complete = true
		a.Outstanding = nil
	case a.CurrentRound >= a.MaxRounds:
		a.State = models.StateRoundsExhausted
		a.Complete = true
	default:
		a.State = models.StateAwaitingClarification
	}

	metrics.RoundsProcessed.WithLabelValues(string(a.State)).Inc()
}

// AdvanceRound moves an assessment into its next round, by exactly one.
// Called on clarification submission, before the re-categorization runs.
// Never called on terminal assessments; never skips or decrements.
func (c *Controller) AdvanceRound(a *models.Assessment) {
	a.CurrentRound++
	a.UpdatedAt = time.Now().UTC()
}
