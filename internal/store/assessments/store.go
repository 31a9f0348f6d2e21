// Package assessments persists intake assessments. The round number acts as
// an optimistic concurrency token: an update only lands when the stored row
// still carries the round the caller read.
package assessments

import (
	"context"

	"relocation-advisor/internal/models"
)

// Store is the persistence surface for assessments.
type Store interface {
	// Create inserts a new assessment row.
	Create(ctx context.Context, a *models.Assessment) error

	// Get loads an assessment by id, returning ASSESSMENT_NOT_FOUND when
	// no row exists.
	Get(ctx context.Context, id string) (*models.Assessment, error)

	// UpdateRound persists the outcome of one categorization round. The
	// write only succeeds when the stored row is still at expectedRound in
	// expectedState and not terminal; otherwise STALE_ROUND is returned and
	// the row is left untouched. The state check matters for the intake
	// round, whose result lands without a round change: it keeps a second
	// writer from re-applying round one after the first write moved the
	// record out of the created state.
	UpdateRound(ctx context.Context, a *models.Assessment, expectedRound int, expectedState models.AssessmentState) error
}
