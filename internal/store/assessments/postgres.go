package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/models"
)

const (
	insertQuery = `
		INSERT INTO assessments
			(id, answers, profile, current_round, max_rounds, complete,
			 outstanding, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	selectQuery = `
		SELECT id, answers, profile, current_round, max_rounds, complete,
		       outstanding, state, created_at, updated_at
		FROM assessments
		WHERE id = $1`

	updateRoundQuery = `
		UPDATE assessments
		SET profile = $1, current_round = $2, complete = $3,
		    outstanding = $4, state = $5, updated_at = $6
		WHERE id = $7 AND current_round = $8 AND state = $9
		  AND complete = false`

	selectRoundQuery = `
		SELECT current_round, state FROM assessments WHERE id = $1`
)

// PostgresStore persists assessments with jsonb document columns and an
// optimistic round guard on updates.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "assessment-store"}),
	}
}

func (s *PostgresStore) Create(ctx context.Context, a *models.Assessment) error {
	answers, profile, outstanding, err := marshalDocuments(a)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}

	_, err = s.db.ExecContext(ctx, insertQuery,
		a.ID, answers, profile, a.CurrentRound, a.MaxRounds, a.Complete,
		outstanding, string(a.State), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		s.logger.WithError(err).Error("assessment insert failed",
			map[string]interface{}{"assessmentId": a.ID})
		return errors.NewDatabaseQueryFailedError(err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Assessment, error) {
	var (
		a               models.Assessment
		answersJSON     []byte
		profileJSON     []byte
		outstandingJSON []byte
		state           string
	)

	err := s.db.QueryRowContext(ctx, selectQuery, id).Scan(
		&a.ID, &answersJSON, &profileJSON, &a.CurrentRound, &a.MaxRounds,
		&a.Complete, &outstandingJSON, &state, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewAssessmentNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}

	a.State = models.AssessmentState(state)
	if err := json.Unmarshal(answersJSON, &a.Answers); err != nil {
		return nil, errors.NewDatabaseQueryFailedError(fmt.Errorf("assessment %s answers: %w", id, err))
	}
	if len(profileJSON) > 0 && string(profileJSON) != "null" {
		a.Profile = &models.CategorizedProfile{}
		if err := json.Unmarshal(profileJSON, a.Profile); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(fmt.Errorf("assessment %s profile: %w", id, err))
		}
	}
	if len(outstandingJSON) > 0 && string(outstandingJSON) != "null" {
		if err := json.Unmarshal(outstandingJSON, &a.Outstanding); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(fmt.Errorf("assessment %s outstanding: %w", id, err))
		}
	}
	return &a, nil
}

func (s *PostgresStore) UpdateRound(ctx context.Context, a *models.Assessment, expectedRound int, expectedState models.AssessmentState) error {
	_, profile, outstanding, err := marshalDocuments(a)
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}

	a.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, updateRoundQuery,
		profile, a.CurrentRound, a.Complete, outstanding, string(a.State),
		a.UpdatedAt, a.ID, expectedRound, string(expectedState))
	if err != nil {
		s.logger.WithError(err).Error("assessment update failed",
			map[string]interface{}{"assessmentId": a.ID})
		return errors.NewDatabaseQueryFailedError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if affected == 1 {
		return nil
	}

	// Guard did not match: find out whether the row is gone, finished, or
	// just moved past the round the caller read.
	var (
		currentRound int
		state        string
	)
	err = s.db.QueryRowContext(ctx, selectRoundQuery, a.ID).Scan(&currentRound, &state)
	if err == sql.ErrNoRows {
		return errors.NewAssessmentNotFoundError(a.ID)
	}
	if err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	if s := models.AssessmentState(state); s == models.StateComplete || s == models.StateRoundsExhausted {
		return errors.NewAssessmentAlreadyCompleteError(a.ID)
	}
	return errors.NewStaleRoundError(a.ID, expectedRound, currentRound)
}

func marshalDocuments(a *models.Assessment) (answers, profile, outstanding []byte, err error) {
	if answers, err = json.Marshal(a.Answers); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal answers: %w", err)
	}
	if profile, err = json.Marshal(a.Profile); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal profile: %w", err)
	}
	if outstanding, err = json.Marshal(a.Outstanding); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal outstanding: %w", err)
	}
	return answers, profile, outstanding, nil
}
