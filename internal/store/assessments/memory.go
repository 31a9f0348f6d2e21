package assessments

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/models"
)

// MemoryStore keeps assessments in process memory with the same optimistic
// round semantics as the postgres store. Used in tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.Assessment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.Assessment)}
}

func (s *MemoryStore) Create(_ context.Context, a *models.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[a.ID]; exists {
		return errors.NewDatabaseQueryFailedError(
			&duplicateKeyError{id: a.ID})
	}
	s.records[a.ID] = cloneAssessment(a)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.records[id]
	if !ok {
		return nil, errors.NewAssessmentNotFoundError(id)
	}
	return cloneAssessment(stored), nil
}

func (s *MemoryStore) UpdateRound(_ context.Context, a *models.Assessment, expectedRound int, expectedState models.AssessmentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[a.ID]
	if !ok {
		return errors.NewAssessmentNotFoundError(a.ID)
	}
	if stored.Terminal() {
		return errors.NewAssessmentAlreadyCompleteError(a.ID)
	}
	if stored.CurrentRound != expectedRound || stored.State != expectedState {
		return errors.NewStaleRoundError(a.ID, expectedRound, stored.CurrentRound)
	}

	a.UpdatedAt = time.Now().UTC()
	s.records[a.ID] = cloneAssessment(a)
	return nil
}

// cloneAssessment deep-copies through JSON so callers can never mutate the
// stored record in place.
func cloneAssessment(a *models.Assessment) *models.Assessment {
	data, _ := json.Marshal(a)
	var copy models.Assessment
	_ = json.Unmarshal(data, &copy)
	return &copy
}

type duplicateKeyError struct{ id string }

func (e *duplicateKeyError) Error() string {
	return "assessment already exists: " + e.id
}
