package rounds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/models"
)

func createAssessment(round, maxRounds int) *models.Assessment {
	return &models.Assessment{
		ID:           "a-1",
		CurrentRound: round,
		MaxRounds:    maxRounds,
		State:        models.StateCreated,
	}
}

func TestController_ApplyResult_Transitions(t *testing.T) {
	tests := []struct {
		name          string
		round         int
		maxRounds     int
		outstanding   []models.TopicKey
		expectedState models.AssessmentState
		wantComplete  bool
	}{
		{
			name:          "nothing outstanding completes at any round",
			round:         1,
			maxRounds:     3,
			outstanding:   nil,
			expectedState: models.StateComplete,
			wantComplete:  true,
		},
		{
			name:          "outstanding below max awaits clarification",
			round:         1,
			maxRounds:     3,
			outstanding:   []models.TopicKey{models.TopicEducation},
			expectedState: models.StateAwaitingClarification,
			wantComplete:  false,
		},
		{
			name:          "outstanding at max round exhausts",
			round:         3,
			maxRounds:     3,
			outstanding:   []models.TopicKey{models.TopicEducation, models.TopicTax},
			expectedState: models.StateRoundsExhausted,
			wantComplete:  true,
		},
		{
			name:          "max rounds of one is terminal immediately",
			round:         1,
			maxRounds:     1,
			outstanding:   []models.TopicKey{models.TopicEducation},
			expectedState: models.StateRoundsExhausted,
			wantComplete:  true,
		},
		{
			name:          "max rounds of one completes when resolved",
			round:         1,
			maxRounds:     1,
			outstanding:   nil,
			expectedState: models.StateComplete,
			wantComplete:  true,
		},
	}

	controller := NewController()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := createAssessment(tt.round, tt.maxRounds)
			profile := &models.CategorizedProfile{Goal: "relocation"}

			controller.ApplyResult(a, profile, tt.outstanding)

			assert.Equal(t, tt.expectedState, a.State)
			assert.Equal(t, tt.wantComplete, a.Complete)
			assert.Equal(t, profile, a.Profile)
			if tt.expectedState == models.StateComplete {
				assert.Empty(t, a.Outstanding, "complete assessments carry no outstanding topics")
			}
			if tt.expectedState == models.StateRoundsExhausted {
				assert.Equal(t, tt.outstanding, a.Outstanding, "exhausted assessments keep unresolved topics visible")
			}
		})
	}
}

func TestController_CheckAcceptsRound(t *testing.T) {
	controller := NewController()

	t.Run("accepts matching round", func(t *testing.T) {
		a := createAssessment(2, 3)
		a.State = models.StateAwaitingClarification
		require.NoError(t, controller.CheckAcceptsRound(a, 2))
	})

	t.Run("rejects terminal assessment", func(t *testing.T) {
		a := createAssessment(2, 3)
		a.State = models.StateComplete
		a.Complete = true

		err := controller.CheckAcceptsRound(a, 2)
		require.Error(t, err)
		assert.Equal(t, stderrors.ErrCodeAssessmentAlreadyComplete, stderrors.CodeOf(err))
	})

	t.Run("rejects exhausted assessment", func(t *testing.T) {
		a := createAssessment(3, 3)
		a.State = models.StateRoundsExhausted
		a.Complete = true

		err := controller.CheckAcceptsRound(a, 3)
		require.Error(t, err)
		assert.Equal(t, stderrors.ErrCodeAssessmentAlreadyComplete, stderrors.CodeOf(err))
	})

	t.Run("rejects stale round", func(t *testing.T) {
		a := createAssessment(2, 3)
		a.State = models.StateAwaitingClarification

		err := controller.CheckAcceptsRound(a, 1)
		require.Error(t, err)
		assert.Equal(t, stderrors.ErrCodeStaleRound, stderrors.CodeOf(err))
	})
}

func TestController_AdvanceRound_IncrementsByExactlyOne(t *testing.T) {
	controller := NewController()
	a := createAssessment(1, 3)
	a.State = models.StateAwaitingClarification

	controller.AdvanceRound(a)
	assert.Equal(t, 2, a.CurrentRound)

	controller.AdvanceRound(a)
	assert.Equal(t, 3, a.CurrentRound)
}
