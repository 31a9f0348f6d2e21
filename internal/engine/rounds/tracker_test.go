package rounds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/models"
)

func TestTracker_Questions_FixedOrder(t *testing.T) {
	tracker := NewTracker()

	// Insertion order deliberately scrambled; output must follow the
	// canonical topic declaration order.
	outstanding := []models.TopicKey{
		models.TopicTax,
		models.TopicGoal,
		models.TopicEducation,
	}

	questions := tracker.Questions(outstanding)
	require.Len(t, questions, 3)
	assert.Equal(t, models.TopicGoal, questions[0].Topic)
	assert.Equal(t, models.TopicEducation, questions[1].Topic)
	assert.Equal(t, models.TopicTax, questions[2].Topic)

	for _, q := range questions {
		assert.NotEmpty(t, q.Question)
	}
}

func TestTracker_Questions_Empty(t *testing.T) {
	tracker := NewTracker()
	assert.Empty(t, tracker.Questions(nil))
}

func TestTracker_EveryTopicHasQuestionText(t *testing.T) {
	tracker := NewTracker()
	questions := tracker.Questions(models.TopicOrder)
	require.Len(t, questions, len(models.TopicOrder))
	for i, q := range questions {
		assert.Equal(t, models.TopicOrder[i], q.Topic)
		assert.NotEmpty(t, q.Question)
	}
}

func TestTracker_ValidateAnswers(t *testing.T) {
	tracker := NewTracker()
	a := &models.Assessment{
		ID:          "a-1",
		Outstanding: []models.TopicKey{models.TopicEducation, models.TopicTax},
	}

	t.Run("accepts outstanding topics", func(t *testing.T) {
		err := tracker.ValidateAnswers(a, map[models.TopicKey]string{
			models.TopicEducation: "two kids in primary school",
		})
		require.NoError(t, err)
	})

	t.Run("rejects topic outside the fixed set", func(t *testing.T) {
		err := tracker.ValidateAnswers(a, map[models.TopicKey]string{
			models.TopicKey("pets"): "one dog",
		})
		require.Error(t, err)
		assert.Equal(t, stderrors.ErrCodeUnknownClarificationTopic, stderrors.CodeOf(err))
	})

	t.Run("rejects known topic that is not outstanding", func(t *testing.T) {
		err := tracker.ValidateAnswers(a, map[models.TopicKey]string{
			models.TopicGoal: "permanent move",
		})
		require.Error(t, err)
		assert.Equal(t, stderrors.ErrCodeUnknownClarificationTopic, stderrors.CodeOf(err))
	})

	t.Run("rejects empty answer set", func(t *testing.T) {
		err := tracker.ValidateAnswers(a, nil)
		require.Error(t, err)
		assert.Equal(t, stderrors.ErrCodeValidationFailed, stderrors.CodeOf(err))
	})

	t.Run("rejects empty answer text", func(t *testing.T) {
		err := tracker.ValidateAnswers(a, map[models.TopicKey]string{
			models.TopicEducation: "",
		})
		require.Error(t, err)
		assert.Equal(t, stderrors.ErrCodeValidationFailed, stderrors.CodeOf(err))
	})
}

func TestTracker_MergeAnswers_OverwritesWholeTopic(t *testing.T) {
	tracker := NewTracker()
	profile := &models.CategorizedProfile{
		Goal:      "family relocation",
		Education: "unspecified schooling",
	}

	merged := tracker.MergeAnswers(profile, map[models.TopicKey]string{
		models.TopicEducation: "bilingual primary school",
	})

	assert.Equal(t, "bilingual primary school", merged.Education)
	assert.Equal(t, "family relocation", merged.Goal)

	// Source profile untouched.
	assert.Equal(t, "unspecified schooling", profile.Education)
}
