package rounds

import (
	"fmt"

	stderrors "relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/models"
)

// questionTexts holds the clarification question generated per topic.
var questionTexts = map[models.TopicKey]string{
	models.TopicGoal:        "What is the main goal of your relocation?",
	models.TopicFinance:     "How will you fund the move and your first months abroad?",
	models.TopicFamily:      "Who is relocating with you, and what are their ages?",
	models.TopicHousing:     "Do you plan to rent or buy, and in what area?",
	models.TopicWork:        "What is your employment situation in the destination country?",
	models.TopicImmigration: "What visa or residence status do you currently hold or expect?",
	models.TopicEducation:   "What schooling or study plans should we account for?",
	models.TopicTax:         "Do you have income, assets, or obligations that need tax planning?",
	models.TopicHealthcare:  "Are there healthcare needs or conditions we should plan around?",
	models.TopicOther:       "Is there anything else about your situation we should know?",
}

// Tracker generates clarification questions for outstanding topics and
// merges the round answers back into the profile.
type Tracker struct{}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Questions returns one question per outstanding topic, in the fixed topic
// declaration order regardless of the order topics became outstanding.
func (t *Tracker) Questions(outstanding []models.TopicKey) []models.ClarificationQuestion {
	pending := make(map[models.TopicKey]bool, len(outstanding))
	for _, topic := range outstanding {
		pending[topic] = true
	}

	var questions []models.ClarificationQuestion
	for _, topic := range models.TopicOrder {
		if !pending[topic] {
			continue
		}
		questions = append(questions, models.ClarificationQuestion{
			Topic:    topic,
			Question: questionTexts[topic],
		})
	}
	return questions
}

// ValidateAnswers rejects answers for topics outside the fixed set or not
// currently outstanding, before any state is touched.
func (t *Tracker) ValidateAnswers(a *models.Assessment, answers map[models.TopicKey]string) error {
	if len(answers) == 0 {
		return stderrors.NewValidationFailedError("no clarification answers supplied")
	}
	for topic, answer := range answers {
		if !models.IsValidTopic(topic) {
			return stderrors.NewUnknownClarificationTopicError(string(topic))
		}
		if !a.IsOutstanding(topic) {
			return stderrors.NewUnknownClarificationTopicError(string(topic))
		}
		if answer == "" {
			return stderrors.NewValidationFailedError(fmt.Sprintf("empty answer for topic %s", topic))
		}
	}
	return nil
}

// MergeAnswers overwrites each answered topic in a copy of the profile. The
// overwrite is whole-topic: a new answer fully replaces the prior value.
func (t *Tracker) MergeAnswers(profile *models.CategorizedProfile, answers map[models.TopicKey]string) *models.CategorizedProfile {
	merged := profile.Clone()
	for _, topic := range models.TopicOrder {
		if answer, ok := answers[topic]; ok {
			merged.SetValue(topic, answer)
		}
	}
	return merged
}
