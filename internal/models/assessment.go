package models

import "time"

// AssessmentState tracks where an assessment sits in the clarification loop.
type AssessmentState string

const (
	StateCreated               AssessmentState = "created"
	StateAwaitingClarification AssessmentState = "awaiting_clarification"
	StateComplete              AssessmentState = "complete"
	StateRoundsExhausted       AssessmentState = "rounds_exhausted"
)

// DefaultMaxRounds bounds the clarification loop when the caller does not
// configure a limit.
const DefaultMaxRounds = 3

// RawAnswers holds the six intake responses collected at submission time.
// All fields are required non-empty.
type RawAnswers struct {
	Destination string `json:"destination"`
	Companions  string `json:"companions"`
	Income      string `json:"income"`
	Housing     string `json:"housing"`
	Timing      string `json:"timing"`
	Priority    string `json:"priority"`
}

// Assessment is one intake record moving through the categorization rounds.
type Assessment struct {
	ID           string              `json:"id"`
	Answers      RawAnswers          `json:"answers"`
	Profile      *CategorizedProfile `json:"profile,omitempty"`
	CurrentRound int                 `json:"currentRound"`
	MaxRounds    int                 `json:"maxRounds"`
	Complete     bool                `json:"complete"`
	Outstanding  []TopicKey          `json:"outstanding,omitempty"`
	State        AssessmentState     `json:"state"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// Terminal reports whether no further round submissions are accepted.
func (a *Assessment) Terminal() bool {
	return a.State == StateComplete || a.State == StateRoundsExhausted
}

// IsOutstanding reports whether key is currently awaiting clarification.
func (a *Assessment) IsOutstanding(key TopicKey) bool {
	for _, t := range a.Outstanding {
		if t == key {
			return true
		}
	}
	return false
}

// ClarificationQuestion is the generated follow-up for one outstanding topic.
type ClarificationQuestion struct {
	Topic    TopicKey `json:"topic"`
	Question string   `json:"question"`
}
