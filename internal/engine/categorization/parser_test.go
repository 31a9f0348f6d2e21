package categorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/models"
)

func TestParseTopics_PlainObject(t *testing.T) {
	raw := `{"goal":"permanent relocation","finance":"salaried income","education":""}`

	parsed, err := ParseTopics(raw)
	require.NoError(t, err)

	assert.Equal(t, "permanent relocation", parsed.Values[models.TopicGoal])
	assert.Equal(t, "salaried income", parsed.Values[models.TopicFinance])
	_, hasEducation := parsed.Values[models.TopicEducation]
	assert.False(t, hasEducation, "empty value must stay unresolved")
}

func TestParseTopics_MarkdownFenced(t *testing.T) {
	raw := "```json\n{\"goal\": \"study abroad\", \"housing\": \"rental\"}\n```"

	parsed, err := ParseTopics(raw)
	require.NoError(t, err)
	assert.Equal(t, "study abroad", parsed.Values[models.TopicGoal])
	assert.Equal(t, "rental", parsed.Values[models.TopicHousing])
}

func TestParseTopics_SurroundingProse(t *testing.T) {
	raw := "Here is the categorization you asked for:\n{\"goal\":\"work transfer\"}\nLet me know if you need more."

	parsed, err := ParseTopics(raw)
	require.NoError(t, err)
	assert.Equal(t, "work transfer", parsed.Values[models.TopicGoal])
}

func TestParseTopics_NotApplicableMarkers(t *testing.T) {
	tests := []struct {
		name   string
		marker string
	}{
		{name: "lowercase n/a", marker: "n/a"},
		{name: "uppercase N/A", marker: "N/A"},
		{name: "spelled out", marker: "Not Applicable"},
		{name: "none", marker: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseTopics(`{"education": "` + tt.marker + `"}`)
			require.NoError(t, err)
			assert.True(t, parsed.NotApplicable[models.TopicEducation])
			_, hasValue := parsed.Values[models.TopicEducation]
			assert.False(t, hasValue)
		})
	}
}

func TestParseTopics_ExtraneousAndNonStringKeys(t *testing.T) {
	raw := `{"goal":"retire abroad","confidence":0.9,"summary":"looks fine","tax":42}`

	parsed, err := ParseTopics(raw)
	require.NoError(t, err)

	assert.Equal(t, "retire abroad", parsed.Values[models.TopicGoal])
	assert.Len(t, parsed.Values, 1)
	_, hasTax := parsed.Values[models.TopicTax]
	assert.False(t, hasTax, "non-string topic value must stay unresolved")
}

func TestParseTopics_ParseFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "   \n\t"},
		{name: "prose only", raw: "I could not categorize those answers."},
		{name: "broken json", raw: `{"goal": "relocate`},
		{name: "array not object", raw: `["goal", "finance"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTopics(tt.raw)
			require.Error(t, err)
			assert.Equal(t, stderrors.ErrCodeCategorizationParse, stderrors.CodeOf(err))
		})
	}
}
