package categorization

import (
	"fmt"
	"strings"

	"relocation-advisor/internal/models"
)

// buildPrompt assembles the user prompt from the template header, the
// accumulated answers, and the output grammar instructions.
func buildPrompt(in *Input) string {
	var parts []string

	if in.Template.User != "" {
		parts = append(parts, in.Template.User)
	}

	parts = append(parts, "\nIntake Answers:")
	parts = append(parts, fmt.Sprintf("- Destination: %s", in.Answers.Destination))
	parts = append(parts, fmt.Sprintf("- Companions: %s", in.Answers.Companions))
	parts = append(parts, fmt.Sprintf("- Income: %s", in.Answers.Income))
	parts = append(parts, fmt.Sprintf("- Housing: %s", in.Answers.Housing))
	parts = append(parts, fmt.Sprintf("- Timing: %s", in.Answers.Timing))
	parts = append(parts, fmt.Sprintf("- Priority: %s", in.Answers.Priority))

	if in.Profile != nil {
		var resolved []string
		for _, topic := range models.TopicOrder {
			if v := in.Profile.Value(topic); v != "" {
				resolved = append(resolved, fmt.Sprintf("- %s: %s", topic, v))
			}
		}
		if len(resolved) > 0 {
			parts = append(parts, "\nAlready Categorized (keep unless contradicted):")
			parts = append(parts, resolved...)
		}
	}

	if len(in.NewAnswers) > 0 {
		parts = append(parts, "\nClarification Answers (this round):")
		for _, topic := range models.TopicOrder {
			if answer, ok := in.NewAnswers[topic]; ok {
				parts = append(parts, fmt.Sprintf("- %s: %s", topic, answer))
			}
		}
	}

	keys := make([]string, len(models.TopicOrder))
	for i, topic := range models.TopicOrder {
		keys[i] = string(topic)
	}

	parts = append(parts, "\nInstructions:")
	parts = append(parts, fmt.Sprintf("- Respond with a single JSON object whose keys are exactly: %s", strings.Join(keys, ", ")))
	parts = append(parts, `- Use a short category description as each value`)
	parts = append(parts, `- Use "" for a topic you cannot determine from the answers`)
	parts = append(parts, `- Use "n/a" for a topic that does not apply to this person`)
	parts = append(parts, "- Do not add any other keys or text outside the JSON object")

	return strings.Join(parts, "\n")
}
