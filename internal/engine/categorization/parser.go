package categorization

import (
	"encoding/json"
	"fmt"
	"strings"

	stderrors "relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/models"
)

// ParsedTopics is the structured form of one model response.
type ParsedTopics struct {
	Values        map[models.TopicKey]string
	NotApplicable map[models.TopicKey]bool
}

// notApplicableMarkers are the values the model may use to flag a topic as
// explicitly not relevant. Matched case-insensitively.
var notApplicableMarkers = map[string]bool{
	"n/a":            true,
	"na":             true,
	"not applicable": true,
	"none":           true,
}

// ParseTopics parses the raw model response against the expected grammar: a
// single JSON object keyed by topic. Tolerated deviations: markdown code
// fences around the object, prose before/after it, unknown keys (ignored),
// missing keys (left to the merge step), empty values (unresolved), and the
// not-applicable markers. Anything that does not contain a parseable JSON
// object fails with CATEGORIZATION_PARSE_ERROR.
func ParseTopics(raw string) (*ParsedTopics, error) {
	payload, err := extractObject(raw)
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, stderrors.NewCategorizationParseError(fmt.Sprintf("invalid JSON object: %v", err))
	}

	parsed := &ParsedTopics{
		Values:        make(map[models.TopicKey]string),
		NotApplicable: make(map[models.TopicKey]bool),
	}

	for key, value := range fields {
		topic := models.TopicKey(strings.ToLower(strings.TrimSpace(key)))
		if !models.IsValidTopic(topic) {
			continue // extraneous keys are ignored
		}
		text, ok := value.(string)
		if !ok {
			continue // non-string values leave the topic unresolved
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if notApplicableMarkers[strings.ToLower(text)] {
			parsed.NotApplicable[topic] = true
			continue
		}
		parsed.Values[topic] = text
	}

	return parsed, nil
}

// extractObject locates the JSON object within the response, stripping
// optional markdown fences and surrounding prose.
func extractObject(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", stderrors.NewCategorizationParseError("empty response")
	}

	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", stderrors.NewCategorizationParseError("no JSON object found in response")
	}

	return text[start : end+1], nil
}
