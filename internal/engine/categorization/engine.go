// Package categorization turns raw intake and clarification answers into a
// structured topic profile via one language-model call per round.
package categorization

import (
	"context"

	stderrors "relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/common/metrics"
	"relocation-advisor/internal/engine/gateway"
	"relocation-advisor/internal/models"
)

// Input is one categorization round. For round 1, NewAnswers is nil and the
// six intake answers drive the prompt; for later rounds NewAnswers carries
// the clarification answers only.
type Input struct {
	Answers    models.RawAnswers
	Profile    *models.CategorizedProfile
	NewAnswers map[models.TopicKey]string
	Template   models.PromptTemplate
}

// Result is the merged profile plus what still needs clarification.
type Result struct {
	Profile     *models.CategorizedProfile
	Outstanding []models.TopicKey
}

type Engine struct {
	gen    gateway.Generator
	logger logger.Logger
}

func NewEngine(gen gateway.Generator, log logger.Logger) *Engine {
	return &Engine{
		gen:    gen,
		logger: log.WithFields(map[string]interface{}{"component": "categorization"}),
	}
}

// Categorize runs one round: build the prompt, call the gateway, parse, and
// merge. A response that fails to parse triggers exactly one gateway retry
// with identical inputs; a second failure is surfaced to the caller with
// state untouched.
func (e *Engine) Categorize(ctx context.Context, in *Input) (*Result, error) {
	req := &gateway.GenerateRequest{
		System:      in.Template.System,
		Prompt:      buildPrompt(in),
		Temperature: in.Template.Temperature,
		MaxTokens:   in.Template.MaxTokens,
	}

	parsed, err := e.generateAndParse(ctx, req)
	if err != nil {
		if !stderrors.IsCode(err, stderrors.ErrCodeCategorizationParse) {
			return nil, err
		}
		e.logger.Warn("unparseable model response, retrying once", map[string]interface{}{
			"error": err.Error(),
		})
		parsed, err = e.generateAndParse(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	merged := e.merge(in.Profile, parsed)
	outstanding := merged.Outstanding()
	metrics.OutstandingTopics.Observe(float64(len(outstanding)))

	e.logger.Info("round categorized", map[string]interface{}{
		"resolvedTopics":    len(parsed.Values),
		"notApplicable":     len(parsed.NotApplicable),
		"outstandingTopics": len(outstanding),
	})

	return &Result{Profile: merged, Outstanding: outstanding}, nil
}

func (e *Engine) generateAndParse(ctx context.Context, req *gateway.GenerateRequest) (*ParsedTopics, error) {
	raw, err := e.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseTopics(raw)
}

// merge folds parsed topics into a copy of the prior profile. A previously
// resolved topic is only ever overwritten with newer non-empty information,
// never cleared.
func (e *Engine) merge(prior *models.CategorizedProfile, parsed *ParsedTopics) *models.CategorizedProfile {
	merged := prior.Clone()
	for _, topic := range models.TopicOrder {
		if value, ok := parsed.Values[topic]; ok {
			merged.SetValue(topic, value)
			continue
		}
		if parsed.NotApplicable[topic] && merged.Value(topic) == "" {
			merged.MarkNotApplicable(topic)
		}
	}
	return merged
}
