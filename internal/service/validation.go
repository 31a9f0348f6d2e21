package service

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"relocation-advisor/internal/common/errors"
	"relocation-advisor/internal/models"
)

// intakeSchema enforces the six required intake answers. Whitespace-only
// answers are caught separately; JSON Schema minLength alone lets "   "
// through.
var intakeSchema = map[string]interface{}{
	"type": "object",
	"required": []interface{}{
		"destination", "companions", "income", "housing", "timing", "priority",
	},
	"properties": map[string]interface{}{
		"destination": map[string]interface{}{"type": "string", "minLength": 1},
		"companions":  map[string]interface{}{"type": "string", "minLength": 1},
		"income":      map[string]interface{}{"type": "string", "minLength": 1},
		"housing":     map[string]interface{}{"type": "string", "minLength": 1},
		"timing":      map[string]interface{}{"type": "string", "minLength": 1},
		"priority":    map[string]interface{}{"type": "string", "minLength": 1},
	},
	"additionalProperties": false,
}

var compiledIntakeSchema = gojsonschema.NewGoLoader(intakeSchema)

func validateIntake(answers models.RawAnswers) error {
	doc := map[string]interface{}{
		"destination": answers.Destination,
		"companions":  answers.Companions,
		"income":      answers.Income,
		"housing":     answers.Housing,
		"timing":      answers.Timing,
		"priority":    answers.Priority,
	}

	result, err := gojsonschema.Validate(compiledIntakeSchema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.NewValidationFailedError(err.Error())
	}
	if !result.Valid() {
		descs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			descs[i] = desc.String()
		}
		return errors.NewValidationFailedError(strings.Join(descs, "; "))
	}

	for field, value := range doc {
		if strings.TrimSpace(value.(string)) == "" {
			return errors.NewValidationFailedError(field + " must not be blank")
		}
	}
	return nil
}
