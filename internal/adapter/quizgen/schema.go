package quizgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"academy-ai/internal/domain"
	"academy-ai/internal/util"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// questionListSchemaJSON is the wire contract for structured question
// output. Model responses are validated against it and rejected on any
// shape mismatch; nothing is coerced.
const questionListSchemaJSON = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "properties": {
      "prompt": {"type": "string", "minLength": 1},
      "options": {
        "type": "array",
        "items": {"type": "string", "minLength": 1},
        "minItems": 4,
        "maxItems": 4
      },
      "correct_option_index": {"type": "integer", "minimum": 0, "maximum": 3},
      "explanation": {"type": "string", "minLength": 1},
      "difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]}
    },
    "required": ["prompt", "options", "correct_option_index", "explanation", "difficulty"],
    "additionalProperties": false
  }
}`

// questionOutput is the raw LLM response item before validation.
type questionOutput struct {
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Explanation        string   `json:"explanation"`
	Difficulty         string   `json:"difficulty"`
}

func compileQuestionSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionListSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse question schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("questions.json", doc); err != nil {
		return nil, fmt.Errorf("failed to register question schema: %w", err)
	}
	schema, err := compiler.Compile("questions.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile question schema: %w", err)
	}
	return schema, nil
}

// decodeQuestions validates raw model output against the schema and
// decodes it into domain questions, assigning fresh IDs.
func decodeQuestions(schema *jsonschema.Schema, raw string, category domain.Category) ([]domain.DiagnosticQuestion, error) {
	raw = stripCodeFences(raw)

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(raw)))
	if err != nil {
		return nil, domain.NewSchemaValidationError("model output is not valid JSON", err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, domain.NewSchemaValidationError("model output does not match question schema", err)
	}

	var outputs []questionOutput
	if err := json.Unmarshal([]byte(raw), &outputs); err != nil {
		return nil, domain.NewSchemaValidationError("failed to decode model output", err)
	}

	questions := make([]domain.DiagnosticQuestion, 0, len(outputs))
	for _, out := range outputs {
		q := domain.DiagnosticQuestion{
			ID:                 util.NewULID(),
			Category:           category,
			Difficulty:         out.Difficulty,
			Prompt:             out.Prompt,
			Options:            out.Options,
			CorrectOptionIndex: out.CorrectOptionIndex,
			Explanation:        out.Explanation,
		}
		if err := q.Validate(); err != nil {
			return nil, domain.NewSchemaValidationError("decoded question failed validation", err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// stripCodeFences removes a surrounding markdown code block if the model
// wrapped its JSON in one.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
