package gemini

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"revisionai/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
)

// responseSchema constrains the model output to a GenerationResult.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"review_sheets": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title": {Type: genai.TypeString},
					"points": {
						Type:  genai.TypeArray,
						Items: &genai.Schema{Type: genai.TypeString},
					},
				},
				Required: []string{"title", "points"},
			},
		},
		"quiz": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {Type: genai.TypeString},
					"options": {
						Type:  genai.TypeArray,
						Items: &genai.Schema{Type: genai.TypeString},
					},
					"correct_answer": {
						Type:        genai.TypeString,
						Description: "Exact text of the correct option",
					},
				},
				Required: []string{"question", "options", "correct_answer"},
			},
		},
	},
	Required: []string{"review_sheets", "quiz"},
}

// resultJSONSchema mirrors responseSchema and adds the cardinality rules the
// parsed payload must satisfy.
const resultJSONSchema = `{
	"type": "object",
	"properties": {
		"review_sheets": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string", "minLength": 1},
					"points": {"type": "array", "minItems": 1, "items": {"type": "string"}}
				},
				"required": ["title", "points"]
			}
		},
		"quiz": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"question": {"type": "string", "minLength": 1},
					"options": {"type": "array", "minItems": 3, "maxItems": 4, "items": {"type": "string"}},
					"correct_answer": {"type": "string"}
				},
				"required": ["question", "options", "correct_answer"]
			}
		}
	},
	"required": ["review_sheets", "quiz"]
}`

var resultSchema = mustCompileSchema(resultJSONSchema)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("gemini: invalid result schema: %v", err))
	}
	return compiled
}

// parseResult validates raw model output and decodes it into a GenerationResult.
func parseResult(raw string) (*models.GenerationResult, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}

	validation, err := resultSchema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON in response: %w", err)
	}
	if !validation.Valid() {
		var problems []string
		for _, e := range validation.Errors() {
			problems = append(problems, e.String())
		}
		return nil, fmt.Errorf("response does not match schema: %s", strings.Join(problems, "; "))
	}

	var result models.GenerationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	for i, item := range result.Quiz {
		if !slices.Contains(item.Options, item.CorrectAnswer) {
			return nil, fmt.Errorf("quiz item %d: correct answer %q is not one of its options", i+1, item.CorrectAnswer)
		}
	}
	return &result, nil
}

// extractJSON strips markdown fences or chatter around the JSON object.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
