package questiongen

import (
	"fmt"

	"github.com/hongduc/quiz11/internal/llm"
)

// SchemaName identifies the batch schema.
const SchemaName = "quiz-questions"

// BatchSchema builds the response schema for a batch. The true/false
// labels are part of the option description.
func BatchSchema(trueLabel, falseLabel string) *llm.Schema {
	return &llm.Schema{
		Name:        SchemaName,
		Description: "A batch of quiz questions for one lesson",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":        "array",
					"description": "An array of quiz questions.",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question": map[string]any{
								"type":        "string",
								"description": "The quiz question text.",
							},
							"options": map[string]any{
								"type": "array",
								"description": fmt.Sprintf(
									"Possible answers. Multiple-choice questions have 4 options. True/false questions have exactly [%q, %q].",
									trueLabel, falseLabel),
								"items": map[string]any{"type": "string"},
							},
							"correctAnswer": map[string]any{
								"type":        "string",
								"description": "The correct answer, copied exactly from options.",
							},
							"explanation": map[string]any{
								"type":        "string",
								"description": "A brief, clear explanation of why the correct answer is right.",
							},
						},
						"required":             []any{"question", "options", "correctAnswer", "explanation"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []any{"questions"},
			"additionalProperties": false,
		},
	}
}
