package story

import "github.com/mikiheller/reading-comprehension/internal/llm"

// MaterialSchema defines the JSON schema for generation responses.
var MaterialSchema = &llm.Schema{
	Name:        "reading-material",
	Description: "A short reading passage with exactly two comprehension questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "Brief topic name (e.g., 'elephants', 'going to the beach', 'butterflies')",
			},
			"passage": map[string]any{
				"type":        "string",
				"description": "The coherent story, with exactly the requested number of sentences",
			},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "A comprehension question answerable directly from the passage",
						},
						"expectedAnswer": map[string]any{
							"type":        "string",
							"description": "Brief description of what a correct answer should include",
						},
					},
					"required":             []any{"question", "expectedAnswer"},
					"additionalProperties": false,
				},
				"minItems":    QuestionCount,
				"maxItems":    QuestionCount,
				"description": "Exactly two comprehension questions",
			},
		},
		"required":             []any{"topic", "passage", "questions"},
		"additionalProperties": false,
	},
}
