package assess

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mikiheller/reading-comprehension/internal/llm"
	"github.com/mikiheller/reading-comprehension/internal/story"
)

// Result is the graded outcome for one spoken answer.
type Result struct {
	// Correct reports whether the answer showed basic understanding.
	Correct bool

	// Feedback is the child-facing message: praise when correct, a gentle
	// hint when not.
	Feedback string
}

// Assessor grades spoken answers against a passage.
type Assessor interface {
	Assess(ctx context.Context, passage string, q story.Question, spokenAnswer string) (*Result, error)
}

// Config tunes the LLM assessment request.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig matches the request the app has always sent.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   256,
		Temperature: 0.7,
	}
}

// ResultSchema defines the JSON schema for assessment responses.
var ResultSchema = &llm.Schema{
	Name:        "answer-assessment",
	Description: "A lenient grading of a child's spoken comprehension answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"isCorrect": map[string]any{
				"type":        "boolean",
				"description": "True if the answer demonstrates basic understanding of the passage",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Encouraging message for the child, 1-2 sentences",
			},
		},
		"required":             []any{"isCorrect", "feedback"},
		"additionalProperties": false,
	},
}

// LLMAssessor implements Assessor using the LLM provider.
type LLMAssessor struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMAssessor with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMAssessor {
	return &LLMAssessor{provider: provider, config: cfg}
}

// resultOutput is the raw LLM response before validation.
type resultOutput struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
}

// Assess grades a spoken answer. A malformed response is an error, not a
// silent fail or pass.
func (a *LLMAssessor) Assess(ctx context.Context, passage string, q story.Question, spokenAnswer string) (*Result, error) {
	ctx = llm.WithPurpose(ctx, "assessment")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(passage, q, spokenAnswer)},
		},
		Schema:      ResultSchema,
		MaxTokens:   a.config.MaxTokens,
		Temperature: a.config.Temperature,
	}

	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("assessment failed: %w", err)
	}

	return ParseResult(resp.Content)
}

// ParseResult decodes the structured assessment response.
func ParseResult(raw json.RawMessage) (*Result, error) {
	var out resultOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse assessment response: %w", err)
	}
	if out.Feedback == "" {
		return nil, fmt.Errorf("assessment response missing feedback")
	}
	return &Result{
		Correct:  out.IsCorrect,
		Feedback: out.Feedback,
	}, nil
}
