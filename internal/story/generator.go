package story

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mikiheller/reading-comprehension/internal/llm"
)

// Generator produces reading material using an LLM provider.
type Generator interface {
	// Generate produces a passage with exactly two questions for the given
	// config, avoiding the listed recent topics. A malformed response is an
	// error, never a partial Material.
	Generate(ctx context.Context, cfg Config, recentTopics []string) (*Material, error)
}

// GenConfig tunes the LLM generation request.
type GenConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGenConfig matches the request the app has always sent.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		MaxTokens:   1024,
		Temperature: 0.8,
	}
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   GenConfig
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg GenConfig) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// materialOutput is the raw LLM response before validation.
type materialOutput struct {
	Topic     string `json:"topic"`
	Passage   string `json:"passage"`
	Questions []struct {
		Question       string `json:"question"`
		ExpectedAnswer string `json:"expectedAnswer"`
	} `json:"questions"`
}

// Generate produces reading material for the given session config.
func (g *LLMGenerator) Generate(ctx context.Context, cfg Config, recentTopics []string) (*Material, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, "story-gen")

	req := llm.Request{
		System: systemPrompt(cfg.GradeLevel),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(cfg, recentTopics)},
		},
		Schema:      MaterialSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("story generation failed: %w", err)
	}

	return ParseMaterial(resp.Content)
}

// ParseMaterial decodes the structured generation response. Missing fields
// or a question count other than two are treated as generation failures.
func ParseMaterial(raw json.RawMessage) (*Material, error) {
	var out materialOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse generation response: %w", err)
	}

	if out.Passage == "" {
		return nil, fmt.Errorf("generation response missing passage")
	}
	if len(out.Questions) != QuestionCount {
		return nil, fmt.Errorf("generation response has %d questions, want %d", len(out.Questions), QuestionCount)
	}

	m := &Material{
		Topic:   out.Topic,
		Passage: out.Passage,
	}
	for i, q := range out.Questions {
		if q.Question == "" {
			return nil, fmt.Errorf("generation response question %d is empty", i+1)
		}
		m.Questions[i] = Question{
			Text:           q.Question,
			ExpectedAnswer: q.ExpectedAnswer,
		}
	}

	return m, nil
}
