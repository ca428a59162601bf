package assess

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mikiheller/reading-comprehension/internal/llm"
	"github.com/mikiheller/reading-comprehension/internal/story"
)

var testQuestion = story.Question{
	Text:           "What do elephants eat?",
	ExpectedAnswer: "plants",
}

const testPassage = "Elephants are big. They eat plants."

func TestAssess_Correct(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"isCorrect":true,"feedback":"Yes! Elephants eat plants. Great reading!"}`),
	})
	a := New(mock, DefaultConfig())

	result, err := a.Assess(context.Background(), testPassage, testQuestion, "they eat plants")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Correct {
		t.Error("expected correct result")
	}
	if result.Feedback == "" {
		t.Error("expected feedback")
	}
}

func TestAssess_Incorrect(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"isCorrect":false,"feedback":"Good try! Look at the second sentence again."}`),
	})
	a := New(mock, DefaultConfig())

	result, err := a.Assess(context.Background(), testPassage, testQuestion, "rocks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Correct {
		t.Error("expected incorrect result")
	}
	if !strings.Contains(result.Feedback, "Good try") {
		t.Errorf("unexpected feedback: %q", result.Feedback)
	}
}

func TestAssess_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"isCorrect":true,"feedback":"Nice!"}`),
	})
	a := New(mock, DefaultConfig())

	if _, err := a.Assess(context.Background(), testPassage, testQuestion, "plants"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := mock.Calls[0]
	if req.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", req.Temperature)
	}
	if req.Schema != ResultSchema {
		t.Error("expected assessment schema on request")
	}
	if !strings.Contains(req.System, "patient and encouraging teacher") {
		t.Errorf("unexpected system prompt: %q", req.System)
	}
	msg := req.Messages[0].Content
	for _, want := range []string{testPassage, testQuestion.Text, testQuestion.ExpectedAnswer, "plants"} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q", want)
		}
	}
}

func TestAssess_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	a := New(mock, DefaultConfig())

	if _, err := a.Assess(context.Background(), testPassage, testQuestion, "plants"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseResult_Malformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `nope`},
		{"missing feedback", `{"isCorrect":true}`},
		{"empty feedback", `{"isCorrect":false,"feedback":""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseResult(json.RawMessage(tc.raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
