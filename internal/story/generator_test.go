package story

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mikiheller/reading-comprehension/internal/llm"
)

func validMaterialJSON() json.RawMessage {
	return json.RawMessage(`{
		"topic": "elephants",
		"passage": "Elephants are big. They eat plants. They live in herds. Baby elephants are called calves.",
		"questions": [
			{"question": "What do elephants eat?", "expectedAnswer": "plants"},
			{"question": "What are baby elephants called?", "expectedAnswer": "calves"}
		]
	}`)
}

func testConfig() Config {
	return Config{GradeLevel: "2nd grade", Length: LengthShort, TopicArea: "animals"}
}

func TestGenerate_HappyPath(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validMaterialJSON()})
	gen := New(mock, DefaultGenConfig())

	m, err := gen.Generate(context.Background(), testConfig(), []string{"dogs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Topic != "elephants" {
		t.Errorf("unexpected topic: %q", m.Topic)
	}
	if m.Questions[0].Text != "What do elephants eat?" {
		t.Errorf("unexpected first question: %q", m.Questions[0].Text)
	}
	if m.Questions[1].ExpectedAnswer != "calves" {
		t.Errorf("unexpected expected answer: %q", m.Questions[1].ExpectedAnswer)
	}
}

func TestGenerate_RequestShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validMaterialJSON()})
	gen := New(mock, DefaultGenConfig())

	if _, err := gen.Generate(context.Background(), testConfig(), []string{"dogs", "cats"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Temperature != 0.8 {
		t.Errorf("expected temperature 0.8, got %v", req.Temperature)
	}
	if req.Schema != MaterialSchema {
		t.Error("expected material schema on request")
	}
	if !strings.Contains(req.System, "2nd grade") {
		t.Errorf("system prompt missing grade level: %q", req.System)
	}
	if !strings.Contains(req.Messages[0].Content, "dogs, cats") {
		t.Error("user message missing recent topics")
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	mock := llm.NewMockProvider()
	gen := New(mock, DefaultGenConfig())

	if _, err := gen.Generate(context.Background(), Config{GradeLevel: "2nd grade", Length: "huge"}, nil); err == nil {
		t.Fatal("expected error for unknown length")
	}
	if mock.CallCount() != 0 {
		t.Error("provider should not be called for invalid config")
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	gen := New(mock, DefaultGenConfig())

	if _, err := gen.Generate(context.Background(), testConfig(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseMaterial_Malformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `not json at all`},
		{"missing passage", `{"topic":"x","questions":[{"question":"a?","expectedAnswer":"b"},{"question":"c?","expectedAnswer":"d"}]}`},
		{"one question", `{"topic":"x","passage":"p","questions":[{"question":"a?","expectedAnswer":"b"}]}`},
		{"three questions", `{"topic":"x","passage":"p","questions":[{"question":"a?"},{"question":"b?"},{"question":"c?"}]}`},
		{"empty question", `{"topic":"x","passage":"p","questions":[{"question":"","expectedAnswer":"b"},{"question":"c?","expectedAnswer":"d"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseMaterial(json.RawMessage(tc.raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLengthSentences(t *testing.T) {
	if LengthShort.Sentences() != 4 || LengthMedium.Sentences() != 6 || LengthLong.Sentences() != 8 {
		t.Error("unexpected sentence counts")
	}
	if Length("epic").Sentences() != 0 {
		t.Error("unknown length should map to 0")
	}
}
