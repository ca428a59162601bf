package cmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mikiheller/reading-comprehension/internal/assess"
	"github.com/mikiheller/reading-comprehension/internal/session"
	"github.com/mikiheller/reading-comprehension/internal/speech"
	"github.com/mikiheller/reading-comprehension/internal/story"
)

type stubGenerator struct {
	material *story.Material
	err      error
}

func (g *stubGenerator) Generate(_ context.Context, _ story.Config, _ []string) (*story.Material, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.material, nil
}

// stubAssessor pops canned results in FIFO order.
type stubAssessor struct {
	mu      sync.Mutex
	results []*assess.Result
	calls   int
}

func (a *stubAssessor) Assess(_ context.Context, _ string, _ story.Question, _ string) (*assess.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	if len(a.results) == 0 {
		return nil, fmt.Errorf("no canned result")
	}
	r := a.results[0]
	a.results = a.results[1:]
	return r, nil
}

func (a *stubAssessor) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type stubHistory struct {
	mu     sync.Mutex
	topics []string
}

func (h *stubHistory) Recent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string{}, h.topics...)
}

func (h *stubHistory) Record(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.topics = append(h.topics, topic)
}

func playMaterial() *story.Material {
	return &story.Material{
		Topic:   "elephants",
		Passage: "Elephants are big. They eat plants. They live in herds. Calves stay close.",
		Questions: [story.QuestionCount]story.Question{
			{Text: "What do elephants eat?", ExpectedAnswer: "plants"},
			{Text: "What are baby elephants called?", ExpectedAnswer: "calves"},
		},
	}
}

// newPlayTest wires a terminal session over the real manager, speech
// controller, and typed engine, with scripted stdin.
func newPlayTest(t *testing.T, gen *stubGenerator, asr *stubAssessor, hist *stubHistory, input string) (*playSession, *bytes.Buffer) {
	t.Helper()
	manager, err := session.NewManager(gen, asr, hist, speech.NewTypedRecognizer(), nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	var out bytes.Buffer
	return &playSession{
		manager: manager,
		in:      bufio.NewScanner(strings.NewReader(input)),
		out:     &out,
	}, &out
}

func TestPlay_DrivesFullSession(t *testing.T) {
	gen := &stubGenerator{material: playMaterial()}
	asr := &stubAssessor{results: []*assess.Result{
		{Correct: true, Feedback: "Yes! They eat plants."},
		{Correct: true, Feedback: "Right, calves!"},
	}}
	hist := &stubHistory{}
	p, out := newPlayTest(t, gen, asr, hist, "2nd grade\nshort\nocean animals\nthey eat plants\ncalves\nn\n")

	if err := p.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	s := p.manager.Snapshot()
	if !s.Done[0] || !s.Done[1] {
		t.Fatalf("both questions should be done: %+v", s.Done)
	}
	if !s.CompletionVisible {
		t.Error("completion overlay should have appeared")
	}
	if s.SessionID == "" {
		t.Error("expected a session ID")
	}
	if got := hist.Recent(); len(got) != 1 || got[0] != "elephants" {
		t.Errorf("topic not recorded: %v", got)
	}

	text := out.String()
	for _, want := range []string{
		"Elephants are big",
		"Question 1: What do elephants eat?",
		"✓ Yes! They eat plants.",
		"✓ Right, calves!",
		"Amazing job",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestPlay_IncorrectAnswerRetries(t *testing.T) {
	gen := &stubGenerator{material: playMaterial()}
	asr := &stubAssessor{results: []*assess.Result{
		{Correct: false, Feedback: "Good try! Look at the second sentence."},
		{Correct: true, Feedback: "That's right!"},
		{Correct: true, Feedback: "Yes, calves!"},
	}}
	p, out := newPlayTest(t, gen, asr, &stubHistory{}, "2nd grade\nshort\nocean animals\nrocks\nplants\ncalves\nn\n")

	if err := p.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "✗ Good try!") {
		t.Errorf("output missing the hint: %s", text)
	}
	if !p.manager.Snapshot().Done[0] {
		t.Error("slot 0 should be done after the retry")
	}
	if got := asr.callCount(); got != 3 {
		t.Errorf("expected 3 assessments, got %d", got)
	}
}

func TestPlay_SkippedQuestionNoAssessment(t *testing.T) {
	gen := &stubGenerator{material: playMaterial()}
	asr := &stubAssessor{}
	p, out := newPlayTest(t, gen, asr, &stubHistory{}, "\n\n\n\n\nn\n")

	if err := p.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := asr.callCount(); got != 0 {
		t.Errorf("skipped questions must not be assessed, got %d calls", got)
	}
	text := out.String()
	if !strings.Contains(text, "Skipping this question.") {
		t.Errorf("output missing the skip notice: %s", text)
	}
	if strings.Contains(text, "Amazing job") {
		t.Error("no celebration for a skipped story")
	}
}

func TestPlay_GenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("model unavailable")}
	p, out := newPlayTest(t, gen, &stubAssessor{}, &stubHistory{}, "2nd grade\nshort\nocean animals\nn\n")

	if err := p.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Oops! Something went wrong.") {
		t.Errorf("output missing the child-facing error: %s", out.String())
	}
}
