// Package session owns the reading session: it sequences configure →
// generate → listen → assess → feedback and holds all mutable session data.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mikiheller/reading-comprehension/internal/assess"
	"github.com/mikiheller/reading-comprehension/internal/speech"
	"github.com/mikiheller/reading-comprehension/internal/story"
)

// CompletionDelay is how long after the second correct answer the
// completion overlay appears, letting the feedback render first.
const CompletionDelay = time.Second

// TopicHistory is the slice of the topic store the manager needs.
type TopicHistory interface {
	Recent() []string
	Record(topic string)
}

// Manager is the session orchestrator. All state mutation happens under one
// mutex; network calls run outside it and re-enter tagged with the
// generation they belong to, so late responses from an abandoned session
// are discarded.
type Manager struct {
	generator story.Generator
	assessor  assess.Assessor
	topics    TopicHistory
	logger    *slog.Logger

	// schedule defers the completion overlay; injectable for tests.
	schedule func(d time.Duration, f func())

	// completionDelay is CompletionDelay unless a test shortens it.
	completionDelay time.Duration

	mu         sync.Mutex
	state      State
	generation uint64
	speech     *speech.Controller
	onChange   func(State)
}

// NewManager builds the orchestrator and its speech controller. rec may be
// unusable (no capability): that surfaces here, once, as ErrUnsupported.
func NewManager(generator story.Generator, assessor assess.Assessor, topics TopicHistory, rec speech.Recognizer, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		generator:       generator,
		assessor:        assessor,
		topics:          topics,
		logger:          logger,
		schedule:        func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		completionDelay: CompletionDelay,
		state:           State{Phase: PhaseConfiguring},
	}

	ctrl, err := speech.NewController(rec, m)
	if err != nil {
		return nil, err
	}
	m.speech = ctrl

	return m, nil
}

// SetOnChange registers a callback invoked with a state copy after every
// mutation. The rendering layer reacts to these; nothing else should.
func (m *Manager) SetOnChange(fn func(State)) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reconfigure returns to the configuration screen, stopping any live
// speech session. Topic history is untouched.
func (m *Manager) Reconfigure() {
	m.speech.StopAll()

	m.mu.Lock()
	m.generation++
	m.state = State{Phase: PhaseConfiguring}
	m.mu.Unlock()
	m.notify()
}

// StartNewSession validates the config and runs generation. Blocking: run
// it from the caller's event goroutine. On success the session is in
// PhaseReady with a fresh passage and two questions; on failure it is in
// PhaseError with a retry affordance. A stale completion (the user already
// started another session) is silently discarded.
func (m *Manager) StartNewSession(ctx context.Context, cfg story.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// A listening slot from the previous story must not leak into this one.
	m.speech.StopAll()

	m.mu.Lock()
	if m.state.Phase == PhaseGenerating {
		m.mu.Unlock()
		return fmt.Errorf("a story request is already in flight")
	}
	m.generation++
	gen := m.generation
	m.state = State{
		SessionID: uuid.NewString(),
		Config:    cfg,
		Phase:     PhaseGenerating,
	}
	recent := m.topics.Recent()
	m.mu.Unlock()
	m.notify()

	material, err := m.generator.Generate(ctx, cfg, recent)

	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		m.logger.Info("discarding stale generation response", "generation", gen)
		return nil
	}

	if err != nil {
		m.state.Phase = PhaseError
		m.state.ErrorMessage = msgGenerateFailed
		m.mu.Unlock()
		m.notify()
		m.logger.Error("story generation failed", "error", err)
		return err
	}

	m.state.Phase = PhaseReady
	m.state.Material = material
	for i := range m.state.Transcripts {
		m.state.Transcripts[i] = msgIdlePrompt
	}
	m.mu.Unlock()
	m.notify()

	m.topics.Record(material.Topic)
	m.logger.Info("story generated", "topic", material.Topic, "grade", cfg.GradeLevel, "length", cfg.Length)
	return nil
}

// BeginAnswer toggles listening for a question slot: it starts a speech
// session on an idle slot and finishes one that is already listening
// (manual stop). Valid once a story is on screen; completion does not
// block it.
func (m *Manager) BeginAnswer(ctx context.Context, slot int) error {
	if slot < 0 || slot >= story.QuestionCount {
		return fmt.Errorf("invalid question slot %d", slot)
	}

	m.mu.Lock()
	if m.state.Phase != PhaseReady {
		m.mu.Unlock()
		return fmt.Errorf("no story to answer yet")
	}
	if m.state.Slots[slot] == SlotAssessing {
		m.mu.Unlock()
		return fmt.Errorf("answer for question %d is being checked", slot+1)
	}
	m.mu.Unlock()

	started, err := m.speech.Toggle(ctx, slot)
	if err != nil {
		return err
	}
	if started {
		m.mu.Lock()
		m.state.Slots[slot] = SlotListening
		m.state.Transcripts[slot] = msgListening
		m.mu.Unlock()
		m.notify()
	}
	// On a manual stop, finalization arrives via OnFinal.
	return nil
}

// SubmitAnswer feeds one utterance to a listening slot: a recorded clip
// for transcription engines, typed text for the keyboard engine. The
// finalized transcript still arrives through the sink path once the slot
// is stopped via BeginAnswer.
func (m *Manager) SubmitAnswer(slot int, input []byte) error {
	if slot < 0 || slot >= story.QuestionCount {
		return fmt.Errorf("invalid question slot %d", slot)
	}
	return m.speech.Submit(slot, input)
}

// OnInterim implements speech.Sink: live display of the answer so far.
func (m *Manager) OnInterim(slot int, text string) {
	m.mu.Lock()
	if m.state.Slots[slot] != SlotListening {
		m.mu.Unlock()
		return
	}
	m.state.Transcripts[slot] = fmt.Sprintf("You said: %q", text)
	m.mu.Unlock()
	m.notify()
}

// OnFinal implements speech.Sink: the accumulated transcript after a
// graceful end. An empty transcript never triggers an assessment; the slot
// just resets with a retry prompt.
func (m *Manager) OnFinal(slot int, transcript string) {
	m.mu.Lock()
	if m.state.Slots[slot] != SlotListening {
		// Stale finalization from a session that was reset underneath it.
		m.mu.Unlock()
		return
	}

	if transcript == "" {
		m.state.Slots[slot] = SlotIdle
		m.state.Transcripts[slot] = msgIdlePrompt
		m.mu.Unlock()
		m.notify()
		return
	}

	gen := m.generation
	material := m.state.Material
	m.state.Slots[slot] = SlotAssessing
	m.state.Transcripts[slot] = fmt.Sprintf("You said: %q", transcript)
	m.state.Feedback[slot] = Feedback{Status: FeedbackPending, Message: msgChecking}
	m.mu.Unlock()
	m.notify()

	go func() {
		result, err := m.assessor.Assess(context.Background(), material.Passage, material.Questions[slot], transcript)
		m.finishAssessment(slot, gen, result, err)
	}()
}

// OnError implements speech.Sink: a non-ignored capture error. The slot's
// session is already cleared; show a child-appropriate message.
func (m *Manager) OnError(slot int, err error) {
	msg := msgMicError
	if errors.Is(err, speech.ErrPermissionDenied) {
		msg = msgMicDenied
	}

	m.mu.Lock()
	if m.state.Slots[slot] == SlotListening {
		m.state.Slots[slot] = SlotIdle
	}
	m.state.Transcripts[slot] = msg
	m.mu.Unlock()
	m.notify()
	m.logger.Warn("speech capture error", "slot", slot, "error", err)
}

// OnEnd implements speech.Sink: session teardown. The slot label resets if
// nothing else claimed it.
func (m *Manager) OnEnd(slot int) {
	m.mu.Lock()
	if m.state.Slots[slot] == SlotListening {
		m.state.Slots[slot] = SlotIdle
	}
	m.mu.Unlock()
	m.notify()
}

// finishAssessment applies an assessment outcome, unless it is stale.
func (m *Manager) finishAssessment(slot int, gen uint64, result *assess.Result, err error) {
	m.mu.Lock()

	if m.generation != gen || m.state.Slots[slot] != SlotAssessing {
		m.mu.Unlock()
		m.logger.Info("discarding stale assessment response", "slot", slot, "generation", gen)
		return
	}

	m.state.Slots[slot] = SlotIdle

	if err != nil {
		m.state.Feedback[slot] = Feedback{Status: FeedbackIncorrect, Message: msgAssessRetry}
		m.mu.Unlock()
		m.notify()
		m.logger.Error("assessment failed", "slot", slot, "error", err)
		return
	}

	justCompleted := false
	if result.Correct {
		m.state.Feedback[slot] = Feedback{Status: FeedbackCorrect, Message: result.Feedback}
		m.state.Done[slot] = true
		justCompleted = m.state.Complete() && !m.state.CompletionVisible
	} else {
		// Incorrect answers carry a hint and stay re-answerable, without
		// limit. Done flags never revert.
		m.state.Feedback[slot] = Feedback{Status: FeedbackIncorrect, Message: result.Feedback}
	}

	m.mu.Unlock()
	m.notify()

	if justCompleted {
		m.scheduleCompletion(gen)
	}
}

// scheduleCompletion shows the completion overlay after the settle delay.
func (m *Manager) scheduleCompletion(gen uint64) {
	m.schedule(m.completionDelay, func() {
		m.mu.Lock()
		if m.generation != gen {
			m.mu.Unlock()
			return
		}
		m.state.CompletionVisible = true
		m.mu.Unlock()
		m.notify()
	})
}

// notify hands a state copy to the registered listener, outside the lock.
func (m *Manager) notify() {
	m.mu.Lock()
	fn := m.onChange
	snapshot := m.state
	m.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}
