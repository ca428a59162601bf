package session

import (
	"github.com/mikiheller/reading-comprehension/internal/story"
)

// Phase is the session-level phase.
type Phase int

const (
	// PhaseConfiguring is the initial phase: the reader picks grade level,
	// story length, and topic area.
	PhaseConfiguring Phase = iota

	// PhaseGenerating means a story request is in flight.
	PhaseGenerating

	// PhaseReady means a passage and questions are on screen and the slots
	// accept answers.
	PhaseReady

	// PhaseError means generation failed; the retry affordance restarts it.
	PhaseError
)

// SlotPhase is the per-question phase.
type SlotPhase int

const (
	SlotIdle SlotPhase = iota
	SlotListening
	SlotAssessing
)

// FeedbackStatus reflects the last assessment attempt for a slot.
type FeedbackStatus int

const (
	FeedbackPending FeedbackStatus = iota
	FeedbackCorrect
	FeedbackIncorrect
)

// Feedback is the per-question assessment outcome, overwritten on each
// attempt and never persisted.
type Feedback struct {
	Status  FeedbackStatus
	Message string
}

// State is everything the rendering layer needs to draw the session.
// The Manager owns it exclusively; Snapshot hands out copies.
type State struct {
	// SessionID identifies the current story for staleness checks and logs.
	SessionID string

	// Config is the reader's setup, immutable for the session.
	Config story.Config

	// Phase is the session-level phase.
	Phase Phase

	// Material is the generated passage and questions, nil until PhaseReady.
	Material *story.Material

	// Done tracks which questions were answered correctly. Monotonic within
	// a session: once true, never false again.
	Done [story.QuestionCount]bool

	// Feedback holds the latest assessment outcome per question.
	Feedback [story.QuestionCount]Feedback

	// Slots is the per-question speech/assessment phase.
	Slots [story.QuestionCount]SlotPhase

	// Transcripts is the live display text per question.
	Transcripts [story.QuestionCount]string

	// ErrorMessage is the child-facing message shown in PhaseError.
	ErrorMessage string

	// CompletionVisible is true once both questions are done and the short
	// settle delay elapsed. An overlay, not a terminal state: the mic
	// buttons stay usable.
	CompletionVisible bool
}

// Complete reports whether both questions have been answered correctly.
func (s *State) Complete() bool {
	for _, done := range s.Done {
		if !done {
			return false
		}
	}
	return true
}

// Child-facing messages. Kept as state, not markup, so the rendering layer
// stays a thin shell.
const (
	msgIdlePrompt     = "Click the button and speak your answer!"
	msgListening      = "Listening..."
	msgChecking       = "Checking your answer..."
	msgAssessRetry    = "Oops! Something went wrong. Please try answering again."
	msgGenerateFailed = "Oops! Something went wrong. Please try again."
	msgMicDenied      = "Please allow microphone access in your browser settings and refresh the page."
	msgMicError       = "Sorry, something went wrong. Please try again!"
)
