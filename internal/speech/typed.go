package speech

import (
	"context"
	"strings"
	"sync"
)

// TypedRecognizer turns typed answers into finalized transcript segments.
// It backs surfaces with a keyboard and no microphone, like the terminal
// practice session.
type TypedRecognizer struct{}

// NewTypedRecognizer creates the keyboard engine. Always supported.
func NewTypedRecognizer() *TypedRecognizer {
	return &TypedRecognizer{}
}

func (r *TypedRecognizer) Supported() error {
	return nil
}

// Listen opens a typed session. Feed it with Submit; Stop finalizes.
func (r *TypedRecognizer) Listen(_ context.Context) (Stream, error) {
	return &TypedStream{results: make(chan Result, 4)}, nil
}

// TypedStream emits each submitted line as one finalized segment. There is
// no interim text: a typed answer is stable the moment it is entered.
type TypedStream struct {
	results chan Result

	mu      sync.Mutex
	stopped bool
}

func (s *TypedStream) Results() <-chan Result {
	return s.results
}

// Submit emits the typed input as a finalized segment. Input submitted
// after Stop is dropped.
func (s *TypedStream) Submit(input []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.results <- Result{Text: strings.TrimSpace(string(input)), Final: true}
}

// Stop finalizes the session: the results channel closes and the controller
// delivers whatever was typed.
func (s *TypedStream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.results)
}
