// Package speech manages one live dictation session per question slot,
// accumulating finalized transcript segments and exposing interim text.
package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// SlotCount is the number of question slots tracked independently.
const SlotCount = 2

// Sink receives capture events. Interim text is display-only; the final
// transcript arrives once per session, when it ends.
type Sink interface {
	// OnInterim delivers the live display text: everything finalized so far
	// plus the current unstable chunk.
	OnInterim(slot int, text string)

	// OnFinal fires once after a graceful end with the accumulated
	// space-joined transcript. It may be empty.
	OnFinal(slot int, transcript string)

	// OnError fires for non-ignored engine errors. The slot's session is
	// already cleared when this is called.
	OnError(slot int, err error)

	// OnEnd fires after every session teardown, error or not, so the
	// control affordance can reset to its idle label.
	OnEnd(slot int)
}

// capture is one active per-slot session.
type capture struct {
	stream Stream
	finals []string
	cancel context.CancelFunc
}

// Controller owns the per-slot speech sessions. At most one session per
// slot; both slots may listen concurrently.
type Controller struct {
	rec  Recognizer
	sink Sink

	mu       sync.Mutex
	sessions [SlotCount]*capture
}

// NewController probes the engine once and returns a controller, or
// ErrUnsupported when the platform has no recognition capability.
func NewController(rec Recognizer, sink Sink) (*Controller, error) {
	if err := rec.Supported(); err != nil {
		return nil, err
	}
	return &Controller{rec: rec, sink: sink}, nil
}

// Active reports whether the slot currently has a live session.
func (c *Controller) Active(slot int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[slot] != nil
}

// Toggle starts listening on an idle slot or stops an active one (the
// manual-stop policy: the same control starts and finishes an answer).
// Returns true if a session was started.
func (c *Controller) Toggle(ctx context.Context, slot int) (bool, error) {
	if c.Active(slot) {
		return false, c.Stop(slot)
	}
	return true, c.Start(ctx, slot)
}

// Start begins a session on the slot. Fails with *AlreadyActiveError if the
// slot is already listening.
func (c *Controller) Start(ctx context.Context, slot int) error {
	c.mu.Lock()
	if c.sessions[slot] != nil {
		c.mu.Unlock()
		return &AlreadyActiveError{Slot: slot}
	}

	ctx, cancel := context.WithCancel(ctx)
	stream, err := c.rec.Listen(ctx)
	if err != nil {
		cancel()
		c.mu.Unlock()
		return err
	}

	cap := &capture{stream: stream, cancel: cancel}
	c.sessions[slot] = cap
	c.mu.Unlock()

	go c.pump(slot, cap)
	return nil
}

// Stop requests a graceful end for the slot's session. The final transcript
// is delivered asynchronously through the sink.
func (c *Controller) Stop(slot int) error {
	c.mu.Lock()
	cap := c.sessions[slot]
	c.mu.Unlock()

	if cap == nil {
		return ErrNoActiveSession
	}
	cap.stream.Stop()
	return nil
}

// Submit feeds one utterance to the slot's live session: a recorded clip
// for transcription engines, literal text for the typed engine. Blocking
// for clip engines; the transcription round-trip happens here.
func (c *Controller) Submit(slot int, input []byte) error {
	c.mu.Lock()
	cap := c.sessions[slot]
	c.mu.Unlock()

	if cap == nil {
		return ErrNoActiveSession
	}
	sub, ok := cap.stream.(Submitter)
	if !ok {
		return ErrCannotSubmit
	}
	sub.Submit(input)
	return nil
}

// StopAll stops every active session. Used when a new story begins while a
// slot is still listening.
func (c *Controller) StopAll() {
	for slot := 0; slot < SlotCount; slot++ {
		if err := c.Stop(slot); err != nil && !errors.Is(err, ErrNoActiveSession) {
			// Teardown is best effort here.
			_ = err
		}
	}
}

// pump consumes engine results until the stream closes, then finalizes.
func (c *Controller) pump(slot int, cap *capture) {
	for res := range cap.stream.Results() {
		if res.Err != nil {
			// no-speech and user aborts are not worth surfacing.
			if errors.Is(res.Err, ErrNoSpeech) || errors.Is(res.Err, ErrAborted) {
				continue
			}
			c.clear(slot, cap)
			c.sink.OnError(slot, res.Err)
			c.sink.OnEnd(slot)
			return
		}

		if res.Final {
			if res.Text != "" {
				cap.finals = append(cap.finals, res.Text)
			}
			c.sink.OnInterim(slot, strings.Join(cap.finals, " "))
		} else {
			display := strings.Join(append(append([]string{}, cap.finals...), res.Text), " ")
			c.sink.OnInterim(slot, display)
		}
	}

	// Graceful end: deliver whatever accumulated, possibly nothing.
	transcript := strings.TrimSpace(strings.Join(cap.finals, " "))
	c.clear(slot, cap)
	c.sink.OnFinal(slot, transcript)
	c.sink.OnEnd(slot)
}

func (c *Controller) clear(slot int, cap *capture) {
	cap.cancel()
	c.mu.Lock()
	if c.sessions[slot] == cap {
		c.sessions[slot] = nil
	}
	c.mu.Unlock()
}
