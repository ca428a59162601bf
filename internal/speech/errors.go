package speech

import (
	"errors"
	"fmt"
)

// ErrUnsupported means no speech-recognition capability is available.
// Surfaced once at controller construction, not per call.
var ErrUnsupported = errors.New("speech recognition is not supported on this platform")

// ErrNoActiveSession means stop was requested with nothing listening.
var ErrNoActiveSession = errors.New("no active speech session")

// ErrPermissionDenied means microphone access was refused. The user has to
// re-grant access; retrying without that will fail again.
var ErrPermissionDenied = errors.New("microphone access denied")

// ErrCannotSubmit means input was submitted to an engine that only reads
// a live microphone.
var ErrCannotSubmit = errors.New("speech engine does not accept submitted input")

// ErrNoSpeech is an engine hiccup meaning nothing was heard yet. The
// controller ignores it and keeps listening.
var ErrNoSpeech = errors.New("no speech detected")

// ErrAborted means the session was ended by the user. Not an error worth
// surfacing.
var ErrAborted = errors.New("recognition aborted")

// AlreadyActiveError means a second session was started on a slot that is
// still listening.
type AlreadyActiveError struct {
	Slot int
}

func (e *AlreadyActiveError) Error() string {
	return fmt.Sprintf("speech session already active for slot %d", e.Slot)
}
