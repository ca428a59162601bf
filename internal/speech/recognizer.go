package speech

import "context"

// Result is one recognition event from the engine.
// Exactly one of Text/Err is meaningful: an engine error rides the same
// channel as transcripts so the controller sees events in order.
type Result struct {
	// Text is the recognized chunk.
	Text string

	// Final marks the chunk as stable. Non-final text is interim: display
	// only, replaced by the next event, never accumulated.
	Final bool

	// Err is an engine error, classified against the package error values.
	Err error
}

// Stream is one live recognition session.
type Stream interface {
	// Results delivers recognition events. The channel closes when the
	// session ends, gracefully or not.
	Results() <-chan Result

	// Stop requests a graceful end. Finalization is asynchronous: the
	// results channel drains and closes afterwards.
	Stop()
}

// Submitter is implemented by streams that are fed one utterance at a
// time instead of reading a live microphone: recorded clips for
// transcription engines, literal text for the typed engine.
type Submitter interface {
	Submit(input []byte)
}

// Recognizer is a speech-recognition engine.
type Recognizer interface {
	// Supported reports whether the engine can run at all. Checked once at
	// startup; ErrUnsupported when the capability is missing.
	Supported() error

	// Listen opens a new recognition session.
	Listen(ctx context.Context) (Stream, error)
}
