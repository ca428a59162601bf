package speech

import (
	"context"
	"errors"
	"testing"
)

func TestTypedStream_SubmitEmitsFinal(t *testing.T) {
	rec := NewTypedRecognizer()
	if err := rec.Supported(); err != nil {
		t.Fatalf("typed engine should always be supported, got %v", err)
	}

	stream, err := rec.Listen(context.Background())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	stream.(Submitter).Submit([]byte("  they eat plants  "))

	res := <-stream.Results()
	if !res.Final {
		t.Fatal("typed input should be final")
	}
	if res.Text != "they eat plants" {
		t.Fatalf("expected trimmed text, got %q", res.Text)
	}

	stream.Stop()
	if _, ok := <-stream.Results(); ok {
		t.Fatal("results channel should be closed after Stop")
	}
}

func TestTypedStream_SubmitAfterStopIsDropped(t *testing.T) {
	stream, err := NewTypedRecognizer().Listen(context.Background())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	stream.Stop()
	stream.Stop()
	stream.(Submitter).Submit([]byte("too late"))

	if _, ok := <-stream.Results(); ok {
		t.Fatal("nothing should arrive after Stop")
	}
}

func TestController_SubmitRoutesToActiveStream(t *testing.T) {
	sink := newRecordingSink()
	c, err := NewController(NewTypedRecognizer(), sink)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	if err := c.Start(context.Background(), 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Submit(0, []byte("the calf drinks milk")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := c.Stop(0); err != nil {
		t.Fatalf("stop: %v", err)
	}
	sink.waitEnd(t)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.finals[0]) != 1 || sink.finals[0][0] != "the calf drinks milk" {
		t.Fatalf("unexpected final transcript: %v", sink.finals[0])
	}
}

func TestController_SubmitWithoutSession(t *testing.T) {
	c, err := NewController(NewTypedRecognizer(), newRecordingSink())
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if err := c.Submit(0, []byte("hello")); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestController_SubmitToMicOnlyEngine(t *testing.T) {
	stream := newScriptStream()
	rec := &scriptRecognizer{streams: []*scriptStream{stream}}
	c := newTestController(t, rec, newRecordingSink())

	if err := c.Start(context.Background(), 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Submit(0, []byte("hello")); !errors.Is(err, ErrCannotSubmit) {
		t.Fatalf("expected ErrCannotSubmit, got %v", err)
	}
}
