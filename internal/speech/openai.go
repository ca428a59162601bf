package speech

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// transcriptionModel is the fixed backend transcription model.
const transcriptionModel = openai.Whisper1

// OpenAIRecognizer transcribes recorded audio clips with the OpenAI
// transcription API. There is no interim stream: each submitted clip
// yields one finalized segment when the backend responds.
type OpenAIRecognizer struct {
	client *openai.Client
}

// NewOpenAIRecognizer creates a clip-based recognizer. An empty API key
// means the capability is unavailable (Supported reports ErrUnsupported).
func NewOpenAIRecognizer(apiKey, baseURL string) *OpenAIRecognizer {
	if apiKey == "" {
		return &OpenAIRecognizer{}
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIRecognizer{client: openai.NewClientWithConfig(cfg)}
}

// Supported reports whether the transcription backend is reachable at all.
func (r *OpenAIRecognizer) Supported() error {
	if r.client == nil {
		return ErrUnsupported
	}
	return nil
}

// Listen opens a clip session. Feed it with Submit; Stop finalizes.
func (r *OpenAIRecognizer) Listen(ctx context.Context) (Stream, error) {
	if err := r.Supported(); err != nil {
		return nil, err
	}
	cs := &ClipStream{
		rec:     r,
		ctx:     ctx,
		results: make(chan Result, 4),
	}
	return cs, nil
}

// ClipStream is a Stream fed with complete audio clips rather than a live
// microphone feed. Each clip transcribes to one finalized segment.
type ClipStream struct {
	rec     *OpenAIRecognizer
	ctx     context.Context
	results chan Result

	mu      sync.Mutex
	stopped bool
}

func (s *ClipStream) Results() <-chan Result {
	return s.results
}

// Submit transcribes one recorded clip (webm container) and emits the text
// as a finalized segment. Blocking; one clip at a time.
func (s *ClipStream) Submit(audio []byte) {
	resp, err := s.rec.client.CreateTranscription(s.ctx, openai.AudioRequest{
		Model:    transcriptionModel,
		FilePath: "audio.webm",
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		s.emit(Result{Err: fmt.Errorf("transcribe clip: %w", err)})
		return
	}
	s.emit(Result{Text: resp.Text, Final: true})
}

// Stop finalizes the session: the results channel closes and the controller
// delivers whatever transcript accumulated.
func (s *ClipStream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.results)
}

// emit sends under the stop mutex so a send never races the channel close.
func (s *ClipStream) emit(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.results <- res
}
