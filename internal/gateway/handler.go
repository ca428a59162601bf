// Package gateway is the server-side AI proxy. It forwards chat-completion
// and transcription requests to the backend API, injecting the server-held
// credential so the browser never sees it.
package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// MaxBodyBytes caps request bodies at 10MB, enough for a recorded answer.
const MaxBodyBytes = 10 << 20

// DefaultUpstream is the backend API base URL.
const DefaultUpstream = "https://api.openai.com/v1"

// Handler proxies the two AI operations.
type Handler struct {
	apiKey   string
	upstream string
	client   *http.Client
	logger   *slog.Logger
}

// NewHandler creates a proxy handler. An empty apiKey is allowed at
// construction; requests then fail with a 500 until one is configured.
func NewHandler(apiKey, upstream string, logger *slog.Logger) *Handler {
	if upstream == "" {
		upstream = DefaultUpstream
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		apiKey:   apiKey,
		upstream: upstream,
		client:   &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
	}
}

// Routes returns the /api subrouter. Only POST is served; anything else is
// a JSON 405.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.Post("/chat", h.Chat)
	r.Post("/transcribe", h.Transcribe)
	return r
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
