package gateway

import (
	"bytes"
	"io"
	"net/http"
)

// Chat forwards the request body verbatim as the backend's chat-completion
// request. The backend's status and body pass through unchanged, success or
// not; only transport failures are replaced with a generic 500.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.apiKey == "" {
		Error(w, http.StatusInternalServerError, "API key not configured")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		Error(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.upstream+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		Error(w, http.StatusInternalServerError, "Failed to process request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("chat upstream request failed", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to process request")
		return
	}
	defer resp.Body.Close()

	h.passthrough(w, resp)
}

// passthrough mirrors the upstream status and body to the caller.
func (h *Handler) passthrough(w http.ResponseWriter, resp *http.Response) {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Warn("copying upstream response failed", "error", err)
	}
}
