package gateway

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

// transcribeModel is the fixed backend transcription model identifier.
const transcribeModel = "whisper-1"

// transcribeRequest is the caller's payload: one base64-encoded audio clip.
type transcribeRequest struct {
	Audio string `json:"audio"`
}

// Transcribe decodes the clip, repackages it as a multipart webm upload for
// the backend transcription endpoint, and mirrors the backend's response.
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if h.apiKey == "" {
		Error(w, http.StatusInternalServerError, "API key not configured")
		return
	}

	var payload transcribeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&payload); err != nil {
		Error(w, http.StatusBadRequest, "No audio data provided")
		return
	}
	if payload.Audio == "" {
		Error(w, http.StatusBadRequest, "No audio data provided")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(payload.Audio)
	if err != nil {
		Error(w, http.StatusBadRequest, "Invalid audio data")
		return
	}

	body, contentType, err := buildTranscriptionForm(audio)
	if err != nil {
		h.logger.Error("building transcription form failed", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to transcribe audio")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.upstream+"/audio/transcriptions", body)
	if err != nil {
		Error(w, http.StatusInternalServerError, "Failed to transcribe audio")
		return
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("transcription upstream request failed", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to transcribe audio")
		return
	}
	defer resp.Body.Close()

	h.passthrough(w, resp)
}

// buildTranscriptionForm packages the clip as a webm file part plus the
// fixed model field.
func buildTranscriptionForm(audio []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="audio.webm"`)
	header.Set("Content-Type", "audio/webm")

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", err
	}

	if err := mw.WriteField("model", transcribeModel); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &buf, mw.FormDataContentType(), nil
}
