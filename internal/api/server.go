// Package api exposes the pipeline to the interactive surface over HTTP:
// trigger endpoints for each stage, the language selection data, the session
// state, and the delegated playback asset.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/voxlate/voxlate/internal/capture"
	"github.com/voxlate/voxlate/internal/catalog"
	"github.com/voxlate/voxlate/internal/playback"
	"github.com/voxlate/voxlate/internal/session"
)

type Handler struct {
	pipeline  *session.Pipeline
	uploads   *capture.UploadSource     // nil unless capture.mode=upload
	delegated *playback.DelegatedPlayer // nil unless tts.playback=delegated
	logger    *slog.Logger
}

func NewHandler(pipeline *session.Pipeline, uploads *capture.UploadSource, delegated *playback.DelegatedPlayer, logger *slog.Logger) *Handler {
	return &Handler{
		pipeline:  pipeline,
		uploads:   uploads,
		delegated: delegated,
		logger:    logger.With(slog.String("component", "api")),
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/languages", h.handleLanguages)
	mux.HandleFunc("GET /api/state", h.handleState)
	mux.HandleFunc("POST /api/listen", h.handleListen)
	mux.HandleFunc("POST /api/audio", h.handleAudio)
	mux.HandleFunc("POST /api/translate", h.handleTranslate)
	mux.HandleFunc("POST /api/speak", h.handleSpeak)
	mux.HandleFunc("GET /api/speech", h.handleSpeech)
}

type languageGroup struct {
	Name      string   `json:"name"`
	Languages []string `json:"languages"`
}

func (h *Handler) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	groups := make([]languageGroup, 0, 5)
	for _, name := range catalog.Groups() {
		groups = append(groups, languageGroup{Name: name, Languages: catalog.LanguagesIn(name)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (h *Handler) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.pipeline.Snapshot())
}

func (h *Handler) handleListen(w http.ResponseWriter, r *http.Request) {
	text, err := h.pipeline.Listen(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"recognized_text": text})
}

// handleAudio accepts an encoded WAV buffer from the recorder widget and
// hands it to the upload source for the next listen trigger.
func (h *Handler) handleAudio(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"warning": "capture mode is not upload"})
		return
	}
	// 10MB is plenty for a few seconds of speech.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read audio body: " + err.Error()})
		return
	}
	clip, err := capture.DecodeWAV(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.uploads.Offer(clip)
	writeJSON(w, http.StatusAccepted, map[string]int{"duration_ms": clip.DurationMS()})
}

type selection struct {
	Group    string `json:"group"`
	Language string `json:"language"`
}

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var sel selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "decode request: " + err.Error()})
		return
	}
	translated, err := h.pipeline.Translate(r.Context(), sel.Group, sel.Language)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"translated_text": translated})
}

func (h *Handler) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var sel selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "decode request: " + err.Error()})
		return
	}
	if err := h.pipeline.Speak(r.Context(), sel.Group, sel.Language); err != nil {
		h.writeError(w, err)
		return
	}
	resp := map[string]string{"status": "played"}
	if h.delegated != nil {
		resp["status"] = "ready"
		resp["clip_url"] = "/api/speech"
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSpeech serves the delegated clip as a self-contained playable asset.
func (h *Handler) handleSpeech(w http.ResponseWriter, _ *http.Request) {
	if h.delegated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "playback is not delegated"})
		return
	}
	clip := h.delegated.Peek()
	if clip == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no speech synthesized yet"})
		return
	}
	data, err := clip.WAV()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeError maps pipeline failures to user-visible JSON. Precondition
// warnings and busy re-triggers are conflicts, an off-catalog selection is
// the client's fault, and stage failures are bad gateways since the fault
// lies with a remote collaborator.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case session.IsPrecondition(err), errors.Is(err, session.ErrBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"warning": err.Error()})
	case errors.Is(err, catalog.ErrUnknownSelection):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.logger.Warn("stage failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
