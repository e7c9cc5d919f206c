package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/voxlate/voxlate/internal/capture"
	"github.com/voxlate/voxlate/internal/config"
)

type httpTranscriber struct {
	cfg    config.STTConfig
	client *http.Client
}

type httpResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error"`
}

// NewHTTPTranscriber talks to a remote recognition service that accepts a WAV
// body and replies with JSON.
func NewHTTPTranscriber(cfg config.STTConfig) Transcriber {
	return &httpTranscriber{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
	}
}

func (t *httpTranscriber) Transcribe(ctx context.Context, clip *capture.Clip, locale string) Result {
	wavData, err := capture.EncodeWAV(clip)
	if err != nil {
		return Result{Err: err}
	}

	url := fmt.Sprintf("%s?language=%s", t.cfg.Endpoint, locale)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(wavData))
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("Content-Type", "audio/wav")
	if t.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrServiceUnreachable, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrServiceUnreachable, err)}
	}

	var parsed httpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{Err: fmt.Errorf("decode recognition response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity,
		parsed.Error == "unintelligible":
		return Result{Err: ErrUnintelligible}
	case resp.StatusCode >= 300:
		return Result{Err: fmt.Errorf("recognition service returned status %s: %s", resp.Status, parsed.Error)}
	case strings.TrimSpace(parsed.Text) == "":
		return Result{Err: ErrUnintelligible}
	}
	return Result{Text: parsed.Text, Confidence: parsed.Confidence}
}
