package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voxlate/voxlate/internal/capture"
	"github.com/voxlate/voxlate/internal/catalog"
	"github.com/voxlate/voxlate/internal/config"
)

type httpSynth struct {
	cfg    config.TTSConfig
	client *http.Client
}

type httpRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice,omitempty"`
	Slow     bool   `json:"slow"`
}

// NewHTTPSynth talks to a remote synthesis service that accepts a JSON
// request and replies with a WAV body.
func NewHTTPSynth(cfg config.TTSConfig) Synthesizer {
	return &httpSynth{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
	}
}

func (s *httpSynth) Synthesize(ctx context.Context, text string, lang catalog.Code) (*Audio, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(httpRequest{
		Text:     text,
		Language: string(lang),
		Voice:    s.cfg.Voice,
		Slow:     false,
	})
	if err != nil {
		return nil, &SynthesisError{Detail: "encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &SynthesisError{Detail: "build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &SynthesisError{Detail: "synthesis service unreachable", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SynthesisError{Detail: "read response", Cause: err}
	}
	if resp.StatusCode >= 300 {
		return nil, &SynthesisError{Detail: fmt.Sprintf("status %s: %s", resp.Status, bytes.TrimSpace(body))}
	}

	clip, err := capture.DecodeWAV(body)
	if err != nil {
		return nil, &SynthesisError{Detail: "decode audio payload", Cause: err}
	}
	return &Audio{
		PCM:        clip.PCM,
		SampleRate: clip.SampleRate,
		Channels:   clip.Channels,
		Lang:       lang,
	}, nil
}
