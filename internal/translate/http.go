package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/voxlate/voxlate/internal/catalog"
	"github.com/voxlate/voxlate/internal/config"
)

type httpTranslator struct {
	cfg    config.TranslateConfig
	client *http.Client
}

type httpRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type httpResponse struct {
	TranslatedText string `json:"translated_text"`
	DetectedSource string `json:"detected_source"`
	Error          string `json:"error"`
}

// NewHTTPTranslator talks to a remote translation service with a JSON
// request/response contract. The source language is fixed to auto-detect.
func NewHTTPTranslator(cfg config.TranslateConfig) Translator {
	return &httpTranslator{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
	}
}

func (t *httpTranslator) Translate(ctx context.Context, text string, dest catalog.Code) (string, error) {
	payload, err := json.Marshal(httpRequest{Text: text, Source: "auto", Target: string(dest)})
	if err != nil {
		return "", &ServiceError{Detail: "encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &ServiceError{Detail: "build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if t.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", &ServiceError{Detail: "translation service unreachable", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{Detail: "read response", Cause: err}
	}

	var parsed httpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ServiceError{Detail: "decode response", Cause: err}
	}
	if resp.StatusCode >= 300 {
		detail := parsed.Error
		if detail == "" {
			detail = fmt.Sprintf("status %s", resp.Status)
		}
		return "", &ServiceError{Detail: detail}
	}
	if strings.TrimSpace(parsed.TranslatedText) == "" {
		return "", &ServiceError{Detail: "empty translation in response"}
	}
	return parsed.TranslatedText, nil
}
