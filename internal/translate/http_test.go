package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voxlate/voxlate/internal/config"
)

func TestHTTPTranslatorSuccess(t *testing.T) {
	var gotReq httpRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"translated_text": "नमस्ते", "detected_source": "en"})
	}))
	defer server.Close()

	tr := NewHTTPTranslator(config.TranslateConfig{Endpoint: server.URL, TimeoutMS: 2000})
	got, err := tr.Translate(context.Background(), "hello", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "नमस्ते" {
		t.Fatalf("translation = %q, want %q", got, "नमस्ते")
	}
	if gotReq.Source != "auto" {
		t.Fatalf("source = %q, want auto", gotReq.Source)
	}
	if gotReq.Target != "hi" {
		t.Fatalf("target = %q, want hi", gotReq.Target)
	}
}

func TestHTTPTranslatorIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"translated_text": "hola"})
	}))
	defer server.Close()

	tr := NewHTTPTranslator(config.TranslateConfig{Endpoint: server.URL, TimeoutMS: 2000})
	first, err := tr.Translate(context.Background(), "hello", "es")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := tr.Translate(context.Background(), "hello", "es")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical results, got %q then %q", first, second)
	}
}

func TestHTTPTranslatorServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{"error": "upstream quota exceeded"})
	}))
	defer server.Close()

	tr := NewHTTPTranslator(config.TranslateConfig{Endpoint: server.URL, TimeoutMS: 2000})
	_, err := tr.Translate(context.Background(), "hello", "fr")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	if !strings.Contains(svcErr.Detail, "upstream quota exceeded") {
		t.Fatalf("expected detail preserved, got %q", svcErr.Detail)
	}
}

func TestHTTPTranslatorNeverReturnsEmptySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"translated_text": "  "})
	}))
	defer server.Close()

	tr := NewHTTPTranslator(config.TranslateConfig{Endpoint: server.URL, TimeoutMS: 2000})
	got, err := tr.Translate(context.Background(), "hello", "de")
	if err == nil {
		t.Fatalf("expected error for empty translation, got %q", got)
	}
}

func TestHTTPTranslatorUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	tr := NewHTTPTranslator(config.TranslateConfig{Endpoint: server.URL, TimeoutMS: 500})
	_, err := tr.Translate(context.Background(), "hello", "ja")
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
}
