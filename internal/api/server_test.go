package api

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voxlate/voxlate/internal/capture"
	"github.com/voxlate/voxlate/internal/playback"
	"github.com/voxlate/voxlate/internal/session"
	"github.com/voxlate/voxlate/internal/stt"
	"github.com/voxlate/voxlate/internal/translate"
	"github.com/voxlate/voxlate/internal/tts"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func wavUpload(t *testing.T) []byte {
	t.Helper()
	samples := []int16{0, 5000, -5000, 10000}
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	data, err := capture.EncodeWAV(&capture.Clip{PCM: pcm, SampleRate: 16000, Channels: 1})
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return data
}

func newTestServer(t *testing.T) (*httptest.Server, *capture.UploadSource, *playback.DelegatedPlayer) {
	t.Helper()
	uploads := capture.NewUploadSource()
	delegated := playback.NewDelegatedPlayer()
	pipeline := session.NewPipeline(
		uploads,
		stt.NewMockTranscriber("hello", nil),
		translate.NewMockTranslator(map[string]string{"hello": "नमस्ते"}, nil),
		tts.NewMockSynth(22050, 1, nil),
		delegated, "en-IN", testLogger(),
	)
	handler := NewHandler(pipeline, uploads, delegated, testLogger())
	mux := http.NewServeMux()
	handler.Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, uploads, delegated
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func TestLanguagesEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/languages")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Groups []struct {
			Name      string   `json:"name"`
			Languages []string `json:"languages"`
		} `json:"groups"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Groups) != 5 {
		t.Fatalf("expected 5 groups, got %d", len(out.Groups))
	}
	if out.Groups[0].Name != "Indo-Aryan Languages" {
		t.Fatalf("first group = %q", out.Groups[0].Name)
	}
	if out.Groups[4].Languages[0] != "Arabic" {
		t.Fatalf("expected Arabic in last group, got %v", out.Groups[4].Languages)
	}
}

func TestFullPipelineOverHTTP(t *testing.T) {
	server, _, _ := newTestServer(t)

	// Upload a recorded buffer, then trigger each stage in order.
	resp, err := http.Post(server.URL+"/api/audio", "audio/wav", bytes.NewReader(wavUpload(t)))
	if err != nil {
		t.Fatalf("post audio: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("audio status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/listen", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("listen status = %d", resp.StatusCode)
	}
	if got := decodeBody(t, resp)["recognized_text"]; got != "hello" {
		t.Fatalf("recognized_text = %q", got)
	}

	resp = postJSON(t, server.URL+"/api/translate", map[string]string{
		"group": "Indo-Aryan Languages", "language": "Hindi",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("translate status = %d", resp.StatusCode)
	}
	if got := decodeBody(t, resp)["translated_text"]; got != "नमस्ते" {
		t.Fatalf("translated_text = %q", got)
	}

	resp = postJSON(t, server.URL+"/api/speak", map[string]string{
		"group": "Indo-Aryan Languages", "language": "Hindi",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("speak status = %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["clip_url"] != "/api/speech" {
		t.Fatalf("expected delegated clip url, got %+v", body)
	}

	speech, err := http.Get(server.URL + "/api/speech")
	if err != nil {
		t.Fatalf("get speech: %v", err)
	}
	defer speech.Body.Close()
	if speech.StatusCode != http.StatusOK {
		t.Fatalf("speech status = %d", speech.StatusCode)
	}
	if ct := speech.Header.Get("Content-Type"); ct != "audio/wav" {
		t.Fatalf("content type = %q", ct)
	}
	data, err := io.ReadAll(speech.Body)
	if err != nil {
		t.Fatalf("read speech: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Fatal("expected a WAV asset")
	}
}

func TestTranslateBeforeListenIsConflict(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/translate", map[string]string{
		"group": "Indo-Aryan Languages", "language": "Hindi",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	if warning := decodeBody(t, resp)["warning"]; !strings.Contains(warning, "recognize speech") {
		t.Fatalf("warning = %q", warning)
	}
}

func TestTranslateUnknownSelectionIsBadRequest(t *testing.T) {
	server, uploads, _ := newTestServer(t)

	uploads.Offer(&capture.Clip{PCM: []byte{0, 0}, SampleRate: 16000, Channels: 1})
	resp := postJSON(t, server.URL+"/api/listen", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("listen status = %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/api/translate", map[string]string{
		"group":    "Klingon Languages",
		"language": "Klingon",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for off-catalog selection", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["error"] == "" {
		t.Fatal("expected an error body")
	}
}

func TestListenWithoutUploadIsConflict(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/listen", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestSpeechBeforeSynthesisIs404(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/speech")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAudioRejectsGarbage(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/audio", "audio/wav", strings.NewReader("not audio"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStateEndpoint(t *testing.T) {
	server, uploads, _ := newTestServer(t)

	uploads.Offer(&capture.Clip{PCM: make([]byte, 3200), SampleRate: 16000, Channels: 1})
	postJSON(t, server.URL+"/api/listen", nil).Body.Close()

	resp, err := http.Get(server.URL + "/api/state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var state session.State
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.RecognizedText != "hello" {
		t.Fatalf("recognized = %q", state.RecognizedText)
	}
	if state.TranslatedText != "" {
		t.Fatalf("translated should be empty, got %q", state.TranslatedText)
	}
}
