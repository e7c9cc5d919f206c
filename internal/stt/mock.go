package stt

import (
	"context"
	"fmt"

	"github.com/voxlate/voxlate/internal/capture"
)

type mockTranscriber struct {
	text string
	err  error
}

// NewMockTranscriber returns a deterministic transcriber for development and
// tests. With an empty text it echoes the clip length; err, when set, is
// returned as the failure variant.
func NewMockTranscriber(text string, err error) Transcriber {
	return &mockTranscriber{text: text, err: err}
}

func (m *mockTranscriber) Transcribe(_ context.Context, clip *capture.Clip, _ string) Result {
	if m.err != nil {
		return Result{Err: m.err}
	}
	if m.text != "" {
		return Result{Text: m.text, Confidence: 1}
	}
	return Result{Text: fmt.Sprintf("[transcript length=%d]", len(clip.PCM)), Confidence: 1}
}
