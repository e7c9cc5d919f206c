// Package tts turns translated text into an audio clip through a pluggable
// synthesis backend. Clips are fully buffered before playback.
package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/voxlate/voxlate/internal/capture"
	"github.com/voxlate/voxlate/internal/catalog"
)

// ErrEmptyText means there is nothing to synthesize. Every backend rejects
// empty or whitespace-only text before touching its service.
var ErrEmptyText = errors.New("tts: no text to synthesize")

func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

// Audio is one synthesized clip plus the language it was synthesized for.
type Audio struct {
	PCM        []byte // interleaved s16le samples
	SampleRate int
	Channels   int
	Lang       catalog.Code
}

// WAV packages the clip as a self-contained playable asset for delegated
// playback.
func (a *Audio) WAV() ([]byte, error) {
	return capture.EncodeWAV(&capture.Clip{
		PCM:        a.PCM,
		SampleRate: a.SampleRate,
		Channels:   a.Channels,
	})
}

// SynthesisError wraps any failure from the synthesis or playback backend.
type SynthesisError struct {
	Detail string
	Cause  error
}

func (e *SynthesisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tts: %s: %v", e.Detail, e.Cause)
	}
	return "tts: " + e.Detail
}

func (e *SynthesisError) Unwrap() error { return e.Cause }

// Synthesizer produces speech for text at normal speed. Implementations
// return ErrEmptyText for empty or whitespace-only input.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang catalog.Code) (*Audio, error)
}
