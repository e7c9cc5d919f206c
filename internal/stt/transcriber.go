// Package stt converts captured audio to text through a pluggable
// recognition backend.
package stt

import (
	"context"
	"errors"

	"github.com/voxlate/voxlate/internal/capture"
)

var (
	// ErrUnintelligible means the backend received the audio but could not
	// map it to text.
	ErrUnintelligible = errors.New("stt: could not understand the audio")
	// ErrServiceUnreachable means the recognition backend could not be
	// reached at all.
	ErrServiceUnreachable = errors.New("stt: recognition service unreachable")
)

// Result is the discriminated outcome of one transcription attempt: either
// Text is set and Err is nil, or Err carries the failure.
type Result struct {
	Text       string
	Confidence float64
	Err        error
}

// OK reports whether the result carries recognized text.
func (r Result) OK() bool {
	return r.Err == nil
}

// Transcriber performs a single recognition attempt per call; the caller
// decides whether to re-trigger after a failure.
type Transcriber interface {
	Transcribe(ctx context.Context, clip *capture.Clip, locale string) Result
}
