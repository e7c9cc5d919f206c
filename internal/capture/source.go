// Package capture obtains raw audio for the recognition stage, either from a
// live microphone or from a buffer uploaded by the interactive surface.
package capture

import (
	"context"
	"errors"
)

// Clip is one captured utterance. It is owned by the in-flight pipeline
// invocation and discarded once transcription completes or fails.
type Clip struct {
	PCM        []byte // interleaved s16le samples
	SampleRate int
	Channels   int
}

// Duration in whole milliseconds of the clip.
func (c *Clip) DurationMS() int {
	if c == nil || c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}
	bytesPerSecond := c.SampleRate * c.Channels * 2
	return len(c.PCM) * 1000 / bytesPerSecond
}

var (
	// ErrCaptureTimeout means the capture window elapsed without any speech.
	ErrCaptureTimeout = errors.New("capture: no speech within timeout")
	// ErrDeviceUnavailable means the input device could not be opened.
	ErrDeviceUnavailable = errors.New("capture: input device unavailable")
)

// Source produces audio clips. Capture returns (nil, nil) when no audio is
// available yet; the upload source uses that as a non-blocking poll.
type Source interface {
	Capture(ctx context.Context) (*Clip, error)
}
