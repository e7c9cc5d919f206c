package playback

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"

	"github.com/voxlate/voxlate/internal/tts"
)

// PulsePlayer plays clips through the default PulseAudio sink, blocking the
// calling flow until the device has drained the clip. The stream's drain is
// an explicit join, not a busy poll.
type PulsePlayer struct {
	logger *slog.Logger
}

func NewPulsePlayer(logger *slog.Logger) *PulsePlayer {
	return &PulsePlayer{logger: logger.With(slog.String("component", "pulse-player"))}
}

func (p *PulsePlayer) Play(ctx context.Context, audio *tts.Audio) error {
	if audio == nil || len(audio.PCM) == 0 {
		return &tts.SynthesisError{Detail: "playback: empty clip"}
	}

	client, err := pulse.NewClient(pulse.ClientApplicationName("voxlate"))
	if err != nil {
		return &tts.SynthesisError{Detail: "playback: connect output device", Cause: err}
	}
	defer client.Close()

	opts := []pulse.PlaybackOption{
		pulse.PlaybackSampleRate(audio.SampleRate),
		pulse.PlaybackMediaName("voxlate speech"),
	}
	if audio.Channels >= 2 {
		opts = append(opts, pulse.PlaybackStereo)
	} else {
		opts = append(opts, pulse.PlaybackMono)
	}

	reader := pulse.NewReader(bytes.NewReader(audio.PCM), pulseproto.FormatInt16LE)
	stream, err := client.NewPlayback(reader, opts...)
	if err != nil {
		return &tts.SynthesisError{Detail: "playback: open stream", Cause: err}
	}
	defer stream.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		stream.Start()
		stream.Drain()
	}()

	select {
	case <-ctx.Done():
		stream.Stop()
		return ctx.Err()
	case <-done:
	}

	if err := stream.Error(); err != nil {
		return &tts.SynthesisError{Detail: "playback: stream error", Cause: err}
	}
	p.logger.Debug("playback complete",
		slog.Int("bytes", len(audio.PCM)),
		slog.String("lang", string(audio.Lang)))
	return nil
}
