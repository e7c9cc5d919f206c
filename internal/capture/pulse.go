package capture

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"

	"github.com/voxlate/voxlate/internal/config"
)

// Minimum energy treated as speech even on a perfectly quiet channel, so tiny
// electrical noise never counts as an utterance.
const rmsFloor = 500.0

// MicSource records one utterance from a PulseAudio input device. Recording
// stops at speech-followed-by-silence or at the configured timeout.
type MicSource struct {
	cfg    config.CaptureConfig
	logger *slog.Logger
}

func NewMicSource(cfg config.CaptureConfig, logger *slog.Logger) *MicSource {
	return &MicSource{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "mic-source")),
	}
}

func (m *MicSource) Capture(ctx context.Context) (*Clip, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("voxlate"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	defer client.Close()

	source, err := m.resolveSource(client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	rec := newRecorder()
	writer := pulse.NewWriter(writerFunc(rec.onPCM), pulseproto.FormatInt16LE)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(m.cfg.SampleRate),
		pulse.RecordMediaName("voxlate capture"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	// The stream and client are released on every exit path below.
	defer func() {
		rec.stop()
		stream.Stop()
		stream.Close()
	}()

	stream.Start()
	return m.collect(ctx, rec)
}

func (m *MicSource) resolveSource(client *pulse.Client) (*pulse.Source, error) {
	if m.cfg.Device == "" || m.cfg.Device == "default" {
		return client.DefaultSource()
	}
	return client.SourceByID(m.cfg.Device)
}

// collect consumes PCM chunks until it has heard speech followed by enough
// silence, the timeout elapses, or the context is cancelled.
func (m *MicSource) collect(ctx context.Context, rec *recorder) (*Clip, error) {
	var (
		threshold    = rmsFloor
		calibrateEnd = time.Now().Add(time.Duration(m.cfg.CalibrateMS) * time.Millisecond)
		deadline     = time.Now().Add(time.Duration(m.cfg.TimeoutMS) * time.Millisecond)
		silenceHold  = time.Duration(m.cfg.SilenceHoldMS) * time.Millisecond
		calibrating  = m.cfg.Calibrate && m.cfg.CalibrateMS > 0
		ambientPeak  float64
		pcm          []byte
		heardSpeech  bool
		silentSince  time.Time
	)

	timeout := time.NewTimer(time.Until(deadline))
	defer timeout.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout.C:
			if heardSpeech {
				return m.finish(pcm), nil
			}
			return nil, ErrCaptureTimeout
		case chunk, ok := <-rec.chunks:
			if !ok {
				if heardSpeech {
					return m.finish(pcm), nil
				}
				return nil, ErrCaptureTimeout
			}

			energy := rms(chunk)
			if calibrating {
				if energy > ambientPeak {
					ambientPeak = energy
				}
				if time.Now().Before(calibrateEnd) {
					continue
				}
				calibrating = false
				if t := ambientPeak * 2; t > threshold {
					threshold = t
				}
				m.logger.Debug("ambient calibration complete",
					slog.Float64("threshold", threshold))
				continue
			}

			pcm = append(pcm, chunk...)
			if energy >= threshold {
				heardSpeech = true
				silentSince = time.Time{}
				continue
			}
			if !heardSpeech {
				continue
			}
			if silentSince.IsZero() {
				silentSince = time.Now()
			} else if time.Since(silentSince) >= silenceHold {
				return m.finish(pcm), nil
			}
		}
	}
}

func (m *MicSource) finish(pcm []byte) *Clip {
	clip := &Clip{PCM: pcm, SampleRate: m.cfg.SampleRate, Channels: 1}
	m.logger.Info("captured utterance",
		slog.Int("bytes", len(pcm)),
		slog.Int("duration_ms", clip.DurationMS()))
	return clip
}

// recorder buffers PCM callbacks from the Pulse thread into a channel the
// capture loop can select on.
type recorder struct {
	chunks  chan []byte
	stopCh  chan struct{}
	mu      sync.Mutex
	stopped bool
}

func newRecorder() *recorder {
	return &recorder{
		chunks: make(chan []byte, 64),
		stopCh: make(chan struct{}),
	}
}

func (r *recorder) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	close(r.stopCh)
}

func (r *recorder) onPCM(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}
	chunk := make([]byte, len(buffer))
	copy(chunk, buffer)
	select {
	case <-r.stopCh:
		return 0, io.EOF
	case r.chunks <- chunk:
		return len(buffer), nil
	}
}

// rms computes the root-mean-square energy of an s16le buffer.
func rms(pcm []byte) float64 {
	if len(pcm) < 2 {
		return 0
	}
	var sum float64
	n := len(pcm) / 2
	for i := 0; i < n; i++ {
		s := float64(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
		sum += s * s
	}
	return math.Sqrt(sum / float64(n))
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
