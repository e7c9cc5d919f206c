package tts

import (
	"context"

	"github.com/voxlate/voxlate/internal/catalog"
)

type mockSynth struct {
	sampleRate int
	channels   int
	err        error
}

// NewMockSynth returns a synthesizer producing a short silent clip sized by
// text length, or err when set.
func NewMockSynth(sampleRate, channels int, err error) Synthesizer {
	return &mockSynth{sampleRate: sampleRate, channels: channels, err: err}
}

func (m *mockSynth) Synthesize(_ context.Context, text string, lang catalog.Code) (*Audio, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	// 20ms of silence per character keeps clip length proportional to input.
	samplesPerChar := m.sampleRate / 50 * m.channels
	return &Audio{
		PCM:        make([]byte, len(text)*samplesPerChar*2),
		SampleRate: m.sampleRate,
		Channels:   m.channels,
		Lang:       lang,
	}, nil
}
