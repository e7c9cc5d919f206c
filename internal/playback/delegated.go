package playback

import (
	"context"
	"sync"

	"github.com/voxlate/voxlate/internal/tts"
)

// DelegatedPlayer retains the most recent clip for the interactive surface,
// which owns playback timing and transport controls. Play returns
// immediately.
type DelegatedPlayer struct {
	mu   sync.Mutex
	clip *tts.Audio
}

func NewDelegatedPlayer() *DelegatedPlayer {
	return &DelegatedPlayer{}
}

func (d *DelegatedPlayer) Play(_ context.Context, audio *tts.Audio) error {
	if audio == nil || len(audio.PCM) == 0 {
		return &tts.SynthesisError{Detail: "playback: empty clip"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clip = audio
	return nil
}

// Peek returns the retained clip without consuming it, or nil when none is
// pending.
func (d *DelegatedPlayer) Peek() *tts.Audio {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clip
}
