package playback

import (
	"context"
	"testing"

	"github.com/voxlate/voxlate/internal/tts"
)

func TestDelegatedPlayerRetainsClip(t *testing.T) {
	player := NewDelegatedPlayer()
	if player.Peek() != nil {
		t.Fatal("expected no clip before Play")
	}

	clip := &tts.Audio{PCM: []byte{1, 0, 2, 0}, SampleRate: 22050, Channels: 1, Lang: "hi"}
	if err := player.Play(context.Background(), clip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := player.Peek(); got != clip {
		t.Fatal("expected retained clip")
	}

	// A later clip replaces the retained one.
	next := &tts.Audio{PCM: []byte{3, 0}, SampleRate: 22050, Channels: 1, Lang: "fr"}
	if err := player.Play(context.Background(), next); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := player.Peek(); got != next {
		t.Fatal("expected latest clip retained")
	}
}

func TestDelegatedPlayerRejectsEmptyClip(t *testing.T) {
	player := NewDelegatedPlayer()
	if err := player.Play(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil clip")
	}
	if err := player.Play(context.Background(), &tts.Audio{}); err == nil {
		t.Fatal("expected error for empty clip")
	}
}
