// Package playback delivers synthesized clips to the user, either through
// the local output device or by handing them to the interactive surface.
package playback

import (
	"context"

	"github.com/voxlate/voxlate/internal/tts"
)

// Player consumes one synthesized clip. Local players block until playback
// completes; delegated players return immediately.
type Player interface {
	Play(ctx context.Context, audio *tts.Audio) error
}
