package capture

import (
	"context"
	"sync"
)

// UploadSource accepts pre-encoded buffers from the interactive surface's
// recorder widget. Capture is a non-blocking poll: it returns (nil, nil)
// until the user finishes an interaction and a buffer has been offered.
type UploadSource struct {
	mu      sync.Mutex
	pending *Clip
}

func NewUploadSource() *UploadSource {
	return &UploadSource{}
}

// Offer stores the most recent uploaded clip, replacing any unconsumed one.
func (u *UploadSource) Offer(clip *Clip) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pending = clip
}

func (u *UploadSource) Capture(_ context.Context) (*Clip, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	clip := u.pending
	u.pending = nil
	return clip, nil
}
