package interaction

import "sync"

// PlayerStore is the shared playback state: current track and whether it is
// playing. Updates are serialized through a single synchronous writer so no
// further locking discipline is needed by callers.
type PlayerStore struct {
	mu      sync.Mutex
	trackID string
	playing bool
}

// NewPlayerStore creates an empty PlayerStore.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{}
}

// Play switches the player to the given track. A story with an attached
// track silently takes over whatever was playing before.
func (p *PlayerStore) Play(trackID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trackID = trackID
	p.playing = true
}

// Pause pauses playback without clearing the current track.
func (p *PlayerStore) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

// Current returns the current track and playing state.
func (p *PlayerStore) Current() (trackID string, playing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trackID, p.playing
}
