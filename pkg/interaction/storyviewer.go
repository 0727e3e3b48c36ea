package interaction

import "sync"

// Story viewer timing. Progress is polled on a fixed period and each story
// runs for a fixed duration.
const (
	StoryTickMillis     = 100
	StoryDurationMillis = 5000
)

// ViewerState is the story viewer's lifecycle state.
type ViewerState int

const (
	ViewerViewing ViewerState = iota
	ViewerPaused
	ViewerClosed
)

// ViewerStory is one story as the viewer sees it.
type ViewerStory struct {
	ID      string
	TrackID string // non-empty starts the shared player on entry
}

// StoryGroup is one user's run of stories.
type StoryGroup struct {
	UserID  string
	Stories []ViewerStory
}

// Player is the shared playback surface the viewer drives. Entering a story
// with an attached track takes over the player; pausing the story pauses it.
type Player interface {
	Play(trackID string)
	Pause()
}

// StoryViewer is the timer-driven story carousel: progress ticks toward a
// fixed per-story duration, and completion cascades story -> group -> close.
// Pausing freezes progress without stopping the tick source.
type StoryViewer struct {
	mu         sync.Mutex
	groups     []StoryGroup
	groupIndex int
	storyIndex int
	progress   float64 // 0..100
	state      ViewerState
	player     Player
	onClose    func()
}

// NewStoryViewer opens the viewer at the given group. player and onClose may
// be nil.
func NewStoryViewer(groups []StoryGroup, startGroup int, player Player, onClose func()) *StoryViewer {
	v := &StoryViewer{
		groups:     groups,
		groupIndex: startGroup,
		player:     player,
		onClose:    onClose,
	}
	if len(groups) == 0 || startGroup >= len(groups) || len(groups[startGroup].Stories) == 0 {
		v.state = ViewerClosed
		return v
	}
	v.enterStory()
	return v
}

// enterStory starts playback for the current story's track, if any.
// Caller holds the lock or is the constructor.
func (v *StoryViewer) enterStory() {
	story := v.groups[v.groupIndex].Stories[v.storyIndex]
	if story.TrackID != "" && v.player != nil {
		v.player.Play(story.TrackID)
	}
}

// Tick advances progress by one poll period. Ticks during pause are
// swallowed rather than the ticker being stopped.
func (v *StoryViewer) Tick() {
	v.mu.Lock()
	if v.state != ViewerViewing {
		v.mu.Unlock()
		return
	}
	v.progress += float64(StoryTickMillis) / float64(StoryDurationMillis) * 100
	if v.progress < 100 {
		v.mu.Unlock()
		return
	}
	v.advanceLocked()
	v.mu.Unlock()
}

// advanceLocked moves to the next story, cascading to the next group and
// finally to Closed.
func (v *StoryViewer) advanceLocked() {
	v.progress = 0
	group := v.groups[v.groupIndex]
	if v.storyIndex+1 < len(group.Stories) {
		v.storyIndex++
		v.enterStory()
		return
	}
	for g := v.groupIndex + 1; g < len(v.groups); g++ {
		if len(v.groups[g].Stories) == 0 {
			continue
		}
		v.groupIndex = g
		v.storyIndex = 0
		v.enterStory()
		return
	}
	v.closeLocked()
}

// Next skips to the next story immediately.
func (v *StoryViewer) Next() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state == ViewerClosed {
		return
	}
	v.advanceLocked()
}

// Pause freezes progress and pauses the shared player.
func (v *StoryViewer) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != ViewerViewing {
		return
	}
	v.state = ViewerPaused
	if v.player != nil {
		v.player.Pause()
	}
}

// Resume unfreezes progress and restarts the current story's track.
func (v *StoryViewer) Resume() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != ViewerPaused {
		return
	}
	v.state = ViewerViewing
	v.enterStory()
}

// Close closes the viewer and fires onClose once.
func (v *StoryViewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closeLocked()
}

func (v *StoryViewer) closeLocked() {
	if v.state == ViewerClosed {
		return
	}
	v.state = ViewerClosed
	if v.player != nil {
		v.player.Pause()
	}
	if v.onClose != nil {
		v.onClose()
	}
}

// Position reports the current group index, story index and progress percent.
func (v *StoryViewer) Position() (groupIndex, storyIndex int, progress float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.groupIndex, v.storyIndex, v.progress
}

// State reports the viewer's lifecycle state.
func (v *StoryViewer) State() ViewerState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}
