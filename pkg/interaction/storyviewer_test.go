package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlayer struct {
	played []string
	paused int
}

func (p *recordingPlayer) Play(trackID string) { p.played = append(p.played, trackID) }
func (p *recordingPlayer) Pause()              { p.paused++ }

func twoGroups() []StoryGroup {
	return []StoryGroup{
		{UserID: "a", Stories: []ViewerStory{{ID: "a1"}, {ID: "a2"}}},
		{UserID: "b", Stories: []ViewerStory{{ID: "b1"}}},
	}
}

// ticksPerStory is how many poll periods one story runs for.
const ticksPerStory = StoryDurationMillis / StoryTickMillis

func TestViewerAdvancesAfterFullDuration(t *testing.T) {
	v := NewStoryViewer(twoGroups(), 0, nil, nil)

	for i := 0; i < ticksPerStory-1; i++ {
		v.Tick()
	}
	group, story, progress := v.Position()
	assert.Equal(t, 0, group)
	assert.Equal(t, 0, story)
	assert.InDelta(t, 98.0, progress, 0.001)

	v.Tick()
	group, story, progress = v.Position()
	assert.Equal(t, 0, group)
	assert.Equal(t, 1, story)
	assert.Zero(t, progress)
}

func TestViewerCascadesStoryGroupClose(t *testing.T) {
	closed := 0
	v := NewStoryViewer(twoGroups(), 0, nil, func() { closed++ })

	// a1 -> a2 -> b1 -> closed
	for i := 0; i < 3*ticksPerStory; i++ {
		v.Tick()
	}

	assert.Equal(t, ViewerClosed, v.State())
	assert.Equal(t, 1, closed)

	// Further ticks and closes are inert
	v.Tick()
	v.Close()
	assert.Equal(t, 1, closed)
}

func TestViewerNextSkipsImmediately(t *testing.T) {
	v := NewStoryViewer(twoGroups(), 0, nil, nil)

	v.Next()
	group, story, _ := v.Position()
	assert.Equal(t, 0, group)
	assert.Equal(t, 1, story)

	v.Next()
	group, story, _ = v.Position()
	assert.Equal(t, 1, group)
	assert.Equal(t, 0, story)
}

// Pausing freezes progress but the tick source keeps running; ticks during
// pause are swallowed.
func TestViewerPauseFreezesProgress(t *testing.T) {
	v := NewStoryViewer(twoGroups(), 0, nil, nil)

	for i := 0; i < 10; i++ {
		v.Tick()
	}
	_, _, before := v.Position()

	v.Pause()
	for i := 0; i < ticksPerStory; i++ {
		v.Tick()
	}
	_, _, after := v.Position()
	assert.Equal(t, before, after)
	assert.Equal(t, ViewerPaused, v.State())

	v.Resume()
	v.Tick()
	_, _, resumed := v.Position()
	assert.Greater(t, resumed, before)
}

func TestViewerStartsTrackOnEntry(t *testing.T) {
	player := &recordingPlayer{}
	groups := []StoryGroup{
		{UserID: "a", Stories: []ViewerStory{{ID: "a1", TrackID: "t1"}, {ID: "a2"}}},
		{UserID: "b", Stories: []ViewerStory{{ID: "b1", TrackID: "t2"}}},
	}
	v := NewStoryViewer(groups, 0, player, nil)

	require.Equal(t, []string{"t1"}, player.played)

	v.Next() // a2 has no track, nothing new plays
	assert.Equal(t, []string{"t1"}, player.played)

	v.Next() // b1 starts its track
	assert.Equal(t, []string{"t1", "t2"}, player.played)
}

func TestViewerPausePausesPlayer(t *testing.T) {
	player := &recordingPlayer{}
	groups := []StoryGroup{{UserID: "a", Stories: []ViewerStory{{ID: "a1", TrackID: "t1"}}}}
	v := NewStoryViewer(groups, 0, player, nil)

	v.Pause()
	assert.Equal(t, 1, player.paused)

	v.Resume()
	assert.Equal(t, []string{"t1", "t1"}, player.played)
}

func TestViewerCloseStopsPlayer(t *testing.T) {
	player := &recordingPlayer{}
	groups := []StoryGroup{{UserID: "a", Stories: []ViewerStory{{ID: "a1", TrackID: "t1"}}}}
	v := NewStoryViewer(groups, 0, player, nil)

	v.Close()
	assert.Equal(t, ViewerClosed, v.State())
	assert.Equal(t, 1, player.paused)
}

func TestViewerSkipsEmptyGroups(t *testing.T) {
	groups := []StoryGroup{
		{UserID: "a", Stories: []ViewerStory{{ID: "a1"}}},
		{UserID: "empty"},
		{UserID: "c", Stories: []ViewerStory{{ID: "c1"}}},
	}
	v := NewStoryViewer(groups, 0, nil, nil)

	v.Next()
	group, story, _ := v.Position()
	assert.Equal(t, 2, group)
	assert.Equal(t, 0, story)
}

func TestViewerEmptyGroupsCloseImmediately(t *testing.T) {
	v := NewStoryViewer(nil, 0, nil, nil)
	assert.Equal(t, ViewerClosed, v.State())

	v = NewStoryViewer([]StoryGroup{{UserID: "a"}}, 0, nil, nil)
	assert.Equal(t, ViewerClosed, v.State())
}

func TestPlayerStore(t *testing.T) {
	p := NewPlayerStore()

	trackID, playing := p.Current()
	assert.Empty(t, trackID)
	assert.False(t, playing)

	p.Play("t1")
	trackID, playing = p.Current()
	assert.Equal(t, "t1", trackID)
	assert.True(t, playing)

	// A story track takes over whatever was playing
	p.Play("t2")
	trackID, _ = p.Current()
	assert.Equal(t, "t2", trackID)

	p.Pause()
	trackID, playing = p.Current()
	assert.Equal(t, "t2", trackID)
	assert.False(t, playing)
}
