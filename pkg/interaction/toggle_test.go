package interaction

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memToggleStore is an in-memory join table keyed by user+target.
type memToggleStore struct {
	mu        sync.Mutex
	rows      map[string]bool
	existsErr error
	insertErr error
	deleteErr error

	// gate, when set, blocks Insert until released to simulate an in-flight
	// mutation.
	gate chan struct{}
}

func newMemToggleStore() *memToggleStore {
	return &memToggleStore{rows: make(map[string]bool)}
}

func (s *memToggleStore) key(userID, targetID string) string {
	return userID + "/" + targetID
}

func (s *memToggleStore) Exists(_ context.Context, _, _, _, userID, targetID string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[s.key(userID, targetID)], nil
}

func (s *memToggleStore) Insert(_ context.Context, _, _, _, userID, targetID string) error {
	if s.gate != nil {
		<-s.gate
	}
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[s.key(userID, targetID)] = true
	return nil
}

func (s *memToggleStore) Delete(_ context.Context, _, _, _, userID, targetID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, s.key(userID, targetID))
	return nil
}

func followConfig(targetID string) ToggleConfig {
	return ToggleConfig{
		Table:          "follows",
		UserIDColumn:   "follower_id",
		TargetIDColumn: "following_id",
		TargetID:       targetID,
	}
}

func TestToggleRoundTrip(t *testing.T) {
	store := newMemToggleStore()
	toggle := NewToggle(store, followConfig("42"), "7")

	toggle.Load(context.Background())
	assert.False(t, toggle.IsActive())

	require.True(t, toggle.Toggle(context.Background()))
	assert.True(t, toggle.IsActive())
	exists, err := store.Exists(context.Background(), "", "", "", "7", "42")
	require.NoError(t, err)
	assert.True(t, exists)

	require.True(t, toggle.Toggle(context.Background()))
	assert.False(t, toggle.IsActive())
	exists, err = store.Exists(context.Background(), "", "", "", "7", "42")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestToggleLoadsExistingRow(t *testing.T) {
	store := newMemToggleStore()
	require.NoError(t, store.Insert(context.Background(), "", "", "", "7", "42"))

	toggle := NewToggle(store, followConfig("42"), "7")
	toggle.Load(context.Background())
	assert.True(t, toggle.IsActive())
}

func TestToggleLoadErrorDefaultsInactive(t *testing.T) {
	store := newMemToggleStore()
	store.existsErr = errors.New("connection reset")

	toggle := NewToggle(store, followConfig("42"), "7")
	toggle.Load(context.Background())
	assert.False(t, toggle.IsActive())
}

func TestToggleUnauthenticatedIsNoop(t *testing.T) {
	store := newMemToggleStore()
	toggle := NewToggle(store, followConfig("42"), "")

	assert.False(t, toggle.Toggle(context.Background()))
	assert.False(t, toggle.IsActive())
	assert.Empty(t, store.rows)
}

func TestToggleWhileInFlightIsNoop(t *testing.T) {
	store := newMemToggleStore()
	store.gate = make(chan struct{})
	toggle := NewToggle(store, followConfig("42"), "7")

	done := make(chan bool)
	go func() {
		done <- toggle.Toggle(context.Background())
	}()

	// Wait for the first mutation to be in flight
	for !toggle.Loading() {
		runtime.Gosched()
	}

	assert.False(t, toggle.Toggle(context.Background()))

	close(store.gate)
	assert.True(t, <-done)
	assert.True(t, toggle.IsActive())
}

func TestToggleMutationErrorKeepsState(t *testing.T) {
	store := newMemToggleStore()
	store.insertErr = errors.New("insert failed")
	toggle := NewToggle(store, followConfig("42"), "7")

	assert.True(t, toggle.Toggle(context.Background()))
	assert.False(t, toggle.IsActive())
	assert.False(t, toggle.Loading())
}

func TestBookmarkToggleScenario(t *testing.T) {
	store := newMemToggleStore()
	toggle := NewToggle(store, ToggleConfig{
		Table:          "saved_posts",
		UserIDColumn:   "user_id",
		TargetIDColumn: "post_id",
		TargetID:       "abc123",
	}, "7")

	toggle.Load(context.Background())
	require.False(t, toggle.IsActive())

	toggle.Toggle(context.Background())
	assert.True(t, toggle.IsActive())

	// A fresh mount sees the saved row
	again := NewToggle(store, ToggleConfig{
		Table:          "saved_posts",
		UserIDColumn:   "user_id",
		TargetIDColumn: "post_id",
		TargetID:       "abc123",
	}, "7")
	again.Load(context.Background())
	assert.True(t, again.IsActive())
}
