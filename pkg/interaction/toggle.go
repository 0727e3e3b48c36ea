// Package interaction implements the client-observable state machines behind
// the social surfaces: join-row toggles, the optimistic like button, the
// comment tree, pending-message reconciliation and the story viewer. The
// package owns no transport; callers plug in stores and mutators.
package interaction

import (
	"context"
	"sync"

	"github.com/sori-music/backend/pkg/logger"
	"go.uber.org/zap"
)

// ToggleStore abstracts the join table a toggle is backed by. Existence of
// the row is the active state.
type ToggleStore interface {
	Exists(ctx context.Context, table, userIDColumn, targetIDColumn, userID, targetID string) (bool, error)
	Insert(ctx context.Context, table, userIDColumn, targetIDColumn, userID, targetID string) error
	Delete(ctx context.Context, table, userIDColumn, targetIDColumn, userID, targetID string) error
}

// ToggleConfig names the join table and key columns backing a toggle.
type ToggleConfig struct {
	Table          string
	UserIDColumn   string
	TargetIDColumn string
	TargetID       string
}

// Toggle tracks the active/inactive state of a single join row for one user.
// State flips only after the remote mutation succeeds; a toggle issued while
// another is in flight is a no-op, as is any toggle without an authenticated
// user.
type Toggle struct {
	store  ToggleStore
	config ToggleConfig
	userID string

	mu      sync.Mutex
	active  bool
	loading bool
}

// NewToggle creates a Toggle. userID may be empty for an unauthenticated
// session, in which case Toggle() never mutates.
func NewToggle(store ToggleStore, config ToggleConfig, userID string) *Toggle {
	return &Toggle{store: store, config: config, userID: userID}
}

// Load performs the mount-time existence check. Check errors are logged and
// leave the toggle inactive.
func (t *Toggle) Load(ctx context.Context) {
	if t.userID == "" {
		return
	}
	active, err := t.store.Exists(ctx, t.config.Table, t.config.UserIDColumn, t.config.TargetIDColumn, t.userID, t.config.TargetID)
	if err != nil {
		logger.L.Warn("toggle state check failed",
			zap.String("table", t.config.Table),
			zap.String("target_id", t.config.TargetID),
			zap.Error(err))
		return
	}
	t.mu.Lock()
	t.active = active
	t.mu.Unlock()
}

// Toggle flips the join row. Returns true if a mutation was attempted.
func (t *Toggle) Toggle(ctx context.Context) bool {
	if t.userID == "" {
		return false
	}

	t.mu.Lock()
	if t.loading {
		t.mu.Unlock()
		return false
	}
	t.loading = true
	wasActive := t.active
	t.mu.Unlock()

	var err error
	if wasActive {
		err = t.store.Delete(ctx, t.config.Table, t.config.UserIDColumn, t.config.TargetIDColumn, t.userID, t.config.TargetID)
	} else {
		err = t.store.Insert(ctx, t.config.Table, t.config.UserIDColumn, t.config.TargetIDColumn, t.userID, t.config.TargetID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	if err != nil {
		// Errors are swallowed; state is left as it was.
		logger.L.Warn("toggle mutation failed",
			zap.String("table", t.config.Table),
			zap.String("target_id", t.config.TargetID),
			zap.Error(err))
		return true
	}
	t.active = !wasActive
	return true
}

// IsActive reports whether the join row currently exists, as far as this
// toggle knows.
func (t *Toggle) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Loading reports whether a mutation is in flight.
func (t *Toggle) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}
