package interaction

import (
	"context"
	"sync"

	"github.com/sori-music/backend/pkg/logger"
	"go.uber.org/zap"
)

// LikeState tracks where an optimistic like mutation stands.
type LikeState int

const (
	LikeIdle LikeState = iota
	LikePending
	LikeConfirmed
	LikeRolledBack
)

// LikeMutator performs the remote like/unlike mutation.
type LikeMutator interface {
	Like(ctx context.Context, postID string) error
	Unlike(ctx context.Context, postID string) error
}

// LikeButton is the optimistic like state machine. State and count flip
// before the network call. By default a failed mutation leaves the
// optimistic state applied; set RollbackOnFailure to revert instead.
type LikeButton struct {
	mutator LikeMutator
	postID  string

	// RollbackOnFailure reverts the optimistic flip when the mutation
	// fails. Off by default: a failed like stays applied locally and a
	// manual re-tap recovers.
	RollbackOnFailure bool

	// OnAnimate fires on every optimistic flip, before the network call,
	// regardless of the eventual outcome.
	OnAnimate func(liked bool)

	mu    sync.Mutex
	liked bool
	count int
	state LikeState
}

// NewLikeButton seeds a LikeButton from the values the post row carried.
func NewLikeButton(mutator LikeMutator, postID string, liked bool, count int) *LikeButton {
	return &LikeButton{
		mutator: mutator,
		postID:  postID,
		liked:   liked,
		count:   count,
		state:   LikeIdle,
	}
}

// Toggle flips the like optimistically and then performs the mutation.
func (b *LikeButton) Toggle(ctx context.Context) {
	b.mu.Lock()
	wasLiked := b.liked
	b.liked = !wasLiked
	if b.liked {
		b.count++
	} else if b.count > 0 {
		b.count--
	}
	b.state = LikePending
	nowLiked := b.liked
	b.mu.Unlock()

	if b.OnAnimate != nil {
		b.OnAnimate(nowLiked)
	}

	var err error
	if nowLiked {
		err = b.mutator.Like(ctx, b.postID)
	} else {
		err = b.mutator.Unlike(ctx, b.postID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.state = LikeConfirmed
		return
	}
	logger.L.Warn("like mutation failed", zap.String("post_id", b.postID), zap.Error(err))
	if b.RollbackOnFailure {
		b.liked = wasLiked
		if wasLiked {
			b.count++
		} else if b.count > 0 {
			b.count--
		}
		b.state = LikeRolledBack
		return
	}
	// Legacy behavior: the optimistic state stays applied on failure.
	b.state = LikeConfirmed
}

// IsLiked reports the current local liked state.
func (b *LikeButton) IsLiked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.liked
}

// Count reports the current local like count.
func (b *LikeButton) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// State reports where the last mutation stands.
func (b *LikeButton) State() LikeState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
