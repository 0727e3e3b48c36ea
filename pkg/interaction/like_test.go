package interaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLikeMutator struct {
	likeErr   error
	unlikeErr error
	likes     int
	unlikes   int
}

func (m *fakeLikeMutator) Like(_ context.Context, _ string) error {
	m.likes++
	return m.likeErr
}

func (m *fakeLikeMutator) Unlike(_ context.Context, _ string) error {
	m.unlikes++
	return m.unlikeErr
}

func TestLikeButtonOptimisticFlip(t *testing.T) {
	mutator := &fakeLikeMutator{}
	button := NewLikeButton(mutator, "p1", false, 5)

	button.Toggle(context.Background())

	assert.True(t, button.IsLiked())
	assert.Equal(t, 6, button.Count())
	assert.Equal(t, LikeConfirmed, button.State())
	assert.Equal(t, 1, mutator.likes)
}

func TestLikeButtonUnlike(t *testing.T) {
	mutator := &fakeLikeMutator{}
	button := NewLikeButton(mutator, "p1", true, 5)

	button.Toggle(context.Background())

	assert.False(t, button.IsLiked())
	assert.Equal(t, 4, button.Count())
	assert.Equal(t, 1, mutator.unlikes)
}

// A failed mutation leaves the optimistic state applied: liked stays true and
// the count stays bumped.
func TestLikeButtonFailureKeepsOptimisticState(t *testing.T) {
	mutator := &fakeLikeMutator{likeErr: errors.New("network down")}
	button := NewLikeButton(mutator, "p1", false, 5)

	button.Toggle(context.Background())

	assert.True(t, button.IsLiked())
	assert.Equal(t, 6, button.Count())
	assert.Equal(t, LikeConfirmed, button.State())
}

func TestLikeButtonRollbackWhenEnabled(t *testing.T) {
	mutator := &fakeLikeMutator{likeErr: errors.New("network down")}
	button := NewLikeButton(mutator, "p1", false, 5)
	button.RollbackOnFailure = true

	button.Toggle(context.Background())

	assert.False(t, button.IsLiked())
	assert.Equal(t, 5, button.Count())
	assert.Equal(t, LikeRolledBack, button.State())
}

// The animation fires on the flip, before the outcome is known, even when the
// mutation then fails.
func TestLikeButtonAnimationFiresRegardlessOfOutcome(t *testing.T) {
	mutator := &fakeLikeMutator{likeErr: errors.New("network down")}
	button := NewLikeButton(mutator, "p1", false, 0)

	var animated []bool
	button.OnAnimate = func(liked bool) {
		animated = append(animated, liked)
		// At animation time the optimistic flip has already landed
		assert.Equal(t, LikePending, button.State())
	}

	button.Toggle(context.Background())
	assert.Equal(t, []bool{true}, animated)
}

func TestLikeButtonCountNeverNegative(t *testing.T) {
	mutator := &fakeLikeMutator{}
	button := NewLikeButton(mutator, "p1", true, 0)

	button.Toggle(context.Background())

	assert.False(t, button.IsLiked())
	assert.Equal(t, 0, button.Count())
}
