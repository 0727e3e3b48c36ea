package repositories

import (
	"testing"

	"github.com/sori-music/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRoundTrip(t *testing.T) {
	repo := NewPostgresLikeRepository(newTestDB(t))

	require.NoError(t, repo.CreateLike(&models.Like{PostID: "p1", UserID: 1}))

	liked, err := repo.HasUserLikedPost("p1", 1)
	require.NoError(t, err)
	assert.True(t, liked)

	count, err := repo.GetLikesCountByPostID("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.DeleteLike("p1", 1))

	liked, err = repo.HasUserLikedPost("p1", 1)
	require.NoError(t, err)
	assert.False(t, liked)
}

// The post+user unique index makes a double like a constraint violation.
func TestLikeDuplicateRejected(t *testing.T) {
	repo := NewPostgresLikeRepository(newTestDB(t))

	require.NoError(t, repo.CreateLike(&models.Like{PostID: "p1", UserID: 1}))
	assert.Error(t, repo.CreateLike(&models.Like{PostID: "p1", UserID: 1}))
}

func TestDeleteLikeNotFound(t *testing.T) {
	repo := NewPostgresLikeRepository(newTestDB(t))
	assert.Error(t, repo.DeleteLike("p1", 1))
}

func TestGetLikedPostIDs(t *testing.T) {
	repo := NewPostgresLikeRepository(newTestDB(t))
	require.NoError(t, repo.CreateLike(&models.Like{PostID: "p1", UserID: 1}))
	require.NoError(t, repo.CreateLike(&models.Like{PostID: "p3", UserID: 1}))
	require.NoError(t, repo.CreateLike(&models.Like{PostID: "p2", UserID: 2}))

	liked, err := repo.GetLikedPostIDs(1, []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p1": true, "p3": true}, liked)

	liked, err = repo.GetLikedPostIDs(1, nil)
	require.NoError(t, err)
	assert.Empty(t, liked)
}
