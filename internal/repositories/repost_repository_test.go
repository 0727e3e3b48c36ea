package repositories

import (
	"testing"
	"time"

	"github.com/sori-music/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepostRoundTrip(t *testing.T) {
	repo := NewPostgresRepostRepository(newTestDB(t))

	require.NoError(t, repo.CreateRepost(&models.Repost{PostID: "p1", UserID: 1, Quote: "this one"}))

	reposted, err := repo.HasUserReposted("p1", 1)
	require.NoError(t, err)
	assert.True(t, reposted)

	count, err := repo.GetRepostsCountByPostID("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.DeleteRepost("p1", 1))
	assert.Error(t, repo.DeleteRepost("p1", 1))
}

func TestRepostDuplicateRejected(t *testing.T) {
	repo := NewPostgresRepostRepository(newTestDB(t))

	require.NoError(t, repo.CreateRepost(&models.Repost{PostID: "p1", UserID: 1}))
	assert.Error(t, repo.CreateRepost(&models.Repost{PostID: "p1", UserID: 1, Quote: "again"}))
}

func TestRepostsByUserNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresRepostRepository(db)

	now := time.Now()
	for i, postID := range []string{"p1", "p2"} {
		require.NoError(t, db.Create(&models.Repost{
			PostID:    postID,
			UserID:    1,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}).Error)
	}

	reposts, err := repo.GetRepostsByUser(1)
	require.NoError(t, err)
	require.Len(t, reposts, 2)
	assert.Equal(t, "p2", reposts[0].PostID)
}

func TestGetRepostedPostIDs(t *testing.T) {
	repo := NewPostgresRepostRepository(newTestDB(t))
	require.NoError(t, repo.CreateRepost(&models.Repost{PostID: "p1", UserID: 1}))
	require.NoError(t, repo.CreateRepost(&models.Repost{PostID: "p1", UserID: 2}))

	reposted, err := repo.GetRepostedPostIDs(1, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p1": true}, reposted)
}
