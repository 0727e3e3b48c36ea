package repositories

import (
	"testing"
	"time"

	"github.com/sori-music/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentRoundTrip(t *testing.T) {
	repo := NewPostgresCommentRepository(newTestDB(t))

	created := &models.Comment{PostID: "p1", UserID: 1, Content: "great track"}
	require.NoError(t, repo.CreateComment(created))
	require.NotZero(t, created.ID)

	got, err := repo.GetCommentByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "great track", got.Content)

	require.NoError(t, repo.DeleteComment(created.ID))
	_, err = repo.GetCommentByID(created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommentsByPostNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresCommentRepository(db)

	now := time.Now()
	for i, content := range []string{"first", "second", "third"} {
		comment := models.Comment{PostID: "p1", UserID: 1, Content: content}
		comment.CreatedAt = now.Add(time.Duration(i) * time.Second)
		require.NoError(t, db.Create(&comment).Error)
	}
	require.NoError(t, repo.CreateComment(&models.Comment{PostID: "p2", UserID: 1, Content: "other post"}))

	comments, err := repo.GetCommentsByPostID("p1")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "third", comments[0].Content)
	assert.Equal(t, "first", comments[2].Content)

	count, err := repo.CountByPostID("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestCommentReplyKeepsParentID(t *testing.T) {
	repo := NewPostgresCommentRepository(newTestDB(t))

	top := &models.Comment{PostID: "p1", UserID: 1, Content: "top"}
	require.NoError(t, repo.CreateComment(top))

	reply := &models.Comment{PostID: "p1", UserID: 2, ParentID: &top.ID, Content: "reply"}
	require.NoError(t, repo.CreateComment(reply))

	got, err := repo.GetCommentByID(reply.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, top.ID, *got.ParentID)
}
