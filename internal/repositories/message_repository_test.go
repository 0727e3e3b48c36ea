package repositories

import (
	"testing"
	"time"

	"github.com/sori-music/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMessage(t *testing.T, repo *PostgresMessageRepository, id int64, conversationID, senderID uint, content, clientMsgID string, at time.Time) {
	t.Helper()
	require.NoError(t, repo.CreateMessage(&models.Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		ClientMsgID:    clientMsgID,
		CreatedAt:      at,
	}))
}

func TestMessagesOldestFirstWithPaging(t *testing.T) {
	repo := NewPostgresMessageRepository(newTestDB(t))
	now := time.Now()
	seedMessage(t, repo, 101, 1, 1, "one", "c1", now)
	seedMessage(t, repo, 102, 1, 2, "two", "c2", now.Add(time.Second))
	seedMessage(t, repo, 103, 1, 1, "three", "c3", now.Add(2*time.Second))
	seedMessage(t, repo, 104, 2, 3, "elsewhere", "c4", now)

	messages, err := repo.GetMessagesByConversationID(1, 50, 0)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "one", messages[0].Content)
	assert.Equal(t, "three", messages[2].Content)

	messages, err = repo.GetMessagesByConversationID(1, 2, 1)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "two", messages[0].Content)
}

func TestGetLastMessage(t *testing.T) {
	repo := NewPostgresMessageRepository(newTestDB(t))
	now := time.Now()
	seedMessage(t, repo, 101, 1, 1, "old", "c1", now)
	seedMessage(t, repo, 102, 1, 2, "latest", "c2", now.Add(time.Second))

	last, err := repo.GetLastMessage(1)
	require.NoError(t, err)
	assert.Equal(t, "latest", last.Content)

	_, err = repo.GetLastMessage(9)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// The client idempotency key is unique; a resent message is looked up rather
// than inserted twice.
func TestClientMsgIDIdempotency(t *testing.T) {
	repo := NewPostgresMessageRepository(newTestDB(t))
	now := time.Now()
	seedMessage(t, repo, 101, 1, 1, "hey", "key-1", now)

	assert.Error(t, repo.CreateMessage(&models.Message{
		ID:             102,
		ConversationID: 1,
		SenderID:       1,
		Content:        "hey",
		ClientMsgID:    "key-1",
		CreatedAt:      now,
	}))

	stored, err := repo.GetMessageByClientMsgID("key-1")
	require.NoError(t, err)
	assert.Equal(t, int64(101), stored.ID)

	_, err = repo.GetMessageByClientMsgID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	repo := NewPostgresMessageRepository(newTestDB(t))
	now := time.Now()
	seedMessage(t, repo, 101, 1, 1, "hi", "c1", now)
	seedMessage(t, repo, 102, 1, 1, "there", "c2", now.Add(time.Second))
	seedMessage(t, repo, 103, 1, 2, "my own", "c3", now.Add(2*time.Second))

	// User 2 has two unread from user 1; their own message does not count
	unread, err := repo.CountUnread(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, repo.MarkConversationRead(1, 2))

	unread, err = repo.CountUnread(1, 2)
	require.NoError(t, err)
	assert.Zero(t, unread)

	// Reading as user 2 leaves user 1's unread state alone
	unread, err = repo.CountUnread(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}
