package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sori-music/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	writes   [][]byte
	writeErr error
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.writes = append(c.writes, data)
	return nil
}

func TestHubSendToUser(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Add(7, conn)

	hub.SendToUser(7, Event{Type: EventNewMessage, Payload: map[string]string{"content": "hey"}})

	require.Len(t, conn.writes, 1)
	var event struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(conn.writes[0], &event))
	assert.Equal(t, EventNewMessage, event.Type)
	assert.Equal(t, "hey", event.Payload["content"])
}

// A user with several open connections gets the event on all of them.
func TestHubFansOutToAllConnections(t *testing.T) {
	hub := NewHub()
	phone := &fakeConn{}
	desktop := &fakeConn{}
	hub.Add(7, phone)
	hub.Add(7, desktop)

	hub.SendToUser(7, Event{Type: EventMessagesRead})

	assert.Len(t, phone.writes, 1)
	assert.Len(t, desktop.writes, 1)
}

func TestHubSendToUnknownUserIsNoop(t *testing.T) {
	hub := NewHub()
	hub.SendToUser(99, Event{Type: EventNewMessage})
}

func TestHubFailedWriteDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	broken := &fakeConn{writeErr: errors.New("broken pipe")}
	healthy := &fakeConn{}
	hub.Add(7, broken)
	hub.Add(7, healthy)

	hub.SendToUser(7, Event{Type: EventNewNotification})

	assert.Len(t, healthy.writes, 1)
}

// singleWriterConn fails the moment two writers are inside WriteMessage at
// once, the condition gorilla panics on.
type singleWriterConn struct {
	inWrite    atomic.Int32
	overlapped atomic.Bool
	writes     atomic.Int32
}

func (c *singleWriterConn) WriteMessage(_ int, _ []byte) error {
	if c.inWrite.Add(1) > 1 {
		c.overlapped.Store(true)
	}
	time.Sleep(time.Millisecond)
	c.inWrite.Add(-1)
	c.writes.Add(1)
	return nil
}

// Concurrent pushes to the same user must be serialized per connection;
// websocket connections allow only one writer at a time.
func TestHubConcurrentSendsToOneUser(t *testing.T) {
	hub := NewHub()
	conn := &singleWriterConn{}
	hub.Add(7, conn)

	const senders = 32
	var wg sync.WaitGroup
	wg.Add(senders)
	for i := 0; i < senders; i++ {
		go func() {
			defer wg.Done()
			hub.SendToUser(7, Event{Type: EventNewMessage, Payload: map[string]string{"content": "hey"}})
		}()
	}
	wg.Wait()

	assert.False(t, conn.overlapped.Load(), "two writers entered WriteMessage at once")
	assert.Equal(t, int32(senders), conn.writes.Load())
}

func TestHubRemove(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	other := &fakeConn{}
	hub.Add(7, conn)
	hub.Add(7, other)
	assert.Equal(t, 2, hub.ConnectionCount(7))

	hub.Remove(7, conn)
	assert.Equal(t, 1, hub.ConnectionCount(7))

	hub.SendToUser(7, Event{Type: EventNewMessage})
	assert.Empty(t, conn.writes)
	assert.Len(t, other.writes, 1)

	hub.Remove(7, other)
	assert.Zero(t, hub.ConnectionCount(7))
}

type memNotificationRepo struct {
	created   []*models.Notification
	createErr error
}

func (r *memNotificationRepo) CreateNotification(n *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, n)
	return nil
}

func (r *memNotificationRepo) GetByRecipientID(uint, int, int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (r *memNotificationRepo) GetGrouped(uint) ([]models.Notification, []models.Notification, []models.Notification, []models.Notification, error) {
	return nil, nil, nil, nil, nil
}

func (r *memNotificationRepo) GetUnreadCount(uint) (int64, error) { return 0, nil }
func (r *memNotificationRepo) MarkAsRead(uint) error              { return nil }
func (r *memNotificationRepo) MarkAllAsRead(uint) error           { return nil }

func TestNotifierPersistsAndPushes(t *testing.T) {
	repo := &memNotificationRepo{}
	hub := NewHub()
	conn := &fakeConn{}
	hub.Add(7, conn)

	notifier := NewNotifier(repo, hub)
	notifier.Notify(&models.Notification{
		Type:        "like",
		ActorID:     3,
		RecipientID: 7,
		TargetID:    "p1",
		TargetType:  "post",
	})

	require.Len(t, repo.created, 1)
	assert.False(t, repo.created[0].CreatedAt.IsZero())

	require.Len(t, conn.writes, 1)
	var event struct {
		Type    string              `json:"type"`
		Payload models.Notification `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(conn.writes[0], &event))
	assert.Equal(t, EventNewNotification, event.Type)
	assert.Equal(t, "like", event.Payload.Type)
	assert.Equal(t, uint(3), event.Payload.ActorID)
}

func TestNotifierCreateFailureSkipsPush(t *testing.T) {
	repo := &memNotificationRepo{createErr: errors.New("db down")}
	hub := NewHub()
	conn := &fakeConn{}
	hub.Add(7, conn)

	NewNotifier(repo, hub).Notify(&models.Notification{Type: "follow", RecipientID: 7})

	assert.Empty(t, conn.writes)
}
