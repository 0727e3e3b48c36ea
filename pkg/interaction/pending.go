package interaction

import "github.com/sori-music/backend/internal/models"

// MessageList reconciles optimistically-rendered pending messages with their
// server-confirmed rows arriving over the realtime channel. Matching is by
// the client-generated idempotency key; the legacy sender+content heuristic
// remains as a fallback for clients that do not send one. Arrival order is
// whatever the transport delivers.
type MessageList struct {
	messages []models.Message
}

// NewMessageList seeds a list from an initial fetch, in fetch order.
func NewMessageList(initial []models.Message) *MessageList {
	return &MessageList{messages: append([]models.Message{}, initial...)}
}

// AddPending appends an optimistic local message before the server confirms
// it. ClientMsgID should be set; ID is typically zero.
func (l *MessageList) AddPending(message models.Message) {
	l.messages = append(l.messages, message)
}

// Push applies a server-pushed row: it replaces the matching pending entry
// in place if one exists, otherwise appends. Returns true when the row
// reconciled a pending message.
func (l *MessageList) Push(incoming models.Message) bool {
	for i := range l.messages {
		if l.matchesPending(l.messages[i], incoming) {
			l.messages[i] = incoming
			return true
		}
	}
	l.messages = append(l.messages, incoming)
	return false
}

func (l *MessageList) matchesPending(pending, incoming models.Message) bool {
	if pending.ID != 0 {
		return pending.ID == incoming.ID
	}
	if pending.ClientMsgID != "" && incoming.ClientMsgID != "" {
		return pending.ClientMsgID == incoming.ClientMsgID
	}
	// Fallback heuristic: two identical messages sent back to back can
	// collide here, which is why the idempotency key exists.
	return pending.SenderID == incoming.SenderID && pending.Content == incoming.Content
}

// Messages returns the list in its current order.
func (l *MessageList) Messages() []models.Message {
	return l.messages
}
