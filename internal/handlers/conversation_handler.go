package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sori-music/backend/internal/models"
	"github.com/sori-music/backend/internal/realtime"
	"github.com/sori-music/backend/internal/repositories"
	"github.com/sori-music/backend/pkg/logger"
	"github.com/sori-music/backend/pkg/snowflake"
	"go.uber.org/zap"
)

// unreadKey is the Redis key caching a user's total unread message count.
func unreadKey(userID uint) string {
	return fmt.Sprintf("unread:%d", userID)
}

// ConversationHandler handles direct message HTTP requests
type ConversationHandler struct {
	conversationRepository repositories.ConversationRepository
	messageRepository      repositories.MessageRepository
	userRepository         repositories.UserRepository
	postRepository         repositories.PostRepository
	hub                    *realtime.Hub
	rdb                    *redis.Client
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(
	conversationRepo repositories.ConversationRepository,
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	hub *realtime.Hub,
	rdb *redis.Client,
) *ConversationHandler {
	return &ConversationHandler{
		conversationRepository: conversationRepo,
		messageRepository:      messageRepo,
		userRepository:         userRepo,
		postRepository:         postRepo,
		hub:                    hub,
		rdb:                    rdb,
	}
}

// RegisterConversationRoutes registers direct message routes
func (h *ConversationHandler) RegisterConversationRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.PUT("/conversations/:id/read", h.MarkRead)
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/unread-count", h.GetUnreadCount)
}

// ConversationSummary is a conversation with its peer, last message and
// unread count.
type ConversationSummary struct {
	ID          uint               `json:"id"`
	Peer        models.UserCompact `json:"peer"`
	LastMessage *models.Message    `json:"last_message"`
	UnreadCount int64              `json:"unread_count"`
	CreatedAt   time.Time          `json:"created_at"`
}

// GetConversations lists the current user's conversations
func (h *ConversationHandler) GetConversations(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	conversations, err := h.conversationRepository.GetConversationsForUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summary := ConversationSummary{ID: conv.ID, CreatedAt: conv.CreatedAt}

		participantIDs, err := h.conversationRepository.GetParticipantIDs(conv.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		for _, pid := range participantIDs {
			if pid == currentUserID {
				continue
			}
			if peer, err := h.userRepository.GetUserByID(pid); err == nil {
				summary.Peer = peer.ToCompact()
			}
		}

		if last, err := h.messageRepository.GetLastMessage(conv.ID); err == nil {
			summary.LastMessage = last
		}
		summary.UnreadCount, _ = h.messageRepository.CountUnread(conv.ID, currentUserID)

		summaries = append(summaries, summary)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"conversations": summaries}})
}

// SendMessage sends a direct message, creating the conversation lazily on the
// first message or share between the two users. Resending with the same
// client_msg_id returns the already-stored row instead of a duplicate.
func (h *ConversationHandler) SendMessage(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.RecipientID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}
	if _, err := h.userRepository.GetUserByID(req.RecipientID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Recipient not found")
	}

	// A shared post must exist
	if req.SharedPostID != "" {
		if _, err := h.postRepository.GetPostByID(c.Request().Context(), req.SharedPostID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Shared post not found")
		}
	}

	// Idempotent resend: same client key returns the stored row
	if req.ClientMsgID != "" {
		if existing, err := h.messageRepository.GetMessageByClientMsgID(req.ClientMsgID); err == nil {
			return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"message": existing, "duplicate": true}})
		}
	} else {
		req.ClientMsgID = uuid.NewString()
	}

	conversation, created, err := h.conversationRepository.GetOrCreateDirectConversation(currentUserID, req.RecipientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if created {
		logger.L.Info("conversation created",
			zap.Uint("conversation_id", conversation.ID),
			zap.Uint("user_a", currentUserID),
			zap.Uint("user_b", req.RecipientID))
	}

	message := &models.Message{
		ID:             snowflake.GenMessageID(),
		ConversationID: conversation.ID,
		SenderID:       currentUserID,
		Content:        req.Content,
		SharedPostID:   req.SharedPostID,
		ClientMsgID:    req.ClientMsgID,
		CreatedAt:      time.Now(),
	}

	if err := h.messageRepository.CreateMessage(message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Push to the recipient and bump their unread badge
	h.hub.SendToUser(req.RecipientID, realtime.Event{Type: realtime.EventNewMessage, Payload: message})
	if h.rdb != nil {
		if err := h.rdb.Incr(c.Request().Context(), unreadKey(req.RecipientID)).Err(); err != nil {
			logger.L.Warn("unread counter bump failed", zap.Uint("user_id", req.RecipientID), zap.Error(err))
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"message": message}})
}

// GetMessages returns a conversation's messages in chronological order
func (h *ConversationHandler) GetMessages(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	conversationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid conversation ID")
	}

	isParticipant, err := h.conversationRepository.IsParticipant(uint(conversationID), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !isParticipant {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this conversation")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	messages, err := h.messageRepository.GetMessagesByConversationID(uint(conversationID), limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"messages": messages}})
}

// MarkRead marks every message the other side sent as read
func (h *ConversationHandler) MarkRead(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	conversationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid conversation ID")
	}

	isParticipant, err := h.conversationRepository.IsParticipant(uint(conversationID), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !isParticipant {
		return echo.NewHTTPError(http.StatusForbidden, "Not a participant of this conversation")
	}

	if err := h.messageRepository.MarkConversationRead(uint(conversationID), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The cached badge is stale now; drop it so the next read recomputes
	if h.rdb != nil {
		if err := h.rdb.Del(c.Request().Context(), unreadKey(currentUserID)).Err(); err != nil {
			logger.L.Warn("unread counter invalidation failed", zap.Uint("user_id", currentUserID), zap.Error(err))
		}
	}

	// Read receipts for the sender
	participantIDs, err := h.conversationRepository.GetParticipantIDs(uint(conversationID))
	if err == nil {
		for _, pid := range participantIDs {
			if pid == currentUserID {
				continue
			}
			h.hub.SendToUser(pid, realtime.Event{
				Type:    realtime.EventMessagesRead,
				Payload: echo.Map{"conversation_id": conversationID, "reader_id": currentUserID},
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"read": true}})
}

// GetUnreadCount returns the user's total unread message count across all
// conversations. Served from Redis when warm, recomputed from the database
// on a miss.
func (h *ConversationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, unreadKey(currentUserID)).Int64(); err == nil {
			return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": cached}})
		} else if err != redis.Nil {
			logger.L.Warn("unread counter read failed", zap.Uint("user_id", currentUserID), zap.Error(err))
		}
	}

	conversations, err := h.conversationRepository.GetConversationsForUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var total int64
	for _, conv := range conversations {
		count, err := h.messageRepository.CountUnread(conv.ID, currentUserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		total += count
	}

	if h.rdb != nil {
		if err := h.rdb.Set(ctx, unreadKey(currentUserID), total, 10*time.Minute).Err(); err != nil {
			logger.L.Warn("unread counter cache failed", zap.Uint("user_id", currentUserID), zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"count": total}})
}
