package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sori-music/backend/internal/models"
	"github.com/sori-music/backend/internal/realtime"
	"github.com/sori-music/backend/internal/repositories"
)

// storyTTL is how long a story stays visible after posting.
const storyTTL = 24 * time.Hour

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	storyRepository repositories.StoryRepository
	userRepository  repositories.UserRepository
	notifier        *realtime.Notifier
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyRepo repositories.StoryRepository, userRepo repositories.UserRepository, notifier *realtime.Notifier) *StoryHandler {
	return &StoryHandler{
		storyRepository: storyRepo,
		userRepository:  userRepo,
		notifier:        notifier,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group) {
	g.GET("/stories", h.GetStories)
	g.GET("/stories/:id", h.GetStory)
	g.POST("/stories", h.CreateStory)
	g.DELETE("/stories/:id", h.DeleteStory)
	g.POST("/stories/:id/seen", h.MarkAsSeen)
	g.POST("/stories/:id/react", h.ReactToStory)
}

// StoryResponse is the enriched story response
type StoryResponse struct {
	ID             string             `json:"id"`
	Author         models.UserCompact `json:"author"`
	Items          []models.StoryItem `json:"items"`
	HasUnseenItems bool               `json:"has_unseen_items"`
	ExpiresAt      string             `json:"expires_at"`
}

// GetStories returns active stories
func (h *StoryHandler) GetStories(c echo.Context) error {
	currentUserID, _ := getUserIDFromContext(c)

	stories, err := h.storyRepository.GetActiveStories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Build user map; stories store the author's numeric ID as a string
	userMap := make(map[string]models.UserCompact)
	storyIDs := make([]string, len(stories))
	for i, s := range stories {
		storyIDs[i] = s.ID.Hex()
		if _, ok := userMap[s.UserID]; !ok {
			if id, parseErr := strconv.ParseUint(s.UserID, 10, 32); parseErr == nil {
				user, err := h.userRepository.GetUserByID(uint(id))
				if err == nil {
					userMap[s.UserID] = user.ToCompact()
				}
			}
		}
	}

	// Check seen status
	seenMap := make(map[string]bool)
	if currentUserID > 0 {
		seenMap, _ = h.storyRepository.GetSeenStoryIDs(currentUserID, storyIDs)
	}

	// Build response
	var currentUserStory *StoryResponse
	otherStories := make([]StoryResponse, 0, len(stories))

	for _, s := range stories {
		resp := StoryResponse{
			ID:             s.ID.Hex(),
			Author:         userMap[s.UserID],
			Items:          s.Items,
			HasUnseenItems: !seenMap[s.ID.Hex()],
			ExpiresAt:      s.ExpiresAt.Format(time.RFC3339),
		}

		// Check if this is current user's story
		if currentUserID > 0 {
			author := userMap[s.UserID]
			if author.ID == currentUserID {
				currentUserStory = &resp
				continue
			}
		}
		otherStories = append(otherStories, resp)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"stories":          otherStories,
			"currentUserStory": currentUserStory,
		},
	})
}

// GetStory returns a single story
func (h *StoryHandler) GetStory(c echo.Context) error {
	storyID := c.Param("id")

	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	// Get author info
	var author models.UserCompact
	if id, parseErr := strconv.ParseUint(story.UserID, 10, 32); parseErr == nil {
		user, err := h.userRepository.GetUserByID(uint(id))
		if err == nil {
			author = user.ToCompact()
		}
	}

	resp := StoryResponse{
		ID:             story.ID.Hex(),
		Author:         author,
		Items:          story.Items,
		HasUnseenItems: true,
		ExpiresAt:      story.ExpiresAt.Format(time.RFC3339),
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"story": resp}})
}

// CreateStory creates a new story
func (h *StoryHandler) CreateStory(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	now := time.Now()
	story := &models.Story{
		UserID: postOwnerID(currentUserID),
		Items: []models.StoryItem{
			{
				ID:        fmt.Sprintf("item_%d", now.UnixNano()),
				Type:      req.Type,
				URL:       req.MediaURL,
				TrackID:   req.TrackID,
				Duration:  5,
				CreatedAt: now,
			},
		},
		ExpiresAt: now.Add(storyTTL),
		CreatedAt: now,
	}

	if err := h.storyRepository.CreateStory(c.Request().Context(), story); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"story": story}})
}

// DeleteStory removes one of the current user's stories
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	storyID := c.Param("id")

	if err := h.storyRepository.DeleteStory(c.Request().Context(), storyID, postOwnerID(currentUserID)); err != nil {
		if err.Error() == "story not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkAsSeen marks a story as seen
func (h *StoryHandler) MarkAsSeen(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	storyID := c.Param("id")

	// Check if already seen
	hasSeen, _ := h.storyRepository.HasSeen(storyID, currentUserID)
	if hasSeen {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"seen": true}})
	}

	storySeen := &models.StorySeen{
		StoryID: storyID,
		UserID:  currentUserID,
		SeenAt:  time.Now(),
	}

	if err := h.storyRepository.MarkSeen(storySeen); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"seen": true}})
}

// ReactToStory adds a reaction to a story
func (h *StoryHandler) ReactToStory(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	storyID := c.Param("id")

	var req struct {
		Reaction string `json:"reaction" validate:"required,max=16"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	story, err := h.storyRepository.GetStoryByID(c.Request().Context(), storyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Story not found")
	}

	reaction := &models.StoryReaction{
		StoryID:  storyID,
		UserID:   currentUserID,
		Reaction: req.Reaction,
	}

	if err := h.storyRepository.AddReaction(reaction); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Tell the story owner, unless they reacted to their own story
	if ownerID, parseErr := strconv.ParseUint(story.UserID, 10, 32); parseErr == nil && uint(ownerID) != currentUserID {
		h.notifier.Notify(&models.Notification{
			Type:        "story_reaction",
			ActorID:     currentUserID,
			RecipientID: uint(ownerID),
			TargetID:    storyID,
			TargetType:  "story",
			Message:     "reacted " + req.Reaction + " to your story",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reacted": true}})
}
