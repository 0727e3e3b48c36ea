package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sori-music/backend/internal/models"
	"github.com/sori-music/backend/internal/realtime"
	"github.com/sori-music/backend/internal/repositories"
)

// RepostHandler handles repost HTTP requests
type RepostHandler struct {
	repostRepository repositories.RepostRepository
	postRepository   repositories.PostRepository
	notifier         *realtime.Notifier
}

// NewRepostHandler creates a new RepostHandler
func NewRepostHandler(repostRepo repositories.RepostRepository, postRepo repositories.PostRepository, notifier *realtime.Notifier) *RepostHandler {
	return &RepostHandler{
		repostRepository: repostRepo,
		postRepository:   postRepo,
		notifier:         notifier,
	}
}

// RegisterRepostRoutes registers repost-related routes
func (h *RepostHandler) RegisterRepostRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/repost", h.Repost)
	g.DELETE("/posts/:post_id/repost", h.UndoRepost)
	g.GET("/posts/:post_id/repost/status", h.GetRepostStatus)
	g.GET("/reposts", h.GetMyReposts)
}

// Repost reposts a post, optionally with a short quote
func (h *RepostHandler) Repost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	var req models.CreateRepostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Verify post exists
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	hasReposted, err := h.repostRepository.HasUserReposted(postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hasReposted {
		return echo.NewHTTPError(http.StatusConflict, "Post already reposted by this user")
	}

	repost := &models.Repost{
		PostID: postID,
		UserID: userID,
		Quote:  req.Quote,
	}

	if err := h.repostRepository.CreateRepost(repost); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Increment reposts count in the post
	go h.postRepository.IncrementRepostsCount(context.Background(), postID)

	h.notifyPostOwner(post, userID)

	return c.JSON(http.StatusCreated, repost)
}

func (h *RepostHandler) notifyPostOwner(post *models.Post, actorID uint) {
	ownerID, err := strconv.ParseUint(post.UserID, 10, 32)
	if err != nil || uint(ownerID) == actorID {
		return
	}
	h.notifier.Notify(&models.Notification{
		Type:        "repost",
		ActorID:     actorID,
		RecipientID: uint(ownerID),
		TargetID:    post.ID.Hex(),
		TargetType:  "post",
		Message:     "reposted your post",
		CreatedAt:   time.Now(),
	})
}

// UndoRepost removes the current user's repost of a post
func (h *RepostHandler) UndoRepost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	if err := h.repostRepository.DeleteRepost(postID, userID); err != nil {
		if err.Error() == "repost not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Repost not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Decrement reposts count in the post
	go h.postRepository.DecrementRepostsCount(context.Background(), postID)

	return c.NoContent(http.StatusNoContent)
}

// GetRepostStatus reports whether the current user has reposted a post
func (h *RepostHandler) GetRepostStatus(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	hasReposted, err := h.repostRepository.HasUserReposted(postID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "user_id": userID, "has_reposted": hasReposted})
}

// GetMyReposts lists the current user's reposts
func (h *RepostHandler) GetMyReposts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	reposts, err := h.repostRepository.GetRepostsByUser(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, reposts)
}
