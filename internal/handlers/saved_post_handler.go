package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sori-music/backend/internal/models"
	"github.com/sori-music/backend/internal/repositories"
)

// SavedPostHandler handles saved post HTTP requests
type SavedPostHandler struct {
	savedPostRepository repositories.SavedPostRepository
	postRepository      repositories.PostRepository
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(savedPostRepo repositories.SavedPostRepository, postRepo repositories.PostRepository) *SavedPostHandler {
	return &SavedPostHandler{
		savedPostRepository: savedPostRepo,
		postRepository:      postRepo,
	}
}

// RegisterSavedPostRoutes registers saved post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:id/save", h.SavePost)
	g.DELETE("/posts/:id/save", h.UnsavePost)
	g.GET("/posts/:id/save/status", h.GetSaveStatus)
	g.GET("/saved-posts", h.GetSavedPosts)
}

// SavePost saves/bookmarks a post
func (h *SavedPostHandler) SavePost(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	postID := c.Param("id")

	// Verify post exists
	_, err = h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	// Check if already saved
	isSaved, _ := h.savedPostRepository.IsPostSaved(currentUserID, postID)
	if isSaved {
		return echo.NewHTTPError(http.StatusConflict, "Post already saved")
	}

	savedPost := &models.SavedPost{
		UserID: currentUserID,
		PostID: postID,
	}

	if err := h.savedPostRepository.SavePost(savedPost); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": true}})
}

// UnsavePost removes a post from saved
func (h *SavedPostHandler) UnsavePost(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	postID := c.Param("id")

	if err := h.savedPostRepository.UnsavePost(currentUserID, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": false}})
}

// GetSaveStatus reports whether the current user has saved a post
func (h *SavedPostHandler) GetSaveStatus(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	postID := c.Param("id")

	isSaved, err := h.savedPostRepository.IsPostSaved(currentUserID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"saved": isSaved}})
}

// GetSavedPosts lists the current user's bookmarked posts
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	saved, err := h.savedPostRepository.GetSavedPostsByUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	postIDs := make([]string, len(saved))
	for i, s := range saved {
		postIDs[i] = s.PostID
	}

	posts, err := h.postRepository.GetPostsByIDs(c.Request().Context(), postIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}
