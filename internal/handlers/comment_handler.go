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
	"github.com/sori-music/backend/pkg/interaction"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository     repositories.CommentRepository
	postRepository        repositories.PostRepository
	userRepository        repositories.UserRepository
	commentLikeRepository repositories.CommentLikeRepository
	notifier              *realtime.Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, commentLikeRepo repositories.CommentLikeRepository, notifier *realtime.Notifier) *CommentHandler {
	return &CommentHandler{
		commentRepository:     commentRepo,
		postRepository:        postRepo,
		userRepository:        userRepo,
		commentLikeRepository: commentLikeRepo,
		notifier:              notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes. Comments are never
// edited, so there is no update route.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/likes", h.LikeComment)
	g.DELETE("/comments/:id/likes", h.UnlikeComment)
}

// CreateComment creates a new comment or reply on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
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

	// A reply must target a top-level comment on the same post
	if req.ParentID != nil {
		parent, err := h.commentRepository.GetCommentByID(*req.ParentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Parent comment not found")
		}
		if parent.PostID != postID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to another post")
		}
		// A reply to a reply is stored as given; the threaded view only
		// attaches replies whose parent is top-level.
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Increment comments count in the post
	go h.postRepository.IncrementCommentsCount(context.Background(), postID)

	h.notifyPostOwner(post, userID)

	return c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) notifyPostOwner(post *models.Post, actorID uint) {
	ownerID, err := strconv.ParseUint(post.UserID, 10, 32)
	if err != nil || uint(ownerID) == actorID {
		return
	}
	h.notifier.Notify(&models.Notification{
		Type:        "comment",
		ActorID:     actorID,
		RecipientID: uint(ownerID),
		TargetID:    post.ID.Hex(),
		TargetType:  "post",
		Message:     "commented on your post",
		CreatedAt:   time.Now(),
	})
}

// GetCommentsByPostID retrieves a post's comments as top-level comments with
// one level of replies attached.
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("post_id")

	// Verify post exists
	_, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, interaction.BuildCommentTree(comments))
}

// DeleteComment deletes a comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Ensure the user deleting the comment is the owner
	if comment.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(uint(commentID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Decrement comments count in the post
	go h.postRepository.DecrementCommentsCount(context.Background(), comment.PostID)

	return c.NoContent(http.StatusNoContent)
}

// LikeComment likes a comment
func (h *CommentHandler) LikeComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if _, err := h.commentRepository.GetCommentByID(uint(commentID)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	hasLiked, err := h.commentLikeRepository.HasUserLikedComment(uint(commentID), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hasLiked {
		return echo.NewHTTPError(http.StatusConflict, "Comment already liked by this user")
	}

	like := &models.CommentLike{
		CommentID: uint(commentID),
		UserID:    userID,
	}
	if err := h.commentLikeRepository.CreateCommentLike(like); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, like)
}

// UnlikeComment removes a like from a comment
func (h *CommentHandler) UnlikeComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if err := h.commentLikeRepository.DeleteCommentLike(uint(commentID), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
