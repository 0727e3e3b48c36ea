package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sori-music/backend/internal/models"
	"github.com/sori-music/backend/internal/repositories"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository      repositories.PostRepository
	userRepository      repositories.UserRepository
	followRepository    repositories.FollowRepository
	likeRepository      repositories.LikeRepository
	savedPostRepository repositories.SavedPostRepository
	repostRepository    repositories.RepostRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	savedPostRepo repositories.SavedPostRepository,
	repostRepo repositories.RepostRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:      postRepo,
		userRepository:      userRepo,
		followRepository:    followRepo,
		likeRepository:      likeRepo,
		savedPostRepository: savedPostRepo,
		repostRepository:    repostRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/shorts", h.GetShorts)
}

// EnrichedPost is a post with author info and user-specific flags
type EnrichedPost struct {
	models.Post
	Author      models.UserCompact `json:"author"`
	IsLiked     bool               `json:"is_liked"`
	IsSaved     bool               `json:"is_saved"`
	IsReposted  bool               `json:"is_reposted"`
	IsFollowing bool               `json:"is_following"` // viewer follows the author
}

// GetFeed returns enriched feed posts for the current user
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID, _ := getUserIDFromContext(c)

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	skip := int64((page - 1) * limit)

	posts, err := h.postRepository.GetAllPosts(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalItems, err := h.postRepository.CountPosts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enrichedPosts, err := h.enrich(posts, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enrichedPosts,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      totalItems,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}

// GetShorts returns the vertical video feed
func (h *FeedHandler) GetShorts(c echo.Context) error {
	currentUserID, _ := getUserIDFromContext(c)

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	posts, err := h.postRepository.GetShorts(c.Request().Context(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enrichedPosts, err := h.enrich(posts, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enrichedPosts,
		},
	})
}

// enrich attaches author info and the viewer's like/save/repost/follow flags.
func (h *FeedHandler) enrich(posts []models.Post, currentUserID uint) ([]EnrichedPost, error) {
	ownerIDs := make(map[string]bool)
	postIDs := make([]string, len(posts))
	for i, p := range posts {
		ownerIDs[p.UserID] = true
		postIDs[i] = p.ID.Hex()
	}

	// Posts store the author's numeric ID as a string
	userMap := make(map[string]models.UserCompact)
	for uid := range ownerIDs {
		id, parseErr := strconv.ParseUint(uid, 10, 32)
		if parseErr != nil {
			continue
		}
		user, err := h.userRepository.GetUserByID(uint(id))
		if err == nil {
			userMap[uid] = user.ToCompact()
		}
	}

	likedMap := make(map[string]bool)
	savedMap := make(map[string]bool)
	repostedMap := make(map[string]bool)
	followingMap := make(map[string]bool)
	if currentUserID > 0 && len(postIDs) > 0 {
		likedMap, _ = h.likeRepository.GetLikedPostIDs(currentUserID, postIDs)
		savedMap, _ = h.savedPostRepository.GetSavedPostIDs(currentUserID, postIDs)
		repostedMap, _ = h.repostRepository.GetRepostedPostIDs(currentUserID, postIDs)
		if ids, err := h.followRepository.GetFollowingIDs(currentUserID); err == nil {
			for _, id := range ids {
				followingMap[postOwnerID(id)] = true
			}
		}
	}

	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		pid := p.ID.Hex()
		enriched[i] = EnrichedPost{
			Post:        p,
			Author:      userMap[p.UserID],
			IsLiked:     likedMap[pid],
			IsSaved:     savedMap[pid],
			IsReposted:  repostedMap[pid],
			IsFollowing: followingMap[p.UserID],
		}
	}
	return enriched, nil
}
