package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sori-music/backend/internal/ai"
	"github.com/sori-music/backend/internal/repositories"
)

// ArtistChatHandler serves the artist persona chat and DM auto-replies
type ArtistChatHandler struct {
	personaClient  *ai.PersonaClient
	userRepository repositories.UserRepository
}

// NewArtistChatHandler creates a new ArtistChatHandler
func NewArtistChatHandler(personaClient *ai.PersonaClient, userRepo repositories.UserRepository) *ArtistChatHandler {
	return &ArtistChatHandler{
		personaClient:  personaClient,
		userRepository: userRepo,
	}
}

// RegisterArtistChatRoutes registers artist chat routes
func (h *ArtistChatHandler) RegisterArtistChatRoutes(g *echo.Group) {
	g.POST("/chat/artist", h.ArtistChat)
	g.POST("/messages/auto-reply", h.AutoReply)
}

// ArtistChatRequest defines the request body for the persona chat
type ArtistChatRequest struct {
	ArtistID uint          `json:"artist_id" validate:"required"`
	Message  string        `json:"message" validate:"required,min=1,max=1000"`
	History  []ai.ChatTurn `json:"history,omitempty" validate:"omitempty,max=20,dive"`
}

// ArtistChat answers a fan message in the artist's voice
func (h *ArtistChatHandler) ArtistChat(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}

	var req ArtistChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	artist, err := h.userRepository.GetUserByID(req.ArtistID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Artist not found")
	}
	if !artist.IsArtist {
		return echo.NewHTTPError(http.StatusBadRequest, "User is not an artist profile")
	}

	reply, err := h.personaClient.ArtistChat(c.Request().Context(), artist.DisplayName, artist.Bio, req.History, req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Artist chat is unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reply": reply}})
}

// AutoReplyRequest defines the request body for a DM auto-reply draft
type AutoReplyRequest struct {
	ArtistID uint   `json:"artist_id" validate:"required"`
	Message  string `json:"message" validate:"required,min=1,max=2000"`
}

// AutoReply drafts a DM reply in the artist's voice
func (h *ArtistChatHandler) AutoReply(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}

	var req AutoReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	artist, err := h.userRepository.GetUserByID(req.ArtistID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Artist not found")
	}
	if !artist.IsArtist {
		return echo.NewHTTPError(http.StatusBadRequest, "User is not an artist profile")
	}

	reply, err := h.personaClient.AutoReply(c.Request().Context(), artist.DisplayName, artist.Bio, req.Message)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "Auto-reply is unavailable")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reply": reply}})
}
