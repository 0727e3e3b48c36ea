package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sori-music/backend/internal/music"
)

// MusicHandler proxies the music metadata service
type MusicHandler struct {
	client *music.Client
}

// NewMusicHandler creates a new MusicHandler
func NewMusicHandler(client *music.Client) *MusicHandler {
	return &MusicHandler{client: client}
}

// RegisterMusicRoutes registers music proxy routes
func (h *MusicHandler) RegisterMusicRoutes(g *echo.Group) {
	g.GET("/music/search", h.Search)
	g.GET("/music/search/quick", h.QuickSearch)
	g.GET("/music/search/summary", h.SearchSummary)
	g.GET("/music/home", h.Home)
	g.GET("/music/charts", h.Charts)
	g.GET("/music/playlist/:id", h.Playlist)
	g.GET("/music/album/:id", h.Album)
	g.GET("/music/artist/playlist-id", h.ArtistPlaylistID)
	g.GET("/music/provision/artist", h.ProvisionArtist)
	g.GET("/music/ytdlp/extract", h.YtDlpExtract)
	g.GET("/music/ytdlp/formats", h.YtDlpFormats)
	g.GET("/music/ytdlp/subtitles", h.YtDlpSubtitles)
	g.GET("/music/ytdlp/supported-sites", h.YtDlpSupportedSites)
}

// respond writes raw upstream JSON through unchanged
func respond(c echo.Context, body json.RawMessage, err error) error {
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSONBlob(http.StatusOK, body)
}

func requireQuery(c echo.Context, name string) (string, error) {
	v := c.QueryParam(name)
	if v == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Query parameter '"+name+"' is required")
	}
	return v, nil
}

// Search proxies the full catalog search
func (h *MusicHandler) Search(c echo.Context) error {
	q, err := requireQuery(c, "q")
	if err != nil {
		return err
	}
	body, err := h.client.Search(c.Request().Context(), q)
	return respond(c, body, err)
}

// QuickSearch proxies the typeahead search
func (h *MusicHandler) QuickSearch(c echo.Context) error {
	q, err := requireQuery(c, "q")
	if err != nil {
		return err
	}
	body, err := h.client.QuickSearch(c.Request().Context(), q)
	return respond(c, body, err)
}

// SearchSummary proxies the condensed search summary
func (h *MusicHandler) SearchSummary(c echo.Context) error {
	q, err := requireQuery(c, "q")
	if err != nil {
		return err
	}
	body, err := h.client.SearchSummary(c.Request().Context(), q)
	return respond(c, body, err)
}

// Home proxies the home feed sections
func (h *MusicHandler) Home(c echo.Context) error {
	body, err := h.client.Home(c.Request().Context())
	return respond(c, body, err)
}

// Charts proxies the charts
func (h *MusicHandler) Charts(c echo.Context) error {
	body, err := h.client.Charts(c.Request().Context())
	return respond(c, body, err)
}

// Playlist proxies a playlist lookup
func (h *MusicHandler) Playlist(c echo.Context) error {
	body, err := h.client.Playlist(c.Request().Context(), c.Param("id"))
	return respond(c, body, err)
}

// Album proxies an album lookup
func (h *MusicHandler) Album(c echo.Context) error {
	body, err := h.client.Album(c.Request().Context(), c.Param("id"))
	return respond(c, body, err)
}

// ArtistPlaylistID proxies the artist playlist resolution
func (h *MusicHandler) ArtistPlaylistID(c echo.Context) error {
	artist, err := requireQuery(c, "artist")
	if err != nil {
		return err
	}
	body, err := h.client.ArtistPlaylistID(c.Request().Context(), artist)
	return respond(c, body, err)
}

// ProvisionArtist proxies artist catalog provisioning
func (h *MusicHandler) ProvisionArtist(c echo.Context) error {
	artist, err := requireQuery(c, "artist")
	if err != nil {
		return err
	}
	body, err := h.client.ProvisionArtist(c.Request().Context(), artist)
	return respond(c, body, err)
}

// YtDlpExtract proxies stream extraction
func (h *MusicHandler) YtDlpExtract(c echo.Context) error {
	u, err := requireQuery(c, "url")
	if err != nil {
		return err
	}
	body, err := h.client.YtDlpExtract(c.Request().Context(), u)
	return respond(c, body, err)
}

// YtDlpFormats proxies format listing
func (h *MusicHandler) YtDlpFormats(c echo.Context) error {
	u, err := requireQuery(c, "url")
	if err != nil {
		return err
	}
	body, err := h.client.YtDlpFormats(c.Request().Context(), u)
	return respond(c, body, err)
}

// YtDlpSubtitles proxies subtitle listing
func (h *MusicHandler) YtDlpSubtitles(c echo.Context) error {
	u, err := requireQuery(c, "url")
	if err != nil {
		return err
	}
	body, err := h.client.YtDlpSubtitles(c.Request().Context(), u)
	return respond(c, body, err)
}

// YtDlpSupportedSites proxies the supported-sites listing
func (h *MusicHandler) YtDlpSupportedSites(c echo.Context) error {
	body, err := h.client.YtDlpSupportedSites(c.Request().Context())
	return respond(c, body, err)
}
