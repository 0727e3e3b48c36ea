// Package music proxies the external music metadata service. Every endpoint
// is a JSON passthrough; responses are returned as raw JSON and never
// reshaped here. The home and chart feeds change slowly, so those two are
// cached in Redis with a short TTL.
package music

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sori-music/backend/pkg/logger"
	"go.uber.org/zap"
)

const (
	cacheTTL       = 5 * time.Minute
	requestTimeout = 15 * time.Second
)

// Client talks to the music metadata service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	rdb        *redis.Client
}

// NewClient creates a music Client. rdb may be nil to disable caching.
func NewClient(baseURL string, rdb *redis.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		rdb:        rdb,
	}
}

// get performs a GET against the metadata service and returns the raw JSON.
func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("music service returned %d for %s", resp.StatusCode, path)
	}
	return body, nil
}

// getCached serves a path from Redis when warm, forwarding on a miss. Cache
// errors count as misses.
func (c *Client) getCached(ctx context.Context, cacheKey, path string) (json.RawMessage, error) {
	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			logger.L.Warn("music cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, cacheKey, []byte(body), cacheTTL).Err(); err != nil {
			logger.L.Warn("music cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return body, nil
}

// Search runs a full catalog search.
func (c *Client) Search(ctx context.Context, q string) (json.RawMessage, error) {
	return c.get(ctx, "/api/search", url.Values{"q": {q}})
}

// QuickSearch runs the typeahead search.
func (c *Client) QuickSearch(ctx context.Context, q string) (json.RawMessage, error) {
	return c.get(ctx, "/api/search/quick", url.Values{"q": {q}})
}

// SearchSummary returns the condensed search summary.
func (c *Client) SearchSummary(ctx context.Context, q string) (json.RawMessage, error) {
	return c.get(ctx, "/api/search/summary", url.Values{"q": {q}})
}

// Home returns the home feed sections, cached.
func (c *Client) Home(ctx context.Context) (json.RawMessage, error) {
	return c.getCached(ctx, "music:home", "/api/home")
}

// Charts returns the charts, cached.
func (c *Client) Charts(ctx context.Context) (json.RawMessage, error) {
	return c.getCached(ctx, "music:charts", "/api/charts")
}

// Playlist returns a playlist by ID.
func (c *Client) Playlist(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "/api/playlist/"+url.PathEscape(id), nil)
}

// Album returns an album by ID.
func (c *Client) Album(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "/api/album/"+url.PathEscape(id), nil)
}

// ArtistPlaylistID resolves an artist's canonical playlist.
func (c *Client) ArtistPlaylistID(ctx context.Context, artist string) (json.RawMessage, error) {
	return c.get(ctx, "/api/artist/playlist-id", url.Values{"artist": {artist}})
}

// ProvisionArtist asks the service to provision catalog data for an artist.
func (c *Client) ProvisionArtist(ctx context.Context, artist string) (json.RawMessage, error) {
	return c.get(ctx, "/api/provision/artist", url.Values{"artist": {artist}})
}

// YtDlpExtract resolves stream data for a video URL.
func (c *Client) YtDlpExtract(ctx context.Context, videoURL string) (json.RawMessage, error) {
	return c.get(ctx, "/api/ytdlp/extract", url.Values{"url": {videoURL}})
}

// YtDlpFormats lists the available formats for a video URL.
func (c *Client) YtDlpFormats(ctx context.Context, videoURL string) (json.RawMessage, error) {
	return c.get(ctx, "/api/ytdlp/formats", url.Values{"url": {videoURL}})
}

// YtDlpSubtitles lists the available subtitles for a video URL.
func (c *Client) YtDlpSubtitles(ctx context.Context, videoURL string) (json.RawMessage, error) {
	return c.get(ctx, "/api/ytdlp/subtitles", url.Values{"url": {videoURL}})
}

// YtDlpSupportedSites lists the extractor's supported sites.
func (c *Client) YtDlpSupportedSites(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/ytdlp/supported-sites", nil)
}
