package music

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPassesQueryThrough(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"songs":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	body, err := client.Search(context.Background(), "daft punk")

	require.NoError(t, err)
	assert.Equal(t, "/api/search", gotPath)
	assert.Equal(t, "daft punk", gotQuery)
	assert.JSONEq(t, `{"songs":[]}`, string(body))
}

func TestPlaylistEscapesID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Playlist(context.Background(), "PL/weird id")

	require.NoError(t, err)
	assert.Equal(t, "/api/playlist/PL%2Fweird%20id", gotPath)
}

// An upstream error status is surfaced as an error, never as a body to relay.
func TestUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "artist not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	body, err := client.ArtistPlaylistID(context.Background(), "nobody")

	require.Error(t, err)
	assert.Nil(t, body)
	assert.Contains(t, err.Error(), "404")
}

func TestHomeWithoutRedisForwardsEveryCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"sections":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Home(context.Background())
	require.NoError(t, err)
	_, err = client.Home(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestTrailingSlashBaseURL(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", nil)
	_, err := client.YtDlpSupportedSites(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/api/ytdlp/supported-sites", gotPath)
}

func TestServiceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Charts(context.Background())
	assert.Error(t, err)
}
