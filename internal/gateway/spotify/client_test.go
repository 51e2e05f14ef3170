package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const playlistItemsJSON = `{
	"href": "",
	"limit": 2,
	"offset": 0,
	"total": 3,
	"items": [
		{
			"added_at": "2024-05-01T10:00:00Z",
			"added_by": {"id": "user1"},
			"is_local": false,
			"track": {
				"type": "track",
				"id": "t1",
				"name": "First",
				"uri": "spotify:track:t1",
				"duration_ms": 200000,
				"explicit": false,
				"artists": [{"id": "a1", "name": "Artist"}],
				"album": {"id": "al1", "name": "Album"}
			}
		},
		{
			"added_at": "2024-05-02T10:00:00Z",
			"added_by": {"id": "user2"},
			"is_local": true,
			"track": {
				"type": "track",
				"id": "t2",
				"name": "Second",
				"uri": "spotify:track:t2",
				"duration_ms": 100000,
				"explicit": true,
				"artists": [],
				"album": {"id": "", "name": ""}
			}
		}
	]
}`

const playlistJSON = `{
	"id": "pl1",
	"name": "Road Trip",
	"owner": {"id": "owner1", "display_name": "Owner"},
	"snapshot_id": "snap1",
	"uri": "spotify:playlist:pl1",
	"public": true,
	"collaborative": false,
	"description": "Songs",
	"followers": {"total": 12},
	"images": [{"url": "https://img/1", "width": 300, "height": 300}],
	"tracks": {
		"total": 75,
		"items": [
			{
				"added_at": "2024-05-01T10:00:00Z",
				"added_by": {"id": "owner1"},
				"is_local": false,
				"track": {"id": "t1", "name": "First", "artists": [{"id": "a1", "name": "Artist"}], "album": {"id": "al1", "name": "Album"}}
			}
		]
	}
}`

type testServer struct {
	*httptest.Server
	tokenRequests atomic.Int32
	expiresIn     atomic.Int32
	lastQuery     atomic.Value
	lastAuth      atomic.Value
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.expiresIn.Store(3600)
	mux := http.NewServeMux()

	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		ts.tokenRequests.Add(1)
		if r.Method != http.MethodPost || !strings.HasPrefix(r.Header.Get("Authorization"), "Basic ") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"access_token": "abc", "token_type": "Bearer", "expires_in": %d}`, ts.expiresIn.Load())
	})

	mux.HandleFunc("/v1/playlists/", func(w http.ResponseWriter, r *http.Request) {
		ts.lastQuery.Store(r.URL.Query())
		ts.lastAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/playlists/broken"):
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"status": 500, "message": "boom"}}`))
		case strings.HasSuffix(r.URL.Path, "/tracks"):
			_, _ = w.Write([]byte(playlistItemsJSON))
		default:
			_, _ = w.Write([]byte(playlistJSON))
		}
	})

	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(t *testing.T, ts *testServer) *Client {
	t.Helper()
	client, err := NewClient(Options{
		ClientID:     "id",
		ClientSecret: "secret",
		APIURL:       ts.URL + "/v1",
		TokenURL:     ts.URL + "/token",
		HTTPClient:   ts.Client(),
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Options{ClientID: "id"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewClient(Options{ClientSecret: "secret"}, zap.NewNop())
	assert.Error(t, err)
}

func TestClient_FetchTracks(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t, ts)

	items, err := client.FetchTracks(context.Background(), "pl1", 2, 40)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "t1", items[0].Track.ID)
	assert.Equal(t, "Artist", items[0].Track.Artists[0].Name)
	assert.Equal(t, "Album", items[0].Track.Album.Name)
	assert.Equal(t, 200000, items[0].Track.DurationMs)
	assert.Equal(t, "user1", items[0].AddedBy.ID)
	assert.True(t, items[1].IsLocal)
	assert.True(t, items[1].Track.Explicit)

	query, ok := ts.lastQuery.Load().(url.Values)
	require.True(t, ok)
	assert.Equal(t, "2", query.Get("limit"))
	assert.Equal(t, "40", query.Get("offset"))
	assert.Equal(t, "Bearer abc", ts.lastAuth.Load())
}

func TestClient_TokenIsCached(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t, ts)

	for i := 0; i < 3; i++ {
		_, err := client.FetchTracks(context.Background(), "pl1", 2, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), ts.tokenRequests.Load())

	// После истечения срока токен запрашивается заново
	client.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err := client.FetchTracks(context.Background(), "pl1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), ts.tokenRequests.Load())
}

func TestClient_FetchTracksError(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t, ts)

	_, err := client.FetchTracks(context.Background(), "broken", 2, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 0")
}

func TestClient_TokenError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid_client"}`))
	}))
	defer server.Close()

	client, err := NewClient(Options{
		ClientID:     "id",
		ClientSecret: "bad",
		APIURL:       server.URL + "/v1/",
		TokenURL:     server.URL + "/token",
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.FetchTracks(context.Background(), "pl1", 10, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestClient_FetchPlaylist(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t, ts)

	payload, err := client.FetchPlaylist(context.Background(), "pl1")
	require.NoError(t, err)

	assert.Equal(t, "pl1", payload.ID)
	assert.Equal(t, "Road Trip", payload.Name)
	assert.Equal(t, "Owner", payload.Owner.DisplayName)
	assert.Equal(t, "snap1", payload.SnapshotID)
	assert.True(t, payload.Public)
	assert.Equal(t, 12, payload.Followers.Total)
	require.Len(t, payload.Images, 1)
	assert.Equal(t, 300, payload.Images[0].Width)
	require.NotNil(t, payload.Tracks.Total)
	assert.Equal(t, 75, *payload.Tracks.Total)
	require.Len(t, payload.Tracks.Items, 1)
	assert.Equal(t, "t1", payload.Tracks.Items[0].Track.ID)
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "web url", input: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "web url with query", input: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "uri", input: "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "empty uri id", input: "spotify:playlist:", wantErr: true},
		{name: "empty url id", input: "https://open.spotify.com/playlist/", wantErr: true},
		{name: "album url", input: "https://open.spotify.com/album/xyz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPlaylistID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_ShortLivedTokenIsCached(t *testing.T) {
	tests := []struct {
		name      string
		expiresIn int32
	}{
		{name: "shorter than leeway", expiresIn: 10},
		{name: "equal to leeway", expiresIn: 30},
		{name: "missing expiry", expiresIn: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.expiresIn.Store(tt.expiresIn)
			client := newTestClient(t, ts)

			for i := 0; i < 3; i++ {
				_, err := client.FetchTracks(context.Background(), "pl1", 2, 0)
				require.NoError(t, err)
			}
			assert.Equal(t, int32(1), ts.tokenRequests.Load())
		})
	}
}

func TestTokenLifetime(t *testing.T) {
	assert.Equal(t, 3570*time.Second, tokenLifetime(3600))
	assert.Equal(t, 10*time.Second, tokenLifetime(10))
	assert.Equal(t, 30*time.Second, tokenLifetime(30))
	assert.Equal(t, time.Hour-tokenExpiryLeeway, tokenLifetime(0))
	assert.Equal(t, time.Hour-tokenExpiryLeeway, tokenLifetime(-5))
}
