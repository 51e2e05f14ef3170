// Package spotify реализует клиент для работы с Spotify Web API.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"melo/internal/domain/playlist"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
)

const (
	// DefaultAPIURL базовый адрес Web API
	DefaultAPIURL = "https://api.spotify.com/v1/"
	// DefaultTokenURL адрес выдачи токенов Client Credentials Flow
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	// токен обновляется заранее, чтобы не истечь посреди запроса
	tokenExpiryLeeway = 30 * time.Second
	// срок жизни токена, если сервер не прислал expires_in
	defaultTokenLifetime = time.Hour
)

// tokenTransport добавляет токен к каждому запросу
type tokenTransport struct {
	base      http.RoundTripper
	token     string
	tokenType string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTripper не должен менять исходный запрос
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", t.tokenType+" "+t.token)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(req)
}

// Options содержит параметры клиента
type Options struct {
	ClientID     string
	ClientSecret string
	APIURL       string
	TokenURL     string
	HTTPClient   *http.Client
}

// Client представляет клиент для работы с Spotify API
type Client struct {
	clientID     string
	clientSecret string
	apiURL       string
	tokenURL     string
	httpClient   *http.Client
	logger       *zap.Logger

	mu        sync.Mutex
	api       *spotify.Client
	expiresAt time.Time
	now       func() time.Time
}

var _ playlist.TrackFetcher = (*Client)(nil)

// NewClient создает новый Spotify клиент с использованием Client Credentials Flow
func NewClient(opts Options, logger *zap.Logger) (*Client, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret are required")
	}
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if !strings.HasSuffix(opts.APIURL, "/") {
		opts.APIURL += "/"
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	logger.Info("Spotify client created successfully with client credentials flow",
		zap.String("api_url", opts.APIURL))

	return &Client{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		apiURL:       opts.APIURL,
		tokenURL:     opts.TokenURL,
		httpClient:   opts.HTTPClient,
		logger:       logger,
		now:          time.Now,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// requestToken получает access token по client credentials
func (c *Client) requestToken(ctx context.Context) (*tokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Failed to close response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if token.AccessToken == "" {
		return nil, fmt.Errorf("no access token received")
	}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}

	return &token, nil
}

// spotifyClient возвращает закэшированный клиент API, обновляя токен по истечении
func (c *Client) spotifyClient(ctx context.Context) (*spotify.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api != nil && c.now().Before(c.expiresAt) {
		return c.api, nil
	}

	c.logger.Debug("Requesting new Spotify access token")
	token, err := c.requestToken(ctx)
	if err != nil {
		return nil, err
	}

	tokenClient := &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &tokenTransport{
			base:      c.httpClient.Transport,
			token:     token.AccessToken,
			tokenType: token.TokenType,
		},
	}

	c.api = spotify.New(tokenClient, spotify.WithBaseURL(c.apiURL))
	c.expiresAt = c.now().Add(tokenLifetime(token.ExpiresIn))

	return c.api, nil
}

// tokenLifetime возвращает время использования токена с запасом на обновление
func tokenLifetime(expiresIn int) time.Duration {
	lifetime := time.Duration(expiresIn) * time.Second
	if expiresIn <= 0 {
		lifetime = defaultTokenLifetime
	}
	if lifetime > tokenExpiryLeeway {
		return lifetime - tokenExpiryLeeway
	}
	return lifetime
}

// FetchTracks получает одну страницу элементов плейлиста
func (c *Client) FetchTracks(ctx context.Context, playlistID string, limit, offset int) ([]playlist.TrackPayload, error) {
	client, err := c.spotifyClient(ctx)
	if err != nil {
		c.logger.Error("Failed to create Spotify client", zap.Error(err))
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	c.logger.Debug("Requesting playlist items page",
		zap.String("playlist_id", playlistID),
		zap.Int("offset", offset),
		zap.Int("limit", limit))

	page, err := client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		c.logger.Error("Spotify API request failed",
			zap.String("playlist_id", playlistID),
			zap.Int("offset", offset),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get playlist tracks at offset %d: %w", offset, err)
	}

	c.logger.Debug("Retrieved playlist items page",
		zap.String("playlist_id", playlistID),
		zap.Int("offset", offset),
		zap.Int("items_in_page", len(page.Items)),
		zap.Int("total_items", int(page.Total)))

	items := make([]playlist.TrackPayload, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, convertPlaylistItem(item))
	}

	return items, nil
}

// FetchPlaylist получает плейлист вместе с первой страницей треков
func (c *Client) FetchPlaylist(ctx context.Context, playlistID string) (*playlist.Payload, error) {
	client, err := c.spotifyClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	c.logger.Debug("Requesting playlist info from Spotify API", zap.String("playlist_id", playlistID))
	full, err := client.GetPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	return convertPlaylist(full), nil
}

// ExtractPlaylistID извлекает ID плейлиста из URL
func ExtractPlaylistID(playlistURL string) (string, error) {
	// Поддерживаем разные форматы URL:
	// https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M
	// spotify:playlist:37i9dQZF1DXcBWIGoYBM5M

	if strings.HasPrefix(playlistURL, "spotify:playlist:") {
		id := strings.TrimPrefix(playlistURL, "spotify:playlist:")
		if id == "" {
			return "", fmt.Errorf("empty playlist ID in URI")
		}
		return id, nil
	}

	if strings.Contains(playlistURL, "open.spotify.com/playlist/") {
		parts := strings.Split(playlistURL, "/playlist/")
		if len(parts) != 2 {
			return "", fmt.Errorf("invalid playlist URL format")
		}
		// Убираем возможные параметры после ID
		playlistID := strings.Split(parts[1], "?")[0]
		playlistID = strings.TrimSuffix(playlistID, "/")
		if playlistID == "" {
			return "", fmt.Errorf("invalid playlist URL format")
		}
		return playlistID, nil
	}

	return "", fmt.Errorf("unsupported playlist URL format")
}
