package spotify

import (
	"context"

	"melo/internal/domain/playlist"
)

// Interface определяет интерфейс для работы с Spotify API
type Interface interface {
	playlist.TrackFetcher

	// FetchPlaylist получает плейлист вместе с первой страницей треков
	FetchPlaylist(ctx context.Context, playlistID string) (*playlist.Payload, error)
}

var _ Interface = (*Client)(nil)
