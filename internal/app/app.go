package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"melo/internal/domain/playlist"
	"melo/internal/export"
	"melo/internal/gateway/spotify"

	"go.uber.org/zap"
)

// App выполняет команды CLI поверх Spotify API
type App struct {
	api    spotify.Interface
	logger *zap.Logger
}

// New создает приложение
func New(api spotify.Interface, logger *zap.Logger) *App {
	return &App{
		api:    api,
		logger: logger,
	}
}

// LoadPlaylist получает плейлист по URL, URI или голому ID
func (a *App) LoadPlaylist(ctx context.Context, ref string) (*playlist.Playlist, error) {
	playlistID := ref
	if strings.Contains(ref, ":") || strings.Contains(ref, "/") {
		id, err := spotify.ExtractPlaylistID(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to extract playlist ID: %w", err)
		}
		playlistID = id
	}

	payload, err := a.api.FetchPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	p, err := playlist.New(payload, a.api, a.logger.Named("playlist"))
	if err != nil {
		return nil, fmt.Errorf("failed to build playlist %s: %w", playlistID, err)
	}

	a.logger.Debug("Playlist loaded",
		zap.String("playlist_id", p.ID),
		zap.Int("total_tracks", p.TotalTracks()),
		zap.Int("cached_tracks", p.CachedTracks()))

	return p, nil
}

// Info печатает сведения о плейлисте
func (a *App) Info(ctx context.Context, ref string, out io.Writer) error {
	p, err := a.LoadPlaylist(ctx, ref)
	if err != nil {
		return err
	}

	owner := p.Owner.DisplayName
	if owner == "" {
		owner = p.Owner.ID
	}

	lines := []string{
		fmt.Sprintf("Name:          %s", p.DisplayName()),
		fmt.Sprintf("ID:            %s", p.ID),
		fmt.Sprintf("URL:           %s", p.Href),
		fmt.Sprintf("Owner:         %s", owner),
		fmt.Sprintf("Description:   %s", p.Description),
		fmt.Sprintf("Public:        %t", p.Public),
		fmt.Sprintf("Collaborative: %t", p.Collaborative),
		fmt.Sprintf("Followers:     %d", p.Followers),
		fmt.Sprintf("Tracks:        %d", p.TotalTracks()),
		fmt.Sprintf("Snapshot:      %s", p.SnapshotID),
	}
	for _, image := range p.Images {
		lines = append(lines, fmt.Sprintf("Image:         %s (%dx%d)", image.URL, image.Width, image.Height))
	}

	_, err = fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}

// Tracks печатает окно треков в формате CSV
func (a *App) Tracks(ctx context.Context, ref string, limit, offset int, out io.Writer) error {
	p, err := a.LoadPlaylist(ctx, ref)
	if err != nil {
		return err
	}

	tracks, err := p.Tracks(ctx, playlist.WithLimit(limit), playlist.WithOffset(offset))
	if err != nil {
		return fmt.Errorf("failed to get tracks: %w", err)
	}

	return export.WriteTracks(out, tracks, offset+1)
}

// AllTracks печатает все треки плейлиста в формате CSV
func (a *App) AllTracks(ctx context.Context, ref string, out io.Writer) error {
	p, err := a.LoadPlaylist(ctx, ref)
	if err != nil {
		return err
	}

	tracks, err := p.AllTracks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get all tracks: %w", err)
	}

	return export.WriteTracks(out, tracks, 1)
}

// Export сохраняет все треки плейлиста в CSV файл
func (a *App) Export(ctx context.Context, ref, filePath string) error {
	p, err := a.LoadPlaylist(ctx, ref)
	if err != nil {
		return err
	}

	tracks, err := p.AllTracks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get all tracks: %w", err)
	}

	if filePath == "" {
		filePath = p.ID + ".csv"
	} else if !strings.HasSuffix(filePath, ".csv") {
		filePath += ".csv"
	}

	return export.SaveTracks(filePath, tracks, a.logger)
}
