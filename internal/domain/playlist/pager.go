package playlist

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	// DefaultLimit размер окна по умолчанию для Tracks
	DefaultLimit = 20

	// FullFetchPageSize размер страницы при полной загрузке плейлиста
	FullFetchPageSize = 50
)

type window struct {
	limit  int
	offset int
}

// WindowOption настраивает окно запроса треков
type WindowOption func(*window)

// WithLimit задает максимальное число возвращаемых треков
func WithLimit(limit int) WindowOption {
	return func(w *window) {
		w.limit = limit
	}
}

// WithOffset задает позицию первого трека
func WithOffset(offset int) WindowOption {
	return func(w *window) {
		w.offset = offset
	}
}

// Tracks возвращает окно треков плейлиста.
//
// Окно отдается из кэша только если префикс целиком его покрывает,
// иначе запрашивается у TrackFetcher. Удаленный ответ кэш не изменяет.
func (p *Playlist) Tracks(ctx context.Context, opts ...WindowOption) ([]Track, error) {
	w := window{limit: DefaultLimit}
	for _, opt := range opts {
		opt(&w)
	}
	if w.limit <= 0 || w.offset < 0 {
		return nil, fmt.Errorf("%w: limit=%d offset=%d", ErrInvalidWindow, w.limit, w.offset)
	}

	end := w.offset + w.limit
	if end <= len(p.tracks) {
		p.logger.Debug("Serving track window from cache",
			zap.String("playlist_id", p.ID),
			zap.Int("offset", w.offset),
			zap.Int("limit", w.limit))

		return cloneTracks(p.tracks[w.offset:end]), nil
	}

	p.logger.Debug("Fetching track window from remote",
		zap.String("playlist_id", p.ID),
		zap.Int("offset", w.offset),
		zap.Int("limit", w.limit),
		zap.Int("cached", len(p.tracks)))

	items, err := p.fetcher.FetchTracks(ctx, p.ID, w.limit, w.offset)
	if err != nil {
		return nil, err
	}
	return newTracks(items), nil
}

// AllTracks загружает весь плейлист страницами по FullFetchPageSize и заменяет кэш.
//
// Если кэш уже полон, удаленные запросы не выполняются. Пустая страница считается
// концом коллекции, после загрузки заявленное количество треков приводится
// к фактически полученному. При ошибке кэш остается прежним.
// Возвращается копия кэша.
func (p *Playlist) AllTracks(ctx context.Context) ([]Track, error) {
	if p.IsComplete() {
		return cloneTracks(p.tracks), nil
	}

	// заявленному total нельзя доверять при выделении памяти
	tracks := make([]Track, 0, FullFetchPageSize)
	for offset := 0; len(tracks) < p.totalCount; offset += FullFetchPageSize {
		items, err := p.fetcher.FetchTracks(ctx, p.ID, FullFetchPageSize, offset)
		if err != nil {
			return nil, err
		}

		p.logger.Debug("Retrieved playlist tracks page",
			zap.String("playlist_id", p.ID),
			zap.Int("offset", offset),
			zap.Int("items_in_page", len(items)))

		if len(items) == 0 {
			break
		}
		tracks = append(tracks, newTracks(items)...)
	}

	if len(tracks) != p.totalCount {
		p.logger.Warn("Declared track total differs from fetched count",
			zap.String("playlist_id", p.ID),
			zap.Int("declared", p.totalCount),
			zap.Int("fetched", len(tracks)))
	}

	p.tracks = tracks
	p.totalCount = len(tracks)
	return cloneTracks(p.tracks), nil
}

func cloneTracks(tracks []Track) []Track {
	result := make([]Track, len(tracks))
	copy(result, tracks)
	return result
}
