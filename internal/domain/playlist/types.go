// Package playlist содержит доменную модель плейлиста и постраничную загрузку его треков.
package playlist

import "context"

// Image представляет обложку плейлиста или аватар пользователя
type Image struct {
	URL    string
	Width  int
	Height int
}

// User представляет владельца плейлиста
type User struct {
	ID          string
	DisplayName string
	URI         string
	Images      []Image
}

// Track представляет элемент плейлиста вместе с метаданными добавления
type Track struct {
	ID         string
	Name       string
	URI        string
	Artists    []string
	Album      string
	DurationMs int
	Explicit   bool

	AddedAt string // RFC3339, как отдает API
	AddedBy string // ID пользователя, добавившего трек
	IsLocal bool
}

// TrackFetcher определяет внешний источник страниц треков.
//
// FetchTracks возвращает до limit элементов начиная с offset в порядке сервера.
// Пустой срез означает конец коллекции.
type TrackFetcher interface {
	FetchTracks(ctx context.Context, playlistID string, limit, offset int) ([]TrackPayload, error)
}

// ImagePayload соответствует объекту image в ответе API
type ImagePayload struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// UserPayload соответствует объекту user в ответе API
type UserPayload struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	URI         string         `json:"uri"`
	Images      []ImagePayload `json:"images"`
}

// ArtistPayload соответствует упрощенному объекту artist
type ArtistPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlbumPayload соответствует упрощенному объекту album
type AlbumPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TrackBodyPayload соответствует объекту track внутри элемента плейлиста
type TrackBodyPayload struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	URI        string          `json:"uri"`
	DurationMs int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Artists    []ArtistPayload `json:"artists"`
	Album      *AlbumPayload   `json:"album,omitempty"`
}

// TrackPayload соответствует элементу tracks.items
type TrackPayload struct {
	AddedAt string            `json:"added_at"`
	AddedBy *UserPayload      `json:"added_by,omitempty"`
	IsLocal bool              `json:"is_local"`
	Track   *TrackBodyPayload `json:"track"`
}

// TracksPayload соответствует объекту tracks плейлиста.
// Total обязателен, Items может отсутствовать (например, в результатах поиска).
type TracksPayload struct {
	Total *int           `json:"total"`
	Items []TrackPayload `json:"items,omitempty"`
}

// FollowersPayload соответствует объекту followers
type FollowersPayload struct {
	Total int `json:"total"`
}

// Payload соответствует объекту playlist в ответе API
type Payload struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Owner         *UserPayload      `json:"owner,omitempty"`
	SnapshotID    string            `json:"snapshot_id"`
	URI           string            `json:"uri"`
	Public        bool              `json:"public"`
	Collaborative bool              `json:"collaborative"`
	Description   string            `json:"description"`
	Followers     *FollowersPayload `json:"followers,omitempty"`
	Images        []ImagePayload    `json:"images"`
	Tracks        *TracksPayload    `json:"tracks"`
}

func newImages(payloads []ImagePayload) []Image {
	images := make([]Image, 0, len(payloads))
	for _, p := range payloads {
		images = append(images, Image(p))
	}
	return images
}

func newUser(p *UserPayload) *User {
	if p == nil {
		return &User{Images: []Image{}}
	}
	return &User{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		URI:         p.URI,
		Images:      newImages(p.Images),
	}
}

// NewTrack строит Track из элемента плейлиста
func NewTrack(p TrackPayload) Track {
	track := Track{
		AddedAt: p.AddedAt,
		IsLocal: p.IsLocal,
		Artists: []string{},
	}
	if p.AddedBy != nil {
		track.AddedBy = p.AddedBy.ID
	}
	if p.Track == nil {
		return track
	}

	body := p.Track
	track.ID = body.ID
	track.Name = body.Name
	track.URI = body.URI
	track.DurationMs = body.DurationMs
	track.Explicit = body.Explicit
	for _, artist := range body.Artists {
		track.Artists = append(track.Artists, artist.Name)
	}
	if body.Album != nil {
		track.Album = body.Album.Name
	}
	return track
}

func newTracks(payloads []TrackPayload) []Track {
	tracks := make([]Track, 0, len(payloads))
	for _, p := range payloads {
		tracks = append(tracks, NewTrack(p))
	}
	return tracks
}
