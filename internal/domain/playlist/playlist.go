package playlist

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

const playlistBaseURL = "https://open.spotify.com/playlist/"

// Playlist представляет плейлист с локально закэшированным префиксом треков.
//
// Кэш всегда является непрерывным префиксом серверного списка, начиная с нулевого
// смещения. Playlist не безопасен для конкурентного использования: им владеет
// один вызывающий.
type Playlist struct {
	ID            string
	Name          string
	Owner         *User
	SnapshotID    string
	Href          string
	URI           string
	Public        bool
	Collaborative bool
	Description   string
	Followers     int
	Images        []Image

	tracks     []Track
	totalCount int

	fetcher TrackFetcher
	logger  *zap.Logger
}

// Parse разбирает JSON-ответ API и создает Playlist
func Parse(data []byte, fetcher TrackFetcher, logger *zap.Logger) (*Playlist, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode playlist payload: %w", err)
	}
	return New(&payload, fetcher, logger)
}

// New создает Playlist из разобранного ответа API.
// Поле tracks.total обязательно, остальные поля заполняются значениями по умолчанию.
func New(payload *Payload, fetcher TrackFetcher, logger *zap.Logger) (*Playlist, error) {
	if payload == nil || payload.Tracks == nil {
		return nil, &MissingFieldError{Field: "tracks"}
	}
	if payload.Tracks.Total == nil {
		return nil, &MissingFieldError{Field: "tracks.total"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	followers := 0
	if payload.Followers != nil {
		followers = payload.Followers.Total
	}

	return &Playlist{
		ID:            payload.ID,
		Name:          payload.Name,
		Owner:         newUser(payload.Owner),
		SnapshotID:    payload.SnapshotID,
		Href:          playlistBaseURL + payload.ID,
		URI:           payload.URI,
		Public:        payload.Public,
		Collaborative: payload.Collaborative,
		Description:   payload.Description,
		Followers:     followers,
		Images:        newImages(payload.Images),
		tracks:        newTracks(payload.Tracks.Items),
		totalCount:    *payload.Tracks.Total,
		fetcher:       fetcher,
		logger:        logger,
	}, nil
}

// TotalTracks возвращает количество треков, заявленное сервером
func (p *Playlist) TotalTracks() int {
	return p.totalCount
}

// CachedTracks возвращает число треков в локальном префиксе
func (p *Playlist) CachedTracks() int {
	return len(p.tracks)
}

// IsComplete сообщает, содержит ли кэш весь плейлист
func (p *Playlist) IsComplete() bool {
	return len(p.tracks) >= p.totalCount
}

// DisplayName возвращает имя плейлиста, а при его отсутствии ID или URI
func (p *Playlist) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.ID != "":
		return p.ID
	default:
		return p.URI
	}
}

func (p *Playlist) String() string {
	return p.ID
}
