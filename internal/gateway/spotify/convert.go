package spotify

import (
	"melo/internal/domain/playlist"

	"github.com/zmb3/spotify/v2"
)

func convertImages(images []spotify.Image) []playlist.ImagePayload {
	result := make([]playlist.ImagePayload, 0, len(images))
	for _, image := range images {
		result = append(result, playlist.ImagePayload{
			URL:    image.URL,
			Width:  int(image.Width),
			Height: int(image.Height),
		})
	}
	return result
}

func convertUser(user spotify.User) *playlist.UserPayload {
	return &playlist.UserPayload{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		URI:         string(user.URI),
		Images:      convertImages(user.Images),
	}
}

func convertFullTrack(track *spotify.FullTrack) *playlist.TrackBodyPayload {
	if track == nil {
		return nil
	}

	artists := make([]playlist.ArtistPayload, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, playlist.ArtistPayload{
			ID:   string(artist.ID),
			Name: artist.Name,
		})
	}

	return &playlist.TrackBodyPayload{
		ID:         string(track.ID),
		Name:       track.Name,
		URI:        string(track.URI),
		DurationMs: int(track.Duration),
		Explicit:   track.Explicit,
		Artists:    artists,
		Album: &playlist.AlbumPayload{
			ID:   string(track.Album.ID),
			Name: track.Album.Name,
		},
	}
}

// convertPlaylistItem переводит элемент плейлиста в доменный формат.
// Эпизоды подкастов сохраняют позицию, но без тела трека.
func convertPlaylistItem(item spotify.PlaylistItem) playlist.TrackPayload {
	return playlist.TrackPayload{
		AddedAt: item.AddedAt,
		AddedBy: convertUser(item.AddedBy),
		IsLocal: item.IsLocal,
		Track:   convertFullTrack(item.Track.Track),
	}
}

func convertPlaylist(full *spotify.FullPlaylist) *playlist.Payload {
	total := int(full.Tracks.Total)

	items := make([]playlist.TrackPayload, 0, len(full.Tracks.Tracks))
	for i := range full.Tracks.Tracks {
		item := full.Tracks.Tracks[i]
		items = append(items, playlist.TrackPayload{
			AddedAt: item.AddedAt,
			AddedBy: convertUser(item.AddedBy),
			IsLocal: item.IsLocal,
			Track:   convertFullTrack(&item.Track),
		})
	}

	return &playlist.Payload{
		ID:            string(full.ID),
		Name:          full.Name,
		Owner:         convertUser(full.Owner),
		SnapshotID:    full.SnapshotID,
		URI:           string(full.URI),
		Public:        full.IsPublic,
		Collaborative: full.Collaborative,
		Description:   full.Description,
		Followers:     &playlist.FollowersPayload{Total: int(full.Followers.Count)},
		Images:        convertImages(full.Images),
		Tracks: &playlist.TracksPayload{
			Total: &total,
			Items: items,
		},
	}
}
