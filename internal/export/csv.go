// Package export содержит выгрузку треков плейлиста в CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"melo/internal/domain/playlist"

	"go.uber.org/zap"
)

const trackURLPrefix = "https://open.spotify.com/track/"

var header = []string{"#", "Track Name", "Artist Name", "Album Name", "Track ID", "Duration (ms)", "Added At", "Track URL"}

// WriteTracks записывает треки в CSV, начиная нумерацию с first
func WriteTracks(w io.Writer, tracks []playlist.Track, first int) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, track := range tracks {
		trackURL := ""
		if track.ID != "" && !track.IsLocal {
			trackURL = trackURLPrefix + track.ID
		}

		record := []string{
			strconv.Itoa(first + i),
			track.Name,
			strings.Join(track.Artists, ", "),
			track.Album,
			track.ID,
			strconv.Itoa(track.DurationMs),
			track.AddedAt,
			trackURL,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write track %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveTracks сохраняет треки в CSV файл, создавая директорию при необходимости
func SaveTracks(filePath string, tracks []playlist.Track, logger *zap.Logger) error {
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := writeAndClose(file, tracks); err != nil {
		logger.Error("Failed to export tracks", zap.String("file_path", filePath), zap.Error(err))
		return err
	}

	logger.Info("Tracks exported successfully", zap.String("file_path", filePath), zap.Int("tracks", len(tracks)))
	return nil
}

// writeAndClose записывает треки и закрывает writer; ошибка закрытия не теряется
func writeAndClose(wc io.WriteCloser, tracks []playlist.Track) (err error) {
	defer func() {
		if closeErr := wc.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close CSV file: %w", closeErr)
		}
	}()

	return WriteTracks(wc, tracks, 1)
}
