// Package app содержит фабрику компонентов и команды приложения.
package app

import (
	"fmt"

	"melo/internal/config"
	"melo/internal/gateway/spotify"

	"go.uber.org/zap"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) (*ComponentFactory, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}, nil
}

// CreateSpotifyClient создает клиент Spotify Web API
func (f *ComponentFactory) CreateSpotifyClient() (*spotify.Client, error) {
	client, err := spotify.NewClient(spotify.Options{
		ClientID:     f.config.SpotifyClientID,
		ClientSecret: f.config.SpotifyClientSecret,
		APIURL:       f.config.SpotifyAPIURL,
		TokenURL:     f.config.SpotifyTokenURL,
		HTTPClient:   f.config.HTTPClientConfig.NewHTTPClient(),
	}, f.logger.Named("spotify"))
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}
	return client, nil
}

// CreateApp собирает приложение со всеми зависимостями
func (f *ComponentFactory) CreateApp() (*App, error) {
	client, err := f.CreateSpotifyClient()
	if err != nil {
		return nil, err
	}
	return New(client, f.logger), nil
}
