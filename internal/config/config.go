// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Spotify
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyAPIURL       string
	SpotifyTokenURL     string

	// Logging
	LogLevel string
	LogPath  string

	// HTTP Client
	HTTPClientConfig HTTPClientConfig
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	TLSHandshakeTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Отсутствие .env файла не является ошибкой
	_ = godotenv.Load()

	config := &Config{
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		SpotifyAPIURL:       getEnv("SPOTIFY_API_URL", "https://api.spotify.com/v1/"),
		SpotifyTokenURL:     getEnv("SPOTIFY_TOKEN_URL", "https://accounts.spotify.com/api/token"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogPath:             getEnv("LOG_PATH", "logs/melo.log"),
		HTTPClientConfig: HTTPClientConfig{
			Timeout:             getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
			MaxIdleConns:        getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost: getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
			IdleConnTimeout:     getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
			TLSHandshakeTimeout: getEnvDuration("HTTP_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.SpotifyClientID == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_ID is required")
	}

	if c.SpotifyClientSecret == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_SECRET is required")
	}

	if err := validateURL("SPOTIFY_API_URL", c.SpotifyAPIURL); err != nil {
		return err
	}

	if err := validateURL("SPOTIFY_TOKEN_URL", c.SpotifyTokenURL); err != nil {
		return err
	}

	if c.HTTPClientConfig.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	return nil
}

func validateURL(name, value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, value)
	}
	return nil
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// NewHTTPClient создает HTTP клиент с настройками пула соединений
func (c HTTPClientConfig) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        c.MaxIdleConns,
		MaxIdleConnsPerHost: c.MaxIdleConnsPerHost,
		IdleConnTimeout:     c.IdleConnTimeout,
		TLSHandshakeTimeout: c.TLSHandshakeTimeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   c.Timeout,
	}
}
