// Package main запускает CLI melo для просмотра плейлистов Spotify.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"melo/internal/app"
	"melo/internal/config"
	"melo/internal/domain/playlist"
	"melo/pkg/logger"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// playlistArg возвращает первый позиционный аргумент команды
func playlistArg(c *cli.Context) (string, error) {
	ref := c.Args().First()
	if ref == "" {
		return "", fmt.Errorf("playlist URL, URI or ID is required")
	}
	return ref, nil
}

// withApp загружает конфигурацию, создает логгер и приложение для команды
func withApp(run func(c *cli.Context, a *app.App, ref string) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ref, err := playlistArg(c)
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if level := c.String("log-level"); level != "" {
			cfg.LogLevel = level
		}

		log := logger.New(cfg.LogLevel, cfg.LogPath)
		defer func() { _ = log.Sync() }()

		factory, err := app.NewComponentFactory(cfg, log)
		if err != nil {
			return err
		}
		a, err := factory.CreateApp()
		if err != nil {
			log.Error("Failed to create app", zap.Error(err))
			return err
		}

		if err := run(c, a, ref); err != nil {
			log.Error("Command failed", zap.String("command", c.Command.Name), zap.Error(err))
			return err
		}
		return nil
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:      "melo",
		Usage:     "Inspect Spotify playlists and page through their tracks",
		ArgsUsage: "<playlist>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error (overrides LOG_LEVEL)",
				EnvVars: []string{"MELO_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "Show playlist details",
				ArgsUsage: "<playlist>",
				Action: withApp(func(c *cli.Context, a *app.App, ref string) error {
					return a.Info(c.Context, ref, c.App.Writer)
				}),
			},
			{
				Name:      "tracks",
				Usage:     "Print a window of playlist tracks as CSV",
				ArgsUsage: "<playlist>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: playlist.DefaultLimit, Usage: "maximum number of tracks"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "index of the first track"},
				},
				Action: withApp(func(c *cli.Context, a *app.App, ref string) error {
					return a.Tracks(c.Context, ref, c.Int("limit"), c.Int("offset"), c.App.Writer)
				}),
			},
			{
				Name:      "all",
				Usage:     "Print every track of the playlist as CSV",
				ArgsUsage: "<playlist>",
				Action: withApp(func(c *cli.Context, a *app.App, ref string) error {
					return a.AllTracks(c.Context, ref, c.App.Writer)
				}),
			},
			{
				Name:      "export",
				Usage:     "Save every track of the playlist to a CSV file",
				ArgsUsage: "<playlist>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"out"}, Usage: "CSV file path (default: <playlist id>.csv)"},
				},
				Action: withApp(func(c *cli.Context, a *app.App, ref string) error {
					if err := a.Export(c.Context, ref, c.String("output")); err != nil {
						return err
					}
					_, err := fmt.Fprintln(c.App.Writer, "Playlist exported successfully")
					return err
				}),
			},
		},
	}
}
