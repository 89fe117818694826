// Command melodine is a terminal front door to the catalog client core:
// search, browse, playback resolution and queue simulation.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/ajisai/melodine/internal/version"
)

func main() {
	log.SetOutput(os.Stderr)

	r := &Runner{}

	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "melodine.toml",
	}

	app := &cli.Command{
		Name:    "melodine",
		Usage:   "music catalog client",
		Version: version.String(),
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search the catalog",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Restrict results: songs, videos, albums, artists, playlists",
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Number of result pages to fetch",
						Value: 1,
					},
				},
				Action: r.Search,
			},
			{
				Name:      "album",
				Usage:     "Show an album and its tracks",
				ArgsUsage: "<browseId>",
				Flags:     []cli.Flag{configFlag},
				Action:    r.Album,
			},
			{
				Name:      "playlist",
				Usage:     "Show a playlist, following track continuations",
				ArgsUsage: "<playlistId>",
				Flags: []cli.Flag{
					configFlag,
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Number of track pages to fetch",
						Value: 1,
					},
				},
				Action: r.Playlist,
			},
			{
				Name:      "artist",
				Usage:     "Show an artist page",
				ArgsUsage: "<browseId>",
				Flags:     []cli.Flag{configFlag},
				Action:    r.Artist,
			},
			{
				Name:      "lyrics",
				Usage:     "Show lyrics for a track",
				ArgsUsage: "<trackId>",
				Flags:     []cli.Flag{configFlag},
				Action:    r.Lyrics,
			},
			{
				Name:      "resolve",
				Usage:     "Resolve a playable stream for a track",
				ArgsUsage: "<trackId>",
				Flags:     []cli.Flag{configFlag},
				Action:    r.Resolve,
			},
			{
				Name:  "queue",
				Usage: "Simulate a playback session",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "video",
						Usage: "Seed track id",
					},
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Seed playlist id",
					},
					&cli.StringFlag{
						Name:  "album",
						Usage: "Seed album browse id (album radio)",
					},
					&cli.IntFlag{
						Name:  "pages",
						Usage: "Continuation pages to fetch after the initial status",
						Value: 2,
					},
				},
				Action: r.Queue,
			},
			{
				Name:  "version",
				Usage: "Show detailed version information",
				Action: func(_ context.Context, _ *cli.Command) error {
					fmt.Println(version.Info())
					return nil
				},
			},
			{
				Name:  "config",
				Usage: "Configuration management",
				Commands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "Write a default configuration file",
						Flags:  []cli.Flag{configFlag},
						Action: r.ConfigInit,
					},
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
