// submodule cmd contains command definitions
package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "popcorn",
		Usage:   "Search movies and keep a rated list of what you watched",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Path to a dotenv file with overrides",
				Value: ".env",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.configure,
		After:    func(context.Context, *cli.Command) error { return r.Close() },
		Commands: r.register(),
	}
}

// setupCommand creates the config file and initializes storage.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the watched list database",
		Action: r.Setup,
	}
}

// searchCommand searches the catalog by title
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the movie catalog by title",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Search,
	}
}

// showCommand prints the full record of one movie
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show movie details by IMDb id",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the IMDb page in the browser",
			},
		},
		Action: r.Show,
	}
}

// watchedCommand handles watched list operations
func watchedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watched",
		Aliases: []string{"w"},
		Usage:   "Manage the list of movies you watched",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List watched movies",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.WatchedList,
			},
			{
				Name:  "add",
				Usage: "Rate a movie and add it to the list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "IMDb id of the movie",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "rating",
						Aliases:  []string{"r"},
						Usage:    "Your rating from 1 to 10",
						Required: true,
					},
				},
				Action: r.WatchedAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a movie from the list",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "IMDb id of the movie",
						Required: true,
					},
				},
				Action: r.WatchedRemove,
			},
			{
				Name:  "summary",
				Usage: "Show counts and average ratings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.WatchedSummary,
			},
			{
				Name:  "export",
				Usage: "Export the list to CSV, Markdown or text",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md or txt",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output base path (csv), directory (md) or file (txt)",
					},
					&cli.BoolFlag{
						Name:  "posters",
						Usage: "Download posters next to the Markdown export",
					},
				},
				Action: r.WatchedExport,
			},
			{
				Name:  "import",
				Usage: "Add rated movies from a CSV with imdbID and userRating columns",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "CSV file to read",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent catalog lookups",
						Value: 4,
					},
				},
				Action: r.WatchedImport,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "query",
				Usage: "Search to run on start (defaults to ui.initial_query)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where TUI logs are written",
				Value: "./tmp/popcorn-tui.log",
			},
		},
		Action: r.TUI,
	}
}
