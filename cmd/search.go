package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Search prints catalog matches for a title.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	title := strings.TrimSpace(cmd.StringArg("title"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}
	if utf8.RuneCountInString(title) < tasks.MinQueryLength {
		return fmt.Errorf("%w: use at least %d characters", shared.ErrQueryTooShort, tasks.MinQueryLength)
	}

	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	r.logger.Info("searching catalog", "query", title)

	results, err := catalog.Search(ctx, title)
	if errors.Is(err, shared.ErrMovieNotFound) {
		results = []models.SearchResultItem{}
	} else if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(results, pretty)
	}

	if len(results) == 0 {
		return r.writePlain("%s\n", tasks.NotFoundMessage)
	}

	r.writePlain("%d results found\n\n", len(results))
	for i, m := range results {
		r.writePlain("%2d. %s (%s)  %s\n", i+1, m.Title, m.Year, m.ID)
	}
	return nil
}

// Show prints the detail of one movie and whether it is on the watched list.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	detail, err := catalog.Detail(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", id, err)
	}

	if cmd.Bool("open") {
		if err := r.opener(shared.IMDbURL(id)); err != nil {
			r.logger.Warn("failed to open browser", "id", id, "error", err)
		}
	}

	if useJSON {
		return r.writeJSON(detail, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("%s (%s)", detail.Title, detail.Year))
	r.writePlain("Released: %s\n", detail.Released)
	r.writePlain("Runtime:  %s\n", shared.FormatMinutes(int(detail.Runtime)))
	r.writePlain("Genre:    %s\n", detail.Genre)
	r.writePlain("IMDb:     ⭐ %s\n", shared.FormatRating(detail.CatalogRating.Ptr()))
	r.writePlain("Director: %s\n", detail.Director)
	r.writePlain("Starring: %s\n", detail.Actors)
	r.writePlainln("%s", detail.Plot)

	list, err := r.watchedList()
	if err != nil {
		r.logger.Warn("watched list unavailable", "error", err)
		return nil
	}
	if m, ok := list.Get(id); ok {
		r.writePlainln("✓ %s (rated %d/10)", tasks.AlreadyWatchedMessage, m.UserRating)
	}
	return nil
}
