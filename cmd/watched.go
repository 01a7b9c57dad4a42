package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/popcorn/internal/formatter"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/tasks"
	"github.com/urfave/cli/v3"
)

// WatchedList prints every movie on the watched list.
func (r *Runner) WatchedList(ctx context.Context, cmd *cli.Command) error {
	list, err := r.watchedList()
	if err != nil {
		return err
	}

	movies := list.Items()
	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	if len(movies) == 0 {
		return r.writePlain("Your watched list is empty. Add a movie with 'popcorn watched add --id ID --rating N'.\n")
	}

	for i, m := range movies {
		r.writePlain("%2d. %s (%s)  ⭐ %s  🌟 %d  ⌛ %s  %s\n",
			i+1, m.Title, m.Year, shared.FormatRating(m.CatalogRating.Ptr()), m.UserRating,
			shared.FormatMinutes(int(m.Runtime)), m.ID)
	}
	r.writeSummary(list.Summary())
	return nil
}

// WatchedAdd looks a movie up and adds it with the given rating.
func (r *Runner) WatchedAdd(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	rating := cmd.Int("rating")

	if !models.ValidRating(rating) {
		return fmt.Errorf("%w: %d", shared.ErrInvalidRating, rating)
	}

	list, err := r.watchedList()
	if err != nil {
		return err
	}
	if m, ok := list.Get(id); ok {
		return fmt.Errorf("%w: %s (rated %d)", shared.ErrAlreadyWatched, m.Title, m.UserRating)
	}

	catalog, err := r.catalogService()
	if err != nil {
		return err
	}
	detail, err := catalog.Detail(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", id, err)
	}

	movie, err := list.Add(*detail, rating)
	if err != nil {
		return err
	}

	r.logger.Info("movie added", "id", movie.ID, "rating", movie.UserRating)
	return r.writePlain("✓ Added %s (%s) with %d/10\n", movie.Title, movie.Year, movie.UserRating)
}

// WatchedRemove deletes a movie from the list.
func (r *Runner) WatchedRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	list, err := r.watchedList()
	if err != nil {
		return err
	}

	removed, err := list.Remove(id)
	if err != nil {
		return err
	}
	if !removed {
		return r.writePlain("%s is not on your list\n", id)
	}
	return r.writePlain("✓ Removed %s\n", id)
}

// WatchedSummary prints the aggregate of the watched list.
func (r *Runner) WatchedSummary(ctx context.Context, cmd *cli.Command) error {
	list, err := r.watchedList()
	if err != nil {
		return err
	}

	summary := list.Summary()
	if cmd.Bool("json") {
		return r.writeJSON(summary, cmd.Bool("pretty"))
	}
	r.writeSummary(summary)
	return nil
}

func (r *Runner) writeSummary(s models.Summary) {
	r.writePlainHeader("Movies you watched")
	r.writePlain("#️⃣  %d movies\n", s.Count)
	r.writePlain("⭐ %.1f average IMDb rating\n", s.AvgCatalogRating)
	r.writePlain("🌟 %.1f average user rating\n", s.AvgUserRating)
	r.writePlain("⌛ %s average runtime\n", shared.FormatMinutes(int(s.AvgRuntime)))
}

// WatchedExport writes the list in the requested format.
func (r *Runner) WatchedExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	list, err := r.watchedList()
	if err != nil {
		return err
	}
	movies, summary := list.Items(), list.Summary()

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(movies, summary, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d movies\n", len(movies))
		r.writePlain("  %s\n  %s\n", result.MoviesFile, result.SummaryFile)
	case "md", "markdown":
		result, err := formatter.WriteMarkdownExport(movies, summary, output, cmd.Bool("posters"))
		if err != nil {
			return err
		}
		for _, w := range result.Warnings {
			r.logger.Warn("poster skipped", "detail", w)
		}
		r.writePlain("✓ Exported %d movies to %s (%d posters)\n", len(movies), result.Directory, len(result.Posters))
	case "txt", "text":
		path, err := formatter.WriteTextExport(movies, summary, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d movies to %s\n", len(movies), path)
	default:
		return fmt.Errorf("%w: format must be csv, md or txt, got %q", shared.ErrInvalidFlag, format)
	}
	return nil
}

// WatchedImport adds rated movies listed in a CSV file.
func (r *Runner) WatchedImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	defer f.Close()

	rows, err := formatter.ParseRatingsCSV(f)
	if err != nil {
		return err
	}

	entries := make([]tasks.ImportEntry, len(rows))
	for i, row := range rows {
		entries[i] = tasks.ImportEntry{ID: row.ID, Rating: row.UserRating}
	}

	list, err := r.watchedList()
	if err != nil {
		return err
	}
	catalog, err := r.catalogService()
	if err != nil {
		return err
	}

	r.writePlain("Importing %d entries from %s...\n", len(entries), path)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ValidateEntries:
				r.writePlain("📋 %s\n", update.Message)
			case tasks.FetchDetails:
				r.writePlain("   🔍 [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.AddMovies:
				r.writePlain("   ✓ %s\n", update.Message)
			}
		}
	}()

	importer := tasks.NewImporter(catalog, list, r.logger)
	report, err := importer.Import(ctx, progressCh, entries, tasks.ImportOpts{NumWorkers: cmd.Int("workers")})
	close(progressCh)
	<-done

	if err != nil && !errors.Is(err, shared.ErrCancelled) {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete")
	r.writePlain("Added: %d  Skipped: %d  Failed: %d  (of %d)\n", report.Added, report.Skipped, report.Failed, report.Total)

	if report.Failed > 0 {
		r.writePlain("\nFailed entries:\n")
		for _, res := range report.Results {
			if res.Error != nil {
				r.writePlain("  - %s: %v\n", res.ID, res.Error)
			}
		}
	}
	return err
}
