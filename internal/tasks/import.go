package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/services"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/watchlist"
)

// ImportEntry is one (id, rating) pair to add.
type ImportEntry struct {
	ID     string
	Rating int
}

// ImportResult is the fate of one [ImportEntry].
type ImportResult struct {
	ID      string
	Title   string
	Rating  int
	Added   bool
	Skipped bool  // already on the list or repeated in the input
	Error   error // validation, lookup or write failure
}

// ImportReport summarizes an import in input order.
type ImportReport struct {
	Total   int
	Added   int
	Skipped int
	Failed  int
	Results []ImportResult
}

// ImportOpts contains configuration for bulk imports.
type ImportOpts struct {
	NumWorkers int // concurrent detail lookups (default: 4, max: 8)
}

// Importer adds many entries to the watched list, looking details up concurrently.
type Importer struct {
	catalog services.Catalog
	list    *watchlist.List
	logger  *log.Logger
}

func NewImporter(catalog services.Catalog, list *watchlist.List, logger *log.Logger) *Importer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Importer{catalog: catalog, list: list, logger: shared.WithLogger(logger, "task", "import")}
}

type detailJob struct {
	index int
	id    string
}

type detailResult struct {
	index  int
	id     string
	detail *models.MovieDetail
	err    error
}

// Import validates entries, fetches details on a worker pool and adds the found movies in input order.
//
// Per-entry failures are recorded in the report. The returned error is non-nil only when ctx was
// cancelled; entries added before that stay on the list.
func (im *Importer) Import(ctx context.Context, prog chan<- ProgressUpdate, entries []ImportEntry, opts ImportOpts) (*ImportReport, error) {
	if im.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}

	report := &ImportReport{Total: len(entries), Results: make([]ImportResult, len(entries))}
	seen := make(map[string]bool, len(entries))
	var pending []detailJob

	for i, e := range entries {
		res := ImportResult{ID: e.ID, Rating: e.Rating}
		switch {
		case e.ID == "":
			res.Error = fmt.Errorf("%w: empty id", shared.ErrInvalidInput)
		case !models.ValidRating(e.Rating):
			res.Error = fmt.Errorf("%w: %d", shared.ErrInvalidRating, e.Rating)
		case seen[e.ID] || im.list.Has(e.ID):
			res.Skipped = true
		default:
			seen[e.ID] = true
			pending = append(pending, detailJob{index: i, id: e.ID})
		}
		report.Results[i] = res
	}
	sendProgress(prog, validatedUpdate(len(pending), len(entries)))

	details := im.fetchAll(ctx, prog, pending, opts.NumWorkers)
	if err := ctx.Err(); err != nil {
		return im.tally(report), fmt.Errorf("%w: %w", shared.ErrCancelled, err)
	}

	for step, job := range pending {
		res := &report.Results[job.index]
		got := details[job.index]
		if got.err != nil {
			res.Error = got.err
			continue
		}

		movie, err := im.list.Add(*got.detail, res.Rating)
		switch {
		case errors.Is(err, shared.ErrAlreadyWatched):
			res.Skipped = true
		case err != nil:
			res.Error = err
		default:
			res.Added = true
			res.Title = movie.Title
			sendProgress(prog, movieAddedUpdate(step+1, len(pending), movie.Title, movie.UserRating))
		}
	}

	im.tally(report)
	im.logger.Info("import complete", "total", report.Total, "added", report.Added, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// fetchAll runs detail lookups on n workers and returns them keyed by entry index.
func (im *Importer) fetchAll(ctx context.Context, prog chan<- ProgressUpdate, pending []detailJob, n int) map[int]detailResult {
	jobs := make(chan detailJob, len(pending))
	results := make(chan detailResult, len(pending))

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go im.detailWorker(ctx, &wg, jobs, results)
	}

	for _, j := range pending {
		jobs <- j
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[int]detailResult, len(pending))
	completed := 0
	for res := range results {
		completed++
		out[res.index] = res
		if res.err != nil {
			sendProgress(prog, detailFailedUpdate(completed, len(pending), res.id, res.err))
			continue
		}
		sendProgress(prog, detailFetchedUpdate(completed, len(pending), res.detail.Title))
	}
	return out
}

// detailWorker is a worker goroutine that fetches details from the jobs channel.
func (im *Importer) detailWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan detailJob, results chan<- detailResult) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- detailResult{index: job.index, id: job.id, err: fmt.Errorf("%w: %w", shared.ErrCancelled, ctx.Err())}
			continue
		default:
		}

		detail, err := im.catalog.Detail(ctx, job.id)
		if err != nil {
			im.logger.Debug("lookup failed", "id", job.id, "error", err)
		}
		results <- detailResult{index: job.index, id: job.id, detail: detail, err: err}
	}
}

func (im *Importer) tally(report *ImportReport) *ImportReport {
	report.Added, report.Skipped, report.Failed = 0, 0, 0
	for _, r := range report.Results {
		switch {
		case r.Added:
			report.Added++
		case r.Skipped:
			report.Skipped++
		case r.Error != nil:
			report.Failed++
		}
	}
	return report
}
