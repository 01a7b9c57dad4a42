package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/services"
	"github.com/desertthunder/popcorn/internal/shared"
)

// MinQueryLength is the shortest query that reaches the catalog.
const MinQueryLength int = 4

// SearchOpts configures a [SearchController].
type SearchOpts struct {
	Context  context.Context // parent of every request context; defaults to [context.Background]
	Debounce time.Duration   // wait before a request goes out; 0 sends immediately
	Logger   *log.Logger
}

// SearchController owns the query and the search results.
type SearchController struct {
	state     *State
	catalog   services.Catalog
	selection *SelectionController
	slot      Slot
	parent    context.Context
	debounce  time.Duration
	logger    *log.Logger
}

// NewSearchController creates a controller. selection is cleared on every query change and may be nil.
func NewSearchController(state *State, catalog services.Catalog, selection *SelectionController, opts SearchOpts) *SearchController {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &SearchController{
		state:     state,
		catalog:   catalog,
		selection: selection,
		parent:    opts.Context,
		debounce:  opts.Debounce,
		logger:    shared.WithLogger(opts.Logger, "controller", "search"),
	}
}

// SearchRequest is a pending catalog search. Run it off the update loop and pass the outcome to Apply.
type SearchRequest struct {
	Query    string
	Gen      uint64
	ctx      context.Context
	catalog  services.Catalog
	debounce time.Duration
}

// SearchOutcome is the settled result of a [SearchRequest].
type SearchOutcome struct {
	Query   string
	Gen     uint64
	Results []models.SearchResultItem
	Err     error
}

// SetQuery records a new query.
//
// Any change cancels the in-flight search and clears the selection. Queries shorter than
// [MinQueryLength] clear results and error and return nil; otherwise the returned request
// must be run for the results to arrive. An unchanged query returns nil.
func (c *SearchController) SetQuery(q string) *SearchRequest {
	if q == c.state.Query {
		return nil
	}
	c.state.Query = q
	if c.selection != nil {
		c.selection.Clear()
	}
	return c.issue()
}

// Refresh re-sends the current query, cancelling any search in flight.
func (c *SearchController) Refresh() *SearchRequest {
	return c.issue()
}

func (c *SearchController) issue() *SearchRequest {
	q := c.state.Query
	if utf8.RuneCountInString(q) < MinQueryLength {
		c.slot.Invalidate()
		c.state.Results = nil
		c.state.Error = ""
		c.state.Loading = false
		c.logger.Debug("query below minimum length", "query", q)
		return nil
	}

	ctx, gen := c.slot.Begin(c.parent)
	c.state.Error = ""
	c.state.Loading = true
	c.logger.Debug("search issued", "query", q, "gen", gen)

	return &SearchRequest{Query: q, Gen: gen, ctx: ctx, catalog: c.catalog, debounce: c.debounce}
}

// Run waits out the debounce, then queries the catalog. It blocks; cancellation ends it early.
func (r *SearchRequest) Run() SearchOutcome {
	out := SearchOutcome{Query: r.Query, Gen: r.Gen}

	if r.debounce > 0 {
		timer := time.NewTimer(r.debounce)
		defer timer.Stop()

		select {
		case <-r.ctx.Done():
			out.Err = fmt.Errorf("%w: %w", shared.ErrCancelled, r.ctx.Err())
			return out
		case <-timer.C:
		}
	}

	out.Results, out.Err = r.catalog.Search(r.ctx, r.Query)
	return out
}

// Apply folds a settled search into state and reports whether it was used.
//
// Outcomes from a superseded request are dropped without touching state. A cancelled outcome
// for the current request only ends loading; results and error are kept.
func (c *SearchController) Apply(o SearchOutcome) bool {
	if !c.slot.Current(o.Gen) {
		c.logger.Debug("stale search discarded", "query", o.Query, "gen", o.Gen)
		return false
	}
	if isCancelled(o.Err) {
		c.slot.Finish(o.Gen)
		c.state.Loading = false
		c.logger.Debug("cancelled search discarded", "query", o.Query, "gen", o.Gen)
		return false
	}

	c.slot.Finish(o.Gen)
	c.state.Loading = false

	switch {
	case o.Err == nil:
		c.state.Results = o.Results
		c.state.Error = ""
		c.logger.Debug("search applied", "query", o.Query, "results", len(o.Results))
	case errors.Is(o.Err, shared.ErrMovieNotFound):
		c.state.Results = nil
		c.state.Error = NotFoundMessage
	default:
		c.state.Results = nil
		c.state.Error = o.Err.Error()
		c.logger.Warn("search failed", "query", o.Query, "error", o.Err)
	}
	return true
}

// Cancel aborts the in-flight search, if any, and clears the loading flag.
func (c *SearchController) Cancel() {
	c.slot.Invalidate()
	c.state.Loading = false
}

func isCancelled(err error) bool {
	return errors.Is(err, shared.ErrCancelled) || errors.Is(err, context.Canceled)
}
