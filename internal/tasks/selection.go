package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/services"
	"github.com/desertthunder/popcorn/internal/shared"
)

// SelectionOpts configures a [SelectionController].
type SelectionOpts struct {
	Context context.Context
	Logger  *log.Logger
}

// SelectionController owns the selected movie, its detail and the rating widget.
type SelectionController struct {
	state   *State
	catalog services.Catalog
	slot    Slot
	parent  context.Context
	logger  *log.Logger
}

func NewSelectionController(state *State, catalog services.Catalog, opts SelectionOpts) *SelectionController {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &SelectionController{
		state:   state,
		catalog: catalog,
		parent:  opts.Context,
		logger:  shared.WithLogger(opts.Logger, "controller", "selection"),
	}
}

// DetailRequest is a pending detail fetch.
type DetailRequest struct {
	ID      string
	Gen     uint64
	ctx     context.Context
	catalog services.Catalog
}

// DetailOutcome is the settled result of a [DetailRequest].
type DetailOutcome struct {
	ID     string
	Gen    uint64
	Detail *models.MovieDetail
	Err    error
}

// Select makes id the selected movie and returns the detail fetch for it.
//
// An empty id clears the selection. Re-selecting the current movie returns nil unless its
// last fetch failed. A fetch still in flight for another movie is cancelled.
func (c *SelectionController) Select(id string) *DetailRequest {
	if id == "" {
		c.Clear()
		return nil
	}
	if id == c.state.SelectedID && c.state.DetailError == "" {
		return nil
	}

	ctx, gen := c.slot.Begin(c.parent)
	c.state.SelectedID = id
	c.state.Detail = nil
	c.state.DetailLoading = true
	c.state.DetailError = ""
	c.state.Rating = 0
	c.state.Preview = 0
	c.state.Notice = ""
	c.logger.Debug("detail issued", "id", id, "gen", gen)

	return &DetailRequest{ID: id, Gen: gen, ctx: ctx, catalog: c.catalog}
}

// Run fetches the detail. It blocks.
func (r *DetailRequest) Run() DetailOutcome {
	detail, err := r.catalog.Detail(r.ctx, r.ID)
	return DetailOutcome{ID: r.ID, Gen: r.Gen, Detail: detail, Err: err}
}

// Apply folds a settled detail fetch into state and reports whether it was used.
func (c *SelectionController) Apply(o DetailOutcome) bool {
	if !c.slot.Current(o.Gen) || o.ID != c.state.SelectedID {
		c.logger.Debug("stale detail discarded", "id", o.ID, "gen", o.Gen)
		return false
	}
	if isCancelled(o.Err) {
		c.slot.Finish(o.Gen)
		c.state.DetailLoading = false
		return false
	}

	c.slot.Finish(o.Gen)
	c.state.DetailLoading = false

	switch {
	case o.Err == nil:
		c.state.Detail = o.Detail
		c.state.DetailError = ""
	case errors.Is(o.Err, shared.ErrMovieNotFound):
		c.state.DetailError = NotFoundMessage
	default:
		c.state.DetailError = o.Err.Error()
		c.logger.Warn("detail failed", "id", o.ID, "error", o.Err)
	}
	return true
}

// Clear drops the selection and cancels its fetch.
func (c *SelectionController) Clear() {
	c.slot.Invalidate()
	c.state.SelectedID = ""
	c.state.Detail = nil
	c.state.DetailLoading = false
	c.state.DetailError = ""
	c.state.Rating = 0
	c.state.Preview = 0
	c.state.Notice = ""
}

// Back closes the detail panel.
func (c *SelectionController) Back() {
	c.Clear()
}

// Watched returns the stored entry for the selected movie, if it is on the list.
func (c *SelectionController) Watched() (models.WatchedMovie, bool) {
	if !c.state.HasSelection() || c.state.Watched == nil {
		return models.WatchedMovie{}, false
	}
	return c.state.Watched.Get(c.state.SelectedID)
}

// DisplayedRating is the stored rating for a watched movie, otherwise the preview or the editable rating.
func (c *SelectionController) DisplayedRating() int {
	if m, ok := c.Watched(); ok {
		return m.UserRating
	}
	if c.state.Preview > 0 {
		return c.state.Preview
	}
	return c.state.Rating
}

// Editable reports whether the rating widget accepts input.
func (c *SelectionController) Editable() bool {
	_, watched := c.Watched()
	return c.state.HasSelection() && !watched
}

// SetRating sets the editable rating. Watched movies keep their stored rating.
func (c *SelectionController) SetRating(n int) error {
	if !c.state.HasSelection() {
		return shared.ErrNothingSelected
	}
	if _, ok := c.Watched(); ok {
		return fmt.Errorf("%w: %s", shared.ErrAlreadyWatched, c.state.SelectedID)
	}
	if !models.ValidRating(n) {
		return fmt.Errorf("%w: %d", shared.ErrInvalidRating, n)
	}

	c.state.Rating = n
	c.state.Preview = 0
	c.state.Notice = ""
	return nil
}

// SetPreview shows n on the rating widget without committing it. 0 clears the preview.
func (c *SelectionController) SetPreview(n int) {
	if !c.Editable() || n < 0 || n > models.MaxRating {
		return
	}
	c.state.Preview = n
}

// CanAdd reports whether Add would succeed.
func (c *SelectionController) CanAdd() bool {
	return c.Editable() && c.state.Detail != nil && c.state.Rating > 0
}

// Add puts the selected movie on the watched list with the editable rating.
//
// It fails with [shared.ErrAlreadyWatched] for a listed movie and with [shared.ErrRatingRequired]
// (setting the "rate first" notice) when no rating was given. Neither case mutates the list.
func (c *SelectionController) Add() (models.WatchedMovie, error) {
	if !c.state.HasSelection() {
		return models.WatchedMovie{}, shared.ErrNothingSelected
	}
	if _, ok := c.Watched(); ok {
		c.state.Notice = AlreadyWatchedMessage
		return models.WatchedMovie{}, fmt.Errorf("%w: %s", shared.ErrAlreadyWatched, c.state.SelectedID)
	}
	if c.state.Detail == nil {
		return models.WatchedMovie{}, shared.ErrDetailPending
	}
	if c.state.Rating <= 0 {
		c.state.Notice = RatingRequiredMessage
		return models.WatchedMovie{}, shared.ErrRatingRequired
	}

	movie, err := c.state.Watched.Add(*c.state.Detail, c.state.Rating)
	if err != nil {
		c.state.Notice = err.Error()
		return models.WatchedMovie{}, err
	}

	c.state.Notice = ""
	c.state.Preview = 0
	c.logger.Info("added to watched list", "id", movie.ID, "rating", movie.UserRating)
	return movie, nil
}

// Remove deletes id from the watched list. Absent ids are a no-op.
func (c *SelectionController) Remove(id string) (bool, error) {
	return c.state.Watched.Remove(id)
}
