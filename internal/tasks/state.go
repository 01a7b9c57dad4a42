package tasks

import (
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/watchlist"
)

// Messages shown to the user.
const (
	NotFoundMessage       string = "Movie not found"
	RatingRequiredMessage string = "Rate this movie first!"
	AlreadyWatchedMessage string = "Already on your list"
)

// State is the application state. Only the update loop mutates it.
type State struct {
	Query   string
	Results []models.SearchResultItem
	Loading bool
	Error   string // shown in place of Results when set

	SelectedID    string
	Detail        *models.MovieDetail
	DetailLoading bool
	DetailError   string
	Rating        int    // editable rating for an unwatched selection, 0 means unrated
	Preview       int    // rating under the cursor before it is confirmed, 0 when idle
	Notice        string // one-shot message for the detail panel

	Watched *watchlist.List

	ResultsOpen bool
	WatchedOpen bool
}

// NewState creates a state around a loaded watched list with both panels open.
func NewState(watched *watchlist.List) *State {
	return &State{Watched: watched, ResultsOpen: true, WatchedOpen: true}
}

// HasSelection reports whether a movie is selected.
func (s *State) HasSelection() bool {
	return s.SelectedID != ""
}

// ToggleResults flips the results panel and reports the new visibility.
func (s *State) ToggleResults() bool {
	s.ResultsOpen = !s.ResultsOpen
	return s.ResultsOpen
}

// ToggleWatched flips the watched panel and reports the new visibility.
func (s *State) ToggleWatched() bool {
	s.WatchedOpen = !s.WatchedOpen
	return s.WatchedOpen
}
