package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
)

var (
	_ list.Item = resultItem{}
	_ list.Item = watchedItem{}
)

// resultItem wraps [models.SearchResultItem] to implement [list.Item].
type resultItem struct {
	movie models.SearchResultItem
}

func (i resultItem) FilterValue() string { return i.movie.Title }
func (i resultItem) Title() string       { return i.movie.Title }
func (i resultItem) Description() string { return "📅 " + i.movie.Year }

// watchedItem wraps [models.WatchedMovie] to implement [list.Item].
type watchedItem struct {
	movie models.WatchedMovie
}

func (i watchedItem) FilterValue() string { return i.movie.Title }
func (i watchedItem) Title() string       { return i.movie.Title }
func (i watchedItem) Description() string {
	return fmt.Sprintf("⭐ %s  🌟 %d  ⌛ %s",
		shared.FormatRating(i.movie.CatalogRating.Ptr()), i.movie.UserRating, shared.FormatMinutes(int(i.movie.Runtime)))
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
