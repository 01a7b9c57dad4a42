// package watchlist holds the ordered, persisted list of rated movies
package watchlist

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
)

// Store is the persistence the list writes through to.
type Store interface {
	Load() ([]models.WatchedMovie, error)
	Save(movies []models.WatchedMovie) error
}

// List is the watched list in insertion order with at most one entry per id.
//
// Every successful mutation writes the full list to the [Store]. When the write fails
// the mutation is undone, so memory and storage never disagree.
type List struct {
	items  []models.WatchedMovie
	store  Store
	logger *log.Logger
}

// Open loads the stored list. Duplicate ids in stored data keep their first occurrence.
func Open(store Store, logger *log.Logger) (*List, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	stored, err := store.Load()
	if err != nil {
		return nil, err
	}

	l := &List{store: store, logger: shared.WithLogger(logger, "component", "watchlist")}
	for _, m := range stored {
		if l.index(m.ID) >= 0 {
			l.logger.Warn("dropping duplicate stored entry", "id", m.ID)
			continue
		}
		l.items = append(l.items, m)
	}
	return l, nil
}

// Add appends a movie built from detail and rating.
func (l *List) Add(detail models.MovieDetail, rating int) (models.WatchedMovie, error) {
	if !models.ValidRating(rating) {
		return models.WatchedMovie{}, fmt.Errorf("%w: %d", shared.ErrInvalidRating, rating)
	}
	if l.Has(detail.ID) {
		return models.WatchedMovie{}, fmt.Errorf("%w: %s", shared.ErrAlreadyWatched, detail.ID)
	}

	movie := models.NewWatchedMovie(detail, rating)
	next := append(slices.Clone(l.items), movie)
	if err := l.commit(next); err != nil {
		return models.WatchedMovie{}, err
	}

	l.logger.Info("added", "id", movie.ID, "title", movie.Title, "rating", rating)
	return movie, nil
}

// Remove deletes the movie with id. It reports whether anything was removed; an absent id is not an error.
func (l *List) Remove(id string) (bool, error) {
	i := l.index(id)
	if i < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(l.items), i, i+1)
	if err := l.commit(next); err != nil {
		return false, err
	}

	l.logger.Info("removed", "id", id)
	return true, nil
}

func (l *List) commit(next []models.WatchedMovie) error {
	if err := l.store.Save(next); err != nil {
		l.logger.Error("write failed, change discarded", "error", err)
		return err
	}
	l.items = next
	return nil
}

// Has reports whether id is on the list.
func (l *List) Has(id string) bool {
	return l.index(id) >= 0
}

// Get returns the movie with id.
func (l *List) Get(id string) (models.WatchedMovie, bool) {
	if i := l.index(id); i >= 0 {
		return l.items[i], true
	}
	return models.WatchedMovie{}, false
}

// Items returns a copy of the list in insertion order.
func (l *List) Items() []models.WatchedMovie {
	return slices.Clone(l.items)
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) index(id string) int {
	return slices.IndexFunc(l.items, func(m models.WatchedMovie) bool { return m.ID == id })
}

// Summary computes count and means over the list.
//
// Unknown catalog ratings and zero runtimes are left out of their means. Any empty mean is 0.
func (l *List) Summary() models.Summary {
	return Summarize(l.items)
}

// Summarize computes a [models.Summary] for movies.
func Summarize(movies []models.WatchedMovie) models.Summary {
	var (
		catalogSum, userSum, runtimeSum float64
		catalogN, runtimeN              int
	)

	for _, m := range movies {
		if r, ok := m.CatalogRating.Value(); ok {
			catalogSum += r
			catalogN++
		}
		if m.Runtime > 0 {
			runtimeSum += float64(m.Runtime)
			runtimeN++
		}
		userSum += float64(m.UserRating)
	}

	return models.Summary{
		Count:            len(movies),
		AvgCatalogRating: mean(catalogSum, catalogN),
		AvgUserRating:    mean(userSum, len(movies)),
		AvgRuntime:       mean(runtimeSum, runtimeN),
	}
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
