package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
)

// DefaultKey is the storage key the watched list lives under.
const DefaultKey string = "watched"

// WatchedStore reads and writes the full watched list.
type WatchedStore interface {
	// Load returns the stored list, or an empty list when nothing decodable is stored.
	Load() ([]models.WatchedMovie, error)
	// Save replaces the stored list with movies.
	Save(movies []models.WatchedMovie) error
	Close() error
}

// Open creates the [WatchedStore] selected by cfg.Storage.Driver.
func Open(cfg *shared.Config, logger *log.Logger) (WatchedStore, error) {
	key := cfg.Storage.Key
	if key == "" {
		key = DefaultKey
	}

	switch cfg.Storage.Driver {
	case shared.StorageSQLite, "":
		db, err := shared.OpenStorageDatabase(cfg.Storage.Path, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		return NewSQLiteRepository(db, key, logger), nil
	case shared.StorageFile:
		return NewFileRepository(cfg.Storage.Path, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, cfg.Storage.Driver)
	}
}

// decodeList parses a stored value. Malformed data yields an empty list and invalid records are dropped.
func decodeList(logger *log.Logger, data []byte) []models.WatchedMovie {
	if len(data) == 0 {
		return []models.WatchedMovie{}
	}

	var movies []models.WatchedMovie
	if err := json.Unmarshal(data, &movies); err != nil {
		logger.Warn("stored watched list is malformed, starting empty", "error", err)
		return []models.WatchedMovie{}
	}
	return validList(logger, movies)
}

// validList keeps records with an id and a rating in range, first occurrence per id.
func validList(logger *log.Logger, movies []models.WatchedMovie) []models.WatchedMovie {
	kept := make([]models.WatchedMovie, 0, len(movies))
	seen := make(map[string]bool, len(movies))
	for _, m := range movies {
		if m.ID == "" || !models.ValidRating(m.UserRating) || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		kept = append(kept, m)
	}
	if dropped := len(movies) - len(kept); dropped > 0 {
		logger.Warn("dropped invalid stored records", "dropped", dropped, "kept", len(kept))
	}
	return kept
}

func encodeList(movies []models.WatchedMovie) ([]byte, error) {
	if movies == nil {
		movies = []models.WatchedMovie{}
	}
	data, err := json.Marshal(movies)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode watched list: %v", shared.ErrStorage, err)
	}
	return data, nil
}
