package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
)

// SQLiteRepository keeps the watched list in the storage table under a single key.
type SQLiteRepository struct {
	db     *sql.DB
	key    string
	logger *log.Logger
}

// NewSQLiteRepository creates a repository over a migrated database.
func NewSQLiteRepository(db *sql.DB, key string, logger *log.Logger) *SQLiteRepository {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SQLiteRepository{db: db, key: key, logger: shared.WithLogger(logger, "store", "sqlite")}
}

func (r *SQLiteRepository) Load() ([]models.WatchedMovie, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM storage WHERE key = ?", r.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.WatchedMovie{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to read %q: %v", shared.ErrStorage, r.key, err)
	}

	movies := decodeList(r.logger, []byte(value))
	r.logger.Debug("loaded watched list", "key", r.key, "count", len(movies))
	return movies, nil
}

func (r *SQLiteRepository) Save(movies []models.WatchedMovie) error {
	data, err := encodeList(movies)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, r.key, string(data)); err != nil {
		return fmt.Errorf("%w: failed to write %q: %v", shared.ErrStorage, r.key, err)
	}

	r.logger.Debug("saved watched list", "key", r.key, "count", len(movies))
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
