package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
)

// FileRepository keeps the watched list in a JSON file.
type FileRepository struct {
	path   string
	logger *log.Logger
}

// NewFileRepository creates a repository for path. The file need not exist.
func NewFileRepository(path string, logger *log.Logger) *FileRepository {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &FileRepository{path: path, logger: shared.WithLogger(logger, "store", "file")}
}

func (r *FileRepository) Load() ([]models.WatchedMovie, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.WatchedMovie{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorage, r.path, err)
	}
	return decodeList(r.logger, data), nil
}

// Save writes to a temp file in the same directory and renames it over the target.
func (r *FileRepository) Save(movies []models.WatchedMovie) error {
	data, err := encodeList(movies)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", shared.ErrStorage, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", shared.ErrStorage, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to write temp file: %v", shared.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to close temp file: %v", shared.ErrStorage, err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to replace %s: %v", shared.ErrStorage, r.path, err)
	}

	r.logger.Debug("saved watched list", "path", r.path, "count", len(movies))
	return nil
}

func (r *FileRepository) Close() error { return nil }
