package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override config file values.
const (
	EnvAPIKey        = "OMDB_API_KEY"
	EnvBaseURL       = "OMDB_BASE_URL"
	EnvStorageDriver = "POPCORN_STORAGE_DRIVER"
	EnvStoragePath   = "POPCORN_STORAGE_PATH"
)

// ApplyEnv loads the dotenv file at envFile (when present) into the process environment and
// copies any set override variables onto c. Variables already in the environment win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: failed to read %s: %v", ErrInvalidConfig, envFile, err)
		}
	}

	for name, field := range map[string]*string{
		EnvAPIKey:        &c.Catalog.APIKey,
		EnvBaseURL:       &c.Catalog.BaseURL,
		EnvStorageDriver: &c.Storage.Driver,
		EnvStoragePath:   &c.Storage.Path,
	} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*field = v
		}
	}
	return nil
}
