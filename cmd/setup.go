package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the template when missing and initializes storage.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("using existing config", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
		if err := config.ApplyEnv(""); err != nil {
			return err
		}
		r.config = config
		r.writePlain("✓ Created %s\n", configPath)
	}

	r.logger.Info("initializing storage", "driver", r.config.Storage.Driver, "path", r.config.Storage.Path)
	list, err := r.watchedList()
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	r.writePlain("✓ Storage ready: %s (%s, %d movies)\n", r.config.Storage.Path, r.config.Storage.Driver, list.Len())

	if !r.config.HasAPIKey() {
		r.writePlainln("Next steps:")
		r.writePlain("1. Get a key at https://www.omdbapi.com/apikey.aspx\n")
		r.writePlain("2. Set catalog.api_key in %s or export %s\n", configPath, shared.EnvAPIKey)
		r.writePlain("3. Run 'popcorn search \"Lord of the Rings\"' to test it\n")
	}
	return nil
}
