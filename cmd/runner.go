package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/repositories"
	"github.com/desertthunder/popcorn/internal/services"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/watchlist"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The catalog and the store are built from config on first use unless injected.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	store      repositories.WatchedStore
	ownsStore  bool
	httpClient *http.Client
	opener     func(url string) error
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Store      repositories.WatchedStore
	HTTPClient *http.Client
	Opener     func(url string) error
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Opener == nil {
		opts.Opener = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		store:      opts.Store,
		httpClient: opts.HTTPClient,
		opener:     opts.Opener,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, showCommand, watchedCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// configure runs before every command: it loads the config file when present, applies
// environment overrides and sets the log level.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	r.configPath = path
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
		}
		r.config = config
		r.logger.Debug("config loaded", "path", path)
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	if err := r.config.ApplyEnv(cmd.String("env")); err != nil {
		return ctx, err
	}
	return ctx, r.config.Validate()
}

// Close releases the store when the runner opened it.
func (r *Runner) Close() error {
	if r.store == nil || !r.ownsStore {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	r.ownsStore = false
	return err
}

// SetLogger replaces the logger used by the runner and the services it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// catalogService returns the injected catalog or builds an OMDb client from config.
func (r *Runner) catalogService() (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}
	if !r.config.HasAPIKey() {
		return nil, fmt.Errorf("%w: set catalog.api_key in %s or %s", shared.ErrMissingAPIKey, r.configPath, shared.EnvAPIKey)
	}

	r.catalog = services.NewOMDbService(services.OMDbOpts{
		BaseURL:    r.config.Catalog.BaseURL,
		APIKey:     r.config.Catalog.APIKey,
		RateLimit:  r.config.Catalog.RateLimit,
		Timeout:    r.config.Catalog.Timeout(),
		HTTPClient: r.httpClient,
		Logger:     r.logger,
	})
	return r.catalog, nil
}

// watchedList opens the store (once) and loads the watched list from it.
func (r *Runner) watchedList() (*watchlist.List, error) {
	if r.store == nil {
		store, err := repositories.Open(r.config, r.logger)
		if err != nil {
			return nil, err
		}
		r.store, r.ownsStore = store, true
	}
	return watchlist.Open(r.store, r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
