package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/repositories"
	"github.com/desertthunder/popcorn/internal/shared"
	tu "github.com/desertthunder/popcorn/internal/testing"
)

func fellowship() models.MovieDetail {
	return models.MovieDetail{
		ID:            "tt0120737",
		Title:         "The Lord of the Rings: The Fellowship of the Ring",
		Year:          "2001",
		Released:      "19 Dec 2001",
		Runtime:       178,
		Genre:         "Adventure",
		CatalogRating: models.NewRating(8.9),
		Director:      "Peter Jackson",
		Plot:          "A meek Hobbit sets out on a journey.",
	}
}

func towers() models.MovieDetail {
	return models.MovieDetail{
		ID: "tt0167261", Title: "The Lord of the Rings: The Two Towers", Year: "2002",
		Runtime: 179, CatalogRating: models.NewRating(8.8),
	}
}

type testEnv struct {
	runner  *Runner
	output  *bytes.Buffer
	catalog *tu.MockCatalog
	store   *repositories.FileRepository
	opened  []string
	dir     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{output: &bytes.Buffer{}, catalog: tu.NewMockCatalog(), dir: t.TempDir()}
	env.catalog.Results["Lord"] = []models.SearchResultItem{
		{ID: "tt0120737", Title: "The Lord of the Rings: The Fellowship of the Ring", Year: "2001"},
		{ID: "tt0167261", Title: "The Lord of the Rings: The Two Towers", Year: "2002"},
	}
	env.catalog.Details["tt0120737"] = fellowship()
	env.catalog.Details["tt0167261"] = towers()
	env.catalog.Errors["zzzz"] = shared.ErrMovieNotFound
	env.store = repositories.NewFileRepository(filepath.Join(env.dir, "watched.json"), nil)

	env.runner = NewRunner(RunnerOpts{
		Catalog: env.catalog,
		Store:   env.store,
		Logger:  shared.NewLogger(&bytes.Buffer{}),
		Output:  env.output,
		Opener: func(url string) error {
			env.opened = append(env.opened, url)
			return nil
		},
	})
	return env
}

// run executes args against a fresh command tree with no config or dotenv file.
func (e *testEnv) run(args ...string) error {
	base := []string{
		"popcorn",
		"-c", filepath.Join(e.dir, "absent.toml"),
		"--env", filepath.Join(e.dir, "absent.env"),
	}
	return newApp(e.runner).Run(context.Background(), append(base, args...))
}

func (e *testEnv) stored(t *testing.T) []models.WatchedMovie {
	t.Helper()
	movies, err := e.store.Load()
	if err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	return movies
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			catalog := tu.NewMockCatalog()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Catalog:    catalog,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			if runner := NewRunner(RunnerOpts{}); runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "search", "show", "watched", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("configure", func(t *testing.T) {
		t.Run("loads the config file", func(t *testing.T) {
			env := newTestEnv(t)
			configPath := filepath.Join(env.dir, "config.toml")

			config := shared.DefaultConfig()
			config.Storage.Driver = shared.StorageFile
			config.Storage.Path = filepath.Join(env.dir, "list.json")
			if err := shared.SaveConfig(configPath, config); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			err := newApp(env.runner).Run(context.Background(), []string{"popcorn", "-c", configPath, "watched", "summary"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if env.runner.config.Storage.Path != config.Storage.Path {
				t.Errorf("expected config from file, got %+v", env.runner.config.Storage)
			}
		})

		t.Run("rejects invalid config", func(t *testing.T) {
			env := newTestEnv(t)
			configPath := filepath.Join(env.dir, "config.toml")

			config := shared.DefaultConfig()
			config.Storage.Driver = "redis"
			if err := shared.SaveConfig(configPath, config); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			err := newApp(env.runner).Run(context.Background(), []string{"popcorn", "-c", configPath, "watched", "list"})
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("catalogService requires an API key", func(t *testing.T) {
		t.Setenv(shared.EnvAPIKey, "")
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{})})

		if _, err := runner.catalogService(); !errors.Is(err, shared.ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}

		runner.config.Catalog.APIKey = "real-key"
		if svc, err := runner.catalogService(); err != nil || svc.Name() != "OMDb" {
			t.Errorf("expected OMDb service, got %v, %v", svc, err)
		}
	})
}

func TestSetup(t *testing.T) {
	t.Chdir(t.TempDir())
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})

	err := newApp(runner).Run(context.Background(), []string{"popcorn", "--env", "absent.env", "setup"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tu.AssertFileExists(t, "config.toml")
	tu.AssertFileExists(t, "popcorn.db")
	if !strings.Contains(output.String(), "Storage ready") {
		t.Errorf("expected storage message, got %s", output.String())
	}

	if runner.store != nil {
		t.Error("expected store to be closed after the command")
	}
}

func TestSearch(t *testing.T) {
	t.Run("prints results", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("search", "Lord"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		if !strings.Contains(out, "2 results found") || !strings.Contains(out, "tt0167261") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("prints JSON", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("search", "--json", "Lord"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), `"imdbID":"tt0120737"`) {
			t.Errorf("expected JSON output, got %s", env.output.String())
		}
	})

	t.Run("reports not found", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("search", "zzzz"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "Movie not found") {
			t.Errorf("expected not found message, got %s", env.output.String())
		}
	})

	t.Run("rejects short queries without a request", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("search", "Lor"); !errors.Is(err, shared.ErrQueryTooShort) {
			t.Errorf("expected ErrQueryTooShort, got %v", err)
		}
		if len(env.catalog.Queries()) != 0 {
			t.Error("expected no catalog calls")
		}
	})

	t.Run("requires a title", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestShow(t *testing.T) {
	t.Run("prints detail", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("show", "tt0120737"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		for _, want := range []string{"Fellowship", "2h 58m", "8.9", "Peter Jackson"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Already on your list") {
			t.Error("did not expect watched marker")
		}
	})

	t.Run("marks watched movies and opens IMDb", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.store.Save([]models.WatchedMovie{models.NewWatchedMovie(fellowship(), 7)}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		if err := env.run("show", "--open", "tt0120737"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "rated 7/10") {
			t.Errorf("expected watched marker, got %s", env.output.String())
		}
		if len(env.opened) != 1 || env.opened[0] != "https://www.imdb.com/title/tt0120737/" {
			t.Errorf("unexpected opened urls %v", env.opened)
		}
	})

	t.Run("wraps lookup failure", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("show", "tt404"); !errors.Is(err, tu.ErrMockNotFound) {
			t.Errorf("expected lookup error, got %v", err)
		}
	})
}

func TestWatched(t *testing.T) {
	t.Run("add then list", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("watched", "add", "--id", "tt0120737", "--rating", "8"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		stored := env.stored(t)
		if len(stored) != 1 || stored[0].UserRating != 8 {
			t.Fatalf("expected one stored movie rated 8, got %+v", stored)
		}

		env.output.Reset()
		if err := env.run("watched", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := env.output.String()
		if !strings.Contains(out, "Fellowship") || !strings.Contains(out, "1 movies") {
			t.Errorf("unexpected list output:\n%s", out)
		}
	})

	t.Run("add rejects invalid rating before any lookup", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("watched", "add", "--id", "tt0120737", "--rating", "11"); !errors.Is(err, shared.ErrInvalidRating) {
			t.Errorf("expected ErrInvalidRating, got %v", err)
		}
		if len(env.catalog.IDs()) != 0 {
			t.Error("expected no catalog calls")
		}
	})

	t.Run("add rejects duplicates", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.store.Save([]models.WatchedMovie{models.NewWatchedMovie(fellowship(), 7)}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		if err := env.run("watched", "add", "--id", "tt0120737", "--rating", "3"); !errors.Is(err, shared.ErrAlreadyWatched) {
			t.Errorf("expected ErrAlreadyWatched, got %v", err)
		}
		if got := env.stored(t); got[0].UserRating != 7 {
			t.Errorf("expected stored rating to stay 7, got %d", got[0].UserRating)
		}
	})

	t.Run("remove", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.store.Save([]models.WatchedMovie{models.NewWatchedMovie(fellowship(), 7)}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		if err := env.run("watched", "remove", "--id", "tt0120737"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(env.stored(t)) != 0 {
			t.Error("expected empty list")
		}

		env.output.Reset()
		if err := env.run("watched", "rm", "--id", "tt0120737"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "not on your list") {
			t.Errorf("expected absent message, got %s", env.output.String())
		}
	})

	t.Run("summary JSON of an empty list is zero", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run("watched", "summary", "--json", "--pretty=false"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := `{"count":0,"avgImdbRating":0,"avgUserRating":0,"avgRuntime":0}` + "\n"
		if env.output.String() != want {
			t.Errorf("expected %q, got %q", want, env.output.String())
		}
	})

	t.Run("export", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.store.Save([]models.WatchedMovie{models.NewWatchedMovie(fellowship(), 9)}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		base := filepath.Join(env.dir, "out")
		if err := env.run("watched", "export", "--format", "csv", "--output", base); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, base+"_movies.csv")
		tu.AssertFileExists(t, base+"_summary.json")

		txt := filepath.Join(env.dir, "list.txt")
		if err := env.run("watched", "export", "--format", "txt", "--output", txt); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if content := tu.MustReadFile(t, txt); !strings.Contains(content, "9/10") {
			t.Errorf("unexpected text export %s", content)
		}

		md := filepath.Join(env.dir, "md")
		if err := env.run("watched", "export", "-f", "md", "-o", md); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(md, "README.md"))

		if err := env.run("watched", "export", "--format", "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("import", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.store.Save([]models.WatchedMovie{models.NewWatchedMovie(towers(), 6)}); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}

		csvPath := filepath.Join(env.dir, "ratings.csv")
		csv := "imdbID,userRating\ntt0120737,9\ntt0167261,5\ntt404,4\n"
		if err := os.WriteFile(csvPath, []byte(csv), 0644); err != nil {
			t.Fatalf("failed to write csv: %v", err)
		}

		if err := env.run("watched", "import", "--file", csvPath, "--workers", "2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		if !strings.Contains(out, "Added: 1  Skipped: 1  Failed: 1") {
			t.Errorf("unexpected import report:\n%s", out)
		}
		if !strings.Contains(out, "tt404") {
			t.Errorf("expected failed id in output:\n%s", out)
		}
		if got := env.stored(t); len(got) != 2 {
			t.Errorf("expected 2 stored movies, got %d", len(got))
		}
	})

	t.Run("import of a missing file fails", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.run("watched", "import", "--file", filepath.Join(env.dir, "nope.csv"))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
