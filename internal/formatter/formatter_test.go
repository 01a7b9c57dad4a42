package formatter

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
	th "github.com/desertthunder/popcorn/internal/testing"
)

func sampleMovies(posterURL string) []models.WatchedMovie {
	return []models.WatchedMovie{
		{
			ID:            "tt0120737",
			Title:         "The Lord of the Rings: The Fellowship of the Ring",
			Year:          "2001",
			Poster:        posterURL,
			CatalogRating: models.NewRating(8.9),
			Runtime:       178,
			UserRating:    9,
		},
		{
			ID:         "tt0000001",
			Title:      "Carmencita, \"the dancer\"",
			Year:       "1894",
			Poster:     "N/A",
			UserRating: 5,
		},
	}
}

func sampleSummary() models.Summary {
	return models.Summary{Count: 2, AvgCatalogRating: 8.9, AvgUserRating: 7, AvgRuntime: 178}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleMovies("https://example.com/p.jpg"))
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "imdbID,Title,Year,imdbRating,runtime,userRating,Poster\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "tt0120737,The Lord of the Rings: The Fellowship of the Ring,2001,8.9,178,9,https://example.com/p.jpg") {
			t.Errorf("CSV missing first movie, got: %s", output)
		}
		if !strings.Contains(output, `tt0000001,"Carmencita, ""the dancer""",1894,,0,5,N/A`) {
			t.Errorf("CSV should quote titles and leave unknown ratings blank, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without posters", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleMovies(""), sampleSummary(), nil)
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Movies you watched",
				"**Movies**: 2",
				"**Average IMDb rating**: 8.9",
				"**Average runtime**: 2h 58m",
				"1. [The Lord of the Rings: The Fellowship of the Ring (2001)](https://www.imdb.com/title/tt0120737/)",
				"⭐ N/A 🌟 5 ⌛ -",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got:\n%s", want, output)
				}
			}
			if strings.Contains(output, "![") {
				t.Error("Markdown should not contain images")
			}
		})

		t.Run("with posters", func(t *testing.T) {
			data, _ := ExportToMarkdown(sampleMovies(""), sampleSummary(), map[string]string{"tt0120737": "posters/tt0120737.jpg"})
			if !strings.Contains(string(data), "](posters/tt0120737.jpg)") {
				t.Errorf("Markdown missing poster reference, got:\n%s", data)
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleMovies(""), sampleSummary())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Movies you watched: 2") {
			t.Errorf("Text missing count, got:\n%s", output)
		}
		if !strings.Contains(output, "1. The Lord of the Rings: The Fellowship of the Ring (2001) - 9/10") {
			t.Errorf("Text missing first movie, got:\n%s", output)
		}
	})

	t.Run("ParseRatingsCSV", func(t *testing.T) {
		t.Run("reads its own export", func(t *testing.T) {
			data, _ := ExportToCSV(sampleMovies(""))

			movies, err := ParseRatingsCSV(strings.NewReader(string(data)))
			if err != nil {
				t.Fatalf("ParseRatingsCSV failed: %v", err)
			}
			if len(movies) != 2 || movies[0].ID != "tt0120737" || movies[0].UserRating != 9 || movies[1].Title != `Carmencita, "the dancer"` {
				t.Errorf("unexpected movies %+v", movies)
			}
		})

		t.Run("finds columns by name", func(t *testing.T) {
			movies, err := ParseRatingsCSV(strings.NewReader("userRating,note,imdbID\n7, great ,tt1\n 3,,tt2\n"))
			if err != nil {
				t.Fatalf("ParseRatingsCSV failed: %v", err)
			}
			if len(movies) != 2 || movies[0].ID != "tt1" || movies[0].UserRating != 7 || movies[1].UserRating != 3 {
				t.Errorf("unexpected movies %+v", movies)
			}
		})

		t.Run("empty input", func(t *testing.T) {
			movies, err := ParseRatingsCSV(strings.NewReader(""))
			if err != nil || len(movies) != 0 {
				t.Errorf("expected empty result, got %v %v", movies, err)
			}
		})

		t.Run("rejects bad input", func(t *testing.T) {
			for name, input := range map[string]string{
				"missing columns": "id,rating\ntt1,5\n",
				"bad rating":      "imdbID,userRating\ntt1,five\n",
				"short row":       "imdbID,userRating\ntt1\n",
			} {
				if _, err := ParseRatingsCSV(strings.NewReader(input)); err == nil {
					t.Errorf("%s: expected error", name)
				}
			}
		})
	})

	t.Run("HasPoster", func(t *testing.T) {
		for url, want := range map[string]bool{"": false, "N/A": false, "https://example.com/p.jpg": true} {
			if HasPoster(url) != want {
				t.Errorf("HasPoster(%q) != %v", url, want)
			}
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "jpegdata" {
			t.Errorf("unexpected data %q", data)
		}
	})

	t.Run("BadStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil || !strings.Contains(err.Error(), "404") {
			t.Errorf("expected status error, got %v", err)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			t.Chdir(t.TempDir())

			result, err := WriteCSVExport(sampleMovies(""), sampleSummary(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if result.MoviesFile != "watched_movies.csv" || result.SummaryFile != "watched_summary.json" {
				t.Errorf("unexpected result %+v", result)
			}
			th.AssertFileExists(t, result.MoviesFile)

			if content := th.MustReadFile(t, result.SummaryFile); !strings.Contains(content, `"avgImdbRating": 8.9`) {
				t.Errorf("summary missing rating, got %s", content)
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "mine")

			result, err := WriteCSVExport(sampleMovies(""), sampleSummary(), base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			th.AssertFileExists(t, base+"_movies.csv")
			th.AssertFileExists(t, result.SummaryFile)
		})

		t.Run("UnwritablePath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "missing", "mine")
			if _, err := WriteCSVExport(sampleMovies(""), sampleSummary(), base); err == nil {
				t.Error("expected error writing into a missing directory")
			}
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithDefaultDirectory", func(t *testing.T) {
			t.Chdir(t.TempDir())

			result, err := WriteMarkdownExport(sampleMovies(""), sampleSummary(), "", false)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			th.AssertDirExists(t, result.Directory)

			content := th.MustReadFile(t, filepath.Join("watched", "README.md"))
			if !strings.Contains(content, "# Movies you watched") {
				t.Errorf("README missing heading, got %s", content)
			}
		})

		t.Run("WithPosters", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/missing.jpg" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				w.Write([]byte("jpegdata"))
			}))
			defer server.Close()

			movies := sampleMovies(server.URL + "/p.jpg")
			movies = append(movies, models.WatchedMovie{ID: "tt2", Title: "Gone", Year: "2020", Poster: server.URL + "/missing.jpg", UserRating: 3})
			dir := filepath.Join(t.TempDir(), "export")

			result, err := WriteMarkdownExport(movies, sampleSummary(), dir, true)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if len(result.Posters) != 1 {
				t.Fatalf("expected 1 poster, got %v", result.Posters)
			}
			if len(result.Warnings) != 1 || !strings.HasPrefix(result.Warnings[0], "tt2:") {
				t.Errorf("expected a warning for tt2, got %v", result.Warnings)
			}
			if got := th.MustReadFile(t, filepath.Join(dir, "posters", "tt0120737.jpg")); got != "jpegdata" {
				t.Errorf("unexpected poster content %q", got)
			}

			readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
			if !strings.Contains(readme, "](posters/tt0120737.jpg)") || strings.Contains(readme, "posters/tt2.jpg") {
				t.Errorf("README poster references wrong:\n%s", readme)
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			t.Chdir(t.TempDir())

			path, err := WriteTextExport(sampleMovies(""), sampleSummary(), "")
			if err != nil {
				t.Fatalf("WriteTextExport failed: %v", err)
			}
			if path != "watched.txt" {
				t.Errorf("expected watched.txt, got %s", path)
			}
			th.AssertFileExists(t, path)
		})

		t.Run("UnwritablePath", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing", "watched.txt")
			if _, err := WriteTextExport(sampleMovies(""), sampleSummary(), path); err == nil {
				t.Error("expected error writing into a missing directory")
			}
		})
	})

	t.Run("summary JSON uses storage names", func(t *testing.T) {
		data, err := shared.MarshalJSON(sampleSummary(), false)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"avgUserRating":7`) {
			t.Errorf("unexpected summary JSON %s", data)
		}
	})
}
