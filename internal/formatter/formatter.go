// package formatter provides functions to export the watched list to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
)

var csvHeaders = []string{"imdbID", "Title", "Year", "imdbRating", "runtime", "userRating", "Poster"}

// ExportToCSV converts the watched list to CSV with columns: imdbID, Title, Year, imdbRating, runtime, userRating, Poster
//
// Unknown ratings are left blank and runtimes are whole minutes.
func ExportToCSV(movies []models.WatchedMovie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range movies {
		rating := ""
		if r, ok := m.CatalogRating.Value(); ok {
			rating = strconv.FormatFloat(r, 'f', -1, 64)
		}
		record := []string{
			m.ID,
			m.Title,
			m.Year,
			rating,
			strconv.Itoa(int(m.Runtime)),
			strconv.Itoa(m.UserRating),
			m.Poster,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ParseRatingsCSV reads (imdbID, userRating) pairs from CSV with a header row.
//
// Columns are found by header name, so files written by [ExportToCSV] read back directly.
// Title is kept when present. Rows with an unparsable rating fail the whole read.
func ParseRatingsCSV(r io.Reader) ([]models.WatchedMovie, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []models.WatchedMovie{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", shared.ErrInvalidInput, err)
	}

	idCol := slices.IndexFunc(header, func(h string) bool { return strings.EqualFold(h, "imdbID") })
	ratingCol := slices.IndexFunc(header, func(h string) bool { return strings.EqualFold(h, "userRating") })
	titleCol := slices.IndexFunc(header, func(h string) bool { return strings.EqualFold(h, "Title") })
	if idCol < 0 || ratingCol < 0 {
		return nil, fmt.Errorf("%w: CSV needs imdbID and userRating columns", shared.ErrInvalidInput)
	}

	var movies []models.WatchedMovie
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", shared.ErrInvalidInput, line, err)
		}
		if len(record) <= max(idCol, ratingCol) {
			return nil, fmt.Errorf("%w: line %d: missing columns", shared.ErrInvalidInput, line)
		}

		rating, err := strconv.Atoi(strings.TrimSpace(record[ratingCol]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: rating %q", shared.ErrInvalidInput, line, record[ratingCol])
		}

		m := models.WatchedMovie{ID: strings.TrimSpace(record[idCol]), UserRating: rating}
		if titleCol >= 0 && titleCol < len(record) {
			m.Title = record[titleCol]
		}
		movies = append(movies, m)
	}

	return movies, nil
}

// ExportToMarkdown converts the watched list to Markdown.
//
// posters maps movie ids to image paths relative to the document; movies without one get no image.
func ExportToMarkdown(movies []models.WatchedMovie, summary models.Summary, posters map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Movies you watched\n\n")
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n", summary.Count))
	buf.WriteString(fmt.Sprintf("**Average IMDb rating**: %.1f\n", summary.AvgCatalogRating))
	buf.WriteString(fmt.Sprintf("**Average user rating**: %.1f\n", summary.AvgUserRating))
	buf.WriteString(fmt.Sprintf("**Average runtime**: %s\n\n", shared.FormatMinutes(int(summary.AvgRuntime))))

	buf.WriteString("## Movies\n\n")
	for i, m := range movies {
		buf.WriteString(fmt.Sprintf("%d. [%s (%s)](%s) ⭐ %s 🌟 %d ⌛ %s\n",
			i+1, m.Title, m.Year, shared.IMDbURL(m.ID),
			shared.FormatRating(m.CatalogRating.Ptr()), m.UserRating, shared.FormatMinutes(int(m.Runtime))))
		if p, ok := posters[m.ID]; ok && p != "" {
			buf.WriteString(fmt.Sprintf("\n   ![%s poster](%s)\n\n", m.Title, p))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts the watched list to plain text
func ExportToText(movies []models.WatchedMovie, summary models.Summary) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Movies you watched: %d\n", summary.Count))
	buf.WriteString(fmt.Sprintf("Average IMDb rating: %.1f\n", summary.AvgCatalogRating))
	buf.WriteString(fmt.Sprintf("Average user rating: %.1f\n\n", summary.AvgUserRating))

	for i, m := range movies {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) - %d/10\n", i+1, m.Title, m.Year, m.UserRating))
	}

	return buf.Bytes(), nil
}

// HasPoster reports whether the catalog gave a usable poster URL.
func HasPoster(url string) bool {
	return url != "" && url != "N/A"
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile  string
	SummaryFile string
}

// WriteCSVExport exports the watched list to CSV with an accompanying summary JSON file.
//
// Creates {base}_movies.csv and {base}_summary.json; base defaults to "watched".
func WriteCSVExport(movies []models.WatchedMovie, summary models.Summary, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "watched"
	}

	csvData, err := ExportToCSV(movies)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + "_movies.csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := shared.MarshalJSON(summary, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{MoviesFile: moviesFile, SummaryFile: summaryFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Posters   []string
	Warnings  []string // posters that could not be fetched or saved
}

// WriteMarkdownExport exports the watched list to Markdown in a dedicated directory.
//
// Directory name defaults to "watched". With withPosters set, each poster is downloaded to
// {dir}/posters/{id}.jpg; a failed download is recorded as a warning and the movie is listed without it.
func WriteMarkdownExport(movies []models.WatchedMovie, summary models.Summary, outputDir string, withPosters bool) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "watched"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}
	posters := map[string]string{}

	if withPosters {
		posterDir := filepath.Join(outputDir, "posters")
		if err := os.MkdirAll(posterDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create poster directory: %w", err)
		}

		for _, m := range movies {
			if !HasPoster(m.Poster) {
				continue
			}
			imageData, err := DownloadImage(m.Poster)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", m.ID, err))
				continue
			}

			name := m.ID + ".jpg"
			path := filepath.Join(posterDir, name)
			if err := os.WriteFile(path, imageData, 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: failed to save poster: %v", m.ID, err))
				continue
			}
			posters[m.ID] = "posters/" + name
			result.Posters = append(result.Posters, path)
			result.Files = append(result.Files, path)
		}
	}

	mdData, err := ExportToMarkdown(movies, summary, posters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteTextExport exports the watched list to plain text.
//
// Defaults to watched.txt as the filename.
func WriteTextExport(movies []models.WatchedMovie, summary models.Summary, path string) (string, error) {
	if path == "" {
		path = "watched.txt"
	}

	textData, err := ExportToText(movies, summary)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}
