package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/popcorn/internal/shared"
)

const (
	MinRating = 1
	MaxRating = 10
)

// SearchResultItem is a single match returned by a catalog title search.
type SearchResultItem struct {
	ID     string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Poster string `json:"Poster"`
}

// MovieDetail is the full catalog record for one title.
type MovieDetail struct {
	ID            string  `json:"imdbID"`
	Title         string  `json:"Title"`
	Year          string  `json:"Year"`
	Released      string  `json:"Released"`
	Runtime       Minutes `json:"Runtime"`
	Genre         string  `json:"Genre"`
	CatalogRating Rating  `json:"imdbRating"`
	Plot          string  `json:"Plot"`
	Actors        string  `json:"Actors"`
	Director      string  `json:"Director"`
	Poster        string  `json:"Poster"`
}

// WatchedMovie is a rated title on the watched list.
type WatchedMovie struct {
	ID            string  `json:"imdbID"`
	Title         string  `json:"Title"`
	Year          string  `json:"Year"`
	Poster        string  `json:"Poster"`
	CatalogRating Rating  `json:"imdbRating"`
	Runtime       Minutes `json:"runtime"`
	UserRating    int     `json:"userRating"`
}

// NewWatchedMovie builds a [WatchedMovie] from catalog detail and the user's rating.
func NewWatchedMovie(detail MovieDetail, rating int) WatchedMovie {
	return WatchedMovie{
		ID:            detail.ID,
		Title:         detail.Title,
		Year:          detail.Year,
		Poster:        detail.Poster,
		CatalogRating: detail.CatalogRating,
		Runtime:       detail.Runtime,
		UserRating:    rating,
	}
}

// ValidRating reports whether r is a user rating the watched list accepts.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Summary aggregates the watched list. Means of empty sets are 0.
type Summary struct {
	Count            int     `json:"count"`
	AvgCatalogRating float64 `json:"avgImdbRating"`
	AvgUserRating    float64 `json:"avgUserRating"`
	AvgRuntime       float64 `json:"avgRuntime"`
}

// Rating is an optional catalog score. A nil value means the catalog had none ("N/A").
//
// It decodes from a JSON number, a numeric string, "N/A" or null and encodes as a number or null.
type Rating struct {
	value *float64
}

// NewRating returns a known rating.
func NewRating(v float64) Rating { return Rating{value: &v} }

// Value returns the rating and whether it is known.
func (r Rating) Value() (float64, bool) {
	if r.value == nil {
		return 0, false
	}
	return *r.value, true
}

// Ptr returns the rating as a pointer, nil when unknown.
func (r Rating) Ptr() *float64 { return r.value }

func (r Rating) MarshalJSON() ([]byte, error) {
	if r.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*r.value)
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		r.value = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			// "N/A" and friends
			r.value = nil
			return nil
		}
		r.value = &v
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid rating %s: %w", data, err)
	}
	r.value = &v
	return nil
}

// Minutes is a runtime in whole minutes. Zero means unknown.
//
// It decodes from a JSON number or a catalog string such as "142 min" and encodes as a number.
type Minutes int

func (m *Minutes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Minutes(shared.ParseMinutes(s))
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid runtime %s: %w", data, err)
	}
	if v < 0 {
		v = 0
	}
	*m = Minutes(int(v))
	return nil
}
