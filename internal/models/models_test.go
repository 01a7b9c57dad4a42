package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRating(t *testing.T) {
	t.Run("decodes catalog values", func(t *testing.T) {
		tc := []struct {
			name  string
			in    string
			want  float64
			known bool
		}{
			{name: "numeric string", in: `"8.8"`, want: 8.8, known: true},
			{name: "number", in: `7.5`, want: 7.5, known: true},
			{name: "not available", in: `"N/A"`, known: false},
			{name: "null", in: `null`, known: false},
			{name: "padded string", in: `" 6.1 "`, want: 6.1, known: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				var r Rating
				if err := json.Unmarshal([]byte(tt.in), &r); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				got, known := r.Value()
				if known != tt.known || got != tt.want {
					t.Errorf("Value() = (%v, %v), want (%v, %v)", got, known, tt.want, tt.known)
				}
			})
		}
	})

	t.Run("rejects non numeric types", func(t *testing.T) {
		var r Rating
		if err := json.Unmarshal([]byte(`true`), &r); err == nil {
			t.Error("expected error for boolean rating")
		}
	})

	t.Run("encodes as number or null", func(t *testing.T) {
		data, _ := json.Marshal(struct {
			A Rating `json:"a"`
			B Rating `json:"b"`
		}{A: NewRating(8.8)})

		if string(data) != `{"a":8.8,"b":null}` {
			t.Errorf("unexpected encoding %s", data)
		}
	})
}

func TestMinutes(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want Minutes
	}{
		{name: "catalog string", in: `"178 min"`, want: 178},
		{name: "number", in: `142`, want: 142},
		{name: "not available", in: `"N/A"`, want: 0},
		{name: "null", in: `null`, want: 0},
		{name: "negative number", in: `-4`, want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var m Minutes
			if err := json.Unmarshal([]byte(tt.in), &m); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m != tt.want {
				t.Errorf("got %d, want %d", m, tt.want)
			}
		})
	}
}

func TestWatchedMovie(t *testing.T) {
	t.Run("decodes the browser storage layout", func(t *testing.T) {
		stored := `[{"imdbID":"tt0120737","Title":"The Lord of the Rings: The Fellowship of the Ring","Year":"2001","Poster":"https://example.com/p.jpg","imdbRating":"8.9","runtime":"178 min","userRating":9}]`

		var list []WatchedMovie
		if err := json.Unmarshal([]byte(stored), &list); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(list) != 1 {
			t.Fatalf("expected 1 movie, got %d", len(list))
		}
		m := list[0]
		if m.ID != "tt0120737" || m.Year != "2001" || m.UserRating != 9 || m.Runtime != 178 {
			t.Errorf("unexpected movie %+v", m)
		}
		if r, ok := m.CatalogRating.Value(); !ok || r != 8.9 {
			t.Errorf("expected catalog rating 8.9, got %v", r)
		}
	})

	t.Run("encodes with storage keys", func(t *testing.T) {
		data, err := json.Marshal(WatchedMovie{ID: "tt1", Title: "A", Runtime: 90, UserRating: 7})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, key := range []string{`"imdbID":"tt1"`, `"runtime":90`, `"userRating":7`, `"imdbRating":null`} {
			if !strings.Contains(string(data), key) {
				t.Errorf("expected %s in %s", key, data)
			}
		}
	})

	t.Run("NewWatchedMovie copies detail", func(t *testing.T) {
		detail := MovieDetail{ID: "tt1", Title: "A", Year: "1999", Poster: "p", Runtime: 120, CatalogRating: NewRating(7.1)}
		m := NewWatchedMovie(detail, 6)

		if m.ID != "tt1" || m.Title != "A" || m.Year != "1999" || m.Poster != "p" || m.Runtime != 120 || m.UserRating != 6 {
			t.Errorf("unexpected movie %+v", m)
		}
		if r, _ := m.CatalogRating.Value(); r != 7.1 {
			t.Errorf("expected rating 7.1, got %v", r)
		}
	})

	t.Run("ValidRating", func(t *testing.T) {
		for r, want := range map[int]bool{0: false, 1: true, 10: true, 11: false, -1: false} {
			if ValidRating(r) != want {
				t.Errorf("ValidRating(%d) != %v", r, want)
			}
		}
	})
}
