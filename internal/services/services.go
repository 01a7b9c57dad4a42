// package services defines interface Catalog for looking up movies over HTTP
//
// OMDb (www.omdbapi.com)
package services

import (
	"context"

	"github.com/desertthunder/popcorn/internal/models"
)

// Catalog defines the read-only lookups offered by a movie metadata provider.
type Catalog interface {
	// Search finds titles matching title.
	//
	// Returns [shared.ErrMovieNotFound] when the provider reports no matches,
	// [shared.ErrCancelled] when ctx is cancelled first and [shared.ErrAPIRequest] for any other failure.
	Search(ctx context.Context, title string) ([]models.SearchResultItem, error)

	// Detail fetches the full record for a catalog id, with the same error kinds as Search.
	Detail(ctx context.Context, id string) (*models.MovieDetail, error)

	// Name returns the name of the provider (e.g., "OMDb")
	Name() string
}
