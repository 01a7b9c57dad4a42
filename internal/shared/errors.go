package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing catalog API key")

	// Catalog errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrMovieNotFound      = fmt.Errorf("movie not found")
	ErrCancelled          = fmt.Errorf("request cancelled")
	ErrQueryTooShort      = fmt.Errorf("query too short")

	// Watch-list errors
	ErrRatingRequired  = fmt.Errorf("rating required")
	ErrInvalidRating   = fmt.Errorf("rating must be between 1 and 10")
	ErrAlreadyWatched  = fmt.Errorf("movie already on the watched list")
	ErrNothingSelected = fmt.Errorf("no movie selected")
	ErrDetailPending   = fmt.Errorf("movie details not loaded")

	// Storage errors
	ErrStorage = fmt.Errorf("storage failure")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
