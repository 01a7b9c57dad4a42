// Package services defines the [Catalog] interface for movie metadata providers and implements it for OMDb.
//
// # Catalog Interface
//
// A catalog offers two read-only lookups: a title search returning [models.SearchResultItem]
// rows and a detail fetch returning a single [models.MovieDetail]. Both take a
// [context.Context]; cancelling it abandons the call.
//
// # OMDb Implementation
//
// [OMDbService] issues GET requests against the API root with the key in the apikey parameter.
// Requests wait on a token-bucket limiter (golang.org/x/time/rate) before going out,
// and the wait itself honors cancellation.
//
// OMDb answers with HTTP 200 for misses and flags them with Response "False" and an Error message.
// Loosely typed fields (imdbRating "8.8" or "N/A", Runtime "142 min") are decoded by [models.Rating] and [models.Minutes].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMovieNotFound] : the provider reported no match
//   - [shared.ErrAPIRequest] : non-2xx status, network failure, timeout or undecodable body
//   - [shared.ErrCancelled] : the caller cancelled the context first
//
// Callers must treat [shared.ErrCancelled] as a superseded request, never as a failure to show.
package services
