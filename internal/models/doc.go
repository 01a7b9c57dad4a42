// Package models defines the movie entities shared by the catalog client, the watched list and the UI.
//
// The package contains two categories of types:
//
// 1. Transient catalog data, replaced wholesale on every lookup and never persisted:
//   - [SearchResultItem] : one row of a title search
//   - [MovieDetail] : full metadata for a single title
//
// 2. Persisted data:
//   - [WatchedMovie] : a rated title on the user's watched list
//   - [Summary] : aggregate figures over the watched list
//
// [WatchedMovie] keeps the JSON layout of the web client's localStorage entry
// ({imdbID, Title, Year, Poster, imdbRating, runtime, userRating}) so stored lists stay readable.
// [Rating] and [Minutes] decode the loosely typed values the catalog returns.
package models
