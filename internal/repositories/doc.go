// Package repositories implements persistence for the watched list.
//
// The list is stored as one JSON array under a fixed key, the same layout a browser
// client keeps in localStorage: [{imdbID, Title, Year, Poster, imdbRating, runtime, userRating}, ...].
// Every save replaces the whole value, so a reader never sees a partial list.
//
// Key Implementations:
//   - [SQLiteRepository] : a row in the storage(key, value, updated_at) table, upserted per save
//   - [FileRepository] : a JSON file replaced through a temp file and rename
//
// Both treat a missing value as an empty list. A stored value that does not decode is
// logged at warn level and also read as an empty list; only I/O failures surface as errors.
package repositories
