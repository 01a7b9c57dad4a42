// Package tasks holds the application state and the controllers that change it.
//
// # State
//
// [State] is the single source of truth shared by the CLI and the terminal UI: the query,
// the search results with their loading flag and error message, the selected id with its
// detail, the editable rating, the watched list and the two panel flags.
//
// # Controllers
//
//  1. [SearchController] : owns the query
//     - every change cancels the in-flight search and clears the selection
//     - queries shorter than [MinQueryLength] clear results and error without a request
//     - longer queries return a [SearchRequest] to run off the update loop
//
//  2. [SelectionController] : owns the selected id
//     - selecting returns a [DetailRequest]; selecting again cancels the previous one
//     - rating and "add to list" act on the loaded detail
//
// # Requests and Outcomes
//
// Controllers never block. A request carries its own context and slot generation; its Run
// method does the network call and returns an outcome that the caller hands back to Apply.
// Apply drops outcomes from a superseded generation and outcomes that ended in
// [shared.ErrCancelled], so a stale response can never overwrite newer state.
//
// # Bulk Import
//
// [Importer] adds many (id, rating) pairs to the watched list. Detail lookups run on a worker
// pool while a single collector goroutine applies the additions in input order, and progress is
// reported on a channel with non-blocking sends.
package tasks
