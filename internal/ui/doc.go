// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The screen is a search box above two panels:
//  1. Results : matches for the current query (at least four characters)
//  2. Watched : the watched list with its summary, or the detail of the selected movie
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Catalog requests run as commands; their outcomes come back as messages and are handed to the task controllers,
// which drop any outcome that a newer query or selection has superseded.
//
// Keyboard navigation uses tab to move between panels, 1-0 or ←/→ to rate, a to add and esc to go back,
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
