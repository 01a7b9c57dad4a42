package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ValidateEntries Phase = iota
	FetchDetails
	AddMovies
)

func (p Phase) String() string {
	switch p {
	case ValidateEntries:
		return "validate_entries"
	case FetchDetails:
		return "fetch_details"
	case AddMovies:
		return "add_movies"
	default:
		return ""
	}
}

// sendProgress never blocks; updates are dropped when nobody is reading.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func validatedUpdate(queued, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ValidateEntries,
		Step:    queued,
		Total:   total,
		Message: fmt.Sprintf("%d of %d entries queued for lookup", queued, total),
	}
}

func detailFetchedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetched %s", title),
		Data:    title,
	}
}

func detailFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Lookup failed for %s: %v", id, err),
		Data:    err,
	}
}

func movieAddedUpdate(step, total int, title string, rating int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddMovies,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Added %s (%d/10)", title, rating),
	}
}
