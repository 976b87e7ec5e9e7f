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
	FetchCatalog Phase = iota
	CacheCatalog
	FetchDetails
	FetchWatchlist
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case FetchCatalog:
		return "fetch_catalog"
	case CacheCatalog:
		return "cache_catalog"
	case FetchDetails:
		return "fetch_details"
	case FetchWatchlist:
		return "fetch_watchlist"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func fetchCatalogUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCatalog,
		Step:    step,
		Total:   total,
		Message: "Fetching catalog...",
	}
}

func cacheCatalogUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheCatalog,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Caching: %s", step, total, title),
	}
}

func fetchDetailsUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching details: %s", step, total, title),
	}
}

func fetchWatchlistUpdate(step, total int, profile string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchWatchlist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching watchlist for %s...", profile),
	}
}

func exportWrittenUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, path),
	}
}

func exportFailedUpdate(step, total int, format string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, format, err),
	}
}
