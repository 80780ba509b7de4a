package driving

import "github.com/custodia-labs/chatdesk/internal/core/domain"

// SearchSession coordinates live search over the messages of one thread.
// Implementations are safe for concurrent use.
type SearchSession interface {
	// SetQuery changes the query. Recompilation is debounced.
	SetQuery(query string)

	// SetOptions changes case sensitivity or regex mode. Recompilation is debounced.
	SetOptions(opts domain.SearchOptions)

	// SetRecords replaces the searched messages and recollects immediately.
	SetRecords(records []domain.Message)

	// Clear empties the query and the occurrence list without recompiling.
	Clear()

	// Flush runs any pending debounced recompute now.
	Flush()

	// Advance moves the cursor by delta (+1 or -1), wrapping around.
	// Returns the new snapshot; a no-op when there are no occurrences.
	Advance(delta int) domain.SearchSnapshot

	// Snapshot returns the current state.
	Snapshot() domain.SearchSnapshot

	// ActiveOccurrenceFor returns the segment-local number of the active
	// occurrence if it lies in the given segment, else 0.
	ActiveOccurrenceFor(recordID string, section domain.Section, sourceKey string) int

	// Highlight splits text from the given segment into plain and match
	// spans using the current pattern, marking the active occurrence.
	Highlight(text, recordID string, section domain.Section, sourceKey string) []domain.Span

	// Subscribe registers fn to receive a snapshot after every change.
	// The returned function unsubscribes.
	Subscribe(fn func(domain.SearchSnapshot)) (unsubscribe func())

	// Close stops pending timers and drops all subscribers.
	Close()
}
