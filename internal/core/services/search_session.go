package services

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
	"github.com/custodia-labs/chatdesk/internal/finder"
	"github.com/custodia-labs/chatdesk/internal/logger"
)

// Ensure SearchSession implements the interface.
var _ driving.SearchSession = (*SearchSession)(nil)

// invalidPatternInterval bounds how often an invalid pattern is logged.
const invalidPatternInterval = 2 * time.Second

// SearchSession coordinates live search over one thread's messages.
//
// Query and option changes are recompiled after an idle window; a newer
// change cancels the pending one. Record changes recollect immediately with
// the current pattern. Every replacement of the occurrence list resets the
// cursor to 0 and is published to subscribers outside the lock.
type SearchSession struct {
	mu sync.Mutex

	query    string
	opts     domain.SearchOptions
	pattern  *finder.Pattern
	records  []domain.Message
	results  []domain.Occurrence
	cursor   int
	scrollTo string

	debounce time.Duration
	timer    *time.Timer
	gen      uint64
	pending  bool
	closed   bool

	subs   []subscriber
	nextID int

	warn rate.Sometimes
}

type subscriber struct {
	id int
	fn func(domain.SearchSnapshot)
}

// NewSearchSession creates a session with the given initial options and
// debounce window. A zero debounce recompiles synchronously.
func NewSearchSession(settings domain.SearchSettings) *SearchSession {
	debounce := settings.Debounce
	if debounce < 0 {
		debounce = 0
	}
	opts := settings.SearchOptions()
	return &SearchSession{
		opts:     opts,
		pattern:  finder.Compile("", opts),
		results:  []domain.Occurrence{},
		debounce: debounce,
		warn:     rate.Sometimes{First: 1, Interval: invalidPatternInterval},
	}
}

// SetQuery changes the query. An empty query clears the results at once;
// anything else is recompiled after the debounce window.
func (s *SearchSession) SetQuery(query string) {
	s.mu.Lock()
	if s.closed || query == s.query {
		s.mu.Unlock()
		return
	}
	s.query = query

	if strings.TrimSpace(query) == "" {
		s.clearLocked()
		s.publish()
		return
	}
	s.schedule()
}

// SetOptions changes case sensitivity or regex mode.
func (s *SearchSession) SetOptions(opts domain.SearchOptions) {
	s.mu.Lock()
	if s.closed || opts == s.opts {
		s.mu.Unlock()
		return
	}
	s.opts = opts

	if strings.TrimSpace(s.query) == "" {
		s.pattern = finder.Compile("", opts)
		s.mu.Unlock()
		return
	}
	s.schedule()
}

// SetRecords replaces the searched messages and recollects immediately
// with the current pattern.
func (s *SearchSession) SetRecords(records []domain.Message) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.records = make([]domain.Message, len(records))
	copy(s.records, records)
	s.collectLocked()
	s.publish()
}

// Clear empties the query and the results without recompiling.
func (s *SearchSession) Clear() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.query = ""
	s.clearLocked()
	s.publish()
}

// Flush runs a pending debounced recompute now. No-op when nothing is pending.
func (s *SearchSession) Flush() {
	s.mu.Lock()
	if s.closed || !s.pending {
		s.mu.Unlock()
		return
	}
	s.stopTimer()
	s.recomputeLocked()
	s.publish()
}

// Advance moves the cursor by delta, wrapping in both directions.
func (s *SearchSession) Advance(delta int) domain.SearchSnapshot {
	s.mu.Lock()
	n := len(s.results)
	if s.closed || n == 0 || delta == 0 {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}

	s.cursor = ((s.cursor+delta)%n + n) % n
	s.scrollTo = s.results[s.cursor].RecordID

	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return snap
}

// Snapshot returns the current state.
func (s *SearchSession) Snapshot() domain.SearchSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ActiveOccurrenceFor returns the segment-local number of the active
// occurrence if it lies in the given segment, else 0.
func (s *SearchSession) ActiveOccurrenceFor(recordID string, section domain.Section, sourceKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return finder.ActiveIn(s.results, s.cursor, recordID, section, sourceKey)
}

// Highlight splits text into spans with the current pattern and marks the
// active occurrence for the given segment.
func (s *SearchSession) Highlight(text, recordID string, section domain.Section, sourceKey string) []domain.Span {
	s.mu.Lock()
	pattern := s.pattern
	active := finder.ActiveIn(s.results, s.cursor, recordID, section, sourceKey)
	s.mu.Unlock()

	return finder.Highlight(text, pattern, active)
}

// Pattern returns the compiled pattern currently in effect.
func (s *SearchSession) Pattern() *finder.Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pattern
}

// Subscribe registers fn to receive a snapshot after every change.
// fn runs on the goroutine that caused the change, which for debounced
// recomputes is a timer goroutine.
func (s *SearchSession) Subscribe(fn func(domain.SearchSnapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Close stops pending timers and drops all subscribers.
func (s *SearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimer()
	s.pending = false
	s.subs = nil
}

// schedule arms the debounce timer, cancelling any pending one.
// Called with the lock held; releases it.
func (s *SearchSession) schedule() {
	s.stopTimer()
	s.gen++
	s.pending = true

	if s.debounce == 0 {
		s.recomputeLocked()
		s.publish()
		return
	}

	gen := s.gen
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(gen) })
	s.mu.Unlock()
}

func (s *SearchSession) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen || !s.pending {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.recomputeLocked()
	s.publish()
}

// stopTimer cancels the pending timer and invalidates its callback (caller must hold lock).
func (s *SearchSession) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// recomputeLocked compiles the current query and recollects (caller must hold lock).
func (s *SearchSession) recomputeLocked() {
	s.pending = false
	s.pattern = finder.Compile(s.query, s.opts)

	if err := s.pattern.Err(); err != nil {
		query := s.query
		s.warn.Do(func() {
			logger.Warn("Ignoring search pattern %q: %v", query, err)
		})
	}

	logger.Debug("Search pattern %s", s.pattern)
	s.collectLocked()
}

// collectLocked replaces the occurrence list with the current pattern (caller must hold lock).
func (s *SearchSession) collectLocked() {
	s.results = finder.Collect(s.records, s.pattern)
	s.cursor = 0
	s.scrollTo = ""
	if len(s.results) > 0 {
		s.scrollTo = s.results[0].RecordID
	}
}

// clearLocked empties results and cancels any pending recompute (caller must hold lock).
func (s *SearchSession) clearLocked() {
	s.stopTimer()
	s.pending = false
	s.pattern = finder.Compile("", s.opts)
	s.results = []domain.Occurrence{}
	s.cursor = 0
	s.scrollTo = ""
}

func (s *SearchSession) snapshotLocked() domain.SearchSnapshot {
	return domain.SearchSnapshot{
		Query:       s.query,
		Options:     s.opts,
		Occurrences: s.results,
		Cursor:      s.cursor,
		ScrollTo:    s.scrollTo,
		Pending:     s.pending,
		Err:         s.pattern.Err(),
	}
}

func (s *SearchSession) subscribersLocked() []func(domain.SearchSnapshot) {
	fns := make([]func(domain.SearchSnapshot), len(s.subs))
	for i, sub := range s.subs {
		fns[i] = sub.fn
	}
	return fns
}

// publish snapshots the state, releases the lock and notifies subscribers.
func (s *SearchSession) publish() {
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, snap)
}

func notify(subs []func(domain.SearchSnapshot), snap domain.SearchSnapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
