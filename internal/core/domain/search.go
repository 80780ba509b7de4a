package domain

// SearchOptions configures how a query is interpreted.
type SearchOptions struct {
	// CaseSensitive disables case folding.
	CaseSensitive bool `json:"case_sensitive"`

	// UseRegex treats the query as an ECMAScript regular expression
	// instead of a literal substring.
	UseRegex bool `json:"use_regex"`
}

// Section names the part of a message a text segment was taken from.
type Section string

// Searchable sections.
const (
	SectionBody          Section = "body"
	SectionSourceTitle   Section = "source-title"
	SectionSourceContent Section = "source-content"
)

// IsSource reports whether the section belongs to an answer source.
func (s Section) IsSource() bool {
	return s == SectionSourceTitle || s == SectionSourceContent
}

// String returns the string representation.
func (s Section) String() string {
	return string(s)
}

// Occurrence is one flattened search hit.
// Occurrence numbering restarts for every (RecordID, Section, SourceKey) segment.
type Occurrence struct {
	// RecordID is the message the hit belongs to.
	RecordID string `json:"record_id"`

	// Section is the segment kind the hit was found in.
	Section Section `json:"section"`

	// SourceKey identifies the source for source sections ("<type>:<id>").
	// Empty for body hits.
	SourceKey string `json:"source_key,omitempty"`

	// Occurrence is the 1-based number of the hit within its segment.
	Occurrence int `json:"occurrence"`

	// Start is the rune offset of the hit within the segment text.
	Start int `json:"start"`

	// End is the rune offset just past the hit.
	End int `json:"end"`
}

// InSegment reports whether the occurrence belongs to the given segment.
func (o *Occurrence) InSegment(recordID string, section Section, sourceKey string) bool {
	return o.RecordID == recordID && o.Section == section && o.SourceKey == sourceKey
}

// Span is one piece of a highlighted text segment.
type Span struct {
	// Text is the literal text of the span.
	Text string `json:"text"`

	// Match is true for matched text, false for the gaps between matches.
	Match bool `json:"match"`

	// Occurrence is the 1-based match number within the segment, 0 for plain spans.
	Occurrence int `json:"occurrence,omitempty"`

	// Active is true for the single emphasised match.
	Active bool `json:"active,omitempty"`
}

// SearchSnapshot is the observable state of a search session after a
// recompute, a record change or a cursor move.
type SearchSnapshot struct {
	// Query is the raw query text as typed.
	Query string `json:"query"`

	// Options are the options the pattern was compiled with.
	Options SearchOptions `json:"options"`

	// Occurrences is the flattened hit list in visit order.
	Occurrences []Occurrence `json:"occurrences"`

	// Cursor is the 0-based index of the active occurrence.
	// Meaningful only when Occurrences is non-empty.
	Cursor int `json:"cursor"`

	// ScrollTo is the record that should be brought into view, if any.
	ScrollTo string `json:"scroll_to,omitempty"`

	// Pending is true while a query change waits for the debounce window.
	Pending bool `json:"pending,omitempty"`

	// Err is set when the current query is an invalid regular expression.
	Err error `json:"-"`
}

// Total returns the number of occurrences.
func (s SearchSnapshot) Total() int {
	return len(s.Occurrences)
}

// Active returns the occurrence under the cursor.
func (s SearchSnapshot) Active() (Occurrence, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Occurrences) {
		return Occurrence{}, false
	}
	return s.Occurrences[s.Cursor], true
}

// Position returns the 1-based cursor position for "N / M" indicators,
// or 0 when there are no occurrences.
func (s SearchSnapshot) Position() int {
	if len(s.Occurrences) == 0 {
		return 0
	}
	return s.Cursor + 1
}
