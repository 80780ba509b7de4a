package finder

import (
	"github.com/custodia-labs/chatdesk/internal/logger"
)

// Range is a half-open rune interval [Start, End) of a match.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// Next finds the first non-empty match in text at or after rune offset from.
// It returns the match and the offset to resume scanning from.
//
// Zero-length matches are skipped: the offset moves one rune past them and
// the search continues, so every scan terminates.
func (p *Pattern) Next(text []rune, from int) (Range, int, bool) {
	if !p.Usable() {
		return Range{}, len(text) + 1, false
	}

	for from <= len(text) {
		m, err := p.re.FindRunesMatchStartingAt(text, from)
		if err != nil {
			// Match timeout: treat the rest of the segment as unmatched.
			logger.Warn("Pattern %s aborted at offset %d: %v", p, from, err)
			return Range{}, len(text) + 1, false
		}
		if m == nil {
			return Range{}, len(text) + 1, false
		}
		if m.Length == 0 {
			from = m.Index + 1
			continue
		}
		end := m.Index + m.Length
		return Range{Start: m.Index, End: end}, end, true
	}

	return Range{}, from, false
}

// FindAll returns every non-overlapping, non-empty match in text, left to right.
func (p *Pattern) FindAll(text string) []Range {
	if !p.Usable() || text == "" {
		return nil
	}

	runes := []rune(text)
	var ranges []Range
	for offset := 0; offset <= len(runes); {
		r, nextOffset, ok := p.Next(runes, offset)
		if !ok {
			break
		}
		ranges = append(ranges, r)
		offset = nextOffset
	}
	return ranges
}

// Count returns the number of matches FindAll would return.
func (p *Pattern) Count(text string) int {
	return len(p.FindAll(text))
}
