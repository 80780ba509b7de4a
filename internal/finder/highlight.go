package finder

import (
	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// Highlight splits text into alternating plain and matched spans.
//
// Matched spans are numbered from 1 in left-to-right order. The span whose
// number equals active is marked Active; pass 0 for none. Empty gaps between
// adjacent matches are omitted. If p is not usable the whole text is returned
// as a single plain span.
func Highlight(text string, p *Pattern, active int) []domain.Span {
	ranges := p.FindAll(text)
	if len(ranges) == 0 {
		return []domain.Span{{Text: text}}
	}

	runes := []rune(text)
	spans := make([]domain.Span, 0, 2*len(ranges)+1)
	last := 0
	for i, r := range ranges {
		if r.Start > last {
			spans = append(spans, domain.Span{Text: string(runes[last:r.Start])})
		}
		n := i + 1
		spans = append(spans, domain.Span{
			Text:       string(runes[r.Start:r.End]),
			Match:      true,
			Occurrence: n,
			Active:     active > 0 && n == active,
		})
		last = r.End
	}
	if last < len(runes) {
		spans = append(spans, domain.Span{Text: string(runes[last:])})
	}
	return spans
}

// HighlightSegment highlights a segment using the cursor's position in the
// global occurrence list to pick the active span.
func HighlightSegment(seg Segment, p *Pattern, occurrences []domain.Occurrence, cursor int) []domain.Span {
	return Highlight(seg.Text, p, ActiveIn(occurrences, cursor, seg.RecordID, seg.Section, seg.SourceKey))
}

// ActiveIn returns the segment-local occurrence number of the cursor's hit if
// that hit lies in the given segment, otherwise 0.
func ActiveIn(occurrences []domain.Occurrence, cursor int, recordID string, section domain.Section, sourceKey string) int {
	if cursor < 0 || cursor >= len(occurrences) {
		return 0
	}
	occ := occurrences[cursor]
	if !occ.InSegment(recordID, section, sourceKey) {
		return 0
	}
	return occ.Occurrence
}
