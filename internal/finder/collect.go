package finder

import (
	"sort"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// Segment is one named unit of searchable text.
type Segment struct {
	// RecordID is the message the text belongs to.
	RecordID string

	// Section is the kind of text.
	Section domain.Section

	// SourceKey identifies the source for source sections.
	SourceKey string

	// Text is the searchable text.
	Text string
}

// TopSources reduces sources to the best-ranked entry per source type and
// returns those representatives ordered by ascending rank.
// Ties keep the order in which the sources appear.
func TopSources(sources []domain.Source) []domain.Source {
	if len(sources) == 0 {
		return nil
	}

	best := make(map[domain.SourceType]int, len(sources))
	var order []domain.SourceType
	for i := range sources {
		t := sources[i].Type
		idx, seen := best[t]
		if !seen {
			best[t] = i
			order = append(order, t)
			continue
		}
		if sources[i].Rank < sources[idx].Rank {
			best[t] = i
		}
	}

	top := make([]domain.Source, 0, len(order))
	for _, t := range order {
		top = append(top, sources[best[t]])
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Rank < top[j].Rank
	})
	return top
}

// Segments walks records in render order and returns their searchable
// segments: each record's body, then for structured answers the title and
// content of every top-ranked source.
func Segments(records []domain.Message) []Segment {
	segments := make([]Segment, 0, len(records))
	for i := range records {
		rec := &records[i]
		segments = append(segments, Segment{
			RecordID: rec.ID,
			Section:  domain.SectionBody,
			Text:     rec.Content,
		})

		if !rec.HasSources() {
			continue
		}
		for _, src := range TopSources(rec.Sources) {
			key := src.Key()
			segments = append(segments,
				Segment{RecordID: rec.ID, Section: domain.SectionSourceTitle, SourceKey: key, Text: src.Title},
				Segment{RecordID: rec.ID, Section: domain.SectionSourceContent, SourceKey: key, Text: src.Content},
			)
		}
	}
	return segments
}

// Collect scans every segment of records and returns the flattened, ordered
// list of hits. Numbering restarts at 1 for each segment.
// An empty or invalid pattern yields an empty list.
func Collect(records []domain.Message, p *Pattern) []domain.Occurrence {
	occurrences := []domain.Occurrence{}
	if !p.Usable() {
		return occurrences
	}

	for _, seg := range Segments(records) {
		for i, r := range p.FindAll(seg.Text) {
			occurrences = append(occurrences, domain.Occurrence{
				RecordID:   seg.RecordID,
				Section:    seg.Section,
				SourceKey:  seg.SourceKey,
				Occurrence: i + 1,
				Start:      r.Start,
				End:        r.End,
			})
		}
	}
	return occurrences
}
