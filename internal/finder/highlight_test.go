package finder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

func TestHighlight_PassThroughWhenUnusable(t *testing.T) {
	tests := []*Pattern{
		nil,
		Compile("", domain.SearchOptions{}),
		Compile("(", domain.SearchOptions{UseRegex: true}),
	}

	for _, p := range tests {
		spans := Highlight("the cat sat", p, 1)
		assert.Equal(t, []domain.Span{{Text: "the cat sat"}}, spans)
	}
}

func TestHighlight_NoMatchesIsSinglePlainSpan(t *testing.T) {
	spans := Highlight("the cat sat", Compile("dog", domain.SearchOptions{}), 0)

	assert.Equal(t, []domain.Span{{Text: "the cat sat"}}, spans)
}

func TestHighlight_AlternatingSpans(t *testing.T) {
	spans := Highlight("the cat sat", Compile("at", domain.SearchOptions{}), 0)

	assert.Equal(t, []domain.Span{
		{Text: "the c"},
		{Text: "at", Match: true, Occurrence: 1},
		{Text: " s"},
		{Text: "at", Match: true, Occurrence: 2},
	}, spans)
}

func TestHighlight_PreservesOriginalCase(t *testing.T) {
	spans := Highlight("Cat CAT", Compile("cat", domain.SearchOptions{}), 0)

	require.Len(t, spans, 3)
	assert.Equal(t, "Cat", spans[0].Text)
	assert.Equal(t, "CAT", spans[2].Text)
}

func TestHighlight_ActiveSpan(t *testing.T) {
	p := Compile("o", domain.SearchOptions{})

	for active := 0; active <= 4; active++ {
		spans := Highlight("foo boo", p, active)

		activeCount := 0
		for _, s := range spans {
			if s.Active {
				activeCount++
				assert.Equal(t, active, s.Occurrence)
				assert.True(t, s.Match)
			}
		}
		if active >= 1 && active <= 4 {
			assert.Equal(t, 1, activeCount, "active=%d", active)
		} else {
			assert.Equal(t, 0, activeCount, "active=%d", active)
		}
	}
}

func TestHighlight_OutOfRangeActiveMarksNothing(t *testing.T) {
	spans := Highlight("foo", Compile("o", domain.SearchOptions{}), 7)

	for _, s := range spans {
		assert.False(t, s.Active)
	}
}

func TestHighlight_AdjacentMatchesHaveNoEmptyGap(t *testing.T) {
	spans := Highlight("aaaa", Compile("aa", domain.SearchOptions{}), 0)

	assert.Equal(t, []domain.Span{
		{Text: "aa", Match: true, Occurrence: 1},
		{Text: "aa", Match: true, Occurrence: 2},
	}, spans)
}

func TestHighlight_ReassemblesText(t *testing.T) {
	texts := []string{"héllo wörld", "a.b.c", "", "xyz", "ünïcödé ünïcödé"}
	queries := []string{"l", ".", "ö", "ünï", "[a-z]+"}

	for _, text := range texts {
		for _, q := range queries {
			spans := Highlight(text, Compile(q, domain.SearchOptions{UseRegex: q == "[a-z]+"}), 1)
			var b strings.Builder
			for _, s := range spans {
				b.WriteString(s.Text)
			}
			assert.Equal(t, text, b.String(), "query %q", q)
		}
	}
}

func TestHighlight_Deterministic(t *testing.T) {
	p := Compile("a+", domain.SearchOptions{UseRegex: true})

	first := Highlight("banana aardvark", p, 2)
	second := Highlight("banana aardvark", p, 2)

	assert.Equal(t, first, second)
}

func TestHighlight_ZeroLengthPattern(t *testing.T) {
	spans := Highlight("abc", Compile("x*", domain.SearchOptions{UseRegex: true}), 1)

	assert.Equal(t, []domain.Span{{Text: "abc"}}, spans)
}

// Highlight and Collect must agree on the number and order of hits per segment.
func TestHighlight_ConsistentWithCollect(t *testing.T) {
	records := []domain.Message{
		userMsg("m1", "Refund policy: refunds within 30 days, REFUND form required"),
		answerMsg("m2", "See the refund page",
			src("s1", domain.SourceRetrieval, 1, "Refunds", "refund refund"),
			src("s2", domain.SourceRetrieval, 2, "Refund (old)", "refund"),
			src("s3", domain.SourcePIM, 1, "SKU 9", "no match"),
		),
	}

	for _, q := range []string{"refund", "ref?und", "\\bre", "x*"} {
		p := Compile(q, domain.SearchOptions{UseRegex: true})
		occs := Collect(records, p)

		total := 0
		for _, seg := range Segments(records) {
			var fromCollect []domain.Occurrence
			for _, o := range occs {
				if o.InSegment(seg.RecordID, seg.Section, seg.SourceKey) {
					fromCollect = append(fromCollect, o)
				}
			}

			var matched []domain.Span
			for _, s := range Highlight(seg.Text, p, 0) {
				if s.Match {
					matched = append(matched, s)
				}
			}

			require.Len(t, matched, len(fromCollect), "query %q segment %+v", q, seg)
			runes := []rune(seg.Text)
			for i := range matched {
				assert.Equal(t, fromCollect[i].Occurrence, matched[i].Occurrence)
				assert.Equal(t, string(runes[fromCollect[i].Start:fromCollect[i].End]), matched[i].Text)
			}
			total += len(matched)
		}
		assert.Equal(t, len(occs), total)
	}
}

func TestActiveIn(t *testing.T) {
	occs := []domain.Occurrence{
		{RecordID: "m1", Section: domain.SectionBody, Occurrence: 1},
		{RecordID: "m1", Section: domain.SectionBody, Occurrence: 2},
		{RecordID: "m2", Section: domain.SectionSourceTitle, SourceKey: "api:s1", Occurrence: 1},
	}

	assert.Equal(t, 2, ActiveIn(occs, 1, "m1", domain.SectionBody, ""))
	assert.Equal(t, 0, ActiveIn(occs, 1, "m2", domain.SectionBody, ""))
	assert.Equal(t, 1, ActiveIn(occs, 2, "m2", domain.SectionSourceTitle, "api:s1"))
	assert.Equal(t, 0, ActiveIn(occs, 2, "m2", domain.SectionSourceTitle, "api:s2"))
	assert.Equal(t, 0, ActiveIn(occs, -1, "m1", domain.SectionBody, ""))
	assert.Equal(t, 0, ActiveIn(occs, 3, "m1", domain.SectionBody, ""))
	assert.Equal(t, 0, ActiveIn(nil, 0, "m1", domain.SectionBody, ""))
}

func TestHighlightSegment(t *testing.T) {
	records := []domain.Message{userMsg("m1", "go go"), userMsg("m2", "go")}
	p := Compile("go", domain.SearchOptions{})
	occs := Collect(records, p)
	segs := Segments(records)

	spans := HighlightSegment(segs[0], p, occs, 1)
	require.Len(t, spans, 3)
	assert.False(t, spans[0].Active)
	assert.True(t, spans[2].Active)

	spans = HighlightSegment(segs[1], p, occs, 1)
	require.Len(t, spans, 1)
	assert.False(t, spans[0].Active)
}
