package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// renderTable writes rows as an ASCII table.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// highlighter marks matches in plain text. On a terminal it uses colours;
// otherwise matches are bracketed as [match] and the active one as [[match]].
type highlighter struct {
	styled bool
	match  lipgloss.Style
	active lipgloss.Style
}

func newHighlighter(w io.Writer) highlighter {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return highlighter{
		styled: styled,
		match:  lipgloss.NewStyle().Background(lipgloss.Color("#F5D76E")).Foreground(lipgloss.Color("#1A1A1A")),
		active: lipgloss.NewStyle().Background(lipgloss.Color("#FF8C00")).Foreground(lipgloss.Color("#1A1A1A")).Bold(true),
	}
}

func (h highlighter) mark(text string, active bool) string {
	switch {
	case h.styled && active:
		return h.active.Render(text)
	case h.styled:
		return h.match.Render(text)
	case active:
		return "[[" + text + "]]"
	default:
		return "[" + text + "]"
	}
}

// spans joins highlighted spans into a single line of text.
func (h highlighter) spans(spans []domain.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Match {
			b.WriteString(h.mark(s.Text, s.Active))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// snippetContext is the number of runes shown either side of a hit.
const snippetContext = 20

// snippet renders the hit at [start, end) in text with surrounding context.
func (h highlighter) snippet(text string, start, end int, active bool) string {
	runes := []rune(text)
	if start < 0 || end > len(runes) || start > end {
		return ""
	}

	lo := start - snippetContext
	if lo < 0 {
		lo = 0
	}
	hi := end + snippetContext
	if hi > len(runes) {
		hi = len(runes)
	}

	var b strings.Builder
	if lo > 0 {
		b.WriteString("…")
	}
	b.WriteString(flatten(string(runes[lo:start])))
	b.WriteString(h.mark(flatten(string(runes[start:end])), active))
	b.WriteString(flatten(string(runes[end:hi])))
	if hi < len(runes) {
		b.WriteString("…")
	}
	return b.String()
}

// flatten replaces line breaks so a snippet stays on one table row.
func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}
