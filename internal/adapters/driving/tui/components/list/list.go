// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/styles"
)

// Item is one row of a List.
type Item struct {
	// ID identifies the underlying entity.
	ID string

	// Title is the main line.
	Title string

	// Detail is a muted suffix on the title line.
	Detail string

	// Preview is an optional second line.
	Preview string

	// Marked flags the item as part of a multi-selection.
	Marked bool
}

// List displays items in a navigable, scrolling list.
type List struct {
	items    []Item
	selected int
	styles   *styles.Styles
	empty    string
	width    int
	height   int
}

// New creates a list that shows empty when it has no items.
func New(s *styles.Styles, empty string) *List {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if empty == "" {
		empty = "Nothing here"
	}

	return &List{
		styles: s,
		empty:  empty,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *List) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.items) > 0 {
				l.selected = len(l.items) - 1
			}
		}
	}
	return l, nil
}

// View renders the list.
func (l *List) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render(l.empty)
	}

	rowHeight := 1
	for i := range l.items {
		if l.items[i].Preview != "" {
			rowHeight = 2
			break
		}
	}

	visible := l.height / rowHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.items) {
		end = len(l.items)
	}

	lines := make([]string, 0, (end-start)*rowHeight)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i, &l.items[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *List) renderItem(index int, item *Item) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}
	mark := ""
	if item.Marked {
		mark = "[x] "
	}

	title := item.Title
	if title == "" {
		title = "(Untitled)"
	}
	maxTitle := l.width - len(indicator) - len(mark) - len(item.Detail) - 4
	title = truncate(title, maxTitle)

	var line string
	if index == l.selected {
		line = l.styles.Selected.Render(fmt.Sprintf("%s%s%s", indicator, mark, title))
	} else {
		line = l.styles.Normal.Render(fmt.Sprintf("%s%s%s", indicator, mark, title))
	}
	if item.Detail != "" {
		line += "  " + l.styles.Muted.Render(item.Detail)
	}

	if item.Preview != "" {
		preview := strings.ReplaceAll(item.Preview, "\n", " ")
		line += "\n" + l.styles.Muted.Render("    "+truncate(preview, l.width-6))
	}
	return line
}

// truncate shortens s to at most n runes with a trailing ellipsis.
func truncate(s string, n int) string {
	if n < 10 {
		n = 10
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetItems replaces the items, keeping the selection in range.
func (l *List) SetItems(items []Item) {
	l.items = items
	if l.selected >= len(items) {
		l.selected = len(items) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Items returns the current items.
func (l *List) Items() []Item {
	return l.items
}

// Selected returns the index of the selected item.
func (l *List) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *List) SetSelected(index int) {
	if index >= 0 && index < len(l.items) {
		l.selected = index
	}
}

// Select moves the selection to the item with id. It reports whether the
// item was found.
func (l *List) Select(id string) bool {
	for i := range l.items {
		if l.items[i].ID == id {
			l.selected = i
			return true
		}
	}
	return false
}

// SelectedItem returns the currently selected item, or nil if none.
func (l *List) SelectedItem() *Item {
	if len(l.items) == 0 || l.selected < 0 || l.selected >= len(l.items) {
		return nil
	}
	return &l.items[l.selected]
}

// MoveUp moves selection up.
func (l *List) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *List) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *List) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Width returns the current width.
func (l *List) Width() int {
	return l.width
}

// Height returns the current height.
func (l *List) Height() int {
	return l.height
}

// Count returns the number of items.
func (l *List) Count() int {
	return len(l.items)
}

// IsEmpty returns whether the list is empty.
func (l *List) IsEmpty() bool {
	return len(l.items) == 0
}
