// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
)

// Item is one destination on the menu.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

// View is the landing screen: an overview of the loaded threads and
// knowledge base, and the list of destinations.
type View struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	threadService driving.ThreadService
	chunkService  driving.ChunkService
	ctx           context.Context

	items    []Item
	selected int
	overview messages.OverviewLoaded
	loaded   bool

	width  int
	height int
	ready  bool
}

// NewView creates a new menu view. Either service may be nil; its count is
// then omitted.
func NewView(s *styles.Styles, km *keymap.KeyMap, threads driving.ThreadService, chunks driving.ChunkService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		threadService: threads,
		chunkService:  chunks,
		ctx:           context.Background(),
		items: []Item{
			{Label: "Threads", Hint: "search and reply to conversations", View: messages.ViewThreads},
			{Label: "Knowledge Base", Hint: "order, select and embed chunks", View: messages.ViewChunks},
			{Label: "Settings", Hint: "search defaults, replies, logging", View: messages.ViewSettings},
			{Label: "Help", Hint: "key bindings", View: messages.ViewHelp},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// WithContext sets the context used for loading counts.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the overview counts.
func (v *View) Init() tea.Cmd {
	ctx, threads, chunks := v.ctx, v.threadService, v.chunkService
	return func() tea.Msg {
		return loadOverview(ctx, threads, chunks)
	}
}

func loadOverview(ctx context.Context, threads driving.ThreadService, chunks driving.ChunkService) messages.OverviewLoaded {
	var ov messages.OverviewLoaded
	if threads != nil {
		list, err := threads.List(ctx)
		if err != nil {
			ov.Err = fmt.Errorf("listing threads: %w", err)
			return ov
		}
		ov.Threads = len(list)
		for i := range list {
			ov.Messages += len(list[i].Messages)
		}
	}
	if chunks != nil {
		list, err := chunks.List(ctx)
		if err != nil {
			ov.Err = fmt.Errorf("listing chunks: %w", err)
			return ov
		}
		ov.Chunks = len(list)
		for _, c := range list {
			if c.Status == domain.ChunkEmbedded {
				ov.Embedded++
			}
		}
	}
	return ov
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.OverviewLoaded:
		v.overview = msg
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.items)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keymap.Select):
		return v, v.choose(v.selected)
	case keymap.Matches(k, v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	case keymap.Matches(k, v.keymap.Quit):
		return v, tea.Quit
	case len(k) == 1 && k[0] >= '1' && k[0] <= '9':
		idx := int(k[0] - '1')
		if idx < len(v.items) {
			v.selected = idx
			return v, v.choose(idx)
		}
	}
	return v, nil
}

func (v *View) choose(idx int) tea.Cmd {
	item := v.items[idx]
	if item.Quit {
		return tea.Quit
	}
	return changeView(item.View)
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("chatdesk"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(v.Summary()))
	b.WriteString("\n\n")

	if v.overview.Err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.overview.Err.Error()))
		b.WriteString("\n\n")
	}

	for i, item := range v.items {
		label := fmt.Sprintf("%d  %s", i+1, item.Label)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		if item.Hint != "" {
			b.WriteString("  ")
			b.WriteString(v.styles.Muted.Render(item.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] move  [enter/1-5] open  [?] help  [q] quit"))
	return b.String()
}

// Summary is the overview line under the title.
func (v *View) Summary() string {
	if !v.loaded {
		return "Loading..."
	}
	var parts []string
	if v.threadService != nil {
		parts = append(parts, fmt.Sprintf("%s, %s",
			plural(v.overview.Threads, "thread"), plural(v.overview.Messages, "message")))
	}
	if v.chunkService != nil {
		parts = append(parts, fmt.Sprintf("%s (%d embedded)",
			plural(v.overview.Chunks, "chunk"), v.overview.Embedded))
	}
	if len(parts) == 0 {
		return "Nothing loaded"
	}
	return strings.Join(parts, " · ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
