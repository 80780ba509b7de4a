// Package chunks provides the knowledge base chunk list view for the TUI.
package chunks

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
)

// Chunk actions reported through messages.ChunksChanged.
const (
	ActionMove   = "move"
	ActionToggle = "toggle"
	ActionEmbed  = "embed"
	ActionDelete = "delete"
)

// View lists knowledge chunks with reordering, multi-select and embedding.
type View struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	chunkService driving.ChunkService
	ctx          context.Context

	list     *list.List
	chunks   []domain.Chunk
	selected map[string]bool

	// follow is re-selected after the next load, so a moved chunk keeps focus.
	follow string

	message string
	width   int
	height  int
	ready   bool
	err     error
	loading bool
}

// NewView creates a new chunk list view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chunkService driving.ChunkService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:       s,
		keymap:       km,
		chunkService: chunkService,
		ctx:          context.Background(),
		list:         list.New(s, "No chunks. Import a fixture file to add some."),
		selected:     make(map[string]bool),
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and loads chunks.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.Reload()
}

// Reload returns a command that reloads chunks and the selection.
func (v *View) Reload() tea.Cmd {
	svc, ctx := v.chunkService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ChunksLoaded{Err: fmt.Errorf("chunk service not available")}
		}
		chunks, err := svc.List(ctx)
		if err != nil {
			return messages.ChunksLoaded{Err: err}
		}
		selected, err := svc.Selected(ctx)
		return messages.ChunksLoaded{Chunks: chunks, Selected: selected, Err: err}
	}
}

// Update handles messages for the chunk list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChunksLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.setChunks(msg.Chunks, msg.Selected)
		return v, nil

	case messages.ChunksChanged:
		if msg.Err != nil {
			v.err = msg.Err
			v.follow = ""
			return v, nil
		}
		return v, v.Reload()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	km := v.keymap
	s := msg.String()

	switch {
	case keymap.Matches(s, km.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(s, km.MoveUp):
		return v, v.move(-1)
	case keymap.Matches(s, km.MoveDown):
		return v, v.move(+1)
	case keymap.Matches(s, km.ToggleSelect):
		return v, v.toggle()
	case keymap.Matches(s, km.Embed):
		return v, v.embed()
	case keymap.Matches(s, km.Delete), s == "delete":
		return v, v.remove()
	case s == "r":
		v.loading = true
		return v, v.Reload()
	default:
		v.list.Update(msg)
	}
	return v, nil
}

func (v *View) move(delta int) tea.Cmd {
	item := v.list.SelectedItem()
	if item == nil || v.chunkService == nil {
		return nil
	}
	id, to := item.ID, v.list.Selected()+delta
	v.follow = id
	svc, ctx := v.chunkService, v.ctx
	return func() tea.Msg {
		return messages.ChunksChanged{Action: ActionMove, Err: svc.Move(ctx, id, to)}
	}
}

func (v *View) toggle() tea.Cmd {
	item := v.list.SelectedItem()
	if item == nil || v.chunkService == nil {
		return nil
	}
	on := v.chunkService.Toggle(item.ID)
	v.selected[item.ID] = on
	item.Marked = on
	return nil
}

// embed marks the selection as embedded, or the highlighted chunk when
// nothing is selected.
func (v *View) embed() tea.Cmd {
	if v.chunkService == nil {
		return nil
	}
	ids := v.SelectedIDs()
	if len(ids) == 0 {
		item := v.list.SelectedItem()
		if item == nil {
			return nil
		}
		ids = []string{item.ID}
	}
	svc, ctx := v.chunkService, v.ctx
	v.message = fmt.Sprintf("Embedded %d chunk(s)", len(ids))
	return func() tea.Msg {
		if err := svc.Embed(ctx, ids...); err != nil {
			return messages.ChunksChanged{Action: ActionEmbed, Err: err}
		}
		svc.ClearSelection()
		return messages.ChunksChanged{Action: ActionEmbed}
	}
}

func (v *View) remove() tea.Cmd {
	item := v.list.SelectedItem()
	if item == nil || v.chunkService == nil {
		return nil
	}
	id := item.ID
	svc, ctx := v.chunkService, v.ctx
	return func() tea.Msg {
		return messages.ChunksChanged{Action: ActionDelete, Err: svc.Delete(ctx, id)}
	}
}

func (v *View) setChunks(chunks []domain.Chunk, selected []string) {
	current := v.follow
	if current == "" {
		if item := v.list.SelectedItem(); item != nil {
			current = item.ID
		}
	}
	v.follow = ""

	v.chunks = chunks
	v.selected = make(map[string]bool, len(selected))
	for _, id := range selected {
		v.selected[id] = true
	}

	items := make([]list.Item, 0, len(chunks))
	for i := range chunks {
		c := &chunks[i]
		items = append(items, list.Item{
			ID:      c.ID,
			Title:   c.Title,
			Detail:  fmt.Sprintf("#%d  %s", c.Position+1, c.Status),
			Preview: c.Content,
			Marked:  v.selected[c.ID],
		})
	}
	v.list.SetItems(items)
	if current != "" {
		v.list.Select(current)
	}
}

// View renders the chunk list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Knowledge Base"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(v.summary()))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading chunks..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	default:
		b.WriteString(v.list.View())
	}

	if v.message != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Success.Render(v.message))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[K/J] reorder  [space] select  [e] embed  [d] delete  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) summary() string {
	embedded := 0
	for i := range v.chunks {
		if v.chunks[i].Status == domain.ChunkEmbedded {
			embedded++
		}
	}
	return fmt.Sprintf("%d chunks, %d embedded, %d selected", len(v.chunks), embedded, len(v.SelectedIDs()))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-8)
}

// Chunks returns the listed chunks.
func (v *View) Chunks() []domain.Chunk {
	return v.chunks
}

// SelectedChunk returns the highlighted chunk, or nil.
func (v *View) SelectedChunk() *domain.Chunk {
	item := v.list.SelectedItem()
	if item == nil {
		return nil
	}
	for i := range v.chunks {
		if v.chunks[i].ID == item.ID {
			return &v.chunks[i]
		}
	}
	return nil
}

// SelectedIDs returns the multi-selected chunk IDs in list order.
func (v *View) SelectedIDs() []string {
	var ids []string
	for i := range v.chunks {
		if v.selected[v.chunks[i].ID] {
			ids = append(ids, v.chunks[i].ID)
		}
	}
	return ids
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
