// Package threads provides the conversation thread list view for the TUI.
package threads

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
)

// View lists threads with fuzzy filtering.
type View struct {
	styles        *styles.Styles
	threadService driving.ThreadService
	ctx           context.Context

	list      *list.List
	filter    *input.Field
	filtering bool

	threads []domain.Thread
	width   int
	height  int
	ready   bool
	err     error
	loading bool
}

// NewView creates a new thread list view.
func NewView(s *styles.Styles, threadService driving.ThreadService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		threadService: threadService,
		ctx:           context.Background(),
		list:          list.New(s, "No threads yet. Press n to start one."),
		filter:        input.NewField(s, "Filter: ", "type to filter by title"),
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and loads threads.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.Reload()
}

// Reload returns a command that reloads threads with the current filter.
func (v *View) Reload() tea.Cmd {
	return v.loadThreads(v.filter.Value())
}

func (v *View) loadThreads(filter string) tea.Cmd {
	svc, ctx := v.threadService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ThreadsLoaded{Filter: filter, Err: fmt.Errorf("thread service not available")}
		}
		threads, err := svc.Find(ctx, filter)
		return messages.ThreadsLoaded{Filter: filter, Threads: threads, Err: err}
	}
}

// Update handles messages for the thread list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.filtering {
			return v.handleFilterKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.ThreadsLoaded:
		if msg.Filter != v.filter.Value() {
			return v, nil // stale
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.setThreads(msg.Threads)
		return v, nil

	case messages.ThreadCreated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		thread := *msg.Thread
		return v, tea.Batch(v.Reload(), func() tea.Msg {
			return messages.ThreadSelected{Thread: thread}
		})

	case messages.ThreadDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.Reload()
	}

	return v, nil
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.filtering = false
		v.filter.Blur()
		v.filter.Reset()
		return v, v.Reload()
	case "enter":
		v.filtering = false
		v.filter.Blur()
		return v, nil
	case "up", "down":
		v.list.Update(msg)
		return v, nil
	}

	before := v.filter.Value()
	_, cmd := v.filter.Update(msg)
	if v.filter.Value() != before {
		return v, tea.Batch(cmd, v.Reload())
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if v.filter.Value() != "" {
			v.filter.Reset()
			return v, v.Reload()
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "/":
		v.filtering = true
		return v, v.filter.Focus()
	case "enter":
		if thread := v.SelectedThread(); thread != nil {
			selected := *thread
			return v, func() tea.Msg {
				return messages.ThreadSelected{Thread: selected}
			}
		}
	case "n":
		return v, v.createThread()
	case "d", "delete":
		if thread := v.SelectedThread(); thread != nil {
			return v, v.deleteThread(thread.ID)
		}
	case "r":
		v.loading = true
		return v, v.Reload()
	default:
		v.list.Update(msg)
	}
	return v, nil
}

func (v *View) createThread() tea.Cmd {
	svc, ctx := v.threadService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ThreadCreated{Err: fmt.Errorf("thread service not available")}
		}
		thread, err := svc.Create(ctx, "")
		return messages.ThreadCreated{Thread: thread, Err: err}
	}
}

func (v *View) deleteThread(id string) tea.Cmd {
	svc, ctx := v.threadService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ThreadDeleted{ID: id, Err: fmt.Errorf("thread service not available")}
		}
		return messages.ThreadDeleted{ID: id, Err: svc.Delete(ctx, id)}
	}
}

func (v *View) setThreads(threads []domain.Thread) {
	var current string
	if item := v.list.SelectedItem(); item != nil {
		current = item.ID
	}

	v.threads = threads
	items := make([]list.Item, 0, len(threads))
	for i := range threads {
		t := &threads[i]
		items = append(items, list.Item{
			ID:      t.ID,
			Title:   t.Title,
			Detail:  fmt.Sprintf("%d messages  %s", t.MessageCount(), t.UpdatedAt.Format("2006-01-02 15:04")),
			Preview: lastMessage(t),
		})
	}
	v.list.SetItems(items)
	if current != "" {
		v.list.Select(current)
	}
}

func lastMessage(t *domain.Thread) string {
	if len(t.Messages) == 0 {
		return ""
	}
	m := t.Messages[len(t.Messages)-1]
	return string(m.Role) + ": " + m.Content
}

// View renders the thread list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Threads"))
	b.WriteString("\n\n")

	if v.filtering || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading threads..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	default:
		b.WriteString(v.list.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	if v.filtering {
		return v.styles.Help.Render("[enter] apply  [esc] clear filter")
	}
	return v.styles.Help.Render("[enter] open  [/] filter  [n] new  [d] delete  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.filter.SetWidth(width)
	v.list.SetDimensions(width, height-8)
}

// Threads returns the listed threads.
func (v *View) Threads() []domain.Thread {
	return v.threads
}

// SelectedThread returns the highlighted thread, or nil.
func (v *View) SelectedThread() *domain.Thread {
	item := v.list.SelectedItem()
	if item == nil {
		return nil
	}
	for i := range v.threads {
		if v.threads[i].ID == item.ID {
			return &v.threads[i]
		}
	}
	return nil
}

// Filter returns the current filter text.
func (v *View) Filter() string {
	return v.filter.Value()
}

// Filtering returns whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filtering
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
