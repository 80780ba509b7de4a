// Package conversation provides the thread reading view: message history,
// live search with highlighting, and the reply composer.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
	"github.com/custodia-labs/chatdesk/internal/finder"
)

// Mode is what the keyboard is currently driving.
type Mode int

const (
	// ModeRead scrolls the history.
	ModeRead Mode = iota
	// ModeSearch types into the search bar.
	ModeSearch
	// ModeCompose types a reply.
	ModeCompose
)

// chrome is the number of lines taken by everything except the viewport.
const chrome = 11

// View shows one thread.
type View struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	threadService driving.ThreadService
	chatService   driving.ChatService
	session       driving.SearchSession
	ctx           context.Context

	search    *input.Field
	composer  *input.Field
	viewport  viewport.Model
	statusbar *status.Bar

	mode    Mode
	thread  *domain.Thread
	records []domain.Message
	offsets map[string]int

	signals     chan struct{}
	done        chan struct{}
	unsubscribe func()

	sending    bool
	pending    string
	cancelSend context.CancelFunc

	err    error
	width  int
	height int
	ready  bool
}

// NewView creates a conversation view bound to a search session. The view
// subscribes to the session immediately; call Close to release it.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	threadService driving.ThreadService,
	chatService driving.ChatService,
	session driving.SearchSession,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:        s,
		keymap:        km,
		threadService: threadService,
		chatService:   chatService,
		session:       session,
		ctx:           context.Background(),
		search:        input.NewField(s, "Find: ", "ctrl+f to search this thread"),
		composer:      input.NewField(s, "Reply: ", "press i to write a message"),
		viewport:      viewport.New(80, 24-chrome),
		statusbar:     status.NewBar(s, km),
		offsets:       make(map[string]int),
		signals:       make(chan struct{}, 1),
		done:          make(chan struct{}),
		width:         80,
		height:        24,
	}
	if session != nil {
		v.unsubscribe = session.Subscribe(v.notify)
	}
	v.statusbar.SetHints(km.ConversationHelp())
	return v
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// notify is the session subscriber. It coalesces bursts into one pending
// signal and never blocks the publisher.
func (v *View) notify(domain.SearchSnapshot) {
	select {
	case v.signals <- struct{}{}:
	default:
	}
}

// Listen returns a command that waits for the next session update.
// Re-issue it after every SearchUpdated.
func (v *View) Listen() tea.Cmd {
	signals, done := v.signals, v.done
	return func() tea.Msg {
		select {
		case <-signals:
			return messages.SearchUpdated{}
		case <-done:
			return nil
		}
	}
}

// Close unsubscribes from the session and stops the listener.
func (v *View) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	select {
	case <-v.done:
	default:
		close(v.done)
	}
	v.cancelPending()
}

// Open shows thread and starts a fresh search.
func (v *View) Open(thread domain.Thread) tea.Cmd {
	v.cancelPending()
	t := thread.Clone()
	v.thread = &t
	v.records = t.Messages
	v.mode = ModeRead
	v.err = nil
	v.search.Reset()
	v.search.Blur()
	v.composer.Reset()
	v.composer.Blur()
	v.statusbar.Clear()
	v.statusbar.SetHints(v.keymap.ConversationHelp())

	if v.session != nil {
		v.session.Clear()
		v.session.SetRecords(v.records)
	}
	v.render()
	v.viewport.GotoBottom()
	return v.Reload()
}

// Reload re-reads the open thread's messages.
func (v *View) Reload() tea.Cmd {
	if v.thread == nil {
		return nil
	}
	id, svc, ctx := v.thread.ID, v.threadService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.MessagesLoaded{ThreadID: id, Err: fmt.Errorf("thread service not available")}
		}
		msgs, err := svc.Messages(ctx, id)
		return messages.MessagesLoaded{ThreadID: id, Messages: msgs, Err: err}
	}
}

// Update handles messages for the conversation view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchUpdated:
		snap := v.render()
		if snap.ScrollTo != "" {
			v.scrollTo(snap.ScrollTo)
		}
		return v, v.Listen()

	case messages.MessagesLoaded:
		if v.thread == nil || msg.ThreadID != v.thread.ID {
			return v, nil
		}
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.records = msg.Messages
		if v.session != nil {
			v.session.SetRecords(v.records)
		}
		snap := v.render()
		if snap.ScrollTo != "" {
			v.scrollTo(snap.ScrollTo)
		} else {
			v.viewport.GotoBottom()
		}
		return v, nil

	case messages.ReplyReceived:
		v.sending = false
		v.pending = ""
		v.cancelSend = nil
		v.statusbar.SetState(status.StateReady)
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			v.setError(msg.Err)
		}
		v.render()
		return v, v.Reload()

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.mode {
	case ModeSearch:
		return v.handleSearchKey(msg)
	case ModeCompose:
		return v.handleComposeKey(msg)
	}
	return v.handleReadKey(msg)
}

func (v *View) handleSearchKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	km := v.keymap
	s := msg.String()

	switch {
	case keymap.Matches(s, km.NextMatch):
		v.advance(+1)
	case keymap.Matches(s, km.PrevMatch):
		v.advance(-1)
	case keymap.Matches(s, km.ToggleCase):
		v.toggleOption(func(o *domain.SearchOptions) { o.CaseSensitive = !o.CaseSensitive })
	case keymap.Matches(s, km.ToggleRegex):
		v.toggleOption(func(o *domain.SearchOptions) { o.UseRegex = !o.UseRegex })
	case keymap.Matches(s, km.ClearSearch):
		if v.search.Value() != "" {
			v.clearSearch()
		} else {
			v.setMode(ModeRead)
		}
	case s == "up" || s == "down" || s == "pgup" || s == "pgdown":
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	default:
		before := v.search.Value()
		_, cmd := v.search.Update(msg)
		if after := v.search.Value(); after != before && v.session != nil {
			v.session.SetQuery(after)
			if snap := v.render(); !snap.Pending && snap.ScrollTo != "" {
				v.scrollTo(snap.ScrollTo)
			}
		}
		return v, cmd
	}
	return v, nil
}

func (v *View) handleComposeKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return v, v.send()
	case "esc":
		v.setMode(ModeRead)
		return v, nil
	}
	_, cmd := v.composer.Update(msg)
	return v, cmd
}

func (v *View) handleReadKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	km := v.keymap
	s := msg.String()

	switch {
	case keymap.Matches(s, km.Find):
		v.setMode(ModeSearch)
	case keymap.Matches(s, km.Compose):
		if v.chatService != nil && v.thread != nil {
			v.setMode(ModeCompose)
		}
	case keymap.Matches(s, km.NextMatch):
		v.advance(+1)
	case keymap.Matches(s, km.PrevMatch):
		v.advance(-1)
	case keymap.Matches(s, km.ToggleCase):
		v.toggleOption(func(o *domain.SearchOptions) { o.CaseSensitive = !o.CaseSensitive })
	case keymap.Matches(s, km.ToggleRegex):
		v.toggleOption(func(o *domain.SearchOptions) { o.UseRegex = !o.UseRegex })
	case keymap.Matches(s, km.Back):
		if v.search.Value() != "" {
			v.clearSearch()
			return v, nil
		}
		v.cancelPending()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewThreads}
		}
	default:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) setMode(m Mode) {
	v.mode = m
	v.search.Blur()
	v.composer.Blur()
	switch m {
	case ModeSearch:
		v.search.Focus()
		v.statusbar.SetHints(v.keymap.SearchHelp())
	case ModeCompose:
		v.composer.Focus()
		v.statusbar.SetHints([]key.Binding{v.keymap.Send, v.keymap.Back})
	case ModeRead:
		v.statusbar.SetHints(v.keymap.ConversationHelp())
	}
}

func (v *View) advance(delta int) {
	if v.session == nil {
		return
	}
	snap := v.session.Advance(delta)
	v.render()
	if snap.ScrollTo != "" {
		v.scrollTo(snap.ScrollTo)
	}
}

func (v *View) toggleOption(fn func(*domain.SearchOptions)) {
	if v.session == nil {
		return
	}
	opts := v.session.Snapshot().Options
	fn(&opts)
	v.session.SetOptions(opts)
	v.render()
}

func (v *View) clearSearch() {
	v.search.Reset()
	if v.session != nil {
		v.session.Clear()
	}
	v.render()
}

func (v *View) send() tea.Cmd {
	text := strings.TrimSpace(v.composer.Value())
	if text == "" || v.sending || v.thread == nil || v.chatService == nil {
		return nil
	}
	v.composer.Reset()
	v.sending = true
	v.pending = text
	v.statusbar.SetState(status.StateSending)
	v.render()
	v.viewport.GotoBottom()

	ctx, cancel := context.WithCancel(v.ctx)
	v.cancelSend = cancel
	id, svc := v.thread.ID, v.chatService
	return func() tea.Msg {
		defer cancel()
		msgs, err := svc.Send(ctx, id, text)
		return messages.ReplyReceived{ThreadID: id, Messages: msgs, Err: err}
	}
}

func (v *View) cancelPending() {
	if v.cancelSend != nil {
		v.cancelSend()
		v.cancelSend = nil
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// render rebuilds the viewport content from the records and the current
// search state, and returns that state.
func (v *View) render() domain.SearchSnapshot {
	var snap domain.SearchSnapshot
	if v.session != nil {
		snap = v.session.Snapshot()
	}

	switch {
	case strings.TrimSpace(snap.Query) == "":
		v.statusbar.HideMatches()
	default:
		v.statusbar.SetMatches(snap.Position(), snap.Total())
	}
	if v.statusbar.State() != status.StateError && !v.sending {
		if snap.Pending {
			v.statusbar.SetState(status.StateSearching)
		} else {
			v.statusbar.SetState(status.StateReady)
		}
	}

	width := v.viewport.Width
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	line := 0
	v.offsets = make(map[string]int, len(v.records))
	for i := range v.records {
		rec := &v.records[i]
		block := v.renderRecord(rec, width)
		v.offsets[rec.ID] = line
		b.WriteString(block)
		b.WriteString("\n\n")
		line += lipgloss.Height(block) + 1
	}
	if v.sending {
		b.WriteString(v.styles.UserRole.Render("You"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(v.pending))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render("Assistant is typing..."))
	}
	if len(v.records) == 0 && !v.sending {
		b.WriteString(v.styles.Muted.Render("No messages yet. Press i to write one."))
	}

	v.viewport.SetContent(b.String())
	return snap
}

func (v *View) renderRecord(rec *domain.Message, width int) string {
	var b strings.Builder

	label := v.styles.AssistantRole.Render("Assistant")
	if rec.Role == domain.RoleUser {
		label = v.styles.UserRole.Render("You")
	}
	b.WriteString(label)
	if !rec.CreatedAt.IsZero() {
		b.WriteString(v.styles.Muted.Render("  " + rec.CreatedAt.Format("15:04")))
	}
	b.WriteString("\n")

	body := v.highlight(rec.Content, rec.ID, domain.SectionBody, "")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(body))

	if !rec.HasSources() {
		return b.String()
	}

	top := finder.TopSources(rec.Sources)
	for _, src := range top {
		srcKey := src.Key()
		title := v.highlight(src.Title, rec.ID, domain.SectionSourceTitle, srcKey)
		content := v.highlight(src.Content, rec.ID, domain.SectionSourceContent, srcKey)
		head := v.styles.Subtitle.Render(fmt.Sprintf("[%s #%d] ", src.Type, src.Rank)) + title
		b.WriteString("\n")
		b.WriteString(v.styles.Source.Width(width - 2).Render(head + "\n" + content))
	}
	if extra := len(rec.Sources) - len(top); extra > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  +%d more sources", extra)))
	}
	return b.String()
}

// highlight renders text with matches marked, emphasising the active one.
func (v *View) highlight(text, recordID string, section domain.Section, sourceKey string) string {
	if v.session == nil {
		return text
	}
	var b strings.Builder
	for _, span := range v.session.Highlight(text, recordID, section, sourceKey) {
		switch {
		case span.Active:
			b.WriteString(v.styles.ActiveMatch.Render(span.Text))
		case span.Match:
			b.WriteString(v.styles.Match.Render(span.Text))
		default:
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

// scrollTo brings the first line of a record into view.
func (v *View) scrollTo(recordID string) {
	if off, ok := v.offsets[recordID]; ok {
		v.viewport.SetYOffset(off)
	}
}

// View renders the conversation.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.thread == nil {
		return v.styles.Muted.Render("No thread selected.")
	}

	sections := make([]string, 0, 8)
	sections = append(sections,
		v.styles.Title.Render(v.thread.Title)+"  "+v.styles.Muted.Render(v.thread.ID),
		v.renderSearchBar(),
		v.viewport.View(),
	)
	if v.chatService != nil {
		sections = append(sections, v.composer.View())
	}
	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderSearchBar() string {
	var snap domain.SearchSnapshot
	if v.session != nil {
		snap = v.session.Snapshot()
	}

	option := func(label string, on bool) string {
		if on {
			return v.styles.Selected.Render(label)
		}
		return v.styles.Muted.Render(label)
	}
	opts := option("Aa", snap.Options.CaseSensitive) + " " + option(".*", snap.Options.UseRegex)

	bar := lipgloss.JoinHorizontal(lipgloss.Center, v.search.View(), "  ", opts)
	if snap.Err != nil {
		bar += "\n" + v.styles.Warning.Render(snap.Err.Error())
	}
	return bar
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	vpHeight := height - chrome
	if vpHeight < 3 {
		vpHeight = 3
	}
	v.viewport.Width = width
	v.viewport.Height = vpHeight
	v.search.SetWidth(width - 10)
	v.composer.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.render()
}

// Thread returns the open thread, or nil.
func (v *View) Thread() *domain.Thread {
	return v.thread
}

// Records returns the displayed messages.
func (v *View) Records() []domain.Message {
	return v.records
}

// Mode returns the current input mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Query returns the search bar text.
func (v *View) Query() string {
	return v.search.Value()
}

// Sending returns whether a reply is in flight.
func (v *View) Sending() bool {
	return v.sending
}

// Counter returns the "N / M" match indicator.
func (v *View) Counter() string {
	return v.statusbar.Counter()
}

// Offset returns the first content line of a record, or -1.
func (v *View) Offset(recordID string) int {
	if off, ok := v.offsets[recordID]; ok {
		return off
	}
	return -1
}

// YOffset returns the viewport scroll position.
func (v *View) YOffset() int {
	return v.viewport.YOffset
}

// Content returns the rendered history.
func (v *View) Content() string {
	return v.viewport.View()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
