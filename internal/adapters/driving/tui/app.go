package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/views/chunks"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/views/conversation"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/views/threads"
	"github.com/custodia-labs/chatdesk/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView         *menu.View
	threadsView      *threads.View
	conversationView *conversation.View
	chunksView       *chunks.View
	settingsView     *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:            ports,
		ctx:              context.Background(),
		styles:           s,
		keymap:           km,
		menuView:         menu.NewView(s, km, ports.Threads, ports.Chunks),
		threadsView:      threads.NewView(s, ports.Threads),
		conversationView: conversation.NewView(s, km, ports.Threads, ports.Chat, ports.Session),
		chunksView:       chunks.NewView(s, km, ports.Chunks),
		settingsView:     settings.NewView(s, ports.Settings),
		currentView:      messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.menuView.WithContext(ctx)
	a.threadsView.WithContext(ctx)
	a.conversationView.WithContext(ctx)
	a.chunksView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("chatdesk"),
		a.menuView.Init(),
		a.conversationView.Listen(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.routeKey(msg)

	case messages.SearchUpdated:
		// Always delivered so the listener is re-armed.
		a.conversationView, cmd = a.conversationView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewMenu:
			return a, a.menuView.Init()
		case messages.ViewThreads:
			return a, a.threadsView.Init()
		case messages.ViewChunks:
			return a, a.chunksView.Init()
		case messages.ViewSettings:
			return a, a.settingsView.Init()
		case messages.ViewConversation, messages.ViewHelp:
		}
		return a, nil

	case messages.ThreadSelected:
		a.currentView = messages.ViewConversation
		return a, a.conversationView.Open(msg.Thread)

	case messages.OverviewLoaded:
		a.menuView, cmd = a.menuView.Update(msg)
		return a, cmd

	case messages.ThreadsLoaded, messages.ThreadCreated, messages.ThreadDeleted:
		a.threadsView, cmd = a.threadsView.Update(msg)
		return a, cmd

	case messages.MessagesLoaded, messages.ReplyReceived:
		a.conversationView, cmd = a.conversationView.Update(msg)
		return a, cmd

	case messages.ChunksLoaded, messages.ChunksChanged:
		a.chunksView, cmd = a.chunksView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		if msg.Err == nil && strings.HasPrefix(msg.Key, "search.") {
			a.applySearchSettings()
		}
		return a, cmd

	case messages.FixturesReloaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		logger.Debug("Fixtures reloaded from %s", msg.Path)
		cmds := []tea.Cmd{a.menuView.Init(), a.threadsView.Reload(), a.conversationView.Reload()}
		if a.ports.Chunks != nil {
			cmds = append(cmds, a.chunksView.Reload())
		}
		return a, tea.Batch(cmds...)

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewConversation {
			a.conversationView, cmd = a.conversationView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewThreads:
		a.threadsView, cmd = a.threadsView.Update(msg)
	case messages.ViewConversation:
		a.conversationView, cmd = a.conversationView.Update(msg)
	case messages.ViewChunks:
		a.chunksView, cmd = a.chunksView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// applySearchSettings pushes saved search defaults into the live session.
func (a *App) applySearchSettings() {
	if a.ports.Settings == nil {
		return
	}
	current, err := a.ports.Settings.Get()
	if err != nil {
		logger.Warn("Reading settings: %v", err)
		return
	}
	a.ports.Session.SetOptions(current.Search.SearchOptions())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewThreads:
		return a.threadsView.View()
	case messages.ViewConversation:
		return a.conversationView.View()
	case messages.ViewChunks:
		return a.chunksView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  j/k, ↑/↓     Move
  enter        Select
  esc          Back
  ctrl+c       Quit

Threads:
  /            Filter by title
  n            New thread
  d            Delete thread

Conversation:
  ctrl+f, /    Search this thread
  enter        Next match (in search)
  ctrl+n       Next match
  ctrl+p       Previous match
  shift+tab    Previous match (in search)
  alt+c        Toggle case sensitivity
  alt+r        Toggle regular expressions
  esc          Clear search, then leave
  i            Write a reply

Knowledge Base:
  K/J          Move chunk up/down
  space        Select chunk
  e            Mark embedded
  d            Delete chunk

` + a.styles.Help.Render("[esc] back to menu")
}

// Close releases the conversation view's search subscription.
func (a *App) Close() {
	a.conversationView.Close()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Conversation returns the conversation view.
func (a *App) Conversation() *conversation.View {
	return a.conversationView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.threadsView.SetDimensions(width, height)
	a.conversationView.SetDimensions(width, height)
	a.chunksView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
