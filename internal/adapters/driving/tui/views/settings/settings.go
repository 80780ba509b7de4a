// Package settings provides the settings configuration view for the TUI.
package settings

import (
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

// Key constants for key handling.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
)

// View lists every setting. Boolean settings toggle on enter; the rest are
// edited in place.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	list    *list.List
	editor  *input.Field
	entries []domain.SettingEntry
	editing string

	message string
	err     error

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		settingsService: settingsService,
		list:            list.New(s, "No settings"),
		editor:          input.NewField(s, "Value: ", "empty resets to default"),
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		entries, err := svc.Entries()
		return messages.SettingsLoaded{Entries: entries, Err: err}
	}
}

func (v *View) save(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Key: key, Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Key: key, Err: svc.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.setEntries(msg.Entries)
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.message = ""
			return v, nil
		}
		v.err = nil
		v.message = fmt.Sprintf("Saved %s", msg.Key)
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing != "" {
			return v.handleEditKey(msg)
		}
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keyEnter:
		entry := v.SelectedEntry()
		if entry == nil {
			return v, nil
		}
		if b, ok := parseBool(entry.Value); ok {
			return v, v.save(entry.Key, fmt.Sprint(!b))
		}
		v.editing = entry.Key
		v.editor.SetValue(entry.Value)
		return v, v.editor.Focus()
	case "r":
		return v, v.loadSettings()
	default:
		v.list.Update(msg)
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.stopEditing()
		return v, nil
	case keyEnter:
		key, value := v.editing, v.editor.Value()
		v.stopEditing()
		return v, v.save(key, value)
	}
	_, cmd := v.editor.Update(msg)
	return v, cmd
}

func (v *View) stopEditing() {
	v.editing = ""
	v.editor.Blur()
	v.editor.Reset()
}

func parseBool(s string) (value, ok bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func (v *View) setEntries(entries []domain.SettingEntry) {
	v.entries = entries
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		value := e.Value
		if value == "" {
			value = "(default)"
		}
		items = append(items, list.Item{ID: e.Key, Title: e.Key, Detail: value})
	}
	v.list.SetItems(items)
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	b.WriteString(v.list.View())

	if v.editing != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Subtitle.Render(v.editing))
		b.WriteString("\n")
		b.WriteString(v.editor.View())
	}
	if v.message != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Success.Render(v.message))
	}

	b.WriteString("\n\n")
	if v.editing != "" {
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[enter] toggle/edit  [r] reload  [esc] back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.editor.SetWidth(width)
	v.list.SetDimensions(width, height-10)
}

// Entries returns the displayed settings.
func (v *View) Entries() []domain.SettingEntry {
	return v.entries
}

// SelectedEntry returns the highlighted setting, or nil.
func (v *View) SelectedEntry() *domain.SettingEntry {
	idx := v.list.Selected()
	if idx < 0 || idx >= len(v.entries) {
		return nil
	}
	return &v.entries[idx]
}

// Editing returns the key being edited, or "".
func (v *View) Editing() string {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
