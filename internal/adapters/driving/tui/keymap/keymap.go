// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Find opens the search bar of a conversation.
	Find key.Binding

	// NextMatch moves the search cursor forward.
	NextMatch key.Binding

	// PrevMatch moves the search cursor backward.
	PrevMatch key.Binding

	// ToggleCase switches case-sensitive matching.
	ToggleCase key.Binding

	// ToggleRegex switches regular expression mode.
	ToggleRegex key.Binding

	// ClearSearch clears the query, or leaves the search bar when empty.
	ClearSearch key.Binding

	// Compose focuses the message composer.
	Compose key.Binding

	// Send submits the composed message.
	Send key.Binding

	// Filter starts fuzzy filtering of a list.
	Filter key.Binding

	// New creates an item.
	New key.Binding

	// Delete removes the selected item.
	Delete key.Binding

	// MoveUp moves the selected chunk up one position.
	MoveUp key.Binding

	// MoveDown moves the selected chunk down one position.
	MoveDown key.Binding

	// ToggleSelect adds or removes the item from the selection.
	ToggleSelect key.Binding

	// Embed marks chunks as embedded.
	Embed key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Find: key.NewBinding(
			key.WithKeys("ctrl+f", "/"),
			key.WithHelp("ctrl+f", "find"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("enter", "ctrl+n"),
			key.WithHelp("enter", "next"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("shift+tab", "ctrl+p"),
			key.WithHelp("shift+tab", "prev"),
		),
		ToggleCase: key.NewBinding(
			key.WithKeys("alt+c"),
			key.WithHelp("alt+c", "case"),
		),
		ToggleRegex: key.NewBinding(
			key.WithKeys("alt+r"),
			key.WithHelp("alt+r", "regex"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Compose: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "reply"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		ToggleSelect: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "select"),
		),
		Embed: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "embed"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// SearchHelp returns keybindings shown while the search bar is focused.
func (k *KeyMap) SearchHelp() []key.Binding {
	return []key.Binding{k.NextMatch, k.PrevMatch, k.ToggleCase, k.ToggleRegex, k.ClearSearch}
}

// ConversationHelp returns keybindings for reading a conversation.
func (k *KeyMap) ConversationHelp() []key.Binding {
	return []key.Binding{k.Find, k.Compose, k.Up, k.Down, k.Back}
}

// ThreadsHelp returns keybindings for the thread list.
func (k *KeyMap) ThreadsHelp() []key.Binding {
	return []key.Binding{k.Select, k.Filter, k.New, k.Delete, k.Back}
}

// ChunksHelp returns keybindings for the knowledge chunk list.
func (k *KeyMap) ChunksHelp() []key.Binding {
	return []key.Binding{k.MoveUp, k.MoveDown, k.ToggleSelect, k.Embed, k.Delete, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.Find, k.NextMatch, k.PrevMatch, k.ToggleCase, k.ToggleRegex, k.ClearSearch},
		{k.Compose, k.Send},
		{k.Filter, k.New, k.Delete},
		{k.MoveUp, k.MoveDown, k.ToggleSelect, k.Embed},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
