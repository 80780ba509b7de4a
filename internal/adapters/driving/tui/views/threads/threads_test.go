package threads

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/services"
)

func newTestView(t *testing.T) (*View, *services.ThreadService) {
	t.Helper()
	svc := services.NewThreadService(memory.NewThreadStore())
	require.NoError(t, svc.Import(context.Background(), []domain.Thread{
		{ID: "t-refund", Title: "Refund request", Messages: []domain.Message{
			{ID: "m1", Role: domain.RoleUser, Content: "I want a refund"},
		}},
		{ID: "t-ship", Title: "Shipping delay"},
		{ID: "t-pass", Title: "Password reset"},
	}))
	v := NewView(nil, svc)
	v.SetDimensions(100, 30)
	return v, svc
}

// run executes cmd and feeds every resulting message back into the view.
func run(v *View, cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		out = append(out, msg)
		var next tea.Cmd
		v, next = v.Update(msg)
		queue = append(queue, next)
	}
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(v *View, keys ...string) []tea.Msg {
	var out []tea.Msg
	for _, k := range keys {
		_, cmd := v.Update(key(k))
		out = append(out, run(v, cmd)...)
	}
	return out
}

func TestView_Init_LoadsThreads(t *testing.T) {
	v, _ := newTestView(t)

	run(v, v.Init())

	require.Len(t, v.Threads(), 3)
	assert.Equal(t, "t-refund", v.SelectedThread().ID)
	view := v.View()
	assert.Contains(t, view, "Refund request")
	assert.Contains(t, view, "1 messages")
	assert.Contains(t, view, "user: I want a refund")
}

func TestView_NilService(t *testing.T) {
	v := NewView(nil, nil)

	run(v, v.Init())

	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "thread service not available")
}

func TestView_EnterSelectsThread(t *testing.T) {
	v, _ := newTestView(t)
	run(v, v.Init())

	_, cmd := v.Update(key("down"))
	assert.Nil(t, cmd)
	_, cmd = v.Update(key("enter"))

	require.NotNil(t, cmd)
	selected, ok := cmd().(messages.ThreadSelected)
	require.True(t, ok)
	assert.Equal(t, "t-ship", selected.Thread.ID)
}

func TestView_FuzzyFilter(t *testing.T) {
	v, _ := newTestView(t)
	run(v, v.Init())

	press(v, "/")
	require.True(t, v.Filtering())

	press(v, "s", "h", "p")

	assert.Equal(t, "shp", v.Filter())
	require.Len(t, v.Threads(), 1)
	assert.Equal(t, "t-ship", v.Threads()[0].ID)
	assert.Contains(t, v.View(), "Filter:")

	press(v, "enter")
	assert.False(t, v.Filtering())
	assert.Len(t, v.Threads(), 1)

	// esc clears the filter before leaving the view
	msgs := press(v, "esc")
	assert.Empty(t, v.Filter())
	assert.Len(t, v.Threads(), 3)
	for _, m := range msgs {
		assert.NotEqual(t, messages.ViewChanged{View: messages.ViewMenu}, m)
	}
}

func TestView_FilterEscClears(t *testing.T) {
	v, _ := newTestView(t)
	run(v, v.Init())

	press(v, "/", "p", "a", "s", "s")
	require.Len(t, v.Threads(), 1)

	press(v, "esc")

	assert.False(t, v.Filtering())
	assert.Empty(t, v.Filter())
	assert.Len(t, v.Threads(), 3)
}

func TestView_StaleLoadIgnored(t *testing.T) {
	v, _ := newTestView(t)
	run(v, v.Init())

	v.Update(messages.ThreadsLoaded{Filter: "old", Threads: nil})

	assert.Len(t, v.Threads(), 3)
}

func TestView_NewThread(t *testing.T) {
	v, svc := newTestView(t)
	run(v, v.Init())

	msgs := press(v, "n")

	var selected *messages.ThreadSelected
	for _, m := range msgs {
		if s, ok := m.(messages.ThreadSelected); ok {
			selected = &s
		}
	}
	require.NotNil(t, selected)
	assert.Equal(t, services.DefaultThreadTitle, selected.Thread.Title)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Len(t, v.Threads(), 4)
}

func TestView_DeleteThread(t *testing.T) {
	v, svc := newTestView(t)
	run(v, v.Init())

	press(v, "d")

	_, err := svc.Get(context.Background(), "t-refund")
	assert.ErrorIs(t, err, domain.ErrThreadNotFound)
	require.Len(t, v.Threads(), 2)
	assert.Equal(t, "t-ship", v.SelectedThread().ID)
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v, _ := newTestView(t)
	run(v, v.Init())

	_, cmd := v.Update(key("esc"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Empty(t *testing.T) {
	v := NewView(nil, services.NewThreadService(memory.NewThreadStore()))

	run(v, v.Init())

	assert.Contains(t, v.View(), "No threads yet")
}
