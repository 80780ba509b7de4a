package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/services"
)

type stubResponder struct {
	answer *domain.Answer
	err    error
	block  bool
}

func (r *stubResponder) Reply(ctx context.Context, _ string, _ []domain.Message) (*domain.Answer, error) {
	if r.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return r.answer, r.err
}

func refundThread() domain.Thread {
	return domain.Thread{
		ID:    "t-refund",
		Title: "Refund request",
		Messages: []domain.Message{
			{ID: "m1", Role: domain.RoleUser, Content: "Where is my refund?"},
			{ID: "m2", Role: domain.RoleAssistant, Content: "Your refund was issued yesterday.", Sources: []domain.Source{
				{ID: "s1", Type: domain.SourceRetrieval, Rank: 1, Title: "Refund policy", Content: "Refunds take 5 days."},
				{ID: "s2", Type: domain.SourceRetrieval, Rank: 2, Title: "Old refund policy", Content: "refund refund"},
				{ID: "s3", Type: domain.SourceAPI, Rank: 1, Title: "Order API", Content: "status: refunded"},
			}},
			{ID: "m3", Role: domain.RoleUser, Content: "Thanks"},
		},
	}
}

type fixture struct {
	view      *View
	threads   *services.ThreadService
	responder *stubResponder
}

func newFixture(t *testing.T, debounce time.Duration, thread domain.Thread) *fixture {
	t.Helper()
	threads := services.NewThreadService(memory.NewThreadStore())
	require.NoError(t, threads.Import(context.Background(), []domain.Thread{thread}))

	responder := &stubResponder{answer: &domain.Answer{Content: "Here is your answer"}}
	chat := services.NewChatService(threads, responder)
	session := services.NewSearchSession(domain.SearchSettings{Debounce: debounce})
	t.Cleanup(session.Close)

	v := NewView(nil, nil, threads, chat, session)
	t.Cleanup(v.Close)
	v.SetDimensions(100, 60)

	stored, err := threads.Get(context.Background(), thread.ID)
	require.NoError(t, err)
	run(v, v.Open(*stored))

	return &fixture{view: v, threads: threads, responder: responder}
}

// run executes cmd and feeds the resulting messages back into the view.
func run(v *View, cmd tea.Cmd) {
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
		_, next := v.Update(msg)
		queue = append(queue, next)
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "alt+c":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c"), Alt: true}
	case "alt+r":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r"), Alt: true}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(v *View, keys ...string) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		_, last = v.Update(keyMsg(k))
	}
	return last
}

func typeText(v *View, text string) {
	for _, r := range text {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestView_Open_RendersThread(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view

	require.NotNil(t, v.Thread())
	assert.Len(t, v.Records(), 3)
	assert.Equal(t, ModeRead, v.Mode())

	view := v.View()
	assert.Contains(t, view, "Refund request")
	assert.Contains(t, view, "Where is my refund?")
	assert.Contains(t, view, "Refund policy")
	assert.Contains(t, view, "Order API")
	assert.Contains(t, view, "+1 more sources")
	assert.NotContains(t, view, "Old refund policy")
}

func TestView_NotReady(t *testing.T) {
	v := NewView(nil, nil, nil, nil, nil)

	assert.Equal(t, "Initialising...", v.View())
	v.SetDimensions(80, 24)
	assert.Contains(t, v.View(), "No thread selected.")
}

func TestView_SearchCountsAndNavigates(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view

	press(v, "ctrl+f")
	require.Equal(t, ModeSearch, v.Mode())

	typeText(v, "refund")

	// m1 body, m2 body, s1 title, s1 content, s3 content
	assert.Equal(t, "refund", v.Query())
	assert.Equal(t, "1 / 5", v.Counter())

	press(v, "enter")
	assert.Equal(t, "2 / 5", v.Counter())

	press(v, "ctrl+n", "ctrl+n", "ctrl+n")
	assert.Equal(t, "5 / 5", v.Counter())

	press(v, "enter")
	assert.Equal(t, "1 / 5", v.Counter())

	press(v, "shift+tab")
	assert.Equal(t, "5 / 5", v.Counter())
	assert.Contains(t, v.View(), "5 / 5")
}

func TestView_SearchCaseToggle(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view

	press(v, "ctrl+f")
	typeText(v, "refund")
	require.Equal(t, "1 / 5", v.Counter())

	press(v, "alt+c")
	assert.Equal(t, "1 / 3", v.Counter())

	press(v, "alt+c")
	assert.Equal(t, "1 / 5", v.Counter())
}

func TestView_SearchInvalidRegex(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view

	press(v, "ctrl+f", "alt+r")
	typeText(v, "(")

	assert.Equal(t, "0 / 0", v.Counter())
	assert.Contains(t, v.View(), "invalid pattern")

	// the same text is a valid literal
	press(v, "alt+r")
	assert.NotContains(t, v.View(), "invalid pattern")
}

func TestView_EscClearsThenLeaves(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view

	press(v, "ctrl+f")
	typeText(v, "refund")
	require.Equal(t, "1 / 5", v.Counter())

	cmd := press(v, "esc")
	assert.Nil(t, cmd)
	assert.Equal(t, "", v.Query())
	assert.Equal(t, ModeSearch, v.Mode())
	assert.NotContains(t, v.View(), "1 / 5")

	press(v, "esc")
	assert.Equal(t, ModeRead, v.Mode())

	cmd = press(v, "esc")
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewThreads}, cmd())
}

func TestView_EscInReadModeClearsQueryFirst(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view

	press(v, "ctrl+f")
	typeText(v, "thanks")
	v.setMode(ModeRead)

	cmd := press(v, "esc")

	assert.Nil(t, cmd)
	assert.Equal(t, "", v.Query())
	assert.Equal(t, ModeRead, v.Mode())
}

func TestView_SearchScrollsToFirstHit(t *testing.T) {
	thread := domain.Thread{ID: "t-long", Title: "Long thread"}
	for i := 1; i <= 30; i++ {
		content := fmt.Sprintf("message %d", i)
		if i == 20 {
			content = "the refund arrived"
		}
		thread.Messages = append(thread.Messages, domain.Message{
			ID: fmt.Sprintf("m%d", i), Role: domain.RoleUser, Content: content,
		})
	}
	f := newFixture(t, 0, thread)
	v := f.view
	v.SetDimensions(80, 20)
	v.viewport.GotoTop()
	require.Equal(t, 0, v.YOffset())

	press(v, "ctrl+f")
	typeText(v, "refund")

	require.Equal(t, "1 / 1", v.Counter())
	assert.Greater(t, v.Offset("m20"), 0)
	assert.Equal(t, v.Offset("m20"), v.YOffset())
	assert.Contains(t, v.Content(), "the refund arrived")
}

func TestView_AdvanceScrollsToCursorRecord(t *testing.T) {
	thread := domain.Thread{ID: "t-long", Title: "Long thread"}
	for i := 1; i <= 30; i++ {
		content := fmt.Sprintf("message %d", i)
		if i == 3 || i == 25 {
			content = "refund requested"
		}
		thread.Messages = append(thread.Messages, domain.Message{
			ID: fmt.Sprintf("m%d", i), Role: domain.RoleUser, Content: content,
		})
	}
	f := newFixture(t, 0, thread)
	v := f.view
	v.SetDimensions(80, 20)

	press(v, "ctrl+f")
	typeText(v, "refund")
	require.Equal(t, v.Offset("m3"), v.YOffset())

	press(v, "enter")
	assert.Equal(t, "2 / 2", v.Counter())
	assert.Equal(t, v.Offset("m25"), v.YOffset())
}

func TestView_DebouncedUpdateArrivesThroughListener(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond, refundThread())
	v := f.view

	// drain the signal published by Open
	require.Equal(t, messages.SearchUpdated{}, v.Listen()())

	press(v, "ctrl+f")
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("refund")})
	require.Equal(t, "refund", v.Query())
	assert.Equal(t, "0 / 0", v.Counter())
	assert.Contains(t, v.View(), "Searching...")

	msg := v.Listen()()
	require.Equal(t, messages.SearchUpdated{}, msg)
	_, next := v.Update(msg)

	assert.NotNil(t, next)
	assert.Equal(t, "1 / 5", v.Counter())
	assert.NotContains(t, v.View(), "Searching...")
}

func TestView_ListenStopsOnClose(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view
	v.Listen()() // drain

	v.Close()

	assert.Nil(t, v.Listen()())
}

func TestView_ComposeAndSend(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view

	press(v, "i")
	require.Equal(t, ModeCompose, v.Mode())
	typeText(v, "hello there")

	cmd := press(v, "enter")
	require.NotNil(t, cmd)
	assert.True(t, v.Sending())
	assert.Contains(t, v.Content(), "Assistant is typing...")

	run(v, cmd)

	assert.False(t, v.Sending())
	require.Len(t, v.Records(), 5)
	assert.Equal(t, "hello there", v.Records()[3].Content)
	assert.Equal(t, "Here is your answer", v.Records()[4].Content)
	assert.Contains(t, v.Content(), "Here is your answer")
}

func TestView_SendEmptyIsIgnored(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view

	press(v, "i")
	typeText(v, "   ")

	assert.Nil(t, press(v, "enter"))
	assert.False(t, v.Sending())
}

func TestView_SendFailureShowsFallback(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	f.responder.err = errors.New("upstream down")
	v := f.view

	press(v, "i")
	typeText(v, "status?")
	run(v, press(v, "enter"))

	require.Len(t, v.Records(), 5)
	assert.Equal(t, services.FallbackReply, v.Records()[4].Content)
	assert.NoError(t, v.Err())
}

func TestView_LeavingCancelsSend(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	f.responder.block = true
	v := f.view

	press(v, "i")
	typeText(v, "anyone?")
	cmd := press(v, "enter")
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	press(v, "esc")
	leave := press(v, "esc")
	require.NotNil(t, leave)

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("send was not cancelled")
	}
	reply, ok := msg.(messages.ReplyReceived)
	require.True(t, ok)
	assert.ErrorIs(t, reply.Err, context.Canceled)

	v.Update(reply)
	assert.NoError(t, v.Err())
	assert.False(t, v.Sending())
}

func TestView_MessagesLoadedForOtherThreadIgnored(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view

	v.Update(messages.MessagesLoaded{ThreadID: "other", Messages: nil})

	assert.Len(t, v.Records(), 3)
}

func TestView_ReloadPicksUpNewMessages(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view
	press(v, "ctrl+f")
	typeText(v, "thanks")
	require.Equal(t, "1 / 1", v.Counter())

	_, err := f.threads.Append(context.Background(), "t-refund", domain.Message{
		Role: domain.RoleUser, Content: "thanks again",
	})
	require.NoError(t, err)

	run(v, v.Reload())

	assert.Len(t, v.Records(), 4)
	assert.Equal(t, "1 / 2", v.Counter())
}

func TestView_LoadErrorShown(t *testing.T) {
	f := newFixture(t, 0, refundThread())
	v := f.view

	v.Update(messages.MessagesLoaded{ThreadID: "t-refund", Err: domain.ErrThreadNotFound})

	assert.ErrorIs(t, v.Err(), domain.ErrThreadNotFound)
	assert.Contains(t, v.View(), "thread not found")
}
