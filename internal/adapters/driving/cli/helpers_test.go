package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatdesk/internal/adapters/driven/fixture"
	"github.com/custodia-labs/chatdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
	core "github.com/custodia-labs/chatdesk/internal/core/services"
)

func testThreads() []domain.Thread {
	return []domain.Thread{
		{ID: "t-refunds", Title: "Refund policy", Messages: []domain.Message{
			{ID: "m1", Role: domain.RoleUser, Content: "How long do refunds take?"},
			{ID: "m2", Role: domain.RoleAssistant, Content: "Refunds are issued within 5 business days.", Sources: []domain.Source{
				{ID: "kb-12", Type: domain.SourceRetrieval, Rank: 1, Title: "Refunds and returns", Content: "Refunds go to the original payment method."},
				{ID: "kb-99", Type: domain.SourceRetrieval, Rank: 4, Title: "Old refund rules", Content: "refund refund"},
				{ID: "order-api", Type: domain.SourceAPI, Rank: 2, Title: "Order status", Content: "Order 1042 refunded on 2024-03-01."},
			}},
		}},
		{ID: "t-shipping", Title: "Shipping delay", Messages: []domain.Message{
			{ID: "m1", Role: domain.RoleUser, Content: "My parcel is late."},
		}},
	}
}

// setupTestServices installs in-memory services seeded with testThreads and
// resets command flags. Everything is restored when the test ends.
func setupTestServices(t *testing.T) *Services {
	t.Helper()

	threads := core.NewThreadService(memory.NewThreadStore())
	require.NoError(t, threads.Import(context.Background(), testThreads()))

	svc := &Services{
		Threads:  threads,
		Chat:     core.NewChatService(threads, nil),
		Chunks:   core.NewChunkService(memory.NewChunkStore()),
		Settings: core.NewSettingsService(memory.NewConfigStore()),
		Fixtures: fixture.NewLoader(),
		Watcher:  fixture.NewWatcher(),
		NewSession: func(s domain.SearchSettings) driving.SearchSession {
			return core.NewSearchSession(s)
		},
	}

	prevServices, prevInit := services, initializer
	SetServices(svc)
	SetInitializer(nil)
	resetFlags()
	t.Cleanup(func() {
		services, initializer = prevServices, prevInit
		resetFlags()
	})
	return svc
}

func resetFlags() {
	verbose = false
	configDir = ""
	searchFiles = nil
	searchThread = ""
	searchCaseSensitive = false
	searchRegex = false
	searchJSON = false
	searchActive = 1
	threadsFiles = nil
	chunksFiles = nil
	tuiFiles = nil
	tuiWatch = false
}

// executeCommand runs the root command with args and returns everything
// written to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
