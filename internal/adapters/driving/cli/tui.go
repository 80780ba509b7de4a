package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
	"github.com/custodia-labs/chatdesk/internal/logger"
)

var (
	tuiFiles []string
	tuiWatch bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Browse threads, search inside a conversation with live highlighting, reply
to the mock assistant, and manage knowledge-base chunks.

With --watch, the fixture files given with --file are re-imported whenever
they change on disk and the open thread is refreshed.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / next match
  Ctrl+F   - Search the open thread
  Esc      - Clear search / back
  ?        - Help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	addFileFlag(tuiCmd, &tuiFiles)
	tuiCmd.Flags().BoolVarP(&tuiWatch, "watch", "w", false, "reload fixture files when they change")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	if err := loadFixtures(ctx, tuiFiles); err != nil {
		return err
	}
	threads, err := threadSvc()
	if err != nil {
		return err
	}
	if services.NewSession == nil {
		return errSessionNotConfigured
	}

	searchSettings := domain.DefaultAppSettings().Search
	if services.Settings != nil {
		if current, err := services.Settings.Get(); err == nil {
			searchSettings = current.Search
		}
	}
	session := services.NewSession(searchSettings)
	defer session.Close()

	ports := &tui.Ports{
		Threads:  threads,
		Chat:     services.Chat,
		Chunks:   services.Chunks,
		Settings: services.Settings,
		Session:  session,
	}
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	defer app.Close()
	app.WithContext(ctx)

	// Stderr logging would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if tuiWatch {
		if err := startWatching(ctx, p); err != nil {
			return err
		}
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// startWatching re-imports each fixture file when it changes and tells the
// program to refresh.
func startWatching(ctx context.Context, p *tea.Program) error {
	if len(tuiFiles) == 0 {
		return errors.New("--watch requires at least one --file")
	}
	if services.Watcher == nil {
		return errors.New("file watcher not configured")
	}

	for _, path := range tuiFiles {
		events, err := services.Watcher.Watch(ctx, path)
		if err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		go forwardReloads(ctx, events, p)
	}
	return nil
}

func forwardReloads(ctx context.Context, events <-chan driven.WatchEvent, p *tea.Program) {
	for ev := range events {
		if ev.Type != driven.WatchChanged {
			logger.Debug("Fixture %s %s", ev.Path, ev.Type)
			continue
		}
		err := loadFixtures(ctx, []string{ev.Path})
		if err != nil {
			logger.Warn("Reloading %s: %v", ev.Path, err)
		}
		p.Send(messages.FixturesReloaded{Path: ev.Path, Err: err})
	}
}
