// Package cli implements the chatdesk command line with cobra.
//
// Commands read their dependencies from a Services value installed either
// directly with SetServices (tests) or lazily by the Initializer registered
// with SetInitializer, which runs after flags are parsed so that
// --config-dir is honoured.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
	"github.com/custodia-labs/chatdesk/internal/logger"
)

// SessionFactory creates a search session with the given settings.
type SessionFactory func(settings domain.SearchSettings) driving.SearchSession

// Services are the dependencies commands run against.
type Services struct {
	Threads    driving.ThreadService
	Chat       driving.ChatService
	Chunks     driving.ChunkService
	Settings   driving.SettingsService
	Fixtures   driven.FixtureLoader
	Watcher    driven.FileWatcher
	NewSession SessionFactory
}

// Initializer builds Services once flags are known.
type Initializer func(configDir string) (*Services, error)

var (
	version = "dev"

	verbose   bool
	configDir string

	services    *Services
	initializer Initializer
)

var rootCmd = &cobra.Command{
	Use:   "chatdesk",
	Short: "Review chatbot conversations and knowledge chunks",
	Long: `chatdesk is a terminal console for chatbot conversation threads.

Search threads with live highlighting of message bodies and answer sources,
browse and edit knowledge-base chunks, and chat against a mock responder.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if services != nil || initializer == nil {
			return nil
		}
		svc, err := initializer(configDir)
		if err != nil {
			return err
		}
		services = svc
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default $CHATDESK_CONFIG_DIR or ~/.chatdesk)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices installs the services commands run against.
func SetServices(s *Services) {
	services = s
}

// SetInitializer registers a lazy builder for Services.
func SetInitializer(fn Initializer) {
	initializer = fn
}

var (
	errThreadsNotConfigured  = errors.New("thread service not configured")
	errChunksNotConfigured   = errors.New("chunk service not configured")
	errSettingsNotConfigured = errors.New("settings service not configured")
	errSessionNotConfigured  = errors.New("search session factory not configured")
)

func threadSvc() (driving.ThreadService, error) {
	if services == nil || services.Threads == nil {
		return nil, errThreadsNotConfigured
	}
	return services.Threads, nil
}

func chunkSvc() (driving.ChunkService, error) {
	if services == nil || services.Chunks == nil {
		return nil, errChunksNotConfigured
	}
	return services.Chunks, nil
}

func settingsSvc() (driving.SettingsService, error) {
	if services == nil || services.Settings == nil {
		return nil, errSettingsNotConfigured
	}
	return services.Settings, nil
}
