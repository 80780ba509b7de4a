// Command chatdesk is a terminal console for reviewing chatbot conversation
// threads and the knowledge base they answer from.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/chatdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/chatdesk/internal/adapters/driven/fixture"
	"github.com/custodia-labs/chatdesk/internal/adapters/driven/mockreply"
	"github.com/custodia-labs/chatdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatdesk/internal/adapters/driving/cli"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
	"github.com/custodia-labs/chatdesk/internal/core/services"
	"github.com/custodia-labs/chatdesk/internal/logger"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetInitializer(buildServices)

	err := cli.Execute()
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

// buildServices wires the in-memory stores, the TOML config and the mock
// responder into the services the commands use.
func buildServices(configDir string) (*cli.Services, error) {
	var configStore driven.ConfigStore
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		logger.Warn("Config unavailable, using defaults: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = store
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	if err := logger.InitFile(logger.FileConfig{
		Path:      settings.Logging.File,
		Level:     settings.Logging.Level,
		MaxSizeMB: settings.Logging.MaxSizeMB,
	}); err != nil {
		logger.Warn("File logging disabled: %v", err)
	}

	threadService := services.NewThreadService(memory.NewThreadStore())
	chunkService := services.NewChunkService(memory.NewChunkStore())
	chatService := services.NewChatService(threadService,
		mockreply.New(settings.Reply.Delay, settings.Reply.Seed))

	return &cli.Services{
		Threads:  threadService,
		Chat:     chatService,
		Chunks:   chunkService,
		Settings: settingsService,
		Fixtures: fixture.NewLoader(),
		Watcher:  fixture.NewWatcher(),
		NewSession: func(s domain.SearchSettings) driving.SearchSession {
			return services.NewSearchSession(s)
		},
	}, nil
}
