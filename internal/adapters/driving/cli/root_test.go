package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"search", "threads", "chunks", "settings", "tui", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_InitializerRunsOnce(t *testing.T) {
	svc := setupTestServices(t)
	SetServices(nil)

	calls := 0
	var gotDir string
	SetInitializer(func(dir string) (*Services, error) {
		calls++
		gotDir = dir
		return svc, nil
	})

	_, err := executeCommand(t, "threads", "list", "--config-dir", "/tmp/chatdesk-test")
	require.NoError(t, err)
	_, err = executeCommand(t, "threads", "list")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "/tmp/chatdesk-test", gotDir)
}

func TestRootCmd_InitializerError(t *testing.T) {
	setupTestServices(t)
	SetServices(nil)
	SetInitializer(func(string) (*Services, error) {
		return nil, errors.New("no config")
	})

	_, err := executeCommand(t, "threads", "list")

	assert.EqualError(t, err, "no config")
}

func TestLoadFixtures_NoLoader(t *testing.T) {
	svc := setupTestServices(t)
	svc.Fixtures = nil

	err := loadFixtures(t.Context(), []string{"threads.yaml"})

	assert.EqualError(t, err, "fixture loader not configured")
}

func TestLoadFixtures_UnsupportedFormat(t *testing.T) {
	setupTestServices(t)

	err := loadFixtures(t.Context(), []string{"threads.txt"})

	assert.Error(t, err)
}
