package domain

import "time"

// Default setting values.
const (
	DefaultDebounce     = 200 * time.Millisecond
	DefaultReplyDelay   = 800 * time.Millisecond
	DefaultLogLevel     = "info"
	DefaultLogMaxSizeMB = 10
)

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// CaseSensitive is the initial case sensitivity of new searches.
	CaseSensitive bool

	// UseRegex is the initial regex mode of new searches.
	UseRegex bool

	// Debounce is the idle window before a query is recompiled.
	Debounce time.Duration
}

// ReplySettings configures the mock reply generator.
type ReplySettings struct {
	// Delay is the fixed latency before a reply is returned.
	Delay time.Duration

	// Seed seeds the fixture generator. Zero means time based.
	Seed int64
}

// LoggingSettings configures the optional log file.
type LoggingSettings struct {
	// File is the log file path. Empty disables file logging.
	File string

	// Level is one of "debug", "info", "warn", "error".
	Level string

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int
}

// IsValidLogLevel returns true if the level is recognised.
func IsValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// AppSettings is the complete application configuration.
type AppSettings struct {
	Search  SearchSettings
	Reply   ReplySettings
	Logging LoggingSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchSettings{
			Debounce: DefaultDebounce,
		},
		Reply: ReplySettings{
			Delay: DefaultReplyDelay,
		},
		Logging: LoggingSettings{
			Level:     DefaultLogLevel,
			MaxSizeMB: DefaultLogMaxSizeMB,
		},
	}
}

// SearchOptions returns the initial search options these settings describe.
func (s SearchSettings) SearchOptions() SearchOptions {
	return SearchOptions{CaseSensitive: s.CaseSensitive, UseRegex: s.UseRegex}
}

// SettingEntry is one setting rendered for display.
type SettingEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
