package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySearchCaseSensitive = "search.case_sensitive"
	keySearchUseRegex      = "search.use_regex"
	keySearchDebounceMS    = "search.debounce_ms"
	keyReplyDelayMS        = "reply.delay_ms"
	keyReplySeed           = "reply.seed"
	keyLoggingFile         = "logging.file"
	keyLoggingLevel        = "logging.level"
	keyLoggingMaxSizeMB    = "logging.max_size_mb"
)

// settingKeys is the display order for settings listings.
var settingKeys = []string{
	keySearchCaseSensitive,
	keySearchUseRegex,
	keySearchDebounceMS,
	keyReplyDelayMS,
	keyReplySeed,
	keyLoggingFile,
	keyLoggingLevel,
	keyLoggingMaxSizeMB,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing or malformed values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Search: domain.SearchSettings{
			CaseSensitive: s.getBool(keySearchCaseSensitive, defaults.Search.CaseSensitive),
			UseRegex:      s.getBool(keySearchUseRegex, defaults.Search.UseRegex),
			Debounce:      s.getMillis(keySearchDebounceMS, defaults.Search.Debounce),
		},
		Reply: domain.ReplySettings{
			Delay: s.getMillis(keyReplyDelayMS, defaults.Reply.Delay),
			Seed:  s.configStore.GetInt64(keyReplySeed),
		},
		Logging: domain.LoggingSettings{
			File:      s.configStore.GetString(keyLoggingFile),
			Level:     s.getLogLevel(defaults.Logging.Level),
			MaxSizeMB: s.getPositiveInt(keyLoggingMaxSizeMB, defaults.Logging.MaxSizeMB),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}
	if !domain.IsValidLogLevel(settings.Logging.Level) {
		return fmt.Errorf("%w: log level %q", domain.ErrInvalidInput, settings.Logging.Level)
	}

	values := []struct {
		key   string
		value any
	}{
		{keySearchCaseSensitive, settings.Search.CaseSensitive},
		{keySearchUseRegex, settings.Search.UseRegex},
		{keySearchDebounceMS, settings.Search.Debounce.Milliseconds()},
		{keyReplyDelayMS, settings.Reply.Delay.Milliseconds()},
		{keyReplySeed, settings.Reply.Seed},
		{keyLoggingFile, settings.Logging.File},
		{keyLoggingLevel, settings.Logging.Level},
		{keyLoggingMaxSizeMB, int64(settings.Logging.MaxSizeMB)},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// Set updates a single setting from its string form.
// An empty value resets the key to its default.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if !isSettingKey(key) {
			return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
		}
		return s.configStore.Delete(key)
	}

	var parsed any
	switch key {
	case keySearchCaseSensitive, keySearchUseRegex:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case keySearchDebounceMS, keyReplyDelayMS:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s expects a non-negative number of milliseconds", domain.ErrInvalidInput, key)
		}
		parsed = n
	case keyLoggingMaxSizeMB:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s expects a positive number", domain.ErrInvalidInput, key)
		}
		parsed = n
	case keyReplySeed:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case keyLoggingLevel:
		level := strings.ToLower(value)
		if !domain.IsValidLogLevel(level) {
			return fmt.Errorf("%w: %s expects debug, info, warn or error", domain.ErrInvalidInput, key)
		}
		parsed = level
	case keyLoggingFile:
		parsed = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the recognised config keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Entries returns every setting with its current value, in display order.
func (s *SettingsService) Entries() ([]domain.SettingEntry, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	entries := make([]domain.SettingEntry, 0, len(settingKeys))
	for _, key := range settingKeys {
		entries = append(entries, domain.SettingEntry{Key: key, Value: formatSetting(settings, key)})
	}
	return entries, nil
}

// formatSetting renders the value of key from settings for display.
func formatSetting(settings *domain.AppSettings, key string) string {
	switch key {
	case keySearchCaseSensitive:
		return strconv.FormatBool(settings.Search.CaseSensitive)
	case keySearchUseRegex:
		return strconv.FormatBool(settings.Search.UseRegex)
	case keySearchDebounceMS:
		return strconv.FormatInt(settings.Search.Debounce.Milliseconds(), 10)
	case keyReplyDelayMS:
		return strconv.FormatInt(settings.Reply.Delay.Milliseconds(), 10)
	case keyReplySeed:
		return strconv.FormatInt(settings.Reply.Seed, 10)
	case keyLoggingFile:
		return settings.Logging.File
	case keyLoggingLevel:
		return settings.Logging.Level
	case keyLoggingMaxSizeMB:
		return strconv.Itoa(settings.Logging.MaxSizeMB)
	default:
		return ""
	}
}

func isSettingKey(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getMillis reads a millisecond count. Zero is a valid value, so only a
// missing key or a negative number falls back to the default.
func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	ms := s.configStore.GetInt64(key)
	if ms < 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getLogLevel(defaultVal string) string {
	val := s.configStore.GetString(keyLoggingLevel)
	if !domain.IsValidLogLevel(val) {
		return defaultVal
	}
	return val
}
