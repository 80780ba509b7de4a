package driving

import "github.com/custodia-labs/chatdesk/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its config key, e.g. "search.use_regex".
	Set(key, value string) error

	// Keys returns the recognised config keys in display order.
	Keys() []string

	// Entries returns every setting with its current value, in display order.
	Entries() ([]domain.SettingEntry, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
