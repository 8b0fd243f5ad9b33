package driving

import "github.com/custodia-labs/paperlens/internal/core/domain"

// SettingsService manages user preferences.
type SettingsService interface {
	// Get retrieves preferences, with defaults for missing keys.
	Get() (*domain.AppSettings, error)

	// Save validates and persists every preference.
	Save(settings *domain.AppSettings) error

	// Set updates one preference by key and persists it.
	Set(key, value string) error

	// SetBackendToken stores the bearer token sent to the backend.
	SetBackendToken(token string) error

	// Reset restores all defaults.
	Reset() error

	// Export returns the preferences as JSON (the token is never exported).
	Export() ([]byte, error)

	// Import merges JSON preferences over the defaults and persists them.
	Import(data []byte) error

	// GetDefaults returns default preferences.
	GetDefaults() domain.AppSettings

	// Keys lists the keys accepted by Set.
	Keys() []string
}
