package domain

import (
	"fmt"
	"net/url"
	"time"
)

const unknownDescription = "Unknown"

// Theme selects the colour scheme.
type Theme string

// Available themes.
const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// IsValid returns true if the theme is recognised.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t Theme) String() string {
	return string(t)
}

// Language is the interface language.
type Language string

// Supported languages.
const (
	LanguageEnglish Language = "en"
	LanguageRussian Language = "ru"
)

// IsValid returns true if the language is supported.
func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageRussian
}

// ExportQuality controls the scale of exported region images.
type ExportQuality string

// Export qualities.
const (
	ExportQualityLow    ExportQuality = "low"
	ExportQualityMedium ExportQuality = "medium"
	ExportQualityHigh   ExportQuality = "high"
)

// IsValid returns true if the quality is recognised.
func (q ExportQuality) IsValid() bool {
	switch q {
	case ExportQualityLow, ExportQualityMedium, ExportQualityHigh:
		return true
	default:
		return false
	}
}

// Scale is the factor applied to region images before encoding.
func (q ExportQuality) Scale() float64 {
	switch q {
	case ExportQualityLow:
		return 0.5
	case ExportQualityMedium:
		return 0.75
	case ExportQualityHigh:
		return 1
	default:
		return 1
	}
}

// Description returns a human-readable description.
func (q ExportQuality) Description() string {
	switch q {
	case ExportQualityLow:
		return "Low (50% scale)"
	case ExportQualityMedium:
		return "Medium (75% scale)"
	case ExportQualityHigh:
		return "High (full resolution)"
	default:
		return unknownDescription
	}
}

// DefaultBackendURL is the extraction service address used when nothing is configured.
const DefaultBackendURL = "http://localhost:5123"

// DefaultRequestTimeout is the fixed timeout applied to every backend request.
const DefaultRequestTimeout = 30 * time.Second

// AppSettings holds user preferences.
type AppSettings struct {
	Theme                Theme         `json:"theme"`
	BackendURL           string        `json:"backendUrl"`
	BackendToken         string        `json:"-"`
	ArtifactsPath        string        `json:"artifactsPath"`
	AutoSaveEnabled      bool          `json:"autoSaveEnabled"`
	NotificationDuration int           `json:"notificationDuration"`
	MaxFileSizeMB        int           `json:"maxFileSize"`
	Language             Language      `json:"language"`
	ExportQuality        ExportQuality `json:"exportQuality"`
	DebugMode            bool          `json:"debugMode"`
	RequestTimeout       time.Duration `json:"requestTimeout"`
}

// DefaultAppSettings returns the preferences used for missing keys.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Theme:                ThemeSystem,
		BackendURL:           DefaultBackendURL,
		ArtifactsPath:        "",
		AutoSaveEnabled:      true,
		NotificationDuration: 4000,
		MaxFileSizeMB:        50,
		Language:             LanguageEnglish,
		ExportQuality:        ExportQualityHigh,
		DebugMode:            false,
		RequestTimeout:       DefaultRequestTimeout,
	}
}

// MaxFileSizeBytes converts the size limit to bytes. Zero disables the limit.
func (s AppSettings) MaxFileSizeBytes() int64 {
	if s.MaxFileSizeMB <= 0 {
		return 0
	}
	return int64(s.MaxFileSizeMB) << 20
}

// NotificationTimeout returns the configured notification duration.
func (s AppSettings) NotificationTimeout() time.Duration {
	return time.Duration(s.NotificationDuration) * time.Millisecond
}

// Validate checks the settings for values the application cannot use.
func (s AppSettings) Validate() error {
	if !s.Theme.IsValid() {
		return fmt.Errorf("%w: theme %q", ErrInvalidInput, s.Theme)
	}
	if !s.Language.IsValid() {
		return fmt.Errorf("%w: language %q", ErrInvalidInput, s.Language)
	}
	if !s.ExportQuality.IsValid() {
		return fmt.Errorf("%w: export quality %q", ErrInvalidInput, s.ExportQuality)
	}
	u, err := url.Parse(s.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: backend url %q", ErrInvalidInput, s.BackendURL)
	}
	if s.NotificationDuration < 0 {
		return fmt.Errorf("%w: notification duration must not be negative", ErrInvalidInput)
	}
	if s.MaxFileSizeMB < 0 {
		return fmt.Errorf("%w: max file size must not be negative", ErrInvalidInput)
	}
	if s.RequestTimeout < 0 {
		return fmt.Errorf("%w: request timeout must not be negative", ErrInvalidInput)
	}
	return nil
}

// AllThemes returns all themes in display order.
func AllThemes() []Theme {
	return []Theme{ThemeSystem, ThemeLight, ThemeDark}
}

// AllExportQualities returns all export qualities in display order.
func AllExportQualities() []ExportQuality {
	return []ExportQuality{ExportQualityHigh, ExportQualityMedium, ExportQualityLow}
}
