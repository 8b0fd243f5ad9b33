package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for preference storage. Every preference lives in the
// "preferences" table of the config file.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyPrefix               = "preferences."
	keyTheme                = keyPrefix + "theme"
	keyBackendURL           = keyPrefix + "backend_url"
	keyBackendToken         = keyPrefix + "backend_token"
	keyArtifactsPath        = keyPrefix + "artifacts_path"
	keyAutoSave             = keyPrefix + "auto_save"
	keyNotificationDuration = keyPrefix + "notification_duration"
	keyMaxFileSize          = keyPrefix + "max_file_size"
	keyLanguage             = keyPrefix + "language"
	keyExportQuality        = keyPrefix + "export_quality"
	keyDebugMode            = keyPrefix + "debug_mode"
	keyRequestTimeout       = keyPrefix + "request_timeout"
)

// SettingsService manages user preferences. Missing or invalid stored values
// fall back to defaults; every change is written immediately.
type SettingsService struct {
	configStore driven.ConfigStore
	onChange    []func(domain.AppSettings)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// OnChange registers a hook called with the new preferences after every save.
func (s *SettingsService) OnChange(fn func(domain.AppSettings)) {
	s.onChange = append(s.onChange, fn)
}

// Get retrieves current preferences merged over the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Theme:                s.getTheme(d.Theme),
		BackendURL:           s.getString(keyBackendURL, d.BackendURL),
		BackendToken:         s.configStore.GetString(keyBackendToken),
		ArtifactsPath:        s.getString(keyArtifactsPath, d.ArtifactsPath),
		AutoSaveEnabled:      s.getBool(keyAutoSave, d.AutoSaveEnabled),
		NotificationDuration: s.getInt(keyNotificationDuration, d.NotificationDuration),
		MaxFileSizeMB:        s.getInt(keyMaxFileSize, d.MaxFileSizeMB),
		Language:             s.getLanguage(d.Language),
		ExportQuality:        s.getExportQuality(d.ExportQuality),
		DebugMode:            s.getBool(keyDebugMode, d.DebugMode),
		RequestTimeout:       s.getDuration(keyRequestTimeout, d.RequestTimeout),
	}

	return settings, nil
}

// Save validates and persists every preference.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyTheme, settings.Theme.String()},
		{keyBackendURL, settings.BackendURL},
		{keyArtifactsPath, settings.ArtifactsPath},
		{keyAutoSave, settings.AutoSaveEnabled},
		{keyNotificationDuration, settings.NotificationDuration},
		{keyMaxFileSize, settings.MaxFileSizeMB},
		{keyLanguage, string(settings.Language)},
		{keyExportQuality, string(settings.ExportQuality)},
		{keyDebugMode, settings.DebugMode},
		{keyRequestTimeout, settings.RequestTimeout.String()},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", strings.TrimPrefix(v.key, keyPrefix), err)
		}
	}
	if settings.BackendToken != "" {
		if err := s.configStore.Set(keyBackendToken, settings.BackendToken); err != nil {
			return fmt.Errorf("save backend_token: %w", err)
		}
	}

	s.changed(*settings)
	return nil
}

// Set updates one preference by its short key ("theme", "max_file_size", ...).
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case "theme":
		settings.Theme = domain.Theme(value)
	case "backend_url":
		settings.BackendURL = value
	case "artifacts_path":
		settings.ArtifactsPath = value
	case "auto_save":
		settings.AutoSaveEnabled, err = strconv.ParseBool(value)
	case "notification_duration":
		settings.NotificationDuration, err = strconv.Atoi(value)
	case "max_file_size":
		settings.MaxFileSizeMB, err = strconv.Atoi(value)
	case "language":
		settings.Language = domain.Language(value)
	case "export_quality":
		settings.ExportQuality = domain.ExportQuality(value)
	case "debug_mode":
		settings.DebugMode, err = strconv.ParseBool(value)
	case "request_timeout":
		settings.RequestTimeout, err = time.ParseDuration(value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	return s.Save(settings)
}

// SetBackendToken stores the bearer token sent to the backend.
// An empty token removes it.
func (s *SettingsService) SetBackendToken(token string) error {
	var err error
	if token == "" {
		err = s.configStore.Delete(keyBackendToken)
	} else {
		err = s.configStore.Set(keyBackendToken, token)
	}
	if err != nil {
		return err
	}

	if settings, err := s.Get(); err == nil {
		s.changed(*settings)
	}
	return nil
}

// Reset restores all defaults. The backend token is kept.
func (s *SettingsService) Reset() error {
	d := domain.DefaultAppSettings()
	return s.Save(&d)
}

// exportedSettings is the JSON shape used by Export and Import.
type exportedSettings struct {
	Theme                *string `json:"theme,omitempty"`
	BackendURL           *string `json:"backendUrl,omitempty"`
	ArtifactsPath        *string `json:"artifactsPath,omitempty"`
	AutoSaveEnabled      *bool   `json:"autoSaveEnabled,omitempty"`
	NotificationDuration *int    `json:"notificationDuration,omitempty"`
	MaxFileSize          *int    `json:"maxFileSize,omitempty"`
	Language             *string `json:"language,omitempty"`
	ExportQuality        *string `json:"exportQuality,omitempty"`
	DebugMode            *bool   `json:"debugMode,omitempty"`
	RequestTimeout       *string `json:"requestTimeout,omitempty"`
}

// Export returns the preferences as indented JSON. The token is not exported.
func (s *SettingsService) Export() ([]byte, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	theme := settings.Theme.String()
	lang := string(settings.Language)
	quality := string(settings.ExportQuality)
	timeout := settings.RequestTimeout.String()
	out := exportedSettings{
		Theme:                &theme,
		BackendURL:           &settings.BackendURL,
		ArtifactsPath:        &settings.ArtifactsPath,
		AutoSaveEnabled:      &settings.AutoSaveEnabled,
		NotificationDuration: &settings.NotificationDuration,
		MaxFileSize:          &settings.MaxFileSizeMB,
		Language:             &lang,
		ExportQuality:        &quality,
		DebugMode:            &settings.DebugMode,
		RequestTimeout:       &timeout,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return data, nil
}

// Import merges JSON preferences over the defaults, validates and persists them.
func (s *SettingsService) Import(data []byte) error {
	var in exportedSettings
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: settings json: %v", domain.ErrInvalidInput, err)
	}

	settings := domain.DefaultAppSettings()
	if in.Theme != nil {
		settings.Theme = domain.Theme(*in.Theme)
	}
	if in.BackendURL != nil {
		settings.BackendURL = *in.BackendURL
	}
	if in.ArtifactsPath != nil {
		settings.ArtifactsPath = *in.ArtifactsPath
	}
	if in.AutoSaveEnabled != nil {
		settings.AutoSaveEnabled = *in.AutoSaveEnabled
	}
	if in.NotificationDuration != nil {
		settings.NotificationDuration = *in.NotificationDuration
	}
	if in.MaxFileSize != nil {
		settings.MaxFileSizeMB = *in.MaxFileSize
	}
	if in.Language != nil {
		settings.Language = domain.Language(*in.Language)
	}
	if in.ExportQuality != nil {
		settings.ExportQuality = domain.ExportQuality(*in.ExportQuality)
	}
	if in.DebugMode != nil {
		settings.DebugMode = *in.DebugMode
	}
	if in.RequestTimeout != nil {
		d, err := time.ParseDuration(*in.RequestTimeout)
		if err != nil {
			return fmt.Errorf("%w: requestTimeout: %v", domain.ErrInvalidInput, err)
		}
		settings.RequestTimeout = d
	}

	return s.Save(&settings)
}

// GetDefaults returns default preferences.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Keys lists the keys accepted by Set.
func (s *SettingsService) Keys() []string {
	keys := []string{
		"theme", "backend_url", "artifacts_path", "auto_save", "notification_duration",
		"max_file_size", "language", "export_quality", "debug_mode", "request_timeout",
	}
	sort.Strings(keys)
	return keys
}

func (s *SettingsService) changed(settings domain.AppSettings) {
	for _, fn := range s.onChange {
		fn(settings)
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getTheme(defaultVal domain.Theme) domain.Theme {
	theme := domain.Theme(s.configStore.GetString(keyTheme))
	if !theme.IsValid() {
		return defaultVal
	}
	return theme
}

func (s *SettingsService) getLanguage(defaultVal domain.Language) domain.Language {
	lang := domain.Language(s.configStore.GetString(keyLanguage))
	if !lang.IsValid() {
		return defaultVal
	}
	return lang
}

func (s *SettingsService) getExportQuality(defaultVal domain.ExportQuality) domain.ExportQuality {
	q := domain.ExportQuality(s.configStore.GetString(keyExportQuality))
	if !q.IsValid() {
		return defaultVal
	}
	return q
}
