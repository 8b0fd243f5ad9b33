package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, ThemeSystem, s.Theme)
	assert.Equal(t, "http://localhost:5123", s.BackendURL)
	assert.Empty(t, s.ArtifactsPath)
	assert.True(t, s.AutoSaveEnabled)
	assert.Equal(t, 4000, s.NotificationDuration)
	assert.Equal(t, 50, s.MaxFileSizeMB)
	assert.Equal(t, LanguageEnglish, s.Language)
	assert.Equal(t, ExportQualityHigh, s.ExportQuality)
	assert.False(t, s.DebugMode)
	assert.Equal(t, 30*time.Second, s.RequestTimeout)
	assert.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"bad theme", func(s *AppSettings) { s.Theme = "neon" }},
		{"bad language", func(s *AppSettings) { s.Language = "fr" }},
		{"bad quality", func(s *AppSettings) { s.ExportQuality = "ultra" }},
		{"relative url", func(s *AppSettings) { s.BackendURL = "localhost" }},
		{"non-http url", func(s *AppSettings) { s.BackendURL = "ftp://example.com" }},
		{"negative duration", func(s *AppSettings) { s.NotificationDuration = -1 }},
		{"negative size", func(s *AppSettings) { s.MaxFileSizeMB = -5 }},
		{"negative timeout", func(s *AppSettings) { s.RequestTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestAppSettings_Conversions(t *testing.T) {
	s := DefaultAppSettings()
	assert.Equal(t, int64(50*1024*1024), s.MaxFileSizeBytes())
	assert.Equal(t, 4*time.Second, s.NotificationTimeout())

	s.MaxFileSizeMB = 0
	assert.Equal(t, int64(0), s.MaxFileSizeBytes())
}

func TestExportQuality_Scale(t *testing.T) {
	assert.InDelta(t, 0.5, ExportQualityLow.Scale(), 1e-9)
	assert.InDelta(t, 0.75, ExportQualityMedium.Scale(), 1e-9)
	assert.InDelta(t, 1.0, ExportQualityHigh.Scale(), 1e-9)
	assert.Equal(t, "Medium (75% scale)", ExportQualityMedium.Description())
}
