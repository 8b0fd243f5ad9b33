package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskToken(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShowCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "URL: "+domain.DefaultBackendURL)
	assert.Contains(t, out, "Token: (not set)")
	assert.Contains(t, out, "Quality: High (full resolution)")
	assert.Contains(t, out, "Theme: system")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsSetCmd(t *testing.T) {
	env := setupTestServices(t)

	out, err := execute(t, "settings", "set", "export_quality", "low")
	require.NoError(t, err)
	assert.Contains(t, out, "Set export_quality to low")

	settings, err := env.services.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ExportQualityLow, settings.ExportQuality)
}

func TestSettingsSetCmd_UnknownKey(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "set", "colour", "blue")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSetCmd_BadValue(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "set", "auto_save", "maybe")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsResetCmd(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.services.Settings.Set("theme", "dark"))

	out, err := execute(t, "settings", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings restored to defaults.")

	settings, err := env.services.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeSystem, settings.Theme)
}

func TestSettingsExportImportCmd(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.services.Settings.Set("theme", "light"))

	out, err := execute(t, "settings", "export")
	require.NoError(t, err)
	assert.Contains(t, out, `"theme": "light"`)

	require.NoError(t, env.services.Settings.Reset())
	file := filepath.Join(env.dir, "settings.json")
	require.NoError(t, os.WriteFile(file, []byte(out), 0o600))
	resetFlags(rootCmd)

	out, err = execute(t, "settings", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Settings imported.")

	settings, err := env.services.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, settings.Theme)
}

func TestSettingsCmd_NoService(t *testing.T) {
	SetServices(nil)
	t.Cleanup(func() { resetFlags(rootCmd) })

	_, err := execute(t, "settings", "show")

	assert.EqualError(t, err, "settings service not configured")
}
