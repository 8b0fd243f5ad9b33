package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/cli"
	"github.com/custodia-labs/paperlens/internal/core/domain"
)

func TestResolveConfigDir(t *testing.T) {
	t.Setenv(envConfigDir, "/from/env")

	dir, err := resolveConfigDir("/from/flag")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", dir)

	dir, err = resolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, "/from/env", dir)
}

func TestBackendConfig(t *testing.T) {
	s := domain.DefaultAppSettings()
	s.BackendToken = "stored"

	cfg := backendConfig(s)
	assert.Equal(t, domain.DefaultBackendURL, cfg.BaseURL)
	assert.Equal(t, "stored", cfg.Token)
	assert.Equal(t, domain.DefaultRequestTimeout, cfg.Timeout)

	t.Setenv(envBackendURL, "https://layout.example.test")
	t.Setenv(envBackendToken, "from-env")

	cfg = backendConfig(s)
	assert.Equal(t, "https://layout.example.test", cfg.BaseURL)
	assert.Equal(t, "from-env", cfg.Token)
}

func TestBootstrap(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envInboxDir, "")

	s, err := bootstrap(cli.Options{ConfigDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.NotNil(t, s.Assistant)
	assert.NotNil(t, s.Ingestor)
	assert.NotNil(t, s.History)
	assert.NotNil(t, s.Notifications)
	assert.NotNil(t, s.WatchInbox)
	assert.FileExists(t, filepath.Join(dir, "data", "transcripts.db"))

	require.NoError(t, s.Settings.Set("export_quality", "low"))
	settings, err := s.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.ExportQualityLow, settings.ExportQuality)

	_, err = os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, err)
}
