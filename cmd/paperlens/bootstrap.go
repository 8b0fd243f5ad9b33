package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/paperlens/internal/adapters/driven/artifacts"
	"github.com/custodia-labs/paperlens/internal/adapters/driven/backend"
	"github.com/custodia-labs/paperlens/internal/adapters/driven/clipboard"
	"github.com/custodia-labs/paperlens/internal/adapters/driven/config/file"
	"github.com/custodia-labs/paperlens/internal/adapters/driven/render"
	"github.com/custodia-labs/paperlens/internal/adapters/driven/render/mupdf"
	"github.com/custodia-labs/paperlens/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/paperlens/internal/adapters/driven/watcher"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/cli"
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/services"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// Environment overrides. They apply for the process lifetime and are never
// written to the config file.
const (
	envConfigDir    = "PAPERLENS_CONFIG_DIR"
	envBackendURL   = "PAPERLENS_BACKEND_URL"
	envBackendToken = "PAPERLENS_BACKEND_TOKEN"
	envInboxDir     = "PAPERLENS_INBOX"
)

// bootstrap wires the driven adapters into the services the commands use.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	configDir, err := resolveConfigDir(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore)

	settings, err := settingsSvc.Get()
	if err != nil {
		logger.Warn("reading settings, using defaults: %v", err)
		d := domain.DefaultAppSettings()
		settings = &d
	}
	logger.SetVerbose(opts.Verbose || settings.DebugMode)

	gateway, err := backend.NewReloadable(backendConfig(*settings))
	if err != nil {
		logger.Warn("backend settings invalid, using %s: %v", domain.DefaultBackendURL, err)
		d := domain.DefaultAppSettings()
		if gateway, err = backend.NewReloadable(backendConfig(d)); err != nil {
			return nil, fmt.Errorf("creating backend client: %w", err)
		}
	}

	registry := render.NewRegistry()
	renderer := mupdf.NewRenderer(registry, mupdf.Options{})
	regions := services.NewRegionExtractor(registry, renderer)
	regions.SetQuality(settings.ExportQuality)

	artifactStore, err := artifacts.NewStore(settings.ArtifactsPath)
	if err != nil {
		return nil, fmt.Errorf("opening artifacts directory: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening transcript archive: %w", err)
	}

	notifier := services.NewNotificationCenter()
	notifier.SetDefaultDuration(settings.NotificationTimeout())
	notifier.OnNotify(func(n domain.Notification) {
		logger.Debug("notify %s: %s", n.Level, n.Message)
	})

	ingestor := services.NewFileIngestor(notifier, func() int64 {
		s, err := settingsSvc.Get()
		if err != nil {
			return 0
		}
		return s.MaxFileSizeBytes()
	}, services.DefaultDropCooldown)

	archive := store.TranscriptArchive()
	assistant := services.NewAssistant(services.AssistantDeps{
		Gateway:   gateway,
		Regions:   regions,
		Clipboard: clipboard.New(),
		Artifacts: artifactStore,
		Notifier:  notifier,
		Archive:   archive,
		Viewer:    renderer,
	})
	assistant.SetAutoSave(settings.AutoSaveEnabled)
	registry.OnMount(func(pageIndex int) { assistant.PageRendered(pageIndex) })

	settingsSvc.OnChange(func(s domain.AppSettings) {
		logger.SetVerbose(opts.Verbose || s.DebugMode)
		regions.SetQuality(s.ExportQuality)
		notifier.SetDefaultDuration(s.NotificationTimeout())
		assistant.SetAutoSave(s.AutoSaveEnabled)
		if err := artifactStore.SetDir(s.ArtifactsPath); err != nil {
			logger.Warn("artifacts directory: %v", err)
		}
		if err := gateway.Reload(backendConfig(s)); err != nil {
			logger.Warn("backend settings: %v", err)
		}
	})

	inboxDir := os.Getenv(envInboxDir)
	if inboxDir == "" {
		inboxDir = filepath.Join(configDir, "inbox")
	}

	logger.Debug("config %s, archive %s, inbox %s, backend %s",
		configStore.Path(), store.Path(), inboxDir, gateway.BaseURL())

	return &cli.Services{
		Assistant:     assistant,
		Ingestor:      ingestor,
		Settings:      settingsSvc,
		History:       services.NewHistoryService(archive),
		Notifications: notifier,
		WatchInbox: func(ctx context.Context, onDrop func(ctx context.Context, paths []string)) error {
			if err := os.MkdirAll(inboxDir, 0700); err != nil {
				return fmt.Errorf("creating inbox: %w", err)
			}
			return watcher.NewInbox(inboxDir, 0, onDrop).Run(ctx)
		},
		Close: func() error {
			return errors.Join(renderer.Close(), store.Close())
		},
	}, nil
}

func resolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	return file.DefaultDir()
}

// backendConfig builds the client config from settings and env overrides.
func backendConfig(s domain.AppSettings) backend.Config {
	cfg := backend.Config{
		BaseURL: s.BackendURL,
		Token:   s.BackendToken,
		Timeout: s.RequestTimeout,
	}
	if url := os.Getenv(envBackendURL); url != "" {
		cfg.BaseURL = url
	}
	if token := os.Getenv(envBackendToken); token != "" {
		cfg.Token = token
	}
	return cfg
}
