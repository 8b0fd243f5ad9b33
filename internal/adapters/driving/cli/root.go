// Package cli implements the paperlens command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
	"github.com/custodia-labs/paperlens/internal/logger"
)

var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services are the driving ports the commands run against.
type Services struct {
	Assistant     driving.Assistant
	Ingestor      driving.FileIngestor
	Settings      driving.SettingsService
	History       driving.HistoryService
	Notifications driving.NotificationFeed

	// WatchInbox delivers PDFs dropped into the inbox directory to onDrop
	// until ctx is cancelled. Nil disables the inbox.
	WatchInbox func(ctx context.Context, onDrop func(ctx context.Context, paths []string)) error

	// Close releases stores and rendering resources.
	Close func() error
}

// Options are the root flags passed to a Bootstrap.
type Options struct {
	ConfigDir string
	Verbose   bool
}

// Bootstrap builds the services once flags have been parsed.
type Bootstrap func(opts Options) (*Services, error)

var (
	bootstrap Bootstrap
	services  *Services
	// owned is set when services were built by bootstrap and must be closed.
	owned bool
)

var rootCmd = &cobra.Command{
	Use:   "paperlens",
	Short: "Explore PDF structure with a layout extraction backend",
	Long: `paperlens uploads a PDF to a layout extraction backend, shows the detected
blocks (text, tables, pictures, charts, formulas) and runs actions on them:
copy, extract as Markdown/CSV/code, save block images, and ask questions
about a block or the whole document.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.paperlens)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds the services.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices installs ready-made services, bypassing the bootstrap.
func SetServices(s *Services) {
	services = s
	owned = false
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	if services != nil || bootstrap == nil {
		return nil
	}

	s, err := bootstrap(Options{ConfigDir: configDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	services = s
	owned = true
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if !owned || services == nil {
		return nil
	}
	var err error
	if services.Close != nil {
		err = services.Close()
	}
	services = nil
	owned = false
	return err
}

func requireAssistant() (*Services, error) {
	if services == nil || services.Assistant == nil || services.Ingestor == nil {
		return nil, errors.New("assistant not configured")
	}
	return services, nil
}
