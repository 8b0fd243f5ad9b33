package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui"
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [file.pdf]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

The viewer lists the blocks of each page and their actions; the chat shows
the transcript and takes questions. PDFs dropped into the inbox directory
are opened automatically.

Controls:
  o        - Open a PDF
  ←/→      - Previous / next page
  ↑/k, ↓/j - Select a block
  Enter    - Block actions
  Tab      - Switch between viewer and chat
  Ctrl+Y   - Copy the selected transcript entry
  Esc      - Back / Cancel
  Ctrl+C   - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	s, err := requireAssistant()
	if err != nil {
		return err
	}

	ports := tui.NewPorts(s.Assistant, s.Ingestor)
	ports.Settings = s.Settings
	ports.Notifications = s.Notifications

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	app.WithContext(ctx)

	if s.WatchInbox != nil {
		go func() {
			if err := s.WatchInbox(ctx, dropHandler(s)); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("inbox watcher stopped: %v", err)
			}
		}()
	}

	if len(args) == 1 {
		go openPath(ctx, s, args[0])
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// dropHandler loads the first PDF of a drop. Failures are reported through
// notifications by the ingestor and the assistant.
func dropHandler(s *Services) func(ctx context.Context, paths []string) {
	return func(ctx context.Context, paths []string) {
		doc, err := s.Ingestor.HandleDrop(ctx, paths)
		if err != nil {
			if errors.Is(err, domain.ErrDropInProgress) {
				logger.Debug("drop ignored: %v", err)
			} else {
				logger.Warn("drop failed: %v", err)
			}
			return
		}
		if doc == nil {
			return
		}
		if err := s.Assistant.LoadDocument(ctx, doc); err != nil {
			logger.Warn("load %s: %v", doc.Name(), err)
		}
	}
}

// openPath loads the PDF given on the command line.
func openPath(ctx context.Context, s *Services, path string) {
	doc, err := s.Ingestor.FromPath(ctx, path)
	if err != nil {
		logger.Warn("open %s: %v", path, err)
		return
	}
	if err := s.Assistant.LoadDocument(ctx, doc); err != nil {
		logger.Warn("load %s: %v", doc.Name(), err)
	}
}
