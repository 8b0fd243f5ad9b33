package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change preferences: theme, backend URL and token, artifacts
directory, auto-save, notification duration, upload size limit, language,
image export quality, debug mode and request timeout.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting and save it immediately.

Keys: theme, backend_url, artifacts_path, auto_save, notification_duration,
max_file_size, language, export_quality, debug_mode, request_timeout.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Set the backend bearer token",
	Long:  `Prompts for the token without echoing it. An empty token removes it.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsToken,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

var settingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print settings as JSON",
	Args:  cobra.NoArgs,
	RunE:  runSettingsExport,
}

var settingsImportCmd = &cobra.Command{
	Use:   "import [file.json]",
	Short: "Load settings from JSON",
	Long:  `Loads settings exported with 'paperlens settings export'. Missing keys take their defaults.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsImport,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the backend and export preferences.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsExportCmd)
	settingsCmd.AddCommand(settingsImportCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingsService() (driving.SettingsService, error) {
	if services == nil || services.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return services.Settings, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  URL: %s\n", settings.BackendURL)
	if settings.BackendToken != "" {
		cmd.Printf("  Token: %s\n", maskToken(settings.BackendToken))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Printf("  Request timeout: %s\n", settings.RequestTimeout)
	cmd.Printf("  Max file size: %d MB\n", settings.MaxFileSizeMB)
	cmd.Println()

	cmd.Println("[Export]")
	artifacts := settings.ArtifactsPath
	if artifacts == "" {
		artifacts = "(default)"
	}
	cmd.Printf("  Artifacts: %s\n", artifacts)
	cmd.Printf("  Quality: %s\n", settings.ExportQuality.Description())
	cmd.Printf("  Auto-save transcripts: %s\n", yesNo(settings.AutoSaveEnabled))
	cmd.Println()

	cmd.Println("[Interface]")
	cmd.Printf("  Theme: %s\n", settings.Theme)
	cmd.Printf("  Language: %s\n", settings.Language)
	cmd.Printf("  Notifications: %d ms\n", settings.NotificationDuration)
	cmd.Printf("  Debug mode: %s\n", yesNo(settings.DebugMode))
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'paperlens settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	if err := svc.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s to %s\n", args[0], args[1])
	return nil
}

func runSettingsToken(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	cmd.Print("Backend token (empty to remove): ")
	token := readPassword(cmd)
	cmd.Println()

	if err := svc.SetBackendToken(token); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	if token == "" {
		cmd.Println("Token removed.")
	} else {
		cmd.Printf("Token set: %s\n", maskToken(token))
	}
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	if err := svc.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

func runSettingsExport(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	data, err := svc.Export()
	if err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runSettingsImport(cmd *cobra.Command, args []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	if err := svc.Import(data); err != nil {
		return fmt.Errorf("failed to import settings: %w", err)
	}
	cmd.Println("Settings imported.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Paperlens Settings Wizard")
	cmd.Println("=========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Backend")
	cmd.Println("---------------")
	cmd.Printf("Backend URL [%s]: ", settings.BackendURL)
	if url := readLine(reader); url != "" {
		settings.BackendURL = url
	}
	cmd.Println()

	cmd.Println("Step 2: Image export quality")
	cmd.Println("----------------------------")
	qualities := domain.AllExportQualities()
	current := 1
	for i, q := range qualities {
		cmd.Printf("  %d. %s\n", i+1, q.Description())
		if q == settings.ExportQuality {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	settings.ExportQuality = qualities[parseChoice(readLine(reader), len(qualities), current)-1]
	cmd.Println()

	cmd.Println("Step 3: Theme")
	cmd.Println("-------------")
	themes := domain.AllThemes()
	current = 1
	for i, th := range themes {
		cmd.Printf("  %d. %s\n", i+1, th)
		if th == settings.Theme {
			current = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", current)
	settings.Theme = themes[parseChoice(readLine(reader), len(themes), current)-1]
	cmd.Println()

	if err := svc.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Println("Run 'paperlens settings token' to set a backend token.")
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(cmd *cobra.Command) string {
	if cmd.InOrStdin() == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(cmd.InOrStdin())
	return readLine(reader)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
