// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Background is the background colour.
	Background lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Background: lipgloss.Color("#1E1E2E"), // Dark gray
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// LightTheme returns a palette for light terminals.
func LightTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#6D28D9"), // Purple
		Secondary:  lipgloss.Color("#0E7490"), // Teal
		Background: lipgloss.Color("#EFF1F5"), // Off-white
		Foreground: lipgloss.Color("#4C4F69"), // Slate
		Muted:      lipgloss.Color("#8C8FA1"), // Gray
		Success:    lipgloss.Color("#40A02B"), // Green
		Warning:    lipgloss.Color("#DF8E1D"), // Amber
		Error:      lipgloss.Color("#D20F39"), // Red
		Border:     lipgloss.Color("#BCC0CC"), // Border gray
	}
}

// ThemeFor picks the palette for a theme preference. "system" follows the
// terminal's background.
func ThemeFor(pref domain.Theme) *Theme {
	switch pref {
	case domain.ThemeLight:
		return LightTheme()
	case domain.ThemeDark:
		return DefaultTheme()
	default:
		if lipgloss.HasDarkBackground() {
			return DefaultTheme()
		}
		return LightTheme()
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted items.
	Selected lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// InputField style for input areas.
	InputField lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style

	// Block styles a layout block label by its type.
	Block map[domain.BlockType]lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Block: map[domain.BlockType]lipgloss.Style{
			domain.BlockTypeText:    lipgloss.NewStyle().Foreground(theme.Foreground),
			domain.BlockTypeTable:   lipgloss.NewStyle().Foreground(theme.Secondary),
			domain.BlockTypePicture: lipgloss.NewStyle().Foreground(theme.Success),
			domain.BlockTypeChart:   lipgloss.NewStyle().Foreground(theme.Warning),
			domain.BlockTypeFormula: lipgloss.NewStyle().Foreground(theme.Primary),
		},
	}
}

// BlockLabel renders a block type label in its colour.
func (s *Styles) BlockLabel(t domain.BlockType) string {
	style, ok := s.Block[t]
	if !ok {
		style = s.Muted
	}
	return style.Render(t.Label())
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
