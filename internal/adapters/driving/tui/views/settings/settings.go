// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionTheme
	SectionQuality
	SectionBackend
)

// Overview rows.
const (
	itemTheme = iota
	itemQuality
	itemBackend
	itemAutoSave
	itemDebug
	itemReset
	overviewItems
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyTab   = "tab"
)

// Backend form fields.
const (
	fieldURL = iota
	fieldToken
)

var errNoSettingsService = errors.New("settings service not available")

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	saved    bool

	section      Section
	selected     int
	focusedField int

	urlInput   textinput.Model
	tokenInput textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	urlInput := textinput.New()
	urlInput.Placeholder = domain.DefaultBackendURL
	urlInput.CharLimit = 512

	tokenInput := textinput.New()
	tokenInput.Placeholder = "Leave empty to keep the current token"
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.CharLimit = 512

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		urlInput:        urlInput,
		tokenInput:      tokenInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: errNoSettingsService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.saved = false
			return v, nil
		}
		v.err = nil
		v.saved = true
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionTheme:
		themes := domain.AllThemes()
		return v.handleChoiceKeys(msg, len(themes), func(i int) tea.Cmd {
			return v.set("theme", themes[i].String())
		})
	case SectionQuality:
		qualities := domain.AllExportQualities()
		return v.handleChoiceKeys(msg, len(qualities), func(i int) tea.Cmd {
			return v.set("export_quality", string(qualities[i]))
		})
	case SectionBackend:
		return v.handleBackendKeys(msg)
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < overviewItems-1 {
			v.selected++
		}
	case keyEnter, " ":
		if v.settings == nil {
			return v, nil
		}
		v.saved = false
		switch v.selected {
		case itemTheme:
			v.section = SectionTheme
			v.selected = indexOf(domain.AllThemes(), v.settings.Theme)
		case itemQuality:
			v.section = SectionQuality
			v.selected = indexOf(domain.AllExportQualities(), v.settings.ExportQuality)
		case itemBackend:
			v.section = SectionBackend
			v.focusedField = fieldURL
			v.urlInput.SetValue(v.settings.BackendURL)
			v.urlInput.CursorEnd()
			v.tokenInput.SetValue("")
			v.tokenInput.Blur()
			return v, v.urlInput.Focus()
		case itemAutoSave:
			return v, v.set("auto_save", strconv.FormatBool(!v.settings.AutoSaveEnabled))
		case itemDebug:
			return v, v.set("debug_mode", strconv.FormatBool(!v.settings.DebugMode))
		case itemReset:
			return v, v.reset()
		}
	}
	return v, nil
}

func (v *View) handleChoiceKeys(msg tea.KeyMsg, count int, choose func(int) tea.Cmd) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < count-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected >= 0 && v.selected < count {
			return v, choose(v.selected)
		}
	}
	return v, nil
}

func (v *View) handleBackendKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyTab, "shift+tab", "up", keyDown:
		if v.focusedField == fieldURL {
			v.focusedField = fieldToken
			v.urlInput.Blur()
			return v, v.tokenInput.Focus()
		}
		v.focusedField = fieldURL
		v.tokenInput.Blur()
		return v, v.urlInput.Focus()
	case keyEnter:
		return v, v.saveBackend(strings.TrimSpace(v.urlInput.Value()), v.tokenInput.Value())
	}

	var cmd tea.Cmd
	if v.focusedField == fieldURL {
		v.urlInput, cmd = v.urlInput.Update(msg)
	} else {
		v.tokenInput, cmd = v.tokenInput.Update(msg)
	}
	return v, cmd
}

// Commands to update settings.

func (v *View) set(key, value string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errNoSettingsService}
		}
		return messages.SettingsSaved{Err: svc.Set(key, value)}
	}
}

func (v *View) saveBackend(url, token string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errNoSettingsService}
		}
		if err := svc.Set("backend_url", url); err != nil {
			return messages.SettingsSaved{Err: err}
		}
		if token != "" {
			if err := svc.SetBackendToken(token); err != nil {
				return messages.SettingsSaved{Err: err}
			}
		}
		return messages.SettingsSaved{}
	}
}

func (v *View) reset() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errNoSettingsService}
		}
		return messages.SettingsSaved{Err: svc.Reset()}
	}
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.focusedField = fieldURL
	v.urlInput.Blur()
	v.tokenInput.SetValue("")
	v.tokenInput.Blur()
}

func indexOf[T comparable](items []T, want T) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionTheme:
		b.WriteString(v.renderThemeSelect())
	case SectionQuality:
		b.WriteString(v.renderQualitySelect())
	case SectionBackend:
		b.WriteString(v.renderBackendForm())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	items := []struct {
		label string
		value string
	}{
		{"Theme", v.settings.Theme.String()},
		{"Export Quality", v.settings.ExportQuality.Description()},
		{"Backend", v.settings.BackendURL},
		{"Auto-save Images", onOff(v.settings.AutoSaveEnabled)},
		{"Debug Mode", onOff(v.settings.DebugMode)},
		{"Reset to Defaults", ""},
	}

	for i, item := range items {
		line := "  " + item.label
		if i == v.selected {
			line = "> " + item.label
		}
		if item.value != "" {
			line += ": " + item.value
		}
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.settings.BackendToken != "" {
		b.WriteString(v.styles.Success.Render("Backend token configured"))
	} else {
		b.WriteString(v.styles.Muted.Render("No backend token"))
	}
	if v.saved {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render("Settings saved"))
	}
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderThemeSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Theme"))
	b.WriteString("\n\n")

	for i, theme := range domain.AllThemes() {
		b.WriteString(v.renderChoice(i, theme.String(), theme == v.settings.Theme))
	}

	return b.String()
}

func (v *View) renderQualitySelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Export Quality"))
	b.WriteString("\n\n")

	for i, quality := range domain.AllExportQualities() {
		b.WriteString(v.renderChoice(i, quality.Description(), quality == v.settings.ExportQuality))
	}

	return b.String()
}

func (v *View) renderChoice(index int, label string, current bool) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}
	suffix := ""
	if current {
		suffix = v.styles.Success.Render(" (current)")
	}

	line := indicator + label + suffix
	if index == v.selected {
		return v.styles.Selected.Render(line) + "\n"
	}
	return v.styles.Normal.Render(line) + "\n"
}

func (v *View) renderBackendForm() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Backend Connection"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render("URL:"))
	b.WriteString("\n")
	b.WriteString(v.urlInput.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render("Token:"))
	b.WriteString("\n")
	b.WriteString(v.tokenInput.View())
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit/toggle  [esc] back")
	case SectionTheme, SectionQuality:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	case SectionBackend:
		return v.styles.Help.Render("[tab] switch field  [enter] save  [esc] back")
	default:
		return ""
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Settings returns the last loaded settings, nil before loading completes.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.saved = false
	v.urlInput.SetValue("")
}
