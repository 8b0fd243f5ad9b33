// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// State represents the current document state for display.
type State string

const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
	StateHelp    State = "help"
)

// Hints selects which keybinding hints are shown.
type Hints int

const (
	HintsGlobal Hints = iota
	HintsViewer
	HintsChat
)

// Bar displays document status, the newest notification and keybinding hints.
type Bar struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	state        State
	message      string
	page         int
	pageCount    int
	hints        Hints
	notification *domain.Notification
	width        int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateEmpty,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the notification, or the document state when there is none.
func (s *Bar) renderLeft() string {
	if n := s.notification; n != nil {
		switch n.Level {
		case domain.LevelError:
			return s.styles.Error.Render(n.Message)
		case domain.LevelWarning:
			return s.styles.Warning.Render(n.Message)
		case domain.LevelSuccess:
			return s.styles.Success.Render(n.Message)
		default:
			return s.styles.Normal.Render(n.Message)
		}
	}

	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Analyzing document structure...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateReady:
		if s.pageCount > 0 {
			return s.styles.Normal.Render(fmt.Sprintf("Page %d/%d", s.page+1, s.pageCount))
		}
		return s.styles.Muted.Render("Ready")
	case StateEmpty:
	}
	return s.styles.Muted.Render("No document")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.hints {
	case HintsViewer:
		bindings = s.keymap.ViewerHelp()
	case HintsChat:
		bindings = s.keymap.ChatHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the error message shown in StateError.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetPage sets the zero-based page and the page count.
func (s *Bar) SetPage(page, count int) {
	s.page = page
	s.pageCount = count
}

// SetHints selects the keybinding hints.
func (s *Bar) SetHints(h Hints) {
	s.hints = h
}

// SetNotification shows n in place of the state. Nil clears it.
func (s *Bar) SetNotification(n *domain.Notification) {
	s.notification = n
}

// Notification returns the shown notification.
func (s *Bar) Notification() *domain.Notification {
	return s.notification
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateEmpty
	s.message = ""
	s.page = 0
	s.pageCount = 0
	s.notification = nil
}
