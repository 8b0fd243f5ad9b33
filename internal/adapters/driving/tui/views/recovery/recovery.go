// Package recovery provides the full-screen view shown after a panic.
package recovery

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/styles"
)

// Reset is sent when the user asks to try again.
type Reset struct{}

// View shows a recovered panic and waits for a reset.
type View struct {
	styles *styles.Styles
	err    error
	width  int
	height int
}

// NewView creates a recovery view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// SetError records the recovered failure.
func (v *View) SetError(err error) {
	v.err = err
}

// Err returns the recovered failure.
func (v *View) Err() error {
	return v.err
}

// Update handles the try-again and quit keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "r", "enter":
			return v, func() tea.Msg { return Reset{} }
		case "q":
			return v, tea.Quit
		}
	}
	return v, nil
}

// View renders the recovery screen.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Error.Render("Something went wrong"))
	b.WriteString("\n\n")
	detail := "unknown error"
	if v.err != nil {
		detail = v.err.Error()
	}
	b.WriteString(v.styles.Normal.Width(max(v.width-4, 20)).Render(fmt.Sprintf("Error: %s", detail)))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[r] try again  [q] quit"))

	box := v.styles.Border.Padding(1, 2).Render(b.String())
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
