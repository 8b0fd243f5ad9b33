// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/styles"
)

// Prompt wraps a bubbles textinput with a label.
type Prompt struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewPrompt creates a focused prompt with the given label and placeholder.
func NewPrompt(s *styles.Styles, label, placeholder string) *Prompt {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 50

	return &Prompt{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// Init initialises the prompt.
func (p *Prompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (p *Prompt) Update(msg tea.Msg) (*Prompt, tea.Cmd) {
	var cmd tea.Cmd
	p.textinput, cmd = p.textinput.Update(msg)
	return p, cmd
}

// View renders the prompt.
func (p *Prompt) View() string {
	label := p.styles.Title.Render(p.label + " ")
	input := p.styles.InputField.Render(p.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Value returns the current input value.
func (p *Prompt) Value() string {
	return p.textinput.Value()
}

// SetValue sets the input value.
func (p *Prompt) SetValue(value string) {
	p.textinput.SetValue(value)
}

// SetLabel changes the label.
func (p *Prompt) SetLabel(label string) {
	p.label = label
}

// SetPlaceholder changes the placeholder.
func (p *Prompt) SetPlaceholder(placeholder string) {
	p.textinput.Placeholder = placeholder
}

// Focus sets focus on the input.
func (p *Prompt) Focus() tea.Cmd {
	return p.textinput.Focus()
}

// Blur removes focus from the input.
func (p *Prompt) Blur() {
	p.textinput.Blur()
}

// Focused returns whether the input is focused.
func (p *Prompt) Focused() bool {
	return p.textinput.Focused()
}

// SetWidth sets the width of the input.
func (p *Prompt) SetWidth(width int) {
	p.width = width
	// Account for label and padding
	inputWidth := width - len(p.label) - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	p.textinput.Width = inputWidth
}

// Width returns the current width.
func (p *Prompt) Width() int {
	return p.width
}

// Reset clears the input.
func (p *Prompt) Reset() {
	p.textinput.Reset()
}
