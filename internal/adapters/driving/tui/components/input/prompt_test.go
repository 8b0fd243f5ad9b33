package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/styles"
)

func TestNewPrompt(t *testing.T) {
	p := NewPrompt(styles.DefaultStyles(), "Ask:", "Ask about the document...")

	require.NotNil(t, p)
	assert.Equal(t, "", p.Value())
	assert.True(t, p.Focused())
}

func TestNewPrompt_NilStyles(t *testing.T) {
	p := NewPrompt(nil, "Open:", "")

	require.NotNil(t, p)
	assert.NotNil(t, p.styles)
}

func TestPrompt_Init(t *testing.T) {
	p := NewPrompt(nil, "Ask:", "")

	assert.NotNil(t, p.Init())
}

func TestPrompt_Update(t *testing.T) {
	p := NewPrompt(nil, "Ask:", "")

	updated, _ := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	assert.Equal(t, p, updated)
	assert.Equal(t, "a", p.Value())
}

func TestPrompt_View(t *testing.T) {
	p := NewPrompt(nil, "Ask:", "")

	assert.Contains(t, p.View(), "Ask:")

	p.SetLabel("Open:")
	assert.Contains(t, p.View(), "Open:")
}

func TestPrompt_SetValueAndReset(t *testing.T) {
	p := NewPrompt(nil, "Ask:", "")

	p.SetValue("what is this table about")
	assert.Equal(t, "what is this table about", p.Value())

	p.Reset()
	assert.Equal(t, "", p.Value())
}

func TestPrompt_FocusBlur(t *testing.T) {
	p := NewPrompt(nil, "Ask:", "")
	p.Blur()
	assert.False(t, p.Focused())

	p.Focus()
	assert.True(t, p.Focused())
}

func TestPrompt_SetWidth(t *testing.T) {
	p := NewPrompt(nil, "Ask:", "")

	p.SetWidth(100)
	assert.Equal(t, 100, p.Width())
	assert.Equal(t, 88, p.textinput.Width)

	p.SetWidth(10)
	assert.Equal(t, 20, p.textinput.Width)
}
