// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Cancel cancels the current operation.
	Cancel key.Binding

	// NextPage moves to the next page.
	NextPage key.Binding

	// PrevPage moves to the previous page.
	PrevPage key.Binding

	// Open prompts for a PDF path.
	Open key.Binding

	// Chat toggles between the viewer and the chat.
	Chat key.Binding

	// Copy copies the selected transcript entry.
	Copy key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "actions"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→/n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/p", "prev page"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open pdf"),
		),
		Chat: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "chat"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Chat, k.Help, k.Quit}
}

// ViewerHelp returns keybindings for the page viewer.
func (k *KeyMap) ViewerHelp() []key.Binding {
	return []key.Binding{k.PrevPage, k.NextPage, k.Select, k.Chat}
}

// ChatHelp returns keybindings for the chat view.
func (k *KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Up, k.Copy, k.Cancel, k.Chat}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.PrevPage, k.NextPage, k.Open},
		{k.Chat, k.Copy, k.Back, k.Cancel},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
