// Package chat provides the transcript and question input view.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

const (
	askLabel         = "Ask:"
	askPlaceholder   = "Ask a question about the document..."
	disabledHint     = "Load a document to start asking questions"
	pendingIndicator = "..."
)

// View shows the transcript and the question input.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	assistant driving.Assistant

	viewport   viewport.Model
	prompt     *input.Prompt
	transcript []domain.ChatMessage
	selected   int
	enabled    bool
	askPrompt  *domain.MarkupInfo

	width  int
	height int
}

// NewView creates a chat view over the assistant.
func NewView(s *styles.Styles, km *keymap.KeyMap, assistant driving.Assistant) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		assistant: assistant,
		viewport:  viewport.New(80, 16),
		prompt:    input.NewPrompt(s, askLabel, askPlaceholder),
		selected:  -1,
		width:     80,
		height:    24,
	}
}

// Init initialises the chat view.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	return v.prompt.Init()
}

// Refresh re-reads the transcript, input gate and ask prompt.
func (v *View) Refresh() {
	if v.assistant == nil {
		return
	}
	prevLen := len(v.transcript)
	v.transcript = v.assistant.Transcript()
	v.enabled = v.assistant.InputEnabled()

	v.askPrompt = nil
	if info, ok := v.assistant.AskPrompt(); ok {
		v.askPrompt = &info
	}

	switch {
	case len(v.transcript) == 0:
		v.selected = -1
	case len(v.transcript) != prevLen || v.selected >= len(v.transcript) || v.selected < 0:
		v.selected = len(v.transcript) - 1
	}

	v.updatePrompt()
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) updatePrompt() {
	switch {
	case !v.enabled:
		v.prompt.SetLabel(askLabel)
		v.prompt.SetPlaceholder(disabledHint)
		v.prompt.Blur()
	case v.askPrompt != nil:
		v.prompt.SetLabel(fmt.Sprintf("Ask about %s:", strings.ToLower(v.askPrompt.BlockType.Label())))
		v.prompt.SetPlaceholder(fmt.Sprintf("Ask a question about this %s...", strings.ToLower(v.askPrompt.BlockType.Label())))
		v.prompt.Focus()
	default:
		v.prompt.SetLabel(askLabel)
		v.prompt.SetPlaceholder(askPlaceholder)
		v.prompt.Focus()
	}
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.StateChanged, messages.AnswerReceived, messages.ActionCompleted, messages.DocumentLoaded:
		v.Refresh()
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keyStr == "enter":
		text := strings.TrimSpace(v.prompt.Value())
		if text == "" || !v.enabled {
			return v, nil
		}
		v.prompt.Reset()
		return v, func() tea.Msg { return messages.QuestionSubmitted{Text: text} }

	case keymap.Matches(keyStr, v.keymap.Cancel):
		if v.askPrompt != nil {
			v.assistant.CancelAskPrompt()
			v.Refresh()
			return v, nil
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewViewer} }

	case keymap.Matches(keyStr, v.keymap.Chat):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewViewer} }

	case keymap.Matches(keyStr, v.keymap.Copy):
		if v.selected < 0 || v.selected >= len(v.transcript) {
			return v, nil
		}
		id := v.transcript[v.selected].ID
		return v, func() tea.Msg { return messages.CopyRequested{MessageID: id} }

	case keyStr == "up":
		if v.selected > 0 {
			v.selected--
			v.viewport.SetContent(v.renderTranscript())
		}
		return v, nil

	case keyStr == "down":
		if v.selected < len(v.transcript)-1 {
			v.selected++
			v.viewport.SetContent(v.renderTranscript())
		}
		return v, nil

	case keyStr == "pgup", keyStr == "pgdown":
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	if !v.enabled {
		return v, nil
	}
	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Chat"))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")

	if v.askPrompt != nil {
		banner := fmt.Sprintf("Asking about %s #%d  [esc] cancel",
			strings.ToLower(v.askPrompt.BlockType.Label()), v.askPrompt.BlockID)
		b.WriteString(v.styles.Warning.Render(banner))
		b.WriteString("\n")
	}
	b.WriteString(v.prompt.View())

	return b.String()
}

func (v *View) renderTranscript() string {
	if len(v.transcript) == 0 {
		return v.styles.Muted.Render("No messages yet.")
	}

	entries := make([]string, 0, len(v.transcript))
	for i := range v.transcript {
		entries = append(entries, v.renderEntry(i, &v.transcript[i]))
	}
	return strings.Join(entries, "\n\n")
}

func (v *View) renderEntry(index int, m *domain.ChatMessage) string {
	var b strings.Builder

	marker := "  "
	if index == v.selected {
		marker = "> "
	}

	header := m.Text
	if m.Markup != nil {
		header = fmt.Sprintf("[%s #%d] %s", m.Markup.BlockType.Label(), m.Markup.BlockID, m.Text)
	}
	if m.Type == domain.MessageTypeUser {
		header = "You: " + header
	}
	header += v.styles.Muted.Render("  " + m.Timestamp.Format("15:04"))
	b.WriteString(marker + v.styles.Subtitle.Render(header))
	b.WriteString("\n")

	body := v.styles.Normal
	var text string
	switch m.Status() {
	case domain.StatusPending:
		text = pendingIndicator
		body = v.styles.Muted
	case domain.StatusFailed:
		text = m.Response
		if text == "" {
			text = m.Error
		}
		body = v.styles.Error
	default:
		text = m.Response
	}

	width := max(v.width-4, 20)
	b.WriteString(body.Width(width).PaddingLeft(4).Render(text))

	if m.SavedPath != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.PaddingLeft(4).Render("Saved to " + m.SavedPath))
	}

	return b.String()
}

// Selected returns the index of the selected transcript entry, -1 when empty.
func (v *View) Selected() int {
	return v.selected
}

// InputEnabled reports whether the input accepts text.
func (v *View) InputEnabled() bool {
	return v.enabled
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-8, 3)
	v.prompt.SetWidth(width)
	v.viewport.SetContent(v.renderTranscript())
}
