// Package viewer provides the page view: page navigation, the overlay
// blocks of the current page and their action menus.
package viewer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

// View is the page viewer.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	assistant driving.Assistant

	state     driving.DocumentState
	page      int
	pageCount int
	blocks    *list.BlockList

	// Action menu for the selected block.
	menuOpen  bool
	menuBlock domain.LayoutBlock
	actions   []domain.ActionOption
	actionSel int

	// Path prompt for opening a PDF.
	prompt    *input.Prompt
	prompting bool

	width  int
	height int
}

// NewView creates a viewer over the assistant.
func NewView(s *styles.Styles, km *keymap.KeyMap, assistant driving.Assistant) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	prompt := input.NewPrompt(s, "Open:", "/path/to/document.pdf")
	prompt.Blur()

	return &View{
		styles:    s,
		keymap:    km,
		assistant: assistant,
		blocks:    list.NewBlockList(s),
		prompt:    prompt,
		width:     80,
		height:    24,
	}
}

// Init initialises the viewer.
func (v *View) Init() tea.Cmd {
	v.Refresh()
	return nil
}

// Refresh re-reads the document, layout and overlays of the current page.
func (v *View) Refresh() {
	if v.assistant == nil {
		return
	}
	prevEpoch := v.state.Epoch
	v.state = v.assistant.Document()

	v.pageCount = 0
	if layout := v.assistant.Layout(); layout != nil {
		v.pageCount = layout.PageCount
	}
	if v.state.Epoch != prevEpoch {
		v.page = 0
		v.closeMenu()
	}
	if v.page >= v.pageCount {
		v.page = max(v.pageCount-1, 0)
	}

	selected := v.blocks.Selected()
	v.blocks.SetBlocks(v.assistant.Overlays(v.page))
	v.blocks.SetSelected(selected)
}

// Update handles messages for the viewer.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.StateChanged, messages.DocumentLoaded:
		v.Refresh()
		return v, nil

	case tea.KeyMsg:
		switch {
		case v.prompting:
			return v.handlePromptKeys(msg)
		case v.menuOpen:
			return v.handleMenuKeys(msg)
		default:
			return v.handlePageKeys(msg)
		}
	}

	return v, nil
}

func (v *View) handlePromptKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.closePrompt()
		return v, nil
	case "enter":
		path := strings.TrimSpace(v.prompt.Value())
		v.closePrompt()
		if path == "" {
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.OpenRequested{Path: path}
		}
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

func (v *View) handleMenuKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Cancel):
		v.closeMenu()
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.actionSel > 0 {
			v.actionSel--
		}
	case keymap.Matches(keyStr, v.keymap.Down):
		if v.actionSel < len(v.actions)-1 {
			v.actionSel++
		}
	case keymap.Matches(keyStr, v.keymap.Select):
		if v.actionSel < 0 || v.actionSel >= len(v.actions) {
			return v, nil
		}
		req := messages.ActionRequested{Action: v.actions[v.actionSel].Action, BlockID: v.menuBlock.ID}
		v.closeMenu()
		return v, func() tea.Msg { return req }
	}
	return v, nil
}

func (v *View) handlePageKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Open):
		v.prompting = true
		v.prompt.Reset()
		return v, v.prompt.Focus()
	case keymap.Matches(keyStr, v.keymap.NextPage):
		v.SetPage(v.page + 1)
	case keymap.Matches(keyStr, v.keymap.PrevPage):
		v.SetPage(v.page - 1)
	case keymap.Matches(keyStr, v.keymap.Up), keymap.Matches(keyStr, v.keymap.Down):
		v.blocks, _ = v.blocks.Update(msg)
	case keymap.Matches(keyStr, v.keymap.Select):
		v.openMenu()
	case keymap.Matches(keyStr, v.keymap.Chat):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewChat} }
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keymap.Matches(keyStr, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }
	}
	return v, nil
}

func (v *View) openMenu() {
	block := v.blocks.SelectedBlock()
	if block == nil {
		return
	}
	actions := domain.ActionsFor(block.Type)
	if len(actions) == 0 {
		return
	}
	v.menuOpen = true
	v.menuBlock = *block
	v.actions = actions
	v.actionSel = 0
}

func (v *View) closeMenu() {
	v.menuOpen = false
	v.actions = nil
	v.actionSel = 0
}

func (v *View) closePrompt() {
	v.prompting = false
	v.prompt.Reset()
	v.prompt.Blur()
}

// SetPage moves to a zero-based page, clamped to the document.
func (v *View) SetPage(page int) {
	if page >= v.pageCount {
		page = v.pageCount - 1
	}
	if page < 0 {
		page = 0
	}
	if page == v.page {
		return
	}
	v.page = page
	v.closeMenu()
	if v.assistant != nil {
		v.blocks.SetBlocks(v.assistant.Overlays(page))
	}
}

// View renders the viewer.
func (v *View) View() string {
	var b strings.Builder

	title := "Viewer"
	if v.state.Document != nil {
		title = v.state.Document.Metadata.Name
	}
	b.WriteString(v.styles.Title.Render(title))
	if v.pageCount > 0 {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  page %d of %d", v.page+1, v.pageCount)))
	}
	b.WriteString("\n\n")

	switch {
	case v.state.Document == nil:
		b.WriteString(v.styles.Muted.Render("No document loaded. Press o to open a PDF."))
	case v.state.IsLoading:
		b.WriteString(v.styles.Warning.Render("Analyzing document structure..."))
	case v.state.Error != "":
		b.WriteString(v.styles.Error.Render("Error: " + v.state.Error))
	default:
		b.WriteString(v.blocks.View())
	}
	b.WriteString("\n")

	if v.menuOpen {
		b.WriteString("\n")
		b.WriteString(v.renderMenu())
	}

	if v.prompting {
		b.WriteString("\n")
		b.WriteString(v.prompt.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] open  [esc] cancel"))
	}

	return b.String()
}

func (v *View) renderMenu() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%s #%d", v.menuBlock.Type.Label(), v.menuBlock.ID)))
	b.WriteString("\n")
	for i, opt := range v.actions {
		if i == v.actionSel {
			b.WriteString(v.styles.Selected.Render("> " + opt.Label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + opt.Label))
		}
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[enter] run  [esc] close"))

	return b.String()
}

// Page returns the zero-based current page.
func (v *View) Page() int {
	return v.page
}

// PageCount returns the number of pages in the layout.
func (v *View) PageCount() int {
	return v.pageCount
}

// MenuOpen reports whether the action menu is shown.
func (v *View) MenuOpen() bool {
	return v.menuOpen
}

// Prompting reports whether the open prompt is shown.
func (v *View) Prompting() bool {
	return v.prompting
}

// Blocks returns the overlay blocks of the current page.
func (v *View) Blocks() []domain.LayoutBlock {
	return v.blocks.Blocks()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.blocks.SetDimensions(width, height-6)
	v.prompt.SetWidth(width)
}
