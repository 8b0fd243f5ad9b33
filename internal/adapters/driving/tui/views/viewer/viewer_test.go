package viewer

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driving"
)

// fakeAssistant serves a fixed document state and layout.
type fakeAssistant struct {
	state  driving.DocumentState
	layout *domain.DocumentLayout
}

var _ driving.Assistant = (*fakeAssistant)(nil)

func (f *fakeAssistant) LoadDocument(context.Context, *domain.Document) error { return nil }
func (f *fakeAssistant) ProcessPending(context.Context) error                 { return nil }
func (f *fakeAssistant) ClearDocument()                                       {}
func (f *fakeAssistant) Document() driving.DocumentState                      { return f.state }
func (f *fakeAssistant) Layout() *domain.DocumentLayout                       { return f.layout }

func (f *fakeAssistant) Overlays(pageIndex int) []domain.LayoutBlock {
	if f.layout == nil {
		return nil
	}
	var out []domain.LayoutBlock
	for _, b := range f.layout.Blocks {
		if b.PageNumber == pageIndex && b.Type != domain.BlockTypeText {
			out = append(out, b)
		}
	}
	return out
}

func (f *fakeAssistant) Dispatch(context.Context, domain.Action, int) (driving.ActionResult, error) {
	return driving.ActionResult{}, nil
}

func (f *fakeAssistant) Submit(context.Context, string) (domain.ChatMessage, error) {
	return domain.ChatMessage{}, nil
}

func (f *fakeAssistant) AskPrompt() (domain.MarkupInfo, bool) { return domain.MarkupInfo{}, false }
func (f *fakeAssistant) CancelAskPrompt()                     {}
func (f *fakeAssistant) CopyEntry(string) error               { return nil }
func (f *fakeAssistant) Transcript() []domain.ChatMessage     { return nil }
func (f *fakeAssistant) InputEnabled() bool                   { return true }
func (f *fakeAssistant) Changes() <-chan struct{}             { return nil }

func loadedAssistant() *fakeAssistant {
	return &fakeAssistant{
		state: driving.DocumentState{
			Document: domain.NewDocument("paper.pdf", []byte("%PDF"), domain.MimePDF, timeZero),
			Epoch:    1,
		},
		layout: &domain.DocumentLayout{
			PageCount: 3,
			Blocks: []domain.LayoutBlock{
				{ID: 1, Type: domain.BlockTypeText, PageNumber: 0, TextContent: "Introduction"},
				{ID: 2, Type: domain.BlockTypeTable, PageNumber: 0, TextContent: "a | b"},
				{ID: 3, Type: domain.BlockTypeFormula, PageNumber: 0, TextContent: "x^2"},
				{ID: 4, Type: domain.BlockTypePicture, PageNumber: 1, Annotation: "logo"},
			},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func newLoadedView(t *testing.T) (*View, *fakeAssistant) {
	t.Helper()
	a := loadedAssistant()
	v := NewView(nil, nil, a)
	v.SetDimensions(100, 30)
	v.Init()
	return v, a
}

func TestNewView_NoDocument(t *testing.T) {
	v := NewView(nil, nil, &fakeAssistant{})
	v.Init()

	assert.Equal(t, 0, v.PageCount())
	assert.Contains(t, v.View(), "No document loaded")
}

func TestView_RefreshReadsLayout(t *testing.T) {
	v, _ := newLoadedView(t)

	assert.Equal(t, 3, v.PageCount())
	require.Len(t, v.Blocks(), 2)
	assert.Equal(t, 2, v.Blocks()[0].ID)

	view := v.View()
	assert.Contains(t, view, "paper.pdf")
	assert.Contains(t, view, "page 1 of 3")
	assert.Contains(t, view, "Table")
	assert.NotContains(t, view, "Introduction")
}

func TestView_PageNavigation(t *testing.T) {
	v, _ := newLoadedView(t)

	v.Update(key("right"))
	assert.Equal(t, 1, v.Page())
	require.Len(t, v.Blocks(), 1)
	assert.Equal(t, 4, v.Blocks()[0].ID)

	v.Update(key("n"))
	v.Update(key("n"))
	assert.Equal(t, 2, v.Page())
	assert.Empty(t, v.Blocks())

	v.Update(key("left"))
	v.Update(key("p"))
	v.Update(key("h"))
	assert.Equal(t, 0, v.Page())
}

func TestView_LoadingAndError(t *testing.T) {
	a := loadedAssistant()
	a.state.IsLoading = true
	v := NewView(nil, nil, a)
	v.Init()
	assert.Contains(t, v.View(), "Analyzing document structure")

	a.state.IsLoading = false
	a.state.Error = "Error 500: boom"
	v.Update(messages.StateChanged{})
	assert.Contains(t, v.View(), "Error: Error 500: boom")
}

func TestView_NewEpochResetsPage(t *testing.T) {
	v, a := newLoadedView(t)
	v.SetPage(2)

	a.state.Epoch = 2
	v.Update(messages.DocumentLoaded{})

	assert.Equal(t, 0, v.Page())
}

func TestView_ShrinkingLayoutClampsPage(t *testing.T) {
	v, a := newLoadedView(t)
	v.SetPage(2)

	a.layout.PageCount = 1
	v.Update(messages.StateChanged{})

	assert.Equal(t, 0, v.Page())
}

func TestView_ActionMenuDispatches(t *testing.T) {
	v, _ := newLoadedView(t)

	v.Update(key("enter"))
	require.True(t, v.MenuOpen())
	assert.Contains(t, v.View(), "Table #2")
	assert.Contains(t, v.View(), "Extract as MD")

	v.Update(key("j"))
	_, cmd := v.Update(key("enter"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ActionRequested{Action: domain.ActionExtractCSV, BlockID: 2}, cmd())
	assert.False(t, v.MenuOpen())
}

func TestView_ActionMenuForSecondBlock(t *testing.T) {
	v, _ := newLoadedView(t)

	v.Update(key("down"))
	v.Update(key("enter"))
	_, cmd := v.Update(key("enter"))

	require.NotNil(t, cmd)
	req := cmd().(messages.ActionRequested)
	assert.Equal(t, 3, req.BlockID)
	assert.Equal(t, domain.ActionsFor(domain.BlockTypeFormula)[0].Action, req.Action)
}

func TestView_ActionMenuCancel(t *testing.T) {
	v, _ := newLoadedView(t)
	v.Update(key("enter"))

	_, cmd := v.Update(key("esc"))

	assert.Nil(t, cmd)
	assert.False(t, v.MenuOpen())
}

func TestView_EnterWithoutBlocksDoesNothing(t *testing.T) {
	v, _ := newLoadedView(t)
	v.SetPage(2)

	v.Update(key("enter"))

	assert.False(t, v.MenuOpen())
}

func TestView_OpenPrompt(t *testing.T) {
	v, _ := newLoadedView(t)

	v.Update(key("o"))
	require.True(t, v.Prompting())

	// Page keys type into the prompt while it is open.
	for _, r := range "/tmp/n.pdf" {
		v.Update(key(string(r)))
	}
	assert.Equal(t, 0, v.Page())

	_, cmd := v.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.OpenRequested{Path: "/tmp/n.pdf"}, cmd())
	assert.False(t, v.Prompting())
}

func TestView_OpenPromptCancelAndEmpty(t *testing.T) {
	v, _ := newLoadedView(t)

	v.Update(key("o"))
	_, cmd := v.Update(key("esc"))
	assert.Nil(t, cmd)
	assert.False(t, v.Prompting())

	v.Update(key("o"))
	_, cmd = v.Update(key("enter"))
	assert.Nil(t, cmd)
}

func TestView_Navigation(t *testing.T) {
	v, _ := newLoadedView(t)

	_, cmd := v.Update(key("tab"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewChat}, cmd())

	_, cmd = v.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())

	_, cmd = v.Update(key("?"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHelp}, cmd())
}

var timeZero = time.Unix(0, 0)
