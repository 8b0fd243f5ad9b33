// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/paperlens/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// BlockList displays the overlay blocks of a page in a navigable list.
type BlockList struct {
	blocks   []domain.LayoutBlock
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewBlockList creates a new block list component.
func NewBlockList(s *styles.Styles) *BlockList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &BlockList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the block list.
func (b *BlockList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (b *BlockList) Update(msg tea.Msg) (*BlockList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			b.MoveUp()
		case "down", "j":
			b.MoveDown()
		}
	}
	return b, nil
}

// View renders the block list.
func (b *BlockList) View() string {
	if len(b.blocks) == 0 {
		return b.styles.Muted.Render("No interactive blocks on this page")
	}

	lines := make([]string, 0, len(b.blocks)+2)
	lines = append(lines, b.styles.Subtitle.Render(fmt.Sprintf("Blocks (%d)", len(b.blocks))), "")

	// Each block takes two lines.
	visibleCount := (b.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if b.selected >= visibleCount {
		start = b.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(b.blocks) {
		end = len(b.blocks)
	}

	for i := start; i < end; i++ {
		lines = append(lines, b.renderBlock(i, &b.blocks[i]))
	}

	return strings.Join(lines, "\n")
}

func (b *BlockList) renderBlock(index int, block *domain.LayoutBlock) string {
	indicator := "  "
	if index == b.selected {
		indicator = "> "
	}

	box := block.BoundingBox
	geometry := fmt.Sprintf("#%d  x=%.2f y=%.2f w=%.2f h=%.2f", block.ID, box.X, box.Y, box.Width, box.Height)

	var head string
	if index == b.selected {
		head = b.styles.Selected.Render(indicator+block.Type.Label()) + "  " + b.styles.Muted.Render(geometry)
	} else {
		head = indicator + b.styles.BlockLabel(block.Type) + "  " + b.styles.Muted.Render(geometry)
	}

	preview := strings.Join(strings.Fields(block.TextContent), " ")
	if preview == "" {
		preview = block.Annotation
	}
	maxPreview := b.width - 6
	if maxPreview < 20 {
		maxPreview = 20
	}
	if len(preview) > maxPreview {
		preview = preview[:maxPreview-3] + "..."
	}

	return head + "\n" + b.styles.Muted.Render("    "+preview)
}

// SetBlocks replaces the list contents and resets the selection.
func (b *BlockList) SetBlocks(blocks []domain.LayoutBlock) {
	b.blocks = blocks
	b.selected = 0
}

// Blocks returns the current blocks.
func (b *BlockList) Blocks() []domain.LayoutBlock {
	return b.blocks
}

// Selected returns the index of the selected block.
func (b *BlockList) Selected() int {
	return b.selected
}

// SetSelected sets the selected index.
func (b *BlockList) SetSelected(index int) {
	if index >= 0 && index < len(b.blocks) {
		b.selected = index
	}
}

// SelectedBlock returns the currently selected block, or nil if none.
func (b *BlockList) SelectedBlock() *domain.LayoutBlock {
	if len(b.blocks) == 0 || b.selected < 0 || b.selected >= len(b.blocks) {
		return nil
	}
	return &b.blocks[b.selected]
}

// MoveUp moves selection up.
func (b *BlockList) MoveUp() {
	if b.selected > 0 {
		b.selected--
	}
}

// MoveDown moves selection down.
func (b *BlockList) MoveDown() {
	if b.selected < len(b.blocks)-1 {
		b.selected++
	}
}

// SetDimensions sets the component dimensions.
func (b *BlockList) SetDimensions(width, height int) {
	b.width = width
	b.height = height
}

// Width returns the current width.
func (b *BlockList) Width() int {
	return b.width
}

// Height returns the current height.
func (b *BlockList) Height() int {
	return b.height
}

// Count returns the number of blocks.
func (b *BlockList) Count() int {
	return len(b.blocks)
}

// IsEmpty returns whether the list is empty.
func (b *BlockList) IsEmpty() bool {
	return len(b.blocks) == 0
}
