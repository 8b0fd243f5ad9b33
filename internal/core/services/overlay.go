package services

import (
	"sync"

	"github.com/custodia-labs/paperlens/internal/core/domain"
)

// OverlayEngine selects the blocks to overlay on each rendered page.
// Blocks are bucketed by page once per layout, so a page render only filters
// its own bucket against the allow-list.
type OverlayEngine struct {
	mu      sync.RWMutex
	layout  *domain.DocumentLayout
	byPage  map[int][]domain.LayoutBlock
	allowed map[domain.BlockType]bool
}

// NewOverlayEngine creates an engine. With no types given the default
// allow-list (table, picture, chart, formula) is used.
func NewOverlayEngine(allowed ...domain.BlockType) *OverlayEngine {
	if len(allowed) == 0 {
		allowed = domain.OverlayBlockTypes
	}
	set := make(map[domain.BlockType]bool, len(allowed))
	for _, t := range allowed {
		set[t] = true
	}
	return &OverlayEngine{
		byPage:  make(map[int][]domain.LayoutBlock),
		allowed: set,
	}
}

// SetLayout replaces the layout wholesale.
func (e *OverlayEngine) SetLayout(layout *domain.DocumentLayout) {
	byPage := make(map[int][]domain.LayoutBlock)
	if layout != nil {
		for _, b := range layout.Blocks {
			byPage[b.PageNumber] = append(byPage[b.PageNumber], b)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.layout = layout
	e.byPage = byPage
}

// Clear drops the layout.
func (e *OverlayEngine) Clear() {
	e.SetLayout(nil)
}

// Layout returns the current layout, or nil.
func (e *OverlayEngine) Layout() *domain.DocumentLayout {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.layout
}

// Allowed reports whether a block type is overlay-eligible.
func (e *OverlayEngine) Allowed(t domain.BlockType) bool {
	return e.allowed[t]
}

// BlocksForPage returns the eligible blocks of a zero-based page in layout order.
func (e *OverlayEngine) BlocksForPage(pageIndex int) []domain.LayoutBlock {
	e.mu.RLock()
	bucket := e.byPage[pageIndex]
	e.mu.RUnlock()

	out := make([]domain.LayoutBlock, 0, len(bucket))
	for _, b := range bucket {
		if e.allowed[b.Type] {
			out = append(out, b)
		}
	}
	return out
}

// Block finds any block of the current layout by id.
func (e *OverlayEngine) Block(id int) (domain.LayoutBlock, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.layout.Block(id)
}

// PageCount returns the page count of the current layout.
func (e *OverlayEngine) PageCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.layout == nil {
		return 0
	}
	return e.layout.PageCount
}

// OverlayRenderer turns an eligible block into an overlay element.
// Returning false skips the block.
type OverlayRenderer[T any] func(block domain.LayoutBlock) (T, bool)

// RenderPage invokes render for every eligible block of a page and collects
// the produced elements. Call it on every page render event.
func RenderPage[T any](e *OverlayEngine, pageIndex int, render OverlayRenderer[T]) []T {
	blocks := e.BlocksForPage(pageIndex)
	out := make([]T, 0, len(blocks))
	for _, b := range blocks {
		if el, ok := render(b); ok {
			out = append(out, el)
		}
	}
	return out
}
