package render

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
)

var _ driven.SurfaceRegistry = (*Registry)(nil)

// Registry tracks the mounted page surfaces of the open document.
type Registry struct {
	mu        sync.RWMutex
	pages     map[int]*ImageCanvas
	listeners []func(pageIndex int)
}

// OnMount registers fn to run after a page is mounted.
func (r *Registry) OnMount(fn func(pageIndex int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pages: make(map[int]*ImageCanvas)}
}

// Mount registers canvas as the zero-based page, replacing and releasing
// any canvas mounted there before. A nil canvas unmounts the page.
func (r *Registry) Mount(pageIndex int, canvas *ImageCanvas) {
	if canvas == nil {
		r.Unmount(pageIndex)
		return
	}
	r.mu.Lock()
	if old, ok := r.pages[pageIndex]; ok && old != canvas {
		old.Release()
	}
	r.pages[pageIndex] = canvas
	listeners := append([]func(int){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(pageIndex)
	}
}

// Unmount releases and removes a page.
func (r *Registry) Unmount(pageIndex int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.pages[pageIndex]; ok {
		c.Release()
		delete(r.pages, pageIndex)
	}
}

// Reset releases every mounted page.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.pages {
		c.Release()
		delete(r.pages, i)
	}
}

// Mounted reports whether the page is mounted.
func (r *Registry) Mounted(pageIndex int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pages[pageIndex]
	return ok
}

// Surfaces returns the mounted pages in document order.
func (r *Registry) Surfaces() []driven.Surface {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes := r.sortedIndexes()
	out := make([]driven.Surface, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, pageSurface(i, r.pages[i]))
	}
	return out
}

// Canvases returns every mounted canvas in document order.
func (r *Registry) Canvases() []driven.Canvas {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes := r.sortedIndexes()
	out := make([]driven.Canvas, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, r.pages[i])
	}
	return out
}

func (r *Registry) sortedIndexes() []int {
	indexes := make([]int, 0, len(r.pages))
	for i := range r.pages {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

func pageSurface(pageIndex int, canvas *ImageCanvas) driven.Surface {
	return driven.Surface{
		Attributes: map[string]string{
			"data-page-number": strconv.Itoa(pageIndex + 1),
			"data-page-index":  strconv.Itoa(pageIndex),
			"data-testid":      fmt.Sprintf("page-layer-%d", pageIndex),
		},
		Classes: []string{"page", fmt.Sprintf("page-%d", pageIndex+1)},
		Canvas:  canvas,
	}
}
