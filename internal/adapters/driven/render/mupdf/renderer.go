// Package mupdf paints PDF pages with MuPDF (via go-fitz) and mounts them in
// a render.Registry.
package mupdf

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gen2brain/go-fitz"

	"github.com/custodia-labs/paperlens/internal/adapters/driven/render"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// Defaults for NewRenderer.
const (
	DefaultDPI    = 144.0
	DefaultWindow = 8
)

// ErrNoDocument is returned when rendering before a document is open.
var ErrNoDocument = errors.New("no document open")

var _ driven.PageRenderer = (*Renderer)(nil)

// Options configures a Renderer.
type Options struct {
	// DPI is the raster resolution.
	DPI float64
	// Window is the maximum number of pages kept mounted. Least recently
	// rendered pages are unmounted first.
	Window int
}

// Renderer rasterises pages of one open document at a time.
type Renderer struct {
	registry *render.Registry
	dpi      float64
	window   int

	mu     sync.Mutex
	doc    *fitz.Document
	recent []int
}

// NewRenderer creates a renderer mounting into registry.
func NewRenderer(registry *render.Registry, opts Options) *Renderer {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	return &Renderer{
		registry: registry,
		dpi:      opts.DPI,
		window:   opts.Window,
	}
}

// Open replaces the current document with content and unmounts every page.
func (r *Renderer) Open(content []byte) error {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
	r.doc = doc
	return nil
}

// Close releases the document and its pages.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
	return nil
}

func (r *Renderer) closeLocked() {
	r.registry.Reset()
	r.recent = nil
	if r.doc != nil {
		if err := r.doc.Close(); err != nil {
			logger.Debug("mupdf: close document: %v", err)
		}
		r.doc = nil
	}
}

// PageCount returns the number of pages, or 0 with no document open.
func (r *Renderer) PageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return 0
	}
	return r.doc.NumPage()
}

// RenderPage paints the zero-based page and mounts it.
func (r *Renderer) RenderPage(pageIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.doc == nil {
		return ErrNoDocument
	}
	if pageIndex < 0 || pageIndex >= r.doc.NumPage() {
		return fmt.Errorf("page %d out of range (document has %d pages)", pageIndex, r.doc.NumPage())
	}

	if r.registry.Mounted(pageIndex) {
		r.touch(pageIndex)
		return nil
	}

	img, err := r.doc.ImageDPI(pageIndex, r.dpi)
	if err != nil {
		return fmt.Errorf("render page %d: %w", pageIndex, err)
	}
	r.registry.Mount(pageIndex, render.NewImageCanvas(img))
	r.touch(pageIndex)
	logger.Debug("mupdf: rendered page %d at %.0f dpi", pageIndex, r.dpi)
	return nil
}

// touch marks a page most recently used and evicts beyond the window.
func (r *Renderer) touch(pageIndex int) {
	for i, p := range r.recent {
		if p == pageIndex {
			r.recent = append(r.recent[:i], r.recent[i+1:]...)
			break
		}
	}
	r.recent = append(r.recent, pageIndex)

	for len(r.recent) > r.window {
		evict := r.recent[0]
		r.recent = r.recent[1:]
		r.registry.Unmount(evict)
	}
}
