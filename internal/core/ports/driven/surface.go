package driven

import (
	"image"
	"image/draw"
)

// Canvas is a rendered page raster owned by the rendering collaborator.
// Region extraction only reads from it.
type Canvas interface {
	// Bounds returns the pixel bounds of the canvas.
	Bounds() image.Rectangle

	// DrawRegion copies src (in canvas pixels) into dst at dst.Bounds().Min.
	// It fails when the canvas cannot be read, e.g. it has been released.
	DrawRegion(dst draw.Image, src image.Rectangle) error
}

// Surface is one mounted page element.
type Surface struct {
	// Attributes holds data attributes such as "data-page-number".
	Attributes map[string]string
	// Classes holds class names such as "page" or "page-3".
	Classes []string
	// Canvas is nil until the page has been painted.
	Canvas Canvas
}

// HasClass reports whether the surface carries the class name.
func (s Surface) HasClass(name string) bool {
	for _, c := range s.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// SurfaceRegistry exposes the currently mounted page surfaces.
type SurfaceRegistry interface {
	// Surfaces returns mounted surfaces in document order.
	Surfaces() []Surface

	// Canvases returns every drawable canvas in document order.
	Canvases() []Canvas
}

// PageRenderer mounts page surfaces on demand.
type PageRenderer interface {
	// RenderPage paints the page (zero-based) and mounts its surface.
	RenderPage(pageIndex int) error

	// PageCount returns the number of pages in the open document.
	PageCount() int
}

// DocumentViewer holds the document whose pages get painted.
type DocumentViewer interface {
	// Open replaces the viewed document and unmounts every page.
	Open(content []byte) error

	// Close releases the viewed document.
	Close() error
}
