package render

import (
	"errors"
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
)

// ErrCanvasReleased is returned when drawing from a released canvas.
var ErrCanvasReleased = errors.New("canvas released")

var _ driven.Canvas = (*ImageCanvas)(nil)

// ImageCanvas is a page raster held in memory.
type ImageCanvas struct {
	mu       sync.RWMutex
	img      image.Image
	released bool
}

// NewImageCanvas wraps img.
func NewImageCanvas(img image.Image) *ImageCanvas {
	return &ImageCanvas{img: img}
}

// Bounds returns the raster bounds, or an empty rectangle once released.
func (c *ImageCanvas) Bounds() image.Rectangle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.released {
		return image.Rectangle{}
	}
	return c.img.Bounds()
}

// DrawRegion copies src into dst at dst.Bounds().Min.
func (c *ImageCanvas) DrawRegion(dst draw.Image, src image.Rectangle) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.released {
		return ErrCanvasReleased
	}
	draw.Copy(dst, dst.Bounds().Min, c.img, src, draw.Src, nil)
	return nil
}

// Release drops the raster. Later draws fail.
func (c *ImageCanvas) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	c.img = nil
}
