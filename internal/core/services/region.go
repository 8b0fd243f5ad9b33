package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"sync"
	"time"

	"golang.org/x/image/draw"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
	"github.com/custodia-labs/paperlens/internal/logger"
)

// Size of the centred region used when the block region cannot be drawn.
const (
	fallbackRegionWidth  = 200
	fallbackRegionHeight = 150
)

// DefaultRenderWait bounds the single wait for asynchronous page rendering.
const DefaultRenderWait = 500 * time.Millisecond

// RegionExtractor crops a block's bounding box out of its rendered page.
// It never returns an error: a nil image means no preview is available.
type RegionExtractor struct {
	registry driven.SurfaceRegistry
	renderer driven.PageRenderer
	locators []Locator
	wait     time.Duration
	sleep    func(ctx context.Context, d time.Duration) error

	mu    sync.RWMutex
	scale float64
}

// NewRegionExtractor creates an extractor reading from registry.
// renderer may be nil; when set it is asked to paint a page that is not mounted.
func NewRegionExtractor(registry driven.SurfaceRegistry, renderer driven.PageRenderer) *RegionExtractor {
	return &RegionExtractor{
		registry: registry,
		renderer: renderer,
		locators: DefaultLocators,
		wait:     DefaultRenderWait,
		sleep:    sleepContext,
		scale:    1,
	}
}

// SetQuality sets the export scale from a quality preference.
func (e *RegionExtractor) SetQuality(q domain.ExportQuality) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scale = q.Scale()
}

// Extract returns a PNG of the block's region on the zero-based page, or nil.
// Repeated calls against an unchanged canvas produce identical bytes.
func (e *RegionExtractor) Extract(ctx context.Context, block domain.LayoutBlock, pageIndex int) *domain.RegionImage {
	if e.registry == nil {
		return nil
	}

	canvas := e.locate(ctx, pageIndex)
	if canvas == nil {
		logger.Warn("region: no canvas available for page %d", pageIndex)
		return nil
	}

	img, clamped, degraded := e.crop(canvas, block)
	if img == nil {
		return nil
	}

	out := e.scaled(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		logger.Warn("region: encode block %d: %v", block.ID, err)
		return nil
	}

	b := out.Bounds()
	return &domain.RegionImage{
		PNG:      buf.Bytes(),
		Width:    b.Dx(),
		Height:   b.Dy(),
		Clamped:  clamped,
		Degraded: degraded,
	}
}

// locate runs the locator strategies, then positional indexing, then asks the
// renderer for the page. A renderer that mounts asynchronously gets a single
// bounded wait followed by one more attempt.
func (e *RegionExtractor) locate(ctx context.Context, pageIndex int) driven.Canvas {
	if c := e.lookup(pageIndex); c != nil {
		return c
	}

	if e.renderer != nil {
		if err := e.renderer.RenderPage(pageIndex); err != nil {
			logger.Debug("region: render page %d: %v", pageIndex, err)
		} else if c := e.lookup(pageIndex); c != nil {
			return c
		}
	}

	if err := e.sleep(ctx, e.wait); err != nil {
		return nil
	}

	if c := e.lookup(pageIndex); c != nil {
		return c
	}
	if all := e.registry.Canvases(); len(all) > 0 {
		logger.Debug("region: page %d not mounted, using first canvas", pageIndex)
		return all[0]
	}
	return nil
}

func (e *RegionExtractor) lookup(pageIndex int) driven.Canvas {
	surfaces := e.registry.Surfaces()
	for _, locate := range e.locators {
		if c, ok := locate(pageIndex, surfaces); ok {
			return c
		}
	}

	all := e.registry.Canvases()
	if pageIndex >= 0 && pageIndex < len(all) {
		return all[pageIndex]
	}
	return nil
}

// crop draws the block region into a new image. The region is clamped to the
// canvas and is at least one pixel in each direction.
func (e *RegionExtractor) crop(canvas driven.Canvas, block domain.LayoutBlock) (img *image.RGBA, clamped, degraded bool) {
	bounds := canvas.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, false, false
	}

	box := block.BoundingBox
	if !box.WithinPage() {
		logger.Debug("region: block %d box %+v extends past the page", block.ID, box)
	}
	x0 := box.X * float64(w)
	y0 := box.Y * float64(h)
	x1 := x0 + box.Width*float64(w)
	y1 := y0 + box.Height*float64(h)

	region := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	)
	page := image.Rect(0, 0, w, h)

	if !region.In(page) {
		clamped = true
		logger.Warn("region: block %d box %v exceeds canvas %dx%d, clamping", block.ID, region, w, h)
		region = region.Intersect(page)
	}
	if region.Empty() {
		px := clampInt(int(math.Floor(x0)), 0, w-1)
		py := clampInt(int(math.Floor(y0)), 0, h-1)
		region = image.Rect(px, py, px+1, py+1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	err := canvas.DrawRegion(dst, region.Add(bounds.Min))
	if err == nil {
		return dst, clamped, false
	}

	logger.Warn("region: draw block %d: %v, using centred fallback", block.ID, err)
	fw, fh := min(fallbackRegionWidth, w), min(fallbackRegionHeight, h)
	fx, fy := (w-fw)/2, (h-fh)/2
	fallback := image.Rect(fx, fy, fx+fw, fy+fh)

	dst = image.NewRGBA(image.Rect(0, 0, fw, fh))
	if err := canvas.DrawRegion(dst, fallback.Add(bounds.Min)); err != nil {
		logger.Warn("region: fallback draw for block %d: %v", block.ID, err)
		return nil, clamped, true
	}
	return dst, clamped, true
}

func (e *RegionExtractor) scaled(img *image.RGBA) image.Image {
	e.mu.RLock()
	scale := e.scale
	e.mu.RUnlock()

	if scale <= 0 || scale >= 1 {
		return img
	}

	b := img.Bounds()
	sw := max(1, int(math.Round(float64(b.Dx())*scale)))
	sh := max(1, int(math.Round(float64(b.Dy())*scale)))
	out := image.NewRGBA(image.Rect(0, 0, sw, sh))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
