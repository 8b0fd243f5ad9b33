package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/paperlens/internal/core/domain"
	"github.com/custodia-labs/paperlens/internal/core/ports/driven"
)

// mockGateway is a scripted driven.BackendGateway.
type mockGateway struct {
	mu sync.Mutex

	layout    *domain.LayoutResult
	layoutErr error
	region    *driven.RegionResult
	regionErr error
	answer    *driven.Answer
	answerErr error

	// beforeReturn runs inside each call before it returns.
	beforeReturn func()

	layoutCalls int
	regionReqs  []driven.RegionRequest
	questions   []string
}

func (m *mockGateway) ExtractLayout(_ context.Context, _ *domain.Document) (*domain.LayoutResult, error) {
	m.mu.Lock()
	m.layoutCalls++
	hook := m.beforeReturn
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return m.layout, m.layoutErr
}

func (m *mockGateway) ExtractRegion(_ context.Context, req driven.RegionRequest) (*driven.RegionResult, error) {
	m.mu.Lock()
	m.regionReqs = append(m.regionReqs, req)
	hook := m.beforeReturn
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return m.region, m.regionErr
}

func (m *mockGateway) AskQuestion(_ context.Context, _ string, question string) (*driven.Answer, error) {
	m.mu.Lock()
	m.questions = append(m.questions, question)
	hook := m.beforeReturn
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return m.answer, m.answerErr
}

type mockClipboard struct {
	text string
	err  error

	// beforeWrite runs before the write is applied.
	beforeWrite func()
}

func (c *mockClipboard) WriteText(text string) error {
	if c.beforeWrite != nil {
		c.beforeWrite()
	}
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type mockArtifacts struct {
	saved map[string][]byte
	err   error
}

func (a *mockArtifacts) SaveImage(name string, png []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if a.saved == nil {
		a.saved = make(map[string][]byte)
	}
	a.saved[name] = png
	return "/artifacts/" + name, nil
}

type note struct {
	level   domain.NotificationLevel
	message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recordingNotifier) Notify(level domain.NotificationLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{level, message})
}

func (n *recordingNotifier) messages(level domain.NotificationLevel) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, x := range n.notes {
		if x.level == level {
			out = append(out, x.message)
		}
	}
	return out
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notes)
}

// fakeCanvas is a solid-colour raster.
type fakeCanvas struct {
	rect  image.Rectangle
	fill  color.Color
	err   error
	calls int
	// failFirst makes only the first DrawRegion call fail.
	failFirst bool
	lastSrc   image.Rectangle
}

func newFakeCanvas(w, h int) *fakeCanvas {
	return &fakeCanvas{rect: image.Rect(0, 0, w, h), fill: color.RGBA{R: 200, A: 255}}
}

func (c *fakeCanvas) Bounds() image.Rectangle { return c.rect }

func (c *fakeCanvas) DrawRegion(dst draw.Image, src image.Rectangle) error {
	c.calls++
	c.lastSrc = src
	if c.err != nil {
		return c.err
	}
	if c.failFirst && c.calls == 1 {
		return errors.New("canvas released")
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.fill), image.Point{}, draw.Src)
	return nil
}

type fakeRegistry struct {
	mu       sync.Mutex
	surfaces []driven.Surface
	canvases []driven.Canvas
}

func (r *fakeRegistry) Surfaces() []driven.Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]driven.Surface(nil), r.surfaces...)
}

func (r *fakeRegistry) Canvases() []driven.Canvas {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]driven.Canvas(nil), r.canvases...)
}

func (r *fakeRegistry) mount(s driven.Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces = append(r.surfaces, s)
	if s.Canvas != nil {
		r.canvases = append(r.canvases, s.Canvas)
	}
}

// fakeRenderer mounts a page surface into a registry when asked.
type fakeRenderer struct {
	registry *fakeRegistry
	canvas   driven.Canvas
	rendered []int
}

func (r *fakeRenderer) RenderPage(pageIndex int) error {
	r.rendered = append(r.rendered, pageIndex)
	r.registry.mount(driven.Surface{
		Attributes: map[string]string{"data-page-number": strconv.Itoa(pageIndex + 1)},
		Classes:    []string{"page"},
		Canvas:     r.canvas,
	})
	return nil
}

func (r *fakeRenderer) PageCount() int { return 10 }

// stubRegions returns a fixed preview.
type stubRegions struct {
	img *domain.RegionImage
}

func (s stubRegions) Extract(context.Context, domain.LayoutBlock, int) *domain.RegionImage {
	return s.img
}

// switchingRegions runs onExtract before returning its preview.
type switchingRegions struct {
	img       *domain.RegionImage
	onExtract func()
}

func (s switchingRegions) Extract(context.Context, domain.LayoutBlock, int) *domain.RegionImage {
	s.onExtract()
	return s.img
}

func noSleep(context.Context, time.Duration) error { return nil }

func testDocument(name string) *domain.Document {
	return domain.NewDocument(name, []byte("%PDF-1.7"), domain.MimePDF, time.Unix(0, 0))
}

func testBlock(id int, t domain.BlockType, page int) domain.LayoutBlock {
	return domain.LayoutBlock{
		ID:          id,
		Type:        t,
		TextContent: "cell a | cell b",
		BoundingBox: domain.BoundingBox{X: 0.1, Y: 0.1, Width: 0.5, Height: 0.25},
		PageNumber:  page,
	}
}
