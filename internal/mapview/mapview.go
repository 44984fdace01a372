// Package mapview is the map widget: it binds map content to a display area
// and turns both into pixels through an attached renderer.
package mapview

import (
	"context"
	"image"

	"github.com/paulmach/orb"

	"shapeviewer/internal/camera"
	"shapeviewer/internal/mapcontent"
)

// Renderer draws content into an image for a display area
type Renderer interface {
	Paint(ctx context.Context, dst *image.RGBA, content *mapcontent.Content, area orb.Bound) (int, error)
}

// View is what the rest of the viewer needs from a map widget
type View interface {
	Content() *mapcontent.Content
	SetRenderer(r Renderer)
	DisplayArea() orb.Bound
	SetDisplayArea(b orb.Bound) error
}

// Pane is the glfw-independent map widget. All methods must be called from
// the UI goroutine.
type Pane struct {
	content  *mapcontent.Content
	renderer Renderer
	camera   *camera.Camera

	img   *image.RGBA
	dirty bool
}

var _ View = (*Pane)(nil)

// NewPane creates a pane for content. The display area starts unset.
func NewPane(content *mapcontent.Content) *Pane {
	return &Pane{
		content: content,
		camera:  camera.NewCamera(0, 0),
		dirty:   true,
	}
}

// Content returns the map content
func (p *Pane) Content() *mapcontent.Content {
	return p.content
}

// SetRenderer attaches the rendering strategy
func (p *Pane) SetRenderer(r Renderer) {
	p.renderer = r
	p.dirty = true
}

// DisplayArea returns the visible rectangle in map coordinates
func (p *Pane) DisplayArea() orb.Bound {
	return p.camera.Area()
}

// SetDisplayArea replaces the visible rectangle. Invalid rectangles return
// camera.ErrInvalidArea and leave the area unchanged.
func (p *Pane) SetDisplayArea(b orb.Bound) error {
	if err := p.camera.SetArea(b); err != nil {
		return err
	}
	p.dirty = true
	return nil
}

// Resize sets the pixel size of the pane
func (p *Pane) Resize(width, height int) {
	if width == p.camera.ViewportWidth && height == p.camera.ViewportHeight {
		return
	}
	p.camera.SetViewport(width, height)
	p.dirty = true
}

// Size returns the pixel size of the pane
func (p *Pane) Size() (width, height int) {
	return p.camera.ViewportWidth, p.camera.ViewportHeight
}

// Dirty reports whether the next Image call will repaint
func (p *Pane) Dirty() bool {
	return p.dirty
}

// MouseDown starts a drag at pane-local pixel coordinates
func (p *Pane) MouseDown(x, y float64) {
	p.camera.StartDrag(x, y)
}

// MouseMove pans while dragging
func (p *Pane) MouseMove(x, y float64) {
	if !p.camera.IsDragging() {
		return
	}
	p.camera.Drag(x, y)
	p.dirty = true
}

// MouseUp ends a drag
func (p *Pane) MouseUp() {
	p.camera.EndDrag()
}

// Dragging reports whether a drag is in progress
func (p *Pane) Dragging() bool {
	return p.camera.IsDragging()
}

// Wheel zooms about the pointer: factor < 1 zooms in
func (p *Pane) Wheel(factor, x, y float64) error {
	if err := p.camera.ZoomAtPoint(factor, x, y); err != nil {
		return err
	}
	p.dirty = true
	return nil
}

// Image returns the pane contents, repainting when something changed. The
// returned image is reused between calls.
func (p *Pane) Image(ctx context.Context) (*image.RGBA, error) {
	w, h := p.Size()
	if w <= 0 || h <= 0 {
		return nil, nil
	}
	if p.img != nil && !p.dirty {
		return p.img, nil
	}

	if p.img == nil || p.img.Bounds().Dx() != w || p.img.Bounds().Dy() != h {
		p.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	if p.renderer != nil {
		if _, err := p.renderer.Paint(ctx, p.img, p.content, p.DisplayArea()); err != nil {
			return p.img, err
		}
	}
	p.dirty = false
	return p.img, nil
}
