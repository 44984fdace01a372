package camera

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// ErrInvalidArea is returned when a display area would be empty, inverted or
// not finite.
var ErrInvalidArea = errors.New("camera: invalid display area")

// Valid reports whether b is a finite rectangle with positive width and height
func Valid(b orb.Bound) bool {
	for _, v := range []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	w, h := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	return w > 0 && h > 0 && !math.IsInf(w, 0) && !math.IsInf(h, 0)
}

// Scale returns b resized by factor about its center
func Scale(b orb.Bound, factor float64) orb.Bound {
	c := b.Center()
	hw := (b.Max[0] - b.Min[0]) / 2 * factor
	hh := (b.Max[1] - b.Min[1]) / 2 * factor
	return orb.Bound{
		Min: orb.Point{c[0] - hw, c[1] - hh},
		Max: orb.Point{c[0] + hw, c[1] + hh},
	}
}

// Ensure widens a zero width or zero height rectangle by pad on each side of
// the collapsed axis. Rectangles with extent are returned unchanged.
func Ensure(b orb.Bound, pad float64) orb.Bound {
	if b.Max[0]-b.Min[0] <= 0 {
		b.Min[0] -= pad
		b.Max[0] += pad
	}
	if b.Max[1]-b.Min[1] <= 0 {
		b.Min[1] -= pad
		b.Max[1] += pad
	}
	return b
}

// Transform maps map coordinates to pixels. The display area is fitted into
// the viewport preserving its aspect ratio and centered; screen y grows down.
type Transform struct {
	Scale   float64 // pixels per map unit
	OffsetX float64
	OffsetY float64
	MinX    float64
	MaxY    float64
}

// Fit computes the transform that shows area inside a width×height viewport
func Fit(area orb.Bound, width, height int) Transform {
	aw := area.Max[0] - area.Min[0]
	ah := area.Max[1] - area.Min[1]
	w, h := float64(width), float64(height)

	s := math.Min(w/aw, h/ah)
	return Transform{
		Scale:   s,
		OffsetX: (w - aw*s) / 2,
		OffsetY: (h - ah*s) / 2,
		MinX:    area.Min[0],
		MaxY:    area.Max[1],
	}
}

// ToScreen converts a map point to pixel coordinates
func (t Transform) ToScreen(p orb.Point) (x, y float64) {
	x = t.OffsetX + (p[0]-t.MinX)*t.Scale
	y = t.OffsetY + (t.MaxY-p[1])*t.Scale
	return x, y
}

// ToMap converts pixel coordinates to a map point
func (t Transform) ToMap(x, y float64) orb.Point {
	return orb.Point{
		t.MinX + (x-t.OffsetX)/t.Scale,
		t.MaxY - (y-t.OffsetY)/t.Scale,
	}
}

// Camera holds the display area of a map view and its pixel viewport
type Camera struct {
	area orb.Bound

	// Viewport dimensions
	ViewportWidth  int
	ViewportHeight int

	// State tracking
	isDragging bool
	lastDragX  float64
	lastDragY  float64
}

// NewCamera creates a camera for a width×height viewport with no area yet
func NewCamera(width, height int) *Camera {
	return &Camera{
		ViewportWidth:  width,
		ViewportHeight: height,
	}
}

// Area returns the current display area
func (c *Camera) Area() orb.Bound {
	return c.area
}

// SetArea replaces the display area; invalid rectangles are rejected
func (c *Camera) SetArea(b orb.Bound) error {
	if !Valid(b) {
		return ErrInvalidArea
	}
	c.area = b
	return nil
}

// SetViewport updates the viewport dimensions
func (c *Camera) SetViewport(width, height int) {
	c.ViewportWidth = width
	c.ViewportHeight = height
}

func (c *Camera) hasViewport() bool {
	return c.ViewportWidth > 0 && c.ViewportHeight > 0 && Valid(c.area)
}

// Transform returns the current map to screen transform
func (c *Camera) Transform() Transform {
	return Fit(c.area, c.ViewportWidth, c.ViewportHeight)
}

// ScaleBy resizes the display area about its center
func (c *Camera) ScaleBy(factor float64) error {
	return c.SetArea(Scale(c.area, factor))
}

// Pan moves the display area so the map follows a pointer moved by the
// given pixel delta.
func (c *Camera) Pan(deltaX, deltaY float64) {
	if !c.hasViewport() {
		return
	}
	s := c.Transform().Scale
	dx := -deltaX / s
	dy := deltaY / s

	moved := orb.Bound{
		Min: orb.Point{c.area.Min[0] + dx, c.area.Min[1] + dy},
		Max: orb.Point{c.area.Max[0] + dx, c.area.Max[1] + dy},
	}
	// a pan never changes the size, only finiteness can fail
	_ = c.SetArea(moved)
}

// ZoomAtPoint resizes the display area by factor keeping the map point under
// the given screen position fixed.
func (c *Camera) ZoomAtPoint(factor, screenX, screenY float64) error {
	if !c.hasViewport() {
		return nil
	}
	p := c.ScreenToMap(screenX, screenY)

	zoomed := orb.Bound{
		Min: orb.Point{p[0] + (c.area.Min[0]-p[0])*factor, p[1] + (c.area.Min[1]-p[1])*factor},
		Max: orb.Point{p[0] + (c.area.Max[0]-p[0])*factor, p[1] + (c.area.Max[1]-p[1])*factor},
	}
	return c.SetArea(zoomed)
}

// ScreenToMap converts screen coordinates to map coordinates
func (c *Camera) ScreenToMap(screenX, screenY float64) orb.Point {
	return c.Transform().ToMap(screenX, screenY)
}

// MapToScreen converts map coordinates to screen coordinates
func (c *Camera) MapToScreen(p orb.Point) (screenX, screenY float64) {
	return c.Transform().ToScreen(p)
}

// StartDrag begins a drag operation
func (c *Camera) StartDrag(x, y float64) {
	c.isDragging = true
	c.lastDragX = x
	c.lastDragY = y
}

// Drag continues a drag operation
func (c *Camera) Drag(x, y float64) {
	if !c.isDragging {
		return
	}

	deltaX := x - c.lastDragX
	deltaY := y - c.lastDragY

	c.Pan(deltaX, deltaY)

	c.lastDragX = x
	c.lastDragY = y
}

// EndDrag ends a drag operation
func (c *Camera) EndDrag() {
	c.isDragging = false
}

// IsDragging returns whether a drag is in progress
func (c *Camera) IsDragging() bool {
	return c.isDragging
}
