// Package style describes how features are painted.
package style

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"shapeviewer/internal/shapefile"
)

const (
	// Tomato is the fill applied to every loaded layer
	Tomato = "#FF6347"
	// Black is the outline applied to every loaded layer
	Black = "#000000"
	// OutlineWidth is the outline width, in pixels, applied to every loaded layer
	OutlineWidth = 1.0
)

// Fill paints the interior of polygons and point marks
type Fill struct {
	Color   color.NRGBA
	Opacity float64
}

// Stroke paints lines and outlines
type Stroke struct {
	Color   color.NRGBA
	Width   float64
	Opacity float64
}

// Style is an immutable paint description. The With methods return copies.
type Style struct {
	Name        string
	Kind        shapefile.GeometryKind
	Fill        Fill
	Stroke      Stroke
	PointRadius float64
	filled      bool
}

// Default builds the simple style for a schema: polygons get a translucent
// fill and a blue outline, lines a blue stroke, points a filled circle.
func Default(schema shapefile.Schema) Style {
	s := Style{
		Name:   schema.Name,
		Kind:   schema.GeometryKind,
		Stroke: Stroke{Color: MustHex("#0000FF"), Width: 1, Opacity: 1},
	}

	switch schema.GeometryKind {
	case shapefile.KindPolygon:
		s.Fill = Fill{Color: MustHex("#00FFFF"), Opacity: 0.5}
		s.filled = true
	case shapefile.KindPoint:
		s.Fill = Fill{Color: MustHex("#808080"), Opacity: 1}
		s.PointRadius = 3
		s.filled = true
	}

	return s
}

// WithFill replaces the fill with an opaque fill of c
func (s Style) WithFill(c color.NRGBA) Style {
	s.Fill = Fill{Color: c, Opacity: 1}
	s.filled = true
	return s
}

// WithStroke replaces the stroke with an opaque stroke of c and width
func (s Style) WithStroke(c color.NRGBA, width float64) Style {
	s.Stroke = Stroke{Color: c, Width: width, Opacity: 1}
	return s
}

// Filled reports whether interiors are painted
func (s Style) Filled() bool {
	return s.filled
}

// FillColor returns the fill color with opacity folded into alpha
func (s Style) FillColor() color.NRGBA {
	return withOpacity(s.Fill.Color, s.Fill.Opacity)
}

// StrokeColor returns the stroke color with opacity folded into alpha
func (s Style) StrokeColor() color.NRGBA {
	return withOpacity(s.Stroke.Color, s.Stroke.Opacity)
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}

// ParseHex parses "#RRGGBB" into an opaque color
func ParseHex(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustHex is ParseHex for constants
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#RRGGBB"
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ForLayer builds the viewer's layer style: the schema default with the
// tomato fill and the black one pixel outline forced on.
func ForLayer(schema shapefile.Schema) Style {
	return Default(schema).
		WithFill(MustHex(Tomato)).
		WithStroke(MustHex(Black), OutlineWidth)
}
