// Package ui draws the control bar under the map and dispatches clicks on it.
package ui

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	BarHeight     = 50
	Padding       = 10
	Spacing       = 10
	buttonPadding = 12
)

var (
	barColor     = color.RGBA{R: 0xF4, G: 0xF4, B: 0xF4, A: 0xFF}
	buttonColor  = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	pressedColor = color.RGBA{R: 0xC8, G: 0xC8, B: 0xC8, A: 0xFF}
	borderColor  = color.RGBA{R: 0x8C, G: 0x8C, B: 0x8C, A: 0xFF}
	labelColor   = color.Black
)

// Layout splits a window into the map region on top and the control bar below
type Layout struct {
	Map image.Rectangle
	Bar image.Rectangle
}

// Split computes the layout for a width×height window
func Split(width, height int) Layout {
	barTop := height - BarHeight
	if barTop < 0 {
		barTop = 0
	}
	return Layout{
		Map: image.Rect(0, 0, width, barTop),
		Bar: image.Rect(0, barTop, width, height),
	}
}

// Compose draws one window frame: the map image (white when nil) in the map
// region and the bar below it
func (l Layout) Compose(dst draw.Image, mapImg image.Image, bar *Bar) {
	draw.Draw(dst, l.Map, image.White, image.Point{}, draw.Src)
	if mapImg != nil {
		draw.Draw(dst, l.Map, mapImg, mapImg.Bounds().Min, draw.Src)
	}
	if bar != nil {
		bar.Draw(dst)
	}
}

// Button is a labelled push button
type Button struct {
	Label   string
	OnClick func()

	Rect    image.Rectangle
	pressed bool
}

// NewButton creates a button
func NewButton(label string, onClick func()) *Button {
	return &Button{Label: label, OnClick: onClick}
}

// Bar is a horizontal row of centered buttons
type Bar struct {
	Buttons []*Button
	Rect    image.Rectangle
	face    font.Face
	armed   *Button
}

// NewBar creates a bar with the given buttons
func NewBar(buttons ...*Button) *Bar {
	return &Bar{Buttons: buttons, face: basicfont.Face7x13}
}

// Layout positions the buttons centered inside r
func (b *Bar) Layout(r image.Rectangle) {
	b.Rect = r

	widths := make([]int, len(b.Buttons))
	total := 0
	for i, btn := range b.Buttons {
		widths[i] = font.MeasureString(b.face, btn.Label).Ceil() + 2*buttonPadding
		total += widths[i]
	}
	if len(b.Buttons) > 1 {
		total += Spacing * (len(b.Buttons) - 1)
	}

	x := r.Min.X + (r.Dx()-total)/2
	top := r.Min.Y + Padding
	bottom := r.Max.Y - Padding
	if bottom < top {
		bottom = top
	}
	for i, btn := range b.Buttons {
		btn.Rect = image.Rect(x, top, x+widths[i], bottom)
		x += widths[i] + Spacing
	}
}

// Press arms the button under (x, y), if any. It reports whether the point is
// inside the bar.
func (b *Bar) Press(x, y int) bool {
	p := image.Pt(x, y)
	if !p.In(b.Rect) {
		return false
	}
	for _, btn := range b.Buttons {
		if p.In(btn.Rect) {
			btn.pressed = true
			b.armed = btn
			break
		}
	}
	return true
}

// Release fires the armed button when (x, y) is still inside it. It returns
// the button that fired, or nil.
func (b *Bar) Release(x, y int) *Button {
	btn := b.armed
	b.armed = nil
	if btn == nil {
		return nil
	}
	btn.pressed = false

	if !image.Pt(x, y).In(btn.Rect) {
		return nil
	}
	if btn.OnClick != nil {
		btn.OnClick()
	}
	return btn
}

// Draw paints the bar into dst
func (b *Bar) Draw(dst draw.Image) {
	draw.Draw(dst, b.Rect, image.NewUniform(barColor), image.Point{}, draw.Src)

	for _, btn := range b.Buttons {
		fill := buttonColor
		if btn.pressed {
			fill = pressedColor
		}
		draw.Draw(dst, btn.Rect, image.NewUniform(borderColor), image.Point{}, draw.Src)
		draw.Draw(dst, btn.Rect.Inset(1), image.NewUniform(fill), image.Point{}, draw.Src)

		metrics := b.face.Metrics()
		textW := font.MeasureString(b.face, btn.Label)
		textH := metrics.Ascent + metrics.Descent
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(labelColor),
			Face: b.face,
			Dot: fixed.Point26_6{
				X: fixed.I(btn.Rect.Min.X) + (fixed.I(btn.Rect.Dx())-textW)/2,
				Y: fixed.I(btn.Rect.Min.Y) + (fixed.I(btn.Rect.Dy())-textH)/2 + metrics.Ascent,
			},
		}
		d.DrawString(btn.Label)
	}
}
