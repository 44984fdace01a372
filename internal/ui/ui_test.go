package ui

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	l := Split(1000, 700)
	assert.Equal(t, image.Rect(0, 0, 1000, 650), l.Map)
	assert.Equal(t, image.Rect(0, 650, 1000, 700), l.Bar)

	tiny := Split(100, 20)
	assert.True(t, tiny.Map.Empty())
	assert.Equal(t, image.Rect(0, 0, 100, 20), tiny.Bar)
}

func newBar() (*Bar, *int, *int) {
	in, out := 0, 0
	bar := NewBar(
		NewButton("Zoom In", func() { in++ }),
		NewButton("Zoom Out", func() { out++ }),
	)
	bar.Layout(Split(1000, 700).Bar)
	return bar, &in, &out
}

func TestLayoutCentersButtons(t *testing.T) {
	bar, _, _ := newBar()
	a, b := bar.Buttons[0].Rect, bar.Buttons[1].Rect

	assert.Equal(t, 660, a.Min.Y)
	assert.Equal(t, 690, a.Max.Y)
	assert.Equal(t, Spacing, b.Min.X-a.Max.X)

	left := a.Min.X
	right := 1000 - b.Max.X
	assert.InDelta(t, left, right, 1)
}

func TestClickFiresButton(t *testing.T) {
	bar, in, out := newBar()
	c := bar.Buttons[1].Rect.Min.Add(image.Pt(3, 3))

	require.True(t, bar.Press(c.X, c.Y))
	fired := bar.Release(c.X, c.Y)

	require.NotNil(t, fired)
	assert.Equal(t, "Zoom Out", fired.Label)
	assert.Equal(t, 0, *in)
	assert.Equal(t, 1, *out)
}

func TestReleaseOutsideCancels(t *testing.T) {
	bar, in, _ := newBar()
	c := bar.Buttons[0].Rect.Min.Add(image.Pt(3, 3))

	require.True(t, bar.Press(c.X, c.Y))
	assert.Nil(t, bar.Release(0, 0))
	assert.Equal(t, 0, *in)
}

func TestPressOutsideBar(t *testing.T) {
	bar, _, _ := newBar()
	assert.False(t, bar.Press(500, 100))
	assert.Nil(t, bar.Release(500, 100))

	// inside the bar but between buttons
	assert.True(t, bar.Press(2, 680))
	assert.Nil(t, bar.Release(2, 680))
}

func TestDrawLabels(t *testing.T) {
	bar, _, _ := newBar()
	dst := image.NewRGBA(image.Rect(0, 0, 1000, 700))
	bar.Draw(dst)

	assert.Equal(t, barColor, dst.RGBAAt(2, 680))
	assert.Equal(t, borderColor, dst.RGBAAt(bar.Buttons[0].Rect.Min.X, bar.Buttons[0].Rect.Min.Y))

	dark := 0
	r := bar.Buttons[0].Rect.Inset(2)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if dst.RGBAAt(x, y) == (color.RGBA{A: 0xFF}) {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "label glyphs are drawn")
}

func TestCompose(t *testing.T) {
	l := Split(40, 60)
	bar := NewBar()
	bar.Layout(l.Bar)

	red := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := range red.Pix {
		red.Pix[i] = 0xFF
		if i%4 == 1 || i%4 == 2 {
			red.Pix[i] = 0
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, 40, 60))
	l.Compose(dst, red, bar)

	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, dst.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, dst.RGBAAt(30, 5), "map region outside the image stays white")
	assert.Equal(t, barColor, dst.RGBAAt(5, 55))

	l.Compose(dst, nil, nil)
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, dst.RGBAAt(5, 5))
}
