package streaming

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeviewer/internal/mapcontent"
	"shapeviewer/internal/shapefile"
	"shapeviewer/internal/shapefile/shptest"
	"shapeviewer/internal/style"
)

func squares(t *testing.T) *mapcontent.Content {
	t.Helper()

	path := shptest.WritePolygons(t, t.TempDir(), "squares",
		shptest.Square(0, 0, 10, 10),
		shptest.Square(100, 100, 110, 110),
	)
	src, err := shapefile.Open(context.Background(), path)
	require.NoError(t, err)

	// start from a default that differs, the layer style must win
	st := style.Default(src.Schema)
	st = st.WithFill(style.MustHex(style.Tomato)).WithStroke(style.MustHex(style.Black), style.OutlineWidth)

	c := mapcontent.New("squares")
	c.AddLayer(mapcontent.NewLayer(src, st))
	return c
}

func rgba(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func TestPaintFillsWithLayerStyle(t *testing.T) {
	content := squares(t)
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	area := orb.Bound{Min: orb.Point{-5, -5}, Max: orb.Point{15, 15}}

	n, err := New().Paint(context.Background(), dst, content, area)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "the far square is culled")

	assert.Equal(t, color.RGBA{R: 0xFF, G: 0x63, B: 0x47, A: 0xFF}, rgba(dst.At(50, 50)))
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, rgba(dst.At(5, 5)))

	// the outline runs along x=25 (map x=0), pixels there are darkened
	edge := rgba(dst.At(25, 50))
	assert.Less(t, edge.R, uint8(0xFF))
}

func TestPaintWholeContent(t *testing.T) {
	content := squares(t)
	dst := image.NewRGBA(image.Rect(0, 0, 64, 64))
	area, ok := content.MaxBounds()
	require.True(t, ok)

	n, err := New().Paint(context.Background(), dst, content, area)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPaintCancelled(t *testing.T) {
	content := squares(t)
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	area, _ := content.MaxBounds()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Paint(ctx, dst, content, area)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPaintNothingToDo(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))

	n, err := New().Paint(context.Background(), dst, nil, orb.Bound{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, rgba(dst.At(3, 3)))
}

func TestIndexIsCached(t *testing.T) {
	content := squares(t)
	r := New()
	layer := content.Layers()[0]

	assert.Same(t, r.index(layer), r.index(layer))
	assert.Equal(t, 2, r.index(layer).Size())
}
