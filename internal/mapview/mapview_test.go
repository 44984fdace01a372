package mapview

import (
	"context"
	"image"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeviewer/internal/camera"
	"shapeviewer/internal/mapcontent"
)

type countingRenderer struct {
	calls int
	area  orb.Bound
}

func (r *countingRenderer) Paint(_ context.Context, _ *image.RGBA, _ *mapcontent.Content, area orb.Bound) (int, error) {
	r.calls++
	r.area = area
	return 0, nil
}

var square = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

func TestSetDisplayArea(t *testing.T) {
	p := NewPane(mapcontent.New("t"))
	require.NoError(t, p.SetDisplayArea(square))
	assert.Equal(t, square, p.DisplayArea())

	err := p.SetDisplayArea(orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{1, 1}})
	require.ErrorIs(t, err, camera.ErrInvalidArea)
	assert.Equal(t, square, p.DisplayArea())
}

func TestImageRepaintsOnlyWhenDirty(t *testing.T) {
	r := &countingRenderer{}
	p := NewPane(mapcontent.New("t"))
	p.SetRenderer(r)
	require.NoError(t, p.SetDisplayArea(square))

	img, err := p.Image(context.Background())
	require.NoError(t, err)
	assert.Nil(t, img, "no viewport yet")

	p.Resize(40, 30)
	img, err = p.Image(context.Background())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
	assert.Equal(t, 1, r.calls)
	assert.False(t, p.Dirty())

	_, _ = p.Image(context.Background())
	assert.Equal(t, 1, r.calls)

	require.NoError(t, p.SetDisplayArea(camera.Scale(square, 0.8)))
	_, _ = p.Image(context.Background())
	assert.Equal(t, 2, r.calls)
	assert.Equal(t, camera.Scale(square, 0.8), r.area)
}

func TestDragMarksDirty(t *testing.T) {
	p := NewPane(mapcontent.New("t"))
	require.NoError(t, p.SetDisplayArea(square))
	p.Resize(10, 10)
	_, _ = p.Image(context.Background())

	p.MouseMove(5, 5)
	assert.False(t, p.Dirty(), "moving without a drag does nothing")

	p.MouseDown(0, 0)
	assert.True(t, p.Dragging())
	p.MouseMove(1, 0)
	p.MouseUp()

	assert.True(t, p.Dirty())
	assert.InDelta(t, -1, p.DisplayArea().Min[0], 1e-9)
}

func TestWheel(t *testing.T) {
	p := NewPane(mapcontent.New("t"))
	require.NoError(t, p.SetDisplayArea(square))
	p.Resize(10, 10)

	require.NoError(t, p.Wheel(0.5, 5, 5))
	assert.InDelta(t, 5, p.DisplayArea().Max[0]-p.DisplayArea().Min[0], 1e-9)
	assert.Equal(t, square.Center(), p.DisplayArea().Center())
}
