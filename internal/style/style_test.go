package style

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeviewer/internal/shapefile"
)

func TestForLayerOverridesEveryKind(t *testing.T) {
	kinds := []shapefile.GeometryKind{
		shapefile.KindPolygon,
		shapefile.KindLine,
		shapefile.KindPoint,
		shapefile.KindUnknown,
	}

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			s := ForLayer(shapefile.Schema{Name: "countries", GeometryKind: kind})

			assert.Equal(t, "#FF6347", Hex(s.FillColor()))
			assert.Equal(t, uint8(255), s.FillColor().A)
			assert.Equal(t, "#000000", Hex(s.StrokeColor()))
			assert.Equal(t, uint8(255), s.StrokeColor().A)
			assert.Equal(t, 1.0, s.Stroke.Width)
			assert.True(t, s.Filled())
			assert.Equal(t, kind, s.Kind)
		})
	}
}

func TestDefaultDiffersFromOverride(t *testing.T) {
	s := Default(shapefile.Schema{GeometryKind: shapefile.KindPolygon})

	assert.NotEqual(t, "#FF6347", Hex(s.FillColor()))
	assert.Equal(t, uint8(128), s.FillColor().A)
	assert.True(t, s.Filled())

	line := Default(shapefile.Schema{GeometryKind: shapefile.KindLine})
	assert.False(t, line.Filled())
}

func TestWithIsCopy(t *testing.T) {
	base := Default(shapefile.Schema{GeometryKind: shapefile.KindPolygon})
	over := base.WithStroke(color.NRGBA{A: 255}, 4)

	assert.Equal(t, 1.0, base.Stroke.Width)
	assert.Equal(t, 4.0, over.Stroke.Width)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff6347")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xFF, G: 0x63, B: 0x47, A: 0xFF}, c)

	_, err = ParseHex("tomato")
	require.Error(t, err)

	assert.Panics(t, func() { MustHex("#12") })
}
