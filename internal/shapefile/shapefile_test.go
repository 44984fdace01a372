package shapefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeviewer/internal/shapefile/shptest"
)

func TestOpenSinglePolygon(t *testing.T) {
	path := shptest.WritePolygons(t, t.TempDir(), "square", shptest.Square(10, 20, 30, 50))

	src, err := Open(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, src.Path)
	assert.Equal(t, "square", src.Schema.Name)
	assert.Equal(t, KindPolygon, src.Schema.GeometryKind)
	require.Len(t, src.Schema.Fields, 1)
	assert.Equal(t, "NAME", src.Schema.Fields[0].Name)
	assert.Equal(t, "string", src.Schema.Fields[0].Type.String())
	assert.Equal(t, shptest.WGS84, src.Schema.CRS)

	require.Equal(t, 1, src.Len())
	f := src.Features.Features[0]
	assert.IsType(t, orb.Polygon{}, f.Geometry)
	assert.Equal(t, "square-a", f.Properties["NAME"])

	assert.Equal(t, orb.Bound{Min: orb.Point{10, 20}, Max: orb.Point{30, 50}}, src.Bounds())
}

func TestOpenBoundsUnion(t *testing.T) {
	path := shptest.WritePolygons(t, t.TempDir(), "two",
		shptest.Square(0, 0, 1, 1),
		shptest.Square(5, -3, 6, 2),
	)

	src, err := Open(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, src.Len())
	assert.Equal(t, orb.Bound{Min: orb.Point{0, -3}, Max: orb.Point{6, 2}}, src.Bounds())

	assert.Equal(t, "two-a", src.Features.Features[0].Properties["NAME"])
	assert.Equal(t, "two-b", src.Features.Features[1].Properties["NAME"])
}

func TestFixtureWritesAttributeTable(t *testing.T) {
	dir := t.TempDir()
	shptest.WritePolygons(t, dir, "square", shptest.Square(0, 0, 1, 1))

	assert.FileExists(t, filepath.Join(dir, "square.dbf"))
	assert.NoFileExists(t, filepath.Join(dir, "squaredbf"))
}

func TestOpenPoints(t *testing.T) {
	path := shptest.WritePoints(t, t.TempDir(), "pts", shp.Point{X: 1, Y: 2}, shp.Point{X: 3, Y: 4})

	src, err := Open(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, KindPoint, src.Schema.GeometryKind)
	assert.Empty(t, src.Schema.CRS)
	assert.Equal(t, orb.Point{1, 2}, src.Features.Features[0].Geometry)
	assert.Equal(t, orb.Bound{Min: orb.Point{1, 2}, Max: orb.Point{3, 4}}, src.Bounds())
}

func TestOpenTruncated(t *testing.T) {
	path := shptest.WriteTruncated(t, t.TempDir(), "broken", 40)

	_, err := Open(context.Background(), path)
	require.ErrorIs(t, err, ErrTruncated)
	assert.Contains(t, err.Error(), "40 of 100 bytes")
}

func TestOpenCutInsideRecord(t *testing.T) {
	// one square polygon: 100 byte header + 136 byte record
	path := shptest.WriteTruncated(t, t.TempDir(), "broken", 150)

	_, err := Open(context.Background(), path)
	require.ErrorIs(t, err, ErrTruncated)
	assert.Contains(t, err.Error(), "150 of 236 bytes")
}

func TestOpenWholeFileIsNotTruncated(t *testing.T) {
	path := shptest.WriteTruncated(t, t.TempDir(), "whole", 1<<20)

	src, err := Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, src.Len())
}

func TestOpenNotShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.shp")
	require.NoError(t, os.WriteFile(path, make([]byte, 200), 0644))

	_, err := Open(context.Background(), path)
	require.ErrorIs(t, err, ErrNotShapefile)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.shp"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenCancelled(t *testing.T) {
	path := shptest.WritePolygons(t, t.TempDir(), "square", shptest.Square(0, 0, 1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPolygonsGroupsHoles(t *testing.T) {
	shell := shptest.Square(0, 0, 10, 10)
	// counter clockwise
	hole := []shp.Point{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 2}}
	other := shptest.Square(20, 20, 30, 30)

	pts := append(append(append([]shp.Point{}, shell...), hole...), other...)
	parts := []int32{0, int32(len(shell)), int32(len(shell) + len(hole))}

	g := polygons(parts, pts)
	mp, ok := g.(orb.MultiPolygon)
	require.True(t, ok)
	require.Len(t, mp, 2)
	assert.Len(t, mp[0], 2)
	assert.Len(t, mp[1], 1)
}

func TestLinesSplitsParts(t *testing.T) {
	pts := []shp.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}

	assert.Equal(t, orb.LineString{{0, 0}, {1, 1}, {2, 2}, {3, 3}}, lines([]int32{0}, pts))
	assert.Equal(t, orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}, lines([]int32{0, 2}, pts))
	assert.Nil(t, lines(nil, pts))
}

func TestKindOf(t *testing.T) {
	k, err := kindOf(shp.POLYGONZ)
	require.NoError(t, err)
	assert.Equal(t, KindPolygon, k)

	_, err = kindOf(shp.MULTIPATCH)
	require.ErrorIs(t, err, ErrUnsupportedShape)
}
