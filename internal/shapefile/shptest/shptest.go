// Package shptest writes small shapefiles for tests.
package shptest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
)

const WGS84 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// Square returns a clockwise ring for the axis-aligned square [x0,x1]×[y0,y1]
func Square(x0, y0, x1, y1 float64) []shp.Point {
	return []shp.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}, {X: x0, Y: y0}}
}

// WritePolygons writes one polygon record per element of rings under dir and
// returns the .shp path. Each record gets a NAME attribute.
func WritePolygons(t testing.TB, dir, name string, rings ...[]shp.Point) string {
	t.Helper()

	path := filepath.Join(dir, name+".shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("NAME", 32)}))
	for i, ring := range rings {
		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
		row := w.Write(&poly)
		require.NoError(t, w.WriteAttribute(int(row), 0, name+"-"+string(rune('a'+i))))
	}
	w.Close()
	fixDbf(t, path)

	require.NoError(t, os.WriteFile(strings.TrimSuffix(path, ".shp")+".prj", []byte(WGS84), 0644))
	return path
}

// WritePoints writes one point record per point and returns the .shp path
func WritePoints(t testing.TB, dir, name string, pts ...shp.Point) string {
	t.Helper()

	path := filepath.Join(dir, name+".shp")
	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	for i := range pts {
		w.Write(&pts[i])
	}
	w.Close()
	fixDbf(t, path)
	return path
}

// fixDbf moves the attribute table next to the .shp. go-shp's writer names
// it "<name>dbf" without the dot, where its own reader does not look.
func fixDbf(t testing.TB, path string) {
	t.Helper()

	base := strings.TrimSuffix(path, ".shp")
	if _, err := os.Stat(base + "dbf"); err != nil {
		return
	}
	require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
}

// WriteTruncated writes the first n bytes of a valid polygon shapefile to
// name.shp under dir and returns the path.
func WriteTruncated(t testing.TB, dir, name string, n int) string {
	t.Helper()

	src := WritePolygons(t, t.TempDir(), "whole", Square(0, 0, 1, 1))
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	if n > len(data) {
		n = len(data)
	}

	path := filepath.Join(dir, name+".shp")
	require.NoError(t, os.WriteFile(path, data[:n], 0644))
	return path
}
