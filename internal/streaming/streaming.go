// Package streaming rasterises map content feature by feature, straight from
// the layer sources, without keeping a prebuilt image of the whole map.
package streaming

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"shapeviewer/internal/camera"
	"shapeviewer/internal/mapcontent"
	"shapeviewer/internal/style"
)

const (
	minBranch = 25
	maxBranch = 50

	// rtreego rejects zero length rectangles
	epsilon = 1e-9

	defaultPointRadius = 3.0
)

// item is one feature in a layer index
type item struct {
	order   int
	feature *geojson.Feature
	rect    rtreego.Rect
}

// Bounds method for rtreego.Spatial interface.
func (i *item) Bounds() rtreego.Rect {
	return i.rect
}

// Renderer draws map content into images
type Renderer struct {
	Background color.Color

	indexes   map[*mapcontent.Layer]*rtreego.Rtree
	indexesMu sync.Mutex
}

// New creates a renderer with a white background
func New() *Renderer {
	return &Renderer{
		Background: color.White,
		indexes:    make(map[*mapcontent.Layer]*rtreego.Rtree),
	}
}

// Paint clears dst and draws every feature of content that intersects area,
// layer by layer in source order. It returns the number of features drawn.
func (r *Renderer) Paint(ctx context.Context, dst *image.RGBA, content *mapcontent.Content, area orb.Bound) (int, error) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)

	size := dst.Bounds().Size()
	if content == nil || size.X == 0 || size.Y == 0 || !camera.Valid(area) {
		return 0, nil
	}

	query, err := rectOf(area)
	if err != nil {
		return 0, err
	}

	t := camera.Fit(area, size.X, size.Y)
	gc := draw2dimg.NewGraphicContext(dst)
	gc.SetFillRule(draw2d.FillRuleEvenOdd)

	drawn := 0
	for _, layer := range content.Layers() {
		hits := r.index(layer).SearchIntersect(query)
		sort.Slice(hits, func(i, j int) bool {
			return hits[i].(*item).order < hits[j].(*item).order
		})

		for _, h := range hits {
			if err := ctx.Err(); err != nil {
				return drawn, err
			}
			drawGeometry(gc, t, h.(*item).feature.Geometry, layer.Style)
			drawn++
		}
	}

	return drawn, nil
}

// index returns the layer's R-tree, building it on first use
func (r *Renderer) index(layer *mapcontent.Layer) *rtreego.Rtree {
	r.indexesMu.Lock()
	defer r.indexesMu.Unlock()

	if tree, ok := r.indexes[layer]; ok {
		return tree
	}

	tree := rtreego.NewTree(2, minBranch, maxBranch)
	for i, f := range layer.Features() {
		rect, err := rectOf(f.Geometry.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&item{order: i, feature: f, rect: rect})
	}
	r.indexes[layer] = tree
	return tree
}

func rectOf(b orb.Bound) (rtreego.Rect, error) {
	point := rtreego.Point{b.Min[0], b.Min[1]}
	lengths := []float64{
		max(b.Max[0]-b.Min[0], epsilon),
		max(b.Max[1]-b.Min[1], epsilon),
	}
	return rtreego.NewRect(point, lengths)
}

func drawGeometry(gc *draw2dimg.GraphicContext, t camera.Transform, g orb.Geometry, st style.Style) {
	switch g := g.(type) {
	case orb.Polygon:
		gc.BeginPath()
		for _, ring := range g {
			tracePath(gc, t, ring, true)
		}
		paint(gc, st, st.Filled())
	case orb.MultiPolygon:
		for _, p := range g {
			drawGeometry(gc, t, p, st)
		}
	case orb.Ring:
		drawGeometry(gc, t, orb.Polygon{g}, st)
	case orb.LineString:
		gc.BeginPath()
		tracePath(gc, t, g, false)
		paint(gc, st, false)
	case orb.MultiLineString:
		gc.BeginPath()
		for _, ls := range g {
			tracePath(gc, t, ls, false)
		}
		paint(gc, st, false)
	case orb.Point:
		radius := st.PointRadius
		if radius <= 0 {
			radius = defaultPointRadius
		}
		x, y := t.ToScreen(g)
		gc.BeginPath()
		draw2dkit.Circle(gc, x, y, radius)
		paint(gc, st, true)
	case orb.MultiPoint:
		for _, p := range g {
			drawGeometry(gc, t, p, st)
		}
	case orb.Collection:
		for _, c := range g {
			drawGeometry(gc, t, c, st)
		}
	}
}

func tracePath(gc *draw2dimg.GraphicContext, t camera.Transform, pts []orb.Point, closed bool) {
	for i, p := range pts {
		x, y := t.ToScreen(p)
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
	if closed && len(pts) > 0 {
		gc.Close()
	}
}

func paint(gc *draw2dimg.GraphicContext, st style.Style, fill bool) {
	gc.SetStrokeColor(st.StrokeColor())
	gc.SetLineWidth(st.Stroke.Width)
	if fill {
		gc.SetFillColor(st.FillColor())
		gc.FillStroke()
		return
	}
	gc.Stroke()
}
