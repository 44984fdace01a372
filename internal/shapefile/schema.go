package shapefile

import (
	"fmt"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// GeometryKind is the family of geometry stored in a shapefile
type GeometryKind int

const (
	KindUnknown GeometryKind = iota
	KindPoint
	KindLine
	KindPolygon
)

func (k GeometryKind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// FieldType is the dBASE column type code ('C', 'N', 'F', 'D', 'L')
type FieldType byte

func (t FieldType) String() string {
	switch t {
	case 'C':
		return "string"
	case 'N':
		return "number"
	case 'F':
		return "float"
	case 'D':
		return "date"
	case 'L':
		return "bool"
	default:
		return fmt.Sprintf("type(%c)", byte(t))
	}
}

// Field describes one attribute column
type Field struct {
	Name      string
	Type      FieldType
	Size      uint8
	Precision uint8
}

// Schema describes the features of a Source
type Schema struct {
	Name         string
	GeometryKind GeometryKind
	Fields       []Field
	CRS          string // WKT from the .prj sibling, empty when absent
}

func kindOf(t shp.ShapeType) (GeometryKind, error) {
	switch t {
	case shp.POINT, shp.POINTZ, shp.POINTM, shp.MULTIPOINT, shp.MULTIPOINTZ, shp.MULTIPOINTM:
		return KindPoint, nil
	case shp.POLYLINE, shp.POLYLINEZ, shp.POLYLINEM:
		return KindLine, nil
	case shp.POLYGON, shp.POLYGONZ, shp.POLYGONM:
		return KindPolygon, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %d", ErrUnsupportedShape, t)
	}
}

// toGeometry converts a record to an orb geometry. Null records return nil.
func toGeometry(s shp.Shape) (orb.Geometry, error) {
	switch g := s.(type) {
	case *shp.Null:
		return nil, nil
	case *shp.Point:
		return orb.Point{g.X, g.Y}, nil
	case *shp.PointZ:
		return orb.Point{g.X, g.Y}, nil
	case *shp.PointM:
		return orb.Point{g.X, g.Y}, nil
	case *shp.MultiPoint:
		return multiPoint(g.Points), nil
	case *shp.MultiPointZ:
		return multiPoint(g.Points), nil
	case *shp.MultiPointM:
		return multiPoint(g.Points), nil
	case *shp.PolyLine:
		return lines(g.Parts, g.Points), nil
	case *shp.PolyLineZ:
		return lines(g.Parts, g.Points), nil
	case *shp.PolyLineM:
		return lines(g.Parts, g.Points), nil
	case *shp.Polygon:
		return polygons(g.Parts, g.Points), nil
	case *shp.PolygonZ:
		return polygons(g.Parts, g.Points), nil
	case *shp.PolygonM:
		return polygons(g.Parts, g.Points), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedShape, s)
	}
}

func multiPoint(pts []shp.Point) orb.Geometry {
	if len(pts) == 0 {
		return nil
	}
	mp := make(orb.MultiPoint, len(pts))
	for i, p := range pts {
		mp[i] = orb.Point{p.X, p.Y}
	}
	return mp
}

// split cuts the flat point list into parts using the part start offsets
func split(parts []int32, pts []shp.Point) [][]orb.Point {
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(pts))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start > end || end > int32(len(pts)) {
			continue
		}
		seg := make([]orb.Point, 0, end-start)
		for _, p := range pts[start:end] {
			seg = append(seg, orb.Point{p.X, p.Y})
		}
		out = append(out, seg)
	}
	return out
}

func lines(parts []int32, pts []shp.Point) orb.Geometry {
	segs := split(parts, pts)
	switch len(segs) {
	case 0:
		return nil
	case 1:
		return orb.LineString(segs[0])
	}

	mls := make(orb.MultiLineString, len(segs))
	for i, s := range segs {
		mls[i] = orb.LineString(s)
	}
	return mls
}

// polygons groups rings into polygons: clockwise rings are shells, counter
// clockwise rings are holes of the preceding shell.
func polygons(parts []int32, pts []shp.Point) orb.Geometry {
	var mp orb.MultiPolygon
	for _, seg := range split(parts, pts) {
		ring := orb.Ring(seg)
		if ring.Orientation() == orb.CCW && len(mp) > 0 {
			last := len(mp) - 1
			mp[last] = append(mp[last], ring)
			continue
		}
		mp = append(mp, orb.Polygon{ring})
	}
	switch len(mp) {
	case 0:
		return nil
	case 1:
		return mp[0]
	}
	return mp
}
