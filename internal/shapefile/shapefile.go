// Package shapefile opens ESRI shapefiles as read-only feature sources.
//
// A Source holds the schema, the features converted to orb geometries and the
// overall bounds. Sources are built once and never mutated afterwards.
package shapefile

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	headerSize = 100
	fileCode   = 9994

	// records between cancellation checks
	checkEvery = 256
)

var (
	ErrTruncated        = errors.New("shapefile: truncated file")
	ErrNotShapefile     = errors.New("shapefile: bad file code")
	ErrUnsupportedShape = errors.New("shapefile: unsupported shape type")
)

// Source is an opened shapefile
type Source struct {
	Path     string
	Schema   Schema
	Features *geojson.FeatureCollection
	bounds   orb.Bound
}

// Open reads the shapefile at path. The .dbf sibling supplies attributes when
// present and the .prj sibling supplies the CRS text.
func Open(ctx context.Context, path string) (src *Source, err error) {
	if err := sniffHeader(path); err != nil {
		return nil, err
	}

	// go-shp panics on some malformed records
	defer func() {
		if r := recover(); r != nil {
			src = nil
			err = fmt.Errorf("read %s: %v", path, r)
		}
	}()

	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer reader.Close()

	kind, err := kindOf(reader.GeometryType)
	if err != nil {
		return nil, err
	}

	fields := reader.Fields()
	schema := Schema{
		Name:         strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		GeometryKind: kind,
		Fields:       make([]Field, 0, len(fields)),
		CRS:          readPrj(path),
	}
	for _, f := range fields {
		schema.Fields = append(schema.Fields, Field{
			Name:      f.String(),
			Type:      FieldType(f.Fieldtype),
			Size:      f.Size,
			Precision: f.Precision,
		})
	}

	fc := geojson.NewFeatureCollection()
	var bound orb.Bound
	first := true

	for n := 0; reader.Next(); n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, shape := reader.Shape()
		geom, err := toGeometry(shape)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", row, err)
		}
		if geom == nil {
			continue
		}

		f := geojson.NewFeature(geom)
		f.ID = row
		for i, field := range schema.Fields {
			f.Properties[field.Name] = strings.Trim(reader.ReadAttribute(row, i), " \x00")
		}
		fc.Append(f)

		if first {
			bound = geom.Bound()
			first = false
		} else {
			bound = bound.Union(geom.Bound())
		}
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if first {
		box := reader.BBox()
		bound = orb.Bound{Min: orb.Point{box.MinX, box.MinY}, Max: orb.Point{box.MaxX, box.MaxY}}
	}

	return &Source{
		Path:     path,
		Schema:   schema,
		Features: fc,
		bounds:   bound,
	}, nil
}

// Bounds returns the union of all feature bounds
func (s *Source) Bounds() orb.Bound {
	return s.bounds
}

// Len returns the number of features
func (s *Source) Len() int {
	return len(s.Features.Features)
}

// sniffHeader rejects files that cannot hold a shapefile header, or that are
// shorter than the length their header declares, before handing them to the
// reader.
func sniffHeader(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var header [headerSize]byte
	n, err := io.ReadFull(f, header[:])
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s has %d of %d bytes", ErrTruncated, path, n, headerSize)
		}
		return err
	}

	if code := binary.BigEndian.Uint32(header[0:4]); code != fileCode {
		return fmt.Errorf("%w: %s starts with %d", ErrNotShapefile, path, code)
	}

	// file length is stored in 16-bit words
	declared := int64(binary.BigEndian.Uint32(header[24:28])) * 2
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if size := info.Size(); size < declared {
		return fmt.Errorf("%w: %s has %d of %d bytes", ErrTruncated, path, size, declared)
	}
	return nil
}

func readPrj(path string) string {
	data, err := os.ReadFile(strings.TrimSuffix(path, filepath.Ext(path)) + ".prj")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
