// Package mapcontent aggregates styled layers into a map.
package mapcontent

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"shapeviewer/internal/shapefile"
	"shapeviewer/internal/style"
)

// Layer pairs a feature source with its style
type Layer struct {
	Source *shapefile.Source
	Style  style.Style
}

// NewLayer creates a layer
func NewLayer(src *shapefile.Source, s style.Style) *Layer {
	return &Layer{Source: src, Style: s}
}

// Title returns the source name
func (l *Layer) Title() string {
	return l.Source.Schema.Name
}

// Bounds returns the extent of the layer's features
func (l *Layer) Bounds() orb.Bound {
	return l.Source.Bounds()
}

// Features returns the layer's features in source order
func (l *Layer) Features() []*geojson.Feature {
	return l.Source.Features.Features
}

// Content is an ordered list of layers with a title
type Content struct {
	mu     sync.RWMutex
	title  string
	layers []*Layer
}

// New creates empty content
func New(title string) *Content {
	return &Content{title: title}
}

// Title returns the map title
func (c *Content) Title() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.title
}

// SetTitle changes the map title
func (c *Content) SetTitle(title string) {
	c.mu.Lock()
	c.title = title
	c.mu.Unlock()
}

// AddLayer appends a layer; later layers draw on top
func (c *Content) AddLayer(l *Layer) {
	c.mu.Lock()
	c.layers = append(c.layers, l)
	c.mu.Unlock()
}

// Layers returns a snapshot of the layers in draw order
func (c *Content) Layers() []*Layer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Layer, len(c.layers))
	copy(out, c.layers)
	return out
}

// MaxBounds returns the union of all layer extents. The second result is
// false when there are no layers.
func (c *Content) MaxBounds() (orb.Bound, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.layers) == 0 {
		return orb.Bound{}, false
	}

	b := c.layers[0].Bounds()
	for _, l := range c.layers[1:] {
		b = b.Union(l.Bounds())
	}
	return b, true
}
