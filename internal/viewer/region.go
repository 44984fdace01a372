package viewer

import (
	"shapeviewer/internal/mapview"
)

// Region is the window slot that hosts the map view. It starts Empty and
// becomes Populated once; there is no way back. Only the UI goroutine
// touches it.
type Region struct {
	pane *mapview.Pane
}

// View returns the hosted map view, or false while the region is Empty
func (r *Region) View() (mapview.View, bool) {
	if r.pane == nil {
		return nil, false
	}
	return r.pane, true
}

// Pane returns the hosted pane, or nil while the region is Empty
func (r *Region) Pane() *mapview.Pane {
	return r.pane
}

// Populated reports whether a map view is attached
func (r *Region) Populated() bool {
	return r.pane != nil
}

// Attach hosts p. It reports false, leaving the region untouched, when a pane
// is already attached or p is nil.
func (r *Region) Attach(p *mapview.Pane) bool {
	if p == nil || r.pane != nil {
		return false
	}
	r.pane = p
	return true
}
