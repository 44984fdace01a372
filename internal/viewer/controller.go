package viewer

import (
	"github.com/sirupsen/logrus"

	"shapeviewer/internal/camera"
)

const (
	ZoomInFactor  = 0.8
	ZoomOutFactor = 1.25
)

// Controller handles the zoom buttons. There is no zoom floor or ceiling; a
// step that would leave an invalid display area is refused and logged.
type Controller struct {
	Region *Region
	Log    logrus.FieldLogger
}

// ZoomIn shrinks the display area about its center
func (c *Controller) ZoomIn() {
	c.zoom(ZoomInFactor)
}

// ZoomOut grows the display area about its center
func (c *Controller) ZoomOut() {
	c.zoom(ZoomOutFactor)
}

func (c *Controller) zoom(factor float64) {
	v, ok := c.Region.View()
	if !ok {
		return
	}

	area := v.DisplayArea()
	if err := v.SetDisplayArea(camera.Scale(area, factor)); err != nil {
		c.Log.WithError(err).WithField("area", area).Warnf("zoom by %g refused", factor)
	}
}
