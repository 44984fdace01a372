package viewer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"

	"shapeviewer/internal/camera"
	"shapeviewer/internal/mapcontent"
	"shapeviewer/internal/mapview"
	"shapeviewer/internal/shapefile"
	"shapeviewer/internal/streaming"
	"shapeviewer/internal/style"
)

// padding, in map units, around a layer whose extent collapses to a point
const degeneratePad = 1.0

// Loader builds the map view off the UI goroutine and hands it over through
// the queue. It runs once per process.
type Loader struct {
	Path        string
	DownloadURL string
	Title       string

	Region *Region
	Queue  *Queue
	Log    logrus.FieldLogger
}

// Run checks for the shapefile, loads it and posts the attachment to the UI
// goroutine. Load failures are logged and leave the region Empty; only
// cancellation is returned.
func (l *Loader) Run(ctx context.Context) error {
	log := l.Log.WithField("path", l.Path)

	if _, err := os.Stat(l.Path); errors.Is(err, fs.ErrNotExist) {
		log.Error("shapefile not found, please download it from:")
		log.Error(l.DownloadURL)
		log.Errorf("unzip to: %s", l.Path)
		return nil
	}

	pane, err := l.Load(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.WithError(err).Errorf("error loading map: %v", err)
		return nil
	}

	err = l.Queue.Post(ctx, func() {
		if !l.Region.Attach(pane) {
			log.Warn("map region already populated")
			return
		}
		log.Info("map loaded successfully")
	})
	if err != nil {
		log.WithError(err).Debug("map load abandoned")
		return err
	}
	return nil
}

// Load opens the shapefile and assembles the map view: the schema's default
// style with the fixed fill and outline, one layer, the content and a pane
// showing the content's full extent through the streaming renderer.
func (l *Loader) Load(ctx context.Context) (pane *mapview.Pane, err error) {
	defer func() {
		if r := recover(); r != nil {
			pane = nil
			err = fmt.Errorf("load %s: %v", l.Path, r)
		}
	}()

	src, err := shapefile.Open(ctx, l.Path)
	if err != nil {
		return nil, err
	}

	layer := mapcontent.NewLayer(src, style.ForLayer(src.Schema))

	content := mapcontent.New(l.Title)
	content.AddLayer(layer)

	pane = mapview.NewPane(content)
	pane.SetRenderer(streaming.New())

	bounds, _ := content.MaxBounds()
	if err := pane.SetDisplayArea(camera.Ensure(bounds, degeneratePad)); err != nil {
		return nil, fmt.Errorf("display area %v: %w", bounds, err)
	}

	return pane, nil
}
