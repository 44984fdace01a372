// Package app is the window shell: it owns the glfw window and the GPU
// presenter, runs the event loop and starts the background map load.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"shapeviewer/internal/config"
	"shapeviewer/internal/mapview"
	"shapeviewer/internal/renderer"
	"shapeviewer/internal/ui"
	"shapeviewer/internal/viewer"
)

// pending UI tasks; the loader posts exactly one
const queueSize = 16

type App struct {
	window   *glfw.Window
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	renderer *renderer.Renderer
	log      logrus.FieldLogger

	region     *viewer.Region
	tasks      *viewer.Queue
	controller *viewer.Controller
	bar        *ui.Bar
	layout     ui.Layout
	frame      *image.RGBA

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	// framebuffer size and cursor position in framebuffer pixels
	width, height    int
	cursorX, cursorY float64
}

// New opens the window, sets up the GPU and starts loading the configured
// shapefile in the background. The window is usable before the load ends.
func New(cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("GLFW init failed: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.CocoaRetinaFramebuffer, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window creation failed: %w", err)
	}

	app := &App{
		window: window,
		log:    log,
		region: &viewer.Region{},
		tasks:  viewer.NewQueue(queueSize, glfw.PostEmptyEvent),
	}
	app.width, app.height = window.GetFramebufferSize()

	if err := app.initWebGPU(); err != nil {
		app.Cleanup()
		return nil, err
	}

	app.renderer, err = renderer.NewRenderer(app.adapter, app.device, app.queue, app.surface, uint32(app.width), uint32(app.height))
	if err != nil {
		app.Cleanup()
		return nil, fmt.Errorf("renderer creation failed: %w", err)
	}

	app.controller = &viewer.Controller{Region: app.region, Log: log}
	app.bar = ui.NewBar(
		ui.NewButton("Zoom In", app.controller.ZoomIn),
		ui.NewButton("Zoom Out", app.controller.ZoomOut),
	)
	app.relayout()

	app.setupCallbacks()

	app.ctx, app.cancel = context.WithCancel(context.Background())
	app.group, app.ctx = errgroup.WithContext(app.ctx)

	loader := &viewer.Loader{
		Path:        cfg.Data.Path,
		DownloadURL: cfg.Data.DownloadURL,
		Title:       cfg.Map.Title,
		Region:      app.region,
		Queue:       app.tasks,
		Log:         log,
	}
	app.group.Go(func() error {
		return loader.Run(app.ctx)
	})

	return app, nil
}

func (app *App) initWebGPU() error {
	// Create instance with Metal backend explicitly
	app.instance = wgpu.CreateInstance(&wgpu.InstanceDescriptor{
		Backends: wgpu.InstanceBackend_Metal,
	})
	if app.instance == nil {
		return fmt.Errorf("failed to create WebGPU instance")
	}

	app.surface = CreateSurface(app.instance, app.window, app.log)
	if app.surface == nil {
		return fmt.Errorf("surface creation failed")
	}

	// Request adapter - try with surface first, then without
	var err error
	app.adapter, err = app.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface:    app.surface,
		PowerPreference:      wgpu.PowerPreference_HighPerformance,
		ForceFallbackAdapter: false,
	})
	if err != nil {
		app.log.WithError(err).Debug("trying adapter without surface constraint")
		app.adapter, err = app.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			PowerPreference: wgpu.PowerPreference_HighPerformance,
		})
		if err != nil {
			return fmt.Errorf("adapter request failed: %w", err)
		}
	}

	props := app.adapter.GetProperties()
	app.log.WithField("driver", props.DriverDescription).Debugf("GPU: %s", props.Name)

	app.device, err = app.adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "ShapeViewerDevice",
	})
	if err != nil {
		return fmt.Errorf("device request failed: %w", err)
	}

	app.queue = app.device.GetQueue()
	return nil
}

func (app *App) relayout() {
	app.layout = ui.Split(app.width, app.height)
	app.bar.Layout(app.layout.Bar)
}

// pane returns the attached map widget, or nil while the region is empty
func (app *App) pane() *mapview.Pane {
	return app.region.Pane()
}

// framebufferPos converts window coordinates to framebuffer pixels
func (app *App) framebufferPos(x, y float64) (float64, float64) {
	ww, wh := app.window.GetSize()
	if ww <= 0 || wh <= 0 {
		return x, y
	}
	return x * float64(app.width) / float64(ww), y * float64(app.height) / float64(wh)
}

func (app *App) setupCallbacks() {
	app.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		app.width = width
		app.height = height
		app.relayout()
		if err := app.renderer.Resize(uint32(width), uint32(height)); err != nil {
			app.log.WithError(err).Error("resize failed")
		}
	})

	app.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := int(app.cursorX), int(app.cursorY)

		switch action {
		case glfw.Press:
			if app.bar.Press(x, y) {
				return
			}
			if p := app.pane(); p != nil && image.Pt(x, y).In(app.layout.Map) {
				p.MouseDown(app.cursorX, app.cursorY)
			}
		case glfw.Release:
			app.bar.Release(x, y)
			if p := app.pane(); p != nil {
				p.MouseUp()
			}
		}
	})

	app.window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		app.cursorX, app.cursorY = app.framebufferPos(x, y)
		if p := app.pane(); p != nil {
			p.MouseMove(app.cursorX, app.cursorY)
		}
	})

	app.window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		p := app.pane()
		if p == nil || !image.Pt(int(app.cursorX), int(app.cursorY)).In(app.layout.Map) {
			return
		}

		var factor float64
		switch {
		case yoff > 0:
			factor = viewer.ZoomInFactor
		case yoff < 0:
			factor = viewer.ZoomOutFactor
		default:
			return
		}
		if err := p.Wheel(factor, app.cursorX, app.cursorY); err != nil {
			app.log.WithError(err).Warnf("zoom by %g refused", factor)
		}
	})

	app.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyEqual, glfw.KeyKPAdd:
			app.controller.ZoomIn()
		case glfw.KeyMinus, glfw.KeyKPSubtract:
			app.controller.ZoomOut()
		}
	})
}

// compose draws the map and the control bar into the frame image
func (app *App) compose() *image.RGBA {
	if app.width <= 0 || app.height <= 0 {
		return nil
	}
	if app.frame == nil || app.frame.Bounds().Dx() != app.width || app.frame.Bounds().Dy() != app.height {
		app.frame = image.NewRGBA(image.Rect(0, 0, app.width, app.height))
	}

	var mapImg image.Image
	if p := app.pane(); p != nil {
		p.Resize(app.layout.Map.Dx(), app.layout.Map.Dy())
		img, err := p.Image(app.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			app.log.WithError(err).Error("render failed")
		}
		if img != nil {
			mapImg = img
		}
	}

	app.layout.Compose(app.frame, mapImg, app.bar)
	return app.frame
}

func (app *App) present() {
	if err := app.renderer.Present(app.compose()); err != nil {
		app.log.WithError(err).Error("present failed")
	}
}

// Run blocks in the event loop until the window is closed. The first frame
// is drawn before waiting for events.
func (app *App) Run() error {
	app.tasks.Run(app.window.ShouldClose, glfw.WaitEvents, app.present)
	return nil
}

// Cleanup stops the loader, waits for it and releases the window. Tasks the
// loader posts after this point are rejected.
func (app *App) Cleanup() {
	if app.cancel != nil {
		app.cancel()
	}
	if app.tasks != nil {
		app.tasks.Close()
	}
	if app.group != nil {
		if err := app.group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, viewer.ErrQueueClosed) {
			app.log.WithError(err).Warn("loader stopped")
		}
	}

	if app.renderer != nil {
		app.renderer.Release()
	}
	if app.queue != nil {
		app.queue.Release()
	}
	if app.device != nil {
		app.device.Release()
	}
	if app.adapter != nil {
		app.adapter.Release()
	}
	if app.surface != nil {
		app.surface.Release()
	}
	if app.instance != nil {
		app.instance.Release()
	}
	if app.window != nil {
		app.window.Destroy()
	}
	glfw.Terminate()
}
