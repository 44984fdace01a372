//go:build !darwin

package app

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"
	"github.com/sirupsen/logrus"
)

// CreateSurface only knows how to wrap a Cocoa window; elsewhere it reports
// the platform and returns nil.
func CreateSurface(instance *wgpu.Instance, window *glfw.Window, log logrus.FieldLogger) *wgpu.Surface {
	log.WithField("os", runtime.GOOS).Error("no WebGPU surface for this platform")
	return nil
}
