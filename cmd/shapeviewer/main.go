package main

import (
	"fmt"
	"os"

	"shapeviewer/internal/app"
	"shapeviewer/internal/config"
	"shapeviewer/internal/logging"
)

func main() {
	cfg := config.Get()
	log := logging.New(cfg.Log.Level)
	if err := config.Err(); err != nil {
		log.WithError(err).Warn("configuration ignored, using defaults")
	}

	fmt.Println(cfg.Window.Title)
	fmt.Println("Controls:")
	fmt.Println("  Zoom In / Zoom Out : Buttons below the map")
	fmt.Println("  Mouse drag         : Pan")
	fmt.Println("  Mouse wheel        : Zoom at cursor")
	fmt.Println("  + / -              : Zoom in / out")
	fmt.Println("  Escape             : Exit")
	fmt.Println()

	application, err := app.New(cfg, log)
	if err != nil {
		log.WithError(err).Error("startup failed")
		os.Exit(1)
	}
	defer application.Cleanup()

	if err := application.Run(); err != nil {
		log.WithError(err).Error("event loop failed")
		os.Exit(1)
	}
}
