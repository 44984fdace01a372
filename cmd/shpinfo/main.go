package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"shapeviewer/internal/config"
	"shapeviewer/internal/logging"
	"shapeviewer/internal/shapefile"
)

func main() {
	dump := pflag.Bool("geojson", false, "print the features as a GeoJSON FeatureCollection")
	level := pflag.String("log-level", "", "log level (debug, info, warn, error)")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [file.shp]\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	cfg := config.Get()
	if *level == "" {
		*level = cfg.Log.Level
	}
	log := logging.New(*level)
	if err := config.Err(); err != nil {
		log.WithError(err).Warn("configuration ignored, using defaults")
	}

	path := cfg.Data.Path
	if pflag.NArg() > 0 {
		path = pflag.Arg(0)
	}

	src, err := shapefile.Open(context.Background(), path)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("open failed")
		os.Exit(1)
	}

	if *dump {
		data, err := src.Features.MarshalJSON()
		if err != nil {
			log.WithError(err).Error("encode failed")
			os.Exit(1)
		}
		os.Stdout.Write(data)
		fmt.Println()
		return
	}

	b := src.Bounds()
	fmt.Printf("Path:     %s\n", src.Path)
	fmt.Printf("Layer:    %s\n", src.Schema.Name)
	fmt.Printf("Geometry: %s\n", src.Schema.GeometryKind)
	fmt.Printf("Features: %d\n", src.Len())
	fmt.Printf("Bounds:   (%.6f, %.6f) - (%.6f, %.6f)\n", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
	if src.Schema.CRS != "" {
		fmt.Printf("CRS:      %s\n", src.Schema.CRS)
	}

	fmt.Printf("\n=== Fields: %d ===\n", len(src.Schema.Fields))
	for _, f := range src.Schema.Fields {
		fmt.Printf("  %-12s %-6s size=%d prec=%d\n", f.Name, f.Type, f.Size, f.Precision)
	}
}
