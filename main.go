// Package main provides the command-line entry point for the feature
// extraction pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"geovector/internal/extract"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	appName    = "geovector"
	appVersion = "0.1.0"
)

func main() {
	var (
		input       = flag.String("input", "", "path to the source raster (GeoTIFF, TIFF, JPEG, PNG, BMP)")
		output      = flag.String("output", "processed", "directory for intermediate and final artifacts")
		featureType = flag.String("type", "buildings", "feature type: buildings, trees, vegetation, water, roads")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
		version     = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", appName, appVersion)
		return
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := os.MkdirAll(*output, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", *output).Msg("could not create output directory")
	}

	result, err := extract.ExtractFeatures(*input, *output, *featureType)
	if err != nil {
		log.Fatal().Err(err).Msg("extraction failed")
	}

	if result.Georef.Degraded {
		log.Warn().Msg("output uses the placeholder bounding box; map placement will not be meaningful")
	}

	fmt.Println(result.GeoJSONPath)
}
