// Package extract composes the extraction stages into the pipeline entry
// point: raster in, GeoJSON FeatureCollection out.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"geovector/internal/feature"
	"geovector/internal/georef"
	"geovector/internal/raster"
	"geovector/internal/segment"
	"geovector/internal/vectorize"
	"geovector/pkg/geometry"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// Options aggregates the per-stage configuration.
type Options struct {
	Preprocess  raster.PreprocessOptions
	Vectorize   vectorize.Options
	PostProcess vectorize.PostProcessOptions
	Sources     []georef.Source
}

// DefaultOptions returns the default configuration for every stage.
func DefaultOptions() Options {
	return Options{
		Preprocess:  raster.DefaultPreprocessOptions(),
		Vectorize:   vectorize.DefaultOptions(),
		PostProcess: vectorize.DefaultPostProcessOptions(),
		Sources:     georef.DefaultSources(),
	}
}

// Result is the outcome of one pipeline invocation.
type Result struct {
	Collection  *geojson.FeatureCollection
	FeatureType segment.FeatureType
	Georef      georef.Resolution
	GeoJSONPath string
	Manifest    *Manifest
}

// ExtractFeatures runs the full pipeline with default options. featureType
// accepts the closed feature set plus arbitrary strings, which fall through
// to default segmentation.
func ExtractFeatures(rasterPath, outputDir, featureType string) (*Result, error) {
	return Extract(rasterPath, outputDir, segment.ParseFeatureType(featureType), DefaultOptions())
}

// Extract runs the staged pipeline: load, preprocess, segment, vectorize,
// post-process, georeference, assemble. Each stage completes and persists
// its product before the next begins. Only a raster decode failure aborts
// the invocation; stage-local failures degrade to partial results and the
// worst case is a valid, empty collection.
func Extract(rasterPath, outputDir string, featureType segment.FeatureType, opts Options) (*Result, error) {
	r, err := raster.Load(rasterPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	manifest := NewManifest(rasterPath, outputDir, featureType.String())

	enhanced, preprocessedPath, err := raster.Preprocess(r, outputDir, opts.Preprocess)
	if err != nil {
		return nil, err
	}
	enhanced.Close()
	manifest.Artifacts.Preprocessed = preprocessedPath

	mask := segment.Segment(r, featureType, outputDir)
	defer mask.Close()

	polygons, counts := vectorizeStage(mask, featureType, opts)
	manifest.Counts = counts

	res := georef.Resolve(r, opts.Sources)
	manifest.Georef.Method = res.Method
	manifest.Georef.Degraded = res.Degraded
	manifest.Georef.Bounds = res.Box

	width, height := r.Width, r.Height
	if mask != nil {
		width, height = mask.Width, mask.Height
		manifest.Artifacts.Mask = mask.ArtifactPath
	}

	fc := feature.Assemble(polygons, width, height, res.Box, featureType.String())

	geojsonPath := outputPath(rasterPath, outputDir, featureType.String())
	if err := feature.Write(fc, geojsonPath); err != nil {
		return nil, err
	}
	manifest.Artifacts.GeoJSON = geojsonPath

	if err := manifest.Save(); err != nil {
		log.Warn().Err(err).Msg("could not persist run manifest")
	}

	log.Info().
		Str("feature_type", featureType.String()).
		Int("features", len(fc.Features)).
		Str("georef_method", res.Method).
		Bool("degraded", res.Degraded).
		Msg("extraction complete")

	return &Result{
		Collection:  fc,
		FeatureType: featureType,
		Georef:      res,
		GeoJSONPath: geojsonPath,
		Manifest:    manifest,
	}, nil
}

// vectorizeStage runs tracing and post-processing, absorbing post-processing
// failures into the traced set so the pipeline degrades instead of aborting.
func vectorizeStage(mask *segment.Mask, featureType segment.FeatureType, opts Options) ([]geometry.Ring, Counts) {
	var counts Counts
	if mask == nil {
		return nil, counts
	}

	traced := vectorize.ExtractPolygons(mask.Mat, opts.Vectorize)
	counts.Traced = len(traced.Polygons)
	counts.Dropped = traced.Dropped

	if len(traced.Polygons) == 0 {
		return nil, counts
	}

	regularize := featureType == segment.FeatureBuildings
	merged, err := vectorize.PostProcess(traced.Polygons, regularize, opts.PostProcess)
	if err != nil {
		log.Warn().Err(err).Msg("post-processing failed, keeping unmerged polygons")
		merged = traced.Polygons
		if regularize {
			merged = vectorize.Regularize(traced.Polygons, opts.PostProcess.RegularizeRatio)
		}
	}
	counts.Merged = len(merged)
	return merged, counts
}

// outputPath derives the GeoJSON artifact path from the raster base name.
func outputPath(rasterPath, outputDir, featureType string) string {
	base := strings.TrimSuffix(filepath.Base(rasterPath), filepath.Ext(rasterPath))
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.geojson", base, featureType))
}
