package extract

import (
	"context"
	"fmt"

	"geovector/internal/feature"
	"geovector/internal/segment"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// Detection is one polygon returned by an external feature detector, already
// in geographic (WGS84 lon/lat) space.
type Detection struct {
	Polygon    orb.Polygon
	Confidence float64
}

// Detector is an external feature-detection capability, such as a dedicated
// building-footprint model. It is treated as opaque: given a raster it
// returns confidence-scored polygons. A Detector substitutes for
// segmentation, vectorization, and post-processing; its output still flows
// through the standard collection contract.
type Detector interface {
	Detect(ctx context.Context, rasterPath string, params DetectorParams) ([]Detection, error)
}

// DetectorParams tunes an external detector invocation.
type DetectorParams struct {
	ConfidenceThreshold float64
	MaskThreshold       float64
}

// DefaultDetectorParams returns the default detector tuning.
func DefaultDetectorParams() DetectorParams {
	return DetectorParams{
		ConfidenceThreshold: 0.5,
		MaskThreshold:       0.5,
	}
}

// ExtractWithDetector runs an external detector and adapts its output to the
// FeatureCollection contract: sequential IDs from 1, per-feature name and
// confidence, feature type attached once at the collection level.
func ExtractWithDetector(ctx context.Context, det Detector, rasterPath, outputDir string, featureType segment.FeatureType, params DetectorParams) (*Result, error) {
	detections, err := det.Detect(ctx, rasterPath, params)
	if err != nil {
		return nil, fmt.Errorf("extract: detector failed: %w", err)
	}

	kept := detections[:0]
	confidences := make([]float64, 0, len(detections))
	for _, d := range detections {
		if d.Confidence < params.ConfidenceThreshold || len(d.Polygon) == 0 {
			continue
		}
		kept = append(kept, d)
		confidences = append(confidences, d.Confidence)
	}

	if len(confidences) > 0 {
		mean, std := stat.MeanStdDev(confidences, nil)
		log.Debug().
			Int("detections", len(kept)).
			Float64("confidence_mean", mean).
			Float64("confidence_stddev", std).
			Msg("detector results filtered")
	}

	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"feature_type": featureType.String()}
	for i, d := range kept {
		f := geojson.NewFeature(d.Polygon)
		f.ID = i + 1
		f.Properties = geojson.Properties{
			"id":         i + 1,
			"name":       fmt.Sprintf("Feature %d", i+1),
			"confidence": d.Confidence,
		}
		fc.Append(f)
	}

	manifest := NewManifest(rasterPath, outputDir, featureType.String())
	manifest.Georef.Method = "detector"
	manifest.Counts = Counts{Traced: len(detections), Merged: len(kept)}

	result := &Result{
		Collection:  fc,
		FeatureType: featureType,
		Manifest:    manifest,
	}

	if outputDir != "" {
		path := outputPath(rasterPath, outputDir, featureType.String())
		if err := feature.Write(fc, path); err != nil {
			return nil, err
		}
		result.GeoJSONPath = path
		manifest.Artifacts.GeoJSON = path
		if err := manifest.Save(); err != nil {
			log.Warn().Err(err).Msg("could not persist run manifest")
		}
	}

	return result, nil
}
