package segment

import (
	"fmt"
	"image"
	"path/filepath"

	"geovector/internal/raster"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

// Mask is a single-channel binary segmentation mask with the same pixel
// dimensions as the source raster. Every value is either 0 or 255.
type Mask struct {
	Mat    gocv.Mat
	Width  int
	Height int
	// ArtifactPath is where the mask image was persisted, if anywhere.
	ArtifactPath string
}

// Close releases the mask's pixel buffer.
func (m *Mask) Close() {
	if m != nil && !m.Mat.Empty() {
		m.Mat.Close()
	}
}

// Segment produces a binary mask for the raster using the strategy bound to
// the feature type. If outputDir is non-empty the mask is written there under
// a unique name. A nil mask (with no error) means no features are
// extractable; callers must not treat that as retryable.
func Segment(r *raster.Raster, featureType FeatureType, outputDir string) *Mask {
	if r == nil || r.Mat.Empty() {
		log.Error().Str("feature_type", featureType.String()).Msg("segmentation skipped: empty source raster")
		return nil
	}

	cfg := StrategyFor(featureType)

	var mat gocv.Mat
	switch cfg.Kind {
	case thresholdAdaptive:
		mat = adaptiveMask(r.Mat, cfg)
	case thresholdChannel:
		mat = channelMask(r.Mat, cfg)
	default:
		mat = otsuMask(r.Mat, cfg)
	}

	mask := &Mask{Mat: mat, Width: mat.Cols(), Height: mat.Rows()}

	if outputDir != "" {
		path := filepath.Join(outputDir, fmt.Sprintf("%s_mask.png", uuid.New().String()))
		if gocv.IMWrite(path, mat) {
			mask.ArtifactPath = path
		} else {
			log.Warn().Str("path", path).Msg("could not persist segmentation mask")
		}
	}

	st := Stats(mask.Mat)
	log.Debug().
		Str("feature_type", featureType.String()).
		Float64("coverage", st.Coverage).
		Float64("mean_intensity", st.Mean).
		Float64("stddev_intensity", st.StdDev).
		Msg("segmentation complete")

	return mask
}

// smooth applies a Gaussian blur with the configured sigma, kernel size
// derived from sigma. Sigma <= 0 leaves the image untouched.
func smooth(src gocv.Mat, sigma float64) gocv.Mat {
	out := gocv.NewMat()
	if sigma > 0 {
		gocv.GaussianBlur(src, &out, image.Point{}, sigma, sigma, gocv.BorderDefault)
	} else {
		src.CopyTo(&out)
	}
	return out
}

// adaptiveMask thresholds against the local neighborhood mean, which holds up
// under uneven illumination.
func adaptiveMask(img gocv.Mat, cfg Config) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	blurred := smooth(gray, cfg.Sigma)
	defer blurred.Close()

	mask := gocv.NewMat()
	gocv.AdaptiveThreshold(blurred, &mask, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, cfg.BlockSize, cfg.C)
	return mask
}

// channelMask applies a fixed threshold to one color channel.
func channelMask(img gocv.Mat, cfg Config) gocv.Mat {
	var src gocv.Mat
	if cfg.Channel == channelGray {
		src = gocv.NewMat()
		gocv.CvtColor(img, &src, gocv.ColorBGRToGray)
	} else {
		channels := gocv.Split(img)
		for i, ch := range channels {
			if i == int(cfg.Channel) {
				src = ch
			} else {
				ch.Close()
			}
		}
	}
	defer src.Close()

	blurred := smooth(src, cfg.Sigma)
	defer blurred.Close()

	mask := gocv.NewMat()
	gocv.Threshold(blurred, &mask, cfg.Threshold, 255, gocv.ThresholdBinary)
	return mask
}

// otsuMask picks the global threshold maximizing inter-class variance; it has
// no tunable parameters beyond smoothing.
func otsuMask(img gocv.Mat, cfg Config) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	blurred := smooth(gray, cfg.Sigma)
	defer blurred.Close()

	mask := gocv.NewMat()
	gocv.Threshold(blurred, &mask, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)
	return mask
}
