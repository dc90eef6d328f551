package raster

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

// PreprocessOptions configures the enhancement stage.
type PreprocessOptions struct {
	BlurKernel  int     // Gaussian blur kernel size (odd)
	BlockSize   int     // Adaptive threshold neighborhood size (odd)
	C           float32 // Constant subtracted from the local mean
	CannyLow    float32 // Lower Canny hysteresis threshold
	CannyHigh   float32 // Upper Canny hysteresis threshold
	CloseKernel int     // Morphological closing kernel size
}

// DefaultPreprocessOptions returns sensible defaults for preprocessing.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		BlurKernel:  5,
		BlockSize:   11,
		C:           2,
		CannyLow:    50,
		CannyHigh:   150,
		CloseKernel: 3,
	}
}

// Preprocess converts the raster into a single-channel enhanced image
// highlighting structural edges: grayscale, noise-reducing blur, inverted
// adaptive binarization, Canny edge detection, then a morphological closing
// to bridge small gaps in detected boundaries.
//
// The result is written to outputDir under a unique name so each stage's
// product is durable for debugging and reuse. The returned Mat is owned by
// the caller.
func Preprocess(r *Raster, outputDir string, opts PreprocessOptions) (gocv.Mat, string, error) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(r.Mat, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: opts.BlurKernel, Y: opts.BlurKernel}, 0, 0, gocv.BorderDefault)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.AdaptiveThreshold(blurred, &thresh, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, opts.BlockSize, opts.C)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(thresh, &edges, opts.CannyLow, opts.CannyHigh)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: opts.CloseKernel, Y: opts.CloseKernel})
	defer kernel.Close()

	cleaned := gocv.NewMat()
	gocv.MorphologyEx(edges, &cleaned, gocv.MorphClose, kernel)

	outPath := filepath.Join(outputDir, fmt.Sprintf("%s_processed.png", uuid.New().String()))
	if ok := gocv.IMWrite(outPath, cleaned); !ok {
		cleaned.Close()
		return gocv.NewMat(), "", fmt.Errorf("raster: writing preprocessed image to %s", outPath)
	}

	log.Debug().Str("artifact", outPath).Msg("preprocessing complete")
	return cleaned, outPath, nil
}
