// Package raster provides raster image loading and the preprocessing stage
// of the extraction pipeline.
package raster

import (
	"fmt"
	"image"
	"os"

	// Decoders for the standard-library fallback path.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

// DecodeError indicates the raster at Path could not be decoded by either
// decode path. It is fatal to a pipeline invocation: malformed input will not
// decode on retry.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("raster: decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Raster is a decoded raster image. The Mat is BGR, owned by the Raster, and
// must be released with Close once the extraction completes.
type Raster struct {
	Path   string
	Mat    gocv.Mat
	Width  int
	Height int
}

// Close releases the underlying pixel buffer.
func (r *Raster) Close() {
	if !r.Mat.Empty() {
		r.Mat.Close()
	}
}

// Load decodes the raster at path. OpenCV's decoder is tried first; on
// failure the standard library image registry (JPEG, PNG, TIFF, BMP) is used
// as a second, independent path. Both failing is a *DecodeError.
func Load(path string) (*Raster, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		img, err := loadStdlib(path)
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		mat = imageToMat(img)
		log.Debug().Str("path", path).Msg("opencv decode failed, used stdlib decoder")
	}

	return &Raster{
		Path:   path,
		Mat:    mat,
		Width:  mat.Cols(),
		Height: mat.Rows(),
	}, nil
}

func loadStdlib(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// imageToMat converts a Go image.Image to a gocv.Mat in BGR format.
func imageToMat(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat
}
