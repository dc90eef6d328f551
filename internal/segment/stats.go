package segment

import (
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// MaskStats summarizes a binary mask for diagnostics: how much of the frame
// is foreground and how the raw values distribute. A coverage of 0 means the
// mask carries no extractable features.
type MaskStats struct {
	Coverage float64 // foreground fraction, 0..1
	Mean     float64
	StdDev   float64
}

// statsSampleStride bounds the cost of statistics on large rasters.
const statsSampleStride = 4

// Stats computes MaskStats over the mask, sampling every statsSampleStride-th
// pixel in both axes.
func Stats(mask gocv.Mat) MaskStats {
	rows, cols := mask.Rows(), mask.Cols()
	if rows == 0 || cols == 0 {
		return MaskStats{}
	}

	total := rows * cols
	coverage := float64(gocv.CountNonZero(mask)) / float64(total)

	samples := make([]float64, 0, (rows/statsSampleStride+1)*(cols/statsSampleStride+1))
	for y := 0; y < rows; y += statsSampleStride {
		for x := 0; x < cols; x += statsSampleStride {
			samples = append(samples, float64(mask.GetUCharAt(y, x)))
		}
	}

	mean, std := stat.MeanStdDev(samples, nil)
	return MaskStats{Coverage: coverage, Mean: mean, StdDev: std}
}
