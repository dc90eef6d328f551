// Package segment converts rasters into binary masks using feature-type
// specific thresholding strategies.
package segment

import "strings"

// FeatureType identifies the class of map feature being extracted. Each type
// binds to the thresholding strategy empirically best suited to its typical
// spectral signature.
type FeatureType int

const (
	// FeatureBuildings selects adaptive local thresholding, robust to
	// uneven illumination on built structures.
	FeatureBuildings FeatureType = iota
	// FeatureTrees selects green-channel thresholding.
	FeatureTrees
	// FeatureWater selects red-channel thresholding with heavier smoothing,
	// since water boundaries are noisier.
	FeatureWater
	// FeatureRoads has no dedicated spectral strategy and uses automatic
	// global thresholding.
	FeatureRoads
	// FeatureOther is the fallback for unrecognized feature strings.
	FeatureOther
)

// ParseFeatureType maps a user-supplied feature string onto a FeatureType.
// Unrecognized strings fall through to FeatureOther without erroring.
func ParseFeatureType(s string) FeatureType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buildings":
		return FeatureBuildings
	case "trees", "vegetation":
		return FeatureTrees
	case "water":
		return FeatureWater
	case "roads":
		return FeatureRoads
	default:
		return FeatureOther
	}
}

func (t FeatureType) String() string {
	switch t {
	case FeatureBuildings:
		return "buildings"
	case FeatureTrees:
		return "trees"
	case FeatureWater:
		return "water"
	case FeatureRoads:
		return "roads"
	default:
		return "other"
	}
}

// channel indexes into a BGR pixel.
type channel int

const (
	channelBlue channel = iota
	channelGreen
	channelRed
	channelGray // grayscale conversion instead of a single channel
)

// thresholdKind selects between the supported binarization techniques.
type thresholdKind int

const (
	thresholdAdaptive thresholdKind = iota
	thresholdChannel
	thresholdOtsu
)

// Config is the segmentation strategy configuration bound to a feature type.
type Config struct {
	Kind      thresholdKind
	Channel   channel // for thresholdChannel
	Threshold float32 // fixed threshold value for thresholdChannel
	BlockSize int     // neighborhood size for thresholdAdaptive (odd)
	C         float32 // constant offset for thresholdAdaptive
	Sigma     float64 // Gaussian smoothing applied before thresholding
}

// StrategyFor returns the segmentation configuration for a feature type.
// The mapping is exhaustive over the closed FeatureType set.
func StrategyFor(t FeatureType) Config {
	switch t {
	case FeatureBuildings:
		return Config{Kind: thresholdAdaptive, BlockSize: 15, C: 2, Sigma: 1.0}
	case FeatureTrees:
		return Config{Kind: thresholdChannel, Channel: channelGreen, Threshold: 140, Sigma: 1.5}
	case FeatureWater:
		return Config{Kind: thresholdChannel, Channel: channelRed, Threshold: 120, Sigma: 2.0}
	case FeatureRoads, FeatureOther:
		return Config{Kind: thresholdOtsu, Sigma: 1.0}
	default:
		return Config{Kind: thresholdOtsu, Sigma: 1.0}
	}
}
