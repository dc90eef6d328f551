package segment

import "testing"

func TestParseFeatureType(t *testing.T) {
	cases := []struct {
		in   string
		want FeatureType
	}{
		{"buildings", FeatureBuildings},
		{"Buildings", FeatureBuildings},
		{"  water ", FeatureWater},
		{"trees", FeatureTrees},
		{"vegetation", FeatureTrees},
		{"roads", FeatureRoads},
		{"", FeatureOther},
		{"railways", FeatureOther},
	}
	for _, c := range cases {
		if got := ParseFeatureType(c.in); got != c.want {
			t.Errorf("ParseFeatureType(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFeatureTypeString(t *testing.T) {
	for _, ft := range []FeatureType{FeatureBuildings, FeatureTrees, FeatureWater, FeatureRoads, FeatureOther} {
		if ParseFeatureType(ft.String()) != ft && ft != FeatureOther {
			t.Errorf("String/Parse round trip broken for %v", ft)
		}
	}
}

func TestStrategyFor(t *testing.T) {
	if cfg := StrategyFor(FeatureBuildings); cfg.Kind != thresholdAdaptive || cfg.BlockSize != 15 {
		t.Errorf("buildings strategy = %+v, want adaptive with block size 15", cfg)
	}
	if cfg := StrategyFor(FeatureTrees); cfg.Kind != thresholdChannel || cfg.Channel != channelGreen || cfg.Threshold != 140 {
		t.Errorf("trees strategy = %+v, want green channel at 140", cfg)
	}
	if cfg := StrategyFor(FeatureWater); cfg.Kind != thresholdChannel || cfg.Channel != channelRed || cfg.Sigma != 2.0 {
		t.Errorf("water strategy = %+v, want red channel with sigma 2", cfg)
	}
	if cfg := StrategyFor(FeatureRoads); cfg.Kind != thresholdOtsu {
		t.Errorf("roads strategy = %+v, want otsu", cfg)
	}
	if cfg := StrategyFor(FeatureOther); cfg.Kind != thresholdOtsu {
		t.Errorf("other strategy = %+v, want otsu", cfg)
	}
}
