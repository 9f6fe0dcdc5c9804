package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wudi/photocopy/bitmap"
	"github.com/wudi/photocopy/effect"
)

// runConfig mirrors the TOML run configuration file. All fields are
// optional; absent fields keep their defaults, and command-line flags win
// over the file.
type runConfig struct {
	Book   bookConfig   `toml:"book"`
	Effect effectConfig `toml:"effect"`
}

type bookConfig struct {
	Title      string `toml:"title"`
	Author     string `toml:"author"`
	Font       string `toml:"font"`
	BlankCover bool   `toml:"blank_cover"`
}

type effectConfig struct {
	ColorMode           string   `toml:"color_mode"`
	CurlVertical        *float64 `toml:"curl_vertical"`
	CurlHorizontal      *float64 `toml:"curl_horizontal"`
	CurlFrequency       *float64 `toml:"curl_frequency"`
	SmudgeProbability   *float64 `toml:"smudge_probability"`
	ScanlineProbability *float64 `toml:"scanline_probability"`
	NoiseSigma          *float64 `toml:"noise_sigma"`
	SpeckDensity        *float64 `toml:"speck_density"`
	MaxRotationDeg      *float64 `toml:"max_rotation_deg"`
}

func loadRunConfig(path string) (runConfig, error) {
	var cfg runConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// apply merges the file's effect section onto a base configuration.
func (c effectConfig) apply(base effect.Config) (effect.Config, error) {
	if c.ColorMode != "" {
		mode, err := bitmap.ParseColorMode(c.ColorMode)
		if err != nil {
			return base, err
		}
		base.Mode = mode
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&base.CurlVertical, c.CurlVertical)
	set(&base.CurlHorizontal, c.CurlHorizontal)
	set(&base.CurlFrequency, c.CurlFrequency)
	set(&base.SmudgeProbability, c.SmudgeProbability)
	set(&base.ScanlineProbability, c.ScanlineProbability)
	set(&base.NoiseSigma, c.NoiseSigma)
	set(&base.SpeckDensity, c.SpeckDensity)
	set(&base.MaxRotationDeg, c.MaxRotationDeg)
	return base, nil
}
