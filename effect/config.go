package effect

import (
	"fmt"

	"github.com/wudi/photocopy/bitmap"
)

// Config carries the immutable per-run parameters of the degradation
// pipeline. The zero value is not usable; start from DefaultConfig.
type Config struct {
	// Mode selects mono or color output. Selected once per run and
	// propagated through every stage.
	Mode bitmap.ColorMode

	// CurlVertical is the maximum vertical curl displacement as a fraction
	// of page height.
	CurlVertical float64
	// CurlHorizontal is the maximum horizontal bend displacement as a
	// fraction of page width.
	CurlHorizontal float64
	// CurlFrequency controls how rapidly the curl oscillates across the page.
	CurlFrequency float64

	// SmudgeProbability is the per-page chance of one toner smudge band.
	SmudgeProbability float64
	// ScanlineProbability is the per-page chance of scanline clusters.
	ScanlineProbability float64

	// NoiseSigma is the standard deviation of the additive Gaussian noise.
	NoiseSigma float64
	// SpeckDensity scales the dust speck count: count = density * w * h.
	SpeckDensity float64

	// MaxRotationDeg bounds the random page misalignment, in degrees.
	MaxRotationDeg float64

	// Skip bypasses the pipeline entirely; the input is returned unchanged.
	Skip bool
}

// DefaultConfig returns the canonical parameters of the elaborate pipeline
// variant.
func DefaultConfig() Config {
	return Config{
		Mode:                bitmap.Mono,
		CurlVertical:        0.015,
		CurlHorizontal:      0.008,
		CurlFrequency:       1.2,
		SmudgeProbability:   0.1,
		ScanlineProbability: 0.2,
		NoiseSigma:          5,
		SpeckDensity:        0.0003,
		MaxRotationDeg:      0.5,
	}
}

func (c Config) validate() error {
	if c.Mode != bitmap.Mono && c.Mode != bitmap.Color {
		return fmt.Errorf("unsupported color mode %v", c.Mode)
	}
	if c.SmudgeProbability < 0 || c.SmudgeProbability > 1 {
		return fmt.Errorf("smudge probability %v out of [0,1]", c.SmudgeProbability)
	}
	if c.ScanlineProbability < 0 || c.ScanlineProbability > 1 {
		return fmt.Errorf("scanline probability %v out of [0,1]", c.ScanlineProbability)
	}
	if c.NoiseSigma < 0 {
		return fmt.Errorf("negative noise sigma %v", c.NoiseSigma)
	}
	return nil
}

// BindingSide is the page edge nearest the book spine. It is derived from
// page parity and never stored beyond one page's processing.
type BindingSide int

const (
	// BindLeft binds odd pages, as in a duplex-printed book.
	BindLeft BindingSide = iota
	// BindRight binds even pages.
	BindRight
)

func (b BindingSide) String() string {
	if b == BindRight {
		return "right"
	}
	return "left"
}

// BindingFor derives the binding side from a 1-based page number.
func BindingFor(pageNumber int) BindingSide {
	if pageNumber%2 == 1 {
		return BindLeft
	}
	return BindRight
}
