package effect

import (
	"math/rand"

	"github.com/wudi/photocopy/bitmap"
)

// applyNoise adds zero-mean Gaussian noise to every channel, then scatters
// sparse single-pixel dust specks composited with a screen blend so they
// only brighten.
func applyNoise(img *bitmap.PageImage, rng *rand.Rand, cfg Config) *bitmap.PageImage {
	w, h := img.Width(), img.Height()
	ch := img.Channels()

	if cfg.NoiseSigma > 0 {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				for c := 0; c < ch; c++ {
					v := float64(img.At(x, y, c)) + rng.NormFloat64()*cfg.NoiseSigma
					img.Set(x, y, c, clamp8(v))
				}
			}
		}
	}

	numSpecks := int(cfg.SpeckDensity * float64(w*h))
	for i := 0; i < numSpecks; i++ {
		x := rng.Intn(w)
		y := rng.Intn(h)
		// Screen blend against a full-intensity speck resolves to white.
		img.SetPixel(x, y, 255)
	}
	return img
}

// applyScanlines occasionally multiplies in bursty clusters of closely
// spaced horizontal lines; real scanner artifacts arrive in clusters, not
// as uniform banding.
func applyScanlines(img *bitmap.PageImage, rng *rand.Rand, cfg Config) *bitmap.PageImage {
	if rng.Float64() >= cfg.ScanlineProbability {
		return img
	}
	w, h := img.Width(), img.Height()
	mask := bitmap.NewMask(w, h, 255)

	const lineSpacing = 2
	numClusters := int(0.002 * float64(h))
	for i := 0; i < numClusters; i++ {
		center := rng.Intn(h)
		numLines := 1 + rng.Intn(20)
		for j := 0; j < numLines; j++ {
			y := center + j*lineSpacing
			if y >= 0 && y < h {
				mask.HLine(0, w-1, y, uint8(220+rng.Intn(30)))
			}
		}
	}
	mask.MultiplyInto(img)
	return img
}
