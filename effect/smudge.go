package effect

import (
	"math/rand"

	"github.com/wudi/photocopy/bitmap"
)

// smudgeCasts are the process-color tints a color-mode smudge can take.
var smudgeCasts = [][3]uint8{
	{230, 255, 255}, // cyan
	{255, 230, 255}, // magenta
	{255, 255, 230}, // yellow
	{230, 230, 230}, // black-ish
}

// applySmudge occasionally draws one band of near-vertical toner streaks in
// the upper half of the page. It runs before the geometric warp so the
// streaks bend with the page. Most pages pass through unchanged; absence of
// a smudge is an expected outcome, not an error.
func applySmudge(img *bitmap.PageImage, rng *rand.Rand, cfg Config) *bitmap.PageImage {
	if rng.Float64() >= cfg.SmudgeProbability {
		return img
	}
	w, h := img.Width(), img.Height()

	bandY := randRange(rng, h/8, h/2)
	bandHeight := 50 + rng.Intn(20)
	margin := 0.05 * float64(w)
	printable := float64(w) - 2*margin
	numLines := int(printable * 0.8)
	if numLines <= 0 {
		return img
	}

	layer, _ := bitmap.New(w, h, img.Mode(), 255)

	if img.Mode() == bitmap.Mono {
		base := float64(215 + rng.Intn(10))
		for i := 0; i < numLines; i++ {
			x := margin + float64(i)*printable/float64(numLines) + (rng.Float64()*2 - 1)
			lineHeight := bandHeight + rng.Intn(10) - 5
			fadeHeight := float64(lineHeight) * 0.7
			for yo := 0; yo < lineHeight; yo++ {
				v := base
				if float64(yo) < fadeHeight {
					// Fade in from background toward the base intensity.
					v = 255 - (255-base)*float64(yo)/fadeHeight
				}
				v += float64(rng.Intn(6) - 3)
				if v < 220 {
					v = 220
				}
				px, py := int(x), bandY+yo
				if px >= 0 && px < w && py < h {
					layer.SetPixel(px, py, clamp8(v))
				}
			}
		}
		layer.Blur(0.5)
		img.MultiplyInto(layer)
		return img
	}

	cast := smudgeCasts[rng.Intn(len(smudgeCasts))]
	for i := 0; i < numLines; i++ {
		x := margin + float64(i)*printable/float64(numLines) + (rng.Float64()*2 - 1)
		lineHeight := bandHeight + rng.Intn(10) - 5
		// Color smudges reach full tint sooner than mono streaks.
		fadeHeight := float64(lineHeight) * 0.2
		for yo := 0; yo < lineHeight; yo++ {
			jitter := float64(rng.Intn(6) - 3)
			px, py := int(x), bandY+yo
			if px < 0 || px >= w || py >= h {
				continue
			}
			for c := 0; c < 3; c++ {
				v := float64(cast[c])
				if float64(yo) < fadeHeight {
					v = 255 - (255-v)*float64(yo)/fadeHeight
				}
				v += jitter
				if v < 220 {
					v = 220
				}
				layer.Set(px, py, c, clamp8(v))
			}
		}
	}
	layer.Blur(0.5)
	img.BlendInto(layer, 0.3)
	return img
}
