package effect

import (
	"math"
	"math/rand"

	"github.com/wudi/photocopy/bitmap"
)

// applyShadows composites three multiplicative masks: a vignette around all
// edges, the binding shadow with its stitched-spine texture and deep inner
// layer, and the page-thickness shadow on the opposite edge. Masks only
// darken; the result never exceeds the pre-mask intensity.
func applyShadows(img *bitmap.PageImage, binding BindingSide, rng *rand.Rand) *bitmap.PageImage {
	w, h := img.Width(), img.Height()
	edgeWidth := int(0.02 * float64(minInt(w, h)))
	if edgeWidth < 1 {
		edgeWidth = 1
	}

	vignette(img, edgeWidth)
	bindingShadow(img, binding, edgeWidth, rng)
	thicknessShadow(img, binding, edgeWidth)
	return img
}

// vignette darkens graduated rectangle outlines from the canvas edge inward,
// blurred to avoid banding.
func vignette(img *bitmap.PageImage, edgeWidth int) {
	w, h := img.Width(), img.Height()
	mask := bitmap.NewMask(w, h, 255)
	for i := 0; i < edgeWidth; i++ {
		shade := clamp8(255 * (1 - math.Pow(float64(i)/float64(edgeWidth), 1.5)))
		mask.RectOutline(i, i, w-1-i, h-1-i, shade)
	}
	mask.Blur(float64(edgeWidth) / 2)
	mask.MultiplyInto(img)
}

// bindingShadow builds the gradient band anchored at the binding edge: a
// 255-255*(1-p)^0.7 base curve with sinusoidal vertical modulation, faint
// horizontal texture bands suggesting the stitched spine, and a narrower
// deep-shadow layer composited near the very edge.
func bindingShadow(img *bitmap.PageImage, binding BindingSide, edgeWidth int, rng *rand.Rand) {
	w, h := img.Width(), img.Height()
	bandWidth := 4 * edgeWidth
	if bandWidth > w {
		bandWidth = w
	}

	grad := bitmap.NewMask(bandWidth, h, 255)
	for x := 0; x < bandWidth; x++ {
		progress := float64(x) / float64(bandWidth)
		base := 255 - 255*math.Pow(1-progress, 0.7)
		for y := 0; y < h; y++ {
			yProgress := float64(y) / float64(h)
			// Darker in the middle, lighter at the top and bottom.
			variation := 1 - 0.15*math.Sin(math.Pi*yProgress)
			grad.Set(x, y, clamp8(base*variation))
		}
	}

	// Stitched-spine texture: 30 faint horizontal bands over the inner half.
	const numBands = 30
	bandStep := float64(h) / numBands
	for i := 0; i < numBands; i++ {
		yPos := int(float64(i) * bandStep)
		bandHeight := int(bandStep * 0.8)
		v := uint8(255 - rng.Intn(20))
		grad.FillRect(0, yPos, bandWidth/2, yPos+bandHeight, v)
	}
	grad.Blur(1)

	// Deep shadow layer near the very edge, alpha-composited over the
	// gradient with its own value as the alpha.
	deepWidth := int(float64(bandWidth) * 0.3)
	if deepWidth < 1 {
		deepWidth = 1
	}
	deep := make([]float64, deepWidth)
	for x := 0; x < deepWidth; x++ {
		deep[x] = 255 * math.Sqrt(float64(x)/float64(deepWidth))
	}

	shadow := bitmap.NewMask(w, h, 255)
	for y := 0; y < h; y++ {
		for x := 0; x < bandWidth; x++ {
			v := float64(grad.At(x, y))
			if x < deepWidth {
				a := deep[x] / 255
				v = v*(1-a) + deep[x]*a
			}
			if binding == BindLeft {
				shadow.Set(x, y, clamp8(v))
			} else {
				shadow.Set(w-1-x, y, clamp8(v))
			}
		}
	}
	shadow.MultiplyInto(img)
}

// thicknessShadow draws a subtle gradient on the edge opposite the binding,
// representing the stack of remaining pages.
func thicknessShadow(img *bitmap.PageImage, binding BindingSide, edgeWidth int) {
	w, h := img.Width(), img.Height()
	thicknessWidth := 2 * edgeWidth
	mask := bitmap.NewMask(w, h, 255)
	for x := 0; x < thicknessWidth; x++ {
		v := clamp8(245 + float64(x)/float64(thicknessWidth)*10)
		col := x
		if binding == BindLeft {
			col = w - 1 - x
		}
		mask.VLine(col, 0, h-1, v)
	}
	mask.MultiplyInto(img)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
