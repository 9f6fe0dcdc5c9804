package effect

import (
	"math"

	"github.com/wudi/photocopy/bitmap"
)

// applyCurl warps the page through a displacement field that models an open
// book's curvature: the curl is strongest at the binding edge and decays
// exponentially away from it, with a low-amplitude ripple along the vertical
// axis for texture. Corner rounding follows on the two binding-side corners.
func applyCurl(img *bitmap.PageImage, binding BindingSide, cfg Config) *bitmap.PageImage {
	w, h := img.Width(), img.Height()
	maxVertical := cfg.CurlVertical * float64(h)
	maxHorizontal := cfg.CurlHorizontal * float64(w)
	waveAmplitude := 0.003 * float64(h)
	const waveFrequency = 4

	dx := make([]float64, w*h)
	dy := make([]float64, w*h)
	xDen := float64(maxInt(w-1, 1))
	yDen := float64(maxInt(h-1, 1))

	for y := 0; y < h; y++ {
		yn := float64(y) / yDen
		wave := waveAmplitude * math.Sin(2*math.Pi*yn*waveFrequency)
		taper := 1 - 0.3*yn
		for x := 0; x < w; x++ {
			xn := float64(x) / xDen
			distance := xn
			if binding == BindRight {
				distance = 1 - xn
			}
			edge := math.Exp(-3 * distance)

			vertical := maxVertical*math.Sin(math.Pi*distance*cfg.CurlFrequency)*taper*edge + wave*edge
			horizontal := maxHorizontal * (1 - math.Cos(math.Pi*distance*cfg.CurlFrequency)) * edge
			if binding == BindRight {
				horizontal = -horizontal
			}

			i := y*w + x
			dx[i] = horizontal
			dy[i] = vertical
		}
	}

	out := img.WarpBicubic(dx, dy)
	roundCorners(out, binding)
	return out
}

// roundCorners rounds the top and bottom corners adjacent to the binding
// edge with an arc of radius 0.03*width, flattening the cut-off corner tips
// against the black background to simulate worn book corners. The right-side
// mask is the exact horizontal mirror of the left-side mask.
func roundCorners(img *bitmap.PageImage, binding BindingSide) {
	w, h := img.Width(), img.Height()
	radius := 0.03 * float64(w)
	if radius < 1 {
		return
	}
	mask := bitmap.NewMask(w, h, 255)
	mask.RoundCorner(radius, radius, radius, -1, -1)
	mask.RoundCorner(radius, float64(h-1)-radius, radius, -1, 1)
	if binding == BindRight {
		mask = mask.FlipHorizontal()
	}
	mask.MultiplyInto(img)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
