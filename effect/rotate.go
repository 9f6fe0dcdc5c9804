package effect

import (
	"math"
	"math/rand"

	"github.com/wudi/photocopy/bitmap"
)

// applyRotateCrop applies a small random rotation with canvas expansion and
// a fill color equal to the image's per-channel median, so the corners
// introduced by rotation blend with the page background. The result is then
// center-cropped back to the dimensions captured at pipeline entry, so every
// output page keeps identical dimensions regardless of warp or rotation.
func applyRotateCrop(img *bitmap.PageImage, rng *rand.Rand, cfg Config, origWidth, origHeight int) *bitmap.PageImage {
	angle := (rng.Float64()*2 - 1) * cfg.MaxRotationDeg
	fill := img.Median()

	w, h := img.Width(), img.Height()
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	absSin, absCos := math.Abs(sin), math.Abs(cos)

	expWidth := int(math.Ceil(float64(w)*absCos + float64(h)*absSin))
	expHeight := int(math.Ceil(float64(w)*absSin + float64(h)*absCos))

	expanded, _ := bitmap.New(expWidth, expHeight, img.Mode(), 0)
	ch := img.Channels()
	cxExp, cyExp := float64(expWidth)/2, float64(expHeight)/2
	cxSrc, cySrc := float64(w)/2, float64(h)/2

	for y := 0; y < expHeight; y++ {
		for x := 0; x < expWidth; x++ {
			// Inverse-rotate the destination pixel center into source space.
			px := float64(x) + 0.5 - cxExp
			py := float64(y) + 0.5 - cyExp
			sx := cos*px + sin*py + cxSrc - 0.5
			sy := -sin*px + cos*py + cySrc - 0.5
			for c := 0; c < ch; c++ {
				expanded.Set(x, y, c, clamp8(img.SampleBilinear(sx, sy, c, fill[c])))
			}
		}
	}

	left := (expWidth - origWidth) / 2
	top := (expHeight - origHeight) / 2
	out, _ := bitmap.New(origWidth, origHeight, img.Mode(), 0)
	for y := 0; y < origHeight; y++ {
		for x := 0; x < origWidth; x++ {
			sx, sy := left+x, top+y
			for c := 0; c < ch; c++ {
				if sx >= 0 && sx < expWidth && sy >= 0 && sy < expHeight {
					out.Set(x, y, c, expanded.At(sx, sy, c))
				} else {
					out.Set(x, y, c, fill[c])
				}
			}
		}
	}
	return out
}
