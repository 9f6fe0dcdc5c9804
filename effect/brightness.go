package effect

import "github.com/wudi/photocopy/bitmap"

// inkThreshold is the intensity below which a sample counts as ink coverage.
const inkThreshold = 128

// brightnessFactor mimics a photocopier's auto-exposure: text-dense pages
// are darkened slightly, sparse pages lightened slightly.
func brightnessFactor(img *bitmap.PageImage) float64 {
	textRatio := img.DarkRatio(inkThreshold)
	return 1.0 - 0.03*(textRatio-0.5)
}

// applyBrightness is the final visual adjustment before output.
func applyBrightness(img *bitmap.PageImage) *bitmap.PageImage {
	img.Scale(brightnessFactor(img))
	return img
}
