package bitmap

import "math"

// gaussianKernel builds a normalized 1D kernel with sigma = radius, truncated
// at three standard deviations.
func gaussianKernel(radius float64) []float64 {
	extent := int(math.Ceil(radius * 3))
	if extent < 1 {
		extent = 1
	}
	kernel := make([]float64, 2*extent+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - extent)
		kernel[i] = math.Exp(-d * d / (2 * radius * radius))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// blurPlane convolves one channel of an interleaved plane with the kernel,
// horizontally then vertically, reflecting at the edges.
func blurPlane(pix []uint8, width, height, stride, offset int, kernel []float64) {
	extent := len(kernel) / 2
	tmp := make([]float64, width*height)

	// Horizontal pass.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var acc float64
			for k, w := range kernel {
				sx := reflectIndex(x+k-extent, width)
				acc += w * float64(pix[(y*width+sx)*stride+offset])
			}
			tmp[y*width+x] = acc
		}
	}
	// Vertical pass.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var acc float64
			for k, w := range kernel {
				sy := reflectIndex(y+k-extent, height)
				acc += w * tmp[sy*width+x]
			}
			pix[(y*width+x)*stride+offset] = clampU8(acc)
		}
	}
}

// Blur applies a Gaussian blur with sigma = radius to every channel in place.
func (p *PageImage) Blur(radius float64) {
	if radius <= 0 {
		return
	}
	kernel := gaussianKernel(radius)
	ch := p.mode.Channels()
	for c := 0; c < ch; c++ {
		blurPlane(p.pix, p.width, p.height, ch, c, kernel)
	}
}
