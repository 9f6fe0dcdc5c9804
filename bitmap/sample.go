package bitmap

import "math"

// reflectIndex resolves an out-of-range coordinate by mirroring it back into
// [0, n), repeating the edge sample (symmetric reflection). Wraparound is
// never used: at the binding edge it would pull pixels from the opposite
// side of the page.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// cubicWeight is the Catmull-Rom kernel used for order-3 resampling.
func cubicWeight(t float64) float64 {
	if t < 0 {
		t = -t
	}
	switch {
	case t <= 1:
		return (1.5*t-2.5)*t*t + 1
	case t < 2:
		return ((-0.5*t+2.5)*t-4)*t + 2
	}
	return 0
}

// SampleBicubic samples channel ch at the fractional source coordinate
// (sx, sy) using bicubic interpolation with edge reflection.
func (p *PageImage) SampleBicubic(sx, sy float64, ch int) float64 {
	ix := int(math.Floor(sx))
	iy := int(math.Floor(sy))
	fx := sx - float64(ix)
	fy := sy - float64(iy)

	var wx, wy [4]float64
	for k := 0; k < 4; k++ {
		wx[k] = cubicWeight(float64(k-1) - fx)
		wy[k] = cubicWeight(float64(k-1) - fy)
	}

	nch := p.mode.Channels()
	var sum float64
	for j := 0; j < 4; j++ {
		ry := reflectIndex(iy+j-1, p.height)
		row := ry * p.width
		var rowSum float64
		for i := 0; i < 4; i++ {
			rx := reflectIndex(ix+i-1, p.width)
			rowSum += wx[i] * float64(p.pix[(row+rx)*nch+ch])
		}
		sum += wy[j] * rowSum
	}
	return sum
}

// WarpBicubic resamples the image through a displacement field: output pixel
// (x, y) is taken from the source at (x + dx[i], y + dy[i]) where
// i = y*width + x. This is the single most expensive operation in the
// pipeline. The field must be finite and match the image dimensions.
func (p *PageImage) WarpBicubic(dx, dy []float64) *PageImage {
	out, _ := New(p.width, p.height, p.mode, 0)
	nch := p.mode.Channels()
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			i := y*p.width + x
			sx := float64(x) + dx[i]
			sy := float64(y) + dy[i]
			for c := 0; c < nch; c++ {
				out.pix[i*nch+c] = clampU8(p.SampleBicubic(sx, sy, c))
			}
		}
	}
	return out
}

// SampleBilinear samples channel ch at (sx, sy) with bilinear interpolation.
// Coordinates outside the canvas return the provided fill value; it is used
// by the rotation stage where out-of-canvas means page background.
func (p *PageImage) SampleBilinear(sx, sy float64, ch int, fill uint8) float64 {
	ix := int(math.Floor(sx))
	iy := int(math.Floor(sy))
	fx := sx - float64(ix)
	fy := sy - float64(iy)

	get := func(x, y int) float64 {
		if x < 0 || x >= p.width || y < 0 || y >= p.height {
			return float64(fill)
		}
		return float64(p.pix[(y*p.width+x)*p.mode.Channels()+ch])
	}
	top := get(ix, iy)*(1-fx) + get(ix+1, iy)*fx
	bot := get(ix, iy+1)*(1-fx) + get(ix+1, iy+1)*fx
	return top*(1-fy) + bot*fy
}

