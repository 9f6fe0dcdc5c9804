package bitmap

// Mask is a single-channel grid used to attenuate an image multiplicatively:
// 0 fully darkens, 255 leaves the pixel unchanged. Masks never brighten.
type Mask struct {
	width  int
	height int
	pix    []uint8
}

// NewMask creates a mask filled with the given value.
func NewMask(width, height int, fill uint8) *Mask {
	m := &Mask{width: width, height: height, pix: make([]uint8, width*height)}
	if fill != 0 {
		for i := range m.pix {
			m.pix[i] = fill
		}
	}
	return m
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// At returns the value at (x, y); out-of-range coordinates read as 255 so
// they never attenuate.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 255
	}
	return m.pix[y*m.width+x]
}

// Set stores v at (x, y). Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, v uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.pix[y*m.width+x] = v
}

// HLine draws a horizontal line over [x0, x1] at row y.
func (m *Mask) HLine(x0, x1, y int, v uint8) {
	for x := x0; x <= x1; x++ {
		m.Set(x, y, v)
	}
}

// VLine draws a vertical line over [y0, y1] at column x.
func (m *Mask) VLine(x, y0, y1 int, v uint8) {
	for y := y0; y <= y1; y++ {
		m.Set(x, y, v)
	}
}

// RectOutline draws the one-pixel outline of the rectangle with corners
// (x0, y0) and (x1, y1), inclusive.
func (m *Mask) RectOutline(x0, y0, x1, y1 int, v uint8) {
	m.HLine(x0, x1, y0, v)
	m.HLine(x0, x1, y1, v)
	m.VLine(x0, y0, y1, v)
	m.VLine(x1, y0, y1, v)
}

// FillRect fills the rectangle with corners (x0, y0) and (x1, y1), inclusive.
func (m *Mask) FillRect(x0, y0, x1, y1 int, v uint8) {
	for y := y0; y <= y1; y++ {
		m.HLine(x0, x1, y, v)
	}
}

// RoundCorner flattens a corner to zero along a circular arc: every pixel in
// the radius-sized square between the arc center (cx, cy) and the corner
// whose distance from the center exceeds radius is zeroed, so the corner tip
// itself always flattens. sx and sy give the direction of the corner: -1
// left/top, +1 right/bottom. Used for the worn corner rounding on the
// binding edge.
func (m *Mask) RoundCorner(cx, cy, radius float64, sx, sy int) {
	r2 := radius * radius
	x0, x1 := int(cx-radius), int(cx+radius)
	y0, y1 := int(cy-radius), int(cy+radius)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if float64(sx)*dx < 0 || float64(sy)*dy < 0 {
				continue
			}
			if dx*dx+dy*dy > r2 {
				m.Set(x, y, 0)
			}
		}
	}
}

// FlipHorizontal returns the mask mirrored around its vertical axis.
func (m *Mask) FlipHorizontal() *Mask {
	out := NewMask(m.width, m.height, 0)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			out.pix[y*m.width+(m.width-1-x)] = m.pix[y*m.width+x]
		}
	}
	return out
}

// MultiplyInto darkens img in place: every channel is scaled by mask/255.
// The mask must have the same dimensions as the image.
func (m *Mask) MultiplyInto(img *PageImage) {
	ch := img.Channels()
	for y := 0; y < m.height && y < img.height; y++ {
		for x := 0; x < m.width && x < img.width; x++ {
			mv := uint32(m.pix[y*m.width+x])
			if mv == 255 {
				continue
			}
			off := (y*img.width + x) * ch
			for c := 0; c < ch; c++ {
				img.pix[off+c] = uint8((uint32(img.pix[off+c])*mv + 127) / 255)
			}
		}
	}
}

// Blur applies a Gaussian blur to the mask in place.
func (m *Mask) Blur(radius float64) {
	if radius <= 0 {
		return
	}
	kernel := gaussianKernel(radius)
	blurPlane(m.pix, m.width, m.height, 1, 0, kernel)
}
