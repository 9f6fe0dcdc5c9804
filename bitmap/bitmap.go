// Package bitmap provides the pixel-grid primitives shared by the
// degradation stages: page images in mono or color mode, single-channel
// masks, resampling, blurring, and the multiply/screen/blend compositing
// operators. All operations preserve image dimensions and clamp results to
// the 8-bit range.
package bitmap

import (
	"fmt"
	"image"
	"image/color"
)

// ColorMode selects the channel layout of a PageImage.
type ColorMode int

const (
	// Mono is a single intensity channel, 0-255.
	Mono ColorMode = iota
	// Color is three channels (RGB), 0-255 each.
	Color
)

func (m ColorMode) String() string {
	switch m {
	case Mono:
		return "mono"
	case Color:
		return "color"
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

// ParseColorMode maps the configuration strings "mono" and "color".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "mono", "":
		return Mono, nil
	case "color":
		return Color, nil
	}
	return Mono, fmt.Errorf("unsupported color mode %q", s)
}

// Channels returns the number of bytes per pixel for the mode.
func (m ColorMode) Channels() int {
	if m == Color {
		return 3
	}
	return 1
}

// PageImage is a rectangular pixel grid with packed rows. A Mono image
// stores one byte per pixel, a Color image three (RGB). A PageImage is
// created for one page, flows through the stages exactly once, and is
// discarded after serialization.
type PageImage struct {
	width  int
	height int
	mode   ColorMode
	pix    []uint8
}

// New creates a PageImage filled with the given intensity (applied to every
// channel). Zero or negative dimensions are rejected.
func New(width, height int, mode ColorMode, fill uint8) (*PageImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bitmap: invalid dimensions %dx%d", width, height)
	}
	p := &PageImage{
		width:  width,
		height: height,
		mode:   mode,
		pix:    make([]uint8, width*height*mode.Channels()),
	}
	if fill != 0 {
		for i := range p.pix {
			p.pix[i] = fill
		}
	}
	return p, nil
}

// FromImage converts any image.Image into a PageImage of the requested mode.
func FromImage(src image.Image, mode ColorMode) (*PageImage, error) {
	b := src.Bounds()
	p, err := New(b.Dx(), b.Dy(), mode, 0)
	if err != nil {
		return nil, err
	}
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if mode == Mono {
				// Rec. 601 luma, matching image/color's gray conversion.
				g := (299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B) + 500) / 1000
				p.pix[y*p.width+x] = uint8(g)
			} else {
				off := (y*p.width + x) * 3
				p.pix[off] = c.R
				p.pix[off+1] = c.G
				p.pix[off+2] = c.B
			}
		}
	}
	return p, nil
}

// Width returns the image width in pixels.
func (p *PageImage) Width() int { return p.width }

// Height returns the image height in pixels.
func (p *PageImage) Height() int { return p.height }

// Mode returns the color mode.
func (p *PageImage) Mode() ColorMode { return p.mode }

// Channels returns the number of channels per pixel.
func (p *PageImage) Channels() int { return p.mode.Channels() }

// At returns the value of channel ch at (x, y). Coordinates must be in range.
func (p *PageImage) At(x, y, ch int) uint8 {
	return p.pix[(y*p.width+x)*p.mode.Channels()+ch]
}

// Set stores the value of channel ch at (x, y).
func (p *PageImage) Set(x, y, ch int, v uint8) {
	p.pix[(y*p.width+x)*p.mode.Channels()+ch] = v
}

// SetPixel stores the same value in every channel at (x, y).
func (p *PageImage) SetPixel(x, y int, v uint8) {
	off := (y*p.width + x) * p.mode.Channels()
	for c := 0; c < p.mode.Channels(); c++ {
		p.pix[off+c] = v
	}
}

// Clone returns a deep copy.
func (p *PageImage) Clone() *PageImage {
	out := &PageImage{width: p.width, height: p.height, mode: p.mode, pix: make([]uint8, len(p.pix))}
	copy(out.pix, p.pix)
	return out
}

// Equal reports whether two images have identical mode, dimensions and pixels.
func (p *PageImage) Equal(q *PageImage) bool {
	if p.width != q.width || p.height != q.height || p.mode != q.mode {
		return false
	}
	for i := range p.pix {
		if p.pix[i] != q.pix[i] {
			return false
		}
	}
	return true
}

// Convert returns the image in the requested mode, converting channels if
// needed. Converting to the same mode returns a clone.
func (p *PageImage) Convert(mode ColorMode) *PageImage {
	if mode == p.mode {
		return p.Clone()
	}
	out, _ := New(p.width, p.height, mode, 0)
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			if mode == Mono {
				off := (y*p.width + x) * 3
				g := (299*uint32(p.pix[off]) + 587*uint32(p.pix[off+1]) + 114*uint32(p.pix[off+2]) + 500) / 1000
				out.pix[y*p.width+x] = uint8(g)
			} else {
				v := p.pix[y*p.width+x]
				off := (y*p.width + x) * 3
				out.pix[off], out.pix[off+1], out.pix[off+2] = v, v, v
			}
		}
	}
	return out
}

// ToImage renders the grid as a stdlib image (Gray for Mono, NRGBA for Color).
func (p *PageImage) ToImage() image.Image {
	if p.mode == Mono {
		img := image.NewGray(image.Rect(0, 0, p.width, p.height))
		copy(img.Pix, p.pix)
		return img
	}
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for i := 0; i < p.width*p.height; i++ {
		img.Pix[i*4] = p.pix[i*3]
		img.Pix[i*4+1] = p.pix[i*3+1]
		img.Pix[i*4+2] = p.pix[i*3+2]
		img.Pix[i*4+3] = 255
	}
	return img
}

// Median returns the per-channel median intensity, used as the fill color
// for rotation so introduced corners blend with the page background.
func (p *PageImage) Median() []uint8 {
	ch := p.mode.Channels()
	out := make([]uint8, ch)
	hist := make([]int, 256)
	half := p.width * p.height / 2
	for c := 0; c < ch; c++ {
		for i := range hist {
			hist[i] = 0
		}
		for i := c; i < len(p.pix); i += ch {
			hist[p.pix[i]]++
		}
		sum := 0
		for v := 0; v < 256; v++ {
			sum += hist[v]
			if sum > half {
				out[c] = uint8(v)
				break
			}
		}
	}
	return out
}

// DarkRatio returns the fraction of channel samples strictly below the
// threshold. The brightness normalizer uses it as an ink-coverage proxy.
func (p *PageImage) DarkRatio(threshold uint8) float64 {
	count := 0
	for _, v := range p.pix {
		if v < threshold {
			count++
		}
	}
	return float64(count) / float64(len(p.pix))
}

// Scale multiplies every channel by factor, clamping to [0, 255].
func (p *PageImage) Scale(factor float64) {
	for i, v := range p.pix {
		p.pix[i] = clampU8(float64(v) * factor)
	}
}

func clampU8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
