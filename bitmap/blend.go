package bitmap

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
)

// MultiplyInto composites layer onto img with the multiply operator:
// out = img * layer / 255. The result never exceeds the original intensity.
// Both images must share mode and dimensions.
func (p *PageImage) MultiplyInto(layer *PageImage) {
	for i, v := range p.pix {
		p.pix[i] = uint8((uint32(v)*uint32(layer.pix[i]) + 127) / 255)
	}
}

// ScreenInto composites layer onto img with the screen operator:
// out = 255 - (255-img)*(255-layer)/255. The result never darkens.
func (p *PageImage) ScreenInto(layer *PageImage) {
	for i, v := range p.pix {
		p.pix[i] = 255 - uint8((uint32(255-v)*uint32(255-layer.pix[i])+127)/255)
	}
}

// BlendInto mixes layer into img: out = img*(1-alpha) + layer*alpha.
func (p *PageImage) BlendInto(layer *PageImage, alpha float64) {
	for i, v := range p.pix {
		p.pix[i] = clampU8(float64(v)*(1-alpha) + float64(layer.pix[i])*alpha)
	}
}

// EncodePNG writes the image as a PNG stream.
func (p *PageImage) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.ToImage())
}

// PNGBytes returns the PNG encoding of the image.
func (p *PageImage) PNGBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePNG reads a PNG stream into a PageImage of the requested mode.
func DecodePNG(r io.Reader, mode ColorMode) (*PageImage, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return FromImage(img, mode)
}

// DecodeImage reads any registered image format into a PageImage.
func DecodeImage(r io.Reader, mode ColorMode) (*PageImage, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img, mode)
}
