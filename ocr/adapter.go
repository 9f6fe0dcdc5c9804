package ocr

import (
	"fmt"

	"github.com/wudi/photocopy/bitmap"
	"github.com/wudi/photocopy/book"
)

// InputOption mutates an OCR input generated from a rendered page.
type InputOption func(*Input)

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithDPI overrides the DPI value on the OCR input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// InputFromPage converts a rendered page bitmap into an OCR input using PNG
// encoding. The generated ID is stable for the page number to simplify
// correlation with downstream results.
func InputFromPage(page *book.Page, img *bitmap.PageImage, opts ...InputOption) (Input, error) {
	if page == nil || img == nil {
		return Input{}, fmt.Errorf("ocr: nil page or image")
	}
	data, err := img.PNGBytes()
	if err != nil {
		return Input{}, fmt.Errorf("ocr: encode page %d: %w", page.Number, err)
	}
	in := Input{
		ID:     fmt.Sprintf("page-%04d", page.Number),
		Image:  data,
		Format: ImageFormatPNG,
		Page:   page.Number,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}
