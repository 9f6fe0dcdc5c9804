package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/wudi/photocopy/bitmap"
	"github.com/wudi/photocopy/book"
	"github.com/wudi/photocopy/fonts"
)

// DefaultScale is the upscale factor pages are rasterized at before
// degradation; the degraded result is re-embedded at the original size.
const DefaultScale = 2.0

// Software rasterizes book pages onto a white canvas using faces resolved
// through the font cascade. With a nil cascade it falls back to a built-in
// bitmap face, which keeps previews and tests independent of installed
// fonts. Safe for concurrent use.
type Software struct {
	cascade *fonts.Cascade
	mode    bitmap.ColorMode

	mu    sync.Mutex
	fonts map[string]*sfnt.Font // parsed font data by file path
	faces map[faceKey]font.Face
}

type faceKey struct {
	path string
	size float64
}

// NewSoftware creates a software rasterizer producing images in the given
// color mode.
func NewSoftware(cascade *fonts.Cascade, mode bitmap.ColorMode) *Software {
	return &Software{
		cascade: cascade,
		mode:    mode,
		fonts:   make(map[string]*sfnt.Font),
		faces:   make(map[faceKey]font.Face),
	}
}

// Render draws the page's text ops at the given scale.
func (s *Software) Render(ctx context.Context, page *book.Page, scale float64) (*bitmap.PageImage, error) {
	if page == nil || page.Width <= 0 || page.Height <= 0 {
		return nil, fmt.Errorf("render: page has no area")
	}
	if scale <= 0 {
		scale = DefaultScale
	}
	w := int(math.Ceil(page.Width * scale))
	h := int(math.Ceil(page.Height * scale))

	var dst draw.Image
	if s.mode == bitmap.Mono {
		dst = image.NewGray(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	for _, op := range page.Ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		face, err := s.face(op.Style, op.Size*scale, op.Text)
		if err != nil {
			return nil, fmt.Errorf("render: page %d: %w", page.Number, err)
		}
		d := font.Drawer{
			Dst:  dst,
			Src:  image.Black,
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.Int26_6(math.Round(op.X * scale * 64)),
				Y: fixed.Int26_6(math.Round(op.Y * scale * 64)),
			},
		}
		d.DrawString(op.Text)
	}
	return bitmap.FromImage(dst, s.mode)
}

// face resolves a drawing face through the cascade, caching parsed fonts
// and sized faces.
func (s *Software) face(style fonts.Style, size float64, sample string) (font.Face, error) {
	if s.cascade == nil {
		return basicfont.Face7x13, nil
	}
	resolved, err := s.cascade.Resolve(style, sample)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := faceKey{path: resolved.Path, size: size}
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	parsed, ok := s.fonts[resolved.Path]
	if !ok {
		parsed, err = opentype.Parse(resolved.Data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", resolved.Path, err)
		}
		s.fonts[resolved.Path] = parsed
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("size font %s: %w", resolved.Path, err)
	}
	s.faces[key] = f
	return f, nil
}
