// Package render defines the page-rasterization boundary of the system: the
// degradation pipeline consumes bitmaps and hands back bitmaps, and these
// interfaces are the only contract it has with whatever produces and stores
// the pages. A PDF-backed implementation can satisfy them externally; the
// Software renderer here rasterizes the book package's document model.
package render

import (
	"context"

	"github.com/wudi/photocopy/bitmap"
	"github.com/wudi/photocopy/book"
)

// Rasterizer turns one laid-out page into a bitmap at the given upscale
// factor. Implementations must be safe for concurrent use; the pipeline
// renders pages in parallel.
type Rasterizer interface {
	Render(ctx context.Context, page *book.Page, scale float64) (*bitmap.PageImage, error)
}

// Replacer stores the finished bitmap for a page, replacing any prior
// content for that page. Implementations are expected to strip previous
// page content, otherwise visual duplication occurs. Must be safe for
// concurrent use.
type Replacer interface {
	ReplacePageImage(ctx context.Context, pageIndex int, png []byte) error
}
