// Package book compiles prose chapters into a paginated document model:
// cover, table of contents, chapters with headers and footers. The output is
// a list of recorded text operations per page; rasterization is left to the
// render package, and nothing here touches PDF structure.
package book

import (
	"strings"

	"github.com/wudi/photocopy/fonts"
)

// TextOp is one positioned text run. Coordinates are in points with the
// origin at the top-left of the page; Y is the baseline.
type TextOp struct {
	Text  string
	X, Y  float64
	Size  float64
	Style fonts.Style
}

// Page is one laid-out page.
type Page struct {
	// Number is the 1-based position within the assembled document.
	Number int
	// Label is the printed folio: arabic for body pages, roman numerals for
	// front matter, empty for the cover.
	Label  string
	Width  float64
	Height float64
	Ops    []TextOp
}

// TOCEntry records where a chapter starts, in body page numbers.
type TOCEntry struct {
	Title string
	Page  int
}

// Document is an assembled book: front matter followed by body pages.
type Document struct {
	Title string
	Pages []*Page
	TOC   []TOCEntry
}

// BuildState is the mutable layout state threaded through chapter
// compilation: which chapter is active, where it started, and the TOC
// accumulated so far.
type BuildState struct {
	ChapterTitle     string
	ChapterStartPage int
	TOC              []TOCEntry
}

// romanNumeral renders n (1-3999) as a lowercase roman numeral, as used for
// front-matter folios.
func romanNumeral(n int) string {
	if n <= 0 {
		return ""
	}
	values := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	symbols := []string{"m", "cm", "d", "cd", "c", "xc", "l", "xl", "x", "ix", "v", "iv", "i"}
	var sb strings.Builder
	for i, v := range values {
		for n >= v {
			sb.WriteString(symbols[i])
			n -= v
		}
	}
	return sb.String()
}
