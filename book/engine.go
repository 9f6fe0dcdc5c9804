package book

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wudi/photocopy/fonts"
)

// A4 page dimensions in points.
const (
	a4Width  = 595.0
	a4Height = 842.0
)

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Engine lays out chapter content into body pages, recording text ops and
// collecting TOC entries. It owns its output pages by composition; it is not
// an extension of any document type.
type Engine struct {
	Title           string
	DefaultFontSize float64
	LineHeight      float64 // multiplier
	HeaderSpacing   float64
	Margins         Margins

	pageWidth  float64
	pageHeight float64

	state   BuildState
	pages   []*Page
	current *Page
	cursorY float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithTitle sets the book title shown in front-matter headers.
func WithTitle(title string) Option {
	return func(e *Engine) { e.Title = title }
}

// WithMargins sets the page margins.
func WithMargins(m Margins) Option {
	return func(e *Engine) { e.Margins = m }
}

// WithPageSize sets the page dimensions in points.
func WithPageSize(width, height float64) Option {
	return func(e *Engine) {
		e.pageWidth = width
		e.pageHeight = height
	}
}

// WithFontSize sets the default body font size.
func WithFontSize(size float64) Option {
	return func(e *Engine) { e.DefaultFontSize = size }
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(h float64) Option {
	return func(e *Engine) { e.LineHeight = h }
}

// NewEngine creates a layout engine with book-like defaults: A4, wide
// margins, 12pt body text.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		DefaultFontSize: 12,
		LineHeight:      1.5,
		HeaderSpacing:   10,
		Margins:         Margins{Top: 70, Bottom: 70, Left: 85, Right: 85},
		pageWidth:       a4Width,
		pageHeight:      a4Height,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pages returns the body pages laid out so far.
func (e *Engine) Pages() []*Page { return e.pages }

// TOC returns the accumulated chapter entries.
func (e *Engine) TOC() []TOCEntry { return e.state.TOC }

// newPage starts a body page, emits its header and footer, and resets the
// cursor below the header area.
func (e *Engine) newPage() {
	page := &Page{Width: e.pageWidth, Height: e.pageHeight}
	e.pages = append(e.pages, page)
	e.current = page
	pageNo := len(e.pages)

	// Header: the chapter title on continuation pages, suppressed on the
	// first page of each chapter.
	if e.state.ChapterTitle != "" && pageNo > e.state.ChapterStartPage {
		e.drawCentered(e.state.ChapterTitle, e.Margins.Top/2+10, 10, fonts.Italic)
	}
	// Footer: arabic body folio, centered.
	page.Label = arabic(pageNo)
	e.drawCentered(page.Label, e.pageHeight-e.Margins.Bottom/2, 10, fonts.Regular)

	e.cursorY = e.Margins.Top + e.HeaderSpacing
}

// ensurePage makes sure there is a current page.
func (e *Engine) ensurePage() {
	if e.current == nil {
		e.newPage()
	}
}

// checkPageBreak starts a new page if fewer than height points remain.
func (e *Engine) checkPageBreak(height float64) {
	if e.current == nil {
		e.newPage()
		return
	}
	if e.cursorY+height > e.pageHeight-e.Margins.Bottom {
		e.newPage()
	}
}

// drawCentered emits one centered text op at baseline y.
func (e *Engine) drawCentered(text string, y, size float64, style fonts.Style) {
	x := (e.pageWidth - estimateWidth(text, size)) / 2
	if x < e.Margins.Left {
		x = e.Margins.Left
	}
	e.current.Ops = append(e.current.Ops, TextOp{Text: text, X: x, Y: y, Size: size, Style: style})
}

// StartChapter opens a new chapter: a fresh page, a TOC entry, and the
// chapter heading.
func (e *Engine) StartChapter(title string) {
	e.state.ChapterTitle = title
	// The start page is recorded before the page is created so the opener
	// itself never carries the continuation header.
	e.state.ChapterStartPage = len(e.pages) + 1
	e.newPage()
	e.state.TOC = append(e.state.TOC, TOCEntry{Title: title, Page: len(e.pages)})

	headingSize := e.DefaultFontSize * 1.6
	e.cursorY += headingSize * 2
	e.drawCentered(title, e.cursorY, headingSize, fonts.Bold)
	e.cursorY += headingSize * 2
}

// span is a styled run within a paragraph.
type span struct {
	text  string
	style fonts.Style
}

// renderHeading emits an intermediate heading inside a chapter.
func (e *Engine) renderHeading(text string, level int) {
	size := e.DefaultFontSize * 1.4
	if level == 2 {
		size = e.DefaultFontSize * 1.2
	} else if level >= 3 {
		size = e.DefaultFontSize * 1.1
	}
	e.ensurePage()
	lineHeight := size * e.LineHeight
	e.checkPageBreak(lineHeight * 2)
	e.cursorY += lineHeight
	e.current.Ops = append(e.current.Ops, TextOp{
		Text: text, X: e.Margins.Left, Y: e.cursorY, Size: size, Style: fonts.Bold,
	})
	e.cursorY += lineHeight
}

// renderSpans wraps styled runs word by word within the printable width.
// Widths are estimated from character counts; the rasterizer tolerates the
// slack since pages are re-measured only visually.
func (e *Engine) renderSpans(spans []span) {
	e.ensurePage()
	size := e.DefaultFontSize
	lineHeight := size * e.LineHeight
	maxX := e.pageWidth - e.Margins.Right

	x := e.Margins.Left
	e.checkPageBreak(lineHeight)
	e.cursorY += lineHeight

	flushWord := func(word string, style fonts.Style) {
		w := estimateWidth(word, size)
		if x+w > maxX && x > e.Margins.Left {
			e.checkPageBreak(lineHeight)
			e.cursorY += lineHeight
			x = e.Margins.Left
		}
		e.current.Ops = append(e.current.Ops, TextOp{
			Text: word, X: x, Y: e.cursorY, Size: size, Style: style,
		})
		x += w + estimateWidth(" ", size)
	}

	for _, sp := range spans {
		for _, word := range strings.Fields(sp.text) {
			flushWord(word, sp.style)
		}
	}
	e.cursorY += lineHeight * 0.4 // paragraph spacing
}

// estimateWidth approximates a run's width assuming an average character
// width of half an em.
func estimateWidth(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.5
}

func arabic(n int) string {
	return strconv.Itoa(n)
}
