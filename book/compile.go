package book

import (
	"fmt"

	"github.com/wudi/photocopy/fonts"
)

// Format identifies a chapter source format.
type Format int

const (
	Markdown Format = iota
	HTML
	PlainText
)

// Chapter is one input chapter in reading order.
type Chapter struct {
	Index  int
	Title  string
	Source string
	Format Format
}

// Compiler assembles a complete book: cover, table of contents, chapters.
type Compiler struct {
	Title      string
	Author     string
	BlankCover bool
	// TestPages limits the body to the first n pages when positive, for
	// quick previews.
	TestPages  int
	EngineOpts []Option
}

// Compile lays out the chapters and assembles front matter and body into a
// document. Body pages carry arabic folios restarting at 1; front matter is
// numbered in roman numerals with the cover counted but unlabeled.
func (c *Compiler) Compile(chapters []Chapter) (*Document, error) {
	if len(chapters) == 0 {
		return nil, fmt.Errorf("book: no chapters to compile")
	}

	eng := NewEngine(append([]Option{WithTitle(c.Title)}, c.EngineOpts...)...)
	for _, ch := range chapters {
		eng.StartChapter(ch.Title)
		var err error
		switch ch.Format {
		case HTML:
			err = eng.AddHTML(ch.Source)
		default:
			// Plain text is valid markdown; both go through goldmark.
			err = eng.AddMarkdown(ch.Source)
		}
		if err != nil {
			return nil, fmt.Errorf("book: chapter %d (%s): %w", ch.Index, ch.Title, err)
		}
	}

	body := eng.Pages()
	if c.TestPages > 0 && len(body) > c.TestPages {
		body = body[:c.TestPages]
	}

	front := c.frontMatter(eng)
	doc := &Document{Title: c.Title, TOC: eng.TOC()}
	doc.Pages = append(doc.Pages, front...)
	doc.Pages = append(doc.Pages, body...)
	for i, p := range doc.Pages {
		p.Number = i + 1
	}
	return doc, nil
}

// frontMatter builds the cover and TOC pages.
func (c *Compiler) frontMatter(eng *Engine) []*Page {
	width, height := eng.pageWidth, eng.pageHeight
	var pages []*Page

	cover := &Page{Width: width, Height: height}
	if !c.BlankCover {
		centered := func(text string, y, size float64, style fonts.Style) {
			x := (width - estimateWidth(text, size)) / 2
			if x < eng.Margins.Left {
				x = eng.Margins.Left
			}
			cover.Ops = append(cover.Ops, TextOp{Text: text, X: x, Y: y, Size: size, Style: style})
		}
		centered(c.Title, height/3, 24, fonts.Bold)
		if c.Author != "" {
			centered(c.Author, height/3+48, 14, fonts.Regular)
		}
	}
	pages = append(pages, cover)

	pages = append(pages, c.tocPages(eng)...)

	// Roman folios; the cover counts as i but stays unlabeled.
	for i, p := range pages {
		if i > 0 {
			p.Label = romanNumeral(i + 1)
		}
	}
	return pages
}

// tocPages lays the collected entries out as one or more contents pages,
// with the book-title header the other front-matter pages carry.
func (c *Compiler) tocPages(eng *Engine) []*Page {
	width, height := eng.pageWidth, eng.pageHeight
	size := eng.DefaultFontSize
	lineHeight := size * eng.LineHeight

	newPage := func() *Page {
		p := &Page{Width: width, Height: height}
		if c.Title != "" {
			x := (width - estimateWidth(c.Title, 10)) / 2
			p.Ops = append(p.Ops, TextOp{Text: c.Title, X: x, Y: eng.Margins.Top/2 + 10, Size: 10, Style: fonts.Italic})
		}
		return p
	}

	page := newPage()
	pages := []*Page{page}
	y := eng.Margins.Top + 40
	page.Ops = append(page.Ops, TextOp{Text: "Contents", X: eng.Margins.Left, Y: y, Size: size * 1.4, Style: fonts.Bold})
	y += lineHeight * 2

	for _, entry := range eng.TOC() {
		if y > height-eng.Margins.Bottom {
			page = newPage()
			pages = append(pages, page)
			y = eng.Margins.Top + 40
		}
		page.Ops = append(page.Ops, TextOp{Text: entry.Title, X: eng.Margins.Left, Y: y, Size: size, Style: fonts.Regular})
		num := arabic(entry.Page)
		page.Ops = append(page.Ops, TextOp{
			Text: num, X: width - eng.Margins.Right - estimateWidth(num, size), Y: y, Size: size, Style: fonts.Regular,
		})
		y += lineHeight
	}
	return pages
}
