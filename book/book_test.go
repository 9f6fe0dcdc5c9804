package book

import (
	"math"
	"strings"
	"testing"

	"github.com/wudi/photocopy/fonts"
)

func TestRomanNumeral(t *testing.T) {
	for _, tc := range []struct {
		n    int
		want string
	}{
		{1, "i"}, {2, "ii"}, {4, "iv"}, {9, "ix"}, {14, "xiv"}, {40, "xl"}, {1994, "mcmxciv"}, {0, ""},
	} {
		if got := romanNumeral(tc.n); got != tc.want {
			t.Fatalf("romanNumeral(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func pageText(p *Page) string {
	var parts []string
	for _, op := range p.Ops {
		parts = append(parts, op.Text)
	}
	return strings.Join(parts, " ")
}

func TestStartChapterRecordsTOC(t *testing.T) {
	e := NewEngine()
	e.StartChapter("The Cave")
	if err := e.AddMarkdown("Some body text."); err != nil {
		t.Fatalf("AddMarkdown: %v", err)
	}
	e.StartChapter("The Return")

	toc := e.TOC()
	if len(toc) != 2 {
		t.Fatalf("TOC entries = %d, want 2", len(toc))
	}
	if toc[0].Title != "The Cave" || toc[0].Page != 1 {
		t.Fatalf("first entry: %+v", toc[0])
	}
	if toc[1].Page != 2 {
		t.Fatalf("second chapter page = %d, want 2", toc[1].Page)
	}
}

func TestChapterHeadingAndFooter(t *testing.T) {
	e := NewEngine()
	e.StartChapter("Beginnings")

	pages := e.Pages()
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
	p := pages[0]
	if p.Label != "1" {
		t.Fatalf("label = %q, want 1", p.Label)
	}

	var heading *TextOp
	for i := range p.Ops {
		if p.Ops[i].Text == "Beginnings" {
			heading = &p.Ops[i]
		}
	}
	if heading == nil {
		t.Fatal("chapter heading not rendered")
	}
	if heading.Style != fonts.Bold || math.Abs(heading.Size-19.2) > 1e-9 {
		t.Fatalf("heading style/size: %+v", heading)
	}
}

func TestContinuationHeader(t *testing.T) {
	e := NewEngine()
	e.StartChapter("Long Chapter")
	// Enough paragraphs to spill onto a second page.
	para := strings.Repeat("lorem ipsum dolor sit amet ", 12)
	for i := 0; i < 30; i++ {
		if err := e.AddMarkdown(para); err != nil {
			t.Fatalf("AddMarkdown: %v", err)
		}
	}
	pages := e.Pages()
	if len(pages) < 2 {
		t.Fatalf("expected a page break, got %d page(s)", len(pages))
	}
	if !strings.Contains(pageText(pages[1]), "Long Chapter") {
		t.Fatal("continuation page missing chapter header")
	}
	// The chapter's first page carries no header, just the footer and body.
	first := pages[0]
	count := 0
	for _, op := range first.Ops {
		if op.Text == "Long Chapter" {
			count++
		}
	}
	if count != 1 { // the heading only
		t.Fatalf("chapter title appears %d times on the first page", count)
	}
}

func TestWordWrapStaysInsideMargins(t *testing.T) {
	e := NewEngine()
	e.StartChapter("Wrap")
	if err := e.AddMarkdown(strings.Repeat("antidisestablishment ", 40)); err != nil {
		t.Fatalf("AddMarkdown: %v", err)
	}
	for _, p := range e.Pages() {
		for _, op := range p.Ops {
			if op.X < e.Margins.Left-0.01 {
				t.Fatalf("op %q starts left of the margin: %v", op.Text, op.X)
			}
			if op.X > p.Width-e.Margins.Right+0.01 {
				t.Fatalf("op %q starts right of the printable area: %v", op.Text, op.X)
			}
		}
	}
}

func TestMarkdownStyles(t *testing.T) {
	e := NewEngine()
	e.StartChapter("Styles")
	if err := e.AddMarkdown("plain *soft* **hard** `code`"); err != nil {
		t.Fatalf("AddMarkdown: %v", err)
	}
	styles := make(map[string]fonts.Style)
	for _, op := range e.Pages()[0].Ops {
		styles[op.Text] = op.Style
	}
	if styles["plain"] != fonts.Regular {
		t.Fatalf("plain style = %v", styles["plain"])
	}
	if styles["soft"] != fonts.Italic {
		t.Fatalf("emphasis style = %v", styles["soft"])
	}
	if styles["hard"] != fonts.Bold {
		t.Fatalf("strong style = %v", styles["hard"])
	}
}

func TestMarkdownList(t *testing.T) {
	e := NewEngine()
	e.StartChapter("Lists")
	if err := e.AddMarkdown("- first\n- second\n"); err != nil {
		t.Fatalf("AddMarkdown: %v", err)
	}
	text := pageText(e.Pages()[0])
	if !strings.Contains(text, "•") || !strings.Contains(text, "first") || !strings.Contains(text, "second") {
		t.Fatalf("list not rendered: %q", text)
	}
}

func TestHTMLStyles(t *testing.T) {
	e := NewEngine()
	e.StartChapter("Html")
	if err := e.AddHTML("<p>plain <em>slanted</em> <strong>heavy</strong></p><h2>Section</h2>"); err != nil {
		t.Fatalf("AddHTML: %v", err)
	}
	styles := make(map[string]fonts.Style)
	for _, op := range e.Pages()[0].Ops {
		styles[op.Text] = op.Style
	}
	if styles["slanted"] != fonts.Italic || styles["heavy"] != fonts.Bold {
		t.Fatalf("inline styles: %v", styles)
	}
	if styles["Section"] != fonts.Bold {
		t.Fatalf("heading style = %v", styles["Section"])
	}
}

func TestHTMLSkipsScript(t *testing.T) {
	e := NewEngine()
	e.StartChapter("Safe")
	if err := e.AddHTML("<p>keep</p><script>var dropped = 1;</script>"); err != nil {
		t.Fatalf("AddHTML: %v", err)
	}
	text := pageText(e.Pages()[0])
	if strings.Contains(text, "dropped") {
		t.Fatal("script content leaked into the layout")
	}
	if !strings.Contains(text, "keep") {
		t.Fatal("paragraph content missing")
	}
}

func TestCompileAssemblesFrontMatter(t *testing.T) {
	c := Compiler{Title: "Old Tales", Author: "A. Writer"}
	doc, err := c.Compile([]Chapter{
		{Index: 1, Title: "One", Source: "First chapter body.", Format: Markdown},
		{Index: 2, Title: "Two", Source: "Second chapter body.", Format: Markdown},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	// Cover, contents, two body pages at minimum.
	if len(doc.Pages) < 4 {
		t.Fatalf("pages = %d, want >= 4", len(doc.Pages))
	}
	for i, p := range doc.Pages {
		if p.Number != i+1 {
			t.Fatalf("page %d numbered %d", i, p.Number)
		}
	}

	cover := doc.Pages[0]
	if cover.Label != "" {
		t.Fatalf("cover label = %q, want empty", cover.Label)
	}
	if !strings.Contains(pageText(cover), "Old Tales") || !strings.Contains(pageText(cover), "A. Writer") {
		t.Fatalf("cover text: %q", pageText(cover))
	}

	contents := doc.Pages[1]
	if contents.Label != "ii" {
		t.Fatalf("contents label = %q, want ii", contents.Label)
	}
	if !strings.Contains(pageText(contents), "Contents") || !strings.Contains(pageText(contents), "One") {
		t.Fatalf("contents text: %q", pageText(contents))
	}

	// Body folios restart at 1.
	body := doc.Pages[2]
	if body.Label != "1" {
		t.Fatalf("first body label = %q, want 1", body.Label)
	}
	if len(doc.TOC) != 2 {
		t.Fatalf("TOC entries = %d", len(doc.TOC))
	}
}

func TestCompileBlankCover(t *testing.T) {
	c := Compiler{Title: "T", BlankCover: true}
	doc, err := c.Compile([]Chapter{{Index: 1, Title: "One", Source: "body", Format: Markdown}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(doc.Pages[0].Ops) != 0 {
		t.Fatalf("blank cover has %d ops", len(doc.Pages[0].Ops))
	}
}

func TestCompileTestPages(t *testing.T) {
	para := strings.Repeat("word ", 200)
	var source strings.Builder
	for i := 0; i < 40; i++ {
		source.WriteString(para)
		source.WriteString("\n\n")
	}
	c := Compiler{Title: "T", TestPages: 2}
	doc, err := c.Compile([]Chapter{{Index: 1, Title: "One", Source: source.String(), Format: Markdown}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	body := 0
	for _, p := range doc.Pages {
		if p.Label != "" && !strings.ContainsAny(p.Label, "ivxlcdm") {
			body++
		}
	}
	if body != 2 {
		t.Fatalf("body pages = %d, want 2", body)
	}
}

func TestCompileNoChapters(t *testing.T) {
	c := Compiler{Title: "T"}
	if _, err := c.Compile(nil); err == nil {
		t.Fatal("expected error for empty chapter list")
	}
}
