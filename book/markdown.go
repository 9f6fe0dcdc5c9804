package book

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/wudi/photocopy/fonts"
)

// AddMarkdown lays out a markdown chapter body using goldmark: headings,
// paragraphs and list items, with emphasis mapped to the italic face and
// strong emphasis to bold.
func (e *Engine) AddMarkdown(source string) error {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))
	e.walkMarkdown(doc, src)
	return nil
}

func (e *Engine) walkMarkdown(node ast.Node, source []byte) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			e.renderHeading(string(n.Text(source)), n.Level)
		case *ast.Paragraph:
			e.renderSpans(inlineSpans(n, source, fonts.Regular))
		case *ast.List:
			e.walkMarkdown(n, source)
		case *ast.ListItem:
			e.renderListItem(n, source)
		case *ast.Blockquote:
			e.walkMarkdown(n, source)
		}
	}
}

func (e *Engine) renderListItem(n *ast.ListItem, source []byte) {
	var spans []span
	if child := n.FirstChild(); child != nil {
		if p, ok := child.(*ast.Paragraph); ok {
			spans = inlineSpans(p, source, fonts.Regular)
		} else {
			spans = []span{{text: string(child.Text(source)), style: fonts.Regular}}
		}
	}
	e.renderSpans(append([]span{{text: "•", style: fonts.Regular}}, spans...))
}

// inlineSpans flattens a block's inline children into styled runs. Nested
// emphasis keeps the innermost style.
func inlineSpans(node ast.Node, source []byte, style fonts.Style) []span {
	var out []span
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			t := string(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				t += " "
			}
			out = append(out, span{text: t, style: style})
		case *ast.Emphasis:
			st := fonts.Italic
			if n.Level >= 2 {
				st = fonts.Bold
			}
			out = append(out, inlineSpans(n, source, st)...)
		case *ast.CodeSpan:
			out = append(out, span{text: string(n.Text(source)), style: style})
		default:
			if t := strings.TrimSpace(string(child.Text(source))); t != "" {
				out = append(out, span{text: t, style: style})
			}
		}
	}
	return out
}
