package book

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/wudi/photocopy/fonts"
)

// AddHTML lays out an HTML chapter body: h1-h3, p, li, em/i and strong/b are
// honored; everything else contributes its text content.
func (e *Engine) AddHTML(source string) error {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return err
	}
	e.walkHTML(doc)
	return nil
}

func (e *Engine) walkHTML(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "h1", "h2", "h3":
			level := int(n.Data[1] - '0')
			e.renderHeading(htmlText(n), level)
			return
		case "p":
			e.renderSpans(htmlSpans(n, fonts.Regular))
			return
		case "li":
			e.renderSpans(append([]span{{text: "•", style: fonts.Regular}}, htmlSpans(n, fonts.Regular)...))
			return
		case "script", "style", "head":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walkHTML(c)
	}
}

func htmlSpans(n *html.Node, style fonts.Style) []span {
	var out []span
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if t := strings.TrimSpace(c.Data); t != "" {
				out = append(out, span{text: t, style: style})
			}
		case c.Type == html.ElementNode && (c.Data == "em" || c.Data == "i"):
			out = append(out, htmlSpans(c, fonts.Italic)...)
		case c.Type == html.ElementNode && (c.Data == "strong" || c.Data == "b"):
			out = append(out, htmlSpans(c, fonts.Bold)...)
		case c.Type == html.ElementNode:
			out = append(out, htmlSpans(c, style)...)
		}
	}
	return out
}

func htmlText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
