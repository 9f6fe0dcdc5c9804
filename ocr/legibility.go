package ocr

import (
	"strings"
	"unicode"

	"github.com/wudi/photocopy/book"
)

// PageText linearizes the text that was laid out on a page, in draw order.
func PageText(page *book.Page) string {
	if page == nil {
		return ""
	}
	parts := make([]string, 0, len(page.Ops))
	for _, op := range page.Ops {
		parts = append(parts, op.Text)
	}
	return strings.Join(parts, " ")
}

// LegibilityRatio reports the fraction of expected words that survive in the
// recognized text, in [0, 1]. Comparison is case-insensitive and ignores
// punctuation, so "word," matches "word". An empty expectation counts as
// fully legible.
func LegibilityRatio(expected, recognized string) float64 {
	want := tokenize(expected)
	if len(want) == 0 {
		return 1
	}
	have := make(map[string]int)
	for _, tok := range tokenize(recognized) {
		have[tok]++
	}
	matched := 0
	for _, tok := range want {
		if have[tok] > 0 {
			have[tok]--
			matched++
		}
	}
	return float64(matched) / float64(len(want))
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	toks := make([]string, 0, len(fields))
	for _, f := range fields {
		toks = append(toks, strings.ToLower(f))
	}
	return toks
}
