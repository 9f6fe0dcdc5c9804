package book

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// chapterFilePattern matches chapter files named like "03_the_cave.md".
var chapterFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.(md|txt|html)$`)

// DiscoverChapters scans dir for numbered chapter files and loads them in
// filename order. The chapter title comes from the file's first markdown
// heading when present, otherwise from the filename.
func DiscoverChapters(dir string) ([]Chapter, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("book: read chapter dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && chapterFilePattern.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	chapters := make([]Chapter, 0, len(names))
	for i, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("book: read chapter %s: %w", name, err)
		}
		m := chapterFilePattern.FindStringSubmatch(name)
		format := Markdown
		switch m[3] {
		case "html":
			format = HTML
		case "txt":
			format = PlainText
		}
		source := string(data)
		title, source := headingTitle(source, format)
		if title == "" {
			title = titleFromName(m[2])
		}
		chapters = append(chapters, Chapter{
			Index:  i + 1,
			Title:  title,
			Source: source,
			Format: format,
		})
	}
	return chapters, nil
}

// headingTitle extracts a leading markdown H1 as the chapter title and
// removes it from the source so StartChapter does not render it twice.
// Other formats pass through untouched.
func headingTitle(source string, format Format) (string, string) {
	if format != Markdown {
		return "", source
	}
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			rest := strings.Join(append(lines[:i:i], lines[i+1:]...), "\n")
			return strings.TrimSpace(trimmed[2:]), rest
		}
		break
	}
	return "", source
}

func titleFromName(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// ParseChapterRanges parses a selection like "1,3-5" into the set
// {1, 3, 4, 5}. An empty spec selects everything and returns nil.
func ParseChapterRanges(spec string) (map[int]bool, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	selected := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("book: bad chapter range %q", part)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || end < start {
				return nil, fmt.Errorf("book: bad chapter range %q", part)
			}
			for i := start; i <= end; i++ {
				selected[i] = true
			}
		} else {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("book: bad chapter number %q", part)
			}
			selected[n] = true
		}
	}
	return selected, nil
}

// FilterChapters keeps the chapters whose index is selected; a nil selection
// keeps everything.
func FilterChapters(chapters []Chapter, selected map[int]bool) []Chapter {
	if selected == nil {
		return chapters
	}
	var out []Chapter
	for _, ch := range chapters {
		if selected[ch.Index] {
			out = append(out, ch)
		}
	}
	return out
}
