// Package fonts implements the font fallback cascade: a prioritized list of
// font sources tried in order until one satisfies a capability probe for the
// text being rendered.
package fonts

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"unicode"

	gofont "github.com/go-text/typesetting/font"
)

// Style identifies a face style within a source family.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
)

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	}
	return "regular"
}

// Source is one font family in the cascade, mapping styles to font files on
// disk. A missing styled file falls back to the Regular file.
type Source struct {
	Name  string
	Files map[Style]string
}

// Face is the capability surface the cascade probes on a parsed font.
// *font.Face from go-text/typesetting satisfies it.
type Face interface {
	NominalGlyph(ch rune) (gofont.GID, bool)
}

// Resolved is a loaded face that passed the capability probe.
type Resolved struct {
	Source string
	Style  Style
	Path   string
	Data   []byte

	face Face
}

// Parser turns raw font file bytes into a probeable face.
type Parser func(data []byte) (Face, error)

func parseTTF(data []byte) (Face, error) {
	return gofont.ParseTTF(bytes.NewReader(data))
}

// Cascade resolves faces by trying its sources in priority order. The first
// source that parses and can render the probe text wins and is cached per
// style; a cached face that fails a later probe is re-resolved.
type Cascade struct {
	sources []Source
	parse   Parser

	mu     sync.Mutex
	active map[Style]*Resolved
}

// Option configures a Cascade.
type Option func(*Cascade)

// WithParser overrides the font parser, mainly for tests.
func WithParser(p Parser) Option {
	return func(c *Cascade) { c.parse = p }
}

// NewCascade creates a cascade over the given sources, highest priority
// first.
func NewCascade(sources []Source, opts ...Option) *Cascade {
	c := &Cascade{
		sources: sources,
		parse:   parseTTF,
		active:  make(map[Style]*Resolved),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sources returns the cascade's sources in priority order.
func (c *Cascade) Sources() []Source { return c.sources }

// CanRender reports whether the face has a nominal glyph for every
// non-space, non-control rune of text.
func CanRender(face Face, text string) bool {
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		if _, ok := face.NominalGlyph(r); !ok {
			return false
		}
	}
	return true
}

// Resolve returns a face for the style that can render the sample text. An
// empty sample accepts any face that parses.
func (c *Cascade) Resolve(style Style, sample string) (*Resolved, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r := c.active[style]; r != nil && (sample == "" || CanRender(r.face, sample)) {
		return r, nil
	}

	var firstErr error
	for _, src := range c.sources {
		path := src.Files[style]
		if path == "" {
			path = src.Files[Regular]
		}
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		face, err := c.parse(data)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("parse %s: %w", path, err)
			}
			continue
		}
		if sample != "" && !CanRender(face, sample) {
			continue
		}
		r := &Resolved{Source: src.Name, Style: style, Path: path, Data: data, face: face}
		c.active[style] = r
		return r, nil
	}
	if firstErr != nil {
		return nil, fmt.Errorf("fonts: no usable source for %s style: %w", style, firstErr)
	}
	return nil, fmt.Errorf("fonts: no usable source for %s style", style)
}
