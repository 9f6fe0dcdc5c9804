package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/wudi/photocopy/book"
	"github.com/wudi/photocopy/render"
)

// manifest describes a finished run so downstream tooling can reassemble
// the pages without re-deriving folio labels or ordering.
type manifest struct {
	Title     string         `toml:"title,omitempty"`
	Seed      int64          `toml:"seed,omitempty"`
	ColorMode string         `toml:"color_mode"`
	Pages     []manifestPage `toml:"pages"`
}

type manifestPage struct {
	Number int    `toml:"number"`
	Label  string `toml:"label,omitempty"`
	File   string `toml:"file"`
}

func writeManifest(writer *render.DirWriter, doc *book.Document, seed int64, colorMode string) error {
	m := manifest{
		Title:     doc.Title,
		Seed:      seed,
		ColorMode: colorMode,
		Pages:     make([]manifestPage, 0, len(doc.Pages)),
	}
	for _, p := range doc.Pages {
		m.Pages = append(m.Pages, manifestPage{
			Number: p.Number,
			Label:  p.Label,
			File:   filepath.Base(writer.PagePath(p.Number)),
		})
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(writer.Dir(), "manifest.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
