package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirWriter stores finished pages as PNG files in a directory, one file per
// page. Pages write to independent files, so concurrent replacement is safe.
type DirWriter struct {
	dir string
}

// NewDirWriter creates the output directory if needed.
func NewDirWriter(dir string) (*DirWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("render: create output dir: %w", err)
	}
	return &DirWriter{dir: dir}, nil
}

// Dir returns the output directory.
func (d *DirWriter) Dir() string { return d.dir }

// PagePath returns the file path for a 1-based page index.
func (d *DirWriter) PagePath(pageIndex int) string {
	return filepath.Join(d.dir, fmt.Sprintf("page-%04d.png", pageIndex))
}

// ReplacePageImage writes the PNG bytes for the page, overwriting any prior
// file.
func (d *DirWriter) ReplacePageImage(ctx context.Context, pageIndex int, png []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(d.PagePath(pageIndex), png, 0o644); err != nil {
		return fmt.Errorf("render: write page %d: %w", pageIndex, err)
	}
	return nil
}
