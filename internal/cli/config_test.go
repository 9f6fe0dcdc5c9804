package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wudi/photocopy/bitmap"
	"github.com/wudi/photocopy/effect"
)

func TestLoadRunConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.toml")
	content := `
[book]
title = "Old Tales"
author = "A. Nonymous"
blank_cover = true

[effect]
color_mode = "color"
smudge_probability = 0.4
noise_sigma = 2.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadRunConfig(path)
	if err != nil {
		t.Fatalf("loadRunConfig: %v", err)
	}
	if cfg.Book.Title != "Old Tales" || !cfg.Book.BlankCover {
		t.Fatalf("book section: %+v", cfg.Book)
	}

	merged, err := cfg.Effect.apply(effect.DefaultConfig())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if merged.Mode != bitmap.Color {
		t.Fatalf("Mode = %v, want color", merged.Mode)
	}
	if merged.SmudgeProbability != 0.4 || merged.NoiseSigma != 2.5 {
		t.Fatalf("overrides not applied: %+v", merged)
	}
	// Untouched fields keep their defaults.
	if merged.ScanlineProbability != effect.DefaultConfig().ScanlineProbability {
		t.Fatalf("ScanlineProbability changed: %v", merged.ScanlineProbability)
	}
}

func TestApplyRejectsBadColorMode(t *testing.T) {
	c := effectConfig{ColorMode: "sepia"}
	if _, err := c.apply(effect.DefaultConfig()); err == nil {
		t.Fatal("expected color mode error")
	}
}
