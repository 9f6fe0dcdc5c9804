package effect

import (
	"context"
	"math/rand"
	"testing"

	"github.com/wudi/photocopy/bitmap"
)

func whitePage(t *testing.T, w, h int, mode bitmap.ColorMode) *bitmap.PageImage {
	t.Helper()
	img, err := bitmap.New(w, h, mode, 255)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return img
}

func textPage(t *testing.T, w, h int) *bitmap.PageImage {
	t.Helper()
	img := whitePage(t, w, h, bitmap.Mono)
	// Fake text lines so the page is not uniformly white.
	for y := h / 8; y < h*7/8; y += 12 {
		for x := w / 10; x < w*9/10; x++ {
			img.Set(x, y, 0, 20)
			img.Set(x, y+1, 0, 20)
		}
	}
	return img
}

func TestBindingFor(t *testing.T) {
	if BindingFor(1) != BindLeft || BindingFor(3) != BindLeft {
		t.Fatal("odd pages must bind left")
	}
	if BindingFor(2) != BindRight || BindingFor(4) != BindRight {
		t.Fatal("even pages must bind right")
	}
}

func TestConfigValidation(t *testing.T) {
	bad := DefaultConfig()
	bad.SmudgeProbability = 1.5
	if _, err := New(bad); err == nil {
		t.Fatal("expected smudge probability error")
	}
	bad = DefaultConfig()
	bad.NoiseSigma = -1
	if _, err := New(bad); err == nil {
		t.Fatal("expected noise sigma error")
	}
}

func TestDegradePreservesDimensions(t *testing.T) {
	p, err := New(DefaultConfig(), WithSeed(11))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	img := textPage(t, 210, 297)
	out, err := p.Degrade(context.Background(), img, 1)
	if err != nil {
		t.Fatalf("Degrade: %v", err)
	}
	if out.Width() != 210 || out.Height() != 297 {
		t.Fatalf("dimensions changed to %dx%d", out.Width(), out.Height())
	}
	if out.Mode() != bitmap.Mono {
		t.Fatalf("mode changed to %v", out.Mode())
	}
}

func TestDegradeDeterministicPerSeed(t *testing.T) {
	run := func() *bitmap.PageImage {
		p, err := New(DefaultConfig(), WithSeed(99))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		out, err := p.Degrade(context.Background(), textPage(t, 180, 240), 3)
		if err != nil {
			t.Fatalf("Degrade: %v", err)
		}
		return out
	}
	if !run().Equal(run()) {
		t.Fatal("same seed and page produced different output")
	}
}

func TestDegradePagesDiffer(t *testing.T) {
	p, err := New(DefaultConfig(), WithSeed(5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	img := textPage(t, 180, 240)
	a, err := p.Degrade(context.Background(), img, 1)
	if err != nil {
		t.Fatalf("Degrade page 1: %v", err)
	}
	b, err := p.Degrade(context.Background(), img, 3)
	if err != nil {
		t.Fatalf("Degrade page 3: %v", err)
	}
	// Same binding side, different RNG streams.
	if a.Equal(b) {
		t.Fatal("pages 1 and 3 produced identical output")
	}
}

func TestDegradeSkip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Skip = true
	p, err := New(cfg, WithSeed(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	img := textPage(t, 100, 140)
	out, err := p.Degrade(context.Background(), img, 2)
	if err != nil {
		t.Fatalf("Degrade: %v", err)
	}
	if out == img {
		t.Fatal("skip must not return the input aliased")
	}
	if !out.Equal(img) {
		t.Fatal("skip altered pixels")
	}
}

func TestDegradeRejectsBadInput(t *testing.T) {
	p, err := New(DefaultConfig(), WithSeed(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Degrade(context.Background(), nil, 1); err == nil {
		t.Fatal("expected error for nil image")
	}
	img := whitePage(t, 10, 10, bitmap.Mono)
	if _, err := p.Degrade(context.Background(), img, 0); err == nil {
		t.Fatal("expected error for page number 0")
	}
}

func TestDegradeCanceledContext(t *testing.T) {
	p, err := New(DefaultConfig(), WithSeed(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Degrade(ctx, whitePage(t, 50, 70, bitmap.Mono), 1); err == nil {
		t.Fatal("expected context error")
	}
}

// TestDegradeWhitePageArtifacts drives a forced-smudge, no-rotation run over
// a blank page and checks the stages left their characteristic marks.
func TestDegradeWhitePageArtifacts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SmudgeProbability = 1
	cfg.ScanlineProbability = 0
	cfg.NoiseSigma = 0
	cfg.SpeckDensity = 0
	cfg.MaxRotationDeg = 0
	p, err := New(cfg, WithSeed(7))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w, h := 1000, 1400
	out, err := p.Degrade(context.Background(), whitePage(t, w, h, bitmap.Mono), 1)
	if err != nil {
		t.Fatalf("Degrade: %v", err)
	}
	if out.Width() != w || out.Height() != h {
		t.Fatalf("dimensions changed to %dx%d", out.Width(), out.Height())
	}

	// The smudge band lands in the upper half and survives the later stages;
	// the scan allows for the vertical displacement the warp adds.
	// The scan region stays clear of the vignette and shadow edges so only
	// the smudge can dirty it.
	dirty := false
	for y := h / 10; y < h*3/5 && !dirty; y++ {
		for x := w / 10; x < w*9/10; x++ {
			if out.At(x, y, 0) < 250 {
				dirty = true
				break
			}
		}
	}
	if !dirty {
		t.Fatal("no smudge band in the upper half")
	}

	// Page 1 binds left: its binding-edge corners are rounded toward black.
	if out.At(0, 0, 0) > 64 || out.At(0, h-1, 0) > 64 {
		t.Fatalf("binding corners not darkened: %d %d", out.At(0, 0, 0), out.At(0, h-1, 0))
	}
}

func TestShadowsDarkenBindingEdge(t *testing.T) {
	edgeMean := func(img *bitmap.PageImage, left bool) float64 {
		w, h := img.Width(), img.Height()
		sum, n := 0.0, 0
		for y := h / 4; y < h*3/4; y++ {
			for x := 0; x < w/8; x++ {
				col := x
				if !left {
					col = w - 1 - x
				}
				sum += float64(img.At(col, y, 0))
				n++
			}
		}
		return sum / float64(n)
	}

	imgL := whitePage(t, 400, 560, bitmap.Mono)
	applyShadows(imgL, BindLeft, rand.New(rand.NewSource(1)))
	if l, r := edgeMean(imgL, true), edgeMean(imgL, false); l >= r {
		t.Fatalf("left-bound page: binding edge %f not darker than outer edge %f", l, r)
	}

	imgR := whitePage(t, 400, 560, bitmap.Mono)
	applyShadows(imgR, BindRight, rand.New(rand.NewSource(1)))
	if l, r := edgeMean(imgR, true), edgeMean(imgR, false); r >= l {
		t.Fatalf("right-bound page: binding edge %f not darker than outer edge %f", r, l)
	}
}

// The binding-dependent stages must produce exact horizontal mirror images
// for opposite binding sides.

func TestCornerRoundingMirrors(t *testing.T) {
	cfg := DefaultConfig()
	l := applyCurl(whitePage(t, 300, 420, bitmap.Mono), BindLeft, cfg)
	r := applyCurl(whitePage(t, 300, 420, bitmap.Mono), BindRight, cfg)
	w, h := l.Width(), l.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if l.At(x, y, 0) != r.At(w-1-x, y, 0) {
				t.Fatalf("warp output not mirrored at (%d,%d): %d vs %d",
					x, y, l.At(x, y, 0), r.At(w-1-x, y, 0))
			}
		}
	}
	// The rounded corner tips flatten to the background deterministically.
	if l.At(0, 0, 0) != 0 || l.At(0, h-1, 0) != 0 {
		t.Fatalf("left-bound corner tips not flattened: %d %d", l.At(0, 0, 0), l.At(0, h-1, 0))
	}
	if r.At(w-1, 0, 0) != 0 || r.At(w-1, h-1, 0) != 0 {
		t.Fatalf("right-bound corner tips not flattened: %d %d", r.At(w-1, 0, 0), r.At(w-1, h-1, 0))
	}
}

func TestShadowsMirrorAcrossBinding(t *testing.T) {
	l := whitePage(t, 300, 420, bitmap.Mono)
	r := whitePage(t, 300, 420, bitmap.Mono)
	applyShadows(l, BindLeft, rand.New(rand.NewSource(9)))
	applyShadows(r, BindRight, rand.New(rand.NewSource(9)))
	w, h := l.Width(), l.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if l.At(x, y, 0) != r.At(w-1-x, y, 0) {
				t.Fatalf("shadow output not mirrored at (%d,%d): %d vs %d",
					x, y, l.At(x, y, 0), r.At(w-1-x, y, 0))
			}
		}
	}
}

func TestBrightnessFactorDirection(t *testing.T) {
	light := whitePage(t, 50, 50, bitmap.Mono)
	if f := brightnessFactor(light); f <= 1 {
		t.Fatalf("sparse page factor = %v, want > 1", f)
	}

	dark, _ := bitmap.New(50, 50, bitmap.Mono, 10)
	if f := brightnessFactor(dark); f >= 1 {
		t.Fatalf("dense page factor = %v, want < 1", f)
	}

	// The adjustment is bounded to +-1.5%.
	for _, img := range []*bitmap.PageImage{light, dark} {
		f := brightnessFactor(img)
		if f < 0.985 || f > 1.015 {
			t.Fatalf("factor %v outside [0.985, 1.015]", f)
		}
	}
}

func TestRandRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := randRange(rng, 5, 10)
		if v < 5 || v >= 10 {
			t.Fatalf("randRange out of bounds: %d", v)
		}
	}
	if v := randRange(rng, 8, 8); v != 8 {
		t.Fatalf("empty range = %d, want lo", v)
	}
}
