package bitmap

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestParseColorMode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want ColorMode
		ok   bool
	}{
		{"mono", Mono, true},
		{"", Mono, true},
		{"color", Color, true},
		{"sepia", Mono, false},
	} {
		got, err := ParseColorMode(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseColorMode(%q) err = %v", tc.in, err)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ParseColorMode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewRejectsZeroArea(t *testing.T) {
	if _, err := New(0, 10, Mono, 255); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := New(10, -1, Color, 255); err == nil {
		t.Fatal("expected error for negative height")
	}
}

func TestFromImageMonoLuma(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255}) // pure red
	p, err := FromImage(src, Mono)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if got := p.At(0, 0, 0); got != 255 {
		t.Fatalf("white pixel = %d", got)
	}
	// Rec. 601: 0.299 * 255 rounds to 76.
	if got := p.At(1, 0, 0); got != 76 {
		t.Fatalf("red pixel luma = %d, want 76", got)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	p, _ := New(3, 3, Mono, 0)
	p.Set(1, 1, 0, 200)
	c := p.Convert(Color)
	if c.Mode() != Color {
		t.Fatalf("mode = %v", c.Mode())
	}
	for ch := 0; ch < 3; ch++ {
		if c.At(1, 1, ch) != 200 {
			t.Fatalf("channel %d = %d", ch, c.At(1, 1, ch))
		}
	}
	back := c.Convert(Mono)
	if !p.Equal(back) {
		t.Fatal("mono -> color -> mono altered pixels")
	}
}

func TestConvertSameModeClones(t *testing.T) {
	p, _ := New(2, 2, Mono, 100)
	q := p.Convert(Mono)
	q.Set(0, 0, 0, 7)
	if p.At(0, 0, 0) != 100 {
		t.Fatal("Convert shares storage with the original")
	}
}

func TestMedianAndDarkRatio(t *testing.T) {
	p, _ := New(10, 10, Mono, 240)
	for x := 0; x < 10; x++ {
		p.Set(x, 0, 0, 10) // one dark row
	}
	if med := p.Median(); med[0] != 240 {
		t.Fatalf("median = %d, want 240", med[0])
	}
	if got := p.DarkRatio(128); got != 0.1 {
		t.Fatalf("DarkRatio = %v, want 0.1", got)
	}
}

func TestScaleClamps(t *testing.T) {
	p, _ := New(1, 1, Mono, 200)
	p.Scale(2)
	if p.At(0, 0, 0) != 255 {
		t.Fatalf("scaled value = %d", p.At(0, 0, 0))
	}
}

func TestReflectIndex(t *testing.T) {
	for _, tc := range []struct{ i, n, want int }{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 0},
		{-2, 5, 1},
		{5, 5, 4},
		{6, 5, 3},
		{-1, 1, 0},
	} {
		if got := reflectIndex(tc.i, tc.n); got != tc.want {
			t.Fatalf("reflectIndex(%d, %d) = %d, want %d", tc.i, tc.n, got, tc.want)
		}
	}
}

func TestCubicWeightPartitionOfUnity(t *testing.T) {
	// The Catmull-Rom weights of the four nearest taps sum to 1 for any
	// fractional offset.
	for _, f := range []float64{0, 0.25, 0.5, 0.75, 0.999} {
		sum := 0.0
		for k := 0; k < 4; k++ {
			sum += cubicWeight(float64(k-1) - f)
		}
		if sum < 0.9999 || sum > 1.0001 {
			t.Fatalf("weights at %v sum to %v", f, sum)
		}
	}
}

func TestWarpBicubicIdentity(t *testing.T) {
	p, _ := New(8, 8, Mono, 0)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p.Set(x, y, 0, uint8(x*13+y*29))
		}
	}
	zero := make([]float64, 64)
	out := p.WarpBicubic(zero, zero)
	if !p.Equal(out) {
		t.Fatal("zero displacement changed pixels")
	}
}

func TestSampleBilinearFill(t *testing.T) {
	p, _ := New(4, 4, Mono, 100)
	if got := p.SampleBilinear(-5, -5, 0, 42); got != 42 {
		t.Fatalf("outside sample = %v, want fill", got)
	}
	if got := p.SampleBilinear(1, 1, 0, 42); got != 100 {
		t.Fatalf("inside sample = %v, want 100", got)
	}
}

func TestBlendOperators(t *testing.T) {
	base, _ := New(1, 1, Mono, 100)
	layer, _ := New(1, 1, Mono, 128)

	m := base.Clone()
	m.MultiplyInto(layer)
	if got := m.At(0, 0, 0); got != 50 {
		t.Fatalf("multiply = %d, want 50", got)
	}

	s := base.Clone()
	s.ScreenInto(layer)
	if got := s.At(0, 0, 0); got < 100 {
		t.Fatalf("screen darkened: %d", got)
	}

	b := base.Clone()
	b.BlendInto(layer, 0.5)
	if got := b.At(0, 0, 0); got != 114 {
		t.Fatalf("blend = %d, want 114", got)
	}
}

func TestMaskOutOfRangeReads(t *testing.T) {
	m := NewMask(4, 4, 128)
	if m.At(-1, 0) != 255 || m.At(0, 4) != 255 {
		t.Fatal("out-of-range mask reads must not attenuate")
	}
	m.Set(-1, 0, 0) // ignored
	if m.At(0, 0) != 128 {
		t.Fatal("out-of-range write leaked")
	}
}

func TestRoundCorner(t *testing.T) {
	m := NewMask(10, 10, 255)
	// Top-left corner, arc centered at (3, 3) with radius 3: everything in
	// the corner square beyond the arc flattens, the arc and its inside stay.
	m.RoundCorner(3, 3, 3, -1, -1)
	if m.At(0, 0) != 0 || m.At(0, 1) != 0 || m.At(1, 0) != 0 {
		t.Fatal("corner tip kept its value")
	}
	if m.At(1, 1) != 255 || m.At(2, 2) != 255 {
		t.Fatal("pixel inside the arc was flattened")
	}
	if m.At(0, 3) != 255 || m.At(3, 0) != 255 || m.At(3, 3) != 255 {
		t.Fatal("arc boundary was flattened")
	}
	if m.At(4, 0) != 255 || m.At(0, 4) != 255 || m.At(5, 5) != 255 {
		t.Fatal("flattening leaked past the corner square")
	}
}

func TestMaskMultiplyInto(t *testing.T) {
	img, _ := New(2, 1, Mono, 200)
	m := NewMask(2, 1, 255)
	m.Set(1, 0, 127)
	m.MultiplyInto(img)
	if img.At(0, 0, 0) != 200 {
		t.Fatalf("full mask altered pixel: %d", img.At(0, 0, 0))
	}
	if got := img.At(1, 0, 0); got != 100 {
		t.Fatalf("half mask = %d, want 100", got)
	}
}

func TestFlipHorizontal(t *testing.T) {
	m := NewMask(3, 1, 0)
	m.Set(0, 0, 10)
	m.Set(2, 0, 30)
	f := m.FlipHorizontal()
	if f.At(0, 0) != 30 || f.At(2, 0) != 10 {
		t.Fatalf("flip wrong: %d %d", f.At(0, 0), f.At(2, 0))
	}
}

func TestBlurPreservesConstant(t *testing.T) {
	p, _ := New(9, 9, Mono, 180)
	p.Blur(1.5)
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			if v := p.At(x, y, 0); v < 179 || v > 181 {
				t.Fatalf("blur of constant image drifted to %d at (%d,%d)", v, x, y)
			}
		}
	}
}

func TestPNGRoundTrip(t *testing.T) {
	p, _ := New(5, 7, Color, 0)
	for y := 0; y < 7; y++ {
		for x := 0; x < 5; x++ {
			p.Set(x, y, 0, uint8(x*40))
			p.Set(x, y, 1, uint8(y*30))
			p.Set(x, y, 2, 128)
		}
	}
	data, err := p.PNGBytes()
	if err != nil {
		t.Fatalf("PNGBytes: %v", err)
	}
	q, err := DecodePNG(bytes.NewReader(data), Color)
	if err != nil {
		t.Fatalf("DecodePNG: %v", err)
	}
	if !p.Equal(q) {
		t.Fatal("PNG round trip altered pixels")
	}
}
