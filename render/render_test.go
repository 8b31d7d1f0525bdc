package render

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/marben/deepzoom/bignum"
	"github.com/marben/deepzoom/camera"
	"github.com/marben/deepzoom/orbit"
)

func reference(c complex128, exponent, maxIter int) *orbit.Reference {
	return orbit.Compute(bignum.FromComplex128(c, bignum.DeepPrec), exponent, 2, maxIter, bignum.OrbitPrec)
}

func TestZeroOffsetFollowsReference(t *testing.T) {
	for _, c := range []complex128{complex(1, 1), complex(-0.1, 0.1), complex(0.5, 0.5)} {
		ref := reference(c, 2, 60)
		var got []complex128
		k := Perturbed{Center: c, Orbit: ref.Points, Exponent: 2}
		res := k.Iterate(Params{Iterations: 60, Exponent: 2, EscapeRadius: 2}, func(z complex128) {
			got = append(got, z)
		})

		want := ref.Points[1:]
		if len(got) != len(want) {
			t.Fatalf("%v: %d iterates, want %d", c, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%v: iterate %d = %v, want %v", c, i+1, got[i], want[i])
			}
		}
		if res.Count != ref.Iterations() {
			t.Fatalf("%v: Count = %d, want %d", c, res.Count, ref.Iterations())
		}
		if res.Inside == ref.Escaped {
			t.Fatalf("%v: Inside = %v but reference escaped = %v", c, res.Inside, ref.Escaped)
		}
	}
}

func TestZeroOffsetMatchesDirectIteration(t *testing.T) {
	p := Params{Iterations: 100, Exponent: 2, EscapeRadius: 2}
	for _, c := range []complex128{
		complex(0.5, 0), complex(-2.5, 0), complex(0, 1.5), complex(1, 1),
		complex(-1, 0), complex(0, 0), complex(-0.1, 0.1),
	} {
		ref := reference(c, 2, 100)
		got := Perturbed{Center: c, Orbit: ref.Points, Exponent: 2}.Iterate(p, nil)
		want := Regular{C: c}.Iterate(p, nil)
		if got.Count != want.Count || got.Inside != want.Inside {
			t.Fatalf("%v: perturbed = %+v, direct = %+v", c, got, want)
		}
	}
}

func agreement(t *testing.T, center complex128, exponent int, span float64) float64 {
	t.Helper()
	const n = 32
	const iters = 200
	ref := reference(center, exponent, iters)
	p := Params{Iterations: iters, Exponent: float64(exponent), EscapeRadius: 2}

	same := 0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dc := complex(span*(float64(x)/n-0.5), span*(float64(y)/n-0.5))
			got := Perturbed{DC: dc, Center: center, Orbit: ref.Points, Exponent: exponent}.Iterate(p, nil)
			want := Regular{C: center + dc}.Iterate(p, nil)
			if got.Count == want.Count && got.Inside == want.Inside {
				same++
			}
		}
	}
	return float64(same) / (n * n)
}

func TestPerturbedAgreesWithRegular(t *testing.T) {
	if a := agreement(t, complex(-0.5, 0), 2, 1.0); a < 0.95 {
		t.Fatalf("agreement = %.3f, want >= 0.95", a)
	}
	if a := agreement(t, complex(-0.1, 0.3), 2, 0.05); a < 0.95 {
		t.Fatalf("agreement near boundary = %.3f, want >= 0.95", a)
	}
}

func TestPerturbedHigherExponentAgreesWithRegular(t *testing.T) {
	if a := agreement(t, complex(0, 0), 3, 1.0); a < 0.9 {
		t.Fatalf("agreement = %.3f, want >= 0.9", a)
	}
}

func TestPerturbedWithoutOrbitFallsBack(t *testing.T) {
	p := Params{Iterations: 20, Exponent: 2, EscapeRadius: 2}
	got := Perturbed{DC: complex(0.5, 0.5), Center: complex(0.5, 0.5), Exponent: 2}.Iterate(p, nil)
	want := Regular{C: complex(1, 1)}.Iterate(p, nil)
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPerturbationExponent(t *testing.T) {
	tests := []struct {
		in   float64
		want int
		ok   bool
	}{
		{2, 2, true},
		{3, 3, true},
		{2.5, 0, false},
		{1, 0, false},
		{-2, 0, false},
	}
	for _, tt := range tests {
		got, ok := PerturbationExponent(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("PerturbationExponent(%v) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestShadePartitions(t *testing.T) {
	p := Params{Iterations: 50, Exponent: 2, EscapeRadius: 2}
	in := Regular{C: 0}
	out := Regular{C: complex(1, 1)}

	tests := []struct {
		name    string
		k       Regular
		part    Partition
		inside  bool
		visible bool
	}{
		{"inside/outside", in, PartitionOutside, true, false},
		{"inside/inside", in, PartitionInside, true, true},
		{"outside/outside", out, PartitionOutside, false, true},
		{"outside/inside", out, PartitionInside, false, false},
		{"outside/both", out, PartitionBoth, false, true},
	}
	for _, tt := range tests {
		c := shade(tt.k, p, StyleFinalNorm, tt.part)
		if c.Inside() != tt.inside || c.Visible() != tt.visible {
			t.Fatalf("%s: inside=%v visible=%v, want %v %v", tt.name, c.Inside(), c.Visible(), tt.inside, tt.visible)
		}
		if !c.Visible() && (c.X0 != 0 || c.X1 != 0 || c.H != 0) {
			t.Fatalf("%s: hidden cell carries statistics %+v", tt.name, c)
		}
	}
}

func TestShadeIterationsStyle(t *testing.T) {
	p := Params{Iterations: 50, Exponent: 2, EscapeRadius: 2}
	c := shade(Regular{C: complex(1, 1)}, p, StyleIterations, PartitionOutside)
	if c.X0 != 2 || c.X1 != 3 {
		t.Fatalf("cell = %+v, want X0=2 X1=3", c)
	}
	if c.H <= 0 || c.H > 1 {
		t.Fatalf("proximity %v outside (0, 1]", c.H)
	}
}

func TestShadeFinalNorm(t *testing.T) {
	p := Params{Iterations: 50, Exponent: 2, EscapeRadius: 2}
	c := shade(Regular{C: complex(1, 1)}, p, StyleFinalNorm, PartitionOutside)
	// iterates 1+i, 1+3i
	if got, want := float64(c.X1), abs(complex(1, 3)); float32(want) != float32(got) {
		t.Fatalf("X1 = %v, want %v", got, want)
	}
	if got, want := float64(c.X0), abs(complex(1, 1)); float32(want) != float32(got) {
		t.Fatalf("X0 = %v, want %v", got, want)
	}
}

func testFrame(w, h int) *Frame {
	return &Frame{
		Width:         w,
		Height:        h,
		Primary:       ViewParams{Center: complex(-0.5, 0), Zoom: 0.3, Dirty: true},
		Secondary:     ViewParams{Zoom: 0.3, Dirty: true},
		Iterations:    64,
		Exponent:      2,
		EscapeRadius:  2,
		Style:         StyleIterations,
		Palette:       PaletteRainbow,
		PalettePeriod: 1,
		Smoothing:     1,
		Marker:        complex(-0.8, 0.156),
	}
}

func TestCachedFrameRecomputesNothing(t *testing.T) {
	ctx := context.Background()
	f := testFrame(16, 12)
	cache := NewCache(GridWidth, GridHeight)
	r := NewRenderer(cache)

	first := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	if err := r.Render(ctx, f, first); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := cache.Recomputed(); got != 16*12 {
		t.Fatalf("first frame recomputed %d cells, want %d", got, 16*12)
	}

	cache.ResetCounter()
	f.Primary.Dirty = false
	f.Secondary.Dirty = false
	second := image.NewRGBA(first.Bounds())
	if err := r.Render(ctx, f, second); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := cache.Recomputed(); got != 0 {
		t.Fatalf("clean frame recomputed %d cells", got)
	}
	for i := range first.Pix {
		if first.Pix[i] != second.Pix[i] {
			t.Fatalf("pixel byte %d differs between frames", i)
		}
	}
}

func TestDirtySecondaryRecomputesOnlyItsPixels(t *testing.T) {
	ctx := context.Background()
	f := testFrame(16, 12)
	f.Split = camera.Split{Enabled: true, Value: 0.5}
	cache := NewCache(GridWidth, GridHeight)
	r := NewRenderer(cache)

	dst := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	if err := r.Render(ctx, f, dst); err != nil {
		t.Fatalf("Render: %v", err)
	}

	cache.ResetCounter()
	f.Primary.Dirty = false
	if err := r.Render(ctx, f, dst); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// vertical split at x = 8: columns 8..15 belong to the secondary view
	if got, want := cache.Recomputed(), int64(8*12); got != want {
		t.Fatalf("recomputed %d cells, want %d", got, want)
	}
}

func TestPixelsOutsideCacheAreAlwaysComputed(t *testing.T) {
	f := testFrame(8, 8)
	f.Primary.Dirty = false
	cache := NewCache(4, 4)
	r := NewRenderer(cache)

	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if err := r.Render(context.Background(), f, dst); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// the covered quarter was read from the empty cache and is black
	if c := dst.RGBAAt(1, 1); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Fatalf("cached pixel = %v, want black", c)
	}
	if got := cache.Recomputed(); got != 0 {
		t.Fatalf("recomputed %d cells, want 0", got)
	}

	want := image.NewRGBA(dst.Bounds())
	if err := NewRenderer(nil).Render(context.Background(), f, want); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if dst.RGBAAt(6, 6) != want.RGBAAt(6, 6) {
		t.Fatalf("uncached pixel = %v, want %v", dst.RGBAAt(6, 6), want.RGBAAt(6, 6))
	}
}

func TestRenderTileMatchesFullFrame(t *testing.T) {
	ctx := context.Background()
	f := testFrame(32, 24)
	full := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	if err := NewRenderer(nil).Render(ctx, f, full); err != nil {
		t.Fatalf("Render: %v", err)
	}

	tileRect := image.Rect(8, 4, 24, 20)
	tile := image.NewRGBA(tileRect)
	if err := NewRenderer(nil).Render(ctx, f, tile); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for y := tileRect.Min.Y; y < tileRect.Max.Y; y++ {
		for x := tileRect.Min.X; x < tileRect.Max.X; x++ {
			if tile.RGBAAt(x, y) != full.RGBAAt(x, y) {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, tile.RGBAAt(x, y), full.RGBAAt(x, y))
			}
		}
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := testFrame(16, 16)
	err := NewRenderer(nil).Render(ctx, f, image.NewRGBA(image.Rect(0, 0, 16, 16)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestHiddenCellIsBlack(t *testing.T) {
	f := testFrame(1, 1)
	period, phase := f.scale()
	if c := f.colorize(Cell{Flags: cellInside}, period, phase); c.R != 0 || c.G != 0 || c.B != 0 || c.A != 0xff {
		t.Fatalf("hidden cell color = %v", c)
	}
}

func TestOverlays(t *testing.T) {
	f := testFrame(16, 12)
	f.Split = camera.Split{Enabled: true, Value: 0.5}
	f.ShowMarker = true
	f.MarkerX, f.MarkerY = 4, 2

	dst := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	if err := NewRenderer(nil).Render(context.Background(), f, dst); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for y := 10; y < f.Height; y++ {
		if got := dst.RGBAAt(7, y); got != overlayColor {
			t.Fatalf("split pixel (7, %d) = %v", y, got)
		}
	}
	if got := dst.RGBAAt(4, 2); got != markerColor {
		t.Fatalf("marker pixel = %v", got)
	}
	// the disk stops at the split line
	if got := dst.RGBAAt(11, 2); got == markerColor {
		t.Fatal("marker drawn over the secondary view")
	}
}

func TestCyclingEnums(t *testing.T) {
	s := StyleIterations
	for i := 0; i < int(numStyles); i++ {
		s = s.Next()
	}
	if s != StyleIterations {
		t.Errorf("style cycle ended at %s", s)
	}
	p := PaletteRainbow
	for i := 0; i < int(numPalettes); i++ {
		p = p.Next()
	}
	if p != PaletteRainbow {
		t.Errorf("palette cycle ended at %s", p)
	}
	if got := PartitionBoth.Next(); got != PartitionOutside {
		t.Errorf("partition after both = %s", got)
	}
}
