package controller

import (
	"math"
	"testing"
	"time"

	"github.com/marben/deepzoom/bignum"
	"github.com/marben/deepzoom/camera"
	"github.com/marben/deepzoom/orbit"
	"github.com/marben/deepzoom/render"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newController(t *testing.T) *Controller {
	t.Helper()
	c := New()
	c.Resize(800, 600)
	c.Frame(t0)
	return c
}

func within(t *testing.T, name string, zoom float64, l camera.Limits) {
	t.Helper()
	if zoom < l.Min || zoom > l.Max || math.IsNaN(zoom) {
		t.Fatalf("%s zoom %g outside [%g, %g]", name, zoom, l.Min, l.Max)
	}
}

func TestScrollKeepsZoomInLimits(t *testing.T) {
	c := newController(t)
	c.SetJulia(true)

	for _, pos := range [][2]float64{{100, 300}, {700, 300}} {
		c.PointerMove(pos[0], pos[1])
		for _, dy := range []float64{50, 50, 1e6, -9.9, -10, -30, 3, 1e9, 1e9, -1e9} {
			for i := 0; i < 200; i++ {
				c.Scroll(dy)
				within(t, "primary", c.Primary().Zoom, camera.PrimaryLimits)
				within(t, "secondary", c.Secondary().Zoom, camera.SecondaryLimits)
			}
		}
	}
	if got := c.Primary().Zoom; got != camera.PrimaryLimits.Min {
		t.Fatalf("primary zoom = %g, want the minimum after zooming out", got)
	}
}

func TestScrollZoomsTowardsCursor(t *testing.T) {
	c := newController(t)
	m := camera.NewMapper(800, 600)

	x, y := 100.0, 450.0
	c.PointerMove(x, y)
	for _, dy := range []float64{3, 3, 3, -1, 5, 5, 5, 5, 5, 5, 5, 5} {
		cam := c.Primary()
		anchor := m.ToPlaneBig(&cam, x, y)
		c.Scroll(dy)
		cam = c.Primary()
		gx, gy := m.ToScreenBig(&cam, anchor)
		if math.Abs(gx-x) > 1e-6 || math.Abs(gy-y) > 1e-6 {
			t.Fatalf("anchor moved to (%v, %v) at zoom %g", gx, gy, cam.Zoom)
		}
	}
}

func TestFrameConsumesInvalidationOnce(t *testing.T) {
	c := New()
	c.Resize(800, 600)

	f := c.Frame(t0)
	if !f.Primary.Dirty || !f.Secondary.Dirty {
		t.Fatal("first frame is not dirty")
	}
	f = c.Frame(t0.Add(time.Second / 60))
	if f.Primary.Dirty || f.Secondary.Dirty {
		t.Fatalf("second frame dirty: %v", c.LastInvalidation())
	}

	c.PointerMove(400, 300)
	c.Scroll(1)
	f = c.Frame(t0.Add(time.Second / 30))
	if !f.Primary.Dirty || f.Secondary.Dirty {
		t.Fatalf("after scroll: %v", c.LastInvalidation())
	}
}

func TestSplitDragInvalidatesGainingView(t *testing.T) {
	c := newController(t)
	c.SetJulia(true)
	c.Frame(t0)

	c.PointerMove(400, 300)
	if !c.OnSplit(400, 300) {
		t.Fatal("(400, 300) is not on the split")
	}
	if got := c.CursorShape(); got != CursorResizeHorizontal {
		t.Fatalf("cursor = %v, want CursorResizeHorizontal", got)
	}
	c.PointerButton(ButtonLeft, true)

	c.PointerMove(350, 300)
	c.Frame(t0)
	if got := c.LastInvalidation(); got != InvalidateSecondary {
		t.Fatalf("moving left invalidated %v, want secondary", got)
	}
	if !c.InSecondary(360, 300) {
		t.Fatal("x=360 not in the secondary view after the move")
	}

	c.PointerMove(450, 300)
	c.Frame(t0)
	if got := c.LastInvalidation(); got != InvalidatePrimary {
		t.Fatalf("moving right invalidated %v, want primary", got)
	}

	for i := 0; i < 20; i++ {
		c.PointerMove(c.cursorX+100, 300)
	}
	c.PointerButton(ButtonLeft, false)
	if c.split.Value != 1 {
		t.Fatalf("split = %v after release, want clamped to 1", c.split.Value)
	}
}

func TestDragPansGrabbedCamera(t *testing.T) {
	c := newController(t)
	before := c.Primary().Translate.Complex128()

	c.PointerMove(400, 300)
	c.PointerButton(ButtonLeft, true)
	c.PointerMove(460, 300)
	c.PointerButton(ButtonLeft, false)

	got := c.Primary().Translate.Complex128() - before
	want := complex(-60.0/600/0.3, 0)
	if math.Abs(real(got-want)) > 1e-12 || math.Abs(imag(got-want)) > 1e-12 {
		t.Fatalf("pan = %v, want %v", got, want)
	}
	c.Frame(t0)
	if !c.LastInvalidation().Has(InvalidatePrimary | InvalidateReference) {
		t.Fatalf("pan invalidated %v", c.LastInvalidation())
	}
}

func TestPinchZoomsAndStaysInLimits(t *testing.T) {
	c := newController(t)
	c.Touch(1, TouchStarted, 300, 300, t0)
	c.Touch(2, TouchStarted, 500, 300, t0)

	c.Touch(2, TouchMoved, 700, 300, t0)
	// distance 200 -> 400 around the midpoint 500
	if got := c.Primary().Zoom; math.Abs(got-0.6) > 1e-12 {
		t.Fatalf("zoom = %v, want 0.6", got)
	}

	x := 700.0
	for i := 0; i < 500; i++ {
		x += 300
		c.Touch(2, TouchMoved, x, 300, t0)
		within(t, "primary", c.Primary().Zoom, camera.PrimaryLimits)
	}
	for i := 0; i < 500; i++ {
		x = 300 + (x-300)/4
		c.Touch(2, TouchMoved, x, 300, t0)
		within(t, "primary", c.Primary().Zoom, camera.PrimaryLimits)
	}
	c.Touch(1, TouchEnded, 300, 300, t0)
	c.Touch(2, TouchEnded, x, 300, t0)
	if len(c.touches) != 0 {
		t.Fatalf("%d touches left", len(c.touches))
	}
}

func TestSingleTouchPans(t *testing.T) {
	c := newController(t)
	before := c.Primary().Translate.Complex128()
	c.Touch(7, TouchStarted, 400, 300, t0)
	c.Touch(7, TouchMoved, 400, 360, t0)
	c.Touch(7, TouchEnded, 400, 360, t0)

	got := c.Primary().Translate.Complex128() - before
	want := complex(0, -60.0/600/0.3)
	if math.Abs(real(got-want)) > 1e-12 || math.Abs(imag(got-want)) > 1e-12 {
		t.Fatalf("pan = %v, want %v", got, want)
	}
	if _, _, ok := c.ContextMenu(); ok {
		t.Fatal("moved touch opened the context menu")
	}
}

func TestLongPressOpensContextMenu(t *testing.T) {
	c := newController(t)
	c.Touch(1, TouchStarted, 120, 80, t0)
	c.Touch(1, TouchEnded, 120, 80, t0.Add(300*time.Millisecond))
	if _, _, ok := c.ContextMenu(); ok {
		t.Fatal("short press opened the context menu")
	}

	c.Touch(1, TouchStarted, 120, 80, t0)
	c.Touch(1, TouchEnded, 120, 80, t0.Add(800*time.Millisecond))
	x, y, ok := c.ContextMenu()
	if !ok || x != 120 || y != 80 {
		t.Fatalf("context menu = (%v, %v, %v), want (120, 80, true)", x, y, ok)
	}
}

func TestShowIterationsAt(t *testing.T) {
	c := newController(t)
	c.ShowIterationsAt(400, 300)
	f := c.Frame(t0)

	if !f.ShowMarker || len(f.MarkerPoints) < 2 {
		t.Fatalf("marker not shown: %d points", len(f.MarkerPoints))
	}
	if f.Marker != complex(-0.75, 0) {
		t.Fatalf("marker = %v, want the camera center", f.Marker)
	}
	if math.Abs(f.MarkerX-400) > 1e-9 || math.Abs(f.MarkerY-300) > 1e-9 {
		t.Fatalf("marker on screen at (%v, %v)", f.MarkerX, f.MarkerY)
	}
	if _, ok := c.MarkerStats(); !ok {
		t.Fatal("no marker stats")
	}
}

func TestDeepZoomUsesPerturbation(t *testing.T) {
	c := newController(t)
	center := bignum.FromComplex128(complex(-0.743643887037151, 0.131825904205330), bignum.DeepPrec)
	c.JumpTo(1e9, center)

	f := c.Frame(t0)
	if f.Mode != render.ModePerturbation {
		t.Fatalf("mode = %v, want perturbation", f.Mode)
	}
	if len(f.Orbit) < 2 || len(f.Orbit) > orbit.MaxPoints {
		t.Fatalf("orbit has %d points", len(f.Orbit))
	}
	if want := int(f.Iterations); c.Reference().Iterations() > want {
		t.Fatalf("reference covers %d iterations, more than %d", c.Reference().Iterations(), want)
	}

	c.SetExponent(2.5)
	f = c.Frame(t0)
	if f.Mode != render.ModeRegular || f.Orbit != nil {
		t.Fatalf("non-integer exponent: mode = %v", f.Mode)
	}
	if !f.Primary.Dirty {
		t.Fatal("mode change did not dirty the primary view")
	}
}

func TestReferenceRebuiltOnlyWhenInvalidated(t *testing.T) {
	c := newController(t)
	c.JumpTo(1e6, bignum.FromComplex128(complex(-0.75, 0.1), bignum.DeepPrec))
	c.Frame(t0)
	ref := c.Reference()

	c.SetPalette(render.PaletteNeon)
	c.SetStyle(render.StyleFinalAngle)
	c.Frame(t0)
	if c.Reference() != ref {
		t.Fatal("style change rebuilt the reference orbit")
	}

	c.SetEscapeRadius(4)
	c.Frame(t0)
	if c.Reference() == ref {
		t.Fatal("escape radius change kept the reference orbit")
	}
}

func TestHeldKeyZooms(t *testing.T) {
	c := newController(t)
	c.Key(KeyZoomIn, true)
	c.Frame(t0.Add(time.Second))
	if got := c.Primary().Zoom; math.Abs(got-0.3*zoomRate) > 1e-12 {
		t.Fatalf("zoom = %v, want %v", got, 0.3*zoomRate)
	}
	c.Key(KeyZoomOut, false)
	c.Frame(t0.Add(2 * time.Second))
	if got := c.Primary().Zoom; math.Abs(got-0.3*zoomRate*zoomRate) > 1e-12 {
		t.Fatalf("releasing the opposite key stopped zooming: %v", got)
	}
	c.Key(KeyZoomIn, false)
	before := c.Primary().Zoom
	c.Frame(t0.Add(3 * time.Second))
	if c.Primary().Zoom != before {
		t.Fatal("zoom changed after release")
	}
}

func TestExponentKeys(t *testing.T) {
	c := newController(t)
	c.Key(KeyExponentCeil, true)
	if c.Exponent() != 3 {
		t.Fatalf("exponent = %v, want 3", c.Exponent())
	}
	c.SetExponent(2.4)
	c.Key(KeyExponentFloor, true)
	if c.Exponent() != 2 {
		t.Fatalf("exponent = %v, want 2", c.Exponent())
	}
	c.SetExponent(100)
	if c.Exponent() != MaxExponent {
		t.Fatalf("exponent = %v, want %v", c.Exponent(), MaxExponent)
	}
}

func TestEscapeRadiusClamped(t *testing.T) {
	c := newController(t)
	c.SetEscapeRadius(0.5)
	if c.EscapeRadius() != MinEscapeRadius {
		t.Fatalf("radius = %v", c.EscapeRadius())
	}
	c.SetEscapeRadius(1e9)
	if c.EscapeRadius() != MaxEscapeRadius {
		t.Fatalf("radius = %v", c.EscapeRadius())
	}
}

func TestToggleIterationModeKeepsCount(t *testing.T) {
	for _, zoom := range []float64{0.3, 1e3, 1e20} {
		n := NumIterations{N: 25, Mode: CountAdditional}
		want := n.Count(zoom)
		n.Toggle(zoom)
		if n.Mode != CountFixed || math.Abs(n.Count(zoom)-want) > 1e-9 {
			t.Fatalf("zoom %g: fixed count %v, want %v", zoom, n.Count(zoom), want)
		}
		n.Toggle(zoom)
		if n.Mode != CountAdditional || math.Abs(n.Count(zoom)-want) > 1e-9 {
			t.Fatalf("zoom %g: additional count %v, want %v", zoom, n.Count(zoom), want)
		}
	}
}

func TestWholeIterationSteps(t *testing.T) {
	n := NumIterations{N: 25, Mode: CountAdditional}
	zoom := 0.3
	n.Next(zoom)
	if got := n.Count(zoom); math.Abs(got-29) > 1e-9 {
		t.Fatalf("Next gave %v, want 29", got)
	}
	n.Prev(zoom)
	if got := n.Count(zoom); math.Abs(got-28) > 1e-9 {
		t.Fatalf("Prev gave %v, want 28", got)
	}
	n.Prev(zoom)
	if got := n.Count(zoom); math.Abs(got-27) > 1e-9 {
		t.Fatalf("second Prev gave %v, want 27", got)
	}

	f := NumIterations{N: 10.5, Mode: CountFixed}
	f.Prev(zoom)
	if f.N != 10 {
		t.Fatalf("fixed Prev = %v", f.N)
	}
	f.Next(zoom)
	if f.N != 11 {
		t.Fatalf("fixed Next = %v", f.N)
	}
}

func TestCapsAreValid(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("mustValidateCaps panicked: %v", r)
		}
	}()
	mustValidateCaps()
}

func TestInvalidationString(t *testing.T) {
	if got := (InvalidatePrimary | InvalidateMarker).String(); got != "primary|marker" {
		t.Fatalf("String = %q", got)
	}
}

func TestMarkerDrag(t *testing.T) {
	c := newController(t)
	c.SetMarker(true)
	c.Frame(t0)
	if _, ok := c.MarkerStats(); !ok {
		t.Fatal("marker orbit not traced")
	}

	mx, my := c.MarkerScreen()
	c.PointerMove(mx, my)
	if got := c.CursorShape(); got != CursorGrab {
		t.Fatalf("cursor over marker = %v, want CursorGrab", got)
	}
	c.PointerButton(ButtonLeft, true)
	if got := c.CursorShape(); got != CursorGrabbing {
		t.Fatalf("cursor while dragging = %v, want CursorGrabbing", got)
	}

	before := c.Primary().Translate.Complex128()
	c.PointerMove(mx+10, my)
	c.PointerButton(ButtonLeft, false)
	c.Frame(t0)
	if !c.LastInvalidation().Has(InvalidateMarker) {
		t.Fatalf("marker drag invalidated %v", c.LastInvalidation())
	}
	if got := c.Primary().Translate.Complex128(); got != before {
		t.Fatalf("primary panned to %v while dragging the marker", got)
	}
	if gx, gy := c.MarkerScreen(); math.Abs(gx-(mx+10)) > 1e-6 || math.Abs(gy-my) > 1e-6 {
		t.Fatalf("marker at (%v, %v), want (%v, %v)", gx, gy, mx+10, my)
	}
}

func TestJumpTo(t *testing.T) {
	c := newController(t)
	center := bignum.FromComplex128(complex(-0.74275, 0.13175), bignum.DeepPrec)

	c.JumpTo(1e20, center)
	f := c.Frame(t0)
	if f.Primary.Zoom != 1e20 || f.Mode != render.ModePerturbation {
		t.Fatalf("zoom %g mode %s", f.Primary.Zoom, f.Mode)
	}
	if inv := c.LastInvalidation(); !inv.Has(InvalidatePrimary) || !inv.Has(InvalidateReference) {
		t.Fatalf("jump invalidated %v", inv)
	}
	if !c.Primary().Translate.Equal(center) {
		t.Fatal("translate not moved to the center")
	}

	c.JumpTo(1e40, center)
	if got := c.Primary().Zoom; got != camera.PrimaryLimits.Max {
		t.Fatalf("zoom %g, want clamped to %g", got, camera.PrimaryLimits.Max)
	}
}
