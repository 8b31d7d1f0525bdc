// Package controller turns pointer, touch and keyboard events into camera
// and parameter changes, and assembles the per-frame render parameters.
// All methods must be called from a single input goroutine.
package controller

import (
	"math"
	"time"

	"github.com/marben/deepzoom/bignum"
	"github.com/marben/deepzoom/camera"
	"github.com/marben/deepzoom/orbit"
	"github.com/marben/deepzoom/render"
)

const (
	// PerturbationZoom is the primary zoom above which the reference orbit
	// and the perturbation kernel take over.
	PerturbationZoom = 1000

	// MarkerMaxZoom is the deepest primary zoom the marker orbit is still
	// traced at. Its float64 points stop resolving on screen beyond it.
	MarkerMaxZoom = 1e12

	// MarkerRadius is the on-screen radius of the marker, in pixels.
	MarkerRadius = 8

	splitTolerance = 0.004
	scrollStep     = 0.1
	longPress      = 700 * time.Millisecond

	MinEscapeRadius = orbit.MinEscapeRadius
	MaxEscapeRadius = 10000
	MinExponent     = -10
	MaxExponent     = 10
)

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Cursor is the pointer shape the window should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
	CursorResizeHorizontal
	CursorResizeVertical
)

type marker struct {
	enabled  bool
	dragging bool
	position bignum.Complex
	traj     orbit.Trajectory
}

type animation struct {
	enabled bool
	reverse bool
	speed   float64
	value   float64
}

type smoothing struct {
	enabled bool
	value   float64
}

func (s smoothing) factor() float64 {
	if s.enabled {
		return s.value
	}
	return 0
}

// Controller owns both cameras and every user-facing render parameter.
type Controller struct {
	w, h             int
	cursorX, cursorY float64

	primary, secondary *camera.Camera

	iterations   NumIterations
	exponent     float64
	escapeRadius float64
	style        render.Style
	partition    render.Partition

	palette       render.Palette
	palettePeriod float64
	smooth        smoothing
	anim          animation

	split         camera.Split
	splitDragging bool
	marker        marker

	contextMenu   bool
	contextX      float64
	contextY      float64
	ctrlDown      bool
	deltas        deltas
	touches       map[int]*touch
	lastFrame     time.Time
	pending       Invalidation
	mode          render.Mode
	reference     *orbit.Reference
	referenceOK   bool
	consumed      Invalidation
}

// New returns a controller with the default cameras: the whole Mandelbrot
// set on the primary view and a Julia set around the origin on the
// secondary one.
func New() *Controller {
	return &Controller{
		primary:   camera.New(0.3, bignum.FromComplex128(complex(-0.75, 0), bignum.DeepPrec), camera.PrimaryLimits),
		secondary: camera.New(0.25, bignum.NewComplex(bignum.DeepPrec), camera.SecondaryLimits),

		iterations:    NumIterations{N: 25, Mode: CountAdditional},
		exponent:      2,
		escapeRadius:  2,
		palettePeriod: 0.5,
		smooth:        smoothing{enabled: true, value: 1},
		anim:          animation{enabled: true, speed: 0.1},
		split:         camera.Split{Value: 0.5},
		marker: marker{
			position: bignum.FromComplex128(complex(-0.767294, -0.169140), bignum.DeepPrec),
		},
		touches: make(map[int]*touch),
		pending: invalidateAll,
	}
}

func (c *Controller) invalidate(i Invalidation) {
	c.pending |= i
}

// primaryChanged is raised whenever the primary camera moved or zoomed.
func (c *Controller) primaryChanged() {
	c.invalidate(InvalidatePrimary | InvalidateReference | InvalidateMarker)
}

func (c *Controller) mapper() camera.Mapper {
	return camera.NewMapper(c.w, c.h)
}

// Resize sets the render size in pixels.
func (c *Controller) Resize(w, h int) {
	if w == c.w && h == c.h {
		return
	}
	c.w, c.h = max(w, 0), max(h, 0)
	c.invalidate(invalidateViews)
}

func (c *Controller) Size() (w, h int) {
	return c.w, c.h
}

// InSecondary reports whether the pixel (x, y) belongs to the Julia view.
func (c *Controller) InSecondary(x, y float64) bool {
	return c.split.Owner(float64(c.w), float64(c.h), x, y) == camera.Secondary
}

// OnSplit reports whether (x, y) is close enough to the split line to
// grab it.
func (c *Controller) OnSplit(x, y float64) bool {
	if !c.split.Enabled || c.w == 0 || c.h == 0 {
		return false
	}
	w, h := float64(c.w), float64(c.h)
	size := h
	if camera.Vertical(w, h) {
		size = w
	}
	return c.split.Distance(w, h, x, y)/size < splitTolerance
}

// OnMarker reports whether (x, y) is over the marker disk.
func (c *Controller) OnMarker(x, y float64) bool {
	if !(c.marker.enabled || c.split.Enabled) || c.InSecondary(x, y) {
		return false
	}
	mx, my := c.MarkerScreen()
	dx, dy := x-mx, y-my
	return dx*dx+dy*dy < MarkerRadius*MarkerRadius
}

// MarkerScreen is the marker position in pixels on the primary view.
func (c *Controller) MarkerScreen() (x, y float64) {
	return c.mapper().ToScreenBig(c.primary, c.marker.position)
}

func (c *Controller) cameraAt(x, y float64) *camera.Camera {
	if c.InSecondary(x, y) {
		return c.secondary
	}
	return c.primary
}

func (c *Controller) cameraChanged(cam *camera.Camera) {
	if cam == c.primary {
		c.primaryChanged()
		return
	}
	c.invalidate(InvalidateSecondary)
}

// moveSplit drags the split line by the pointer motion from (px, py) to
// (x, y) and invalidates the view that gained pixels.
func (c *Controller) moveSplit(px, py, x, y float64) {
	w, h := float64(c.w), float64(c.h)
	var d float64
	if camera.Vertical(w, h) {
		d = (px - x) / w
	} else {
		d = (py - y) / h
	}
	c.split.Value -= d
	switch {
	case d > 0:
		c.invalidate(InvalidateSecondary)
	case d < 0:
		c.invalidate(InvalidatePrimary)
	}
}

// moveMarker drags the marker by the pointer motion on the primary view.
func (c *Controller) moveMarker(px, py, x, y float64) {
	m := c.mapper()
	d := m.Offset(c.primary.Zoom, x, y) - m.Offset(c.primary.Zoom, px, py)
	c.marker.position = c.marker.position.AddFloat(d)
	c.invalidate(InvalidateMarker | InvalidateSecondary)
}

// PointerMove handles a cursor motion to (x, y).
func (c *Controller) PointerMove(x, y float64) {
	px, py := c.cursorX, c.cursorY
	c.cursorX, c.cursorY = x, y
	switch {
	case c.marker.dragging:
		c.moveMarker(px, py, x, y)
	case c.splitDragging:
		c.moveSplit(px, py, x, y)
	default:
		if c.h == 0 {
			return
		}
		delta := complex((px-x)/float64(c.h), (py-y)/float64(c.h))
		for _, cam := range []*camera.Camera{c.primary, c.secondary} {
			if cam.Grabbing && delta != 0 {
				c.contextMenu = false
				cam.Pan(delta)
				c.cameraChanged(cam)
			}
		}
	}
}

// PointerButton handles a press or release at the current cursor position.
func (c *Controller) PointerButton(b Button, pressed bool) {
	switch b {
	case ButtonLeft:
		if pressed {
			c.marker.dragging = c.OnMarker(c.cursorX, c.cursorY)
			c.splitDragging = c.OnSplit(c.cursorX, c.cursorY)
			c.cameraAt(c.cursorX, c.cursorY).Grabbing = !c.marker.dragging && !c.splitDragging
			return
		}
		c.marker.dragging = false
		c.splitDragging = false
		c.primary.Grabbing = false
		c.secondary.Grabbing = false
		c.split.Value = min(max(c.split.Value, 0), 1)
	case ButtonRight:
		if pressed {
			c.openContextMenu(c.cursorX, c.cursorY)
		}
	}
}

// Scroll zooms the view under the cursor by 1 + 0.1*dy, keeping the plane
// point under the cursor in place.
func (c *Controller) Scroll(dy float64) {
	if dy == 0 {
		return
	}
	cam := c.cameraAt(c.cursorX, c.cursorY)
	if cam.ZoomAt(c.mapper(), c.cursorX, c.cursorY, 1+scrollStep*dy) {
		c.cameraChanged(cam)
	}
}

func (c *Controller) openContextMenu(x, y float64) {
	c.contextMenu = true
	c.contextX, c.contextY = x, y
}

// ContextMenu returns where the context menu is open.
func (c *Controller) ContextMenu() (x, y float64, ok bool) {
	return c.contextX, c.contextY, c.contextMenu
}

func (c *Controller) CloseContextMenu() {
	c.contextMenu = false
}

// ShowIterationsAt moves the marker to the plane point under (x, y) and
// turns it on.
func (c *Controller) ShowIterationsAt(x, y float64) {
	c.marker.position = c.mapper().ToPlaneBig(c.primary, x, y)
	c.marker.enabled = true
	c.contextMenu = false
	c.invalidate(InvalidateMarker | InvalidateSecondary)
}

// CursorShape is the pointer shape matching what a press would grab.
func (c *Controller) CursorShape() Cursor {
	resize := CursorResizeVertical
	if camera.Vertical(float64(c.w), float64(c.h)) {
		resize = CursorResizeHorizontal
	}
	switch {
	case c.marker.dragging:
		return CursorGrabbing
	case c.splitDragging:
		return resize
	case c.OnMarker(c.cursorX, c.cursorY):
		return CursorGrab
	case c.OnSplit(c.cursorX, c.cursorY):
		return resize
	}
	return CursorDefault
}

// JumpTo moves the primary camera to zoom and center.
func (c *Controller) JumpTo(zoom float64, center bignum.Complex) {
	c.primary.Translate = center.WithPrec(bignum.DeepPrec)
	c.primary.SetZoom(zoom)
	c.primaryChanged()
}

func (c *Controller) Primary() camera.Camera {
	return c.primary.Clone()
}

func (c *Controller) Secondary() camera.Camera {
	return c.secondary.Clone()
}

func (c *Controller) SetStyle(s render.Style) {
	if s != c.style {
		c.style = s
		c.invalidate(invalidateViews)
	}
}

func (c *Controller) Style() render.Style { return c.style }

func (c *Controller) SetPartition(p render.Partition) {
	if p != c.partition {
		c.partition = p
		c.invalidate(invalidateViews)
	}
}

func (c *Controller) Partition() render.Partition { return c.partition }

func (c *Controller) SetPalette(p render.Palette) { c.palette = p }
func (c *Controller) Palette() render.Palette     { return c.palette }

func (c *Controller) SetPalettePeriod(v float64) {
	if v > 0 {
		c.palettePeriod = v
	}
}

func (c *Controller) SetSmoothing(enabled bool, value float64) {
	c.smooth = smoothing{enabled: enabled, value: max(value, 0)}
}

func (c *Controller) SetAnimation(enabled, reverse bool) {
	c.anim.enabled, c.anim.reverse = enabled, reverse
}

func (c *Controller) SetAnimationSpeed(v float64) {
	c.anim.speed = max(v, 0)
}

// SetEscapeRadius clamps r into [MinEscapeRadius, MaxEscapeRadius].
func (c *Controller) SetEscapeRadius(r float64) {
	r = min(max(r, MinEscapeRadius), MaxEscapeRadius)
	if r != c.escapeRadius {
		c.escapeRadius = r
		c.invalidate(invalidateAll)
	}
}

func (c *Controller) EscapeRadius() float64 { return c.escapeRadius }

// SetExponent clamps e into [MinExponent, MaxExponent].
func (c *Controller) SetExponent(e float64) {
	e = min(max(e, MinExponent), MaxExponent)
	if e != c.exponent {
		c.exponent = e
		c.invalidate(invalidateAll)
	}
}

func (c *Controller) Exponent() float64 { return c.exponent }

// SetIterations sets N of the current mode, clamped to its range.
func (c *Controller) SetIterations(n float64) {
	c.iterations.N = n
	c.iterations.clamp(c.primary.Zoom)
	c.invalidate(invalidateAll)
}

func (c *Controller) ToggleIterationMode() {
	c.iterations.Toggle(c.primary.Zoom)
}

func (c *Controller) PrevIteration() {
	c.iterations.Prev(c.primary.Zoom)
	c.iterations.clamp(c.primary.Zoom)
	c.invalidate(invalidateAll)
}

func (c *Controller) NextIteration() {
	c.iterations.Next(c.primary.Zoom)
	c.iterations.clamp(c.primary.Zoom)
	c.invalidate(invalidateAll)
}

// Iterations is the effective iteration count at the current zoom.
func (c *Controller) Iterations() float64 {
	return c.iterations.Count(c.primary.Zoom)
}

func (c *Controller) IterationSetting() NumIterations { return c.iterations }

// SetJulia shows or hides the secondary view.
func (c *Controller) SetJulia(enabled bool) {
	if enabled != c.split.Enabled {
		c.split.Enabled = enabled
		c.invalidate(invalidateViews)
	}
}

func (c *Controller) Julia() bool { return c.split.Enabled }

// SetMarker shows or hides the marker orbit.
func (c *Controller) SetMarker(enabled bool) {
	if enabled != c.marker.enabled {
		c.marker.enabled = enabled
		c.invalidate(InvalidateMarker)
	}
}

func (c *Controller) MarkerEnabled() bool { return c.marker.enabled }

// MarkerStats returns the statistics of the current marker orbit.
func (c *Controller) MarkerStats() (orbit.Stats, bool) {
	return c.marker.traj.Stats, c.marker.enabled && len(c.marker.traj.Points) > 0
}

// Mode is the iteration mode chosen for the last frame.
func (c *Controller) Mode() render.Mode { return c.mode }

// Reference is the reference orbit of the last perturbation frame.
func (c *Controller) Reference() *orbit.Reference { return c.reference }

// LastInvalidation is the invalidation set consumed by the last Frame.
func (c *Controller) LastInvalidation() Invalidation { return c.consumed }

func (c *Controller) chooseMode() render.Mode {
	if c.primary.Zoom > PerturbationZoom {
		if _, ok := render.PerturbationExponent(c.exponent); ok {
			return render.ModePerturbation
		}
	}
	return render.ModeRegular
}

// Frame advances the continuous inputs to now, consumes the pending
// invalidations, refreshes the reference and marker orbits if they went
// stale and returns the parameter block for the renderer.
func (c *Controller) Frame(now time.Time) render.Frame {
	dt := 0.0
	if !c.lastFrame.IsZero() {
		dt = now.Sub(c.lastFrame).Seconds()
	}
	c.lastFrame = now
	c.tickAnimation(dt)
	c.applyDeltas(dt)

	inv := c.pending
	c.pending = 0
	mode := c.chooseMode()
	if mode != c.mode {
		inv |= InvalidatePrimary
		c.mode = mode
	}
	c.consumed = inv
	if inv.Has(InvalidateReference) {
		c.referenceOK = false
	}
	iters := c.Iterations()
	if mode == render.ModePerturbation && !c.referenceOK {
		e, _ := render.PerturbationExponent(c.exponent)
		c.reference = orbit.Compute(c.primary.Translate, e, c.escapeRadius, int(iters), bignum.OrbitPrec)
		c.referenceOK = true
	}
	if inv.Has(InvalidateMarker) {
		c.recomputeMarker(iters)
	}

	mx, my := c.MarkerScreen()
	f := render.Frame{
		Width:  c.w,
		Height: c.h,
		Primary: render.ViewParams{
			Center: c.primary.Translate.Complex128(),
			Zoom:   c.primary.Zoom,
			Dirty:  inv.Has(InvalidatePrimary),
		},
		Secondary: render.ViewParams{
			Center: c.secondary.Translate.Complex128(),
			Zoom:   c.secondary.Zoom,
			Dirty:  inv.Has(InvalidateSecondary),
		},
		Split:         c.split,
		Mode:          mode,
		Iterations:    iters,
		Exponent:      c.exponent,
		EscapeRadius:  c.escapeRadius,
		Style:         c.style,
		Partition:     c.partition,
		Palette:       c.palette,
		PalettePeriod: c.palettePeriod,
		Smoothing:     c.smooth.factor(),
		AnimateTime:   c.anim.value,
		Marker:        c.marker.position.Complex128(),
		MarkerX:       mx,
		MarkerY:       my,
		ShowMarker:    c.marker.enabled && len(c.marker.traj.Points) > 0,
		MarkerPoints:  c.marker.traj.Points,
	}
	if mode == render.ModePerturbation {
		f.Orbit = c.reference.Points
	}
	return f
}

func (c *Controller) tickAnimation(dt float64) {
	if !c.anim.enabled {
		return
	}
	sign := 1.0
	if c.anim.reverse {
		sign = -1
	}
	c.anim.value += sign * c.anim.speed * dt
}

func (c *Controller) recomputeMarker(iters float64) {
	c.marker.traj = orbit.Trajectory{}
	if !c.marker.enabled || c.primary.Zoom > MarkerMaxZoom {
		return
	}
	if c.mode == render.ModePerturbation && c.referenceOK && c.exponent == 2 &&
		c.marker.position.Equal(c.primary.Translate) {
		c.marker.traj = orbit.MarkerFromReference(c.reference, c.escapeRadius)
		return
	}
	p := c.marker.position.Complex128()
	c.marker.traj = orbit.Marker(p, c.exponent, c.escapeRadius, int(math.Ceil(iters)))
}
