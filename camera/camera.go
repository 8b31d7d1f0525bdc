// Package camera holds the per-view camera state and the screen <-> plane
// mapping shared by the controller, the renderer and the orbit overlay.
package camera

import (
	"github.com/marben/deepzoom/bignum"
)

// Limits bounds the zoom of one view.
type Limits struct {
	Min, Max float64
}

var (
	// PrimaryLimits is the range of the Mandelbrot view. The maximum is the
	// depth the reference orbit and iteration caps are sized for.
	PrimaryLimits = Limits{Min: 0.05, Max: 1e36}

	// SecondaryLimits is the range of the Julia view, which is always
	// iterated directly in float64.
	SecondaryLimits = Limits{Min: 0.05, Max: 999999.9}
)

func (l Limits) Clamp(zoom float64) float64 {
	if zoom != zoom || zoom < l.Min {
		return l.Min
	}
	if zoom > l.Max {
		return l.Max
	}
	return zoom
}

// Camera is the zoom and translate of one view. Zoom always lies inside
// Limits; every mutation goes through SetZoom.
type Camera struct {
	Zoom      float64
	Translate bignum.Complex
	Grabbing  bool
	Limits    Limits
}

func New(zoom float64, translate bignum.Complex, limits Limits) *Camera {
	return &Camera{
		Zoom:      limits.Clamp(zoom),
		Translate: translate.WithPrec(bignum.DeepPrec),
		Limits:    limits,
	}
}

// SetZoom clamps zoom into the camera's limits and reports whether it changed.
func (c *Camera) SetZoom(zoom float64) bool {
	zoom = c.Limits.Clamp(zoom)
	if zoom == c.Zoom {
		return false
	}
	c.Zoom = zoom
	return true
}

// Pan moves the camera by delta, given in units of screen heights. The
// delta is divided by zoom in arbitrary precision.
func (c *Camera) Pan(delta complex128) {
	if delta == 0 {
		return
	}
	d := bignum.FromComplex128(delta, bignum.DeepPrec).QuoFloat(c.Zoom)
	c.Translate = c.Translate.Add(d)
}

// ZoomAt multiplies zoom by factor while keeping the plane point under
// anchor fixed on screen. It reports whether anything changed.
func (c *Camera) ZoomAt(m Mapper, anchorX, anchorY, factor float64) bool {
	before := m.ToPlaneOffsetBig(c, anchorX, anchorY)
	if !c.SetZoom(c.Zoom * factor) {
		return false
	}
	after := m.ToPlaneOffsetBig(c, anchorX, anchorY)
	c.Translate = c.Translate.Add(before.Sub(after))
	return true
}

// Clone returns a deep enough copy for snapshotting: bignum values are
// immutable, so sharing them is safe.
func (c *Camera) Clone() Camera {
	return *c
}
