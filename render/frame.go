package render

import (
	"github.com/marben/deepzoom/camera"
)

// Mode selects how the primary view is iterated.
type Mode int

const (
	ModeRegular Mode = iota
	ModePerturbation
)

func (m Mode) String() string {
	if m == ModePerturbation {
		return "perturbation"
	}
	return "regular"
}

// ViewParams is one camera downcast for a frame. Center is only used
// directly by the regular kernel; the perturbation kernel works on the
// offset from it.
type ViewParams struct {
	Center complex128
	Zoom   float64
	Dirty  bool
}

// Frame is the immutable per-frame parameter block handed to the renderer.
type Frame struct {
	Width, Height int

	Primary, Secondary ViewParams
	Split              camera.Split

	Mode Mode
	// Orbit is the reference orbit around Primary.Center, used in
	// ModePerturbation.
	Orbit []complex128

	Iterations   float64
	Exponent     float64
	EscapeRadius float64

	Style     Style
	Partition Partition

	Palette       Palette
	PalettePeriod float64
	Smoothing     float64
	AnimateTime   float64

	// Marker is the Julia seed of the secondary view.
	Marker           complex128
	ShowMarker       bool
	MarkerX, MarkerY float64
	MarkerPoints     []complex128
}

func (f *Frame) Params() Params {
	return Params{
		Iterations:   f.Iterations,
		Exponent:     f.Exponent,
		EscapeRadius: f.EscapeRadius,
	}
}

func (f *Frame) Mapper() camera.Mapper {
	return camera.NewMapper(f.Width, f.Height)
}

func (f *Frame) view(v camera.View) ViewParams {
	if v == camera.Secondary {
		return f.Secondary
	}
	return f.Primary
}

// Owner returns the view the pixel center (x, y) belongs to.
func (f *Frame) Owner(x, y float64) camera.View {
	return f.Split.Owner(float64(f.Width), float64(f.Height), x, y)
}

// shade iterates the pixel center (x, y) with the kernel of its view.
func (f *Frame) shade(m camera.Mapper, v camera.View, x, y float64) Cell {
	p := f.Params()
	if v == camera.Secondary {
		z0 := f.Secondary.Center + m.Offset(f.Secondary.Zoom, x, y)
		return shade(Regular{Z0: z0, C: f.Marker}, p, f.Style, f.Partition)
	}

	dc := m.Offset(f.Primary.Zoom, x, y)
	if f.Mode == ModePerturbation {
		if e, ok := PerturbationExponent(f.Exponent); ok {
			k := Perturbed{DC: dc, Center: f.Primary.Center, Orbit: f.Orbit, Exponent: e}
			return shade(k, p, f.Style, f.Partition)
		}
	}
	return shade(Regular{C: f.Primary.Center + dc}, p, f.Style, f.Partition)
}
