package camera

import (
	"github.com/marben/deepzoom/bignum"
)

// Mapper converts between screen pixels and plane coordinates for a
// viewport of W x H pixels:
//
//	plane = translate + (screen - 0.5*size) / (zoom * H)
//
// The x offset is implicitly aspect corrected because both axes are divided
// by the height.
type Mapper struct {
	W, H float64
}

func NewMapper(w, h int) Mapper {
	return Mapper{W: float64(w), H: float64(h)}
}

// Offset is the plane offset of pixel (x, y) from the camera center at
// machine precision. It is the dc of the perturbation kernel.
func (m Mapper) Offset(zoom, x, y float64) complex128 {
	if m.H == 0 || zoom == 0 {
		return 0
	}
	s := 1 / (zoom * m.H)
	return complex((x-0.5*m.W)*s, (y-0.5*m.H)*s)
}

// ToPlane maps a pixel to the plane at machine precision.
func (m Mapper) ToPlane(c *Camera, x, y float64) complex128 {
	return c.Translate.Complex128() + m.Offset(c.Zoom, x, y)
}

// ToScreen is the inverse of ToPlane.
func (m Mapper) ToScreen(c *Camera, z complex128) (x, y float64) {
	return m.FromOffset(c.Zoom, z-c.Translate.Complex128())
}

// ToPlaneBig maps a pixel to the plane without losing the translate's
// precision.
func (m Mapper) ToPlaneBig(c *Camera, x, y float64) bignum.Complex {
	return c.Translate.AddFloat(m.Offset(c.Zoom, x, y))
}

// ToScreenBig is the inverse of ToPlaneBig. The difference to the
// translate is taken in arbitrary precision before downcasting, so points
// near the camera map correctly at any depth.
func (m Mapper) ToScreenBig(c *Camera, z bignum.Complex) (x, y float64) {
	return m.FromOffset(c.Zoom, z.Sub(c.Translate).Complex128())
}

// ToPlaneOffsetBig is the pixel offset alone, divided by zoom in arbitrary
// precision. Used for zoom anchoring where the offset at two zooms is
// subtracted.
func (m Mapper) ToPlaneOffsetBig(c *Camera, x, y float64) bignum.Complex {
	if m.H == 0 {
		return bignum.NewComplex(bignum.DeepPrec)
	}
	p := complex((x-0.5*m.W)/m.H, (y-0.5*m.H)/m.H)
	return bignum.FromComplex128(p, bignum.DeepPrec).QuoFloat(c.Zoom)
}

// FromOffset maps a plane offset from the camera center back to a pixel.
func (m Mapper) FromOffset(zoom float64, d complex128) (x, y float64) {
	s := zoom * m.H
	return real(d)*s + 0.5*m.W, imag(d)*s + 0.5*m.H
}
