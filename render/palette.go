package render

import (
	"image/color"
	"math"
)

// Palette selects one of the cosine gradients a + b*cos(2π(c*t + d)).
type Palette uint32

const (
	PaletteRainbow Palette = iota
	PaletteEmber
	PaletteDusk
	PaletteMoss
	PaletteNeon
	PaletteCopper
	numPalettes
)

type rgb struct{ r, g, b float64 }

var palettes = [numPalettes]struct {
	name       string
	a, b, c, d rgb
}{
	{"Rainbow", rgb{.5, .5, .5}, rgb{.5, .5, .5}, rgb{1, 1, 1}, rgb{0, .33, .67}},
	{"Ember", rgb{.5, .5, .5}, rgb{.5, .5, .5}, rgb{1, 1, 1}, rgb{0, .10, .20}},
	{"Dusk", rgb{.5, .5, .5}, rgb{.5, .5, .5}, rgb{1, 1, 1}, rgb{.3, .20, .20}},
	{"Moss", rgb{.5, .5, .5}, rgb{.5, .5, .5}, rgb{1, 1, .5}, rgb{.8, .90, .30}},
	{"Neon", rgb{.5, .5, .5}, rgb{.5, .5, .5}, rgb{2, 1, 0}, rgb{.5, .20, .25}},
	{"Copper", rgb{.8, .5, .4}, rgb{.2, .4, .2}, rgb{2, 1, 1}, rgb{0, .25, .25}},
}

func (p Palette) String() string {
	if p < numPalettes {
		return palettes[p].name
	}
	return "Palette(?)"
}

func (p Palette) Next() Palette {
	return (p + 1) % numPalettes
}

func (p Palette) at(t float64) rgb {
	if p >= numPalettes {
		p = PaletteRainbow
	}
	q := palettes[p]
	return rgb{
		q.a.r + q.b.r*math.Cos(2*math.Pi*(q.c.r*t+q.d.r)),
		q.a.g + q.b.g*math.Cos(2*math.Pi*(q.c.g*t+q.d.g)),
		q.a.b + q.b.b*math.Cos(2*math.Pi*(q.c.b*t+q.d.b)),
	}
}

func lerp(x, y, a float64) float64 {
	return x*(1-a) + y*a
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 == edge0 {
		if x >= edge1 {
			return 1
		}
		return 0
	}
	x = math.Min(math.Max((x-edge0)/(edge1-edge0), 0), 1)
	return x * x * (3 - 2*x)
}

func toByte(v float64) uint8 {
	return uint8(math.Min(math.Max(v, 0), 1)*255 + 0.5)
}

// scale returns the palette period and phase for a style. Angle styles wrap
// every full turn, iteration-like styles are slowed down.
func (f *Frame) scale() (period, phase float64) {
	period, t := f.PalettePeriod, f.AnimateTime
	switch f.Style {
	case StyleIterations:
		return 0.2 * period, -t
	case StyleFinalAngle:
		return math.Exp2(math.Floor(period*3)) / (2 * math.Pi), -t
	case StyleAngleSum:
		return period / (2 * math.Pi), t
	case StyleDistanceSum, StyleNormSum:
		return 0.1 * period, -t
	}
	return period, t
}

// colorize turns a cached cell into a pixel color.
func (f *Frame) colorize(c Cell, period, phase float64) color.RGBA {
	if !c.Visible() {
		return color.RGBA{A: 0xff}
	}
	c0 := f.Palette.at(float64(c.X0)*period + phase)
	c1 := f.Palette.at(float64(c.X1)*period + phase)
	s := smoothstep(0, f.Smoothing, float64(c.H))
	return color.RGBA{
		R: toByte(lerp(c0.r, c1.r, s)),
		G: toByte(lerp(c0.g, c1.g, s)),
		B: toByte(lerp(c0.b, c1.b, s)),
		A: 0xff,
	}
}
