package deepzoom

import (
	"fmt"

	"github.com/marben/deepzoom/bignum"
)

// Preset is a named primary camera. Coordinates are strings so they keep
// every digit; hexadecimal mantissas with a binary exponent are accepted.
type Preset struct {
	Name   string
	Zoom   float64
	Re, Im string
}

// Center parses the preset's center at DeepPrec.
func (p Preset) Center() (bignum.Complex, error) {
	c, err := bignum.ParseComplex(p.Re, p.Im, bignum.DeepPrec)
	if err != nil {
		return bignum.Complex{}, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return c, nil
}

// Classic regions / landmarks in the Mandelbrot set, plus one at the
// deepest supported zoom. Zoom is the inverse of the visible plane height.
var Presets = []Preset{
	// whole set
	{Name: "home", Zoom: 0.3, Re: "-0.75", Im: "0"},
	// dense filaments and repeating "seahorse" curls
	{Name: "seahorse-valley", Zoom: 10, Re: "-0.75", Im: "0.1"},
	// large bulb with trunk-like tendrils
	{Name: "elephant-valley", Zoom: 12.5, Re: "-1.8", Im: "-0.06"},
	// small Mandelbrot copy with tight spiral arms
	{Name: "spiral-minibrot", Zoom: 666.7, Re: "-0.74275", Im: "0.13175"},
	// threefold symmetric spiral structure
	{Name: "triple-spiral", Zoom: 333.3, Re: "-0.7465", Im: "0.0965"},
	// deep, highly detailed spiral filaments
	{Name: "valley-of-the-dragon", Zoom: 200, Re: "-0.7375", Im: "0.1825"},
	// self-similar copy inside a spiral arm
	{Name: "minibrot-in-mini-spiral", Zoom: 666.7, Re: "-1.73825", Im: "-0.02275"},
	{
		Name: "deep",
		Zoom: 3e35,
		Re:   "-0x8bfc374d6c815dd288edd7d71619d8f7p-129",
		Im:   "0x6bd3af59997a5d2717ff7ca70d79844bp-127",
	},
}

// PresetByName looks a preset up by name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
