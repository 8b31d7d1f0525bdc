package controller

import (
	"fmt"
	"math"

	"github.com/marben/deepzoom/camera"
	"github.com/marben/deepzoom/orbit"
)

// MaxAdditional is the largest user offset in CountAdditional mode.
const MaxAdditional = 200

// CountMode selects how the iteration count follows the zoom.
type CountMode int

const (
	// CountAdditional adds 9*log2(zoom+1) to the user's count, so detail
	// keeps appearing as the view goes deeper.
	CountAdditional CountMode = iota
	// CountFixed uses the user's count as is.
	CountFixed
)

func (m CountMode) String() string {
	if m == CountFixed {
		return "fixed"
	}
	return "additional"
}

// NumIterations is the user's iteration setting. N is an offset in
// CountAdditional mode and the whole count in CountFixed mode.
type NumIterations struct {
	N    float64
	Mode CountMode
}

func additional(zoom float64) float64 {
	return 9 * math.Log2(zoom+1)
}

// Count is the effective, possibly fractional, iteration count at zoom.
func (n NumIterations) Count(zoom float64) float64 {
	if n.Mode == CountFixed {
		return n.N
	}
	return max(additional(zoom)+n.N, 1)
}

// Toggle switches mode while keeping the effective count.
func (n *NumIterations) Toggle(zoom float64) {
	if n.Mode == CountAdditional {
		n.N = n.Count(zoom)
		n.Mode = CountFixed
		return
	}
	n.N -= additional(zoom)
	n.Mode = CountAdditional
}

// Range is the interval N may be set to at zoom.
func (n NumIterations) Range(zoom float64) (lo, hi float64) {
	if n.Mode == CountFixed {
		return 0, orbit.MaxIterations - 1
	}
	return -additional(zoom), MaxAdditional
}

func (n *NumIterations) clamp(zoom float64) {
	lo, hi := n.Range(zoom)
	n.N = min(max(n.N, lo), hi)
}

// Prev steps the effective count down to the previous whole number.
func (n *NumIterations) Prev(zoom float64) {
	if n.Mode == CountFixed {
		n.N = wholeBelow(n.N)
		return
	}
	a := additional(zoom)
	n.N = wholeBelow(a+n.N) - a
}

// Next steps the effective count up to the next whole number.
func (n *NumIterations) Next(zoom float64) {
	if n.Mode == CountFixed {
		n.N = wholeAbove(n.N)
		return
	}
	a := additional(zoom)
	n.N = wholeAbove(a+n.N) - a
}

// wholeEps absorbs the rounding left by adding and removing the zoom term.
const wholeEps = 1e-9

func wholeBelow(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < wholeEps {
		return r - 1
	}
	return math.Floor(v)
}

func wholeAbove(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < wholeEps {
		return r + 1
	}
	return math.Ceil(v)
}

func init() {
	mustValidateCaps()
}

// mustValidateCaps panics if the largest count either mode can produce at
// the deepest primary zoom exceeds what the orbit buffers hold.
func mustValidateCaps() {
	zoom := camera.PrimaryLimits.Max
	for _, n := range []NumIterations{
		{N: orbit.MaxIterations, Mode: CountFixed},
		{N: MaxAdditional, Mode: CountAdditional},
	} {
		if c := n.Count(zoom); c > orbit.MaxIterations {
			panic(fmt.Sprintf("controller: %s iterations reach %.1f at zoom %g, cap is %d", n.Mode, c, zoom, orbit.MaxIterations))
		}
	}
}
