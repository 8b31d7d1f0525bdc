// Package render runs the per-pixel escape-time kernels, keeps the
// render-parameter cache and colorizes it into an image.
package render

import (
	"math"
	"math/cmplx"

	"github.com/marben/deepzoom/orbit"
)

// Params are the iteration parameters shared by every pixel of a frame.
// Iterations may be fractional; the fraction decides whether pixels that
// escape exactly at the cap count as inside.
type Params struct {
	Iterations   float64
	Exponent     float64
	EscapeRadius float64
}

func (p Params) cap() int {
	n := int(p.Iterations)
	return min(max(n, 0), orbit.MaxIterations)
}

func (p Params) radiusSq() float64 {
	r := max(p.EscapeRadius, orbit.MinEscapeRadius)
	return r * r
}

// Result is the outcome of iterating one pixel.
type Result struct {
	Inside    bool
	Count     int
	Proximity float64
}

func (p Params) result(i int, prevNorm, norm float64) Result {
	r2 := p.radiusSq()
	h := orbit.Proximity(prevNorm, norm, r2)
	_, frac := math.Modf(p.Iterations)
	inside := norm < r2 || (i == p.cap() && frac < h)
	return Result{Inside: inside, Count: i, Proximity: h}
}

// kernel is implemented by the two iteration strategies. It is used as a
// type constraint so each strategy gets its own instantiation of shade.
type kernel interface {
	Seed() complex128
	Iterate(p Params, visit func(z complex128)) Result
}

// Regular iterates z <- z^p + c directly in float64. It serves shallow
// zoom, the Julia view and non-integer exponents.
type Regular struct {
	Z0, C complex128
}

func (k Regular) Seed() complex128 { return k.Z0 }

func (k Regular) Iterate(p Params, visit func(z complex128)) Result {
	step := orbit.Stepper(k.C, p.Exponent)
	maxIter := p.cap()
	r2 := p.radiusSq()

	z := k.Z0
	i := 0
	prevNorm, norm := 0.0, norm2(z)
	for norm < r2 && i < maxIter {
		z = step(z)
		prevNorm, norm = norm, norm2(z)
		i++
		if visit != nil {
			visit(z)
		}
	}
	return p.result(i, prevNorm, norm)
}

// Perturbed iterates the delta between a pixel and the reference orbit.
// DC is the pixel's offset from the reference center. Exponent must be an
// integer >= 2; the reference orbit must have been computed with it.
type Perturbed struct {
	DC       complex128
	Center   complex128
	Orbit    []complex128
	Exponent int
}

func (k Perturbed) Seed() complex128 { return 0 }

func (k Perturbed) Iterate(p Params, visit func(z complex128)) Result {
	ref := k.Orbit
	n := len(ref) - 1
	if n < 1 {
		return Regular{C: k.Center + k.DC}.Iterate(p, visit)
	}
	maxIter := p.cap()
	r2 := p.radiusSq()
	step := k.delta()

	var dz complex128
	refI, i := 0, 0
	prevNorm, norm := 0.0, 0.0
	for norm < r2 && i < maxIter {
		dz = step(ref[refI], dz)
		refI++
		z := ref[refI] + dz
		prevNorm, norm = norm, norm2(z)
		i++
		if visit != nil {
			visit(z)
		}
		// Rebase once the delta dominates the value or the reference runs
		// out: restart from the full value against the reference seed.
		if norm < norm2(dz) || refI >= n {
			dz = z
			refI = 0
		}
	}
	return p.result(i, prevNorm, norm)
}

// delta returns the update dz' = (Z+dz)^p - Z^p + dc written without the
// cancelling subtraction.
func (k Perturbed) delta() func(zr, dz complex128) complex128 {
	dc := k.DC
	if k.Exponent <= 2 {
		return func(zr, dz complex128) complex128 {
			return 2*zr*dz + dz*dz + dc
		}
	}
	p := k.Exponent
	binom := binomials(p)
	pows := make([]complex128, p)
	return func(zr, dz complex128) complex128 {
		// pows[j] = zr^j
		pows[0] = 1
		for j := 1; j < p; j++ {
			pows[j] = pows[j-1] * zr
		}
		sum := complex128(0)
		dzk := dz
		for j := 1; j <= p; j++ {
			sum += complex(binom[j], 0) * pows[p-j] * dzk
			dzk *= dz
		}
		return sum + dc
	}
}

func binomials(n int) []float64 {
	b := make([]float64, n+1)
	b[0] = 1
	for k := 1; k <= n; k++ {
		b[k] = b[k-1] * float64(n-k+1) / float64(k)
	}
	return b
}

// PerturbationExponent reports whether exponent can be iterated with the
// perturbation kernel, and as which integer.
func PerturbationExponent(exponent float64) (int, bool) {
	if exponent < 2 || exponent != math.Trunc(exponent) || exponent > 64 {
		return 0, false
	}
	return int(exponent), true
}

func norm2(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

func abs(z complex128) float64 {
	return cmplx.Abs(z)
}
