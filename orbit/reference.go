// Package orbit computes the arbitrary-precision reference orbit the render
// kernel perturbs around, and the single-point marker trajectory used for
// the orbit overlay.
package orbit

import (
	"github.com/marben/deepzoom/bignum"
)

const (
	// MaxIterations caps both the reference orbit and the marker. The
	// controller asserts at startup that its iteration formulas never ask
	// for more at the deepest zoom.
	MaxIterations = 1307

	// MaxPoints is the largest number of samples a Reference can hold.
	MaxPoints = MaxIterations + 1
)

// Reference is a downcast reference orbit. Points[0] is the seed z0 = 0 and
// Points[i] is z_i; the last point is either the first escaped value or the
// value at the iteration cap.
type Reference struct {
	Points  []complex128
	Escaped bool
}

// Iterations is the number of iterations the orbit covers, which is the
// largest valid reference index for the kernel.
func (r *Reference) Iterations() int {
	if r == nil || len(r.Points) == 0 {
		return 0
	}
	return len(r.Points) - 1
}

// EscapedAt returns the escape iteration, or false when the orbit reached
// the cap without escaping.
func (r *Reference) EscapedAt() (int, bool) {
	if r == nil || !r.Escaped {
		return 0, false
	}
	return r.Iterations(), true
}

// Compute iterates z <- z^exponent + c from z0 = 0 at prec bits until
// |z| >= radius or maxIter iterations. Exponents below 2 are treated as 2;
// maxIter is clamped to [0, MaxIterations].
func Compute(c bignum.Complex, exponent int, radius float64, maxIter int, prec uint) *Reference {
	maxIter = min(max(maxIter, 0), MaxIterations)
	exponent = max(exponent, 2)

	r2 := bignum.FromFloat64(radius*radius, prec)
	c = c.WithPrec(prec)
	z := bignum.NewComplex(prec)

	ref := &Reference{Points: make([]complex128, 0, maxIter+1)}
	i := 0
	for i < maxIter && z.NormSq().Cmp(r2) < 0 {
		ref.Points = append(ref.Points, z.Complex128())
		i++
		if exponent == 2 {
			z = z.Square().Add(c)
		} else {
			z = z.Pow(exponent).Add(c)
		}
		z = z.WithPrec(prec)
	}
	ref.Points = append(ref.Points, z.Complex128())
	ref.Escaped = z.NormSq().Cmp(r2) >= 0
	return ref
}
