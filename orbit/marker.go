package orbit

import (
	"math"
	"math/cmplx"
)

// MinEscapeRadius is the smallest escape radius accepted anywhere; below it
// the proximity interpolation would divide by a vanishing span.
const MinEscapeRadius = 2

// markerTail is how far past the escape radius the overlay keeps drawing.
const markerTail = 1e4

// Stats are the statistics accumulated along a single trajectory.
type Stats struct {
	FinalNorm     float64
	FinalDistance float64
	FinalAngle    float64
	AngleSum      float64
	DistanceSum   float64
	NormSum       float64
	Proximity     float64 // normalized proximity to the next iteration
	Count         int
}

// Trajectory is a marker orbit: every iterate from the seed on, plus the
// statistics up to escape.
type Trajectory struct {
	Points  []complex128
	Stats   Stats
	Escaped bool
}

// Marker iterates a single point c at machine precision. After escape it
// keeps appending points until |z| reaches max(radius, 1e4) so the overlay
// shows where the orbit is heading; statistics stop at the escape.
func Marker(c complex128, exponent, radius float64, iterations int) Trajectory {
	n := min(max(iterations, 0), MaxIterations)
	radius = max(radius, MinEscapeRadius)
	step := Stepper(c, exponent)

	tr := newTracker(radius)
	points := make([]complex128, 1, n+1)
	z := complex128(0)
	escaped := false
	for i := 0; i < n; i++ {
		z = step(z)
		points = append(points, z)
		if tr.push(z) {
			escaped = true
			break
		}
	}
	tr.finish()

	if escaped {
		limit := max(radius, markerTail)
		for i := tr.count; i < n && cmplx.Abs(z) < limit; i++ {
			z = step(z)
			points = append(points, z)
		}
	}
	return Trajectory{Points: points, Stats: tr.stats, Escaped: escaped}
}

// MarkerFromReference builds the marker trajectory straight from a
// reference orbit, for a marker sitting exactly on the reference center.
func MarkerFromReference(ref *Reference, radius float64) Trajectory {
	radius = max(radius, MinEscapeRadius)
	tr := newTracker(radius)
	points := make([]complex128, len(ref.Points))
	copy(points, ref.Points)
	escaped := false
	for _, z := range points[1:] {
		if tr.push(z) {
			escaped = true
			break
		}
	}
	tr.finish()
	return Trajectory{Points: points, Stats: tr.stats, Escaped: escaped}
}

// Stepper returns z -> z^exponent + c, using plain squaring for 2.
func Stepper(c complex128, exponent float64) func(complex128) complex128 {
	if exponent == 2 {
		return func(z complex128) complex128 { return z*z + c }
	}
	p := complex(exponent, 0)
	return func(z complex128) complex128 { return cmplx.Pow(z, p) + c }
}

type tracker struct {
	prevPrev, prev, z complex128
	prevNorm, norm    float64
	radius            float64
	count             int
	stats             Stats
}

func newTracker(radius float64) tracker {
	return tracker{prev: complex(-1, 0), radius: radius}
}

// push records the next iterate and reports whether it escaped.
func (t *tracker) push(z complex128) bool {
	t.prevPrev, t.prev, t.z = t.prev, t.z, z
	t.count++
	t.stats.AngleSum += TurnAngle(t.prevPrev, t.prev, z)
	t.stats.DistanceSum += cmplx.Abs(z - t.prev)
	t.prevNorm, t.norm = t.norm, cmplx.Abs(z)
	t.stats.NormSum += t.norm
	return t.norm >= t.radius
}

func (t *tracker) finish() {
	t.stats.FinalDistance = cmplx.Abs(t.z - t.prev)
	t.stats.FinalAngle = cmplx.Phase(t.z)
	t.stats.FinalNorm = t.norm
	t.stats.Count = t.count
	t.stats.Proximity = Proximity(t.prevNorm*t.prevNorm, t.norm*t.norm, t.radius*t.radius)
}

// Proximity solves x + (y-x)*p² = e for p, clamped to [0, 1]. Given the
// squared norms before and at escape and the squared escape radius, it is
// the fraction used to blend across the integer iteration boundary.
func Proximity(x, y, e float64) float64 {
	d := y - x
	if !(d > 0) {
		return 0
	}
	a := (e - x) / d
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 1
	}
	return math.Sqrt(a)
}

// TurnAngle is the signed angle between the segments a->b and b->c.
func TurnAngle(a, b, c complex128) float64 {
	ab := b - a
	bc := c - b
	cross := real(ab)*imag(bc) - imag(ab)*real(bc)
	dot := real(ab)*real(bc) + imag(ab)*imag(bc)
	return math.Atan2(cross, dot)
}
