// Package bignum provides the arbitrary-precision scalar and point types used
// for camera translates and reference orbits. Precision is always explicit;
// all other numeric work stays in float64.
package bignum

import (
	"math"
	"math/big"
)

const (
	// DeepPrec is the precision of camera translates. It keeps offsets of
	// one pixel distinguishable at the deepest supported zoom.
	DeepPrec uint = 192

	// OrbitPrec is the precision the reference orbit is iterated at.
	OrbitPrec uint = 128
)

// Real is an arbitrary-precision real number. The zero value is 0.
// Operations never modify their operands.
type Real struct {
	f *big.Float
}

func NewReal(prec uint) Real {
	return Real{f: new(big.Float).SetPrec(prec)}
}

// FromFloat64 converts v at the given precision. NaN becomes 0 and
// infinities saturate to ±MaxFloat64.
func FromFloat64(v float64, prec uint) Real {
	switch {
	case math.IsNaN(v):
		v = 0
	case math.IsInf(v, 1):
		v = math.MaxFloat64
	case math.IsInf(v, -1):
		v = -math.MaxFloat64
	}
	return Real{f: new(big.Float).SetPrec(prec).SetFloat64(v)}
}

// ParseReal parses a decimal (or 0x / 0b prefixed) number.
func ParseReal(s string, prec uint) (Real, error) {
	f, _, err := big.ParseFloat(s, 0, prec, big.ToNearestEven)
	if err != nil {
		return Real{}, err
	}
	return Real{f: f}, nil
}

func (r Real) val() *big.Float {
	if r.f == nil {
		return new(big.Float)
	}
	return r.f
}

func (r Real) Prec() uint {
	return r.val().Prec()
}

// WithPrec returns r rounded to prec bits.
func (r Real) WithPrec(prec uint) Real {
	return Real{f: new(big.Float).Copy(r.val()).SetPrec(prec)}
}

func (r Real) result(o Real) *big.Float {
	return new(big.Float).SetPrec(max(r.Prec(), o.Prec()))
}

func (r Real) Add(o Real) Real {
	return Real{f: r.result(o).Add(r.val(), o.val())}
}

func (r Real) Sub(o Real) Real {
	return Real{f: r.result(o).Sub(r.val(), o.val())}
}

func (r Real) Mul(o Real) Real {
	return Real{f: r.result(o).Mul(r.val(), o.val())}
}

func (r Real) Neg() Real {
	return Real{f: new(big.Float).SetPrec(r.Prec()).Neg(r.val())}
}

// MulFloat multiplies by a machine float at r's precision.
func (r Real) MulFloat(v float64) Real {
	return r.Mul(FromFloat64(v, r.Prec()))
}

// QuoFloat divides by a machine float at r's precision. Division by zero
// returns r unchanged.
func (r Real) QuoFloat(v float64) Real {
	if v == 0 || math.IsNaN(v) {
		return r.WithPrec(r.Prec())
	}
	d := FromFloat64(v, r.Prec())
	return Real{f: r.result(d).Quo(r.val(), d.val())}
}

func (r Real) Cmp(o Real) int {
	return r.val().Cmp(o.val())
}

func (r Real) Sign() int {
	return r.val().Sign()
}

// Float64 returns the nearest float64. Values beyond the float64 range
// saturate to ±MaxFloat64, values below it flush to a signed zero.
func (r Real) Float64() float64 {
	v, _ := r.val().Float64()
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

// Float32 is Float64 narrowed with the same saturation rules.
func (r Real) Float32() float32 {
	v, _ := r.val().Float32()
	switch {
	case math.IsInf(float64(v), 1):
		return math.MaxFloat32
	case math.IsInf(float64(v), -1):
		return -math.MaxFloat32
	}
	return v
}

// Text formats r with the given number of significant digits.
func (r Real) Text(digits int) string {
	return r.val().Text('g', digits)
}

func (r Real) String() string {
	return r.val().Text('g', 10)
}
