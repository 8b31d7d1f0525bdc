package bignum

import "fmt"

// Complex is a point of the complex plane with arbitrary-precision parts.
type Complex struct {
	X, Y Real
}

func NewComplex(prec uint) Complex {
	return Complex{X: NewReal(prec), Y: NewReal(prec)}
}

func FromComplex128(z complex128, prec uint) Complex {
	return Complex{X: FromFloat64(real(z), prec), Y: FromFloat64(imag(z), prec)}
}

// ParseComplex parses the two parts separately, e.g. ("-0.75", "0.1").
func ParseComplex(re, im string, prec uint) (Complex, error) {
	x, err := ParseReal(re, prec)
	if err != nil {
		return Complex{}, fmt.Errorf("real part %q: %w", re, err)
	}
	y, err := ParseReal(im, prec)
	if err != nil {
		return Complex{}, fmt.Errorf("imaginary part %q: %w", im, err)
	}
	return Complex{X: x, Y: y}, nil
}

func (z Complex) Prec() uint {
	return max(z.X.Prec(), z.Y.Prec())
}

func (z Complex) WithPrec(prec uint) Complex {
	return Complex{X: z.X.WithPrec(prec), Y: z.Y.WithPrec(prec)}
}

func (z Complex) Add(w Complex) Complex {
	return Complex{X: z.X.Add(w.X), Y: z.Y.Add(w.Y)}
}

func (z Complex) Sub(w Complex) Complex {
	return Complex{X: z.X.Sub(w.X), Y: z.Y.Sub(w.Y)}
}

func (z Complex) Mul(w Complex) Complex {
	return Complex{
		X: z.X.Mul(w.X).Sub(z.Y.Mul(w.Y)),
		Y: z.X.Mul(w.Y).Add(z.Y.Mul(w.X)),
	}
}

// Square returns (x²−y², 2xy).
func (z Complex) Square() Complex {
	return Complex{
		X: z.X.Mul(z.X).Sub(z.Y.Mul(z.Y)),
		Y: z.X.Mul(z.Y).MulFloat(2),
	}
}

// Pow returns z^n for n >= 1 by repeated squaring. n < 1 returns z.
func (z Complex) Pow(n int) Complex {
	if n <= 1 {
		return z
	}
	if n == 2 {
		return z.Square()
	}
	result := Complex{}
	have := false
	base := z
	for n > 0 {
		if n&1 == 1 {
			if have {
				result = result.Mul(base)
			} else {
				result, have = base, true
			}
		}
		n >>= 1
		if n > 0 {
			base = base.Square()
		}
	}
	return result
}

func (z Complex) NormSq() Real {
	return z.X.Mul(z.X).Add(z.Y.Mul(z.Y))
}

// AddFloat adds a machine-precision offset at z's precision.
func (z Complex) AddFloat(d complex128) Complex {
	return z.Add(FromComplex128(d, z.Prec()))
}

func (z Complex) MulFloat(v float64) Complex {
	return Complex{X: z.X.MulFloat(v), Y: z.Y.MulFloat(v)}
}

func (z Complex) QuoFloat(v float64) Complex {
	return Complex{X: z.X.QuoFloat(v), Y: z.Y.QuoFloat(v)}
}

// Complex128 downcasts with the saturation rules of Real.Float64.
func (z Complex) Complex128() complex128 {
	return complex(z.X.Float64(), z.Y.Float64())
}

func (z Complex) Equal(w Complex) bool {
	return z.X.Cmp(w.X) == 0 && z.Y.Cmp(w.Y) == 0
}

func (z Complex) String() string {
	return fmt.Sprintf("(%s, %s)", z.X, z.Y)
}
