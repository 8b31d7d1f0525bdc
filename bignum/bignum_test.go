package bignum

import (
	"math"
	"testing"
)

func TestFloat64Saturates(t *testing.T) {
	huge, err := ParseReal("1e400", DeepPrec)
	if err != nil {
		t.Fatalf("ParseReal: %v", err)
	}
	if got := huge.Float64(); got != math.MaxFloat64 {
		t.Fatalf("Float64(1e400) = %v, want MaxFloat64", got)
	}
	if got := huge.Neg().Float64(); got != -math.MaxFloat64 {
		t.Fatalf("Float64(-1e400) = %v, want -MaxFloat64", got)
	}
	tiny, err := ParseReal("1e-400", DeepPrec)
	if err != nil {
		t.Fatalf("ParseReal: %v", err)
	}
	if got := tiny.Float64(); got != 0 {
		t.Fatalf("Float64(1e-400) = %v, want 0", got)
	}
	if got := FromFloat64(math.Inf(1), 64).Float64(); got != math.MaxFloat64 {
		t.Fatalf("FromFloat64(+Inf) = %v, want MaxFloat64", got)
	}
	if got := FromFloat64(math.NaN(), 64).Float64(); got != 0 {
		t.Fatalf("FromFloat64(NaN) = %v, want 0", got)
	}
}

func TestPrecisionKeepsSubPixelOffsets(t *testing.T) {
	one := FromFloat64(1, DeepPrec)
	eps := FromFloat64(1e-40, DeepPrec)

	sum := one.Add(eps)
	if sum.Float64() != 1 {
		t.Fatalf("1+1e-40 should downcast to 1, got %v", sum.Float64())
	}
	back := sum.Sub(one).Float64()
	if math.Abs(back-1e-40)/1e-40 > 1e-12 {
		t.Fatalf("(1+1e-40)-1 = %v, want 1e-40", back)
	}

	// At float64 precision the offset is lost.
	lossy := FromFloat64(1, 53).Add(FromFloat64(1e-40, 53)).Sub(FromFloat64(1, 53))
	if lossy.Sign() != 0 {
		t.Fatalf("53-bit sum kept the offset: %v", lossy.Float64())
	}
}

func TestResultPrecisionIsMaxOfOperands(t *testing.T) {
	a := FromFloat64(1, 64)
	b := FromFloat64(2, DeepPrec)
	if got := a.Add(b).Prec(); got != DeepPrec {
		t.Fatalf("Prec = %d, want %d", got, DeepPrec)
	}
	if got := a.Mul(b).WithPrec(OrbitPrec).Prec(); got != OrbitPrec {
		t.Fatalf("WithPrec = %d, want %d", got, OrbitPrec)
	}
}

func TestQuoFloatByZero(t *testing.T) {
	r := FromFloat64(3, 64)
	if got := r.QuoFloat(0).Float64(); got != 3 {
		t.Fatalf("3/0 = %v, want 3 (unchanged)", got)
	}
	if got := r.QuoFloat(4).Float64(); got != 0.75 {
		t.Fatalf("3/4 = %v", got)
	}
}

func TestComplexSquareAndPow(t *testing.T) {
	z := FromComplex128(complex(1, 1), OrbitPrec)
	if got := z.Square().Complex128(); got != complex(0, 2) {
		t.Fatalf("(1+i)^2 = %v, want (0+2i)", got)
	}
	w := FromComplex128(complex(0.5, -1.25), OrbitPrec)
	for n := 1; n <= 6; n++ {
		want := complex(0.5, -1.25)
		for k := 1; k < n; k++ {
			want *= complex(0.5, -1.25)
		}
		got := w.Pow(n).Complex128()
		if d := got - want; math.Hypot(real(d), imag(d)) > 1e-12 {
			t.Fatalf("Pow(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestComplexNormSqAndEqual(t *testing.T) {
	z := FromComplex128(complex(3, 4), DeepPrec)
	if got := z.NormSq().Float64(); got != 25 {
		t.Fatalf("NormSq = %v, want 25", got)
	}
	if !z.Equal(z.WithPrec(DeepPrec)) {
		t.Fatal("copy should be equal")
	}
	if z.Equal(z.AddFloat(complex(0, 1e-50))) {
		t.Fatal("1e-50 offset should be visible at 192 bits")
	}
}

func TestParseComplex(t *testing.T) {
	z, err := ParseComplex("-0.75", "0.1", DeepPrec)
	if err != nil {
		t.Fatalf("ParseComplex: %v", err)
	}
	if got := z.Complex128(); got != complex(-0.75, 0.1) {
		t.Fatalf("got %v", got)
	}
	if _, err := ParseComplex("x", "0", DeepPrec); err == nil {
		t.Fatal("expected error for bad real part")
	}
}
