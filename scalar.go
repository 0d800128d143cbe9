package flatsurf

import (
	"math/big"
	"strconv"
)

// Scalar is the capability set required of the coordinate type of a
// triangulation. Implementations must be exact: Sign and Cmp decide, they
// never approximate. All operations treat values as immutable and return new
// values, so the zero value of an implementation must behave as the number
// zero.
//
// Two backends ship with this package, [Int] for integer coordinates and
// [Rat] for rational ones. Types that additionally implement [Quotient]
// unlock the operations that need exact division, such as shifting by
// non-integral fractions and the normalized equivalence relations.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Neg() T

	// Sign returns -1, 0 or 1 depending on the sign of the value. The
	// answer is exact.
	Sign() int

	// Cmp compares two values exactly, returning -1, 0 or 1.
	Cmp(T) int

	// One returns the number one. It may be called on the zero value.
	One() T

	// Float64 returns the nearest float64. It is used only by the
	// approximation fast path and the debug renderer, never by a
	// predicate.
	Float64() float64

	String() string
}

// Quotient is the optional division capability. Div returns x/y and reports
// whether the quotient is exact in the scalar type; division by zero is never
// exact.
type Quotient[T any] interface {
	Div(T) (T, bool)
}

// divExact divides x by y if the scalar type supports exact division.
func divExact[T Scalar[T]](x, y T) (T, bool) {
	if d, ok := any(x).(Quotient[T]); ok {
		return d.Div(y)
	}
	var zero T
	return zero, false
}

// double returns x+x.
func double[T Scalar[T]](x T) T {
	return x.Add(x)
}

// cmpFrac compares the fractions a/b and c/d without leaving the ring.
// Both denominators must be non-zero.
func cmpFrac[T Scalar[T]](a, b, c, d T) int {
	return a.Mul(d).Sub(c.Mul(b)).Sign() * b.Sign() * d.Sign()
}

// Int is the int64-backed scalar. Arithmetic wraps around on overflow like
// the built-in integer types, so it is suited to surfaces with small
// coordinates; use [Rat] when in doubt.
type Int int64

var _ Scalar[Int] = Int(0)
var _ Quotient[Int] = Int(0)

func (x Int) Add(y Int) Int { return x + y }
func (x Int) Sub(y Int) Int { return x - y }
func (x Int) Mul(y Int) Int { return x * y }
func (x Int) Neg() Int      { return -x }

func (x Int) Sign() int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

func (x Int) Cmp(y Int) int {
	return (x - y).Sign()
}

func (x Int) One() Int {
	return 1
}

// Div returns x/y if y divides x exactly.
func (x Int) Div(y Int) (Int, bool) {
	if y == 0 || x%y != 0 {
		return 0, false
	}
	return x / y, true
}

func (x Int) Float64() float64 {
	return float64(x)
}

func (x Int) String() string {
	return strconv.FormatInt(int64(x), 10)
}

// Rat is the arbitrary-precision rational scalar backed by [math/big].
// The zero value is the number zero. Rat values are immutable; every
// operation allocates its result.
type Rat struct {
	v *big.Rat
}

var _ Scalar[Rat] = Rat{}
var _ Quotient[Rat] = Rat{}

var ratZero = new(big.Rat)

// NewRat returns the rational number num/den. It panics if den is zero.
func NewRat(num, den int64) Rat {
	if den == 0 {
		panic("flatsurf: zero denominator")
	}
	return Rat{big.NewRat(num, den)}
}

// RatFromInt returns n as a rational number.
func RatFromInt(n int64) Rat {
	return Rat{big.NewRat(n, 1)}
}

// RatFromBig returns a Rat holding a copy of r.
func RatFromBig(r *big.Rat) Rat {
	return Rat{new(big.Rat).Set(r)}
}

func (x Rat) rat() *big.Rat {
	if x.v == nil {
		return ratZero
	}
	return x.v
}

func (x Rat) Add(y Rat) Rat { return Rat{new(big.Rat).Add(x.rat(), y.rat())} }
func (x Rat) Sub(y Rat) Rat { return Rat{new(big.Rat).Sub(x.rat(), y.rat())} }
func (x Rat) Mul(y Rat) Rat { return Rat{new(big.Rat).Mul(x.rat(), y.rat())} }
func (x Rat) Neg() Rat      { return Rat{new(big.Rat).Neg(x.rat())} }

func (x Rat) Sign() int {
	return x.rat().Sign()
}

func (x Rat) Cmp(y Rat) int {
	return x.rat().Cmp(y.rat())
}

func (x Rat) One() Rat {
	return Rat{big.NewRat(1, 1)}
}

// Div returns x/y. Division is exact for every non-zero y.
func (x Rat) Div(y Rat) (Rat, bool) {
	if y.Sign() == 0 {
		return Rat{}, false
	}
	return Rat{new(big.Rat).Quo(x.rat(), y.rat())}, true
}

func (x Rat) Float64() float64 {
	f, _ := x.rat().Float64()
	return f
}

func (x Rat) String() string {
	return x.rat().RatString()
}
