// Package rational provides exact fraction arithmetic for frequency-plan
// calculations. All values are ratios of arbitrary-precision integers kept in
// lowest terms; nothing is rounded until a presentation layer asks for a
// float. Operations never panic on a zero divisor, they return
// ErrDivisionByZero instead.
package rational

import (
	"errors"
	"math/big"
)

// ErrDivisionByZero indicates a ratio with a zero denominator was requested.
// If static validation ran first this cannot happen; treat it as a contract
// violation, not a user error.
var ErrDivisionByZero = errors.New("rational: division by zero")

// Rat is an immutable exact rational number. The zero value is 0/1. All
// arithmetic methods return a new value and leave their operands untouched.
type Rat struct {
	r big.Rat
}

// New returns the ratio num/den in lowest terms.
func New(num, den int64) (*Rat, error) {
	if den == 0 {
		return nil, ErrDivisionByZero
	}
	v := &Rat{}
	v.r.SetFrac64(num, den)
	return v, nil
}

// FromInt returns the integer n as a rational.
func FromInt(n int64) *Rat {
	v := &Rat{}
	v.r.SetInt64(n)
	return v
}

// Add returns x + y.
func (x *Rat) Add(y *Rat) *Rat {
	v := &Rat{}
	v.r.Add(&x.r, &y.r)
	return v
}

// Sub returns x - y.
func (x *Rat) Sub(y *Rat) *Rat {
	v := &Rat{}
	v.r.Sub(&x.r, &y.r)
	return v
}

// Mul returns x * y.
func (x *Rat) Mul(y *Rat) *Rat {
	v := &Rat{}
	v.r.Mul(&x.r, &y.r)
	return v
}

// MulInt returns x * n.
func (x *Rat) MulInt(n int64) *Rat {
	return x.Mul(FromInt(n))
}

// Div returns x / y.
func (x *Rat) Div(y *Rat) (*Rat, error) {
	if y.r.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	v := &Rat{}
	v.r.Quo(&x.r, &y.r)
	return v, nil
}

// DivInt returns x / n.
func (x *Rat) DivInt(n int64) (*Rat, error) {
	return x.Div(FromInt(n))
}

// Mod returns x mod y, the remainder after subtracting the largest integer
// multiple of y not exceeding x. The result has the sign of y and lies in
// [0, y) for positive y, which is what wrapping a phase angle into one cycle
// requires.
func (x *Rat) Mod(y *Rat) (*Rat, error) {
	q, err := x.Div(y)
	if err != nil {
		return nil, err
	}
	// floor(q)
	f := new(big.Int).Quo(q.r.Num(), q.r.Denom())
	if q.r.Sign() < 0 && !q.IsInt() {
		f.Sub(f, big.NewInt(1))
	}
	fr := &Rat{}
	fr.r.SetInt(f)
	return x.Sub(fr.Mul(y)), nil
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x *Rat) Cmp(y *Rat) int {
	return x.r.Cmp(&y.r)
}

// CmpInt compares x against the integer n.
func (x *Rat) CmpInt(n int64) int {
	return x.Cmp(FromInt(n))
}

// Sign returns -1, 0 or +1 depending on the sign of x.
func (x *Rat) Sign() int {
	return x.r.Sign()
}

// IsInt reports whether x is a whole number.
func (x *Rat) IsInt() bool {
	return x.r.IsInt()
}

// Num returns the numerator of x in lowest terms.
func (x *Rat) Num() *big.Int {
	return new(big.Int).Set(x.r.Num())
}

// Denom returns the denominator of x in lowest terms. It is always positive.
func (x *Rat) Denom() *big.Int {
	return new(big.Int).Set(x.r.Denom())
}

// Float64 returns the nearest float64 approximation. Only presentation code
// should call this; the validation path stays exact.
func (x *Rat) Float64() float64 {
	f, _ := x.r.Float64()
	return f
}

// String renders x as "num/den", or just "num" for whole numbers.
func (x *Rat) String() string {
	if x.r.IsInt() {
		return x.r.Num().String()
	}
	return x.r.RatString()
}
