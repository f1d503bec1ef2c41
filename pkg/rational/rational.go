// Package rational provides exact rational numbers for bound and offset
// arithmetic.
//
// Rationals are always stored in normalized form (reduced to lowest terms,
// positive denominator), so two rationals are equal exactly when their
// structs are equal. This makes Rational safe to use as a map key, which the
// offset tables of the propagation engine rely on: floating point keys would
// produce both false positives and false negatives.
package rational

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	// ErrSyntax is returned by Parse for malformed input.
	ErrSyntax = errors.New("rational: invalid syntax")
	// ErrOverflow is the panic value of arithmetic whose exact result does
	// not fit in int64. The Try methods report it as false instead.
	ErrOverflow = errors.New("rational: int64 overflow")
)

// Rational represents a rational number with int64 numerator and denominator.
//
// The zero value is not normalized (Den == 0); use Zero or New. Add, Sub,
// Mul, Div and Neg panic with ErrOverflow rather than silently wrapping;
// TryAdd and friends return false instead, for callers that must not panic
// on large input.
type Rational struct {
	Num int64 // numerator
	Den int64 // denominator (always > 0 after normalization)
}

var (
	// Zero is 0/1.
	Zero = Rational{Num: 0, Den: 1}
	// One is 1/1.
	One = Rational{Num: 1, Den: 1}
	// MinusOne is -1/1.
	MinusOne = Rational{Num: -1, Den: 1}
)

// New creates a rational number num/den in normalized form.
// Panics if denominator is zero, or with ErrOverflow if num/den cannot be
// normalized within int64 (New(math.MinInt64, -1)).
//
// Examples:
//
//	New(6, 8) → 3/4
//	New(6, -8) → -3/4
//	New(0, 5) → 0
func New(num, den int64) Rational {
	if den == 0 {
		panic("rational: division by zero")
	}
	return must(newChecked(num, den))
}

// FromInt returns n/1.
func FromInt(n int64) Rational {
	return Rational{Num: n, Den: 1}
}

// norm maps the zero value to Zero so that Rational{} behaves like 0.
func (r Rational) norm() Rational {
	if r.Den == 0 {
		return Zero
	}
	return r
}

// Add returns r + other.
func (r Rational) Add(other Rational) Rational { return must(r.TryAdd(other)) }

// Sub returns r - other.
func (r Rational) Sub(other Rational) Rational { return must(r.TrySub(other)) }

// Mul returns r * other.
func (r Rational) Mul(other Rational) Rational { return must(r.TryMul(other)) }

// Div returns r / other. Panics if other is zero.
func (r Rational) Div(other Rational) Rational { return must(r.TryDiv(other)) }

// Inv returns 1/r. Panics if r is zero.
func (r Rational) Inv() Rational {
	r = r.norm()
	if r.Num == 0 {
		panic("rational: division by zero")
	}
	return must(newChecked(r.Den, r.Num))
}

// Neg returns -r.
func (r Rational) Neg() Rational { return must(r.TryNeg()) }

// TryAdd returns r + other, or false when the result does not fit in
// int64.
func (r Rational) TryAdd(other Rational) (Rational, bool) {
	r, other = r.norm(), other.norm()
	if r.Den == other.Den {
		num, ok := addInt(r.Num, other.Num)
		if !ok {
			return Rational{}, false
		}
		return newChecked(num, r.Den)
	}
	a, ok1 := mulInt(r.Num, other.Den)
	b, ok2 := mulInt(other.Num, r.Den)
	den, ok3 := mulInt(r.Den, other.Den)
	if !ok1 || !ok2 || !ok3 {
		return Rational{}, false
	}
	num, ok := addInt(a, b)
	if !ok {
		return Rational{}, false
	}
	return newChecked(num, den)
}

// TrySub returns r - other, or false on overflow.
func (r Rational) TrySub(other Rational) (Rational, bool) {
	n, ok := other.TryNeg()
	if !ok {
		return Rational{}, false
	}
	return r.TryAdd(n)
}

// TryMul returns r * other, or false on overflow.
//
// Cross-reduces before multiplying to keep intermediate values small:
// (2/3) * (3/4) is computed as (1/1) * (1/2).
func (r Rational) TryMul(other Rational) (Rational, bool) {
	r, other = r.norm(), other.norm()
	if r.Num == 0 || other.Num == 0 {
		return Zero, true
	}
	g1 := gcd(r.Num, other.Den)
	g2 := gcd(other.Num, r.Den)
	num, ok1 := mulInt(r.Num/g1, other.Num/g2)
	den, ok2 := mulInt(r.Den/g2, other.Den/g1)
	if !ok1 || !ok2 {
		return Rational{}, false
	}
	return newChecked(num, den)
}

// TryDiv returns r / other, or false on overflow. Panics if other is zero.
func (r Rational) TryDiv(other Rational) (Rational, bool) {
	other = other.norm()
	if other.Num == 0 {
		panic("rational: division by zero")
	}
	inv, ok := newChecked(other.Den, other.Num)
	if !ok {
		return Rational{}, false
	}
	return r.TryMul(inv)
}

// TryNeg returns -r, or false when r.Num is math.MinInt64.
func (r Rational) TryNeg() (Rational, bool) {
	r = r.norm()
	n, ok := negInt(r.Num)
	if !ok {
		return Rational{}, false
	}
	return Rational{Num: n, Den: r.Den}, true
}

// Cmp compares r and other and returns -1, 0 or +1. It never overflows:
// products that do not fit in int64 are compared as big integers.
func (r Rational) Cmp(other Rational) int {
	r, other = r.norm(), other.norm()
	if r.Den == other.Den {
		return cmp64(r.Num, other.Num)
	}
	a, ok1 := mulInt(r.Num, other.Den)
	b, ok2 := mulInt(other.Num, r.Den)
	if ok1 && ok2 {
		return cmp64(a, b)
	}
	x := new(big.Int).Mul(big.NewInt(r.Num), big.NewInt(other.Den))
	y := new(big.Int).Mul(big.NewInt(other.Num), big.NewInt(r.Den))
	return x.Cmp(y)
}

// Less reports whether r < other.
func (r Rational) Less(other Rational) bool { return r.Cmp(other) < 0 }

// Sign returns -1, 0 or +1 depending on the sign of r.
func (r Rational) Sign() int { return cmp64(r.Num, 0) }

// IsZero returns true if the rational number is zero.
func (r Rational) IsZero() bool { return r.Num == 0 }

// IsOne returns true if r == 1.
func (r Rational) IsOne() bool { return r.Num == 1 && r.Den == 1 }

// IsMinusOne returns true if r == -1.
func (r Rational) IsMinusOne() bool { return r.Num == -1 && r.Den == 1 }

// IsInt returns true if r has denominator one.
func (r Rational) IsInt() bool { return r.norm().Den == 1 }

// Equals returns true if two rational numbers are equal.
// Since rationals are normalized, structural equality is sufficient.
func (r Rational) Equals(other Rational) bool {
	return r.norm() == other.norm()
}

// ToFloat returns the floating-point approximation of r.
// Useful for debugging only: never compare or hash the result.
func (r Rational) ToFloat() float64 {
	r = r.norm()
	return float64(r.Num) / float64(r.Den)
}

// String returns "num/den" for non-integers and "num" for integers.
func (r Rational) String() string {
	r = r.norm()
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Parse reads a rational written as an integer ("-3"), a fraction ("7/2")
// or a finite decimal ("0.25").
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rational{}, fmt.Errorf("%w: empty string", ErrSyntax)
	}
	if n, d, ok := strings.Cut(s, "/"); ok {
		num, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		den, err := strconv.ParseInt(strings.TrimSpace(d), 10, 64)
		if err != nil || den == 0 {
			return Rational{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		r, ok := newChecked(num, den)
		if !ok {
			return Rational{}, fmt.Errorf("%w: %q out of range", ErrSyntax, s)
		}
		return r, nil
	}
	if ip, fp, ok := strings.Cut(s, "."); ok {
		if len(fp) == 0 || len(fp) > 18 || strings.ContainsAny(fp, "+-") {
			return Rational{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		den := int64(math.Pow10(len(fp)))
		num, err := strconv.ParseInt(ip+fp, 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		return New(num, den), nil
	}
	num, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return FromInt(num), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// literals.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// MarshalText implements encoding.TextMarshaler.
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rational) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Min returns the smaller of a and b.
func Min(a, b Rational) Rational {
	if b.Less(a) {
		return b
	}
	return a
}

// Max returns the larger of a and b.
func Max(a, b Rational) Rational {
	if a.Less(b) {
		return b
	}
	return a
}

// must unwraps the result of a checked operation, panicking with
// ErrOverflow when it failed.
func must(r Rational, ok bool) Rational {
	if !ok {
		panic(ErrOverflow)
	}
	return r
}

// newChecked normalizes num/den (den != 0).
func newChecked(num, den int64) (Rational, bool) {
	if num == 0 {
		return Zero, true
	}
	if den < 0 {
		var ok1, ok2 bool
		num, ok1 = negInt(num)
		den, ok2 = negInt(den)
		if !ok1 || !ok2 {
			return Rational{}, false
		}
	}
	g := gcd(num, den)
	return Rational{Num: num / g, Den: den / g}, true
}

// gcd returns the greatest common divisor of |a| and |b|, or 1 when both
// are zero. Magnitudes are taken as uint64 so math.MinInt64 is accepted;
// the result fits in int64 whenever one argument is not math.MinInt64.
func gcd(a, b int64) int64 {
	x, y := uabs(a), uabs(b)
	for y != 0 {
		x, y = y, x%y
	}
	if x == 0 {
		return 1
	}
	return int64(x)
}

func uabs(x int64) uint64 {
	if x < 0 {
		return uint64(-(x + 1)) + 1
	}
	return uint64(x)
}

func negInt(x int64) (int64, bool) {
	if x == math.MinInt64 {
		return 0, false
	}
	return -x, true
}

func cmp64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func addInt(a, b int64) (int64, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	return c, c/b == a
}
