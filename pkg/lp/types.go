package lp

import (
	"fmt"
	"io"
	"strings"

	"github.com/gitrdm/boundprop/pkg/rational"
)

// Var is the index of a column (variable) inside a solver.
type Var int

// NoVar marks an absent variable.
const NoVar Var = -1

// ConstraintIndex identifies the constraint that justifies a bound.
type ConstraintIndex int

// NoConstraint marks a bound without a witness.
const NoConstraint ConstraintIndex = -1

// Term is one (variable, coefficient) entry of a row.
type Term struct {
	Var   Var
	Coeff rational.Rational
}

// ColumnCell locates an occurrence of a variable: the row it appears in and
// its position inside that row.
type ColumnCell struct {
	Row   int
	Index int
}

// Bound is a lower or upper bound value together with its strictness.
type Bound struct {
	Value  rational.Rational
	Strict bool
}

// ConstraintKind is the comparison a bound asserts. The values keep the
// property that halving a non-strict kind yields the strict one.
type ConstraintKind int

const (
	LE ConstraintKind = -2 // x <= v
	LT ConstraintKind = -1 // x < v
	EQ ConstraintKind = 0
	GT ConstraintKind = 1 // x > v
	GE ConstraintKind = 2 // x >= v
)

// KindOf returns the constraint kind of a lower (GE/GT) or upper (LE/LT)
// bound.
func KindOf(isLower, strict bool) ConstraintKind {
	k := LE
	if isLower {
		k = GE
	}
	if strict {
		k /= 2
	}
	return k
}

// IsLower reports whether k bounds a variable from below.
func (k ConstraintKind) IsLower() bool { return k > 0 }

// IsStrict reports whether k excludes the bound value itself.
func (k ConstraintKind) IsStrict() bool { return k == LT || k == GT }

func (k ConstraintKind) String() string {
	switch k {
	case LE:
		return "<="
	case LT:
		return "<"
	case EQ:
		return "="
	case GT:
		return ">"
	case GE:
		return ">="
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ImpliedBound is a bound on a variable derived from the structure of a row.
type ImpliedBound struct {
	Bound rational.Rational
	Var   Var // reported index
	Lower bool
	// CoeffPos is the sign of the coefficient of Var in the source row.
	CoeffPos bool
	// Source is the row or term that produced the bound.
	Source int
	Strict bool
}

// Kind returns the comparison asserted by b.
func (b ImpliedBound) Kind() ConstraintKind { return KindOf(b.Lower, b.Strict) }

func (b ImpliedBound) String() string {
	return fmt.Sprintf("v%d %s %s (row %d)", b.Var, b.Kind(), b.Bound, b.Source)
}

// Solver is the read-only view of a linear-arithmetic solver used by the
// propagation engine. Implementations must be cheap to query; none of the
// methods may block.
type Solver interface {
	// Row returns the terms of row r in insertion order.
	Row(r int) []Term
	// Column returns every occurrence of j in the rows of the solver.
	Column(j Var) []ColumnCell
	// IsFixed reports whether the lower and upper bounds of j coincide.
	IsFixed(j Var) bool
	// IsInt reports whether j is an integer variable.
	IsInt(j Var) bool
	// LowerBound returns the lower bound of j, or false when j is unbounded below.
	LowerBound(j Var) (Bound, bool)
	// UpperBound returns the upper bound of j, or false when j is unbounded above.
	UpperBound(j Var) (Bound, bool)
	// BoundWitnesses returns the constraints justifying the bounds of j.
	BoundWitnesses(j Var) (lower, upper ConstraintIndex)
	// ReportedIndex maps an internal column to the id used when reporting facts.
	ReportedIndex(j Var) Var
	// DisplayRow renders row r for diagnostics.
	DisplayRow(w io.Writer, r int)
}

// RowString renders row r of s into a string.
func RowString(s Solver, r int) string {
	var sb strings.Builder
	s.DisplayRow(&sb, r)
	return sb.String()
}
