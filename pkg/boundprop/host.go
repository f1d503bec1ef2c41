package boundprop

import (
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
)

// Host is the enclosing solver layer the propagator reports to. Variables
// passed to BoundIsInteresting, AddEq and CongruentOrIrrelevant are reported
// ids (see lp.Solver.ReportedIndex), never internal columns.
type Host interface {
	// Solver gives read access to rows, columns and bounds.
	Solver() lp.Solver
	// BoundIsInteresting reports whether v is not already implied by the
	// bounds the host knows for j.
	BoundIsInteresting(j lp.Var, kind lp.ConstraintKind, v rational.Rational) bool
	// AddEq receives a derived equality i = j with its explanation.
	AddEq(i, j lp.Var, ex *lp.Explanation)
	// CongruentOrIrrelevant reports whether i = j is already known, or not
	// worth reporting.
	CongruentOrIrrelevant(i, j lp.Var) bool
}
