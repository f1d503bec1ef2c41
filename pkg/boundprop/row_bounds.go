package boundprop

import (
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
)

// rowExtreme accumulates one extreme (max or min) of Σ a_i x_i over a row.
type rowExtreme struct {
	sum       rational.Rational // over the bounded terms only
	unbounded int
	lastFree  int // position of the last unbounded term
	strict    int
	overflow  bool // sum left int64; the extreme is unusable
}

// term contribution to one extreme of a row.
type extremeTerm struct {
	value   rational.Rational
	bounded bool
	strict  bool
}

// AnalyzeRow derives bounds from row r, read as Σ a_i x_i = 0. For a
// target x_j, a_j x_j = -S where S ranges over [Smin, Smax] given the bounds
// of the other terms, so
//
//	a_j > 0: -Smax/a_j <= x_j <= -Smin/a_j
//	a_j < 0: -Smin/a_j <= x_j <= -Smax/a_j
//
// S is bounded on one side only when every other term is bounded on the
// matching side, so a row with two unbounded terms in a direction yields
// nothing in that direction. Candidates go through TryAddBound.
func (p *Propagator) AnalyzeRow(r int) {
	s := p.lp()
	row := s.Row(r)
	if len(row) < 2 {
		return
	}
	maxTerms := make([]extremeTerm, len(row))
	minTerms := make([]extremeTerm, len(row))
	var hi, lo rowExtreme
	hi.sum, lo.sum = rational.Zero, rational.Zero
	for k, t := range row {
		lb, hasLB := s.LowerBound(t.Var)
		ub, hasUB := s.UpperBound(t.Var)
		if t.Coeff.Sign() > 0 {
			maxTerms[k] = p.contribution(r, t.Coeff, ub, hasUB)
			minTerms[k] = p.contribution(r, t.Coeff, lb, hasLB)
		} else {
			maxTerms[k] = p.contribution(r, t.Coeff, lb, hasLB)
			minTerms[k] = p.contribution(r, t.Coeff, ub, hasUB)
		}
		hi.add(k, maxTerms[k])
		lo.add(k, minTerms[k])
	}
	if hi.overflow || lo.overflow {
		p.overflow(r, "row extreme")
	}
	if !hi.usable() && !lo.usable() {
		return
	}
	p.traceRow("bound_row", "analyzing row", r)

	for k, t := range row {
		if s.IsFixed(t.Var) {
			continue
		}
		a := t.Coeff
		// Smax and Smin over the terms other than k.
		smax, maxStrict, maxOK := hi.without(k, maxTerms[k])
		smin, minStrict, minOK := lo.without(k, minTerms[k])
		pos := a.Sign() > 0
		if pos {
			if maxOK {
				p.offerQuotient(smax, a, t.Var, true, true, r, maxStrict)
			}
			if minOK {
				p.offerQuotient(smin, a, t.Var, false, true, r, minStrict)
			}
			continue
		}
		if minOK {
			p.offerQuotient(smin, a, t.Var, true, false, r, minStrict)
		}
		if maxOK {
			p.offerQuotient(smax, a, t.Var, false, false, r, maxStrict)
		}
	}
}

// offerQuotient offers -sum/a as a bound on j, unless it overflows.
func (p *Propagator) offerQuotient(sum, a rational.Rational, j lp.Var, isLower, coeffPos bool, r int, strict bool) {
	n, ok := sum.TryNeg()
	if ok {
		n, ok = n.TryDiv(a)
	}
	if !ok {
		p.overflow(r, "bound")
		return
	}
	p.TryAddBound(n, j, isLower, coeffPos, r, strict)
}

// contribution is a*b for the bound b of a term with coefficient a. A
// product that overflows counts as unbounded: the row then derives less,
// never something wrong.
func (p *Propagator) contribution(r int, a rational.Rational, b lp.Bound, ok bool) extremeTerm {
	if !ok {
		return extremeTerm{}
	}
	v, fits := a.TryMul(b.Value)
	if !fits {
		p.overflow(r, "term bound")
		return extremeTerm{}
	}
	return extremeTerm{value: v, bounded: true, strict: b.Strict}
}

func (e *rowExtreme) add(k int, t extremeTerm) {
	if !t.bounded {
		e.unbounded++
		e.lastFree = k
		return
	}
	sum, ok := e.sum.TryAdd(t.value)
	if !ok {
		e.overflow = true
		return
	}
	e.sum = sum
	if t.strict {
		e.strict++
	}
}

// without returns the extreme of the row minus term k, whether it is
// finite, and whether it depends on a strict bound.
func (e *rowExtreme) without(k int, t extremeTerm) (rational.Rational, bool, bool) {
	switch {
	case e.overflow:
	case e.unbounded == 0:
		strict := e.strict
		if t.strict {
			strict--
		}
		sum, ok := e.sum.TrySub(t.value)
		return sum, strict > 0, ok
	case e.unbounded == 1 && e.lastFree == k:
		return e.sum, e.strict > 0, true
	}
	return rational.Zero, false, false
}

// usable reports whether the extreme can bound at least one term.
func (e *rowExtreme) usable() bool {
	return !e.overflow && e.unbounded <= 1
}
