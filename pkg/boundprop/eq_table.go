package boundprop

import (
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
)

// CheapEqTable catches equalities x = x2 from two rows of the form
//
//	x  = y + k
//	x2 = y + k
//
// by keeping a table (y, k) → row that survives across passes. Equalities
// spanning more than two rows are left to CheapEqTree.
//
// When the key is held by another row, that row is classified again: if it
// still reads x2 = y + k, directly or with its free variables swapped
// (y = x2 - k2 with x2 playing y), x = x2 is reported with the fixed
// witnesses of both rows and the entry is kept. Otherwise the entry is
// stale and row r takes its place.
func (p *Propagator) CheapEqTable(r int) {
	p.traceRow("cheap_eqs", "checking if row can propagate equality", r)
	or, ok := p.IsOffsetRow(r)
	if !ok {
		return
	}

	key := varOffset{y: or.YVar, k: or.Offset}
	if r2, found := p.varOffset2Row[key]; found {
		if r2 == r {
			return
		}
		if p.cfg.TableCrossRow && p.tryTwoRowEq(or, r2) {
			return
		}
		// r2 was removed or is no longer an offset row with this key.
		delete(p.varOffset2Row, key)
	}
	p.varOffset2Row[key] = r
}

// tryTwoRowEq checks whether row r2 still matches the key of or and, if so,
// reports or.XVar = x2. It returns false when the entry for r2 is stale.
func (p *Propagator) tryTwoRowEq(or OffsetRow, r2 int) bool {
	o2, ok := p.IsOffsetRow(r2)
	if !ok {
		return false
	}
	var x2 lp.Var
	switch {
	case o2.YVar == or.YVar && o2.Offset.Equals(or.Offset):
		x2 = o2.XVar
	case o2.XVar == or.YVar && negates(o2.Offset, or.Offset):
		x2 = o2.YVar
	default:
		return false
	}

	s := p.lp()
	if x2 != or.XVar && s.IsInt(x2) == s.IsInt(or.XVar) &&
		!p.pairIsReportedOrCongruent(or.XVar, x2) {
		ex := lp.NewExplanation()
		p.explainFixedInRow(or.Row, ex)
		p.explainFixedInRow(r2, ex)
		p.log.Trace().Str("tag", "cheap_eqs").
			Int("row", or.Row).Int("other", r2).
			Msg("propagate eq two rows")
		p.stats.CrossRowEqs++
		p.addEqOnColumns(ex, or.XVar, x2)
	}
	return true
}

// negates reports whether a = -b.
func negates(a, b rational.Rational) bool {
	n, ok := a.TryNeg()
	return ok && n.Equals(b)
}
