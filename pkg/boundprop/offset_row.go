package boundprop

import (
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
)

// OffsetRow describes a row that reads x - y + offset = 0 once its fixed
// variables are substituted, i.e. y = x + offset.
type OffsetRow struct {
	Row int
	// X and Y are positions inside the row of the +1 and -1 free terms.
	X, Y int
	// XVar and YVar are the columns at those positions.
	XVar, YVar lp.Var
	// Offset is Σ coeff*value over the fixed terms of the row.
	Offset rational.Rational
}

// IsOffsetRow classifies row r. It fails when the row has any free term
// other than exactly one +1 and one -1 coefficient, when the two free
// variables differ in integrality, or when the offset does not fit in an
// int64 rational.
//
// A zero offset means x = y outright; unless that pair is already known,
// the equality is reported right away with the row's fixed witnesses.
func (p *Propagator) IsOffsetRow(r int) (OffsetRow, bool) {
	s := p.lp()
	row := s.Row(r)
	x, y := -1, -1
	for k, t := range row {
		if s.IsFixed(t.Var) {
			continue
		}
		switch {
		case x == -1 && t.Coeff.IsOne():
			x = k
		case y == -1 && t.Coeff.IsMinusOne():
			y = k
		default:
			return OffsetRow{}, false
		}
	}
	if x == -1 || y == -1 {
		return OffsetRow{}, false
	}
	xv, yv := row[x].Var, row[y].Var
	if s.IsInt(xv) != s.IsInt(yv) {
		return OffsetRow{}, false
	}

	offset, ok := p.fixedSum(r, row)
	if !ok {
		return OffsetRow{}, false
	}
	p.stats.OffsetRows++

	or := OffsetRow{Row: r, X: x, Y: y, XVar: xv, YVar: yv, Offset: offset}
	if offset.IsZero() {
		p.reportZeroOffset(or)
	}
	return or, true
}

// reportZeroOffset reports x = y for an offset row with offset zero.
func (p *Propagator) reportZeroOffset(or OffsetRow) {
	if p.pairIsReportedOrCongruent(or.XVar, or.YVar) {
		return
	}
	ex := lp.NewExplanation()
	p.explainFixedInRow(or.Row, ex)
	p.stats.ZeroOffsetEqs++
	p.addEqOnColumns(ex, or.XVar, or.YVar)
}

// fixedSum returns Σ coeff*value over the fixed terms of row r, or false
// when the sum overflows.
func (p *Propagator) fixedSum(r int, row []lp.Term) (rational.Rational, bool) {
	s := p.lp()
	sum := rational.Zero
	for _, t := range row {
		if !s.IsFixed(t.Var) {
			continue
		}
		lb, _ := s.LowerBound(t.Var)
		v, ok := t.Coeff.TryMul(lb.Value)
		if ok {
			sum, ok = sum.TryAdd(v)
		}
		if !ok {
			p.overflow(r, "offset")
			return rational.Zero, false
		}
	}
	return sum, true
}
