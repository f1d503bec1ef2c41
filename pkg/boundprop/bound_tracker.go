package boundprop

import (
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
)

// TryAddBound offers the bound j >= v (isLower) or j <= v to the current
// pass. j is a column; it is mapped to its reported id first. coeffPos is
// the sign of j's coefficient in the source row.
//
// The bound is dropped when the host does not find it interesting. At most
// one bound per (variable, direction) is kept: a later candidate replaces it
// only when strictly tighter, or equal in value but strict where the kept
// one is not.
func (p *Propagator) TryAddBound(v rational.Rational, j lp.Var, isLower, coeffPos bool, source int, strict bool) {
	j = p.lp().ReportedIndex(j)
	kind := lp.KindOf(isLower, strict)
	if !p.host.BoundIsInteresting(j, kind, v) {
		return
	}

	nb := lp.ImpliedBound{
		Bound:    v,
		Var:      j,
		Lower:    isLower,
		CoeffPos: coeffPos,
		Source:   source,
		Strict:   strict,
	}
	improved := p.improvedUpper
	if isLower {
		improved = p.improvedLower
	}

	k, ok := improved[j]
	if !ok {
		improved[j] = len(p.ibounds)
		p.ibounds = append(p.ibounds, nb)
		p.stats.BoundsAdded++
		p.boundChanged(nb)
		return
	}

	found := &p.ibounds[k]
	cmp := v.Cmp(found.Bound)
	tighter := cmp < 0
	if isLower {
		tighter = cmp > 0
	}
	if tighter || (cmp == 0 && !found.Strict && strict) {
		*found = nb
		p.stats.BoundsImproved++
		p.boundChanged(nb)
	}
}

func (p *Propagator) boundChanged(b lp.ImpliedBound) {
	p.log.Trace().Str("tag", "try_add_bound").Stringer("bound", b).Msg("implied bound")
	if p.cfg.OnBound != nil {
		p.cfg.OnBound(b)
	}
}
