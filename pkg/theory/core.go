// Package theory provides Core, a minimal theory-combination layer that
// consumes the facts produced by the propagation engine.
//
// Core answers the questions the engine asks of its host (is a bound worth
// reporting, are two variables already known equal) and records every
// equality and implied bound it receives. Equalities are merged into a
// disjoint-set forest so that transitively implied equalities count as
// congruent and are not reported twice.
package theory

import (
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Equality is an equality between two reported variables and the witness
// constraints that justify it.
type Equality struct {
	I, J        lp.Var
	Explanation []lp.ConstraintIndex
}

// Core is the reference host of the propagation engine. It is not safe for
// concurrent use.
type Core struct {
	solver lp.Solver

	// internal maps reported ids back to columns, used by the bound test.
	internal map[lp.Var]lp.Var

	// disjoint-set forest over reported ids.
	parent map[lp.Var]lp.Var
	rank   map[lp.Var]int

	irrelevant map[lp.Var]struct{}
	eqs        []Equality
	bounds     []lp.ImpliedBound
}

// New returns a Core over s. When s can enumerate its columns (it has a
// NumVars method, as lp.Tableau does) reported ids are mapped back to columns
// for the bound test; otherwise reported ids are assumed to be columns.
func New(s lp.Solver) *Core {
	c := &Core{
		solver:     s,
		internal:   make(map[lp.Var]lp.Var),
		parent:     make(map[lp.Var]lp.Var),
		rank:       make(map[lp.Var]int),
		irrelevant: make(map[lp.Var]struct{}),
	}
	if n, ok := s.(interface{ NumVars() int }); ok {
		for j := lp.Var(0); int(j) < n.NumVars(); j++ {
			c.internal[s.ReportedIndex(j)] = j
		}
	}
	return c
}

// Solver returns the solver the core reasons about.
func (c *Core) Solver() lp.Solver { return c.solver }

// BoundIsInteresting reports whether v, as a bound of the given kind on the
// reported variable j, is tighter than the bound the solver already has.
// At equal values a strict bound is tighter than a non-strict one.
func (c *Core) BoundIsInteresting(j lp.Var, kind lp.ConstraintKind, v rational.Rational) bool {
	col := c.column(j)
	if kind.IsLower() {
		lb, ok := c.solver.LowerBound(col)
		if !ok {
			return true
		}
		cmp := v.Cmp(lb.Value)
		return cmp > 0 || (cmp == 0 && kind.IsStrict() && !lb.Strict)
	}
	ub, ok := c.solver.UpperBound(col)
	if !ok {
		return true
	}
	cmp := v.Cmp(ub.Value)
	return cmp < 0 || (cmp == 0 && kind.IsStrict() && !ub.Strict)
}

// AddEq records i = j and merges their classes.
func (c *Core) AddEq(i, j lp.Var, ex *lp.Explanation) {
	c.eqs = append(c.eqs, Equality{I: i, J: j, Explanation: ex.Constraints()})
	c.Merge(i, j)
}

// CongruentOrIrrelevant reports whether i and j are already in the same
// class, or whether either of them was marked irrelevant.
func (c *Core) CongruentOrIrrelevant(i, j lp.Var) bool {
	if _, ok := c.irrelevant[i]; ok {
		return true
	}
	if _, ok := c.irrelevant[j]; ok {
		return true
	}
	return c.find(i) == c.find(j)
}

// RecordBound stores an implied bound. It matches the signature of the
// engine's bound callback.
func (c *Core) RecordBound(b lp.ImpliedBound) {
	c.bounds = append(c.bounds, b)
}

// MarkIrrelevant excludes the reported variable j from equality reporting.
func (c *Core) MarkIrrelevant(j lp.Var) {
	c.irrelevant[j] = struct{}{}
}

// Merge declares i and j equal without recording an equality, e.g. for
// facts known before propagation starts.
func (c *Core) Merge(i, j lp.Var) {
	ri, rj := c.find(i), c.find(j)
	if ri == rj {
		return
	}
	if c.rank[ri] < c.rank[rj] {
		ri, rj = rj, ri
	}
	c.parent[rj] = ri
	if c.rank[ri] == c.rank[rj] {
		c.rank[ri]++
	}
}

// Equalities returns the equalities received so far, in arrival order.
func (c *Core) Equalities() []Equality { return c.eqs }

// Bounds returns the implied bounds received so far, in arrival order.
func (c *Core) Bounds() []lp.ImpliedBound { return c.bounds }

// Classes returns the non-trivial equivalence classes, each sorted, ordered
// by their smallest member.
func (c *Core) Classes() [][]lp.Var {
	groups := make(map[lp.Var][]lp.Var)
	for _, v := range maps.Keys(c.parent) {
		r := c.find(v)
		groups[r] = append(groups[r], v)
	}
	var out [][]lp.Var
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		slices.Sort(members)
		out = append(out, members)
	}
	slices.SortFunc(out, func(a, b []lp.Var) bool { return a[0] < b[0] })
	return out
}

// find returns the representative of v, compressing paths on the way up.
func (c *Core) find(v lp.Var) lp.Var {
	if _, ok := c.parent[v]; !ok {
		c.parent[v] = v
		return v
	}
	for c.parent[v] != v {
		c.parent[v] = c.parent[c.parent[v]]
		v = c.parent[v]
	}
	return v
}

func (c *Core) column(j lp.Var) lp.Var {
	if col, ok := c.internal[j]; ok {
		return col
	}
	return j
}
