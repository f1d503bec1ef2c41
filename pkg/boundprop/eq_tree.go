package boundprop

import (
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
)

// CheapEqTree looks for equalities among the columns reachable from row r
// through offset rows.
//
// The root is the x occurrence of r at offset zero, with the y occurrence
// below it at r's offset. Exploring a vertex visits its column once; every
// unvisited offset row through that column hangs two vertices under it: the
// row's occurrence of the same column (same offset), then the row's other
// free occurrence, at the offset shifted by the row's offset. Two vertices
// at the same offset on different columns are equal.
//
// Rows and columns are expanded at most once per call, so the work is
// linear in what is reachable. The tree is discarded before returning.
func (p *Propagator) CheapEqTree(r int) {
	defer p.finishTree()
	p.buildTree(r)
}

// buildTree resets the tree and explores it from row r, reporting
// equalities on the way. It returns false when r is not an offset row. The
// tree is left in place for inspection.
func (p *Propagator) buildTree(r int) bool {
	t := &p.tree
	t.reset()

	or, ok := p.IsOffsetRow(r)
	if !ok {
		return false
	}
	p.traceRow("cheap_eq", "building tree", r)
	p.stats.TreesBuilt++

	t.root = t.newVertex(r, or.X, rational.Zero)
	vy := t.newVertex(r, or.Y, or.Offset)
	t.addChild(t.root, vy)
	p.checkTree()
	t.visitedRows.Set(uint(r))

	p.exploreUnder(t.root)
	p.exploreUnder(vy)
	return true
}

// finishTree records the size of the tree and releases it.
func (p *Propagator) finishTree() {
	t := &p.tree
	p.stats.LastTreeRows = int(t.visitedRows.Count())
	p.stats.LastTreeColumns = int(t.visitedCols.Count())
	p.stats.LastTreeVertices = t.size()
	if t.size() > p.stats.MaxTreeVertices {
		p.stats.MaxTreeVertices = t.size()
	}
	p.log.Trace().Str("tag", "cheap_eq").Int("vertices", t.size()).Msg("tree done")
	t.reset()
}

// column returns the variable a vertex stands for.
func (p *Propagator) column(v vertexID) lp.Var {
	vx := &p.tree.verts[v]
	return p.lp().Row(vx.row)[vx.index].Var
}

func (p *Propagator) exploreUnder(v vertexID) {
	p.checkForEqAndAddToOffsetTable(v)
	p.goOverVertexColumn(v)
}

// checkForEqAndAddToOffsetTable reports an equality when another column
// already sits at v's offset, and registers v otherwise.
func (p *Propagator) checkForEqAndAddToOffsetTable(v vertexID) {
	t := &p.tree
	off := t.verts[v].offset
	k, ok := t.offsetToVert[off]
	if !ok {
		t.offsetToVert[off] = v
		return
	}
	ck, cv := p.column(k), p.column(v)
	if ck != cv && !p.pairIsReportedOrCongruent(ck, cv) {
		p.reportEq(k, v)
	}
}

// goOverVertexColumn hangs every unvisited offset row through v's column
// under v and explores the far end of each.
func (p *Propagator) goOverVertexColumn(v vertexID) {
	t := &p.tree
	j := p.column(v)
	if t.visitedCols.Test(uint(j)) {
		return
	}
	t.visitedCols.Set(uint(j))

	for _, c := range p.lp().Column(j) {
		r := c.Row
		if t.visitedRows.Test(uint(r)) {
			continue
		}
		if p.cfg.MaxTreeVertices > 0 && t.size()+2 > p.cfg.MaxTreeVertices {
			p.log.Trace().Str("tag", "cheap_eq").Int("vertices", t.size()).
				Int("max", p.cfg.MaxTreeVertices).Int("row", r).
				Msg("vertex cap reached, exploration stopped")
			return
		}
		t.visitedRows.Set(uint(r))
		or, ok := p.IsOffsetRow(r)
		if !ok {
			continue
		}
		p.traceRow("cheap_eq", "attaching row", r)

		off := t.verts[v].offset
		nearIdx, farIdx := or.X, or.Y
		farOff, fits := off.TryAdd(or.Offset)
		if or.XVar != j {
			nearIdx, farIdx = or.Y, or.X
			farOff, fits = off.TrySub(or.Offset)
		}
		if !fits {
			p.overflow(r, "tree offset")
			continue
		}
		near := t.newVertex(r, nearIdx, off)
		t.addChild(v, near)
		far := t.newVertex(r, farIdx, farOff)
		t.addChild(near, far)
		p.checkTree()
		p.exploreUnder(far)
	}
}

// reportEq reports col(u) = col(v) for two vertices at the same offset.
func (p *Propagator) reportEq(u, v vertexID) {
	rows, ex := p.pathAndExplanation(u, v)
	p.log.Trace().Str("tag", "cheap_eq").Ints("path_rows", rows).Msg("eq path")
	p.stats.TreeEqs++
	p.addEqOnColumns(ex, p.column(u), p.column(v))
}

// checkTree panics on a malformed tree when invariant checking is on.
func (p *Propagator) checkTree() {
	if !p.cfg.CheckInvariants {
		return
	}
	if err := p.tree.check(); err != nil {
		panic(err)
	}
}
