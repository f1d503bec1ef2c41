package boundprop

import "github.com/gitrdm/boundprop/pkg/lp"

// findPathOnTree returns the vertices joining u to v through their common
// ancestor, u first and v last.
//
// Only the endpoints and the parents reached through an edge inside one
// row are kept: an edge between two rows links two occurrences of the same
// column and needs no justification. The climb stops early when the two
// sides meet on the same row at the same offset, since that row alone
// already equates them.
func (p *Propagator) findPathOnTree(u, v vertexID) []vertexID {
	t := &p.tree
	path := []vertexID{u}
	vBranch := []vertexID{v}

	// Equalize the levels.
	for t.verts[u].level > t.verts[v].level {
		up := t.verts[u].parent
		if t.verts[u].row == t.verts[up].row {
			path = append(path, up)
		}
		u = up
	}
	for t.verts[u].level < t.verts[v].level {
		vp := t.verts[v].parent
		if t.verts[v].row == t.verts[vp].row {
			vBranch = append(vBranch, vp)
		}
		v = vp
	}

	for u != v {
		vu, vv := &t.verts[u], &t.verts[v]
		if vu.row == vv.row && vu.offset.Equals(vv.offset) {
			break
		}
		up, vp := vu.parent, vv.parent
		if t.verts[up].row == vu.row {
			path = append(path, up)
		}
		if t.verts[vp].row == vv.row {
			vBranch = append(vBranch, vp)
		}
		u, v = up, vp
	}

	for i := len(vBranch) - 1; i >= 0; i-- {
		path = append(path, vBranch[i])
	}
	return path
}

// explanationFromPath collects the fixed witnesses of every row on path,
// skipping a row repeated by consecutive vertices.
func (p *Propagator) explanationFromPath(path []vertexID) *lp.Explanation {
	ex := lp.NewExplanation()
	prevRow := -1
	for _, v := range path {
		r := p.tree.verts[v].row
		if r == prevRow {
			continue
		}
		prevRow = r
		p.explainFixedInRow(r, ex)
	}
	return ex
}

// pathAndExplanation returns the rows along the path from u to v, one per
// run of consecutive vertices on the same row, and the explanation built
// from them.
func (p *Propagator) pathAndExplanation(u, v vertexID) ([]int, *lp.Explanation) {
	path := p.findPathOnTree(u, v)
	rows := make([]int, 0, len(path))
	for _, w := range path {
		r := p.tree.verts[w].row
		if len(rows) == 0 || rows[len(rows)-1] != r {
			rows = append(rows, r)
		}
	}
	return rows, p.explanationFromPath(path)
}
