package boundprop

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/gitrdm/boundprop/pkg/rational"
)

// ErrMalformedTree reports a broken invariant of the equality tree. It
// signals a defect in the exploration, never a property of the input.
var ErrMalformedTree = errors.New("boundprop: malformed equality tree")

// vertexID indexes the vertex arena of an eqTree.
type vertexID int32

const noVertex vertexID = -1

// vertex is the occurrence of a column at position index of an offset row.
// Tree edges link the two free occurrences of one offset row, or two
// occurrences of the same column in different rows.
type vertex struct {
	row      int
	index    int
	offset   rational.Rational // cumulative offset from the root: col = root + offset
	parent   vertexID
	level    int // hops to the root; used to find the common ancestor
	children []vertexID
}

// eqTree is the transient state of one CheapEqTree call. Vertices live in
// an arena that is truncated wholesale on reset, so no vertex outlives the
// exploration that created it.
type eqTree struct {
	verts        []vertex
	root         vertexID
	visitedRows  *bitset.BitSet
	visitedCols  *bitset.BitSet
	offsetToVert map[rational.Rational]vertexID
}

func (t *eqTree) init() {
	t.visitedRows = bitset.New(0)
	t.visitedCols = bitset.New(0)
	t.offsetToVert = make(map[rational.Rational]vertexID)
	t.root = noVertex
}

func (t *eqTree) reset() {
	t.verts = t.verts[:0]
	t.root = noVertex
	t.visitedRows.ClearAll()
	t.visitedCols.ClearAll()
	clear(t.offsetToVert)
}

func (t *eqTree) newVertex(row, index int, offset rational.Rational) vertexID {
	t.verts = append(t.verts, vertex{
		row:    row,
		index:  index,
		offset: offset,
		parent: noVertex,
	})
	return vertexID(len(t.verts) - 1)
}

func (t *eqTree) addChild(parent, child vertexID) {
	c := &t.verts[child]
	c.parent = parent
	c.level = t.verts[parent].level + 1
	t.verts[parent].children = append(t.verts[parent].children, child)
}

func (t *eqTree) size() int { return len(t.verts) }

// check verifies that the vertices reachable from the root form a tree in
// which no (row, index) pair repeats and every child sits one level below
// its parent. Both properties are needed for path finding to terminate.
func (t *eqTree) check() error {
	if t.root == noVertex {
		return nil
	}
	type occurrence struct{ row, index int }
	seen := make(map[occurrence]vertexID, len(t.verts))
	stack := []vertexID{t.root}
	seen[occurrence{t.verts[t.root].row, t.verts[t.root].index}] = t.root
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, u := range t.verts[v].children {
			cu := &t.verts[u]
			if cu.parent != v {
				return fmt.Errorf("%w: vertex %d lists child %d whose parent is %d", ErrMalformedTree, v, u, cu.parent)
			}
			if cu.level != t.verts[v].level+1 {
				return fmt.Errorf("%w: vertex %d at level %d under level %d", ErrMalformedTree, u, cu.level, t.verts[v].level)
			}
			occ := occurrence{cu.row, cu.index}
			if w, dup := seen[occ]; dup {
				return fmt.Errorf("%w: vertices %d and %d both stand for row %d index %d", ErrMalformedTree, w, u, cu.row, cu.index)
			}
			seen[occ] = u
			stack = append(stack, u)
		}
	}
	return nil
}
