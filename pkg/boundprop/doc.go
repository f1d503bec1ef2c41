// Package boundprop harvests cheap structural consequences from the rows of
// a linear-arithmetic solver: tightened bounds on single variables, and
// equalities between variables linked by a constant offset.
//
// An offset row is a row that, after substituting its fixed variables,
// reads x = y + k with x and y free and of the same integrality. Offset
// rows are found by IsOffsetRow and feed two equality detectors:
//
//   - CheapEqTable keeps a persistent (y, k) → row table and catches
//     x = y + k, x2 = y + k from two rows in one hop.
//   - CheapEqTree explores, from one root row, every offset row reachable
//     through shared columns, building a tree whose vertices carry their
//     cumulative offset from the root. Two vertices at the same offset on
//     different columns are equal; the path between them through their
//     common ancestor gives the rows whose fixed variables explain it.
//
// Bounds derived by AnalyzeRow are filtered by TryAddBound, which keeps only
// the tightest bound per variable and direction within a pass.
//
// Every reported fact carries an lp.Explanation made of the bound witnesses
// of the fixed variables involved. A Propagator is single-threaded: all
// operations run to completion synchronously and only query the solver.
package boundprop
