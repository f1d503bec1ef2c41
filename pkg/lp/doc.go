// Package lp describes the view of a linear-arithmetic solver that the
// propagation engine consumes, and provides Tableau, an in-memory
// implementation of that view.
//
// A solver is a collection of rows. Each row is a list of terms (variable,
// coefficient) whose sum is zero. Every variable (column) carries optional
// lower and upper bounds; each bound is justified by a constraint index, its
// witness. A variable whose lower and upper bounds coincide is fixed.
//
// The propagation engine never mutates the solver. It reads rows, walks the
// columns of variables, and cites witnesses in the explanations it produces.
package lp
