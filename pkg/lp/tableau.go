package lp

import (
	"fmt"
	"io"

	"github.com/gitrdm/boundprop/pkg/rational"
)

// column holds the per-variable state of a Tableau.
type column struct {
	name         string
	isInt        bool
	lower, upper *Bound
	lowerWitness ConstraintIndex
	upperWitness ConstraintIndex
	reported     Var
	cells        []ColumnCell
}

// Tableau is an in-memory Solver. Rows are stored as term lists and each
// column keeps the list of rows it occurs in, so both row and column
// traversals are O(size of the answer).
//
// Every bound set through SetLower, SetUpper or Fix receives a fresh
// constraint index which then serves as its witness.
type Tableau struct {
	cols        []column
	rows        [][]Term
	byName      map[string]Var
	nextWitness ConstraintIndex
}

var _ Solver = (*Tableau)(nil)

// NewTableau returns an empty tableau.
func NewTableau() *Tableau {
	return &Tableau{byName: make(map[string]Var)}
}

// AddVar declares a new free variable. Names must be unique; an empty name
// is replaced by "v<index>".
func (t *Tableau) AddVar(name string, isInt bool) (Var, error) {
	j := Var(len(t.cols))
	if name == "" {
		name = fmt.Sprintf("v%d", j)
	}
	if _, ok := t.byName[name]; ok {
		return NoVar, fmt.Errorf("%w: %q", ErrDuplicateVar, name)
	}
	t.cols = append(t.cols, column{
		name:         name,
		isInt:        isInt,
		lowerWitness: NoConstraint,
		upperWitness: NoConstraint,
		reported:     j,
	})
	t.byName[name] = j
	return j, nil
}

// VarByName looks a variable up by name.
func (t *Tableau) VarByName(name string) (Var, bool) {
	j, ok := t.byName[name]
	return j, ok
}

// Name returns the name of j.
func (t *Tableau) Name(j Var) string {
	if !t.valid(j) {
		return fmt.Sprintf("?%d", j)
	}
	return t.cols[j].name
}

// NumVars returns the number of declared variables.
func (t *Tableau) NumVars() int { return len(t.cols) }

// NumRows returns the number of rows.
func (t *Tableau) NumRows() int { return len(t.rows) }

// SetReportedIndex changes the id under which facts about j are reported.
func (t *Tableau) SetReportedIndex(j, reported Var) error {
	if !t.valid(j) {
		return fmt.Errorf("%w: %d", ErrUnknownVar, j)
	}
	t.cols[j].reported = reported
	return nil
}

// SetLower installs a lower bound on j and returns its witness.
func (t *Tableau) SetLower(j Var, b Bound) (ConstraintIndex, error) {
	if !t.valid(j) {
		return NoConstraint, fmt.Errorf("%w: %d", ErrUnknownVar, j)
	}
	c := &t.cols[j]
	if c.upper != nil && !boundsCompatible(b, *c.upper) {
		return NoConstraint, fmt.Errorf("%w: %s > %s for %s", ErrInvalidBounds, b.Value, c.upper.Value, c.name)
	}
	c.lower = &b
	c.lowerWitness = t.witness()
	return c.lowerWitness, nil
}

// SetUpper installs an upper bound on j and returns its witness.
func (t *Tableau) SetUpper(j Var, b Bound) (ConstraintIndex, error) {
	if !t.valid(j) {
		return NoConstraint, fmt.Errorf("%w: %d", ErrUnknownVar, j)
	}
	c := &t.cols[j]
	if c.lower != nil && !boundsCompatible(*c.lower, b) {
		return NoConstraint, fmt.Errorf("%w: %s > %s for %s", ErrInvalidBounds, c.lower.Value, b.Value, c.name)
	}
	c.upper = &b
	c.upperWitness = t.witness()
	return c.upperWitness, nil
}

// Fix sets both bounds of j to v. A single equality constraint witnesses
// both bounds.
func (t *Tableau) Fix(j Var, v rational.Rational) (ConstraintIndex, error) {
	if !t.valid(j) {
		return NoConstraint, fmt.Errorf("%w: %d", ErrUnknownVar, j)
	}
	c := &t.cols[j]
	ci := t.witness()
	c.lower = &Bound{Value: v}
	c.upper = &Bound{Value: v}
	c.lowerWitness, c.upperWitness = ci, ci
	return ci, nil
}

// AddRow appends the row Σ terms = 0 and returns its index.
func (t *Tableau) AddRow(terms ...Term) (int, error) {
	r := len(t.rows)
	if err := t.validateRow(r, terms); err != nil {
		return -1, err
	}
	t.rows = append(t.rows, t.linkRow(r, terms))
	return r, nil
}

func (t *Tableau) validateRow(r int, terms []Term) error {
	if len(terms) == 0 {
		return ErrEmptyRow
	}
	seen := make(map[Var]struct{}, len(terms))
	for _, tm := range terms {
		if !t.valid(tm.Var) {
			return fmt.Errorf("%w: %d", ErrUnknownVar, tm.Var)
		}
		if tm.Coeff.IsZero() {
			return fmt.Errorf("%w: %s in row %d", ErrZeroCoefficient, t.cols[tm.Var].name, r)
		}
		if _, dup := seen[tm.Var]; dup {
			return fmt.Errorf("%w: %s in row %d", ErrDuplicateVar, t.cols[tm.Var].name, r)
		}
		seen[tm.Var] = struct{}{}
	}
	return nil
}

// linkRow copies terms and records their occurrences in the columns.
func (t *Tableau) linkRow(r int, terms []Term) []Term {
	row := make([]Term, len(terms))
	copy(row, terms)
	for k, tm := range row {
		t.cols[tm.Var].cells = append(t.cols[tm.Var].cells, ColumnCell{Row: r, Index: k})
	}
	return row
}

// ReplaceRow substitutes the terms of an existing row, as a pivot on the
// solver would. Column occurrences are updated accordingly.
func (t *Tableau) ReplaceRow(r int, terms ...Term) error {
	if r < 0 || r >= len(t.rows) {
		return fmt.Errorf("lp: row %d out of range", r)
	}
	if err := t.validateRow(r, terms); err != nil {
		return err
	}
	for _, tm := range t.rows[r] {
		c := &t.cols[tm.Var]
		kept := c.cells[:0]
		for _, cell := range c.cells {
			if cell.Row != r {
				kept = append(kept, cell)
			}
		}
		c.cells = kept
	}
	t.rows[r] = t.linkRow(r, terms)
	return nil
}

// Row implements Solver.
func (t *Tableau) Row(r int) []Term {
	if r < 0 || r >= len(t.rows) {
		return nil
	}
	return t.rows[r]
}

// Column implements Solver.
func (t *Tableau) Column(j Var) []ColumnCell {
	if !t.valid(j) {
		return nil
	}
	return t.cols[j].cells
}

// IsFixed implements Solver.
func (t *Tableau) IsFixed(j Var) bool {
	if !t.valid(j) {
		return false
	}
	c := t.cols[j]
	return c.lower != nil && c.upper != nil &&
		!c.lower.Strict && !c.upper.Strict &&
		c.lower.Value.Equals(c.upper.Value)
}

// IsInt implements Solver.
func (t *Tableau) IsInt(j Var) bool {
	return t.valid(j) && t.cols[j].isInt
}

// LowerBound implements Solver.
func (t *Tableau) LowerBound(j Var) (Bound, bool) {
	if !t.valid(j) || t.cols[j].lower == nil {
		return Bound{}, false
	}
	return *t.cols[j].lower, true
}

// UpperBound implements Solver.
func (t *Tableau) UpperBound(j Var) (Bound, bool) {
	if !t.valid(j) || t.cols[j].upper == nil {
		return Bound{}, false
	}
	return *t.cols[j].upper, true
}

// BoundWitnesses implements Solver.
func (t *Tableau) BoundWitnesses(j Var) (lower, upper ConstraintIndex) {
	if !t.valid(j) {
		return NoConstraint, NoConstraint
	}
	return t.cols[j].lowerWitness, t.cols[j].upperWitness
}

// ReportedIndex implements Solver.
func (t *Tableau) ReportedIndex(j Var) Var {
	if !t.valid(j) {
		return NoVar
	}
	return t.cols[j].reported
}

// DisplayRow implements Solver. The row is printed as a sum followed by the
// values of its fixed variables, e.g. "r0: a - b - k = 0 [k=3]".
func (t *Tableau) DisplayRow(w io.Writer, r int) {
	row := t.Row(r)
	fmt.Fprintf(w, "r%d:", r)
	for k, tm := range row {
		writeTerm(w, k == 0, tm.Coeff, t.Name(tm.Var))
	}
	fmt.Fprint(w, " = 0")
	first := true
	for _, tm := range row {
		if !t.IsFixed(tm.Var) {
			continue
		}
		sep := " "
		if first {
			sep = " ["
		}
		fmt.Fprintf(w, "%s%s=%s", sep, t.Name(tm.Var), t.cols[tm.Var].lower.Value)
		first = false
	}
	if !first {
		fmt.Fprint(w, "]")
	}
}

func writeTerm(w io.Writer, first bool, c rational.Rational, name string) {
	sign := "+"
	if c.Sign() < 0 {
		if n, ok := c.TryNeg(); ok {
			sign, c = "-", n
		}
	}
	switch {
	case first && sign == "+":
		fmt.Fprint(w, " ")
	case first:
		fmt.Fprint(w, " -")
	default:
		fmt.Fprintf(w, " %s ", sign)
	}
	if !c.IsOne() {
		fmt.Fprintf(w, "%s*", c)
	}
	fmt.Fprint(w, name)
}

func (t *Tableau) witness() ConstraintIndex {
	ci := t.nextWitness
	t.nextWitness++
	return ci
}

func (t *Tableau) valid(j Var) bool {
	return j >= 0 && int(j) < len(t.cols)
}

// boundsCompatible reports whether lower <= upper (strictly, if either is strict).
func boundsCompatible(lower, upper Bound) bool {
	c := lower.Value.Cmp(upper.Value)
	if lower.Strict || upper.Strict {
		return c < 0
	}
	return c <= 0
}
