// Package problem loads propagation problems from YAML files into an
// lp.Tableau, runs one propagation pass over them, and encodes the derived
// facts.
//
// A problem file lists variables with their bounds and rows as ordered
// mappings from variable name to coefficient:
//
//	name: chain
//	vars:
//	  - {name: a}
//	  - {name: b, int: true, lower: 0, upper: 10}
//	  - {name: c, lower: -1, strict_lower: true}
//	  - {name: k, fixed: 3}
//	rows:
//	  - {a: 1, b: -1, k: -1}
//
// Numbers may be integers, finite decimals or fractions ("7/2").
package problem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
	"gopkg.in/yaml.v3"
)

// ErrInvalidProblem is returned for problem files that do not describe a
// valid tableau.
var ErrInvalidProblem = errors.New("problem: invalid problem")

// Number is a rational scalar of a problem file.
type Number struct {
	rational.Rational
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a number", ErrInvalidProblem, node.Line)
	}
	r, err := rational.Parse(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	n.Rational = r
	return nil
}

// VarSpec declares one variable.
type VarSpec struct {
	Name        string  `yaml:"name"`
	Int         bool    `yaml:"int,omitempty"`
	Lower       *Number `yaml:"lower,omitempty"`
	Upper       *Number `yaml:"upper,omitempty"`
	StrictLower bool    `yaml:"strict_lower,omitempty"`
	StrictUpper bool    `yaml:"strict_upper,omitempty"`
	Fixed       *Number `yaml:"fixed,omitempty"`
	// Reported overrides the id under which facts about the variable are
	// reported.
	Reported *int `yaml:"reported,omitempty"`
}

// RowSpec is one row, Σ coeff*var = 0, in file order.
type RowSpec struct {
	Terms []TermSpec
	Line  int
}

// TermSpec is one entry of a RowSpec.
type TermSpec struct {
	Var   string
	Coeff rational.Rational
}

// UnmarshalYAML reads a mapping while keeping its key order, which decides
// term order in the tableau.
func (r *RowSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: a row is a mapping from variable to coefficient", ErrInvalidProblem, node.Line)
	}
	r.Line = node.Line
	r.Terms = make([]TermSpec, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var c Number
		if err := node.Content[i+1].Decode(&c); err != nil {
			return err
		}
		r.Terms = append(r.Terms, TermSpec{Var: node.Content[i].Value, Coeff: c.Rational})
	}
	return nil
}

// File is the document structure of a problem file.
type File struct {
	Name string    `yaml:"name"`
	Vars []VarSpec `yaml:"vars"`
	Rows []RowSpec `yaml:"rows"`
}

// Problem is a loaded problem ready to be propagated.
type Problem struct {
	Name string
	Tab  *lp.Tableau

	// names maps reported ids to variable names.
	names map[lp.Var]string
	// witnesses describes each witness constraint, e.g. "k = 3".
	witnesses map[lp.ConstraintIndex]string
}

// Load reads and builds the problem in path. The problem is named after
// the file unless the file names it.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse builds a problem from YAML data.
func Parse(name string, data []byte) (*Problem, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Name == "" {
		f.Name = name
	}
	return Build(&f)
}

// Build turns a decoded File into a Problem.
func Build(f *File) (*Problem, error) {
	p := &Problem{
		Name:      f.Name,
		Tab:       lp.NewTableau(),
		names:     make(map[lp.Var]string),
		witnesses: make(map[lp.ConstraintIndex]string),
	}
	for _, vs := range f.Vars {
		if err := p.addVar(vs); err != nil {
			return nil, err
		}
	}
	for i, rs := range f.Rows {
		terms := make([]lp.Term, len(rs.Terms))
		for k, ts := range rs.Terms {
			j, ok := p.Tab.VarByName(ts.Var)
			if !ok {
				return nil, fmt.Errorf("row %d (line %d): %w: %q", i, rs.Line, lp.ErrUnknownVar, ts.Var)
			}
			terms[k] = lp.Term{Var: j, Coeff: ts.Coeff}
		}
		if _, err := p.Tab.AddRow(terms...); err != nil {
			return nil, fmt.Errorf("row %d (line %d): %w", i, rs.Line, err)
		}
	}
	for j := lp.Var(0); int(j) < p.Tab.NumVars(); j++ {
		p.names[p.Tab.ReportedIndex(j)] = p.Tab.Name(j)
	}
	return p, nil
}

func (p *Problem) addVar(vs VarSpec) error {
	if vs.Name == "" {
		return fmt.Errorf("%w: variable without a name", ErrInvalidProblem)
	}
	j, err := p.Tab.AddVar(vs.Name, vs.Int)
	if err != nil {
		return err
	}
	if vs.Reported != nil {
		if err := p.Tab.SetReportedIndex(j, lp.Var(*vs.Reported)); err != nil {
			return err
		}
	}

	if vs.Fixed != nil {
		if vs.Lower != nil || vs.Upper != nil {
			return fmt.Errorf("%w: %s is fixed and bounded", ErrInvalidProblem, vs.Name)
		}
		ci, err := p.Tab.Fix(j, vs.Fixed.Rational)
		if err != nil {
			return err
		}
		p.witnesses[ci] = fmt.Sprintf("%s = %s", vs.Name, vs.Fixed.Rational)
		return nil
	}
	if vs.Lower != nil {
		b := lp.Bound{Value: vs.Lower.Rational, Strict: vs.StrictLower}
		ci, err := p.Tab.SetLower(j, b)
		if err != nil {
			return err
		}
		p.witnesses[ci] = fmt.Sprintf("%s %s %s", vs.Name, lp.KindOf(true, b.Strict), b.Value)
	}
	if vs.Upper != nil {
		b := lp.Bound{Value: vs.Upper.Rational, Strict: vs.StrictUpper}
		ci, err := p.Tab.SetUpper(j, b)
		if err != nil {
			return fmt.Errorf("%s: %w", vs.Name, err)
		}
		p.witnesses[ci] = fmt.Sprintf("%s %s %s", vs.Name, lp.KindOf(false, b.Strict), b.Value)
	}
	return nil
}

// NameOf returns the name of the variable reported as id.
func (p *Problem) NameOf(id lp.Var) string {
	if n, ok := p.names[id]; ok {
		return n
	}
	return fmt.Sprintf("#%d", id)
}

// Witness describes constraint ci.
func (p *Problem) Witness(ci lp.ConstraintIndex) string {
	if w, ok := p.witnesses[ci]; ok {
		return w
	}
	return fmt.Sprintf("c%d", ci)
}
