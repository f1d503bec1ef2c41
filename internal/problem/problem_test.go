package problem

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad_Chain(t *testing.T) {
	p, err := Load("testdata/chain.yaml")
	require.NoError(t, err)

	assert.Equal(t, "chain", p.Name)
	assert.Equal(t, 7, p.Tab.NumVars())
	assert.Equal(t, 3, p.Tab.NumRows())
	assert.Equal(t, "r1: b - c + m1 = 0 [m1=1]", lp.RowString(p.Tab, 1))
	assert.Equal(t, "k = 2", p.Witness(0))
	assert.Equal(t, "c9", p.Witness(9))
}

func TestParse_TermOrderFollowsFile(t *testing.T) {
	p, err := Parse("order", []byte(`
vars: [{name: a}, {name: b}, {name: k, fixed: "7/2"}]
rows:
  - {k: 2, b: -1, a: 1}
`))
	require.NoError(t, err)
	assert.Equal(t, "order", p.Name)
	assert.Equal(t, "r0: 2*k - b + a = 0 [k=7/2]", lp.RowString(p.Tab, 0))
}

func TestParse_Bounds(t *testing.T) {
	p, err := Parse("bounds", []byte(`
vars:
  - {name: x, lower: -1.5, strict_lower: true, upper: 4}
  - {name: n, int: true, reported: 12}
`))
	require.NoError(t, err)

	x, _ := p.Tab.VarByName("x")
	lb, ok := p.Tab.LowerBound(x)
	require.True(t, ok)
	assert.Equal(t, lp.Bound{Value: rational.New(-3, 2), Strict: true}, lb)
	lc, uc := p.Tab.BoundWitnesses(x)
	assert.Equal(t, "x > -3/2", p.Witness(lc))
	assert.Equal(t, "x <= 4", p.Witness(uc))

	n, _ := p.Tab.VarByName("n")
	assert.True(t, p.Tab.IsInt(n))
	assert.Equal(t, lp.Var(12), p.Tab.ReportedIndex(n))
	assert.Equal(t, "n", p.NameOf(12))
	assert.Equal(t, "#3", p.NameOf(3))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   error
	}{
		{"unknown variable", "vars: [{name: a}]\nrows: [{a: 1, b: 2}]", lp.ErrUnknownVar},
		{"zero coefficient", "vars: [{name: a}]\nrows: [{a: 0}]", lp.ErrZeroCoefficient},
		{"empty row", "vars: [{name: a}]\nrows: [{}]", lp.ErrEmptyRow},
		{"duplicate name", "vars: [{name: a}, {name: a}]", lp.ErrDuplicateVar},
		{"inverted bounds", "vars: [{name: a, lower: 2, upper: 1}]", lp.ErrInvalidBounds},
		{"fixed and bounded", "vars: [{name: a, fixed: 1, lower: 0}]", ErrInvalidProblem},
		{"unnamed", "vars: [{int: true}]", ErrInvalidProblem},
		{"row not a mapping", "vars: [{name: a}]\nrows: [[a, 1]]", ErrInvalidProblem},
		{"bad number", "vars: [{name: a, lower: 1/0}]", rational.ErrSyntax},
		{"number not scalar", "vars: [{name: a, lower: [1]}]", ErrInvalidProblem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.name, []byte(tt.doc))
			assert.ErrorIs(t, err, tt.is)
		})
	}

	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestRun_Chain(t *testing.T) {
	p, err := Load("testdata/chain.yaml")
	require.NoError(t, err)

	rep := Run(p, DefaultOptions())
	want := []EqualityReport{{A: "a", B: "d", Because: []string{"k = 2", "m1 = 1", "m2 = 1"}}}
	if diff := cmp.Diff(want, rep.Equalities); diff != "" {
		t.Errorf("equalities mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, [][]string{{"a", "d"}}, rep.Classes)
	assert.Equal(t, 1, rep.Stats.Equalities)
	assert.Equal(t, 3, rep.Stats.TreesBuilt)
}

func TestRun_DetectorSelection(t *testing.T) {
	p, err := Load("testdata/chain.yaml")
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Tree = false
	rep := Run(p, opts)
	assert.Empty(t, rep.Equalities, "only the tree sees a chain of three rows")
	assert.Zero(t, rep.Stats.TreesBuilt)
}

func TestRun_Bounds(t *testing.T) {
	p, err := Load("testdata/bounds.yaml")
	require.NoError(t, err)

	rep := Run(p, DefaultOptions())
	want := []BoundReport{
		{Var: "x", Op: ">", Value: "-1", Row: 0},
		{Var: "x", Op: "<=", Value: "5", Row: 0},
	}
	if diff := cmp.Diff(want, rep.Bounds); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
	// w - v = 0 equates the two variables outright, under their reported ids.
	require.Len(t, rep.Equalities, 1)
	assert.Equal(t, "w", rep.Equalities[0].A)
	assert.Equal(t, "v", rep.Equalities[0].B)
	assert.Empty(t, rep.Equalities[0].Because)
}

func TestEncode(t *testing.T) {
	p, err := Load("testdata/chain.yaml")
	require.NoError(t, err)
	reports := []*Report{Run(p, DefaultOptions()), {Name: "broken", Error: "boom"}}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, FormatText, reports))
		out := buf.String()
		assert.Contains(t, out, "problem chain\n")
		assert.Contains(t, out, "  eq    a = d  [k = 2, m1 = 1, m2 = 1]\n")
		assert.Contains(t, out, "  class {a, d}\n")
		assert.Contains(t, out, "problem broken\n  error: boom\n")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, FormatYAML, reports))
		var got []Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, *reports[0], got[0])
		assert.Contains(t, buf.String(), "trees_built: 3")
	})

	t.Run("cbor", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, FormatCBOR, reports))
		var got []Report
		require.NoError(t, cbor.Unmarshal(buf.Bytes(), &got))
		if diff := cmp.Diff(*reports[1], got[1]); diff != "" {
			t.Errorf("cbor mismatch (-want +got):\n%s", diff)
		}
	})

	assert.ErrorIs(t, Encode(&bytes.Buffer{}, Format("xml"), reports), ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
