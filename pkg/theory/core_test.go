package theory_test

import (
	"testing"

	"github.com/gitrdm/boundprop/pkg/boundprop"
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
	"github.com/gitrdm/boundprop/pkg/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ boundprop.Host = (*theory.Core)(nil)

func newTableau(t *testing.T, names ...string) (*lp.Tableau, []lp.Var) {
	t.Helper()
	tab := lp.NewTableau()
	vars := make([]lp.Var, len(names))
	for i, n := range names {
		v, err := tab.AddVar(n, false)
		require.NoError(t, err)
		vars[i] = v
	}
	return tab, vars
}

func TestCore_Congruence(t *testing.T) {
	tab, v := newTableau(t, "a", "b", "c", "d", "e")
	c := theory.New(tab)

	assert.False(t, c.CongruentOrIrrelevant(v[0], v[1]))
	c.AddEq(v[0], v[1], lp.NewExplanation(4))
	c.AddEq(v[2], v[1], lp.NewExplanation(5, 6))
	c.Merge(v[3], v[4])

	assert.True(t, c.CongruentOrIrrelevant(v[0], v[2]), "transitive")
	assert.True(t, c.CongruentOrIrrelevant(v[4], v[3]))
	assert.False(t, c.CongruentOrIrrelevant(v[0], v[3]))

	eqs := c.Equalities()
	require.Len(t, eqs, 2, "Merge records nothing")
	assert.Equal(t, theory.Equality{I: v[2], J: v[1], Explanation: []lp.ConstraintIndex{5, 6}}, eqs[1])

	assert.Equal(t, [][]lp.Var{{v[0], v[1], v[2]}, {v[3], v[4]}}, c.Classes())
}

func TestCore_Irrelevant(t *testing.T) {
	tab, v := newTableau(t, "a", "b")
	c := theory.New(tab)
	c.MarkIrrelevant(v[1])
	assert.True(t, c.CongruentOrIrrelevant(v[0], v[1]))
	assert.True(t, c.CongruentOrIrrelevant(v[1], v[0]))
	assert.Empty(t, c.Classes())
}

func TestCore_BoundIsInteresting(t *testing.T) {
	tab, v := newTableau(t, "x", "free")
	x := v[0]
	_, err := tab.SetLower(x, lp.Bound{Value: rational.FromInt(0)})
	require.NoError(t, err)
	_, err = tab.SetUpper(x, lp.Bound{Value: rational.FromInt(10), Strict: true})
	require.NoError(t, err)
	c := theory.New(tab)

	tests := []struct {
		name string
		kind lp.ConstraintKind
		v    int64
		want bool
	}{
		{"tighter lower", lp.GE, 1, true},
		{"same lower", lp.GE, 0, false},
		{"same lower strict", lp.GT, 0, true},
		{"looser lower", lp.GT, -1, false},
		{"tighter upper", lp.LE, 9, true},
		{"same upper non-strict", lp.LE, 10, false},
		{"same upper strict", lp.LT, 10, false},
		{"looser upper", lp.LT, 11, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.BoundIsInteresting(x, tt.kind, rational.FromInt(tt.v)))
		})
	}
	assert.True(t, c.BoundIsInteresting(v[1], lp.LE, rational.Zero), "no bound yet")

	// Recorded bounds are not consulted; the propagator keeps the tightest
	// one per pass itself.
	c.RecordBound(lp.ImpliedBound{Bound: rational.FromInt(5), Var: x, Lower: true})
	assert.True(t, c.BoundIsInteresting(x, lp.GE, rational.FromInt(3)))
}

func TestCore_ReportedIds(t *testing.T) {
	tab, v := newTableau(t, "x")
	require.NoError(t, tab.SetReportedIndex(v[0], 30))
	_, err := tab.SetUpper(v[0], lp.Bound{Value: rational.FromInt(5)})
	require.NoError(t, err)
	c := theory.New(tab)

	// 30 is mapped back to x, whose upper bound is 5.
	assert.False(t, c.BoundIsInteresting(30, lp.LE, rational.FromInt(6)))
	assert.True(t, c.BoundIsInteresting(30, lp.LE, rational.FromInt(4)))
	assert.Same(t, tab, c.Solver().(*lp.Tableau))
}

func TestCore_RecordBound(t *testing.T) {
	tab, _ := newTableau(t, "x")
	c := theory.New(tab)
	b := lp.ImpliedBound{Bound: rational.One, Var: 0, Lower: true}
	c.RecordBound(b)
	assert.Equal(t, []lp.ImpliedBound{b}, c.Bounds())
}
