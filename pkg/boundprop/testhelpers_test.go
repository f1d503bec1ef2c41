package boundprop

import (
	"testing"

	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
	"github.com/gitrdm/boundprop/pkg/theory"
	"github.com/stretchr/testify/require"
)

// fixture builds a tableau by variable name and wires a propagator to a
// theory.Core over it.
type fixture struct {
	t       *testing.T
	tab     *lp.Tableau
	core    *theory.Core
	p       *Propagator
	cfg     *Config
	witness map[string]lp.ConstraintIndex
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := DefaultConfig()
	cfg.CheckInvariants = true
	return &fixture{
		t:       t,
		tab:     lp.NewTableau(),
		cfg:     cfg,
		witness: make(map[string]lp.ConstraintIndex),
	}
}

func (f *fixture) free(names ...string) {
	f.t.Helper()
	for _, n := range names {
		_, err := f.tab.AddVar(n, false)
		require.NoError(f.t, err)
	}
}

func (f *fixture) freeInt(names ...string) {
	f.t.Helper()
	for _, n := range names {
		_, err := f.tab.AddVar(n, true)
		require.NoError(f.t, err)
	}
}

// fixed declares a variable fixed to v and remembers its witness.
func (f *fixture) fixed(name string, v int64) lp.Var {
	f.t.Helper()
	j, err := f.tab.AddVar(name, false)
	require.NoError(f.t, err)
	ci, err := f.tab.Fix(j, rational.FromInt(v))
	require.NoError(f.t, err)
	f.witness[name] = ci
	return j
}

func (f *fixture) v(name string) lp.Var {
	f.t.Helper()
	j, ok := f.tab.VarByName(name)
	require.True(f.t, ok, "unknown variable %s", name)
	return j
}

// row adds a row from alternating name/coefficient arguments:
// f.row("a", 1, "b", -1, "k", -1).
func (f *fixture) row(args ...any) int {
	f.t.Helper()
	require.Zero(f.t, len(args)%2)
	terms := make([]lp.Term, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		terms = append(terms, lp.Term{
			Var:   f.v(args[i].(string)),
			Coeff: rational.FromInt(int64(args[i+1].(int))),
		})
	}
	r, err := f.tab.AddRow(terms...)
	require.NoError(f.t, err)
	return r
}

// start creates the host and propagator once the tableau is complete.
func (f *fixture) start() *Propagator {
	f.core = theory.New(f.tab)
	f.cfg.OnBound = f.core.RecordBound
	f.p = New(f.core, f.cfg)
	f.p.Init()
	return f.p
}

// witnesses returns the witnesses of the named fixed variables.
func (f *fixture) witnesses(names ...string) []lp.ConstraintIndex {
	out := make([]lp.ConstraintIndex, len(names))
	for i, n := range names {
		out[i] = f.witness[n]
	}
	return out
}

// eqPairs returns the reported equalities as name pairs.
func (f *fixture) eqPairs() [][2]string {
	var out [][2]string
	for _, e := range f.core.Equalities() {
		out = append(out, [2]string{f.tab.Name(e.I), f.tab.Name(e.J)})
	}
	return out
}

func (f *fixture) equal(a, b string) bool {
	return f.core.CongruentOrIrrelevant(f.v(a), f.v(b))
}
