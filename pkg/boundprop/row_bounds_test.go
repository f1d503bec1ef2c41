package boundprop

import (
	"testing"

	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) bounds(name string, lo, hi int64, strictLo, strictHi bool) {
	f.t.Helper()
	j := f.v(name)
	_, err := f.tab.SetLower(j, lp.Bound{Value: rational.FromInt(lo), Strict: strictLo})
	require.NoError(f.t, err)
	_, err = f.tab.SetUpper(j, lp.Bound{Value: rational.FromInt(hi), Strict: strictHi})
	require.NoError(f.t, err)
}

func TestAnalyzeRow_Strictness(t *testing.T) {
	f := newFixture(t)
	f.free("x", "y", "z")
	f.bounds("y", 0, 2, false, true)
	f.bounds("z", 1, 5, false, false)
	r := f.row("x", 1, "y", 1, "z", -1) // x = z - y

	p := f.start()
	p.AnalyzeRow(r)

	want := []lp.ImpliedBound{
		{Bound: rational.FromInt(-1), Var: f.v("x"), Lower: true, CoeffPos: true, Source: r, Strict: true},
		{Bound: rational.FromInt(5), Var: f.v("x"), Lower: false, CoeffPos: true, Source: r, Strict: false},
	}
	assert.Equal(t, want, p.IBounds())
	assert.Equal(t, want, f.core.Bounds())
}

func TestAnalyzeRow_NegativeCoefficient(t *testing.T) {
	f := newFixture(t)
	f.free("x", "y")
	f.bounds("y", 2, 6, false, false)
	r := f.row("x", -2, "y", 1) // 2x = y

	p := f.start()
	p.AnalyzeRow(r)

	bs := p.IBounds()
	require.Len(t, bs, 2)
	assert.Equal(t, lp.GE, bs[0].Kind())
	assert.Equal(t, rational.FromInt(1), bs[0].Bound)
	assert.Equal(t, lp.LE, bs[1].Kind())
	assert.Equal(t, rational.FromInt(3), bs[1].Bound)
	assert.False(t, bs[0].CoeffPos)
}

func TestAnalyzeRow_Fractions(t *testing.T) {
	f := newFixture(t)
	f.free("x", "y")
	f.bounds("y", 1, 2, false, false)
	r := f.row("x", 3, "y", -1) // 3x = y

	p := f.start()
	p.AnalyzeRow(r)

	bs := p.IBounds()
	require.Len(t, bs, 2)
	assert.Equal(t, rational.New(1, 3), bs[0].Bound)
	assert.Equal(t, rational.New(2, 3), bs[1].Bound)
}

func TestAnalyzeRow_NothingToDerive(t *testing.T) {
	t.Run("two unbounded terms", func(t *testing.T) {
		f := newFixture(t)
		f.free("x", "y", "z")
		f.bounds("z", 0, 1, false, false)
		r := f.row("x", 1, "y", 1, "z", -1)
		p := f.start()
		p.AnalyzeRow(r)
		assert.Empty(t, p.IBounds())
	})

	t.Run("fixed targets are skipped", func(t *testing.T) {
		f := newFixture(t)
		f.fixed("k", 3)
		f.fixed("m", 4)
		r := f.row("k", 1, "m", -1)
		p := f.start()
		p.AnalyzeRow(r)
		assert.Empty(t, p.IBounds())
	})

	t.Run("already known", func(t *testing.T) {
		f := newFixture(t)
		f.free("x", "y")
		f.bounds("x", 0, 10, false, false)
		f.bounds("y", 0, 10, false, false)
		r := f.row("x", 1, "y", -1)
		p := f.start()
		p.AnalyzeRow(r)
		assert.Empty(t, p.IBounds())
	})
}

// Bounds on the other terms of an offset row shift through the offset.
func TestAnalyzeRow_OffsetRow(t *testing.T) {
	f := newFixture(t)
	f.free("x", "y")
	f.fixed("k", 3)
	f.bounds("y", 0, 10, false, false)
	r := f.row("x", 1, "y", -1, "k", -1) // x = y + 3

	p := f.start()
	p.AnalyzeRow(r)

	bs := p.IBounds()
	require.Len(t, bs, 2)
	assert.Equal(t, f.v("x"), bs[0].Var)
	assert.Equal(t, rational.FromInt(3), bs[0].Bound)
	assert.Equal(t, rational.FromInt(13), bs[1].Bound)
}

// Arithmetic that leaves int64 costs precision, never soundness or a panic.
func TestAnalyzeRow_Overflow(t *testing.T) {
	upperX := func(f *fixture, r int, v int64) []lp.ImpliedBound {
		return []lp.ImpliedBound{
			{Bound: rational.FromInt(v), Var: f.v("x"), Lower: false, CoeffPos: true, Source: r, Strict: false},
		}
	}

	t.Run("sum of maxima", func(t *testing.T) {
		f := newFixture(t)
		f.free("x", "y", "z")
		f.bounds("y", 0, 1<<62, false, false)
		f.bounds("z", 0, 1<<62, false, false)
		r := f.row("x", 1, "y", 1, "z", 1) // x = -(y + z)

		p := f.start()
		require.NotPanics(t, func() { p.AnalyzeRow(r) })

		// Smax overflows, so only the minima bound x from above.
		assert.Equal(t, upperX(f, r, 0), p.IBounds())
		assert.Equal(t, 1, p.Stats().Overflows)
	})

	t.Run("term product", func(t *testing.T) {
		f := newFixture(t)
		f.free("x", "y")
		f.bounds("y", 1, 1<<62, false, false)
		r := f.row("x", 1, "y", 4) // x = -4y

		p := f.start()
		require.NotPanics(t, func() { p.AnalyzeRow(r) })

		// 4 * 2^62 is treated as no upper bound on 4y.
		assert.Equal(t, upperX(f, r, -4), p.IBounds())
		assert.Equal(t, 1, p.Stats().Overflows)
	})
}
