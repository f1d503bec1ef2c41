package problem

import (
	"github.com/gitrdm/boundprop/pkg/boundprop"
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/theory"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// Options selects the detectors run over every row.
type Options struct {
	Bounds bool // AnalyzeRow
	Table  bool // CheapEqTable
	Tree   bool // CheapEqTree

	Logger          zerolog.Logger
	CheckInvariants bool
	MaxTreeVertices int
}

// DefaultOptions runs every detector with logging disabled.
func DefaultOptions() Options {
	return Options{
		Bounds: true,
		Table:  true,
		Tree:   true,
		Logger: zerolog.Nop(),
	}
}

// Run performs one propagation pass over p: Init, then for each row in
// order AnalyzeRow, CheapEqTable and CheapEqTree as selected.
func Run(p *Problem, opts Options) *Report {
	core := theory.New(p.Tab)
	cfg := boundprop.DefaultConfig()
	cfg.Logger = opts.Logger.With().Str("problem", p.Name).Logger()
	cfg.OnBound = core.RecordBound
	cfg.CheckInvariants = opts.CheckInvariants
	cfg.MaxTreeVertices = opts.MaxTreeVertices

	prop := boundprop.New(core, cfg)
	prop.Init()
	for r := 0; r < p.Tab.NumRows(); r++ {
		if opts.Bounds {
			prop.AnalyzeRow(r)
		}
		if opts.Table {
			prop.CheapEqTable(r)
		}
		if opts.Tree {
			prop.CheapEqTree(r)
		}
	}
	return p.report(core, prop)
}

func (p *Problem) report(core *theory.Core, prop *boundprop.Propagator) *Report {
	rep := &Report{Name: p.Name, Stats: statsReport(prop.Stats())}
	for _, eq := range core.Equalities() {
		e := EqualityReport{A: p.NameOf(eq.I), B: p.NameOf(eq.J)}
		for _, ci := range eq.Explanation {
			e.Because = append(e.Because, p.Witness(ci))
		}
		rep.Equalities = append(rep.Equalities, e)
	}

	bounds := slices.Clone(prop.IBounds())
	slices.SortStableFunc(bounds, func(a, b lp.ImpliedBound) bool {
		na, nb := p.NameOf(a.Var), p.NameOf(b.Var)
		if na != nb {
			return na < nb
		}
		return a.Lower && !b.Lower
	})
	for _, b := range bounds {
		rep.Bounds = append(rep.Bounds, BoundReport{
			Var:   p.NameOf(b.Var),
			Op:    b.Kind().String(),
			Value: b.Bound.String(),
			Row:   b.Source,
		})
	}

	for _, class := range core.Classes() {
		names := make([]string, len(class))
		for i, id := range class {
			names[i] = p.NameOf(id)
		}
		slices.Sort(names)
		rep.Classes = append(rep.Classes, names)
	}
	return rep
}
