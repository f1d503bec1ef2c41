package boundprop

import (
	"github.com/gitrdm/boundprop/pkg/lp"
	"github.com/gitrdm/boundprop/pkg/rational"
	"github.com/rs/zerolog"
)

// varOffset keys the table of rows of the form x = y + k by (y, k).
type varOffset struct {
	y lp.Var
	k rational.Rational
}

// varPair is an unordered pair of reported ids.
type varPair struct{ lo, hi lp.Var }

func makePair(i, j lp.Var) varPair {
	if j < i {
		i, j = j, i
	}
	return varPair{lo: i, hi: j}
}

// Propagator derives implied bounds and offset equalities from the rows of
// the host's solver. It is not safe for concurrent use.
type Propagator struct {
	host Host
	cfg  *Config
	log  zerolog.Logger

	// varOffset2Row persists across passes; see CheapEqTable.
	varOffset2Row map[varOffset]int

	// Per-pass state, cleared by Init. The maps point into ibounds.
	improvedLower map[lp.Var]int
	improvedUpper map[lp.Var]int
	ibounds       []lp.ImpliedBound
	reported      map[varPair]struct{}

	tree  eqTree
	stats Stats
}

// New creates a propagator reporting to host. A nil cfg means
// DefaultConfig().
func New(host Host, cfg *Config) *Propagator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	p := &Propagator{
		host:          host,
		cfg:           cfg,
		log:           cfg.Logger,
		varOffset2Row: make(map[varOffset]int),
		improvedLower: make(map[lp.Var]int),
		improvedUpper: make(map[lp.Var]int),
		reported:      make(map[varPair]struct{}),
	}
	p.tree.init()
	return p
}

// Init starts a new propagation pass: implied bounds and the set of
// equalities reported in this pass are cleared. The (y, k) → row table
// used by CheapEqTable is kept.
func (p *Propagator) Init() {
	clear(p.improvedLower)
	clear(p.improvedUpper)
	clear(p.reported)
	p.ibounds = p.ibounds[:0]
	p.stats.Passes++
}

// IBounds returns the bounds accumulated in the current pass, in insertion
// order. The slice is owned by the propagator and is only valid until the
// next call that mutates it.
func (p *Propagator) IBounds() []lp.ImpliedBound {
	return p.ibounds
}

// Stats returns a copy of the propagation counters.
func (p *Propagator) Stats() Stats {
	return p.stats
}

func (p *Propagator) lp() lp.Solver {
	return p.host.Solver()
}

// pairIsReportedOrCongruent works on columns and maps them to reported ids.
func (p *Propagator) pairIsReportedOrCongruent(j, k lp.Var) bool {
	rj, rk := p.lp().ReportedIndex(j), p.lp().ReportedIndex(k)
	if _, ok := p.reported[makePair(rj, rk)]; ok {
		return true
	}
	return p.host.CongruentOrIrrelevant(rj, rk)
}

// addEqOnColumns reports col(i) = col(j) to the host.
func (p *Propagator) addEqOnColumns(ex *lp.Explanation, i, j lp.Var) {
	if i == j {
		return
	}
	ie, je := p.lp().ReportedIndex(i), p.lp().ReportedIndex(j)
	p.reported[makePair(ie, je)] = struct{}{}
	p.log.Trace().Str("tag", "cheap_eq").
		Int("i", int(ie)).Int("j", int(je)).
		Stringer("explanation", ex).
		Msg("reporting eq")
	p.host.AddEq(ie, je, ex)
}

// explainFixedInRow adds the bound witnesses of every fixed variable of row
// r to ex.
func (p *Propagator) explainFixedInRow(r int, ex *lp.Explanation) {
	s := p.lp()
	for _, t := range s.Row(r) {
		if !s.IsFixed(t.Var) {
			continue
		}
		lc, uc := s.BoundWitnesses(t.Var)
		ex.Add(lc)
		ex.Add(uc)
	}
}

// traceRow logs a rendering of row r when tracing is enabled.
func (p *Propagator) traceRow(tag, msg string, r int) {
	if e := p.log.Trace(); e.Enabled() {
		e.Str("tag", tag).Int("row", r).Str("display", lp.RowString(p.lp(), r)).Msg(msg)
	}
}

// overflow records that a computation on row r left int64 and was
// skipped.
func (p *Propagator) overflow(r int, what string) {
	p.stats.Overflows++
	p.log.Trace().Str("tag", "overflow").Int("row", r).Str("what", what).
		Msg("int64 overflow, skipped")
}
