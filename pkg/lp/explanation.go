package lp

import (
	"fmt"
	"strings"
)

// Explanation is an ordered set of witness constraints justifying a derived
// fact. Adding a constraint twice keeps the first occurrence only.
//
// Explanations are built fresh for every derived fact and must not be
// mutated after they are handed to a consumer.
type Explanation struct {
	cis  []ConstraintIndex
	seen map[ConstraintIndex]struct{}
}

// NewExplanation returns an explanation holding cis in order.
func NewExplanation(cis ...ConstraintIndex) *Explanation {
	ex := &Explanation{}
	for _, ci := range cis {
		ex.Add(ci)
	}
	return ex
}

// Add appends ci unless it is already present or is NoConstraint.
func (ex *Explanation) Add(ci ConstraintIndex) {
	if ci == NoConstraint {
		return
	}
	if ex.seen == nil {
		ex.seen = make(map[ConstraintIndex]struct{})
	}
	if _, ok := ex.seen[ci]; ok {
		return
	}
	ex.seen[ci] = struct{}{}
	ex.cis = append(ex.cis, ci)
}

// Contains reports whether ci is part of the explanation.
func (ex *Explanation) Contains(ci ConstraintIndex) bool {
	_, ok := ex.seen[ci]
	return ok
}

// Len returns the number of distinct witnesses.
func (ex *Explanation) Len() int { return len(ex.cis) }

// Constraints returns a copy of the witnesses in insertion order.
func (ex *Explanation) Constraints() []ConstraintIndex {
	out := make([]ConstraintIndex, len(ex.cis))
	copy(out, ex.cis)
	return out
}

func (ex *Explanation) String() string {
	parts := make([]string, len(ex.cis))
	for i, ci := range ex.cis {
		parts[i] = fmt.Sprintf("c%d", ci)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
