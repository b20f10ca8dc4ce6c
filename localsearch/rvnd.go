// Package localsearch - operator composition.
//
// Design:
//   - RVND applies a shuffled sequence of operators to a solution, one
//     pass per Apply call. The shuffle order changes every call, the
//     operator set does not.
//   - Composer chains RVND tiers by cost: a tier that improves the
//     solution beyond the tolerance sends the descent back to the first
//     tier, so expensive tiers only run on solutions the cheap tiers
//     cannot improve.
//
// Contracts:
//   - Neither RVND nor Composer touches the selective vertex cache;
//     the caller decides which vertices the descent may seed from.
package localsearch

import (
	"math/rand"

	"github.com/katalvlaran/cvrp/solution"
)

// RVND is a randomized variable neighborhood descent over a fixed set
// of operators.
type RVND struct {
	operators []*Operator
	rng       *rand.Rand
}

// NewRVND builds a descent over the given operators. The rng drives
// the per-call shuffle.
func NewRVND(operators []*Operator, rng *rand.Rand) (*RVND, error) {
	if len(operators) == 0 {
		return nil, ErrNoOperators
	}
	if rng == nil {
		return nil, ErrNilRNG
	}

	return &RVND{operators: operators, rng: rng}, nil
}

// Apply runs every operator once in a fresh random order. It reports
// whether any operator improved the solution.
func (r *RVND) Apply(s *solution.Solution) bool {
	r.rng.Shuffle(len(r.operators), func(a, b int) {
		r.operators[a], r.operators[b] = r.operators[b], r.operators[a]
	})

	improved := false
	for _, op := range r.operators {
		if op.Apply(s) {
			improved = true
		}
	}

	return improved
}

// Composer runs RVND tiers in order, restarting from the first tier
// whenever a later tier improves the cost by more than the tolerance.
type Composer struct {
	tiers     []*RVND
	tolerance float64
}

// NewComposer builds a tiered descent.
func NewComposer(tiers []*RVND, tolerance float64) (*Composer, error) {
	if len(tiers) == 0 {
		return nil, ErrNoOperators
	}
	if tolerance < 0 {
		return nil, ErrNegativeTolerance
	}

	return &Composer{tiers: tiers, tolerance: tolerance}, nil
}

// Apply descends through the tiers until the last tier fails to
// improve. It reports whether any tier improved the solution.
func (c *Composer) Apply(s *solution.Solution) bool {
	improved := false

	var (
		t      int
		before float64
	)
	for t < len(c.tiers) {
		before = s.Cost()
		if c.tiers[t].Apply(s) {
			improved = true
		}
		if t > 0 && before-s.Cost() > c.tolerance {
			t = 0

			continue
		}
		t++
	}

	return improved
}
