// Package solver - simulated annealing acceptance.
package solver

import (
	"math"
	"math/rand"
)

// SimulatedAnnealing decides whether a candidate cost replaces the
// reference cost, with a geometrically cooled temperature.
type SimulatedAnnealing struct {
	temperature float64
	factor      float64
	rng         *rand.Rand
}

// NewSimulatedAnnealing sets up the cooling schedule so that the
// temperature reaches final after iterations calls to Cool.
func NewSimulatedAnnealing(initial, final float64, iterations int, rng *rand.Rand) (*SimulatedAnnealing, error) {
	if rng == nil {
		return nil, ErrNilRNG
	}
	if initial <= 0 || final <= 0 || final > initial {
		return nil, ErrInvalidAnnealing
	}
	if iterations < 1 {
		return nil, ErrInvalidIterations
	}

	return &SimulatedAnnealing{
		temperature: initial,
		factor:      math.Pow(final/initial, 1/float64(iterations)),
		rng:         rng,
	}, nil
}

// Accept reports whether the candidate cost is taken as the new
// reference: candidate < reference - T*ln(U(0,1)), equivalent to the
// Metropolis rule with probability exp(-(candidate-reference)/T).
func (sa *SimulatedAnnealing) Accept(reference, candidate float64) bool {
	return candidate < reference-sa.temperature*math.Log(sa.rng.Float64())
}

// Cool applies one geometric cooling step.
func (sa *SimulatedAnnealing) Cool() {
	sa.temperature *= sa.factor
}

// Temperature returns the current temperature.
func (sa *SimulatedAnnealing) Temperature() float64 {
	return sa.temperature
}
