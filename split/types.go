// Package split - options and sentinel errors.
package split

import (
	"errors"
	"math"

	"github.com/katalvlaran/cvrp/instance"
)

var (
	// ErrInvalidPenalty is returned when the capacity penalty is not
	// positive or the duration penalty is negative.
	ErrInvalidPenalty = errors.New("split: penalties must be positive")

	// ErrInvalidMaxRoutes is returned when the route bound is below one.
	ErrInvalidMaxRoutes = errors.New("split: max routes must be at least one")

	// ErrMalformedTour is returned when the tour does not visit every
	// customer exactly once.
	ErrMalformedTour = errors.New("split: tour must visit every customer exactly once")

	// ErrNoDecomposition is returned when no route decomposition reaches
	// the last tour position.
	ErrNoDecomposition = errors.New("split: no route decomposition reached the last customer")
)

// Options parameterizes a Splitter.
type Options struct {
	// PenaltyCapacity prices each unit of load above the vehicle
	// capacity.
	PenaltyCapacity float64

	// PenaltyDuration prices each unit of route duration above the
	// distance limit. Ignored when the instance has no limit.
	PenaltyDuration float64

	// MaxRoutes bounds the fleet. The bound is never taken below the
	// trivial load lower bound totalDemand/capacity.
	MaxRoutes int
}

// DefaultPenaltyCapacity scales the overload penalty to the instance
// geometry: the coordinate-span diagonal over the largest demand,
// clamped to [0.1, 1000].
func DefaultPenaltyCapacity(inst *instance.Instance) float64 {
	var (
		minX, maxX = inst.X(0), inst.X(0)
		minY, maxY = inst.Y(0), inst.Y(0)
		maxDemand  = 1
		v          int
	)
	for v = inst.VerticesBegin(); v < inst.VerticesEnd(); v++ {
		minX = math.Min(minX, inst.X(v))
		maxX = math.Max(maxX, inst.X(v))
		minY = math.Min(minY, inst.Y(v))
		maxY = math.Max(maxY, inst.Y(v))
		if inst.Demand(v) > maxDemand {
			maxDemand = inst.Demand(v)
		}
	}

	diagonal := math.Hypot(maxX-minX, maxY-minY)

	return math.Min(1000, math.Max(0.1, diagonal/float64(maxDemand)))
}

// DefaultMaxRoutes returns the fleet bound used when none is given.
func DefaultMaxRoutes(inst *instance.Instance) int {
	return int(math.Ceil(1.3*float64(inst.TotalDemand())/float64(inst.Capacity()))) + 3
}

// DefaultOptions derives penalties and the fleet bound from the
// instance.
func DefaultOptions(inst *instance.Instance) Options {
	return Options{
		PenaltyCapacity: DefaultPenaltyCapacity(inst),
		PenaltyDuration: 1,
		MaxRoutes:       DefaultMaxRoutes(inst),
	}
}

func validateOptionsStandalone(opts Options) error {
	if opts.PenaltyCapacity <= 0 || opts.PenaltyDuration < 0 {
		return ErrInvalidPenalty
	}
	if opts.MaxRoutes < 1 {
		return ErrInvalidMaxRoutes
	}

	return nil
}
