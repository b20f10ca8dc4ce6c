// Package solver - options and sentinel errors.
package solver

import (
	"errors"
	"io"
	"time"
)

// Defaults of the reference setup.
const (
	DefaultCoreOptIterations  = 100000
	DefaultRouteMinIterations = 1000
	DefaultGranularNeighbors  = 25
	DefaultCacheSize          = 50
	DefaultGammaBase          = 0.25
	DefaultDelta              = 0.50
	DefaultShakingLowerBound  = 0.375
	DefaultShakingUpperBound  = 0.85
	DefaultSAInitialFactor    = 0.1
	DefaultSAFinalFactor      = 0.01
	DefaultTolerance          = 0.01
)

var (
	// ErrInvalidIterations is returned when an iteration budget is
	// below one.
	ErrInvalidIterations = errors.New("solver: iterations must be at least one")

	// ErrInvalidNeighbors is returned when a neighbor count is below
	// one.
	ErrInvalidNeighbors = errors.New("solver: neighbors must be at least one")

	// ErrInvalidCacheSize is returned when the vertex cache bound is
	// below one.
	ErrInvalidCacheSize = errors.New("solver: cache size must be at least one")

	// ErrInvalidGamma is returned when the base sparsification factor
	// is outside (0, 1].
	ErrInvalidGamma = errors.New("solver: gamma base must be in (0, 1]")

	// ErrInvalidDelta is returned when the sparsification multiplier is
	// outside (0, 1].
	ErrInvalidDelta = errors.New("solver: delta must be in (0, 1]")

	// ErrInvalidShaking is returned when the shaking bounds are
	// negative or inverted.
	ErrInvalidShaking = errors.New("solver: shaking bounds must satisfy 0 <= lower <= upper")

	// ErrInvalidAnnealing is returned when the annealing temperatures
	// or factors are not positive or the final exceeds the initial.
	ErrInvalidAnnealing = errors.New("solver: annealing temperatures must satisfy 0 < final <= initial")

	// ErrNilRNG is returned when a random source is required but
	// missing.
	ErrNilRNG = errors.New("solver: rng must not be nil")
)

// Options parameterizes Solve.
type Options struct {
	// Seed initializes the single random stream owned by the run.
	Seed int64

	// CoreOptIterations bounds the shaking loop.
	CoreOptIterations int

	// RouteMinIterations bounds the fleet-reduction phase.
	RouteMinIterations int

	// GranularNeighbors is the number of move generators kept per
	// vertex.
	GranularNeighbors int

	// CacheSize bounds the recently-modified-vertex cache.
	CacheSize int

	// MaxRoutes caps the fleet for the giant-tour re-decode of the
	// initial solution. Zero derives the bound from the instance.
	MaxRoutes int

	// CWLambda is the shape parameter of the savings construction.
	CWLambda float64

	// CWNeighbors caps the per-customer savings list.
	CWNeighbors int

	// GammaBase is the initial fraction of active move generators per
	// vertex.
	GammaBase float64

	// Delta scales the non-improving-iteration threshold that doubles
	// a vertex gamma.
	Delta float64

	// ShakingLowerBound and ShakingUpperBound scale the mean solution
	// arc cost into the window that steers the shaking intensity.
	ShakingLowerBound float64
	ShakingUpperBound float64

	// SAInitialFactor scales the sampled mean arc cost into the
	// starting temperature; SAFinalFactor scales the starting into the
	// final temperature.
	SAInitialFactor float64
	SAFinalFactor   float64

	// Tolerance is the improvement threshold shared by the descent
	// tiers.
	Tolerance float64

	// TimeLimit stops the shaking loop when exceeded. Zero disables
	// the check. Exhaustion is not an error: the best solution so far
	// is returned.
	TimeLimit time.Duration

	// StallLimit stops the shaking loop after that many iterations
	// without a new best. Zero disables the check.
	StallLimit int

	// Trace receives a progress line every few thousand iterations.
	// Nil keeps the run silent.
	Trace io.Writer
}

// DefaultOptions returns the options of the reference setup.
func DefaultOptions() Options {
	return Options{
		CoreOptIterations:  DefaultCoreOptIterations,
		RouteMinIterations: DefaultRouteMinIterations,
		GranularNeighbors:  DefaultGranularNeighbors,
		CacheSize:          DefaultCacheSize,
		CWLambda:           1.0,
		CWNeighbors:        100,
		GammaBase:          DefaultGammaBase,
		Delta:              DefaultDelta,
		ShakingLowerBound:  DefaultShakingLowerBound,
		ShakingUpperBound:  DefaultShakingUpperBound,
		SAInitialFactor:    DefaultSAInitialFactor,
		SAFinalFactor:      DefaultSAFinalFactor,
		Tolerance:          DefaultTolerance,
	}
}

func validateOptionsStandalone(opts Options) error {
	switch {
	case opts.CoreOptIterations < 1 || opts.RouteMinIterations < 1:
		return ErrInvalidIterations
	case opts.GranularNeighbors < 1 || opts.CWNeighbors < 1:
		return ErrInvalidNeighbors
	case opts.CacheSize < 1:
		return ErrInvalidCacheSize
	case opts.GammaBase <= 0 || opts.GammaBase > 1:
		return ErrInvalidGamma
	case opts.Delta <= 0 || opts.Delta > 1:
		return ErrInvalidDelta
	case opts.ShakingLowerBound < 0 || opts.ShakingUpperBound < opts.ShakingLowerBound:
		return ErrInvalidShaking
	case opts.SAInitialFactor <= 0 || opts.SAFinalFactor <= 0:
		return ErrInvalidAnnealing
	}

	return nil
}
