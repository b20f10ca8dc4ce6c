// Package construct - options and sentinel errors.
package construct

import "errors"

const (
	// DefaultLambda is the route-shape parameter of the savings value.
	DefaultLambda = 1.0

	// DefaultSavingsNeighbors caps how many savings each customer
	// contributes to the merge list.
	DefaultSavingsNeighbors = 100

	// DefaultRouteMinIterations bounds the fleet-reduction loop.
	DefaultRouteMinIterations = 1000
)

var (
	// ErrInvalidLambda is returned when the savings shape parameter is
	// not positive.
	ErrInvalidLambda = errors.New("construct: lambda must be positive")

	// ErrInvalidNeighbors is returned when the per-customer savings cap
	// is below one.
	ErrInvalidNeighbors = errors.New("construct: neighbors must be at least one")

	// ErrInvalidIterations is returned when the fleet-reduction loop is
	// given fewer than one iteration.
	ErrInvalidIterations = errors.New("construct: iterations must be at least one")

	// ErrInvalidMinRoutes is returned when the fleet target is below
	// one.
	ErrInvalidMinRoutes = errors.New("construct: min routes must be at least one")

	// ErrNilRNG is returned when a random source is required but
	// missing.
	ErrNilRNG = errors.New("construct: rng must not be nil")
)

// Options parameterizes the savings construction.
type Options struct {
	// Lambda weighs the direct arc in the savings value
	// c(0,i) + c(0,j) - Lambda*c(i,j). Larger values favor compact
	// routes.
	Lambda float64

	// Neighbors caps how many savings each customer contributes, so
	// the merge list stays linear in the instance size.
	Neighbors int
}

// DefaultOptions returns the options used by the reference setup.
func DefaultOptions() Options {
	return Options{Lambda: DefaultLambda, Neighbors: DefaultSavingsNeighbors}
}
