package instance

import "errors"

// ErrParse is returned when the instance file cannot be read or does not
// follow the CVRPLIB plain-text layout.
var ErrParse = errors.New("instance: malformed instance file")

// ErrInfeasible is returned when the parsed data cannot admit any feasible
// solution (non-positive capacity, customer demand exceeding capacity,
// demand on the depot). Data with no customer at all is rejected with
// ErrParse.
var ErrInfeasible = errors.New("instance: infeasible instance data")

// ErrBadOptions is returned when Options carry out-of-range values.
var ErrBadOptions = errors.New("instance: invalid options")

// DefaultNeighborsNum is the length of the precomputed neighbor list of
// each vertex (clamped to the number of vertices).
const DefaultNeighborsNum = 1500

// Options configures instance loading.
type Options struct {
	// NeighborsNum is the number of nearest neighbors precomputed per
	// vertex, the list always starts with the vertex itself. Values
	// larger than the instance size are clamped. Zero means
	// DefaultNeighborsNum.
	NeighborsNum int

	// RoundCosts rounds every Euclidean distance to the nearest integer,
	// matching the CVRPLIB convention for EUC_2D benchmark instances.
	RoundCosts bool
}

// DefaultOptions returns the canonical loading configuration.
func DefaultOptions() Options {
	return Options{
		NeighborsNum: DefaultNeighborsNum,
		RoundCosts:   true,
	}
}

// Data is the raw material of an Instance, produced by the parser or
// assembled directly by tests and embedding callers.
type Data struct {
	XCoords  []float64
	YCoords  []float64
	Demands  []int
	Capacity int

	// DistanceLimit bounds the duration of a single route when positive.
	// Zero disables the duration constraint.
	DistanceLimit float64

	// ServiceTime is the per-customer service duration (zero for most
	// benchmark families).
	ServiceTime float64
}
