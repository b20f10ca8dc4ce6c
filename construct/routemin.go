// Package construct - fleet-size reduction.
//
// Design:
//   - RouteMin repeatedly ruins the route of a random seed customer
//     together with one geometrically close route, then reinserts the
//     removed customers at their cheapest feasible positions.
//   - A customer with no feasible position is either left unserved,
//     with a probability that cools geometrically over the run, or
//     opens a fresh route when the fleet already dropped below the
//     target.
//   - The working solution syncs with the incumbent through the do and
//     undo journals, so neither acceptance nor rollback copies routes.
//
// Contracts:
//   - The returned solution serves every customer and satisfies every
//     capacity constraint that the source satisfied.
//   - The move generators are reactivated for every vertex; callers
//     owning a sparser activation must restore it afterwards.
//
// Complexity: each iteration touches the two ruined routes and the
// neighbor lists of their customers, then runs the descent on the
// affected vertices only.
package construct

import (
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/cvrp/containers"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/localsearch"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

const (
	routeMinTemperatureBase = 1.0
	routeMinTemperatureEnd  = 0.01
)

// RouteMin tries to reduce the fleet of source towards minRoutes and
// returns the best solution found. The source is left untouched.
func RouteMin(inst *instance.Instance, source *solution.Solution, gens *movegen.Generators, rng *rand.Rand, minRoutes, iterations int, tolerance float64) (*solution.Solution, error) {
	if rng == nil {
		return nil, ErrNilRNG
	}
	if minRoutes < 1 {
		return nil, ErrInvalidMinRoutes
	}
	if iterations < 1 {
		return nil, ErrInvalidIterations
	}

	descent, err := newReinsertionDescent(inst, gens, rng, tolerance)
	if err != nil {
		return nil, err
	}
	activateAllVertices(inst, gens)

	best := solution.New(inst)
	best.CopyFrom(source)

	work := solution.New(inst)
	work.CopyFrom(best)

	var (
		cooling      = math.Pow(routeMinTemperatureEnd/routeMinTemperatureBase, 1/float64(iterations))
		temperature  = routeMinTemperatureBase
		targetRoutes = containers.NewSparseIntSet(inst.VerticesNum() + 1)
		removed      []int
		stillRemoved []int
		ruined       []int
		seed         int
		start        int
		route        int
		where        int
		found        bool
		c            int
		iter         int
	)
	for iter = 0; iter < iterations; iter++ {
		work.ClearSVC()

		seed = randomServedCustomer(work, inst, rng)
		ruined = appendRuinedRoutes(ruined[:0], work, inst, seed)

		removed = append(removed[:0], stillRemoved...)
		stillRemoved = stillRemoved[:0]
		for _, route = range ruined {
			start = len(removed)
			for c = work.FirstCustomer(route); c != inst.Depot(); c = work.NextVertex(c) {
				removed = append(removed, c)
			}
			for _, c = range removed[start:] {
				work.RemoveVertex(route, c)
			}
			work.RemoveRoute(route)
		}

		if rng.Intn(2) == 0 {
			sortByDemand(removed, inst)
		} else {
			rng.Shuffle(len(removed), func(a, b int) { removed[a], removed[b] = removed[b], removed[a] })
		}

		for _, c = range removed {
			route, where, found = bestInsertion(work, inst, targetRoutes, c)
			if found {
				work.InsertVertexBefore(route, where, c)
				continue
			}

			if rng.Float64() > temperature || work.RoutesNum() < minRoutes {
				work.BuildOneCustomerRoute(c)
			} else {
				stillRemoved = append(stillRemoved, c)
			}
		}

		for descent.Apply(work) {
		}

		if len(stillRemoved) == 0 && improves(work, best) {
			work.ApplyDoList1(best)
			work.ClearDoList1()
			work.ClearUndoList1()
			if best.RoutesNum() <= minRoutes {
				break
			}
		} else if work.Cost() > best.Cost() {
			work.ApplyUndoList1(work)
			work.ClearDoList1()
			work.ClearUndoList1()
			stillRemoved = stillRemoved[:0]
		}

		temperature *= cooling
	}

	return best, nil
}

// newReinsertionDescent builds the randomized descent used after each
// reinsertion round. The chain operator is excluded: it cannot run on
// partial solutions.
func newReinsertionDescent(inst *instance.Instance, gens *movegen.Generators, rng *rand.Rand, tolerance float64) (*localsearch.RVND, error) {
	opts := localsearch.Options{Tolerance: tolerance, AllowPartial: true}

	var (
		kinds     = localsearch.AllKinds()
		operators = make([]*localsearch.Operator, 0, len(kinds))
		op        *localsearch.Operator
		err       error
	)
	for _, kind := range kinds {
		if kind == localsearch.EjectionChain {
			continue
		}

		op, err = localsearch.New(kind, inst, gens, opts)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}

	return localsearch.NewRVND(operators, rng)
}

func activateAllVertices(inst *instance.Instance, gens *movegen.Generators) {
	var (
		percentage = make([]float64, inst.VerticesNum())
		vertices   = make([]int, 0, inst.VerticesNum())
		v          int
	)
	for v = inst.VerticesBegin(); v < inst.VerticesEnd(); v++ {
		percentage[v] = 1
		vertices = append(vertices, v)
	}
	gens.SetActivePercentage(percentage, vertices)
}

func randomServedCustomer(s *solution.Solution, inst *instance.Instance, rng *rand.Rand) int {
	var c int
	for {
		c = inst.CustomersBegin() + rng.Intn(inst.CustomersNum())
		if s.IsCustomerInSolution(c) {
			return c
		}
	}
}

// appendRuinedRoutes selects the seed's route and the route of the
// nearest neighbor served elsewhere, when one exists.
func appendRuinedRoutes(ruined []int, s *solution.Solution, inst *instance.Instance, seed int) []int {
	seedRoute := s.RouteIndex(seed)
	ruined = append(ruined, seedRoute)

	var route int
	for _, v := range inst.NeighborsOf(seed)[1:] {
		if v == inst.Depot() || !s.IsCustomerInSolution(v) {
			continue
		}

		route = s.RouteIndex(v)
		if route != seedRoute {
			return append(ruined, route)
		}
	}

	return ruined
}

func sortByDemand(customers []int, inst *instance.Instance) {
	sort.Slice(customers, func(a, b int) bool {
		return inst.Demand(customers[a]) > inst.Demand(customers[b])
	})
}

// bestInsertion scans the routes serving the customer's neighbors and
// returns the cheapest load-feasible position, where the depot marks
// insertion at the route tail.
func bestInsertion(s *solution.Solution, inst *instance.Instance, routes *containers.SparseIntSet, customer int) (route, where int, found bool) {
	routes.Clear()
	for _, v := range inst.NeighborsOf(customer)[1:] {
		if v == inst.Depot() || !s.IsCustomerInSolution(v) {
			continue
		}
		routes.Insert(s.RouteIndex(v))
	}

	var (
		bestDelta = math.Inf(1)
		demand    = inst.Demand(customer)
		depot     = inst.Depot()
		delta     float64
		j         int
	)
	for _, r := range routes.Elements() {
		if s.RouteLoad(r)+demand > inst.Capacity() {
			continue
		}

		for j = s.FirstCustomer(r); j != depot; j = s.NextVertex(j) {
			delta = inst.Cost(s.PrevVertex(j), customer) + inst.Cost(customer, j) - s.CostPrevCustomer(j)
			if delta < bestDelta {
				bestDelta, route, where, found = delta, r, j, true
			}
		}

		delta = inst.Cost(s.LastCustomer(r), customer) + inst.Cost(customer, depot) - s.CostPrevDepot(r)
		if delta < bestDelta {
			bestDelta, route, where, found = delta, r, depot, true
		}
	}

	return route, where, found
}

func improves(candidate, incumbent *solution.Solution) bool {
	if candidate.Cost() < incumbent.Cost() {
		return true
	}

	return candidate.Cost() == incumbent.Cost() && candidate.RoutesNum() < incumbent.RoutesNum()
}
