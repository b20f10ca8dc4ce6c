// Package solver - ruin-and-recreate shaking.
//
// Design:
//   - The ruin phase walks away from a random seed customer, at each
//     step removing the current customer and hopping either to a
//     route neighbor or to a geographically close customer of another
//     route. The walk length is the per-vertex shaking intensity of
//     the seed.
//   - The recreate phase reinserts the removed customers, reordered by
//     one of four randomly chosen rules, at their cheapest feasible
//     position among routes serving their neighbors, or on a fresh
//     route when that is cheaper.
//
// Contracts:
//   - The solution must be complete on entry and is complete on exit.
//   - Every mutation goes through the solution journal, so the caller
//     can rewind or replay the shake.
//
// Complexity: O(omega[seed]) removals, each reinsertion linear in the
// candidate routes' lengths.
package solver

import (
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/cvrp/containers"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/solution"
)

// RuinAndRecreate is the shaking operator of the core loop.
type RuinAndRecreate struct {
	inst    *instance.Instance
	rng     *rand.Rand
	removed []int
	routes  *containers.SparseIntSet
}

// NewRuinAndRecreate returns a shaking operator bound to the instance.
func NewRuinAndRecreate(inst *instance.Instance, rng *rand.Rand) (*RuinAndRecreate, error) {
	if rng == nil {
		return nil, ErrNilRNG
	}

	return &RuinAndRecreate{
		inst:   inst,
		rng:    rng,
		routes: containers.NewSparseIntSet(inst.VerticesNum() + 1),
	}, nil
}

// Apply shakes the solution and returns the seed customer of the ruin
// walk. omega holds the per-vertex walk length.
func (rr *RuinAndRecreate) Apply(s *solution.Solution, omega []int) int {
	rr.removed = rr.removed[:0]
	rr.routes.Clear()

	seed := rr.inst.CustomersBegin() + rr.rng.Intn(rr.inst.CustomersNum())

	var (
		curr  = seed
		next  int
		route int
		n     int
	)
	for n = 0; n < omega[seed]; n++ {
		route = s.RouteIndex(curr)
		rr.removed = append(rr.removed, curr)
		rr.routes.Insert(route)

		next = rr.nextWalkVertex(s, route, curr)

		s.RemoveVertex(route, curr)
		if s.IsRouteEmpty(route) {
			s.RemoveRoute(route)
		}

		if next == solution.DummyVertex {
			break
		}
		curr = next
	}

	rr.reorderRemoved()

	for _, c := range rr.removed {
		rr.reinsert(s, c)
	}

	return seed
}

// nextWalkVertex picks where the ruin walk continues: a route neighbor
// of curr, or a close customer of another route.
func (rr *RuinAndRecreate) nextWalkVertex(s *solution.Solution, route, curr int) int {
	depot := rr.inst.Depot()

	if s.RouteSize(route) > 1 && rr.rng.Intn(2) == 1 {
		var next int
		if rr.rng.Intn(2) == 1 {
			next = s.NextVertex(curr)
			if next == depot {
				next = s.NextVertexInRoute(route, next)
			}
		} else {
			next = s.PrevVertex(curr)
			if next == depot {
				next = s.PrevVertexInRoute(route, next)
			}
		}

		return next
	}

	// Only jump to routes the walk has not ruined yet, or relax that
	// restriction on a coin flip.
	freshOnly := rr.rng.Intn(2) == 1
	for _, neighbor := range rr.inst.NeighborsOf(curr)[1:] {
		if neighbor == depot || !s.IsCustomerInSolution(neighbor) {
			continue
		}
		if s.RouteIndex(neighbor) == route {
			continue
		}
		if freshOnly && rr.routes.Contains(s.RouteIndex(neighbor)) {
			continue
		}

		return neighbor
	}

	return solution.DummyVertex
}

func (rr *RuinAndRecreate) reorderRemoved() {
	switch rr.rng.Intn(4) {
	case 0:
		rr.rng.Shuffle(len(rr.removed), func(a, b int) {
			rr.removed[a], rr.removed[b] = rr.removed[b], rr.removed[a]
		})
	case 1:
		sort.Slice(rr.removed, func(a, b int) bool {
			return rr.inst.Demand(rr.removed[a]) > rr.inst.Demand(rr.removed[b])
		})
	case 2:
		sort.Slice(rr.removed, func(a, b int) bool {
			return rr.inst.Cost(rr.removed[a], rr.inst.Depot()) > rr.inst.Cost(rr.removed[b], rr.inst.Depot())
		})
	case 3:
		sort.Slice(rr.removed, func(a, b int) bool {
			return rr.inst.Cost(rr.removed[a], rr.inst.Depot()) < rr.inst.Cost(rr.removed[b], rr.inst.Depot())
		})
	}
}

// reinsert puts customer back at its cheapest feasible position among
// the routes serving its neighbors, or on a fresh one-customer route
// when that is cheaper or nothing fits.
func (rr *RuinAndRecreate) reinsert(s *solution.Solution, customer int) {
	depot := rr.inst.Depot()

	rr.routes.Clear()
	for _, v := range rr.inst.NeighborsOf(customer)[1:] {
		if v == depot || !s.IsCustomerInSolution(v) {
			continue
		}
		rr.routes.Insert(s.RouteIndex(v))
	}

	var (
		bestRoute    = solution.DummyRoute
		bestWhere    = solution.DummyVertex
		bestCost     = math.Inf(1)
		demand       = rr.inst.Demand(customer)
		cCustomerOut = rr.inst.Cost(customer, depot)
		cost         float64
		where        int
	)
	for _, route := range rr.routes.Elements() {
		if s.RouteLoad(route)+demand > rr.inst.Capacity() {
			continue
		}

		for where = s.FirstCustomer(route); where != depot; where = s.NextVertex(where) {
			cost = rr.inst.Cost(s.PrevVertex(where), customer) + rr.inst.Cost(customer, where) - s.CostPrevCustomer(where)
			if cost < bestCost {
				bestCost, bestRoute, bestWhere = cost, route, where
			}
		}

		cost = rr.inst.Cost(s.LastCustomer(route), customer) + cCustomerOut - s.CostPrevDepot(route)
		if cost < bestCost {
			bestCost, bestRoute, bestWhere = cost, route, depot
		}
	}

	if bestRoute == solution.DummyRoute || 2*cCustomerOut < bestCost {
		s.BuildOneCustomerRoute(customer)
	} else {
		s.InsertVertexBefore(bestRoute, bestWhere, customer)
	}
}
