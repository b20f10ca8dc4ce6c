// Package localsearch - path relocation operators.
//
// relocate moves the path of pathLen customers starting at the first
// vertex of a generator behind the second one, optionally reversed. The
// second vertex may be the depot, in which case the path is moved to
// the head of its own route.
package localsearch

import (
	"github.com/katalvlaran/cvrp/containers"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

type relocate struct {
	opBase
	pathLen  int
	reversed bool

	seg  []int
	core []int
}

func newRelocate(base opBase, pathLen int, reversed bool) *relocate {
	return &relocate{
		opBase:   base,
		pathLen:  pathLen,
		reversed: reversed,
		seg:      make([]int, 0, pathLen),
		core:     make([]int, 0, pathLen+4),
	}
}

func (*relocate) symmetric() bool         { return false }
func (*relocate) pre(*solution.Solution)  {}
func (*relocate) post(*solution.Solution) {}

// inspect walks the moved path and recomputes the structural guards.
// It reports the path load and whether the move is well formed.
func (r *relocate) inspect(s *solution.Solution, i, j int) (int, bool) {
	depot := r.inst.Depot()
	if i == depot {
		return 0, false
	}

	r.seg = r.seg[:0]
	r.seg = append(r.seg, i)

	var (
		load = r.inst.Demand(i)
		last = i
		k    int
	)
	for k = 1; k < r.pathLen; k++ {
		last = s.NextVertex(last)
		if last == depot {
			return 0, false
		}
		r.seg = append(r.seg, last)
		load += r.inst.Demand(last)
	}

	for _, v := range r.seg {
		if v == j {
			return 0, false
		}
	}
	if j == s.PrevVertex(i) {
		return 0, false
	}

	return load, true
}

func (r *relocate) delta(s *solution.Solution, i, j int) float64 {
	if _, ok := r.inspect(s, i, j); !ok {
		return infeasibleDelta
	}

	var (
		iRoute = s.RouteIndex(i)
		jRoute = s.RouteIndexOr(j, i)
		last   = r.seg[len(r.seg)-1]
		prevA  = s.PrevVertexInRoute(iRoute, i)
		nextA  = s.NextVertexInRoute(iRoute, last)
		nextJ  = s.NextVertexInRoute(jRoute, j)
		c      = r.inst.Cost
	)

	d := -c(prevA, i) - c(last, nextA) + c(prevA, nextA) - c(j, nextJ)
	if r.reversed {
		return d + c(j, last) + c(i, nextJ)
	}

	return d + c(j, i) + c(last, nextJ)
}

func (r *relocate) feasible(s *solution.Solution, mg *movegen.MoveGenerator) bool {
	i, j := mg.FirstVertex(), mg.SecondVertex()

	load, ok := r.inspect(s, i, j)
	if !ok {
		return false
	}

	iRoute := s.RouteIndex(i)
	jRoute := s.RouteIndexOr(j, i)
	if iRoute == jRoute {
		return true
	}

	return s.RouteLoad(jRoute)+load <= r.inst.Capacity()
}

func (r *relocate) execute(s *solution.Solution, mg *movegen.MoveGenerator, affected *containers.SparseIntSet) {
	var (
		i, j   = mg.FirstVertex(), mg.SecondVertex()
		iRoute = s.RouteIndex(i)
		jRoute = s.RouteIndexOr(j, i)
	)

	r.seg = r.seg[:0]
	r.seg = append(r.seg, i)
	var k int
	for k = 1; k < r.pathLen; k++ {
		r.seg = append(r.seg, s.NextVertex(r.seg[k-1]))
	}

	var (
		last  = r.seg[len(r.seg)-1]
		prevA = s.PrevVertexInRoute(iRoute, i)
		nextA = s.NextVertexInRoute(iRoute, last)
		nextJ = s.NextVertexInRoute(jRoute, j)
	)

	for _, v := range r.seg {
		s.RemoveVertex(iRoute, v)
	}
	if r.reversed {
		for k = len(r.seg) - 1; k >= 0; k-- {
			s.InsertVertexBefore(jRoute, nextJ, r.seg[k])
		}
	} else {
		for _, v := range r.seg {
			s.InsertVertexBefore(jRoute, nextJ, v)
		}
	}

	if iRoute != jRoute && s.IsRouteEmpty(iRoute) {
		s.RemoveRoute(iRoute)
	}

	r.core = r.core[:0]
	r.core = append(r.core, prevA)
	r.core = append(r.core, r.seg...)
	r.core = append(r.core, nextA, j, nextJ)
	r.mark(s, affected, r.pathLen+1, r.core...)
}
