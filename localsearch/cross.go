// Package localsearch - arc crossing operators.
//
// twoOpt removes two arcs of one route and reconnects the path between
// them reversed. splitExchange and tailsExchange remove one arc from
// each of two routes and reconnect the four loose ends, with and
// without reversing the exchanged parts.
package localsearch

import (
	"github.com/katalvlaran/cvrp/containers"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

type twoOpt struct {
	opBase
	path []int
}

func newTwoOpt(base opBase) *twoOpt {
	return &twoOpt{opBase: base}
}

func (*twoOpt) symmetric() bool         { return true }
func (*twoOpt) pre(*solution.Solution)  {}
func (*twoOpt) post(*solution.Solution) {}

func (t *twoOpt) wellFormed(s *solution.Solution, i, j int) bool {
	iRoute := s.RouteIndexOr(i, j)
	jRoute := s.RouteIndexOr(j, i)
	if iRoute != jRoute {
		return false
	}

	return s.NextVertexInRoute(iRoute, i) != j && s.NextVertexInRoute(jRoute, j) != i
}

func (t *twoOpt) delta(s *solution.Solution, i, j int) float64 {
	if !t.wellFormed(s, i, j) {
		return infeasibleDelta
	}

	var (
		route = s.RouteIndexOr(i, j)
		ni    = s.NextVertexInRoute(route, i)
		nj    = s.NextVertexInRoute(route, j)
		c     = t.inst.Cost
	)

	return -c(i, ni) - c(j, nj) + c(i, j) + c(ni, nj)
}

func (t *twoOpt) feasible(s *solution.Solution, mg *movegen.MoveGenerator) bool {
	return t.wellFormed(s, mg.FirstVertex(), mg.SecondVertex())
}

func (t *twoOpt) execute(s *solution.Solution, mg *movegen.MoveGenerator, affected *containers.SparseIntSet) {
	var (
		i, j  = mg.FirstVertex(), mg.SecondVertex()
		route = s.RouteIndexOr(i, j)
		ni    = s.NextVertexInRoute(route, i)
		nj    = s.NextVertexInRoute(route, j)
	)

	t.path = t.path[:0]
	t.path = append(t.path, i)
	var v int
	for v = ni; ; v = s.NextVertexInRoute(route, v) {
		t.path = append(t.path, v)
		if v == j {
			break
		}
	}
	t.path = append(t.path, nj)

	s.ReverseRoutePath(route, ni, j)

	t.mark(s, affected, 2, t.path...)
}

type splitExchange struct {
	opBase
	vs []int
}

func newSplitExchange(base opBase) *splitExchange {
	return &splitExchange{opBase: base}
}

func (*splitExchange) symmetric() bool         { return true }
func (*splitExchange) pre(*solution.Solution)  {}
func (*splitExchange) post(*solution.Solution) {}

func (x *splitExchange) wellFormed(s *solution.Solution, i, j int) bool {
	depot := x.inst.Depot()
	if i == depot || j == depot {
		return false
	}

	return s.RouteIndex(i) != s.RouteIndex(j)
}

func (x *splitExchange) delta(s *solution.Solution, i, j int) float64 {
	if !x.wellFormed(s, i, j) {
		return infeasibleDelta
	}

	var (
		ni = s.NextVertex(i)
		nj = s.NextVertex(j)
		c  = x.inst.Cost
	)

	return c(i, j) + c(ni, nj) - c(i, ni) - c(j, nj)
}

func (x *splitExchange) feasible(s *solution.Solution, mg *movegen.MoveGenerator) bool {
	i, j := mg.FirstVertex(), mg.SecondVertex()
	if !x.wellFormed(s, i, j) {
		return false
	}

	var (
		iRoute   = s.RouteIndex(i)
		jRoute   = s.RouteIndex(j)
		headI    = s.LoadBeforeIncluded(i)
		headJ    = s.LoadBeforeIncluded(j)
		capacity = x.inst.Capacity()
	)

	return headI+headJ <= capacity &&
		s.RouteLoad(iRoute)-headI+s.RouteLoad(jRoute)-headJ <= capacity
}

func (x *splitExchange) execute(s *solution.Solution, mg *movegen.MoveGenerator, affected *containers.SparseIntSet) {
	var (
		i, j   = mg.FirstVertex(), mg.SecondVertex()
		iRoute = s.RouteIndex(i)
		jRoute = s.RouteIndex(j)
		depot  = x.inst.Depot()
		v      int
	)

	x.vs = x.vs[:0]
	x.vs = append(x.vs, i)
	for v = s.NextVertex(i); v != depot; v = s.NextVertex(v) {
		x.vs = append(x.vs, v)
	}
	for v = s.FirstCustomer(jRoute); ; v = s.NextVertex(v) {
		x.vs = append(x.vs, v)
		if v == j {
			break
		}
	}
	x.vs = append(x.vs, s.NextVertexInRoute(jRoute, j))

	s.Split(i, iRoute, j, jRoute)
	if s.IsRouteEmpty(jRoute) {
		s.RemoveRoute(jRoute)
	}

	x.mark(s, affected, 2, x.vs...)
}

type tailsExchange struct {
	opBase
}

func newTailsExchange(base opBase) *tailsExchange {
	return &tailsExchange{opBase: base}
}

func (*tailsExchange) symmetric() bool         { return false }
func (*tailsExchange) pre(*solution.Solution)  {}
func (*tailsExchange) post(*solution.Solution) {}

func (x *tailsExchange) wellFormed(s *solution.Solution, i, j int) bool {
	depot := x.inst.Depot()
	if i == depot || j == depot {
		return false
	}

	return s.RouteIndex(i) != s.RouteIndex(j)
}

func (x *tailsExchange) delta(s *solution.Solution, i, j int) float64 {
	if !x.wellFormed(s, i, j) {
		return infeasibleDelta
	}

	var (
		jRoute = s.RouteIndex(j)
		ni     = s.NextVertex(i)
		pj     = s.PrevVertexInRoute(jRoute, j)
		c      = x.inst.Cost
	)

	return c(i, j) + c(pj, ni) - c(i, ni) - c(pj, j)
}

func (x *tailsExchange) feasible(s *solution.Solution, mg *movegen.MoveGenerator) bool {
	i, j := mg.FirstVertex(), mg.SecondVertex()
	if !x.wellFormed(s, i, j) {
		return false
	}

	var (
		iRoute   = s.RouteIndex(i)
		jRoute   = s.RouteIndex(j)
		headI    = s.LoadBeforeIncluded(i)
		tailJ    = s.LoadAfterIncluded(j)
		capacity = x.inst.Capacity()
	)

	return headI+tailJ <= capacity &&
		s.RouteLoad(iRoute)-headI+s.RouteLoad(jRoute)-tailJ <= capacity
}

func (x *tailsExchange) execute(s *solution.Solution, mg *movegen.MoveGenerator, affected *containers.SparseIntSet) {
	var (
		i, j   = mg.FirstVertex(), mg.SecondVertex()
		iRoute = s.RouteIndex(i)
		jRoute = s.RouteIndex(j)
		ni     = s.NextVertex(i)
		pj     = s.PrevVertexInRoute(jRoute, j)
	)

	s.SwapTails(i, iRoute, j, jRoute)
	if s.IsRouteEmpty(jRoute) {
		s.RemoveRoute(jRoute)
	}

	x.mark(s, affected, 2, i, ni, pj, j)
}
