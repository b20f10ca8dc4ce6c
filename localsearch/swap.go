// Package localsearch - path exchange operators.
//
// swap exchanges the path of lenA customers starting at the first
// vertex of a generator with the path of lenB customers ending just
// before the second one. The moved path lands before the second vertex,
// the counterpart lands where the moved path was; either path may be
// inserted reversed.
package localsearch

import (
	"github.com/katalvlaran/cvrp/containers"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

type swap struct {
	opBase
	lenA, lenB int
	revA, revB bool

	// segB is collected walking predecessors, so it holds the path in
	// reverse route order.
	segA []int
	segB []int
	core []int
}

func newSwap(base opBase, lenA, lenB int, revA, revB bool) *swap {
	return &swap{
		opBase: base,
		lenA:   lenA,
		lenB:   lenB,
		revA:   revA,
		revB:   revB,
		segA:   make([]int, 0, lenA),
		segB:   make([]int, 0, lenB),
		core:   make([]int, 0, lenA+lenB+5),
	}
}

func (*swap) symmetric() bool         { return false }
func (*swap) pre(*solution.Solution)  {}
func (*swap) post(*solution.Solution) {}

// inspect collects both paths and recomputes the structural guards. It
// reports the path loads and whether the move is well formed.
func (w *swap) inspect(s *solution.Solution, i, j int) (int, int, bool) {
	depot := w.inst.Depot()
	if i == depot {
		return 0, 0, false
	}

	var (
		iRoute = s.RouteIndex(i)
		jRoute = s.RouteIndexOr(j, i)
	)

	w.segA = w.segA[:0]
	w.segA = append(w.segA, i)
	loadA := w.inst.Demand(i)

	var (
		v, k int
	)
	for k = 1; k < w.lenA; k++ {
		v = s.NextVertex(w.segA[k-1])
		if v == depot {
			return 0, 0, false
		}
		w.segA = append(w.segA, v)
		loadA += w.inst.Demand(v)
	}

	v = s.PrevVertexInRoute(jRoute, j)
	if v == depot {
		return 0, 0, false
	}
	w.segB = w.segB[:0]
	w.segB = append(w.segB, v)
	loadB := w.inst.Demand(v)
	for k = 1; k < w.lenB; k++ {
		v = s.PrevVertex(w.segB[k-1])
		if v == depot {
			return 0, 0, false
		}
		w.segB = append(w.segB, v)
		loadB += w.inst.Demand(v)
	}

	if iRoute == jRoute {
		for _, a := range w.segA {
			if a == j {
				return 0, 0, false
			}
			for _, b := range w.segB {
				if a == b {
					return 0, 0, false
				}
			}
		}

		last := w.segA[len(w.segA)-1]
		if w.segB[len(w.segB)-1] == s.NextVertexInRoute(iRoute, last) {
			return 0, 0, false
		}
	}

	return loadA, loadB, true
}

func (w *swap) delta(s *solution.Solution, i, j int) float64 {
	if _, _, ok := w.inspect(s, i, j); !ok {
		return infeasibleDelta
	}

	var (
		iRoute = s.RouteIndex(i)
		jRoute = s.RouteIndexOr(j, i)
		lastA  = w.segA[len(w.segA)-1]
		firstB = w.segB[len(w.segB)-1]
		lastB  = w.segB[0]
		prevA  = s.PrevVertexInRoute(iRoute, i)
		nextA  = s.NextVertexInRoute(iRoute, lastA)
		prevB  = s.PrevVertexInRoute(jRoute, firstB)
		c      = w.inst.Cost
	)

	d := -c(prevA, i) - c(lastA, nextA) - c(prevB, firstB) - c(lastB, j)
	if w.revA {
		d += c(prevB, lastA) + c(i, j)
	} else {
		d += c(prevB, i) + c(lastA, j)
	}
	if w.revB {
		d += c(prevA, lastB) + c(firstB, nextA)
	} else {
		d += c(prevA, firstB) + c(lastB, nextA)
	}

	return d
}

func (w *swap) feasible(s *solution.Solution, mg *movegen.MoveGenerator) bool {
	i, j := mg.FirstVertex(), mg.SecondVertex()

	loadA, loadB, ok := w.inspect(s, i, j)
	if !ok {
		return false
	}

	iRoute := s.RouteIndex(i)
	jRoute := s.RouteIndexOr(j, i)
	if iRoute == jRoute {
		return true
	}

	capacity := w.inst.Capacity()

	return s.RouteLoad(iRoute)-loadA+loadB <= capacity &&
		s.RouteLoad(jRoute)-loadB+loadA <= capacity
}

func (w *swap) execute(s *solution.Solution, mg *movegen.MoveGenerator, affected *containers.SparseIntSet) {
	i, j := mg.FirstVertex(), mg.SecondVertex()
	w.inspect(s, i, j)

	var (
		iRoute = s.RouteIndex(i)
		jRoute = s.RouteIndexOr(j, i)
		lastA  = w.segA[len(w.segA)-1]
		firstB = w.segB[len(w.segB)-1]
		prevA  = s.PrevVertexInRoute(iRoute, i)
		nextA  = s.NextVertexInRoute(iRoute, lastA)
		prevB  = s.PrevVertexInRoute(jRoute, firstB)
		k      int
	)

	for _, v := range w.segA {
		s.RemoveVertex(iRoute, v)
	}
	if w.revA {
		for k = len(w.segA) - 1; k >= 0; k-- {
			s.InsertVertexBefore(jRoute, j, w.segA[k])
		}
	} else {
		for _, v := range w.segA {
			s.InsertVertexBefore(jRoute, j, v)
		}
	}

	for _, v := range w.segB {
		s.RemoveVertex(jRoute, v)
	}
	if w.revB {
		for _, v := range w.segB {
			s.InsertVertexBefore(iRoute, nextA, v)
		}
	} else {
		for k = len(w.segB) - 1; k >= 0; k-- {
			s.InsertVertexBefore(iRoute, nextA, w.segB[k])
		}
	}

	reach := w.lenA
	if w.lenB > reach {
		reach = w.lenB
	}

	w.core = w.core[:0]
	w.core = append(w.core, prevA)
	w.core = append(w.core, w.segA...)
	w.core = append(w.core, nextA, prevB)
	w.core = append(w.core, w.segB...)
	w.core = append(w.core, j)
	w.mark(s, affected, reach+1, w.core...)
}
