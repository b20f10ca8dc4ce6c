// Package localsearch - ejection chain operator.
//
// Design:
//   - A generating relocation that would overload its target route is
//     repaired by ejecting further customers, building a best-first
//     tree of hypothetical relocations over the active generators.
//   - Each tree node carries the chain cost so far, the per-route load
//     overrides of its chain, and forbidden source/target markers that
//     keep later relocations away from vertices whose neighborhoods an
//     earlier link already rewired.
//   - Generator deltas priced during tree growth are tagged so later
//     trees in the same descent reuse them until an execution touches
//     the vertices involved.
//
// Contracts:
//   - The tree holds at most maxTreeNodes nodes; growth past the cap
//     abandons the generating move.
//   - feasible leaves the accepted chain behind for execute, which the
//     engine calls immediately after.
package localsearch

import (
	"github.com/katalvlaran/cvrp/containers"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// maxTreeNodes bounds the relocation tree of a single generating move.
const maxTreeNodes = 25

type chainNode struct {
	src, dst int
	deltaSum float64
	pred     int
}

type ejectionChain struct {
	opBase
	tolerance float64

	nodes            []chainNode
	forbiddenSources *containers.BitMatrix
	forbiddenTargets *containers.BitMatrix
	loads            []map[int]int
	open             []int

	acceptedNode int
	computed     []int
	scratch      []int
	entries      []int
}

func newEjectionChain(base opBase, tolerance float64) *ejectionChain {
	e := &ejectionChain{
		opBase:           base,
		tolerance:        tolerance,
		nodes:            make([]chainNode, 0, maxTreeNodes),
		forbiddenSources: containers.NewBitMatrix(maxTreeNodes),
		forbiddenTargets: containers.NewBitMatrix(maxTreeNodes),
		loads:            make([]map[int]int, maxTreeNodes),
		acceptedNode:     -1,
	}
	for n := range e.loads {
		e.loads[n] = make(map[int]int)
	}

	return e
}

func (*ejectionChain) symmetric() bool        { return false }
func (*ejectionChain) pre(*solution.Solution) {}

// post drops the pricing tags so the next descent starts clean.
func (e *ejectionChain) post(*solution.Solution) {
	for _, idx := range e.computed {
		e.gens.Get(idx).SetComputedForEjch(false)
	}
	e.computed = e.computed[:0]
}

// delta prices the relocation of i just before j.
func (e *ejectionChain) delta(s *solution.Solution, i, j int) float64 {
	depot := e.inst.Depot()
	if i == depot || j == depot {
		return infeasibleDelta
	}
	if j == s.NextVertex(i) {
		return 0
	}

	var (
		iRoute = s.RouteIndex(i)
		jRoute = s.RouteIndex(j)
		pi     = s.PrevVertexInRoute(iRoute, i)
		ni     = s.NextVertexInRoute(iRoute, i)
		pj     = s.PrevVertexInRoute(jRoute, j)
		c      = e.inst.Cost
	)

	return -c(pi, i) - c(i, ni) + c(pi, ni) - c(pj, j) + c(pj, i) + c(i, j)
}

// feasible accepts the generating move outright when its target route
// can absorb the moved customer, and otherwise grows the relocation
// tree looking for a chain that restores feasibility.
func (e *ejectionChain) feasible(s *solution.Solution, mg *movegen.MoveGenerator) bool {
	i, j := mg.FirstVertex(), mg.SecondVertex()
	depot := e.inst.Depot()
	if i == depot || j == depot {
		return false
	}

	var (
		iRoute   = s.RouteIndex(i)
		jRoute   = s.RouteIndex(j)
		capacity = e.inst.Capacity()
		demand   = e.inst.Demand(i)
	)

	e.nodes = e.nodes[:0]
	e.open = e.open[:0]
	e.acceptedNode = -1

	if iRoute == jRoute || s.RouteLoad(jRoute)+demand <= capacity {
		e.nodes = append(e.nodes, chainNode{src: i, dst: j, deltaSum: mg.Delta(), pred: -1})
		e.acceptedNode = 0

		return true
	}

	e.nodes = append(e.nodes, chainNode{src: i, dst: j, deltaSum: mg.Delta(), pred: -1})
	e.forbiddenSources.Reset(0)
	e.forbiddenSources.Set(0, s.PrevVertexInRoute(iRoute, i))
	e.forbiddenSources.Set(0, s.PrevVertexInRoute(jRoute, j))
	e.forbiddenTargets.Reset(0)
	e.forbiddenTargets.Set(0, i)
	e.forbiddenTargets.Set(0, s.NextVertexInRoute(iRoute, i))
	e.forbiddenTargets.Set(0, j)
	clear(e.loads[0])
	e.loads[0][iRoute] = s.RouteLoad(iRoute) - demand
	e.loads[0][jRoute] = s.RouteLoad(jRoute) + demand
	e.pushNode(0)

	for len(e.open) > 0 {
		n := e.popNode()
		if e.growNode(s, n) {
			return true
		}
		if len(e.nodes) >= maxTreeNodes {
			return false
		}
	}

	return false
}

// growNode expands one overloaded tree node. Reports whether a load
// feasible chain was found.
func (e *ejectionChain) growNode(s *solution.Solution, n int) bool {
	var (
		depot     = e.inst.Depot()
		capacity  = e.inst.Capacity()
		overRoute = s.RouteIndex(e.nodes[n].dst)
		overLoad  = e.loads[n][overRoute]
		v         int
	)

	for v = s.FirstCustomer(overRoute); v != depot; v = s.NextVertex(v) {
		if overLoad-e.inst.Demand(v) > capacity {
			continue
		}
		if e.forbiddenSources.IsSet(n, v) {
			continue
		}

		for _, idx := range e.gens.IndicesInvolving1st(v) {
			mg := e.gens.Get(idx)
			w := mg.SecondVertex()
			if w == depot || e.forbiddenTargets.IsSet(n, w) {
				continue
			}
			wRoute := s.RouteIndex(w)
			if wRoute == overRoute {
				continue
			}

			if !mg.IsComputedForEjch() {
				mg.SetDelta(e.delta(s, v, w))
				mg.SetComputedForEjch(true)
				e.computed = append(e.computed, idx)
			}

			deltaSum := e.nodes[n].deltaSum + mg.Delta()
			if deltaSum > -e.tolerance {
				continue
			}
			if len(e.nodes) >= maxTreeNodes {
				return false
			}

			wLoad, tracked := e.loads[n][wRoute]
			if !tracked {
				wLoad = s.RouteLoad(wRoute)
			}
			wLoad += e.inst.Demand(v)

			child := len(e.nodes)
			e.nodes = append(e.nodes, chainNode{src: v, dst: w, deltaSum: deltaSum, pred: n})

			e.forbiddenSources.Overwrite(n, child)
			e.forbiddenSources.Set(child, s.PrevVertexInRoute(overRoute, v))
			e.forbiddenSources.Set(child, s.PrevVertexInRoute(wRoute, w))
			e.forbiddenTargets.Overwrite(n, child)
			e.forbiddenTargets.Set(child, v)
			e.forbiddenTargets.Set(child, s.NextVertexInRoute(overRoute, v))
			e.forbiddenTargets.Set(child, w)

			dst := e.loads[child]
			clear(dst)
			for route, load := range e.loads[n] {
				dst[route] = load
			}
			dst[overRoute] = overLoad - e.inst.Demand(v)
			dst[wRoute] = wLoad

			if wLoad <= capacity {
				e.acceptedNode = child

				return true
			}
			e.pushNode(child)
		}
	}

	return false
}

// execute applies the accepted chain from the generating move down.
func (e *ejectionChain) execute(s *solution.Solution, _ *movegen.MoveGenerator, affected *containers.SparseIntSet) {
	bits := e.gens.UpdateBits()

	e.scratch = e.scratch[:0]
	var n int
	for n = e.acceptedNode; n != -1; n = e.nodes[n].pred {
		e.scratch = append(e.scratch, n)
	}

	// Generators priced against the pre-move layout of these vertices
	// must be repriced by the next tree.
	e.entries = e.entries[:0]
	e.entries = e.forbiddenSources.Entries(e.acceptedNode, e.entries)
	e.entries = e.forbiddenTargets.Entries(e.acceptedNode, e.entries)
	for _, v := range e.entries {
		affected.Insert(v)
		for _, idx := range e.gens.IndicesInvolving1st(v) {
			e.gens.Get(idx).SetComputedForEjch(false)
			e.gens.Get(movegen.Twin(idx)).SetComputedForEjch(false)
		}
	}

	var k int
	for k = len(e.scratch) - 1; k >= 0; k-- {
		nd := e.nodes[e.scratch[k]]

		var (
			v, w   = nd.src, nd.dst
			vRoute = s.RouteIndex(v)
			wRoute = s.RouteIndex(w)
			pv     = s.PrevVertexInRoute(vRoute, v)
			nv     = s.NextVertexInRoute(vRoute, v)
			pw     = s.PrevVertexInRoute(wRoute, w)
		)

		s.RemoveVertex(vRoute, v)
		s.InsertVertexBefore(wRoute, w, v)
		if s.IsRouteEmpty(vRoute) {
			s.RemoveRoute(vRoute)
		}

		bits.Set(pv, movegen.UpdateBitsFirst, true)
		bits.Set(v, movegen.UpdateBitsFirst, true)
		bits.Set(v, movegen.UpdateBitsSecond, true)
		bits.Set(nv, movegen.UpdateBitsFirst, true)
		bits.Set(nv, movegen.UpdateBitsSecond, true)
		bits.Set(w, movegen.UpdateBitsFirst, true)
		bits.Set(w, movegen.UpdateBitsSecond, true)
		bits.Set(pw, movegen.UpdateBitsFirst, true)

		affected.Insert(pv)
		affected.Insert(v)
		affected.Insert(nv)
		affected.Insert(w)
		affected.Insert(pw)
	}
}

func (e *ejectionChain) pushNode(n int) {
	e.open = append(e.open, n)

	child := len(e.open) - 1
	for child > 0 {
		parent := (child - 1) / 2
		if e.nodes[e.open[parent]].deltaSum <= e.nodes[e.open[child]].deltaSum {
			break
		}
		e.open[parent], e.open[child] = e.open[child], e.open[parent]
		child = parent
	}
}

func (e *ejectionChain) popNode() int {
	top := e.open[0]

	last := len(e.open) - 1
	e.open[0] = e.open[last]
	e.open = e.open[:last]

	var (
		parent   int
		smallest int
		left     int
		right    int
	)
	for {
		left = 2*parent + 1
		right = 2*parent + 2
		smallest = parent
		if left < len(e.open) && e.nodes[e.open[left]].deltaSum < e.nodes[e.open[smallest]].deltaSum {
			smallest = left
		}
		if right < len(e.open) && e.nodes[e.open[right]].deltaSum < e.nodes[e.open[smallest]].deltaSum {
			smallest = right
		}
		if smallest == parent {
			break
		}
		e.open[parent], e.open[smallest] = e.open[smallest], e.open[parent]
		parent = smallest
	}

	return top
}
