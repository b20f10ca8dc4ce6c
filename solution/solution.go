// Package solution - core linked-list representation and operations.
//
// Design:
//   - Customers and routes live in flat arrays indexed by vertex or route
//     id; links are indices, never pointers, so a deep copy is a handful
//     of slice copies.
//   - Each customer caches the cost of the arc from its predecessor, and
//     each route caches the cost of the arc from its last customer back
//     to the depot. Operations patch these caches along with the links,
//     keeping the incremental cost deltas exact.
//   - Removing the depot from a route leaves it as a pure customer cycle,
//     an intentionally inconsistent state that the two-route exchange
//     operators rely on; inserting the depot back restores it.
//
// Contracts:
//   - All operations assume structurally valid input (vertex served by
//     the named route, non-empty routes where required). Validate checks
//     the full structure and is for tests only.
//   - Cumulative loads are stale until LoadBeforeIncluded or
//     LoadAfterIncluded is called on a customer of the dirty route.
//
// Complexity: all single-vertex operations are O(1); path reversal and
// tail exchanges are linear in the vertices they move.
package solution

import (
	"math"

	"github.com/katalvlaran/cvrp/instance"
)

type customerNode struct {
	next       int
	prev       int
	routePtr   int
	loadAfter  int
	loadBefore int
	cPrevCurr  float64
}

type routeNode struct {
	firstCustomer   int
	lastCustomer    int
	load            int
	next            int
	prev            int
	size            int
	needsLoadUpdate bool
	inSolution      bool
	cPrevCurr       float64
}

// Solution is a mutable set of routes over a shared instance. It is not
// safe for concurrent use.
type Solution struct {
	inst *instance.Instance

	cost       float64
	maxRoutes  int
	pool       routePool
	firstRoute int
	routesNum  int
	routes     []routeNode
	customers  []customerNode
	svc        vertexCache

	undoList1 []action
	doList1   []action
	doList2   []action
}

// New returns a reset solution with the default SVC bound.
func New(inst *instance.Instance) *Solution {
	return NewWithCacheSize(inst, DefaultCacheSize)
}

// NewWithCacheSize returns a reset solution whose SVC holds at most
// cacheSize vertices.
func NewWithCacheSize(inst *instance.Instance, cacheSize int) *Solution {
	n := inst.VerticesNum()
	s := &Solution{
		inst:      inst,
		maxRoutes: n + 1,
		pool:      newRoutePool(n),
		routes:    make([]routeNode, n+1),
		customers: make([]customerNode, n),
		svc:       newVertexCache(cacheSize, n),
	}
	s.Reset()

	return s
}

// Reset empties the solution: no routes, no served customers, zero cost.
func (s *Solution) Reset() {
	s.cost = 0
	s.pool.reset()
	s.firstRoute = DummyRoute
	s.routesNum = 0

	var r, i int
	for r = 0; r < s.maxRoutes; r++ {
		s.resetRoute(r)
	}
	for i = 0; i < s.inst.VerticesNum(); i++ {
		s.resetVertex(i)
	}

	s.svc.clear()
	s.undoList1 = s.undoList1[:0]
	s.doList1 = s.doList1[:0]
	s.doList2 = s.doList2[:0]
}

// CopyFrom deep-copies src into s. Both must share the same instance.
// Prefer the do/undo journal for anything on a hot path.
func (s *Solution) CopyFrom(src *Solution) {
	s.cost = src.cost
	s.pool.copyFrom(&src.pool)
	s.firstRoute = src.firstRoute
	s.routesNum = src.routesNum
	copy(s.routes, src.routes)
	copy(s.customers, src.customers)
	s.svc.copyFrom(&src.svc)
}

// Equal reports whether the two solutions have the same cost within the
// comparison tolerance and identical customer adjacency.
func (s *Solution) Equal(other *Solution) bool {
	if math.Abs(s.cost-other.cost) >= 0.01 {
		return false
	}

	var c int
	for c = s.inst.CustomersBegin(); c < s.inst.CustomersEnd(); c++ {
		if s.customers[c].prev != other.customers[c].prev || s.customers[c].next != other.customers[c].next {
			return false
		}
	}

	return true
}

// Cost returns the current solution cost.
func (s *Solution) Cost() float64 { return s.cost }

// RoutesNum returns the number of routes currently in the solution.
func (s *Solution) RoutesNum() int { return s.routesNum }

// FirstRoute returns the head of the route list, or DummyRoute when the
// solution is empty.
func (s *Solution) FirstRoute() int { return s.firstRoute }

// NextRoute returns the route after the given one, or DummyRoute.
func (s *Solution) NextRoute(route int) int { return s.routes[route].next }

// EndRoute returns the route-list terminator.
func (s *Solution) EndRoute() int { return DummyRoute }

// BuildOneCustomerRoute creates the route depot-customer-depot and
// returns its index. The customer must be unserved.
func (s *Solution) BuildOneCustomerRoute(customer int) int {
	return s.buildOneCustomerRoute(customer, true)
}

func (s *Solution) buildOneCustomerRoute(customer int, record bool) int {
	route := s.requestRoute()

	if record {
		s.doList1 = append(s.doList1, action{kind: actionCreateOneCustomerRoute, route: route, i: customer, j: DummyVertex})
		s.undoList1 = append(s.undoList1, action{kind: actionRemoveOneCustomerRoute, route: route, i: customer, j: DummyVertex})
	}

	s.customers[customer].prev = s.inst.Depot()
	s.customers[customer].next = s.inst.Depot()
	s.customers[customer].routePtr = route
	s.customers[customer].cPrevCurr = s.inst.Cost(s.inst.Depot(), customer)

	// Head insert into the route list.
	next := s.firstRoute
	s.routes[route].next = next
	s.firstRoute = route
	s.routes[route].prev = DummyRoute
	s.routes[next].prev = route

	s.routes[route].firstCustomer = customer
	s.routes[route].lastCustomer = customer
	s.routes[route].load = s.inst.Demand(customer)
	s.routes[route].size = 1
	s.routes[route].cPrevCurr = s.customers[customer].cPrevCurr

	s.cost += 2 * s.customers[customer].cPrevCurr

	s.svc.insert(customer)
	s.routes[route].needsLoadUpdate = true

	return route
}

// RouteIndex returns the route serving the customer, or DummyRoute when
// the customer is unserved. The customer must not be the depot.
func (s *Solution) RouteIndex(customer int) int {
	return s.customers[customer].routePtr
}

// RouteIndexOr returns the route serving vertex, falling back to the
// route of fallback when vertex is the depot.
func (s *Solution) RouteIndexOr(vertex, fallback int) int {
	if vertex == s.inst.Depot() {
		return s.customers[fallback].routePtr
	}

	return s.customers[vertex].routePtr
}

// RouteLoad returns the total demand served by the route.
func (s *Solution) RouteLoad(route int) int { return s.routes[route].load }

// RouteSize returns the number of customers in the route.
func (s *Solution) RouteSize(route int) int { return s.routes[route].size }

// IsRouteEmpty reports whether the route serves no load.
func (s *Solution) IsRouteEmpty(route int) bool { return s.routes[route].load == 0 }

// RemoveVertex unlinks the vertex from the route and returns the cost
// delta. Removing the depot leaves the route as a pure customer cycle.
func (s *Solution) RemoveVertex(route, vertex int) float64 {
	return s.removeVertex(route, vertex, true)
}

func (s *Solution) removeVertex(route, vertex int, record bool) float64 {
	if record {
		s.doList1 = append(s.doList1, action{kind: actionRemoveVertex, route: route, i: vertex, j: DummyVertex})
		s.undoList1 = append(s.undoList1, action{kind: actionInsertVertex, route: route, i: vertex, j: s.NextVertexInRoute(route, vertex)})
	}

	depot := s.inst.Depot()

	if vertex == depot {
		next := s.routes[route].firstCustomer
		prev := s.routes[route].lastCustomer

		s.svc.insert(vertex)
		s.svc.insert(prev)
		s.svc.insert(next)

		s.customers[next].prev = prev
		s.customers[prev].next = next

		s.routes[route].firstCustomer = DummyVertex
		s.routes[route].lastCustomer = DummyVertex

		s.customers[next].cPrevCurr = s.inst.Cost(prev, next)

		delta := s.customers[next].cPrevCurr - s.inst.Cost(prev, vertex) - s.inst.Cost(vertex, next)
		s.cost += delta

		s.routes[route].needsLoadUpdate = true

		return delta
	}

	next := s.customers[vertex].next
	prev := s.customers[vertex].prev

	s.svc.insert(vertex)
	s.svc.insert(prev)
	s.svc.insert(next)

	switch vertex {
	case s.routes[route].firstCustomer:
		s.routes[route].firstCustomer = next
		s.setPrevVertexPtr(route, next, depot)
	case s.routes[route].lastCustomer:
		s.routes[route].lastCustomer = prev
		s.setNextVertexPtr(route, prev, depot)
	default:
		s.customers[prev].next = next
		s.customers[next].prev = prev
	}

	s.routes[route].load -= s.inst.Demand(vertex)
	s.routes[route].size--

	cPrevNext := s.inst.Cost(prev, next)
	if next == depot {
		s.routes[route].cPrevCurr = cPrevNext
	} else {
		s.customers[next].cPrevCurr = cPrevNext
	}

	delta := cPrevNext - s.inst.Cost(prev, vertex) - s.inst.Cost(vertex, next)
	s.cost += delta

	s.resetVertex(vertex)
	s.routes[route].needsLoadUpdate = true

	return delta
}

// RemoveRoute releases an empty route back to the pool.
func (s *Solution) RemoveRoute(route int) {
	s.removeRoute(route, true)
}

func (s *Solution) removeRoute(route int, record bool) {
	if record {
		s.doList1 = append(s.doList1, action{kind: actionRemoveRoute, route: route, i: DummyVertex, j: DummyVertex})
		s.undoList1 = append(s.undoList1, action{kind: actionCreateRoute, route: route, i: DummyVertex, j: DummyVertex})
	}

	s.releaseRoute(route)
}

// FirstCustomer returns the first customer of the route.
func (s *Solution) FirstCustomer(route int) int { return s.routes[route].firstCustomer }

// LastCustomer returns the last customer of the route.
func (s *Solution) LastCustomer(route int) int { return s.routes[route].lastCustomer }

// NextVertex returns the successor of the customer in its route. The
// customer must not be the depot.
func (s *Solution) NextVertex(customer int) int { return s.customers[customer].next }

// NextVertexInRoute returns the successor of vertex in route; for the
// depot this is the route's first customer.
func (s *Solution) NextVertexInRoute(route, vertex int) int {
	if vertex == s.inst.Depot() {
		return s.routes[route].firstCustomer
	}

	return s.customers[vertex].next
}

// PrevVertex returns the predecessor of the customer in its route. The
// customer must not be the depot.
func (s *Solution) PrevVertex(customer int) int { return s.customers[customer].prev }

// PrevVertexInRoute returns the predecessor of vertex in route; for the
// depot this is the route's last customer.
func (s *Solution) PrevVertexInRoute(route, vertex int) int {
	if vertex == s.inst.Depot() {
		return s.routes[route].lastCustomer
	}

	return s.customers[vertex].prev
}

// InsertVertexBefore links vertex immediately before where in route.
// Inserting the depot restores a route left as a pure customer cycle.
func (s *Solution) InsertVertexBefore(route, where, vertex int) {
	s.insertVertexBefore(route, where, vertex, true)
}

func (s *Solution) insertVertexBefore(route, where, vertex int, record bool) {
	if record {
		s.doList1 = append(s.doList1, action{kind: actionInsertVertex, route: route, i: vertex, j: where})
		s.undoList1 = append(s.undoList1, action{kind: actionRemoveVertex, route: route, i: vertex, j: DummyVertex})
	}

	depot := s.inst.Depot()

	if vertex == depot {
		prev := s.customers[where].prev

		s.svc.insert(prev)
		s.svc.insert(where)

		s.routes[route].firstCustomer = where
		s.routes[route].lastCustomer = prev

		s.customers[prev].next = depot
		s.customers[where].prev = depot

		s.routes[route].cPrevCurr = s.inst.Cost(prev, depot)

		oldCostPrevWhere := s.customers[where].cPrevCurr
		s.customers[where].cPrevCurr = s.inst.Cost(depot, where)

		s.cost += s.routes[route].cPrevCurr + s.customers[where].cPrevCurr - oldCostPrevWhere

		s.routes[route].needsLoadUpdate = true

		return
	}

	prev := s.PrevVertexInRoute(route, where)

	s.svc.insert(prev)
	s.svc.insert(where)
	s.svc.insert(vertex)

	s.customers[vertex].next = where
	s.customers[vertex].prev = prev
	s.customers[vertex].routePtr = route

	s.setNextVertexPtr(route, prev, vertex)
	s.setPrevVertexPtr(route, where, vertex)

	var oldCostPrevWhere float64
	cVertexWhere := s.inst.Cost(vertex, where)
	if where == depot {
		oldCostPrevWhere = s.routes[route].cPrevCurr
		s.routes[route].cPrevCurr = cVertexWhere
	} else {
		oldCostPrevWhere = s.customers[where].cPrevCurr
		s.customers[where].cPrevCurr = cVertexWhere
	}
	s.customers[vertex].cPrevCurr = s.inst.Cost(prev, vertex)

	s.cost += s.customers[vertex].cPrevCurr + cVertexWhere - oldCostPrevWhere
	s.routes[route].load += s.inst.Demand(vertex)
	s.routes[route].size++

	s.routes[route].needsLoadUpdate = true
}

// ReverseRoutePath reverses the sub-path from begin to end, both served
// by route and distinct.
func (s *Solution) ReverseRoutePath(route, begin, end int) {
	s.reverseRoutePath(route, begin, end, true)
}

func (s *Solution) reverseRoutePath(route, begin, end int, record bool) {
	if record {
		s.doList1 = append(s.doList1, action{kind: actionReverseRoutePath, route: route, i: begin, j: end})
		s.undoList1 = append(s.undoList1, action{kind: actionReverseRoutePath, route: route, i: end, j: begin})
	}

	depot := s.inst.Depot()

	pre := s.PrevVertexInRoute(route, begin)
	stop := s.NextVertexInRoute(route, end)

	cPreBegin := s.CostPrevVertex(route, begin)
	cPreEnd := s.inst.Cost(pre, end)
	cBeginStop := s.inst.Cost(stop, begin)

	s.svc.insert(pre)
	s.svc.insert(stop)

	curr := begin
	for {
		s.svc.insert(curr)

		prev := s.PrevVertexInRoute(route, curr)
		next := s.NextVertexInRoute(route, curr)

		if curr == depot {
			s.routes[route].lastCustomer = next
			s.routes[route].firstCustomer = prev
			s.routes[route].cPrevCurr = s.customers[next].cPrevCurr
		} else {
			s.customers[curr].prev = next
			s.customers[curr].next = prev
			s.customers[curr].cPrevCurr = s.CostPrevVertex(route, next)
		}

		curr = next
		if curr == stop {
			break
		}
	}

	if end == pre && begin == stop {
		// The whole cycle was reversed in place; only the cached arc
		// cost at the seam needs restoring.
		if end == depot {
			s.routes[route].cPrevCurr = cPreBegin
		} else {
			s.customers[end].cPrevCurr = cPreBegin
		}
	} else {
		s.setNextVertexPtr(route, begin, stop)
		s.setNextVertexPtr(route, pre, end)

		if end == depot {
			s.routes[route].lastCustomer = pre
			s.routes[route].cPrevCurr = cPreEnd
		} else {
			s.customers[end].prev = pre
			s.customers[end].cPrevCurr = cPreEnd
		}

		if stop == depot {
			s.routes[route].lastCustomer = begin
			s.routes[route].cPrevCurr = cBeginStop
		} else {
			s.customers[stop].prev = begin
			s.customers[stop].cPrevCurr = cBeginStop
		}
	}

	s.cost += -s.inst.Cost(pre, begin) - s.inst.Cost(end, stop) + cPreEnd + cBeginStop
	s.routes[route].needsLoadUpdate = true
}

// SwapTails moves the customers from j to the end of jRoute behind i in
// iRoute, and the customers after i to the end of jRoute.
func (s *Solution) SwapTails(i, iRoute, j, jRoute int) {
	depot := s.inst.Depot()
	iNext := s.customers[i].next

	curr := j
	for curr != depot {
		next := s.customers[curr].next
		s.RemoveVertex(jRoute, curr)
		s.InsertVertexBefore(iRoute, iNext, curr)
		curr = next
	}

	curr = iNext
	for curr != depot {
		next := s.customers[curr].next
		s.RemoveVertex(iRoute, curr)
		s.InsertVertexBefore(jRoute, depot, curr)
		curr = next
	}

	s.routes[iRoute].needsLoadUpdate = true
	s.routes[jRoute].needsLoadUpdate = true
}

// Split moves j and its predecessors, reversed, behind i in iRoute, and
// the customers after i, reversed, before the old successor of j.
func (s *Solution) Split(i, iRoute, j, jRoute int) {
	depot := s.inst.Depot()
	iNext := s.customers[i].next
	jNext := s.customers[j].next

	curr := j
	for curr != depot {
		prev := s.customers[curr].prev
		s.RemoveVertex(jRoute, curr)
		s.InsertVertexBefore(iRoute, iNext, curr)
		curr = prev
	}

	before := jNext
	curr = iNext
	for curr != depot {
		next := s.customers[curr].next
		s.RemoveVertex(iRoute, curr)
		s.InsertVertexBefore(jRoute, before, curr)
		before = curr
		curr = next
	}

	s.routes[iRoute].needsLoadUpdate = true
	s.routes[jRoute].needsLoadUpdate = true
}

// AppendRoute splices every customer of appended behind route's last
// customer and releases appended. Returns route.
func (s *Solution) AppendRoute(route, appended int) int {
	depot := s.inst.Depot()

	routeEnd := s.routes[route].lastCustomer
	appendedStart := s.routes[appended].firstCustomer

	s.customers[routeEnd].next = appendedStart
	s.customers[appendedStart].prev = routeEnd
	s.customers[appendedStart].cPrevCurr = s.inst.Cost(routeEnd, appendedStart)

	s.routes[route].lastCustomer = s.routes[appended].lastCustomer
	s.routes[route].load += s.routes[appended].load
	s.routes[route].size += s.routes[appended].size
	s.routes[route].cPrevCurr = s.routes[appended].cPrevCurr

	s.cost += s.customers[appendedStart].cPrevCurr - s.inst.Cost(routeEnd, depot) - s.inst.Cost(depot, appendedStart)

	s.svc.insert(routeEnd)

	var curr int
	for curr = appendedStart; curr != depot; curr = s.customers[curr].next {
		s.customers[curr].routePtr = route
		s.svc.insert(curr)
	}

	s.releaseRoute(appended)
	s.routes[route].needsLoadUpdate = true

	return route
}

// LoadBeforeIncluded returns the cumulative load from the depot up to
// the customer included, refreshing the route's loads if stale.
func (s *Solution) LoadBeforeIncluded(customer int) int {
	route := s.customers[customer].routePtr
	if s.routes[route].needsLoadUpdate {
		s.updateCumulativeLoads(route)
		s.routes[route].needsLoadUpdate = false
	}

	return s.customers[customer].loadBefore
}

// LoadAfterIncluded returns the cumulative load from the customer
// included up to the depot, refreshing the route's loads if stale.
func (s *Solution) LoadAfterIncluded(customer int) int {
	route := s.customers[customer].routePtr
	if s.routes[route].needsLoadUpdate {
		s.updateCumulativeLoads(route)
		s.routes[route].needsLoadUpdate = false
	}

	return s.customers[customer].loadAfter
}

// IsRouteInSolution reports whether the route index is currently in use.
func (s *Solution) IsRouteInSolution(route int) bool { return s.routes[route].inSolution }

// IsCustomerInSolution reports whether the customer is currently served.
func (s *Solution) IsCustomerInSolution(customer int) bool {
	return s.customers[customer].routePtr != DummyRoute
}

// IsVertexInSolution reports whether the vertex is served; the depot
// always is.
func (s *Solution) IsVertexInSolution(vertex int) bool {
	return vertex == s.inst.Depot() || s.IsCustomerInSolution(vertex)
}

// ContainsVertex reports whether route serves vertex. Always true for
// the depot.
func (s *Solution) ContainsVertex(route, vertex int) bool {
	return s.customers[vertex].routePtr == route || vertex == s.inst.Depot()
}

// CostPrevVertex returns the cost of the arc into vertex from its
// predecessor in route. Works for the depot as well.
func (s *Solution) CostPrevVertex(route, vertex int) float64 {
	if vertex == s.inst.Depot() {
		return s.routes[route].cPrevCurr
	}

	return s.customers[vertex].cPrevCurr
}

// CostPrevCustomer returns the cost of the arc into the customer from
// its predecessor. The customer must not be the depot.
func (s *Solution) CostPrevCustomer(customer int) float64 {
	return s.customers[customer].cPrevCurr
}

// CostPrevDepot returns the cost of the arc closing the route, from its
// last customer back to the depot.
func (s *Solution) CostPrevDepot(route int) float64 {
	return s.routes[route].cPrevCurr
}

// RouteCost recomputes the route cost from scratch. Linear in the route
// size; keep it off hot paths.
func (s *Solution) RouteCost(route int) float64 {
	depot := s.inst.Depot()

	curr := s.routes[route].firstCustomer
	sum := s.inst.Cost(depot, curr)
	for curr != depot {
		next := s.customers[curr].next
		sum += s.inst.Cost(curr, next)
		curr = next
	}

	return sum
}

// ClearSVC empties the set of recently modified vertices.
func (s *Solution) ClearSVC() { s.svc.clear() }

// SVCBegin returns the most recently modified vertex, or SVCEnd.
func (s *Solution) SVCBegin() int { return s.svc.begin() }

// SVCNext returns the vertex after the given one in recency order.
func (s *Solution) SVCNext(vertex int) int { return s.svc.next(vertex) }

// SVCEnd returns the iteration terminator.
func (s *Solution) SVCEnd() int { return s.svc.end() }

// SVCSize returns the number of recently modified vertices.
func (s *Solution) SVCSize() int { return s.svc.size() }

// IsLoadFeasible reports whether the route respects the capacity.
func (s *Solution) IsLoadFeasible(route int) bool {
	return s.routes[route].load <= s.inst.Capacity()
}

// LoadFeasible reports whether every route respects the capacity.
func (s *Solution) LoadFeasible() bool {
	var r int
	for r = s.firstRoute; r != DummyRoute; r = s.routes[r].next {
		if !s.IsLoadFeasible(r) {
			return false
		}
	}

	return true
}

// Validate walks the whole structure and recomputes the cost. Expensive;
// for tests and debugging only.
func (s *Solution) Validate() error {
	depot := s.inst.Depot()

	var (
		total  float64
		routes int
		r      int
	)
	for r = s.firstRoute; r != DummyRoute; r = s.routes[r].next {
		routes++
		if !s.routes[r].inSolution || s.IsRouteEmpty(r) {
			return ErrInconsistent
		}

		var (
			load, size int
			prev       = depot
			curr       = s.routes[r].firstCustomer
		)
		for curr != depot {
			if s.customers[curr].routePtr != r || s.customers[curr].prev != prev {
				return ErrInconsistent
			}
			load += s.inst.Demand(curr)
			size++
			prev = curr
			curr = s.customers[curr].next
		}
		if prev != s.routes[r].lastCustomer || load != s.routes[r].load || size != s.routes[r].size {
			return ErrInconsistent
		}

		total += s.RouteCost(r)
	}

	if routes != s.routesNum || math.Abs(total-s.cost) >= 0.01 {
		return ErrInconsistent
	}

	return nil
}

func (s *Solution) resetRoute(route int) {
	s.routes[route] = routeNode{
		firstCustomer:   DummyVertex,
		lastCustomer:    DummyVertex,
		prev:            DummyRoute,
		next:            DummyRoute,
		needsLoadUpdate: true,
	}
}

func (s *Solution) resetVertex(customer int) {
	s.customers[customer].next = DummyVertex
	s.customers[customer].prev = DummyVertex
	s.customers[customer].routePtr = DummyRoute
}

func (s *Solution) setNextVertexPtr(route, vertex, next int) {
	if vertex == s.inst.Depot() {
		s.routes[route].firstCustomer = next
	} else {
		s.customers[vertex].next = next
	}
}

func (s *Solution) setPrevVertexPtr(route, vertex, prev int) {
	if vertex == s.inst.Depot() {
		s.routes[route].lastCustomer = prev
	} else {
		s.customers[vertex].prev = prev
	}
}

func (s *Solution) requestRoute() int {
	route := s.pool.get()
	s.routes[route].inSolution = true
	s.routesNum++

	return route
}

func (s *Solution) releaseRoute(route int) {
	prevRoute := s.routes[route].prev
	nextRoute := s.routes[route].next

	s.routes[prevRoute].next = nextRoute
	s.routes[nextRoute].prev = prevRoute
	s.routesNum--

	if s.firstRoute == route {
		s.firstRoute = nextRoute
	}

	s.resetRoute(route)
	s.pool.push(route)
}

func (s *Solution) updateCumulativeLoads(route int) {
	depot := s.inst.Depot()

	prev := s.routes[route].firstCustomer
	s.customers[prev].loadBefore = s.inst.Demand(prev)
	s.customers[prev].loadAfter = s.routes[route].load

	curr := s.customers[prev].next
	for curr != depot {
		s.customers[curr].loadBefore = s.customers[prev].loadBefore + s.inst.Demand(curr)
		s.customers[curr].loadAfter = s.customers[prev].loadAfter - s.inst.Demand(prev)

		prev = curr
		curr = s.customers[curr].next
	}
}
