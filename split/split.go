// Package split - giant-tour decoder.
//
// Design:
//   - A giant tour visiting every customer once is cut into routes by a
//     shortest-path relaxation over tour positions: potential[k][i] is
//     the cheapest penalized cost of serving the first i positions with
//     k routes, pred[k][i] the last position of the previous route.
//   - Without a distance limit each row is relaxed in O(n) with a
//     monotonic deque of candidate predecessors; with a limit the row
//     falls back to a quadratic relaxation that accumulates distance and
//     service time explicitly, pruned once a segment load passes 1.5x
//     the vehicle capacity.
//   - The unlimited-fleet row is tried first. Only when its optimum
//     needs more routes than the fleet bound does the limited-fleet
//     table run, and its answer is minimized over every usable fleet
//     size.
//
// Contracts:
//   - Overload and overtime are penalized, not forbidden: the decoded
//     solution may be infeasible and carries the true travel cost only.
//   - Decode resets the target solution before writing routes.
//
// Complexity: O(n) per row without a distance limit, O(n^2) with one;
// the limited-fleet table multiplies the row cost by the fleet bound.
package split

import (
	"math"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/solution"
)

const (
	unreached      = 1e30
	unreachedGuard = 1e29
	epsilon        = 1e-5
)

// Splitter decodes giant tours into route sets over one instance. The
// relaxation tables are allocated once and reused across Decode calls.
type Splitter struct {
	inst            *instance.Instance
	penaltyCapacity float64
	penaltyDuration float64
	maxRoutes       int
	capacity        int

	// Per tour position p in [1, n]: the customer demand, its depot
	// arc, and the arc to the next position.
	demand  []int
	toDepot []float64
	next    []float64

	sumLoad     []int
	sumDistance []float64

	potential [][]float64
	pred      [][]int

	queue  posDeque
	seen   []bool
	bounds []int
}

// New builds a Splitter for the instance.
func New(inst *instance.Instance, opts Options) (*Splitter, error) {
	if err := validateOptionsStandalone(opts); err != nil {
		return nil, err
	}

	var (
		n        = inst.CustomersNum()
		minFleet = (inst.TotalDemand() + inst.Capacity() - 1) / inst.Capacity()
	)
	maxRoutes := opts.MaxRoutes
	if maxRoutes < minFleet {
		maxRoutes = minFleet
	}

	sp := &Splitter{
		inst:            inst,
		penaltyCapacity: opts.PenaltyCapacity,
		penaltyDuration: opts.PenaltyDuration,
		maxRoutes:       maxRoutes,
		capacity:        inst.Capacity(),
		demand:          make([]int, n+1),
		toDepot:         make([]float64, n+1),
		next:            make([]float64, n+1),
		sumLoad:         make([]int, n+1),
		sumDistance:     make([]float64, n+1),
		potential:       make([][]float64, maxRoutes+1),
		pred:            make([][]int, maxRoutes+1),
		queue:           newPosDeque(n + 1),
		seen:            make([]bool, inst.VerticesNum()),
	}
	for k := range sp.potential {
		sp.potential[k] = make([]float64, n+1)
		sp.pred[k] = make([]int, n+1)
	}

	return sp, nil
}

// MaxRoutes returns the effective fleet bound.
func (sp *Splitter) MaxRoutes() int { return sp.maxRoutes }

// Decode cuts the tour into routes and writes them into s. The tour
// must hold every customer exactly once, in visit order.
func (sp *Splitter) Decode(tour []int, s *solution.Solution) error {
	if err := sp.checkTour(tour); err != nil {
		return err
	}
	sp.prepare(tour)

	n := len(tour)
	if sp.inst.HasDistanceLimit() {
		sp.relaxRowQuadratic(0, 0, 0)
	} else {
		sp.relaxRowDeque(0)
	}
	if sp.potential[0][n] > unreachedGuard {
		return ErrNoDecomposition
	}

	sp.bounds = sp.bounds[:0]
	end := n
	for end > 0 {
		begin := sp.pred[0][end]
		sp.bounds = append(sp.bounds, begin, end)
		end = begin
	}
	if len(sp.bounds)/2 <= sp.maxRoutes {
		sp.writeRoutes(tour, s)

		return nil
	}

	return sp.decodeLimited(tour, s)
}

// decodeLimited reruns the relaxation with one table row per fleet
// size and keeps the cheapest usable fleet.
func (sp *Splitter) decodeLimited(tour []int, s *solution.Solution) error {
	n := len(tour)

	var k, i int
	for k = 0; k <= sp.maxRoutes; k++ {
		for i = 1; i <= n; i++ {
			sp.potential[k][i] = unreached
		}
	}
	for k = 1; k <= sp.maxRoutes; k++ {
		sp.potential[k][0] = unreached
	}
	sp.potential[0][0] = 0

	for k = 0; k < sp.maxRoutes; k++ {
		if sp.inst.HasDistanceLimit() {
			sp.relaxRowQuadratic(k, k+1, k)
		} else {
			sp.relaxRowDequeLimited(k)
		}
	}

	var (
		best     = unreached
		nbRoutes = 0
	)
	for k = 1; k <= sp.maxRoutes; k++ {
		if sp.potential[k][n] < best {
			best = sp.potential[k][n]
			nbRoutes = k
		}
	}
	if best > unreachedGuard {
		return ErrNoDecomposition
	}

	sp.bounds = sp.bounds[:0]
	end := n
	for k = nbRoutes; k >= 1; k-- {
		begin := sp.pred[k][end]
		sp.bounds = append(sp.bounds, begin, end)
		end = begin
	}
	if end != 0 {
		return ErrNoDecomposition
	}
	sp.writeRoutes(tour, s)

	return nil
}

func (sp *Splitter) checkTour(tour []int) error {
	if len(tour) != sp.inst.CustomersNum() {
		return ErrMalformedTour
	}

	clear(sp.seen)
	for _, v := range tour {
		if v < sp.inst.CustomersBegin() || v >= sp.inst.CustomersEnd() || sp.seen[v] {
			return ErrMalformedTour
		}
		sp.seen[v] = true
	}

	return nil
}

// prepare fills the per-position arrays and prefix sums for the tour.
func (sp *Splitter) prepare(tour []int) {
	var (
		n     = len(tour)
		depot = sp.inst.Depot()
		p     int
	)
	for p = 1; p <= n; p++ {
		sp.demand[p] = sp.inst.Demand(tour[p-1])
		sp.toDepot[p] = sp.inst.Cost(depot, tour[p-1])
		if p < n {
			sp.next[p] = sp.inst.Cost(tour[p-1], tour[p])
		}
		sp.sumLoad[p] = sp.sumLoad[p-1] + sp.demand[p]
		if p > 1 {
			sp.sumDistance[p] = sp.sumDistance[p-1] + sp.next[p-1]
		}
	}

	sp.potential[0][0] = 0
	for p = 1; p <= n; p++ {
		sp.potential[0][p] = unreached
	}
}

// propagate prices extending row k from position i to position j > i
// with one additional route.
func (sp *Splitter) propagate(i, j, k int) float64 {
	overload := float64(sp.sumLoad[j] - sp.sumLoad[i] - sp.capacity)

	return sp.potential[k][i] + sp.sumDistance[j] - sp.sumDistance[i+1] +
		sp.toDepot[i+1] + sp.toDepot[j] +
		sp.penaltyCapacity*math.Max(0, overload)
}

// dominates reports whether i beats j as a route start for every
// position past j. Requires i < j.
func (sp *Splitter) dominates(i, j, k int) bool {
	return sp.potential[k][j]+sp.toDepot[j+1] >
		sp.potential[k][i]+sp.toDepot[i+1]+
			sp.sumDistance[j+1]-sp.sumDistance[i+1]+
			sp.penaltyCapacity*float64(sp.sumLoad[j]-sp.sumLoad[i])
}

// dominatesRight reports whether j beats i as a route start for every
// position past j. Requires i < j.
func (sp *Splitter) dominatesRight(i, j, k int) bool {
	return sp.potential[k][j]+sp.toDepot[j+1] <
		sp.potential[k][i]+sp.toDepot[i+1]+
			sp.sumDistance[j+1]-sp.sumDistance[i+1]+epsilon
}

// relaxRowDeque relaxes the unlimited-fleet row with a monotonic deque
// of candidate route starts.
func (sp *Splitter) relaxRowDeque(k int) {
	n := len(sp.demand) - 1
	sp.queue.reset(0)

	var i int
	for i = 1; i <= n; i++ {
		sp.potential[k][i] = sp.propagate(sp.queue.front(), i, k)
		sp.pred[k][i] = sp.queue.front()

		if i == n {
			break
		}
		if !sp.dominates(sp.queue.back(), i, k) {
			for sp.queue.size() > 0 && sp.dominatesRight(sp.queue.back(), i, k) {
				sp.queue.popBack()
			}
			sp.queue.pushBack(i)
		}
		for sp.queue.size() > 1 &&
			sp.propagate(sp.queue.front(), i+1, k) > sp.propagate(sp.queue.nextFront(), i+1, k)-epsilon {
			sp.queue.popFront()
		}
	}
}

// relaxRowDequeLimited relaxes row k into row k+1. Row k+1 can only
// start at position k, one position per route already spent.
func (sp *Splitter) relaxRowDequeLimited(k int) {
	n := len(sp.demand) - 1
	sp.queue.reset(k)

	var i int
	for i = k + 1; i <= n && sp.queue.size() > 0; i++ {
		sp.potential[k+1][i] = sp.propagate(sp.queue.front(), i, k)
		sp.pred[k+1][i] = sp.queue.front()

		if i == n {
			break
		}
		if !sp.dominates(sp.queue.back(), i, k) {
			for sp.queue.size() > 0 && sp.dominatesRight(sp.queue.back(), i, k) {
				sp.queue.popBack()
			}
			sp.queue.pushBack(i)
		}
		for sp.queue.size() > 1 &&
			sp.propagate(sp.queue.front(), i+1, k) > sp.propagate(sp.queue.nextFront(), i+1, k)-epsilon {
			sp.queue.popFront()
		}
	}
}

// relaxRowQuadratic relaxes row src into row dst accumulating distance
// and service time, pricing the duration excess of each candidate
// segment. Segments stop once their load passes 1.5x the capacity.
func (sp *Splitter) relaxRowQuadratic(src, dst, start int) {
	var (
		n           = len(sp.demand) - 1
		limit       = sp.inst.DistanceLimit()
		serviceTime = sp.inst.ServiceTime()
		loadCap     = 1.5 * float64(sp.capacity)
		i, j        int
	)

	for i = start; i < n; i++ {
		if sp.potential[src][i] > unreachedGuard {
			continue
		}

		var (
			load     int
			distance float64
			service  float64
		)
		for j = i + 1; j <= n && float64(load) <= loadCap; j++ {
			load += sp.demand[j]
			service += serviceTime
			if j == i+1 {
				distance = sp.toDepot[i+1]
			} else {
				distance += sp.next[j-1]
			}

			duration := distance + sp.toDepot[j] + service
			cost := distance + sp.toDepot[j] +
				sp.penaltyCapacity*math.Max(0, float64(load-sp.capacity)) +
				sp.penaltyDuration*math.Max(0, duration-limit)
			if sp.potential[src][i]+cost < sp.potential[dst][j] {
				sp.potential[dst][j] = sp.potential[src][i] + cost
				sp.pred[dst][j] = i
			}
		}
	}
}

// writeRoutes rebuilds s from the collected route boundaries. The
// bounds slice holds (begin, end) pairs from the last route backwards.
func (sp *Splitter) writeRoutes(tour []int, s *solution.Solution) {
	depot := sp.inst.Depot()
	s.Reset()

	var idx, p int
	for idx = len(sp.bounds) - 2; idx >= 0; idx -= 2 {
		begin, end := sp.bounds[idx], sp.bounds[idx+1]
		route := s.BuildOneCustomerRoute(tour[begin])
		for p = begin + 1; p < end; p++ {
			s.InsertVertexBefore(route, depot, tour[p])
		}
	}
}

// posDeque is a fixed-capacity deque of tour positions.
type posDeque struct {
	items []int
	head  int
	tail  int
}

func newPosDeque(capacity int) posDeque {
	return posDeque{items: make([]int, capacity)}
}

func (q *posDeque) reset(first int) {
	q.items[0] = first
	q.head = 0
	q.tail = 0
}

func (q *posDeque) size() int      { return q.tail - q.head + 1 }
func (q *posDeque) front() int     { return q.items[q.head] }
func (q *posDeque) nextFront() int { return q.items[q.head+1] }
func (q *posDeque) back() int      { return q.items[q.tail] }
func (q *posDeque) popFront()      { q.head++ }
func (q *posDeque) popBack()       { q.tail-- }

func (q *posDeque) pushBack(i int) {
	q.tail++
	q.items[q.tail] = i
}
