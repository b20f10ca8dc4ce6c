// Package movegen - k-nearest-neighbor generator registry.
//
// Design:
//   - Generators for every pair are created once, twins adjacent, with
//     the shared edge cost stored per pair.
//   - Per vertex, the base (even) indices of its pairs are kept sorted
//     by edge cost, so activating a prefix of that list realizes the
//     granular neighborhood of the sparsification rule.
//   - A pair stays active while either endpoint keeps it active, so the
//     per-vertex active lists are rebuilt from the base lists whenever
//     an activation changes.
//
// Contracts:
//   - SetActivePercentage expects percentage values in [0, 1] indexed
//     by vertex; only the listed vertices are retargeted.
//   - IndicesInvolving1st(v) lists indices whose FirstVertex is v, each
//     second endpoint appearing once; mirror through Twin for the
//     (·, v) view.
package movegen

import (
	"math"
	"sort"

	"github.com/katalvlaran/cvrp/containers"
	"github.com/katalvlaran/cvrp/instance"
)

// Columns of the update-bit table. A set first bit means the (v, ·)
// generators of the vertex need a delta refresh, a set second bit means
// the (·, v) ones do.
const (
	UpdateBitsFirst  = 0
	UpdateBitsSecond = 1
)

// UpdateBits is a two-column bit table indexed by vertex.
type UpdateBits struct {
	first  []bool
	second []bool
}

func newUpdateBits(vertices int) *UpdateBits {
	return &UpdateBits{
		first:  make([]bool, vertices),
		second: make([]bool, vertices),
	}
}

// At returns the bit of vertex in the given column.
func (b *UpdateBits) At(vertex, column int) bool {
	if column == UpdateBitsFirst {
		return b.first[vertex]
	}

	return b.second[vertex]
}

// Set stores the bit of vertex in the given column.
func (b *UpdateBits) Set(vertex, column int, value bool) {
	if column == UpdateBitsFirst {
		b.first[vertex] = value

		return
	}
	b.second[vertex] = value
}

// Generators owns every move generator of an instance together with the
// activation state of the granular neighborhoods.
type Generators struct {
	maxNeighbors int

	// moves[even] = (i, j), moves[odd] = (j, i).
	moves     []MoveGenerator
	edgeCosts []float64

	baseIndicesInvolving [][]int
	activeIndices1st     [][]int
	currentNumNeighbors  []int

	// Per pair, whether it is active because of its first or second
	// vertex.
	activeIn1st []bool
	activeIn2nd []bool

	heap *Heap

	updateBits       *UpdateBits
	vertexTimestamps []uint64
	timestamp        uint64

	// Scratch state reused across SetActivePercentage calls.
	verticesInUpdatedMoves *containers.SparseIntSet
	uniqueEndpoints        *containers.SparseIntSet
	uniqueIndices          []int
}

// NewGenerators builds the registry for the k nearest neighbors of
// every vertex. All generators start inactive.
func NewGenerators(inst *instance.Instance, k int) *Generators {
	n := inst.VerticesNum()

	maxNeighbors := k
	if maxNeighbors > n-1 {
		maxNeighbors = n - 1
	}
	if maxNeighbors > inst.NeighborsNum()-1 {
		maxNeighbors = inst.NeighborsNum() - 1
	}

	g := &Generators{
		maxNeighbors:           maxNeighbors,
		baseIndicesInvolving:   make([][]int, n),
		activeIndices1st:       make([][]int, n),
		currentNumNeighbors:    make([]int, n),
		heap:                   NewHeap(),
		updateBits:             newUpdateBits(n),
		vertexTimestamps:       make([]uint64, n),
		verticesInUpdatedMoves: containers.NewSparseIntSet(n),
		uniqueEndpoints:        containers.NewSparseIntSet(n),
	}

	// neighbors[0] is the vertex itself, skip it.
	neighborsEnd := 1 + maxNeighbors

	insert := func(a, b int, cost float64) {
		baseIdx := len(g.moves)
		g.moves = append(g.moves,
			MoveGenerator{first: a, second: b, heapIndex: Unheaped},
			MoveGenerator{first: b, second: a, heapIndex: Unheaped})
		g.edgeCosts = append(g.edgeCosts, cost)
		g.baseIndicesInvolving[a] = append(g.baseIndicesInvolving[a], baseIdx)
		g.baseIndicesInvolving[b] = append(g.baseIndicesInvolving[b], baseIdx)
	}

	for i := inst.VerticesBegin(); i < inst.VerticesEnd(); i++ {
		ineighbors := inst.NeighborsOf(i)

		for p := 1; p < neighborsEnd; p++ {
			j := ineighbors[p]
			cij := inst.Cost(i, j)

			if i < j {
				insert(i, j, cij)

				continue
			}

			// The pair was visited from j already unless i lies past
			// the end of the neighbor list of j.
			jneighbors := inst.NeighborsOf(j)
			cjn := inst.Cost(j, jneighbors[neighborsEnd-1])
			if cij > cjn {
				insert(j, i, cij)

				continue
			}

			// Cost tie on the list boundary: i may or may not have
			// made it into the neighbors of j, check before inserting.
			if math.Abs(cij-cjn) < 1e-5 {
				add := true
				for _, idx := range g.baseIndicesInvolving[j] {
					if g.moves[idx].second == i {
						add = false

						break
					}
				}
				if add {
					insert(j, i, cij)
				}
			}
		}
	}

	for v := inst.VerticesBegin(); v < inst.VerticesEnd(); v++ {
		indices := g.baseIndicesInvolving[v]
		sort.Slice(indices, func(a, b int) bool {
			return g.edgeCosts[indices[a]/2] < g.edgeCosts[indices[b]/2]
		})
	}

	g.activeIn1st = make([]bool, len(g.moves)/2)
	g.activeIn2nd = make([]bool, len(g.moves)/2)

	return g
}

// Get returns the generator stored at idx.
func (g *Generators) Get(idx int) *MoveGenerator { return &g.moves[idx] }

// Size returns the total number of generators, twins included.
func (g *Generators) Size() int { return len(g.moves) }

// EdgeCost returns the cost of the edge shared by the pair of idx.
func (g *Generators) EdgeCost(idx int) float64 { return g.edgeCosts[idx/2] }

// MaxNeighbors returns the neighborhood size the registry was built
// with.
func (g *Generators) MaxNeighbors() int { return g.maxNeighbors }

// Heap returns the shared delta-ordered heap.
func (g *Generators) Heap() *Heap { return g.heap }

// UpdateBits returns the per-vertex refresh table.
func (g *Generators) UpdateBits() *UpdateBits { return g.updateBits }

// IndicesInvolving1st returns the indices of the active generators
// whose first vertex is vertex. The slice is owned by the registry.
func (g *Generators) IndicesInvolving1st(vertex int) []int {
	return g.activeIndices1st[vertex]
}

// Timestamp returns the current value of the timestamp generator.
func (g *Generators) Timestamp() uint64 { return g.timestamp }

// IncrementTimestamp advances the timestamp generator.
func (g *Generators) IncrementTimestamp() { g.timestamp++ }

// VertexTimestamps returns the mutable per-vertex timestamp slice the
// operators stamp during descriptor initialization.
func (g *Generators) VertexTimestamps() []uint64 { return g.vertexTimestamps }

// SetActivePercentage retargets the listed vertices to a fraction of
// their neighbor lists and rebuilds the active views of every vertex
// touched by an activation change.
func (g *Generators) SetActivePercentage(percentage []float64, vertices []int) {
	g.verticesInUpdatedMoves.Clear()

	var (
		vertex  int
		num     int
		n       int
		baseIdx int
	)
	for _, vertex = range vertices {
		num = int(math.Round(percentage[vertex] * float64(g.maxNeighbors)))
		if num > len(g.baseIndicesInvolving[vertex]) {
			num = len(g.baseIndicesInvolving[vertex])
		}
		if num == g.currentNumNeighbors[vertex] {
			continue
		}

		if num < g.currentNumNeighbors[vertex] {
			for n = num; n < g.currentNumNeighbors[vertex]; n++ {
				baseIdx = g.baseIndicesInvolving[vertex][n]
				g.setActiveIn(baseIdx, vertex, false)
				g.verticesInUpdatedMoves.Insert(g.moves[baseIdx].first)
				g.verticesInUpdatedMoves.Insert(g.moves[baseIdx].second)
			}
		} else {
			for n = g.currentNumNeighbors[vertex]; n < num; n++ {
				baseIdx = g.baseIndicesInvolving[vertex][n]
				g.setActiveIn(baseIdx, vertex, true)
				g.verticesInUpdatedMoves.Insert(g.moves[baseIdx].first)
				g.verticesInUpdatedMoves.Insert(g.moves[baseIdx].second)
			}
		}

		g.currentNumNeighbors[vertex] = num
	}

	for _, vertex = range g.verticesInUpdatedMoves.Elements() {
		g.rebuildActiveView(vertex)
	}
}

// rebuildActiveView recomputes the (vertex, ·) view by scanning every
// pair of vertex: a pair kept active by the other endpoint must stay in
// the view even when vertex itself dropped it.
func (g *Generators) rebuildActiveView(vertex int) {
	g.uniqueEndpoints.Clear()
	g.uniqueIndices = g.uniqueIndices[:0]

	var (
		idx    int
		second int
	)
	for _, baseIdx := range g.baseIndicesInvolving[vertex] {
		if !g.activeIn1st[baseIdx/2] && !g.activeIn2nd[baseIdx/2] {
			continue
		}

		idx = baseIdx
		if vertex != g.moves[baseIdx].first {
			idx = Twin(baseIdx)
		}

		second = g.moves[idx].second
		if !g.uniqueEndpoints.Contains(second) {
			g.uniqueEndpoints.InsertUnchecked(second)
			g.uniqueIndices = append(g.uniqueIndices, idx)
		}
	}

	g.activeIndices1st[vertex] = append(g.activeIndices1st[vertex][:0], g.uniqueIndices...)
}

// setActiveIn flips the activation of the pair at baseIdx on behalf of
// one of its endpoints.
func (g *Generators) setActiveIn(baseIdx, vertex int, active bool) {
	if vertex == g.moves[baseIdx].first {
		g.activeIn1st[baseIdx/2] = active

		return
	}
	g.activeIn2nd[baseIdx/2] = active
}
