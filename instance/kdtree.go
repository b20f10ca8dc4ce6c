// Package instance - 2-d tree for nearest-neighbor precomputation.
//
// Design:
//   - Classic bounding-box k-d tree over the vertex coordinates, depth
//     alternating between the x and y axes, median-split.
//   - k-nearest queries maintain a fixed-capacity max-heap of candidates;
//     subtrees are pruned when their box cannot intersect the current
//     candidate ball, and the search stops early once the ball lies
//     entirely inside the visited box.
//   - Used exactly once per run, at instance construction, to fill the
//     per-vertex neighbor lists. Never queried afterwards.
//
// Contracts:
//   - Queries use squared distances internally; ordering is the same as
//     for true Euclidean distances.
//   - A query at a stored point always reports that point first.
//
// Complexity:
//   - Build: O(n log² n) time, O(n) space.
//   - One k-nearest query: O(log n) average, O(n) worst case.
package instance

import (
	"math"
	"sort"
)

type kdPoint struct {
	index int
	x, y  float64
}

type kdNode struct {
	cutDim     int
	pointIndex int
	left       *kdNode
	right      *kdNode
	loBound    [2]float64
	hiBound    [2]float64
}

type kdTree struct {
	points []kdPoint
	root   *kdNode
}

// buildNeighborLists returns, for each vertex i, its k nearest vertices
// sorted by increasing distance; the list starts with i itself.
func buildNeighborLists(xcoords, ycoords []float64, k int) [][]int {
	tree := newKDTree(xcoords, ycoords)

	var (
		n     = len(xcoords)
		lists = make([][]int, n)
		i     int
	)
	for i = 0; i < n; i++ {
		lists[i] = tree.nearest(xcoords[i], ycoords[i], k)
	}

	return lists
}

func newKDTree(xcoords, ycoords []float64) *kdTree {
	t := &kdTree{points: make([]kdPoint, len(xcoords))}

	lo := [2]float64{math.MaxFloat64, math.MaxFloat64}
	hi := [2]float64{-math.MaxFloat64, -math.MaxFloat64}

	var i int
	for i = 0; i < len(xcoords); i++ {
		t.points[i] = kdPoint{index: i, x: xcoords[i], y: ycoords[i]}
		lo[0] = math.Min(lo[0], xcoords[i])
		lo[1] = math.Min(lo[1], ycoords[i])
		hi[0] = math.Max(hi[0], xcoords[i])
		hi[1] = math.Max(hi[1], ycoords[i])
	}
	t.root = t.build(0, 0, len(t.points), lo, hi)

	return t
}

func coord(p kdPoint, dim int) float64 {
	if dim == 0 {
		return p.x
	}

	return p.y
}

func (t *kdTree) build(depth, begin, end int, lo, hi [2]float64) *kdNode {
	dim := depth % 2
	node := &kdNode{cutDim: dim, loBound: lo, hiBound: hi}

	if end-begin <= 1 {
		node.pointIndex = begin

		return node
	}

	median := (begin + end) / 2
	seg := t.points[begin:end]
	sort.Slice(seg, func(a, b int) bool {
		if ca, cb := coord(seg[a], dim), coord(seg[b], dim); ca != cb {
			return ca < cb
		}
		// Tie-break on index to keep the build deterministic.
		return seg[a].index < seg[b].index
	})
	node.pointIndex = median

	cut := coord(t.points[median], dim)

	if median-begin > 0 {
		nextHi := hi
		nextHi[dim] = cut
		node.left = t.build(depth+1, begin, median, lo, nextHi)
	}
	if end-median > 1 {
		nextLo := lo
		nextLo[dim] = cut
		node.right = t.build(depth+1, median+1, end, nextLo, hi)
	}

	return node
}

// candHeap is a max-heap over candidate distances, capped at k entries.
type candHeap struct {
	idx  []int
	dist []float64
}

func (h *candHeap) push(idx int, dist float64) {
	h.idx = append(h.idx, idx)
	h.dist = append(h.dist, dist)
	var i, p int
	i = len(h.idx) - 1
	for i > 0 {
		p = (i - 1) / 2
		if h.dist[p] >= h.dist[i] {
			break
		}
		h.idx[p], h.idx[i] = h.idx[i], h.idx[p]
		h.dist[p], h.dist[i] = h.dist[i], h.dist[p]
		i = p
	}
}

func (h *candHeap) pop() {
	last := len(h.idx) - 1
	h.idx[0], h.dist[0] = h.idx[last], h.dist[last]
	h.idx = h.idx[:last]
	h.dist = h.dist[:last]

	var i, l, r, largest int
	for {
		l, r = 2*i+1, 2*i+2
		largest = i
		if l < last && h.dist[l] > h.dist[largest] {
			largest = l
		}
		if r < last && h.dist[r] > h.dist[largest] {
			largest = r
		}
		if largest == i {
			return
		}
		h.idx[i], h.idx[largest] = h.idx[largest], h.idx[i]
		h.dist[i], h.dist[largest] = h.dist[largest], h.dist[i]
		i = largest
	}
}

// nearest returns the k stored points closest to (x, y), nearest first.
func (t *kdTree) nearest(x, y float64, k int) []int {
	if k > len(t.points) {
		k = len(t.points)
	}

	heap := &candHeap{
		idx:  make([]int, 0, k+1),
		dist: make([]float64, 0, k+1),
	}
	t.search(t.root, heap, [2]float64{x, y}, k)

	out := make([]int, len(heap.idx))
	var at int
	for at = len(out) - 1; at >= 0; at-- {
		out[at] = t.points[heap.idx[0]].index
		heap.pop()
	}

	return out
}

func sqDist(a, b [2]float64) float64 {
	return (a[0]-b[0])*(a[0]-b[0]) + (a[1]-b[1])*(a[1]-b[1])
}

// boundsOverlapBall reports whether the node box can contain a point
// closer than dist (squared) to the query.
func boundsOverlapBall(point [2]float64, dist float64, node *kdNode) bool {
	var sum, d float64
	var i int
	for i = 0; i < 2; i++ {
		if point[i] < node.loBound[i] {
			d = point[i] - node.loBound[i]
			sum += d * d
			if sum > dist {
				return false
			}
		} else if point[i] > node.hiBound[i] {
			d = point[i] - node.hiBound[i]
			sum += d * d
			if sum > dist {
				return false
			}
		}
	}

	return true
}

// ballWithinBounds reports whether the candidate ball lies entirely
// inside the node box, allowing the search to stop.
func ballWithinBounds(point [2]float64, dist float64, node *kdNode) bool {
	var d float64
	var i int
	for i = 0; i < 2; i++ {
		d = point[i] - node.loBound[i]
		if d*d <= dist {
			return false
		}
		d = point[i] - node.hiBound[i]
		if d*d <= dist {
			return false
		}
	}

	return true
}

func (t *kdTree) search(node *kdNode, heap *candHeap, point [2]float64, k int) bool {
	p := t.points[node.pointIndex]
	curr := sqDist(point, [2]float64{p.x, p.y})

	if len(heap.idx) < k {
		heap.push(node.pointIndex, curr)
	} else if curr < heap.dist[0] {
		heap.pop()
		heap.push(node.pointIndex, curr)
	}

	descendLeft := point[node.cutDim] < coord(p, node.cutDim)
	if descendLeft {
		if node.left != nil && t.search(node.left, heap, point, k) {
			return true
		}
	} else {
		if node.right != nil && t.search(node.right, heap, point, k) {
			return true
		}
	}

	dist := math.MaxFloat64
	if len(heap.idx) == k {
		dist = heap.dist[0]
	}

	if descendLeft {
		if node.right != nil && boundsOverlapBall(point, dist, node.right) {
			if t.search(node.right, heap, point, k) {
				return true
			}
		}
	} else {
		if node.left != nil && boundsOverlapBall(point, dist, node.left) {
			if t.search(node.left, heap, point, k) {
				return true
			}
		}
	}

	if len(heap.idx) == k {
		dist = heap.dist[0]
	}

	return ballWithinBounds(point, dist, node)
}
