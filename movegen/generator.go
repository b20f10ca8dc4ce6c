// Package movegen - move generator descriptor.
package movegen

// Unheaped marks a generator that is not currently stored in the heap.
const Unheaped = -1

// MoveGenerator is a static move descriptor for the vertex pair (i, j).
// It carries the last computed delta and its position in the heap.
type MoveGenerator struct {
	first  int
	second int
	delta  float64

	heapIndex       int
	computedForEjch bool
}

// NewMoveGenerator returns an unheaped descriptor for the pair (i, j).
func NewMoveGenerator(i, j int) *MoveGenerator {
	return &MoveGenerator{first: i, second: j, heapIndex: Unheaped}
}

// FirstVertex returns the vertex being moved.
func (mg *MoveGenerator) FirstVertex() int { return mg.first }

// SecondVertex returns the vertex near which the first one lands.
func (mg *MoveGenerator) SecondVertex() int { return mg.second }

// Delta returns the cached cost change of the move.
func (mg *MoveGenerator) Delta() float64 { return mg.delta }

// SetDelta stores the cost change of the move.
func (mg *MoveGenerator) SetDelta(value float64) { mg.delta = value }

// HeapIndex returns the generator position in the heap, Unheaped when
// the generator is not stored there.
func (mg *MoveGenerator) HeapIndex() int { return mg.heapIndex }

// SetHeapIndex stores the generator position in the heap.
func (mg *MoveGenerator) SetHeapIndex(index int) { mg.heapIndex = index }

// IsComputedForEjch reports whether the ejection-chain search already
// priced this generator during the current descent. The mark is cleared
// when an executed chain touches its vertices or the descent ends.
func (mg *MoveGenerator) IsComputedForEjch() bool { return mg.computedForEjch }

// SetComputedForEjch stores the ejection-chain processing mark.
func (mg *MoveGenerator) SetComputedForEjch(value bool) { mg.computedForEjch = value }

// Twin returns the index of the mirrored generator: (i, j) and (j, i)
// are stored next to each other, so the twin is one XOR away.
func Twin(index int) int { return index ^ 1 }

// Base returns the even index of the pair containing index.
func Base(index int) int { return index &^ 1 }
