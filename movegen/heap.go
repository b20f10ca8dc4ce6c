// Package movegen - delta-ordered binary heap of move generators.
//
// Design:
//   - Min-heap on Delta with the heap position stored inside each
//     generator, so Remove and ChangeValue address entries directly.
//   - Spy(n) exposes the backing array for the rough best-improvement
//     scan, which walks the heap in storage order instead of popping.
//
// Contracts:
//   - A generator outside the heap has HeapIndex() == Unheaped.
//   - Insert assumes the generator is not already stored.
package movegen

// Heap is a binary min-heap over move-generator deltas.
type Heap struct {
	entries []*MoveGenerator
}

// NewHeap returns an empty heap.
func NewHeap() *Heap { return &Heap{} }

// Reset unmarks every stored generator and empties the heap.
func (h *Heap) Reset() {
	for _, mg := range h.entries {
		mg.SetHeapIndex(Unheaped)
	}
	h.entries = h.entries[:0]
}

// IsEmpty reports whether the heap has no entries.
func (h *Heap) IsEmpty() bool { return len(h.entries) == 0 }

// Size returns the number of stored generators.
func (h *Heap) Size() int { return len(h.entries) }

// Insert adds mg and sifts it into place.
func (h *Heap) Insert(mg *MoveGenerator) {
	hindex := len(h.entries)
	mg.SetHeapIndex(hindex)
	h.entries = append(h.entries, mg)
	h.upsift(hindex)
}

// Get removes and returns the generator with the smallest delta.
func (h *Heap) Get() *MoveGenerator {
	head := h.entries[0]
	head.SetHeapIndex(Unheaped)

	last := len(h.entries) - 1
	if last == 0 {
		h.entries = h.entries[:0]

		return head
	}

	h.entries[0] = h.entries[last]
	h.entries[0].SetHeapIndex(0)
	h.entries = h.entries[:last]
	h.heapify(0)

	return head
}

// Remove drops the generator stored at hindex.
func (h *Heap) Remove(hindex int) {
	last := len(h.entries) - 1
	if hindex < last {
		moved := h.entries[last]
		h.entries = h.entries[:last]
		h.replace(hindex, moved)

		return
	}

	h.entries[hindex].SetHeapIndex(Unheaped)
	h.entries = h.entries[:last]
}

// ChangeValue rewrites the delta of the generator stored at hindex and
// restores the heap order.
func (h *Heap) ChangeValue(hindex int, delta float64) {
	diff := h.entries[hindex].Delta() - delta
	h.entries[hindex].SetDelta(delta)
	if diff > 0 {
		h.upsift(hindex)
	} else if diff < 0 {
		h.heapify(hindex)
	}
}

// Spy returns the generator stored at hindex without touching the heap.
func (h *Heap) Spy(hindex int) *MoveGenerator { return h.entries[hindex] }

// replace overwrites the entry at hindex with mg and sifts it into
// place; the previous entry is marked unheaped.
func (h *Heap) replace(hindex int, mg *MoveGenerator) {
	diff := h.entries[hindex].Delta() - mg.Delta()

	h.entries[hindex].SetHeapIndex(Unheaped)
	mg.SetHeapIndex(hindex)
	h.entries[hindex] = mg

	if diff > 0 {
		h.upsift(hindex)
	} else if diff < 0 {
		h.heapify(hindex)
	}
}

// minChild returns the index of the smallest entry among the children
// of hindex that is also smaller than elem, or Unheaped.
func (h *Heap) minChild(elem *MoveGenerator, hindex int) int {
	var (
		size     = len(h.entries)
		smallest = 2*hindex + 1
		right    = 2*hindex + 2
	)

	if right < size && h.entries[right].Delta() < h.entries[smallest].Delta() {
		smallest = right
	}
	if smallest < size && h.entries[smallest].Delta() < elem.Delta() {
		return smallest
	}

	return Unheaped
}

func (h *Heap) heapify(hindex int) {
	smallest := h.minChild(h.entries[hindex], hindex)
	if smallest == Unheaped {
		return
	}

	elem := h.entries[hindex]
	for smallest != Unheaped {
		h.entries[smallest].SetHeapIndex(hindex)
		h.entries[hindex] = h.entries[smallest]
		hindex = smallest
		smallest = h.minChild(elem, hindex)
	}

	elem.SetHeapIndex(hindex)
	h.entries[hindex] = elem
}

func (h *Heap) upsift(hindex int) {
	if hindex == 0 {
		return
	}

	elem := h.entries[hindex]
	for hindex > 0 {
		parent := (hindex - 1) / 2
		if elem.Delta() >= h.entries[parent].Delta() {
			break
		}
		h.entries[parent].SetHeapIndex(hindex)
		h.entries[hindex] = h.entries[parent]
		hindex = parent
	}

	elem.SetHeapIndex(hindex)
	h.entries[hindex] = elem
}
