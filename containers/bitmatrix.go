// Package containers - row-addressable set matrix.
//
// Each row is an independent small set of integers. Rows can be reset
// or copied over each other without touching the rest of the matrix,
// which is what chain-building searches need for their per-node
// forbidden markers.
package containers

// BitMatrix holds one integer set per row.
type BitMatrix struct {
	rows []map[int]struct{}
}

// NewBitMatrix returns a matrix with the given number of empty rows.
func NewBitMatrix(rows int) *BitMatrix {
	m := &BitMatrix{rows: make([]map[int]struct{}, rows)}
	var r int
	for r = 0; r < rows; r++ {
		m.rows[r] = make(map[int]struct{})
	}

	return m
}

// Reset empties the row.
func (m *BitMatrix) Reset(row int) {
	clear(m.rows[row])
}

// Set inserts entry into the row.
func (m *BitMatrix) Set(row, entry int) {
	m.rows[row][entry] = struct{}{}
}

// IsSet reports whether entry is in the row.
func (m *BitMatrix) IsSet(row, entry int) bool {
	_, ok := m.rows[row][entry]

	return ok
}

// Entries appends the elements of the row to dst and returns the
// extended slice. Order is unspecified.
func (m *BitMatrix) Entries(row int, dst []int) []int {
	for entry := range m.rows[row] {
		dst = append(dst, entry)
	}

	return dst
}

// Overwrite replaces the destination row with a copy of the source row.
func (m *BitMatrix) Overwrite(srcRow, dstRow int) {
	dst := m.rows[dstRow]
	clear(dst)
	for entry := range m.rows[srcRow] {
		dst[entry] = struct{}{}
	}
}
