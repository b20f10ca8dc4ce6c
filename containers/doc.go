// Package containers provides small allocation-conscious collections
// shared by the search components: a sparse integer set with O(1)
// membership and O(size) clearing, a per-row bit matrix for pairwise
// forbidden markers, and a running-mean accumulator.
package containers
