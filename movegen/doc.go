// Package movegen provides the granular move-generator registry used by
// the local search. A move generator is a vertex pair (i, j) describing
// "move i next to j"; generators are created once per instance for the
// k nearest neighbors of every vertex and later activated in per-vertex
// fractions, so the search only scans pairs whose edge is short enough
// to be promising.
//
// Generators come in twins: index idx holds (i, j) and index idx^1
// holds (j, i). Both share one edge cost stored once per pair. The
// package also ships the delta-ordered binary heap the operators drain
// and the timestamp/update-bit bookkeeping they use to avoid
// recomputing deltas for untouched vertices.
package movegen
