// Package localsearch - granular neighborhood descent over CVRP solutions.
//
// Design:
//   - A single engine drives every operator: it seeds move-generator
//     deltas from the solution's recently-modified vertices, keeps the
//     improving ones in the shared heap, and scans the heap in storage
//     order, executing the first feasible move and refreshing only the
//     generators touched by it.
//   - Operators plug into the engine as a small hook set (delta,
//     feasibility, execution); symmetric operators price one generator
//     per vertex pair, asymmetric ones price both orientations.
//   - RVND shuffles a set of operators and applies each once; Composer
//     chains RVND tiers and falls back to the first tier whenever a
//     later tier finds an improvement.
//
// Contracts:
//   - Apply only touches vertices reachable from the solution's SVC;
//     callers decide when to clear the cache between descents.
//   - An executed move must leave the solution load-feasible; deltas of
//     generators outside the refreshed neighborhood are trusted as-is.
package localsearch
