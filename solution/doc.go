// Package solution - mutable CVRP solution representation.
//
// A solution is a set of routes, each visiting the depot first and last.
// Customers inside a route form a doubly-linked list, and the routes
// themselves form a second doubly-linked list anchored at the depot.
// Every structural operation updates the solution cost incrementally by
// the exact delta of the arcs it touches, so reading the cost is O(1).
//
// Conventions:
//   - Vertex 0 is the depot; DummyVertex (-1) terminates customer lists.
//   - Route index 0 is DummyRoute, the "no route" sentinel; real routes
//     use indices 1..VerticesNum.
//   - Empty routes must be removed immediately; no operation tolerates
//     them as input.
//
// Three auxiliary structures ride along with the linked lists:
//   - the SVC, a bounded LRU set of recently modified vertices, which
//     downstream consumers use to localize their updates;
//   - the do/undo journal, which records every structural operation so a
//     working copy can be replayed onto another solution or rolled back
//     without a deep copy;
//   - per-customer cumulative loads, refreshed lazily per route.
package solution
