// Package instance - immutable CVRP problem data.
//
// What this package provides:
//
//   - Instance: vertex coordinates, demands, vehicle capacity, Euclidean
//     distance lookup and precomputed per-vertex nearest-neighbor lists.
//   - A CVRPLIB/TSPLIB ".vrp" parser (EUC_2D instances).
//   - A 2-d tree used once, at load time, to build the neighbor lists.
//
// Conventions:
//
//   - Vertices are integer indices in [0, N). Index 0 is the depot,
//     [1, N) are customers. The depot has demand 0.
//   - Costs are symmetric Euclidean distances, optionally rounded to the
//     nearest integer (Options.RoundCosts).
//   - NeighborsOf(i) returns vertices sorted by increasing cost from i,
//     with NeighborsOf(i)[0] == i.
//
// The Instance is read-only after construction and safe to share by
// reference across the whole solver run.
package instance
