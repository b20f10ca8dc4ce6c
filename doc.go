// Package cvrp is a fast, deterministic solver for the Capacitated
// Vehicle Routing Problem built around an incremental local-search kernel.
//
// 🚀 What is cvrp?
//
//	A single-process, single-threaded metaheuristic engine that combines:
//		• Clarke–Wright savings for bootstrap solutions
//		• A granular, heap-driven local search over 23 neighborhood operators
//		• Ruin-and-recreate shaking with per-vertex adaptive intensity
//		• Simulated-annealing acceptance with geometric cooling
//		• A linear-time Split decoder for giant tours
//
// ✨ Why choose cvrp?
//
//   - Deterministic – same seed ⇒ identical routes, across platforms
//   - Allocation-conscious – no allocation inside operator cycles
//   - Incremental – localized updates via a recently-modified vertex cache
//   - Pure Go – no cgo
//
// Under the hood, everything is organized in flat subpackages:
//
//	instance/    — immutable problem data, CVRPLIB parser, neighbor lists
//	solution/    — mutable route representation, journaling, route pool
//	movegen/     — sparse candidate-move registry with re-keying heap
//	localsearch/ — operator family, RVND and VND composition
//	split/       — giant-tour → routes DP decoders
//	construct/   — savings construction and route minimization
//	solver/      — simulated annealing, ruin-and-recreate, orchestration
//	cmd/cvrp/    — command-line entrypoint
//
// Dive into README-style doc.go files inside each package for contracts,
// complexity notes and usage examples.
//
//	go get github.com/katalvlaran/cvrp
package cvrp
