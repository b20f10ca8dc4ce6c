// Package solver - iterated local search orchestration.
//
// Design:
//   - Solve builds an initial solution with the savings heuristic,
//     re-decodes it through the giant-tour decoder under the fleet
//     cap, reduces the fleet towards the bin-packing bound, then runs
//     the shaking loop: rewind to the reference, ruin-and-recreate,
//     tiered descent, simulated-annealing acceptance.
//   - Per-vertex gamma values steer the granular neighborhoods: reset
//     to the base on a new best, doubled after too many non-improving
//     visits. Per-vertex omega values steer the ruin intensity,
//     nudged towards the seed value by comparing the shaken cost
//     against a window around the reference cost.
//   - The solution journal carries the whole trajectory: undo rewinds
//     the working solution each iteration, the secondary do list
//     accumulates accepted-but-not-best segments and replays onto the
//     incumbent when a new best appears.
//
// Contracts:
//   - Deterministic for a fixed seed: one random stream drives every
//     random choice of the run.
//   - Budget exhaustion (time or stalled iterations) is not an error;
//     the best solution found so far is returned.
//
// Complexity: per iteration, work is proportional to the shaken region
// and the descent on its vertices, independent of the instance size.
package solver

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/katalvlaran/cvrp/construct"
	"github.com/katalvlaran/cvrp/containers"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/localsearch"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
	"github.com/katalvlaran/cvrp/split"
)

const traceInterval = 2000

// Solve runs the full pipeline on the instance and returns the best
// solution found within the budgets.
func Solve(inst *instance.Instance, opts Options) (*solution.Solution, error) {
	if err := validateOptionsStandalone(opts); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	cacheSize := min(opts.CacheSize, inst.VerticesNum())

	best := solution.NewWithCacheSize(inst, cacheSize)
	err := construct.ClarkeWright(inst, best, construct.Options{Lambda: opts.CWLambda, Neighbors: opts.CWNeighbors})
	if err != nil {
		return nil, err
	}

	if err = redecodeInitial(inst, best, opts); err != nil {
		return nil, err
	}

	gens := movegen.NewGenerators(inst, opts.GranularNeighbors)

	kmin := construct.FirstFitDecreasing(inst)
	if kmin < best.RoutesNum() {
		best, err = construct.RouteMin(inst, best, gens, rng, kmin, opts.RouteMinIterations, opts.Tolerance)
		if err != nil {
			return nil, err
		}
	}

	descent, err := newTieredDescent(inst, gens, rng, opts.Tolerance)
	if err != nil {
		return nil, err
	}

	rr, err := NewRuinAndRecreate(inst, rng)
	if err != nil {
		return nil, err
	}

	initialTemperature := sampledMeanArcCost(inst, rng) * opts.SAInitialFactor
	sa, err := NewSimulatedAnnealing(initialTemperature, initialTemperature*opts.SAFinalFactor, opts.CoreOptIterations, rng)
	if err != nil {
		return nil, err
	}

	neighbor := solution.NewWithCacheSize(inst, cacheSize)
	neighbor.CopyFrom(best)

	var (
		n             = inst.VerticesNum()
		gamma         = make([]float64, n)
		gammaCounter  = make([]int, n)
		gammaVertices = make([]int, 0, n)
		omega         = make([]int, n)
		omegaBase     = max(1, int(math.Ceil(math.Log(float64(n)))))
		v             int
	)
	for v = inst.VerticesBegin(); v < inst.VerticesEnd(); v++ {
		gamma[v] = opts.GammaBase
		omega[v] = omegaBase
		gammaVertices = append(gammaVertices, v)
	}
	gens.SetActivePercentage(gamma, gammaVertices)

	var (
		reference       = neighbor.Cost()
		meanArc         = meanSolutionArcCost(inst, neighbor)
		shakingLB       = meanArc * opts.ShakingLowerBound
		shakingUB       = meanArc * opts.ShakingUpperBound
		svcSizes        containers.Welford
		ruined          []int
		start           = time.Now()
		stalled         int
		walkSeed        int
		seedShake       int
		maxNonImproving int
		improvedBest    bool
		iter            int
	)
	for iter = 0; iter < opts.CoreOptIterations; iter++ {
		if opts.TimeLimit > 0 && time.Since(start) > opts.TimeLimit {
			break
		}
		if opts.StallLimit > 0 && stalled >= opts.StallLimit {
			break
		}

		neighbor.ApplyUndoList1(neighbor)
		neighbor.ClearDoList1()
		neighbor.ClearUndoList1()
		neighbor.ClearSVC()

		walkSeed = rr.Apply(neighbor, omega)

		ruined = ruined[:0]
		for v = neighbor.SVCBegin(); v != neighbor.SVCEnd(); v = neighbor.SVCNext(v) {
			ruined = append(ruined, v)
		}

		descent.Apply(neighbor)

		svcSizes.Update(float64(neighbor.SVCSize()))
		maxNonImproving = int(math.Ceil(opts.Delta * float64(opts.CoreOptIterations) * svcSizes.Mean() / float64(n)))

		if neighbor.Cost() < best.Cost() {
			improvedBest = true
			stalled = 0

			neighbor.ApplyDoList2(best)
			neighbor.ApplyDoList1(best)
			neighbor.ClearDoList2()

			// Intensify around the new best: shrink the touched
			// neighborhoods back to the base.
			gammaVertices = gammaVertices[:0]
			for v = neighbor.SVCBegin(); v != neighbor.SVCEnd(); v = neighbor.SVCNext(v) {
				gamma[v] = opts.GammaBase
				gammaCounter[v] = 0
				gammaVertices = append(gammaVertices, v)
			}
			gens.SetActivePercentage(gamma, gammaVertices)
		} else {
			improvedBest = false
			stalled++

			for v = neighbor.SVCBegin(); v != neighbor.SVCEnd(); v = neighbor.SVCNext(v) {
				gammaCounter[v]++
				if gammaCounter[v] >= maxNonImproving {
					gamma[v] = math.Min(gamma[v]*2, 1)
					gammaCounter[v] = 0
					gammaVertices = append(gammaVertices[:0], v)
					gens.SetActivePercentage(gamma, gammaVertices)
				}
			}
		}

		seedShake = omega[walkSeed]
		switch {
		case neighbor.Cost() > reference+shakingUB:
			for _, v = range ruined {
				if omega[v] > seedShake-1 {
					omega[v]--
				}
			}
		case neighbor.Cost() >= reference && neighbor.Cost() < reference+shakingLB:
			for _, v = range ruined {
				if omega[v] < seedShake+1 {
					omega[v]++
				}
			}
		default:
			for _, v = range ruined {
				if rng.Intn(2) == 1 {
					if omega[v] > seedShake-1 {
						omega[v]--
					}
				} else if omega[v] < seedShake+1 {
					omega[v]++
				}
			}
		}

		if sa.Accept(reference, neighbor.Cost()) {
			if !improvedBest {
				neighbor.AppendDoList1ToDoList2()
			}
			neighbor.ClearDoList1()
			neighbor.ClearUndoList1()

			reference = neighbor.Cost()
			meanArc = meanSolutionArcCost(inst, neighbor)
			shakingLB = meanArc * opts.ShakingLowerBound
			shakingUB = meanArc * opts.ShakingUpperBound
		}

		sa.Cool()

		if opts.Trace != nil && (iter+1)%traceInterval == 0 {
			fmt.Fprintf(opts.Trace, "iter %d/%d best %.2f routes %d temp %.4f\n",
				iter+1, opts.CoreOptIterations, best.Cost(), best.RoutesNum(), sa.Temperature())
		}
	}

	if opts.Trace != nil {
		fmt.Fprintf(opts.Trace, "done: best %.2f routes %d after %d iterations\n",
			best.Cost(), best.RoutesNum(), iter)
	}

	return best, nil
}

// redecodeInitial flattens the constructed solution into a giant tour
// and re-decodes it under the fleet cap, keeping the decode only when
// it is load feasible and cheaper.
func redecodeInitial(inst *instance.Instance, best *solution.Solution, opts Options) error {
	splitOpts := split.DefaultOptions(inst)
	if opts.MaxRoutes > 0 {
		splitOpts.MaxRoutes = opts.MaxRoutes
	}

	sp, err := split.New(inst, splitOpts)
	if err != nil {
		return err
	}

	var (
		tour  = make([]int, 0, inst.CustomersNum())
		route int
		c     int
	)
	for route = best.FirstRoute(); route != best.EndRoute(); route = best.NextRoute(route) {
		for c = best.FirstCustomer(route); c != inst.Depot(); c = best.NextVertex(c) {
			tour = append(tour, c)
		}
	}

	decoded := solution.New(inst)
	if err = sp.Decode(tour, decoded); err != nil {
		// The tour stays servable by the construction solution.
		return nil
	}
	if decoded.LoadFeasible() && decoded.Cost() < best.Cost() {
		best.CopyFrom(decoded)
	}

	return nil
}

// newTieredDescent builds the two descent tiers of the core loop: the
// full pairwise operator set, then the ejection chain.
func newTieredDescent(inst *instance.Instance, gens *movegen.Generators, rng *rand.Rand, tolerance float64) (*localsearch.Composer, error) {
	opts := localsearch.Options{Tolerance: tolerance}

	var (
		kinds     = localsearch.AllKinds()
		operators = make([]*localsearch.Operator, 0, len(kinds))
		op        *localsearch.Operator
		err       error
	)
	for _, kind := range kinds {
		if kind == localsearch.EjectionChain {
			continue
		}

		op, err = localsearch.New(kind, inst, gens, opts)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}

	tier0, err := localsearch.NewRVND(operators, rng)
	if err != nil {
		return nil, err
	}

	chain, err := localsearch.New(localsearch.EjectionChain, inst, gens, opts)
	if err != nil {
		return nil, err
	}
	tier1, err := localsearch.NewRVND([]*localsearch.Operator{chain}, rng)
	if err != nil {
		return nil, err
	}

	return localsearch.NewComposer([]*localsearch.RVND{tier0, tier1}, tolerance)
}

// sampledMeanArcCost estimates the arc-cost scale by sampling |V|
// random arcs.
func sampledMeanArcCost(inst *instance.Instance, rng *rand.Rand) float64 {
	var (
		w containers.Welford
		i int
	)
	for i = 0; i < inst.VerticesNum(); i++ {
		w.Update(inst.Cost(
			inst.VerticesBegin()+rng.Intn(inst.VerticesNum()),
			inst.VerticesBegin()+rng.Intn(inst.VerticesNum()),
		))
	}

	return w.Mean()
}

// meanSolutionArcCost is cost / (N + 2*routes): every customer
// contributes one incoming arc and every route two depot arcs.
func meanSolutionArcCost(inst *instance.Instance, s *solution.Solution) float64 {
	return s.Cost() / (float64(inst.CustomersNum()) + 2*float64(s.RoutesNum()))
}
