package solver_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cvrp/construct"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/solution"
	"github.com/katalvlaran/cvrp/solver"
)

func lineInstance(t *testing.T, customers, capacity int) *instance.Instance {
	t.Helper()

	data := instance.Data{Capacity: capacity}
	var i int
	for i = 0; i <= customers; i++ {
		data.XCoords = append(data.XCoords, float64(i))
		data.YCoords = append(data.YCoords, 0)
		data.Demands = append(data.Demands, 1)
	}
	data.Demands[0] = 0

	inst, err := instance.New(data, instance.Options{RoundCosts: false})
	require.NoError(t, err)

	return inst
}

func pointsInstance(t *testing.T, xs, ys []float64, demands []int, capacity int) *instance.Instance {
	t.Helper()

	data := instance.Data{
		XCoords:  append([]float64{0}, xs...),
		YCoords:  append([]float64{0}, ys...),
		Demands:  append([]int{0}, demands...),
		Capacity: capacity,
	}

	inst, err := instance.New(data, instance.Options{RoundCosts: false})
	require.NoError(t, err)

	return inst
}

func requireComplete(t *testing.T, inst *instance.Instance, s *solution.Solution) {
	t.Helper()

	require.NoError(t, s.Validate())
	require.True(t, s.LoadFeasible())
	var c int
	for c = inst.CustomersBegin(); c < inst.CustomersEnd(); c++ {
		require.True(t, s.IsCustomerInSolution(c))
	}
}

func TestSimulatedAnnealing_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := solver.NewSimulatedAnnealing(1, 0.1, 10, nil)
	require.ErrorIs(t, err, solver.ErrNilRNG)

	_, err = solver.NewSimulatedAnnealing(0, 0.1, 10, rng)
	require.ErrorIs(t, err, solver.ErrInvalidAnnealing)

	_, err = solver.NewSimulatedAnnealing(1, 2, 10, rng)
	require.ErrorIs(t, err, solver.ErrInvalidAnnealing)

	_, err = solver.NewSimulatedAnnealing(1, 0.1, 0, rng)
	require.ErrorIs(t, err, solver.ErrInvalidIterations)
}

func TestSimulatedAnnealing_AcceptAndCool(t *testing.T) {
	sa, err := solver.NewSimulatedAnnealing(1, 0.01, 2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// Improvements are always accepted: the random slack is
	// non-negative.
	var i int
	for i = 0; i < 100; i++ {
		require.True(t, sa.Accept(10, 9.99))
	}

	require.Equal(t, 1.0, sa.Temperature())
	sa.Cool()
	sa.Cool()
	require.InDelta(t, 0.01, sa.Temperature(), 1e-12)
}

func TestRuinAndRecreate_Errors(t *testing.T) {
	inst := lineInstance(t, 4, 4)

	_, err := solver.NewRuinAndRecreate(inst, nil)
	require.ErrorIs(t, err, solver.ErrNilRNG)
}

func TestRuinAndRecreate_KeepsSolutionComplete(t *testing.T) {
	inst := lineInstance(t, 6, 3)
	s := solution.New(inst)
	require.NoError(t, construct.ClarkeWright(inst, s, construct.DefaultOptions()))

	rng := rand.New(rand.NewSource(1))
	rr, err := solver.NewRuinAndRecreate(inst, rng)
	require.NoError(t, err)

	omega := make([]int, inst.VerticesNum())
	var v int
	for v = range omega {
		omega[v] = 2
	}

	var i, seed int
	for i = 0; i < 25; i++ {
		seed = rr.Apply(s, omega)
		require.GreaterOrEqual(t, seed, inst.CustomersBegin())
		require.Less(t, seed, inst.CustomersEnd())
		requireComplete(t, inst, s)
	}
}

func TestSolve_Errors(t *testing.T) {
	inst := lineInstance(t, 4, 4)

	opts := solver.DefaultOptions()
	opts.CoreOptIterations = 0
	_, err := solver.Solve(inst, opts)
	require.ErrorIs(t, err, solver.ErrInvalidIterations)

	opts = solver.DefaultOptions()
	opts.GammaBase = 2
	_, err = solver.Solve(inst, opts)
	require.ErrorIs(t, err, solver.ErrInvalidGamma)

	opts = solver.DefaultOptions()
	opts.ShakingLowerBound = 1
	opts.ShakingUpperBound = 0.5
	_, err = solver.Solve(inst, opts)
	require.ErrorIs(t, err, solver.ErrInvalidShaking)
}

func testOptions() solver.Options {
	opts := solver.DefaultOptions()
	opts.Seed = 1
	opts.CoreOptIterations = 50
	opts.RouteMinIterations = 50

	return opts
}

func TestSolve_LineOptimum(t *testing.T) {
	inst := lineInstance(t, 5, 10)

	best, err := solver.Solve(inst, testOptions())
	require.NoError(t, err)

	requireComplete(t, inst, best)
	require.Equal(t, 1, best.RoutesNum())
	require.Equal(t, 10.0, best.Cost())
}

func TestSolve_CapacityBoundFleet(t *testing.T) {
	inst := lineInstance(t, 4, 2)

	best, err := solver.Solve(inst, testOptions())
	require.NoError(t, err)

	requireComplete(t, inst, best)
	require.Equal(t, 2, best.RoutesNum())
	require.Equal(t, 12.0, best.Cost())
}

func TestSolve_SquareSingleRoute(t *testing.T) {
	inst := pointsInstance(t,
		[]float64{1, 0, -1, 0},
		[]float64{0, 1, 0, -1},
		[]int{1, 1, 1, 1}, 4)

	best, err := solver.Solve(inst, testOptions())
	require.NoError(t, err)

	requireComplete(t, inst, best)
	require.Equal(t, 1, best.RoutesNum())
	// The polygon-order tour costs 2 + 3*sqrt(2).
	require.LessOrEqual(t, best.Cost(), 2+3*math.Sqrt2+1e-9)
}

func TestSolve_TwoClustersTwoRoutes(t *testing.T) {
	inst := pointsInstance(t,
		[]float64{10, 11, 10, -10, -11, -10},
		[]float64{0, 0, 1, 0, 0, 1},
		[]int{5, 5, 5, 5, 5, 5}, 15)

	best, err := solver.Solve(inst, testOptions())
	require.NoError(t, err)

	requireComplete(t, inst, best)
	require.Equal(t, 2, best.RoutesNum())
	require.Less(t, best.Cost(), 46.0)
}

func TestSolve_DeterministicBySeed(t *testing.T) {
	inst := lineInstance(t, 6, 3)

	first, err := solver.Solve(inst, testOptions())
	require.NoError(t, err)
	second, err := solver.Solve(inst, testOptions())
	require.NoError(t, err)

	require.Equal(t, first.Cost(), second.Cost())
	require.Equal(t, first.RoutesNum(), second.RoutesNum())
	require.True(t, first.Equal(second))
}

func TestSolve_StallLimitStopsEarly(t *testing.T) {
	inst := lineInstance(t, 5, 10)

	opts := testOptions()
	opts.CoreOptIterations = 10000
	opts.StallLimit = 3

	best, err := solver.Solve(inst, opts)
	require.NoError(t, err)
	requireComplete(t, inst, best)
	require.Equal(t, 10.0, best.Cost())
}
