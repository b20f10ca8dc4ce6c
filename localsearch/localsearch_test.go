package localsearch_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/localsearch"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// newInstance places the depot at xs[0] and customer i at xs[i] on the
// x axis, so every arc cost is an exact integer in float64.
func newInstance(t *testing.T, xs []float64, demands []int, capacity int) *instance.Instance {
	t.Helper()

	data := instance.Data{
		XCoords:  xs,
		YCoords:  make([]float64, len(xs)),
		Demands:  demands,
		Capacity: capacity,
	}

	inst, err := instance.New(data, instance.Options{RoundCosts: false})
	require.NoError(t, err)

	return inst
}

func lineInstance(t *testing.T, customers, capacity int) *instance.Instance {
	t.Helper()

	xs := make([]float64, customers+1)
	demands := make([]int, customers+1)
	var i int
	for i = 1; i <= customers; i++ {
		xs[i] = float64(i)
		demands[i] = 1
	}

	return newInstance(t, xs, demands, capacity)
}

// fullGenerators activates every neighbor of every vertex.
func fullGenerators(inst *instance.Instance) *movegen.Generators {
	gens := movegen.NewGenerators(inst, inst.VerticesNum())

	var (
		percentage = make([]float64, inst.VerticesNum())
		vertices   = make([]int, 0, inst.VerticesNum())
		v          int
	)
	for v = inst.VerticesBegin(); v < inst.VerticesEnd(); v++ {
		percentage[v] = 1
		vertices = append(vertices, v)
	}
	gens.SetActivePercentage(percentage, vertices)

	return gens
}

func buildRoute(s *solution.Solution, customers ...int) int {
	route := s.BuildOneCustomerRoute(customers[0])
	for _, c := range customers[1:] {
		s.InsertVertexBefore(route, 0, c)
	}

	return route
}

func newOperator(t *testing.T, kind localsearch.Kind, inst *instance.Instance, gens *movegen.Generators) *localsearch.Operator {
	t.Helper()

	op, err := localsearch.New(kind, inst, gens, localsearch.DefaultOptions())
	require.NoError(t, err)

	return op
}

func TestNew_Errors(t *testing.T) {
	inst := lineInstance(t, 3, 10)
	gens := fullGenerators(inst)

	_, err := localsearch.New(localsearch.Kind(99), inst, gens, localsearch.DefaultOptions())
	require.ErrorIs(t, err, localsearch.ErrUnknownKind)

	_, err = localsearch.New(localsearch.Relocate1, inst, gens, localsearch.Options{Tolerance: -1})
	require.ErrorIs(t, err, localsearch.ErrNegativeTolerance)

	_, err = localsearch.New(localsearch.EjectionChain, inst, gens, localsearch.Options{AllowPartial: true})
	require.ErrorIs(t, err, localsearch.ErrPartialUnsupported)
}

func TestNew_AllKinds(t *testing.T) {
	inst := lineInstance(t, 4, 10)
	gens := fullGenerators(inst)

	kinds := localsearch.AllKinds()
	require.Len(t, kinds, 23)

	for _, kind := range kinds {
		op, err := localsearch.New(kind, inst, gens, localsearch.DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, kind, op.Kind())
		require.NotEqual(t, "unknown", op.Name())
	}
	require.Equal(t, "unknown", localsearch.Kind(99).String())
}

func TestRelocate_SingleRoute(t *testing.T) {
	inst := lineInstance(t, 3, 10)
	gens := fullGenerators(inst)
	s := solution.New(inst)

	buildRoute(s, 2, 1, 3)
	require.Equal(t, 8.0, s.Cost())

	op := newOperator(t, localsearch.Relocate1, inst, gens)
	require.True(t, op.Apply(s))
	require.Equal(t, 6.0, s.Cost())
	require.NoError(t, s.Validate())

	require.False(t, op.Apply(s))
	require.Equal(t, 6.0, s.Cost())
}

func TestTwoOpt_UncrossesRoute(t *testing.T) {
	inst := lineInstance(t, 3, 10)
	gens := fullGenerators(inst)
	s := solution.New(inst)

	buildRoute(s, 2, 1, 3)
	require.Equal(t, 8.0, s.Cost())

	op := newOperator(t, localsearch.TwoOpt, inst, gens)
	require.True(t, op.Apply(s))
	require.Equal(t, 6.0, s.Cost())
	require.NoError(t, s.Validate())

	require.False(t, op.Apply(s))
}

func TestSwap_ClustersRoutes(t *testing.T) {
	// Two clusters, one customer of each stranded in the wrong route.
	inst := newInstance(t, []float64{0, 1, 2, 10, 11}, []int{0, 1, 1, 1, 1}, 10)
	gens := fullGenerators(inst)
	s := solution.New(inst)

	buildRoute(s, 1, 3)
	buildRoute(s, 2, 4)
	require.Equal(t, 42.0, s.Cost())

	op := newOperator(t, localsearch.Swap11, inst, gens)
	require.True(t, op.Apply(s))
	require.Equal(t, 26.0, s.Cost())
	require.NoError(t, s.Validate())

	require.False(t, op.Apply(s))
}

func TestTailsExchange_UntanglesRoutes(t *testing.T) {
	inst := lineInstance(t, 4, 2)
	gens := fullGenerators(inst)
	s := solution.New(inst)

	buildRoute(s, 1, 4)
	buildRoute(s, 3, 2)
	require.Equal(t, 14.0, s.Cost())

	op := newOperator(t, localsearch.TailsExchange, inst, gens)
	require.True(t, op.Apply(s))
	require.Equal(t, 12.0, s.Cost())
	require.NoError(t, s.Validate())
	require.True(t, s.LoadFeasible())

	require.False(t, op.Apply(s))
}

func TestSplitExchange_UntanglesRoutes(t *testing.T) {
	inst := lineInstance(t, 4, 2)
	gens := fullGenerators(inst)
	s := solution.New(inst)

	buildRoute(s, 1, 3)
	buildRoute(s, 2, 4)
	require.Equal(t, 14.0, s.Cost())

	op := newOperator(t, localsearch.SplitExchange, inst, gens)
	require.True(t, op.Apply(s))
	require.Equal(t, 12.0, s.Cost())
	require.NoError(t, s.Validate())
	require.True(t, s.LoadFeasible())

	require.False(t, op.Apply(s))
}

func TestEjectionChain_IntraRoute(t *testing.T) {
	inst := lineInstance(t, 3, 10)
	gens := fullGenerators(inst)
	s := solution.New(inst)

	buildRoute(s, 2, 1, 3)
	require.Equal(t, 8.0, s.Cost())

	op := newOperator(t, localsearch.EjectionChain, inst, gens)
	require.True(t, op.Apply(s))
	require.Equal(t, 6.0, s.Cost())
	require.NoError(t, s.Validate())

	require.False(t, op.Apply(s))
}

func TestEjectionChain_RepairsOverload(t *testing.T) {
	// The near-full route of customer 2 cannot absorb customer 3
	// directly; ejecting 2 towards customer 4 makes room.
	inst := newInstance(t, []float64{0, 1, 5, 6, 4}, []int{0, 2, 9, 8, 1}, 10)
	gens := fullGenerators(inst)
	s := solution.New(inst)

	buildRoute(s, 2)
	buildRoute(s, 1, 3)
	buildRoute(s, 4)
	require.Equal(t, 30.0, s.Cost())

	op := newOperator(t, localsearch.EjectionChain, inst, gens)
	before := s.Cost()
	require.True(t, op.Apply(s))
	require.Less(t, s.Cost(), before)
	require.NoError(t, s.Validate())
	require.True(t, s.LoadFeasible())

	require.False(t, op.Apply(s))
}

func TestOperators_PartialSolution(t *testing.T) {
	inst := lineInstance(t, 5, 10)
	gens := fullGenerators(inst)
	s := solution.New(inst)

	buildRoute(s, 3, 1)
	require.False(t, s.IsCustomerInSolution(2))

	opts := localsearch.DefaultOptions()
	opts.AllowPartial = true

	for _, kind := range []localsearch.Kind{localsearch.Relocate1, localsearch.Swap11, localsearch.TwoOpt} {
		op, err := localsearch.New(kind, inst, gens, opts)
		require.NoError(t, err)
		op.Apply(s)
	}

	require.True(t, s.LoadFeasible())
	require.False(t, s.IsCustomerInSolution(2))
	require.Equal(t, 6.0, s.Cost())
}

func TestRVND_Errors(t *testing.T) {
	inst := lineInstance(t, 3, 10)
	gens := fullGenerators(inst)
	op := newOperator(t, localsearch.Relocate1, inst, gens)
	rng := rand.New(rand.NewSource(1))

	_, err := localsearch.NewRVND(nil, rng)
	require.ErrorIs(t, err, localsearch.ErrNoOperators)

	_, err = localsearch.NewRVND([]*localsearch.Operator{op}, nil)
	require.ErrorIs(t, err, localsearch.ErrNilRNG)
}

func TestRVND_ReachesLineOptimum(t *testing.T) {
	inst := lineInstance(t, 5, 10)
	gens := fullGenerators(inst)
	s := solution.New(inst)

	buildRoute(s, 2, 1, 3, 5, 4)
	require.Equal(t, 12.0, s.Cost())

	operators := []*localsearch.Operator{
		newOperator(t, localsearch.Relocate1, inst, gens),
		newOperator(t, localsearch.TwoOpt, inst, gens),
		newOperator(t, localsearch.Swap11, inst, gens),
	}
	rvnd, err := localsearch.NewRVND(operators, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	for rvnd.Apply(s) {
	}
	require.Equal(t, 10.0, s.Cost())
	require.NoError(t, s.Validate())
}

func TestComposer_TiersRestart(t *testing.T) {
	inst := lineInstance(t, 5, 10)
	gens := fullGenerators(inst)
	s := solution.New(inst)

	buildRoute(s, 2, 1, 3, 5, 4)

	rng := rand.New(rand.NewSource(1))
	tier1, err := localsearch.NewRVND([]*localsearch.Operator{
		newOperator(t, localsearch.Relocate1, inst, gens),
	}, rng)
	require.NoError(t, err)
	tier2, err := localsearch.NewRVND([]*localsearch.Operator{
		newOperator(t, localsearch.TwoOpt, inst, gens),
		newOperator(t, localsearch.Swap11, inst, gens),
	}, rng)
	require.NoError(t, err)

	composer, err := localsearch.NewComposer([]*localsearch.RVND{tier1, tier2}, localsearch.DefaultTolerance)
	require.NoError(t, err)

	require.True(t, composer.Apply(s))
	require.Equal(t, 10.0, s.Cost())
	require.NoError(t, s.Validate())

	require.False(t, composer.Apply(s))
}

func TestComposer_Errors(t *testing.T) {
	inst := lineInstance(t, 3, 10)
	gens := fullGenerators(inst)
	op := newOperator(t, localsearch.Relocate1, inst, gens)
	tier, err := localsearch.NewRVND([]*localsearch.Operator{op}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = localsearch.NewComposer(nil, localsearch.DefaultTolerance)
	require.ErrorIs(t, err, localsearch.ErrNoOperators)

	_, err = localsearch.NewComposer([]*localsearch.RVND{tier}, -1)
	require.ErrorIs(t, err, localsearch.ErrNegativeTolerance)
}
