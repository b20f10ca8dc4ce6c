package split_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/solution"
	"github.com/katalvlaran/cvrp/split"
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

func routeCustomers(s *solution.Solution, route int) []int {
	var out []int
	for v := s.FirstCustomer(route); v != 0; v = s.NextVertex(v) {
		out = append(out, v)
	}

	return out
}

func TestNew_Errors(t *testing.T) {
	inst := lineInstance(t, 3, 10)

	_, err := split.New(inst, split.Options{PenaltyCapacity: 0, MaxRoutes: 1})
	require.ErrorIs(t, err, split.ErrInvalidPenalty)

	_, err = split.New(inst, split.Options{PenaltyCapacity: 1, PenaltyDuration: -1, MaxRoutes: 1})
	require.ErrorIs(t, err, split.ErrInvalidPenalty)

	_, err = split.New(inst, split.Options{PenaltyCapacity: 1, MaxRoutes: 0})
	require.ErrorIs(t, err, split.ErrInvalidMaxRoutes)
}

func TestDefaultOptions(t *testing.T) {
	inst := lineInstance(t, 4, 2)

	opts := split.DefaultOptions(inst)
	require.Equal(t, 6, opts.MaxRoutes)
	require.Equal(t, 4.0, opts.PenaltyCapacity)
	require.Equal(t, 1.0, opts.PenaltyDuration)
}

func TestDecode_MalformedTour(t *testing.T) {
	inst := lineInstance(t, 4, 2)
	sp, err := split.New(inst, split.DefaultOptions(inst))
	require.NoError(t, err)
	s := solution.New(inst)

	require.ErrorIs(t, sp.Decode([]int{1, 2, 3}, s), split.ErrMalformedTour)
	require.ErrorIs(t, sp.Decode([]int{1, 2, 3, 3}, s), split.ErrMalformedTour)
	require.ErrorIs(t, sp.Decode([]int{0, 1, 2, 3}, s), split.ErrMalformedTour)
	require.ErrorIs(t, sp.Decode([]int{1, 2, 3, 5}, s), split.ErrMalformedTour)
}

func TestDecode_CutsAtCapacity(t *testing.T) {
	inst := lineInstance(t, 4, 2)
	sp, err := split.New(inst, split.Options{PenaltyCapacity: 100, PenaltyDuration: 1, MaxRoutes: 4})
	require.NoError(t, err)
	s := solution.New(inst)

	require.NoError(t, sp.Decode([]int{1, 2, 3, 4}, s))
	require.Equal(t, 2, s.RoutesNum())
	require.Equal(t, 12.0, s.Cost())
	require.True(t, s.LoadFeasible())
	require.NoError(t, s.Validate())

	require.Equal(t, []int{1, 2}, routeCustomers(s, s.RouteIndex(1)))
	require.Equal(t, []int{3, 4}, routeCustomers(s, s.RouteIndex(3)))
}

func TestDecode_Reuse(t *testing.T) {
	inst := lineInstance(t, 4, 2)
	sp, err := split.New(inst, split.Options{PenaltyCapacity: 100, PenaltyDuration: 1, MaxRoutes: 4})
	require.NoError(t, err)
	s := solution.New(inst)

	require.NoError(t, sp.Decode([]int{1, 2, 3, 4}, s))
	require.NoError(t, sp.Decode([]int{4, 3, 2, 1}, s))
	require.Equal(t, 2, s.RoutesNum())
	require.Equal(t, 12.0, s.Cost())
	require.NoError(t, s.Validate())

	require.Equal(t, []int{4, 3}, routeCustomers(s, s.RouteIndex(4)))
	require.Equal(t, []int{2, 1}, routeCustomers(s, s.RouteIndex(2)))
}

// durationInstance puts one customer on each side of the depot, so a
// combined route crosses it and doubles the duration.
func durationInstance(t *testing.T, limit float64) *instance.Instance {
	t.Helper()

	inst, err := instance.New(instance.Data{
		XCoords:       []float64{0, 2, -2},
		YCoords:       []float64{0, 0, 0},
		Demands:       []int{0, 1, 1},
		Capacity:      10,
		DistanceLimit: limit,
	}, instance.Options{RoundCosts: false})
	require.NoError(t, err)

	return inst
}

func TestDecode_DurationLimitSplits(t *testing.T) {
	inst := durationInstance(t, 4.5)
	sp, err := split.New(inst, split.Options{PenaltyCapacity: 1, PenaltyDuration: 100, MaxRoutes: 4})
	require.NoError(t, err)
	s := solution.New(inst)

	require.NoError(t, sp.Decode([]int{1, 2}, s))
	require.Equal(t, 2, s.RoutesNum())
	require.Equal(t, 8.0, s.Cost())
	require.NoError(t, s.Validate())
}

func TestDecode_LimitedFleetMergesRoutes(t *testing.T) {
	inst := durationInstance(t, 4.5)
	sp, err := split.New(inst, split.Options{PenaltyCapacity: 1, PenaltyDuration: 100, MaxRoutes: 1})
	require.NoError(t, err)
	require.Equal(t, 1, sp.MaxRoutes())
	s := solution.New(inst)

	// The unlimited optimum wants one route per customer; the fleet
	// bound forces both into a single overtime route.
	require.NoError(t, sp.Decode([]int{1, 2}, s))
	require.Equal(t, 1, s.RoutesNum())
	require.Equal(t, 8.0, s.Cost())
	require.Equal(t, []int{1, 2}, routeCustomers(s, s.RouteIndex(1)))
	require.NoError(t, s.Validate())
}
