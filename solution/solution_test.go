package solution_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/solution"
)

// lineInstance places the depot at x=0 and customers 1..n at x=1..n on
// the x axis, so every arc cost is an exact integer in float64.
func lineInstance(t *testing.T, customers int) *instance.Instance {
	t.Helper()

	data := instance.Data{Capacity: 1000}
	var i int
	for i = 0; i <= customers; i++ {
		data.XCoords = append(data.XCoords, float64(i))
		data.YCoords = append(data.YCoords, 0)
		data.Demands = append(data.Demands, 1)
	}
	data.Demands[0] = 0

	inst, err := instance.New(data, instance.Options{NeighborsNum: customers + 1})
	require.NoError(t, err)

	return inst
}

// buildRoute creates the route depot, customers..., depot.
func buildRoute(s *solution.Solution, customers ...int) int {
	route := s.BuildOneCustomerRoute(customers[0])
	for _, c := range customers[1:] {
		s.InsertVertexBefore(route, 0, c)
	}

	return route
}

func TestBuildOneCustomerRoute(t *testing.T) {
	inst := lineInstance(t, 3)
	s := solution.New(inst)

	route := s.BuildOneCustomerRoute(3)
	require.Equal(t, 1, s.RoutesNum())
	require.Equal(t, 6.0, s.Cost())
	require.Equal(t, 3, s.FirstCustomer(route))
	require.Equal(t, 3, s.LastCustomer(route))
	require.Equal(t, 1, s.RouteLoad(route))
	require.Equal(t, route, s.RouteIndex(3))
	require.True(t, s.IsCustomerInSolution(3))
	require.False(t, s.IsCustomerInSolution(1))
	require.NoError(t, s.Validate())
}

func TestInsertAndRemove(t *testing.T) {
	inst := lineInstance(t, 3)
	s := solution.New(inst)

	route := buildRoute(s, 1, 2, 3)
	require.Equal(t, 6.0, s.Cost())
	require.Equal(t, 3, s.RouteSize(route))
	require.NoError(t, s.Validate())

	// Removing the middle customer replaces (1,2) and (2,3) with (1,3).
	delta := s.RemoveVertex(route, 2)
	require.Equal(t, 0.0, delta)
	require.Equal(t, 6.0, s.Cost())
	require.Equal(t, 1, s.FirstCustomer(route))
	require.Equal(t, 3, s.NextVertex(1))
	require.NoError(t, s.Validate())

	// Removing an endpoint shortens the return arc.
	delta = s.RemoveVertex(route, 3)
	require.Equal(t, -4.0, delta)
	require.Equal(t, 2.0, s.Cost())
	require.Equal(t, 1, s.LastCustomer(route))
	require.NoError(t, s.Validate())

	s.RemoveVertex(route, 1)
	require.True(t, s.IsRouteEmpty(route))
	s.RemoveRoute(route)
	require.Equal(t, 0, s.RoutesNum())
	require.Equal(t, 0.0, s.Cost())
}

func TestDepotRemovalLeavesCycle(t *testing.T) {
	inst := lineInstance(t, 3)
	s := solution.New(inst)
	route := buildRoute(s, 1, 2, 3)

	delta := s.RemoveVertex(route, 0)
	require.Equal(t, -2.0, delta)
	require.Equal(t, 4.0, s.Cost())
	// Customers now form a pure cycle 1 -> 2 -> 3 -> 1.
	require.Equal(t, 1, s.NextVertex(3))
	require.Equal(t, 3, s.PrevVertex(1))

	s.InsertVertexBefore(route, 2, 0)
	require.Equal(t, 6.0, s.Cost())
	require.Equal(t, 2, s.FirstCustomer(route))
	require.Equal(t, 1, s.LastCustomer(route))
	require.NoError(t, s.Validate())
}

func TestReverseRoutePath(t *testing.T) {
	inst := lineInstance(t, 4)
	s := solution.New(inst)
	route := buildRoute(s, 1, 2, 3, 4)
	require.Equal(t, 8.0, s.Cost())

	s.ReverseRoutePath(route, 2, 3)
	require.Equal(t, 1, s.FirstCustomer(route))
	require.Equal(t, 3, s.NextVertex(1))
	require.Equal(t, 2, s.NextVertex(3))
	require.Equal(t, 4, s.NextVertex(2))
	require.NoError(t, s.Validate())

	s.ReverseRoutePath(route, 3, 2)
	require.Equal(t, 8.0, s.Cost())
	require.Equal(t, 2, s.NextVertex(1))
	require.NoError(t, s.Validate())
}

func TestSwapTails(t *testing.T) {
	inst := lineInstance(t, 5)
	s := solution.New(inst)
	routeA := buildRoute(s, 1, 2)
	routeB := buildRoute(s, 4, 5)

	s.SwapTails(1, routeA, 5, routeB)

	require.Equal(t, 1, s.FirstCustomer(routeA))
	require.Equal(t, 5, s.NextVertex(1))
	require.Equal(t, 5, s.LastCustomer(routeA))

	require.Equal(t, 4, s.FirstCustomer(routeB))
	require.Equal(t, 2, s.NextVertex(4))
	require.Equal(t, 2, s.LastCustomer(routeB))

	require.Equal(t, 2, s.RouteLoad(routeA))
	require.Equal(t, 2, s.RouteLoad(routeB))
	require.NoError(t, s.Validate())
}

func TestSplit(t *testing.T) {
	inst := lineInstance(t, 5)
	s := solution.New(inst)
	routeA := buildRoute(s, 1, 2)
	routeB := buildRoute(s, 4, 5)

	s.Split(1, routeA, 4, routeB)

	require.Equal(t, 1, s.FirstCustomer(routeA))
	require.Equal(t, 4, s.NextVertex(1))
	require.Equal(t, 4, s.LastCustomer(routeA))

	require.Equal(t, 2, s.FirstCustomer(routeB))
	require.Equal(t, 5, s.NextVertex(2))
	require.Equal(t, 5, s.LastCustomer(routeB))
	require.NoError(t, s.Validate())
}

func TestAppendRoute(t *testing.T) {
	inst := lineInstance(t, 5)
	s := solution.New(inst)
	routeA := buildRoute(s, 1, 2)
	routeB := buildRoute(s, 4, 5)

	got := s.AppendRoute(routeA, routeB)
	require.Equal(t, routeA, got)
	require.Equal(t, 1, s.RoutesNum())
	require.Equal(t, 4, s.RouteSize(routeA))
	require.Equal(t, 4, s.RouteLoad(routeA))
	require.Equal(t, 5, s.LastCustomer(routeA))
	require.Equal(t, routeA, s.RouteIndex(5))
	require.False(t, s.IsRouteInSolution(routeB))
	require.NoError(t, s.Validate())
}

func TestCumulativeLoads(t *testing.T) {
	inst := lineInstance(t, 3)
	s := solution.New(inst)
	buildRoute(s, 1, 2, 3)

	require.Equal(t, 1, s.LoadBeforeIncluded(1))
	require.Equal(t, 3, s.LoadAfterIncluded(1))
	require.Equal(t, 2, s.LoadBeforeIncluded(2))
	require.Equal(t, 2, s.LoadAfterIncluded(2))
	require.Equal(t, 3, s.LoadBeforeIncluded(3))
	require.Equal(t, 1, s.LoadAfterIncluded(3))
}

func TestJournalReplayAndRollback(t *testing.T) {
	inst := lineInstance(t, 3)

	s := solution.New(inst)
	twin := solution.New(inst)
	snapshot := solution.New(inst)

	buildRoute(s, 1, 2, 3)
	buildRoute(twin, 1, 2, 3)
	snapshot.CopyFrom(s)

	s.ClearDoList1()
	s.ClearUndoList1()

	route := s.RouteIndex(1)
	s.RemoveVertex(route, 2)
	s.InsertVertexBefore(route, 1, 2)
	require.NoError(t, s.Validate())
	require.False(t, s.Equal(snapshot))

	// Do-list 1 reproduces the edit on the twin.
	s.ApplyDoList1(twin)
	require.True(t, twin.Equal(s))

	// Undo-list 1 rolls the edit back.
	s.ApplyUndoList1(s)
	require.True(t, s.Equal(snapshot))
	require.NoError(t, s.Validate())
}

func TestJournalStaging(t *testing.T) {
	inst := lineInstance(t, 3)

	s := solution.New(inst)
	best := solution.New(inst)

	buildRoute(s, 1, 2, 3)
	buildRoute(best, 1, 2, 3)
	s.ClearDoList1()
	s.ClearUndoList1()

	route := s.RouteIndex(1)
	s.RemoveVertex(route, 3)
	s.AppendDoList1ToDoList2()
	s.ClearDoList1()

	s.RemoveVertex(route, 2)

	s.ApplyDoList2(best)
	s.ApplyDoList1(best)
	require.True(t, best.Equal(s))
}

func TestSVC_RecencyAndBound(t *testing.T) {
	inst := lineInstance(t, 4)
	s := solution.NewWithCacheSize(inst, 2)

	s.BuildOneCustomerRoute(1)
	s.BuildOneCustomerRoute(2)
	s.BuildOneCustomerRoute(3)

	require.Equal(t, 2, s.SVCSize())
	require.Equal(t, 3, s.SVCBegin())
	require.Equal(t, 2, s.SVCNext(3))
	require.Equal(t, s.SVCEnd(), s.SVCNext(2))

	s.ClearSVC()
	require.Equal(t, 0, s.SVCSize())
	require.Equal(t, s.SVCEnd(), s.SVCBegin())
}

func TestLoadFeasibility(t *testing.T) {
	data := instance.Data{
		XCoords:  []float64{0, 1, 2},
		YCoords:  []float64{0, 0, 0},
		Demands:  []int{0, 3, 3},
		Capacity: 4,
	}
	inst, err := instance.New(data, instance.Options{NeighborsNum: 3})
	require.NoError(t, err)

	s := solution.New(inst)
	route := s.BuildOneCustomerRoute(1)
	require.True(t, s.LoadFeasible())

	s.InsertVertexBefore(route, 0, 2)
	require.False(t, s.IsLoadFeasible(route))
	require.False(t, s.LoadFeasible())
}

func TestWrite_Format(t *testing.T) {
	inst := lineInstance(t, 3)
	s := solution.New(inst)
	buildRoute(s, 1, 2, 3)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	require.Equal(t, "Route #1: 1 2 3\nCost 6\n", buf.String())
}
