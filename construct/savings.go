// Package construct - savings-based initial solution.
//
// Design:
//   - ClarkeWright seeds one route per customer and merges route
//     endpoints in decreasing order of the parallel savings value.
//   - The savings list is built from each customer's neighbor list
//     instead of the full pairwise matrix, capped per customer.
//
// Contracts:
//   - The produced solution serves every customer and never exceeds
//     the vehicle capacity on any route.
//   - The receiver solution is reset before construction.
//
// Complexity: O(n*k*log(n*k)) for the sort over n customers with k
// savings each; merging is linear in the list.
package construct

import (
	"sort"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/solution"
)

type saving struct {
	i     int
	j     int
	value float64
}

// ClarkeWright fills s with an initial solution: one route per
// customer, then endpoint merges in decreasing savings order, skipping
// merges that would overload the vehicle.
func ClarkeWright(inst *instance.Instance, s *solution.Solution, opts Options) error {
	if opts.Lambda <= 0 {
		return ErrInvalidLambda
	}
	if opts.Neighbors < 1 {
		return ErrInvalidNeighbors
	}

	s.Reset()

	var i int
	for i = inst.CustomersBegin(); i < inst.CustomersEnd(); i++ {
		s.BuildOneCustomerRoute(i)
	}

	var (
		depot   = inst.Depot()
		savings = make([]saving, 0, inst.CustomersNum()*opts.Neighbors)
		added   int
		j       int
	)
	for i = inst.CustomersBegin(); i < inst.CustomersEnd(); i++ {
		added = 0
		// Index 0 of the neighbor list is the customer itself.
		for _, j = range inst.NeighborsOf(i)[1:] {
			if added == opts.Neighbors {
				break
			}
			if j <= i {
				continue
			}

			savings = append(savings, saving{
				i:     i,
				j:     j,
				value: inst.Cost(depot, i) + inst.Cost(depot, j) - opts.Lambda*inst.Cost(i, j),
			})
			added++
		}
	}

	sort.Slice(savings, func(a, b int) bool { return savings[a].value > savings[b].value })

	var (
		capacity = inst.Capacity()
		iRoute   int
		jRoute   int
	)
	for _, sv := range savings {
		iRoute = s.RouteIndex(sv.i)
		jRoute = s.RouteIndex(sv.j)
		if iRoute == jRoute {
			continue
		}
		if s.RouteLoad(iRoute)+s.RouteLoad(jRoute) > capacity {
			continue
		}

		if s.LastCustomer(iRoute) == sv.i && s.FirstCustomer(jRoute) == sv.j {
			s.AppendRoute(iRoute, jRoute)
		} else if s.LastCustomer(jRoute) == sv.j && s.FirstCustomer(iRoute) == sv.i {
			s.AppendRoute(jRoute, iRoute)
		}
	}

	return nil
}
