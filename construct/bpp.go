// Package construct - bin-packing fleet bound.
package construct

import (
	"sort"

	"github.com/katalvlaran/cvrp/instance"
)

// FirstFitDecreasing estimates the minimum fleet size by packing the
// customer demands first-fit, in decreasing order, into vehicles of
// the instance capacity.
func FirstFitDecreasing(inst *instance.Instance) int {
	demands := make([]int, 0, inst.CustomersNum())
	var i int
	for i = inst.CustomersBegin(); i < inst.CustomersEnd(); i++ {
		demands = append(demands, inst.Demand(i))
	}
	sort.Sort(sort.Reverse(sort.IntSlice(demands)))

	var (
		capacity = inst.Capacity()
		residual = make([]int, 0, len(demands))
		placed   bool
		b        int
	)
	for _, d := range demands {
		placed = false
		for b = range residual {
			if residual[b] >= d {
				residual[b] -= d
				placed = true
				break
			}
		}
		if !placed {
			residual = append(residual, capacity-d)
		}
	}

	return len(residual)
}
