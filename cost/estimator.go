// Package cost provides rough monthly cost estimates when no billing
// export is available. The constants here are fixed heuristics with no
// confidence bound; treat every figure as a labeled estimate, never a
// verified cost.
package cost

import "github.com/cloudsweep/cloudsweep/types"

// monthlyBaseUSD is the flat per-resource heuristic by category.
var monthlyBaseUSD = map[types.Category]float64{
	types.CategoryAPI:          0,
	types.CategoryBucket:       1,
	types.CategoryDisk:         4,
	types.CategorySnapshot:     1,
	types.CategoryImage:        0.5,
	types.CategoryInstance:     25,
	types.CategoryCluster:      150,
	types.CategoryService:      10,
	types.CategoryIAMBinding:   0,
	types.CategorySecret:       1,
	types.CategorySQLInstance:  100,
	types.CategoryFirewallRule: 0,
	types.CategoryBudget:       0,
}

// perGiBUSD applies on top of the base for size-billed categories.
var perGiBUSD = map[types.Category]float64{
	types.CategoryBucket:   0.02,
	types.CategoryDisk:     0.08,
	types.CategorySnapshot: 0.05,
	types.CategoryImage:    0.05,
}

const gib = 1 << 30

// Estimate returns the heuristic monthly cost for one resource.
func Estimate(r types.Resource) float64 {
	total := monthlyBaseUSD[r.Category]
	if rate, ok := perGiBUSD[r.Category]; ok && r.SizeBytes > 0 {
		total += rate * float64(r.SizeBytes) / gib
	}
	return total
}

// EstimateAll sums the heuristic monthly cost over a resource list.
func EstimateAll(resources []types.Resource) float64 {
	var total float64
	for _, r := range resources {
		total += Estimate(r)
	}
	return total
}
