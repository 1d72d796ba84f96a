// Package audit assembles collector output into the structured report
// and derives recommendations from its counters.
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/cloudsweep/cloudsweep/classifier"
	"github.com/cloudsweep/cloudsweep/collector"
	"github.com/cloudsweep/cloudsweep/config"
	"github.com/cloudsweep/cloudsweep/cost"
	"github.com/cloudsweep/cloudsweep/telemetry"
	"github.com/cloudsweep/cloudsweep/types"
)

// labelCounter binds a summary key to its predicate. The table is
// fixed so every run produces the same report shape; values may
// differ, keys may not.
type labelCounter struct {
	key      string
	category types.Category // empty matches any category
	label    types.Label
}

var labelCounters = []labelCounter{
	{"unused_apis", types.CategoryAPI, types.LabelUnused},
	{"orphaned_disks", types.CategoryDisk, types.LabelOrphaned},
	{"orphaned_snapshots", types.CategorySnapshot, types.LabelOrphaned},
	{"stale_snapshots", types.CategorySnapshot, types.LabelStale},
	{"stale_images", types.CategoryImage, types.LabelStale},
	{"public_buckets", types.CategoryBucket, types.LabelPublic},
	{"public_firewall_rules", types.CategoryFirewallRule, types.LabelPublic},
	{"unlabeled_instances", types.CategoryInstance, types.LabelUnlabeled},
	{"unlabeled_secrets", types.CategorySecret, types.LabelUnlabeled},
	{"essential_resources", "", types.LabelEssential},
	{"public_resources", "", types.LabelPublic},
	{"unused_resources", "", types.LabelUnused},
	{"orphaned_resources", "", types.LabelOrphaned},
	{"stale_resources", "", types.LabelStale},
}

// Aggregator merges per-category collector results into one report.
type Aggregator struct {
	policy config.Policy
	logger *telemetry.Logger
}

// NewAggregator creates an aggregator bound to a run's policy.
func NewAggregator(policy config.Policy) *Aggregator {
	return &Aggregator{
		policy: policy,
		logger: telemetry.NewLogger("audit"),
	}
}

// Aggregate classifies every collected record and builds the report.
// Input results are never mutated; the report is a fresh structure.
// Malformed records are skipped and counted, never silently dropped.
func (a *Aggregator) Aggregate(results map[types.Category]collector.Result, project string, now time.Time) *types.AuditReport {
	report := &types.AuditReport{
		RunID:      uuid.NewString(),
		Timestamp:  now,
		Project:    project,
		Summary:    make(map[string]int),
		Categories: make(map[types.Category][]types.ClassifiedResource),
	}

	// Fixed counter keys are always present so two runs over the same
	// category set produce structurally identical summaries.
	for _, lc := range labelCounters {
		report.Summary[lc.key] = 0
	}
	report.Summary["expensive_unused_resources"] = 0
	report.Summary["degraded_categories"] = 0

	var all []types.Resource

	// Iterate in fixed category order for reproducible output.
	for _, category := range types.AllCategories() {
		result, ok := results[category]
		if !ok {
			continue
		}

		report.Summary["total_"+category.Plural()] = 0
		report.Categories[category] = []types.ClassifiedResource{}

		if result.Degraded() {
			if report.Degraded == nil {
				report.Degraded = make(map[types.Category]string)
			}
			report.Degraded[category] = result.Err.Error()
			report.Summary["degraded_categories"]++
			continue
		}

		for _, r := range result.Resources {
			if err := r.Validate(); err != nil {
				a.logger.Warn().
					Err(err).
					Str("category", string(category)).
					Msg("skipping malformed record")
				report.SkippedRecords++
				continue
			}

			labels := classifier.Classify(r, a.policy, now)
			report.Categories[category] = append(report.Categories[category], types.ClassifiedResource{
				Resource: r,
				Labels:   labels,
			})
			all = append(all, r)

			a.count(report.Summary, category, labels)
		}
	}

	report.EstimatedMonthlyCost = cost.EstimateAll(all)
	return report
}

// count updates every counter whose predicate the record satisfies.
// Each (counter, record) pair is counted at most once, so summary
// totals never drift from the category detail.
func (a *Aggregator) count(summary map[string]int, category types.Category, labels types.LabelSet) {
	summary["total_"+category.Plural()]++

	for _, lc := range labelCounters {
		if lc.category != "" && lc.category != category {
			continue
		}
		if labels.Has(lc.label) {
			summary[lc.key]++
		}
	}

	if labels.Has(types.LabelExpensive) && labels.Has(types.LabelUnused) {
		summary["expensive_unused_resources"]++
	}
}
