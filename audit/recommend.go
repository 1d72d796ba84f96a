package audit

import (
	"fmt"

	"github.com/cloudsweep/cloudsweep/types"
)

// recommendRule maps summary counters to one piece of advice. Rules
// are evaluated in table order so recommendation ordering is
// reproducible for identical summaries.
type recommendRule func(s map[string]int) (string, bool)

var recommendRules = []recommendRule{
	func(s map[string]int) (string, bool) {
		if n := s["unused_apis"]; n > 0 {
			return fmt.Sprintf("Disable %d unused APIs to shrink the project's attack surface.", n), true
		}
		return "", false
	},
	func(s map[string]int) (string, bool) {
		if n := s["orphaned_disks"]; n > 0 {
			return fmt.Sprintf("Delete %d orphaned disks no longer attached to any instance.", n), true
		}
		return "", false
	},
	func(s map[string]int) (string, bool) {
		if n := s["stale_snapshots"]; n > 0 {
			return fmt.Sprintf("Review %d snapshots older than their retention period.", n), true
		}
		return "", false
	},
	func(s map[string]int) (string, bool) {
		if n := s["stale_images"]; n > 0 {
			return fmt.Sprintf("Deprecate %d images older than their retention period.", n), true
		}
		return "", false
	},
	func(s map[string]int) (string, bool) {
		if n := s["public_buckets"]; n > 0 {
			return fmt.Sprintf("Security: %d buckets are publicly accessible; review their access policies.", n), true
		}
		return "", false
	},
	func(s map[string]int) (string, bool) {
		if n := s["public_firewall_rules"]; n > 0 {
			return fmt.Sprintf("Security: %d firewall rules allow public ingress; restrict their source ranges.", n), true
		}
		return "", false
	},
	func(s map[string]int) (string, bool) {
		if n := s["unlabeled_instances"] + s["unlabeled_secrets"]; n > 0 {
			return fmt.Sprintf("Add ownership labels to %d unlabeled resources.", n), true
		}
		return "", false
	},
	func(s map[string]int) (string, bool) {
		if n := s["expensive_unused_resources"]; n > 0 {
			return fmt.Sprintf("Review %d high-cost resources with zero recorded usage (cost figures are estimates).", n), true
		}
		return "", false
	},
	func(s map[string]int) (string, bool) {
		// Only meaningful when the budget category was collected.
		if n, ok := s["total_budgets"]; ok && n == 0 {
			return "No billing budgets found; create a budget alert to catch cost spikes.", true
		}
		return "", false
	},
	func(s map[string]int) (string, bool) {
		if n := s["degraded_categories"]; n > 0 {
			return fmt.Sprintf("Re-run the audit: %d categories failed to collect and are reported as empty.", n), true
		}
		return "", false
	},
}

// Recommend derives advice from the report summary. Pure function:
// identical summaries yield identical recommendation lists.
func Recommend(report *types.AuditReport) []string {
	var out []string
	for _, rule := range recommendRules {
		if msg, ok := rule(report.Summary); ok {
			out = append(out, msg)
		}
	}
	return out
}
