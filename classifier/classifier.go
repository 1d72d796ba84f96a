// Package classifier maps a resource record plus policy to a label set
// and a removal-safety verdict. Everything here is a pure function:
// same record, same policy, same labels.
package classifier

import (
	"time"

	"github.com/cloudsweep/cloudsweep/config"
	"github.com/cloudsweep/cloudsweep/types"
)

// Classify evaluates the label rules in fixed order. Later rules can
// see earlier labels, and rule order is part of the contract: the
// resulting set is deterministic for identical inputs.
func Classify(r types.Resource, policy config.Policy, now time.Time) types.LabelSet {
	var labels types.LabelSet

	// Rule 1: essential. Absolute, nothing overrides it.
	if policy.IsEssential(r.ID, r.Name) {
		labels = append(labels, types.LabelEssential)
	}

	// Rule 2: public exposure.
	if r.IsPublic() {
		labels = append(labels, types.LabelPublic)
	}

	// Rule 3: high-cost category.
	if r.Category.HighCost() {
		labels = append(labels, types.LabelExpensive)
	}

	// Rule 4: unused. Only known-zero usage counts; unknown usage
	// never yields this label.
	if r.UsageIsZero() {
		labels = append(labels, types.LabelUnused)
	}

	// Rule 5: orphaned. Attachable categories with no attachment.
	if r.Category.Attachable() && len(r.AttachedTo) == 0 {
		labels = append(labels, types.LabelOrphaned)
	}

	// Rule 6: stale. Needs a known creation time and a configured
	// retention period for the category.
	if days, ok := policy.Retention(r.Category); ok && r.AgeKnown() && r.AgeDays(now) > days {
		labels = append(labels, types.LabelStale)
	}

	// Rule 7: unlabeled, for categories where labeling is expected.
	if r.Category.ExpectsLabels() && len(r.Labels) == 0 {
		labels = append(labels, types.LabelUnlabeled)
	}

	return labels
}

// Verdict is the removal-safety answer for one resource, with the skip
// reason when removal is not safe.
type Verdict struct {
	Safe   bool
	Reason types.Reason
}

// SafeToRemove computes the safety verdict. A resource may be removed
// only when it is not essential, its usage is known to be zero, it has
// no dependents, and it is either not expensive or expensive cleanup is
// enabled. The verdict must be recomputed against a fresh snapshot at
// cleanup time; audit-time classifications are advisory only.
func SafeToRemove(r types.Resource, policy config.Policy) Verdict {
	if policy.IsEssential(r.ID, r.Name) {
		return Verdict{Safe: false, Reason: types.ReasonEssential}
	}
	if !r.UsageKnown() {
		return Verdict{Safe: false, Reason: types.ReasonUsageUnknown}
	}
	if !r.UsageIsZero() {
		return Verdict{Safe: false, Reason: types.ReasonHasUsage}
	}
	if len(r.Dependents) > 0 {
		return Verdict{Safe: false, Reason: types.ReasonHasDependents}
	}
	if r.Category.HighCost() && !policy.ExpensiveCleanupEnabled {
		return Verdict{Safe: false, Reason: types.ReasonExpensiveDisabled}
	}
	return Verdict{Safe: true, Reason: types.ReasonConfirmedSafe}
}
