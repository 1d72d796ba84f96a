package types

// Category identifies the kind of cloud resource a record describes.
type Category string

const (
	CategoryAPI          Category = "api"
	CategoryBucket       Category = "bucket"
	CategoryDisk         Category = "disk"
	CategorySnapshot     Category = "snapshot"
	CategoryImage        Category = "image"
	CategoryInstance     Category = "instance"
	CategoryCluster      Category = "cluster"
	CategoryService      Category = "service"
	CategoryIAMBinding   Category = "iam_binding"
	CategorySecret       Category = "secret"
	CategorySQLInstance  Category = "sql_instance"
	CategoryFirewallRule Category = "firewall_rule"
	CategoryBudget       Category = "budget"
)

// AllCategories returns every category in fixed order.
// Iteration order matters: report shape and recommendation ordering
// must be reproducible across runs.
func AllCategories() []Category {
	return []Category{
		CategoryAPI,
		CategoryBucket,
		CategoryDisk,
		CategorySnapshot,
		CategoryImage,
		CategoryInstance,
		CategoryCluster,
		CategoryService,
		CategoryIAMBinding,
		CategorySecret,
		CategorySQLInstance,
		CategoryFirewallRule,
		CategoryBudget,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAPI, CategoryBucket, CategoryDisk, CategorySnapshot,
		CategoryImage, CategoryInstance, CategoryCluster, CategoryService,
		CategoryIAMBinding, CategorySecret, CategorySQLInstance,
		CategoryFirewallRule, CategoryBudget:
		return true
	}
	return false
}

// Attachable reports whether records of this category normally hold an
// attachment to another resource. An attachable resource with no
// attachment is orphaned.
func (c Category) Attachable() bool {
	return c == CategoryDisk || c == CategorySnapshot
}

// ExpectsLabels reports whether resources of this category are expected
// to carry labels for ownership tracking.
func (c Category) ExpectsLabels() bool {
	return c == CategoryInstance || c == CategorySecret
}

// HighCost reports whether this category is in the fixed high-cost set:
// managed clusters, warehousing SQL instances, and KMS-backed keys.
func (c Category) HighCost() bool {
	return c == CategoryCluster || c == CategorySQLInstance || c == CategorySecret
}

// CleanupAction returns the mutating action used to remove resources of
// this category. APIs are disabled rather than deleted.
func (c Category) CleanupAction() Action {
	if c == CategoryAPI {
		return ActionDisable
	}
	return ActionDelete
}

// Plural returns the counter-friendly plural used in report summaries.
func (c Category) Plural() string {
	switch c {
	case CategoryAPI:
		return "apis"
	case CategoryBucket:
		return "buckets"
	case CategoryDisk:
		return "disks"
	case CategorySnapshot:
		return "snapshots"
	case CategoryImage:
		return "images"
	case CategoryInstance:
		return "instances"
	case CategoryCluster:
		return "clusters"
	case CategoryService:
		return "services"
	case CategoryIAMBinding:
		return "iam_bindings"
	case CategorySecret:
		return "secrets"
	case CategorySQLInstance:
		return "sql_instances"
	case CategoryFirewallRule:
		return "firewall_rules"
	case CategoryBudget:
		return "budgets"
	default:
		return string(c) + "s"
	}
}
