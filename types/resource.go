package types

import (
	"fmt"
	"time"
)

// Status of a resource as reported by the provider.
type Status string

const (
	StatusRunning  Status = "running"
	StatusStopped  Status = "stopped"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusUnknown  Status = "unknown"
)

// Resource is one discovered cloud resource. Records are built fresh
// from a live provider query on every run and discarded after the
// run's report is written.
type Resource struct {
	Category  Category          `json:"category"`
	ID        string            `json:"id"`
	Name      string            `json:"name,omitempty"`
	SizeBytes int64             `json:"size_bytes,omitempty"`
	Status    Status            `json:"status,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`

	// CreatedAt is zero when the provider does not report creation time.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// Usage is nil when usage data is unavailable. Unknown usage is
	// never coerced to zero: zero means "observed idle", nil means
	// "we don't know", and only the former may justify removal.
	Usage *int64 `json:"usage,omitempty"`

	// AttachedTo lists resources this one is attached to (disk to
	// instance, snapshot to disk).
	AttachedTo []string `json:"attached_to,omitempty"`

	// Dependents lists resources that depend on this one.
	Dependents []string `json:"dependents,omitempty"`

	// PublicPrincipals is non-empty when the resource is exposed to
	// public principals (allUsers, *, 0.0.0.0/0).
	PublicPrincipals []string `json:"public_principals,omitempty"`
}

// Validate checks the record invariants. A record failing validation is
// skipped and counted by the aggregator, never silently dropped.
func (r *Resource) Validate() error {
	if r.Category == "" {
		return fmt.Errorf("resource %q: category not set", r.ID)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("resource %q: unknown category %q", r.ID, r.Category)
	}
	if r.ID == "" {
		return fmt.Errorf("resource of category %s: empty id", r.Category)
	}
	return nil
}

// UsageKnown reports whether usage data exists for this resource.
func (r *Resource) UsageKnown() bool {
	return r.Usage != nil
}

// UsageIsZero reports known-zero usage. Unknown usage returns false.
func (r *Resource) UsageIsZero() bool {
	return r.Usage != nil && *r.Usage == 0
}

// IsPublic reports whether any public principal can reach the resource.
func (r *Resource) IsPublic() bool {
	return len(r.PublicPrincipals) > 0
}

// AgeKnown reports whether the creation time was reported.
func (r *Resource) AgeKnown() bool {
	return !r.CreatedAt.IsZero()
}

// AgeDays returns the resource age in whole days relative to now.
// Returns 0 when the creation time is unknown.
func (r *Resource) AgeDays(now time.Time) int {
	if r.CreatedAt.IsZero() {
		return 0
	}
	return int(now.Sub(r.CreatedAt).Hours() / 24)
}

// Usage64 builds a known-usage pointer. Convenience for providers and
// tests.
func Usage64(n int64) *int64 {
	return &n
}
