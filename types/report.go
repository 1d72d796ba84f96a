package types

import "time"

// ClassifiedResource pairs a record with the labels the classifier
// assigned to it during aggregation.
type ClassifiedResource struct {
	Resource
	Labels LabelSet `json:"classification"`
}

// AuditReport is the structured output of one audit run. Every counter
// in Summary is the exact count of records satisfying its predicate
// within Categories.
type AuditReport struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Project   string    `json:"project"`

	Summary    map[string]int                    `json:"summary"`
	Categories map[Category][]ClassifiedResource `json:"categories"`

	// Degraded lists categories whose collection failed; their lists
	// are empty rather than missing.
	Degraded map[Category]string `json:"degraded,omitempty"`

	// SkippedRecords counts malformed records that failed validation.
	// They are excluded from Categories but never silently dropped.
	SkippedRecords int `json:"skipped_records"`

	// EstimatedMonthlyCost is a rough heuristic figure, not a billing
	// number.
	EstimatedMonthlyCost float64 `json:"estimated_monthly_cost"`

	Recommendations []string `json:"recommendations"`
}

// CleanupSummary tallies a cleanup run. Simulated and performed counts
// are reported separately so a dry run is never mistaken for real work.
type CleanupSummary struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	DryRun    bool      `json:"dry_run"`

	Evaluated int `json:"evaluated"`
	Deleted   int `json:"deleted"`
	Disabled  int `json:"disabled"`
	Skipped   int `json:"skipped"`
	Simulated int `json:"simulated"`
	Failed    int `json:"failed"`

	Decisions []Decision `json:"decisions"`

	// FailedResources identifies each resource whose action failed.
	FailedResources []string `json:"failed_resources,omitempty"`
}

// Success reports whether the run completed with zero action failures.
func (s *CleanupSummary) Success() bool {
	return s.Failed == 0
}
