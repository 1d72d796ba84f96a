package types

import (
	"fmt"
	"time"
)

// Action to take on a resource during cleanup.
type Action string

const (
	ActionDelete  Action = "delete"
	ActionDisable Action = "disable"
	ActionSkip    Action = "skip"
)

// Reason explains why a cleanup decision was made.
type Reason string

const (
	ReasonEssential         Reason = "essential"
	ReasonHasUsage          Reason = "has-usage"
	ReasonUsageUnknown      Reason = "usage-unknown"
	ReasonHasDependents     Reason = "has-dependents"
	ReasonExpensiveDisabled Reason = "expensive-disabled"
	ReasonProviderError     Reason = "provider-error"
	ReasonConfirmedSafe     Reason = "confirmed-safe"
)

// Outcome of attempting a decision's action.
type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeFailure      Outcome = "failure"
	OutcomeNotAttempted Outcome = "not-attempted"
)

// Decision is one cleanup verdict for one resource. Decisions are
// journaled before execution so mutating actions leave an audit trail.
type Decision struct {
	ResourceID string    `json:"resource_id"`
	Category   Category  `json:"category"`
	Action     Action    `json:"action"`
	Reason     Reason    `json:"reason"`
	Simulated  bool      `json:"simulated"`
	Outcome    Outcome   `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
	ActedAt    time.Time `json:"acted_at,omitempty"`
}

// Validate ensures the decision has required fields.
func (d *Decision) Validate() error {
	if d.ResourceID == "" {
		return fmt.Errorf("decision resource ID cannot be empty")
	}
	if d.Action == "" {
		return fmt.Errorf("decision action cannot be empty")
	}
	if d.Reason == "" {
		return fmt.Errorf("decision reason cannot be empty")
	}
	return nil
}

// IsMutating reports whether the decision would change cloud state
// when executed for real.
func (d *Decision) IsMutating() bool {
	return d.Action == ActionDelete || d.Action == ActionDisable
}
