// Package cleanup implements the policy-gated removal engine: a state
// machine INIT → CONFIRM → EVALUATE → ACT → SUMMARY over freshly
// queried resource state. Audit-time classifications are never reused;
// every verdict is recomputed here against the current snapshot.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/cloudsweep/cloudsweep/classifier"
	"github.com/cloudsweep/cloudsweep/collector"
	"github.com/cloudsweep/cloudsweep/config"
	"github.com/cloudsweep/cloudsweep/providers"
	"github.com/cloudsweep/cloudsweep/telemetry"
	"github.com/cloudsweep/cloudsweep/types"
)

// ErrConfirmationDenied is returned when the operator declines the
// run-wide confirmation gate. No mutation has been attempted.
var ErrConfirmationDenied = errors.New("cleanup confirmation denied by operator")

// Journal records decisions before and after execution so mutating
// actions leave an audit trail.
type Journal interface {
	AppendDecision(runID string, decision types.Decision) error
}

// Options tune engine behavior beyond the policy.
type Options struct {
	// ActTimeout bounds each provider mutation; a timed-out call is a
	// failure, never a hang.
	ActTimeout time.Duration
}

// Engine runs the cleanup state machine.
type Engine struct {
	provider  providers.ResourceProvider
	policy    config.Policy
	confirmer Confirmer
	journal   Journal
	options   Options
	logger    *telemetry.Logger
	now       func() time.Time
}

// NewEngine creates a cleanup engine. journal may be nil to disable
// decision journaling.
func NewEngine(provider providers.ResourceProvider, policy config.Policy, confirmer Confirmer, journal Journal, options Options) *Engine {
	if options.ActTimeout <= 0 {
		options.ActTimeout = 30 * time.Second
	}
	return &Engine{
		provider:  provider,
		policy:    policy,
		confirmer: confirmer,
		journal:   journal,
		options:   options,
		logger:    telemetry.NewLogger("cleanup"),
		now:       time.Now,
	}
}

// Run executes one full cleanup pass. The returned summary is always
// produced, even when some actions failed; the error is non-nil only
// for failures that stop the run before any mutation (confirmation
// denied, nothing collected).
func (e *Engine) Run(ctx context.Context) (*types.CleanupSummary, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "cleanup.run")
	defer span.End()

	summary := &types.CleanupSummary{
		RunID:     uuid.NewString(),
		StartedAt: e.now(),
		DryRun:    e.policy.DryRun,
	}
	span.SetAttributes(
		attribute.String("run_id", summary.RunID),
		attribute.Bool("dry_run", summary.DryRun),
	)

	// INIT: fresh resource state per enabled category. Never reuse an
	// audit-time snapshot.
	results := collector.New(e.provider).CollectAll(ctx, e.policy)

	// CONFIRM: one run-wide gate, skipped entirely under dry-run.
	// After this point the batch runs to completion.
	if !e.policy.DryRun {
		ok, err := e.confirm(ctx, results)
		if err != nil {
			return nil, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return nil, ErrConfirmationDenied
		}
	}

	// EVALUATE: recompute the safety verdict per resource.
	decisions := e.evaluateAll(ctx, results)
	summary.Evaluated = len(decisions)

	// ACT: execute non-skip decisions, serialized per category,
	// continue on error.
	for i := range decisions {
		e.act(ctx, &decisions[i])
		e.journalDecision(summary.RunID, decisions[i])
	}

	// SUMMARY: tally, separating simulated from performed work.
	e.tally(summary, decisions)
	summary.EndedAt = e.now()

	e.logger.WithContext(ctx).Info().
		Str("run_id", summary.RunID).
		Bool("dry_run", summary.DryRun).
		Int("evaluated", summary.Evaluated).
		Int("deleted", summary.Deleted).
		Int("disabled", summary.Disabled).
		Int("simulated", summary.Simulated).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("cleanup run finished")

	return summary, nil
}

func (e *Engine) confirm(ctx context.Context, results map[types.Category]collector.Result) (bool, error) {
	total := 0
	for _, result := range results {
		total += len(result.Resources)
	}
	if e.confirmer == nil {
		return false, fmt.Errorf("live cleanup requires a confirmer")
	}
	return e.confirmer.Confirm(ctx, ConfirmationRequest{
		Project:       e.provider.Project(),
		ResourceCount: total,
	})
}

// evaluateAll walks categories in fixed order and produces one
// decision per resource. Verdicts are pure functions of the fresh
// state, so dry-run and execute evaluations are identical.
func (e *Engine) evaluateAll(ctx context.Context, results map[types.Category]collector.Result) []types.Decision {
	ctx, span := telemetry.Tracer.Start(ctx, "cleanup.evaluate")
	defer span.End()

	var decisions []types.Decision
	for _, category := range types.AllCategories() {
		result, ok := results[category]
		if ok && result.Degraded() {
			// Nothing to evaluate; the category degraded to empty.
			continue
		}
		for _, r := range result.Resources {
			decisions = append(decisions, e.evaluate(ctx, r))
		}
	}
	return decisions
}

// evaluate produces the decision for one resource against its current
// state, refreshing usage and dependents from the provider.
func (e *Engine) evaluate(ctx context.Context, r types.Resource) types.Decision {
	decision := types.Decision{
		ResourceID: r.ID,
		Category:   r.Category,
		Simulated:  e.policy.DryRun,
		Outcome:    types.OutcomeNotAttempted,
		DecidedAt:  e.now(),
	}

	fresh, err := e.refresh(ctx, r)
	if err != nil {
		decision.Action = types.ActionSkip
		decision.Reason = types.ReasonProviderError
		decision.Error = err.Error()
		return decision
	}

	verdict := classifier.SafeToRemove(fresh, e.policy)
	if !verdict.Safe {
		decision.Action = types.ActionSkip
		decision.Reason = verdict.Reason
		return decision
	}

	decision.Action = fresh.Category.CleanupAction()
	decision.Reason = types.ReasonConfirmedSafe
	return decision
}

// refresh re-queries usage and dependents so the verdict sees current
// state, not what collection observed.
func (e *Engine) refresh(ctx context.Context, r types.Resource) (types.Resource, error) {
	usage, err := e.provider.Usage(ctx, r.ID)
	if err != nil {
		return r, fmt.Errorf("usage query for %s: %w", r.ID, err)
	}
	deps, err := e.provider.Dependents(ctx, r.ID)
	if err != nil {
		return r, fmt.Errorf("dependents query for %s: %w", r.ID, err)
	}
	r.Usage = usage
	r.Dependents = deps
	return r, nil
}

// act performs one decision. Under dry-run it only logs what would
// happen; the provider is never called. Failures are recorded on the
// decision and never stop the batch.
func (e *Engine) act(ctx context.Context, decision *types.Decision) {
	if !decision.IsMutating() {
		return
	}

	if decision.Simulated {
		e.logger.WithContext(ctx).Info().
			Str("resource_id", decision.ResourceID).
			Str("action", string(decision.Action)).
			Msg("dry-run: action simulated, provider not called")
		return
	}

	actCtx, cancel := context.WithTimeout(ctx, e.options.ActTimeout)
	defer cancel()

	var err error
	switch decision.Action {
	case types.ActionDelete:
		err = e.provider.Delete(actCtx, decision.ResourceID)
	case types.ActionDisable:
		err = e.provider.Disable(actCtx, decision.ResourceID)
	}
	decision.ActedAt = e.now()

	if err != nil {
		decision.Outcome = types.OutcomeFailure
		decision.Error = err.Error()
		e.logger.WithContext(ctx).Error().
			Err(err).
			Str("resource_id", decision.ResourceID).
			Str("action", string(decision.Action)).
			Msg("action failed, continuing with remaining resources")
		return
	}

	decision.Outcome = types.OutcomeSuccess
	e.logger.WithContext(ctx).Info().
		Str("resource_id", decision.ResourceID).
		Str("action", string(decision.Action)).
		Msg("action performed")
}

func (e *Engine) journalDecision(runID string, decision types.Decision) {
	if e.journal == nil {
		return
	}
	if err := e.journal.AppendDecision(runID, decision); err != nil {
		e.logger.Warn().
			Err(err).
			Str("resource_id", decision.ResourceID).
			Msg("failed to journal decision")
	}
}

func (e *Engine) tally(summary *types.CleanupSummary, decisions []types.Decision) {
	summary.Decisions = decisions
	for _, d := range decisions {
		switch {
		case d.Action == types.ActionSkip:
			summary.Skipped++
		case d.Simulated:
			summary.Simulated++
		case d.Outcome == types.OutcomeFailure:
			summary.Failed++
			summary.FailedResources = append(summary.FailedResources, d.ResourceID)
		case d.Action == types.ActionDelete:
			summary.Deleted++
		case d.Action == types.ActionDisable:
			summary.Disabled++
		}
	}
}
