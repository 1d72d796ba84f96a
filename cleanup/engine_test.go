package cleanup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsweep/cloudsweep/config"
	"github.com/cloudsweep/cloudsweep/providers"
	"github.com/cloudsweep/cloudsweep/types"
)

func diskPolicy(dryRun bool) config.Policy {
	return config.Policy{
		DryRun:     dryRun,
		Categories: map[types.Category]bool{types.CategoryDisk: true, types.CategoryAPI: true},
	}
}

func freeDisk(id string) types.Resource {
	return types.Resource{Category: types.CategoryDisk, ID: id, Usage: types.Usage64(0)}
}

func TestDryRunNeverCallsProvider(t *testing.T) {
	fake := providers.NewFake("acme")
	for i := 0; i < 10; i++ {
		fake.Add(freeDisk("disk-" + string(rune('a'+i))))
	}

	engine := NewEngine(fake, diskPolicy(true), nil, nil, Options{})
	summary, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 10, summary.Simulated)
	assert.Equal(t, 0, summary.Deleted)
	assert.Equal(t, 0, fake.MutationCount(), "dry-run must make zero provider calls")
	assert.True(t, summary.Success())
}

func TestExecuteDeletesSafeDisk(t *testing.T) {
	fake := providers.NewFake("acme")
	fake.Add(freeDisk("disk-free"))

	engine := NewEngine(fake, diskPolicy(false), AutoConfirmer{}, nil, Options{})
	summary, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Deleted)
	assert.Equal(t, []string{"disk-free"}, fake.Deleted)

	require.Len(t, summary.Decisions, 1)
	d := summary.Decisions[0]
	assert.Equal(t, types.ActionDelete, d.Action)
	assert.Equal(t, types.ReasonConfirmedSafe, d.Reason)
	assert.Equal(t, types.OutcomeSuccess, d.Outcome)
}

func TestEssentialAPIIsSkipped(t *testing.T) {
	fake := providers.NewFake("acme")
	fake.Add(types.Resource{Category: types.CategoryAPI, ID: "core-api", Usage: types.Usage64(0)})

	policy := diskPolicy(false)
	policy.EssentialAllowlist = []string{"core-api"}

	engine := NewEngine(fake, policy, AutoConfirmer{}, nil, Options{})
	summary, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Decisions, 1)
	assert.Equal(t, types.ActionSkip, summary.Decisions[0].Action)
	assert.Equal(t, types.ReasonEssential, summary.Decisions[0].Reason)
	assert.Equal(t, 0, fake.MutationCount())
}

func TestUnknownUsageIsSkipped(t *testing.T) {
	fake := providers.NewFake("acme")
	fake.Add(types.Resource{Category: types.CategoryDisk, ID: "disk-mystery"})

	engine := NewEngine(fake, diskPolicy(false), AutoConfirmer{}, nil, Options{})
	summary, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Decisions, 1)
	assert.Equal(t, types.ActionSkip, summary.Decisions[0].Action)
	assert.Equal(t, types.ReasonUsageUnknown, summary.Decisions[0].Reason)
}

func TestAPIIsDisabledNotDeleted(t *testing.T) {
	fake := providers.NewFake("acme")
	fake.Add(types.Resource{Category: types.CategoryAPI, ID: "ml-api", Usage: types.Usage64(0)})

	engine := NewEngine(fake, diskPolicy(false), AutoConfirmer{}, nil, Options{})
	summary, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Disabled)
	assert.Equal(t, 0, summary.Deleted)
	assert.Equal(t, []string{"ml-api"}, fake.Disabled)
	assert.Empty(t, fake.Deleted)
}

func TestPartialFailureContinues(t *testing.T) {
	fake := providers.NewFake("acme")
	for _, id := range []string{"disk-1", "disk-2", "disk-3", "disk-4", "disk-5"} {
		fake.Add(freeDisk(id))
	}
	fake.FailMutate["disk-3"] = errors.New("quota exceeded")

	engine := NewEngine(fake, diskPolicy(false), AutoConfirmer{}, nil, Options{})
	summary, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Deleted)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []string{"disk-3"}, summary.FailedResources)
	assert.False(t, summary.Success())
}

// stallingProvider blocks every Delete until its context expires, as a
// hung cloud API would.
type stallingProvider struct {
	*providers.Fake
}

func (p *stallingProvider) Delete(ctx context.Context, id string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestActTimeoutTurnsHangIntoFailure(t *testing.T) {
	fake := providers.NewFake("acme")
	fake.Add(freeDisk("disk-slow"))
	fake.Add(freeDisk("disk-ok"))

	provider := &stallingProvider{Fake: fake}
	engine := NewEngine(provider, diskPolicy(false), AutoConfirmer{}, nil, Options{
		ActTimeout: 50 * time.Millisecond,
	})

	summary, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, []string{"disk-slow", "disk-ok"}, summary.FailedResources)
	assert.False(t, summary.Success())
	for _, d := range summary.Decisions {
		assert.Equal(t, types.OutcomeFailure, d.Outcome)
		assert.Contains(t, d.Error, context.DeadlineExceeded.Error())
	}
}

func TestConfirmationDenied(t *testing.T) {
	fake := providers.NewFake("acme")
	fake.Add(freeDisk("disk-1"))

	confirmer := &TerminalConfirmer{In: strings.NewReader("no\n"), Out: &strings.Builder{}}
	engine := NewEngine(fake, diskPolicy(false), confirmer, nil, Options{})

	_, err := engine.Run(context.Background())
	assert.ErrorIs(t, err, ErrConfirmationDenied)
	assert.Equal(t, 0, fake.MutationCount(), "denied confirmation must prevent all mutation")
}

func TestConfirmationAccepted(t *testing.T) {
	fake := providers.NewFake("acme")
	fake.Add(freeDisk("disk-1"))

	confirmer := &TerminalConfirmer{In: strings.NewReader("yes\n"), Out: &strings.Builder{}}
	engine := NewEngine(fake, diskPolicy(false), confirmer, nil, Options{})

	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Deleted)
}

func TestConfirmationSkippedUnderDryRun(t *testing.T) {
	fake := providers.NewFake("acme")
	fake.Add(freeDisk("disk-1"))

	// No confirmer at all: dry-run must not need one.
	engine := NewEngine(fake, diskPolicy(true), nil, nil, Options{})
	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Simulated)
}

func TestDryRunAndExecuteDecideIdentically(t *testing.T) {
	build := func() *providers.Fake {
		f := providers.NewFake("acme")
		f.Add(freeDisk("disk-free"))
		f.Add(types.Resource{Category: types.CategoryDisk, ID: "disk-busy", Usage: types.Usage64(9)})
		f.Add(types.Resource{Category: types.CategoryDisk, ID: "disk-deps", Usage: types.Usage64(0), Dependents: []string{"snap-1"}})
		return f
	}

	dry := NewEngine(build(), diskPolicy(true), nil, nil, Options{})
	drySummary, err := dry.Run(context.Background())
	require.NoError(t, err)

	live := NewEngine(build(), diskPolicy(false), AutoConfirmer{}, nil, Options{})
	liveSummary, err := live.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, len(drySummary.Decisions), len(liveSummary.Decisions))
	for i := range drySummary.Decisions {
		assert.Equal(t, drySummary.Decisions[i].Action, liveSummary.Decisions[i].Action)
		assert.Equal(t, drySummary.Decisions[i].Reason, liveSummary.Decisions[i].Reason)
	}
}

func TestExpensiveResourceGate(t *testing.T) {
	fake := providers.NewFake("acme")
	fake.Add(types.Resource{Category: types.CategorySQLInstance, ID: "sql-idle", Usage: types.Usage64(0)})

	policy := config.Policy{
		DryRun:     false,
		Categories: map[types.Category]bool{types.CategorySQLInstance: true},
	}

	engine := NewEngine(fake, policy, AutoConfirmer{}, nil, Options{})
	summary, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Decisions, 1)
	assert.Equal(t, types.ReasonExpensiveDisabled, summary.Decisions[0].Reason)

	policy.ExpensiveCleanupEnabled = true
	engine = NewEngine(fake, policy, AutoConfirmer{}, nil, Options{})
	summary, err = engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Deleted)
}

type recordingJournal struct {
	entries []types.Decision
}

func (j *recordingJournal) AppendDecision(runID string, d types.Decision) error {
	j.entries = append(j.entries, d)
	return nil
}

func TestDecisionsAreJournaled(t *testing.T) {
	fake := providers.NewFake("acme")
	fake.Add(freeDisk("disk-1"))
	fake.Add(types.Resource{Category: types.CategoryDisk, ID: "disk-busy", Usage: types.Usage64(3)})

	journal := &recordingJournal{}
	engine := NewEngine(fake, diskPolicy(false), AutoConfirmer{}, journal, Options{})

	_, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, journal.entries, 2, "every decision is journaled, including skips")
}

func TestTerminalConfirmerAnswers(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"no\n", false},
		{"\n", false},
		{"yep\n", false},
	}

	for _, tt := range tests {
		c := &TerminalConfirmer{In: strings.NewReader(tt.input), Out: &strings.Builder{}}
		got, err := c.Confirm(context.Background(), ConfirmationRequest{Project: "acme", ResourceCount: 1})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
