package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cloudsweep/cloudsweep/config"
	"github.com/cloudsweep/cloudsweep/types"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestClassifyRuleOrder(t *testing.T) {
	policy := config.Policy{
		EssentialAllowlist: []string{"sql-core"},
		RetentionDays:      map[types.Category]int{types.CategorySnapshot: 30},
	}

	tests := []struct {
		name     string
		resource types.Resource
		want     types.LabelSet
	}{
		{
			name: "essential expensive sql instance keeps both labels in rule order",
			resource: types.Resource{
				Category: types.CategorySQLInstance,
				ID:       "sql-core",
				Usage:    types.Usage64(0),
			},
			want: types.LabelSet{types.LabelEssential, types.LabelExpensive, types.LabelUnused},
		},
		{
			name: "public bucket",
			resource: types.Resource{
				Category:         types.CategoryBucket,
				ID:               "assets",
				PublicPrincipals: []string{"allUsers"},
			},
			want: types.LabelSet{types.LabelPublic},
		},
		{
			name: "orphaned unused disk",
			resource: types.Resource{
				Category: types.CategoryDisk,
				ID:       "disk-1",
				Usage:    types.Usage64(0),
			},
			want: types.LabelSet{types.LabelUnused, types.LabelOrphaned},
		},
		{
			name: "attached disk is not orphaned",
			resource: types.Resource{
				Category:   types.CategoryDisk,
				ID:         "disk-2",
				AttachedTo: []string{"instance-1"},
			},
			want: nil,
		},
		{
			name: "unknown usage never yields unused",
			resource: types.Resource{
				Category:   types.CategoryAPI,
				ID:         "ml.api.local",
				AttachedTo: []string{"x"},
			},
			want: nil,
		},
		{
			name: "stale snapshot past retention",
			resource: types.Resource{
				Category:   types.CategorySnapshot,
				ID:         "snap-old",
				CreatedAt:  now.AddDate(0, 0, -45),
				AttachedTo: []string{"disk-1"},
			},
			want: types.LabelSet{types.LabelStale},
		},
		{
			name: "snapshot with unknown age is never stale",
			resource: types.Resource{
				Category:   types.CategorySnapshot,
				ID:         "snap-unknown",
				AttachedTo: []string{"disk-1"},
			},
			want: nil,
		},
		{
			name: "unlabeled instance",
			resource: types.Resource{
				Category: types.CategoryInstance,
				ID:       "vm-1",
			},
			want: types.LabelSet{types.LabelUnlabeled},
		},
		{
			name: "labeled secret is fine but still expensive",
			resource: types.Resource{
				Category: types.CategorySecret,
				ID:       "key-1",
				Labels:   map[string]string{"team": "platform"},
			},
			want: types.LabelSet{types.LabelExpensive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.resource, policy, now)
			if !got.Equal(tt.want) {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	policy := config.DefaultPolicy()
	r := types.Resource{
		Category:  types.CategorySnapshot,
		ID:        "snap-1",
		CreatedAt: now.AddDate(0, 0, -90),
		Usage:     types.Usage64(0),
	}

	first := Classify(r, policy, now)
	second := Classify(r, policy, now)
	assert.True(t, first.Equal(second), "classify must be idempotent for an unchanged record")
}

func TestSafeToRemove(t *testing.T) {
	policy := config.Policy{EssentialAllowlist: []string{"core-api"}}

	tests := []struct {
		name       string
		resource   types.Resource
		policy     config.Policy
		wantSafe   bool
		wantReason types.Reason
	}{
		{
			name: "essential is never safe regardless of usage",
			resource: types.Resource{
				Category: types.CategoryAPI,
				ID:       "core-api",
				Usage:    types.Usage64(0),
			},
			policy:     policy,
			wantSafe:   false,
			wantReason: types.ReasonEssential,
		},
		{
			name: "unknown usage is never safe",
			resource: types.Resource{
				Category: types.CategoryDisk,
				ID:       "disk-1",
			},
			policy:     policy,
			wantSafe:   false,
			wantReason: types.ReasonUsageUnknown,
		},
		{
			name: "nonzero usage is not safe",
			resource: types.Resource{
				Category: types.CategoryDisk,
				ID:       "disk-2",
				Usage:    types.Usage64(7),
			},
			policy:     policy,
			wantSafe:   false,
			wantReason: types.ReasonHasUsage,
		},
		{
			name: "dependents block removal",
			resource: types.Resource{
				Category:   types.CategoryDisk,
				ID:         "disk-3",
				Usage:      types.Usage64(0),
				Dependents: []string{"snap-1"},
			},
			policy:     policy,
			wantSafe:   false,
			wantReason: types.ReasonHasDependents,
		},
		{
			name: "expensive blocked unless enabled",
			resource: types.Resource{
				Category: types.CategorySQLInstance,
				ID:       "sql-1",
				Usage:    types.Usage64(0),
			},
			policy:     policy,
			wantSafe:   false,
			wantReason: types.ReasonExpensiveDisabled,
		},
		{
			name: "expensive allowed when enabled",
			resource: types.Resource{
				Category: types.CategorySQLInstance,
				ID:       "sql-1",
				Usage:    types.Usage64(0),
			},
			policy:     config.Policy{ExpensiveCleanupEnabled: true},
			wantSafe:   true,
			wantReason: types.ReasonConfirmedSafe,
		},
		{
			name: "unattached zero-usage disk is safe",
			resource: types.Resource{
				Category: types.CategoryDisk,
				ID:       "disk-free",
				Usage:    types.Usage64(0),
			},
			policy:     policy,
			wantSafe:   true,
			wantReason: types.ReasonConfirmedSafe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeToRemove(tt.resource, tt.policy)
			assert.Equal(t, tt.wantSafe, got.Safe)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestPublicDoesNotAffectSafety(t *testing.T) {
	// Public exposure and deletion safety are orthogonal.
	policy := config.Policy{}
	public := types.Resource{
		Category:         types.CategoryBucket,
		ID:               "bucket-open",
		Usage:            types.Usage64(0),
		PublicPrincipals: []string{"allUsers"},
	}
	private := public
	private.PublicPrincipals = nil

	assert.Equal(t, SafeToRemove(private, policy), SafeToRemove(public, policy))
	assert.True(t, Classify(public, policy, now).Has(types.LabelPublic))
}
