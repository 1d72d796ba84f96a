package config

import (
	"os"
	"testing"

	"github.com/cloudsweep/cloudsweep/types"
)

func TestLoad(t *testing.T) {
	// Create a temp config file
	content := `
version: v1
provider: aws
region: us-east-1
project: acme-prod

policy:
  essential_allowlist:
    - compute.googleapis.com
    - disk-bootvol-prod
  retention_days:
    snapshot: 14
    image: 60
  dry_run: true
  expensive_cleanup: false
  categories:
    disk: true
    snapshot: true
`
	tmpfile, err := os.CreateTemp("", "cloudsweep-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Project != "acme-prod" {
		t.Errorf("Project = %v, want acme-prod", cfg.Project)
	}
	if !cfg.Policy.DryRun {
		t.Error("DryRun should be true")
	}
	if days, ok := cfg.Policy.Retention(types.CategorySnapshot); !ok || days != 14 {
		t.Errorf("Retention(snapshot) = %d, %v, want 14, true", days, ok)
	}
	if !cfg.Policy.IsEssential("compute.googleapis.com", "") {
		t.Error("allowlisted API should be essential")
	}
	if !cfg.Policy.CategoryEnabled(types.CategoryDisk) {
		t.Error("disk category should be enabled")
	}
	if cfg.Policy.CategoryEnabled(types.CategoryBucket) {
		t.Error("bucket category not listed, should be disabled")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Version:  "v1",
				Provider: "aws",
				Project:  "acme",
			},
			wantErr: false,
		},
		{
			name:    "missing version",
			config:  Config{Provider: "aws", Project: "acme"},
			wantErr: true,
		},
		{
			name:    "missing provider",
			config:  Config{Version: "v1", Project: "acme"},
			wantErr: true,
		},
		{
			name:    "missing project",
			config:  Config{Version: "v1", Provider: "aws"},
			wantErr: true,
		},
		{
			name: "bad category",
			config: Config{
				Version: "v1", Provider: "aws", Project: "acme",
				Policy: Policy{Categories: map[types.Category]bool{"volume": true}},
			},
			wantErr: true,
		},
		{
			name: "negative retention",
			config: Config{
				Version: "v1", Provider: "aws", Project: "acme",
				Policy: Policy{RetentionDays: map[types.Category]int{types.CategorySnapshot: -1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsEssentialVerbatim(t *testing.T) {
	p := Policy{EssentialAllowlist: []string{"disk-prod"}}

	if p.IsEssential("disk-prod-2", "") {
		t.Error("allowlist matching must be verbatim, not prefix")
	}
	if !p.IsEssential("other-id", "disk-prod") {
		t.Error("allowlist should match resource name too")
	}
}

func TestEnabledCategoriesOrder(t *testing.T) {
	p := Policy{}
	got := p.EnabledCategories()
	want := types.AllCategories()
	if len(got) != len(want) {
		t.Fatalf("EnabledCategories() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EnabledCategories()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
