package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudsweep/cloudsweep/types"
)

// Fake is an in-memory provider for tests and offline runs. It records
// every mutating call so tests can assert that dry runs never touch it.
type Fake struct {
	mu sync.Mutex

	ProjectID string
	Resources map[types.Category][]types.Resource

	// UsageByID overrides usage lookups; absent IDs report unknown.
	UsageByID map[string]*int64

	// DependentsByID overrides dependents lookups.
	DependentsByID map[string][]string

	// FailList makes List fail for the given categories.
	FailList map[types.Category]error

	// FailMutate makes Delete/Disable fail for the given IDs.
	FailMutate map[string]error

	Deleted  []string
	Disabled []string
}

// NewFake creates an empty fake provider.
func NewFake(project string) *Fake {
	return &Fake{
		ProjectID:      project,
		Resources:      make(map[types.Category][]types.Resource),
		UsageByID:      make(map[string]*int64),
		DependentsByID: make(map[string][]string),
		FailList:       make(map[types.Category]error),
		FailMutate:     make(map[string]error),
	}
}

// Add registers a resource under its category.
func (f *Fake) Add(r types.Resource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Resources[r.Category] = append(f.Resources[r.Category], r)
}

func (f *Fake) List(ctx context.Context, category types.Category) ([]types.Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailList[category]; ok {
		return nil, err
	}
	out := make([]types.Resource, len(f.Resources[category]))
	copy(out, f.Resources[category])
	return out, nil
}

func (f *Fake) Usage(ctx context.Context, id string) (*int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.UsageByID[id]; ok {
		return u, nil
	}
	// Fall back to the usage recorded on the resource itself.
	for _, list := range f.Resources {
		for _, r := range list {
			if r.ID == id {
				return r.Usage, nil
			}
		}
	}
	return nil, nil
}

func (f *Fake) Dependents(ctx context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if deps, ok := f.DependentsByID[id]; ok {
		return deps, nil
	}
	for _, list := range f.Resources {
		for _, r := range list {
			if r.ID == id {
				return r.Dependents, nil
			}
		}
	}
	return nil, nil
}

func (f *Fake) Disable(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailMutate[id]; ok {
		return err
	}
	f.Disabled = append(f.Disabled, id)
	return nil
}

func (f *Fake) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.FailMutate[id]; ok {
		return err
	}
	f.Deleted = append(f.Deleted, id)
	return nil
}

func (f *Fake) Name() string    { return "fake" }
func (f *Fake) Project() string { return f.ProjectID }

// MutationCount returns how many mutating calls the fake has seen.
func (f *Fake) MutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Deleted) + len(f.Disabled)
}

var _ ResourceProvider = (*Fake)(nil)

func init() {
	RegisterProvider("fake", func(ctx context.Context, config ProviderConfig) (ResourceProvider, error) {
		if config.Project == "" {
			return nil, fmt.Errorf("fake provider requires a project")
		}
		return NewFake(config.Project), nil
	})
}
