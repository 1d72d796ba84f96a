package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudsweep/cloudsweep/types"
)

// ResourceProvider is the read/write capability the engine consumes.
// Collectors only call List; the cleanup engine additionally calls
// Usage, Dependents, Disable and Delete. Implementations carry their
// own request timeouts so no call blocks indefinitely.
type ResourceProvider interface {
	// List returns all resources of one category. Categories the
	// backend has no analogue for return an empty list, not an error.
	List(ctx context.Context, category types.Category) ([]types.Resource, error)

	// Usage returns the usage count for a resource, or nil when usage
	// data is unavailable. Nil is "unknown", never zero.
	Usage(ctx context.Context, id string) (*int64, error)

	// Dependents returns the IDs of resources depending on id.
	Dependents(ctx context.Context, id string) ([]string, error)

	// Disable turns a resource off without deleting it (APIs).
	Disable(ctx context.Context, id string) error

	// Delete removes a resource permanently.
	Delete(ctx context.Context, id string) error

	// Provider info
	Name() string
	Project() string
}

// ProviderConfig holds provider construction settings.
type ProviderConfig struct {
	Region  string
	Project string
}

// ProviderFactory creates a provider instance.
type ProviderFactory func(ctx context.Context, config ProviderConfig) (ResourceProvider, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]ProviderFactory)
)

// RegisterProvider registers a new provider factory.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// GetProvider creates a provider instance by name.
func GetProvider(ctx context.Context, name string, config ProviderConfig) (ResourceProvider, error) {
	mu.RLock()
	factory, exists := factories[name]
	mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("provider %s not found", name)
	}
	return factory(ctx, config)
}

// ListProviders returns available provider names.
func ListProviders() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
