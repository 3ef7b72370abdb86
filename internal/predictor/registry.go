package predictor

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
)

type Factory func() Predictor

// Registry maps predictor names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(name string, factory Factory) error {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return fmt.Errorf("predictor name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("predictor %q has nil factory", clean)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[clean]; exists {
		return fmt.Errorf("predictor %q already registered", clean)
	}
	r.factories[clean] = factory
	return nil
}

// New builds a fresh, not yet set up predictor.
func (r *Registry) New(name string) (Predictor, error) {
	r.mu.RLock()
	factory, ok := r.factories[strings.TrimSpace(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnknownPredictor, name, strings.Join(r.Names(), ", "))
	}
	return factory(), nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.factories)
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
