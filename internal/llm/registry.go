package llm

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ProviderFactory builds a provider from its environment configuration.
type ProviderFactory func() (Provider, error)

var (
	registryMu sync.RWMutex
	providers  = make(map[string]ProviderFactory)
)

// RegisterProvider makes a backend available under name. Backends call it
// from init; registering the same name twice panics.
func RegisterProvider(name string, factory ProviderFactory) {
	key := strings.ToLower(name)
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("llm: RegisterProvider factory is nil for " + key)
	}
	if _, dup := providers[key]; dup {
		panic("llm: RegisterProvider called twice for " + key)
	}
	providers[key] = factory
}

func NewProvider(name string) (Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	registryMu.RLock()
	factory, exists := providers[key]
	registryMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unsupported provider %q (registered: %s)", name, strings.Join(RegisteredProviders(), ", "))
	}
	return factory()
}

// RegisteredProviders lists provider names in sorted order.
func RegisteredProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
