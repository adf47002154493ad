// Package techgate answers "is this unlock requirement satisfied" against
// a cached unlock set. The set is populated only through Reload, typically
// at session or editor start; nothing else mutates it.
package techgate

import (
	"fmt"
	"sync"
)

// Source supplies the persisted list of unlocked requirement identifiers
type Source interface {
	UnlockedTechs() ([]string, error)
}

// Provider is a cached unlock-set lookup
type Provider struct {
	mu       sync.RWMutex
	loaded   bool
	unlocked map[string]struct{}
}

// NewProvider creates an empty, unloaded provider. An unloaded provider
// reports everything unlocked (sandbox behaviour); gating starts once a
// save has been loaded.
func NewProvider() *Provider {
	return &Provider{
		unlocked: make(map[string]struct{}),
	}
}

// Reload replaces the cached unlock set from the source
func (p *Provider) Reload(src Source) error {
	ids, err := src.UnlockedTechs()
	if err != nil {
		return fmt.Errorf("reload unlock set: %w", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	p.mu.Lock()
	p.unlocked = set
	p.loaded = true
	p.mu.Unlock()
	return nil
}

// IsUnlocked reports whether the requirement is satisfied. The empty
// requirement is always unlocked.
func (p *Provider) IsUnlocked(id string) bool {
	if id == "" {
		return true
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.loaded {
		return true
	}
	_, ok := p.unlocked[id]
	return ok
}

// defaultProvider is the process-wide provider; Reload is its single
// mutation entry point
var defaultProvider = NewProvider()

// Reload replaces the default provider's unlock set
func Reload(src Source) error {
	return defaultProvider.Reload(src)
}

// IsUnlocked queries the default provider
func IsUnlocked(id string) bool {
	return defaultProvider.IsUnlocked(id)
}

// Default returns the process-wide provider
func Default() *Provider {
	return defaultProvider
}
