package rescale

import (
	"sort"
	"sync"

	"github.com/gomker/partscale/part"
	"github.com/gomker/partscale/scaletype"
)

// Updater is the capability secondary-attribute systems implement to
// react to a resolved scale change. OnRescale is called exactly once per
// change, including the one-time reconciliation of a loaded part; it is
// never called speculatively.
type Updater interface {
	OnRescale(f Factor)
}

// TickUpdater is the optional second capability: OnTickUpdate is polled
// every tick whether or not a scale change occurred
type TickUpdater interface {
	Updater
	OnTickUpdate()
}

// Dirtier is the UI collaborator contract: the engine marks a part's
// windows stale after an applied change
type Dirtier interface {
	MarkDirty(p *part.Part)
}

// UpdaterFactory builds an updater for a part during module setup.
// Returning nil declines the part.
type UpdaterFactory func(p *part.Part, cfg *scaletype.PartConfig) Updater

var (
	updatersMu       sync.RWMutex
	updaterFactories = make(map[string]UpdaterFactory)
)

// RegisterUpdater adds an updater factory by name. Typically called from
// init in the package providing the updater.
func RegisterUpdater(name string, factory UpdaterFactory) {
	updatersMu.Lock()
	defer updatersMu.Unlock()
	updaterFactories[name] = factory
}

// UnregisterUpdater removes a factory, mainly for tests
func UnregisterUpdater(name string) {
	updatersMu.Lock()
	defer updatersMu.Unlock()
	delete(updaterFactories, name)
}

// UpdaterNames returns registered factory names in sorted order so
// instantiation is deterministic
func UpdaterNames() []string {
	updatersMu.RLock()
	defer updatersMu.RUnlock()
	names := make([]string, 0, len(updaterFactories))
	for name := range updaterFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func getUpdaterFactory(name string) (UpdaterFactory, bool) {
	updatersMu.RLock()
	defer updatersMu.RUnlock()
	f, ok := updaterFactories[name]
	return f, ok
}
