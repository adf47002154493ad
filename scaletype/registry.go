package scaletype

import (
	"log"
	"sync"

	"github.com/gomker/partscale/config"
)

// Registry caches resolved scale classes for a session. Load populates it
// once per configuration database load; afterwards it is read-only.
type Registry struct {
	mu       sync.RWMutex
	resolved map[string]*ScaleType
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		resolved: make(map[string]*ScaleType),
	}
}

// Load builds the resolved class set from the database's scale-class
// entries. Inheritance through the type reference is resolved here, once;
// a cycle is rejected with a warning and the offending class falls back
// to the default record.
func (r *Registry) Load(db *config.Database) {
	defs := make(map[string]*config.ScaleClass)
	for _, def := range db.ScaleClasses() {
		if _, dup := defs[def.Name]; dup {
			log.Printf("scaletype: duplicate class %q, keeping first", def.Name)
			continue
		}
		defs[def.Name] = def
	}

	resolved := make(map[string]*ScaleType, len(defs))
	for name := range defs {
		resolved[name] = resolveDef(name, defs, map[string]bool{})
	}

	r.mu.Lock()
	r.resolved = resolved
	r.mu.Unlock()
	log.Printf("scaletype: registry loaded %d class(es)", len(resolved))
}

// resolveDef merges a definition over its resolved parent chain. visiting
// tracks the active chain for cycle rejection.
func resolveDef(name string, defs map[string]*config.ScaleClass, visiting map[string]bool) *ScaleType {
	def := defs[name]
	if def == nil {
		return DefaultType()
	}
	if visiting[name] {
		log.Printf("scaletype: inheritance cycle through class %q, using default", name)
		return DefaultType()
	}
	visiting[name] = true
	defer delete(visiting, name)

	base := DefaultType()
	if def.Type != "" && def.Type != DefaultName {
		if _, ok := defs[def.Type]; ok {
			base = resolveDef(def.Type, defs, visiting)
		} else {
			log.Printf("scaletype: class %q references unknown parent %q, using default", name, def.Type)
		}
	}

	t := overlay(*base, &def.ClassOverride)
	t.Name = def.Name
	normalize(&t)
	return &t
}

// Resolve returns the named class. The empty name and the "default"
// sentinel resolve silently to the hard-coded default; an unknown name
// logs a warning and also falls back.
func (r *Registry) Resolve(name string) *ScaleType {
	if name == "" || name == DefaultName {
		return DefaultType()
	}

	r.mu.RLock()
	t, ok := r.resolved[name]
	r.mu.RUnlock()
	if !ok {
		log.Printf("scaletype: unknown class %q, using default", name)
		return DefaultType()
	}
	return t
}

// Names returns all registered class names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.resolved))
	for name := range r.resolved {
		names = append(names, name)
	}
	return names
}
