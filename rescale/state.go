package rescale

import (
	"github.com/gomker/partscale/save"
	"github.com/gomker/partscale/vmath"
)

// State snapshots the module's persisted field set
func (m *Module) State() save.ModuleState {
	return save.ModuleState{
		Selected:      m.selected,
		SelectedIndex: m.index,
		Current:       m.current,
		DefaultScale:  m.defaultScale,
		Free:          m.free,
		Version:       m.version,
		DryCost:       m.dryCost,
		BaseScale:     [3]float64{m.baseScale.X, m.baseScale.Y, m.baseScale.Z},
	}
}

// RestoreState loads a persisted snapshot and rewinds the lifecycle so
// the next Setup reconciles it against the prefab
func (m *Module) RestoreState(st save.ModuleState) {
	m.selected = st.Selected
	m.index = st.SelectedIndex
	m.current = st.Current
	m.defaultScale = st.DefaultScale
	m.free = st.Free
	m.version = st.Version
	m.dryCost = st.DryCost
	m.baseScale = vmath.Vec3{X: st.BaseScale[0], Y: st.BaseScale[1], Z: st.BaseScale[2]}

	m.setupDone = false
	m.phase = PhaseUninitialized
}

// SaveTo writes the module's state to the save store under the part's UID
func (m *Module) SaveTo(store *save.Store) error {
	return store.SaveModuleState(m.part.UID, m.State())
}

// LoadFrom restores the module from the save store. Returns false when
// the store has no state for this part.
func (m *Module) LoadFrom(store *save.Store) (bool, error) {
	st, ok, err := store.LoadModuleState(m.part.UID)
	if err != nil || !ok {
		return ok, err
	}
	m.RestoreState(st)
	return true, nil
}
