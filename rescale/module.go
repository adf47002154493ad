package rescale

import (
	"log"

	"github.com/gomker/partscale/config"
	"github.com/gomker/partscale/part"
	"github.com/gomker/partscale/scaletype"
	"github.com/gomker/partscale/vmath"
)

// EngineVersion is stamped into persisted state so future versions can
// migrate old saves
const EngineVersion = "1.0"

// unsetScale is the sentinel marking a module that has never completed
// its first setup
const unsetScale = -1.0

// Module is the per-part rescale engine. It owns the part's scale state
// machine and is the only writer of that state; the host polls OnTick
// once per simulation frame.
type Module struct {
	part     *part.Part
	modCfg   *config.Module
	registry *scaletype.Registry
	gate     scaletype.Gate

	dirtier      Dirtier
	overrideHeld func() bool
	interactive  bool

	cfg *scaletype.PartConfig

	// persisted state
	selected     float64
	index        int
	current      float64
	defaultScale float64
	free         bool
	dryCost      float64
	version      string
	baseScale    vmath.Vec3

	phase         Phase
	recordedScale vmath.Vec3
	setupDone     bool
	sawParent     bool
	disabled      bool

	loggedDuplicate   bool
	loggedEmptyTable  bool
	missingNodeLogged map[string]bool

	updaters []Updater
}

// New creates a rescale module for a part. modCfg may be nil, in which
// case the part behaves as the default scale class. The caller is
// expected to add the module to the part.
func New(p *part.Part, modCfg *config.Module, registry *scaletype.Registry, gate scaletype.Gate) *Module {
	if modCfg == nil {
		modCfg = &config.Module{}
	}
	if registry == nil {
		registry = scaletype.NewRegistry()
	}
	return &Module{
		part:              p,
		modCfg:            modCfg,
		registry:          registry,
		gate:              gate,
		selected:          unsetScale,
		index:             -1,
		current:           unsetScale,
		defaultScale:      unsetScale,
		phase:             PhaseUninitialized,
		missingNodeLogged: make(map[string]bool),
	}
}

// SetInteractive marks the module as running in an interactive editing
// context; change detection and cascades only happen while interactive
func (m *Module) SetInteractive(v bool) { m.interactive = v }

// SetDirtier installs the UI collaborator
func (m *Module) SetDirtier(d Dirtier) { m.dirtier = d }

// SetOverrideProbe installs the modifier-key probe that suppresses the
// cascade of a user edit
func (m *Module) SetOverrideProbe(f func() bool) { m.overrideHeld = f }

// AddUpdater attaches an updater directly, in addition to any produced by
// registered factories during setup
func (m *Module) AddUpdater(u Updater) {
	if u != nil {
		m.updaters = append(m.updaters, u)
	}
}

// Accessors for the resolved state

func (m *Module) Part() *part.Part               { return m.part }
func (m *Module) Config() *scaletype.PartConfig  { return m.cfg }
func (m *Module) Selected() float64              { return m.selected }
func (m *Module) SelectedIndex() int             { return m.index }
func (m *Module) Current() float64               { return m.current }
func (m *Module) DefaultScale() float64          { return m.defaultScale }
func (m *Module) Free() bool                     { return m.free }
func (m *Module) DryCost() float64               { return m.dryCost }
func (m *Module) Disabled() bool                 { return m.disabled }
func (m *Module) CurrentPhase() Phase            { return m.phase }

// AvailableFactors returns the tech-unlocked view of the factor table,
// for selection UIs. Snapping always uses the full table.
func (m *Module) AvailableFactors() []float64 {
	if m.cfg == nil {
		return nil
	}
	return m.cfg.UnlockedFactors(m.gate)
}

// AvailableNames returns the labels paired with AvailableFactors
func (m *Module) AvailableNames() []string {
	if m.cfg == nil {
		return nil
	}
	return m.cfg.UnlockedNames(m.gate)
}

// Factor returns the on-demand scaling factor for the committed scale
func (m *Module) Factor() Factor {
	return m.factor(m.current)
}

func (m *Module) factor(prev float64) Factor {
	abs, rel := 1.0, 1.0
	if m.defaultScale > 0 {
		abs = m.selected / m.defaultScale
	}
	if prev > 0 {
		rel = m.selected / prev
	}
	idx := -1
	if !m.free {
		idx = m.index
	}
	return Factor{Absolute: abs, Relative: rel, Index: idx}
}

// Setup transitions the module out of the uninitialized phase. It runs at
// most once per instance and is a no-op until the part's static
// definition is available. A first-ever setup captures the baseline; a
// module restored from persisted state is reconciled instead: the
// selection is snapped, geometry reapplied without moving neighbors, and
// updaters notified once.
func (m *Module) Setup() {
	if m.setupDone || m.disabled {
		return
	}
	if m.part == nil || m.part.Def == nil {
		return
	}
	if dup := m.firstModuleOnPart(); dup != nil && dup != m {
		if !m.loggedDuplicate {
			log.Printf("rescale: part %s carries more than one rescale module, disabling duplicate", m.part.UID)
			m.loggedDuplicate = true
		}
		m.disabled = true
		return
	}

	m.cfg = scaletype.ForModule(m.modCfg, m.registry)
	if !m.cfg.Free && len(m.cfg.Factors) == 0 {
		if !m.loggedEmptyTable {
			log.Printf("rescale: part %s resolved an empty factor table, disabling", m.part.UID)
			m.loggedEmptyTable = true
		}
		m.disabled = true
		return
	}

	m.instantiateUpdaters()

	if m.current == unsetScale {
		m.firstSetup()
	} else {
		m.reconcileLoaded()
	}

	m.setupDone = true
	m.phase = PhaseStable
}

func (m *Module) firstSetup() {
	def := m.part.Def

	m.free = m.cfg.Free
	m.defaultScale = m.cfg.DefaultScale
	m.index = m.cfg.DefaultIndex
	m.selected = m.defaultScale
	m.current = m.defaultScale
	m.version = EngineVersion
	m.baseScale = def.BaseScale
	m.recordedScale = m.part.Transform.Scale

	dry := def.ListPrice - resourceValue(def.Resources)
	if dry < 0 {
		dry = 0
	}
	m.dryCost = dry
}

// reconcileLoaded brings a persisted state back in sync with the freshly
// instantiated prefab geometry. This is not a user edit: neighbors stay
// put and nothing cascades, but updaters fire once when the applied scale
// differs from the prefab baseline.
func (m *Module) reconcileLoaded() {
	if m.defaultScale <= 0 {
		m.defaultScale = m.cfg.DefaultScale
	}

	if m.free {
		m.selected = vmath.Clamp(m.selected, m.cfg.MinScale, m.cfg.MaxScale)
	} else {
		m.index = m.cfg.SnapIndex(m.selected)
		m.selected = m.cfg.Factors[m.index]
	}
	m.version = EngineVersion

	prev := m.current
	changed := !vmath.Approx(m.selected, prev, eps)
	abs := m.selected / m.defaultScale
	if changed || !vmath.Approx(abs, 1, eps) {
		f := m.factor(prev)
		m.updateByWidth(f, false)
		m.notifyUpdaters(f)
		m.current = m.selected
	} else {
		m.recordedScale = m.part.Transform.Scale
	}
}

func (m *Module) instantiateUpdaters() {
	for _, name := range UpdaterNames() {
		factory, ok := getUpdaterFactory(name)
		if !ok {
			continue
		}
		if u := factory(m.part, m.cfg); u != nil {
			m.updaters = append(m.updaters, u)
		}
	}
}

func (m *Module) notifyUpdaters(f Factor) {
	for _, u := range m.updaters {
		u.OnRescale(f)
	}
}

// OnTick implements part.Module. All engine work happens here, on the
// host's per-frame callback.
func (m *Module) OnTick() {
	if m.disabled {
		return
	}
	if !m.setupDone {
		m.Setup()
		if !m.setupDone {
			return
		}
	}

	for _, u := range m.updaters {
		if tu, ok := u.(TickUpdater); ok {
			tu.OnTickUpdate()
		}
	}

	if !m.interactive {
		return
	}

	m.inheritParentScale()

	switch decide(m.current, m.liveSelected(), m.part.Transform.Scale, m.recordedScale) {
	case actionApply:
		m.phase = PhasePendingApply
		visited := map[*Module]bool{m: true}
		cascade := m.overrideHeld == nil || !m.overrideHeld()
		m.applyScale(m.liveSelected(), cascade, visited)
		m.phase = PhaseStable
	case actionHeal:
		m.updateByWidth(m.factor(m.current), false)
	}
}

// liveSelected is the user-facing selection: the continuous value for
// free scaling, the factor at the selected index otherwise
func (m *Module) liveSelected() float64 {
	if m.free {
		return m.selected
	}
	if m.index >= 0 && m.index < len(m.cfg.Factors) {
		return m.cfg.Factors[m.index]
	}
	return m.selected
}

// inheritParentScale runs exactly once, the first tick the part has a
// parent: a newly attached part adopts the parent's applied scale instead
// of its default, provided both run the same named scale class. The
// adoption goes through the normal change path on this same tick.
func (m *Module) inheritParentScale() {
	if m.sawParent || m.part.Parent == nil {
		return
	}
	m.sawParent = true

	pm := moduleOf(m.part.Parent)
	if pm == nil || !pm.setupDone || pm.disabled {
		return
	}
	if !scaletype.SameClass(&m.cfg.ScaleType, &pm.cfg.ScaleType) {
		return
	}

	if m.free {
		m.selected = vmath.Clamp(pm.current, m.cfg.MinScale, m.cfg.MaxScale)
	} else if idx := m.cfg.SnapIndex(pm.current); idx >= 0 {
		m.index = idx
	}
}

// applyScale commits a new selection: snap, cascade, geometry with
// neighbor movement, UI dirty mark, updater fan-out, commit
func (m *Module) applyScale(target float64, cascade bool, visited map[*Module]bool) {
	prev := m.current

	if !m.free && m.index >= 0 && m.index < len(m.cfg.Factors) {
		m.selected = m.cfg.Factors[m.index]
	} else {
		m.selected = vmath.Clamp(target, m.cfg.MinScale, m.cfg.MaxScale)
	}

	if cascade {
		m.chainScale(prev, visited)
	}

	f := m.factor(prev)
	m.updateByWidth(f, true)
	if m.dirtier != nil {
		m.dirtier.MarkDirty(m.part)
	}
	m.notifyUpdaters(f)
	m.current = m.selected
}

// chainScale propagates the new scale to directly attached children that
// run the same named scale class and were locked to this part's pre-change
// scale. Depth-first and synchronous; the visited set guards against a
// corrupted (cyclic) attachment topology even though the host asserts the
// tree is acyclic.
func (m *Module) chainScale(prev float64, visited map[*Module]bool) {
	for _, child := range m.part.Children {
		cm := moduleOf(child)
		if cm == nil || cm.disabled || visited[cm] {
			continue
		}
		if !cm.setupDone {
			cm.Setup()
			if !cm.setupDone {
				continue
			}
		}
		if !scaletype.SameClass(&cm.cfg.ScaleType, &m.cfg.ScaleType) {
			continue
		}
		if !vmath.Approx(cm.current, prev, eps) {
			continue
		}

		visited[cm] = true
		cm.index = m.index
		cm.applyScale(m.selected, true, visited)
	}
}

// User edit surface. Edits mutate only the selection; the change is
// detected and applied on the next tick, so the applied scale lags the
// selection by at most one tick.

// SetSelectedIndex selects a discrete factor by index, clamped into the
// table. No-op for free scaling or before setup.
func (m *Module) SetSelectedIndex(i int) {
	if m.disabled || !m.setupDone || m.free {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(m.cfg.Factors) {
		i = len(m.cfg.Factors) - 1
	}
	m.index = i
}

// StepSelectedIndex moves the discrete selection by delta steps
func (m *Module) StepSelectedIndex(delta int) {
	if m.disabled || !m.setupDone || m.free {
		return
	}
	m.SetSelectedIndex(m.index + delta)
}

// SetSelectedValue selects a continuous value, clamped into the bounds.
// No-op for discrete scaling or before setup.
func (m *Module) SetSelectedValue(v float64) {
	if m.disabled || !m.setupDone || !m.free {
		return
	}
	m.selected = vmath.Clamp(v, m.cfg.MinScale, m.cfg.MaxScale)
}

// firstModuleOnPart returns the first rescale module in the part's module
// list, the one that stays interactive when duplicates exist
func (m *Module) firstModuleOnPart() *Module {
	for _, mod := range m.part.Modules {
		if rm, ok := mod.(*Module); ok {
			return rm
		}
	}
	return nil
}

func moduleOf(p *part.Part) *Module {
	for _, mod := range p.Modules {
		if rm, ok := mod.(*Module); ok {
			return rm
		}
	}
	return nil
}

func resourceValue(rs []part.Resource) float64 {
	total := 0.0
	for i := range rs {
		total += rs[i].MaxAmount * rs[i].UnitCost
	}
	return total
}
