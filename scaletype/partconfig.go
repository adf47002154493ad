package scaletype

import (
	"github.com/gomker/partscale/config"
	"github.com/gomker/partscale/vmath"
)

// PartConfig is the merged scale configuration for one part instance: the
// module's own config node layered over the named class it references.
// DefaultIndex is the snapped position of DefaultScale in the factor
// table, -1 for free scaling.
type PartConfig struct {
	ScaleType
	DefaultIndex int
}

// ForModule resolves a part module's merged configuration. A module with
// no explicit class behaves as the default class. DefaultScale is clamped
// into the bounds and, for discrete classes, snapped to the nearest
// factor in the full table. Tech gating is ignored for snapping.
func ForModule(mod *config.Module, r *Registry) *PartConfig {
	base := r.Resolve(mod.ScaleClass)

	t := overlay(*base, &mod.ClassOverride)
	normalize(&t)

	pc := &PartConfig{
		ScaleType:    t,
		DefaultIndex: -1,
	}

	d := vmath.Clamp(t.DefaultScale, t.MinScale, t.MaxScale)
	if !t.Free && len(t.Factors) > 0 {
		pc.DefaultIndex = vmath.NearestIndex(t.Factors, d)
		d = t.Factors[pc.DefaultIndex]
	}
	pc.DefaultScale = d
	return pc
}

// SnapIndex returns the index of the factor nearest to v in the full
// table, -1 when the table is empty
func (pc *PartConfig) SnapIndex(v float64) int {
	return vmath.NearestIndex(pc.Factors, v)
}
