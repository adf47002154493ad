package rescale

import (
	"github.com/gomker/partscale/vmath"
)

// Phase is the module's explicit lifecycle state
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseStable
	PhasePendingApply
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseStable:
		return "stable"
	case PhasePendingApply:
		return "pending-apply"
	default:
		return "unknown"
	}
}

// action is the per-tick decision outcome
type action int

const (
	actionNone action = iota
	// actionApply: the live selection diverged from the committed scale,
	// a user-driven change must be applied (with cascade and updaters)
	actionApply
	// actionHeal: an external system reset the transform scale; reapply
	// geometry without cascade or updater notification
	actionHeal
)

const eps = 1e-6

// decide is the pure transition function: given the committed scale, the
// live selection, and the live vs last-recorded transform scale, it
// returns what this tick must do. A selection mismatch wins over a
// transform mismatch.
func decide(current, liveSelected float64, liveScale, recordedScale vmath.Vec3) action {
	if !vmath.Approx(liveSelected, current, eps) {
		return actionApply
	}
	if !vmath.V3Approx(liveScale, recordedScale, eps) {
		return actionHeal
	}
	return actionNone
}
