package rescale

import (
	"testing"

	"github.com/gomker/partscale/vmath"
)

// TestDecide exercises the pure transition function without a tick loop
func TestDecide(t *testing.T) {
	unit := vmath.Vec3{X: 1, Y: 1, Z: 1}
	double := vmath.Vec3{X: 2, Y: 2, Z: 2}

	cases := []struct {
		name     string
		current  float64
		live     float64
		scale    vmath.Vec3
		recorded vmath.Vec3
		want     action
	}{
		{"steady state", 1.25, 1.25, unit, unit, actionNone},
		{"user selection diverged", 1.25, 2.5, unit, unit, actionApply},
		{"external transform reset", 2.5, 2.5, unit, double, actionHeal},
		{"selection wins over transform", 1.25, 2.5, unit, double, actionApply},
		{"float noise ignored", 1.25, 1.25 + 1e-9, unit, unit, actionNone},
	}

	for _, c := range cases {
		if got := decide(c.current, c.live, c.scale, c.recorded); got != c.want {
			t.Errorf("%s: expected action %d, got %d", c.name, c.want, got)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseUninitialized.String() != "uninitialized" ||
		PhaseStable.String() != "stable" ||
		PhasePendingApply.String() != "pending-apply" {
		t.Error("unexpected phase names")
	}
}

func TestFactorPow(t *testing.T) {
	f := Factor{Absolute: 2, Relative: 0.5, Index: 2}

	if got := f.Pow(3); got != 8 {
		t.Errorf("expected volume ratio 8, got %v", got)
	}
	if got := f.Pow(1); got != 2 {
		t.Errorf("expected linear ratio 2, got %v", got)
	}
	if got := f.RelativePow(2); got != 0.25 {
		t.Errorf("expected relative area ratio 0.25, got %v", got)
	}
}
