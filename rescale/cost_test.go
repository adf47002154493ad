package rescale

import (
	"testing"

	"github.com/gomker/partscale/config"
	"github.com/gomker/partscale/part"
)

// TestComputeCost verifies the delta-against-list-price convention:
// dry cost 10, list price 12, current resource value 4 gives 2
func TestComputeCost(t *testing.T) {
	reg := testRegistry(t)
	def := part.NewDefinition(&config.Part{
		Name:      "tank",
		ListPrice: 12,
		Resources: []config.Resource{
			{Name: "propellant", Amount: 2, MaxAmount: 2, UnitCost: 1},
		},
	})
	p := part.New(def, "tank-1")
	m := New(p, &config.Module{ScaleClass: "a"}, reg, nil)
	p.AddModule(m)

	// Simulate a resource updater having grown capacity with the scale
	p.Resources[0].MaxAmount = 4

	cost := m.CostModifier().ComputeCost()

	if m.DryCost() != 10 { // 12 − 2 on the unscaled prefab
		t.Errorf("expected dry cost 10, got %v", m.DryCost())
	}
	if cost != 2 { // 10 − 12 + 4
		t.Errorf("expected cost contribution 2, got %v", cost)
	}
}

// TestComputeCostRunsSetup verifies the cost path forces setup so a query
// before the first tick still resolves
func TestComputeCostRunsSetup(t *testing.T) {
	reg := testRegistry(t)
	p := part.New(tankDef(), "tank-1")
	m := New(p, &config.Module{ScaleClass: "a"}, reg, nil)
	p.AddModule(m)

	_ = m.CostModifier().ComputeCost()

	if m.CurrentPhase() != PhaseStable {
		t.Errorf("expected setup forced by cost query, got phase %v", m.CurrentPhase())
	}
}

// TestDryCostFloorsAtZero verifies a resource value above list price
// cannot produce a negative baseline
func TestDryCostFloorsAtZero(t *testing.T) {
	reg := testRegistry(t)
	def := part.NewDefinition(&config.Part{
		Name:      "cheap",
		ListPrice: 3,
		Resources: []config.Resource{
			{Name: "propellant", MaxAmount: 10, UnitCost: 1},
		},
	})
	p := part.New(def, "cheap-1")
	m := New(p, &config.Module{ScaleClass: "a"}, reg, nil)
	p.AddModule(m)

	p.Tick()

	if m.DryCost() != 0 {
		t.Errorf("expected dry cost floored at 0, got %v", m.DryCost())
	}
}
