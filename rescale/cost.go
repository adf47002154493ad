package rescale

// CostModifier derives the part's cost contribution from the cached dry
// cost baseline plus the current resource value. The result is expressed
// as a delta against list price, matching the host's cost-aggregation
// convention.
type CostModifier struct {
	m *Module
}

// CostModifier returns the cost collaborator for this module
func (m *Module) CostModifier() *CostModifier {
	return &CostModifier{m: m}
}

// ComputeCost ensures setup has run and returns
// dryCost − listPrice + Σ(current resource max × unit cost)
func (c *CostModifier) ComputeCost() float64 {
	m := c.m
	if !m.setupDone {
		m.Setup()
	}
	if m.part == nil || m.part.Def == nil {
		return 0
	}

	value := 0.0
	for _, r := range m.part.Resources {
		value += r.MaxAmount * r.UnitCost
	}
	return m.dryCost - m.part.Def.ListPrice + value
}
