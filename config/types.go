// Package config implements the configuration database: YAML documents
// describing part definitions and scale-class definitions, loaded from a
// directory once per session.
package config

// Document kinds recognized by the database
const (
	KindPart       = "part"
	KindScaleClass = "scale-class"
)

// ClassOverride holds the scale-class fields a definition may set.
// Pointers and nil slices distinguish "explicitly present" from
// "inherit", so a present-but-empty sequence is an override.
type ClassOverride struct {
	Free         *bool              `yaml:"free"`
	Factors      []float64          `yaml:"factors"`
	Labels       []string           `yaml:"labels"`
	TechRequired []string           `yaml:"tech_required"`
	MinScale     *float64           `yaml:"min_scale"`
	MaxScale     *float64           `yaml:"max_scale"`
	DefaultScale *float64           `yaml:"default_scale"`
	Suffix       string             `yaml:"suffix"`
	NodeDeltas   map[string]int     `yaml:"node_deltas"`
	Exponents    map[string]float64 `yaml:"exponents"`
}

// ScaleClass is a named scale-class definition. Type references a parent
// class whose fields are inherited for anything not set here.
type ScaleClass struct {
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	ClassOverride `yaml:",inline"`
}

// Module is a per-part module configuration node. ScaleClass names the
// class the module runs; the inline override fields win over the class.
type Module struct {
	Name          string `yaml:"name"`
	ScaleClass    string `yaml:"scale_class"`
	ClassOverride `yaml:",inline"`
}

// Node describes an attachment point on the unscaled prefab
type Node struct {
	ID       string     `yaml:"id"`
	Position [3]float64 `yaml:"position"`
	Size     int        `yaml:"size"`
}

// Resource describes a resource the part carries
type Resource struct {
	Name      string  `yaml:"name"`
	Amount    float64 `yaml:"amount"`
	MaxAmount float64 `yaml:"max_amount"`
	UnitCost  float64 `yaml:"unit_cost"`
}

// Part is a part definition entry
type Part struct {
	Name      string     `yaml:"name"`
	Title     string     `yaml:"title"`
	ListPrice float64    `yaml:"list_price"`
	BaseScale [3]float64 `yaml:"base_scale"`
	Nodes     []Node     `yaml:"nodes"`
	Resources []Resource `yaml:"resources"`
	Modules   []Module   `yaml:"modules"`
}

// FindModule returns the first module config with the given name, or nil
func (p *Part) FindModule(name string) *Module {
	for i := range p.Modules {
		if p.Modules[i].Name == name {
			return &p.Modules[i]
		}
	}
	return nil
}
