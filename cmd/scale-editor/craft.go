package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gomker/partscale/config"
	"github.com/gomker/partscale/part"
	"github.com/gomker/partscale/rescale"
	"github.com/gomker/partscale/scaletype"
	"github.com/gomker/partscale/techgate"
	"github.com/gomker/partscale/vmath"
)

// demoEntries seeds the database when no configuration directory is
// present, so the editor always has something to show
const demoEntries = `
kind: scale-class
spec:
  name: stack
  factors: [0.625, 1.25, 2.5, 3.75, 5]
  labels: ["0.625m", "1.25m", "2.5m", "3.75m", "5m"]
  suffix: m
  default_scale: 1.25
  exponents:
    mass: 3
---
kind: scale-class
spec:
  name: surface
  free: true
  min_scale: 0.5
  max_scale: 4
  default_scale: 1
  suffix: x
  exponents:
    mass: 3
---
kind: part
spec:
  name: core-tank
  title: Core Tank
  list_price: 120
  nodes:
    - {id: top, position: [0, 1, 0], size: 1}
    - {id: bottom, position: [0, -1, 0], size: 1}
  resources:
    - {name: propellant, amount: 40, max_amount: 40, unit_cost: 0.8}
  modules:
    - {name: rescale, scale_class: stack}
---
kind: part
spec:
  name: drop-tank
  title: Drop Tank
  list_price: 60
  nodes:
    - {id: top, position: [0, 0.5, 0], size: 1}
    - {id: bottom, position: [0, -0.5, 0], size: 1}
  resources:
    - {name: propellant, amount: 15, max_amount: 15, unit_cost: 0.8}
  modules:
    - {name: rescale, scale_class: stack}
---
kind: part
spec:
  name: battery
  title: Battery
  list_price: 30
  resources:
    - {name: charge, amount: 100, max_amount: 100, unit_cost: 0.05}
  modules:
    - {name: rescale, scale_class: surface}
`

func ensureDemoEntries(db *config.Database) {
	if len(db.PartNames()) > 0 {
		return
	}
	log.Printf("no part entries loaded, seeding demo craft")
	if err := db.Read(strings.NewReader(demoEntries)); err != nil {
		log.Printf("seed demo entries: %v", err)
	}
}

// craft is the demo assembly: a core tank with a stacked drop tank and a
// surface-mounted battery
type craft struct {
	root    *part.Part
	modules []*rescale.Module
}

func buildCraft(db *config.Database, registry *scaletype.Registry) (*craft, error) {
	c := &craft{}

	core, err := c.addPart(db, registry, "core-tank", "core-1")
	if err != nil {
		return nil, err
	}
	c.root = core

	drop, err := c.addPart(db, registry, "drop-tank", "drop-1")
	if err != nil {
		return nil, err
	}
	if err := core.Attach(drop, "top", "bottom"); err != nil {
		return nil, err
	}

	battery, err := c.addPart(db, registry, "battery", "battery-1")
	if err != nil {
		return nil, err
	}
	core.AttachSurface(battery)
	battery.Translate(vmath.Vec3{X: 1.2})

	return c, nil
}

func (c *craft) addPart(db *config.Database, registry *scaletype.Registry, defName, uid string) (*part.Part, error) {
	cfg, ok := db.Part(defName)
	if !ok {
		return nil, fmt.Errorf("part definition %q not found", defName)
	}
	p := part.New(part.NewDefinition(cfg), uid)

	m := rescale.New(p, cfg.FindModule("rescale"), registry, techgate.Default())
	p.AddModule(m)
	c.modules = append(c.modules, m)
	return p, nil
}

// massUpdater derives a display mass from the class exponent rule for
// the "mass" updater kind
type massUpdater struct {
	base    float64
	exp     float64
	current float64
}

func (u *massUpdater) OnRescale(f rescale.Factor) {
	u.current = u.base * f.Pow(u.exp)
}

var (
	massMu     sync.Mutex
	massByPart = make(map[*part.Part]*massUpdater)
)

func registerMassUpdater() {
	rescale.RegisterUpdater("mass", func(p *part.Part, cfg *scaletype.PartConfig) rescale.Updater {
		exp, ok := cfg.Exponents["mass"]
		if !ok {
			exp = 3 // mass scales like a volume unless the class says otherwise
		}
		u := &massUpdater{base: 1, exp: exp, current: 1}
		massMu.Lock()
		massByPart[p] = u
		massMu.Unlock()
		return u
	})
}

func currentMass(p *part.Part) float64 {
	massMu.Lock()
	defer massMu.Unlock()
	if u, ok := massByPart[p]; ok {
		return u.current
	}
	return 1
}
