// Package part models the craft assembly the rescale engine operates on:
// immutable part definitions (the unscaled prefab shared across instances)
// and live part instances arranged in an attachment tree.
package part

import (
	"fmt"

	"github.com/gomker/partscale/config"
	"github.com/gomker/partscale/vmath"
)

// Resource is a live resource instance on a part
type Resource struct {
	Name      string
	Amount    float64
	MaxAmount float64
	UnitCost  float64
}

// AttachNode is a connection point. Position is part-local; Attached is
// the part connected through this node, nil while open.
type AttachNode struct {
	ID       string
	Position vmath.Vec3
	Size     int
	Attached *Part
}

// Transform is the minimal transform contract the engine needs: a world
// position and the child-scale vector applied to the model.
type Transform struct {
	Position vmath.Vec3
	Scale    vmath.Vec3
}

// Definition is the immutable unscaled prefab shared by all instances of
// a part type. The engine reads it, never mutates it.
type Definition struct {
	Name      string
	Title     string
	ListPrice float64
	BaseScale vmath.Vec3
	Nodes     []AttachNode // prefab nodes, Attached always nil
	Resources []Resource
	Modules   []config.Module
}

// Module is a behaviour attached to a part instance, polled once per
// simulation tick by the host
type Module interface {
	OnTick()
}

// Part is a live part instance
type Part struct {
	UID       string
	Def       *Definition
	Parent    *Part
	Children  []*Part
	Transform Transform
	Nodes     []*AttachNode
	// SurfaceNode is the non-node connection point; Attached holds the
	// part this instance is surface-mounted on, if any
	SurfaceNode *AttachNode
	Resources   []*Resource
	Modules     []Module
}

// NewDefinition builds a Definition from a configuration entry
func NewDefinition(cfg *config.Part) *Definition {
	def := &Definition{
		Name:      cfg.Name,
		Title:     cfg.Title,
		ListPrice: cfg.ListPrice,
		BaseScale: vec3(cfg.BaseScale),
		Modules:   cfg.Modules,
	}
	if vmath.V3IsZero(def.BaseScale) {
		def.BaseScale = vmath.Vec3{X: 1, Y: 1, Z: 1}
	}
	for _, n := range cfg.Nodes {
		def.Nodes = append(def.Nodes, AttachNode{
			ID:       n.ID,
			Position: vec3(n.Position),
			Size:     n.Size,
		})
	}
	for _, r := range cfg.Resources {
		def.Resources = append(def.Resources, Resource{
			Name:      r.Name,
			Amount:    r.Amount,
			MaxAmount: r.MaxAmount,
			UnitCost:  r.UnitCost,
		})
	}
	return def
}

func vec3(v [3]float64) vmath.Vec3 {
	return vmath.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// New instantiates a part from its definition, deep-copying nodes and
// resources so instances never alias prefab state
func New(def *Definition, uid string) *Part {
	p := &Part{
		UID: uid,
		Def: def,
		Transform: Transform{
			Scale: def.BaseScale,
		},
		SurfaceNode: &AttachNode{ID: "srf"},
	}
	for i := range def.Nodes {
		n := def.Nodes[i]
		p.Nodes = append(p.Nodes, &AttachNode{
			ID:       n.ID,
			Position: n.Position,
			Size:     n.Size,
		})
	}
	for i := range def.Resources {
		r := def.Resources[i]
		p.Resources = append(p.Resources, &r)
	}
	return p
}

// AddModule appends a behaviour module to the part
func (p *Part) AddModule(m Module) {
	p.Modules = append(p.Modules, m)
}

// Node returns the part's attach node with the given id and ordinal among
// same-id nodes, or nil
func (p *Part) Node(id string, ordinal int) *AttachNode {
	seen := 0
	for _, n := range p.Nodes {
		if n.ID != id {
			continue
		}
		if seen == ordinal {
			return n
		}
		seen++
	}
	return nil
}

// PrefabNode returns the definition's node with the given id and ordinal
// among same-id nodes, or nil when no counterpart exists
func (d *Definition) PrefabNode(id string, ordinal int) *AttachNode {
	seen := 0
	for i := range d.Nodes {
		if d.Nodes[i].ID != id {
			continue
		}
		if seen == ordinal {
			return &d.Nodes[i]
		}
		seen++
	}
	return nil
}

// Attach connects child to parent through a pair of named nodes. The
// child's node position places it relative to the parent node.
func (p *Part) Attach(child *Part, childNodeID, parentNodeID string) error {
	pn := p.Node(parentNodeID, 0)
	if pn == nil {
		return fmt.Errorf("part %s: no attach node %q", p.UID, parentNodeID)
	}
	cn := child.Node(childNodeID, 0)
	if cn == nil {
		return fmt.Errorf("part %s: no attach node %q", child.UID, childNodeID)
	}

	child.Parent = p
	p.Children = append(p.Children, child)
	pn.Attached = child
	cn.Attached = p

	// Place the child so the two node world positions coincide
	childPos := vmath.V3Sub(p.NodeWorldPos(pn), cn.Position)
	child.Translate(vmath.V3Sub(childPos, child.Transform.Position))
	return nil
}

// AttachSurface mounts child on p without a named node pair
func (p *Part) AttachSurface(child *Part) {
	child.Parent = p
	p.Children = append(p.Children, child)
	child.SurfaceNode.Attached = p
}

// NodeWorldPos returns the world position of one of p's attach nodes
func (p *Part) NodeWorldPos(n *AttachNode) vmath.Vec3 {
	return vmath.V3Add(p.Transform.Position, n.Position)
}

// Translate moves the part and its whole subtree by delta
func (p *Part) Translate(delta vmath.Vec3) {
	p.Transform.Position = vmath.V3Add(p.Transform.Position, delta)
	for _, c := range p.Children {
		c.Translate(delta)
	}
}

// Tick polls every module on the part and its subtree, parent first
func (p *Part) Tick() {
	for _, m := range p.Modules {
		m.OnTick()
	}
	for _, c := range p.Children {
		c.Tick()
	}
}
