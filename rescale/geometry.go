package rescale

import (
	"log"
	"math"

	"github.com/gomker/partscale/part"
	"github.com/gomker/partscale/vmath"
)

// nodeSizeSteps is the size-class range the [min,max] interval maps onto
const nodeSizeSteps = 5

// updateByWidth recomputes the part's geometric footprint for the given
// factor: transform scale, attach node positions and sizes, and (when
// moveParts is set) the translation of attached neighbors so joints stay
// closed. Reconciliation and self-healing call it with moveParts false.
func (m *Module) updateByWidth(f Factor, moveParts bool) {
	p := m.part

	if vmath.V3IsZero(m.baseScale) {
		m.baseScale = p.Def.BaseScale
	}
	p.Transform.Scale = vmath.V3Scale(m.baseScale, f.Absolute)
	m.recordedScale = p.Transform.Scale

	ordinals := make(map[string]int)
	for _, n := range p.Nodes {
		ord := ordinals[n.ID]
		ordinals[n.ID]++

		base := p.Def.PrefabNode(n.ID, ord)
		if base == nil {
			if !m.missingNodeLogged[n.ID] {
				log.Printf("rescale: part %s node %q has no prefab counterpart, skipping", p.UID, n.ID)
				m.missingNodeLogged[n.ID] = true
			}
			continue
		}

		m.moveNode(n, base, f, moveParts)
		m.resizeNode(n, base)
	}

	if moveParts {
		m.moveSurfaceChildren(f)
	}
}

// moveNode repositions a node from its prefab counterpart and, when
// requested, keeps the part connected through it in contact: the neighbor
// follows the node's delta, except when the neighbor is this part's own
// parent, in which case this part moves the opposite way.
func (m *Module) moveNode(n, base *part.AttachNode, f Factor, moveParts bool) {
	old := n.Position
	n.Position = vmath.V3Scale(base.Position, f.Absolute)
	delta := vmath.V3Sub(n.Position, old)

	if !moveParts || n.Attached == nil {
		return
	}
	if n.Attached == m.part.Parent {
		m.part.Translate(vmath.V3Neg(delta))
	} else {
		n.Attached.Translate(delta)
	}
}

// resizeNode recomputes the node's integer size class. Free scaling maps
// the selection's position within [min,max] onto the step range; discrete
// scaling prefers the class's explicit per-node delta table and falls
// back to the proportional mapping over the index distance from the
// default index. Sizes clamp at zero.
func (m *Module) resizeNode(n, base *part.AttachNode) {
	step := 0
	cfg := m.cfg

	if m.free {
		step = vmath.MapToSteps(m.selected, cfg.MinScale, cfg.MaxScale, nodeSizeSteps) -
			vmath.MapToSteps(m.defaultScale, cfg.MinScale, cfg.MaxScale, nodeSizeSteps)
	} else if d, ok := cfg.NodeDeltas[n.ID]; ok {
		step = d * (m.index - cfg.DefaultIndex)
	} else if len(cfg.Factors) > 1 {
		span := float64(len(cfg.Factors) - 1)
		step = int(math.Round(float64(m.index-cfg.DefaultIndex) * float64(nodeSizeSteps-1) / span))
	}

	n.Size = base.Size + step
	if n.Size < 0 {
		n.Size = 0
	}
}

// moveSurfaceChildren shifts children mounted by surface connection: their
// offset from this part scales by the relative factor, since surface
// attachment has no named node to anchor the delta to
func (m *Module) moveSurfaceChildren(f Factor) {
	p := m.part
	for _, child := range p.Children {
		if child.SurfaceNode == nil || child.SurfaceNode.Attached != p {
			continue
		}
		offset := vmath.V3Sub(child.Transform.Position, p.Transform.Position)
		target := vmath.V3Scale(offset, f.Relative)
		child.Translate(vmath.V3Sub(target, offset))
	}
}
