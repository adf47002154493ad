package rescale

import (
	"strings"
	"testing"

	"github.com/gomker/partscale/config"
	"github.com/gomker/partscale/part"
	"github.com/gomker/partscale/scaletype"
	"github.com/gomker/partscale/vmath"
)

func loadClasses(t *testing.T, docs string) *scaletype.Registry {
	t.Helper()
	db := config.NewDatabase()
	if err := db.Read(strings.NewReader(docs)); err != nil {
		t.Fatal(err)
	}
	r := scaletype.NewRegistry()
	r.Load(db)
	return r
}

// TestNodePositionScaling verifies a node at prefab position (0,1,0)
// relocates to (0,2,0) under absolute factor 2.0 and the neighbor
// attached there translates by the delta, keeping contact
func TestNodePositionScaling(t *testing.T) {
	reg := testRegistry(t)
	p, m := newTestModule(reg, "parent", "a")
	neighbor := part.New(tankDef(), "neighbor") // no module: pure collaborator
	if err := p.Attach(neighbor, "bottom", "top"); err != nil {
		t.Fatal(err)
	}

	p.Tick()

	m.SetSelectedIndex(2) // 2.5, absolute 2.0
	p.Tick()

	top := p.Node("top", 0)
	if !vmath.V3Approx(top.Position, vmath.Vec3{X: 0, Y: 2, Z: 0}, 1e-9) {
		t.Errorf("expected node at (0,2,0), got %+v", top.Position)
	}

	// Neighbor was placed at (0,2,0) by attachment; the node delta (0,1,0)
	// carries it to (0,3,0)
	wantPos := vmath.Vec3{X: 0, Y: 3, Z: 0}
	if !vmath.V3Approx(neighbor.Transform.Position, wantPos, 1e-9) {
		t.Errorf("expected neighbor translated to %+v, got %+v", wantPos, neighbor.Transform.Position)
	}

	// Joint stays closed: neighbor's bottom node still meets the parent's
	// top node in world space
	joint := p.NodeWorldPos(top)
	neighborJoint := neighbor.NodeWorldPos(neighbor.Node("bottom", 0))
	if !vmath.V3Approx(joint, neighborJoint, 1e-9) {
		t.Errorf("joint opened: %+v vs %+v", joint, neighborJoint)
	}
}

// TestSelfTranslationWhenNeighborIsParent verifies the part moves itself
// when the node's neighbor is its own parent
func TestSelfTranslationWhenNeighborIsParent(t *testing.T) {
	reg := testRegistry(t)
	p, _ := newTestModule(reg, "parent", "b")
	c, cm := newTestModule(reg, "child", "a")
	if err := p.Attach(c, "bottom", "top"); err != nil {
		t.Fatal(err)
	}

	p.Tick()
	parentBefore := p.Transform.Position
	jointBefore := p.NodeWorldPos(p.Node("top", 0))

	cm.SetSelectedIndex(2) // child scales itself, absolute 2.0
	p.Tick()

	if !vmath.V3Approx(p.Transform.Position, parentBefore, 1e-9) {
		t.Errorf("parent must not move when child rescales, went %+v -> %+v", parentBefore, p.Transform.Position)
	}
	// Child slid up so its grown bottom node still meets the parent's top
	joint := c.NodeWorldPos(c.Node("bottom", 0))
	if !vmath.V3Approx(joint, jointBefore, 1e-9) {
		t.Errorf("joint opened: %+v vs %+v", joint, jointBefore)
	}
	if !vmath.V3Approx(c.Transform.Position, vmath.Vec3{X: 0, Y: 3, Z: 0}, 1e-9) {
		t.Errorf("expected child at (0,3,0), got %+v", c.Transform.Position)
	}
}

// TestSurfaceChildrenShiftByRelativeFactor verifies surface-mounted
// children move with the relative, not absolute, factor
func TestSurfaceChildrenShiftByRelativeFactor(t *testing.T) {
	reg := testRegistry(t)
	p, m := newTestModule(reg, "parent", "a")
	radial := part.New(tankDef(), "radial")
	p.AttachSurface(radial)
	radial.Translate(vmath.Vec3{X: 1, Y: 0, Z: 0})

	p.Tick()
	m.SetSelectedIndex(2) // 1.25 -> 2.5, relative 2.0
	p.Tick()

	want := vmath.Vec3{X: 2, Y: 0, Z: 0}
	if !vmath.V3Approx(radial.Transform.Position, want, 1e-9) {
		t.Errorf("expected surface child at %+v, got %+v", want, radial.Transform.Position)
	}

	// A second change from 2.5 to 1.25 is relative 0.5: back to x=1
	m.SetSelectedIndex(1)
	p.Tick()
	want = vmath.Vec3{X: 1, Y: 0, Z: 0}
	if !vmath.V3Approx(radial.Transform.Position, want, 1e-9) {
		t.Errorf("expected surface child back at %+v, got %+v", want, radial.Transform.Position)
	}
}

// TestFreeScaleNodeResizeMonotonic verifies node size strictly increases
// with the applied scale across the bounds for a fixed baseline size
func TestFreeScaleNodeResizeMonotonic(t *testing.T) {
	reg := loadClasses(t, `
kind: scale-class
spec:
  name: liberal
  free: true
  min_scale: 0.625
  max_scale: 5
  default_scale: 1.25
`)
	p, m := newTestModule(reg, "tank-1", "liberal")
	p.Tick()

	prev := -1
	for _, scale := range []float64{0.625, 1.7, 2.8, 3.9, 5.0} {
		m.SetSelectedValue(scale)
		p.Tick()
		size := p.Node("top", 0).Size
		if size <= prev {
			t.Errorf("node size not strictly increasing at scale %v: prev %d, got %d", scale, prev, size)
		}
		prev = size
	}
}

// TestDiscreteNodeResizeUsesDeltaTable verifies the explicit per-node
// size-delta table wins over the proportional fallback
func TestDiscreteNodeResizeUsesDeltaTable(t *testing.T) {
	reg := loadClasses(t, `
kind: scale-class
spec:
  name: stepped
  factors: [0.625, 1.25, 2.5, 3.75, 5]
  labels: ["0.625m", "1.25m", "2.5m", "3.75m", "5m"]
  default_scale: 1.25
  node_deltas:
    top: 2
`)
	p, m := newTestModule(reg, "tank-1", "stepped")
	p.Tick()

	m.SetSelectedIndex(3) // two steps above the default index 1
	p.Tick()

	if got := p.Node("top", 0).Size; got != 5 { // 1 + 2*2
		t.Errorf("expected top size 5 from delta table, got %d", got)
	}
	// bottom has no table entry: proportional fallback over index distance
	if got := p.Node("bottom", 0).Size; got != 3 { // 1 + round(2*4/4)
		t.Errorf("expected bottom size 3 from fallback, got %d", got)
	}
}

// TestNodeSizeClampsAtZero verifies shrinking below the smallest class
// never produces a negative size
func TestNodeSizeClampsAtZero(t *testing.T) {
	reg := loadClasses(t, `
kind: scale-class
spec:
  name: stepped
  factors: [0.625, 1.25, 2.5, 3.75, 5]
  default_scale: 5
  node_deltas:
    top: 2
    bottom: 2
`)
	p, m := newTestModule(reg, "tank-1", "stepped")
	p.Tick()

	m.SetSelectedIndex(0)
	p.Tick()

	if got := p.Node("top", 0).Size; got != 0 {
		t.Errorf("expected size clamped at 0, got %d", got)
	}
}

// TestMissingPrefabCounterpartSkipped verifies a node with no prefab
// counterpart is skipped without breaking the rest of the update
func TestMissingPrefabCounterpartSkipped(t *testing.T) {
	reg := testRegistry(t)
	p, m := newTestModule(reg, "tank-1", "a")
	p.Nodes = append(p.Nodes, &part.AttachNode{ID: "aftermarket", Size: 1})

	p.Tick()
	m.SetSelectedIndex(2)
	p.Tick()

	if m.Current() != 2.5 {
		t.Errorf("expected change applied despite orphan node, got %v", m.Current())
	}
	if got := p.Node("top", 0).Position; !vmath.V3Approx(got, vmath.Vec3{X: 0, Y: 2, Z: 0}, 1e-9) {
		t.Errorf("expected real nodes still updated, got %+v", got)
	}
	if got := p.Node("aftermarket", 0).Size; got != 1 {
		t.Errorf("expected orphan node untouched, got size %d", got)
	}
}

// TestSameIDNodesMatchByOrdinal verifies counterpart matching pairs
// same-identifier nodes by position in declaration order
func TestSameIDNodesMatchByOrdinal(t *testing.T) {
	def := part.NewDefinition(&config.Part{
		Name: "coupler",
		Nodes: []config.Node{
			{ID: "port", Position: [3]float64{-1, 0, 0}, Size: 1},
			{ID: "port", Position: [3]float64{1, 0, 0}, Size: 1},
		},
	})
	reg := testRegistry(t)
	p := part.New(def, "coupler-1")
	m := New(p, &config.Module{ScaleClass: "a"}, reg, nil)
	p.AddModule(m)
	m.SetInteractive(true)

	p.Tick()
	m.SetSelectedIndex(2)
	p.Tick()

	if got := p.Node("port", 0).Position; !vmath.V3Approx(got, vmath.Vec3{X: -2, Y: 0, Z: 0}, 1e-9) {
		t.Errorf("first port node: expected (-2,0,0), got %+v", got)
	}
	if got := p.Node("port", 1).Position; !vmath.V3Approx(got, vmath.Vec3{X: 2, Y: 0, Z: 0}, 1e-9) {
		t.Errorf("second port node: expected (2,0,0), got %+v", got)
	}
}
