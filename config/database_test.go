package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const demoEntries = `
kind: scale-class
spec:
  name: stack
  factors: [0.625, 1.25, 2.5, 3.75, 5]
  labels: ["0.625m", "1.25m", "2.5m", "3.75m", "5m"]
  suffix: m
  default_scale: 1.25
---
kind: part
spec:
  name: fuel-tank
  title: Fuel Tank
  list_price: 12
  nodes:
    - id: top
      position: [0, 1, 0]
      size: 1
  resources:
    - name: propellant
      amount: 4
      max_amount: 4
      unit_cost: 1
  modules:
    - name: rescale
      scale_class: stack
`

// TestReadKindTaggedDocuments verifies part and scale-class entries decode
// from a single multi-document stream
func TestReadKindTaggedDocuments(t *testing.T) {
	db := NewDatabase()
	if err := db.Read(strings.NewReader(demoEntries)); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	p, ok := db.Part("fuel-tank")
	if !ok {
		t.Fatal("expected part fuel-tank to be loaded")
	}
	if p.Title != "Fuel Tank" || p.ListPrice != 12 {
		t.Errorf("unexpected part fields: %+v", p)
	}
	if len(p.Nodes) != 1 || p.Nodes[0].Position != [3]float64{0, 1, 0} {
		t.Errorf("unexpected nodes: %+v", p.Nodes)
	}
	mod := p.FindModule("rescale")
	if mod == nil || mod.ScaleClass != "stack" {
		t.Errorf("expected rescale module with class stack, got %+v", mod)
	}

	classes := db.ScaleClasses()
	if len(classes) != 1 || classes[0].Name != "stack" {
		t.Fatalf("expected one scale class named stack, got %+v", classes)
	}
	if len(classes[0].Factors) != 5 {
		t.Errorf("expected 5 factors, got %d", len(classes[0].Factors))
	}
	if classes[0].DefaultScale == nil || *classes[0].DefaultScale != 1.25 {
		t.Errorf("expected default_scale 1.25, got %v", classes[0].DefaultScale)
	}
}

// TestLoadDirMissingDirectory verifies a missing directory yields an empty
// database, not an error
func TestLoadDirMissingDirectory(t *testing.T) {
	db, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("expected graceful handling of missing dir, got %v", err)
	}
	if len(db.PartNames()) != 0 {
		t.Errorf("expected empty database, got parts %v", db.PartNames())
	}
}

func TestLoadDirSkipsHiddenAndForeignFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"demo.yaml":    demoEntries,
		".hidden.yaml": demoEntries,
		"notes.txt":    "not yaml",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	db, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(db.PartNames()) != 1 {
		t.Errorf("expected exactly one part (hidden file skipped), got %v", db.PartNames())
	}
}

func TestReadUnknownKindSkipped(t *testing.T) {
	db := NewDatabase()
	err := db.Read(strings.NewReader("kind: starship\nspec:\n  name: x\n"))
	if err != nil {
		t.Fatalf("unknown kind should be skipped, got %v", err)
	}
	if len(db.PartNames()) != 0 || len(db.ScaleClasses()) != 0 {
		t.Error("unknown kind should not add entries")
	}
}
