// Package scaletype holds the scale-class model: named definitions of how
// a category of parts may be resized, a registry that resolves their
// inheritance once per configuration load, and the per-part merged view
// the rescale engine consumes.
package scaletype

import (
	"log"
	"reflect"
	"strconv"

	"github.com/gomker/partscale/config"
)

// Key is the interned identity of a scale class. The engine compares
// classes by key ("is this sibling governed by the same named
// configuration as me"), never by structural content.
type Key string

// DefaultName is the sentinel resolving to the hard-coded default class
const DefaultName = "default"

// Gate answers unlock-requirement queries; techgate.Provider satisfies it
type Gate interface {
	IsUnlocked(id string) bool
}

// ScaleType is a resolved, immutable scale-class record. Factors, Labels
// and TechRequired are parallel; TechRequired is padded so an empty
// string means "always unlocked".
type ScaleType struct {
	Name         string
	Free         bool
	Factors      []float64
	Labels       []string
	TechRequired []string
	MinScale     float64
	MaxScale     float64
	DefaultScale float64
	Suffix       string
	NodeDeltas   map[string]int
	Exponents    map[string]float64
}

// Key returns the class identity key
func (t *ScaleType) Key() Key {
	return Key(t.Name)
}

// SameClass reports whether two records name the same class
func SameClass(a, b *ScaleType) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Key() == b.Key()
}

// StructuralEqual compares full record content. Diagnostics only; class
// identity is always the name key.
func StructuralEqual(a, b *ScaleType) bool {
	return reflect.DeepEqual(a, b)
}

// DefaultType returns the hard-coded fallback class: the standard
// discrete stack diameters with a metric suffix.
func DefaultType() *ScaleType {
	t := &ScaleType{
		Name:         DefaultName,
		Free:         false,
		Factors:      []float64{0.625, 1.25, 2.5, 3.75, 5},
		MinScale:     0.625,
		MaxScale:     5,
		DefaultScale: 1.25,
		Suffix:       "m",
	}
	t.Labels = labelsFromFactors(t.Factors, t.Suffix)
	t.TechRequired = make([]string, len(t.Factors))
	return t
}

// UnlockedFactors returns the factors whose paired requirement the gate
// satisfies, in order. A nil gate filters nothing.
func (t *ScaleType) UnlockedFactors(g Gate) []float64 {
	out := make([]float64, 0, len(t.Factors))
	for i, f := range t.Factors {
		if t.unlocked(g, i) {
			out = append(out, f)
		}
	}
	return out
}

// UnlockedNames returns the labels paired with the unlocked factors, in
// the same order UnlockedFactors uses
func (t *ScaleType) UnlockedNames(g Gate) []string {
	out := make([]string, 0, len(t.Labels))
	for i, n := range t.Labels {
		if i < len(t.Factors) && t.unlocked(g, i) {
			out = append(out, n)
		}
	}
	return out
}

func (t *ScaleType) unlocked(g Gate, i int) bool {
	if g == nil || i >= len(t.TechRequired) {
		return true
	}
	return g.IsUnlocked(t.TechRequired[i])
}

// overlay applies explicitly-present override fields on top of base.
// Nil slices and maps mean "inherit"; a present-but-empty sequence is an
// override (a defect the engine's empty-table guard handles downstream).
// Everything is copied so resolved records never alias definitions.
func overlay(base ScaleType, o *config.ClassOverride) ScaleType {
	t := base
	if o.Free != nil {
		t.Free = *o.Free
	}
	if o.Factors != nil {
		t.Factors = append([]float64{}, o.Factors...)
	}
	if o.Labels != nil {
		t.Labels = append([]string{}, o.Labels...)
	}
	if o.TechRequired != nil {
		t.TechRequired = append([]string{}, o.TechRequired...)
	}
	if o.MinScale != nil {
		t.MinScale = *o.MinScale
	}
	if o.MaxScale != nil {
		t.MaxScale = *o.MaxScale
	}
	if o.DefaultScale != nil {
		t.DefaultScale = *o.DefaultScale
	}
	if o.Suffix != "" {
		t.Suffix = o.Suffix
	}
	if len(o.NodeDeltas) > 0 {
		t.NodeDeltas = make(map[string]int, len(o.NodeDeltas))
		for k, v := range o.NodeDeltas {
			t.NodeDeltas[k] = v
		}
	}
	if len(o.Exponents) > 0 {
		t.Exponents = make(map[string]float64, len(o.Exponents))
		for k, v := range o.Exponents {
			t.Exponents[k] = v
		}
	}
	return t
}

// normalize repairs parallel-sequence defects after merging. Mismatched
// factor/label counts are logged and padded from the factor table (the
// factor table stays authoritative); missing tech requirements pad to
// "always unlocked".
func normalize(t *ScaleType) {
	if len(t.Labels) != len(t.Factors) {
		log.Printf("scaletype: class %q has %d factors but %d labels, padding from factors",
			t.Name, len(t.Factors), len(t.Labels))
		if len(t.Labels) > len(t.Factors) {
			t.Labels = t.Labels[:len(t.Factors)]
		} else {
			for i := len(t.Labels); i < len(t.Factors); i++ {
				t.Labels = append(t.Labels, formatLabel(t.Factors[i], t.Suffix))
			}
		}
	}
	for len(t.TechRequired) < len(t.Factors) {
		t.TechRequired = append(t.TechRequired, "")
	}
	if len(t.TechRequired) > len(t.Factors) {
		t.TechRequired = t.TechRequired[:len(t.Factors)]
	}
	if t.MaxScale < t.MinScale {
		log.Printf("scaletype: class %q has max_scale %v below min_scale %v, swapping",
			t.Name, t.MaxScale, t.MinScale)
		t.MinScale, t.MaxScale = t.MaxScale, t.MinScale
	}
}

func labelsFromFactors(factors []float64, suffix string) []string {
	labels := make([]string, len(factors))
	for i, f := range factors {
		labels[i] = formatLabel(f, suffix)
	}
	return labels
}

func formatLabel(f float64, suffix string) string {
	return strconv.FormatFloat(f, 'g', -1, 64) + suffix
}
