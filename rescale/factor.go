// Package rescale implements the runtime attribute-rescaling engine: a
// per-part module that resolves its scale configuration, recomputes the
// part's geometric footprint on scale changes, cascades those changes
// through the attachment tree, and fans them out to registered updaters.
package rescale

import (
	"math"
)

// Factor is the transient value object describing one resolved scale
// change. Absolute is selected scale over the part's default, Relative is
// selected over the previously applied scale, Index is the discrete
// factor index or -1 for free scaling. It is recomputed on demand and
// never stored.
type Factor struct {
	Absolute float64
	Relative float64
	Index    int
}

// Pow raises the absolute linear ratio to the given exponent. Exponent 2
// scales like an area, 3 like a volume.
func (f Factor) Pow(exp float64) float64 {
	return math.Pow(f.Absolute, exp)
}

// RelativePow raises the relative linear ratio to the given exponent
func (f Factor) RelativePow(exp float64) float64 {
	return math.Pow(f.Relative, exp)
}
