package vmath

import (
	"math"
)

// Vec3 is a float64 3D vector used for transform scales, node positions
// and translation deltas
type Vec3 struct {
	X, Y, Z float64
}

func V3Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3Scale(v Vec3, s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// V3Mul multiplies component-wise, used for stacking transform scale vectors
func V3Mul(a, b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

func V3Neg(v Vec3) Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func V3MagSq(v Vec3) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3Mag(v Vec3) float64 {
	return math.Sqrt(V3MagSq(v))
}

// V3Approx reports whether two vectors are equal within eps per component
func V3Approx(a, b Vec3, eps float64) bool {
	return Approx(a.X, b.X, eps) && Approx(a.Y, b.Y, eps) && Approx(a.Z, b.Z, eps)
}

// V3IsZero reports whether the vector is the exact zero value
// Used as the "not yet captured" sentinel for baseline transform scales
func V3IsZero(v Vec3) bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
