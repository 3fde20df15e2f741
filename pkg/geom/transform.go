package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Identity is the identity object transform.
func Identity() sdf.M44 {
	return sdf.Identity3d()
}

// ToVec converts p to an sdfx vector, dropping W.
func ToVec(p Point) v3.Vec {
	return v3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}
}

// FromVec converts an sdfx vector to a point with W = 1.
func FromVec(v v3.Vec) Point {
	return Pt(float32(v.X), float32(v.Y), float32(v.Z))
}

// Apply transforms the point p by m.
func Apply(m sdf.M44, p Point) Point {
	return FromVec(m.MulPosition(ToVec(p)))
}

// ApplyDir transforms the direction v by the linear part of m, leaving the
// translation out. The result is renormalized when v was a unit vector.
func ApplyDir(m sdf.M44, v Vector) Vector {
	o := m.MulPosition(v3.Vec{})
	q := m.MulPosition(v3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)})
	r := Vec(float32(q.X-o.X), float32(q.Y-o.Y), float32(q.Z-o.Z))
	if l := v.Length(); l > 0 {
		r = r.Normalized().Scale(l)
	}
	return r
}

// EulerMatrix returns the rotation applying x, then y, then z degrees
// around the respective axes.
func EulerMatrix(x, y, z float64) sdf.M44 {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0
	return sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
}
