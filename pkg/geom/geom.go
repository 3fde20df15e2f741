// Package geom provides the homogeneous points, vectors and planes used by
// the mesh engine, together with plane classification helpers.
package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Point is a homogeneous 3D point. W is 1 for ordinary points.
type Point struct {
	X, Y, Z, W float32
}

// Pt returns the point (x, y, z, 1).
func Pt(x, y, z float32) Point {
	return Point{X: x, Y: y, Z: z, W: 1}
}

// Sub returns the direction from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Add offsets p by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z, W: p.W}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", p.X, p.Y, p.Z)
}

// Vector is a direction. W is 0 for directions; planes reuse the same
// layout with W holding the offset.
type Vector struct {
	X, Y, Z, W float32
}

// Vec returns the direction (x, y, z, 0).
func Vec(x, y, z float32) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// Dot returns the 3-component dot product.
func (v Vector) Dot(u Vector) float32 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Cross returns v x u.
func (v Vector) Cross(u Vector) Vector {
	return Vector{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

// Scale multiplies the 3 components by k.
func (v Vector) Scale(k float32) Vector {
	return Vector{X: v.X * k, Y: v.Y * k, Z: v.Z * k, W: v.W}
}

// Length returns the Euclidean length of the 3 components.
func (v Vector) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalized returns v scaled to unit length, or v unchanged when it has
// zero length.
func (v Vector) Normalized() Vector {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Normal returns the unit normal of the triangle (a, b, c) following the
// right-hand rule, or the zero vector for a degenerate triangle.
func Normal(a, b, c Point) Vector {
	return b.Sub(a).Cross(c.Sub(a)).Normalized()
}

// Triangle is a free-standing triangle with a face normal, used where
// triangles leave a mesh context.
type Triangle struct {
	P [3]Point
	N Vector
}
