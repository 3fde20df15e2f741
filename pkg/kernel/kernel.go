// Package kernel defines the solid modeling interface that scene scripts
// are evaluated against. Implementations turn primitive, boolean and
// transform operations into solids and tessellate them into flat meshes
// that the scene package converts into importable objects.
package kernel

import "errors"

// ErrUnsupported is returned by ToMesh when a kernel cannot tessellate an
// operation it accepted.
var ErrUnsupported = errors.New("kernel: unsupported operation")

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds and tessellates solids. Primitives are centered on the
// origin.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64, segments int) Solid
	Tetra(size float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
