// Package poly implements kernel.Kernel with exact polyhedral solids.
// Primitives are built from flat facets, so a box tessellates into exactly
// 12 triangles. Union keeps both shells as they are; Difference and
// Intersection are accepted but ToMesh reports kernel.ErrUnsupported.
package poly

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/raymesh/pkg/geom"
	"github.com/chazu/raymesh/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*PolyKernel)(nil)

// DefaultSegments is used for curved primitives when none is given.
const DefaultSegments = 16

type facet [3]v3.Vec

// normal returns the unit normal by the right-hand rule, or zero for a
// degenerate facet.
func (f facet) normal() v3.Vec {
	ux, uy, uz := f[1].X-f[0].X, f[1].Y-f[0].Y, f[1].Z-f[0].Z
	wx, wy, wz := f[2].X-f[0].X, f[2].Y-f[0].Y, f[2].Z-f[0].Z
	n := v3.Vec{X: uy*wz - uz*wy, Y: uz*wx - ux*wz, Z: ux*wy - uy*wx}
	l := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
	if l == 0 {
		return n
	}
	return v3.Vec{X: n.X / l, Y: n.Y / l, Z: n.Z / l}
}

// solid is a triangle shell. A non-empty op names the boolean that made
// the shell unusable.
type solid struct {
	facets []facet
	op     string
}

// BoundingBox returns the axis-aligned bounding box.
func (s *solid) BoundingBox() (min, max [3]float64) {
	if len(s.facets) == 0 {
		return
	}
	p0 := s.facets[0][0]
	min = [3]float64{p0.X, p0.Y, p0.Z}
	max = min
	for _, f := range s.facets {
		for _, p := range f {
			for i, c := range [3]float64{p.X, p.Y, p.Z} {
				min[i] = math.Min(min[i], c)
				max[i] = math.Max(max[i], c)
			}
		}
	}
	return min, max
}

// PolyKernel implements kernel.Kernel with facet lists.
type PolyKernel struct{}

// New returns a new PolyKernel.
func New() *PolyKernel {
	return &PolyKernel{}
}

func unwrap(s kernel.Solid) *solid {
	return s.(*solid)
}

// quad appends the two triangles of the convex quad a b c d.
func quad(fs []facet, a, b, c, d v3.Vec) []facet {
	return append(fs, facet{a, b, c}, facet{a, c, d})
}

// Box creates a box centered on the origin.
func (k *PolyKernel) Box(x, y, z float64) kernel.Solid {
	hx, hy, hz := x/2, y/2, z/2
	p := func(sx, sy, sz float64) v3.Vec { return v3.Vec{X: sx * hx, Y: sy * hy, Z: sz * hz} }
	var fs []facet
	fs = quad(fs, p(1, -1, -1), p(1, 1, -1), p(1, 1, 1), p(1, -1, 1))
	fs = quad(fs, p(-1, -1, -1), p(-1, -1, 1), p(-1, 1, 1), p(-1, 1, -1))
	fs = quad(fs, p(-1, 1, -1), p(-1, 1, 1), p(1, 1, 1), p(1, 1, -1))
	fs = quad(fs, p(-1, -1, -1), p(1, -1, -1), p(1, -1, 1), p(-1, -1, 1))
	fs = quad(fs, p(-1, -1, 1), p(1, -1, 1), p(1, 1, 1), p(-1, 1, 1))
	fs = quad(fs, p(-1, -1, -1), p(-1, 1, -1), p(1, 1, -1), p(1, -1, -1))
	return &solid{facets: fs}
}

// Cylinder creates a prism with segments sides along Z, centered on the
// origin.
func (k *PolyKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if segments < 3 {
		segments = DefaultSegments
	}
	h := height / 2
	ring := lo.Times(segments, func(i int) v3.Vec {
		a := 2 * math.Pi * float64(i) / float64(segments)
		return v3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	})
	top, bottom := v3.Vec{Z: h}, v3.Vec{Z: -h}
	var fs []facet
	for i := range ring {
		a, b := ring[i], ring[(i+1)%segments]
		a0, a1 := v3.Vec{X: a.X, Y: a.Y, Z: -h}, v3.Vec{X: a.X, Y: a.Y, Z: h}
		b0, b1 := v3.Vec{X: b.X, Y: b.Y, Z: -h}, v3.Vec{X: b.X, Y: b.Y, Z: h}
		fs = quad(fs, a0, b0, b1, a1)
		fs = append(fs, facet{top, a1, b1}, facet{bottom, b0, a0})
	}
	return &solid{facets: fs}
}

// Sphere creates a UV sphere with segments meridians and segments/2
// parallels.
func (k *PolyKernel) Sphere(radius float64, segments int) kernel.Solid {
	if segments < 4 {
		segments = DefaultSegments
	}
	rings := segments / 2
	at := func(i, j int) v3.Vec {
		theta := math.Pi * float64(i) / float64(rings)
		phi := 2 * math.Pi * float64(j) / float64(segments)
		return v3.Vec{
			X: radius * math.Sin(theta) * math.Cos(phi),
			Y: radius * math.Sin(theta) * math.Sin(phi),
			Z: radius * math.Cos(theta),
		}
	}
	var fs []facet
	for i := 0; i < rings; i++ {
		for j := 0; j < segments; j++ {
			a, b := at(i, j), at(i+1, j)
			c, d := at(i+1, j+1), at(i, j+1)
			switch i {
			case 0:
				fs = append(fs, facet{a, b, c})
			case rings - 1:
				fs = append(fs, facet{a, b, d})
			default:
				fs = quad(fs, a, b, c, d)
			}
		}
	}
	return &solid{facets: fs}
}

// Tetra creates a regular tetrahedron with vertices at (±size, ±size,
// ±size).
func (k *PolyKernel) Tetra(size float64) kernel.Solid {
	a := v3.Vec{X: size, Y: size, Z: size}
	b := v3.Vec{X: size, Y: -size, Z: -size}
	c := v3.Vec{X: -size, Y: size, Z: -size}
	d := v3.Vec{X: -size, Y: -size, Z: size}
	return &solid{facets: []facet{{a, b, c}, {a, c, d}, {b, d, c}, {a, d, b}}}
}

// Union keeps the shells of both solids.
func (k *PolyKernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	return &solid{
		facets: append(append([]facet{}, sa.facets...), sb.facets...),
		op:     lo.Ternary(sa.op != "", sa.op, sb.op),
	}
}

// Difference is not representable with facet lists.
func (k *PolyKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return &solid{facets: unwrap(a).facets, op: "difference"}
}

// Intersection is not representable with facet lists.
func (k *PolyKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return &solid{facets: unwrap(a).facets, op: "intersection"}
}

func transform(s *solid, m sdf.M44) *solid {
	fs := lo.Map(s.facets, func(f facet, _ int) facet {
		return facet{m.MulPosition(f[0]), m.MulPosition(f[1]), m.MulPosition(f[2])}
	})
	return &solid{facets: fs, op: s.op}
}

// Translate moves a solid by (x, y, z).
func (k *PolyKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return transform(unwrap(s), sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *PolyKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return transform(unwrap(s), geom.EulerMatrix(x, y, z))
}

// ToMesh flattens the facets into a mesh with one normal per facet.
func (k *PolyKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ps := unwrap(s)
	if ps.op != "" {
		return nil, fmt.Errorf("poly: %s: %w", ps.op, kernel.ErrUnsupported)
	}
	m := &kernel.Mesh{}
	for _, f := range ps.facets {
		n := f.normal()
		var p [3][3]float32
		for j := 0; j < 3; j++ {
			p[j] = [3]float32{float32(f[j].X), float32(f[j].Y), float32(f[j].Z)}
		}
		m.AddTriangle(p, [3]float32{float32(n.X), float32(n.Y), float32(n.Z)})
	}
	return m, nil
}
