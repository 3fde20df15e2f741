package scene

import (
	"github.com/chazu/raymesh/pkg/geom"
	"github.com/chazu/raymesh/pkg/kernel"
)

// Builder assembles an Object from polygons, sharing vertices at equal
// positions and edges between equal vertex pairs.
type Builder struct {
	obj   *Object
	verts map[geom.Point]int
	edges map[[2]int]*Edge
	face  int32
}

// NewBuilder starts a new object.
func NewBuilder(name string) *Builder {
	return &Builder{
		obj:   NewObject(name),
		verts: make(map[geom.Point]int),
		edges: make(map[[2]int]*Edge),
	}
}

func (b *Builder) vertex(p geom.Point) int {
	p.W = 1
	if i, ok := b.verts[p]; ok {
		return i
	}
	i := len(b.obj.Vertices)
	b.obj.Vertices = append(b.obj.Vertices, &Vertex{Point: p, Tag: NoTag})
	b.verts[p] = i
	return i
}

func (b *Builder) edge(i, j int) *Edge {
	key := [2]int{i, j}
	if j < i {
		key = [2]int{j, i}
	}
	if e, ok := b.edges[key]; ok {
		return e
	}
	e := &Edge{V: [2]*Vertex{b.obj.Vertices[i], b.obj.Vertices[j]}, Tag: NoTag}
	b.obj.Edges = append(b.obj.Edges, e)
	b.edges[key] = e
	return e
}

// triangle adds one face of group face, dropping degenerate input. It
// reports whether a triangle was added.
func (b *Builder) triangle(face int32, p0, p1, p2 geom.Point) bool {
	n := geom.Normal(p0, p1, p2)
	if n.Length() == 0 {
		return false
	}
	idx := [3]int{b.vertex(p0), b.vertex(p1), b.vertex(p2)}
	if idx[0] == idx[1] || idx[1] == idx[2] || idx[0] == idx[2] {
		return false
	}
	t := &Triangle{Face: face, Tag: NoTag, N: [3]geom.Vector{n, n, n}}
	for i := 0; i < 3; i++ {
		t.V[i] = b.obj.Vertices[idx[i]]
		t.E[i] = b.edge(idx[i], idx[(i+1)%3])
	}
	b.obj.Triangles = append(b.obj.Triangles, t)
	return true
}

// AddTriangle adds a triangle as its own face group.
func (b *Builder) AddTriangle(p0, p1, p2 geom.Point) {
	b.AddPolygon(p0, p1, p2)
}

// AddPolygon fan-triangulates a convex polygon into a single face group
// and returns the group ID, or -1 when nothing was added.
func (b *Builder) AddPolygon(pts ...geom.Point) int32 {
	if len(pts) < 3 {
		return -1
	}
	face := b.face
	added := false
	for i := 1; i+1 < len(pts); i++ {
		if b.triangle(face, pts[0], pts[i], pts[i+1]) {
			added = true
		}
	}
	if !added {
		return -1
	}
	b.face++
	return face
}

// Object returns the assembled object. The builder must not be used
// afterwards.
func (b *Builder) Object() *Object {
	return b.obj
}

// Tetrahedron returns a regular tetrahedron centered at the origin with
// vertices at (±s, ±s, ±s).
func Tetrahedron(name string, s float32) *Object {
	a, bb, c, d := geom.Pt(s, s, s), geom.Pt(s, -s, -s), geom.Pt(-s, s, -s), geom.Pt(-s, -s, s)
	b := NewBuilder(name)
	b.AddTriangle(a, bb, c)
	b.AddTriangle(a, c, d)
	b.AddTriangle(bb, d, c)
	b.AddTriangle(a, d, bb)
	return b.Object()
}

// Box returns an axis-aligned box centered at the origin. Each side is
// one face group of two triangles.
func Box(name string, sx, sy, sz float32) *Object {
	x, y, z := sx/2, sy/2, sz/2
	b := NewBuilder(name)
	b.AddPolygon(geom.Pt(x, -y, -z), geom.Pt(x, y, -z), geom.Pt(x, y, z), geom.Pt(x, -y, z))
	b.AddPolygon(geom.Pt(-x, -y, -z), geom.Pt(-x, -y, z), geom.Pt(-x, y, z), geom.Pt(-x, y, -z))
	b.AddPolygon(geom.Pt(-x, y, -z), geom.Pt(-x, y, z), geom.Pt(x, y, z), geom.Pt(x, y, -z))
	b.AddPolygon(geom.Pt(-x, -y, -z), geom.Pt(x, -y, -z), geom.Pt(x, -y, z), geom.Pt(-x, -y, z))
	b.AddPolygon(geom.Pt(-x, -y, z), geom.Pt(x, -y, z), geom.Pt(x, y, z), geom.Pt(-x, y, z))
	b.AddPolygon(geom.Pt(-x, -y, -z), geom.Pt(-x, y, -z), geom.Pt(x, y, -z), geom.Pt(x, -y, -z))
	return b.Object()
}

// faceKey quantizes a face plane so coplanar kernel triangles share a
// face group.
type faceKey [4]int32

func keyOf(n geom.Vector, p geom.Point) faceKey {
	const q = 1e4
	w := -(n.X*p.X + n.Y*p.Y + n.Z*p.Z)
	return faceKey{int32(n.X * q), int32(n.Y * q), int32(n.Z * q), int32(w * q)}
}

// FromMesh converts a flat kernel mesh into an object. Coincident vertices
// are merged, degenerate triangles dropped and coplanar triangles grouped
// into one face.
func FromMesh(name string, m *kernel.Mesh) *Object {
	b := NewBuilder(name)
	groups := make(map[faceKey]int32)
	at := func(i uint32) geom.Point {
		return geom.Pt(m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2])
	}
	nv := uint32(m.VertexCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		if i0 >= nv || i1 >= nv || i2 >= nv {
			continue
		}
		p0, p1, p2 := at(i0), at(i1), at(i2)
		n := geom.Normal(p0, p1, p2)
		k := keyOf(n, p0)
		face, ok := groups[k]
		if !ok {
			face = b.face
		}
		if b.triangle(face, p0, p1, p2) && !ok {
			groups[k] = face
			b.face++
		}
	}
	return b.Object()
}
