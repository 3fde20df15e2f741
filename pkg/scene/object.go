// Package scene holds importable objects: immutable, already triangulated
// vertex/edge/triangle graphs that a mesh context copies in with
// AddObject. Each entity carries a Tag scratch field the importer uses to
// remember which context entity it produced.
package scene

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/google/uuid"

	"github.com/chazu/raymesh/pkg/geom"
)

// NoTag marks a source entity that has not been imported yet.
const NoTag int32 = -1

// objectNamespace scopes object IDs so the same name always maps to the
// same ID.
var objectNamespace = uuid.MustParse("6f1c5e0a-9b7d-4d2e-8a43-2c8e1f6b7d90")

// Vertex is an object-space point.
type Vertex struct {
	geom.Point
	Tag int32
}

// Edge joins two vertices of the same object.
type Edge struct {
	V   [2]*Vertex
	Tag int32
}

// Triangle is an object face. E[i] joins V[i] and V[(i+1)%3]. N holds the
// per-corner normals; the importer uses N[0] as the face normal.
type Triangle struct {
	V    [3]*Vertex
	E    [3]*Edge
	N    [3]geom.Vector
	Face int32
	Tag  int32
}

// Object is an importable mesh together with its placement.
type Object struct {
	ID       uuid.UUID
	Name     string
	Material string
	Matrix   sdf.M44

	Vertices  []*Vertex
	Edges     []*Edge
	Triangles []*Triangle
}

// NewObject returns an empty object with an identity placement.
func NewObject(name string) *Object {
	return &Object{
		ID:     uuid.NewSHA1(objectNamespace, []byte(name)),
		Name:   name,
		Matrix: sdf.Identity3d(),
	}
}

// NumTriangles returns the number of triangle slots.
func (o *Object) NumTriangles() int {
	return len(o.Triangles)
}

// Triangle returns triangle i, or nil when i is out of range or the slot
// is empty.
func (o *Object) Triangle(i int) *Triangle {
	if i < 0 || i >= len(o.Triangles) {
		return nil
	}
	return o.Triangles[i]
}

// InitTags resets the import scratch tag of every entity.
func (o *Object) InitTags() {
	for _, v := range o.Vertices {
		v.Tag = NoTag
	}
	for _, e := range o.Edges {
		e.Tag = NoTag
	}
	for _, t := range o.Triangles {
		if t != nil {
			t.Tag = NoTag
		}
	}
}

// Validate checks that every triangle references complete edges whose
// endpoints match the winding convention. Empty triangle slots are left
// for the importer to report.
func (o *Object) Validate() bool {
	for _, e := range o.Edges {
		if e == nil || e.V[0] == nil || e.V[1] == nil || e.V[0] == e.V[1] {
			return false
		}
	}
	for _, t := range o.Triangles {
		if t == nil {
			continue
		}
		for i := 0; i < 3; i++ {
			e := t.E[i]
			if t.V[i] == nil || e == nil || e.V[0] == nil || e.V[1] == nil {
				return false
			}
			a, b := t.V[i], t.V[(i+1)%3]
			if !(e.V[0] == a && e.V[1] == b) && !(e.V[0] == b && e.V[1] == a) {
				return false
			}
		}
		if t.E[0] == t.E[1] || t.E[0] == t.E[2] || t.E[1] == t.E[2] {
			return false
		}
	}
	return true
}

// Bounds returns the object-space bounding box.
func (o *Object) Bounds() (min, max geom.Point) {
	if len(o.Vertices) == 0 {
		return
	}
	min, max = o.Vertices[0].Point, o.Vertices[0].Point
	for _, v := range o.Vertices[1:] {
		min.X, max.X = minf(min.X, v.X), maxf(max.X, v.X)
		min.Y, max.Y = minf(min.Y, v.Y), maxf(max.Y, v.Y)
		min.Z, max.Z = minf(min.Z, v.Z), maxf(max.Z, v.Z)
	}
	return
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
