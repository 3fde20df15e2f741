package scene

import (
	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/raymesh/pkg/geom"
)

// Scene is a set of placed objects plus the source point that partitions
// are oriented against.
type Scene struct {
	Objects []*Object
	Source  geom.Point
}

// New returns an empty scene with the source at the origin.
func New() *Scene {
	return &Scene{Source: geom.Pt(0, 0, 0)}
}

// Add places obj in the scene with transform m.
func (s *Scene) Add(obj *Object, m sdf.M44) {
	obj.Matrix = m
	s.Objects = append(s.Objects, obj)
}

// Object returns the object called name, or nil.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// NumTriangles returns the total triangle count of all objects.
func (s *Scene) NumTriangles() int {
	n := 0
	for _, o := range s.Objects {
		n += o.NumTriangles()
	}
	return n
}
