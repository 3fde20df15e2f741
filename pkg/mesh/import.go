package mesh

import (
	"fmt"

	"github.com/chazu/raymesh/pkg/geom"
	"github.com/chazu/raymesh/pkg/scene"
)

// AddObject copies the triangles of obj into the context, placing points
// and face normals with obj.Matrix. Vertices and edges shared by several
// source triangles are copied once; the source tags remember the copies.
func (c *Context) AddObject(obj *scene.Object) error {
	obj.InitTags()
	if !obj.Validate() {
		return fmt.Errorf("object %q: %w", obj.Name, ErrCorrupted)
	}

	m := obj.Matrix
	startT := c.triangles.Size()
	var srcEdges []*scene.Edge

	for i := 0; i < obj.NumTriangles(); i++ {
		st := obj.Triangle(i)
		if st == nil {
			return fmt.Errorf("object %q: missing triangle %d: %w", obj.Name, i, ErrBadState)
		}
		if st.Tag != scene.NoTag {
			continue
		}

		tid, dt, err := c.newTriangle()
		if err != nil {
			return err
		}
		dt.Face = st.Face
		dt.N = geom.ApplyDir(m, st.N[0])
		dt.Source = int32(i)
		st.Tag = int32(tid)

		for j := 0; j < 3; j++ {
			sv, se := st.V[j], st.E[j]
			if sv.Tag == scene.NoTag {
				vid, _, err := c.newVertex(geom.Apply(m, sv.Point))
				if err != nil {
					return err
				}
				sv.Tag = int32(vid)
			}
			if se.Tag == scene.NoTag {
				eid, _, err := c.newEdge(NoVertex, NoVertex, 0)
				if err != nil {
					return err
				}
				se.Tag = int32(eid)
				srcEdges = append(srcEdges, se)
			}
			dt.V[j] = VertexID(sv.Tag)
			dt.E[j] = EdgeID(se.Tag)
		}
	}

	for _, se := range srcEdges {
		id := EdgeID(se.Tag)
		de := c.Edge(id)
		de.V = [2]VertexID{VertexID(se.V[0].Tag), VertexID(se.V[1].Tag)}
		if err := c.linkEdge(id); err != nil {
			return err
		}
	}
	for i := startT; i < c.triangles.Size(); i++ {
		if err := c.linkTriangle(TriangleID(i)); err != nil {
			return err
		}
	}

	if !obj.Validate() {
		return fmt.Errorf("object %q after import: %w", obj.Name, ErrCorrupted)
	}
	if err := c.Check(); err != nil {
		return fmt.Errorf("import %q: %w", obj.Name, err)
	}
	return nil
}

// AddScene imports every object of s and adopts its source point as the
// partition view.
func (c *Context) AddScene(s *scene.Scene) error {
	for _, obj := range s.Objects {
		if err := c.AddObject(obj); err != nil {
			return err
		}
	}
	c.View.Source = s.Source
	return nil
}
