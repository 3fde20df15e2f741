package mesh

import (
	"fmt"
)

// CleanupTagPointers forgets every clone reference left by an earlier
// fetch, so the next fetch cannot reuse stale copies.
func (c *Context) CleanupTagPointers() {
	c.vertices.Each(func(_ int, v *Vertex) bool {
		v.Clone = NoVertex
		return true
	})
	c.edges.Each(func(_ int, e *Edge) bool {
		e.Clone = NoEdge
		return true
	})
	c.triangles.Each(func(_ int, t *Triangle) bool {
		t.Clone = NoTriangle
		return true
	})
}

// FetchTriangles copies every triangle whose Side equals side into dst,
// together with the vertices and edges it uses. Shared vertices and edges
// are copied once. dst keeps what it already holds; a nil dst is a no-op.
func (c *Context) FetchTriangles(dst *Context, side int8) error {
	if dst == nil {
		return nil
	}
	if dst == c {
		return fmt.Errorf("fetch into itself: %w", ErrBadState)
	}
	c.CleanupTagPointers()

	startE, startT := dst.edges.Size(), dst.triangles.Size()
	for i := 0; i < c.triangles.Size(); i++ {
		if c.triangles.Get(i).Side != side {
			continue
		}
		if err := c.fetchTriangle(dst, TriangleID(i)); err != nil {
			return err
		}
	}
	return c.completeFetch(dst, startE, startT)
}

// fetchTriangle copies one triangle. Edge endpoints are patched later by
// completeFetch, once every vertex has its clone.
func (c *Context) fetchTriangle(dst *Context, id TriangleID) error {
	st := c.Triangle(id)
	tid, tx, err := dst.newTriangle()
	if err != nil {
		return err
	}
	tx.N = st.N
	tx.Face = st.Face
	tx.Side = st.Side
	tx.Source = int32(id)
	st.Clone = tid

	for j := 0; j < 3; j++ {
		sv := c.Vertex(st.V[j])
		se := c.Edge(st.E[j])
		if sv == nil || se == nil {
			return fmt.Errorf("fetch triangle %d: %w", id, ErrCorrupted)
		}
		if sv.Clone == NoVertex {
			vid, _, err := dst.newVertex(sv.Point)
			if err != nil {
				return err
			}
			sv.Clone = vid
		}
		if se.Clone == NoEdge {
			eid, ex, err := dst.newEdge(NoVertex, NoVertex, se.Flags&^Temp)
			if err != nil {
				return err
			}
			ex.Source = int32(st.E[j])
			se.Clone = eid
		}
		tx.V[j] = sv.Clone
		tx.E[j] = se.Clone
	}
	return nil
}

// completeFetch resolves the endpoints of the edges fetched into dst and
// links the new edges and triangles into their fans.
func (c *Context) completeFetch(dst *Context, startE, startT int) error {
	for i := startE; i < dst.edges.Size(); i++ {
		ex := dst.edges.Get(i)
		se := c.Edge(EdgeID(ex.Source))
		if se == nil {
			return fmt.Errorf("fetched edge %d has no source: %w", i, ErrCorrupted)
		}
		for k := 0; k < 2; k++ {
			sv := c.Vertex(se.V[k])
			if sv == nil || sv.Clone == NoVertex {
				return fmt.Errorf("fetched edge %d: %w", i, ErrCorrupted)
			}
			ex.V[k] = sv.Clone
		}
		if err := dst.linkEdge(EdgeID(i)); err != nil {
			return err
		}
	}
	for i := startT; i < dst.triangles.Size(); i++ {
		if err := dst.linkTriangle(TriangleID(i)); err != nil {
			return err
		}
	}
	return nil
}
