package mesh

import (
	"fmt"

	"github.com/chazu/raymesh/pkg/geom"
)

// arrange rotates triangle t in place so that its slot 0 holds e.
func (c *Context) arrange(id TriangleID, e EdgeID) error {
	t := c.Triangle(id)
	if t == nil {
		return fmt.Errorf("arrange triangle %d: %w", id, ErrCorrupted)
	}
	r, ok := t.Arranged(e)
	if !ok {
		return fmt.Errorf("triangle %d does not reference edge %d: %w", id, e, ErrBadState)
	}
	*t = r
	return nil
}

// SplitEdge inserts vertex sp into edge id. The edge keeps its first
// endpoint and ends at sp, a new tail edge runs from sp to the old second
// endpoint, and every triangle sharing the edge is cut in two along a new
// edge from sp to its opposite corner.
//
// An edge without triangles is left untouched. On error the context is
// partially modified and must be discarded.
func (c *Context) SplitEdge(id EdgeID, sp VertexID) error {
	e := c.Edge(id)
	if e == nil || c.Vertex(sp) == nil {
		return fmt.Errorf("split edge %d at vertex %d: %w", id, sp, ErrBadState)
	}
	ct := e.Fan
	if ct == NoTriangle {
		return nil
	}
	if err := c.arrange(ct, id); err != nil {
		return err
	}

	tail, _, err := c.newEdge(sp, e.V[1], e.Flags|Processed)
	if err != nil {
		return err
	}
	if err := c.linkEdge(tail); err != nil {
		return err
	}

	inc := c.incidence()
	if !inc.unlink(e.V[0], id) || !inc.unlink(e.V[1], id) {
		return fmt.Errorf("unlink edge %d: %w", id, ErrCorrupted)
	}
	e.Flags |= Processed

	sh := c.sharing()
	for {
		t := c.Triangle(ct)
		pending := t.Next[0]

		nt, n, err := c.newTriangle()
		if err != nil {
			return err
		}
		cut, _, err := c.newEdge(t.V[2], sp, 0)
		if err != nil {
			return err
		}
		if err := c.linkEdge(cut); err != nil {
			return err
		}

		for _, x := range t.E {
			if !sh.unlink(x, ct) {
				return fmt.Errorf("unlink triangle %d from edge %d: %w", ct, x, ErrCorrupted)
			}
		}

		switch t.V[0] {
		case e.V[0]:
			n.V = [3]VertexID{sp, t.V[1], t.V[2]}
			n.E = [3]EdgeID{tail, t.E[1], cut}
			t.V[1] = sp
			t.E[1] = cut
		case e.V[1]:
			n.V = [3]VertexID{sp, t.V[2], t.V[0]}
			n.E = [3]EdgeID{cut, t.E[2], tail}
			t.V[0] = sp
			t.E[2] = cut
		default:
			return fmt.Errorf("triangle %d does not start at edge %d: %w", ct, id, ErrBadState)
		}
		n.N = t.N
		n.Face = t.Face

		if err := c.linkTriangle(nt); err != nil {
			return err
		}
		if err := c.linkTriangle(ct); err != nil {
			return err
		}
		c.observeTriangleSplit(ct, nt)

		if pending == NoTriangle {
			break
		}
		ct = pending
		if err := c.arrange(ct, id); err != nil {
			return err
		}
	}

	e.V[1] = sp
	if err := c.linkEdge(id); err != nil {
		return err
	}
	c.observeEdgeSplit(id, tail, sp)
	return nil
}

// edgeState combines the ternary codes of an edge's endpoints.
func (c *Context) edgeState(e *Edge) (int, error) {
	a, b := c.Vertex(e.V[0]), c.Vertex(e.V[1])
	if a == nil || b == nil {
		return -1, ErrCorrupted
	}
	return 3*int(a.Code) + int(b.Code), nil
}

// SplitEdges splits every edge crossing pl at its intersection point.
// Vertex codes must already hold the ternary classification against pl.
// Edges appended while splitting are visited too; edges flagged Processed
// are skipped.
func (c *Context) SplitEdges(pl geom.Plane) error {
	for i := 0; i < c.edges.Size(); i++ {
		e := c.edges.Get(i)
		if e.Flags&Processed != 0 {
			continue
		}
		s, err := c.edgeState(e)
		if err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
		switch s {
		case 0, 1, 3: // above
			e.Flags |= Processed
		case 5, 7, 8: // below
			e.Flags |= Processed
		case 4:
			e.Flags |= OnPlane | Processed
		case 2, 6:
			if e.Fan == NoTriangle {
				return fmt.Errorf("edge %d has no triangles: %w", i, ErrCorrupted)
			}
			p, ok := geom.Intersect(c.Vertex(e.V[0]).Point, c.Vertex(e.V[1]).Point, pl)
			if !ok {
				return fmt.Errorf("edge %d parallel to plane: %w", i, ErrBadState)
			}
			sp, v, err := c.newVertex(p)
			if err != nil {
				return err
			}
			v.Code = geom.On
			if err := c.SplitEdge(EdgeID(i), sp); err != nil {
				return err
			}
		default:
			return fmt.Errorf("edge %d state %d: %w", i, s, ErrBadState)
		}
	}
	return nil
}

// Split cuts the context along pl and distributes the triangles: those
// below the plane go to in, the rest to out. Either target may be nil.
// The receiver keeps the split triangles.
func (c *Context) Split(out, in *Context, pl geom.Plane) error {
	clearTargets(out, in)

	c.vertices.Each(func(_ int, v *Vertex) bool {
		v.Code = geom.Classify(pl.Distance(v.Point))
		return true
	})
	c.edges.Each(func(_ int, e *Edge) bool {
		e.Flags &^= Processed
		return true
	})

	if err := c.SplitEdges(pl); err != nil {
		return fmt.Errorf("split: %w", err)
	}
	if err := c.debugCheck("split"); err != nil {
		return err
	}

	// The first vertex off the plane decides. A triangle lying in the
	// plane goes out.
	var nin int
	c.triangles.Each(func(_ int, t *Triangle) bool {
		code := c.Vertex(t.V[2]).Code
		for _, v := range t.V[:2] {
			if x := c.Vertex(v).Code; x != geom.On {
				code = x
				break
			}
		}
		t.Side = 0
		if code <= geom.On {
			t.Side = 1
		} else {
			nin++
		}
		return true
	})
	c.observeClassified("split", nin, c.triangles.Size()-nin)

	return c.distribute("split", out, in)
}

// Filter distributes the triangles by pl without cutting any edge: a
// triangle with at least one vertex strictly below the plane goes to in,
// the rest to out. Either target may be nil.
func (c *Context) Filter(out, in *Context, pl geom.Plane) error {
	clearTargets(out, in)

	c.triangles.Each(func(_ int, t *Triangle) bool {
		t.Side = 1
		t.Clone = NoTriangle
		return true
	})
	c.vertices.Each(func(_ int, v *Vertex) bool {
		v.Clone = NoVertex
		v.Code = geom.ClassifyBinary(pl.Distance(v.Point))
		return true
	})
	c.edges.Each(func(_ int, e *Edge) bool {
		e.Flags &^= Processed
		e.Clone = NoEdge
		return true
	})

	var nin int
	c.triangles.Each(func(_ int, t *Triangle) bool {
		if c.Vertex(t.V[0]).Code|c.Vertex(t.V[1]).Code|c.Vertex(t.V[2]).Code != 0 {
			t.Side = 0
			nin++
		}
		return true
	})
	c.observeClassified("filter", nin, c.triangles.Size()-nin)

	return c.distribute("filter", out, in)
}

func clearTargets(out, in *Context) {
	if out != nil {
		out.Clear()
	}
	if in != nil {
		in.Clear()
	}
}

// distribute fetches side 0 into in and side 1 into out.
func (c *Context) distribute(op string, out, in *Context) error {
	if err := c.FetchTriangles(in, 0); err != nil {
		return fmt.Errorf("%s: fetch in: %w", op, err)
	}
	if err := c.FetchTriangles(out, 1); err != nil {
		return fmt.Errorf("%s: fetch out: %w", op, err)
	}
	if !c.opts.Debug {
		return nil
	}
	for _, x := range []*Context{in, out, c} {
		if x == nil {
			continue
		}
		if err := x.Check(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
