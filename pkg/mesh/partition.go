package mesh

import (
	"fmt"

	"github.com/chazu/raymesh/pkg/geom"
)

// Partition code layout: two bits per wall, wall j at bit 2j. Within a
// wall 0 is inside, 1 on the wall and 2 outside.
const (
	wallInside  uint8 = 0
	wallOn      uint8 = 1
	wallOutside uint8 = 2
)

// wallCodes classifies p against every wall except skip.
func wallCodes(p geom.Point, walls *[3]geom.Plane, skip int) uint8 {
	var code uint8
	for m := range walls {
		if m == skip {
			continue
		}
		k := walls[m].Distance(p)
		switch {
		case k <= -geom.Tolerance:
			code |= wallOutside << (2 * m)
		case k <= geom.Tolerance:
			code |= wallOn << (2 * m)
		}
	}
	return code
}

func outsideAnyWall(code uint8) bool {
	for m := 0; m < 3; m++ {
		if (code>>(2*m))&3 == wallOutside {
			return true
		}
	}
	return false
}

// Partition cuts the context by the three walls erected from View.Source
// through the edges of triangle 0 and distributes the triangles: those
// inside all three walls go to in, the rest to out. Edges of triangles in
// triangle 0's face group are never cut. Triangle 0 always goes in.
// Either target may be nil; an empty context is a no-op.
func (c *Context) Partition(out, in *Context) error {
	clearTargets(out, in)

	ct := c.Triangle(0)
	if ct == nil {
		return nil
	}

	var walls [3]geom.Plane
	for j := 0; j < 3; j++ {
		a := c.Vertex(ct.V[j])
		b := c.Vertex(ct.V[(j+1)%3])
		o := c.Vertex(ct.V[(j+2)%3])
		if a == nil || b == nil || o == nil {
			return fmt.Errorf("partition: %w", ErrCorrupted)
		}
		pl, ok := geom.OrientedPlane(o.Point, c.View.Source, a.Point, b.Point)
		if !ok {
			return fmt.Errorf("partition: source is collinear with edge %d of the reference triangle: %w", j, ErrBadState)
		}
		walls[j] = pl
	}

	c.edges.Each(func(_ int, e *Edge) bool {
		e.Flags &^= Temp | Partitioned
		return true
	})
	c.triangles.Each(func(_ int, t *Triangle) bool {
		t.Side = 0
		if t.Face == ct.Face {
			for _, e := range t.E {
				c.Edge(e).Flags |= Partitioned
			}
		}
		return true
	})
	c.vertices.Each(func(_ int, v *Vertex) bool {
		v.Code = wallCodes(v.Point, &walls, -1)
		return true
	})

	// The reference corners lie on the two walls through them.
	c.Vertex(ct.V[0]).Code = wallOn | wallOn<<4
	c.Vertex(ct.V[1]).Code = wallOn | wallOn<<2
	c.Vertex(ct.V[2]).Code = wallOn<<2 | wallOn<<4

	for i := 0; i < c.edges.Size(); i++ {
		se := c.edges.Get(i)
		if se.Flags&Partitioned != 0 {
			continue
		}
		for j := 0; j < 3; j++ {
			bit := uint(2 * j)
			a, b := c.Vertex(se.V[0]), c.Vertex(se.V[1])
			s := (a.Code>>bit)&3 | ((b.Code>>bit)&3)<<2
			if s != wallOutside && s != wallOutside<<2 {
				continue
			}
			p, ok := geom.Intersect(a.Point, b.Point, walls[j])
			if !ok {
				return fmt.Errorf("partition: edge %d parallel to wall %d: %w", i, j, ErrBadState)
			}
			sp, v, err := c.newVertex(p)
			if err != nil {
				return err
			}
			v.Code = wallOn<<bit | wallCodes(p, &walls, j)
			if err := c.SplitEdge(EdgeID(i), sp); err != nil {
				return fmt.Errorf("partition: %w", err)
			}
		}
		se.Flags |= Partitioned
	}
	if err := c.debugCheck("partition"); err != nil {
		return err
	}

	var nin int
	c.triangles.Each(func(_ int, t *Triangle) bool {
		t.Side = 0
		for _, v := range t.V {
			if outsideAnyWall(c.Vertex(v).Code) {
				t.Side = 1
				break
			}
		}
		if t.Side == 0 {
			nin++
		}
		return true
	})
	if ct.Side != 0 {
		ct.Side = 0
		nin++
	}
	c.observeClassified("partition", nin, c.triangles.Size()-nin)

	return c.distribute("partition", out, in)
}
