package mesh

import "fmt"

// Validate reports whether the context satisfies its structural
// invariants. It walks every fan and is meant for tests and debug runs.
func (c *Context) Validate() bool {
	return c.Check() == nil
}

// Check is Validate returning the first violation found, wrapped around
// ErrCorrupted.
func (c *Context) Check() error {
	inc, sh := c.incidence(), c.sharing()

	for i := 0; i < c.vertices.Size(); i++ {
		if n := inc.length(VertexID(i)); n <= 0 {
			return corrupt("vertex %d: incidence fan empty or broken", i)
		}
	}

	for i := 0; i < c.edges.Size(); i++ {
		id := EdgeID(i)
		e := c.edges.Get(i)
		if e.V[0] == e.V[1] {
			return corrupt("edge %d: identical endpoints", i)
		}
		if n := sh.length(id); n <= 0 {
			return corrupt("edge %d: triangle fan empty or broken", i)
		}
		for j := 0; j < 2; j++ {
			if !c.vertices.Contains(int(e.V[j])) {
				return corrupt("edge %d: bad vertex %d", i, e.V[j])
			}
			if !c.edges.Valid(int(e.Next[j])) {
				return corrupt("edge %d: bad incidence link %d", i, e.Next[j])
			}
			if n := inc.count(e.V[j], id); n != 1 {
				return corrupt("edge %d: linked %d times around vertex %d", i, n, e.V[j])
			}
		}
	}

	for i := 0; i < c.triangles.Size(); i++ {
		id := TriangleID(i)
		t := c.triangles.Get(i)
		if t.E[0] == t.E[1] || t.E[0] == t.E[2] || t.E[1] == t.E[2] {
			return corrupt("triangle %d: repeated edge", i)
		}
		for j := 0; j < 3; j++ {
			if !c.vertices.Contains(int(t.V[j])) {
				return corrupt("triangle %d: bad vertex %d", i, t.V[j])
			}
			e := c.Edge(t.E[j])
			if e == nil {
				return corrupt("triangle %d: bad edge %d", i, t.E[j])
			}
			if !c.triangles.Valid(int(t.Next[j])) {
				return corrupt("triangle %d: bad fan link %d", i, t.Next[j])
			}
			a, b := t.V[j], t.V[(j+1)%3]
			if !(e.V[0] == a && e.V[1] == b) && !(e.V[0] == b && e.V[1] == a) {
				return corrupt("triangle %d: edge %d does not join its corners", i, t.E[j])
			}
			if n := sh.count(t.E[j], id); n != 1 {
				return corrupt("triangle %d: linked %d times along edge %d", i, n, t.E[j])
			}
		}
	}
	return nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrCorrupted)...)
}
