// Package mesh implements the mesh context: a triangle mesh stored in
// three arenas with intrusive incidence fans, supporting plane splits,
// filters and partitions that distribute triangles into sibling contexts.
//
// A Context is not safe for concurrent use. Contexts produced by Split,
// Filter and Partition own independent storage and may be processed by
// different goroutines.
package mesh

import (
	"errors"
	"fmt"

	"github.com/chazu/raymesh/pkg/arena"
	"github.com/chazu/raymesh/pkg/geom"
)

var (
	// ErrOutOfMemory is returned when an arena refuses an allocation. The
	// context is left partially modified and must be cleared.
	ErrOutOfMemory = fmt.Errorf("mesh: out of memory: %w", arena.ErrFull)
	// ErrCorrupted is returned when a structural invariant does not hold.
	ErrCorrupted = errors.New("mesh: corrupted")
	// ErrBadState is returned for unexpected topology or classification.
	ErrBadState = errors.New("mesh: bad state")
)

// Options configures a context.
type Options struct {
	// Arena chunk sizes. Zero selects arena.DefaultChunk.
	VertexChunk   int
	EdgeChunk     int
	TriangleChunk int

	// MaxItems caps each arena. Zero means unbounded.
	MaxItems int

	// Debug re-validates the context after every mutating operation.
	Debug bool

	Observer  Observer
	Collector *Collector
}

// Context owns the vertex, edge and triangle arenas of one mesh.
type Context struct {
	View View

	vertices  *arena.Arena[Vertex]
	edges     *arena.Arena[Edge]
	triangles *arena.Arena[Triangle]

	opts Options
}

// New creates an empty context.
func New(opts Options) *Context {
	c := &Context{
		vertices:  arena.New[Vertex](opts.VertexChunk),
		edges:     arena.New[Edge](opts.EdgeChunk),
		triangles: arena.New[Triangle](opts.TriangleChunk),
		opts:      opts,
	}
	c.vertices.SetLimit(opts.MaxItems)
	c.edges.SetLimit(opts.MaxItems)
	c.triangles.SetLimit(opts.MaxItems)
	return c
}

// Sibling creates an empty context with the same options and view, for
// use as a Split, Filter or Partition target.
func (c *Context) Sibling() *Context {
	s := New(c.opts)
	s.View = c.View
	return s
}

// Options returns the options the context was created with.
func (c *Context) Options() Options {
	return c.opts
}

// Clear empties the context, keeping arena storage for reuse.
func (c *Context) Clear() {
	c.vertices.Clear()
	c.edges.Clear()
	c.triangles.Clear()
}

// Flush empties the context and releases arena storage.
func (c *Context) Flush() {
	c.vertices.Destroy()
	c.edges.Destroy()
	c.triangles.Destroy()
}

// Swap exchanges the mesh contents and views of c and o. Options stay
// with their context.
func (c *Context) Swap(o *Context) {
	c.View, o.View = o.View, c.View
	c.vertices.Swap(o.vertices)
	c.edges.Swap(o.edges)
	c.triangles.Swap(o.triangles)
}

// Stats returns the entity counts.
func (c *Context) Stats() Stats {
	return Stats{
		Vertices:  c.vertices.Size(),
		Edges:     c.edges.Size(),
		Triangles: c.triangles.Size(),
	}
}

// NumVertices returns the number of vertices.
func (c *Context) NumVertices() int { return c.vertices.Size() }

// NumEdges returns the number of edges.
func (c *Context) NumEdges() int { return c.edges.Size() }

// NumTriangles returns the number of triangles.
func (c *Context) NumTriangles() int { return c.triangles.Size() }

// Vertex returns vertex id, or nil when id does not address one.
func (c *Context) Vertex(id VertexID) *Vertex { return c.vertices.Get(int(id)) }

// Edge returns edge id, or nil.
func (c *Context) Edge(id EdgeID) *Edge { return c.edges.Get(int(id)) }

// Triangle returns triangle id, or nil.
func (c *Context) Triangle(id TriangleID) *Triangle { return c.triangles.Get(int(id)) }

// Triangles returns a free-standing copy of every triangle.
func (c *Context) Triangles() []geom.Triangle {
	out := make([]geom.Triangle, 0, c.triangles.Size())
	c.triangles.Each(func(_ int, t *Triangle) bool {
		out = append(out, c.geomTriangle(t))
		return true
	})
	return out
}

func (c *Context) geomTriangle(t *Triangle) geom.Triangle {
	var g geom.Triangle
	for i, v := range t.V {
		if x := c.Vertex(v); x != nil {
			g.P[i] = x.Point
		}
	}
	g.N = t.N
	return g
}

func (c *Context) newVertex(p geom.Point) (VertexID, *Vertex, error) {
	i, v, err := c.vertices.Alloc()
	if err != nil {
		return NoVertex, nil, fmt.Errorf("alloc vertex: %w", ErrOutOfMemory)
	}
	v.Point = p
	v.Fan = NoEdge
	v.Clone = NoVertex
	return VertexID(i), v, nil
}

func (c *Context) newEdge(v0, v1 VertexID, flags EdgeFlags) (EdgeID, *Edge, error) {
	i, e, err := c.edges.Alloc()
	if err != nil {
		return NoEdge, nil, fmt.Errorf("alloc edge: %w", ErrOutOfMemory)
	}
	*e = Edge{
		V:      [2]VertexID{v0, v1},
		Next:   [2]EdgeID{NoEdge, NoEdge},
		Fan:    NoTriangle,
		Flags:  flags,
		Clone:  NoEdge,
		Source: -1,
	}
	return EdgeID(i), e, nil
}

func (c *Context) newTriangle() (TriangleID, *Triangle, error) {
	i, t, err := c.triangles.Alloc()
	if err != nil {
		return NoTriangle, nil, fmt.Errorf("alloc triangle: %w", ErrOutOfMemory)
	}
	*t = Triangle{
		V:      [3]VertexID{NoVertex, NoVertex, NoVertex},
		E:      [3]EdgeID{NoEdge, NoEdge, NoEdge},
		Next:   [3]TriangleID{NoTriangle, NoTriangle, NoTriangle},
		Clone:  NoTriangle,
		Source: -1,
	}
	return TriangleID(i), t, nil
}

// incidence is the fan of edges around a vertex.
func (c *Context) incidence() fan[VertexID, EdgeID] {
	return fan[VertexID, EdgeID]{
		head: func(v VertexID) *EdgeID {
			if x := c.Vertex(v); x != nil {
				return &x.Fan
			}
			return nil
		},
		link: func(e EdgeID, v VertexID) *EdgeID {
			x := c.Edge(e)
			if x == nil {
				return nil
			}
			if s := x.slot(v); s >= 0 {
				return &x.Next[s]
			}
			return nil
		},
		size: c.edges.Size,
	}
}

// sharing is the fan of triangles along an edge.
func (c *Context) sharing() fan[EdgeID, TriangleID] {
	return fan[EdgeID, TriangleID]{
		head: func(e EdgeID) *TriangleID {
			if x := c.Edge(e); x != nil {
				return &x.Fan
			}
			return nil
		},
		link: func(t TriangleID, e EdgeID) *TriangleID {
			x := c.Triangle(t)
			if x == nil {
				return nil
			}
			if s := x.Slot(e); s >= 0 {
				return &x.Next[s]
			}
			return nil
		},
		size: c.triangles.Size,
	}
}

// linkEdge pushes e onto the incidence fans of both its endpoints.
func (c *Context) linkEdge(id EdgeID) error {
	inc := c.incidence()
	e := c.Edge(id)
	if !inc.push(e.V[0], id) || !inc.push(e.V[1], id) {
		return fmt.Errorf("link edge %d: %w", id, ErrCorrupted)
	}
	return nil
}

// linkTriangle pushes t onto the triangle fans of its three edges.
func (c *Context) linkTriangle(id TriangleID) error {
	sh := c.sharing()
	t := c.Triangle(id)
	for _, e := range t.E {
		if !sh.push(e, id) {
			return fmt.Errorf("link triangle %d: %w", id, ErrCorrupted)
		}
	}
	return nil
}

// debugCheck validates the context when Options.Debug is set.
func (c *Context) debugCheck(op string) error {
	if !c.opts.Debug {
		return nil
	}
	if err := c.Check(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
