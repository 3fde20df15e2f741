package mesh

import "github.com/chazu/raymesh/pkg/geom"

// Entity references are arena indices into the owning context. The value
// -1 is the null reference.
type (
	VertexID   int32
	EdgeID     int32
	TriangleID int32
)

const (
	NoVertex   VertexID   = -1
	NoEdge     EdgeID     = -1
	NoTriangle TriangleID = -1
)

// EdgeFlags is the per-edge state bitset.
type EdgeFlags uint8

const (
	// Processed marks an edge already classified or split in this pass.
	Processed EdgeFlags = 1 << iota
	// OnPlane marks an edge lying in the splitting plane.
	OnPlane
	// Partitioned marks an edge that partition must not split again.
	Partitioned
	// Temp is a transient marker; it never survives a fetch.
	Temp
)

func (f EdgeFlags) String() string {
	s := ""
	for _, n := range []struct {
		f    EdgeFlags
		name string
	}{{Processed, "P"}, {OnPlane, "O"}, {Partitioned, "X"}, {Temp, "T"}} {
		if f&n.f != 0 {
			s += n.name
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

// Vertex is a mesh point. Fan is the head of its incidence fan: the edges
// touching the vertex, chained through Edge.Next.
type Vertex struct {
	geom.Point
	Fan EdgeID

	// Code is the plane classification of the current operation.
	Code uint8
	// Clone is the copy of this vertex in a fetch destination.
	Clone VertexID
}

// Edge joins V[0] and V[1]. Next[i] continues the incidence fan of V[i];
// Fan is the head of the triangles sharing the edge, chained through
// Triangle.Next.
type Edge struct {
	V     [2]VertexID
	Next  [2]EdgeID
	Fan   TriangleID
	Flags EdgeFlags

	// Clone is the copy of this edge in a fetch destination.
	Clone EdgeID
	// Source is the edge this one was fetched from, -1 otherwise.
	Source int32
}

// Triangle is a mesh face. E[i] joins V[i] and V[(i+1)%3], Next[i]
// continues the triangle fan of E[i].
type Triangle struct {
	V    [3]VertexID
	E    [3]EdgeID
	Next [3]TriangleID
	N    geom.Vector
	Face int32

	// Side is the classification of the current operation: 0 in, 1 out.
	Side int8
	// Clone is the copy of this triangle in a fetch destination.
	Clone TriangleID
	// Source is the triangle this one was fetched or imported from, -1
	// otherwise.
	Source int32
}

// Slot returns the index i with E[i] == e, or -1.
func (t *Triangle) Slot(e EdgeID) int {
	for i, x := range t.E {
		if x == e {
			return i
		}
	}
	return -1
}

// Arranged returns a copy of t rotated so that E[0] == e. Vertices, edges
// and fan links rotate together, preserving winding. ok is false when t
// does not reference e.
func (t Triangle) Arranged(e EdgeID) (Triangle, bool) {
	k := t.Slot(e)
	if k < 0 {
		return t, false
	}
	r := t
	for i := 0; i < 3; i++ {
		j := (i + k) % 3
		r.V[i], r.E[i], r.Next[i] = t.V[j], t.E[j], t.Next[j]
	}
	return r, true
}

// slot returns the index i with V[i] == v, or -1.
func (e *Edge) slot(v VertexID) int {
	switch v {
	case e.V[0]:
		return 0
	case e.V[1]:
		return 1
	}
	return -1
}

// Stats holds the entity counts of a context.
type Stats struct {
	Vertices  int `json:"vertices"`
	Edges     int `json:"edges"`
	Triangles int `json:"triangles"`
}

// View is the observation point partitions are oriented against.
type View struct {
	Source geom.Point
}
