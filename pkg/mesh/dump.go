package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// Dump writes a human-readable listing of every entity and fan.
func (c *Context) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Vertices (%d items):\n", c.vertices.Size())
	inc := c.incidence()
	c.vertices.Each(func(i int, v *Vertex) bool {
		fmt.Fprintf(bw, "  [%3d]: p: (%.6f, %.6f, %.6f) code: %#02x\n", i, v.X, v.Y, v.Z, v.Code)
		fmt.Fprintf(bw, "    edges:")
		ok := inc.walk(VertexID(i), func(e EdgeID) bool {
			fmt.Fprintf(bw, " %d", e)
			return true
		})
		if !ok {
			fmt.Fprintf(bw, " <broken>")
		}
		fmt.Fprintln(bw)
		return true
	})

	fmt.Fprintf(bw, "Edges (%d items):\n", c.edges.Size())
	sh := c.sharing()
	c.edges.Each(func(i int, e *Edge) bool {
		fmt.Fprintf(bw, "  [%3d]: v: [%d]-[%d] l: [%d]-[%d] flags: %s\n",
			i, e.V[0], e.V[1], e.Next[0], e.Next[1], e.Flags)
		fmt.Fprintf(bw, "    triangles:")
		ok := sh.walk(EdgeID(i), func(t TriangleID) bool {
			fmt.Fprintf(bw, " %d", t)
			return true
		})
		if !ok {
			fmt.Fprintf(bw, " <broken>")
		}
		fmt.Fprintln(bw)
		return true
	})

	fmt.Fprintf(bw, "Triangles (%d items):\n", c.triangles.Size())
	c.triangles.Each(func(i int, t *Triangle) bool {
		fmt.Fprintf(bw, "  [%3d]: v: [%d]-[%d]-[%d] e: [%d]-[%d]-[%d] l: [%d]-[%d]-[%d]\n",
			i, t.V[0], t.V[1], t.V[2], t.E[0], t.E[1], t.E[2], t.Next[0], t.Next[1], t.Next[2])
		fmt.Fprintf(bw, "    n: (%.6f, %.6f, %.6f) face: %d side: %d\n", t.N.X, t.N.Y, t.N.Z, t.Face, t.Side)
		return true
	})

	return bw.Flush()
}
