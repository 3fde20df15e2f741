package app

import (
	"github.com/chazu/raymesh/pkg/mesh"
)

// colorPalette is a default palette used to assign distinct colors to cells.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// MeshData is the JSON-serializable flat mesh format. Every triangle gets
// its own three vertices so per-triangle normals survive.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// Export flattens c into MeshData. i picks the palette color.
func Export(c *mesh.Context, name string, i int) MeshData {
	tris := c.Triangles()
	md := MeshData{
		Vertices: make([]float32, 0, 9*len(tris)),
		Normals:  make([]float32, 0, 9*len(tris)),
		Indices:  make([]uint32, 0, 3*len(tris)),
		Name:     name,
		Color:    colorPalette[i%len(colorPalette)],
	}
	for _, t := range tris {
		for _, p := range t.P {
			md.Indices = append(md.Indices, uint32(len(md.Vertices)/3))
			md.Vertices = append(md.Vertices, p.X, p.Y, p.Z)
			md.Normals = append(md.Normals, t.N.X, t.N.Y, t.N.Z)
		}
	}
	return md
}
