package kernel

// Mesh is a flat triangle mesh. Vertices holds 3 floats per vertex,
// Normals 3 floats per vertex and Indices 3 entries per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // object the mesh was built for
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// AddTriangle appends a triangle with unshared vertices and the given
// face normal.
func (m *Mesh) AddTriangle(p [3][3]float32, n [3]float32) {
	base := uint32(m.VertexCount())
	for j := 0; j < 3; j++ {
		m.Vertices = append(m.Vertices, p[j][0], p[j][1], p[j][2])
		m.Normals = append(m.Normals, n[0], n[1], n[2])
		m.Indices = append(m.Indices, base+uint32(j))
	}
}

// Bounds returns the bounding box of the vertices. Both corners are zero
// for an empty mesh.
func (m *Mesh) Bounds() (min, max [3]float32) {
	if m.IsEmpty() {
		return
	}
	copy(min[:], m.Vertices[:3])
	copy(max[:], m.Vertices[:3])
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		for k := 0; k < 3; k++ {
			v := m.Vertices[i+k]
			if v < min[k] {
				min[k] = v
			}
			if v > max[k] {
				max[k] = v
			}
		}
	}
	return
}
