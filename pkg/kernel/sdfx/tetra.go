package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// tetraSDF bounds a regular tetrahedron by its four face planes. The
// value is the largest signed plane distance, which has the right sign
// everywhere and never overestimates the true distance.
type tetraSDF struct {
	normals [4]v3.Vec
	offset  float64
	bb      sdf.Box3
}

func newTetra(size float64) *tetraSDF {
	k := 1 / math.Sqrt(3)
	return &tetraSDF{
		normals: [4]v3.Vec{
			{X: k, Y: k, Z: -k},
			{X: -k, Y: k, Z: k},
			{X: -k, Y: -k, Z: -k},
			{X: k, Y: -k, Z: k},
		},
		offset: size * k,
		bb: sdf.Box3{
			Min: v3.Vec{X: -size, Y: -size, Z: -size},
			Max: v3.Vec{X: size, Y: size, Z: size},
		},
	}
}

// Evaluate returns the signed distance bound at p.
func (t *tetraSDF) Evaluate(p v3.Vec) float64 {
	d := math.Inf(-1)
	for _, n := range t.normals {
		d = math.Max(d, n.X*p.X+n.Y*p.Y+n.Z*p.Z-t.offset)
	}
	return d
}

// BoundingBox returns the cube holding the four corners.
func (t *tetraSDF) BoundingBox() sdf.Box3 {
	return t.bb
}
