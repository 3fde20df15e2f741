package geom

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyToleranceBoundary(t *testing.T) {
	tests := []struct {
		name string
		d    float32
		want uint8
	}{
		{"zero", 0, On},
		{"exactly +tolerance", Tolerance, On},
		{"exactly -tolerance", -Tolerance, On},
		{"just above", math.Nextafter32(Tolerance, 1), Above},
		{"just below", math.Nextafter32(-Tolerance, -1), Below},
		{"far above", 3, Above},
		{"far below", -3, Below},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.d))
		})
	}
}

func TestClassifyBinary(t *testing.T) {
	assert.Equal(t, uint8(1), ClassifyBinary(-1e-9))
	assert.Equal(t, uint8(0), ClassifyBinary(0))
	assert.Equal(t, uint8(0), ClassifyBinary(2))
}

func TestPlaneDistance(t *testing.T) {
	pl := Plane{X: 1, Y: 0, Z: 0, W: -2}
	assert.InDelta(t, 1.0, pl.Distance(Pt(3, 5, 7)), 1e-6)
	assert.InDelta(t, -2.0, pl.Distance(Pt(0, 0, 0)), 1e-6)
	assert.InDelta(t, 2.0, pl.Flip().Distance(Pt(0, 0, 0)), 1e-6)
}

func TestPlaneFrom(t *testing.T) {
	pl, ok := PlaneFrom(Pt(0, 0, 0), Pt(1, 0, 0), Pt(0, 1, 0))
	require.True(t, ok)
	assert.InDelta(t, 1.0, pl.Z, 1e-6)
	assert.InDelta(t, 0.0, pl.W, 1e-6)

	_, ok = PlaneFrom(Pt(0, 0, 0), Pt(1, 1, 1), Pt(2, 2, 2))
	assert.False(t, ok, "collinear points have no plane")
}

func TestOrientedPlane(t *testing.T) {
	for _, sp := range []Point{Pt(0, 0, 5), Pt(0, 0, -5)} {
		pl, ok := OrientedPlane(sp, Pt(0, 0, 0), Pt(1, 0, 0), Pt(0, 1, 0))
		require.True(t, ok)
		assert.Greater(t, pl.Distance(sp), float32(0))
	}
}

func TestIntersect(t *testing.T) {
	pl := Plane{X: 1}
	p, ok := Intersect(Pt(-1, 2, 0), Pt(3, 2, 4), pl)
	require.True(t, ok)
	assert.InDelta(t, 0.0, p.X, 1e-6)
	assert.InDelta(t, 2.0, p.Y, 1e-6)
	assert.InDelta(t, 1.0, p.Z, 1e-6)
	assert.Equal(t, float32(1), p.W)

	_, ok = Intersect(Pt(1, 0, 0), Pt(1, 1, 0), pl)
	assert.False(t, ok)
}

func TestNormal(t *testing.T) {
	n := Normal(Pt(0, 0, 0), Pt(1, 0, 0), Pt(0, 1, 0))
	assert.Equal(t, Vec(0, 0, 1), n)
	assert.Equal(t, Vector{}, Normal(Pt(0, 0, 0), Pt(1, 0, 0), Pt(2, 0, 0)))
}

func TestApply(t *testing.T) {
	m := sdf.Translate3d(v3.Vec{X: 1, Y: 2, Z: 3}).Mul(sdf.RotateZ(sdf.Pi / 2))

	p := Apply(m, Pt(1, 0, 0))
	assert.InDelta(t, 1.0, p.X, 1e-5)
	assert.InDelta(t, 3.0, p.Y, 1e-5)
	assert.InDelta(t, 3.0, p.Z, 1e-5)

	n := ApplyDir(m, Vec(1, 0, 0))
	assert.InDelta(t, 0.0, n.X, 1e-5)
	assert.InDelta(t, 1.0, n.Y, 1e-5)
	assert.InDelta(t, 0.0, n.Z, 1e-5)

	id := Apply(Identity(), Pt(4, 5, 6))
	assert.Equal(t, Pt(4, 5, 6), id)
}
