package geom

// Tolerance is the distance under which a point counts as lying on a plane.
const Tolerance float32 = 1e-5

// Ternary classification codes. The zero value means "above".
const (
	Above uint8 = 0 // d > +Tolerance
	On    uint8 = 1 // |d| <= Tolerance
	Below uint8 = 2 // d < -Tolerance
)

// Plane is the equation X*x + Y*y + Z*z + W = 0. (X, Y, Z) is the normal.
type Plane struct {
	X, Y, Z, W float32
}

// Normal returns the plane normal as a direction.
func (pl Plane) Normal() Vector {
	return Vector{X: pl.X, Y: pl.Y, Z: pl.Z}
}

// Distance returns the signed distance of p from the plane, scaled by the
// normal length.
func (pl Plane) Distance(p Point) float32 {
	return p.X*pl.X + p.Y*pl.Y + p.Z*pl.Z + pl.W
}

// Flip returns the same plane with the opposite orientation.
func (pl Plane) Flip() Plane {
	return Plane{X: -pl.X, Y: -pl.Y, Z: -pl.Z, W: -pl.W}
}

// Classify codes a signed distance with tolerance: Below, On or Above.
// A distance of exactly ±Tolerance is On.
func Classify(d float32) uint8 {
	switch {
	case d < -Tolerance:
		return Below
	case d > Tolerance:
		return Above
	}
	return On
}

// ClassifyBinary codes a signed distance strictly: 1 below the plane, 0
// otherwise.
func ClassifyBinary(d float32) uint8 {
	if d < 0 {
		return 1
	}
	return 0
}

// PlaneFrom returns the normalized plane through p0, p1, p2 whose normal
// follows the right-hand rule. ok is false for collinear points.
func PlaneFrom(p0, p1, p2 Point) (pl Plane, ok bool) {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	l := n.Length()
	if l == 0 {
		return Plane{}, false
	}
	n = n.Scale(1 / l)
	return Plane{X: n.X, Y: n.Y, Z: n.Z, W: -(n.X*p0.X + n.Y*p0.Y + n.Z*p0.Z)}, true
}

// OrientedPlane returns the normalized plane through p0, p1, p2 oriented so
// that sp lies on its non-negative side.
func OrientedPlane(sp, p0, p1, p2 Point) (Plane, bool) {
	pl, ok := PlaneFrom(p0, p1, p2)
	if !ok {
		return pl, false
	}
	if pl.Distance(sp) < 0 {
		pl = pl.Flip()
	}
	return pl, true
}

// Intersect returns the point where the line through a and b meets pl.
// ok is false when the line is parallel to the plane.
func Intersect(a, b Point, pl Plane) (Point, bool) {
	d := b.Sub(a)
	den := pl.X*d.X + pl.Y*d.Y + pl.Z*d.Z
	if den == 0 {
		return Point{}, false
	}
	t := pl.Distance(a) / den
	return Point{X: a.X - d.X*t, Y: a.Y - d.Y*t, Z: a.Z - d.Z*t, W: 1}, true
}
