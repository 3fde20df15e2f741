package graph

import "fmt"

// Vec3 is a 3D vector in scene units.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// ---------------------------------------------------------------------------
// Primitive
// ---------------------------------------------------------------------------

// PrimitiveKind distinguishes the solid primitives.
type PrimitiveKind int

const (
	PrimBox PrimitiveKind = iota
	PrimCylinder
	PrimSphere
	PrimTetra
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimBox:
		return "box"
	case PrimCylinder:
		return "cylinder"
	case PrimSphere:
		return "sphere"
	case PrimTetra:
		return "tetra"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// PrimitiveData describes a centered solid primitive. Size is used by boxes,
// Radius by cylinders and spheres, Height by cylinders and Edge by
// tetrahedra. Segments of zero selects the kernel default.
type PrimitiveData struct {
	Kind     PrimitiveKind `json:"kind"`
	Size     Vec3          `json:"size,omitempty"`
	Radius   float64       `json:"radius,omitempty"`
	Height   float64       `json:"height,omitempty"`
	Edge     float64       `json:"edge,omitempty"`
	Segments int           `json:"segments,omitempty"`
}

func (PrimitiveData) nodeData() {}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BooleanOp is a CSG operation over the node's children.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return fmt.Sprintf("BooleanOp(%d)", int(op))
	}
}

// BooleanData folds Op over the children left to right.
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData places its single child. Rotation holds Euler angles in
// degrees and is applied before Translation.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Object
// ---------------------------------------------------------------------------

// ObjectData marks a named shape that becomes one scene object.
type ObjectData struct {
	Material string `json:"material,omitempty"`
}

func (ObjectData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData is the payload for a logical grouping.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
