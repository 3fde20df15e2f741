// Package tessellate walks a scene graph and produces a placed scene using
// a geometry kernel. One scene object is produced per object node.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/raymesh/pkg/geom"
	"github.com/chazu/raymesh/pkg/graph"
	"github.com/chazu/raymesh/pkg/kernel"
	"github.com/chazu/raymesh/pkg/scene"
)

// ErrInvalidGraph is returned when the graph fails structural validation.
var ErrInvalidGraph = errors.New("tessellate: invalid graph")

// transformStack accumulates placements during graph traversal. The top of
// the stack is the product of every enclosing transform.
type transformStack struct {
	frames []sdf.M44
}

func newTransformStack() *transformStack {
	return &transformStack{frames: []sdf.M44{geom.Identity()}}
}

func (ts *transformStack) top() sdf.M44 {
	return ts.frames[len(ts.frames)-1]
}

func (ts *transformStack) push(m sdf.M44) {
	ts.frames = append(ts.frames, ts.top().Mul(m))
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 1 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// localMatrix rotates first, then translates.
func localMatrix(td graph.TransformData) sdf.M44 {
	m := geom.Identity()
	if td.Translation != nil {
		t := td.Translation
		m = sdf.Translate3d(v3.Vec{X: t.X, Y: t.Y, Z: t.Z})
	}
	if td.Rotation != nil {
		r := td.Rotation
		m = m.Mul(geom.EulerMatrix(r.X, r.Y, r.Z))
	}
	return m
}

type walker struct {
	g     *graph.SceneGraph
	k     kernel.Kernel
	ts    *transformStack
	scene *scene.Scene
}

// Tessellate walks the scene graph and produces a scene whose objects carry
// the accumulated placement of their enclosing transforms. Shapes reached
// outside any object become anonymous objects. The tessellator is read-only
// and never mutates the graph.
func Tessellate(g *graph.SceneGraph, k kernel.Kernel) (*scene.Scene, error) {
	s := scene.New()
	if g == nil {
		return s, nil
	}

	for _, e := range graph.Validate(g) {
		if e.Severity == graph.SeverityError {
			return nil, fmt.Errorf("%w: %s", ErrInvalidGraph, e)
		}
	}

	s.Source = geom.Pt(float32(g.View.X), float32(g.View.Y), float32(g.View.Z))
	w := &walker{g: g, k: k, ts: newTransformStack(), scene: s}

	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		if err := w.walk(root); err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
	}

	return s, nil
}

// walk recursively traverses placement nodes, emitting an object for every
// object node or bare shape it reaches.
func (w *walker) walk(n *graph.Node) error {
	switch n.Kind {
	case graph.NodeObject:
		return w.emit(n, n.Children[0])

	case graph.NodePrimitive, graph.NodeBoolean:
		return w.emit(n, n.ID)

	case graph.NodeTransform:
		td, ok := n.Data.(graph.TransformData)
		if !ok {
			return fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		w.ts.push(localMatrix(td))
		defer w.ts.pop()
		return w.children(n)

	case graph.NodeGroup:
		return w.children(n)

	default:
		return fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func (w *walker) children(n *graph.Node) error {
	for _, child := range w.g.Children(n) {
		if err := w.walk(child); err != nil {
			return err
		}
	}
	return nil
}

// emit tessellates the shape rooted at shapeID into one scene object named
// after n and placed with the current transform.
func (w *walker) emit(n *graph.Node, shapeID graph.NodeID) error {
	shape := w.g.Get(shapeID)
	if shape == nil {
		return fmt.Errorf("node %s: shape %s does not exist", n.ID.Short(), shapeID.Short())
	}
	solid, err := w.solid(shape)
	if err != nil {
		return err
	}
	mesh, err := w.k.ToMesh(solid)
	if err != nil {
		return fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}

	name := lo.Ternary(n.Name != "", n.Name, n.Kind.String()+"-"+n.ID.Short())
	mesh.Name = name
	obj := scene.FromMesh(name, mesh)
	if od, ok := n.Data.(graph.ObjectData); ok {
		obj.Material = od.Material
	}
	w.scene.Add(obj, w.ts.top())
	return nil
}

// solid evaluates a shape subtree into a kernel solid. Transforms inside a
// shape are applied to the solid itself.
func (w *walker) solid(n *graph.Node) (kernel.Solid, error) {
	switch data := n.Data.(type) {
	case graph.PrimitiveData:
		return w.primitive(n, data)

	case graph.BooleanData:
		operands := w.g.Children(n)
		if len(operands) < 2 {
			return nil, fmt.Errorf("boolean node %s has %d operands", n.ID.Short(), len(operands))
		}
		acc, err := w.solid(operands[0])
		if err != nil {
			return nil, err
		}
		for _, o := range operands[1:] {
			next, err := w.solid(o)
			if err != nil {
				return nil, err
			}
			switch data.Op {
			case graph.OpUnion:
				acc = w.k.Union(acc, next)
			case graph.OpDifference:
				acc = w.k.Difference(acc, next)
			case graph.OpIntersection:
				acc = w.k.Intersection(acc, next)
			default:
				return nil, fmt.Errorf("boolean node %s has unknown op %v", n.ID.Short(), data.Op)
			}
		}
		return acc, nil

	case graph.TransformData:
		children := w.g.Children(n)
		if len(children) != 1 {
			return nil, fmt.Errorf("transform node %s has %d children", n.ID.Short(), len(children))
		}
		s, err := w.solid(children[0])
		if err != nil {
			return nil, err
		}
		if r := data.Rotation; r != nil && !r.IsZero() {
			s = w.k.Rotate(s, r.X, r.Y, r.Z)
		}
		if t := data.Translation; t != nil && !t.IsZero() {
			s = w.k.Translate(s, t.X, t.Y, t.Z)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("node %s (%s) is not a shape", n.ID.Short(), n.Kind)
	}
}

func (w *walker) primitive(n *graph.Node, pd graph.PrimitiveData) (kernel.Solid, error) {
	switch pd.Kind {
	case graph.PrimBox:
		return w.k.Box(pd.Size.X, pd.Size.Y, pd.Size.Z), nil
	case graph.PrimCylinder:
		return w.k.Cylinder(pd.Height, pd.Radius, pd.Segments), nil
	case graph.PrimSphere:
		return w.k.Sphere(pd.Radius, pd.Segments), nil
	case graph.PrimTetra:
		return w.k.Tetra(pd.Edge), nil
	default:
		return nil, fmt.Errorf("primitive node %s has unsupported kind %v", n.ID.Short(), pd.Kind)
	}
}
