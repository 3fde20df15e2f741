package engine

import (
	"strings"
	"testing"

	"github.com/chazu/raymesh/pkg/graph"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(defobject "a" s :material "steel")`,
			expect: `(defobject "a" s "__kw_material" "steel")`,
		},
		{
			name:   "multiple keywords",
			input:  `(cylinder :height 2 :radius 1)`,
			expect: `(cylinder "__kw_height" 2 "__kw_radius" 1)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def inner-wall (box :size v))`,
			expect: `(def inner_wall (box "__kw_size" v))`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(vec3 -1 0 -2.5)`,
			expect: `(vec3 -1 0 -2.5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:cell-size`,
			expect: `"__kw_cell-size"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// mustEval evaluates source and fails the test on any error.
func mustEval(t *testing.T, source string) *graph.SceneGraph {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	for _, e := range evalErrs {
		t.Errorf("eval error: %s", e)
	}
	if g == nil {
		t.Fatal("expected non-nil graph")
	}
	return g
}

// evalFails evaluates source and returns the first eval error message.
func evalFails(t *testing.T, source string) string {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil graph on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	return evalErrs[0].Message
}

func TestSimpleObject(t *testing.T) {
	g := mustEval(t, `
(defobject "slab" (box :size (vec3 4 2 1)) :material "granite")
`)
	if g.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes (box + object), got %d", g.NodeCount())
	}

	slab := g.Lookup("slab")
	if slab == nil {
		t.Fatal("expected node named 'slab'")
	}
	if slab.Kind != graph.NodeObject {
		t.Errorf("expected NodeObject, got %s", slab.Kind)
	}
	od, ok := slab.Data.(graph.ObjectData)
	if !ok || od.Material != "granite" {
		t.Errorf("object data = %#v", slab.Data)
	}
	if len(g.Roots) != 1 || g.Roots[0] != slab.ID {
		t.Errorf("roots = %v, want [slab]", g.Roots)
	}

	box := g.Get(slab.Children[0])
	pd, ok := box.Data.(graph.PrimitiveData)
	if !ok {
		t.Fatalf("expected PrimitiveData, got %T", box.Data)
	}
	if pd.Kind != graph.PrimBox || pd.Size != (graph.Vec3{X: 4, Y: 2, Z: 1}) {
		t.Errorf("box = %+v", pd)
	}
}

func TestPrimitives(t *testing.T) {
	g := mustEval(t, `
(defobject "can" (cylinder :height 2 :radius 0.5 :segments 24))
(defobject "ball" (sphere :radius 1.5 :segments 12))
(defobject "pyramid" (tetra :size 3))
`)
	tests := []struct {
		name string
		want graph.PrimitiveData
	}{
		{"can", graph.PrimitiveData{Kind: graph.PrimCylinder, Height: 2, Radius: 0.5, Segments: 24}},
		{"ball", graph.PrimitiveData{Kind: graph.PrimSphere, Radius: 1.5, Segments: 12}},
		{"pyramid", graph.PrimitiveData{Kind: graph.PrimTetra, Edge: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := g.MustLookup(tt.name)
			got := g.Get(obj.Children[0]).Data
			if got != tt.want {
				t.Errorf("primitive = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBooleans(t *testing.T) {
	g := mustEval(t, `
(def a (box :size (vec3 2 2 2)))
(def b (sphere :radius 1.2))
(def c (cylinder :height 3 :radius 0.4))
(defobject "u" (union a b c))
(defobject "d" (difference a b))
(defobject "i" (intersection a (place b :at (vec3 0.5 0 0))))
`)
	tests := []struct {
		name     string
		op       graph.BooleanOp
		operands int
	}{
		{"u", graph.OpUnion, 3},
		{"d", graph.OpDifference, 2},
		{"i", graph.OpIntersection, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := g.Get(g.MustLookup(tt.name).Children[0])
			if n.Kind != graph.NodeBoolean {
				t.Fatalf("kind = %s, want boolean", n.Kind)
			}
			if bd := n.Data.(graph.BooleanData); bd.Op != tt.op {
				t.Errorf("op = %s, want %s", bd.Op, tt.op)
			}
			if len(n.Children) != tt.operands {
				t.Errorf("operands = %d, want %d", len(n.Children), tt.operands)
			}
		})
	}

	if len(g.Roots) != 3 {
		t.Errorf("roots = %d, want 3 objects", len(g.Roots))
	}
	if errs := graph.Validate(g); len(errs) != 0 {
		t.Errorf("graph should validate: %v", errs)
	}
}

func TestPlaceObjectReplacesRoot(t *testing.T) {
	g := mustEval(t, `
(defobject "cube" (box :size (vec3 1 1 1)))
(place (object "cube") :at (vec3 0 0 5) :rotate (vec3 0 0 90))
`)
	if len(g.Roots) != 1 {
		t.Fatalf("roots = %d, want 1", len(g.Roots))
	}
	root := g.Get(g.Roots[0])
	if root.Kind != graph.NodeTransform {
		t.Fatalf("root kind = %s, want transform", root.Kind)
	}
	td := root.Data.(graph.TransformData)
	if td.Translation == nil || *td.Translation != (graph.Vec3{Z: 5}) {
		t.Errorf("translation = %v", td.Translation)
	}
	if td.Rotation == nil || *td.Rotation != (graph.Vec3{Z: 90}) {
		t.Errorf("rotation = %v", td.Rotation)
	}
	if root.Children[0] != g.MustLookup("cube").ID {
		t.Error("transform should wrap the cube")
	}
}

func TestGroupAdoptsRoots(t *testing.T) {
	g := mustEval(t, `
(defobject "left" (box :size (vec3 1 2 3)) :material "oak")
(defobject "right" (box :size (vec3 1 2 3)) :material "oak")
(group "shelf"
  (place (object "left") :at (vec3 -2 0 0))
  (place (object "right") :at (vec3 2 0 0)))
`)
	if len(g.Roots) != 1 {
		t.Fatalf("roots = %d, want 1", len(g.Roots))
	}
	shelf := g.MustLookup("shelf")
	if g.Roots[0] != shelf.ID {
		t.Error("group should be the only root")
	}
	if shelf.Kind != graph.NodeGroup || len(shelf.Children) != 2 {
		t.Errorf("group = %s with %d children", shelf.Kind, len(shelf.Children))
	}
	for _, c := range g.Children(shelf) {
		if c.Kind != graph.NodeTransform {
			t.Errorf("child kind = %s, want transform", c.Kind)
		}
	}
	if r := graph.ValidateAll(g); !r.OK() || len(r.Warnings) != 0 {
		t.Errorf("errors %v warnings %v", r.Errors, r.Warnings)
	}
}

func TestView(t *testing.T) {
	g := mustEval(t, `(view (vec3 3 -1 10))`)
	if g.View != (graph.Vec3{X: 3, Y: -1, Z: 10}) {
		t.Errorf("view = %+v", g.View)
	}
}

func TestVec3(t *testing.T) {
	g := mustEval(t, `
(def v (vec3 1 2.5 -3))
(defobject "b" (box :size v))
`)
	pd := g.Get(g.MustLookup("b").Children[0]).Data.(graph.PrimitiveData)
	if pd.Size != (graph.Vec3{X: 1, Y: 2.5, Z: -3}) {
		t.Errorf("size = %+v", pd.Size)
	}
}

func TestDeterministicIDs(t *testing.T) {
	source := `
(defobject "a" (union (box :size (vec3 1 1 1)) (sphere :radius 1)))
(place (object "a") :at (vec3 1 0 0))
`
	g1 := mustEval(t, source)
	g2 := mustEval(t, source)
	if g1.NodeCount() != g2.NodeCount() {
		t.Fatalf("node counts differ: %d vs %d", g1.NodeCount(), g2.NodeCount())
	}
	for id := range g1.Nodes {
		if g2.Get(id) == nil {
			t.Errorf("node %s missing from second evaluation", id.Short())
		}
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		match  string
	}{
		{"vec3 arity", `(vec3 1 2)`, "exactly 3"},
		{"vec3 type", `(vec3 1 "a" 3)`, "expected number"},
		{"box without size", `(box)`, "requires :size"},
		{"box size type", `(box :size 3)`, "expected vec3"},
		{"union of one", `(union (box :size (vec3 1 1 1)))`, "at least 2"},
		{"union of vector", `(union (vec3 1 1 1) (tetra :size 1))`, "expected node reference"},
		{"defobject arity", `(defobject "x")`, "requires a name and a shape"},
		{"defobject twice", `(defobject "x" (tetra :size 1)) (defobject "x" (tetra :size 1))`, "already defined"},
		{"defobject of object", `(defobject "x" (tetra :size 1)) (defobject "y" (object "x"))`, "expected shape"},
		{"unknown object", `(object "nope")`, "no object named"},
		{"place without ref", `(place :at (vec3 1 1 1))`, "requires a reference"},
		{"group child", `(group "g" 42)`, "expected node reference"},
		{"view arity", `(view)`, "exactly 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.source)
			if !strings.Contains(msg, tt.match) {
				t.Errorf("error %q should contain %q", msg, tt.match)
			}
		})
	}
}

func TestRunValidates(t *testing.T) {
	eng := NewEngine()

	res, err := eng.Run(`(defobject "flat" (box :size (vec3 1 0 1)))`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if res.OK() {
		t.Fatal("zero-size box should fail validation")
	}
	if !strings.Contains(res.Errors[0].Message, "box dimension Y") {
		t.Errorf("error = %q", res.Errors[0].Message)
	}

	res, err = eng.Run(`(defobject "bare" (tetra :size 1))`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0].Message, "no material") {
		t.Errorf("warnings = %v", res.Warnings)
	}

	res, err = eng.Run(`(+ 1`)
	if err != nil || res.OK() || len(res.Errors) == 0 {
		t.Errorf("syntax error should surface as eval error: %+v %v", res, err)
	}
}

func TestEmptySourceStillWorks(t *testing.T) {
	g := mustEval(t, "")
	if g.NodeCount() != 0 {
		t.Errorf("expected 0 nodes, got %d", g.NodeCount())
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	g := mustEval(t, "(+ 1 2)")
	if g.NodeCount() != 0 {
		t.Errorf("expected 0 nodes, got %d", g.NodeCount())
	}
}
