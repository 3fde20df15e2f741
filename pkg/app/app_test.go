package app

import (
	"os"
	"strings"
	"testing"

	"github.com/chazu/raymesh/pkg/config"
	"github.com/chazu/raymesh/pkg/kernel/poly"
	"github.com/chazu/raymesh/pkg/kernel/sdfx"
	"github.com/chazu/raymesh/pkg/mesh"
	"github.com/chazu/raymesh/pkg/scene"
)

func newApp(t *testing.T, edit func(*config.Config)) *App {
	t.Helper()
	cfg := config.Default()
	if edit != nil {
		edit(&cfg)
	}
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func hasError(r *Result, substr string) bool {
	for _, e := range r.Errors {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// TestE2EShelfExample exercises the full pipeline: script -> engine -> graph
// -> tessellate -> scene -> mesh context.
func TestE2EShelfExample(t *testing.T) {
	source, err := os.ReadFile("../../examples/shelf.scene")
	if err != nil {
		t.Fatalf("failed to read shelf.scene: %v", err)
	}

	r := newApp(t, nil).Evaluate(string(source))
	if !r.OK() {
		for _, e := range r.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}

	if len(r.Scene.Objects) != 4 {
		t.Fatalf("expected 4 objects, got %d", len(r.Scene.Objects))
	}
	materials := map[string]string{"left": "oak", "right": "oak", "top": "oak", "ball": "glass"}
	for name, want := range materials {
		o := r.Scene.Object(name)
		if o == nil {
			t.Errorf("missing object %q", name)
			continue
		}
		if o.Material != want {
			t.Errorf("%s material = %q, want %q", name, o.Material, want)
		}
	}

	st := r.Context.Stats()
	if st.Triangles != r.Scene.NumTriangles() {
		t.Errorf("context has %d triangles, scene %d", st.Triangles, r.Scene.NumTriangles())
	}
	if !r.Context.Validate() {
		t.Error("context should validate")
	}
	if src := r.Context.View.Source; src.X != 0 || src.Y != 1 || src.Z != 10 {
		t.Errorf("view source = %v, want (0,1,10)", src)
	}
}

func TestE2EEmptySource(t *testing.T) {
	r := newApp(t, nil).Evaluate("")
	if !r.OK() {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if r.Context.NumTriangles() != 0 {
		t.Errorf("expected empty context, got %d triangles", r.Context.NumTriangles())
	}
}

func TestE2ECommentsOnly(t *testing.T) {
	r := newApp(t, nil).Evaluate(";; nothing here\n; at all\n")
	if !r.OK() {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
}

func TestE2ESyntaxError(t *testing.T) {
	r := newApp(t, nil).Evaluate(`(defobject "a" (tetra :size 1)`)
	if r.OK() || len(r.Errors) == 0 {
		t.Fatal("expected syntax error")
	}
	if r.Context != nil || r.Graph != nil {
		t.Error("failed evaluation should not carry a graph or context")
	}
}

func TestE2EUndefinedObjectReference(t *testing.T) {
	r := newApp(t, nil).Evaluate(`(place (object "ghost") :at (vec3 1 0 0))`)
	if !hasError(r, "ghost") {
		t.Errorf("expected error mentioning 'ghost', got: %v", r.Errors)
	}
}

func TestE2EValidationError(t *testing.T) {
	r := newApp(t, nil).Evaluate(`(defobject "flat" (box :size (vec3 1 0 1)) :material "m")`)
	if !hasError(r, "box dimension Y") {
		t.Errorf("expected dimension error, got: %v", r.Errors)
	}
	if r.Context != nil {
		t.Error("context should be nil")
	}
}

func TestE2EUnsupportedBoolean(t *testing.T) {
	source := `(defobject "hollow" (difference (box :size (vec3 2 2 2)) (sphere :radius 1)) :material "m")`

	r := newApp(t, nil).Evaluate(source)
	if !hasError(r, "tessellation failed") {
		t.Errorf("poly kernel should reject difference, got: %v", r.Errors)
	}

	r = newApp(t, func(c *config.Config) {
		c.Kernel = config.KernelSdfx
		c.MeshCells = 24
	}).Evaluate(source)
	if !r.OK() {
		t.Fatalf("sdfx kernel should support difference: %v", r.Errors)
	}
	if r.Context.NumTriangles() == 0 {
		t.Error("difference should produce triangles")
	}
}

func TestE2EOutOfMemory(t *testing.T) {
	r := newApp(t, func(c *config.Config) { c.MaxItems = 3 }).
		Evaluate(`(defobject "t" (tetra :size 1) :material "m")`)
	if !hasError(r, "out of memory") {
		t.Errorf("expected out of memory, got: %v", r.Errors)
	}
}

func TestE2ERapidEvaluation(t *testing.T) {
	// Sequential on purpose: zygomys is not safe for concurrent sandbox
	// creation, and the engine serializes calls anyway.
	a := newApp(t, nil)
	sources := []string{
		`(defobject "a" (box :size (vec3 1 2 3)) :material "m")`,
		`(+ 1 2)`,
		``,
		`(defobject "b" (tetra :size 2) :material "m")`,
		`(defobject "c" (cylinder :height 1 :radius 1 :segments 6) :material "m")`,
		`(+ 1`,
	}
	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked: %v", i, r)
				}
			}()
			_ = a.Evaluate(source)
		}()
	}
}

func TestNewKernel(t *testing.T) {
	cfg := config.Default()
	k, err := NewKernel(cfg)
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	if _, ok := k.(*poly.PolyKernel); !ok {
		t.Errorf("default kernel = %T, want poly", k)
	}

	cfg.Kernel = config.KernelSdfx
	if k, _ = NewKernel(cfg); k == nil {
		t.Fatal("sdfx kernel is nil")
	}
	if _, ok := k.(*sdfx.SdfxKernel); !ok {
		t.Errorf("kernel = %T, want sdfx", k)
	}

	cfg.Kernel = "manifold"
	if _, err := NewKernel(cfg); err == nil {
		t.Error("unknown kernel should fail")
	}
	if _, err := New(cfg, nil); err == nil {
		t.Error("New should reject an unknown kernel")
	}
}

func TestDebugAttachesObserver(t *testing.T) {
	a := newApp(t, func(c *config.Config) { c.Debug = true })
	opts := a.NewContext().Options()
	if opts.Observer == nil || !opts.Debug {
		t.Errorf("debug context options = %+v", opts)
	}
	if newApp(t, nil).NewContext().Options().Observer != nil {
		t.Error("observer should only be attached in debug mode")
	}
}

func TestExport(t *testing.T) {
	c := mesh.New(mesh.Options{})
	if err := c.AddObject(scene.Tetrahedron("t", 1)); err != nil {
		t.Fatalf("AddObject: %v", err)
	}

	md := Export(c, "cell", len(colorPalette)+1)
	if md.Name != "cell" {
		t.Errorf("name = %q", md.Name)
	}
	if md.Color != colorPalette[1] {
		t.Errorf("color = %q, want wrapped palette entry", md.Color)
	}
	if len(md.Vertices) != 36 || len(md.Normals) != 36 {
		t.Errorf("vertices %d normals %d, want 36 each", len(md.Vertices), len(md.Normals))
	}
	for i, idx := range md.Indices {
		if idx != uint32(i) {
			t.Fatalf("indices[%d] = %d", i, idx)
		}
	}
}
