package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"

	"github.com/chazu/raymesh/pkg/graph"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene script source before passing it to
// zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids registering keyword symbols as globals, which would
//     conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: inner-wall -> inner_wall
//     zygomys reads a hyphen as the subtraction operator, so hyphens between
//     identifier characters are rewritten outside of strings and comments.
//
//  3. Line comments: ; and ;; become // which zygomys understands.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	kind graph.NodeKind
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(%s %q)", n.kind, n.name)
	}
	return fmt.Sprintf("(%s %s)", n.kind, n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword with no value.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// number reads keyword key into dst when present.
func (a kwArgs) number(fn, key string, dst *float64) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = f
	return nil
}

// count reads keyword key as an integer into dst when present.
func (a kwArgs) count(fn, key string, dst *int) error {
	var f float64
	if _, ok := a.kw[key]; !ok {
		return nil
	}
	if err := a.number(fn, key, &f); err != nil {
		return err
	}
	*dst = int(f)
	return nil
}

// vec reads keyword key as a vec3 when present.
func (a kwArgs) vec(fn, key string) (*graph.Vec3, error) {
	v, ok := a.kw[key]
	if !ok {
		return nil, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return &vec, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a node reference.
func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref, nil
	}
	return nil, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a reference that evaluates to a solid.
func toShape(g *graph.SceneGraph, s zygo.Sexp) (graph.NodeID, error) {
	ref, err := toNodeRef(s)
	if err != nil {
		return graph.ZeroID, err
	}
	n := g.Get(ref.id)
	for n != nil && n.Kind == graph.NodeTransform && len(n.Children) == 1 {
		n = g.Get(n.Children[0])
	}
	if n == nil || !n.IsShape() {
		return graph.ZeroID, fmt.Errorf("expected shape, got %s", ref.SexpString(nil))
	}
	return ref.id, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return graph.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Graph population
// ---------------------------------------------------------------------------

// builder populates one graph during one evaluation. Anonymous nodes are
// numbered per evaluation so re-running a script yields the same IDs.
type builder struct {
	g     *graph.SceneGraph
	count map[string]int
}

func (b *builder) path(prefix string) string {
	b.count[prefix]++
	return fmt.Sprintf("%s/%d", prefix, b.count[prefix])
}

func (b *builder) add(n *graph.Node) *sexpNodeRef {
	b.g.AddNode(n)
	return &sexpNodeRef{id: n.ID, kind: n.Kind, name: n.Name}
}

// adopt moves children out of the root set; they are now reached through
// their new parent.
func (b *builder) adopt(parent graph.NodeID, children []graph.NodeID) {
	adopted := lo.Filter(children, func(id graph.NodeID, _ int) bool {
		return lo.Contains(b.g.Roots, id)
	})
	for _, id := range adopted {
		b.g.RemoveRoot(id)
	}
	if len(adopted) > 0 {
		b.g.AddRoot(parent)
	}
}

func (b *builder) primitive(pd graph.PrimitiveData) *sexpNodeRef {
	return b.add(&graph.Node{
		ID:   graph.NewNodeID(b.path(pd.Kind.String())),
		Kind: graph.NodePrimitive,
		Data: pd,
	})
}

func (b *builder) boolean(op graph.BooleanOp, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 2 {
		return zygo.SexpNull, fmt.Errorf("%s requires at least 2 shapes, got %d", op, len(args))
	}
	children := make([]graph.NodeID, 0, len(args))
	for i, a := range args {
		id, err := toShape(b.g, a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", op, i, err)
		}
		children = append(children, id)
	}
	return b.add(&graph.Node{
		ID:       graph.NewNodeID(b.path(op.String())),
		Kind:     graph.NodeBoolean,
		Children: children,
		Data:     graph.BooleanData{Op: op},
	}), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all scene DSL builtins into a zygomys environment.
// The builtins operate on the provided SceneGraph, populating it during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.SceneGraph) {
	b := &builder{g: g, count: make(map[string]int)}

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: graph.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// (box :size (vec3 4 2 1))
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size, err := pa.vec("box", "size")
		if err != nil {
			return zygo.SexpNull, err
		}
		if size == nil {
			return zygo.SexpNull, fmt.Errorf("box requires :size")
		}
		return b.primitive(graph.PrimitiveData{Kind: graph.PrimBox, Size: *size}), nil
	})

	// (cylinder :height 2 :radius 0.5 :segments 24)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pd := graph.PrimitiveData{Kind: graph.PrimCylinder}
		if err := pa.number("cylinder", "height", &pd.Height); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.number("cylinder", "radius", &pd.Radius); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.count("cylinder", "segments", &pd.Segments); err != nil {
			return zygo.SexpNull, err
		}
		return b.primitive(pd), nil
	})

	// (sphere :radius 1 :segments 16)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pd := graph.PrimitiveData{Kind: graph.PrimSphere}
		if err := pa.number("sphere", "radius", &pd.Radius); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.count("sphere", "segments", &pd.Segments); err != nil {
			return zygo.SexpNull, err
		}
		return b.primitive(pd), nil
	})

	// (tetra :size 1)
	env.AddFunction("tetra", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		pd := graph.PrimitiveData{Kind: graph.PrimTetra}
		if err := pa.number("tetra", "size", &pd.Edge); err != nil {
			return zygo.SexpNull, err
		}
		return b.primitive(pd), nil
	})

	// (union a b ...), (difference a b ...), (intersection a b ...)
	for _, op := range []graph.BooleanOp{graph.OpUnion, graph.OpDifference, graph.OpIntersection} {
		env.AddFunction(op.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			return b.boolean(op, args)
		})
	}

	// (defobject "hull" shape :material "steel")
	env.AddFunction("defobject", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("defobject requires a name and a shape expression")
		}
		objName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defobject: name: %w", err)
		}
		if g.Lookup(objName) != nil {
			return zygo.SexpNull, fmt.Errorf("defobject: %q is already defined", objName)
		}
		shape, err := toShape(g, pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defobject: %w", err)
		}
		od := graph.ObjectData{}
		if v, ok := pa.kw["material"]; ok {
			if od.Material, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("defobject: material: %w", err)
			}
		}

		ref := b.add(&graph.Node{
			ID:       graph.NewNodeID("object/" + objName),
			Kind:     graph.NodeObject,
			Name:     objName,
			Children: []graph.NodeID{shape},
			Data:     od,
		})
		g.AddRoot(ref.id)
		return ref, nil
	})

	// (object "hull")
	env.AddFunction("object", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("object requires a name argument")
		}
		objName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("object: name: %w", err)
		}
		n := g.Lookup(objName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("object: no object named %q", objName)
		}
		return &sexpNodeRef{id: n.ID, kind: n.Kind, name: n.Name}, nil
	})

	// (place ref :at (vec3 0 0 5) :rotate (vec3 0 0 90))
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a reference as first argument")
		}
		child, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}

		td := graph.TransformData{}
		if td.Translation, err = pa.vec("place", "at"); err != nil {
			return zygo.SexpNull, err
		}
		if td.Rotation, err = pa.vec("place", "rotate"); err != nil {
			return zygo.SexpNull, err
		}

		prefix := "place"
		if child.name != "" {
			prefix = "place/" + child.name
		}
		ref := b.add(&graph.Node{
			ID:       graph.NewNodeID(b.path(prefix)),
			Kind:     graph.NodeTransform,
			Children: []graph.NodeID{child.id},
			Data:     td,
		})
		b.adopt(ref.id, []graph.NodeID{child.id})
		return ref, nil
	})

	// (group "name" ref ...)
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		grpName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		if g.Lookup(grpName) != nil {
			return zygo.SexpNull, fmt.Errorf("group: %q is already defined", grpName)
		}

		var children []graph.NodeID
		for i := 1; i < len(args); i++ {
			ref, err := toNodeRef(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: child %d: %w", i, err)
			}
			children = append(children, ref.id)
		}

		ref := b.add(&graph.Node{
			ID:       graph.NewNodeID("group/" + grpName),
			Kind:     graph.NodeGroup,
			Name:     grpName,
			Children: children,
			Data:     graph.GroupData{},
		})
		b.adopt(ref.id, children)
		g.AddRoot(ref.id)
		return ref, nil
	})

	// (view (vec3 0 0 10))
	env.AddFunction("view", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("view requires exactly 1 argument, got %d", len(args))
		}
		v, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("view: %w", err)
		}
		g.View = v
		return args[0], nil
	})
}
