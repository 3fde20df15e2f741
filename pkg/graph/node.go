package graph

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // box, cylinder, sphere, tetra
	NodeBoolean                   // union, difference, intersection
	NodeTransform                 // translate + euler rotate (place)
	NodeObject                    // named, materialed shape (defobject)
	NodeGroup                     // logical grouping
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeBoolean:
		return "boolean"
	case NodeTransform:
		return "transform"
	case NodeObject:
		return "object"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// SourceRef locates the script form that created a node.
type SourceRef struct {
	Line int `json:"line,omitempty"`
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID    `json:"id"`
	Kind     NodeKind  `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Source   SourceRef `json:"source"`
	Children []NodeID  `json:"children,omitempty"`
	Data     NodeData  `json:"data"`
}

// IsShape reports whether n evaluates to a solid: primitives, booleans and
// transforms of shapes.
func (n *Node) IsShape() bool {
	return n.Kind == NodePrimitive || n.Kind == NodeBoolean
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
