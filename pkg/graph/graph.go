package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// SceneGraph is the top-level immutable structure produced by script
// evaluation. It is never mutated in place; each evaluation produces a new
// graph.
type SceneGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	View      Vec3              `json:"view"` // source point for partitions
	Version   uint64            `json:"version"`
}

// New creates an empty SceneGraph with the view at the origin.
func New() *SceneGraph {
	return &SceneGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *SceneGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph. Repeated roots are
// ignored.
func (g *SceneGraph) AddRoot(id NodeID) {
	if lo.Contains(g.Roots, id) {
		return
	}
	g.Roots = append(g.Roots, id)
}

// RemoveRoot drops id from the roots, used when a root is adopted by a group.
func (g *SceneGraph) RemoveRoot(id NodeID) {
	g.Roots = lo.Without(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *SceneGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *SceneGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *SceneGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Objects returns all object nodes in the graph, ordered by name.
func (g *SceneGraph) Objects() []*Node {
	objs := lo.Filter(lo.Values(g.Nodes), func(n *Node, _ int) bool {
		return n.Kind == NodeObject
	})
	slices.SortFunc(objs, func(a, b *Node) int {
		return strings.Compare(a.Name, b.Name)
	})
	return objs
}

// Children returns the child nodes of the given node.
func (g *SceneGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *SceneGraph) NodeCount() int {
	return len(g.Nodes)
}
