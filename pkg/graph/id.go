package graph

import "github.com/google/uuid"

// NodeID is a content-addressed identifier for graph nodes. IDs are derived
// from the node's path in the script, so re-evaluating the same script
// yields the same IDs.
type NodeID string

// ZeroID is the empty node reference.
const ZeroID NodeID = ""

var nodeNamespace = uuid.MustParse("5a0e8f6c-3b1d-4c47-9d2e-7a61f0c4b8e3")

// NewNodeID derives a NodeID from a node path such as "object/hull".
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(nodeNamespace, []byte(path)).String())
}

// IsZero reports whether id is the empty reference.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Short returns the first eight characters of id for messages.
func (id NodeID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}
