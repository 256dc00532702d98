package graph

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodeShape NodeKind = iota // folded prism shape
	NodeGroup                 // assembly of shapes and groups
)

func (k NodeKind) String() string {
	switch k {
	case NodeShape:
		return "shape"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID          NodeID      `json:"id"`
	Kind        NodeKind    `json:"kind"`
	Name        string      `json:"name,omitempty"`
	Source      SourceRef   `json:"source"`
	ContentHash ContentHash `json:"content_hash"`
	Children    []NodeID    `json:"children,omitempty"`
	Data        NodeData    `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
