package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/chazu/twisty/pkg/twisty"
)

// DesignGraph is the top-level immutable data structure produced by script
// evaluation. It is never mutated in place; each evaluation produces a new
// graph.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Colors    []string          `json:"colors"` // palette table, indexed by twisty.Material
	Version   uint64            `json:"version"`
}

// New creates an empty DesignGraph.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *DesignGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Shapes returns all shape nodes ordered by name, so callers iterate
// deterministically.
func (g *DesignGraph) Shapes() []*Node {
	shapes := lo.Filter(lo.Values(g.Nodes), func(n *Node, _ int) bool {
		return n.Kind == NodeShape
	})
	sort.Slice(shapes, func(i, j int) bool {
		if shapes[i].Name != shapes[j].Name {
			return shapes[i].Name < shapes[j].Name
		}
		return shapes[i].ID < shapes[j].ID
	})
	return shapes
}

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}

// ---------------------------------------------------------------------------
// Palette table
// ---------------------------------------------------------------------------

// Material returns the handle for color, registering it on first use.
// Parseable colors are stored in canonical "#RRGGBB" form, so "#fff" and
// "#FFFFFF" share a handle. Others are kept upper-cased for validation to
// report.
func (g *DesignGraph) Material(color string) twisty.Material {
	if c, err := ParseColor(color); err == nil {
		color = c.String()
	} else {
		color = strings.ToUpper(color)
	}
	if i := lo.IndexOf(g.Colors, color); i >= 0 {
		return twisty.Material(i)
	}
	g.Colors = append(g.Colors, color)
	return twisty.Material(len(g.Colors) - 1)
}

// Materials maps a palette to handles.
func (g *DesignGraph) Materials(palette []string) []twisty.Material {
	return lo.Map(palette, func(c string, _ int) twisty.Material {
		return g.Material(c)
	})
}

// Color returns the color registered for m.
func (g *DesignGraph) Color(m twisty.Material) (string, bool) {
	if m < 0 || int(m) >= len(g.Colors) {
		return "", false
	}
	return g.Colors[m], true
}
