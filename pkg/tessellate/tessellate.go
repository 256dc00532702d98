// Package tessellate walks a design graph, folds every reachable shape into
// placed prisms and produces triangle meshes using a geometry kernel. One
// mesh is produced per shape and palette color.
package tessellate

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/chazu/twisty/pkg/graph"
	"github.com/chazu/twisty/pkg/kernel"
	"github.com/chazu/twisty/pkg/twisty"
)

// Part is a shape node together with its generated prisms.
type Part struct {
	Node   *graph.Node
	Prisms []twisty.Prism
}

// Name returns the node name, falling back to its short ID.
func (p Part) Name() string {
	if p.Node.Name != "" {
		return p.Node.Name
	}
	return p.Node.ID.Short()
}

// Shapes returns the shape nodes to render: those reachable from the roots
// in declaration order, or every shape sorted by name when the graph has no
// roots. Each shape appears once.
func Shapes(g *graph.DesignGraph) []*graph.Node {
	if g == nil {
		return nil
	}
	if len(g.Roots) == 0 {
		return g.Shapes()
	}

	var shapes []*graph.Node
	seen := make(map[graph.NodeID]bool)
	var walk func(n *graph.Node)
	walk = func(n *graph.Node) {
		if n == nil || seen[n.ID] {
			return
		}
		seen[n.ID] = true
		if n.Kind == graph.NodeShape {
			shapes = append(shapes, n)
			return
		}
		for _, child := range g.Children(n) {
			walk(child)
		}
	}
	for _, rootID := range g.Roots {
		walk(g.Get(rootID))
	}
	return shapes
}

// Build folds and places every shape Shapes returns. Palette colors resolve
// to material handles through the graph's palette table, which evaluation
// fills, so the graph is not modified for evaluated scenes.
func Build(g *graph.DesignGraph) ([]Part, error) {
	var parts []Part
	for _, n := range Shapes(g) {
		d, ok := n.Data.(graph.ShapeData)
		if !ok {
			return nil, fmt.Errorf("tessellate: shape node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		prisms, err := twisty.BuildPrisms(d.Formation, g.Materials(d.Palette), d.Options()...)
		if err != nil {
			return nil, fmt.Errorf("tessellate: shape %q: %w", n.Name, err)
		}
		parts = append(parts, Part{Node: n, Prisms: prisms})
	}
	return parts, nil
}

// Tessellate builds the scene and produces one triangle mesh per shape and
// material using the provided geometry kernel. Meshes of a shape are ordered
// by material handle; prisms without a material form a mesh with no color.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel) ([]*kernel.Mesh, error) {
	parts, err := Build(g)
	if err != nil {
		return nil, err
	}

	var meshes []*kernel.Mesh
	for _, part := range parts {
		collected, err := meshPart(g, k, part)
		if err != nil {
			return nil, fmt.Errorf("tessellate: shape %q: %w", part.Name(), err)
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// meshPart unions the placed prisms of each material and meshes the result.
func meshPart(g *graph.DesignGraph, k kernel.Kernel, part Part) ([]*kernel.Mesh, error) {
	byMaterial := lo.GroupBy(part.Prisms, func(p twisty.Prism) twisty.Material {
		return p.Material
	})
	materials := lo.Keys(byMaterial)
	sort.Slice(materials, func(i, j int) bool { return materials[i] < materials[j] })

	meshes := make([]*kernel.Mesh, 0, len(materials))
	for _, m := range materials {
		solids := lo.Map(byMaterial[m], func(p twisty.Prism, _ int) kernel.Solid {
			return kernel.Place(k, p.Position, p.Orientation)
		})
		mesh, err := k.ToMesh(kernel.UnionAll(k, solids))
		if err != nil {
			return nil, fmt.Errorf("ToMesh failed for material %d: %w", m, err)
		}
		mesh.Shape = part.Name()
		mesh.Color, _ = g.Color(m)
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
