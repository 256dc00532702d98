// Package export writes built scenes to files: a JSON prism dump for game
// and physics loaders, a DXF wireframe for CAD tools and binary STL for
// printing.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/chazu/twisty/pkg/graph"
	"github.com/chazu/twisty/pkg/tessellate"
	"github.com/chazu/twisty/pkg/twisty"
)

// Format names an output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatSTL  Format = "stl"
	FormatDXF  Format = "dxf"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatSTL, FormatDXF}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !lo.Contains(Formats, f) {
		return "", fmt.Errorf("unknown format %q, expected one of %v", s, Formats)
	}
	return f, nil
}

// Scene is the JSON document for a built design graph.
type Scene struct {
	Version uint64   `json:"version"`
	Colors  []string `json:"colors"`
	Shapes  []Shape  `json:"shapes"`
}

// Shape is one built shape: its recipe, the generated prisms and derived
// data a loader needs without re-running the engine.
type Shape struct {
	Name      string           `json:"name"`
	Formation twisty.Formation `json:"formation"`
	Palette   []string         `json:"palette,omitempty"`
	Prisms    []twisty.Prism   `json:"prisms"`
	Origin    mgl64.Vec3       `json:"origin"`
	Bounds    twisty.AABB      `json:"bounds"`
	Body      twisty.Compound  `json:"body"`
}

// NewScene assembles the JSON document for parts built from g.
func NewScene(g *graph.DesignGraph, parts []tessellate.Part) Scene {
	s := Scene{
		Colors: []string{},
		Shapes: lo.Map(parts, func(p tessellate.Part, _ int) Shape {
			var sh Shape
			if d, ok := p.Node.Data.(graph.ShapeData); ok {
				sh.Formation = d.Formation
				sh.Palette = d.Palette
			}
			sh.Name = p.Name()
			sh.Prisms = p.Prisms
			sh.Origin = twisty.ComputeOrigin(p.Prisms)
			sh.Bounds = twisty.ComputeOverallAABB(p.Prisms)
			sh.Body = twisty.CompoundChildren(p.Prisms)
			return sh
		}),
	}
	if g != nil {
		s.Version = g.Version
		s.Colors = append(s.Colors, g.Colors...)
	}
	return s
}

// WriteJSON writes the scene as indented JSON.
func WriteJSON(w io.Writer, s Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}
