package graph

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/twisty/pkg/twisty"
)

// ---------------------------------------------------------------------------
// Shape
// ---------------------------------------------------------------------------

// ShapeData is a folded shape recipe. Created by the (shape ...) form.
type ShapeData struct {
	Formation   twisty.Formation `json:"formation"`
	Palette     []string         `json:"palette,omitempty"` // colors, cyclic by prism
	InvertTrunk bool             `json:"invert_trunk,omitempty"`
	InvertMerge bool             `json:"invert_merge,omitempty"`
	PivotPoint  mgl64.Vec3       `json:"pivot_point"`
	LinkMid     bool             `json:"link_mid"`
	LinkSide    bool             `json:"link_side"`
}

func (ShapeData) nodeData() {}

// NewShapeData returns a recipe with the engine defaults: left slope pivot
// point and both contact kinds linked.
func NewShapeData(f twisty.Formation) ShapeData {
	return ShapeData{
		Formation:  f,
		PivotPoint: twisty.LeftSlopePivotPoint,
		LinkMid:    true,
		LinkSide:   true,
	}
}

// Options converts the recipe flags to generation options.
func (d ShapeData) Options() []twisty.Option {
	opts := []twisty.Option{
		twisty.WithPivotPoint(d.PivotPoint),
		twisty.WithLinks(d.LinkMid, d.LinkSide),
	}
	if d.InvertTrunk {
		opts = append(opts, twisty.WithInvertedMaterials())
	}
	if d.InvertMerge {
		opts = append(opts, twisty.WithInvertedMergeMaterials())
	}
	return opts
}

// Hash fingerprints the recipe.
func (d ShapeData) Hash() ContentHash {
	b, _ := json.Marshal(d)
	return sha256.Sum256(b)
}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents an assembly. Created by the (assembly ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}

// ---------------------------------------------------------------------------
// Colors
// ---------------------------------------------------------------------------

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// ParseColor accepts "#RRGGBB" or "#RGB".
func ParseColor(s string) (RGB, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 || !strings.HasPrefix(s, "#") {
		return RGB{}, fmt.Errorf("invalid color %q, expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// String returns the canonical "#RRGGBB" form.
func (c RGB) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Floats returns the color as 0..1 components.
func (c RGB) Floats() [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}
