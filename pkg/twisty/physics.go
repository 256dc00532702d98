package twisty

import "github.com/go-gl/mathgl/mgl64"

// CompoundChild is one prism of a compound collision body, expressed
// relative to the compound origin.
type CompoundChild struct {
	Index       int        `json:"index"`
	Position    mgl64.Vec3 `json:"position"`
	Orientation mgl64.Quat `json:"orientation"`
	Mass        float64    `json:"mass"`
}

// Compound describes a rigid body made of prisms: the world origin of the
// body, its children and total mass. Building the actual collision shape is
// left to the physics layer.
type Compound struct {
	Origin   mgl64.Vec3      `json:"origin"`
	Children []CompoundChild `json:"children"`
	Mass     float64         `json:"mass"`
	Margin   float64         `json:"margin"`
}

// CompoundChildren returns the compound body description of prisms, with
// the body origin at ComputeOrigin(prisms).
func CompoundChildren(prisms []Prism) Compound {
	c := Compound{
		Origin:   ComputeOrigin(prisms),
		Children: make([]CompoundChild, len(prisms)),
		Margin:   PrismShapeMargin,
	}
	for i, p := range prisms {
		c.Children[i] = CompoundChild{
			Index:       p.Index,
			Position:    p.Position.Sub(c.Origin),
			Orientation: p.Orientation,
			Mass:        PrismMass,
		}
		c.Mass += PrismMass
	}
	return c
}
