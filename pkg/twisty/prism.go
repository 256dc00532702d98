package twisty

import "github.com/go-gl/mathgl/mgl64"

// NoLink marks an absent link in a prism list.
const NoLink = -1

// Material is an opaque handle carried through to renderers. The engine
// only copies it.
type Material int

// NoMaterial is assigned when the palette is empty.
const NoMaterial Material = -1

// Prism is one rigid piece of a generated shape. Links are indices into the
// slice the prism belongs to.
type Prism struct {
	Index int  `json:"index"`
	Head  bool `json:"head"`
	Tail  bool `json:"tail"`

	Prev  int `json:"prev"`  // chain order
	Next  int `json:"next"`  // chain order
	Mid   int `json:"mid"`   // base face contact
	Front int `json:"front"` // front triangle contact
	Back  int `json:"back"`  // back triangle contact

	Position    mgl64.Vec3 `json:"position"`
	Orientation mgl64.Quat `json:"orientation"`
	Material    Material   `json:"material"`
}

func newPrism(index int) Prism {
	return Prism{
		Index:       index,
		Prev:        NoLink,
		Next:        NoLink,
		Mid:         NoLink,
		Front:       NoLink,
		Back:        NoLink,
		Orientation: mgl64.QuatIdent(),
		Material:    NoMaterial,
	}
}

// Vertices returns the six prism corners in world space, in PrismVertices
// order.
func (p Prism) Vertices() [6]mgl64.Vec3 {
	var out [6]mgl64.Vec3
	for i, v := range PrismVertices {
		out[i] = localToWorld(v, p.Position, p.Orientation)
	}
	return out
}

// AABB returns the world bounding box of the prism.
func (p Prism) AABB() AABB {
	return ComputePrismAABB(p.Position, p.Orientation)
}

// ParentAABB returns the bounding box of the prism re-expressed in a parent
// frame: the prism is offset by -origin, then rotated by parentOrientation
// and moved to parentPosition. The prism itself is not modified.
func (p Prism) ParentAABB(origin, parentPosition mgl64.Vec3, parentOrientation mgl64.Quat) AABB {
	pos := parentOrientation.Rotate(p.Position.Sub(origin)).Add(parentPosition)
	return ComputePrismAABB(pos, parentOrientation.Mul(p.Orientation))
}

// ComputePrismAABB returns the bounding box of a prism placed at position
// with the given orientation.
func ComputePrismAABB(position mgl64.Vec3, orientation mgl64.Quat) AABB {
	box := EmptyAABB()
	for _, v := range PrismVertices {
		box = box.ExpandByPoint(localToWorld(v, position, orientation))
	}
	return box
}

// ComputeOrigin returns the mean prism position, or the zero vector for an
// empty list.
func ComputeOrigin(prisms []Prism) mgl64.Vec3 {
	var origin mgl64.Vec3
	if len(prisms) == 0 {
		return origin
	}
	for _, p := range prisms {
		origin = origin.Add(p.Position)
	}
	return origin.Mul(1 / float64(len(prisms)))
}

// ComputeOverallAABB returns the bounding box of every prism in the list.
func ComputeOverallAABB(prisms []Prism) AABB {
	box := EmptyAABB()
	for _, p := range prisms {
		box = box.Union(p.AABB())
	}
	return box
}

// ComputeParentOverallAABB is ComputeOverallAABB in a parent frame; see
// Prism.ParentAABB.
func ComputeParentOverallAABB(prisms []Prism, origin, parentPosition mgl64.Vec3, parentOrientation mgl64.Quat) AABB {
	box := EmptyAABB()
	for _, p := range prisms {
		box = box.Union(p.ParentAABB(origin, parentPosition, parentOrientation))
	}
	return box
}

// ---------------------------------------------------------------------------
// Rigid whole-list transforms
// ---------------------------------------------------------------------------

// Translated returns a copy of p moved by translation.
func (p Prism) Translated(translation mgl64.Vec3) Prism {
	p.Position = p.Position.Add(translation)
	return p
}

// Rotated returns a copy of p rotated around pivot.
func (p Prism) Rotated(pivot mgl64.Vec3, rotation mgl64.Quat) Prism {
	return p.Transformed(pivot, mgl64.Vec3{}, rotation)
}

// Transformed returns a copy of p rotated around pivot and then moved by
// translation.
func (p Prism) Transformed(pivot, translation mgl64.Vec3, rotation mgl64.Quat) Prism {
	p.Position = rotation.Rotate(p.Position.Sub(pivot)).Add(pivot).Add(translation)
	p.Orientation = rotation.Mul(p.Orientation)
	return p
}

// Translate returns a copy of prisms moved by translation.
func Translate(prisms []Prism, translation mgl64.Vec3) []Prism {
	return Transform(prisms, mgl64.Vec3{}, translation, mgl64.QuatIdent())
}

// Rotate returns a copy of prisms rotated around pivot.
func Rotate(prisms []Prism, pivot mgl64.Vec3, rotation mgl64.Quat) []Prism {
	return Transform(prisms, pivot, mgl64.Vec3{}, rotation)
}

// Transform returns a copy of prisms rotated around pivot and then moved by
// translation. Links and materials are kept.
func Transform(prisms []Prism, pivot, translation mgl64.Vec3, rotation mgl64.Quat) []Prism {
	out := make([]Prism, len(prisms))
	for i, p := range prisms {
		out[i] = p.Transformed(pivot, translation, rotation)
	}
	return out
}
