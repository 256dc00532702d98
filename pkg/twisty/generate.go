package twisty

import "github.com/go-gl/mathgl/mgl64"

// GeneratePrisms places the folded chain in world space. The pivot prism is
// rotated to rotation and its pivot point (see WithPivotPoint) is moved to
// position; the rest of the chain follows rigidly. Materials are assigned
// cyclically by chain index.
func (s *Shape) GeneratePrisms(pivot int, position mgl64.Vec3, rotation mgl64.Quat, materials []Material, opts ...Option) ([]Prism, error) {
	o := newOptions(opts)
	prisms, err := s.place(pivot, position, rotation, materials, o.invert, o.pivotPoint)
	if err != nil {
		return nil, reject("generate prisms", err)
	}
	Link(prisms, o.linkMid, o.linkSide)
	return prisms, nil
}

// place builds the unlinked prism list with chain links only.
func (s *Shape) place(pivot int, position mgl64.Vec3, rotation mgl64.Quat, materials []Material, invert bool, pivotPoint mgl64.Vec3) ([]Prism, error) {
	n := len(s.transforms)
	if err := checkRange("pivot prism", pivot, n); err != nil {
		return nil, err
	}

	p := s.transforms[pivot]
	delta := rotation.Mul(p.orientation.Inverse()).Normalize()
	pivotPosition := position.Sub(rotation.Rotate(pivotPoint))
	closed := s.IsClosed()

	prisms := make([]Prism, n)
	for i, t := range s.transforms {
		prism := newPrism(i)
		prism.Position = delta.Rotate(t.position.Sub(p.position)).Add(pivotPosition)
		prism.Orientation = delta.Mul(t.orientation)
		prism.Material = pickMaterial(materials, i, n, invert)
		prism.Head = i == 0
		prism.Tail = i == n-1
		if i > 0 {
			prism.Prev = i - 1
			prisms[i-1].Next = i
		}
		prisms[i] = prism
	}
	if closed {
		prisms[n-1].Next = 0
		prisms[0].Prev = n - 1
	}
	return prisms, nil
}

func pickMaterial(materials []Material, i, n int, invert bool) Material {
	if len(materials) == 0 {
		return NoMaterial
	}
	if invert {
		return materials[(n-i-1)%len(materials)]
	}
	return materials[i%len(materials)]
}
