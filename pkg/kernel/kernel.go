// Package kernel defines the abstract geometry kernel interface used to turn
// placed prisms into solids and meshes. The kernel abstraction allows
// swapping backends without changing the rest of the system.
package kernel

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// Contains reports whether the point lies inside the solid.
	Contains(p [3]float64) bool
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Prism returns the unit twisty prism in its local frame: an isosceles
	// right triangle of base 2 and height 1 in the XY plane, centered on
	// the origin and extruded symmetrically along Z to the square root of 2.
	Prism() Solid

	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, applied X then Y then Z

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// EulerZYX returns the angles in degrees for which Rotate reproduces q.
func EulerZYX(q mgl64.Quat) (x, y, z float64) {
	m := q.Normalize().Mat4()
	sy := -m.At(2, 0)
	switch {
	case sy >= 1-1e-12:
		y = math.Pi / 2
		z = math.Atan2(-m.At(0, 1), m.At(1, 1))
	case sy <= -1+1e-12:
		y = -math.Pi / 2
		z = math.Atan2(-m.At(0, 1), m.At(1, 1))
	default:
		y = math.Asin(sy)
		x = math.Atan2(m.At(2, 1), m.At(2, 2))
		z = math.Atan2(m.At(1, 0), m.At(0, 0))
	}
	return mgl64.RadToDeg(x), mgl64.RadToDeg(y), mgl64.RadToDeg(z)
}

// Place rotates the unit prism by orientation and moves it to position.
func Place(k Kernel, position mgl64.Vec3, orientation mgl64.Quat) Solid {
	x, y, z := EulerZYX(orientation)
	s := k.Rotate(k.Prism(), x, y, z)
	return k.Translate(s, position.X(), position.Y(), position.Z())
}

// UnionAll folds solids into one. It returns nil for an empty list.
func UnionAll(k Kernel, solids []Solid) Solid {
	if len(solids) == 0 {
		return nil
	}
	acc := solids[0]
	for _, s := range solids[1:] {
		acc = k.Union(acc, s)
	}
	return acc
}
