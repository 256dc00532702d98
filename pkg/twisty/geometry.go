package twisty

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Prism dimensions. The base is twice the height so that two adjacent
// prisms in a chain share a slope face at 45 degrees.
const (
	PrismHeight       = 1.0
	PrismHalfHeight   = PrismHeight / 2
	PrismBase         = 2 * PrismHeight
	PrismHalfBase     = PrismBase / 2
	PrismDistance     = PrismBase / 2 // spacing between chain neighbours
	PrismHalfDistance = PrismDistance / 2
)

// PrismSide is the depth of a prism along Z (the length of a slope edge).
var (
	PrismSide     = math.Sqrt(PrismBase)
	PrismHalfSide = PrismSide / 2
)

// Matching tolerances, squared distances.
const (
	JointConnectionEpsilon = 1e-3
	SameVertexEpsilon      = 1e-3
)

// Physical properties handed to rigid-body collaborators.
const (
	PrismMass        = 0.01
	PrismShapeMargin = 0.04
)

// Local reference points of a prism.
var (
	LeftSlopePivotPoint  = mgl64.Vec3{-PrismHalfDistance, 0, 0}
	RightSlopePivotPoint = mgl64.Vec3{PrismHalfDistance, 0, 0}
	BottomPivotPoint     = mgl64.Vec3{0, -PrismHalfHeight, 0}
	MergePivotPoint      = mgl64.Vec3{0, 0, 0}

	LeftSlopeNormal  = mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}).Rotate(mgl64.Vec3{0, 1, 0})
	RightSlopeNormal = mgl64.QuatRotate(-math.Pi/4, mgl64.Vec3{0, 0, 1}).Rotate(mgl64.Vec3{0, 1, 0})

	MergeBottomPosition = mgl64.Vec3{0, -PrismHeight, 0}
	MergeFrontPosition  = mgl64.Vec3{0, 0, -PrismSide}
	MergeBackPosition   = mgl64.Vec3{0, 0, PrismSide}
)

// PrismVertices are the six corners of a prism in its local frame.
// Indices 0, 1, 4, 5 span the base face; 5, 3, 1 the front triangle and
// 0, 2, 4 the back triangle.
var PrismVertices = [6]mgl64.Vec3{
	{-PrismHalfBase, -PrismHalfHeight, -PrismHalfSide},
	{-PrismHalfBase, -PrismHalfHeight, PrismHalfSide},
	{0, PrismHalfHeight, -PrismHalfSide},
	{0, PrismHalfHeight, PrismHalfSide},
	{PrismHalfBase, -PrismHalfHeight, -PrismHalfSide},
	{PrismHalfBase, -PrismHalfHeight, PrismHalfSide},
}

var (
	baseFaceVertices      = [4]int{0, 1, 4, 5}
	frontTriangleVertices = [3]int{5, 3, 1}
	backTriangleVertices  = [3]int{0, 2, 4}
)

// localToWorld maps a local prism point into world space.
func localToWorld(local, position mgl64.Vec3, orientation mgl64.Quat) mgl64.Vec3 {
	return orientation.Rotate(local).Add(position)
}

func distanceSquared(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

func sameVertex(a, b mgl64.Vec3) bool {
	return distanceSquared(a, b) < SameVertexEpsilon
}
