package sdfx

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/twisty/pkg/kernel"
	"github.com/chazu/twisty/pkg/twisty"
)

// testCells keeps marching cubes fast in tests.
const testCells = 40

func TestPrismContainment(t *testing.T) {
	k := NewWithResolution(testCells)
	p := k.Prism()

	tests := []struct {
		name   string
		point  [3]float64
		inside bool
	}{
		{"centroid", [3]float64{0, -1.0 / 6, 0}, true},
		{"near base", [3]float64{0.8, -0.45, 0.6}, true},
		{"under apex", [3]float64{0, 0.4, 0}, true},
		{"beyond right slope", [3]float64{0.9, 0.4, 0}, false},
		{"beyond left slope", [3]float64{-0.6, 0.3, 0}, false},
		{"below base", [3]float64{0, -0.6, 0}, false},
		{"past extrusion", [3]float64{0, 0, 0.8}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Contains(tt.point); got != tt.inside {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.inside)
			}
		})
	}
}

func TestPrismMesh(t *testing.T) {
	k := NewWithResolution(testCells)
	mesh, err := k.ToMesh(k.Prism())
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}

	min, max := mesh.Bounds()
	const tol = 0.1
	want := [3]float64{twisty.PrismHalfBase, twisty.PrismHalfHeight, twisty.PrismHalfSide}
	for i := 0; i < 3; i++ {
		if float64(min[i]) < -want[i]-tol || float64(max[i]) > want[i]+tol {
			t.Errorf("axis %d bounds = [%f, %f], want within ±%f", i, min[i], max[i], want[i])
		}
		if float64(max[i]-min[i]) < 2*want[i]-2*tol {
			t.Errorf("axis %d extent = %f, want ~%f", i, max[i]-min[i], 2*want[i])
		}
	}
}

func TestResolution(t *testing.T) {
	if got := New().Cells(); got != DefaultMeshCells {
		t.Errorf("New().Cells() = %d, want %d", got, DefaultMeshCells)
	}
	if got := NewWithResolution(0).Cells(); got != DefaultMeshCells {
		t.Errorf("NewWithResolution(0).Cells() = %d, want %d", got, DefaultMeshCells)
	}
	if got := NewWithResolution(64).Cells(); got != 64 {
		t.Errorf("NewWithResolution(64).Cells() = %d, want 64", got)
	}
}

func TestToMeshNil(t *testing.T) {
	if _, err := New().ToMesh(nil); err == nil {
		t.Error("expected error for nil solid")
	}
}

func TestTranslate(t *testing.T) {
	k := NewWithResolution(testCells)
	moved := k.Translate(k.Prism(), 100, 200, 300)

	if !moved.Contains([3]float64{100, 200 - 1.0/6, 300}) {
		t.Error("translated prism should contain its moved centroid")
	}
	if moved.Contains([3]float64{0, -1.0 / 6, 0}) {
		t.Error("translated prism should not contain the original centroid")
	}

	min, max := moved.BoundingBox()
	const tol = 0.5
	for i, c := range []float64{100, 200, 300} {
		if min[i] > c || max[i] < c || max[i]-min[i] > 2+2*tol {
			t.Errorf("axis %d bounds = [%f, %f], want around %f", i, min[i], max[i], c)
		}
	}
}

func TestRotate(t *testing.T) {
	k := NewWithResolution(testCells)

	// The base runs along X; a quarter turn about Z stands it along Y.
	rotated := k.Rotate(k.Prism(), 0, 0, 90)
	if !rotated.Contains([3]float64{0.4, 0.8, 0}) {
		t.Error("rotated prism should reach along +Y")
	}
	if rotated.Contains([3]float64{0.8, 0.1, 0}) {
		t.Error("rotated prism should no longer reach along +X")
	}

	min, max := rotated.BoundingBox()
	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]
	const tol = 0.1
	if math.Abs(yExtent-twisty.PrismBase) > tol {
		t.Errorf("rotated Y extent = %f, expected ~%f", yExtent, twisty.PrismBase)
	}
	if xExtent > twisty.PrismBase-tol {
		t.Errorf("rotated X extent = %f, expected less than the base", xExtent)
	}
}

func TestPlacedChainPrisms(t *testing.T) {
	k := NewWithResolution(testCells)
	shape, err := twisty.NewShape(4, "1R1-2L2")
	if err != nil {
		t.Fatalf("NewShape: %v", err)
	}
	prisms, err := shape.GeneratePrisms(0, mgl64.Vec3{}, mgl64.QuatIdent(), nil)
	if err != nil {
		t.Fatalf("GeneratePrisms: %v", err)
	}

	solids := make([]kernel.Solid, len(prisms))
	for i, p := range prisms {
		solids[i] = kernel.Place(k, p.Position, p.Orientation)
	}
	u := kernel.UnionAll(k, solids)

	for _, p := range prisms {
		centroid := p.Position.Add(p.Orientation.Rotate(mgl64.Vec3{0, -1.0 / 6, 0}))
		if !u.Contains([3]float64{centroid.X(), centroid.Y(), centroid.Z()}) {
			t.Errorf("prism %d centroid %v not inside the union", p.Index, centroid)
		}
	}

	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
}
