package tessellate_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/twisty/pkg/graph"
	"github.com/chazu/twisty/pkg/kernel"
	"github.com/chazu/twisty/pkg/kernel/sdfx"
	"github.com/chazu/twisty/pkg/tessellate"
	"github.com/chazu/twisty/pkg/twisty"
)

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.NewWithResolution(24)
}

// makeShape creates a shape node with the given name, formation and palette.
func makeShape(name string, f twisty.Formation, palette ...string) *graph.Node {
	d := graph.NewShapeData(f)
	d.Palette = palette
	return &graph.Node{
		ID:          graph.NewNodeID("shape/" + name),
		Kind:        graph.NodeShape,
		Name:        name,
		ContentHash: d.Hash(),
		Data:        d,
	}
}

// makeGroup creates a group node with children.
func makeGroup(name string, children ...graph.NodeID) *graph.Node {
	return &graph.Node{
		ID:       graph.NewNodeID("assembly/" + name),
		Kind:     graph.NodeGroup,
		Name:     name,
		Children: children,
		Data:     graph.GroupData{Description: name},
	}
}

func TestSingleShape(t *testing.T) {
	k := newKernel()
	g := graph.New()

	strip := makeShape("strip", twisty.NewFormation(4, "1R1"), "#FFFFFF", "#87E752")
	g.AddNode(strip)

	meshes, err := tessellate.Tessellate(g, k)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	// Two palette colors alternate along the chain: one mesh per color.
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	wantColors := []string{"#FFFFFF", "#87E752"}
	for i, m := range meshes {
		if m.IsEmpty() {
			t.Errorf("mesh %d should not be empty", i)
		}
		if m.Shape != "strip" {
			t.Errorf("mesh %d: expected Shape %q, got %q", i, "strip", m.Shape)
		}
		if m.Color != wantColors[i] {
			t.Errorf("mesh %d: expected Color %q, got %q", i, wantColors[i], m.Color)
		}
		if m.TriangleCount() == 0 {
			t.Errorf("mesh %d should have triangles", i)
		}
	}
}

func TestShapeWithoutPalette(t *testing.T) {
	g := graph.New()
	g.AddNode(makeShape("bare", twisty.NewFormation(2, "")))

	meshes, err := tessellate.Tessellate(g, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	if meshes[0].Color != "" {
		t.Errorf("expected no color, got %q", meshes[0].Color)
	}
}

func TestMeshFollowsPlacement(t *testing.T) {
	f := twisty.NewFormation(2, "")
	f.Position = mgl64.Vec3{50, 0, 0}
	g := graph.New()
	g.AddNode(makeShape("far", f, "#DE1A1A"))

	meshes, err := tessellate.Tessellate(g, newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	min, max := meshes[0].Bounds()
	if min[0] < 48 || max[0] > 53 {
		t.Errorf("mesh X bounds = [%f, %f], expected near x=50", min[0], max[0])
	}
}

func TestRootsSelectShapes(t *testing.T) {
	g := graph.New()
	a := makeShape("a", twisty.NewFormation(2, ""))
	b := makeShape("b", twisty.NewFormation(2, ""))
	c := makeShape("c", twisty.NewFormation(2, ""))
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)

	inner := makeGroup("inner", c.ID, a.ID)
	outer := makeGroup("outer", inner.ID, a.ID)
	g.AddNode(inner)
	g.AddNode(outer)
	g.AddRoot(outer.ID)

	shapes := tessellate.Shapes(g)
	if len(shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(shapes))
	}
	// Declaration order under the roots; a appears once.
	if shapes[0].Name != "c" || shapes[1].Name != "a" {
		t.Errorf("shapes = %s, %s, want c, a", shapes[0].Name, shapes[1].Name)
	}
}

func TestNoRootsRendersAllShapes(t *testing.T) {
	g := graph.New()
	g.AddNode(makeShape("zeta", twisty.NewFormation(2, "")))
	g.AddNode(makeShape("alpha", twisty.NewFormation(2, "")))

	shapes := tessellate.Shapes(g)
	if len(shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(shapes))
	}
	if shapes[0].Name != "alpha" || shapes[1].Name != "zeta" {
		t.Errorf("shapes = %s, %s, want alpha, zeta", shapes[0].Name, shapes[1].Name)
	}
}

func TestBuildMatchesBuildPrisms(t *testing.T) {
	lander, ok := twisty.LookupEntry("lander")
	if !ok {
		t.Fatal("lander missing from catalog")
	}
	g := graph.New()
	g.AddNode(makeShape("lander", lander.Formation, lander.Colors...))

	parts, err := tessellate.Build(g)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0].Name() != "lander" {
		t.Errorf("Name() = %q, want lander", parts[0].Name())
	}

	want, err := twisty.BuildPrisms(lander.Formation, []twisty.Material{0, 1}, graph.NewShapeData(lander.Formation).Options()...)
	if err != nil {
		t.Fatalf("BuildPrisms failed: %v", err)
	}
	got := parts[0].Prisms
	if len(got) != len(want) {
		t.Fatalf("got %d prisms, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Position.Sub(want[i].Position).Len() >= 1e-9 {
			t.Errorf("prism %d position = %v, want %v", i, got[i].Position, want[i].Position)
		}
		if got[i].Material != want[i].Material {
			t.Errorf("prism %d material = %d, want %d", i, got[i].Material, want[i].Material)
		}
		if got[i].Mid != want[i].Mid || got[i].Front != want[i].Front || got[i].Back != want[i].Back {
			t.Errorf("prism %d links differ", i)
		}
	}
}

func TestInvalidShape(t *testing.T) {
	g := graph.New()
	g.AddNode(makeShape("broken", twisty.NewFormation(0, "")))

	if _, err := tessellate.Tessellate(g, newKernel()); err == nil {
		t.Fatal("expected error for a zero-piece shape")
	}
}

func TestEmptyGraph(t *testing.T) {
	meshes, err := tessellate.Tessellate(graph.New(), newKernel())
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(meshes))
	}

	meshes, err = tessellate.Tessellate(nil, newKernel())
	if err != nil || meshes != nil {
		t.Errorf("Tessellate(nil) = %v, %v, want nil, nil", meshes, err)
	}
}
