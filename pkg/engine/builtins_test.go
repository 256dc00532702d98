package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/twisty/pkg/graph"
	"github.com/chazu/twisty/pkg/twisty"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(shape "a" :pieces 4)`,
			expect: `(shape "a" "__kw_pieces" 4)`,
		},
		{
			name:   "multiple keywords",
			input:  `(shape "a" :pieces 4 :notation "1R1")`,
			expect: `(shape "a" "__kw_pieces" 4 "__kw_notation" "1R1")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(shape-ref "lander")`,
			expect: `(shape_ref "lander")`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:invert-trunk`,
			expect: `"__kw_invert-trunk"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Shape tests
// ---------------------------------------------------------------------------

// evalOK evaluates source and fails the test on any error.
func evalOK(t *testing.T, source string) *graph.DesignGraph {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if g == nil {
		t.Fatal("expected non-nil graph")
	}
	return g
}

// evalFails evaluates source and returns the eval error messages joined,
// failing the test if there are none.
func evalFails(t *testing.T, source string) string {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil graph")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	msgs := make([]string, len(evalErrs))
	for i, e := range evalErrs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "\n")
}

// quatNear compares component-wise within eps; q and -q match.
func quatNear(a, b mgl64.Quat, eps float64) bool {
	d, f := a.Sub(b), a.Add(b)
	return math.Abs(d.W) < eps && d.V.Len() < eps ||
		math.Abs(f.W) < eps && f.V.Len() < eps
}

func shapeData(t *testing.T, g *graph.DesignGraph, name string) graph.ShapeData {
	t.Helper()
	n := g.Lookup(name)
	if n == nil {
		t.Fatalf("expected node named %q", name)
	}
	if n.Kind != graph.NodeShape {
		t.Fatalf("expected NodeShape, got %s", n.Kind)
	}
	d, ok := n.Data.(graph.ShapeData)
	if !ok {
		t.Fatalf("expected ShapeData, got %T", n.Data)
	}
	return d
}

func TestSimpleShape(t *testing.T) {
	g := evalOK(t, `
(shape "strip"
  :pieces 4
  :notation "1R1"
  :palette (palette "#ffffff" "#87E752"))
`)
	if g.NodeCount() != 1 {
		t.Fatalf("expected 1 node, got %d", g.NodeCount())
	}

	d := shapeData(t, g, "strip")
	if d.Formation.PieceCount != 4 {
		t.Errorf("PieceCount = %d, want 4", d.Formation.PieceCount)
	}
	if d.Formation.Notation != "1R1" {
		t.Errorf("Notation = %q, want 1R1", d.Formation.Notation)
	}
	if d.Formation.PartCount != 1 {
		t.Errorf("PartCount = %d, want 1", d.Formation.PartCount)
	}
	if !d.LinkMid || !d.LinkSide {
		t.Error("links should default to on")
	}
	if d.PivotPoint != twisty.LeftSlopePivotPoint {
		t.Errorf("PivotPoint = %v, want left slope", d.PivotPoint)
	}
	if len(d.Palette) != 2 {
		t.Fatalf("palette has %d colors, want 2", len(d.Palette))
	}

	// Colors are registered in declaration order, upper-cased.
	if len(g.Colors) != 2 || g.Colors[0] != "#FFFFFF" || g.Colors[1] != "#87E752" {
		t.Errorf("Colors = %v", g.Colors)
	}

	n := g.Lookup("strip")
	if n.ID != graph.NewNodeID("shape/strip") {
		t.Errorf("ID = %s, want path-derived ID", n.ID.Short())
	}
	if n.ContentHash != d.Hash() {
		t.Error("ContentHash should fingerprint the recipe")
	}
}

func TestShapeAllKeywords(t *testing.T) {
	g := evalOK(t, `
(shape "pattern"
  :pieces 8
  :notation "1R1-2L2"
  :pivot 2
  :at (vec3 1 2.5 -3)
  :rotation (rotation :z 90)
  :parts 3
  :trunk 4
  :merge 5
  :turn true
  :face :front
  :invert-trunk true
  :invert-merge true
  :pivot-point :bottom
  :link-mid true
  :link-side false
  :palette "#DE1A1A")
`)
	d := shapeData(t, g, "pattern")
	f := d.Formation
	if f.Pivot != 2 || f.PartCount != 3 || f.Trunk != 4 || f.Merge != 5 {
		t.Errorf("formation indices = pivot %d parts %d trunk %d merge %d",
			f.Pivot, f.PartCount, f.Trunk, f.Merge)
	}
	if !f.Turn {
		t.Error("Turn should be set")
	}
	if f.MergeFace != twisty.MergeFaceFront {
		t.Errorf("MergeFace = %s, want front", f.MergeFace)
	}
	if f.Position.Sub(mgl64.Vec3{1, 2.5, -3}).Len() >= 1e-9 {
		t.Errorf("Position = %v", f.Position)
	}
	want := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	if !quatNear(f.Rotation, want, 1e-9) {
		t.Errorf("Rotation = %v, want %v", f.Rotation, want)
	}
	if !d.InvertTrunk || !d.InvertMerge {
		t.Error("invert flags should be set")
	}
	if d.PivotPoint != twisty.BottomPivotPoint {
		t.Errorf("PivotPoint = %v, want bottom", d.PivotPoint)
	}
	if !d.LinkMid || d.LinkSide {
		t.Errorf("links = mid %v side %v, want true false", d.LinkMid, d.LinkSide)
	}
	if len(d.Palette) != 1 || d.Palette[0] != "#DE1A1A" {
		t.Errorf("Palette = %v", d.Palette)
	}
}

func TestShapeFromCatalog(t *testing.T) {
	g := evalOK(t, `(shape "home" :from "lander" :at (vec3 0 0 5))`)

	d := shapeData(t, g, "home")
	lander, ok := twisty.LookupEntry("lander")
	if !ok {
		t.Fatal("lander missing from catalog")
	}
	if d.Formation.Notation != lander.Formation.Notation {
		t.Errorf("Notation = %q, want catalog notation", d.Formation.Notation)
	}
	if d.Formation.PartCount != 2 {
		t.Errorf("PartCount = %d, want 2", d.Formation.PartCount)
	}
	if d.Formation.Position != (mgl64.Vec3{0, 0, 5}) {
		t.Errorf("Position = %v, keyword should override catalog", d.Formation.Position)
	}
	if len(d.Palette) != len(lander.Colors) {
		t.Errorf("Palette = %v, want catalog colors %v", d.Palette, lander.Colors)
	}
}

func TestRotationComposesInOrder(t *testing.T) {
	g := evalOK(t, `(shape "r" :pieces 2 :rotation (rotation :z 45 :y -90))`)
	d := shapeData(t, g, "r")

	// Applying z first then y: q = Ry * Rz.
	want := mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 1, 0}).
		Mul(mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 0, 1}))
	v := mgl64.Vec3{1, 2, 3}
	if d.Formation.Rotation.Rotate(v).Sub(want.Rotate(v)).Len() >= 1e-9 {
		t.Errorf("Rotation = %v, want %v", d.Formation.Rotation, want)
	}
}

func TestVariableReference(t *testing.T) {
	g := evalOK(t, `
(def n 6)
(def spot (vec3 0 1 0))
(shape "a" :pieces n :at spot)
(shape "b" :pieces (* n 2) :at spot)
`)
	if got := shapeData(t, g, "a").Formation.PieceCount; got != 6 {
		t.Errorf("a pieces = %d, want 6", got)
	}
	if got := shapeData(t, g, "b").Formation.PieceCount; got != 12 {
		t.Errorf("b pieces = %d, want 12", got)
	}
}

// ---------------------------------------------------------------------------
// Assembly tests
// ---------------------------------------------------------------------------

func TestAssembly(t *testing.T) {
	g := evalOK(t, `
(shape "left" :from "landing-24")
(assembly "scene"
  (shape-ref "left")
  (shape "right" :from "treasure"))
`)
	if g.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.NodeCount())
	}
	if len(g.Roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(g.Roots))
	}

	scene := g.Get(g.Roots[0])
	if scene == nil || scene.Name != "scene" {
		t.Fatalf("root = %v, want scene", scene)
	}
	if scene.Kind != graph.NodeGroup {
		t.Errorf("expected NodeGroup, got %s", scene.Kind)
	}
	children := g.Children(scene)
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[0].Name != "left" || children[1].Name != "right" {
		t.Errorf("children = %s, %s", children[0].Name, children[1].Name)
	}
}

func TestShapeRefLookupError(t *testing.T) {
	msg := evalFails(t, `(assembly "scene" (shape-ref "nowhere"))`)
	if !strings.Contains(msg, "nowhere") {
		t.Errorf("error should name the missing shape, got %q", msg)
	}
}

// ---------------------------------------------------------------------------
// Error tests
// ---------------------------------------------------------------------------

func TestShapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"missing name", `(shape :pieces 4)`, "name"},
		{"missing pieces", `(shape "a" :notation "1R1")`, "pieces"},
		{"duplicate name", `(shape "a" :pieces 2) (shape "a" :pieces 3)`, "duplicate"},
		{"unknown catalog", `(shape "a" :from "mountain")`, "mountain"},
		{"non-integer pieces", `(shape "a" :pieces 2.5)`, "integer"},
		{"bad face", `(shape "a" :pieces 4 :face :top)`, "top"},
		{"bad pivot point", `(shape "a" :pieces 4 :pivot-point :middle)`, "middle"},
		{"bad bool", `(shape "a" :pieces 4 :turn 1)`, "true or false"},
		{"bad position", `(shape "a" :pieces 4 :at 3)`, "vec3"},
		{"bad color", `(shape "a" :pieces 4 :palette (palette "red"))`, "red"},
		{"vec3 arity", `(vec3 1 2)`, "exactly 3"},
		{"rotation axis", `(rotation :w 10)`, "invalid axis"},
		{"bad notation", `(shape "a" :pieces 4 :notation "1X1")`, "L or R"},
		{"assembly child", `(assembly "s" 42)`, "expected shape reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := evalFails(t, tt.source)
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestExampleScene(t *testing.T) {
	g := evalOK(t, `
;; a lander parked on its pad
(def pad-colors (palette "#E6AA68" "#FFFFFF"))

(shape "pad"
  :pieces 24
  :notation "3L2-3R2-5R2-6L2-8L2-8R2-10R2-11L2"
  :pivot 1
  :rotation (rotation :z 45 :x 90)
  :palette pad-colors)

(shape "ship" :from "lander" :at (vec3 0 6 0))

(assembly "landing"
  (shape-ref "pad")
  (shape-ref "ship"))
`)
	shapes := g.Shapes()
	if len(shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(shapes))
	}
	// Shapes are sorted by name.
	if shapes[0].Name != "pad" || shapes[1].Name != "ship" {
		t.Errorf("shapes = %s, %s", shapes[0].Name, shapes[1].Name)
	}
	if g.Version == 0 {
		t.Error("graph version should be set")
	}
	if len(g.Colors) != 3 {
		t.Errorf("Colors = %v, want the two pad colors plus the lander green", g.Colors)
	}
}
