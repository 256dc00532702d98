package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/twisty/pkg/graph"
	"github.com/chazu/twisty/pkg/twisty"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms twisty scene scripts before passing them to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: shape-ref -> shape_ref
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Script values passed between builtins
// ---------------------------------------------------------------------------

type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpRotation struct {
	q mgl64.Quat
}

func (r *sexpRotation) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(rotation %.4f %.4f %.4f %.4f)", r.q.W, r.q.V[0], r.q.V[1], r.q.V[2])
}
func (r *sexpRotation) Type() *zygo.RegisteredType { return nil }

type sexpPalette struct {
	colors []string
}

func (p *sexpPalette) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(palette %q)", p.colors)
}
func (p *sexpPalette) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(shape-ref %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

type kwPair struct {
	name  string
	value zygo.Sexp
}

// kwArgs holds a mixed positional+keyword argument list. ordered keeps
// keyword order for forms where it matters.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	ordered    []kwPair
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		value := zygo.Sexp(zygo.SexpNull)
		if i+1 < len(args) {
			value = args[i+1]
			i += 2
		} else {
			i++
		}
		result.kw[name] = value
		result.ordered = append(result.ordered, kwPair{name: name, value: value})
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toRotation(s zygo.Sexp) (mgl64.Quat, error) {
	if r, ok := s.(*sexpRotation); ok {
		return r.q, nil
	}
	return mgl64.Quat{}, fmt.Errorf("expected rotation, got %T (%s)", s, s.SexpString(nil))
}

// toPalette accepts a (palette ...) value or a single color string.
func toPalette(s zygo.Sexp) ([]string, error) {
	switch v := s.(type) {
	case *sexpPalette:
		return v.colors, nil
	case *zygo.SexpStr:
		return []string{v.S}, nil
	}
	return nil, fmt.Errorf("expected palette, got %T (%s)", s, s.SexpString(nil))
}

// toPivotPoint accepts :left, :right, :bottom, :merge or a vec3.
func toPivotPoint(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("expected pivot keyword or vec3: %w", err)
	}
	switch name {
	case "left":
		return twisty.LeftSlopePivotPoint, nil
	case "right":
		return twisty.RightSlopePivotPoint, nil
	case "bottom":
		return twisty.BottomPivotPoint, nil
	case "merge":
		return twisty.MergePivotPoint, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("invalid pivot point %q, expected left, right, bottom or merge", name)
}

func toMergeFace(s zygo.Sexp) (twisty.MergeFace, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected face keyword: %w", err)
	}
	return twisty.ParseMergeFace(name)
}

func toAxis(s zygo.Sexp) (mgl64.Vec3, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	switch name {
	case "x":
		return mgl64.Vec3{1, 0, 0}, nil
	case "y":
		return mgl64.Vec3{0, 1, 0}, nil
	case "z":
		return mgl64.Vec3{0, 0, 1}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// scope is the state shared by the builtins of one evaluation.
type scope struct {
	g    *graph.DesignGraph
	file string
}

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. They populate s.g during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scope) {
	env.AddFunction("vec3", s.vec3)
	env.AddFunction("rotation", s.rotation)
	env.AddFunction("palette", s.palette)
	env.AddFunction("shape", s.shape)
	env.AddFunction("shape_ref", s.shapeRef)
	env.AddFunction("assembly", s.assembly)
}

// (vec3 1 2 3)
func (s *scope) vec3(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var v mgl64.Vec3
	for i, axis := range []string{"x", "y", "z"} {
		f, err := toFloat64(args[i])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
		}
		v[i] = f
	}
	return &sexpVec3{vec: v}, nil
}

// (rotation :z 45 :x 90) applies the rotations in order, angles in degrees.
func (s *scope) rotation(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) > 0 {
		return zygo.SexpNull, fmt.Errorf("rotation takes only :x, :y or :z angles")
	}
	q := mgl64.QuatIdent()
	for _, kv := range pa.ordered {
		axis, err := toAxis(zygo.Sexp(&zygo.SexpStr{S: kv.name}))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotation: %w", err)
		}
		deg, err := toFloat64(kv.value)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotation: %s: %w", kv.name, err)
		}
		q = mgl64.QuatRotate(mgl64.DegToRad(deg), axis).Mul(q)
	}
	return &sexpRotation{q: q.Normalize()}, nil
}

// (palette "#E6AA68" "#FFFFFF")
func (s *scope) palette(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	colors := make([]string, 0, len(args))
	for i, a := range args {
		c, err := toString(a)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("palette: color %d: %w", i+1, err)
		}
		if _, err := graph.ParseColor(c); err != nil {
			return zygo.SexpNull, fmt.Errorf("palette: %w", err)
		}
		colors = append(colors, c)
	}
	return &sexpPalette{colors: colors}, nil
}

// (shape "name" :pieces 17 :notation "1R1-..." :at (vec3 ...) ...)
func (s *scope) shape(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("shape requires a name argument")
	}
	shapeName, err := toString(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("shape: name: %w", err)
	}
	if s.g.Lookup(shapeName) != nil {
		return zygo.SexpNull, fmt.Errorf("shape: duplicate name %q", shapeName)
	}

	d := graph.NewShapeData(twisty.NewFormation(0, ""))
	if v, ok := pa.kw["from"]; ok {
		from, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: from: %w", err)
		}
		entry, ok := twisty.LookupEntry(from)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("shape: from: no catalog formation %q", from)
		}
		d = graph.NewShapeData(entry.Formation)
		d.Palette = entry.Colors
	} else if _, ok := pa.kw["pieces"]; !ok {
		return zygo.SexpNull, fmt.Errorf("shape %q: :pieces is required", shapeName)
	}

	if err := applyShapeArgs(&d, pa); err != nil {
		return zygo.SexpNull, fmt.Errorf("shape %q: %w", shapeName, err)
	}

	// Register palette colors so material handles are stable for this graph.
	s.g.Materials(d.Palette)

	id := graph.NewNodeID("shape/" + shapeName)
	s.g.AddNode(&graph.Node{
		ID:          id,
		Kind:        graph.NodeShape,
		Name:        shapeName,
		Source:      graph.SourceRef{File: s.file},
		ContentHash: d.Hash(),
		Data:        d,
	})
	return &sexpNodeRef{id: id, name: shapeName}, nil
}

func applyShapeArgs(d *graph.ShapeData, pa kwArgs) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"pieces", &d.Formation.PieceCount},
		{"pivot", &d.Formation.Pivot},
		{"parts", &d.Formation.PartCount},
		{"trunk", &d.Formation.Trunk},
		{"merge", &d.Formation.Merge},
	}
	for _, f := range ints {
		if v, ok := pa.kw[f.key]; ok {
			n, err := toInt(v)
			if err != nil {
				return fmt.Errorf("%s: %w", f.key, err)
			}
			*f.dst = n
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"turn", &d.Formation.Turn},
		{"invert-trunk", &d.InvertTrunk},
		{"invert-merge", &d.InvertMerge},
		{"link-mid", &d.LinkMid},
		{"link-side", &d.LinkSide},
	}
	for _, f := range bools {
		if v, ok := pa.kw[f.key]; ok {
			b, err := toBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", f.key, err)
			}
			*f.dst = b
		}
	}

	if v, ok := pa.kw["notation"]; ok {
		n, err := toString(v)
		if err != nil {
			return fmt.Errorf("notation: %w", err)
		}
		d.Formation.Notation = n
	}
	if v, ok := pa.kw["at"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("at: %w", err)
		}
		d.Formation.Position = vec
	}
	if v, ok := pa.kw["rotation"]; ok {
		q, err := toRotation(v)
		if err != nil {
			return fmt.Errorf("rotation: %w", err)
		}
		d.Formation.Rotation = q
	}
	if v, ok := pa.kw["face"]; ok {
		face, err := toMergeFace(v)
		if err != nil {
			return fmt.Errorf("face: %w", err)
		}
		d.Formation.MergeFace = face
	}
	if v, ok := pa.kw["palette"]; ok {
		colors, err := toPalette(v)
		if err != nil {
			return fmt.Errorf("palette: %w", err)
		}
		d.Palette = colors
	}
	if v, ok := pa.kw["pivot-point"]; ok {
		p, err := toPivotPoint(v)
		if err != nil {
			return fmt.Errorf("pivot-point: %w", err)
		}
		d.PivotPoint = p
	}
	return nil
}

// (shape-ref "name")
func (s *scope) shapeRef(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("shape-ref requires a name argument")
	}
	ref, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("shape-ref: name: %w", err)
	}
	n := s.g.Lookup(ref)
	if n == nil {
		return zygo.SexpNull, fmt.Errorf("shape-ref: no shape named %q", ref)
	}
	return &sexpNodeRef{id: n.ID, name: ref}, nil
}

// (assembly "name" (shape-ref "a") (shape ...) ...)
func (s *scope) assembly(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
	}
	asmName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
	}

	var children []graph.NodeID
	for i := 1; i < len(args); i++ {
		ref, ok := args[i].(*sexpNodeRef)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("assembly: child %d: expected shape reference, got %T (%s)",
				i, args[i], args[i].SexpString(nil))
		}
		children = append(children, ref.id)
	}

	id := graph.NewNodeID("assembly/" + asmName)
	s.g.AddNode(&graph.Node{
		ID:       id,
		Kind:     graph.NodeGroup,
		Name:     asmName,
		Source:   graph.SourceRef{File: s.file},
		Children: children,
		Data:     graph.GroupData{},
	})
	s.g.AddRoot(id)

	return &sexpNodeRef{id: id, name: asmName}, nil
}
