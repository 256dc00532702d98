package twisty

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// MergeFace selects the trunk prism face a merged part attaches to.
type MergeFace int

const (
	MergeFaceBottom MergeFace = iota + 1
	MergeFaceFront
	MergeFaceBack
)

func (f MergeFace) String() string {
	switch f {
	case MergeFaceBottom:
		return "bottom"
	case MergeFaceFront:
		return "front"
	case MergeFaceBack:
		return "back"
	default:
		return fmt.Sprintf("MergeFace(%d)", int(f))
	}
}

// ParseMergeFace accepts "bottom", "front" or "back", case-insensitively.
func ParseMergeFace(s string) (MergeFace, error) {
	switch strings.ToLower(s) {
	case "bottom":
		return MergeFaceBottom, nil
	case "front":
		return MergeFaceFront, nil
	case "back":
		return MergeFaceBack, nil
	}
	return 0, StructuralError{Reason: fmt.Sprintf("unknown merge face %q", s)}
}

// MergePrisms generates the shape so that its prism mergeIndex sits against
// a face of trunk[trunkIndex], and returns the trunk followed by the new
// prisms. The trunk slice is not modified. With turn set the merged part is
// additionally rotated 180 degrees around the face normal.
func (s *Shape) MergePrisms(trunk []Prism, trunkIndex, mergeIndex int, turn bool, materials []Material, opts ...Option) ([]Prism, error) {
	o := newOptions(opts)
	prisms, err := s.merge(trunk, trunkIndex, mergeIndex, turn, materials, o.invert, o.face)
	if err != nil {
		return nil, reject("merge prisms", err)
	}
	Link(prisms, o.linkMid, o.linkSide)
	return prisms, nil
}

func (s *Shape) merge(trunk []Prism, trunkIndex, mergeIndex int, turn bool, materials []Material, invert bool, face MergeFace) ([]Prism, error) {
	if len(trunk) == 0 {
		return nil, StructuralError{Reason: "trunk prism list is empty"}
	}
	if err := checkRange("trunk prism", trunkIndex, len(trunk)); err != nil {
		return nil, err
	}
	if err := checkRange("merge prism", mergeIndex, len(s.transforms)); err != nil {
		return nil, err
	}

	t := trunk[trunkIndex]
	var rotation mgl64.Quat
	var offset mgl64.Vec3
	switch face {
	case MergeFaceBottom:
		axis := mgl64.Vec3{1, 0, 0}
		if turn {
			axis = mgl64.Vec3{0, 0, -1}
		}
		rotation = t.Orientation.Mul(mgl64.QuatRotate(math.Pi, axis))
		offset = MergeBottomPosition
	case MergeFaceFront, MergeFaceBack:
		angle := 0.0
		if turn {
			angle = math.Pi
		}
		rotation = t.Orientation.Mul(mgl64.QuatRotate(angle, mgl64.Vec3{0, 1, 0}))
		offset = MergeFrontPosition
		if face == MergeFaceBack {
			offset = MergeBackPosition
		}
	default:
		return nil, StructuralError{Reason: fmt.Sprintf("unknown merge face %v", face)}
	}
	position := t.Orientation.Rotate(offset).Add(t.Position)

	merged, err := s.place(mergeIndex, position, rotation, materials, invert, MergePivotPoint)
	if err != nil {
		return nil, err
	}
	if len(merged) == 0 {
		return nil, StructuralError{Reason: "merged prism list is empty"}
	}

	base := len(trunk)
	out := make([]Prism, 0, base+len(merged))
	out = append(out, trunk...)
	for _, p := range merged {
		p.Index += base
		p.Prev = shiftLink(p.Prev, base)
		p.Next = shiftLink(p.Next, base)
		out = append(out, p)
	}
	return out, nil
}

func shiftLink(link, by int) int {
	if link == NoLink {
		return NoLink
	}
	return link + by
}

// GeneratePatternPrisms builds partCount copies of the shape. The first is
// placed as by GeneratePrisms; every further copy is merged onto prism
// trunkIndex of the previous copy. Contacts are resolved once at the end.
func (s *Shape) GeneratePatternPrisms(pivot int, position mgl64.Vec3, rotation mgl64.Quat, partCount, trunkIndex, mergeIndex int, turn bool, materials []Material, opts ...Option) ([]Prism, error) {
	if partCount < 2 {
		return nil, reject("generate pattern", RangeError{What: "part count", Index: partCount, Min: 2, Max: math.MaxInt})
	}
	o := newOptions(opts)
	prisms, err := s.place(pivot, position, rotation, materials, o.invert, o.pivotPoint)
	if err != nil {
		return nil, reject("generate pattern", err)
	}
	n := len(s.transforms)
	for i := 0; i < partCount-1; i++ {
		prisms, err = s.merge(prisms, trunkIndex+i*n, mergeIndex, turn, materials, o.invertMerge, o.face)
		if err != nil {
			return nil, reject("generate pattern", fmt.Errorf("part %d: %w", i+1, err))
		}
	}
	Link(prisms, o.linkMid, o.linkSide)
	return prisms, nil
}
