package twisty

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Formation is a declarative recipe for a prism list: a folded chain placed
// in the world and, when PartCount > 1, repeated by merging.
type Formation struct {
	PieceCount int        `json:"pieceCount"`
	Notation   string     `json:"notation"`
	Pivot      int        `json:"pivot"`
	Position   mgl64.Vec3 `json:"position"`
	Rotation   mgl64.Quat `json:"rotation"`
	PartCount  int        `json:"partCount"`
	Trunk      int        `json:"trunk"`
	Merge      int        `json:"merge"`
	Turn       bool       `json:"turn"`
	MergeFace  MergeFace  `json:"mergeFace"`
}

// NewFormation returns a single-part formation with identity rotation.
func NewFormation(pieceCount int, notation string) Formation {
	return Formation{
		PieceCount: pieceCount,
		Notation:   notation,
		Rotation:   mgl64.QuatIdent(),
		PartCount:  1,
		MergeFace:  MergeFaceBottom,
	}
}

func (f Formation) rotation() mgl64.Quat {
	if f.Rotation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return f.Rotation
}

func (f Formation) face() MergeFace {
	if f.MergeFace == 0 {
		return MergeFaceBottom
	}
	return f.MergeFace
}

// Validate checks f without building it. Zero PartCount and MergeFace are
// read as 1 and bottom.
func (f Formation) Validate() error {
	if f.PieceCount < 1 {
		return RangeError{What: "piece count", Index: f.PieceCount, Min: 1, Max: math.MaxInt}
	}
	if _, err := ParseNotation(f.Notation, f.PieceCount); err != nil {
		return err
	}
	if err := checkRange("pivot prism", f.Pivot, f.PieceCount); err != nil {
		return err
	}
	if f.PartCount < 0 {
		return RangeError{What: "part count", Index: f.PartCount, Min: 0, Max: math.MaxInt}
	}
	if f.PartCount <= 1 {
		return nil
	}
	if err := checkRange("trunk prism", f.Trunk, f.PieceCount); err != nil {
		return err
	}
	if err := checkRange("merge prism", f.Merge, f.PieceCount); err != nil {
		return err
	}
	switch f.face() {
	case MergeFaceBottom, MergeFaceFront, MergeFaceBack:
	default:
		return StructuralError{Reason: fmt.Sprintf("unknown merge face %v", f.MergeFace)}
	}
	return nil
}

// BuildPrisms folds and places a formation. A fold error is returned
// rather than building a partially folded chain. The formation's merge
// face overrides any WithMergeFace option.
func BuildPrisms(f Formation, materials []Material, opts ...Option) ([]Prism, error) {
	shape, err := NewShape(f.PieceCount, f.Notation)
	if err != nil {
		return nil, fmt.Errorf("build prisms: %w", err)
	}
	if f.PartCount > 1 {
		opts = append(opts[:len(opts):len(opts)], WithMergeFace(f.face()))
		prisms, err := shape.GeneratePatternPrisms(f.Pivot, f.Position, f.rotation(), f.PartCount, f.Trunk, f.Merge, f.Turn, materials, opts...)
		if err != nil {
			return nil, fmt.Errorf("build prisms: %w", err)
		}
		return prisms, nil
	}
	prisms, err := shape.GeneratePrisms(f.Pivot, f.Position, f.rotation(), materials, opts...)
	if err != nil {
		return nil, fmt.Errorf("build prisms: %w", err)
	}
	return prisms, nil
}
