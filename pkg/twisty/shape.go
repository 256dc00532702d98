package twisty

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type prismTransform struct {
	position    mgl64.Vec3
	orientation mgl64.Quat
}

// Shape is a chain of prisms folded by notation. It owns the local
// transforms of its prisms; generated prism lists are independent copies.
// A Shape must not be folded from several goroutines at once.
type Shape struct {
	transforms []prismTransform
	applied    []string
}

// NewShape creates a straight chain of pieceCount prisms and folds it with
// notation when notation is non-empty. On a fold error the shape is still
// returned, carrying the twists applied before the failing token.
func NewShape(pieceCount int, notation string) (*Shape, error) {
	if pieceCount < 1 {
		return nil, reject("new shape", RangeError{What: "piece count", Index: pieceCount, Min: 1, Max: math.MaxInt})
	}
	s := &Shape{transforms: make([]prismTransform, pieceCount)}
	for i := range s.transforms {
		angle := 0.0
		if i&1 == 1 {
			angle = math.Pi
		}
		s.transforms[i] = prismTransform{
			position:    mgl64.Vec3{float64(i) * PrismDistance, 0, 0},
			orientation: mgl64.QuatRotate(angle, mgl64.Vec3{1, 0, 0}),
		}
	}
	if notation != "" {
		if err := s.Fold(notation); err != nil {
			return s, err
		}
	}
	return s, nil
}

// PieceCount returns the number of prisms in the chain.
func (s *Shape) PieceCount() int { return len(s.transforms) }

// Notation returns the tokens applied so far, joined by '-'.
func (s *Shape) Notation() string { return strings.Join(s.applied, "-") }

// Transform returns the local position and orientation of prism i.
func (s *Shape) Transform(i int) (mgl64.Vec3, mgl64.Quat, error) {
	if err := checkRange("prism index", i, len(s.transforms)); err != nil {
		return mgl64.Vec3{}, mgl64.Quat{}, err
	}
	t := s.transforms[i]
	return t.position, t.orientation, nil
}

// Fold applies notation token by token. On the first malformed token it
// stops and returns a ParseError; twists from earlier tokens stay applied.
func (s *Shape) Fold(notation string) error {
	if notation == "" {
		return nil
	}
	for i, token := range strings.Split(notation, "-") {
		m, err := parseMove(token, i, len(s.transforms))
		if err != nil {
			return reject("fold", err)
		}
		s.apply(m)
	}
	return nil
}

// FoldStrict parses the whole notation before applying anything. On error
// the shape is left untouched.
func (s *Shape) FoldStrict(notation string) error {
	moves, err := ParseNotation(notation, len(s.transforms))
	if err != nil {
		return reject("fold strict", err)
	}
	for _, m := range moves {
		s.apply(m)
	}
	return nil
}

// apply performs a validated move. Three twists towards you equal one
// twist away from you.
func (s *Shape) apply(m Move) {
	switch {
	case m.Twists == 3:
		s.twist(m.Prism, m.Left, !m.Left)
	default:
		for i := 0; i < m.Twists; i++ {
			s.twist(m.Prism, m.Left, m.Left)
		}
	}
	s.applied = append(s.applied, m.String())
}

// Twist rotates every prism left (or right) of prism by 90 degrees around
// the corresponding slope of prism, counter-clockwise when ccw is set.
func (s *Shape) Twist(prism int, left, ccw bool) error {
	if err := checkRange("prism index", prism, len(s.transforms)); err != nil {
		return reject("twist", err)
	}
	s.twist(prism, left, ccw)
	return nil
}

func (s *Shape) twist(prism int, left, ccw bool) {
	t := s.transforms[prism]
	pivotPoint, normal := RightSlopePivotPoint, RightSlopeNormal
	if left {
		pivotPoint, normal = LeftSlopePivotPoint, LeftSlopeNormal
	}
	pivot := localToWorld(pivotPoint, t.position, t.orientation)
	axis := t.orientation.Rotate(normal)

	angle := -math.Pi / 2
	if ccw {
		angle = math.Pi / 2
	}
	rotation := mgl64.QuatRotate(angle, axis)

	if left {
		for i := prism - 1; i >= 0; i-- {
			s.transforms[i] = twistTransform(pivot, rotation, s.transforms[i])
		}
	} else {
		for i := prism + 1; i < len(s.transforms); i++ {
			s.transforms[i] = twistTransform(pivot, rotation, s.transforms[i])
		}
	}
}

func twistTransform(pivot mgl64.Vec3, rotation mgl64.Quat, t prismTransform) prismTransform {
	return prismTransform{
		position:    rotation.Rotate(t.position.Sub(pivot)).Add(pivot),
		orientation: rotation.Mul(t.orientation).Normalize(),
	}
}

// IsClosed reports whether the left slope of the head prism meets the
// right slope of the tail prism.
func (s *Shape) IsClosed() bool {
	if len(s.transforms) < 2 {
		return false
	}
	head, tail := s.transforms[0], s.transforms[len(s.transforms)-1]
	headPivot := localToWorld(LeftSlopePivotPoint, head.position, head.orientation)
	tailPivot := localToWorld(RightSlopePivotPoint, tail.position, tail.orientation)
	return distanceSquared(headPivot, tailPivot) < JointConnectionEpsilon
}
