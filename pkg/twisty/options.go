package twisty

import "github.com/go-gl/mathgl/mgl64"

type options struct {
	invert      bool
	invertMerge bool
	linkMid     bool
	linkSide    bool
	pivotPoint  mgl64.Vec3
	face        MergeFace
}

// Option tunes prism generation and merging.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		linkMid:    true,
		linkSide:   true,
		pivotPoint: LeftSlopePivotPoint,
		face:       MergeFaceBottom,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithInvertedMaterials assigns materials in reverse chain order. In a
// pattern it applies to the base part only.
func WithInvertedMaterials() Option {
	return func(o *options) { o.invert = true }
}

// WithInvertedMergeMaterials assigns materials of merged pattern parts in
// reverse chain order.
func WithInvertedMergeMaterials() Option {
	return func(o *options) { o.invertMerge = true }
}

// WithLinks selects which contact links are resolved. Both are on by
// default.
func WithLinks(mid, side bool) Option {
	return func(o *options) {
		o.linkMid = mid
		o.linkSide = side
	}
}

// WithPivotPoint sets the local point of the pivot prism that lands on the
// requested position. The default is LeftSlopePivotPoint.
func WithPivotPoint(p mgl64.Vec3) Option {
	return func(o *options) { o.pivotPoint = p }
}

// WithMergeFace selects the trunk face merged parts attach to.
func WithMergeFace(face MergeFace) Option {
	return func(o *options) { o.face = face }
}
