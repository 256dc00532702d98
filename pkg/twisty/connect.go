package twisty

import "github.com/go-gl/mathgl/mgl64"

// Contact resolution compares every pair of prisms and is O(n²). It is
// meant for shape construction, not per-frame use.
//
// Pairs are visited with i ascending and j > i ascending. A link is set
// only when both slots it writes are still empty, so the first matching
// pair wins and links stay mutual when three or more faces coincide.

// Link resolves mid and side contacts as requested.
func Link(prisms []Prism, mid, side bool) {
	if mid {
		LinkMid(prisms)
	}
	if side {
		LinkSide(prisms)
	}
}

// LinkMid resets and resolves base face contacts.
func LinkMid(prisms []Prism) {
	faces := make([][4]mgl64.Vec3, len(prisms))
	for i := range prisms {
		v := prisms[i].Vertices()
		for k, idx := range baseFaceVertices {
			faces[i][k] = v[idx]
		}
		prisms[i].Mid = NoLink
	}

	for i := range prisms {
		a := faces[i]
		for j := i + 1; j < len(prisms); j++ {
			b := faces[j]
			match := (sameVertex(a[0], b[2]) && sameVertex(a[1], b[3]) &&
				sameVertex(a[2], b[0]) && sameVertex(a[3], b[1])) ||
				(sameVertex(a[0], b[1]) && sameVertex(a[1], b[0]) &&
					sameVertex(a[2], b[3]) && sameVertex(a[3], b[2]))
			if match && prisms[i].Mid == NoLink && prisms[j].Mid == NoLink {
				prisms[i].Mid = j
				prisms[j].Mid = i
			}
		}
	}
}

type triangle = [3]mgl64.Vec3

func sameTriangle(t, o triangle) bool {
	return sameVertex(t[0], o[2]) && sameVertex(t[1], o[1]) && sameVertex(t[2], o[0])
}

// sideSlot selects the Front or Back link of a prism.
type sideSlot int

const (
	frontSlot sideSlot = iota
	backSlot
)

func (p *Prism) slot(s sideSlot) *int {
	if s == frontSlot {
		return &p.Front
	}
	return &p.Back
}

// LinkSide resets and resolves front and back triangle contacts. For each
// pair the patterns are tried in order: front to back, back to front,
// front to front, back to back.
func LinkSide(prisms []Prism) {
	fronts := make([]triangle, len(prisms))
	backs := make([]triangle, len(prisms))
	for i := range prisms {
		v := prisms[i].Vertices()
		for k := 0; k < 3; k++ {
			fronts[i][k] = v[frontTriangleVertices[k]]
			backs[i][k] = v[backTriangleVertices[k]]
		}
		prisms[i].Front = NoLink
		prisms[i].Back = NoLink
	}

	for i := range prisms {
		for j := i + 1; j < len(prisms); j++ {
			var si, sj sideSlot
			switch {
			case sameTriangle(fronts[i], backs[j]):
				si, sj = frontSlot, backSlot
			case sameTriangle(backs[i], fronts[j]):
				si, sj = backSlot, frontSlot
			case sameTriangle(fronts[i], fronts[j]):
				si, sj = frontSlot, frontSlot
			case sameTriangle(backs[i], backs[j]):
				si, sj = backSlot, backSlot
			default:
				continue
			}
			a, b := prisms[i].slot(si), prisms[j].slot(sj)
			if *a == NoLink && *b == NoLink {
				*a = j
				*b = i
			}
		}
	}
}
