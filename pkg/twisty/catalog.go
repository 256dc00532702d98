package twisty

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CatalogEntry is a named reference formation with its skin colors.
type CatalogEntry struct {
	Name      string
	Formation Formation
	Colors    []string
}

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// treasureAngle is in radians.
const treasureAngle = -45.0

// landingRotation stands the landing platforms on their side.
func landingRotation() mgl64.Quat {
	return mgl64.QuatRotate(-math.Pi/2, axisY).Mul(mgl64.QuatRotate(-math.Pi/4, axisZ))
}

func landing(pieces int, notation string) Formation {
	f := NewFormation(pieces, notation)
	f.Position = mgl64.Vec3{PrismHalfSide, PrismHalfSide, 0}
	f.Rotation = landingRotation()
	return f
}

// Catalog returns the reference formations of the lander game: the
// two-part lander ship, five landing platforms and the treasure ring.
// Each call returns fresh values.
func Catalog() []CatalogEntry {
	lander := NewFormation(17, "1R1-2L3-2R1-3R1-4L3-4R3-5L1-5R1-6L1-7L3-6R1-8R1-8L3-9L3")
	lander.Rotation = mgl64.QuatRotate(math.Pi/4, axisZ)
	lander.PartCount = 2
	lander.Trunk = 8
	lander.Merge = 8
	lander.Turn = true

	landing24 := NewFormation(24, "3L2-3R2-5R2-6L2-8L2-8R2-10R2-11L2")
	landing24.Rotation = mgl64.QuatRotate(math.Pi/2, axisX).Mul(mgl64.QuatRotate(math.Pi/4, axisZ))

	treasure := NewFormation(4, "1R2-2L2-2R2")
	treasure.Position = mgl64.Vec3{-PrismHalfSide, 0, 0}
	// The lander game turns the ring by -45 radians, about -58.3 degrees
	// once wrapped.
	treasure.Rotation = mgl64.QuatRotate(treasureAngle, axisZ)

	landingColors := []string{"#E6AA68", "#FFFFFF"}
	return []CatalogEntry{
		{Name: "lander", Formation: lander, Colors: []string{"#FFFFFF", "#87E752"}},
		{Name: "landing-24", Formation: landing24, Colors: landingColors},
		{Name: "landing-22", Formation: landing(22, "1R3-3L2-4R3-5L3-6R2-8L3-8R3-10L2-11R3"), Colors: landingColors},
		{Name: "landing-30", Formation: landing(30, "1R3-3L2-4R3-5L1-6L2-8R2-11L2-12L1-12R3-14L2-15R3"), Colors: landingColors},
		{Name: "landing-38", Formation: landing(38, "1R3-3L2-4R3-5L1-6L2-7L2-8L2-10R2-13L2-14L2-15L2-16L1-16R3-18L2-19R3"), Colors: landingColors},
		{Name: "landing-46", Formation: landing(46, "1R3-3L2-4R3-5L1-6L2-7L2-8L2-9L2-10L2-12R2-15L2-16L2-17L2-18L2-19L2-20L1-20R3-22L2-23R3"), Colors: landingColors},
		{Name: "treasure", Formation: treasure, Colors: []string{"#DE1A1A"}},
	}
}

// LookupEntry finds a catalog entry by name.
func LookupEntry(name string) (CatalogEntry, bool) {
	for _, e := range Catalog() {
		if e.Name == name {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// LookupFormation finds a catalog formation by name.
func LookupFormation(name string) (Formation, bool) {
	e, ok := LookupEntry(name)
	return e.Formation, ok
}
