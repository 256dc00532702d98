package export

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"

	"github.com/chazu/twisty/pkg/kernel"
)

// WriteSTL writes all meshes as one binary STL solid at path. Per-mesh
// colors are not representable and are dropped.
func WriteSTL(path string, meshes []*kernel.Mesh) error {
	if path == "" {
		return fmt.Errorf("export stl: output path required")
	}
	if err := render.SaveSTL(path, Triangles(meshes)); err != nil {
		return fmt.Errorf("export stl: %w", err)
	}
	return nil
}

// Triangles flattens meshes into sdfx triangles in mesh order.
func Triangles(meshes []*kernel.Mesh) []*sdf.Triangle3 {
	total := lo.SumBy(meshes, func(m *kernel.Mesh) int { return m.TriangleCount() })
	out := make([]*sdf.Triangle3, 0, total)
	for _, m := range meshes {
		for i := 0; i < m.TriangleCount(); i++ {
			corners := m.Triangle(i)
			var tri sdf.Triangle3
			for j, c := range corners {
				tri[j] = v3.Vec{X: float64(c[0]), Y: float64(c[1]), Z: float64(c[2])}
			}
			out = append(out, &tri)
		}
	}
	return out
}
