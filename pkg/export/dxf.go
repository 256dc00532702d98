package export

import (
	"fmt"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/chazu/twisty/pkg/tessellate"
	"github.com/chazu/twisty/pkg/twisty"
)

// prismEdges are the vertex pairs of the nine prism edges: the back
// triangle, the front triangle and the three edges joining them.
var prismEdges = [9][2]int{
	{0, 2}, {2, 4}, {4, 0},
	{1, 3}, {3, 5}, {5, 1},
	{0, 1}, {2, 3}, {4, 5},
}

// layerColors cycle across shapes.
var layerColors = []color.ColorNumber{color.Red, color.Yellow, color.Green, color.Cyan, color.Blue, color.Magenta}

// LayerName returns the DXF layer used for a shape. Characters outside
// letters, digits, '-' and '_' become '_'.
func LayerName(shape string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, shape)
	return "SHAPE_" + strings.ToUpper(name)
}

// WriteDXF saves a wireframe of every prism edge to path, one layer per
// shape.
func WriteDXF(path string, parts []tessellate.Part) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	used := make(map[string]int)
	for i, part := range parts {
		layer := LayerName(part.Name())
		if n := used[layer]; n > 0 {
			used[layer]++
			layer = fmt.Sprintf("%s_%d", layer, n+1)
		} else {
			used[layer] = 1
		}
		if _, err := d.AddLayer(layer, layerColors[i%len(layerColors)], dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("export dxf: layer %s: %w", layer, err)
		}
		if err := d.ChangeLayer(layer); err != nil {
			return fmt.Errorf("export dxf: layer %s: %w", layer, err)
		}
		for _, p := range part.Prisms {
			if err := drawPrism(d, p); err != nil {
				return fmt.Errorf("export dxf: shape %q prism %d: %w", part.Name(), p.Index, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("export dxf: %w", err)
	}
	return nil
}

func drawPrism(d *drawing.Drawing, p twisty.Prism) error {
	v := p.Vertices()
	for _, e := range prismEdges {
		a, b := v[e[0]], v[e[1]]
		if _, err := d.Line(a[0], a[1], a[2], b[0], b[1], b[2]); err != nil {
			return err
		}
	}
	return nil
}
