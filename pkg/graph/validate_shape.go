package graph

import "fmt"

// validateShapes checks shape recipes without building them: formation
// ranges, a strict parse of the notation, and palette colors.
func validateShapes(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		d, ok := node.Data.(ShapeData)
		if !ok {
			continue
		}

		if err := d.Formation.Validate(); err != nil {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("shape %q: %v", node.Name, err),
				Severity: SeverityError,
			})
		}

		if len(d.Palette) == 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("shape %q has an empty palette; prisms get no material", node.Name),
				Severity: SeverityWarning,
			})
		}
		for _, c := range d.Palette {
			if _, err := ParseColor(c); err != nil {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("shape %q: %v", node.Name, err),
					Severity: SeverityError,
				})
			}
		}

		if !d.LinkMid && !d.LinkSide {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("shape %q resolves no contact links", node.Name),
				Severity: SeverityWarning,
			})
		}

		if d.Formation.PartCount <= 1 && d.InvertMerge {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("shape %q inverts merge materials but has a single part", node.Name),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
