package parser

import "fmt"

// ValidateGeometry verifies a geometry is structurally sound: coordinate
// tuples carry two or three components, line strings have at least two
// points, and polygon rings are closed with at least four points.
// Coordinates are projected meters, so no range checks apply.
func ValidateGeometry(g *Geometry) error {
	if g == nil {
		return fmt.Errorf("geometry is nil")
	}

	for i, coord := range g.Coordinates {
		if err := validateTuple(coord); err != nil {
			return fmt.Errorf("coordinate %d: %w", i, err)
		}
	}

	switch g.Type {
	case GeometryTypePoint:
		if len(g.Coordinates) != 1 {
			return &ErrInvalidGeometry{
				Type:   g.Type,
				Reason: fmt.Sprintf("expected 1 coordinate, got %d", len(g.Coordinates)),
			}
		}
	case GeometryTypeLineString:
		if len(g.Coordinates) < 2 {
			return &ErrInvalidGeometry{
				Type:   g.Type,
				Reason: fmt.Sprintf("expected at least 2 coordinates, got %d", len(g.Coordinates)),
			}
		}
	case GeometryTypePolygon:
		if err := validateRing(g.Coordinates); err != nil {
			return &ErrInvalidGeometry{Type: g.Type, Reason: "outer ring: " + err.Error()}
		}
		for i, hole := range g.Holes {
			for j, coord := range hole {
				if err := validateTuple(coord); err != nil {
					return fmt.Errorf("hole %d coordinate %d: %w", i, j, err)
				}
			}
			if err := validateRing(hole); err != nil {
				return &ErrInvalidGeometry{
					Type:   g.Type,
					Reason: fmt.Sprintf("hole %d: %s", i, err.Error()),
				}
			}
		}
	}

	return nil
}

func validateTuple(coord []float64) error {
	if len(coord) < 2 || len(coord) > 3 {
		return fmt.Errorf("expected 2 or 3 components, got %d", len(coord))
	}
	return nil
}

func validateRing(ring [][]float64) error {
	if len(ring) < 4 {
		return fmt.Errorf("expected at least 4 points, got %d", len(ring))
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		return fmt.Errorf("ring is not closed")
	}
	return nil
}
