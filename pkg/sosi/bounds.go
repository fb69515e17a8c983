package sosi

// Bounds is an axis-aligned extent in real-world coordinates, easting and
// northing in the dataset's projected coordinate system.
type Bounds struct {
	MinE float64
	MinN float64
	MaxE float64
	MaxN float64
}

// Intersects reports whether two extents overlap. Touching edges count as
// intersecting.
func (b Bounds) Intersects(other Bounds) bool {
	return b.MinE <= other.MaxE && b.MaxE >= other.MinE &&
		b.MinN <= other.MaxN && b.MaxN >= other.MinN
}

// Contains reports whether a point lies within the extent, edges included.
func (b Bounds) Contains(east, north float64) bool {
	return east >= b.MinE && east <= b.MaxE &&
		north >= b.MinN && north <= b.MaxN
}

// Expand grows the extent to also cover another extent.
func (b *Bounds) Expand(other Bounds) {
	if other.MinE < b.MinE {
		b.MinE = other.MinE
	}
	if other.MinN < b.MinN {
		b.MinN = other.MinN
	}
	if other.MaxE > b.MaxE {
		b.MaxE = other.MaxE
	}
	if other.MaxN > b.MaxN {
		b.MaxN = other.MaxN
	}
}

// featureBounds computes the bounding box of one feature's geometry,
// holes included.
func featureBounds(f Feature) Bounds {
	coords := f.geometry.Coordinates
	if len(coords) == 0 {
		return Bounds{}
	}

	b := Bounds{
		MinE: coords[0][0], MaxE: coords[0][0],
		MinN: coords[0][1], MaxN: coords[0][1],
	}
	visit := func(c []float64) {
		if c[0] < b.MinE {
			b.MinE = c[0]
		}
		if c[0] > b.MaxE {
			b.MaxE = c[0]
		}
		if c[1] < b.MinN {
			b.MinN = c[1]
		}
		if c[1] > b.MaxN {
			b.MaxN = c[1]
		}
	}
	for _, c := range coords {
		visit(c)
	}
	for _, hole := range f.geometry.Holes {
		for _, c := range hole {
			visit(c)
		}
	}
	return b
}
