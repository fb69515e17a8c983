package parser

// topology.go - FLATE reference resolution
// Builds polygon rings from signed KURVE references. The sign of each
// reference encodes traversal direction; rings are grouped by endpoint
// contiguity, the first completed ring being the outer boundary.

import (
	"fmt"
	"math"
)

// ringBuilder assembles polygon rings for one surface from the read-only
// record map. Scaled curve coordinates are cached so shared boundaries are
// converted once.
type ringBuilder struct {
	surfaceID int64
	records   map[int64]*objectRecord
	scale     func([][]int64) [][]float64
	epsilon   float64 // endpoint tolerance: one unit-scale increment
	cache     map[int64][][]float64
	diags     []Diagnostic
}

func newRingBuilder(surfaceID int64, records map[int64]*objectRecord, scale func([][]int64) [][]float64, epsilon float64) *ringBuilder {
	return &ringBuilder{
		surfaceID: surfaceID,
		records:   records,
		scale:     scale,
		epsilon:   epsilon,
		cache:     make(map[int64][][]float64),
	}
}

// curveCoords returns the scaled coordinates of the referenced curve,
// reversed when the reference is negative. A missing or non-curve target
// fails the whole surface; the caller isolates that failure to this one
// object.
func (b *ringBuilder) curveCoords(ref surfaceRef) ([][]float64, error) {
	id := ref.ID
	if id < 0 {
		id = -id
	}

	coords, ok := b.cache[id]
	if !ok {
		rec, found := b.records[id]
		if !found {
			return nil, &ErrUnresolvedReference{SurfaceID: b.surfaceID, CurveID: id}
		}
		if rec.Kind != KindCurve {
			return nil, &ErrInvalidGeometry{
				Type:   GeometryTypePolygon,
				Reason: fmt.Sprintf("reference %d resolves to a %s, not a curve", id, rec.Marker),
			}
		}
		if len(rec.Coords) == 0 {
			return nil, &ErrInvalidGeometry{
				Type:   GeometryTypePolygon,
				Reason: fmt.Sprintf("referenced curve %d has no coordinates", id),
			}
		}
		coords = b.scale(rec.Coords)
		b.cache[id] = coords
	}

	if ref.ID < 0 {
		reversed := make([][]float64, len(coords))
		for i, c := range coords {
			reversed[len(coords)-1-i] = c
		}
		return reversed, nil
	}

	// Copy so ring concatenation never aliases the cache.
	out := make([][]float64, len(coords))
	copy(out, coords)
	return out, nil
}

// resolve walks the signed reference list in order and groups the oriented
// curves into rings. A new ring starts when the next curve's start point
// does not continue the running ring's end point, or when the reference
// moves in or out of a parenthesised hole group. The first completed ring
// is the outer boundary, all later rings are holes.
func (b *ringBuilder) resolve(refs []surfaceRef) (outer [][]float64, holes [][][]float64, err error) {
	var rings [][][]float64
	var ring [][]float64
	ringHole := false

	push := func() {
		if len(ring) == 0 {
			return
		}
		rings = append(rings, closeRing(ring))
		ring = nil
	}

	for _, ref := range refs {
		coords, err := b.curveCoords(ref)
		if err != nil {
			return nil, nil, err
		}

		if len(ring) == 0 {
			ring = coords
			ringHole = ref.Hole
			continue
		}

		join := ref.Hole == ringHole
		if join {
			last := ring[len(ring)-1]
			first := coords[0]
			switch {
			case pointsEqual(last, first):
				coords = coords[1:]
			case pointsNear(last, first, b.epsilon):
				// Endpoints match only within one unit-scale increment.
				// Join anyway but surface it instead of silently guessing.
				b.diags = append(b.diags, Diagnostic{
					ObjectID: b.surfaceID,
					Kind:     KindSurface.String(),
					Reason:   fmt.Sprintf("reference %d joined ring within coordinate tolerance", ref.ID),
				})
				coords = coords[1:]
			default:
				join = false
			}
		}

		if join {
			ring = append(ring, coords...)
		} else {
			push()
			ring = coords
			ringHole = ref.Hole
		}
	}
	push()

	if len(rings) == 0 {
		return nil, nil, &ErrInvalidGeometry{
			Type:   GeometryTypePolygon,
			Reason: "no coordinates collected from references",
		}
	}

	return rings[0], rings[1:], nil
}

// closeRing ensures first point equals last, duplicating the first point
// when the ring is not naturally closed. Rings are never dropped for being
// unclosed.
func closeRing(ring [][]float64) [][]float64 {
	if len(ring) == 0 {
		return ring
	}
	if pointsEqual(ring[0], ring[len(ring)-1]) {
		return ring
	}
	closing := make([]float64, len(ring[0]))
	copy(closing, ring[0])
	return append(ring, closing)
}

func pointsEqual(a, b []float64) bool {
	return a[0] == b[0] && a[1] == b[1]
}

func pointsNear(a, b []float64, epsilon float64) bool {
	return math.Abs(a[0]-b[0]) <= epsilon && math.Abs(a[1]-b[1]) <= epsilon
}
