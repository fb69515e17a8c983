package parser

// GeometryType represents the type of an assembled geometry.
type GeometryType int

const (
	// GeometryTypePoint is a single location.
	GeometryTypePoint GeometryType = iota + 1

	// GeometryTypeLineString is a curve of connected points in file order.
	GeometryTypeLineString

	// GeometryTypePolygon is a closed outer ring with zero or more holes.
	GeometryTypePolygon
)

// String returns the string representation of the geometry type.
func (g GeometryType) String() string {
	switch g {
	case GeometryTypePoint:
		return "Point"
	case GeometryTypeLineString:
		return "LineString"
	case GeometryTypePolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Geometry is the spatial representation of a decoded object.
//
// Coordinates are [easting, northing] pairs in real-world units, or
// [easting, northing, height] when 3D output is requested. For polygons,
// Coordinates holds the closed outer ring and Holes the interior rings.
type Geometry struct {
	Type        GeometryType
	Coordinates [][]float64
	Holes       [][][]float64
}

// assembler builds final geometries from parsed records. It owns the
// build-once identifier map: all records are registered before any surface
// resolution starts, so lookups never race with construction.
type assembler struct {
	meta    *Metadata
	records map[int64]*objectRecord
	flatten bool
}

func newAssembler(meta *Metadata, records map[int64]*objectRecord, flatten bool) *assembler {
	return &assembler{
		meta:    meta,
		records: records,
		flatten: flatten,
	}
}

// scaleTuple converts one raw fixed-point tuple into real-world units.
// SOSI stores north before east; output order is (easting, northing) so
// downstream consumers get conventional (x, y). The third component is
// dropped in 2D output mode.
func (a *assembler) scaleTuple(t []int64) []float64 {
	x := a.meta.OriginE + float64(t[1])*a.meta.UnitScale
	y := a.meta.OriginN + float64(t[0])*a.meta.UnitScale
	if len(t) >= 3 && !a.flatten {
		return []float64{x, y, float64(t[2]) * a.meta.UnitScale}
	}
	return []float64{x, y}
}

func (a *assembler) scaleAll(raw [][]int64) [][]float64 {
	coords := make([][]float64, len(raw))
	for i, t := range raw {
		coords[i] = a.scaleTuple(t)
	}
	return coords
}

// build constructs the geometry for one record. The returned diagnostics
// describe recovered anomalies (tolerance joins, fallback points); an error
// means the record produces no geometry at all.
func (a *assembler) build(rec *objectRecord) (Geometry, []Diagnostic, error) {
	switch rec.Kind {
	case KindPoint, KindText:
		return a.buildPoint(rec)
	case KindCurve:
		return a.buildLine(rec)
	case KindSurface:
		return a.buildSurface(rec)
	default:
		return Geometry{}, nil, &ErrInvalidGeometry{
			Reason: "unrecognized object kind " + rec.Marker,
		}
	}
}

func (a *assembler) buildPoint(rec *objectRecord) (Geometry, []Diagnostic, error) {
	if len(rec.Coords) == 0 {
		return Geometry{}, nil, &ErrInvalidGeometry{
			Type:   GeometryTypePoint,
			Reason: "record has no coordinates",
		}
	}
	return Geometry{
		Type:        GeometryTypePoint,
		Coordinates: [][]float64{a.scaleTuple(rec.Coords[0])},
	}, nil, nil
}

func (a *assembler) buildLine(rec *objectRecord) (Geometry, []Diagnostic, error) {
	if len(rec.Coords) < 2 {
		return Geometry{}, nil, &ErrInvalidGeometry{
			Type:   GeometryTypeLineString,
			Reason: "curve needs at least two coordinates",
		}
	}
	return Geometry{
		Type:        GeometryTypeLineString,
		Coordinates: a.scaleAll(rec.Coords),
	}, nil, nil
}

// buildSurface resolves a FLATE's reference list into polygon rings.
// A surface with no references at all falls back to its representation
// point when one is present.
func (a *assembler) buildSurface(rec *objectRecord) (Geometry, []Diagnostic, error) {
	if len(rec.Refs) == 0 {
		if len(rec.Coords) > 0 {
			diag := Diagnostic{
				ObjectID: rec.ID,
				Kind:     rec.Marker,
				Reason:   "surface has no references, using representation point",
			}
			return Geometry{
				Type:        GeometryTypePoint,
				Coordinates: [][]float64{a.scaleTuple(rec.Coords[0])},
			}, []Diagnostic{diag}, nil
		}
		return Geometry{}, nil, &ErrInvalidGeometry{
			Type:   GeometryTypePolygon,
			Reason: "surface has neither references nor coordinates",
		}
	}

	builder := newRingBuilder(rec.ID, a.records, a.scaleAll, a.meta.UnitScale)
	outer, holes, err := builder.resolve(rec.Refs)
	if err != nil {
		return Geometry{}, builder.diags, err
	}

	return Geometry{
		Type:        GeometryTypePolygon,
		Coordinates: outer,
		Holes:       holes,
	}, builder.diags, nil
}
