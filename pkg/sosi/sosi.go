// Package sosi provides a clean public API for reading and writing SOSI
// vector geodata files, the Norwegian Kartverket exchange format.
package sosi

import (
	"github.com/dhconnelly/rtreego"

	"github.com/jesperfjellin/sosilogikk/internal/parser"
)

// Dataset represents one parsed SOSI file.
//
// A dataset contains header metadata (character set, unit scale, coordinate
// system) and a collection of geographic features (points, curves, surfaces,
// text placements).
//
// Access metadata via methods like EPSG(), UnitScale(), Charset().
// Access features via Features(), FeaturesInBounds(), or FeatureCount().
//
// All fields are private to maintain encapsulation.
type Dataset struct {
	features     []Feature
	spatialIndex *spatialIndex
	bounds       Bounds
	diagnostics  []Diagnostic

	charset       string
	unitScale     float64
	originE       float64
	originN       float64
	koordsys      int
	epsg          int
	sosiVersion   string
	sosiLevel     string
	objectCatalog string
	vertDatum     string
}

// spatialIndex provides O(log n) spatial queries using an R-tree.
type spatialIndex struct {
	rtree *rtreego.Rtree
}

// indexedFeature wraps a feature for R-tree storage.
type indexedFeature struct {
	feature Feature
	bounds  Bounds
}

// Bounds implements rtreego.Spatial.
func (f *indexedFeature) Bounds() rtreego.Rect {
	point := rtreego.Point{f.bounds.MinE, f.bounds.MinN}

	width := f.bounds.MaxE - f.bounds.MinE
	height := f.bounds.MaxN - f.bounds.MinN

	// R-tree rectangles need non-zero extents; half a meter covers point
	// features in projected coordinates.
	const epsilon = 0.5
	if width < epsilon {
		width = epsilon
	}
	if height < epsilon {
		height = epsilon
	}

	rect, _ := rtreego.NewRect(point, []float64{width, height})
	return rect
}

// Features returns all features in the dataset, in file order.
func (d *Dataset) Features() []Feature {
	return d.features
}

// FeatureCount returns the number of features in the dataset.
func (d *Dataset) FeatureCount() int {
	return len(d.features)
}

// Bounds returns the extent of the dataset in real-world coordinates.
//
// The declared ..OMRÅDE extent is used when the header carries one,
// otherwise the bounds are computed from feature coordinates.
func (d *Dataset) Bounds() Bounds {
	return d.bounds
}

// FeaturesInBounds returns all features whose bounding box intersects the
// given extent.
//
// Example:
//
//	viewport := sosi.Bounds{
//	    MinE: 570000, MaxE: 580000,
//	    MinN: 6640000, MaxN: 6650000,
//	}
//	visible := dataset.FeaturesInBounds(viewport)
func (d *Dataset) FeaturesInBounds(bounds Bounds) []Feature {
	if d.spatialIndex == nil || d.spatialIndex.rtree == nil {
		return d.featuresInBoundsLinear(bounds)
	}

	point := rtreego.Point{bounds.MinE, bounds.MinN}
	lengths := []float64{
		bounds.MaxE - bounds.MinE,
		bounds.MaxN - bounds.MinN,
	}
	queryRect, _ := rtreego.NewRect(point, lengths)

	spatials := d.spatialIndex.rtree.SearchIntersect(queryRect)

	result := make([]Feature, 0, len(spatials))
	for _, spatial := range spatials {
		indexed := spatial.(*indexedFeature)
		result = append(result, indexed.feature)
	}
	return result
}

// featuresInBoundsLinear performs linear search when no spatial index exists.
func (d *Dataset) featuresInBoundsLinear(bounds Bounds) []Feature {
	result := make([]Feature, 0, len(d.features)/10)
	for _, feature := range d.features {
		if bounds.Intersects(featureBounds(feature)) {
			result = append(result, feature)
		}
	}
	return result
}

// Diagnostics returns the per-object problems recovered during decoding:
// dropped surfaces, skipped lines, tolerance joins. An empty slice means
// the file decoded cleanly.
func (d *Dataset) Diagnostics() []Diagnostic {
	return d.diagnostics
}

// Charset returns the character set the file was decoded with,
// e.g. "UTF-8" or "ISO8859-1".
func (d *Dataset) Charset() string { return d.charset }

// UnitScale returns the ...ENHET factor applied to raw coordinates.
func (d *Dataset) UnitScale() float64 { return d.unitScale }

// Origin returns the ...ORIGO-NØ offset as (easting, northing).
// Both are zero when the header declares no origin.
func (d *Dataset) Origin() (east, north float64) { return d.originE, d.originN }

// Koordsys returns the SOSI coordinate system code, 0 when absent.
func (d *Dataset) Koordsys() int { return d.koordsys }

// EPSG returns the EPSG code derived from the SOSI coordinate system code.
//
// Common values:
//   - 25832: ETRS89 / UTM 32N (KOORDSYS 22, most of southern Norway)
//   - 25833: ETRS89 / UTM 33N (KOORDSYS 23)
//   - 25835: ETRS89 / UTM 35N (KOORDSYS 25, Finnmark)
//
// Returns 0 when the file declares no coordinate system or the code has no
// EPSG mapping. The code is a label only; no reprojection is performed.
func (d *Dataset) EPSG() int { return d.epsg }

// SOSIVersion returns the ..SOSI-VERSJON header value, e.g. "4.5".
func (d *Dataset) SOSIVersion() string { return d.sosiVersion }

// SOSILevel returns the ..SOSI-NIVÅ header value.
func (d *Dataset) SOSILevel() string { return d.sosiLevel }

// ObjectCatalog returns the ..OBJEKTKATALOG header value, e.g. "FKB 4.6".
func (d *Dataset) ObjectCatalog() string { return d.objectCatalog }

// VertDatum returns the vertical datum, e.g. "NN2000".
func (d *Dataset) VertDatum() string { return d.vertDatum }

// Feature represents one geographic object from a SOSI file.
//
// Access feature data via methods:
//   - ID() returns the serial number
//   - Kind() returns the object kind ("PUNKT", "KURVE", "FLATE", "TEKST")
//   - Geometry() returns the spatial representation
//   - Attributes() returns all attributes
//   - Attribute(name) returns a specific attribute value
type Feature struct {
	id         int64
	kind       string
	geometry   Geometry
	attributes map[string]string
}

// ID returns the feature's serial number from the file.
func (f *Feature) ID() int64 {
	return f.id
}

// Kind returns the SOSI object kind.
//
// Standard kinds are "PUNKT", "KURVE", "FLATE" and "TEKST"; other values
// appear only when unknown kinds are retained via ReadOptions.
func (f *Feature) Kind() string {
	return f.kind
}

// Geometry returns the spatial representation of the feature.
func (f *Feature) Geometry() Geometry {
	return f.geometry
}

// Attributes returns all feature attributes as a map.
//
// Common attributes:
//   - "OBJTYPE": Object type from the FKB object catalog
//   - "KVALITET": Capture method and accuracy
//   - "DATO": Capture date
func (f *Feature) Attributes() map[string]string {
	return f.attributes
}

// Attribute returns a specific attribute value by name.
//
// Example:
//
//	if objtype, ok := feature.Attribute("OBJTYPE"); ok {
//	    fmt.Printf("Object type: %s\n", objtype)
//	}
func (f *Feature) Attribute(name string) (string, bool) {
	val, ok := f.attributes[name]
	return val, ok
}

// Geometry represents the spatial representation of a feature.
//
// Coordinates are [easting, northing] pairs in real-world units, with an
// optional third height component when 3D output is requested.
type Geometry struct {
	// Type indicates the geometry type (Point, LineString, or Polygon).
	Type GeometryType

	// Coordinates contains [easting, northing] pairs.
	//
	// For Point: single coordinate pair
	// For LineString: connected points in file order
	// For Polygon: the closed outer ring
	Coordinates [][]float64

	// Holes contains the closed interior rings of a Polygon, empty for
	// other geometry types.
	Holes [][][]float64
}

// GeometryType represents the type of geometry.
type GeometryType int

const (
	// GeometryTypePoint represents a single location.
	GeometryTypePoint GeometryType = iota + 1

	// GeometryTypeLineString represents a line of connected points.
	GeometryTypeLineString

	// GeometryTypePolygon represents a closed area with optional holes.
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

// Diagnostic describes one object-level problem recovered during decoding.
type Diagnostic struct {
	// ObjectID is the serial number of the affected object, 0 when the
	// problem is not tied to a numbered object.
	ObjectID int64

	// Kind is the object kind of the affected object.
	Kind string

	// Reason describes what happened.
	Reason string
}

// convertDataset converts the internal decode result to the public API type.
func convertDataset(internal *parser.Dataset) *Dataset {
	features := make([]Feature, len(internal.Features))
	for i, f := range internal.Features {
		features[i] = Feature{
			id:   f.ID,
			kind: f.Kind,
			geometry: Geometry{
				Type:        GeometryType(f.Geometry.Type),
				Coordinates: f.Geometry.Coordinates,
				Holes:       f.Geometry.Holes,
			},
			attributes: f.Attributes,
		}
	}

	diagnostics := make([]Diagnostic, len(internal.Diagnostics))
	for i, diag := range internal.Diagnostics {
		diagnostics[i] = Diagnostic{
			ObjectID: diag.ObjectID,
			Kind:     diag.Kind,
			Reason:   diag.Reason,
		}
	}

	meta := internal.Metadata
	ds := &Dataset{
		features:      features,
		diagnostics:   diagnostics,
		charset:       meta.Charset,
		unitScale:     meta.UnitScale,
		originE:       meta.OriginE,
		originN:       meta.OriginN,
		koordsys:      meta.Koordsys,
		epsg:          meta.EPSG,
		sosiVersion:   meta.SOSIVersion,
		sosiLevel:     meta.SOSILevel,
		objectCatalog: meta.ObjectCatalog,
		vertDatum:     meta.VertDatum,
	}

	if meta.DeclaredBounds != nil {
		ds.bounds = Bounds{
			MinE: meta.DeclaredBounds.MinE,
			MinN: meta.DeclaredBounds.MinN,
			MaxE: meta.DeclaredBounds.MaxE,
			MaxN: meta.DeclaredBounds.MaxN,
		}
	}

	ds.buildSpatialIndex(meta.DeclaredBounds == nil)

	return ds
}

// buildSpatialIndex creates an R-tree over the features for fast bounding
// box queries, and computes dataset bounds from features when the header
// declared none.
func (d *Dataset) buildSpatialIndex(computeBounds bool) {
	if len(d.features) == 0 {
		return
	}

	rtree := rtreego.NewTree(2, 25, 50)

	var bounds *Bounds
	for _, feature := range d.features {
		if len(feature.geometry.Coordinates) == 0 {
			continue
		}
		fb := featureBounds(feature)

		rtree.Insert(&indexedFeature{feature: feature, bounds: fb})

		if computeBounds {
			if bounds == nil {
				b := fb
				bounds = &b
			} else {
				bounds.Expand(fb)
			}
		}
	}

	d.spatialIndex = &spatialIndex{rtree: rtree}
	if bounds != nil {
		d.bounds = *bounds
	}
}
